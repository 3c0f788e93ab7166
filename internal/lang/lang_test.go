package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		kind Kind
		lang string
	}{
		{"src/app.js", Tree, JavaScript},
		{"src/App.JSX", Tree, JavaScript},
		{"server/index.mjs", Tree, JavaScript},
		{"lib/api.ts", Tree, TypeScript},
		{"ui/Button.tsx", Tree, TSX},
		{"tools/build.py", Heuristic, Python},
		{"cmd/main.go", Heuristic, Go},
		{"src/lib.rs", Heuristic, Rust},
		{"public/index.html", Markup, HTML},
		{"public/old.htm", Markup, HTML},
		{"components/Card.vue", Markup, Vue},
		{"routes/+page.svelte", Markup, Svelte},
		{"README.md", None, ""},
		{"Makefile", None, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got := ForFile(tt.path)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.lang, got.Language)
		})
	}
}

func TestDispatcher_Scripts(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(map[string]string{
		"kt":   "extract/kotlin.risor",
		".rb":  "extract/ruby.risor",
		".js":  "extract/override.risor",
		".php": "",
	})

	kt := d.ForFile("app/Main.kt")
	assert.Equal(t, Script, kt.Kind)
	assert.Equal(t, "kt", kt.Language)
	assert.Equal(t, "extract/kotlin.risor", kt.ScriptPath)

	assert.Equal(t, Script, d.ForFile("lib/x.rb").Kind)
	assert.Equal(t, Tree, d.ForFile("app.js").Kind, "built-in extensions cannot be claimed")
	assert.Equal(t, None, d.ForFile("index.php").Kind)
}

func TestStrategy_Page(t *testing.T) {
	t.Parallel()

	assert.True(t, ForFile("index.html").Page())
	assert.False(t, ForFile("Card.vue").Page())
	assert.False(t, ForFile("app.js").Page())
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tree", Tree.String())
	assert.Equal(t, "script", Script.String())
	assert.Equal(t, "none", None.String())
}
