package wisdom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

// writeTree creates files (slash paths relative to root) with their contents.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func greetProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.js": "// helpers\nconst limit = 10\nfunction greet(name) { return name }\n",
		"src/b.js": strings.Repeat("// pad\n", 8) + "function greet(x) { return x }\n",
		"src/routes.js": "const router = express.Router()\n" +
			"router.get('/api/users/:id', show)\n" +
			"router.post('/api/users', create)\n" +
			"app.use('/api/legacy', legacy)\n",
	})
	return root
}

func TestScan_FirstSeenLocationAndCount(t *testing.T) {
	t.Parallel()
	res := Scan(greetProject(t), ScanOptions{})

	greet, ok := res.Registry.Lookup(registry.Functions, "greet")
	require.True(t, ok)
	assert.Equal(t, "src/a.js", greet.File)
	assert.Equal(t, 3, greet.Line)
	assert.Equal(t, 2, greet.Occurrences)

	_, ok = res.Registry.Lookup(registry.Variables, "limit")
	assert.True(t, ok)
}

func TestScan_FilesAndMetadata(t *testing.T) {
	t.Parallel()
	root := greetProject(t)
	res := Scan(root, ScanOptions{})

	var paths []string
	for _, f := range res.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"src/a.js", "src/b.js", "src/routes.js"}, paths)
	assert.Equal(t, 3, res.Files[0].Lines)
	assert.Equal(t, "javascript", res.Files[0].Language)

	meta := res.Registry.Meta
	abs, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, abs, meta.Project)
	assert.NotEmpty(t, meta.ScanID)
	assert.Equal(t, 3, meta.FileCount)
	assert.False(t, meta.ScannedAt.IsZero())
	assert.Empty(t, res.Failures())
	assert.False(t, res.Truncated)
}

func TestScan_Routes(t *testing.T) {
	t.Parallel()
	res := Scan(greetProject(t), ScanOptions{})

	routes := res.Registry.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, registry.Route{Method: "GET", Path: "/api/users/:id", File: "src/routes.js", Line: 2}, routes[0])
	assert.Equal(t, "POST", routes[1].Method)
	assert.True(t, routes[2].IsMount())
}

func TestScan_Deterministic(t *testing.T) {
	t.Parallel()
	root := greetProject(t)
	writeTree(t, root, map[string]string{
		"web/index.html": "<html><head><title>Home</title><script src=\"/js/app.js\"></script></head>\n" +
			"<body><script>\nfunction boot() {}\n</script></body></html>\n",
		"svc/tool.py": "MAX_SIZE = 3\ndef run():\n    pass\n",
	})

	first := Scan(root, ScanOptions{})
	second := Scan(root, ScanOptions{})

	assert.Equal(t, first.Registry.All(), second.Registry.All())
	assert.Equal(t, first.Registry.Routes(), second.Registry.Routes())
	assert.Equal(t, first.Registry.Pages(), second.Registry.Pages())
	assert.Equal(t, first.Files, second.Files)
	assert.NotEqual(t, first.Registry.Meta.ScanID, second.Registry.Meta.ScanID)
}

func TestScan_ExcludedDirectoriesContributeNothing(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/keep.js":                  "function kept() {}\n",
		"node_modules/lib/index.js":    "function fromModules() {}\n",
		"dist/bundle.js":               "function fromDist() {}\n",
		"My Backup/old.js":             "function fromBackup() {}\n",
		"site-backup-2024/a.js":        "function fromSiteBackup() {}\n",
		".cache/x.js":                  "function fromHidden() {}\n",
		".well-known/handler.js":       "function fromWellKnown() {}\n",
		"generated/out.js":             "function fromIgnored() {}\n",
		"src/generated/deep.js":        "function fromIgnoredDeep() {}\n",
		"fixtures/skip.js":             "function fromExcludeGlob() {}\n",
		".gitignore":                   "# build output\ngenerated\n*.log\n/abs/path\n",
	})

	res := Scan(root, ScanOptions{Exclude: []string{"fixtures/**"}})

	var paths []string
	for _, f := range res.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{".well-known/handler.js", "src/keep.js"}, paths)
	assert.Equal(t, []string{"fromWellKnown", "kept"}, res.Registry.Names())
}

func TestScan_ParseFailureDropsOnlyThatFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.js": "function good() {}\n",
		"b.js": "function broken( {\n",
		"c.js": "function alsoGood() {}\n",
	})

	res := Scan(root, ScanOptions{})

	assert.Equal(t, []string{"good", "alsoGood"}, res.Registry.Names())
	fails := res.Failures()
	require.Len(t, fails, 1)
	assert.Equal(t, "b.js", fails[0].Path)
	assert.Equal(t, StatusFailed, fails[0].Status)
	assert.Error(t, fails[0].Err)
	// The file was still visited.
	assert.Len(t, res.Files, 3)
}

func TestScan_OversizedFileSkipped(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"big.js":   "function big() {}\n" + strings.Repeat("// filler\n", 20),
		"small.js": "function s() {}\n",
	})

	res := Scan(root, ScanOptions{MaxFileSize: 64})

	assert.Equal(t, []string{"s"}, res.Registry.Names())
	fails := res.Failures()
	require.Len(t, fails, 1)
	assert.Equal(t, "big.js", fails[0].Path)
	assert.Equal(t, StatusSkipped, fails[0].Status)
}

func TestScan_FileLimitTruncates(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.js": "function a() {}\n",
		"b.js": "function b() {}\n",
		"c.js": "function c() {}\n",
	})

	res := Scan(root, ScanOptions{MaxFiles: 2})

	assert.True(t, res.Truncated)
	assert.Len(t, res.Files, 2)
	assert.Equal(t, []string{"a", "b"}, res.Registry.Names())
}

func TestScan_MarkupPage(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"public/index.html": "<!DOCTYPE html>\n<html>\n<head>\n<title>Dashboard</title>\n" +
			"<script src=\"/js/app.js\"></script>\n<script src=\"https://cdn.example.com/x.js\"></script>\n" +
			"</head>\n<body>\n<script>\nfunction renderChart() {}\n</script>\n</body>\n</html>\n",
	})

	res := Scan(root, ScanOptions{})

	page, ok := res.Registry.Page("index.html")
	require.True(t, ok)
	assert.Equal(t, "Dashboard", page.Title)
	assert.Equal(t, []string{"/js/app.js"}, page.Scripts)

	fn, ok := res.Registry.Lookup(registry.Functions, "renderChart")
	require.True(t, ok)
	assert.Equal(t, "public/index.html", fn.File)
	assert.Equal(t, 10, fn.Line)
}

func TestScan_ScriptStrategy(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"defs/core.def": "def alpha\ndef beta\n",
	})
	scripts := fstest.MapFS{
		"def.risor": &fstest.MapFile{Data: []byte(`
for i, line := range lines {
    if strings.has_prefix(line, "def ") {
        add_symbol("functions", strings.trim_space(line[4:]), i + 1)
    }
}
`)},
	}

	res := Scan(root, ScanOptions{
		Scripts:   map[string]string{".def": "def.risor"},
		ScriptsFS: scripts,
	})

	require.Empty(t, res.Failures())
	beta, ok := res.Registry.Lookup(registry.Functions, "beta")
	require.True(t, ok)
	assert.Equal(t, "defs/core.def", beta.File)
	assert.Equal(t, 2, beta.Line)
}

func TestScan_MissingScriptFails(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"x.def": "def a\n"})

	res := Scan(root, ScanOptions{Scripts: map[string]string{".def": "nowhere.risor"}})

	fails := res.Failures()
	require.Len(t, fails, 1)
	assert.Equal(t, StatusFailed, fails[0].Status)
	assert.True(t, res.Registry.Empty())
}

func TestScan_EmptyAndMissingRoot(t *testing.T) {
	t.Parallel()

	res := Scan(t.TempDir(), ScanOptions{})
	assert.Empty(t, res.Files)
	assert.True(t, res.Registry.Empty())

	res = Scan(filepath.Join(t.TempDir(), "absent"), ScanOptions{})
	assert.Empty(t, res.Files)
	require.Len(t, res.Reports, 1)
	assert.Equal(t, StatusSkipped, res.Reports[0].Status)
}

func TestCountLines(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, countLines(nil))
	assert.Equal(t, 1, countLines([]byte("a")))
	assert.Equal(t, 1, countLines([]byte("a\n")))
	assert.Equal(t, 2, countLines([]byte("a\nb")))
}
