package runtime

import (
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/InfiniQuest-App/wisdom-store/internal/syntax"
)

// scriptGrammars are the grammars only scripts can parse with; the built-in
// extractors never use them. Lazily initialized on first call via sync.Once.
var (
	scriptGrammars map[string]*sitter.Language
	grammarsOnce   sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		scriptGrammars = map[string]*sitter.Language{
			"go":     golang.GetLanguage(),
			"python": python.GetLanguage(),
			"rust":   rust.GetLanguage(),
			"c":      c.GetLanguage(),
			"cpp":    cpp.GetLanguage(),
			"java":   java.GetLanguage(),
			"php":    php.GetLanguage(),
			"ruby":   ruby.GetLanguage(),
		}
	})
}

// ParserForLanguage returns the tree-sitter Language scripts get for a
// dialect name: first the ones the extractors use, then the script-only set.
func ParserForLanguage(lang string) (*sitter.Language, bool) {
	if l, ok := syntax.GrammarFor(lang); ok {
		return l, true
	}
	initGrammars()
	l, ok := scriptGrammars[lang]
	return l, ok
}

// ScriptLanguages lists the script-only dialect names, sorted.
func ScriptLanguages() []string {
	initGrammars()
	out := make([]string, 0, len(scriptGrammars))
	for name := range scriptGrammars {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
