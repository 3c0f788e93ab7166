package extract

import (
	"regexp"
	"strings"

	"github.com/InfiniQuest-App/wisdom-store/internal/lang"
	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

// pattern is a single-line rule; group 1 captures the name.
type pattern struct {
	cat registry.Category
	re  *regexp.Regexp
}

var heuristics = map[string][]pattern{
	lang.Python: {
		{registry.Functions, regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)},
		{registry.Types, regexp.MustCompile(`^\s*class\s+([A-Za-z_]\w*)\s*[(:]`)},
		// Only unindented ALL-CAPS assignments count as constants.
		{registry.Variables, regexp.MustCompile(`^([A-Z][A-Z0-9_]*)\s*(?::[^=]*)?=(?:[^=]|$)`)},
	},
	lang.Go: {
		{registry.Functions, regexp.MustCompile(`^func\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)\s*[\[(]`)},
		{registry.Types, regexp.MustCompile(`^type\s+([A-Za-z_]\w*)\b`)},
		{registry.Variables, regexp.MustCompile(`^(?:const|var)\s+([A-Za-z_]\w*)\b`)},
	},
	lang.Rust: {
		{registry.Functions, regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:(?:const|async|unsafe|extern\s+"[^"]*")\s+)*fn\s+([A-Za-z_]\w*)`)},
		{registry.Types, regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum|trait|union|type)\s+([A-Za-z_]\w*)`)},
		{registry.Variables, regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?(?:const|static)\s+(?:mut\s+)?([A-Za-z_]\w*)\s*:`)},
	},
	lang.JavaScript: jsPatterns,
	lang.TypeScript: append([]pattern{
		{registry.Types, regexp.MustCompile(`^\s*(?:export\s+)?(?:declare\s+)?(?:interface|enum|type)\s+([A-Za-z_$][\w$]*)`)},
	}, jsPatterns...),
}

var jsPatterns = []pattern{
	{registry.Functions, regexp.MustCompile(`^\s*(?:export\s+(?:default\s+)?)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*[(<]`)},
	{registry.Functions, regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*(?::[^=]+)?=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*=>|[A-Za-z_$][\w$]*\s*=>)`)},
	{registry.Variables, regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*(?::[^=]+)?=(?:[^=>]|$)`)},
	{registry.Types, regexp.MustCompile(`^\s*(?:export\s+(?:default\s+)?)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)},
	{registry.Exports, regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function\s*\*?|class|const|let|var|interface|type|enum)\s+([A-Za-z_$][\w$]*)`)},
}

// Heuristic extracts declarations from src one line at a time. It tracks no
// braces or indentation across lines and is expected to miss symbols. The
// tsx dialect uses the TypeScript rules.
func Heuristic(language string, src []byte, apiPrefix string) Result {
	if language == lang.TSX {
		language = lang.TypeScript
	}
	rules, ok := heuristics[language]
	if !ok {
		return Result{}
	}

	var res Result
	text := string(src)
	for i, line := range strings.Split(text, "\n") {
		for _, p := range rules {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := m[1]
			if language == lang.Python && p.cat == registry.Functions && strings.HasPrefix(name, "_") {
				continue
			}
			if p.cat == registry.Variables && isFunctionLine(language, line) {
				continue
			}
			res.add(p.cat, name, i+1)
		}
	}

	if language == lang.JavaScript || language == lang.TypeScript {
		ScanLines(text, apiPrefix, &res)
	}
	return res
}

// isFunctionLine keeps a declarator that the function rule already claimed
// out of the variable category.
func isFunctionLine(language, line string) bool {
	if language != lang.JavaScript && language != lang.TypeScript {
		return false
	}
	return jsPatterns[1].re.MatchString(line)
}
