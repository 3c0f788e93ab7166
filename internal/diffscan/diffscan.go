// Package diffscan pulls the added lines out of a unified diff and harvests
// the identifiers and API route literals they reference, so a post-edit check
// only looks at what was just written.
package diffscan

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/InfiniQuest-App/wisdom-store/internal/lang"
)

// Added is one line introduced by the diff.
type Added struct {
	File string
	Line int
	Text string
}

// Candidates are what the added text refers to.
type Candidates struct {
	// Names are free function-call names not declared in the added text,
	// in first-seen order.
	Names []string `json:"names"`
	// Routes are quoted path literals under the API prefix, in first-seen
	// order.
	Routes []string `json:"routes"`
}

// Empty reports whether nothing was harvested.
func (c Candidates) Empty() bool {
	return len(c.Names) == 0 && len(c.Routes) == 0
}

// AddedLines parses a unified (possibly multi-file) diff and returns every
// added line with its line number in the new file. Files the indexer has no
// strategy for (docs, data, config) are left out.
func AddedLines(diffText []byte) ([]Added, error) {
	files, err := godiff.ParseMultiFileDiff(diffText)
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}
	var out []Added
	for _, fd := range files {
		name := newName(fd)
		if lang.ForFile(name).Kind == lang.None {
			continue
		}
		for _, h := range fd.Hunks {
			line := int(h.NewStartLine)
			sc := bufio.NewScanner(bytes.NewReader(h.Body))
			sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
			for sc.Scan() {
				text := sc.Text()
				switch {
				case strings.HasPrefix(text, "+"):
					out = append(out, Added{File: name, Line: line, Text: text[1:]})
					line++
				case strings.HasPrefix(text, "-"), strings.HasPrefix(text, `\`):
				default:
					line++
				}
			}
		}
	}
	return out, nil
}

// newName strips the a/ b/ prefixes git puts on diff paths.
func newName(fd *godiff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	for _, p := range []string{"b/", "a/"} {
		if strings.HasPrefix(name, p) {
			return name[len(p):]
		}
	}
	return name
}

var (
	callRe  = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*\(`)
	routeRe = regexp.MustCompile("[\"'`](/[^\"'`\\s]*)[\"'`]")

	declRes = []*regexp.Regexp{
		regexp.MustCompile(`\bfunction\s*\*?\s*([A-Za-z_$][\w$]*)`),
		regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)`),
		regexp.MustCompile(`\bclass\s+([A-Za-z_$][\w$]*)`),
		regexp.MustCompile(`^\s*def\s+([A-Za-z_]\w*)`),
		regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)`),
		regexp.MustCompile(`^\s*fn\s+([A-Za-z_]\w*)`),
		// object or class shorthand methods: name(args) {
		regexp.MustCompile(`^\s*(?:async\s+|static\s+|get\s+|set\s+)*([A-Za-z_$][\w$]*)\s*\([^)]*\)\s*\{`),
	}
)

// keywords look like calls in every language.
var keywords = set(
	"if", "for", "while", "switch", "catch", "function", "return", "typeof",
	"await", "new", "super", "import", "constructor", "def", "func", "fn",
	"elif", "and", "or", "not", "in", "match", "loop", "with", "assert", "yield",
)

// builtins are the predeclared callables of each language, keyed by the
// language tag of the file the line was added to.
var builtins = map[string]map[string]bool{
	lang.JavaScript: set(
		"require", "setTimeout", "setInterval", "clearTimeout", "clearInterval",
		"parseInt", "parseFloat", "isNaN", "isFinite", "fetch", "alert", "confirm",
		"String", "Number", "Boolean", "Array", "Object", "Promise", "Date", "Error",
		"TypeError", "Symbol", "RegExp", "Map", "Set", "WeakMap", "WeakSet", "BigInt",
		"encodeURIComponent", "decodeURIComponent", "encodeURI", "decodeURI",
		"structuredClone", "queueMicrotask", "requestAnimationFrame",
	),
	lang.Python: set(
		"print", "len", "range", "str", "int", "float", "bool", "bytes", "list",
		"dict", "set", "tuple", "frozenset", "isinstance", "issubclass", "sorted",
		"reversed", "open", "enumerate", "zip", "map", "filter", "sum", "min", "max",
		"abs", "any", "all", "type", "getattr", "setattr", "hasattr", "delattr",
		"iter", "next", "repr", "format", "round", "input", "id", "hash", "vars",
		"callable", "divmod", "pow", "chr", "ord", "hex", "bin", "oct", "object",
		"property", "staticmethod", "classmethod", "Exception", "ValueError",
		"TypeError", "KeyError", "RuntimeError", "NotImplementedError",
	),
	lang.Go: set(
		"append", "make", "copy", "delete", "panic", "recover", "new", "cap",
		"close", "len", "print", "println", "complex", "real", "imag", "min",
		"max", "clear", "string", "byte", "rune", "int", "int8", "int16", "int32",
		"int64", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "bool", "error", "any",
	),
	lang.Rust: set(
		"Some", "Ok", "Err", "Box", "Vec", "String", "Option", "Result", "Rc",
		"Arc", "from", "into", "drop", "Default", "Cell", "RefCell",
	),
}

func init() {
	for _, dialect := range []string{lang.TypeScript, lang.TSX, lang.HTML, lang.Vue, lang.Svelte} {
		builtins[dialect] = builtins[lang.JavaScript]
	}
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// notCall reports whether a call-shaped name in a file of the given
// language is a keyword or builtin. An unknown language checks every
// builtin table.
func notCall(language, name string) bool {
	if keywords[name] {
		return true
	}
	if b, ok := builtins[language]; ok {
		return b[name]
	}
	for _, b := range builtins {
		if b[name] {
			return true
		}
	}
	return false
}

// Harvest collects candidate names and route literals from added lines.
// Calls whose callee is declared anywhere in the same added text are not
// candidates, nor are member or path calls (obj.method(), Type::new()) or the
// keywords and builtins of the line's language.
func Harvest(lines []Added, apiPrefix string) Candidates {
	declared := make(map[string]bool)
	for _, a := range lines {
		for _, re := range declRes {
			for _, m := range re.FindAllStringSubmatch(a.Text, -1) {
				declared[m[1]] = true
			}
		}
	}

	var c Candidates
	seenName := make(map[string]bool)
	seenRoute := make(map[string]bool)
	for _, a := range lines {
		text := stripLineComment(a.Text)
		language := lang.ForFile(a.File).Language
		for _, loc := range callRe.FindAllStringSubmatchIndex(text, -1) {
			if loc[0] > 0 && isIdentOrDot(text[loc[0]-1]) {
				continue
			}
			if loc[0] > 1 && text[loc[0]-2:loc[0]] == "::" {
				continue
			}
			name := text[loc[2]:loc[3]]
			if notCall(language, name) || declared[name] || seenName[name] {
				continue
			}
			seenName[name] = true
			c.Names = append(c.Names, name)
		}
		for _, m := range routeRe.FindAllStringSubmatch(text, -1) {
			path := m[1]
			if !underPrefix(path, apiPrefix) || seenRoute[path] {
				continue
			}
			seenRoute[path] = true
			c.Routes = append(c.Routes, path)
		}
	}
	return c
}

// Scan is AddedLines followed by Harvest.
func Scan(diffText []byte, apiPrefix string) (Candidates, error) {
	lines, err := AddedLines(diffText)
	if err != nil {
		return Candidates{}, err
	}
	return Harvest(lines, apiPrefix), nil
}

func isIdentOrDot(ch byte) bool {
	return ch == '.' || ch == '$' || ch == '_' ||
		ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func underPrefix(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}

// stripLineComment drops a trailing // or # comment that is not inside a
// string literal.
func stripLineComment(s string) string {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'' || ch == '`':
			quote = ch
		case ch == '#' && (i == 0 || s[i-1] == ' ' || s[i-1] == '\t'):
			return s[:i]
		case ch == '/' && i+1 < len(s) && s[i+1] == '/':
			return s[:i]
		}
	}
	return s
}
