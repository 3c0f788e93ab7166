// Package lang maps file extensions to extraction strategies.
package lang

import (
	"path/filepath"
	"strings"
)

// Kind selects which extractor handles a file.
type Kind int

const (
	None Kind = iota
	Tree
	Heuristic
	Markup
	Script
)

func (k Kind) String() string {
	switch k {
	case Tree:
		return "tree"
	case Heuristic:
		return "heuristic"
	case Markup:
		return "markup"
	case Script:
		return "script"
	}
	return "none"
}

// Canonical language tags.
const (
	JavaScript = "javascript"
	TypeScript = "typescript"
	TSX        = "tsx"
	Python     = "python"
	Go         = "go"
	Rust       = "rust"
	HTML       = "html"
	Vue        = "vue"
	Svelte     = "svelte"
)

// Strategy is the tagged variant chosen for a file. ScriptPath is set only
// for the Script kind.
type Strategy struct {
	Kind       Kind
	Language   string
	ScriptPath string
}

// Page reports whether markup files of this language produce page entries.
func (s Strategy) Page() bool {
	return s.Kind == Markup && s.Language == HTML
}

var builtin = map[string]Strategy{
	".js":     {Kind: Tree, Language: JavaScript},
	".jsx":    {Kind: Tree, Language: JavaScript},
	".mjs":    {Kind: Tree, Language: JavaScript},
	".cjs":    {Kind: Tree, Language: JavaScript},
	".ts":     {Kind: Tree, Language: TypeScript},
	".mts":    {Kind: Tree, Language: TypeScript},
	".cts":    {Kind: Tree, Language: TypeScript},
	".tsx":    {Kind: Tree, Language: TSX},
	".py":     {Kind: Heuristic, Language: Python},
	".go":     {Kind: Heuristic, Language: Go},
	".rs":     {Kind: Heuristic, Language: Rust},
	".html":   {Kind: Markup, Language: HTML},
	".htm":    {Kind: Markup, Language: HTML},
	".vue":    {Kind: Markup, Language: Vue},
	".svelte": {Kind: Markup, Language: Svelte},
}

// Dispatcher resolves a file path to its Strategy. Project scripts may claim
// extensions that have no built-in strategy.
type Dispatcher struct {
	scripts map[string]Strategy
}

// NewDispatcher builds a dispatcher. scripts maps an extension (with or
// without the leading dot) to a Risor script path; entries that collide with
// a built-in extension are ignored.
func NewDispatcher(scripts map[string]string) *Dispatcher {
	d := &Dispatcher{scripts: make(map[string]Strategy, len(scripts))}
	for ext, path := range scripts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || path == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, taken := builtin[ext]; taken {
			continue
		}
		d.scripts[ext] = Strategy{Kind: Script, Language: strings.TrimPrefix(ext, "."), ScriptPath: path}
	}
	return d
}

// ForFile returns the strategy for path, or a None strategy when the
// extension is unknown.
func (d *Dispatcher) ForFile(path string) Strategy {
	ext := strings.ToLower(filepath.Ext(path))
	if s, ok := builtin[ext]; ok {
		return s
	}
	if d != nil {
		if s, ok := d.scripts[ext]; ok {
			return s
		}
	}
	return Strategy{Kind: None}
}

// ForFile resolves path against the built-in table only.
func ForFile(path string) Strategy {
	return (*Dispatcher)(nil).ForFile(path)
}
