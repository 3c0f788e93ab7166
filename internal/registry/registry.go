// Package registry holds the symbol registry built by a scan: a fixed set of
// categories mapping names to their first-seen location and occurrence count,
// a route table, and page records for markup files.
package registry

import (
	"strings"
	"time"
)

// Category is one of the fixed symbol kinds.
type Category string

const (
	Functions Category = "functions"
	Types     Category = "types"
	Variables Category = "variables"
	Exports   Category = "exports"
	Routes    Category = "routes"
	Pages     Category = "pages"
)

// Categories is the fixed enumeration order. Lookups that report a single
// category for a name use the first category in this order that holds it.
var Categories = []Category{Functions, Types, Variables, Exports, Routes, Pages}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// ParseCategory accepts a category name in plural or singular form
// ("function", "class" and "type" all resolve sensibly).
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "functions", "function", "func", "method":
		return Functions, true
	case "types", "type", "class", "classes":
		return Types, true
	case "variables", "variable", "var", "const", "constant":
		return Variables, true
	case "exports", "export":
		return Exports, true
	case "routes", "route":
		return Routes, true
	case "pages", "page":
		return Pages, true
	}
	return "", false
}

// MountMethod is the sentinel method of prefix-mount route entries.
const MountMethod = "MOUNT"

// ScannedFile describes one file visited by a scan.
type ScannedFile struct {
	Path     string    `json:"path"`
	Language string    `json:"language"`
	Lines    int       `json:"lines"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Symbol is a registry entry. File and Line record the first occurrence and
// are never updated; Occurrences counts every observation in the scan.
type Symbol struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Occurrences int      `json:"occurrences"`

	// seq is the global first-seen position across all categories.
	seq int
}

// Route is a literal route declaration or a prefix mount.
type Route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	File   string `json:"file"`
	Line   int    `json:"line"`
}

// Key is the route's identity in the route table and the routes category.
func (r Route) Key() string {
	return r.Method + " " + r.Path
}

// IsMount reports whether r is a prefix-mount declaration.
func (r Route) IsMount() bool {
	return r.Method == MountMethod
}

// Page is the record kept for a markup file, keyed by the file's base name.
type Page struct {
	Name    string   `json:"name"`
	File    string   `json:"file"`
	Title   string   `json:"title,omitempty"`
	Scripts []string `json:"scripts"`
}

// Metadata describes the scan that produced a registry. It is serialized
// beside the category maps but is never a symbol category.
type Metadata struct {
	Project   string    `json:"project"`
	ScanID    string    `json:"scanId,omitempty"`
	ScannedAt time.Time `json:"scannedAt"`
	ElapsedMS int64     `json:"elapsedMs"`
	FileCount int       `json:"fileCount"`
}

// Registry is the accumulated result of one scan. It is built by a single
// owner and treated as read-only once the scan returns.
type Registry struct {
	Meta Metadata

	symbols map[Category]map[string]*Symbol
	order   []*Symbol
	routes  map[string]*Route
	rorder  []*Route
	pages   map[string]*Page
	porder  []*Page
}

// New returns an empty registry with every category present.
func New() *Registry {
	r := &Registry{
		symbols: make(map[Category]map[string]*Symbol, len(Categories)),
		routes:  make(map[string]*Route),
		pages:   make(map[string]*Page),
	}
	for _, c := range Categories {
		r.symbols[c] = make(map[string]*Symbol)
	}
	return r
}

// AddSymbol records one occurrence of (category, name). A new entry takes the
// given file and line with one occurrence; an existing entry only has its
// occurrence count incremented. It reports whether the entry was new.
func (r *Registry) AddSymbol(cat Category, name, file string, line int) bool {
	m, ok := r.symbols[cat]
	if !ok || name == "" {
		return false
	}
	if s, ok := m[name]; ok {
		s.Occurrences++
		return false
	}
	s := &Symbol{
		Name:        name,
		Category:    cat,
		File:        file,
		Line:        line,
		Occurrences: 1,
		seq:         len(r.order),
	}
	m[name] = s
	r.order = append(r.order, s)
	return true
}

// AddRoute records a route declaration. The first declaration of a key wins
// the route table; later duplicates only count as occurrences.
func (r *Registry) AddRoute(rt Route) {
	key := rt.Key()
	if !r.AddSymbol(Routes, key, rt.File, rt.Line) {
		return
	}
	c := rt
	r.routes[key] = &c
	r.rorder = append(r.rorder, &c)
}

// AddPage records a markup page under its base name. Pages sharing a base
// name collide and the first one wins.
func (r *Registry) AddPage(p Page) {
	if !r.AddSymbol(Pages, p.Name, p.File, 1) {
		return
	}
	c := p
	c.Scripts = append([]string(nil), p.Scripts...)
	r.pages[p.Name] = &c
	r.porder = append(r.porder, &c)
}

// Lookup returns the entry for (category, name).
func (r *Registry) Lookup(cat Category, name string) (Symbol, bool) {
	if r == nil {
		return Symbol{}, false
	}
	s, ok := r.symbols[cat][name]
	if !ok {
		return Symbol{}, false
	}
	return *s, true
}

// Find returns the entry for name in the first category, in enumeration
// order, that holds it.
func (r *Registry) Find(name string) (Symbol, bool) {
	if r == nil {
		return Symbol{}, false
	}
	for _, c := range Categories {
		if s, ok := r.symbols[c][name]; ok {
			return *s, true
		}
	}
	return Symbol{}, false
}

// Names returns the flat set of names across all categories in first-seen
// order. A name present in several categories appears once.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(r.order))
	names := make([]string, 0, len(r.order))
	for _, s := range r.order {
		if _, dup := seen[s.Name]; dup {
			continue
		}
		seen[s.Name] = struct{}{}
		names = append(names, s.Name)
	}
	return names
}

// All returns every entry across categories in global first-seen order.
func (r *Registry) All() []Symbol {
	if r == nil {
		return nil
	}
	out := make([]Symbol, len(r.order))
	for i, s := range r.order {
		out[i] = *s
	}
	return out
}

// Symbols returns the entries of one category in first-seen order.
func (r *Registry) Symbols(cat Category) []Symbol {
	if r == nil {
		return nil
	}
	out := []Symbol{}
	for _, s := range r.order {
		if s.Category == cat {
			out = append(out, *s)
		}
	}
	return out
}

// Len returns the number of distinct names in a category.
func (r *Registry) Len(cat Category) int {
	if r == nil {
		return 0
	}
	return len(r.symbols[cat])
}

// Routes returns the route table, leaves and mounts, in declaration order.
func (r *Registry) Routes() []Route {
	if r == nil {
		return nil
	}
	out := make([]Route, len(r.rorder))
	for i, rt := range r.rorder {
		out[i] = *rt
	}
	return out
}

// Pages returns the page records in first-seen order.
func (r *Registry) Pages() []Page {
	if r == nil {
		return nil
	}
	out := make([]Page, len(r.porder))
	for i, p := range r.porder {
		out[i] = *p
		out[i].Scripts = append([]string(nil), p.Scripts...)
	}
	return out
}

// Page returns the page record stored under a base name.
func (r *Registry) Page(name string) (Page, bool) {
	if r == nil {
		return Page{}, false
	}
	p, ok := r.pages[name]
	if !ok {
		return Page{}, false
	}
	return *p, true
}

// Empty reports whether the registry holds no symbols at all.
func (r *Registry) Empty() bool {
	return r == nil || len(r.order) == 0
}
