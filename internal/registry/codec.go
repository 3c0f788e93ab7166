package registry

import (
	"encoding/json"
	"fmt"
	"sort"
)

// MetaKey is the key of the metadata block in the persisted record. It sits
// at the same level as the category maps and must be skipped by any lookup
// that ranges over "all categories".
const MetaKey = "_meta"

// Restore inserts a previously persisted entry verbatim. Entries must be
// restored in their original first-seen order.
func (r *Registry) Restore(s Symbol) {
	m, ok := r.symbols[s.Category]
	if !ok || s.Name == "" {
		return
	}
	if _, dup := m[s.Name]; dup {
		return
	}
	c := s
	c.seq = len(r.order)
	m[s.Name] = &c
	r.order = append(r.order, &c)
}

// RestoreRoute inserts a persisted route table row without touching the
// routes category, which is restored through Restore.
func (r *Registry) RestoreRoute(rt Route) {
	key := rt.Key()
	if _, dup := r.routes[key]; dup {
		return
	}
	c := rt
	r.routes[key] = &c
	r.rorder = append(r.rorder, &c)
}

// RestorePage inserts a persisted page record without touching the pages
// category.
func (r *Registry) RestorePage(p Page) {
	if _, dup := r.pages[p.Name]; dup {
		return
	}
	c := p
	r.pages[p.Name] = &c
	r.porder = append(r.porder, &c)
}

type entryJSON struct {
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Occurrences int      `json:"occurrences"`
	Seq         int      `json:"seq"`
	Method      string   `json:"method,omitempty"`
	Path        string   `json:"path,omitempty"`
	Title       string   `json:"title,omitempty"`
	Scripts     []string `json:"scripts,omitempty"`
}

// MarshalJSON writes the persisted record: one object per category plus the
// metadata block under MetaKey.
func (r *Registry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(Categories)+1)
	out[MetaKey] = r.Meta
	for _, c := range Categories {
		out[string(c)] = map[string]entryJSON{}
	}
	for _, s := range r.order {
		e := entryJSON{File: s.File, Line: s.Line, Occurrences: s.Occurrences, Seq: s.seq}
		switch s.Category {
		case Routes:
			if rt, ok := r.routes[s.Name]; ok {
				e.Method, e.Path = rt.Method, rt.Path
			}
		case Pages:
			if p, ok := r.pages[s.Name]; ok {
				e.Title, e.Scripts = p.Title, p.Scripts
			}
		}
		out[string(s.Category)].(map[string]entryJSON)[s.Name] = e
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a persisted record. Unknown top-level keys are ignored;
// the metadata block is never treated as a category.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("registry: decode record: %w", err)
	}
	*r = *New()
	if m, ok := raw[MetaKey]; ok {
		if err := json.Unmarshal(m, &r.Meta); err != nil {
			return fmt.Errorf("registry: decode %s: %w", MetaKey, err)
		}
	}

	type pending struct {
		cat  Category
		name string
		e    entryJSON
	}
	var all []pending
	for key, msg := range raw {
		if key == MetaKey {
			continue
		}
		cat := Category(key)
		if !cat.Valid() {
			continue
		}
		var entries map[string]entryJSON
		if err := json.Unmarshal(msg, &entries); err != nil {
			return fmt.Errorf("registry: decode %s: %w", key, err)
		}
		for name, e := range entries {
			all = append(all, pending{cat: cat, name: name, e: e})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].e.Seq < all[j].e.Seq })

	for _, p := range all {
		r.Restore(Symbol{
			Name:        p.name,
			Category:    p.cat,
			File:        p.e.File,
			Line:        p.e.Line,
			Occurrences: p.e.Occurrences,
		})
		switch p.cat {
		case Routes:
			r.RestoreRoute(Route{Method: p.e.Method, Path: p.e.Path, File: p.e.File, Line: p.e.Line})
		case Pages:
			r.RestorePage(Page{Name: p.name, File: p.e.File, Title: p.e.Title, Scripts: p.e.Scripts})
		}
	}
	return nil
}
