// Package match classifies names and route paths against a registry.
package match

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

// Gate is the largest edit distance accepted for a query of n characters.
// Candidates whose length differs from the query by more than the gate are
// not compared at all.
func Gate(n int) int {
	g := n * 3 / 10
	if g < 2 {
		return 2
	}
	return g
}

// Fuzzy is a suggestion for a name the registry does not hold.
type Fuzzy struct {
	Queried     string            `json:"queried"`
	Suggestion  string            `json:"suggestion"`
	Distance    int               `json:"distance"`
	Category    registry.Category `json:"category"`
	File        string            `json:"file"`
	Line        int               `json:"line"`
	Occurrences int               `json:"occurrences"`
}

// Report is the classification of a batch of names. Slices are never nil.
type Report struct {
	Known   []registry.Symbol `json:"known"`
	Fuzzy   []Fuzzy           `json:"fuzzy"`
	Unknown []string          `json:"unknown"`
}

// Clean reports whether nothing was flagged.
func (r Report) Clean() bool {
	return len(r.Fuzzy) == 0 && len(r.Unknown) == 0
}

func emptyReport() Report {
	return Report{Known: []registry.Symbol{}, Fuzzy: []Fuzzy{}, Unknown: []string{}}
}

// Suggest finds the closest known name to query. Distance is the optimal
// string alignment variant of Levenshtein, so an adjacent transposition costs
// one edit. Candidates are visited in the registry's first-seen order and
// only a strictly smaller distance replaces the current best, so ties go to
// the earliest name.
func Suggest(query string, reg *registry.Registry) (Fuzzy, bool) {
	qlen := utf8.RuneCountInString(query)
	gate := Gate(qlen)

	best, bestDist := "", gate+1
	for _, cand := range reg.Names() {
		diff := utf8.RuneCountInString(cand) - qlen
		if diff < 0 {
			diff = -diff
		}
		if diff > gate {
			continue
		}
		d := edlib.OSADamerauLevenshteinDistance(query, cand)
		if d < bestDist {
			best, bestDist = cand, d
		}
	}
	if best == "" {
		return Fuzzy{}, false
	}

	s, _ := reg.Find(best)
	return Fuzzy{
		Queried:     query,
		Suggestion:  best,
		Distance:    bestDist,
		Category:    s.Category,
		File:        s.File,
		Line:        s.Line,
		Occurrences: s.Occurrences,
	}, true
}

// CheckNames sorts names into known, fuzzy and unknown. Duplicate and empty
// queries are ignored. Without a registry there is nothing to check and the
// report is empty; a registry with no symbols reports every name unknown.
func CheckNames(names []string, reg *registry.Registry) Report {
	rep := emptyReport()
	if reg == nil {
		return rep
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		if s, ok := reg.Find(name); ok {
			rep.Known = append(rep.Known, s)
			continue
		}
		if f, ok := Suggest(name, reg); ok {
			rep.Fuzzy = append(rep.Fuzzy, f)
			continue
		}
		rep.Unknown = append(rep.Unknown, name)
	}
	return rep
}
