package match

import (
	"strings"

	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

// Verdict is how a route query was resolved.
type Verdict int

const (
	Unknown Verdict = iota
	Exact
	Pattern
	Prefix
	OpaqueMount
)

func (v Verdict) String() string {
	switch v {
	case Exact:
		return "exact"
	case Pattern:
		return "pattern"
	case Prefix:
		return "prefix"
	case OpaqueMount:
		return "opaque-mount"
	}
	return "unknown"
}

// Normalized segment markers. A declared parameter or splat stands for any
// value; numeric segments on either side only meet each other.
const (
	wildcard = "*"
	number   = "#"
)

// RouteTable is the route half of a registry prepared for lookups.
type RouteTable struct {
	leaves []string
	split  [][]string
	exact  map[string]bool
	mounts []mount
}

type mount struct {
	path     string
	resolved bool
}

// NewRouteTable indexes the leaf routes and mounts of reg.
func NewRouteTable(reg *registry.Registry) *RouteTable {
	t := &RouteTable{exact: make(map[string]bool)}
	var mounts []string
	for _, rt := range reg.Routes() {
		p := NormalizePath(rt.Path)
		if rt.IsMount() {
			mounts = append(mounts, p)
			continue
		}
		if t.exact[p] {
			continue
		}
		t.exact[p] = true
		t.leaves = append(t.leaves, p)
		t.split = append(t.split, knownSegments(p))
	}
	for _, m := range mounts {
		t.mounts = append(t.mounts, mount{path: m, resolved: t.hasLeafUnder(m)})
	}
	return t
}

// Empty reports whether the table holds neither leaves nor mounts.
func (t *RouteTable) Empty() bool {
	return len(t.leaves) == 0 && len(t.mounts) == 0
}

func (t *RouteTable) hasLeafUnder(prefix string) bool {
	for _, l := range t.leaves {
		if under(l, prefix) {
			return true
		}
	}
	return false
}

// Check resolves one query path.
func (t *RouteTable) Check(query string) Verdict {
	q := NormalizePath(query)
	if t.exact[q] {
		return Exact
	}

	qs := querySegments(q)
	for _, known := range t.split {
		if len(known) == len(qs) && segmentsMatch(known, qs) {
			return Pattern
		}
	}
	for _, known := range t.split {
		if len(known) > len(qs) && segmentsMatch(known[:len(qs)], qs) {
			return Prefix
		}
	}

	// A query under a resolved mount had its chance above; only a mount whose
	// internals were never indexed vouches for it.
	for _, m := range t.mounts {
		if !m.resolved && under(q, m.path) {
			return OpaqueMount
		}
	}
	return Unknown
}

// ValidateRoutes returns the query paths that resolve to nothing, in input
// order without duplicates. Without a registry or a route table there is
// nothing to check and the result is empty.
func ValidateRoutes(paths []string, reg *registry.Registry) []string {
	unknown := []string{}
	t := NewRouteTable(reg)
	if t.Empty() {
		return unknown
	}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		if t.Check(p) == Unknown {
			unknown = append(unknown, p)
		}
	}
	return unknown
}

// NormalizePath drops any query string or fragment and trailing slashes.
// The root path stays "/".
func NormalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

func under(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, strings.TrimSuffix(prefix, "/")+"/")
}

func knownSegments(p string) []string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		switch {
		case strings.HasPrefix(s, ":") || s == wildcard:
			segs[i] = wildcard
		case numeric(s):
			segs[i] = number
		}
	}
	return segs
}

// querySegments normalizes a referenced path. Template substitutions are
// unknown values and become wildcards.
func querySegments(p string) []string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		switch {
		case strings.Contains(s, "${"):
			segs[i] = wildcard
		case numeric(s):
			segs[i] = number
		}
	}
	return segs
}

// segmentsMatch compares equal-length segment lists. A known wildcard accepts
// any query segment; a query wildcard accepts a known number.
func segmentsMatch(known, query []string) bool {
	for i := range known {
		k, q := known[i], query[i]
		if k == wildcard || k == q || (q == wildcard && k == number) {
			continue
		}
		return false
	}
	return true
}

func numeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
