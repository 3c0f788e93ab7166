package registry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSymbol_FirstLocationWins(t *testing.T) {
	t.Parallel()
	r := New()

	assert.True(t, r.AddSymbol(Functions, "greet", "a.js", 3))
	assert.False(t, r.AddSymbol(Functions, "greet", "b.js", 9))
	assert.False(t, r.AddSymbol(Functions, "greet", "c.js", 1))

	s, ok := r.Lookup(Functions, "greet")
	require.True(t, ok)
	assert.Equal(t, "a.js", s.File)
	assert.Equal(t, 3, s.Line)
	assert.Equal(t, 3, s.Occurrences)
}

func TestAddSymbol_CategoriesAreIndependent(t *testing.T) {
	t.Parallel()
	r := New()

	r.AddSymbol(Functions, "Thing", "a.js", 1)
	r.AddSymbol(Exports, "Thing", "b.js", 2)

	fn, ok := r.Lookup(Functions, "Thing")
	require.True(t, ok)
	ex, ok := r.Lookup(Exports, "Thing")
	require.True(t, ok)
	assert.Equal(t, 1, fn.Occurrences)
	assert.Equal(t, "b.js", ex.File)
}

func TestAddSymbol_RejectsUnknownCategoryAndEmptyName(t *testing.T) {
	t.Parallel()
	r := New()

	assert.False(t, r.AddSymbol(Category("_meta"), "x", "a.js", 1))
	assert.False(t, r.AddSymbol(Functions, "", "a.js", 1))
	assert.True(t, r.Empty())
}

func TestFind_UsesEnumerationOrder(t *testing.T) {
	t.Parallel()
	r := New()

	r.AddSymbol(Exports, "shared", "exports.js", 5)
	r.AddSymbol(Functions, "shared", "fn.js", 7)

	s, ok := r.Find("shared")
	require.True(t, ok)
	assert.Equal(t, Functions, s.Category)
	assert.Equal(t, "fn.js", s.File)
}

func TestNames_FirstSeenOrderAcrossCategories(t *testing.T) {
	t.Parallel()
	r := New()

	r.AddSymbol(Types, "User", "a.ts", 1)
	r.AddSymbol(Functions, "load", "a.ts", 2)
	r.AddSymbol(Exports, "User", "a.ts", 1)
	r.AddSymbol(Variables, "limit", "b.ts", 1)

	assert.Equal(t, []string{"User", "load", "limit"}, r.Names())
}

func TestAddRoute_FirstDeclarationWins(t *testing.T) {
	t.Parallel()
	r := New()

	r.AddRoute(Route{Method: "GET", Path: "/api/users", File: "a.js", Line: 4})
	r.AddRoute(Route{Method: "GET", Path: "/api/users", File: "b.js", Line: 8})
	r.AddRoute(Route{Method: MountMethod, Path: "/api/legacy", File: "a.js", Line: 2})

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "a.js", routes[0].File)
	assert.True(t, routes[1].IsMount())

	s, ok := r.Lookup(Routes, "GET /api/users")
	require.True(t, ok)
	assert.Equal(t, 2, s.Occurrences)
}

func TestAddPage_BaseNameCollision(t *testing.T) {
	t.Parallel()
	r := New()

	r.AddPage(Page{Name: "index.html", File: "public/index.html", Title: "Home"})
	r.AddPage(Page{Name: "index.html", File: "admin/index.html", Title: "Admin"})

	p, ok := r.Page("index.html")
	require.True(t, ok)
	assert.Equal(t, "Home", p.Title)
	assert.Len(t, r.Pages(), 1)
}

func TestParseCategory(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"function", Functions, true},
		{"Classes", Types, true},
		{"const", Variables, true},
		{"routes", Routes, true},
		{"_meta", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCategory(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSON_MetaBesideCategories(t *testing.T) {
	t.Parallel()
	r := New()
	r.Meta = Metadata{Project: "/p", ScannedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), ElapsedMS: 12, FileCount: 2}
	r.AddSymbol(Functions, "greet", "a.js", 3)
	r.AddSymbol(Functions, "greet", "b.js", 9)
	r.AddRoute(Route{Method: "POST", Path: "/api/login", File: "server.js", Line: 10})
	r.AddPage(Page{Name: "index.html", File: "index.html", Title: "Home", Scripts: []string{"app.js"}})

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	assert.Contains(t, top, MetaKey)
	for _, c := range Categories {
		assert.Contains(t, top, string(c))
	}

	var back Registry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r.Meta, back.Meta)
	assert.Equal(t, r.Names(), back.Names())

	s, ok := back.Lookup(Functions, "greet")
	require.True(t, ok)
	assert.Equal(t, 2, s.Occurrences)
	assert.Equal(t, "a.js", s.File)
	assert.Equal(t, r.Routes(), back.Routes())
	assert.Equal(t, r.Pages(), back.Pages())

	_, ok = back.Find(MetaKey)
	assert.False(t, ok)
}
