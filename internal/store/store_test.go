package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRegistry() *registry.Registry {
	reg := registry.New()
	reg.Meta = registry.Metadata{
		Project:   "/work/app",
		ScanID:    "7f9c0a52-6a43-4f0e-9d59-1a2b3c4d5e6f",
		ScannedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ElapsedMS: 42,
		FileCount: 2,
	}
	reg.AddSymbol(registry.Functions, "greet", "src/a.js", 3)
	reg.AddSymbol(registry.Variables, "limit", "src/a.js", 5)
	reg.AddSymbol(registry.Functions, "greet", "src/b.js", 9)
	reg.AddRoute(registry.Route{Method: "GET", Path: "/api/users/:id", File: "src/b.js", Line: 2})
	reg.AddRoute(registry.Route{Method: registry.MountMethod, Path: "/api/legacy", File: "src/b.js", Line: 4})
	reg.AddPage(registry.Page{Name: "index.html", File: "web/index.html", Title: "Home", Scripts: []string{"/js/app.js"}})
	return reg
}

func sampleFiles() []registry.ScannedFile {
	mod := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	return []registry.ScannedFile{
		{Path: "src/a.js", Language: "javascript", Lines: 10, Size: 120, Modified: mod},
		{Path: "src/b.js", Language: "javascript", Lines: 12, Size: 140, Modified: mod},
		{Path: "web/index.html", Language: "html", Lines: 30, Size: 900, Modified: mod},
	}
}

func TestMigrate_AllTablesExist(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, table := range []string{"scan_meta", "files", "symbols", "routes", "pages"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestLoadRegistry_Empty(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	reg, err := s.LoadRegistry()
	assert.Nil(t, reg)
	assert.ErrorIs(t, err, ErrNoScan)
}

func TestSaveScan_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	orig := sampleRegistry()
	require.NoError(t, s.SaveScan(orig, sampleFiles()))

	reg, err := s.LoadRegistry()
	require.NoError(t, err)

	assert.Equal(t, orig.Meta.Project, reg.Meta.Project)
	assert.Equal(t, orig.Meta.ScanID, reg.Meta.ScanID)
	assert.True(t, orig.Meta.ScannedAt.Equal(reg.Meta.ScannedAt))
	assert.Equal(t, int64(42), reg.Meta.ElapsedMS)

	greet, ok := reg.Lookup(registry.Functions, "greet")
	require.True(t, ok)
	assert.Equal(t, "src/a.js", greet.File)
	assert.Equal(t, 3, greet.Line)
	assert.Equal(t, 2, greet.Occurrences)

	assert.Equal(t, orig.Names(), reg.Names())
	assert.Equal(t, orig.Routes(), reg.Routes())
	assert.Equal(t, orig.Pages(), reg.Pages())
}

func TestSaveScan_ReplacesPreviousScan(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.SaveScan(sampleRegistry(), sampleFiles()))

	next := registry.New()
	next.Meta = registry.Metadata{Project: "/work/app", ScannedAt: time.Now().UTC(), FileCount: 1}
	next.AddSymbol(registry.Types, "Widget", "src/w.ts", 1)
	require.NoError(t, s.SaveScan(next, []registry.ScannedFile{{Path: "src/w.ts", Language: "typescript"}}))

	reg, err := s.LoadRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"Widget"}, reg.Names())
	assert.Empty(t, reg.Routes())

	files, err := s.Files("")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "src/w.ts", files[0].Path)
}

func TestFiles(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.SaveScan(sampleRegistry(), sampleFiles()))

	all, err := s.Files("")
	require.NoError(t, err)
	assert.Equal(t, sampleFiles()[0].Path, all[0].Path)
	assert.Len(t, all, 3)
	assert.Equal(t, 10, all[0].Lines)

	html, err := s.Files("html")
	require.NoError(t, err)
	require.Len(t, html, 1)
	assert.Equal(t, "web/index.html", html[0].Path)
}

func TestSymbolsByName(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.SaveScan(sampleRegistry(), sampleFiles()))

	got, err := s.SymbolsByName("limit", "greet", "missing")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "greet", got[0].Name)
	assert.Equal(t, registry.Functions, got[0].Category)
	assert.Equal(t, "limit", got[1].Name)

	none, err := s.SymbolsByName()
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRoutes(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.SaveScan(sampleRegistry(), sampleFiles()))

	routes, err := s.Routes()
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.True(t, routes[1].IsMount())
}
