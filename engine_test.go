package wisdom

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InfiniQuest-App/wisdom-store/internal/config"
	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

func newTestEngine(t *testing.T, root string, opts ...Option) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	e, err := New(dbPath, root, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestNew_DefaultDatabaseUnderProject(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	e, err := New("", root)
	require.NoError(t, err)
	defer e.Close()

	_, err = os.Stat(filepath.Join(root, config.Dir, config.DatabaseFile))
	assert.NoError(t, err)
	assert.Equal(t, "/api", e.Config().APIPrefix)
	assert.Equal(t, 8, e.Config().MaxDepth)
	abs, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, abs, e.Root())
}

func TestNew_InvalidPath(t *testing.T) {
	t.Parallel()
	_, err := New("/nonexistent/dir/db.sqlite", t.TempDir())
	require.Error(t, err)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.MaxDepth = 0
	_, err := New(filepath.Join(t.TempDir(), "x.db"), t.TempDir(), WithConfig(cfg))
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	t.Parallel()
	e, err := New(filepath.Join(t.TempDir(), "test.db"), t.TempDir())
	require.NoError(t, err)
	require.NoError(t, e.Close())
}

func TestEngine_ChecksBeforeScan(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, t.TempDir())

	_, err := e.Registry()
	assert.ErrorIs(t, err, ErrNoRegistry)
	_, err = e.CheckNames([]string{"x"})
	assert.ErrorIs(t, err, ErrNoRegistry)
	_, err = e.ValidateRoutes([]string{"/api/x"})
	assert.ErrorIs(t, err, ErrNoRegistry)
	_, err = e.CheckDiff([]byte(editDiff))
	assert.ErrorIs(t, err, ErrNoRegistry)
	_, err = e.Query().Routes()
	assert.ErrorIs(t, err, ErrNoRegistry)
}

func TestEngine_ScanPersists(t *testing.T) {
	t.Parallel()
	root := greetProject(t)
	dbPath := filepath.Join(t.TempDir(), "test.db")

	e, err := New(dbPath, root)
	require.NoError(t, err)
	res, err := e.Scan()
	require.NoError(t, err)
	require.NoError(t, e.Close())

	// A fresh engine on the same database sees the stored scan.
	e2, err := New(dbPath, root)
	require.NoError(t, err)
	defer e2.Close()

	reg, err := e2.Registry()
	require.NoError(t, err)
	assert.Equal(t, res.Registry.Names(), reg.Names())
	assert.Equal(t, res.Registry.Routes(), reg.Routes())
	assert.Equal(t, res.Registry.Meta.ScanID, reg.Meta.ScanID)

	greet, ok := reg.Lookup(registry.Functions, "greet")
	require.True(t, ok)
	assert.Equal(t, 2, greet.Occurrences)

	rep, err := e2.CheckNames([]string{"greet", "grete", "frobnicate"})
	require.NoError(t, err)
	assert.Len(t, rep.Known, 1)
	assert.Len(t, rep.Fuzzy, 1)
	assert.Equal(t, []string{"frobnicate"}, rep.Unknown)

	unknown, err := e2.ValidateRoutes([]string{"/api/users/9", "/api/nope"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/nope"}, unknown)

	drep, err := e2.CheckDiff([]byte(editDiff))
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/orders/7"}, drep.UnknownRoutes)
}

func TestEngine_RescanReplaces(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": "function first() {}\n"})
	e := newTestEngine(t, root)

	_, err := e.Scan()
	require.NoError(t, err)
	writeTree(t, root, map[string]string{"a.js": "function second() {}\n"})
	_, err = e.Scan()
	require.NoError(t, err)

	reg, err := e.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, reg.Names())
}

func TestEngine_UsesProjectConfig(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".wisdom/config.json": `{"api_prefix": "/v1", "exclude": ["legacy/**"]}`,
		"server.js":           "app.use('/v1/admin', admin)\napp.use('/api/old', old)\n",
		"legacy/x.js":         "function skipped() {}\n",
	})
	e := newTestEngine(t, root)
	assert.Equal(t, "/v1", e.Config().APIPrefix)

	_, err := e.Scan()
	require.NoError(t, err)

	routes, err := e.Query().Routes()
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "/v1/admin", routes[0].Path)

	files, err := e.Query().Files("")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "server.js", files[0].Path)
}

func TestEngine_ScriptsFS(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"model.schema": "table Users\ntable Orders\n"})
	cfg := config.Default()
	cfg.Scripts = map[string]string{"schema": "schema.risor"}
	scripts := fstest.MapFS{
		"schema.risor": &fstest.MapFile{Data: []byte(`
for i, line := range lines {
    if strings.has_prefix(line, "table ") {
        add_symbol("types", line[6:], i + 1)
    }
}
`)},
	}

	e := newTestEngine(t, root, WithConfig(cfg), WithScriptsFS(scripts))
	_, err := e.Scan()
	require.NoError(t, err)

	types, err := e.Query().Symbols("type")
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Users", types[0].Name)
	assert.Equal(t, "Orders", types[1].Name)
	assert.Equal(t, 2, types[1].Line)
}

func TestQuery(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, greetProject(t))
	_, err := e.Scan()
	require.NoError(t, err)
	q := e.Query()

	meta, err := q.Meta()
	require.NoError(t, err)
	assert.Equal(t, 3, meta.FileCount)

	syms, err := q.Lookup("greet", "limit")
	require.NoError(t, err)
	assert.Len(t, syms, 2)

	fns, err := q.Symbols("functions")
	require.NoError(t, err)
	require.Len(t, fns, 1)
	assert.Equal(t, "greet", fns[0].Name)

	_, err = q.Symbols("gadgets")
	assert.Error(t, err)

	js, err := q.Files("javascript")
	require.NoError(t, err)
	assert.Len(t, js, 3)
}
