package wisdom

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/InfiniQuest-App/wisdom-store/internal/config"
	"github.com/InfiniQuest-App/wisdom-store/internal/logging"
	"github.com/InfiniQuest-App/wisdom-store/internal/store"
)

// Engine ties a project root to its configuration and to the SQLite store
// that keeps the last scan between runs.
type Engine struct {
	store     *store.Store
	root      string
	cfg       *config.Config
	logger    *slog.Logger
	scriptsFS fs.FS
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig uses cfg instead of loading <root>/.wisdom/config.*.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger sets the logger for scans and scripts.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithScriptsFS loads extraction scripts from fsys instead of from the
// project root. This enables embedding scripts via go:embed.
func WithScriptsFS(fsys fs.FS) Option {
	return func(e *Engine) {
		e.scriptsFS = fsys
	}
}

// New creates an Engine for the project at root, backed by a SQLite database
// at dbPath. An empty dbPath means <root>/.wisdom/registry.db.
func New(dbPath, root string, opts ...Option) (*Engine, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("wisdom: resolve root: %w", err)
	}
	e := &Engine{root: abs}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrDiscard(e.logger)

	if e.cfg == nil {
		cfg, err := config.Load(abs)
		if err != nil {
			return nil, fmt.Errorf("wisdom: load config: %w", err)
		}
		e.cfg = cfg
	} else if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("wisdom: %w", err)
	}

	if dbPath == "" {
		dbPath = config.DatabasePath(abs)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("wisdom: create %s: %w", config.Dir, err)
		}
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("wisdom: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("wisdom: migrate: %w", err)
	}
	e.store = s
	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Root returns the absolute project root.
func (e *Engine) Root() string {
	return e.root
}

// Config returns the settings in effect.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// ScanOptions converts the configuration into options for Scan.
func (e *Engine) ScanOptions() ScanOptions {
	return ScanOptions{
		MaxDepth:      e.cfg.MaxDepth,
		MaxFiles:      e.cfg.MaxFiles,
		MaxFileSize:   e.cfg.MaxFileSize,
		MaxMarkupSize: e.cfg.MaxMarkupSize,
		IgnoreFile:    e.cfg.IgnoreFile,
		HiddenAllow:   e.cfg.HiddenAllow,
		Exclude:       e.cfg.Exclude,
		APIPrefix:     e.cfg.APIPrefix,
		Scripts:       e.cfg.Scripts,
		ScriptsFS:     e.scriptsFS,
		Logger:        e.logger,
	}
}

// Scan indexes the project and replaces the stored scan with the result.
// The scan itself cannot fail; the error is from the store.
func (e *Engine) Scan() (*ScanResult, error) {
	res := Scan(e.root, e.ScanOptions())
	if err := e.store.SaveScan(res.Registry, res.Files); err != nil {
		return res, fmt.Errorf("wisdom: save scan: %w", err)
	}
	return res, nil
}

// Registry loads the stored registry, or ErrNoRegistry if nothing has been
// scanned yet.
func (e *Engine) Registry() (*Registry, error) {
	reg, err := e.store.LoadRegistry()
	if errors.Is(err, store.ErrNoScan) {
		return nil, ErrNoRegistry
	}
	if err != nil {
		return nil, fmt.Errorf("wisdom: load registry: %w", err)
	}
	return reg, nil
}

// CheckNames runs CheckNames against the stored registry.
func (e *Engine) CheckNames(names []string) (NameReport, error) {
	reg, err := e.Registry()
	if err != nil {
		return NameReport{}, err
	}
	return CheckNames(names, reg), nil
}

// ValidateRoutes runs ValidateRoutes against the stored registry.
func (e *Engine) ValidateRoutes(paths []string) ([]string, error) {
	reg, err := e.Registry()
	if err != nil {
		return nil, err
	}
	return ValidateRoutes(paths, reg), nil
}

// CheckDiff runs CheckDiff against the stored registry with the configured
// API prefix.
func (e *Engine) CheckDiff(diff []byte) (DiffReport, error) {
	reg, err := e.Registry()
	if err != nil {
		return DiffReport{}, err
	}
	return CheckDiff(diff, reg, e.cfg.APIPrefix)
}

// Query returns a Query over the stored scan.
func (e *Engine) Query() *Query {
	return &Query{store: e.store}
}
