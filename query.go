package wisdom

import (
	"errors"
	"fmt"

	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
	"github.com/InfiniQuest-App/wisdom-store/internal/store"
)

// Query reads the stored scan directly, without rebuilding a registry.
type Query struct {
	store *store.Store
}

// Meta returns the metadata of the stored scan.
func (q *Query) Meta() (Metadata, error) {
	m, err := q.store.Meta()
	if errors.Is(err, store.ErrNoScan) {
		return m, ErrNoRegistry
	}
	return m, err
}

// Lookup returns every stored entry, in any category, carrying one of names.
func (q *Query) Lookup(names ...string) ([]Symbol, error) {
	if _, err := q.Meta(); err != nil {
		return nil, err
	}
	syms, err := q.store.SymbolsByName(names...)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	return syms, nil
}

// Symbols returns the stored entries of one category in first-seen order.
// The category accepts singular and plural names ("function", "types").
func (q *Query) Symbols(category string) ([]Symbol, error) {
	cat, ok := registry.ParseCategory(category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	reg, err := q.store.LoadRegistry()
	if errors.Is(err, store.ErrNoScan) {
		return nil, ErrNoRegistry
	}
	if err != nil {
		return nil, err
	}
	return reg.Symbols(cat), nil
}

// Routes returns the stored route table in declaration order.
func (q *Query) Routes() ([]Route, error) {
	if _, err := q.Meta(); err != nil {
		return nil, err
	}
	return q.store.Routes()
}

// Files returns the stored file list; a non-empty language filters it.
func (q *Query) Files(language string) ([]ScannedFile, error) {
	if _, err := q.Meta(); err != nil {
		return nil, err
	}
	return q.store.Files(language)
}
