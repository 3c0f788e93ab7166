package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

// ErrNoScan is returned when the database holds no scan.
var ErrNoScan = errors.New("no scan stored")

// Meta returns the metadata of the stored scan.
func (s *Store) Meta() (registry.Metadata, error) {
	var m registry.Metadata
	var scanID sql.NullString
	err := s.db.QueryRow(
		"SELECT project, scan_id, scanned_at, elapsed_ms, file_count FROM scan_meta WHERE id = 1",
	).Scan(&m.Project, &scanID, &m.ScannedAt, &m.ElapsedMS, &m.FileCount)
	if errors.Is(err, sql.ErrNoRows) {
		return m, ErrNoScan
	}
	if err != nil {
		return m, fmt.Errorf("scan meta: %w", err)
	}
	m.ScanID = scanID.String
	return m, nil
}

// LoadRegistry rebuilds the stored registry, preserving first-seen order.
func (s *Store) LoadRegistry() (*registry.Registry, error) {
	meta, err := s.Meta()
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	reg.Meta = meta

	rows, err := s.db.Query("SELECT category, name, file, line, occurrences FROM symbols ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}
	for rows.Next() {
		var sym registry.Symbol
		var cat string
		if err := rows.Scan(&cat, &sym.Name, &sym.File, &sym.Line, &sym.Occurrences); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		sym.Category = registry.Category(cat)
		reg.Restore(sym)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}

	routes, err := s.Routes()
	if err != nil {
		return nil, err
	}
	for _, rt := range routes {
		reg.RestoreRoute(rt)
	}

	prows, err := s.db.Query("SELECT name, file, title, scripts FROM pages ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var p registry.Page
		var title, scripts sql.NullString
		if err := prows.Scan(&p.Name, &p.File, &title, &scripts); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		p.Title = title.String
		p.Scripts = unmarshalStrings(scripts.String)
		reg.RestorePage(p)
	}
	return reg, prows.Err()
}

// Routes returns the stored route table in declaration order.
func (s *Store) Routes() ([]registry.Route, error) {
	rows, err := s.db.Query("SELECT method, path, file, line FROM routes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	defer rows.Close()
	out := []registry.Route{}
	for rows.Next() {
		var rt registry.Route
		if err := rows.Scan(&rt.Method, &rt.Path, &rt.File, &rt.Line); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// Files returns the stored file list in traversal order. A non-empty
// language restricts it to one language tag.
func (s *Store) Files(language string) ([]registry.ScannedFile, error) {
	q := "SELECT path, language, line_count, size, modified FROM files"
	var args []any
	if language != "" {
		q += " WHERE language = ?"
		args = append(args, language)
	}
	rows, err := s.db.Query(q+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	defer rows.Close()
	files := []registry.ScannedFile{}
	for rows.Next() {
		var f registry.ScannedFile
		var modified sql.NullTime
		if err := rows.Scan(&f.Path, &f.Language, &f.Lines, &f.Size, &modified); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		f.Modified = modified.Time
		files = append(files, f)
	}
	return files, rows.Err()
}

// SymbolsByName returns every stored entry whose name is in names, across
// categories, in first-seen order.
func (s *Store) SymbolsByName(names ...string) ([]registry.Symbol, error) {
	if len(names) == 0 {
		return []registry.Symbol{}, nil
	}
	rows, err := s.db.Query(
		"SELECT category, name, file, line, occurrences FROM symbols WHERE name IN ("+
			placeholderList(len(names))+") ORDER BY id",
		stringsToArgs(names)...,
	)
	if err != nil {
		return nil, fmt.Errorf("symbols by name: %w", err)
	}
	defer rows.Close()
	out := []registry.Symbol{}
	for rows.Next() {
		var sym registry.Symbol
		var cat string
		if err := rows.Scan(&cat, &sym.Name, &sym.File, &sym.Line, &sym.Occurrences); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		sym.Category = registry.Category(cat)
		out = append(out, sym)
	}
	return out, rows.Err()
}
