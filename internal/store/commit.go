package store

import (
	"database/sql"
	"fmt"

	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

// SaveScan replaces the stored scan with reg and files in a single
// transaction. Rows are inserted in first-seen order.
func (s *Store) SaveScan(reg *registry.Registry, files []registry.ScannedFile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save scan: begin: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM pages",
		"DELETE FROM routes",
		"DELETE FROM symbols",
		"DELETE FROM files",
		"DELETE FROM scan_meta",
	} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("save scan: clear: %w", err)
		}
	}

	m := reg.Meta
	if _, err := tx.Exec(
		`INSERT INTO scan_meta (id, project, scan_id, scanned_at, elapsed_ms, file_count)
		 VALUES (1, ?, ?, ?, ?, ?)`,
		m.Project, m.ScanID, m.ScannedAt, m.ElapsedMS, m.FileCount,
	); err != nil {
		return fmt.Errorf("save scan: meta: %w", err)
	}

	if err := insertFilesTx(tx, files); err != nil {
		return err
	}
	if err := insertSymbolsTx(tx, reg.All()); err != nil {
		return err
	}
	if err := insertRoutesTx(tx, reg.Routes()); err != nil {
		return err
	}
	if err := insertPagesTx(tx, reg.Pages()); err != nil {
		return err
	}
	return tx.Commit()
}

func insertFilesTx(tx *sql.Tx, files []registry.ScannedFile) error {
	stmt, err := tx.Prepare("INSERT INTO files (path, language, line_count, size, modified) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("save scan: prepare files: %w", err)
	}
	defer stmt.Close()
	for _, f := range files {
		if _, err := stmt.Exec(f.Path, f.Language, f.Lines, f.Size, f.Modified); err != nil {
			return fmt.Errorf("save scan: file %q: %w", f.Path, err)
		}
	}
	return nil
}

func insertSymbolsTx(tx *sql.Tx, syms []registry.Symbol) error {
	stmt, err := tx.Prepare("INSERT INTO symbols (category, name, file, line, occurrences) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("save scan: prepare symbols: %w", err)
	}
	defer stmt.Close()
	for _, sym := range syms {
		if _, err := stmt.Exec(string(sym.Category), sym.Name, sym.File, sym.Line, sym.Occurrences); err != nil {
			return fmt.Errorf("save scan: symbol %q: %w", sym.Name, err)
		}
	}
	return nil
}

func insertRoutesTx(tx *sql.Tx, routes []registry.Route) error {
	stmt, err := tx.Prepare("INSERT INTO routes (method, path, file, line) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("save scan: prepare routes: %w", err)
	}
	defer stmt.Close()
	for _, rt := range routes {
		if _, err := stmt.Exec(rt.Method, rt.Path, rt.File, rt.Line); err != nil {
			return fmt.Errorf("save scan: route %q: %w", rt.Key(), err)
		}
	}
	return nil
}

func insertPagesTx(tx *sql.Tx, pages []registry.Page) error {
	stmt, err := tx.Prepare("INSERT INTO pages (name, file, title, scripts) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("save scan: prepare pages: %w", err)
	}
	defer stmt.Close()
	for _, p := range pages {
		if _, err := stmt.Exec(p.Name, p.File, p.Title, marshalStrings(p.Scripts)); err != nil {
			return fmt.Errorf("save scan: page %q: %w", p.Name, err)
		}
	}
	return nil
}
