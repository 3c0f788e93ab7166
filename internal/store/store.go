package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the last scan of a project.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Row ids follow first-seen order, which reads rely on.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS scan_meta (
  id              INTEGER PRIMARY KEY CHECK (id = 1),
  project         TEXT NOT NULL,
  scan_id         TEXT,
  scanned_at      TIMESTAMP NOT NULL,
  elapsed_ms      INTEGER NOT NULL,
  file_count      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  language        TEXT NOT NULL,
  line_count      INTEGER NOT NULL DEFAULT 0,
  size            INTEGER NOT NULL DEFAULT 0,
  modified        TIMESTAMP
);

CREATE TABLE IF NOT EXISTS symbols (
  id              INTEGER PRIMARY KEY,
  category        TEXT NOT NULL,
  name            TEXT NOT NULL,
  file            TEXT NOT NULL,
  line            INTEGER NOT NULL,
  occurrences     INTEGER NOT NULL,
  UNIQUE (category, name)
);

CREATE TABLE IF NOT EXISTS routes (
  id              INTEGER PRIMARY KEY,
  method          TEXT NOT NULL,
  path            TEXT NOT NULL,
  file            TEXT NOT NULL,
  line            INTEGER NOT NULL,
  UNIQUE (method, path)
);

CREATE TABLE IF NOT EXISTS pages (
  id              INTEGER PRIMARY KEY,
  name            TEXT NOT NULL UNIQUE,
  file            TEXT NOT NULL,
  title           TEXT,
  scripts         TEXT
);

CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file);
CREATE INDEX IF NOT EXISTS idx_files_language ON files(language);
CREATE INDEX IF NOT EXISTS idx_routes_path ON routes(path);
`
