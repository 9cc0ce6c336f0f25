// Package store provides the durable path -> metadata index backed by
// SQLite. It is the sole owner of FileRecord lifetime: the scanner,
// resolver, and maintenance layers mutate records only through it.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DefaultPath is the database filename used when the caller configures
// nothing else. There is no process-wide mutable default: callers pass
// an explicit path to Open.
const DefaultPath = "dedup.db"

// Store is the persistent file index. One Store wraps one SQLite
// database; a single process and a single connection at a time is
// assumed (concurrent external writers are out of scope).
type Store struct {
	db *sql.DB
}

// Open creates or opens the index database at path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// Open is idempotent - safe to call against an existing index.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Err: err}
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Err: err}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("apply schema: %w", err)}
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}
