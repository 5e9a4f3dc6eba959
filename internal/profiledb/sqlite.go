// Package profiledb stores the plugin profile in a SQLite database.
package profiledb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/grovetools/clueitems/errors"
)

// Store is a key/value profile table. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the profile database at path.
func OpenSQLite(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty profile database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.ProfileWrite(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.ProfileRead(path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, errors.ProfileRead(path, err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, errors.ProfileWrite(path, err)
	}
	return &Store{db: db, path: path}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS profile (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM profile WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.ProfileRead(s.path, err).WithDetail("key", key)
	}
	return value, true, nil
}

// Set upserts key.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO profile (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.ProfileWrite(s.path, err).WithDetail("key", key)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM profile WHERE key = ?`, key); err != nil {
		return errors.ProfileWrite(s.path, err).WithDetail("key", key)
	}
	return nil
}

// All returns every stored pair.
func (s *Store) All() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM profile`)
	if err != nil {
		return nil, errors.ProfileRead(s.path, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, errors.ProfileRead(s.path, err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ProfileRead(s.path, err)
	}
	return out, nil
}
