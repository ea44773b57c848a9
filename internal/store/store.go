package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sadopc/streaknest/internal/logger"
	_ "modernc.org/sqlite"
)

const currentVersion = 2

// Store is the durable key-value slot store. Each slot holds one serialized
// value, e.g. the JSON habit array under KeyHabits.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database location the store was opened with.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	logger.Info("store migrated", "from", version, "to", currentVersion)
	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	INSERT OR IGNORE INTO slots (key, value) VALUES ('theme', 'dark');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// migrateV2 adds the write counter used to tell how often a slot was flushed.
func (s *Store) migrateV2() error {
	_, err := s.db.Exec(`ALTER TABLE slots ADD COLUMN writes INTEGER NOT NULL DEFAULT 0`)
	return err
}
