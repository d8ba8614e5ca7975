package prefs

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const keyDeveloperMode = "developer_mode"

// Store is the durable key-value store for user preferences. Chat sessions
// live only in memory; this is the one place where a flag has to survive a
// restart.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate preferences database: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}

// DeveloperMode reports whether the developer navigation group is enabled.
// Missing key means the flag was never toggled and defaults to off.
func (s *Store) DeveloperMode() (bool, error) {
	value, ok, err := s.get(keyDeveloperMode)
	if err != nil {
		return false, fmt.Errorf("failed to read developer mode: %w", err)
	}
	return ok && value == "true", nil
}

func (s *Store) SetDeveloperMode(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	if err := s.set(keyDeveloperMode, value); err != nil {
		return fmt.Errorf("failed to store developer mode: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
