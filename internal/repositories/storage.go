package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Lesmash/spotify-playlist-creator/internal/models"
)

var _ models.Storage = (*LocalStorage)(nil)

// LocalStorage implements [models.Storage] on the local_storage table.
//
// Reads and writes are synchronous. Two processes writing the same key race and the last write wins.
type LocalStorage struct {
	db *sql.DB
}

// NewLocalStorage creates a new [LocalStorage] with the given database connection
func NewLocalStorage(db *sql.DB) *LocalStorage {
	return &LocalStorage{db: db}
}

// Get returns the value stored under key. ok is false when the key has never been set.
func (s *LocalStorage) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *LocalStorage) Set(key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *LocalStorage) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
