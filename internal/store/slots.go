package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Slot keys.
const (
	KeyHabits = "habits"
	KeyTheme  = "theme"
	KeyUser   = "user"
)

// ErrSlotNotFound is returned by Get when the key has never been written.
var ErrSlotNotFound = errors.New("slot not found")

// Slot is one stored key with its write bookkeeping.
type Slot struct {
	Key       string
	Value     string
	Writes    int
	UpdatedAt time.Time
}

func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSlotNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get slot %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO slots (key, value, updated_at, writes) VALUES (?, ?, ?, 1)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at, writes = writes + 1`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return nil
}

// Delete removes a slot. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}

// GetSlot returns the slot with its bookkeeping columns.
func (s *Store) GetSlot(key string) (*Slot, error) {
	sl := &Slot{}
	var updatedAt string
	err := s.db.QueryRow(
		`SELECT key, value, writes, updated_at FROM slots WHERE key = ?`, key,
	).Scan(&sl.Key, &sl.Value, &sl.Writes, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %q: %w", key, err)
	}
	sl.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return sl, nil
}

func (s *Store) ListSlots() ([]Slot, error) {
	rows, err := s.db.Query(`SELECT key, value, writes, updated_at FROM slots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var sl Slot
		var updatedAt string
		if err := rows.Scan(&sl.Key, &sl.Value, &sl.Writes, &updatedAt); err != nil {
			return nil, err
		}
		sl.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}
