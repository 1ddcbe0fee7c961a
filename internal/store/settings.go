package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// KeyControl holds the last applied Control as JSON.
const KeyControl = "control"

// SettingsRepository provides access to the key-value settings table.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value stored under key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// Delete removes key. Missing keys are not an error.
func (r *SettingsRepository) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

// SaveControl persists c as the control configuration to restore on start-up.
func (r *SettingsRepository) SaveControl(c Control) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode control settings: %w", err)
	}
	return r.Set(KeyControl, string(data))
}

// LoadControl returns the saved control configuration, or ErrNotFound.
func (r *SettingsRepository) LoadControl() (Control, error) {
	value, err := r.Get(KeyControl)
	if err != nil {
		return Control{}, err
	}
	var c Control
	if err := json.Unmarshal([]byte(value), &c); err != nil {
		return Control{}, fmt.Errorf("decode control settings: %w", err)
	}
	return c, nil
}
