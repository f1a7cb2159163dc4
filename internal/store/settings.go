package store

import (
	"database/sql"
	"errors"
	"strconv"
)

// Well-known setting keys.
const (
	SettingCurrentKey = "current_key"
	SettingIntensity  = "intensity"
	SettingWidth      = "width"
	SettingCameraID   = "camera_id"
)

// SettingsRepository provides access to the settings key-value table.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a setting value. Returns ErrNotFound if the key is unset.
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

// Set inserts or replaces a setting value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// GetFloat retrieves a setting as a float64, returning the fallback when
// the key is unset or unparseable.
func (r *SettingsRepository) GetFloat(key string, fallback float64) float64 {
	value, err := r.Get(key)
	if err != nil {
		return fallback
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}

// SetFloat stores a float64 setting.
func (r *SettingsRepository) SetFloat(key string, v float64) error {
	return r.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
}
