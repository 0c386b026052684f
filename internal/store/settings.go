package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmateos82/tunecase/internal/domain"
)

type SettingsRepo struct {
	db *DB
}

func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the stored settings, or the defaults when nothing was saved yet.
func (r *SettingsRepo) Get() (domain.Settings, error) {
	var data string
	err := r.db.Get(&data, `SELECT data FROM settings WHERE id = 1`)
	if err == sql.ErrNoRows {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if settings.SelectedFolders == nil {
		settings.SelectedFolders = []string{}
	}
	return settings, nil
}

// Update merges the partial update into the stored settings, last writer wins.
func (r *SettingsRepo) Update(update domain.SettingsUpdate) (domain.Settings, error) {
	settings, err := r.Get()
	if err != nil {
		return domain.Settings{}, err
	}
	settings.Apply(update)

	data, err := json.Marshal(settings)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to encode settings: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO settings (id, data, updated_date) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_date = excluded.updated_date
	`, string(data), time.Now().UTC())
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}
