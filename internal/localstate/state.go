// Package localstate is the player's on-device store: a small sqlite
// key/value table holding settings, favorites, capped play history and
// equalizer bands. It is the source of truth while offline; the gateway
// receives copies through the outbox.
package localstate

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/dmateos82/tunecase/internal/constants"
	"github.com/dmateos82/tunecase/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS state (
	key TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_date TIMESTAMP NOT NULL
);
`

type Store struct {
	db *sqlx.DB
}

// Open opens (and creates if needed) the local state database.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply state schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string, out interface{}) (bool, error) {
	var data string
	err := s.db.Get(&data, `SELECT data FROM state WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO state (key, data, updated_date) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_date = excluded.updated_date
	`, key, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Settings returns the stored settings, or the defaults when nothing was
// saved yet.
func (s *Store) Settings() (domain.Settings, error) {
	var settings domain.Settings
	found, err := s.get(constants.StateKeySettings, &settings)
	if err != nil {
		return domain.Settings{}, err
	}
	if !found {
		return domain.DefaultSettings(), nil
	}
	if settings.SelectedFolders == nil {
		settings.SelectedFolders = []string{}
	}
	return settings, nil
}

// UpdateSettings merges the partial update into the stored settings and
// returns the result.
func (s *Store) UpdateSettings(update domain.SettingsUpdate) (domain.Settings, error) {
	settings, err := s.Settings()
	if err != nil {
		return domain.Settings{}, err
	}
	settings.Apply(update)
	if err := s.put(constants.StateKeySettings, settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// Favorites returns the set of favorited song ids.
func (s *Store) Favorites() (map[string]bool, error) {
	var ids []string
	if _, err := s.get(constants.StateKeyFavorites, &ids); err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// ToggleFavorite flips the favorite state of a song and reports the new
// state.
func (s *Store) ToggleFavorite(songID string) (bool, error) {
	set, err := s.Favorites()
	if err != nil {
		return false, err
	}
	favorited := !set[songID]
	if favorited {
		set[songID] = true
	} else {
		delete(set, songID)
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	if err := s.put(constants.StateKeyFavorites, ids); err != nil {
		return false, err
	}
	return favorited, nil
}

// History returns the recorded plays, most recent first.
func (s *Store) History() ([]domain.PlayHistoryEntry, error) {
	var entries []domain.PlayHistoryEntry
	if _, err := s.get(constants.StateKeyHistory, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendHistory records a play at the front of the list. The list is capped;
// the oldest entries fall off.
func (s *Store) AppendHistory(entry domain.PlayHistoryEntry) error {
	entries, err := s.History()
	if err != nil {
		return err
	}
	entries = append([]domain.PlayHistoryEntry{entry}, entries...)
	if len(entries) > constants.MaxHistoryItems {
		entries = entries[:constants.MaxHistoryItems]
	}
	return s.put(constants.StateKeyHistory, entries)
}

// EqualizerBands returns the stored band gains, or a flat curve when none
// were saved. Bands are stored only; no audio filtering is applied.
func (s *Store) EqualizerBands() ([]float64, error) {
	var bands []float64
	found, err := s.get(constants.StateKeyEqualizerBands, &bands)
	if err != nil {
		return nil, err
	}
	if !found || len(bands) != constants.EqualizerBandCount {
		return make([]float64, constants.EqualizerBandCount), nil
	}
	return bands, nil
}

// SaveEqualizerBands stores the band gains.
func (s *Store) SaveEqualizerBands(bands []float64) error {
	if len(bands) != constants.EqualizerBandCount {
		return fmt.Errorf("expected %d equalizer bands, got %d", constants.EqualizerBandCount, len(bands))
	}
	return s.put(constants.StateKeyEqualizerBands, bands)
}
