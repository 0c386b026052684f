package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmateos82/tunecase/internal/domain"
)

type HistoryRepo struct {
	db *DB
}

func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

type historyRow struct {
	ID           string    `db:"id"`
	SongID       string    `db:"song_id"`
	SongJSON     string    `db:"song_json"`
	PlayedDate   time.Time `db:"played_date"`
	PlayDuration int64     `db:"play_duration"`
}

// Append records one play. The gateway keeps the full list; trimming is a
// client-side concern.
func (r *HistoryRepo) Append(songID string, song *domain.Song, playDuration int64) (*domain.PlayHistoryEntry, error) {
	entry := &domain.PlayHistoryEntry{
		ID:           uuid.New().String(),
		SongID:       songID,
		Song:         song,
		PlayedDate:   time.Now().UTC(),
		PlayDuration: playDuration,
	}

	songJSON := ""
	if song != nil {
		data, err := json.Marshal(song)
		if err != nil {
			return nil, fmt.Errorf("failed to encode history song snapshot: %w", err)
		}
		songJSON = string(data)
	}

	_, err := r.db.Exec(`
		INSERT INTO play_history (id, song_id, song_json, played_date, play_duration)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.SongID, songJSON, entry.PlayedDate, entry.PlayDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to append play history: %w", err)
	}
	return entry, nil
}

// List returns entries most-recent-first, at most limit (0 means all).
func (r *HistoryRepo) List(limit int) ([]domain.PlayHistoryEntry, error) {
	query := `SELECT * FROM play_history ORDER BY played_date DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []historyRow
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list play history: %w", err)
	}

	entries := make([]domain.PlayHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := domain.PlayHistoryEntry{
			ID:           row.ID,
			SongID:       row.SongID,
			PlayedDate:   row.PlayedDate,
			PlayDuration: row.PlayDuration,
		}
		if row.SongJSON != "" {
			var song domain.Song
			if err := json.Unmarshal([]byte(row.SongJSON), &song); err == nil {
				entry.Song = &song
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
