package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmateos82/tunecase/internal/domain"
)

type PlaylistRepo struct {
	db *DB
}

func NewPlaylistRepo(db *DB) *PlaylistRepo {
	return &PlaylistRepo{db: db}
}

// playlistRow is the storage shape; song ids live in a JSON column.
type playlistRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	SongIDs     string    `db:"song_ids"`
	CreatedDate time.Time `db:"created_date"`
	UpdatedDate time.Time `db:"updated_date"`
}

func (row *playlistRow) toDomain() (*domain.Playlist, error) {
	pl := &domain.Playlist{
		ID:          row.ID,
		Name:        row.Name,
		CreatedDate: row.CreatedDate,
		UpdatedDate: row.UpdatedDate,
	}
	if err := json.Unmarshal([]byte(row.SongIDs), &pl.SongIDs); err != nil {
		return nil, fmt.Errorf("failed to decode playlist song ids: %w", err)
	}
	if pl.SongIDs == nil {
		pl.SongIDs = []string{}
	}
	return pl, nil
}

func (r *PlaylistRepo) Create(name string, songIDs []string) (*domain.Playlist, error) {
	if songIDs == nil {
		songIDs = []string{}
	}
	now := time.Now().UTC()
	pl := &domain.Playlist{
		ID:          uuid.New().String(),
		Name:        name,
		SongIDs:     songIDs,
		CreatedDate: now,
		UpdatedDate: now,
	}

	ids, err := json.Marshal(pl.SongIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode playlist song ids: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO playlists (id, name, song_ids, created_date, updated_date)
		VALUES (?, ?, ?, ?, ?)
	`, pl.ID, pl.Name, string(ids), pl.CreatedDate, pl.UpdatedDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	return pl, nil
}

func (r *PlaylistRepo) Get(id string) (*domain.Playlist, error) {
	var row playlistRow
	err := r.db.Get(&row, `SELECT * FROM playlists WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return row.toDomain()
}

func (r *PlaylistRepo) List() ([]domain.Playlist, error) {
	var rows []playlistRow
	if err := r.db.Select(&rows, `SELECT * FROM playlists ORDER BY created_date`); err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	playlists := make([]domain.Playlist, 0, len(rows))
	for i := range rows {
		pl, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *pl)
	}
	return playlists, nil
}

// Update applies a partial update; nil name / nil songIDs keep current values.
func (r *PlaylistRepo) Update(id string, name *string, songIDs *[]string) (*domain.Playlist, error) {
	pl, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if pl == nil {
		return nil, nil
	}

	if name != nil {
		pl.Name = *name
	}
	if songIDs != nil {
		pl.SongIDs = *songIDs
		if pl.SongIDs == nil {
			pl.SongIDs = []string{}
		}
	}
	pl.UpdatedDate = time.Now().UTC()

	ids, err := json.Marshal(pl.SongIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode playlist song ids: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE playlists SET name = ?, song_ids = ?, updated_date = ? WHERE id = ?
	`, pl.Name, string(ids), pl.UpdatedDate, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}
	return pl, nil
}

func (r *PlaylistRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
