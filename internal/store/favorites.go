package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmateos82/tunecase/internal/domain"
)

type FavoriteRepo struct {
	db *DB
}

func NewFavoriteRepo(db *DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// Add favorites a song. Favoriting twice is a no-op.
func (r *FavoriteRepo) Add(songID string) (*domain.Favorite, error) {
	fav := &domain.Favorite{
		ID:        uuid.New().String(),
		SongID:    songID,
		AddedDate: time.Now().UTC(),
	}
	_, err := r.db.Exec(`
		INSERT INTO favorites (id, song_id, added_date) VALUES (?, ?, ?)
		ON CONFLICT(song_id) DO NOTHING
	`, fav.ID, fav.SongID, fav.AddedDate)
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return fav, nil
}

func (r *FavoriteRepo) List() ([]domain.Favorite, error) {
	var favs []domain.Favorite
	if err := r.db.Select(&favs, `SELECT * FROM favorites ORDER BY added_date`); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favs, nil
}

func (r *FavoriteRepo) RemoveBySongID(songID string) error {
	res, err := r.db.Exec(`DELETE FROM favorites WHERE song_id = ?`, songID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
