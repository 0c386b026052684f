package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmateos82/tunecase/internal/domain"
)

type SongRepo struct {
	db *DB
}

func NewSongRepo(db *DB) *SongRepo {
	return &SongRepo{db: db}
}

// Create inserts a song. Re-scans re-submit songs under the same id; the
// insert replaces the previous row so repeated scans stay duplicate free.
func (r *SongRepo) Create(song *domain.Song) error {
	if song.ID == "" {
		song.ID = uuid.New().String()
	}
	if song.AddedDate.IsZero() {
		song.AddedDate = time.Now().UTC()
	}

	query := `INSERT OR REPLACE INTO songs (
		id, title, artist, album, duration, file_path, folder_path,
		format, size, artwork, genre, year, lyrics, added_date
	) VALUES (
		:id, :title, :artist, :album, :duration, :file_path, :folder_path,
		:format, :size, :artwork, :genre, :year, :lyrics, :added_date
	)`

	if _, err := r.db.NamedExec(query, song); err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}
	return nil
}

func (r *SongRepo) Get(id string) (*domain.Song, error) {
	var song domain.Song
	err := r.db.Get(&song, `SELECT * FROM songs WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return &song, nil
}

func (r *SongRepo) List() ([]domain.Song, error) {
	var songs []domain.Song
	if err := r.db.Select(&songs, `SELECT * FROM songs ORDER BY added_date, id`); err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return songs, nil
}

// Random picks one song at random, optionally restricted to folder paths.
func (r *SongRepo) Random(folderPaths []string) (*domain.Song, error) {
	query := `SELECT * FROM songs ORDER BY RANDOM() LIMIT 1`
	args := []interface{}{}

	if len(folderPaths) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(folderPaths)), ",")
		query = fmt.Sprintf(`SELECT * FROM songs WHERE folder_path IN (%s) ORDER BY RANDOM() LIMIT 1`, placeholders)
		for _, p := range folderPaths {
			args = append(args, p)
		}
	}

	var song domain.Song
	err := r.db.Get(&song, query, args...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick random song: %w", err)
	}
	return &song, nil
}

func (r *SongRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SongRepo) Count() (int, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM songs`); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return n, nil
}
