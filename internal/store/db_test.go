package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmateos82/tunecase/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testSong(id, folder string) *domain.Song {
	return &domain.Song{
		ID:         id,
		Title:      "Song " + id,
		Artist:     "Artist",
		Album:      "Album",
		Duration:   180000,
		FilePath:   folder + "/" + id + ".mp3",
		FolderPath: folder,
		Format:     "mp3",
		Size:       1024,
	}
}

func TestSongRepo(t *testing.T) {
	db := newTestDB(t)
	repo := NewSongRepo(db)

	song := testSong("s1", "/music/a")
	if err := repo.Create(song); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	fetched, err := repo.Get("s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil || fetched.Title != "Song s1" {
		t.Errorf("Unexpected song: %+v", fetched)
	}
	if fetched.FolderPath != "/music/a" {
		t.Errorf("Expected folder /music/a, got %s", fetched.FolderPath)
	}

	// Re-submitting the same id must replace, not duplicate
	if err := repo.Create(testSong("s1", "/music/a")); err != nil {
		t.Fatalf("Re-create failed: %v", err)
	}
	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 song after re-create, got %d", count)
	}

	if err := repo.Delete("s1"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if err := repo.Delete("s1"); err != sql.ErrNoRows {
		t.Errorf("Expected ErrNoRows deleting twice, got %v", err)
	}
}

func TestSongRepoRandom(t *testing.T) {
	db := newTestDB(t)
	repo := NewSongRepo(db)

	for _, s := range []*domain.Song{
		testSong("a1", "/music/a"),
		testSong("a2", "/music/a"),
		testSong("b1", "/music/b"),
	} {
		if err := repo.Create(s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// Unfiltered pick returns something
	song, err := repo.Random(nil)
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if song == nil {
		t.Fatal("Expected a random song, got nil")
	}

	// Filtered pick respects the folder restriction
	for i := 0; i < 20; i++ {
		song, err := repo.Random([]string{"/music/b"})
		if err != nil {
			t.Fatalf("Random with filter failed: %v", err)
		}
		if song == nil || song.FolderPath != "/music/b" {
			t.Fatalf("Expected a /music/b song, got %+v", song)
		}
	}

	// No match yields nil, not an error
	song, err = repo.Random([]string{"/music/missing"})
	if err != nil {
		t.Fatalf("Random with empty filter result failed: %v", err)
	}
	if song != nil {
		t.Errorf("Expected nil for unmatched folder, got %+v", song)
	}
}

func TestFavoriteRepo(t *testing.T) {
	db := newTestDB(t)
	repo := NewFavoriteRepo(db)

	if _, err := repo.Add("s1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Favoriting twice is a no-op
	if _, err := repo.Add("s1"); err != nil {
		t.Fatalf("Second Add failed: %v", err)
	}

	favs, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(favs) != 1 {
		t.Errorf("Expected 1 favorite, got %d", len(favs))
	}

	if err := repo.RemoveBySongID("s1"); err != nil {
		t.Errorf("RemoveBySongID failed: %v", err)
	}
	if err := repo.RemoveBySongID("s1"); err != sql.ErrNoRows {
		t.Errorf("Expected ErrNoRows removing twice, got %v", err)
	}
}

func TestPlaylistRepo(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlaylistRepo(db)

	pl, err := repo.Create("Road Trip", []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	fetched, err := repo.Get(pl.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Name != "Road Trip" || len(fetched.SongIDs) != 2 {
		t.Errorf("Unexpected playlist: %+v", fetched)
	}

	name := "Long Road Trip"
	ids := []string{"s1", "s2", "s3"}
	updated, err := repo.Update(pl.ID, &name, &ids)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != name || len(updated.SongIDs) != 3 {
		t.Errorf("Unexpected updated playlist: %+v", updated)
	}

	// Partial update keeps the song list
	name2 := "Renamed"
	updated, err = repo.Update(pl.ID, &name2, nil)
	if err != nil {
		t.Fatalf("Partial update failed: %v", err)
	}
	if updated.Name != "Renamed" || len(updated.SongIDs) != 3 {
		t.Errorf("Partial update lost data: %+v", updated)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 playlist, got %d", len(list))
	}

	if err := repo.Delete(pl.ID); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	missing, err := repo.Get(pl.ID)
	if err != nil {
		t.Fatalf("Get after delete failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil after delete")
	}
}

func TestSettingsRepo(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepo(db)

	settings, err := repo.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings.Volume != 1.0 || !settings.ShuffleMode {
		t.Errorf("Unexpected defaults: %+v", settings)
	}

	vol := 0.35
	repeat := domain.RepeatOne
	updated, err := repo.Update(domain.SettingsUpdate{Volume: &vol, RepeatMode: &repeat})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Volume != 0.35 || updated.RepeatMode != domain.RepeatOne {
		t.Errorf("Update not applied: %+v", updated)
	}

	// Merge semantics: a later partial update keeps earlier fields
	folders := []string{"/music/a"}
	updated, err = repo.Update(domain.SettingsUpdate{SelectedFolders: &folders})
	if err != nil {
		t.Fatalf("Second update failed: %v", err)
	}
	if updated.Volume != 0.35 {
		t.Errorf("Merge lost volume: %+v", updated)
	}
	if len(updated.SelectedFolders) != 1 {
		t.Errorf("Merge lost folders: %+v", updated)
	}

	reloaded, err := repo.Get()
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if reloaded.Volume != 0.35 || reloaded.RepeatMode != domain.RepeatOne {
		t.Errorf("Settings not persisted: %+v", reloaded)
	}
}

func TestHistoryRepo(t *testing.T) {
	db := newTestDB(t)
	repo := NewHistoryRepo(db)

	song := testSong("s1", "/music/a")
	if _, err := repo.Append("s1", song, 120000); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := repo.Append("s2", nil, 0); err != nil {
		t.Fatalf("Second append failed: %v", err)
	}

	entries, err := repo.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	// Most recent first
	if entries[0].SongID != "s2" {
		t.Errorf("Expected s2 first, got %s", entries[0].SongID)
	}
	if entries[1].Song == nil || entries[1].Song.Title != "Song s1" {
		t.Errorf("Expected song snapshot on s1 entry, got %+v", entries[1].Song)
	}

	limited, err := repo.List(1)
	if err != nil {
		t.Fatalf("Limited list failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 entry with limit, got %d", len(limited))
	}
}
