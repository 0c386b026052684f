package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/dmateos82/tunecase/internal/domain"
	"github.com/dmateos82/tunecase/internal/logger"
	"github.com/dmateos82/tunecase/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	r := chi.NewRouter()
	h := NewHandler(db, logger.Default())
	h.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestSongEndpoints(t *testing.T) {
	srv := newTestServer(t)

	song := map[string]interface{}{
		"title":       "Bohemian Rhapsody",
		"artist":      "Queen",
		"album":       "A Night at the Opera",
		"duration":    355000,
		"file_path":   "/music/queen/bohemian_rhapsody.mp3",
		"folder_path": "/music/queen",
		"format":      "mp3",
		"size":        8542880,
	}

	var created domain.Song
	if code := doJSON(t, "POST", srv.URL+"/api/songs", song, &created); code != http.StatusOK {
		t.Fatalf("Create song returned %d", code)
	}
	if created.ID == "" {
		t.Fatal("Expected generated song id")
	}
	if created.Title != "Bohemian Rhapsody" {
		t.Errorf("Unexpected title: %s", created.Title)
	}

	var songs []domain.Song
	if code := doJSON(t, "GET", srv.URL+"/api/songs", nil, &songs); code != http.StatusOK {
		t.Fatalf("List songs returned %d", code)
	}
	if len(songs) != 1 {
		t.Errorf("Expected 1 song, got %d", len(songs))
	}

	var fetched domain.Song
	if code := doJSON(t, "GET", srv.URL+"/api/songs/"+created.ID, nil, &fetched); code != http.StatusOK {
		t.Fatalf("Get song returned %d", code)
	}
	if fetched.ID != created.ID {
		t.Errorf("ID mismatch: %s vs %s", fetched.ID, created.ID)
	}

	if code := doJSON(t, "GET", srv.URL+"/api/songs/missing", nil, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing song, got %d", code)
	}

	// Missing required fields
	if code := doJSON(t, "POST", srv.URL+"/api/songs", map[string]string{"artist": "x"}, nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid song, got %d", code)
	}

	if code := doJSON(t, "DELETE", srv.URL+"/api/songs/"+created.ID, nil, nil); code != http.StatusOK {
		t.Errorf("Delete song returned %d", code)
	}
	if code := doJSON(t, "DELETE", srv.URL+"/api/songs/"+created.ID, nil, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 deleting twice, got %d", code)
	}
}

func TestRandomSongEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Empty store: 404, never a phantom song
	if code := doJSON(t, "GET", srv.URL+"/api/songs/random", nil, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 on empty store, got %d", code)
	}

	for _, s := range []map[string]interface{}{
		{"title": "A1", "file_path": "/a/a1.mp3", "folder_path": "/a"},
		{"title": "A2", "file_path": "/a/a2.mp3", "folder_path": "/a"},
		{"title": "B1", "file_path": "/b/b1.mp3", "folder_path": "/b"},
	} {
		if code := doJSON(t, "POST", srv.URL+"/api/songs", s, nil); code != http.StatusOK {
			t.Fatalf("Create song returned %d", code)
		}
	}

	var song domain.Song
	if code := doJSON(t, "GET", srv.URL+"/api/songs/random", nil, &song); code != http.StatusOK {
		t.Fatalf("Random returned %d", code)
	}

	for i := 0; i < 10; i++ {
		var picked domain.Song
		if code := doJSON(t, "GET", srv.URL+"/api/songs/random?folder_paths=/b", nil, &picked); code != http.StatusOK {
			t.Fatalf("Filtered random returned %d", code)
		}
		if picked.FolderPath != "/b" {
			t.Fatalf("Filtered random escaped the folder: %+v", picked)
		}
	}

	if code := doJSON(t, "GET", srv.URL+"/api/songs/random?folder_paths=/missing", nil, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 for unmatched folder, got %d", code)
	}
}

func TestFavoriteEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var fav domain.Favorite
	if code := doJSON(t, "POST", srv.URL+"/api/favorites", map[string]string{"song_id": "s1"}, &fav); code != http.StatusOK {
		t.Fatalf("Create favorite returned %d", code)
	}
	if fav.SongID != "s1" {
		t.Errorf("Unexpected favorite: %+v", fav)
	}

	var favs []domain.Favorite
	if code := doJSON(t, "GET", srv.URL+"/api/favorites", nil, &favs); code != http.StatusOK {
		t.Fatalf("List favorites returned %d", code)
	}
	if len(favs) != 1 {
		t.Errorf("Expected 1 favorite, got %d", len(favs))
	}

	if code := doJSON(t, "DELETE", srv.URL+"/api/favorites/s1", nil, nil); code != http.StatusOK {
		t.Errorf("Delete favorite returned %d", code)
	}
	if code := doJSON(t, "DELETE", srv.URL+"/api/favorites/s1", nil, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 deleting twice, got %d", code)
	}
}

func TestPlaylistEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var pl domain.Playlist
	body := map[string]interface{}{"name": "Favorites Mix", "song_ids": []string{"s1", "s2"}}
	if code := doJSON(t, "POST", srv.URL+"/api/playlists", body, &pl); code != http.StatusOK {
		t.Fatalf("Create playlist returned %d", code)
	}

	update := map[string]interface{}{"name": "Renamed"}
	var updated domain.Playlist
	if code := doJSON(t, "PUT", srv.URL+"/api/playlists/"+pl.ID, update, &updated); code != http.StatusOK {
		t.Fatalf("Update playlist returned %d", code)
	}
	if updated.Name != "Renamed" || len(updated.SongIDs) != 2 {
		t.Errorf("Partial update wrong: %+v", updated)
	}

	if code := doJSON(t, "PUT", srv.URL+"/api/playlists/missing", update, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 updating missing playlist, got %d", code)
	}

	if code := doJSON(t, "DELETE", srv.URL+"/api/playlists/"+pl.ID, nil, nil); code != http.StatusOK {
		t.Errorf("Delete playlist returned %d", code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var settings domain.Settings
	if code := doJSON(t, "GET", srv.URL+"/api/settings", nil, &settings); code != http.StatusOK {
		t.Fatalf("Get settings returned %d", code)
	}
	if settings.Volume != 1.0 {
		t.Errorf("Unexpected default volume: %f", settings.Volume)
	}

	update := map[string]interface{}{"volume": 0.8, "repeat_mode": "all"}
	if code := doJSON(t, "PUT", srv.URL+"/api/settings", update, &settings); code != http.StatusOK {
		t.Fatalf("Update settings returned %d", code)
	}
	if settings.Volume != 0.8 || settings.RepeatMode != domain.RepeatAll {
		t.Errorf("Update not applied: %+v", settings)
	}
	// Merge keeps earlier fields
	update = map[string]interface{}{"selected_folders": []string{"/music/a"}}
	if code := doJSON(t, "PUT", srv.URL+"/api/settings", update, &settings); code != http.StatusOK {
		t.Fatalf("Second update returned %d", code)
	}
	if settings.Volume != 0.8 {
		t.Errorf("Merge lost volume: %+v", settings)
	}

	bad := map[string]interface{}{"repeat_mode": "forever"}
	if code := doJSON(t, "PUT", srv.URL+"/api/settings", bad, nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid repeat mode, got %d", code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var entry domain.PlayHistoryEntry
	if code := doJSON(t, "POST", srv.URL+"/api/history?song_id=s1&play_duration=120000", nil, &entry); code != http.StatusOK {
		t.Fatalf("Create history returned %d", code)
	}
	if entry.SongID != "s1" || entry.PlayDuration != 120000 {
		t.Errorf("Unexpected entry: %+v", entry)
	}

	if code := doJSON(t, "POST", srv.URL+"/api/history", nil, nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 without song_id, got %d", code)
	}

	var entries []domain.PlayHistoryEntry
	if code := doJSON(t, "GET", srv.URL+"/api/history", nil, &entries); code != http.StatusOK {
		t.Fatalf("List history returned %d", code)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}
}

func TestStatusEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var check store.StatusCheck
	if code := doJSON(t, "POST", srv.URL+"/api/status", map[string]string{"client_name": "tester"}, &check); code != http.StatusOK {
		t.Fatalf("Create status returned %d", code)
	}
	if check.ClientName != "tester" {
		t.Errorf("Unexpected check: %+v", check)
	}

	var checks []store.StatusCheck
	if code := doJSON(t, "GET", srv.URL+"/api/status", nil, &checks); code != http.StatusOK {
		t.Fatalf("List status returned %d", code)
	}
	if len(checks) != 1 {
		t.Errorf("Expected 1 check, got %d", len(checks))
	}
}
