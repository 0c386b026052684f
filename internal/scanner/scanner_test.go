package scanner

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/dmateos82/tunecase/internal/domain"
	"github.com/dmateos82/tunecase/internal/logger"
)

// fakeIndex serves a fixed asset list in pages and fails resolution for
// the paths listed in broken.
type fakeIndex struct {
	paths    []string
	broken   map[string]bool
	pageErr  error
	pages    int
	resolves int
}

func (f *fakeIndex) Page(ctx context.Context, cursor string, limit int) (*AssetPage, error) {
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	f.pages++

	offset := 0
	if cursor != "" {
		offset, _ = strconv.Atoi(cursor)
	}
	end := offset + limit
	if end > len(f.paths) {
		end = len(f.paths)
	}

	page := &AssetPage{HasNext: end < len(f.paths)}
	for _, p := range f.paths[offset:end] {
		page.Assets = append(page.Assets, Asset{ID: AssetID(p), Path: p})
	}
	if page.HasNext {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (f *fakeIndex) Resolve(ctx context.Context, asset Asset) (*ResolvedAsset, error) {
	f.resolves++
	if f.broken[asset.Path] {
		return nil, errors.New("unreadable asset")
	}
	return &ResolvedAsset{LocalPath: asset.Path, Size: 1024}, nil
}

func TestScanGroupsByFolder(t *testing.T) {
	index := &fakeIndex{paths: []string{
		"/a/one.mp3",
		"/a/two.mp3",
		"/b/three.mp3",
	}}
	s := New(index, 2, logger.Default())

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Songs) != 3 {
		t.Fatalf("Expected 3 songs, got %d", len(result.Songs))
	}
	if len(result.Folders) != 2 {
		t.Fatalf("Expected 2 folders, got %d", len(result.Folders))
	}

	// Counts per folder sum to the number of scanned assets
	counts := map[string]int{}
	sum := 0
	for _, f := range result.Folders {
		counts[f.Path] = f.SongCount
		sum += f.SongCount
		if !f.Selected {
			t.Errorf("Expected folder %s selected by default", f.Path)
		}
	}
	if counts["/a"] != 2 || counts["/b"] != 1 {
		t.Errorf("Unexpected folder counts: %v", counts)
	}
	if sum != len(result.Songs) {
		t.Errorf("Folder counts sum %d != %d songs", sum, len(result.Songs))
	}

	// Index order is preserved
	if result.Songs[0].FilePath != "/a/one.mp3" || result.Songs[2].FilePath != "/b/three.mp3" {
		t.Errorf("Scan order not preserved: %+v", result.Songs)
	}

	// Paging respected the page size
	if index.pages != 2 {
		t.Errorf("Expected 2 pages, got %d", index.pages)
	}
}

func TestScanSkipsBadAssets(t *testing.T) {
	index := &fakeIndex{
		paths:  []string{"/a/one.mp3", "/a/bad.mp3", "/a/two.mp3"},
		broken: map[string]bool{"/a/bad.mp3": true},
	}
	s := New(index, 10, logger.Default())

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Songs) != 2 {
		t.Errorf("Expected 2 songs, got %d", len(result.Songs))
	}
	if result.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", result.Skipped)
	}
	if index.resolves != 3 {
		t.Errorf("Expected all 3 assets attempted, got %d", index.resolves)
	}
	if result.Folders[0].SongCount != 2 {
		t.Errorf("Skipped asset counted in folder: %+v", result.Folders[0])
	}
}

func TestScanEmptyIndex(t *testing.T) {
	s := New(&fakeIndex{}, 10, logger.Default())

	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !result.Empty() {
		t.Errorf("Expected empty result, got %+v", result)
	}
	if len(result.Folders) != 0 {
		t.Errorf("Expected no folders, got %d", len(result.Folders))
	}
}

func TestScanIndexFailure(t *testing.T) {
	s := New(&fakeIndex{pageErr: errors.New("index unavailable")}, 10, logger.Default())

	if _, err := s.Scan(context.Background()); err == nil {
		t.Fatal("Expected scan failure when the index query fails")
	}
}

func TestScanSubmitsAndReportsProgress(t *testing.T) {
	index := &fakeIndex{paths: []string{"/a/one.mp3", "/a/two.mp3"}}
	s := New(index, 10, logger.Default())

	var submitted []domain.Song
	s.Submit = func(song domain.Song) { submitted = append(submitted, song) }

	var messages []string
	s.Progress = func(msg string) { messages = append(messages, msg) }

	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(submitted) != 2 {
		t.Errorf("Expected 2 submitted songs, got %d", len(submitted))
	}
	if len(messages) == 0 {
		t.Fatal("Expected progress messages")
	}
	last := messages[len(messages)-1]
	if !strings.Contains(last, "Scan complete") {
		t.Errorf("Unexpected final progress message: %s", last)
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/music/my_favorite_song.mp3", "My Favorite Song"},
		{"/music/hello-world.flac", "Hello World"},
		{"/music/already Good.mp3", "Already Good"},
	}
	for _, tt := range tests {
		if got := DisplayTitle(tt.path); got != tt.want {
			t.Errorf("DisplayTitle(%s) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestAssetIDStable(t *testing.T) {
	a := AssetID("/music/song.mp3")
	b := AssetID("/music/song.mp3")
	if a != b {
		t.Errorf("Expected stable ids, got %s and %s", a, b)
	}
	if AssetID("/music/other.mp3") == a {
		t.Error("Expected distinct ids for distinct paths")
	}
	if len(a) != 16 {
		t.Errorf("Expected 16 char id, got %d", len(a))
	}
}
