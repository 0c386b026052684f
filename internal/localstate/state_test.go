package localstate

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmateos82/tunecase/internal/constants"
	"github.com/dmateos82/tunecase/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Failed to open state store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSettingsDefaults(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if !settings.ShuffleMode {
		t.Error("Expected shuffle on by default")
	}
	if settings.Volume != 1.0 {
		t.Errorf("Expected default volume 1.0, got %v", settings.Volume)
	}
	if settings.RepeatMode != domain.RepeatNone {
		t.Errorf("Expected default repeat mode %q, got %q", domain.RepeatNone, settings.RepeatMode)
	}
}

func TestUpdateSettingsMerges(t *testing.T) {
	store := newTestStore(t)

	volume := 0.4
	if _, err := store.UpdateSettings(domain.SettingsUpdate{Volume: &volume}); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	mode := domain.RepeatAll
	updated, err := store.UpdateSettings(domain.SettingsUpdate{RepeatMode: &mode})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	if updated.Volume != 0.4 {
		t.Errorf("Expected earlier volume 0.4 to survive, got %v", updated.Volume)
	}
	if updated.RepeatMode != domain.RepeatAll {
		t.Errorf("Expected repeat mode %q, got %q", domain.RepeatAll, updated.RepeatMode)
	}

	reloaded, err := store.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if reloaded.Volume != 0.4 || reloaded.RepeatMode != domain.RepeatAll {
		t.Errorf("Reloaded settings mismatch: %+v", reloaded)
	}
}

func TestToggleFavorite(t *testing.T) {
	store := newTestStore(t)

	on, err := store.ToggleFavorite("song-1")
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if !on {
		t.Error("Expected first toggle to favorite the song")
	}

	favs, err := store.Favorites()
	if err != nil {
		t.Fatalf("Favorites failed: %v", err)
	}
	if !favs["song-1"] {
		t.Error("Expected song-1 in favorites")
	}

	off, err := store.ToggleFavorite("song-1")
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if off {
		t.Error("Expected second toggle to unfavorite the song")
	}
}

func TestHistoryCapped(t *testing.T) {
	store := newTestStore(t)

	total := constants.MaxHistoryItems + 10
	for i := 0; i < total; i++ {
		entry := domain.PlayHistoryEntry{
			ID:         fmt.Sprintf("entry-%d", i),
			SongID:     fmt.Sprintf("song-%d", i),
			PlayedDate: time.Now().UTC(),
		}
		if err := store.AppendHistory(entry); err != nil {
			t.Fatalf("AppendHistory failed: %v", err)
		}
	}

	entries, err := store.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != constants.MaxHistoryItems {
		t.Fatalf("Expected history capped at %d, got %d", constants.MaxHistoryItems, len(entries))
	}
	// Most recent first; the oldest entries fell off.
	if entries[0].SongID != fmt.Sprintf("song-%d", total-1) {
		t.Errorf("Expected newest entry first, got %q", entries[0].SongID)
	}
	if entries[len(entries)-1].SongID != fmt.Sprintf("song-%d", total-constants.MaxHistoryItems) {
		t.Errorf("Unexpected oldest surviving entry %q", entries[len(entries)-1].SongID)
	}
}

func TestEqualizerBands(t *testing.T) {
	store := newTestStore(t)

	bands, err := store.EqualizerBands()
	if err != nil {
		t.Fatalf("EqualizerBands failed: %v", err)
	}
	if len(bands) != constants.EqualizerBandCount {
		t.Fatalf("Expected %d bands, got %d", constants.EqualizerBandCount, len(bands))
	}
	for i, b := range bands {
		if b != 0 {
			t.Errorf("Expected flat default, band %d is %v", i, b)
		}
	}

	want := []float64{1, 0.5, 0, -0.5, -1}
	if err := store.SaveEqualizerBands(want); err != nil {
		t.Fatalf("SaveEqualizerBands failed: %v", err)
	}
	got, err := store.EqualizerBands()
	if err != nil {
		t.Fatalf("EqualizerBands failed: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Band %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	if err := store.SaveEqualizerBands([]float64{1, 2}); err == nil {
		t.Error("Expected SaveEqualizerBands to reject wrong band count")
	}
}
