// Package domain defines the core data model shared by the scanner, the
// playback session and the persistence gateway.
package domain

import (
	"time"
)

// Song is one playable audio file discovered by a catalog scan. A song is
// created once per discovered asset and is immutable afterwards; a later
// scan recreates it under the same identifier.
type Song struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Artist     string    `json:"artist" db:"artist"`
	Album      string    `json:"album" db:"album"`
	Duration   int64     `json:"duration" db:"duration"` // milliseconds
	FilePath   string    `json:"file_path" db:"file_path"`
	FolderPath string    `json:"folder_path" db:"folder_path"`
	Format     string    `json:"format" db:"format"` // lower-cased extension, no dot
	Size       int64     `json:"size" db:"size"`     // bytes, best effort
	Artwork    string    `json:"artwork,omitempty" db:"artwork"` // data URI or external URL
	Genre      string    `json:"genre,omitempty" db:"genre"`
	Year       int       `json:"year,omitempty" db:"year"`
	Lyrics     string    `json:"lyrics,omitempty" db:"lyrics"`
	AddedDate  time.Time `json:"added_date" db:"added_date"`
}

// Folder is a grouping derived from the songs of the latest scan. It is
// recomputed fully on every scan and never persisted on its own; only the
// list of selected paths survives in settings.
type Folder struct {
	Path      string `json:"path"`
	Name      string `json:"name"` // last path segment
	SongCount int    `json:"song_count"`
	Selected  bool   `json:"selected"`
}

// Favorite marks a song as favorited. Unordered.
type Favorite struct {
	ID        string    `json:"id" db:"id"`
	SongID    string    `json:"song_id" db:"song_id"`
	AddedDate time.Time `json:"added_date" db:"added_date"`
}

// Playlist is a named, ordered list of song identifiers.
type Playlist struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	SongIDs     []string  `json:"song_ids" db:"-"`
	CreatedDate time.Time `json:"created_date" db:"created_date"`
	UpdatedDate time.Time `json:"updated_date" db:"updated_date"`
}

// RepeatMode is the tri-state repeat setting of the playback session.
type RepeatMode string

const (
	RepeatNone RepeatMode = "none"
	RepeatOne  RepeatMode = "one"
	RepeatAll  RepeatMode = "all"
)

// Next returns the successor in the none -> one -> all -> none cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatOne
	case RepeatOne:
		return RepeatAll
	default:
		return RepeatNone
	}
}

// Valid reports whether m is one of the three known modes.
func (m RepeatMode) Valid() bool {
	return m == RepeatNone || m == RepeatOne || m == RepeatAll
}

// Settings is the persisted user state. Loaded once at startup and saved
// merge-style on every change, last writer wins.
type Settings struct {
	SelectedFolders   []string   `json:"selected_folders"`
	ShuffleMode       bool       `json:"shuffle_mode"`
	RepeatMode        RepeatMode `json:"repeat_mode"`
	Volume            float64    `json:"volume"`
	EqualizerPreset   string     `json:"equalizer_preset"`
	ThemeMode         string     `json:"theme_mode"`
	SleepTimerMinutes int        `json:"sleep_timer_minutes"`
	UpdatedDate       time.Time  `json:"updated_date"`
}

// SettingsUpdate is a partial settings change; nil fields are left as-is.
type SettingsUpdate struct {
	SelectedFolders   *[]string   `json:"selected_folders,omitempty"`
	ShuffleMode       *bool       `json:"shuffle_mode,omitempty"`
	RepeatMode        *RepeatMode `json:"repeat_mode,omitempty"`
	Volume            *float64    `json:"volume,omitempty"`
	EqualizerPreset   *string     `json:"equalizer_preset,omitempty"`
	ThemeMode         *string     `json:"theme_mode,omitempty"`
	SleepTimerMinutes *int        `json:"sleep_timer_minutes,omitempty"`
}

// Apply merges the non-nil fields of u into s.
func (s *Settings) Apply(u SettingsUpdate) {
	if u.SelectedFolders != nil {
		s.SelectedFolders = *u.SelectedFolders
	}
	if u.ShuffleMode != nil {
		s.ShuffleMode = *u.ShuffleMode
	}
	if u.RepeatMode != nil {
		s.RepeatMode = *u.RepeatMode
	}
	if u.Volume != nil {
		s.Volume = *u.Volume
	}
	if u.EqualizerPreset != nil {
		s.EqualizerPreset = *u.EqualizerPreset
	}
	if u.ThemeMode != nil {
		s.ThemeMode = *u.ThemeMode
	}
	if u.SleepTimerMinutes != nil {
		s.SleepTimerMinutes = *u.SleepTimerMinutes
	}
	s.UpdatedDate = time.Now().UTC()
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		SelectedFolders: []string{},
		ShuffleMode:     true,
		RepeatMode:      RepeatNone,
		Volume:          1.0,
		EqualizerPreset: "normal",
		ThemeMode:       "dark",
		UpdatedDate:     time.Now().UTC(),
	}
}

// PlayHistoryEntry is one append-only play record. The song is snapshotted
// so history stays readable after a re-scan replaces the catalog.
type PlayHistoryEntry struct {
	ID           string    `json:"id" db:"id"`
	SongID       string    `json:"song_id" db:"song_id"`
	Song         *Song     `json:"song,omitempty" db:"-"`
	PlayedDate   time.Time `json:"played_date" db:"played_date"`
	PlayDuration int64     `json:"play_duration" db:"play_duration"` // ms actually played
}
