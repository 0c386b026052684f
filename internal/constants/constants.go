// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort         = "8090"
	DefaultDBPath       = "tunecase.db"
	DefaultStatePath    = "tunecase-player.db"
	DefaultGatewayURL   = "http://127.0.0.1:8090"
	DefaultScanPageSize = 100
	DefaultHTTPTimeout  = 10 * time.Second
	DefaultVolume       = 1.0
)

// Metadata placeholders used when a file carries no usable tags
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Playback
const (
	// SkipPreviousThreshold is the position past which "previous" restarts
	// the current song instead of picking another one.
	SkipPreviousThreshold = 5 * time.Second
	StatusInterval        = 500 * time.Millisecond
)

// Play history
const (
	// MaxHistoryItems is the local cap; the gateway keeps the full list.
	MaxHistoryItems = 50
)

// Outbox
const (
	OutboxQueueSize   = 256
	OutboxTaskTimeout = 10 * time.Second
)

// Local state keys
const (
	StateKeySettings       = "settings"
	StateKeyFavorites      = "favorites"
	StateKeyHistory        = "play_history"
	StateKeyEqualizerBands = "equalizer_bands"
)

// Equalizer presets (band values are stored only, never applied to the signal)
const (
	EqualizerPresetNormal = "normal"
	EqualizerBandCount    = 5
)

// File Extensions
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtWAV  = ".wav"
	ExtOGG  = ".ogg"
)

// MIME Types
const (
	MimeTypeFLAC = "audio/flac"
	MimeTypeMP3  = "audio/mpeg"
	MimeTypeJPEG = "image/jpeg"
)

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)
