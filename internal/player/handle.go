// Package player manages the single active sound handle and the transport
// state machine around it.
package player

import (
	"time"
)

// Handle is the live resource representing one loaded audio asset. The
// session owns at most one handle at a time; acquiring a new one always
// releases the previous one first.
type Handle interface {
	Pause()
	Resume()
	Seek(position time.Duration) error
	SetVolume(volume float64)
	Position() time.Duration
	Duration() time.Duration
	Close() error
}

// OpenRequest describes the handle to create.
type OpenRequest struct {
	Path   string
	Volume float64
	// Loop makes the handle restart itself at end of track. Set iff the
	// repeat mode is "one" at selection time; a looping handle never
	// reports OnDone.
	Loop bool
	// OnDone fires once on natural end of track.
	OnDone func()
	// OnStatus delivers position/duration on the handle's own schedule.
	OnStatus func(position, duration time.Duration)
}

// HandleFactory creates sound handles.
type HandleFactory interface {
	Open(req OpenRequest) (Handle, error)
}
