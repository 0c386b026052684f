package player

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dmateos82/tunecase/internal/constants"
	"github.com/dmateos82/tunecase/internal/domain"
	"github.com/dmateos82/tunecase/internal/logger"
)

// ErrNothingToPlay is returned when a skip has no playable songs to pick
// from, e.g. every folder is deselected.
var ErrNothingToPlay = errors.New("no playable songs")

// State is the transport state of the session.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
)

// Status is a point-in-time snapshot of the session.
type Status struct {
	State    State
	Song     *domain.Song
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Shuffle  bool
	Repeat   domain.RepeatMode
	SleepAt  time.Time
}

// SongSource yields the songs currently eligible for playback.
type SongSource interface {
	PlayableSongs() []domain.Song
}

// Session serializes all transport commands behind one mutex and owns the
// single live sound handle. Hooks run with the session lock held and must
// not call back into the session.
type Session struct {
	mu      sync.Mutex
	factory HandleFactory
	source  SongSource
	logger  *logger.Logger
	rng     *rand.Rand

	handle   Handle
	current  *domain.Song
	state    State
	volume   float64
	shuffle  bool
	repeat   domain.RepeatMode
	position time.Duration
	duration time.Duration

	// playbackID fences callbacks from handles that were already released.
	playbackID uint64

	sleepTimer *time.Timer
	sleepAt    time.Time

	// OnSongStarted fires after a song begins playing, once per selection.
	OnSongStarted func(song domain.Song)
	// OnSettingsChanged fires when volume, shuffle or repeat change.
	OnSettingsChanged func(update domain.SettingsUpdate)
	// OnStatus fires on every state or position change.
	OnStatus func(status Status)
}

func NewSession(factory HandleFactory, source SongSource, log *logger.Logger, settings domain.Settings) *Session {
	return &Session{
		factory: factory,
		source:  source,
		logger:  log,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		state:   StateIdle,
		volume:  clampVolume(settings.Volume),
		shuffle: settings.ShuffleMode,
		repeat:  settings.RepeatMode,
	}
}

// SelectSong loads the given song, releasing any handle the session holds
// first. On failure the session ends up idle with no handle.
func (s *Session) SelectSong(song domain.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(song)
}

func (s *Session) selectLocked(song domain.Song) error {
	s.releaseLocked()
	s.state = StateLoading
	s.current = &song
	s.publishLocked()

	s.playbackID++
	id := s.playbackID
	handle, err := s.factory.Open(OpenRequest{
		Path:   song.FilePath,
		Volume: s.volume,
		Loop:   s.repeat == domain.RepeatOne,
		OnDone: func() { s.handleDone(id) },
		OnStatus: func(pos, dur time.Duration) {
			s.handleStatus(id, pos, dur)
		},
	})
	if err != nil {
		s.state = StateIdle
		s.current = nil
		s.publishLocked()
		return fmt.Errorf("loading %s: %w", song.Title, err)
	}

	s.handle = handle
	s.state = StatePlaying
	s.position = 0
	s.duration = time.Duration(song.Duration) * time.Millisecond
	s.logger.WithSong(song.ID, song.Title).Info("Song started")
	if s.OnSongStarted != nil {
		s.OnSongStarted(song)
	}
	s.publishLocked()
	return nil
}

// TogglePlayPause flips between playing and paused. Without a loaded song
// it does nothing.
func (s *Session) TogglePlayPause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return
	}
	switch s.state {
	case StatePlaying:
		s.handle.Pause()
		s.state = StatePaused
	case StatePaused:
		s.handle.Resume()
		s.state = StatePlaying
	default:
		return
	}
	s.publishLocked()
}

// Seek moves the play position, clamped to the track bounds.
func (s *Session) Seek(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return nil
	}
	if position < 0 {
		position = 0
	}
	if dur := s.handle.Duration(); position > dur {
		position = dur
	}
	if err := s.handle.Seek(position); err != nil {
		return fmt.Errorf("seeking: %w", err)
	}
	s.position = position
	s.publishLocked()
	return nil
}

// SetVolume clamps the volume to 0..1, applies it to the live handle and
// reports it for persistence.
func (s *Session) SetVolume(volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = clampVolume(volume)
	if s.handle != nil {
		s.handle.SetVolume(s.volume)
	}
	if s.OnSettingsChanged != nil {
		v := s.volume
		s.OnSettingsChanged(domain.SettingsUpdate{Volume: &v})
	}
	s.publishLocked()
}

// SkipNext plays a random song from the playable set.
func (s *Session) SkipNext() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipNextLocked()
}

func (s *Session) skipNextLocked() error {
	songs := s.source.PlayableSongs()
	if len(songs) == 0 {
		return ErrNothingToPlay
	}
	next := songs[s.rng.Intn(len(songs))]
	if s.current != nil && next.ID == s.current.ID && len(songs) > 1 {
		for _, candidate := range songs {
			if candidate.ID != s.current.ID {
				next = candidate
				break
			}
		}
	}
	return s.selectLocked(next)
}

// SkipPrevious restarts the current song when more than a few seconds have
// played; otherwise it behaves like SkipNext.
func (s *Session) SkipPrevious() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil && s.handle.Position() > constants.SkipPreviousThreshold {
		if err := s.handle.Seek(0); err != nil {
			return fmt.Errorf("restarting song: %w", err)
		}
		s.position = 0
		s.publishLocked()
		return nil
	}
	return s.skipNextLocked()
}

// ToggleShuffle flips shuffle and reports it for persistence.
func (s *Session) ToggleShuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffle = !s.shuffle
	if s.OnSettingsChanged != nil {
		v := s.shuffle
		s.OnSettingsChanged(domain.SettingsUpdate{ShuffleMode: &v})
	}
	s.publishLocked()
	return s.shuffle
}

// CycleRepeat advances the repeat mode through none, one, all and reports
// it for persistence. A handle that was opened without looping keeps
// playing; the new mode takes effect at the end of the track.
func (s *Session) CycleRepeat() domain.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeat = s.repeat.Next()
	if s.OnSettingsChanged != nil {
		v := s.repeat
		s.OnSettingsChanged(domain.SettingsUpdate{RepeatMode: &v})
	}
	s.publishLocked()
	return s.repeat
}

// SetSleepTimer pauses playback after the given delay. A pending timer, if
// any, is replaced.
func (s *Session) SetSleepTimer(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sleepTimer != nil {
		s.sleepTimer.Stop()
	}
	s.sleepAt = time.Now().Add(delay)
	s.sleepTimer = time.AfterFunc(delay, s.sleepExpired)
	s.publishLocked()
}

// CancelSleepTimer discards the pending sleep timer, if any.
func (s *Session) CancelSleepTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sleepTimer != nil {
		s.sleepTimer.Stop()
		s.sleepTimer = nil
	}
	s.sleepAt = time.Time{}
	s.publishLocked()
}

func (s *Session) sleepExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleepTimer = nil
	s.sleepAt = time.Time{}
	if s.handle != nil && s.state == StatePlaying {
		s.handle.Pause()
		s.state = StatePaused
	}
	s.logger.Info("Sleep timer expired, playback paused")
	s.publishLocked()
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() Status {
	return Status{
		State:    s.state,
		Song:     s.current,
		Position: s.position,
		Duration: s.duration,
		Volume:   s.volume,
		Shuffle:  s.shuffle,
		Repeat:   s.repeat,
		SleepAt:  s.sleepAt,
	}
}

// Close releases the sound handle and cancels any pending sleep timer.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sleepTimer != nil {
		s.sleepTimer.Stop()
		s.sleepTimer = nil
	}
	s.releaseLocked()
	s.state = StateIdle
	s.current = nil
	return nil
}

// handleDone runs when a handle reaches the natural end of its track.
func (s *Session) handleDone(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.playbackID {
		return
	}
	switch {
	case s.repeat == domain.RepeatOne && s.current != nil:
		song := *s.current
		if err := s.selectLocked(song); err != nil {
			s.logger.Error("Failed to repeat song", "error", err)
		}
	case s.repeat == domain.RepeatAll || s.shuffle:
		if err := s.skipNextLocked(); err != nil {
			s.logger.Error("Failed to advance to next song", "error", err)
			s.releaseLocked()
			s.state = StateIdle
			s.publishLocked()
		}
	default:
		s.releaseLocked()
		s.state = StateIdle
		s.position = 0
		s.publishLocked()
	}
}

func (s *Session) handleStatus(id uint64, position, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.playbackID {
		return
	}
	s.position = position
	if duration > 0 {
		s.duration = duration
	}
	s.publishLocked()
}

// releaseLocked closes the current handle and bumps the playback fence so
// late callbacks from it are dropped.
func (s *Session) releaseLocked() {
	if s.handle == nil {
		return
	}
	if err := s.handle.Close(); err != nil {
		s.logger.Warn("Failed to close sound handle", "error", err)
	}
	s.handle = nil
	s.playbackID++
}

func (s *Session) publishLocked() {
	if s.OnStatus != nil {
		s.OnStatus(s.statusLocked())
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
