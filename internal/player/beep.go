package player

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/dmateos82/tunecase/internal/constants"
)

const speakerSampleRate = beep.SampleRate(44100)

// BeepFactory opens sound handles backed by the system speaker. The speaker
// is initialized once, on the first Open, at a fixed sample rate; every
// stream is resampled to it.
type BeepFactory struct {
	initOnce sync.Once
	initErr  error
}

func NewBeepFactory() *BeepFactory {
	return &BeepFactory{}
}

func (f *BeepFactory) Open(req OpenRequest) (Handle, error) {
	f.initOnce.Do(func() {
		f.initErr = speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10))
	})
	if f.initErr != nil {
		return nil, fmt.Errorf("initializing speaker: %w", f.initErr)
	}

	file, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("opening audio file: %w", err)
	}

	streamer, format, err := decode(req.Path, file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(req.Path), err)
	}

	var source beep.Streamer = streamer
	if req.Loop {
		source = beep.Loop(-1, streamer)
	}
	resampled := beep.Resample(4, format.SampleRate, speakerSampleRate, source)
	volume := &effects.Volume{Streamer: resampled, Base: 2}
	ctrl := &beep.Ctrl{Streamer: volume}

	h := &beepHandle{
		streamer: streamer,
		format:   format,
		volume:   volume,
		ctrl:     ctrl,
		done:     make(chan struct{}),
	}
	h.setVolumeLocked(req.Volume)

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		if !req.Loop && req.OnDone != nil {
			go req.OnDone()
		}
	})))

	if req.OnStatus != nil {
		go h.reportStatus(req.OnStatus)
	}
	return h, nil
}

func decode(path string, file *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case constants.ExtMP3:
		return mp3.Decode(file)
	case constants.ExtFLAC:
		return flac.Decode(file)
	case constants.ExtWAV:
		return wav.Decode(file)
	case constants.ExtOGG:
		return vorbis.Decode(file)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
}

type beepHandle struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	volume   *effects.Volume
	ctrl     *beep.Ctrl

	closeOnce sync.Once
	done      chan struct{}
}

func (h *beepHandle) reportStatus(fn func(position, duration time.Duration)) {
	ticker := time.NewTicker(constants.StatusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			speaker.Lock()
			pos := h.format.SampleRate.D(h.streamer.Position())
			dur := h.format.SampleRate.D(h.streamer.Len())
			speaker.Unlock()
			fn(pos, dur)
		}
	}
}

func (h *beepHandle) Pause() {
	speaker.Lock()
	h.ctrl.Paused = true
	speaker.Unlock()
}

func (h *beepHandle) Resume() {
	speaker.Lock()
	h.ctrl.Paused = false
	speaker.Unlock()
}

func (h *beepHandle) Seek(position time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	n := h.format.SampleRate.N(position)
	if n < 0 {
		n = 0
	}
	if max := h.streamer.Len(); n > max {
		n = max
	}
	return h.streamer.Seek(n)
}

func (h *beepHandle) SetVolume(volume float64) {
	speaker.Lock()
	h.setVolumeLocked(volume)
	speaker.Unlock()
}

// setVolumeLocked maps a linear 0..1 volume onto the effect's exponential
// scale. Zero mutes outright instead of asking for log2(0).
func (h *beepHandle) setVolumeLocked(volume float64) {
	if volume <= 0 {
		h.volume.Silent = true
		h.volume.Volume = 0
		return
	}
	h.volume.Silent = false
	h.volume.Volume = math.Log2(volume)
}

func (h *beepHandle) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return h.format.SampleRate.D(h.streamer.Position())
}

func (h *beepHandle) Duration() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return h.format.SampleRate.D(h.streamer.Len())
}

func (h *beepHandle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		close(h.done)
		speaker.Lock()
		h.ctrl.Paused = true
		h.ctrl.Streamer = nil
		speaker.Unlock()
		err = h.streamer.Close()
	})
	return err
}
