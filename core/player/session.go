// Package player owns per-session playback state and mediates between user
// intent and the asynchronous notifications of the underlying playback
// surface.
package player

import (
	"sync"
	"time"

	"vidarc/logger"
	"vidarc/model"
)

// Options tunes session behavior.
type Options struct {
	// ControlsHideAfter is the idle timeout before controls auto-hide while
	// playing.
	ControlsHideAfter time.Duration
	// VolumeFloor is the level below which a volume change is treated as an
	// implicit mute.
	VolumeFloor float64
}

// Session is the playback state machine for one open player instance. It is
// created bound to a single video record and destroyed when the player
// closes; it never outlives the underlying surface connection.
type Session struct {
	id      string
	video   *model.Video
	surface Surface
	opts    Options

	mu            sync.Mutex
	loadToken     int64
	state         State
	buffering     bool
	position      float64
	duration      float64
	volume        float64
	lastVolume    float64 // last non-zero volume, restored on unmute
	muted         bool
	rate          float64
	fullscreen    bool
	pip           bool
	controls      bool
	controlsTimer *time.Timer
	playPending   bool
	wantPlaying   bool // latest requested intent while a play request is pending
	closed        bool

	onChange func(Snapshot)
}

// newSession binds a session to a video and starts loading it. Autoplay is
// attempted once metadata arrives.
func newSession(id string, video *model.Video, surface Surface, opts Options, onChange func(Snapshot)) *Session {
	s := &Session{
		id:         id,
		video:      video,
		surface:    surface,
		opts:       opts,
		state:      StateIdle,
		volume:     1,
		lastVolume: 1,
		rate:       1,
		controls:   true,
		onChange:   onChange,
	}

	s.mu.Lock()
	s.startLoadLocked()
	s.unlockAndEmit()
	return s
}

// startLoadLocked begins a (re)load of the bound video. A new token makes
// every event from any previous load stale.
func (s *Session) startLoadLocked() {
	s.loadToken++
	s.state = StateLoading
	s.buffering = false
	s.playPending = false
	s.wantPlaying = false
	s.surface.Load(s.loadToken, s.video.VideoURL)
	logger.Debug("Player load started",
		logger.String("session", s.id),
		logger.String("videoId", s.video.ID),
		logger.Int64("token", s.loadToken))
}

// Snapshot returns the current playback state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		VideoID:          s.video.ID,
		State:            s.state,
		Buffering:        s.buffering,
		Position:         s.position,
		Duration:         s.duration,
		Volume:           s.volume,
		Muted:            s.muted,
		Rate:             s.rate,
		Fullscreen:       s.fullscreen,
		PictureInPicture: s.pip,
		ControlsVisible:  s.controls,
	}
}

// unlockAndEmit publishes the current snapshot to the observer. The lock is
// released before the callback runs so the observer may call back into the
// session.
func (s *Session) unlockAndEmit() {
	snap := s.snapshotLocked()
	cb := s.onChange
	closed := s.closed
	s.mu.Unlock()
	if cb != nil && !closed {
		cb(snap)
	}
}

// HandleEvent applies an asynchronous surface notification. Events whose
// token does not match the current load are from a superseded source and are
// discarded.
func (s *Session) HandleEvent(ev Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if ev.Token != s.loadToken {
		logger.Debug("Discarding stale player event",
			logger.String("session", s.id),
			logger.String("type", string(ev.Type)),
			logger.Int64("token", ev.Token),
			logger.Int64("current", s.loadToken))
		s.mu.Unlock()
		return
	}

	switch ev.Type {
	case EventMetadata:
		s.duration = ev.Duration
		if s.state == StateLoading {
			s.state = StatePaused
			// Attempt autoplay. Rejection lands back in paused, silently.
			s.wantPlaying = true
			s.playPending = true
			s.surface.Play()
		}

	case EventTimeUpdate:
		s.position = clamp(ev.Position, 0, s.durationOrMax())

	case EventPlayStarted:
		s.playPending = false
		if s.wantPlaying {
			s.state = StatePlaying
			s.resetControlsTimerLocked()
		} else {
			// The user toggled back to pause while the request was pending;
			// honor the latest intent.
			s.surface.Pause()
			s.state = StatePaused
		}

	case EventPlayRejected:
		s.playPending = false
		s.wantPlaying = false
		if s.state != StateErrored {
			s.state = StatePaused
		}

	case EventWaiting:
		s.buffering = true
		s.showControlsLocked()

	case EventResumed:
		s.buffering = false

	case EventEnded:
		// Ended auto-transitions to paused at position zero.
		s.wantPlaying = false
		s.playPending = false
		s.position = 0
		s.surface.Seek(0)
		s.state = StatePaused
		s.showControlsLocked()

	case EventError:
		// Keep last known position and duration for display; only an
		// explicit retry leaves this state.
		s.state = StateErrored
		s.buffering = false
		s.playPending = false
		s.wantPlaying = false
		s.showControlsLocked()
		logger.Warn("Playback error",
			logger.String("session", s.id),
			logger.String("videoId", s.video.ID),
			logger.String("message", ev.Message))

	case EventFullscreen:
		s.fullscreen = ev.Active

	case EventPiP:
		s.pip = ev.Active
	}

	s.unlockAndEmit()
}

// TogglePlay flips between playing and paused. While a play request is still
// pending the latest intent wins and is reconciled once the request settles.
func (s *Session) TogglePlay() {
	s.mu.Lock()
	if s.closed || s.state == StateErrored || s.state == StateLoading || s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	s.showControlsLocked()

	if s.playPending {
		s.wantPlaying = !s.wantPlaying
		s.unlockAndEmit()
		return
	}

	if s.state == StatePlaying {
		s.surface.Pause()
		s.state = StatePaused
		s.wantPlaying = false
	} else {
		s.wantPlaying = true
		s.playPending = true
		s.surface.Play()
	}
	s.unlockAndEmit()
}

// Seek moves to the given position, clamped into [0, duration].
func (s *Session) Seek(position float64) {
	s.mu.Lock()
	if s.closed || s.state == StateErrored || s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	s.showControlsLocked()
	s.position = clamp(position, 0, s.durationOrMax())
	s.surface.Seek(s.position)
	s.unlockAndEmit()
}

// Skip moves by delta seconds, saturating at either boundary.
func (s *Session) Skip(delta float64) {
	s.mu.Lock()
	pos := s.position
	s.mu.Unlock()
	s.Seek(pos + delta)
}

// Restart seeks back to the beginning.
func (s *Session) Restart() {
	s.Seek(0)
}

// SetVolume sets the volume level. Levels under the configured floor are an
// implicit mute.
func (s *Session) SetVolume(level float64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.showControlsLocked()

	s.volume = clamp(level, 0, 1)
	s.surface.SetVolume(s.volume)
	if s.volume < s.opts.VolumeFloor {
		s.muted = true
		s.surface.SetMuted(true)
	} else {
		s.lastVolume = s.volume
		if s.muted {
			s.muted = false
			s.surface.SetMuted(false)
		}
	}
	s.unlockAndEmit()
}

// ToggleMute mutes, or restores the last non-zero volume.
func (s *Session) ToggleMute() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.showControlsLocked()

	if s.muted {
		s.muted = false
		s.volume = s.lastVolume
		if s.volume < s.opts.VolumeFloor {
			s.volume = 1
		}
		s.surface.SetVolume(s.volume)
		s.surface.SetMuted(false)
	} else {
		s.muted = true
		s.surface.SetMuted(true)
	}
	s.unlockAndEmit()
}

// SetRate selects a playback rate from the fixed set. Unknown rates are
// ignored.
func (s *Session) SetRate(rate float64) {
	s.mu.Lock()
	if s.closed || !ValidRate(rate) {
		s.mu.Unlock()
		return
	}
	s.showControlsLocked()
	s.rate = rate
	s.surface.SetRate(rate)
	s.unlockAndEmit()
}

// ToggleFullscreen requests a fullscreen change. The flag itself only flips
// when the surface confirms the change.
func (s *Session) ToggleFullscreen() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.showControlsLocked()
	s.surface.SetFullscreen(!s.fullscreen)
	s.unlockAndEmit()
}

// TogglePictureInPicture requests a picture-in-picture change; the flag flips
// on confirmation.
func (s *Session) TogglePictureInPicture() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.showControlsLocked()
	s.surface.SetPictureInPicture(!s.pip)
	s.unlockAndEmit()
}

// Retry reloads the source after a playback error. It is the only way out of
// the errored state and is never triggered automatically.
func (s *Session) Retry() {
	s.mu.Lock()
	if s.closed || s.state != StateErrored {
		s.mu.Unlock()
		return
	}
	s.startLoadLocked()
	s.unlockAndEmit()
}

// Interact marks user activity, showing the controls and restarting the
// auto-hide timer.
func (s *Session) Interact() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.showControlsLocked()
	s.unlockAndEmit()
}

// showControlsLocked makes the controls visible and restarts the idle timer.
func (s *Session) showControlsLocked() {
	s.controls = true
	s.resetControlsTimerLocked()
}

func (s *Session) resetControlsTimerLocked() {
	if s.controlsTimer != nil {
		s.controlsTimer.Stop()
	}
	if s.opts.ControlsHideAfter <= 0 {
		return
	}
	s.controlsTimer = time.AfterFunc(s.opts.ControlsHideAfter, s.hideControls)
}

// hideControls fires on timer expiry. Controls hide only while playing; never
// while paused, buffering, or errored. The timer may race with Close, so the
// closed flag is checked under the lock.
func (s *Session) hideControls() {
	s.mu.Lock()
	if s.closed || s.state != StatePlaying || s.buffering {
		s.mu.Unlock()
		return
	}
	s.controls = false
	s.unlockAndEmit()
}

// Close halts playback and releases the session state. No playback outlives
// dismissal.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.controlsTimer != nil {
		s.controlsTimer.Stop()
	}
	s.surface.Pause()
	s.surface.Unload()
	s.state = StateIdle
	s.mu.Unlock()

	logger.Debug("Player session closed",
		logger.String("session", s.id), logger.String("videoId", s.video.ID))
}

func (s *Session) durationOrMax() float64 {
	if s.duration > 0 {
		return s.duration
	}
	// Duration unknown; do not clamp the upper bound.
	return 1 << 52
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
