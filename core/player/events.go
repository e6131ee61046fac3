package player

// State is the primary player state.
type State string

const (
	StateIdle    State = "idle"    // no media source bound
	StateLoading State = "loading" // source bound, metadata not yet available
	StatePaused  State = "paused"  // ready, not playing
	StatePlaying State = "playing"
	StateEnded   State = "ended"
	StateErrored State = "errored" // terminal until an explicit retry
)

// PlaybackRates is the fixed set of selectable playback rates.
var PlaybackRates = []float64{0.5, 0.75, 1, 1.25, 1.5, 2}

// ValidRate reports whether r is a selectable playback rate.
func ValidRate(r float64) bool {
	for _, v := range PlaybackRates {
		if v == r {
			return true
		}
	}
	return false
}

// Surface is the playback surface the session drives: the remote media
// element on the other side of the player connection. Calls are
// fire-and-forget; outcomes arrive back as Events.
type Surface interface {
	// Load binds a source. The token identifies this load; every event the
	// surface reports afterwards carries it so results from a superseded
	// load can be discarded.
	Load(token int64, src string)
	Play()
	Pause()
	Seek(position float64)
	SetVolume(volume float64)
	SetMuted(muted bool)
	SetRate(rate float64)
	SetFullscreen(on bool)
	SetPictureInPicture(on bool)
	Unload()
}

// EventType enumerates the asynchronous notifications a Surface reports.
type EventType string

const (
	EventMetadata     EventType = "metadata"     // duration became known
	EventTimeUpdate   EventType = "timeupdate"   // position advanced
	EventPlayStarted  EventType = "playStarted"  // a pending play request succeeded
	EventPlayRejected EventType = "playRejected" // a pending play request was refused (autoplay policy etc.)
	EventWaiting      EventType = "waiting"      // playback stalled, buffering
	EventResumed      EventType = "resumed"      // playback resumed after a stall
	EventEnded        EventType = "ended"
	EventError        EventType = "error"      // media failed to load or decode
	EventFullscreen   EventType = "fullscreen" // fullscreen changed externally
	EventPiP          EventType = "pip"        // picture-in-picture changed externally
)

// Event is a single asynchronous surface notification.
type Event struct {
	Type     EventType `json:"type"`
	Token    int64     `json:"token"`
	Position float64   `json:"position,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Active   bool      `json:"active,omitempty"` // fullscreen/pip state
	Message  string    `json:"message,omitempty"`
}

// Snapshot is the externally visible playback state of a session.
type Snapshot struct {
	VideoID          string  `json:"videoId"`
	State            State   `json:"state"`
	Buffering        bool    `json:"buffering"`
	Position         float64 `json:"position"`
	Duration         float64 `json:"duration"`
	Volume           float64 `json:"volume"`
	Muted            bool    `json:"muted"`
	Rate             float64 `json:"rate"`
	Fullscreen       bool    `json:"fullscreen"`
	PictureInPicture bool    `json:"pictureInPicture"`
	ControlsVisible  bool    `json:"controlsVisible"`
}
