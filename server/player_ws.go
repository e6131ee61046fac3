package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"vidarc/core/player"
	"vidarc/logger"
	"vidarc/repository"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsCommand is an instruction pushed to the connected player surface.
type wsCommand struct {
	Type     string  `json:"type"`
	Token    int64   `json:"token,omitempty"`
	Src      string  `json:"src,omitempty"`
	Position float64 `json:"position,omitempty"`
	Volume   float64 `json:"volume,omitempty"`
	Muted    bool    `json:"muted,omitempty"`
	Rate     float64 `json:"rate,omitempty"`
	On       bool    `json:"on,omitempty"`
}

// wsClientMessage is a message received from the connected player: either a
// user intent ("intent") or an asynchronous surface notification ("event").
type wsClientMessage struct {
	Type   string       `json:"type"`
	Intent string       `json:"intent,omitempty"`
	Value  float64      `json:"value,omitempty"`
	Event  player.Event `json:"event,omitempty"`
}

// wsSurface drives the media element on the far end of a player connection.
// gorilla/websocket allows one concurrent writer, so every write goes through
// the mutex.
type wsSurface struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSurface) send(cmd wsCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(cmd); err != nil {
		logger.Debug("Player command write failed", logger.ErrorField(err))
	}
}

func (s *wsSurface) sendSnapshot(snap player.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := struct {
		Type     string          `json:"type"`
		Snapshot player.Snapshot `json:"snapshot"`
	}{Type: "snapshot", Snapshot: snap}
	if err := s.conn.WriteJSON(payload); err != nil {
		logger.Debug("Player snapshot write failed", logger.ErrorField(err))
	}
}

func (s *wsSurface) Load(token int64, src string) {
	s.send(wsCommand{Type: "load", Token: token, Src: src})
}

func (s *wsSurface) Play()  { s.send(wsCommand{Type: "play"}) }
func (s *wsSurface) Pause() { s.send(wsCommand{Type: "pause"}) }

func (s *wsSurface) Seek(position float64) {
	s.send(wsCommand{Type: "seek", Position: position})
}

func (s *wsSurface) SetVolume(volume float64) {
	s.send(wsCommand{Type: "setVolume", Volume: volume})
}

func (s *wsSurface) SetMuted(muted bool) {
	s.send(wsCommand{Type: "setMuted", Muted: muted})
}

func (s *wsSurface) SetRate(rate float64) {
	s.send(wsCommand{Type: "setRate", Rate: rate})
}

func (s *wsSurface) SetFullscreen(on bool) {
	s.send(wsCommand{Type: "setFullscreen", On: on})
}

func (s *wsSurface) SetPictureInPicture(on bool) {
	s.send(wsCommand{Type: "setPictureInPicture", On: on})
}

func (s *wsSurface) Unload() { s.send(wsCommand{Type: "unload"}) }

// PlayerSocketHandler upgrades the connection and binds a player session to
// it. The session lives exactly as long as the connection: disconnecting
// halts playback and discards all state.
func (h *APIHandler) PlayerSocketHandler(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["video_id"]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Player socket upgrade failed", logger.ErrorField(err))
		return
	}

	surface := &wsSurface{conn: conn}
	session, err := h.players.Open(videoID, surface, surface.sendSnapshot)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			surface.send(wsCommand{Type: "notFound"})
		}
		conn.Close()
		return
	}

	username, _ := GetUsernameFromContext(r.Context())
	logger.Info("Player session opened",
		logger.String("videoId", videoID),
		logger.String("username", username))

	defer func() {
		h.players.Close(session)
		conn.Close()
		logger.Info("Player session closed", logger.String("videoId", videoID))
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("Player socket read error", logger.ErrorField(err))
			}
			return
		}

		var msg wsClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Debug("Discarding malformed player message", logger.ErrorField(err))
			continue
		}

		switch msg.Type {
		case "event":
			session.HandleEvent(msg.Event)
		case "intent":
			dispatchIntent(session, msg)
		default:
			logger.Debug("Unknown player message type", logger.String("type", msg.Type))
		}
	}
}

func dispatchIntent(session *player.Session, msg wsClientMessage) {
	switch msg.Intent {
	case "togglePlay":
		session.TogglePlay()
	case "seek":
		session.Seek(msg.Value)
	case "skipForward":
		session.Skip(10)
	case "skipBack":
		session.Skip(-10)
	case "restart":
		session.Restart()
	case "setVolume":
		session.SetVolume(msg.Value)
	case "toggleMute":
		session.ToggleMute()
	case "setRate":
		session.SetRate(msg.Value)
	case "toggleFullscreen":
		session.ToggleFullscreen()
	case "togglePip":
		session.TogglePictureInPicture()
	case "retry":
		session.Retry()
	case "interact":
		session.Interact()
	default:
		logger.Debug("Unknown player intent", logger.String("intent", msg.Intent))
	}
}
