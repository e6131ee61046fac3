package player

import (
	"sync"

	"vidarc/repository"

	"github.com/google/uuid"
)

// Manager tracks open player sessions. Opening a session on a record counts
// one view; closing it releases all playback state.
type Manager struct {
	catalog repository.CatalogStore
	opts    Options

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager over the given catalog.
func NewManager(catalog repository.CatalogStore, opts Options) *Manager {
	return &Manager{
		catalog:  catalog,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Open starts a new player session for the named video. The record's view
// counter is incremented exactly once per open.
func (m *Manager) Open(videoID string, surface Surface, onChange func(Snapshot)) (*Session, error) {
	video, err := m.catalog.Get(videoID)
	if err != nil {
		return nil, err
	}

	m.catalog.IncrementViews(videoID)

	id := uuid.NewString()
	session := newSession(id, video, surface, m.opts, onChange)

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()
	return session, nil
}

// Close closes a session and forgets it.
func (m *Manager) Close(session *Session) {
	m.mu.Lock()
	delete(m.sessions, session.id)
	m.mu.Unlock()
	session.Close()
}

// CloseAll closes every open session, for server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
