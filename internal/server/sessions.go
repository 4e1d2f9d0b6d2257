package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/archmap/archmap/pkg/editor"
)

// sessionTTL is how long an idle editing session is kept alive.
const sessionTTL = time.Hour

// sessionManager holds live editing sessions keyed by id.
// Sessions are in-memory only: clients persist results through the
// version endpoints when they are done editing.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu       sync.Mutex
	session  *editor.Session
	lastUsed time.Time
}

func newSessionManager() *sessionManager {
	return &sessionManager{sessions: make(map[string]*sessionEntry)}
}

// open creates a session from a document and returns its id together
// with the canonical form of the document.
func (m *sessionManager) open(doc string) (string, string, error) {
	s, err := editor.Open(doc)
	if err != nil {
		return "", "", err
	}
	canonical := s.Document()

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &sessionEntry{session: s, lastUsed: time.Now()}
	m.mu.Unlock()
	return id, canonical, nil
}

// with runs fn with exclusive access to the session, refreshing its
// idle timer. The first return reports whether the session exists.
func (m *sessionManager) with(id string, fn func(*editor.Session) error) (bool, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		e.lastUsed = time.Now()
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return true, fn(e.session)
}

// close removes a session.
func (m *sessionManager) close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// sweep drops sessions idle for longer than sessionTTL.
func (m *sessionManager) sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastUsed) > sessionTTL {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}
