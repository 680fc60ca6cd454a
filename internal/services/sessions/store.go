package sessions

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/killallgit/dubber-api/internal/models"
)

// Store is the in-memory session registry. Sessions are never persisted;
// callers must handle ErrSessionNotFound after a restart by recreating.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
}

// NewStore creates a session registry capped at maxSessions (0 = unlimited)
func NewStore(maxSessions int) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
	}
}

// Create registers a new session owning the given segment list
func (st *Store) Create(sourceURL, sourceLang, targetLang string, segs []*models.Segment) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.maxSessions > 0 && len(st.sessions) >= st.maxSessions {
		return nil, ErrTooManySessions
	}

	session := newSession(uuid.NewString(), sourceURL, sourceLang, targetLang, segs)
	st.sessions[session.ID] = session
	return session, nil
}

// Get looks up a session by id and touches its idle timer
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	session, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	session.Touch()
	return session, nil
}

// Delete removes a session from the registry. In-flight provider calls for
// its units are not cancelled; they finish and populate the shared cache.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Count returns the number of active sessions
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Reap removes sessions idle longer than ttl and returns how many went
func (st *Store) Reap(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	reaped := 0
	for id, session := range st.sessions {
		if session.IdleSince() > ttl {
			delete(st.sessions, id)
			reaped++
		}
	}
	if reaped > 0 {
		log.Printf("Reaped %d idle session(s)", reaped)
	}
	return reaped
}
