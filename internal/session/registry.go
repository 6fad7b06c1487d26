// Package session tracks caller sessions: lock ownership attribution
// and the per-session active-project scope.
//
// There is no process-wide "current project" — each session carries
// its own state, created lazily on first use and torn down when the
// transport connection goes away. Teardown releases every entity lock
// the session still holds, so no lock outlives a dead caller.
package session

import (
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/locks"
)

// Session is one caller's state.
type Session struct {
	ID            string
	StartedAt     time.Time
	ActiveProject string // parent item id scoping "what next" queries
}

// Registry is the in-memory session table.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	locks    *locks.Coordinator
}

// NewRegistry creates a registry that releases locks through the
// given coordinator on teardown.
func NewRegistry(coordinator *locks.Coordinator) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		locks:    coordinator,
	}
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = &Session{ID: id, StartedAt: time.Now().UTC()}
		r.sessions[id] = s
	}
	return s
}

// SetActiveProject records the project scope for the session.
func (r *Registry) SetActiveProject(id, projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = &Session{ID: id, StartedAt: time.Now().UTC()}
		r.sessions[id] = s
	}
	s.ActiveProject = projectID
}

// ActiveProject returns the session's project scope, or "" if none
// was set (or the session doesn't exist yet).
func (r *Registry) ActiveProject(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s.ActiveProject
	}
	return ""
}

// End tears the session down and forcibly releases all locks it
// holds. Safe to call for an unknown id. Returns the number of locks
// freed.
func (r *Registry) End(id string) int {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	return r.locks.ReleaseSession(id)
}

// Len reports how many sessions are live. Used by the status tool.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
