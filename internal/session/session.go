// Package session keeps one draft per client session. All access to a
// session's draft goes through Registry.Do, which serializes callers.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/slipgen/internal/draft"
)

// ErrNotFound is returned for unknown or discarded sessions.
var ErrNotFound = errors.New("session not found")

// Session is the state owned by one client.
type Session struct {
	ID    string
	Draft *draft.Draft

	// Last is the most recent successful submission, nil before the first.
	Last *draft.Submission
}

type entry struct {
	mu      sync.Mutex
	session Session
	touched time.Time
}

// Registry holds the live sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	newDraft func() *draft.Draft
	now      func() time.Time
}

// NewRegistry returns an empty registry that creates drafts with newDraft.
func NewRegistry(newDraft func() *draft.Draft) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		newDraft: newDraft,
		now:      time.Now,
	}
}

// Create starts a new session with a fresh draft and returns its ID.
func (r *Registry) Create() (string, *draft.Draft) {
	id := uuid.NewString()
	d := r.newDraft()

	r.mu.Lock()
	r.sessions[id] = &entry{
		session: Session{ID: id, Draft: d},
		touched: r.now(),
	}
	r.mu.Unlock()

	return id, d
}

// Do runs fn with exclusive access to the session. The error from fn is
// returned as is.
func (r *Registry) Do(id string, fn func(s *Session) error) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		e.touched = r.now()
	}
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.session)
}

// Discard ends a session. It reports whether the session existed.
func (r *Registry) Discard(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Sweep discards sessions that have not been used for longer than maxIdle
// and returns how many were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		if e.touched.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
