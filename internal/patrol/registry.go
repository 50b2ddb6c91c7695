package patrol

import (
	"sync"

	"github.com/PatrulhaBH/patrol-backend/internal/track"
)

// activeSession pairs a running engine session with its push source when
// the session is fed by a device instead of the simulator.
type activeSession struct {
	session *track.Session
	push    *track.PushSource
}

// Registry tracks running sessions by patrol id. Sessions belong to the
// process; a restart orphans remote records but never corrupts them, since
// status is always recomputed from whatever data is stored.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*activeSession
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*activeSession)}
}

func (r *Registry) Add(id string, s *track.Session, push *track.PushSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &activeSession{session: s, push: push}
}

func (r *Registry) Get(id string) (*activeSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.sessions[id]
	return a, ok
}

// Remove takes the session out of the registry and returns it; the caller
// stops it outside the lock.
func (r *Registry) Remove(id string) (*activeSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return a, ok
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
