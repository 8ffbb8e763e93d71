package internal

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rm-hull/reeded-glass/internal/glass"
)

// Session holds an uploaded original and the most recent render derived from
// it. The original is never modified.
type Session struct {
	ID       string
	original *image.NRGBA
	now      func() time.Time
	render   func(*image.NRGBA, glass.Params) (*image.NRGBA, error)

	started atomic.Uint64

	mu         sync.Mutex
	result     *image.NRGBA
	params     glass.Params
	generation uint64
	lastUsed   time.Time
}

// Apply renders the original with params. Every call is numbered; a render
// that finishes after a newer call has started is discarded, so the stored
// result always belongs to the latest request. The boolean reports whether
// this render was kept.
func (s *Session) Apply(params glass.Params) (*image.NRGBA, bool, error) {
	if err := params.Validate(); err != nil {
		return nil, false, err
	}

	gen := s.started.Add(1)
	out, err := s.render(s.original, params)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	if gen != s.started.Load() {
		return out, false, nil
	}
	s.result = out
	s.params = params
	s.generation = gen
	return out, true, nil
}

// Result returns the latest kept render together with its parameters and
// generation number.
func (s *Session) Result() (*image.NRGBA, glass.Params, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	return s.result, s.params, s.generation
}

func (s *Session) Bounds() image.Rectangle {
	return s.original.Bounds()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create registers a copy of original and renders it once with params before
// the session becomes visible.
func (st *SessionStore) Create(original *image.NRGBA, params glass.Params) (*Session, error) {
	s := &Session{
		ID:       uuid.NewString(),
		original: glass.Clone(original),
		now:      st.now,
		render:   glass.RunPipeline,
		lastUsed: st.now(),
	}
	if _, _, err := s.Apply(params); err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return s, nil
}

func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// EvictIdle removes sessions unused for longer than ttl and returns how many
// were removed.
func (st *SessionStore) EvictIdle(ttl time.Duration) int {
	cutoff := st.now().Add(-ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	evicted := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			evicted++
		}
	}
	return evicted
}
