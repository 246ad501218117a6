// Package session keeps operator quotations between HTTP calls.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"quote-service/internal/quote/service"
)

var ErrNotFound = errors.New("session not found")

// Session holds the latest quotation of one operator. Searches are
// generation-stamped: only the newest started search may publish.
type Session struct {
	ID string

	mu       sync.Mutex
	gen      uint64
	quote    *service.Quotation
	lastSeen time.Time
}

// Ticket identifies one search within a session.
type Ticket struct{ gen uint64 }

// Begin starts a search; any search begun earlier can no longer publish.
func (s *Session) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return Ticket{gen: s.gen}
}

// Publish installs q if t is still the latest search. It reports whether
// q was kept.
func (s *Session) Publish(t Ticket, q *service.Quotation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.gen != s.gen {
		return false
	}
	s.quote = q
	return true
}

func (s *Session) Quotation() *service.Quotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store is an in-memory session table with idle expiry.
type Store struct {
	mu    sync.RWMutex
	items map[string]*Session
	ttl   time.Duration
	now   func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{items: make(map[string]*Session), ttl: ttl, now: time.Now}
}

func (st *Store) Create() *Session {
	s := &Session{ID: uuid.NewString(), lastSeen: st.now()}
	st.mu.Lock()
	st.items[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns a live session and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.items[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	now := st.now()
	if st.ttl > 0 && now.Sub(s.idleSince()) > st.ttl {
		st.Delete(id)
		return nil, ErrNotFound
	}
	s.touch(now)
	return s, nil
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.items, id)
	st.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.items {
		if now.Sub(s.idleSince()) > st.ttl {
			delete(st.items, id)
			n++
		}
	}
	return n
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.items)
}
