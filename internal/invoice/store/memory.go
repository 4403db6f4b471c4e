package store

import (
	"context"
	"sync"
	"time"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgerror"
)

// InMemoryStore keeps widget sessions in process memory. Each session has its
// own lock, so work on one session never blocks another.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionRecord
}

type sessionRecord struct {
	mu      sync.Mutex
	session entity.Session
	evicted bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*sessionRecord),
	}
}

func (s *InMemoryStore) Get(ctx context.Context, sessionID string) (entity.Session, error) {
	rec, err := s.get(sessionID)
	if err != nil {
		return entity.Session{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.evicted {
		return entity.Session{}, pkgerror.ErrNotFound
	}

	return rec.session, nil
}

// Update runs fn on a copy of the session and keeps the copy only when fn
// returns nil. A missing session is created first. The session stays locked
// while fn runs.
func (s *InMemoryStore) Update(ctx context.Context, sessionID string, fn func(sess *entity.Session) error) (entity.Session, error) {
	for {
		rec := s.getOrCreate(sessionID)

		rec.mu.Lock()
		if rec.evicted {
			rec.mu.Unlock()
			continue
		}

		sess := rec.session
		if err := fn(&sess); err != nil {
			rec.mu.Unlock()
			return entity.Session{}, err
		}
		rec.session = sess
		rec.mu.Unlock()

		return sess, nil
	}
}

// Sweep drops sessions idle for longer than ttl and returns how many went.
// A session that is locked right now is in use and is left alone.
func (s *InMemoryStore) Sweep(ctx context.Context, now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, rec := range s.sessions {
		if !rec.mu.TryLock() {
			continue
		}
		if now.Sub(rec.session.UpdatedAt) > ttl {
			rec.evicted = true
			delete(s.sessions, id)
			removed++
		}
		rec.mu.Unlock()
	}

	return removed
}

// Len returns the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

func (s *InMemoryStore) get(sessionID string) (*sessionRecord, error) {
	s.mu.RLock()
	rec, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}

func (s *InMemoryStore) getOrCreate(sessionID string) *sessionRecord {
	if rec, err := s.get(sessionID); err == nil {
		return rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		rec = &sessionRecord{session: entity.Session{ID: sessionID}}
		s.sessions[sessionID] = rec
	}

	return rec
}
