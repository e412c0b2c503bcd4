package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a process-local map. Useful for development
// and tests; expired entries are removed by DeleteExpired.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Save stores a copy of the session, last writer wins.
func (s *MemoryStore) Save(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	cp.Data = make(map[string]string, len(sess.Data))
	for k, v := range sess.Data {
		cp.Data[k] = v
	}
	s.sessions[sess.ID] = &cp
	return nil
}

// FindByID returns a copy of the stored session, or nil when unknown or
// logically expired.
func (s *MemoryStore) FindByID(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[id]
	if !ok || stored.Expired() {
		return nil, nil
	}

	cp := *stored
	cp.Data = make(map[string]string, len(stored.Data))
	for k, v := range stored.Data {
		cp.Data[k] = v
	}
	return &cp, nil
}

// DeleteExpired removes sessions whose expiry has passed.
func (s *MemoryStore) DeleteExpired(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
