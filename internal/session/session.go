package session

import (
	"context"
	"time"
)

// DefaultTTL is how long an idle session stays resumable.
const DefaultTTL = 30 * time.Minute

// Session holds the conversation position and everything collected so far.
// It is owned by the state machine for the duration of a turn and persisted
// through a Store between turns.
type Session struct {
	ID          string            `json:"id"`
	Step        string            `json:"step"`
	Data        map[string]string `json:"data"`
	CreatedAt   time.Time         `json:"created_at"`
	LastUpdated time.Time         `json:"last_updated"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// New creates a session at the given step with a fresh expiry.
func New(id, step string, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()
	return &Session{
		ID:          id,
		Step:        step,
		Data:        make(map[string]string),
		CreatedAt:   now,
		LastUpdated: now,
		ExpiresAt:   now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// Touch refreshes the last-update and expiry timestamps.
func (s *Session) Touch(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()
	s.LastUpdated = now
	s.ExpiresAt = now.Add(ttl)
}

// Store is durable keyed storage for sessions. Save is last-writer-wins.
// FindByID returns nil for unknown identifiers and for sessions whose expiry
// has passed, even if a record still physically exists.
type Store interface {
	Save(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	DeleteExpired(ctx context.Context) error
}
