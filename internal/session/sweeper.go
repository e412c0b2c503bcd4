package session

import (
	"context"
	"time"

	"github.com/yousiff139-lang/aqua-dent-link-main/pkg/logging"
)

// Sweeper periodically deletes expired sessions from a store. Redis handles
// expiry by itself; the sweeper matters for the in-memory backend.
type Sweeper struct {
	store    Store
	logger   *logging.Logger
	interval time.Duration
}

// NewSweeper creates a sweeper running at the given interval.
func NewSweeper(store Store, interval time.Duration, logger *logging.Logger) *Sweeper {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{store: store, logger: logger, interval: interval}
}

// Run sweeps until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.DeleteExpired(ctx); err != nil {
				s.logger.Error("session sweep failed", "error", err)
			}
		}
	}
}
