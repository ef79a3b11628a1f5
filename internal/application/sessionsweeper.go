package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/mytodo/internal/domain/port/driven"
)

// SessionSweeper periodically deletes expired sessions so the sessions table
// does not grow without bound. Expired sessions are already rejected by
// AuthService.CurrentUser; sweeping only reclaims space.
type SessionSweeper struct {
	sessions driven.SessionStore
	interval time.Duration
	now      func() time.Time
}

// NewSessionSweeper creates a sweeper that runs every interval.
func NewSessionSweeper(sessions driven.SessionStore, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		interval: interval,
		now:      time.Now,
	}
}

// Start sweeps once immediately, then on every tick. Start blocks until the
// context is canceled.
func (s *SessionSweeper) Start(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep deletes expired sessions once and returns how many were removed.
// Errors are logged, not returned; the next tick retries.
func (s *SessionSweeper) Sweep(ctx context.Context) int64 {
	n, err := s.sessions.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		slog.Error("session sweep failed", "error", err)
		return 0
	}
	if n > 0 {
		slog.Info("expired sessions removed", "count", n)
	}
	return n
}
