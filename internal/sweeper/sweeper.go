package sweeper

import (
	"context"
	"log/slog"
	"time"
)

// SessionPurger deletes sessions that expired at or before now.
type SessionPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically removes expired sessions so that signed-out or
// timed-out tokens stop resolving and the sessions table stays small.
type Sweeper struct {
	sessions SessionPurger
	interval time.Duration
	now      func() time.Time
}

// New creates a new Sweeper.
func New(sessions SessionPurger, interval time.Duration) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the sweep loop. It blocks until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("session sweeper started", "interval", s.interval.String())
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

// Sweep runs a single purge and returns the number of sessions removed.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		slog.Error("sweeper: failed to delete expired sessions", "error", err)
		return 0
	}
	if n > 0 {
		slog.Info("sweeper: expired sessions removed", "count", n)
	}
	return n
}
