package screen

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/daap14/members/internal/profile"
)

// loader fetches the profile for a screen. Every fetch is stamped with a
// generation; starting a new fetch cancels the previous one, and a result
// whose generation is no longer current, or that lands after unmount, is
// dropped.
type loader struct {
	fetcher ProfileFetcher
	auth    *AuthContext
	alerter Alerter

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	inFlight  bool
	data      *profile.UserProfile
	unmounted bool
}

func newLoader(fetcher ProfileFetcher, authCtx *AuthContext, alerter Alerter) *loader {
	return &loader{fetcher: fetcher, auth: authCtx, alerter: alerter}
}

// load runs one fetch to completion. It reports whether the result (data
// or error) was applied to the view.
func (l *loader) load(ctx context.Context) bool {
	if l.auth == nil || l.auth.Identity == nil {
		return false
	}

	l.mu.Lock()
	if l.unmounted {
		l.mu.Unlock()
		return false
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.inFlight = true
	l.mu.Unlock()

	p, err := l.fetcher.Fetch(fetchCtx, l.auth.Identity)
	cancel()

	l.mu.Lock()
	if gen != l.gen || l.unmounted {
		l.mu.Unlock()
		slog.Debug("dropping stale profile result", "generation", gen)
		return false
	}
	l.cancel = nil
	l.inFlight = false
	if err == nil {
		l.data = p
	}
	l.mu.Unlock()

	if err != nil {
		if !errors.Is(err, profile.ErrFetchFailed) {
			slog.Debug("profile fetch error", "error", err)
		}
		if l.alerter != nil {
			l.alerter.Alert(errorAlertTitle, profile.FetchFailedMessage)
		}
	}
	return true
}

// unmount cancels any in-flight fetch and makes later results no-ops.
func (l *loader) unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unmounted = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.inFlight = false
}

// snapshot returns the current data and fetch state.
func (l *loader) snapshot() (data *profile.UserProfile, inFlight bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data, l.inFlight
}
