package screen

import (
	"context"
	"sync"

	"github.com/daap14/members/internal/auth"
)

// AuthState is one observation of the authentication state.
type AuthState struct {
	Resolved bool
	Identity *auth.Identity
}

// SplashView is the rendered state of the Splash screen.
type SplashView struct {
	Loading bool  `json:"loading"`
	Route   Route `json:"route,omitempty"`
}

// Splash shows a loading indicator until authentication resolves, then
// routes once per unresolved-to-resolved transition.
type Splash struct {
	nav Navigator

	mu       sync.Mutex
	resolved bool
	route    Route
}

// NewSplash creates a Splash presenter.
func NewSplash(nav Navigator) *Splash {
	return &Splash{nav: nav}
}

// Observe applies a state change. It navigates and returns the route only
// on the transition into the resolved state.
func (s *Splash) Observe(state AuthState) (Route, bool) {
	s.mu.Lock()
	if !state.Resolved {
		s.resolved = false
		s.route = ""
		s.mu.Unlock()
		return "", false
	}
	if s.resolved {
		s.mu.Unlock()
		return "", false
	}

	route := RouteSignIn
	if state.Identity != nil {
		route = RouteHome
	}
	s.resolved = true
	s.route = route
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.Navigate(route)
	}
	return route, true
}

// Run consumes state changes until the channel closes or ctx is done.
func (s *Splash) Run(ctx context.Context, states <-chan AuthState) {
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			s.Observe(st)
		}
	}
}

// Render builds the view from the current state.
func (s *Splash) Render() SplashView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SplashView{Loading: !s.resolved, Route: s.route}
}
