// Package screen holds the presenters behind the Splash, Home and Profile
// screens. Presenters own their view state; rendering, alerts and
// navigation are delegated to the ports below.
package screen

import (
	"context"

	"github.com/daap14/members/internal/auth"
	"github.com/daap14/members/internal/profile"
)

// Route names a navigation destination.
type Route string

const (
	RouteSplash  Route = "splash"
	RouteSignIn  Route = "signin"
	RouteHome    Route = "home"
	RouteProfile Route = "profile"
)

// Alerter shows a blocking alert to the user.
type Alerter interface {
	Alert(title, message string)
}

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(route Route)
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) bool
}

// ProfileFetcher reads the profile of an identity.
type ProfileFetcher interface {
	Fetch(ctx context.Context, identity *auth.Identity) (*profile.UserProfile, error)
}

// SignOutFunc ends the current session.
type SignOutFunc func(ctx context.Context) error

// AuthContext is the session state handed to every screen: the current
// identity (nil when signed out), whether resolution has finished, and
// the sign-out capability.
type AuthContext struct {
	Identity *auth.Identity
	Resolved bool
	signOut  SignOutFunc
}

// NewAuthContext creates a resolved AuthContext.
func NewAuthContext(identity *auth.Identity, signOut SignOutFunc) *AuthContext {
	return &AuthContext{Identity: identity, Resolved: true, signOut: signOut}
}

// SignOut ends the session. A context without a sign-out capability is a no-op.
func (a *AuthContext) SignOut(ctx context.Context) error {
	if a == nil || a.signOut == nil {
		return nil
	}
	return a.signOut(ctx)
}

// Ports bundles the presenter's collaborators.
type Ports struct {
	Alerter   Alerter
	Navigator Navigator
	Confirmer Confirmer
}

const errorAlertTitle = "Error"
