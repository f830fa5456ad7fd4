package screen

import (
	"context"
	"log/slog"
	"time"

	"github.com/daap14/members/internal/membership"
)

const (
	signOutTitle   = "Sign Out"
	signOutMessage = "Are you sure you want to sign out?"
)

// ProfileView is the rendered state of the Profile screen.
type ProfileView struct {
	Loading     bool                  `json:"loading"`
	Refreshing  bool                  `json:"refreshing"`
	Email       string                `json:"email"`
	FullName    string                `json:"fullName"`
	Points      int                   `json:"points"`
	Membership  membership.Membership `json:"membership"`
	MemberSince *time.Time            `json:"memberSince,omitempty"`
}

// Profile presents the member's account details and the sign-out action.
type Profile struct {
	*loader
	ports Ports
}

// NewProfile creates a Profile presenter.
func NewProfile(fetcher ProfileFetcher, authCtx *AuthContext, ports Ports) *Profile {
	return &Profile{loader: newLoader(fetcher, authCtx, ports.Alerter), ports: ports}
}

// Mount fetches the profile for the first render.
func (p *Profile) Mount(ctx context.Context) { p.load(ctx) }

// Refresh re-fetches while keeping the current data on screen.
func (p *Profile) Refresh(ctx context.Context) { p.load(ctx) }

// Unmount tears the screen down; late results are dropped.
func (p *Profile) Unmount() { p.unmount() }

// Render builds the view from the current state.
func (p *Profile) Render() ProfileView {
	data, inFlight := p.snapshot()

	v := ProfileView{
		Loading:    inFlight && data == nil,
		Refreshing: inFlight && data != nil,
	}
	if data != nil {
		v.Email = data.Email
		v.FullName = data.FullName
		v.Points = data.Points
		since := data.CreatedAt
		v.MemberSince = &since
	}
	v.Membership = membership.Classify(v.Points)
	return v
}

// SignOut asks for confirmation, then ends the session and returns to the
// sign-in screen. Navigation happens even if ending the session fails.
// Reports whether the user confirmed.
func (p *Profile) SignOut(ctx context.Context) bool {
	if p.ports.Confirmer == nil || !p.ports.Confirmer.Confirm(ctx, signOutTitle, signOutMessage) {
		return false
	}

	if err := p.auth.SignOut(ctx); err != nil {
		slog.Warn("sign-out failed", "error", err)
	}

	if p.ports.Navigator != nil {
		p.ports.Navigator.Navigate(RouteSignIn)
	}
	return true
}
