package screen

import (
	"context"

	"github.com/daap14/members/internal/membership"
)

// HomeView is the rendered state of the Home screen.
type HomeView struct {
	Loading    bool                  `json:"loading"`
	Refreshing bool                  `json:"refreshing"`
	Greeting   string                `json:"greeting"`
	Points     int                   `json:"points"`
	Membership membership.Membership `json:"membership"`
	Progress   membership.Progress   `json:"progress"`
}

// Home presents the member's balance and tier.
type Home struct {
	*loader
}

// NewHome creates a Home presenter.
func NewHome(fetcher ProfileFetcher, authCtx *AuthContext, ports Ports) *Home {
	return &Home{loader: newLoader(fetcher, authCtx, ports.Alerter)}
}

// Mount fetches the profile for the first render.
func (h *Home) Mount(ctx context.Context) { h.load(ctx) }

// Refresh re-fetches while keeping the current data on screen.
func (h *Home) Refresh(ctx context.Context) { h.load(ctx) }

// Unmount tears the screen down; late results are dropped.
func (h *Home) Unmount() { h.unmount() }

// Render builds the view from the current state. The tier is derived on
// every call.
func (h *Home) Render() HomeView {
	data, inFlight := h.snapshot()

	v := HomeView{
		Loading:    inFlight && data == nil,
		Refreshing: inFlight && data != nil,
	}
	if data != nil {
		v.Greeting = "Welcome back, " + data.DisplayName()
		v.Points = data.Points
	}
	v.Membership = membership.Classify(v.Points)
	v.Progress = membership.Next(v.Points)
	return v
}
