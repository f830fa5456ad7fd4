package handler

import (
	"context"
	"net/http"

	"github.com/daap14/members/internal/api/middleware"
	"github.com/daap14/members/internal/api/response"
	"github.com/daap14/members/internal/auth"
	"github.com/daap14/members/internal/screen"
)

type alertResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type screenResponse struct {
	View       any             `json:"view"`
	Alerts     []alertResponse `json:"alerts"`
	NavigateTo screen.Route    `json:"navigateTo,omitempty"`
}

type signOutScreenRequest struct {
	Confirmed bool `json:"confirmed"`
}

type signOutScreenResponse struct {
	Confirmed  bool         `json:"confirmed"`
	NavigateTo screen.Route `json:"navigateTo,omitempty"`
}

// requestPorts records what a presenter asked the client to do during one
// request. Confirmation is answered up front by the request body.
type requestPorts struct {
	alerts    []alertResponse
	route     screen.Route
	confirmed bool
}

func (p *requestPorts) Alert(title, message string) {
	p.alerts = append(p.alerts, alertResponse{Title: title, Message: message})
}

func (p *requestPorts) Navigate(route screen.Route) { p.route = route }

func (p *requestPorts) Confirm(_ context.Context, _, _ string) bool { return p.confirmed }

func (p *requestPorts) ports() screen.Ports {
	return screen.Ports{Alerter: p, Navigator: p, Confirmer: p}
}

func (p *requestPorts) respond(view any) screenResponse {
	alerts := p.alerts
	if alerts == nil {
		alerts = []alertResponse{}
	}
	return screenResponse{View: view, Alerts: alerts, NavigateTo: p.route}
}

// ScreenHandler renders the Splash, Home and Profile screens for a client
// that draws the returned view models.
type ScreenHandler struct {
	fetcher screen.ProfileFetcher
	auth    AuthService
}

// NewScreenHandler creates a new ScreenHandler.
func NewScreenHandler(fetcher screen.ProfileFetcher, authService AuthService) *ScreenHandler {
	return &ScreenHandler{fetcher: fetcher, auth: authService}
}

func (h *ScreenHandler) authContext(identity *auth.Identity) *screen.AuthContext {
	return screen.NewAuthContext(identity, func(ctx context.Context) error {
		if identity == nil {
			return nil
		}
		return h.auth.SignOut(ctx, identity.SessionID)
	})
}

// Splash handles GET /screens/splash. Authentication has already resolved
// by the time the handler runs, so the response always carries a route.
func (h *ScreenHandler) Splash(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rec := &requestPorts{}
	s := screen.NewSplash(rec)
	s.Observe(screen.AuthState{Resolved: true, Identity: middleware.GetIdentity(r.Context())})

	response.Success(w, http.StatusOK, rec.respond(s.Render()), requestID)
}

// Home handles GET /screens/home. A failed profile read is reported as an
// alert inside a 200 response.
func (h *ScreenHandler) Home(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Unauthorized(w, requestID)
		return
	}

	rec := &requestPorts{}
	home := screen.NewHome(h.fetcher, h.authContext(identity), rec.ports())
	home.Mount(r.Context())
	view := home.Render()
	home.Unmount()

	response.Success(w, http.StatusOK, rec.respond(view), requestID)
}

// Profile handles GET /screens/profile.
func (h *ScreenHandler) Profile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Unauthorized(w, requestID)
		return
	}

	rec := &requestPorts{}
	p := screen.NewProfile(h.fetcher, h.authContext(identity), rec.ports())
	p.Mount(r.Context())
	view := p.Render()
	p.Unmount()

	response.Success(w, http.StatusOK, rec.respond(view), requestID)
}

// ProfileSignOut handles POST /screens/profile/signout. The body answers the
// confirmation prompt; a declined prompt leaves the session untouched.
func (h *ScreenHandler) ProfileSignOut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Unauthorized(w, requestID)
		return
	}

	var req signOutScreenRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	rec := &requestPorts{confirmed: req.Confirmed}
	p := screen.NewProfile(h.fetcher, h.authContext(identity), rec.ports())
	confirmed := p.SignOut(r.Context())

	response.Success(w, http.StatusOK, signOutScreenResponse{
		Confirmed:  confirmed,
		NavigateTo: rec.route,
	}, requestID)
}
