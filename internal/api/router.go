package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/members/internal/api/handler"
	"github.com/daap14/members/internal/api/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger    handler.DBPinger
	Version     string
	OpenAPISpec []byte
	AuthService handler.AuthService
	Profiles    handler.ProfileAccessor
}

// NewRouter creates and configures a Chi router with all middleware and routes.
// Authenticated routes are only mounted when an AuthService is provided.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.AuthService == nil {
		return r
	}

	requireAuth := middleware.Auth(deps.AuthService)
	authHandler := handler.NewAuthHandler(deps.AuthService)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin", authHandler.SignIn)
		r.With(requireAuth).Post("/signout", authHandler.SignOut)
	})

	if deps.Profiles == nil {
		return r
	}

	profileHandler := handler.NewProfileHandler(deps.Profiles)
	screenHandler := handler.NewScreenHandler(deps.Profiles, deps.AuthService)

	r.Route("/profile", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", profileHandler.Get)
		r.Patch("/", profileHandler.Update)
	})

	r.Route("/screens", func(r chi.Router) {
		r.With(middleware.OptionalAuth(deps.AuthService)).Get("/splash", screenHandler.Splash)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/home", screenHandler.Home)
			r.Get("/profile", screenHandler.Profile)
			r.Post("/profile/signout", screenHandler.ProfileSignOut)
		})
	})

	return r
}
