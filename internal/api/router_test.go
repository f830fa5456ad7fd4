package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	specpkg "github.com/daap14/members/api"
	"github.com/daap14/members/internal/api"
	"github.com/daap14/members/internal/auth"
	"github.com/daap14/members/internal/profile"
)

// openAPISpec is the minimal structure needed to extract paths from the spec.
type openAPISpec struct {
	Paths map[string]map[string]interface{} `json:"paths"`
}

const goodToken = "good-token"

type stubAuth struct {
	identity *auth.Identity
}

func (s *stubAuth) SignUp(context.Context, string, string, string) (*auth.SignUpResult, error) {
	return nil, auth.ErrEmailTaken
}

func (s *stubAuth) SignIn(context.Context, string, string) (*auth.SignInResult, error) {
	return nil, auth.ErrInvalidCredentials
}

func (s *stubAuth) SignOut(context.Context, uuid.UUID) error { return nil }

func (s *stubAuth) Authenticate(_ context.Context, raw string) (*auth.Identity, error) {
	if raw != goodToken {
		return nil, auth.ErrInvalidToken
	}
	return s.identity, nil
}

type stubProfiles struct{}

func (stubProfiles) Fetch(_ context.Context, identity *auth.Identity) (*profile.UserProfile, error) {
	return &profile.UserProfile{ID: identity.UserID, Email: identity.Email, Points: profile.InitialPoints}, nil
}

func (stubProfiles) UpdateFullName(context.Context, *auth.Identity, string) (*profile.UserProfile, error) {
	return nil, profile.ErrProfileNotFound
}

func newTestRouter() *chi.Mux {
	return api.NewRouter(api.RouterDeps{
		Version:     "test",
		OpenAPISpec: specpkg.OpenAPISpec,
		AuthService: &stubAuth{identity: &auth.Identity{UserID: uuid.New(), Email: "a@x.com", SessionID: uuid.New()}},
		Profiles:    stubProfiles{},
	})
}

func TestOpenAPISpec_RoutesCoverAllPaths(t *testing.T) {
	t.Parallel()

	specJSON, err := yaml.YAMLToJSON(specpkg.OpenAPISpec)
	require.NoError(t, err, "embedded spec must convert to JSON")

	var spec openAPISpec
	require.NoError(t, yaml.Unmarshal(specJSON, &spec))

	specRoutes := extractSpecRoutes(spec)
	require.NotEmpty(t, specRoutes)

	chiRoutes := extractChiRoutes(t, newTestRouter())
	require.NotEmpty(t, chiRoutes)

	assert.ElementsMatch(t, specRoutes, chiRoutes, "OpenAPI paths and Chi routes must match")
}

func TestRouter_AuthBoundaries(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	tests := []struct {
		method string
		path   string
		token  string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/screens/splash", "", http.StatusOK},
		{http.MethodGet, "/screens/splash", "bad", http.StatusOK},
		{http.MethodGet, "/screens/home", "", http.StatusUnauthorized},
		{http.MethodGet, "/screens/home", goodToken, http.StatusOK},
		{http.MethodGet, "/profile", "", http.StatusUnauthorized},
		{http.MethodGet, "/profile", goodToken, http.StatusOK},
		{http.MethodPost, "/auth/signout", "", http.StatusUnauthorized},
		{http.MethodPost, "/auth/signout", goodToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s token=%q", tt.method, tt.path, tt.token), func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_WithoutAuthServiceServesHealthOnly(t *testing.T) {
	t.Parallel()

	router := api.NewRouter(api.RouterDeps{Version: "test"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/screens/home", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type route struct {
	method string
	path   string
}

func sortRoutes(routes []route) {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].path == routes[j].path {
			return routes[i].method < routes[j].method
		}
		return routes[i].path < routes[j].path
	})
}

func extractSpecRoutes(spec openAPISpec) []route {
	var routes []route
	for path, methods := range spec.Paths {
		for method := range methods {
			routes = append(routes, route{method: strings.ToUpper(method), path: path})
		}
	}
	sortRoutes(routes)
	return routes
}

func extractChiRoutes(t *testing.T, r *chi.Mux) []route {
	t.Helper()
	var routes []route
	walkFunc := func(method, routePath string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		// Chi subroutes produce trailing slashes (/profile/) where OpenAPI uses /profile.
		normalized := strings.TrimRight(routePath, "/")
		if normalized == "" {
			normalized = "/"
		}
		routes = append(routes, route{method: method, path: normalized})
		return nil
	}
	require.NoError(t, chi.Walk(r, walkFunc))
	sortRoutes(routes)
	return routes
}
