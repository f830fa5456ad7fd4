package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/daap14/members/internal/api/middleware"
	"github.com/daap14/members/internal/api/response"
	"github.com/daap14/members/internal/api/validation"
	"github.com/daap14/members/internal/auth"
)

const maxBodyBytes = 1 << 20

// AuthService is the subset of auth.Service used by the HTTP layer.
type AuthService interface {
	SignUp(ctx context.Context, email, password, fullName string) (*auth.SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*auth.SignInResult, error)
	SignOut(ctx context.Context, sessionID uuid.UUID) error
	Authenticate(ctx context.Context, rawToken string) (*auth.Identity, error)
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type sessionResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresAt   string `json:"expiresAt"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
}

// AuthHandler handles the sign-up, sign-in and sign-out endpoints.
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req signUpRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)

	fieldErrors := validation.ValidateSignUpRequest(validation.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	result, err := h.service.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			response.Err(w, http.StatusConflict, "CONFLICT", "An account with this email already exists", requestID)
			return
		}
		slog.Error("failed to sign up", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account", requestID)
		return
	}

	u := result.User
	response.Success(w, http.StatusCreated, userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FullName:  u.Metadata.FullName,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}, requestID)
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req signInRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	fieldErrors := validation.ValidateSignInRequest(validation.SignInRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	result, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", requestID)
			return
		}
		slog.Error("failed to sign in", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign in", requestID)
		return
	}

	response.Success(w, http.StatusOK, sessionResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   result.ExpiresAt.UTC().Format(time.RFC3339),
		UserID:      result.Identity.UserID.String(),
		Email:       result.Identity.Email,
	}, requestID)
}

// SignOut handles POST /auth/signout. It ends the session behind the token
// used for the request.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Unauthorized(w, requestID)
		return
	}

	if err := h.service.SignOut(r.Context(), identity.SessionID); err != nil {
		slog.Error("failed to sign out", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign out", requestID)
		return
	}

	response.NoContent(w)
}

// decodeJSON reads a size-limited JSON body into v. It writes the error
// response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return false
	}
	return true
}
