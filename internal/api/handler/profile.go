package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/daap14/members/internal/api/middleware"
	"github.com/daap14/members/internal/api/response"
	"github.com/daap14/members/internal/api/validation"
	"github.com/daap14/members/internal/auth"
	"github.com/daap14/members/internal/membership"
	"github.com/daap14/members/internal/profile"
)

// ProfileAccessor reads and updates the profile of an identity.
type ProfileAccessor interface {
	Fetch(ctx context.Context, identity *auth.Identity) (*profile.UserProfile, error)
	UpdateFullName(ctx context.Context, identity *auth.Identity, fullName string) (*profile.UserProfile, error)
}

type updateProfileRequest struct {
	FullName *string `json:"fullName"`
}

type profileResponse struct {
	ID         string                `json:"id"`
	Email      string                `json:"email"`
	FullName   string                `json:"fullName"`
	Points     int                   `json:"points"`
	Membership membership.Membership `json:"membership"`
	Progress   membership.Progress   `json:"progress"`
	CreatedAt  string                `json:"createdAt"`
	UpdatedAt  string                `json:"updatedAt"`
}

func toProfileResponse(p *profile.UserProfile) profileResponse {
	return profileResponse{
		ID:         p.ID.String(),
		Email:      p.Email,
		FullName:   p.FullName,
		Points:     p.Points,
		Membership: membership.Classify(p.Points),
		Progress:   membership.Next(p.Points),
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ProfileHandler serves the caller's own profile row.
type ProfileHandler struct {
	accessor ProfileAccessor
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(accessor ProfileAccessor) *ProfileHandler {
	return &ProfileHandler{accessor: accessor}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Unauthorized(w, requestID)
		return
	}

	p, err := h.accessor.Fetch(r.Context(), identity)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", profile.FetchFailedMessage, requestID)
			return
		}
		slog.Error("failed to fetch profile", "error", err, "userId", identity.UserID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", profile.FetchFailedMessage, requestID)
		return
	}

	response.Success(w, http.StatusOK, toProfileResponse(p), requestID)
}

// Update handles PATCH /profile. Only the full name is writable.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Unauthorized(w, requestID)
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if fieldErrors := validation.ValidateUpdateProfileRequest(req.FullName); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p, err := h.accessor.UpdateFullName(r.Context(), identity, strings.TrimSpace(*req.FullName))
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Profile not found", requestID)
			return
		}
		slog.Error("failed to update profile", "error", err, "userId", identity.UserID, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update profile", requestID)
		return
	}

	response.Success(w, http.StatusOK, toProfileResponse(p), requestID)
}
