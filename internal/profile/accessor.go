package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/daap14/members/internal/auth"
)

// ErrFetchFailed wraps every profile read failure. Callers show
// FetchFailedMessage rather than the cause.
var ErrFetchFailed = errors.New("profile fetch failed")

// FetchFailedMessage is the user-visible text for a failed profile read.
const FetchFailedMessage = "Unable to load your profile. Please try again."

// Accessor reads and updates the profile of the current identity.
type Accessor struct {
	repo Repository
}

// NewAccessor creates a new Accessor.
func NewAccessor(repo Repository) *Accessor {
	return &Accessor{repo: repo}
}

// Fetch returns the single profile row of the identity. A nil identity is a
// no-op returning (nil, nil). Not-found and transport errors are both
// reported as ErrFetchFailed; there is no retry.
func (a *Accessor) Fetch(ctx context.Context, identity *auth.Identity) (*UserProfile, error) {
	if identity == nil {
		return nil, nil
	}

	p, err := a.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		slog.Debug("profile fetch failed", "userId", identity.UserID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return p, nil
}

// UpdateFullName changes the identity's display name.
func (a *Accessor) UpdateFullName(ctx context.Context, identity *auth.Identity, fullName string) (*UserProfile, error) {
	if identity == nil {
		return nil, ErrProfileNotFound
	}

	p, err := a.repo.UpdateFullName(ctx, identity.UserID, fullName)
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return p, nil
}
