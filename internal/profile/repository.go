package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when no profile row is visible for the identity.
var ErrProfileNotFound = errors.New("profile not found")

// Repository provides identity-scoped access to the user_profiles table.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) (*UserProfile, error)
}
