package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the auth.users table.
type User struct {
	ID                uuid.UUID
	Email             string
	EncryptedPassword string
	Metadata          Metadata
	LastSignInAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Metadata is the sign-up payload stored in raw_user_meta_data.
type Metadata struct {
	FullName string `json:"full_name,omitempty"`
}

// Session represents a row in the auth.sessions table.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	NotAfter  time.Time
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.NotAfter)
}

// Identity is stored in the request context after authentication.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	SessionID uuid.UUID
}
