package profile

import (
	"time"

	"github.com/google/uuid"
)

// InitialPoints is the balance granted to every new profile.
const InitialPoints = 1000

// UserProfile represents a row in the user_profiles table. There is exactly
// one per identity and its ID equals the identity's ID.
type UserProfile struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Points    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the full name, falling back to the email.
func (p *UserProfile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}
