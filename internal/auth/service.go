package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the email/password pair does not match an identity.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service provides authentication operations: sign-up, sign-in, session
// resolution and sign-out.
type Service struct {
	userRepo    UserRepository
	sessionRepo SessionRepository
	tokens      *TokenService
	bcryptCost  int
	sessionTTL  time.Duration
	now         func() time.Time
}

// NewService creates a new auth Service.
func NewService(userRepo UserRepository, sessionRepo SessionRepository, tokens *TokenService, bcryptCost int, sessionTTL time.Duration) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		bcryptCost:  bcryptCost,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// SignUpResult is returned from a successful sign-up.
type SignUpResult struct {
	User *User
}

// SignInResult holds the issued access token and the resolved identity.
type SignInResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Identity    *Identity
}

// SignUp creates a new identity. Its profile row is created in the same
// transaction, either by the store trigger or by the repository's
// bootstrapper.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*SignUpResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Email:             normalizeEmail(email),
		EncryptedPassword: string(hash),
		Metadata:          Metadata{FullName: strings.TrimSpace(fullName)},
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("identity created", "userId", u.ID)
	return &SignUpResult{User: u}, nil
}

// SignIn verifies the credentials, opens a session and issues an access token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.EncryptedPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	sess := &Session{
		UserID:   u.ID,
		NotAfter: s.now().Add(s.sessionTTL).UTC(),
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	token, err := s.tokens.Issue(sess, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	if err := s.userRepo.TouchSignIn(ctx, u.ID); err != nil {
		slog.Warn("failed to record sign-in", "userId", u.ID, "error", err)
	}

	return &SignInResult{
		AccessToken: token,
		ExpiresAt:   sess.NotAfter,
		Identity: &Identity{
			UserID:    u.ID,
			Email:     u.Email,
			SessionID: sess.ID,
		},
	}, nil
}

// Authenticate resolves an access token to an Identity. The token must be
// valid and its session must still exist and be unexpired.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*Identity, error) {
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessionRepo.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	if sess.UserID != claims.UserID || sess.Expired(s.now()) {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		SessionID: sess.ID,
	}, nil
}

// SignOut ends the session. Ending a session that is already gone succeeds.
func (s *Service) SignOut(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
