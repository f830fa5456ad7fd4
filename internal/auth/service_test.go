package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/daap14/members/internal/auth"
)

const (
	testBcryptCost = 4 // low cost for fast tests
	testSecret     = "unit-test-secret-0123456789"
)

// --- In-memory repositories ---

type memUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*auth.User
	touched []uuid.UUID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*auth.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return auth.ErrEmailTaken
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, auth.ErrUserNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *memUserRepo) TouchSignIn(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = append(m.touched, id)
	return nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*auth.Session
	getErr   error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[uuid.UUID]*auth.Session{}}
}

func (m *memSessionRepo) Create(_ context.Context, s *auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memSessionRepo) Get(_ context.Context, id uuid.UUID) (*auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, auth.ErrSessionNotFound
}

func (m *memSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return auth.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func newTestService(t *testing.T) (*auth.Service, *memUserRepo, *memSessionRepo) {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	return auth.NewService(users, sessions, tokens, testBcryptCost, time.Hour), users, sessions
}

// --- SignUp ---

func TestSignUp_HashesPasswordAndNormalizesEmail(t *testing.T) {
	t.Parallel()
	svc, users, _ := newTestService(t)

	res, err := svc.SignUp(context.Background(), "  A@X.com ", "correct horse", " Ada ")
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.Equal(t, "Ada", stored.Metadata.FullName)
	assert.NotEqual(t, "correct horse", stored.EncryptedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.EncryptedPassword), []byte("correct horse")))
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "A@x.com", "password2", "")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

// --- SignIn / Authenticate ---

func TestSignIn_IssuesTokenThatAuthenticates(t *testing.T) {
	t.Parallel()
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	up, err := svc.SignUp(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)

	in, err := svc.SignIn(ctx, "A@X.COM", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, in.AccessToken)
	assert.Equal(t, up.User.ID, in.Identity.UserID)
	assert.Contains(t, users.touched, up.User.ID)

	identity, err := svc.Authenticate(ctx, in.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, up.User.ID, identity.UserID)
	assert.Equal(t, "a@x.com", identity.Email)
	assert.Equal(t, in.Identity.SessionID, identity.SessionID)
}

func TestSignIn_WrongPassword(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "a@x.com", "nope")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSignIn_UnknownEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.SignIn(context.Background(), "ghost@x.com", "password1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthenticate_AfterSignOut(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)
	in, err := svc.SignIn(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, in.Identity.SessionID))

	_, err = svc.Authenticate(ctx, in.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthenticate_SessionStoreError(t *testing.T) {
	t.Parallel()
	svc, _, sessions := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)
	in, err := svc.SignIn(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	sessions.getErr = errors.New("connection reset")

	_, err = svc.Authenticate(ctx, in.AccessToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidToken)
}

// --- SignOut ---

func TestSignOut_MissingSessionIsNotAnError(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	assert.NoError(t, svc.SignOut(context.Background(), uuid.New()))
}
