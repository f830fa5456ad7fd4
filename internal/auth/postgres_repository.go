package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileBootstrapper creates the profile row for a new identity inside the
// sign-up transaction. Used when the store has no signup trigger.
type ProfileBootstrapper interface {
	CreateForIdentity(ctx context.Context, tx pgx.Tx, id uuid.UUID, email, fullName string) error
}

// PostgresRepository implements UserRepository using pgxpool.
type PostgresRepository struct {
	pool      *pgxpool.Pool
	bootstrap ProfileBootstrapper
}

// RepositoryOption configures a PostgresRepository.
type RepositoryOption func(*PostgresRepository)

// WithProfileBootstrap makes Create insert the profile row in the same
// transaction as the identity.
func WithProfileBootstrap(b ProfileBootstrapper) RepositoryOption {
	return func(r *PostgresRepository) {
		r.bootstrap = b
	}
}

// NewRepository creates a new UserRepository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool, opts ...RepositoryOption) UserRepository {
	r := &PostgresRepository{pool: pool}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const userColumns = `id, email, encrypted_password, COALESCE(raw_user_meta_data, '{}'::jsonb),
	last_sign_in_at, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.EncryptedPassword, &u.Metadata,
		&u.LastSignInAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	return &u, nil
}

// Create inserts a new identity. The signup trigger (or the configured
// bootstrapper) creates the matching profile row before commit.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning user insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO auth.users (email, encrypted_password, raw_user_meta_data)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query, u.Email, u.EncryptedPassword, u.Metadata).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	if r.bootstrap != nil {
		if err := r.bootstrap.CreateForIdentity(ctx, tx, u.ID, u.Email, u.Metadata.FullName); err != nil {
			return fmt.Errorf("creating profile for user: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing user insert: %w", err)
	}
	return nil
}

// GetByID retrieves a single user by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM auth.users WHERE id = $1`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a single user by email, compared case-insensitively.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM auth.users WHERE lower(email) = lower($1)`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// TouchSignIn records a successful sign-in.
func (r *PostgresRepository) TouchSignIn(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `UPDATE auth.users SET last_sign_in_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("updating last sign-in: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PostgresSessionRepository implements SessionRepository using pgxpool.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository backed by the given connection pool.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// Create inserts a new session record.
func (r *PostgresSessionRepository) Create(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO auth.sessions (user_id, not_after)
		VALUES ($1, $2)
		RETURNING id, created_at`

	if err := r.pool.QueryRow(ctx, query, s.UserID, s.NotAfter).Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// Get retrieves a single session by its UUID.
func (r *PostgresSessionRepository) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	query := `SELECT id, user_id, created_at, not_after FROM auth.sessions WHERE id = $1`

	var s Session
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.NotAfter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &s, nil
}

// Delete removes a session. Returns ErrSessionNotFound if nothing was deleted.
func (r *PostgresSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM auth.sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteExpired removes every session whose not_after is at or before now.
func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM auth.sessions WHERE not_after <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return result.RowsAffected(), nil
}
