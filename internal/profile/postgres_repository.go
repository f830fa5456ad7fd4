package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool. Every statement
// runs in a transaction that carries the identity as request.jwt.claim.sub
// and, when rlsRole is set, switches to that role so the table's row-level
// security policies apply.
type PostgresRepository struct {
	pool    *pgxpool.Pool
	rlsRole string
}

// NewPostgresRepository creates a new PostgresRepository. An empty rlsRole
// keeps the connecting role, which bypasses RLS if it owns the table.
func NewPostgresRepository(pool *pgxpool.Pool, rlsRole string) *PostgresRepository {
	return &PostgresRepository{pool: pool, rlsRole: rlsRole}
}

const profileColumns = `id, email, COALESCE(full_name, ''), points, created_at, updated_at`

// scanProfile maps a user_profiles row onto UserProfile.
func scanProfile(row pgx.Row) (*UserProfile, error) {
	var p UserProfile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Points, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("scanning profile row: %w", err)
	}
	return &p, nil
}

// GetByID retrieves the profile row owned by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	var p *UserProfile
	err := r.asIdentity(ctx, id, pgx.ReadOnly, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`SELECT %s FROM public.user_profiles WHERE id = $1`, profileColumns)
		var err error
		p, err = scanProfile(tx.QueryRow(ctx, query, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateFullName sets full_name on the row owned by id. updated_at is
// refreshed by the store's update trigger.
func (r *PostgresRepository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) (*UserProfile, error) {
	var p *UserProfile
	err := r.asIdentity(ctx, id, pgx.ReadWrite, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`
			UPDATE public.user_profiles SET full_name = $2
			WHERE id = $1
			RETURNING %s`, profileColumns)
		var err error
		p, err = scanProfile(tx.QueryRow(ctx, query, id, fullName))
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateForIdentity inserts the initial profile row inside the caller's
// sign-up transaction. A row already created by the signup trigger is kept.
func (r *PostgresRepository) CreateForIdentity(ctx context.Context, tx pgx.Tx, id uuid.UUID, email, fullName string) error {
	query := `
		INSERT INTO public.user_profiles (id, email, full_name, points)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`

	if _, err := tx.Exec(ctx, query, id, email, fullName, InitialPoints); err != nil {
		return fmt.Errorf("inserting profile: %w", err)
	}
	return nil
}

func (r *PostgresRepository) asIdentity(ctx context.Context, id uuid.UUID, mode pgx.TxAccessMode, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: mode})
	if err != nil {
		return fmt.Errorf("beginning profile transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT set_config('request.jwt.claim.sub', $1, true)`, id.String()); err != nil {
		return fmt.Errorf("setting request identity: %w", err)
	}

	if r.rlsRole != "" {
		if _, err := tx.Exec(ctx, "SET LOCAL ROLE "+pgx.Identifier{r.rlsRole}.Sanitize()); err != nil {
			return fmt.Errorf("switching to role %s: %w", r.rlsRole, err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing profile transaction: %w", err)
	}
	return nil
}
