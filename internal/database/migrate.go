package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is a named SQL script applied once to the store.
type Migration struct {
	Name string
	SQL  string
}

const ledgerDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  name TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrations returns the embedded schema migrations ordered by file name.
func Migrations() []Migration {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		// The directory is compiled in; failure here is a build defect.
		panic(fmt.Sprintf("reading embedded migrations: %v", err))
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		b, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			panic(fmt.Sprintf("reading embedded migration %s: %v", name, err))
		}
		migrations = append(migrations, Migration{Name: name, SQL: string(b)})
	}
	return migrations
}

// Migrate applies every migration not yet recorded in schema_migrations.
// Each migration runs in its own transaction together with its ledger row;
// the first failure aborts the run. Returns the names applied by this call.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations []Migration) ([]string, error) {
	if _, err := pool.Exec(ctx, ledgerDDL); err != nil {
		return nil, fmt.Errorf("creating migration ledger: %w", err)
	}

	applied := []string{}
	for _, m := range migrations {
		done, err := isApplied(ctx, pool, m.Name)
		if err != nil {
			return applied, err
		}
		if done {
			slog.Debug("migration already applied", "migration", m.Name)
			continue
		}

		if err := apply(ctx, pool, m); err != nil {
			return applied, err
		}
		slog.Info("migration applied", "migration", m.Name)
		applied = append(applied, m.Name)
	}

	return applied, nil
}

func isApplied(ctx context.Context, pool *pgxpool.Pool, name string) (bool, error) {
	var found string
	err := pool.QueryRow(ctx, "SELECT name FROM schema_migrations WHERE name = $1", name).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking migration %s: %w", name, err)
	}
	return true, nil
}

func apply(ctx context.Context, pool *pgxpool.Pool, m Migration) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning migration %s: %w", m.Name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return fmt.Errorf("executing migration %s: %w", m.Name, err)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", m.Name); err != nil {
		return fmt.Errorf("recording migration %s: %w", m.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing migration %s: %w", m.Name, err)
	}
	return nil
}
