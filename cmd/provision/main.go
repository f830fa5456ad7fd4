// Command provision applies the schema migrations to DATABASE_URL and exits.
// Running it again is a no-op.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/daap14/members/internal/database"
)

type provisionConfig struct {
	DatabaseURL string        `envconfig:"DATABASE_URL" required:"true"`
	Timeout     time.Duration `envconfig:"PROVISION_TIMEOUT" default:"2m"`
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var cfg provisionConfig
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	applied, err := db.Provision(ctx)
	if err != nil {
		slog.Error("provisioning failed", "error", err)
		os.Exit(1)
	}

	if len(applied) == 0 {
		slog.Info("schema already up to date")
		return
	}
	slog.Info("schema provisioned", "applied", applied)
}
