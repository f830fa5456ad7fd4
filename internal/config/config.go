package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Profile bootstrap modes.
const (
	BootstrapTrigger  = "trigger"
	BootstrapExplicit = "explicit"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port                 int           `envconfig:"PORT" default:"8080"`
	LogLevel             string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL          string        `envconfig:"DATABASE_URL" required:"true"`
	Version              string        `envconfig:"VERSION" default:"dev"`
	JWTSecret            string        `envconfig:"JWT_SECRET" required:"true"`
	SessionTTL           time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	BcryptCost           int           `envconfig:"BCRYPT_COST" default:"12"`
	ProfileBootstrap     string        `envconfig:"PROFILE_BOOTSTRAP" default:"trigger"`
	RLSRole              string        `envconfig:"RLS_ROLE" default:"authenticated"`
	ProvisionOnStart     bool          `envconfig:"PROVISION_ON_START" default:"false"`
	SessionSweepInterval int           `envconfig:"SESSION_SWEEP_INTERVAL" default:"300"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.ProfileBootstrap != BootstrapTrigger && cfg.ProfileBootstrap != BootstrapExplicit {
		return nil, fmt.Errorf("PROFILE_BOOTSTRAP must be %q or %q, got %q",
			BootstrapTrigger, BootstrapExplicit, cfg.ProfileBootstrap)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.SessionSweepInterval < 0 {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL must not be negative, got %d", cfg.SessionSweepInterval)
	}
	return &cfg, nil
}

// ExplicitBootstrap reports whether the profile row is created by the
// application inside the sign-up transaction instead of the store trigger.
func (c *Config) ExplicitBootstrap() bool {
	return c.ProfileBootstrap == BootstrapExplicit
}
