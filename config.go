package stakelight

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// SiteConfig holds all configuration for a stakelight site.
// Fields are populated from environment variables by LoadConfig; embedding
// binaries may also construct it directly and rely on setDefaults.
type SiteConfig struct {
	Name        string `env:"SITE_NAME" envDefault:"Stakelight"`
	URL         string `env:"SITE_URL" envDefault:"http://localhost:3000"`
	Description string `env:"SITE_DESCRIPTION" envDefault:""`
	Author      string `env:"SITE_AUTHOR" envDefault:""`

	Addr         string `env:"ADDR" envDefault:":3000"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/site.db"`

	// AuthVerifyURL is the identity provider endpoint that resolves an
	// access token to a user. Required unless a custom verifier is injected.
	AuthVerifyURL string        `env:"AUTH_VERIFY_URL"`
	AuthTimeout   time.Duration `env:"AUTH_TIMEOUT" envDefault:"5s"`

	SessionSecret string `env:"SESSION_SECRET"`
	CookieSecure  bool   `env:"COOKIE_SECURE" envDefault:"false"`

	PostCacheTTL time.Duration `env:"POST_CACHE_TTL" envDefault:"5m"`
}

// LoadConfig parses environment variables into a SiteConfig.
func LoadConfig() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Stakelight"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.AuthTimeout == 0 {
		c.AuthTimeout = 5 * time.Second
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithVerifier replaces the default HTTP identity-provider client.
func WithVerifier(v TokenVerifier) Option {
	return func(a *App) {
		a.Verifier = v
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes, before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
