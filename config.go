package kudos

import (
	"errors"
	"time"
)

// Config holds all configuration for a kudos service.
type Config struct {
	SiteURL     string   // Site origin allowed to call the API (default "http://localhost:3000")
	Addr        string   // Listen address (default ":3000")
	CORSOrigins []string // Extra allowed origins beyond SiteURL

	ContentDir string // Markdown post directory for the feed (default "content")

	GistToken    string // GitHub token; together with GistID selects the gist backend
	GistID       string // Gist holding the like document
	GistFilename string // File inside the gist (default "likes.json")

	RedisAddr     string // Redis address; selects the Redis backend when no gist is configured
	RedisPassword string
	RedisDB       int
	RedisKey      string // Redis key for the like document (default "kudos:likes")

	LocalDBPath string // SQLite path; selects the local backend when neither gist nor Redis is configured

	AdminPassword string // Enables the admin dashboard when set
	SessionSecret string // Session encryption secret, required with AdminPassword
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Post feed cache TTL (default 5min)
}

func (c *Config) setDefaults() {
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

func (c *Config) validate() error {
	if c.AdminPassword != "" && c.SessionSecret == "" {
		return errors.New("session secret is required when an admin password is set")
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
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
