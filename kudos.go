// Package kudos is a like-counter sidecar for static blogs, built with
// Go and Echo. It serves the anonymous like API, a web-vitals
// collector, the published post feed, and an optional admin dashboard.
//
// The like document persists through one of three backends chosen by
// configuration: a GitHub gist, Redis, or a local SQLite file. Without
// any of them the service runs with likes disabled and the client
// script falls back to browser-local storage.
package kudos

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/kudos/likes"
	"github.com/eringen/kudos/posts"
	"github.com/eringen/kudos/ratelimit"
	"github.com/eringen/kudos/vitals"
)

// App is the central kudos application. It wires together the like
// store, the vitals buffer, the post cache, middleware, and routes.
type App struct {
	Config Config
	Echo   *echo.Echo
	Likes  *likes.Service
	Vitals *vitals.Buffer
	Posts  *posts.Cache

	likeStore     likes.Store
	likesHandler  *likes.Handler
	vitalsHandler *vitals.Handler
	postsHandler  *posts.Handler
	loginLimiter  *ratelimit.Window
	customRoutes  []func(*App)
	staticDir     string
}

// New creates a new kudos App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *App) adminEnabled() bool {
	return a.Config.AdminPassword != "" && a.Config.SessionSecret != ""
}

// init wires stores, handlers, middleware, and routes. Split from
// Start so tests can drive the Echo instance directly.
func (a *App) init() error {
	if err := a.Config.validate(); err != nil {
		return fmt.Errorf("kudos: %w", err)
	}

	store, err := likes.NewStore(likes.Config{
		GistToken:     a.Config.GistToken,
		GistID:        a.Config.GistID,
		GistFilename:  a.Config.GistFilename,
		RedisAddr:     a.Config.RedisAddr,
		RedisPassword: a.Config.RedisPassword,
		RedisDB:       a.Config.RedisDB,
		RedisKey:      a.Config.RedisKey,
		LocalDBPath:   a.Config.LocalDBPath,
	})
	if err != nil {
		return fmt.Errorf("kudos: init like store: %w", err)
	}
	a.likeStore = store
	a.Likes = likes.NewService(store)
	if !a.Likes.Enabled() {
		a.Echo.Logger.Warn("kudos: no like backend configured, likes run disabled")
	}

	a.Vitals = vitals.NewBuffer()
	a.Posts = posts.NewCache(posts.NewStore(a.Config.ContentDir), a.Config.PostCacheTTL)

	a.likesHandler = likes.NewHandler(a.Likes)
	a.vitalsHandler = vitals.NewHandler(a.Vitals)
	a.postsHandler = posts.NewHandler(a.Posts)

	if a.adminEnabled() {
		a.loginLimiter = ratelimit.NewWindow(5, time.Minute)
	}

	a.Echo.Validator = NewValidator()

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded client scripts (likes.js, vitals.js), served under
	// /public/ ahead of the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/likes.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/vitals.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", handleRobots)

	// Public API
	api := e.Group("/api")
	a.likesHandler.RegisterRoutes(api)
	a.vitalsHandler.RegisterRoutes(api)
	a.postsHandler.RegisterRoutes(api)

	// Admin routes
	if a.adminEnabled() {
		e.GET("/admin/", a.handleAdmin)
		e.POST("/admin/login/", a.handleAdminLogin)
		e.POST("/admin/logout/", handleAdminLogout)
		e.DELETE("/admin/likes/:slug/", a.handleAdminResetLikes)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.likesHandler != nil {
		a.likesHandler.Close()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.likeStore != nil {
		return a.likeStore.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("kudos: required environment variable %s is not set", key)
	}
	return v
}
