// Package stakelight powers the public website of a blockchain validator
// operator: marketing pages, an editorial blog backed by SQLite, and a
// token-gated admin area. Access tokens are opaque credentials resolved
// against an external identity provider on every protected request.
//
// Page templates are owned by the embedding binary and injected through the
// ViewFuncs struct; the package handles routing, authorization, the post
// publication pipeline, and the sitemap/metadata projections.
package stakelight

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components the framework renders. This is the
// inversion-of-control seam that keeps page markup out of the engine.
type ViewFuncs struct {
	Home           func(cfg SiteConfig, posts []BlogPost, activeTag string, tags []string) templ.Component
	Post           func(cfg SiteConfig, post BlogPost, meta PageMeta, related []BlogPost) templ.Component
	AdminLogin     func(cfg SiteConfig, showError bool, csrfToken string) templ.Component
	AdminDashboard func(cfg SiteConfig, posts []BlogPost, identity Identity, message string, csrfToken string) templ.Component
	AdminForm      func(post BlogPost, csrfToken string) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
	NotFound       func(cfg SiteConfig) templ.Component
	ServerError    func(cfg SiteConfig) templ.Component
}

// App wires together the store, cache, credential verifier, admin gate,
// publication pipeline and handlers.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Store     *Store
	Cache     *PostCache
	Verifier  TokenVerifier
	Gate      *AdminGate
	Publisher *Publisher
	Views     ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// init constructs the service graph: store and verifier are process-lifetime
// singletons, built once here and shared by reference.
func (a *App) init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("stakelight: SessionSecret is required")
	}
	if a.Verifier == nil {
		if a.Config.AuthVerifyURL == "" {
			return fmt.Errorf("stakelight: AuthVerifyURL is required")
		}
		a.Verifier = NewProviderClient(a.Config.AuthVerifyURL, a.Config.AuthTimeout)
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("stakelight: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(store, a.Config.PostCacheTTL)
	a.Gate = NewAdminGate(a.Verifier)
	a.Publisher = NewPublisher(a.Gate, store, a.Cache)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes everything and runs the server.
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

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)

	// Token verification endpoint
	e.POST("/api/auth/verify", a.handleVerifyToken)

	// Admin dashboard (session-backed)
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:slug/", a.handleAdminForm)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)

	// Admin JSON API (Bearer token, CSRF-exempt)
	e.POST("/api/admin/posts", a.handleCreateDraft)
	e.PATCH("/api/admin/posts/:slug", a.handleUpdatePost)
	e.POST("/api/admin/posts/:slug/publish", a.handlePublishPost)
	e.POST("/api/admin/posts/:slug/unpublish", a.handleUnpublishPost)
	e.DELETE("/api/admin/posts/:slug", a.handleDeletePost)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
