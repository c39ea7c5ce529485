// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/konkandarshan/konkan/internal/cache"
	"github.com/konkandarshan/konkan/internal/config"
	"github.com/konkandarshan/konkan/internal/geoip"
	"github.com/konkandarshan/konkan/internal/handler"
	"github.com/konkandarshan/konkan/internal/handler/api"
	"github.com/konkandarshan/konkan/internal/logging"
	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/scheduler"
	"github.com/konkandarshan/konkan/internal/service"
	"github.com/konkandarshan/konkan/internal/session"
	"github.com/konkandarshan/konkan/internal/store"
	"github.com/konkandarshan/konkan/internal/version"
	"github.com/konkandarshan/konkan/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func buildInfo() version.Info {
	return version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
}

// crudHandlers defines the standard CRUD handler methods.
type crudHandlers struct {
	List     http.HandlerFunc
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerCRUD registers standard CRUD routes for a resource.
// Routes: GET /, GET /new, POST /, GET /{id}, PUT /{id}, POST /{id}, DELETE /{id}
func registerCRUD(r chi.Router, base, baseID string, h crudHandlers) {
	r.Get(base, h.List)
	r.Get(base+handler.RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Get(baseID, h.EditForm)
	r.Put(baseID, h.Update)
	r.Post(baseID, h.Update) // HTML forms can't send PUT
	r.Delete(baseID, h.Delete)
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Konkan Darshan - regional travel site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KONKAN_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KONKAN_DB_PATH           SQLite database path (default: ./data/konkan.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KONKAN_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KONKAN_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KONKAN_ADMIN_EMAILS      Comma-separated admin allow-list\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KONKAN_INSTAGRAM_TOKEN   Instagram Graph API token (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KONKAN_YOUTUBE_API_KEY   YouTube Data API key (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KONKAN_REDIS_URL         Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("konkan %s\n", buildInfo())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed default admin and sample content
	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		slog.Info("database seeded")
	}

	// Session manager backed by the sessions table
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Cache manager: memory by default, Redis when configured
	cacheConfig := cache.CacheConfig{
		Type:             "memory",
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = "redis"
	}
	cacheManager, err := cache.NewManager(cacheConfig)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	if cfg.UseRedisCache() {
		slog.Info("cache manager initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache manager initialized", "backend", "memory")
	}

	// GeoIP country lookup for the view log (optional)
	geo := geoip.NewLookup()
	if err := geo.Init(cfg.GeoIPDBPath); err != nil {
		slog.Warn("geoip database unavailable, country lookups disabled", "error", err)
	} else if cfg.GeoIPEnabled() {
		slog.Info("geoip lookups enabled", "path", cfg.GeoIPDBPath)
	}

	// Services
	viewService := service.NewViewService(db, geo)
	searchService := service.NewSearchService(db)
	eventService := service.NewEventService(db)
	feedCreds := service.FeedCredentials{
		InstagramToken: cfg.InstagramToken,
		YouTubeAPIKey:  cfg.YouTubeAPIKey,
	}

	// Rebuild the search index on startup so FTS stays consistent with
	// whatever state the database arrived in.
	if err := searchService.RebuildIndex(ctx); err != nil {
		slog.Warn("search reindex failed", "error", err)
	}

	// Template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		SiteName:       cfg.SiteName,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Scheduler for retention cleanup, search reindexing and geoip
	// database refresh
	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = scheduler.New(eventService, viewService, searchService, geo, cfg.RetentionDays, logger)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop()
	} else {
		slog.Info("scheduler disabled")
	}

	// Admin allow-list policy. An email on the list always resolves to
	// the admin role regardless of what the users table says.
	isAdmin := middleware.AdminPolicy(cfg.IsAdminEmail)

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	// CSRF protection for HTML routes. API routes are mounted outside
	// the protected groups and rely on CORS plus Fetch metadata.
	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	// Handlers
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection, isAdmin)
	adminHandler := handler.NewAdminHandler(db, renderer)
	blogHandler := handler.NewBlogHandler(db, renderer, cacheManager)
	hotelHandler := handler.NewHotelHandler(db, renderer, cacheManager)
	productHandler := handler.NewProductHandler(db, renderer, cacheManager)
	mediaHandler := handler.NewMediaHandler(db, renderer, cfg.UploadsDir)
	socialHandler := handler.NewSocialHandler(db, renderer, cacheManager)
	userHandler := handler.NewUserHandler(db, renderer, isAdmin)
	eventHandler := handler.NewEventHandler(db, renderer)
	cacheHandler := handler.NewCacheHandler(db, renderer, cacheManager)
	schedulerHandler := handler.NewSchedulerHandler(renderer, sched)
	frontendHandler := handler.NewFrontendHandler(db, renderer, cacheManager, viewService, searchService)
	seoHandler := handler.NewSEOHandler(db, cfg.BaseURL, cfg.IsDevelopment())
	healthHandler := handler.NewHealthHandler(db, sessionManager, cfg.UploadsDir, appVersion)

	apiHandler := api.NewHandler(db)
	apiBlogHandler := api.NewBlogHandler(db, viewService)
	apiHotelHandler := api.NewHotelHandler(db)
	apiProductHandler := api.NewProductHandler(db)
	apiFeedHandler := api.NewFeedHandler(db, feedCreds)

	// Health check routes
	// Crawler documents
	r.Get("/sitemap.xml", seoHandler.Sitemap)
	r.Get("/robots.txt", seoHandler.Robots)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Public frontend routes
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.OptionalLoadUser(sessionManager, db, isAdmin))

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteBlog, frontendHandler.BlogIndex)
		r.Get(handler.RouteBlog+handler.RouteParamSlug, frontendHandler.BlogPost)
		r.Get(handler.RouteHotels, frontendHandler.Hotels)
		r.Get(handler.RouteHotels+handler.RouteParamSlug, frontendHandler.HotelDetail)
		r.Get(handler.RouteProducts, frontendHandler.Products)
	})

	// Auth routes (public, with CSRF and rate limiting)
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.HTMLMiddleware())
		r.Use(csrfMiddleware)
		r.Use(middleware.OptionalLoadUser(sessionManager, db, isAdmin))

		r.Get(handler.RouteSignin, authHandler.SigninForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteSignin, authHandler.Signin)
		r.Get(handler.RouteSignup, authHandler.SignupForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteSignup, authHandler.Signup)
		r.Post(handler.RouteSignout, authHandler.Signout)
	})

	// Admin routes (protected with CSRF, admin-only)
	r.Route("/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db, isAdmin))
		r.Use(middleware.RequireAdminWithEventLog(eventService))

		r.Get(handler.RouteRoot, adminHandler.Dashboard)

		registerCRUD(r, handler.RouteBlogs, handler.RouteBlogsID, crudHandlers{
			List: blogHandler.List, NewForm: blogHandler.NewForm, Create: blogHandler.Create,
			EditForm: blogHandler.EditForm, Update: blogHandler.Update, Delete: blogHandler.Delete,
		})
		registerCRUD(r, handler.RouteHotels, handler.RouteHotelsID, crudHandlers{
			List: hotelHandler.List, NewForm: hotelHandler.NewForm, Create: hotelHandler.Create,
			EditForm: hotelHandler.EditForm, Update: hotelHandler.Update, Delete: hotelHandler.Delete,
		})
		registerCRUD(r, handler.RouteProducts, handler.RouteProductsID, crudHandlers{
			List: productHandler.List, NewForm: productHandler.NewForm, Create: productHandler.Create,
			EditForm: productHandler.EditForm, Update: productHandler.Update, Delete: productHandler.Delete,
		})
		registerCRUD(r, handler.RouteUsers, handler.RouteUsersID, crudHandlers{
			List: userHandler.List, NewForm: userHandler.NewForm, Create: userHandler.Create,
			EditForm: userHandler.EditForm, Update: userHandler.Update, Delete: userHandler.Delete,
		})

		r.Get(handler.RouteMedia, mediaHandler.List)
		r.Post(handler.RouteMedia+handler.RouteSuffixUpload, mediaHandler.Upload)
		r.Delete(handler.RouteMediaID, mediaHandler.Delete)
		r.Post(handler.RouteMediaID+"/delete", mediaHandler.Delete)

		r.Get(handler.RouteSocial, socialHandler.Show)
		r.Put(handler.RouteSocial, socialHandler.Update)
		r.Post(handler.RouteSocial, socialHandler.Update)

		r.Get(handler.RouteEvents, eventHandler.List)

		r.Get(handler.RouteCache, cacheHandler.Show)
		r.Post(handler.RouteCache+"/clear", cacheHandler.Clear)

		r.Get(handler.RouteJobs, schedulerHandler.Show)
	})

	// REST API v1 routes. The browser talks to these with fetch, so the
	// group carries CORS instead of the CSRF middleware.
	r.Route("/api/v1", func(r chi.Router) {
		apiRateLimiter := middleware.NewGlobalRateLimiter(100, 200)
		r.Use(apiRateLimiter.Middleware())
		r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

		r.Get("/status", apiHandler.Status)

		r.Get(handler.RouteBlogs, apiBlogHandler.List)
		r.Get(handler.RouteBlogsID, apiBlogHandler.Get)
		r.Post(handler.RouteBlogsID+"/views", apiBlogHandler.IncrementViews)

		r.Get(handler.RouteHotels, apiHotelHandler.List)
		r.Get(handler.RouteHotelsID, apiHotelHandler.Get)

		r.Get(handler.RouteProducts, apiProductHandler.List)
		r.Get(handler.RouteProductsID, apiProductHandler.Get)

		r.Post("/feeds/instagram", apiFeedHandler.Instagram)
		r.Post("/feeds/youtube", apiFeedHandler.YouTube)
	})

	// Static assets from the embedded filesystem, cached for 1 year
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(31536000)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	// Uploaded media, cached for 1 week
	uploadsHandler := middleware.StaticCache(604800)(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	r.Handle("/uploads/*", uploadsHandler)

	r.NotFound(frontendHandler.NotFound)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // allow for uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
