// Package main is the entrypoint for the Shelfmark API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/cache"
	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/handler"
	"github.com/shelfmark/shelfmark/internal/middleware"
	"github.com/shelfmark/shelfmark/internal/repository"
	"github.com/shelfmark/shelfmark/internal/repository/memory"
	"github.com/shelfmark/shelfmark/internal/repository/postgres"
	"github.com/shelfmark/shelfmark/internal/repository/sqlite"
	"github.com/shelfmark/shelfmark/internal/server"
	"github.com/shelfmark/shelfmark/internal/service"
)

// storage bundles the per-entity repositories of a backend together with
// its lifecycle hooks.
type storage struct {
	books    repository.BookRepository
	users    repository.UserRepository
	feedback repository.FeedbackRepository
	checker  handler.HealthChecker
	close    func() error
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	store, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage",
			slog.String("backend", cfg.StorageBackend),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	logger.Info("storage ready", "backend", cfg.StorageBackend)

	// Redis is optional; without it auth endpoints are simply unthrottled.
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("redis_url", redactURL(cfg.RedisURL)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry)
	issues := service.NewGitHubService(ctx, cfg.GitHubToken, cfg.GitHubRepo, logger)

	bookService := service.NewBookService(store.books)
	userService := service.NewUserService(store.users, tokens)
	feedbackService := service.NewFeedbackService(store.feedback, issues, logger)

	// A typed-nil *cache.Cache inside the interface would defeat the
	// handler's nil checks, so only pass the cache when it exists.
	var cacheChecker handler.HealthChecker
	if cacheClient != nil {
		cacheChecker = cacheClient
	}

	healthHandler := handler.NewHealthHandler(store.checker, cacheChecker)
	bookHandler := handler.NewBookHandler(bookService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, logger)

	r := setupRouter(routerDeps{
		health:   healthHandler,
		books:    bookHandler,
		users:    userHandler,
		feedback: feedbackHandler,
		tokens:   tokens,
		userRepo: store.users,
		cache:    cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	if store.close != nil {
		srv.OnShutdown("storage", func(ctx context.Context) error {
			return store.close()
		})
	}
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"github_issues", issues.Available(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStorage initializes the repository backend selected by configuration.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &storage{
			books:    store.Books(),
			users:    store.Users(),
			feedback: store.Feedback(),
			checker:  store,
			close:    store.Close,
		}, nil

	case config.BackendPostgres:
		store, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &storage{
			books:    store.Books(),
			users:    store.Users(),
			feedback: store.Feedback(),
			checker:  store,
			close: func() error {
				store.Close()
				return nil
			},
		}, nil

	default:
		// config.Load already validated the backend name
		return &storage{
			books:    memory.NewBookRepository(),
			users:    memory.NewUserRepository(),
			feedback: memory.NewFeedbackRepository(),
		}, nil
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps carries everything setupRouter needs.
type routerDeps struct {
	health   *handler.HealthHandler
	books    *handler.BookHandler
	users    *handler.UserHandler
	feedback *handler.FeedbackHandler
	tokens   *auth.TokenService
	userRepo repository.UserRepository
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(chimiddleware.RequestSize(deps.cfg.MaxRequestBodySize))

	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", handler.Hello)

	requireAuth := middleware.Auth(middleware.AuthConfig{
		Logger: deps.logger,
		Tokens: deps.tokens,
		Users:  deps.userRepo,
	})

	rateLimitAuth := middleware.RateLimitAuth(middleware.RateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Enabled: deps.cfg.RateLimitAuthEnabled,
		RPS:     deps.cfg.RateLimitAuthRPS,
		Burst:   deps.cfg.RateLimitAuthBurst,
	})

	r.Route("/books", func(r chi.Router) {
		r.Post("/", deps.books.Create)
		r.Get("/", deps.books.List)
		r.Get("/{id}", deps.books.Get)
		r.Put("/{id}/borrow", deps.books.Borrow)
		r.Put("/{id}/return", deps.books.Return)
		r.Delete("/{id}", deps.books.Delete)
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(rateLimitAuth).Post("/register", deps.users.Register)
		r.With(rateLimitAuth).Post("/login", deps.users.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", deps.users.Me)
			r.Put("/me", deps.users.UpdateMe)
			r.Get("/users", deps.users.List)
			r.Delete("/users/{id}", deps.users.Delete)
		})
	})

	r.Route("/feedback", func(r chi.Router) {
		r.Get("/", deps.feedback.List)
		r.Get("/categories", deps.feedback.Categories)
		r.Get("/{id}", deps.feedback.Get)
		r.Delete("/{id}", deps.feedback.Delete)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", deps.feedback.Create)
		})
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

// redactURL strips credentials from a URL before logging.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		parsed.User = url.User(parsed.User.Username())
	}

	return parsed.String()
}
