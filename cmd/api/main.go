package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/contacts"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/experience"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/notifications"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/status"
	"portfolio-backend/internal/validation"
)

func main() {
	started := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := db.Open(ctx, db.Options{
		URI:                    cfg.MongoURI,
		Database:               cfg.MongoDB,
		MaxPoolSize:            cfg.MongoMaxPoolSize,
		ServerSelectionTimeout: cfg.MongoServerSelectionTimeout,
		SocketTimeout:          cfg.MongoSocketTimeout,
	}, logger)
	if err != nil {
		logger.Error("mongo client setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The server accepts requests before MongoDB answers; queries fail until
	// the driver connects.
	go func() {
		bgCtx, bgCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer bgCancel()
		if err := store.Ping(bgCtx); err != nil {
			logger.Error("mongo ping failed", slog.String("error", err.Error()))
			return
		}
		if err := db.EnsureIndexes(bgCtx, store.Cols); err != nil {
			logger.Error("index creation failed", slog.String("error", err.Error()))
		}
	}()

	cacheStore := newCache(ctx, cfg, logger)

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:   []byte(cfg.JWTSecret),
			TokenTTL: cfg.AdminTokenTTL,
			Issuer:   cfg.JWTIssuer,
		}
	}
	if cfg.AdminKeyHash == "" && jwtManager == nil {
		logger.Warn("admin routes are unauthenticated; set ADMIN_KEY_HASH or JWT_SECRET to protect them")
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.NotifyRecipient, cfg.BrevoSandbox)
	if mailer.Configured() {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	} else {
		logger.Info("brevo mailer disabled")
	}

	val := validation.New()

	contactService := contacts.NewService(contacts.NewRepository(store.Cols.Contacts), mailer, cfg.NotifyTimeout, cfg.Timezone)
	projectService := projects.NewService(projects.NewRepository(store.Cols.Projects), cacheStore, cfg.CacheTTL, cfg.Timezone, logger)
	experienceService := experience.NewService(experience.NewRepository(store.Cols.Experiences), cacheStore, cfg.CacheTTL, cfg.Timezone, logger)

	handler := newRouter(routeDeps{
		cfg:        cfg,
		log:        logger,
		jwtManager: jwtManager,
		contacts:   contacts.NewHandler(contactService, val, logger),
		projects:   projects.NewHandler(projectService, val, logger),
		experience: experience.NewHandler(experienceService, val, logger),
		status:     status.NewHandler(store, started, logger),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logger.Info("shutting down", slog.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("mongo disconnect error", slog.String("error", err.Error()))
	} else {
		logger.Info("mongo connection closed")
	}
}

// newCache prefers Redis when configured and reachable, falling back to the
// in-process cache.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.Cache {
	if cfg.RedisURL == "" && cfg.RedisAddr == "" {
		return cache.NewMemory(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	var (
		redisCache *cache.RedisCache
		err        error
	)
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
	} else {
		redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	if err == nil {
		err = redisCache.Ping(ctx)
	}
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", slog.String("error", err.Error()))
		return cache.NewMemory(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	logger.Info("redis cache enabled")
	return redisCache
}
