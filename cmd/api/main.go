package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/cnwankpa/portfolio-api/internal/admins"
	"github.com/cnwankpa/portfolio-api/internal/analytics"
	"github.com/cnwankpa/portfolio-api/internal/api/router"
	appconfig "github.com/cnwankpa/portfolio-api/internal/config"
	"github.com/cnwankpa/portfolio-api/internal/health"
	"github.com/cnwankpa/portfolio-api/internal/http/handlers"
	"github.com/cnwankpa/portfolio-api/internal/intake"
	"github.com/cnwankpa/portfolio-api/internal/leads"
	"github.com/cnwankpa/portfolio-api/internal/notify"
	"github.com/cnwankpa/portfolio-api/internal/observability/metrics"
	"github.com/cnwankpa/portfolio-api/internal/ratelimit"
	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting portfolio-api server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Lead repository over pgx; reporting and admin auth over database/sql.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	redisClient := buildRedisClient(ctx, cfg, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	intakeMetrics := metrics.NewIntakeMetrics(registry)

	// Rate limiting: Redis fixed window, in-process fallback.
	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow, logger)
	} else {
		logger.Warn("redis not configured, using in-memory rate limiter")
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	// Notifications
	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	} else {
		logger.Warn("sendgrid not configured, emails will be logged only")
		sender = notify.NewStubSender(logger)
	}
	emailLog := notify.NewEmailLog(sqlDB, logger)
	notifier := notify.NewService(sender, notify.ServiceConfig{
		CVFilePath:       cfg.CVFilePath,
		AdminNotifyEmail: cfg.AdminNotifyEmail,
		Links: notify.TemplateLinks{
			CalendlyURL: cfg.CalendlyURL,
			LinkedInURL: cfg.LinkedInURL,
		},
	}, emailLog, logger)

	// Core services
	leadRepo := leads.NewPostgresRepository(pool)
	intakeService := intake.NewService(leadRepo, limiter, notifier, intakeMetrics, logger)

	adminStore := admins.NewStore(sqlDB)
	authService := admins.NewAuthService(adminStore, cfg.JWTSecret, cfg.AccessTokenExpiry, logger)
	aggregator := analytics.NewAggregator(sqlDB, logger)

	// Router
	r := router.New(&router.Config{
		Logger:             logger,
		IntakeHandler:      intake.NewHandler(intakeService, logger),
		HealthHandler:      health.NewHandler(sqlDB, redisClient, logger),
		AuthService:        authService,
		AdminAuthHandler:   admins.NewHandler(authService, logger),
		AdminLeadsHandler:  handlers.NewAdminLeadsHandler(leadRepo, logger),
		AnalyticsHandler:   analytics.NewHandler(aggregator, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildRedisClient connects to Redis when configured. A failed ping is
// logged but not fatal; the limiter and health probes handle absence.
func buildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis ping failed", "error", err, "addr", cfg.RedisAddr)
	}
	return client
}
