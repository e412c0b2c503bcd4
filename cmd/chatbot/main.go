package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/yousiff139-lang/aqua-dent-link-main/internal/api/router"
	"github.com/yousiff139-lang/aqua-dent-link-main/internal/booking"
	"github.com/yousiff139-lang/aqua-dent-link-main/internal/chatbot"
	appconfig "github.com/yousiff139-lang/aqua-dent-link-main/internal/config"
	"github.com/yousiff139-lang/aqua-dent-link-main/internal/observability/metrics"
	"github.com/yousiff139-lang/aqua-dent-link-main/internal/session"
	"github.com/yousiff139-lang/aqua-dent-link-main/pkg/logging"
)

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dental chatbot service",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_backend", cfg.SessionBackend,
	)

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		logger.Error("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := buildSessionStore(ctx, cfg, logger)

	bookingMetrics := metrics.NewBookingMetrics(nil)
	turnMetrics := metrics.NewTurnMetrics(nil)

	client := booking.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, logger,
		booking.WithHTTPClient(&http.Client{Timeout: cfg.SupabaseTimeout}),
		booking.WithRetry(cfg.RetryMaxAttempts, cfg.RetryBaseDelay),
		booking.WithMetrics(bookingMetrics),
	)
	resolver := booking.NewResolver(client, logger)

	machine := chatbot.NewMachine(
		chatbot.NewIntentClassifier(chatbot.DefaultIntentRules()),
		chatbot.NewSpecializationMapper(chatbot.DefaultSpecializationRules()),
		client,
		resolver,
		client,
		logger,
	).WithSearchWindow(cfg.AvailabilityDays).WithDentistLimit(cfg.DentistLimit)

	chatHandler := chatbot.NewHandler(machine, sessions, cfg.SessionTTL, turnMetrics, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		ChatHandler:    chatHandler,
		MetricsHandler: promhttp.Handler(),
		AllowedOrigin:  cfg.AllowedOrigin,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
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
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildSessionStore picks the configured backend. Redis enforces expiry by
// TTL; the in-memory store gets a background sweeper.
func buildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) session.Store {
	if cfg.SessionBackend == "redis" && cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
		return session.NewRedisStore(client, cfg.SessionTTL)
	}

	logger.Info("using in-memory session store")
	store := session.NewMemoryStore()
	go session.NewSweeper(store, cfg.SweepInterval, logger).Run(ctx)
	return store
}
