package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yousiff139-lang/aqua-dent-link-main/internal/api/middleware"
	"github.com/yousiff139-lang/aqua-dent-link-main/internal/chatbot"
	"github.com/yousiff139-lang/aqua-dent-link-main/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	ChatHandler    *chatbot.Handler
	MetricsHandler http.Handler
	AllowedOrigin  string
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	if cfg.AllowedOrigin != "" {
		r.Use(cors(cfg.AllowedOrigin))
	}

	r.Get("/health", cfg.ChatHandler.HealthCheck)

	chat := http.HandlerFunc(cfg.ChatHandler.Chat)
	if cfg.RateLimitRPS > 0 {
		r.With(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)).Post("/chat", chat)
	} else {
		r.Post("/chat", chat)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

// cors allows the configured origin on every response, answering preflight
// requests directly.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
