package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yousiff139-lang/aqua-dent-link-main/internal/chatbot"
	"github.com/yousiff139-lang/aqua-dent-link-main/internal/session"
	"github.com/yousiff139-lang/aqua-dent-link-main/pkg/logging"
)

func newTestRouter(t *testing.T, cfg *Config) http.Handler {
	t.Helper()

	machine := chatbot.NewMachine(
		chatbot.NewIntentClassifier(chatbot.DefaultIntentRules()),
		chatbot.NewSpecializationMapper(chatbot.DefaultSpecializationRules()),
		nil, nil, nil,
		logging.Default(),
	)
	cfg.Logger = logging.Default()
	cfg.ChatHandler = chatbot.NewHandler(machine, session.NewMemoryStore(), 30*time.Minute, nil, nil)
	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterChatValidation(t *testing.T) {
	router := newTestRouter(t, &Config{})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"text": ""}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, &Config{AllowedOrigin: "https://clinic.example"})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://clinic.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouterRateLimitsChat(t *testing.T) {
	router := newTestRouter(t, &Config{RateLimitRPS: 0.001, RateLimitBurst: 1})

	body := `{"text": "hello"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("X-Real-Ip", "4.4.4.4")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request status = %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("X-Real-Ip", "4.4.4.4")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rr.Code)
	}
}
