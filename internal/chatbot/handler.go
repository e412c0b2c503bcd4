package chatbot

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yousiff139-lang/aqua-dent-link-main/internal/observability/metrics"
	"github.com/yousiff139-lang/aqua-dent-link-main/internal/session"
	"github.com/yousiff139-lang/aqua-dent-link-main/pkg/logging"
)

// ChatRequest is one inbound user turn.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// ChatResponse carries the bot reply for a turn.
type ChatResponse struct {
	SessionID string         `json:"session_id"`
	Message   string         `json:"message"`
	State     string         `json:"state"`
	Options   []string       `json:"options,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ErrorResponse is the error body shape for all failure modes.
type ErrorResponse struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata"`
}

// Handler exposes the conversation over HTTP.
type Handler struct {
	machine  *Machine
	sessions session.Store
	logger   *logging.Logger
	metrics  *metrics.TurnMetrics
	ttl      time.Duration
}

// NewHandler creates a chat HTTP handler.
func NewHandler(machine *Machine, sessions session.Store, ttl time.Duration, m *metrics.TurnMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return &Handler{
		machine:  machine,
		sessions: sessions,
		logger:   logger,
		metrics:  m,
		ttl:      ttl,
	}
}

// Chat processes one turn: load session, run the machine, persist, respond.
// The session is only persisted after a successful turn, so failed turns
// leave the stored step untouched and can be retried.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, ErrValidation("Request body must be JSON with session_id and text."), "")
		return
	}
	if req.Text == "" {
		h.respondError(w, ErrValidation("Message text is required."), string(StepStart))
		return
	}

	sess, err := h.loadOrCreate(r, req.SessionID)
	if err != nil {
		h.respondError(w, err, "")
		return
	}
	stepBefore := sess.Step

	reply, err := h.machine.ProcessTurn(ctx, sess, req.Text)
	if err != nil {
		h.metrics.ObserveTurn(stepBefore, string(KindOf(err)))
		h.logger.Error("turn failed",
			"session_id", sess.ID,
			"step", stepBefore,
			"kind", string(KindOf(err)),
			"error", err,
		)
		h.respondError(w, err, stepBefore)
		return
	}

	sess.Touch(h.ttl)
	if err := h.sessions.Save(ctx, sess); err != nil {
		h.metrics.ObserveTurn(stepBefore, string(KindUpstream))
		h.logger.Error("session save failed", "session_id", sess.ID, "error", err)
		h.respondError(w, ErrUpstream(err), stepBefore)
		return
	}

	h.metrics.ObserveTurn(stepBefore, "ok")
	h.metrics.ObserveTurnLatency(stepBefore, time.Since(start).Seconds())

	h.respondJSON(w, http.StatusOK, ChatResponse{
		SessionID: sess.ID,
		Message:   reply.Message,
		State:     string(reply.Step),
		Options:   reply.Options,
		Metadata:  reply.Metadata,
	})
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loadOrCreate resolves the session for a turn. An empty session_id starts a
// fresh conversation; an unknown or expired one is a distinct, recoverable
// error so the client can restart.
func (h *Handler) loadOrCreate(r *http.Request, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		sess := session.New(uuid.New().String(), string(StepStart), h.ttl)
		h.logger.Info("session started", "session_id", sess.ID)
		return sess, nil
	}

	sess, err := h.sessions.FindByID(r.Context(), sessionID)
	if err != nil {
		return nil, ErrUpstream(err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound(sessionID)
	}
	return sess, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error, step string) {
	kind := KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case KindSessionNotFound:
		status = http.StatusNotFound
	case KindValidation:
		status = http.StatusBadRequest
	case KindUpstream:
		status = http.StatusServiceUnavailable
	}

	h.respondJSON(w, status, ErrorResponse{
		Code:     string(kind),
		Message:  SafeMessage(err),
		Metadata: map[string]any{"error": true, "state": step},
	})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
