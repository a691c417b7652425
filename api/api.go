package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/agents/orchestrator"
)

const (
	ChatPath = "/api/product-assistant"

	msgInvalidRequest = "Invalid request: Message is required and cannot be empty"
	msgInternal       = "An error occurred while processing your bearing product query. Please try again."

	maxBodyBytes = 64 << 10
)

type Assistant interface {
	HandleMessage(ctx context.Context, sessionID string, message string) (orchestratorx.Reply, error)
}

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"sessionId"`
}

type ChatResponse struct {
	SessionID  string    `json:"sessionId"`
	Response   string    `json:"response"`
	Timestamp  time.Time `json:"timestamp"`
	QueryType  string    `json:"queryType"`
	SourceData string    `json:"sourceData"`

	UsedFunctions []string `json:"usedFunctions,omitempty"`
}

type ErrorResponse struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type Handler struct {
	assistant Assistant
	validate  *validator.Validate
	now       func() time.Time
}

func NewHandler(assistant Assistant) *Handler {
	return &Handler{
		assistant: assistant,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
	}
}

// NewRouter mounts the chat endpoint and the health probe behind the request
// logging middleware.
func NewRouter(assistant Assistant, logger zerolog.Logger) *chi.Mux {
	h := NewHandler(assistant)

	r := chi.NewRouter()
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RequestIDHandler("request_id", "X-Request-ID"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(recovery)

	r.Get("/healthz", h.Health)
	r.Post(ChatPath, h.Chat)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("malformed chat request")
		h.writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	req.SessionID = strings.TrimSpace(req.SessionID)

	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	reply, err := h.assistant.HandleMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, orchestratorx.ErrInvalidMessage) {
			h.writeError(w, http.StatusBadRequest, msgInvalidRequest)
			return
		}
		hlog.FromRequest(r).Error().Err(err).Str("session_id", req.SessionID).Msg("chat turn failed")
		h.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		SessionID:  reply.SessionID,
		Response:   reply.Response,
		Timestamp:  reply.Timestamp,
		QueryType:  string(reply.QueryType),
		SourceData: reply.SourceData,

		UsedFunctions: reply.UsedFunctions,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Timestamp: h.now().UTC()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response failed")
	}
}

func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				hlog.FromRequest(r).Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("panic recovered")
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgInternal, Timestamp: time.Now().UTC()})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
