// Package http exposes the intake engine as a JSON API over chi.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/aretw0/intake/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Engine defines the operations of the intake engine served over HTTP.
type Engine interface {
	Handle(ctx context.Context, turn intake.Turn) (*intake.Reply, error)
	Services() []string
	Graph(service string) (*domain.Graph, error)
	Conversation(ctx context.Context, id string) (*domain.Conversation, error)
	Messages(ctx context.Context, id string, limit int) ([]domain.Message, error)
	PostAgentMessage(ctx context.Context, id, content string, sender intake.Sender) (*domain.Message, error)
	Reset(ctx context.Context, id string) error
	DeleteConversation(ctx context.Context, id string) error
	CleanupProposal(text string) string
}

// Server holds the HTTP handlers.
type Server struct {
	Engine   Engine
	Metrics  *observability.Metrics
	Logger   *slog.Logger
	validate *validator.Validate
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics records turn latency and serves GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		Logger:   logging.NewNop(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.Health)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/turns", s.PostTurn)
		r.Get("/services", s.ListServices)
		r.Get("/services/{service}", s.GetService)
		r.Post("/proposals/cleanup", s.CleanupProposal)
		r.Route("/conversations/{id}", func(r chi.Router) {
			r.Get("/", s.GetConversation)
			r.Delete("/", s.DeleteConversation)
			r.Get("/messages", s.ListMessages)
			r.Post("/messages", s.PostMessage)
			r.Post("/reset", s.Reset)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TurnRequest is the body of POST /v1/turns.
type TurnRequest struct {
	ConversationID  string `json:"conversation_id" validate:"required_without=Service"`
	Service         string `json:"service" validate:"required_without=ConversationID"`
	Message         string `json:"message"`
	SenderID        string `json:"sender_id"`
	SenderName      string `json:"sender_name"`
	SenderRole      string `json:"sender_role"`
	SharedContextID string `json:"shared_context_id"`
}

// AgentMessageRequest is the body of POST /v1/conversations/{id}/messages.
type AgentMessageRequest struct {
	Content    string `json:"content" validate:"required"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name" validate:"required"`
	SenderRole string `json:"sender_role"`
}

// CleanupRequest is the body of POST /v1/proposals/cleanup.
type CleanupRequest struct {
	Text string `json:"text" validate:"required"`
}

// CleanupResponse is the reply of POST /v1/proposals/cleanup.
type CleanupResponse struct {
	Text string `json:"text"`
}

// ServiceSummary lists a service in GET /v1/services.
type ServiceSummary struct {
	Service   string `json:"service"`
	Questions int    `json:"questions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// PostTurn handles POST /v1/turns.
func (s *Server) PostTurn(w http.ResponseWriter, r *http.Request) {
	var body TurnRequest
	if !s.decode(w, r, &body) {
		return
	}

	start := time.Now()
	reply, err := s.Engine.Handle(r.Context(), intake.Turn{
		ConversationID:  body.ConversationID,
		Service:         body.Service,
		Message:         body.Message,
		SenderID:        body.SenderID,
		SenderName:      body.SenderName,
		SenderRole:      body.SenderRole,
		SharedContextID: body.SharedContextID,
	})
	s.observe(body.Service, reply, err, time.Since(start))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, reply)
}

func (s *Server) observe(service string, reply *intake.Reply, err error, d time.Duration) {
	if s.Metrics == nil {
		return
	}
	outcome := "asked"
	switch {
	case err != nil:
		outcome = "error"
	case reply.Done:
		outcome = "done"
	case reply.Retry:
		outcome = "retry"
	}
	if reply != nil {
		service = reply.Service
	}
	s.Metrics.ObserveTurn(service, outcome, d)
}

// ListServices handles GET /v1/services.
func (s *Server) ListServices(w http.ResponseWriter, r *http.Request) {
	names := s.Engine.Services()
	out := make([]ServiceSummary, 0, len(names))
	for _, name := range names {
		g, err := s.Engine.Graph(name)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out = append(out, ServiceSummary{Service: g.Service, Questions: len(g.Questions)})
	}
	s.respond(w, http.StatusOK, out)
}

// GetService handles GET /v1/services/{service}.
func (s *Server) GetService(w http.ResponseWriter, r *http.Request) {
	g, err := s.Engine.Graph(chi.URLParam(r, "service"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, g)
}

// GetConversation handles GET /v1/conversations/{id}.
func (s *Server) GetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.Engine.Conversation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, conv)
}

// ListMessages handles GET /v1/conversations/{id}/messages?limit=N.
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, r, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidTurn))
			return
		}
		limit = n
	}
	msgs, err := s.Engine.Messages(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, msgs)
}

// PostMessage handles POST /v1/conversations/{id}/messages.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	var body AgentMessageRequest
	if !s.decode(w, r, &body) {
		return
	}
	msg, err := s.Engine.PostAgentMessage(r.Context(), chi.URLParam(r, "id"), body.Content, intake.Sender{
		ID:   body.SenderID,
		Name: body.SenderName,
		Role: body.SenderRole,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, msg)
}

// Reset handles POST /v1/conversations/{id}/reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Reset(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteConversation handles DELETE /v1/conversations/{id}.
func (s *Server) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.DeleteConversation(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CleanupProposal handles POST /v1/proposals/cleanup.
func (s *Server) CleanupProposal(w http.ResponseWriter, r *http.Request) {
	var body CleanupRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.respond(w, http.StatusOK, CleanupResponse{Text: s.Engine.CleanupProposal(body.Text)})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  intake.Version,
		"services": len(s.Engine.Services()),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.fail(w, r, fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidTurn, err))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidTurn, err))
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.Logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.respond(w, status, errorResponse{Error: err.Error()})
}

// StatusFor maps engine errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, runner.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnknownService), errors.Is(err, domain.ErrConversationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTurn), errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
