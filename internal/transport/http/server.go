// Package http provides the HTTP transport layer for the deck rules engine.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/KyleGowen/excelsior-sub008/deckrules"
	"github.com/KyleGowen/excelsior-sub008/internal/catalog"
)

const maxBodyBytes = 1 << 20

// CatalogSource provides the cards decks are validated against.
type CatalogSource interface {
	GetCard(ctx context.Context, id string) (deckrules.Card, error)
	Catalog(ctx context.Context) (*deckrules.Catalog, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server for the deck rules engine.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	source     CatalogSource
	engine     *deckrules.Engine
	logger     *slog.Logger
}

// NewServer creates a new HTTP server listening on addr.
func NewServer(addr string, source CatalogSource, engine *deckrules.Engine, logger *slog.Logger) *Server {
	if engine == nil {
		engine = deckrules.NewEngine(deckrules.Options{})
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router: chi.NewRouter(),
		source: source,
		engine: engine,
		logger: logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// ListenAndServe starts the HTTP server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/cards/{id}", s.handleGetCard)

		r.Route("/decks", func(r chi.Router) {
			r.Post("/validate", s.handleValidate)
			r.Post("/check-add", s.handleCheckAdd)
			r.Post("/stats", s.handleStats)
			r.Post("/encode", s.handleEncode)
			r.Post("/decode", s.handleDecode)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.source.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.Error("health check failed", slog.String("error", err.Error()))
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Response helpers

type errorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// validationError describes a malformed request field.
type validationError struct {
	Field   string
	Message string
}

func (e validationError) Error() string {
	return e.Field + ": " + e.Message
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		status int
		resp   errorResponse
		ve     validationError
	)

	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		resp = errorResponse{
			Error:   "invalid input",
			Code:    "INVALID_INPUT",
			Details: map[string]string{ve.Field: ve.Message},
		}

	case errors.Is(err, catalog.ErrCardNotFound), errors.Is(err, deckrules.ErrUnknownCard):
		status = http.StatusNotFound
		resp = errorResponse{Error: "card not found", Code: "NOT_FOUND"}

	default:
		s.logger.Error("unhandled error", slog.String("error", err.Error()))
		status = http.StatusInternalServerError
		resp = errorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}
	}

	s.writeJSON(w, status, resp)
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return validationError{Field: "body", Message: "invalid JSON"}
	}
	return nil
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
