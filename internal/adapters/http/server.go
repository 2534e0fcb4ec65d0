// Package http exposes the studio over a REST and SSE surface.
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

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/internal/observability"
	"github.com/aretw0/canopy/internal/presentation/graph"
	"github.com/aretw0/canopy/internal/runtime"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
)

// Studio is the slice of the runtime the HTTP layer consumes.
type Studio interface {
	Document(ctx context.Context) (string, uint64, error)
	SetDocument(ctx context.Context, text string, expected uint64) (uint64, error)
	Graph(ctx context.Context) (domain.PositionedGraph, error)
	Validate(text string) domain.ValidationResult
	Personas() ports.PersonaStore
	Subscribe() (<-chan runtime.Update, func())
}

// Server wires studio operations to routes.
type Server struct {
	studio  Studio
	log     *slog.Logger
	metrics *observability.Metrics
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics attaches request metrics and mounts /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer builds the router around the given studio.
func NewServer(studio Studio, opts ...Option) *Server {
	s := &Server{
		studio: studio,
		log:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)
	r.Get("/config", s.handleGetConfig)
	r.Put("/config", s.handlePutConfig)
	r.Post("/config/validate", s.handleValidate)
	r.Get("/graph", s.handleGetGraph)
	r.Get("/graph/mermaid", s.handleGetMermaid)
	r.Get("/personas", s.handleListPersonas)
	r.Post("/personas", s.handleCreatePersona)
	r.Get("/personas/{id}", s.handleGetPersona)
	r.Put("/personas/{id}", s.handlePutPersona)
	r.Delete("/personas/{id}", s.handleDeletePersona)
	r.Get("/events", s.handleEvents)

	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(route, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so the SSE handler still sees a
// flusher when the metrics middleware is active.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// documentPayload is the wire form of the workflow document.
type documentPayload struct {
	Content  string `json:"content"`
	Revision uint64 `json:"revision"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	text, rev, err := s.studio.Document(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, documentPayload{Content: text, Revision: rev})
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var payload documentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}
	rev, err := s.studio.SetDocument(r.Context(), payload.Content, payload.Revision)
	if errors.Is(err, domain.ErrRevisionConflict) {
		s.fail(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, documentPayload{Content: payload.Content, Revision: rev})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, s.studio.Validate(payload.Content))
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.studio.Graph(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleGetMermaid(w http.ResponseWriter, r *http.Request) {
	g, err := s.studio.Graph(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(g))
}

func (s *Server) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	personas, err := s.studio.Personas().List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	if personas == nil {
		personas = []domain.Persona{}
	}
	writeJSON(w, http.StatusOK, personas)
}

func (s *Server) handleCreatePersona(w http.ResponseWriter, r *http.Request) {
	var p domain.Persona
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.studio.Personas().Save(r.Context(), p); err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetPersona(w http.ResponseWriter, r *http.Request) {
	p, err := s.studio.Personas().Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrPersonaNotFound) {
		s.fail(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutPersona(w http.ResponseWriter, r *http.Request) {
	var p domain.Persona
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := s.studio.Personas().Save(r.Context(), p); err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePersona(w http.ResponseWriter, r *http.Request) {
	err := s.studio.Personas().Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrPersonaNotFound) {
		s.fail(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEvents streams graph updates as server-sent events. Each update
// carries the document revision and the recompiled graph.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.fail(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	updates, cancel := s.studio.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case update, open := <-updates:
			if !open {
				return
			}
			data, err := json.Marshal(update)
			if err != nil {
				s.log.Error("marshaling update event", "err", err)
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: graph\ndata: %s\n\n", strconv.FormatUint(update.Revision, 10), data)
			flusher.Flush()
		}
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
