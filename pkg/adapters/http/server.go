package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/sirsim"
	"github.com/aretw0/sirsim/internal/logging"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/aretw0/sirsim/pkg/observability"
	"github.com/aretw0/sirsim/pkg/ports"
	"github.com/aretw0/sirsim/pkg/report"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// maxBodyBytes bounds POST /runs payloads.
const maxBodyBytes = 1 << 20

// Server exposes a Simulator and its run store over JSON.
type Server struct {
	Simulator ports.Simulator
	Store     ports.RunStore
	Streams   *StreamManager
	Gatherer  prometheus.Gatherer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStore enables the /runs read and delete routes.
func WithStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithStreams enables GET /events. The manager's Hooks must also be
// registered on the Simulator for events to flow.
func WithStreams(streams *StreamManager) Option {
	return func(s *Server) {
		s.Streams = streams
	}
}

// WithGatherer serves GET /metrics from g.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for the simulator.
func NewHandler(sim ports.Simulator, opts ...Option) http.Handler {
	server := &Server{Simulator: sim, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)

	r.Route("/runs", func(r chi.Router) {
		r.Post("/", server.CreateRun)
		r.Get("/", server.ListRuns)
		r.Get("/{id}", server.GetRun)
		r.Get("/{id}/report", server.GetReport)
		r.Delete("/{id}", server.DeleteRun)
	})

	if server.Streams != nil {
		r.Get("/events", server.SubscribeEvents)
	}
	if server.Gatherer != nil {
		r.Handle("/metrics", observability.Handler(server.Gatherer))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RunResponse is the body returned for a single run.
type RunResponse struct {
	Run     *domain.Run    `json:"run"`
	Summary domain.Summary `json:"summary"`
}

// CreateRun handles POST /runs. Omitted parameters take their defaults.
// A run capped by max_days is still returned, with converged=false.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	params := domain.DefaultParams()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CreateRun: Invalid request body", "error", err)
		return
	}

	run, err := s.Simulator.Simulate(r.Context(), params)
	switch {
	case err == nil, errors.Is(err, domain.ErrDidNotConverge):
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		http.Error(w, fmt.Sprintf("Simulate error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Simulate failed", "error", err)
		return
	}

	w.Header().Set("Location", "/runs/"+run.ID)
	writeJSON(w, s.logger, http.StatusCreated, RunResponse{Run: run, Summary: run.Summarize()})
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("List runs failed", "error", err)
		return
	}

	summaries := make([]domain.Summary, 0, len(ids))
	for _, id := range ids {
		run, err := s.Store.Load(r.Context(), id)
		if errors.Is(err, domain.ErrRunNotFound) {
			// Expired or deleted between List and Load.
			continue
		}
		if err != nil {
			http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
			s.logger.Error("Load run failed", "run_id", id, "error", err)
			return
		}
		summaries = append(summaries, run.Summarize())
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]any{"runs": summaries})
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.logger, http.StatusOK, RunResponse{Run: run, Summary: run.Summarize()})
}

// GetReport handles GET /runs/{id}/report. The default is the plain table;
// ?format=markdown returns the markdown report and ?format=mermaid a chart.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "table":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.WriteTable(w, run.Trace); err != nil {
			s.logger.Error("Report write failed", "error", err)
		}
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		fmt.Fprint(w, report.Markdown(run))
	case "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, report.Mermaid(run.Trace, &report.ChartOptions{Title: "Run " + run.ID}))
	default:
		http.Error(w, "Unknown report format", http.StatusBadRequest)
	}
}

// DeleteRun handles DELETE /runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	if err := s.Store.Delete(r.Context(), run.ID); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Delete run failed", "run_id", run.ID, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]any{
		"app":     "sirsim-http",
		"version": strings.TrimSpace(sirsim.Version),
		"store":   s.Store != nil,
	})
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		http.Error(w, "No run store configured", http.StatusNotImplemented)
		return false
	}
	return true
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*domain.Run, bool) {
	if !s.requireStore(w) {
		return nil, false
	}
	id := chi.URLParam(r, "id")
	run, err := s.Store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, fmt.Sprintf("Run %q not found", id), http.StatusNotFound)
			return nil, false
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Load run failed", "run_id", id, "error", err)
		return nil, false
	}
	return run, true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
