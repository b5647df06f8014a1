package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/damascout"
	"github.com/aretw0/damascout/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// DefaultListLimit is the number of reports GET /reports returns without a limit.
const DefaultListLimit = 20

// Reporter is the routing core the server hands submitted reports to.
type Reporter interface {
	Report(kind domain.Kind, command, message string)
}

// History lists recent reports, oldest first.
type History interface {
	Recent(ctx context.Context, n int64) ([]domain.Report, error)
}

// Server implements the generated ServerInterface
type Server struct {
	Reporter Reporter
	Hub      *Hub
	History  History
	metrics  http.Handler
	logger   *slog.Logger
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHistory overrides the source of GET /reports. It defaults to the hub.
func WithHistory(h History) Option {
	return func(s *Server) {
		s.History = h
	}
}

// NewHandler creates a new HTTP handler. hub may be nil, in which case
// GET /events answers 404.
func NewHandler(reporter Reporter, hub *Hub, opts ...Option) http.Handler {
	server := &Server{
		Reporter: reporter,
		Hub:      hub,
		logger:   slog.Default(),
	}
	if hub != nil {
		server.History = hub
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(allowCrossOrigin)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			server.logger.Error("failed to load OpenAPI spec", "error", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(spec)
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return HandlerWithOptions(server, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			server.logger.Debug("rejected request parameters", "path", r.URL.Path, "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
		},
	})
}

// allowCrossOrigin lets browser hosts on other origins post and stream reports.
func allowCrossOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Last-Event-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, InfoResponse{
		App:        "damascout-http",
		Version:    damascout.Version,
		ApiVersion: apiVersion,
	})
}

// PostReport handles POST /reports.
func (s *Server) PostReport(w http.ResponseWriter, r *http.Request) {
	var body PostReportJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Debug("PostReport: invalid request body", "error", err)
		return
	}

	kind, err := domain.ParseKind(string(body.Kind))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Reporter.Report(kind, body.Command, body.Message)
	s.writeJSON(w, http.StatusAccepted, StatusResponse{Status: "accepted"})
}

// ListReports handles GET /reports.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request, params ListReportsParams) {
	if s.History == nil {
		http.Error(w, "History not enabled", http.StatusNotFound)
		return
	}

	limit := DefaultListLimit
	if params.Limit != nil {
		limit = *params.Limit
	}
	if limit < 1 || limit > 1000 {
		http.Error(w, "limit must be between 1 and 1000", http.StatusBadRequest)
		return
	}

	reports, err := s.History.Recent(r.Context(), int64(limit))
	if err != nil {
		http.Error(w, fmt.Sprintf("History error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ListReports failed", "error", err)
		return
	}

	resp := make([]Report, 0, len(reports))
	for _, report := range reports {
		resp = append(resp, mapReportFromDomain(report))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	if s.Hub == nil {
		http.NotFound(w, r)
		return
	}

	var only domain.Kind
	if params.Kind != nil {
		kind, err := domain.ParseKind(string(*params.Kind))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		only = kind
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, unsubscribe := s.Hub.Subscribe()
	defer unsubscribe()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case report, ok := <-events:
			if !ok {
				return
			}
			if only != "" && report.Kind != only {
				continue
			}
			data, err := json.Marshal(mapReportFromDomain(report))
			if err != nil {
				s.logger.Error("SSE: failed to encode report", "id", report.ID, "error", err)
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", report.ID, report.Kind, data)
			flusher.Flush()
		}
	}
}

func mapReportFromDomain(r domain.Report) Report {
	return Report{
		Id:      r.ID,
		Kind:    ReportKind(r.Kind),
		Command: r.Command,
		Message: r.Message,
		Time:    r.Time,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
