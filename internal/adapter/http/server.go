package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agromet/advisory-report-service/internal/domain"
	"github.com/agromet/advisory-report-service/internal/observability"
	"github.com/agromet/advisory-report-service/internal/report"
)

// ReportComposer produces one advisory document per request.
type ReportComposer interface {
	Compose(ctx context.Context, req report.Request) (report.Document, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the report endpoint plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	composer   ReportComposer
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the report generation route and the
// /healthz, /readyz, and /metrics operational routes.
func NewServer(addr string, composer ReportComposer, ready ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		composer: composer,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("POST /api/reports/generate-report", s.handleGenerateReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// generateReportRequest is the transport-level request body. The observed
// precipitation arrives as either a JSON number or a numeric string,
// depending on the client form.
type generateReportRequest struct {
	Year                  int     `json:"year"`
	Month                 string  `json:"month"`
	Day                   int     `json:"day"`
	District              string  `json:"district"`
	ObservedPrecipitation percent `json:"observedPrecipitation"`
}

// percent accepts a JSON number or a numeric string; null and the empty
// string mean "not supplied".
type percent struct {
	value float64
	set   bool
}

func (p *percent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("observedPrecipitation: %w", err)
		}
		p.value, p.set = v, true
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("observedPrecipitation: expected number or numeric string")
	}
	p.value, p.set = v, true
	return nil
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var body generateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.metrics.ReportFailures.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	req := report.Request{
		Year:     body.Year,
		Month:    body.Month,
		Day:      body.Day,
		District: body.District,
	}
	if body.ObservedPrecipitation.set {
		v := body.ObservedPrecipitation.value
		req.ObservedPrecipitation = &v
	}

	doc, err := s.composer.Compose(r.Context(), req)
	if err != nil {
		s.writeComposeError(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Last-Modified", doc.GeneratedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc.HTML)
}

// writeComposeError maps the error taxonomy onto status codes: malformed
// requests are the caller's fault, store trouble is retry-later, anything
// else is a bug.
func (s *Server) writeComposeError(w http.ResponseWriter, req report.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidMonthName),
		errors.Is(err, report.ErrInvalidRequest):
		s.metrics.ReportFailures.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.metrics.ReportFailures.WithLabelValues("store").Inc()
		s.logger.Error("record store failure", "district", req.District, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "record store unavailable"})
	default:
		s.metrics.ReportFailures.WithLabelValues("internal").Inc()
		s.logger.Error("report generation failed", "district", req.District, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "error generating report"})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort JSON response
}
