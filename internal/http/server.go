// Package http is the thin JSON glue between the analytics engine and its
// callers. Routing and identity handling live here; all computation stays in
// the services package.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/catalintache/hackathon-2025/internal/services"
)

type Server struct {
	http.Server

	summary  *services.SummaryService
	alerts   *services.AlertGenerator
	expenses *services.ExpenseService
	importer *services.Importer

	requestTimeout time.Duration
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, summary *services.SummaryService, alerts *services.AlertGenerator, expenses *services.ExpenseService, importer *services.Importer, requestTimeout time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		summary:        summary,
		alerts:         alerts,
		expenses:       expenses,
		importer:       importer,
		requestTimeout: requestTimeout,
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/dashboard", s.withRequestLog(s.handleDashboard))
	mux.HandleFunc("/expenses", s.withRequestLog(s.handleExpenses))
	mux.HandleFunc("/expenses/", s.withRequestLog(s.handleExpenseByID))
	mux.HandleFunc("/expenses/import", s.withRequestLog(s.handleImport))

	return s
}

// withRequestLog logs request start/completion with timing.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.InfoContext(r.Context(), "Request started",
			"method", r.Method,
			"url", r.URL.Path)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(r.Context(), "Request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// queryInt reads an integer query parameter, falling back on absence or junk.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
