// Package server exposes the collector over HTTP together with a small
// landing page.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dtnitsch/realtor-scraper/models"
	"github.com/dtnitsch/realtor-scraper/pkg/collector"
	"github.com/dtnitsch/realtor-scraper/pkg/scrapeerr"
	"github.com/google/uuid"
)

//go:embed static
var staticFiles embed.FS

const maxRequestBytes = 1 << 20

// Collector is satisfied by *collector.Collector.
type Collector interface {
	Collect(ctx context.Context, urls []string) (collector.Result, error)
}

type Server struct {
	collector Collector
	logger    *slog.Logger
	mux       *http.ServeMux
}

func New(c Collector, logger *slog.Logger) *Server {
	s := &Server{
		collector: c,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP tags every request with an ID before routing it. A caller's
// X-Request-ID is kept only when it is a UUID.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	if id, err := uuid.Parse(r.Header.Get("X-Request-ID")); err == nil {
		reqID = id.String()
	}
	w.Header().Set("X-Request-ID", reqID)
	r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, reqID))
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.mux.Handle("/", http.FileServer(http.FS(static)))
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/scrape", s.handleScrape)
}

type requestIDKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	logger := s.logger.With("request_id", requestID(r.Context()))

	var req models.ScrapeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	urls := req.URLList()
	if len(urls) == 0 {
		writeError(w, http.StatusBadRequest, "no URLs provided")
		return
	}

	start := time.Now()
	res, err := s.collector.Collect(r.Context(), urls)
	if err != nil {
		if scrapeerr.IsFailFast(err) {
			logger.Info("Rejected scrape request", "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("Scrape request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error while scraping")
		return
	}

	logger.Info("Scrape request finished",
		"urls", len(urls),
		"companies", res.Count,
		"failed_urls", len(res.Failures),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, http.StatusOK, models.ScrapeResponse{
		Companies: res.Companies,
		Count:     res.Count,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // client gone; nothing left to report to
}
