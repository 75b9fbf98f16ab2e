// Package api provides the HTTP API and middleware for phonebill.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/amurg-ai/phonebill/internal/billing"
	"github.com/amurg-ai/phonebill/internal/config"
	"github.com/amurg-ai/phonebill/internal/store"
)

// Server is the HTTP API server.
type Server struct {
	store        store.Store
	calc         *billing.Calculator
	logger       *slog.Logger
	mux          *chi.Mux
	metrics      *metrics
	startTime    time.Time
	maxBodyBytes int64
}

// NewServer creates a new API server on top of an already opened store.
// The server does not own the store; callers close it.
func NewServer(s store.Store, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	srv := &Server{
		store:        s,
		calc:         billing.NewCalculator(s),
		logger:       logger.With("component", "api"),
		metrics:      newMetrics(),
		startTime:    time.Now(),
		maxBodyBytes: cfg.Server.MaxBodyBytes,
	}

	ui, err := uiFS(cfg.Server.UIStaticDir)
	if err != nil {
		return nil, err
	}
	if cfg.Metrics.On() {
		if err := cfg.Metrics.Validate(); err != nil {
			return nil, err
		}
	}

	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.GetHead)
	mux.Use(requestLogMiddleware(srv.logger, srv.metrics))
	mux.Use(securityHeadersMiddleware)
	mux.Use(makeCORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check routes
	mux.Get("/healthz", srv.handleHealthz)
	mux.Get("/readyz", srv.handleReadyz)

	if cfg.Metrics.On() {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, srv.metrics.handler)
	}

	// Price plans
	mux.Get("/api/price_plans", srv.handleListPricePlans)
	mux.Post("/api/price_plan/create", srv.handleCreatePricePlan)
	mux.Post("/api/price_plan/update", srv.handleUpdatePricePlan)
	mux.Post("/api/price_plan/delete", srv.handleDeletePricePlan)

	// Billing
	mux.Post("/api/phonebill", srv.handlePhoneBill)

	// Everything else is the single-page front-end. GetHead routes HEAD as
	// GET, so API paths answer HEAD with their own headers.
	mux.Get("/*", spaHandler(ui).ServeHTTP)

	srv.mux = mux
	return srv, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// --- Health handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startTime).Truncate(time.Second).String(),
	})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}
