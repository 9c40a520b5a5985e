// Package http exposes the JSON REST surface: CRUD for users and
// transactions, the per-user analytics read, and a health probe.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sika/internal/store"
	"sika/internal/tasks"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	store      store.Store
	dispatcher tasks.Dispatcher
	limiter    *limiter

	stopHousekeeping context.CancelFunc
}

// Options tunes the server beyond its collaborators.
type Options struct {
	Addr              string
	RequestsPerMinute int
}

func NewServer(opts Options, st store.Store, dispatcher tasks.Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:     logger,
		store:      st,
		dispatcher: dispatcher,
		limiter:    newLimiter(opts.RequestsPerMinute),
	}

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           loggingMiddleware(logger, rateLimitMiddleware(s.limiter, s.routes())),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("PUT /api/users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /api/users/{id}", s.handleDeleteUser)
	mux.HandleFunc("GET /api/users/{id}/transactions", s.handleListUserTransactions)
	mux.HandleFunc("GET /api/users/{id}/analytics", s.handleUserAnalytics)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/api" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "sika",
		"message": "financial record-keeping API",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("health probe failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Handler exposes the routed handler without the outer middleware, for
// tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Start begins listening for HTTP traffic.
func (s *Server) Start() error {
	hkCtx, cancel := context.WithCancel(context.Background())
	s.stopHousekeeping = cancel
	go s.housekeeping(hkCtx)

	s.logger.Info("starting http server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully terminates all active connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.stopHousekeeping != nil {
		s.stopHousekeeping()
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) housekeeping(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.limiter.cleanup()
		}
	}
}
