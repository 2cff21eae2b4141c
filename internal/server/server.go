package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server wires the version store and chat proxy behind one HTTP surface.
type Server struct {
	cfg      Config
	store    *VersionStore
	chat     *ChatProxy
	logger   *zap.Logger
	listener *http.Server
}

// New builds a Server from config. The caller owns the version store's
// lifetime via Close.
func New(cfg Config, logger *zap.Logger) (*Server, error) {
	store, err := OpenVersionStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		chat:   NewChatProxy(cfg, logger),
		logger: logger,
	}
	s.listener = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		// Generous write timeout: chat responses stream.
		WriteTimeout: 5 * time.Minute,
	}
	return s, nil
}

// Close releases the version store.
func (s *Server) Close() error {
	return s.store.Close()
}

// Routes returns the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/api/check-update", s.handleCheckUpdate)
	r.Post("/api/chat", s.chat.HandleChat)

	r.Route("/api/versions", func(r chi.Router) {
		r.Get("/", s.handleListVersions)
		r.Post("/", s.handleCreateVersion)
		r.Get("/{id}", s.handleGetVersion)
		r.Put("/{id}", s.handleUpdateVersion)
		r.Delete("/{id}", s.handleDeleteVersion)
	})

	return r
}

// Run serves until the context is canceled or an interrupt arrives, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := s.listener.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.listener.Shutdown(shutdownCtx)
}

// requestLogger logs each request with method, path, status, and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
