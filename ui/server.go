// Package ui exposes the analysis service over HTTP as a JSON API.
package ui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"spendlens/app"
	"spendlens/internal/config"
	"spendlens/internal/metrics"
)

// Server wraps the HTTP server with its router and lifecycle.
type Server struct {
	http    *http.Server
	service *app.AnalysisService
	cfg     *config.Config
	log     zerolog.Logger
}

// NewServer builds the router and binds all API routes.
func NewServer(service *app.AnalysisService, cfg *config.Config, log zerolog.Logger) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		log:     log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(requestLogger(log))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/overview", s.handleOverview)
		r.Get("/report", s.handleReport)
		r.Get("/segments/{axis}", s.handleSegments)
		r.Get("/segments/{axis}/clt", s.handleCLT)
		r.Get("/compare/{axis}", s.handleCompare)
		r.Get("/narrative", s.handleNarrative)
	})

	if cfg.Metrics.Enabled {
		metrics.Register()
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.http.Addr).Msg("http server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	s.log.Info().Msg("shutting down http server")
	return s.http.Shutdown(shutdownCtx)
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Msg("request")
			metrics.HTTPRequests.WithLabelValues(r.URL.Path, fmt.Sprintf("%d", status)).Inc()
		})
	}
}
