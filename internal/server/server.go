// Package server exposes the ops HTTP surface: liveness and metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/metrics"
)

// New builds the ops router and wraps it in an http.Server.
func New(port string, reg *prometheus.Registry) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Handle("/metrics", metrics.Handler(reg))

	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, log *zap.Logger) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("ops server shutdown", zap.Error(err))
		}
	}()

	log.Info("ops server starting", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("ops server failed", zap.Error(err))
	}
}
