package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/veranek/workspace-mcp/internal/logging"
)

// StartMetricsServer serves the Prometheus scrape endpoint on addr under
// /metrics. It returns a shutdown function. A nil handler disables the
// server and yields a no-op shutdown.
func StartMetricsServer(addr string, handler http.Handler, logger *slog.Logger) func(context.Context) error {
	if handler == nil || addr == "" {
		return func(context.Context) error { return nil }
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logging.Err(err))
		}
	}()

	return srv.Shutdown
}
