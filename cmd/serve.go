package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/veranek/workspace-mcp/internal/cache"
	"github.com/veranek/workspace-mcp/internal/config"
	"github.com/veranek/workspace-mcp/internal/dispatch"
	"github.com/veranek/workspace-mcp/internal/instrumentation"
	"github.com/veranek/workspace-mcp/internal/logging"
	"github.com/veranek/workspace-mcp/internal/ratelimit"
	"github.com/veranek/workspace-mcp/internal/server"
	"github.com/veranek/workspace-mcp/internal/tools/docs_tools"
	"github.com/veranek/workspace-mcp/internal/tools/drive_tools"
	"github.com/veranek/workspace-mcp/internal/tools/forms_tools"
	"github.com/veranek/workspace-mcp/internal/tools/gmail_tools"
	"github.com/veranek/workspace-mcp/internal/tools/sheets_tools"
	"github.com/veranek/workspace-mcp/internal/tools/slides_tools"
)

const serverName = "workspace-mcp"

func newServeCmd() *cobra.Command {
	var (
		debugMode   bool
		yolo        bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the Model Context Protocol (MCP) server exposing Google Workspace
tools for AI assistants over standard input/output.

Safety Mode:
  By default, the server operates in read-only mode: only search, read and
  list tools are registered. Use --yolo to enable write operations (file
  creation and deletion, email sending, etc.)

Configuration:
  Runtime tunables (rate limits, cache TTL, timeouts) are read from
  WORKSPACE_MCP_* environment variables. Google OAuth credentials come
  from GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(debugMode, yolo, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (file deletion, email sending, etc.). Default is read-only mode.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g., ':9090'). Can also use WORKSPACE_MCP_METRICS_ADDR env var.")

	return cmd
}

func runServe(debugMode, yolo bool, metricsAddr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if metricsAddr == "" {
		metricsAddr = cfg.MetricsAddr
	}

	// Stdout carries the MCP transport, so all logging goes to stderr.
	logger := logging.New(os.Stderr, debugMode)

	provider, err := instrumentation.NewProvider(ctx, serverName, version, metricsAddr != "")
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	stopMetrics := server.StartMetricsServer(metricsAddr, provider.Handler(), logger)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := stopMetrics(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", logging.Err(err))
		}
	}()

	sc := server.NewContext(ctx, nil)
	defer sc.Shutdown()

	var regs []dispatch.Registration
	regs = append(regs, drive_tools.Tools(sc)...)
	regs = append(regs, docs_tools.Tools(sc)...)
	regs = append(regs, sheets_tools.Tools(sc)...)
	regs = append(regs, slides_tools.Tools(sc)...)
	regs = append(regs, forms_tools.Tools(sc)...)
	regs = append(regs, gmail_tools.Tools(sc)...)

	registry, err := dispatch.NewRegistry(regs...)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	responseCache := cache.New(cfg.CacheTTL, cfg.CacheMaxEntries)
	if err := provider.Metrics().ObserveCacheStats(responseCache.Stats); err != nil {
		return fmt.Errorf("failed to register cache metrics: %w", err)
	}

	dispatcher := dispatch.New(registry, dispatch.Options{
		Cache:          responseCache,
		Gate:           ratelimit.New(cfg.RateMaxCalls, cfg.RateWindow, cfg.RateBurst, cfg.RateMaxWait),
		Logger:         logger,
		Recorder:       provider.Metrics(),
		CharacterLimit: cfg.CharacterLimit,
		CallTimeout:    cfg.CallTimeout,
		RetryAttempts:  cfg.RetryAttempts,
		ReadOnly:       !yolo,
	})

	s := server.BuildMCPServer(serverName, version, registry, dispatcher)

	logger.Info("starting MCP server",
		"version", version,
		"tools", len(registry.Names()),
		"read_only", !yolo)

	if err := server.ServeStdio(ctx, s); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
