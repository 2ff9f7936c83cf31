package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/logger"
	"github.com/mark3labs/inkbook/internal/mcpserver"
	"github.com/mark3labs/inkbook/internal/orchestrator"
	"github.com/mark3labs/inkbook/internal/wizard"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	mcpAddr     string
	metricsAddr string
	catalog     string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the booking wizard to agents over MCP",
	Long: `Start a long-lived booking wizard and serve it over MCP (streamable HTTP).

Agents drive the same engine the terminal wizard uses: read the state, pick
catalog options, fill in details, move between steps and submit. Prometheus
metrics are served on /metrics and every submitted booking is logged.
Stops on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.mcpAddr, "mcp-addr", "", "MCP listen address (default: mcp_addr from config)")
	serveCmd.Flags().StringVar(&serveFlags.metricsAddr, "metrics-addr", "", "Metrics listen address, 'off' to disable (default: metrics_addr from config)")
	serveCmd.Flags().StringVarP(&serveFlags.catalog, "catalog", "c", "", "Studio catalog file (default: catalog_path from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	// CLI flags override config
	if serveFlags.mcpAddr != "" {
		cfg.MCPAddr = serveFlags.mcpAddr
	}
	if serveFlags.metricsAddr != "" {
		cfg.MetricsAddr = serveFlags.metricsAddr
	}
	if serveFlags.catalog != "" {
		cfg.CatalogPath = serveFlags.catalog
	}

	// Deferred steps run at the end of each tool call instead of on timers.
	sched := &wizard.ManualScheduler{}
	orch, err := orchestrator.New(orchestrator.Config{Settings: cfg, Scheduler: sched})
	if err != nil {
		return err
	}
	if err := orch.Start(); err != nil {
		return err
	}
	defer func() {
		orch.Engine().Close()
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(orch.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watch, err := orch.Store().WatchSubmissions(ctx, "serve-"+orch.Session(), func(s booking.Summary) {
		logger.Info("Booking %s submitted for %s on %s at %s", s.Reference, s.Name, s.Date, s.Time)
		fmt.Fprintf(cmd.OutOrStdout(), "Booking %s received from %s <%s>\n", s.Reference, s.Name, s.Email)
	})
	if err != nil {
		return err
	}
	defer watch.Stop()

	mcp := mcpserver.New(orch.Engine(),
		mcpserver.WithAddr(cfg.MCPAddr),
		mcpserver.WithSettle(func() {
			for sched.RunPending() > 0 {
			}
		}),
	)
	if _, err := mcp.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = mcp.Stop() }()

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" && cfg.MetricsAddr != "off" {
		metricsSrv, err = startMetrics(ctx, cfg.MetricsAddr, orch.Metrics().Handler())
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s booking wizard\n", orch.Studio())
	fmt.Fprintf(cmd.OutOrStdout(), "MCP endpoint: %s\n", mcp.URL())
	if metricsSrv != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Metrics: http://%s/metrics\n", metricsSrv.Addr)
	}

	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down gracefully...")
	return nil
}

// startMetrics serves handler on addr/metrics until the server is shut down.
func startMetrics(ctx context.Context, addr string, handler http.Handler) (*http.Server, error) {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{
		Addr:              listener.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error: %v", err)
		}
	}()
	logger.Info("Metrics server ready on %s", srv.Addr)
	return srv, nil
}
