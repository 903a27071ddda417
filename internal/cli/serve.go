package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/sirsim"
	"github.com/aretw0/sirsim/internal/config"
	"github.com/aretw0/sirsim/internal/logging"
	httpAdapter "github.com/aretw0/sirsim/pkg/adapters/http"
	"github.com/aretw0/sirsim/pkg/adapters/mcp"
	"github.com/aretw0/sirsim/pkg/observability"
	"github.com/aretw0/sirsim/pkg/persistence/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP API.
type ServeOptions struct {
	Config config.Config
	Debug  bool
}

// NewAPIHandler wires the simulator, its store, metrics and the event stream
// into the HTTP handler.
func NewAPIHandler(cfg config.Config, logger *slog.Logger) (http.Handler, func() error, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	base, closeStore, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, closeStore, err
	}
	store := middleware.Chain(base, middleware.NewLoggingMiddleware(logger))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, closeStore, err
	}

	streams := httpAdapter.NewStreamManager(logger)
	hooks := metrics.Hooks().Merge(streams.Hooks())

	simOpts := []sirsim.Option{
		sirsim.WithLogger(logger),
		sirsim.WithStore(store),
		sirsim.WithLifecycleHooks(hooks),
	}
	if seed := cfg.Simulation.Seed; seed != 0 {
		simOpts = append(simOpts, sirsim.WithSeed(seed))
	}

	handler := httpAdapter.NewHandler(sirsim.New(simOpts...),
		httpAdapter.WithStore(store),
		httpAdapter.WithStreams(streams),
		httpAdapter.WithGatherer(reg),
		httpAdapter.WithLogger(logger),
	)
	return handler, closeStore, nil
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger := createLogger(opts.Config.Logging.Level, opts.Debug)

	handler, closeStore, err := NewAPIHandler(opts.Config, logger)
	defer closeStore()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + opts.Config.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting sirsim server", "address", srv.Addr, "store", opts.Config.Store.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("sirsim server stopped gracefully")
		return nil
	}
}

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Config    config.Config
	Transport string
	Port      int
	Debug     bool
}

// ServeMCP exposes the simulator over the Model Context Protocol.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	// Logs go to Stderr so they never corrupt JSON-RPC on Stdout.
	logger := createLogger(opts.Config.Logging.Level, opts.Debug)

	store, closeStore, err := OpenStore(opts.Config.Store)
	defer closeStore()
	if err != nil {
		return err
	}

	simOpts := []sirsim.Option{sirsim.WithLogger(logger), sirsim.WithStore(store)}
	if seed := opts.Config.Simulation.Seed; seed != 0 {
		simOpts = append(simOpts, sirsim.WithSeed(seed))
	}
	// Tools only read saved runs; the simulator is the sole writer.
	srv := mcp.NewServer(sirsim.New(simOpts...),
		mcp.WithStore(middleware.Chain(store, middleware.ReadOnly())),
		mcp.WithLogger(logger),
	)

	switch opts.Transport {
	case "", "stdio":
		logger.Info("Starting sirsim MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("Starting sirsim MCP Server (SSE)", "port", opts.Port)
		err := srv.ServeSSE(ctx, opts.Port)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", opts.Transport)
	}
}
