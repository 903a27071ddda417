package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/sirsim"
	"github.com/aretw0/sirsim/internal/config"
	"github.com/aretw0/sirsim/internal/logging"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/aretw0/sirsim/pkg/ports"
	"github.com/aretw0/sirsim/pkg/report"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const defaultsURI = "sirsim://defaults"

// SimulateResponse is the structured result of the simulate tool.
type SimulateResponse struct {
	RunID     string         `json:"run_id" jsonschema_description:"Identifier of the run"`
	Seed      uint64         `json:"seed" jsonschema_description:"Seed that replays this run"`
	Summary   domain.Summary `json:"summary" jsonschema_description:"Headline figures: days, peak, attack size"`
	Trace     domain.Trace   `json:"trace" jsonschema_description:"Counts of susceptible, infected and recovered per day"`
	Converged bool           `json:"converged" jsonschema_description:"False when max_days stopped the run early"`
	Table     string         `json:"table" jsonschema_description:"Fixed-width table report of the trace"`
}

// Server wraps a Simulator and exposes it as an MCP Server.
type Server struct {
	sim       ports.Simulator
	store     ports.RunStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithStore exposes saved runs through the get_run and list_runs tools.
func WithStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sim ports.Simulator, opts ...Option) *Server {
	s := &Server{
		sim:       sim,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("sirsim-mcp", strings.TrimSpace(sirsim.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP protocol over SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: simulate
	simulateTool := mcp.NewTool("simulate",
		mcp.WithDescription("Run one SIR outbreak on a line of individuals. Individual 0 starts infected; omitted parameters use the defaults."),
		mcp.WithNumber("population_size", mcp.Description("Number of individuals (>= 1)"), mcp.Min(1)),
		mcp.WithNumber("contact_range", mcp.Description("Neighbours reached on each side by an infected individual (>= 0)"), mcp.Min(0)),
		mcp.WithNumber("infect_probability", mcp.Description("Chance one contact infects a susceptible neighbour"), mcp.Min(0), mcp.Max(1)),
		mcp.WithNumber("recover_probability", mcp.Description("Daily chance an infected individual recovers"), mcp.Min(0), mcp.Max(1)),
		mcp.WithNumber("max_days", mcp.Description("Stop after this many days (0 = until nobody is infected)"), mcp.Min(0)),
		mcp.WithOutputSchema[SimulateResponse](),
	)
	s.mcpServer.AddTool(simulateTool, mcp.NewStructuredToolHandler(s.handleSimulate))

	if s.store == nil {
		return
	}

	// TOOL: get_run
	s.mcpServer.AddTool(mcp.NewTool("get_run",
		mcp.WithDescription("Fetch a saved run by ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
	), s.handleGetRun)

	// TOOL: list_runs
	s.mcpServer.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List the summaries of saved runs."),
	), s.handleListRuns)
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SimulateResponse, error) {
	params, err := config.DecodeParams(args)
	if err != nil {
		return SimulateResponse{}, err
	}

	run, err := s.sim.Simulate(ctx, params)
	if err != nil && !errors.Is(err, domain.ErrDidNotConverge) {
		s.logger.Warn("MCP Simulate failed", "error", err)
		return SimulateResponse{}, fmt.Errorf("simulate failed: %w", err)
	}

	var table strings.Builder
	if err := report.WriteTable(&table, run.Trace); err != nil {
		return SimulateResponse{}, err
	}

	return SimulateResponse{
		RunID:     run.ID,
		Seed:      run.Seed,
		Summary:   run.Summarize(),
		Trace:     run.Trace,
		Converged: run.Converged,
		Table:     table.String(),
	}, nil
}

func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := request.GetArguments()["id"].(string)
	run, err := s.store.Load(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(run)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	summaries := make([]domain.Summary, 0, len(ids))
	for _, id := range ids {
		run, err := s.store.Load(ctx, id)
		if err != nil {
			continue
		}
		summaries = append(summaries, run.Summarize())
	}
	jsonBytes, _ := json.Marshal(summaries)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: sirsim://defaults
	s.mcpServer.AddResource(mcp.NewResource(defaultsURI, "Default Simulation Parameters",
		mcp.WithMIMEType("application/json"),
	), s.readDefaults)
}

func (s *Server) readDefaults(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(domain.DefaultParams())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      defaultsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
