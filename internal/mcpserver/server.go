package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/inkbook/internal/logger"
	"github.com/mark3labs/inkbook/internal/wizard"
	"github.com/mark3labs/mcp-go/server"
)

// Server manages an embedded MCP HTTP server that exposes the booking wizard
// as tools, so an assistant can fill in a booking step by step.
type Server struct {
	engine     *wizard.Engine
	addr       string
	settle     func()
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server // Standard HTTP server that uses the listener
	port       int
	mu         sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. The default picks a random local port.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithSettle sets a function run after every mutating tool call. Hosts using a
// wizard.ManualScheduler pass a function that drains it, so deferred steps
// complete before the tool returns.
func WithSettle(settle func()) Option {
	return func(s *Server) { s.settle = settle }
}

// New creates a new MCP server for the engine.
// The server is not started until Start() is called.
func New(engine *wizard.Engine, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		addr:   "127.0.0.1:0",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer(
		"inkbook-tools",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Start starts the MCP HTTP server on the configured address.
// Returns the bound port or an error if startup fails.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	// Open the listener up front to avoid a TOCTOU race on the port
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{
		Handler: mux,
	}
	s.httpServer = mcpHandler

	logger.Debug("Starting MCP server on port %d", s.port)

	// Capture stdServer reference for goroutine to avoid race with Stop()
	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop stops the MCP HTTP server and cleans up resources.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil // Already stopped
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL for the MCP server endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}

func (s *Server) settleEngine() {
	if s.settle != nil {
		s.settle()
	}
}
