package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rendis/flowtree/internal/expressions"
	"github.com/rendis/flowtree/internal/loader"
	"github.com/rendis/flowtree/internal/validation"
)

// FlowtreeServerDeps holds the dependencies for creating a FlowtreeServer.
// Nil fields are replaced with defaults.
type FlowtreeServerDeps struct {
	Loader    *loader.Loader
	Validator *validation.GraphValidator
	Logger    *slog.Logger
}

// FlowtreeServer wraps an MCP server with flowtree-specific tool handlers.
type FlowtreeServer struct {
	loader    *loader.Loader
	validator *validation.GraphValidator
	jq        *expressions.GoJQEngine
	results   *ConversionRegistry
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewFlowtreeServer creates a FlowtreeServer with all 3 tools registered.
func NewFlowtreeServer(deps FlowtreeServerDeps) (*FlowtreeServer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	ld := deps.Loader
	if ld == nil {
		var err error
		ld, err = loader.New()
		if err != nil {
			return nil, fmt.Errorf("mcp: create loader: %w", err)
		}
	}

	gv := deps.Validator
	if gv == nil {
		var err error
		gv, err = validation.NewGraphValidator()
		if err != nil {
			return nil, fmt.Errorf("mcp: create validator: %w", err)
		}
	}

	s := &FlowtreeServer{
		loader:    ld,
		validator: gv,
		jq:        expressions.NewGoJQEngine(),
		results:   NewConversionRegistry(),
		logger:    logger,
	}

	mcpSrv := server.NewMCPServer(
		"flowtree",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Flowtree converts graph-structured process models into nested execution trees. Use flowtree.convert to produce a tree plus node metadata, flowtree.validate to lint a process document, and flowtree.query to run jq expressions over a previous conversion."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s, nil
}

// Serve starts the stdio transport and blocks until ctx is cancelled or stdin closes.
func (s *FlowtreeServer) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *FlowtreeServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// tools returns the 3 registered MCP tools as ServerTool entries.
func (s *FlowtreeServer) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: convertTool(), Handler: s.handleConvert},
		{Tool: validateTool(), Handler: s.handleValidate},
		{Tool: queryTool(), Handler: s.handleQuery},
	}
}
