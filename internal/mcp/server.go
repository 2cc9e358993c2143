// Package mcp exposes device inspection as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"device-inspection/internal/config"
	"device-inspection/internal/service"
)

// Server wraps the MCP server instance.
type Server struct {
	mcpServer *server.MCPServer
	handlers  *handlers
}

// NewServer creates a new MCP server with registered tools.
func NewServer(
	version string,
	runner *service.Runner,
	inspection *service.Inspection,
	catalog *config.CommandCatalog,
	logger zerolog.Logger,
) *Server {
	if catalog == nil {
		catalog = config.DefaultCommands()
	}

	s := server.NewMCPServer("device-inspection", version, server.WithLogging())

	h := &handlers{
		runner:     runner,
		inspection: inspection,
		catalog:    catalog,
		logger:     logger.With().Str("component", "mcp").Logger(),
	}
	registerTools(s, h)

	return &Server{
		mcpServer: s,
		handlers:  h,
	}
}

// Start runs the server in stdio mode (blocking).
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools adds all supported tools to the server.
func registerTools(s *server.MCPServer, h *handlers) {
	inspectText := mcp.NewTool("inspect_text",
		mcp.WithDescription("Inspect one network device capture (display command transcript). Returns the vendor and a status for each of the eight health categories."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Capture text: repeated 'command:/output:' blocks separated by dashed lines"),
		),
		mcp.WithString("vendor",
			mcp.Description("Force a vendor (huawei or h3c). Omit to detect it from the text."),
			mcp.Enum("huawei", "h3c"),
		),
		mcp.WithString("source",
			mcp.Description("Label recorded as the report source"),
			mcp.DefaultString("inline"),
		),
	)
	s.AddTool(inspectText, h.handleInspectText)

	inspectDir := mcp.NewTool("inspect_directory",
		mcp.WithDescription("Inspect every capture file under a directory. Returns the batch summary and one report per recognised device."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory containing capture files"),
		),
		mcp.WithBoolean("problems_only",
			mcp.Description("Only include devices with a non-normal category"),
		),
	)
	s.AddTool(inspectDir, h.handleInspectDirectory)

	listCommands := mcp.NewTool("list_commands",
		mcp.WithDescription("List the display commands a capture should contain for each vendor."),
		mcp.WithString("vendor",
			mcp.Description("Vendor to list (huawei or h3c). Omit for all."),
		),
	)
	s.AddTool(listCommands, h.handleListCommands)
}
