package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/host"
)

const (
	ServerName    = "winpick"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing window listing and activation.
type Server struct {
	mcpServer *mcpsdk.Server
	host      host.Capability
	log       zerolog.Logger
}

// NewServer creates an MCP server backed by h.
func NewServer(h host.Capability, logger zerolog.Logger) *Server {
	s := &Server{
		host: h,
		log:  logger.With().Str("component", "mcp").Logger(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the open top-level windows on the desktop. Each entry has the window handle (hwnd), the owning application name, the title and the '<application> - <title>' label shown by the picker.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Bring a window to the foreground. Pass hwnd from list_windows, or match to pick the single window whose label contains the text. Returns activated=false when the window no longer exists or refused focus.",
	}, s.handleActivateWindow)
}
