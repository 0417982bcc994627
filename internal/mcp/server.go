package mcp

import (
	"context"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/huberman-health-mcp/internal/assistant"
)

const (
	// ServerName is the MCP server name
	ServerName = "huberman-health-assistant"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	assistant *assistant.Assistant
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance over a bootstrapped assistant.
func NewServer(a *assistant.Assistant, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s := &Server{
		mcp:       mcpServer,
		assistant: a,
		logger:    logger.With("component", "mcp"),
	}

	s.registerTools()
	s.registerResources()

	return s
}

// Serve runs the protocol over the given streams until ctx is cancelled or
// stdin closes. Protocol errors are logged through the server's logger.
func (s *Server) Serve(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	h := s.assistant.Health()
	s.logger.Info("mcp server ready",
		"videos", h.VideosLoaded,
		"semantic", h.SemanticIndexReady)

	return stdio.Listen(ctx, stdin, stdout)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchHealthContentTool(), s.handleSearchHealthContent)
	s.mcp.AddTool(getVideoTranscriptTool(), s.handleGetVideoTranscript)
	s.mcp.AddTool(getHealthTopicsTool(), s.handleGetHealthTopics)
}

// registerResources registers the read-only corpus resources
func (s *Server) registerResources() {
	s.mcp.AddResource(videosResource(), s.handleReadVideos)
	s.mcp.AddResource(transcriptsResource(), s.handleReadTranscripts)
	s.mcp.AddResource(healthTopicsResource(), s.handleReadHealthTopics)
}
