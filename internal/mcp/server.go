// ABOUTME: MCP server setup for the FitLife store.
// ABOUTME: Wraps the MCP server around the repository facades of one open database.
package mcp

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlife/internal/repository"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with facade access.
type Server struct {
	mcpServer *mcp.Server
	db        *storage.DB
	repos     *repository.Repositories
	logger    *log.Logger
}

// NewServer creates a new MCP server over db and its facades.
func NewServer(db *storage.DB, repos *repository.Repositories, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fitlife",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		db:        db,
		repos:     repos,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving mcp over stdio", "db", s.db.Path())
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
