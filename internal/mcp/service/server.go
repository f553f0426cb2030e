// Package service hosts the alchemy MCP server.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/alchemists/internal/alchemy/notebook"
	"github.com/louisbranch/alchemists/internal/mcp/domain"
)

const (
	// defaultServerName identifies this MCP server to clients.
	defaultServerName = "Alchemists Notebook MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server exposes one notebook over MCP.
type Server struct {
	mcpServer *mcp.Server
	notebook  *notebook.Notebook
}

// New registers every alchemy tool against nb. An empty name uses the
// default server name.
func New(name string, nb *notebook.Notebook) *Server {
	if name == "" {
		name = defaultServerName
	}
	if nb == nil {
		nb = notebook.New()
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: name, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, domain.MixTool(), domain.MixHandler(nb))
	mcp.AddTool(mcpServer, domain.SpyTool(), domain.SpyHandler(nb))
	mcp.AddTool(mcpServer, domain.LookupTool(), domain.LookupHandler(nb))
	mcp.AddTool(mcpServer, domain.DeviceTestTool(), domain.DeviceTestHandler(nb))
	mcp.AddTool(mcpServer, domain.DeleteEventTool(), domain.DeleteEventHandler(nb))
	mcp.AddTool(mcpServer, domain.StateTool(), domain.StateHandler(nb))
	mcp.AddTool(mcpServer, domain.HistoryTool(), domain.HistoryHandler(nb))

	return &Server{mcpServer: mcpServer, notebook: nb}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
