// Package mcpserver exposes the symbol scans as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/phobologic/matsym/internal/index"
	"github.com/phobologic/matsym/internal/scan"
)

// Server manages the MCP server lifecycle.
type Server struct {
	analyzer *scan.Analyzer
	indexOpt index.Options
	mcp      *server.MCPServer
	logger   *log.Logger
}

// New creates a server whose tools run on analyzer. indexOpts seeds the
// matsym_index tool; its Dialect defaults to the analyzer's.
func New(analyzer *scan.Analyzer, indexOpts index.Options, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if indexOpts.Dialect == nil {
		indexOpts.Dialect = analyzer.Dialect()
	}

	s := &Server{
		analyzer: analyzer,
		indexOpt: indexOpts,
		logger:   logger,
		mcp: server.NewMCPServer(
			"matsym",
			version,
			server.WithToolCapabilities(true),
		),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve runs the server on stdio until the client disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
