// Package mcp exposes the catalog toolset over the Model Context Protocol
// using the official Go SDK. Input schemas are inferred from the toolset's
// input structs; handlers convert the toolset's Result envelope into MCP
// call results inline.
package mcp

import (
	"context"
	"fmt"

	"github.com/geoatlas/cmr-mcp/internal/log"
	"github.com/geoatlas/cmr-mcp/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server and the catalog toolset.
type Server struct {
	mcpServer *mcp.Server
	catalog   *tools.CatalogToolset
	logger    log.Logger
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Logger  log.Logger
	Catalog tools.Catalog

	// Optional overrides; zero values mean the toolset defaults.
	CollectionLimit int
	GranuleLimit    int
	DownloadDir     string
}

// NewServer creates a new MCP server with the three catalog tools
// registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	toolset, err := tools.NewCatalogToolset(cfg.Catalog, cfg.Logger,
		tools.WithCollectionLimit(cfg.CollectionLimit),
		tools.WithGranuleLimit(cfg.GranuleLimit),
		tools.WithDownloadDir(cfg.DownloadDir),
	)
	if err != nil {
		return nil, fmt.Errorf("creating catalog toolset: %w", err)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		catalog:   toolset,
		logger:    cfg.Logger,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerCatalogTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport. This is a blocking call
// that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}
