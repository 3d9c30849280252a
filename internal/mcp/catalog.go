package mcp

import (
	"context"
	"fmt"

	"github.com/geoatlas/cmr-mcp/internal/tools"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerCatalogTools registers the catalog tools to the MCP server.
// Tools: search_collections, search_granules, download
func (s *Server) registerCatalogTools() error {
	// search_collections
	collectionsSchema, err := jsonschema.For[tools.SearchCollectionsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for search_collections: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "search_collections",
		Description: "Search NASA CMR for collections (datasets) by keyword, organization (DAAC), " +
			"and date range. Returns concept id, description, and short name per collection.",
		InputSchema: collectionsSchema,
	}, s.SearchCollections)

	// search_granules
	granulesSchema, err := jsonschema.For[tools.SearchGranulesInput](nil)
	if err != nil {
		return fmt.Errorf("schema for search_granules: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "search_granules",
		Description: "Search NASA CMR for granules (individual data files) by organization (DAAC), " +
			"collection short name, keyword, and date range. Returns concept id, temporal extent, " +
			"size, and data links per granule.",
		InputSchema: granulesSchema,
	}, s.SearchGranules)

	// download
	downloadSchema, err := jsonschema.For[tools.DownloadInput](nil)
	if err != nil {
		return fmt.Errorf("schema for download: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "download",
		Description: "Download granule files from NASA Earthdata into a local directory. " +
			"Provide either comma-separated concept_ids or search parameters " +
			"(organization, short_name, date range). Requires Earthdata Login credentials.",
		InputSchema: downloadSchema,
	}, s.Download)

	return nil
}

// SearchCollections handles the search_collections MCP tool call.
func (s *Server) SearchCollections(ctx context.Context, req *mcp.CallToolRequest, input tools.SearchCollectionsInput) (*mcp.CallToolResult, any, error) {
	result, err := s.catalog.SearchCollections(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("search_collections failed: %w", err)
	}

	return resultToMCP(result, s.logger), nil, nil
}

// SearchGranules handles the search_granules MCP tool call.
func (s *Server) SearchGranules(ctx context.Context, req *mcp.CallToolRequest, input tools.SearchGranulesInput) (*mcp.CallToolResult, any, error) {
	result, err := s.catalog.SearchGranules(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("search_granules failed: %w", err)
	}

	return resultToMCP(result, s.logger), nil, nil
}

// Download handles the download MCP tool call.
func (s *Server) Download(ctx context.Context, req *mcp.CallToolRequest, input tools.DownloadInput) (*mcp.CallToolResult, any, error) {
	result, err := s.catalog.Download(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	return resultToMCP(result, s.logger), nil, nil
}
