package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/geoatlas/cmr-mcp/internal/cmr"
	"github.com/geoatlas/cmr-mcp/internal/config"
	"github.com/geoatlas/cmr-mcp/internal/mcp"
	"github.com/geoatlas/cmr-mcp/internal/observability"
	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// runMCP initializes and starts the MCP server on stdio transport.
func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("starting MCP server", "version", Version)

	if cfg.Tracing.Enabled {
		shutdown, err := observability.Setup(ctx, observability.Config{
			Endpoint:    cfg.Tracing.Endpoint,
			Environment: cfg.Tracing.Environment,
			ServiceName: cfg.Tracing.ServiceName,
		})
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer func() {
			if shutdownErr := shutdown(context.Background()); shutdownErr != nil {
				slog.Warn("tracing shutdown error", "error", shutdownErr)
			}
		}()
	}

	client, err := cmr.NewClient(cmr.ClientConfig{
		SearchEndpoint: cfg.CMREndpoint,
		AuthEndpoint:   cfg.URSEndpoint,
		Token:          cfg.EarthdataToken,
		Username:       cfg.EarthdataUser,
		Password:       cfg.EarthdataPassword,
		Timeout:        cfg.RequestTimeout(),
		RatePerSecond:  cfg.RequestsPerSecond,
		Logger:         slog.Default().With("component", "cmr"),
	})
	if err != nil {
		return fmt.Errorf("creating CMR client: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Name:            "cmr-search",
		Version:         Version,
		Logger:          slog.Default().With("component", "mcp"),
		Catalog:         client,
		CollectionLimit: cfg.CollectionPageSize,
		GranuleLimit:    cfg.GranulePageSize,
		DownloadDir:     cfg.DownloadDir,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	slog.Info("MCP server ready", "name", "cmr-search", "version", Version, "transport", "stdio")

	if err := mcpServer.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	slog.Info("MCP server shut down gracefully")
	return nil
}
