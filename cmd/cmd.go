// Package cmd provides CLI commands for the CMR MCP server.
//
// Commands:
//   - mcp: Model Context Protocol server on stdio (default)
//   - version: Show version information
//
// Signal handling and graceful shutdown are implemented via context
// cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the main entry point for the cmr-mcp CLI application.
func Execute() error {
	// Initialize logger once at entry point. MCP uses stdout for protocol
	// traffic, so all logging goes to stderr.
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		return runMCP()
	}

	switch os.Args[1] {
	case "mcp":
		return runMCP()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("cmr-mcp - MCP server for NASA's Common Metadata Repository")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cmr-mcp            Start MCP server on stdio (same as 'cmr-mcp mcp')")
	fmt.Println("  cmr-mcp mcp        Start MCP server on stdio")
	fmt.Println("  cmr-mcp --version  Show version information")
	fmt.Println("  cmr-mcp --help     Show this help")
	fmt.Println()
	fmt.Println("Tools exposed over MCP:")
	fmt.Println("  search_collections Search CMR collections (datasets)")
	fmt.Println("  search_granules    Search CMR granules")
	fmt.Println("  download           Download granule files to a local directory")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  EARTHDATA_TOKEN     Optional: pre-issued Earthdata Login token")
	fmt.Println("  EARTHDATA_USERNAME  Optional: Earthdata Login username")
	fmt.Println("  EARTHDATA_PASSWORD  Optional: Earthdata Login password")
	fmt.Println("  DEBUG               Optional: Enable debug logging")
}
