package mcp

import (
	"log/slog"

	"github.com/geoatlas/cmr-mcp/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// resultToMCP converts a tools.Result to an mcp.CallToolResult.
//
// The tool surface speaks plain text in both directions: success carries the
// rendered response, and a domain failure carries its complete user-facing
// message with IsError set. Error codes stay server-side in the logs; only
// the message crosses the protocol boundary.
func resultToMCP(result tools.Result, logger *slog.Logger) *mcp.CallToolResult {
	if logger == nil {
		logger = slog.Default()
	}

	if result.Status == tools.StatusError {
		message := "unknown error"
		if result.Error != nil {
			message = result.Error.Message
			logger.Debug("tool returned error", "code", result.Error.Code, "message", message)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: message}},
			IsError: true,
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: result.Text}},
	}
}
