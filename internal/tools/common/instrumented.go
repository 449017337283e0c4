package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/contactstore/internal/logging"
	"github.com/teemow/contactstore/internal/server"
)

// InstrumentedToolHandler wraps a tool handler with metrics and audit
// logging. A handler returning a tool-level error result counts as an
// error even though the transport-level error is nil.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := logging.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = logging.StatusError
		}

		if metrics := sc.Metrics(); metrics != nil {
			metrics.ObserveToolCall(toolName, status, duration)
		}
		slog.Debug("tool call completed",
			logging.Tool(toolName),
			logging.Status(status),
			slog.Duration("duration", duration))

		return result, err
	}
}
