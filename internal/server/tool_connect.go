package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/kernel-mcp/internal/kernel"
	"github.com/AltairaLabs/kernel-mcp/internal/server/config"
)

// handleConnectToKernel implements the connect_to_kernel tool
func (ms *MCPServer) handleConnectToKernel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connectionFile := request.GetString("connection_file", "")
	ms.auditLogger.LogToolCall(toolConnectToKernel, map[string]any{"connection_file": connectionFile})

	resolved, err := kernel.ResolveConnectionFile(connectionFile)
	if err != nil {
		return ms.report(toolConnectToKernel, fmt.Sprintf(config.MsgConnectFailed, err)), nil
	}

	return ms.report(toolConnectToKernel, ms.connectTo(resolved)), nil
}

// connectTo opens a session to the kernel behind the connection file and
// renders the connect report. It is shared by connect_to_kernel and the
// auto-connect step of start_kernel, so both produce identical text.
func (ms *MCPServer) connectTo(path string) string {
	client, err := ms.session.Connect(path, config.DefaultReadyTimeout)
	if err != nil {
		var notFound *kernel.NotFoundError
		var connErr *kernel.ConnectError
		switch {
		case errors.As(err, &notFound):
			return fmt.Sprintf(config.MsgConnFileNotFound, notFound.Path)
		case errors.As(err, &connErr):
			return fmt.Sprintf(config.MsgConnectReadyFailed, connErr.Err)
		default:
			return fmt.Sprintf(config.MsgConnectFailed, err)
		}
	}

	info := client.Info()
	report := fmt.Sprintf(config.MsgConnected, info.Endpoint(), client.Path(), info.RedactedKey())
	if !kernel.InterruptSupported() {
		report += config.MsgWindowsInterruptNotice
	}
	return report
}
