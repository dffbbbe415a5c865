// Package server exposes kernel management as MCP tools. Every tool
// returns a human-readable status string prefixed with ✅, ⚠️ or ❌;
// internal failures are converted into those reports at the handler
// boundary and never surface as protocol errors.
package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/AltairaLabs/kernel-mcp/internal/kernel"
)

const (
	// Tool names
	toolStartKernel     = "start_kernel"
	toolConnectToKernel = "connect_to_kernel"
	toolExecuteCode     = "execute_code"
	toolKernelStatus    = "kernel_status"
	toolDisconnect      = "disconnect_kernel"
	toolShutdown        = "shutdown_kernel"
	toolInterrupt       = "interrupt_kernel"
)

// MCPServer wraps the mcp-go server with the kernel session logic
type MCPServer struct {
	server      *server.MCPServer
	session     *kernel.Session
	auditLogger *AuditLogger
}

// Config holds configuration for the MCP server
type Config struct {
	Name    string
	Version string
}

// NewMCPServer creates and configures a new MCP server around one
// kernel session
func NewMCPServer(cfg Config, session *kernel.Session, audit *AuditLogger) *MCPServer {
	mcpServer := server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	ms := &MCPServer{
		server:      mcpServer,
		session:     session,
		auditLogger: audit,
	}

	ms.registerTools()

	return ms
}

// registerTools registers all MCP tools with handlers
func (ms *MCPServer) registerTools() {
	startTool := mcp.NewTool(toolStartKernel,
		mcp.WithDescription("Start a new IPython kernel using a connection file and automatically connect to it"),
		mcp.WithString("connection_file",
			mcp.Description("Path to connection file to use (defaults to KERNEL_MCP_CONNECTION env var or the bundled default)"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Only display the command that would be run without executing it"),
		),
	)
	ms.server.AddTool(startTool, ms.handleStartKernel)

	connectTool := mcp.NewTool(toolConnectToKernel,
		mcp.WithDescription("Connect to an existing IPython kernel using its connection file"),
		mcp.WithString("connection_file",
			mcp.Description("Path to the kernel connection JSON file (defaults to KERNEL_MCP_CONNECTION env var or the bundled default)"),
		),
	)
	ms.server.AddTool(connectTool, ms.handleConnectToKernel)

	executeTool := mcp.NewTool(toolExecuteCode,
		mcp.WithDescription("Execute Python code on the connected IPython kernel"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Python code to execute"),
		),
	)
	ms.server.AddTool(executeTool, ms.handleExecuteCode)

	statusTool := mcp.NewTool(toolKernelStatus,
		mcp.WithDescription("Get the current kernel connection status"),
	)
	ms.server.AddTool(statusTool, ms.handleKernelStatus)

	disconnectTool := mcp.NewTool(toolDisconnect,
		mcp.WithDescription("Disconnect from the current kernel"),
	)
	ms.server.AddTool(disconnectTool, ms.handleDisconnectKernel)

	shutdownTool := mcp.NewTool(toolShutdown,
		mcp.WithDescription("Gracefully shutdown the current kernel"),
	)
	ms.server.AddTool(shutdownTool, ms.handleShutdownKernel)

	interruptTool := mcp.NewTool(toolInterrupt,
		mcp.WithDescription("Send SIGINT (Ctrl+C) to interrupt the current kernel execution"),
	)
	ms.server.AddTool(interruptTool, ms.handleInterruptKernel)
}

// report finalizes one tool call: the status string is audit-logged and
// returned as the tool result text.
func (ms *MCPServer) report(toolName, status string) *mcp.CallToolResult {
	ms.auditLogger.LogToolResult(toolName, status)
	return mcp.NewToolResultText(status)
}
