package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/kernel-mcp/internal/kernel"
	"github.com/AltairaLabs/kernel-mcp/internal/server/config"
)

// handleKernelStatus implements the kernel_status tool. A status check
// never fails: endpoint introspection degrades to a bare connected
// report.
func (ms *MCPServer) handleKernelStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms.auditLogger.LogToolCall(toolKernelStatus, nil)

	if !ms.session.Connected() {
		return ms.report(toolKernelStatus, config.MsgNotConnected), nil
	}

	info := ms.session.Client().Info()
	if info == nil {
		return ms.report(toolKernelStatus, config.MsgStatusConnectedBare), nil
	}
	return ms.report(toolKernelStatus, fmt.Sprintf(config.MsgStatusConnected, info.Endpoint())), nil
}

// handleDisconnectKernel implements the disconnect_kernel tool.
// Disconnecting when not connected is a no-op, not an error.
func (ms *MCPServer) handleDisconnectKernel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms.auditLogger.LogToolCall(toolDisconnect, nil)

	ms.session.Disconnect()
	return ms.report(toolDisconnect, config.MsgDisconnected), nil
}

// handleShutdownKernel implements the shutdown_kernel tool
func (ms *MCPServer) handleShutdownKernel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms.auditLogger.LogToolCall(toolShutdown, nil)

	report, err := ms.session.Shutdown(config.DefaultShutdownReplyTimeout, config.DefaultTerminateWait)
	if err != nil {
		if errors.Is(err, kernel.ErrNotConnected) {
			return ms.report(toolShutdown, config.MsgNotConnected), nil
		}
		return ms.report(toolShutdown, fmt.Sprintf(config.MsgShutdownTermFailed, err)), nil
	}

	switch report.Method {
	case kernel.ShutdownViaProtocol:
		return ms.report(toolShutdown, config.MsgShutdownGraceful), nil
	case kernel.ShutdownViaSignal:
		return ms.report(toolShutdown, fmt.Sprintf(config.MsgShutdownForceful, kernel.ForcefulShutdownLabel())), nil
	default:
		if report.TermErr != nil {
			return ms.report(toolShutdown, fmt.Sprintf(config.MsgShutdownTermFailed, report.TermErr)), nil
		}
		return ms.report(toolShutdown, config.MsgShutdownConnsClosed), nil
	}
}

// handleInterruptKernel implements the interrupt_kernel tool
func (ms *MCPServer) handleInterruptKernel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms.auditLogger.LogToolCall(toolInterrupt, nil)

	method, err := ms.session.Interrupt(config.DefaultInterruptReplyTimeout)
	if err != nil {
		switch {
		case errors.Is(err, kernel.ErrNotConnected):
			return ms.report(toolInterrupt, config.MsgNotConnected), nil
		case errors.Is(err, kernel.ErrInterruptUnsupported):
			return ms.report(toolInterrupt, config.MsgInterruptUnsupported), nil
		case errors.Is(err, kernel.ErrNoInterruptMethod):
			return ms.report(toolInterrupt, config.MsgInterruptNoMethod), nil
		default:
			return ms.report(toolInterrupt, fmt.Sprintf(config.MsgInterruptSignalFailed, err)), nil
		}
	}

	if method == kernel.InterruptViaSignal {
		return ms.report(toolInterrupt, fmt.Sprintf(config.MsgInterruptSignal, ms.session.Process().Pid())), nil
	}
	return ms.report(toolInterrupt, config.MsgInterruptProtocol), nil
}
