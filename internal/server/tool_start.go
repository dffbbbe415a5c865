package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/kernel-mcp/internal/kernel"
	"github.com/AltairaLabs/kernel-mcp/internal/server/config"
)

// launchKernel spawns the kernel process; swappable in tests.
var launchKernel = kernel.Launch

// handleStartKernel implements the start_kernel tool
func (ms *MCPServer) handleStartKernel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connectionFile := request.GetString("connection_file", "")
	dryRun := request.GetBool("dry_run", false)
	ms.auditLogger.LogToolCall(toolStartKernel, map[string]any{
		"connection_file": connectionFile,
		"dry_run":         dryRun,
	})

	resolved, err := kernel.ResolveConnectionFile(connectionFile)
	if err != nil {
		return ms.report(toolStartKernel, fmt.Sprintf(config.MsgStartFailed, err)), nil
	}

	if dryRun {
		// Render the exact command line without executing it and
		// without touching session state.
		desc, err := kernel.DryRunCommand(resolved)
		if err != nil {
			return ms.report(toolStartKernel, startErrorReport(err)), nil
		}
		return ms.report(toolStartKernel, desc), nil
	}

	proc, err := launchKernel(resolved, config.DefaultLaunchGrace)
	if err != nil {
		var addrInUse *kernel.AddrInUseError
		if errors.As(err, &addrInUse) {
			// Soft failure: a kernel is already bound to these ports.
			// Connect to it instead of reporting a launch failure.
			connectResult := ms.connectTo(resolved)
			return ms.report(toolStartKernel, fmt.Sprintf(config.MsgKernelAlreadyRunning, connectResult)), nil
		}
		return ms.report(toolStartKernel, startErrorReport(err)), nil
	}

	ms.session.TrackProcess(proc)
	connectResult := ms.connectTo(resolved)
	return ms.report(toolStartKernel, fmt.Sprintf(config.MsgKernelStarted, proc.Pid(), resolved, connectResult)), nil
}

// startErrorReport maps launch errors to their status strings.
func startErrorReport(err error) string {
	var notFound *kernel.NotFoundError
	var failure *kernel.LaunchFailure
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf(config.MsgConnFileNotFound, notFound.Path)
	case errors.As(err, &failure):
		return fmt.Sprintf(config.MsgKernelFailedToStart, failure.Details())
	default:
		return fmt.Sprintf(config.MsgStartFailed, err)
	}
}
