package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/kernel-mcp/internal/kernel"
	"github.com/AltairaLabs/kernel-mcp/internal/server/config"
)

// handleExecuteCode implements the execute_code tool
func (ms *MCPServer) handleExecuteCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ms.auditLogger.LogToolCall(toolExecuteCode, map[string]any{"code_len": len(code)})

	if !ms.session.Connected() {
		return ms.report(toolExecuteCode, config.MsgNotConnectedExecute), nil
	}

	result, err := ms.session.Client().Execute(code, config.DefaultReplyTimeout, config.DefaultIOPubPollTimeout)
	if err != nil {
		var execErr *kernel.ExecutionError
		if errors.As(err, &execErr) {
			return ms.report(toolExecuteCode, fmt.Sprintf(config.MsgExecuteFailed, execErr.Err)), nil
		}
		return ms.report(toolExecuteCode, fmt.Sprintf(config.MsgExecuteFailed, err)), nil
	}

	return ms.report(toolExecuteCode, renderExecution(result)), nil
}

// renderExecution turns a collected execution result into the report
// body. The reply status is authoritative: an error reply discards the
// collected fragments in favor of its own summary. A successful run
// with no output yields the distinguished no-output report rather than
// an empty string.
func renderExecution(result *kernel.ExecutionResult) string {
	if !result.ReplyOK {
		return fmt.Sprintf(config.MsgExecuteError, result.ErrorSummary())
	}
	if len(result.Fragments) == 0 {
		return config.MsgExecuteNoOutput
	}

	parts := make([]string, 0, len(result.Fragments))
	for _, frag := range result.Fragments {
		if frag.Kind == kernel.FragmentError {
			parts = append(parts, "❌ "+frag.Text)
			continue
		}
		parts = append(parts, frag.Text)
	}
	return strings.Join(parts, "\n")
}
