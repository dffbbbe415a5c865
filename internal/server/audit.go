package server

import (
	"log/slog"
	"strings"
)

// AuditLogger handles audit logging for MCP tool calls
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger: logger,
	}
}

// LogToolCall logs a tool invocation with its arguments
func (al *AuditLogger) LogToolCall(toolName string, args map[string]any) {
	attrs := []any{"tool_name", toolName}
	for k, v := range args {
		attrs = append(attrs, k, v)
	}
	al.logger.Info("tool_call", attrs...)
}

// LogToolResult logs the status string a tool call produced. The first
// line carries the success/warning/failure marker; the rest is detail.
func (al *AuditLogger) LogToolResult(toolName, status string) {
	firstLine, _, _ := strings.Cut(status, "\n")
	if strings.HasPrefix(firstLine, "❌") {
		al.logger.Error("tool_result", "tool_name", toolName, "status", firstLine)
		return
	}
	al.logger.Info("tool_result", "tool_name", toolName, "status", firstLine)
}
