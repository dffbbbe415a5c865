package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/AltairaLabs/kernel-mcp/internal/kernel"
	"github.com/AltairaLabs/kernel-mcp/internal/server"
)

var (
	version  = flag.Bool("version", false, "Print version and exit")
	debug    = flag.Bool("debug", false, "Enable debug logging")
	httpMode = flag.Bool("http", false, "Enable HTTP/SSE transport instead of stdio")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("Kernel MCP Server v0.1.0")
		os.Exit(0)
	}

	// Setup structured logging. Logs go to stderr: stdout carries the
	// MCP stdio transport.
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Read HTTP port from environment (for HTTP/SSE mode)
	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	logger.Info("Starting Kernel MCP Server",
		"version", "0.1.0",
		"debug", *debug,
		"http_mode", *httpMode,
		"connection_env", os.Getenv(kernel.ConnectionEnvVar),
	)

	// One kernel session for the whole server lifetime. Tool calls
	// arrive one at a time over the MCP transport and each runs to
	// completion, so the session needs no locking of its own.
	session := kernel.NewSession()
	auditLogger := server.NewAuditLogger(logger)

	cfg := server.Config{
		Name:    "ipython-kernel",
		Version: "0.1.0",
	}

	mcpServer := server.NewMCPServer(cfg, session, auditLogger)

	logger.Info("MCP Server initialized",
		"name", cfg.Name,
		"version", cfg.Version,
	)

	// The spawned kernel is deliberately left running on exit: it is
	// detached at launch so state survives server restarts.
	var err error
	if *httpMode {
		logger.Info("Starting MCP server with HTTP/SSE transport", "port", httpPort, "base_path", "/mcp")
		err = mcpServer.ServeHTTP(":" + httpPort)
	} else {
		logger.Info("Starting MCP server on stdio")
		err = mcpServer.Serve()
	}
	if err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}
