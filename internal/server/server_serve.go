package server

import (
	"github.com/mark3labs/mcp-go/server"
)

// Serve runs the server over stdio until the transport closes.
func (ms *MCPServer) Serve() error {
	return server.ServeStdio(ms.server)
}

// ServeHTTP runs the server over SSE on addr, rooted at /mcp.
func (ms *MCPServer) ServeHTTP(addr string) error {
	sseServer := server.NewSSEServer(ms.server,
		server.WithBaseURL("http://"+addr),
		server.WithStaticBasePath("/mcp"),
	)
	return sseServer.Start(addr)
}
