package kernel

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// ConnectionEnvVar overrides the default connection file path when no
// explicit path is given.
const ConnectionEnvVar = "KERNEL_MCP_CONNECTION"

//go:embed default_connection.json
var defaultConnectionJSON []byte

// ResolveConnectionFile resolves a connection file path with fixed
// precedence: explicit argument, then the KERNEL_MCP_CONNECTION
// environment variable, then the bundled default file. Existence of the
// returned path is checked by the caller, not here.
func ResolveConnectionFile(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(ConnectionEnvVar); env != "" {
		return env, nil
	}
	return DefaultConnectionFile()
}

// DefaultConnectionFile materializes the bundled default connection file
// under the user config dir on first use and returns its path. An
// existing file is left untouched so users can edit it.
func DefaultConnectionFile() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate user config dir: %w", err)
	}
	dir := filepath.Join(cfgDir, "kernel-mcp")
	path := filepath.Join(dir, "default_connection.json")

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, defaultConnectionJSON, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
