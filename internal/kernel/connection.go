// Package kernel manages a single connection to an IPython kernel over
// the Jupyter wire protocol (five ZMQ channels) and provides process
// lifecycle control for a kernel it may have spawned.
package kernel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConnectionInfo mirrors the Jupyter kernel connection file. The format
// is owned by the kernel-protocol ecosystem and is read verbatim.
type ConnectionInfo struct {
	IP              string `json:"ip"`
	Transport       string `json:"transport"`
	ShellPort       int    `json:"shell_port"`
	IOPubPort       int    `json:"iopub_port"`
	StdinPort       int    `json:"stdin_port"`
	ControlPort     int    `json:"control_port"`
	HBPort          int    `json:"hb_port"`
	Key             string `json:"key"`
	SignatureScheme string `json:"signature_scheme"`
}

// LoadConnectionInfo reads and validates a connection file. It returns
// *NotFoundError if the file is absent and *MalformedError if it cannot
// be parsed or is missing required keys.
func LoadConnectionInfo(path string) (*ConnectionInfo, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: expanded}
		}
		return nil, err
	}

	var info ConnectionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, &MalformedError{Path: expanded, Reason: err.Error()}
	}
	if err := info.validate(); err != nil {
		return nil, &MalformedError{Path: expanded, Reason: err.Error()}
	}
	return &info, nil
}

func (c *ConnectionInfo) validate() error {
	if c.IP == "" {
		return fmt.Errorf("missing ip")
	}
	if c.Transport == "" {
		return fmt.Errorf("missing transport")
	}
	if c.Key == "" {
		return fmt.Errorf("missing key")
	}
	if c.SignatureScheme == "" {
		return fmt.Errorf("missing signature_scheme")
	}
	ports := map[string]int{
		"shell_port":   c.ShellPort,
		"iopub_port":   c.IOPubPort,
		"stdin_port":   c.StdinPort,
		"control_port": c.ControlPort,
		"hb_port":      c.HBPort,
	}
	for name, p := range ports {
		if p == 0 {
			return fmt.Errorf("missing %s", name)
		}
	}
	return nil
}

// Endpoint returns the "ip:shell_port" identity used in status reports.
func (c *ConnectionInfo) Endpoint() string {
	return fmt.Sprintf("%s:%d", c.IP, c.ShellPort)
}

// ChannelAddr returns the transport address for one channel port, e.g.
// "tcp://127.0.0.1:5555".
func (c *ConnectionInfo) ChannelAddr(port int) string {
	return fmt.Sprintf("%s://%s:%d", c.Transport, c.IP, port)
}

// RedactedKey returns a prefix-only view of the authentication key for
// inclusion in reports.
func (c *ConnectionInfo) RedactedKey() string {
	if len(c.Key) <= 8 {
		return c.Key + "..."
	}
	return c.Key[:8] + "..."
}

// ExpandPath expands a leading "~" and makes the path absolute.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
