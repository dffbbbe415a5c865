package kernel_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AltairaLabs/kernel-mcp/internal/kernel"
)

func writeConnFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kernel.json")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing connection file: %v", err)
	}
	return path
}

const validConnJSON = `{
  "ip": "127.0.0.1",
  "transport": "tcp",
  "shell_port": 5001,
  "iopub_port": 5002,
  "stdin_port": 5003,
  "control_port": 5004,
  "hb_port": 5005,
  "key": "0123456789abcdef0123456789abcdef",
  "signature_scheme": "hmac-sha256"
}`

func TestLoadConnectionInfo(t *testing.T) {
	path := writeConnFile(t, validConnJSON)

	info, err := kernel.LoadConnectionInfo(path)
	if err != nil {
		t.Fatalf("LoadConnectionInfo returned error: %v", err)
	}
	if info.Endpoint() != "127.0.0.1:5001" {
		t.Errorf("Expected endpoint 127.0.0.1:5001, got %s", info.Endpoint())
	}
	if got := info.ChannelAddr(info.IOPubPort); got != "tcp://127.0.0.1:5002" {
		t.Errorf("Expected iopub addr tcp://127.0.0.1:5002, got %s", got)
	}
}

func TestLoadConnectionInfoNotFound(t *testing.T) {
	_, err := kernel.LoadConnectionInfo(filepath.Join(t.TempDir(), "missing.json"))

	var notFound *kernel.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
	if !strings.HasSuffix(notFound.Path, "missing.json") {
		t.Errorf("Expected path in error, got %s", notFound.Path)
	}
}

func TestLoadConnectionInfoMalformed(t *testing.T) {
	cases := map[string]string{
		"invalid json": `{not json`,
		"missing key":  `{"ip": "127.0.0.1", "transport": "tcp", "shell_port": 1, "iopub_port": 2, "stdin_port": 3, "control_port": 4, "hb_port": 5, "signature_scheme": "hmac-sha256"}`,
		"missing port": `{"ip": "127.0.0.1", "transport": "tcp", "shell_port": 1, "iopub_port": 2, "stdin_port": 3, "control_port": 4, "key": "k", "signature_scheme": "hmac-sha256"}`,
		"missing ip":   `{"transport": "tcp", "shell_port": 1, "iopub_port": 2, "stdin_port": 3, "control_port": 4, "hb_port": 5, "key": "k", "signature_scheme": "hmac-sha256"}`,
	}

	for name, contents := range cases {
		path := writeConnFile(t, contents)
		_, err := kernel.LoadConnectionInfo(path)

		var malformed *kernel.MalformedError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: expected MalformedError, got %v", name, err)
		}
	}
}

func TestRedactedKey(t *testing.T) {
	info := &kernel.ConnectionInfo{Key: "0123456789abcdef"}
	if got := info.RedactedKey(); got != "01234567..." {
		t.Errorf("Expected 01234567..., got %s", got)
	}

	info = &kernel.ConnectionInfo{Key: "short"}
	if got := info.RedactedKey(); got != "short..." {
		t.Errorf("Expected short..., got %s", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir: %v", err)
	}

	got, err := kernel.ExpandPath("~/kernel.json")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "kernel.json") {
		t.Errorf("Expected home-relative expansion, got %s", got)
	}

	abs, err := kernel.ExpandPath("/tmp/kernel.json")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if abs != "/tmp/kernel.json" {
		t.Errorf("Expected absolute path unchanged, got %s", abs)
	}
}
