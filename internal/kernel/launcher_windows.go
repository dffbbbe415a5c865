//go:build windows

package kernel

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// interruptSupported gates the interrupt operation; Windows has no
// SIGINT delivery to a detached console process, so users interrupt via
// Ctrl+C in the kernel's own window.
const interruptSupported = false

// createNewConsole asks CreateProcess for a fresh visible console. The
// kernel must stay visible so the user can Ctrl+C it directly, since
// interrupt_kernel is unavailable here.
const createNewConsole = 0x00000010

// newKernelCommand writes a one-shot batch file into a temp dir and
// launches it in a new console window. No output capture is possible in
// that mode, so immediate-exit diagnosis degrades to the exit code.
func newKernelCommand(connPath string) (*exec.Cmd, *bytes.Buffer, *bytes.Buffer, error) {
	tempDir, err := os.MkdirTemp("", "kernel-mcp-")
	if err != nil {
		return nil, nil, nil, err
	}
	batchFile := filepath.Join(tempDir, "start_kernel.bat")
	if err := os.WriteFile(batchFile, []byte(batchContent(connPath)), 0o700); err != nil {
		return nil, nil, nil, err
	}

	cmd := exec.Command(batchFile)
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNewConsole}
	return cmd, nil, nil, nil
}

func batchContent(connPath string) string {
	return fmt.Sprintf("@echo Starting kernel-mcp kernel...\r\n"+
		`python -m IPython kernel --ConnectionFileMixin.connection_file="%s" --InteractiveShellApp.extensions="['autoreload']" --InteractiveShellApp.exec_lines="['%%autoreload 2']"`,
		connPath)
}

func dryRunDescription(connPath string) string {
	return "Would run Windows batch file with content:\n" + batchContent(connPath)
}

// signalInterrupt is unreachable behind the interruptSupported gate but
// must exist for the platform-neutral lifecycle code.
func signalInterrupt(p *Process) error {
	return ErrInterruptUnsupported
}

// signalTerminate uses Kill; Windows has no graceful SIGTERM, matching
// the terminate-then-kill escalation semantics as a single step.
func signalTerminate(p *Process) error {
	return p.Kill()
}

const forcefulShutdownLabel = "Windows terminate/kill"
