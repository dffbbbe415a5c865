//go:build !windows

package kernel

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// interruptSupported gates the interrupt operation; Unix kernels accept
// SIGINT.
const interruptSupported = true

// newKernelCommand builds the detached kernel command. The kernel runs
// in its own session (setsid) so it is not killed when this server's
// terminal goes away, and stdout/stderr are captured for the
// immediate-exit diagnosis.
func newKernelCommand(connPath string) (*exec.Cmd, *bytes.Buffer, *bytes.Buffer, error) {
	args := kernelArgs(connPath)
	cmd := exec.Command(args[0], args[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	return cmd, &stdout, &stderr, nil
}

func dryRunDescription(connPath string) string {
	return "Would run command: " + strings.Join(kernelArgs(connPath), " ")
}

// signalInterrupt delivers SIGINT to the kernel process.
func signalInterrupt(p *Process) error {
	return p.Signal(os.Interrupt)
}

// signalTerminate delivers SIGTERM to the kernel process.
func signalTerminate(p *Process) error {
	return p.Signal(syscall.SIGTERM)
}

// forcefulShutdownLabel names the signal pair used by the escalating
// process shutdown in reports.
const forcefulShutdownLabel = "Unix SIGTERM/SIGKILL"
