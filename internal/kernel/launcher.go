package kernel

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Process wraps a spawned kernel process. It owns the single Wait on the
// underlying command; all exit-state queries go through the handle so
// the process is reaped exactly once.
type Process struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu      sync.Mutex
	waitErr error
}

func newProcess(cmd *exec.Cmd) *Process {
	p := &Process{cmd: cmd, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.waitErr = err
		p.mu.Unlock()
		close(p.done)
	}()
	return p
}

// Pid returns the OS process id.
func (p *Process) Pid() int { return p.cmd.Process.Pid }

// Exited reports whether the process has terminated.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// WaitTimeout blocks until the process exits or d elapses, reporting
// whether it exited.
func (p *Process) WaitTimeout(d time.Duration) bool {
	select {
	case <-p.done:
		return true
	case <-time.After(d):
		return false
	}
}

// ExitCode returns the exit code after the process has exited, or -1.
func (p *Process) ExitCode() int {
	if !p.Exited() || p.cmd.ProcessState == nil {
		return -1
	}
	return p.cmd.ProcessState.ExitCode()
}

// Signal sends sig to the process.
func (p *Process) Signal(sig os.Signal) error {
	return p.cmd.Process.Signal(sig)
}

// Kill forcefully terminates the process.
func (p *Process) Kill() error {
	return p.cmd.Process.Kill()
}

// Launch spawns a kernel bound to the connection file at path, detached
// from this process's terminal so it survives our exit. After spawn it
// waits one grace period and polls exit status: an immediate exit whose
// stderr carries a binding-layer "address already in use" signature is
// reported as *AddrInUseError (the caller connects to the already
// running kernel instead); any other immediate exit is a *LaunchFailure.
func Launch(path string, grace time.Duration) (*Process, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: expanded}
		}
		return nil, err
	}

	cmd, stdout, stderr, err := newKernelCommand(expanded)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	proc := newProcess(cmd)
	if proc.WaitTimeout(grace) {
		return nil, launchExitError(proc, stdout, stderr)
	}
	return proc, nil
}

// DryRunCommand renders the exact command line Launch would execute for
// path, without executing anything or mutating session state. The
// connection file must exist, same as for a real launch.
func DryRunCommand(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(expanded); err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: expanded}
		}
		return "", err
	}
	return dryRunDescription(expanded), nil
}

// kernelArgs is the platform-independent kernel command line: bind to
// the connection file and enable autoreload so edited modules are
// picked up across executions.
func kernelArgs(connPath string) []string {
	return []string{
		"ipython", "kernel",
		"--ConnectionFileMixin.connection_file=" + connPath,
		"--InteractiveShellApp.extensions=['autoreload']",
		"--InteractiveShellApp.exec_lines=['%autoreload 2']",
	}
}

// launchExitError classifies an immediate post-spawn exit.
func launchExitError(proc *Process, stdout, stderr *bytes.Buffer) error {
	var outText, errText string
	if stdout != nil {
		outText = strings.TrimSpace(stdout.String())
	}
	if stderr != nil {
		errText = strings.TrimSpace(stderr.String())
	}
	if strings.Contains(errText, "Address already in use") || strings.Contains(errText, "ZMQError") {
		return &AddrInUseError{Stderr: errText}
	}
	return &LaunchFailure{
		ExitCode: proc.ExitCode(),
		Stdout:   outText,
		Stderr:   errText,
	}
}
