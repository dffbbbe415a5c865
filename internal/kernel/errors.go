package kernel

import (
	"errors"
	"fmt"
)

// Sentinel errors for session-level preconditions.
var (
	// ErrNotConnected is returned by operations that require an open
	// kernel connection when none exists.
	ErrNotConnected = errors.New("not connected to kernel")

	// ErrInterruptUnsupported is returned on platforms where the
	// interrupt operation cannot be honored.
	ErrInterruptUnsupported = errors.New("interrupt not supported on this platform")

	// ErrNoInterruptMethod is returned when neither the protocol-level
	// interrupt nor an OS signal path is available.
	ErrNoInterruptMethod = errors.New("no interrupt method available")
)

// NotFoundError indicates the connection file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("connection file not found: %s", e.Path)
}

// MalformedError indicates the connection file could not be parsed or is
// missing required keys.
type MalformedError struct {
	Path   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed connection file %s: %s", e.Path, e.Reason)
}

// ConnectError indicates a transport failure or timeout while opening
// channels to the kernel.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to kernel: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// LaunchFailure indicates the kernel process exited immediately after
// spawn for a reason other than the address-in-use soft failure.
type LaunchFailure struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *LaunchFailure) Error() string {
	return fmt.Sprintf("kernel failed to start: exit code %d", e.ExitCode)
}

// Details renders exit code plus any captured output, matching the
// report format of the launch tool.
func (e *LaunchFailure) Details() string {
	s := fmt.Sprintf("Exit code: %d", e.ExitCode)
	if e.Stdout != "" {
		s += "\nStdout: " + e.Stdout
	}
	if e.Stderr != "" {
		s += "\nStderr: " + e.Stderr
	}
	return s
}

// AddrInUseError is the soft launch failure: the process exited because
// a kernel is already bound to the descriptor's ports. Callers fall back
// to connecting instead of reporting a hard failure.
type AddrInUseError struct {
	Stderr string
}

func (e *AddrInUseError) Error() string {
	return "kernel already running: address already in use"
}

// ExecutionError indicates the reply channel timed out or the transport
// failed while waiting for an execution reply.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
