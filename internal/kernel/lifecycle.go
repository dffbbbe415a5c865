package kernel

import (
	"time"
)

// InterruptMethod identifies which interrupt strategy succeeded.
type InterruptMethod int

const (
	// InterruptViaProtocol means the kernel acknowledged an
	// interrupt_request on the control channel.
	InterruptViaProtocol InterruptMethod = iota
	// InterruptViaSignal means SIGINT was delivered to the tracked
	// kernel process after the protocol path failed.
	InterruptViaSignal
)

// InterruptSupported reports whether this platform can honor the
// interrupt operation at all.
func InterruptSupported() bool { return interruptSupported }

// Interrupt stops the kernel's current execution. Strategies are tried
// in order: the protocol-level interrupt primitive first, then an
// OS-level SIGINT to the tracked process. On a platform without signal
// support the operation fails up front with ErrInterruptUnsupported and
// no signaling is attempted.
func (s *Session) Interrupt(protocolTimeout time.Duration) (InterruptMethod, error) {
	if !s.Connected() {
		return 0, ErrNotConnected
	}
	if !interruptSupported {
		return 0, ErrInterruptUnsupported
	}

	if err := s.client.InterruptRequest(protocolTimeout); err == nil {
		return InterruptViaProtocol, nil
	}

	if s.proc != nil && !s.proc.Exited() {
		if err := signalInterrupt(s.proc); err != nil {
			return 0, err
		}
		return InterruptViaSignal, nil
	}

	return 0, ErrNoInterruptMethod
}

// ShutdownMethod identifies which shutdown strategy succeeded.
type ShutdownMethod int

const (
	// ShutdownViaProtocol means the kernel acknowledged a graceful
	// shutdown_request.
	ShutdownViaProtocol ShutdownMethod = iota
	// ShutdownViaSignal means the tracked process was terminated with
	// the platform's terminate/kill escalation.
	ShutdownViaSignal
	// ShutdownConnectionsOnly means only the connection was closed; the
	// remote process's liveness is unknown or its termination failed.
	ShutdownConnectionsOnly
)

// ForcefulShutdownLabel names the platform signal pair used by
// ShutdownViaSignal, for inclusion in reports.
func ForcefulShutdownLabel() string { return forcefulShutdownLabel }

// ShutdownReport describes how a shutdown completed. TermErr is set
// when the process-termination step itself failed; connections are
// closed regardless.
type ShutdownReport struct {
	Method  ShutdownMethod
	TermErr error
}

// Shutdown stops the kernel, trying each strategy in order and stopping
// at the first that succeeds:
//
//  1. protocol-level graceful shutdown_request,
//  2. terminate the tracked process, escalating to kill after termWait,
//  3. close connections only (no tracked process, or termination
//     failed).
//
// Disconnect runs on every path; a failed strategy never leaves a
// dangling connection.
func (s *Session) Shutdown(protocolTimeout, termWait time.Duration) (ShutdownReport, error) {
	if !s.Connected() {
		return ShutdownReport{}, ErrNotConnected
	}

	strategies := []func() (ShutdownReport, bool){
		func() (ShutdownReport, bool) { return s.shutdownViaProtocol(protocolTimeout) },
		func() (ShutdownReport, bool) { return s.shutdownViaSignal(termWait) },
	}
	for _, strategy := range strategies {
		if report, ok := strategy(); ok {
			return report, nil
		}
	}

	s.Disconnect()
	return ShutdownReport{Method: ShutdownConnectionsOnly}, nil
}

func (s *Session) shutdownViaProtocol(timeout time.Duration) (ShutdownReport, bool) {
	if err := s.client.ShutdownRequest(timeout); err != nil {
		return ShutdownReport{}, false
	}
	s.Disconnect()
	return ShutdownReport{Method: ShutdownViaProtocol}, true
}

func (s *Session) shutdownViaSignal(termWait time.Duration) (ShutdownReport, bool) {
	if s.proc == nil || s.proc.Exited() {
		return ShutdownReport{}, false
	}

	if err := signalTerminate(s.proc); err != nil {
		s.Disconnect()
		return ShutdownReport{Method: ShutdownConnectionsOnly, TermErr: err}, true
	}
	if !s.proc.WaitTimeout(termWait) {
		if err := s.proc.Kill(); err != nil {
			s.Disconnect()
			return ShutdownReport{Method: ShutdownConnectionsOnly, TermErr: err}, true
		}
		s.proc.WaitTimeout(termWait)
	}
	s.Disconnect()
	return ShutdownReport{Method: ShutdownViaSignal}, true
}
