//go:build !windows

package kernel

import (
	"errors"
	"os/exec"
	"testing"
	"time"
)

// startTestProcess spawns a short command wrapped in a Process handle.
func startTestProcess(t *testing.T, name string, args ...string) *Process {
	t.Helper()
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting %s: %v", name, err)
	}
	p := newProcess(cmd)
	t.Cleanup(func() {
		_ = p.Kill()
		p.WaitTimeout(2 * time.Second)
	})
	return p
}

func TestInterruptViaProtocol(t *testing.T) {
	fk := startFakeKernel(t)
	s := NewSession()
	if _, err := s.Connect(fk.connFile, 5*time.Second); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	defer s.Disconnect()

	method, err := s.Interrupt(2 * time.Second)
	if err != nil {
		t.Fatalf("Interrupt returned error: %v", err)
	}
	if method != InterruptViaProtocol {
		t.Errorf("Expected protocol interrupt, got %v", method)
	}
}

func TestInterruptFallsBackToSignal(t *testing.T) {
	fk := startFakeKernel(t)
	fk.onControl = func(fk *fakeKernel, identity [][]byte, req *Message) {
		// Ignore the interrupt request so the protocol path times out.
	}
	s := NewSession()
	if _, err := s.Connect(fk.connFile, 5*time.Second); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	defer s.Disconnect()

	proc := startTestProcess(t, "sleep", "30")
	s.TrackProcess(proc)

	method, err := s.Interrupt(300 * time.Millisecond)
	if err != nil {
		t.Fatalf("Interrupt returned error: %v", err)
	}
	if method != InterruptViaSignal {
		t.Errorf("Expected signal interrupt, got %v", method)
	}
	if !proc.WaitTimeout(3 * time.Second) {
		t.Error("Expected SIGINT to stop the process")
	}
}

func TestInterruptNoMethodAvailable(t *testing.T) {
	fk := startFakeKernel(t)
	fk.onControl = func(fk *fakeKernel, identity [][]byte, req *Message) {}
	s := NewSession()
	if _, err := s.Connect(fk.connFile, 5*time.Second); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	defer s.Disconnect()

	_, err := s.Interrupt(300 * time.Millisecond)
	if !errors.Is(err, ErrNoInterruptMethod) {
		t.Fatalf("Expected ErrNoInterruptMethod, got %v", err)
	}
}

func TestShutdownViaSignalEscalation(t *testing.T) {
	fk := startFakeKernel(t)
	fk.onControl = func(fk *fakeKernel, identity [][]byte, req *Message) {}
	s := NewSession()
	if _, err := s.Connect(fk.connFile, 5*time.Second); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}

	// A process that ignores SIGTERM forces the kill escalation.
	proc := startTestProcess(t, "sh", "-c", "trap '' TERM; sleep 30")
	time.Sleep(100 * time.Millisecond) // let the trap install
	s.TrackProcess(proc)

	report, err := s.Shutdown(300*time.Millisecond, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	if report.Method != ShutdownViaSignal {
		t.Errorf("Expected signal shutdown, got %v", report.Method)
	}
	if !proc.Exited() {
		t.Error("Expected process to be gone after escalation")
	}
	if s.Connected() {
		t.Error("Expected session to be disconnected")
	}
}

func TestShutdownWithDeadProcessStillClearsState(t *testing.T) {
	fk := startFakeKernel(t)
	fk.onControl = func(fk *fakeKernel, identity [][]byte, req *Message) {}
	s := NewSession()
	if _, err := s.Connect(fk.connFile, 5*time.Second); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}

	proc := startTestProcess(t, "true")
	if !proc.WaitTimeout(2 * time.Second) {
		t.Fatal("Expected test process to exit")
	}
	s.TrackProcess(proc)

	report, err := s.Shutdown(300*time.Millisecond, 300*time.Millisecond)
	if err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	if report.Method != ShutdownConnectionsOnly {
		t.Errorf("Expected connections-only shutdown, got %v", report.Method)
	}
	if s.Connected() {
		t.Error("Expected session to be fully cleared")
	}
}
