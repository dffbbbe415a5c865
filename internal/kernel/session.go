package kernel

import (
	"time"
)

// Session holds the at-most-one active kernel connection and the
// at-most-one tracked kernel process. It is the lifecycle authority for
// both: the client and process handles are mutated only through
// Connect, TrackProcess, Disconnect, Interrupt and Shutdown.
//
// Session provides no internal locking. Operations are expected to be
// invoked one at a time by the tool layer; callers must not run
// Execute concurrently with Disconnect.
type Session struct {
	client *Client
	proc   *Process
}

// NewSession returns an empty session: no connection, no tracked
// process.
func NewSession() *Session {
	return &Session{}
}

// Client returns the active connection handle, or nil when not
// connected.
func (s *Session) Client() *Client { return s.client }

// Connected reports whether an open connection handle is held.
func (s *Session) Connected() bool { return s.client != nil }

// Process returns the tracked kernel process handle, or nil when the
// kernel was started by someone else (or never started).
func (s *Session) Process() *Process { return s.proc }

// TrackProcess records a freshly spawned kernel process. The process
// lifetime is independent from the connection: tracking survives
// disconnects and re-connects.
func (s *Session) TrackProcess(p *Process) { s.proc = p }

// Connect opens a new connection to the kernel described by the
// connection file at path. Any previously open connection is closed
// first, so the session never holds two handles. On failure the
// connection slot is left empty.
func (s *Session) Connect(path string, readyTimeout time.Duration) (*Client, error) {
	s.Disconnect()

	client, err := Dial(path, readyTimeout)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

// Disconnect closes the connection handle if one is open and clears the
// slot. Disconnecting twice is a no-op.
func (s *Session) Disconnect() {
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
}
