package config

import "time"

// Default timing configurations used throughout the server
const (
	// DefaultReadyTimeout bounds the wait for the kernel readiness
	// handshake after opening channels
	DefaultReadyTimeout = 5 * time.Second

	// DefaultReplyTimeout bounds the wait for the synchronous execute
	// reply on the shell channel
	DefaultReplyTimeout = 30 * time.Second

	// DefaultIOPubPollTimeout bounds each individual read of the
	// broadcast channel while draining execution output
	DefaultIOPubPollTimeout = 1 * time.Second

	// DefaultLaunchGrace is how long to wait after spawning the kernel
	// before polling its exit status
	DefaultLaunchGrace = 1 * time.Second

	// DefaultInterruptReplyTimeout bounds the wait for the protocol
	// interrupt acknowledgement before falling back to SIGINT
	DefaultInterruptReplyTimeout = 2 * time.Second

	// DefaultShutdownReplyTimeout bounds the wait for the protocol
	// shutdown acknowledgement before falling back to process signals
	DefaultShutdownReplyTimeout = 5 * time.Second

	// DefaultTerminateWait is how long to wait for the process to exit
	// after a graceful terminate before escalating to a forceful kill
	DefaultTerminateWait = 5 * time.Second
)
