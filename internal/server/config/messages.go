package config

// Status strings returned by the kernel tools. The ✅/⚠️/❌ prefixed
// text is the external interface of this server; clients match on it.
const (
	// MsgConnFileNotFound is the format string for a missing connection file
	MsgConnFileNotFound = "❌ Connection file not found: %s"
	// MsgConnected is the format string for a successful connect report
	MsgConnected = "✅ Connected to IPython kernel at %s\n📁 Connection file: %s\n🔑 Using key: %s"
	// MsgConnectReadyFailed is the format string for a readiness-handshake failure
	MsgConnectReadyFailed = "❌ Failed to connect to kernel: %v"
	// MsgConnectFailed is the format string for any other connect failure
	MsgConnectFailed = "❌ Failed to connect: %v"
	// MsgWindowsInterruptNotice is appended to connect reports on Windows
	MsgWindowsInterruptNotice = "\n⚠️ Note: interrupt_kernel() not supported on Windows - use Ctrl+C in kernel window to interrupt execution"

	// MsgKernelStarted is the format string for a successful launch report
	MsgKernelStarted = "✅ Started IPython kernel (PID: %d)\n📁 Using connection file: %s\n%s"
	// MsgKernelAlreadyRunning prefixes the connect fallback after an address-in-use launch failure
	MsgKernelAlreadyRunning = "⚠️ Kernel already running, attempting to connect to existing kernel instead\n%s"
	// MsgKernelFailedToStart is the format string for an immediate launch failure
	MsgKernelFailedToStart = "❌ Kernel failed to start\n%s"
	// MsgStartFailed is the format string for any other launch error
	MsgStartFailed = "❌ Failed to start kernel: %v"

	// MsgNotConnectedExecute is returned by execute_code without a session
	MsgNotConnectedExecute = "❌ Not connected to kernel. Use connect_to_kernel() first."
	// MsgExecuteNoOutput is the distinguished success-without-output report
	MsgExecuteNoOutput = "✅ Code executed successfully (no output)"
	// MsgExecuteFailed is the format string for a reply timeout or transport failure
	MsgExecuteFailed = "❌ Execution failed: %v"
	// MsgExecuteError is the format string for the authoritative reply error summary
	MsgExecuteError = "❌ %s"

	// MsgNotConnected is returned by lifecycle tools without a session
	MsgNotConnected = "❌ Not connected to any kernel"
	// MsgStatusConnected is the format string for a connected status report
	MsgStatusConnected = "✅ Connected to kernel at %s"
	// MsgStatusConnectedBare is the degraded status report when endpoint introspection fails
	MsgStatusConnectedBare = "✅ Connected to kernel (connection details unavailable)"
	// MsgDisconnected acknowledges a disconnect
	MsgDisconnected = "✅ Disconnected from kernel"

	// MsgShutdownGraceful reports a protocol-level shutdown
	MsgShutdownGraceful = "✅ Kernel shutdown gracefully via Jupyter protocol"
	// MsgShutdownForceful is the format string for a signal-level shutdown
	MsgShutdownForceful = "✅ Kernel shutdown forcefully (%s)"
	// MsgShutdownTermFailed is the format string when process termination failed but connections were closed
	MsgShutdownTermFailed = "⚠️ Kernel process termination failed: %v, but connections closed"
	// MsgShutdownConnsClosed reports a connections-only shutdown
	MsgShutdownConnsClosed = "✅ Kernel connections closed (process may still be running)"

	// MsgInterruptUnsupported is returned on platforms without signal support
	MsgInterruptUnsupported = "❌ Interrupt not supported on Windows - press Ctrl+C in the kernel window to interrupt execution"
	// MsgInterruptProtocol reports a protocol-level interrupt
	MsgInterruptProtocol = "✅ Sent interrupt to kernel via Jupyter protocol"
	// MsgInterruptSignal is the format string for an OS-level interrupt
	MsgInterruptSignal = "✅ Sent SIGINT to kernel (PID: %d) via subprocess"
	// MsgInterruptSignalFailed is the format string when the SIGINT fallback failed
	MsgInterruptSignalFailed = "❌ OS-level interrupt failed: %v"
	// MsgInterruptNoMethod is returned when no interrupt path is available
	MsgInterruptNoMethod = "❌ No interrupt method available"
)
