package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-zeromq/zmq4"
)

// recvBuffer smooths bursts of decoded inbound messages. When a buffer
// fills the pump blocks instead of dropping, so excess backpressure
// stays queued in the socket and no output is lost.
const recvBuffer = 64

// Client is an open multi-channel link to one kernel, bound to a
// connection file. It owns the channel sockets and must be closed
// before being discarded.
type Client struct {
	info *ConnectionInfo
	path string

	codec  *wireCodec
	ctx    context.Context
	cancel context.CancelFunc

	shell   zmq4.Socket
	iopub   zmq4.Socket
	stdin   zmq4.Socket
	control zmq4.Socket
	hb      zmq4.Socket

	shellCh   chan *Message
	iopubCh   chan *Message
	controlCh chan *Message

	closed bool
}

// Dial opens all five channels to the kernel described by the connection
// file at path and blocks until the kernel reports readiness or
// readyTimeout elapses. A failure at any point tears down every socket
// already opened; no half-open client is ever returned.
func Dial(path string, readyTimeout time.Duration) (*Client, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	info, err := LoadConnectionInfo(expanded)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		info:      info,
		path:      expanded,
		codec:     newWireCodec(info.Key),
		ctx:       ctx,
		cancel:    cancel,
		shellCh:   make(chan *Message, recvBuffer),
		iopubCh:   make(chan *Message, recvBuffer),
		controlCh: make(chan *Message, recvBuffer),
	}

	c.shell = zmq4.NewDealer(ctx)
	c.iopub = zmq4.NewSub(ctx)
	c.stdin = zmq4.NewDealer(ctx)
	c.control = zmq4.NewDealer(ctx)
	c.hb = zmq4.NewReq(ctx)

	dials := []struct {
		sock zmq4.Socket
		port int
		name string
	}{
		{c.shell, info.ShellPort, "shell"},
		{c.iopub, info.IOPubPort, "iopub"},
		{c.stdin, info.StdinPort, "stdin"},
		{c.control, info.ControlPort, "control"},
		{c.hb, info.HBPort, "hb"},
	}
	for _, d := range dials {
		if err := d.sock.Dial(info.ChannelAddr(d.port)); err != nil {
			c.Close()
			return nil, &ConnectError{Err: fmt.Errorf("dial %s channel: %w", d.name, err)}
		}
	}
	if err := c.iopub.SetOption(zmq4.OptionSubscribe, ""); err != nil {
		c.Close()
		return nil, &ConnectError{Err: fmt.Errorf("subscribe iopub: %w", err)}
	}

	go c.pump("shell", c.shell, c.shellCh)
	go c.pump("iopub", c.iopub, c.iopubCh)
	go c.pump("control", c.control, c.controlCh)

	if err := c.waitForReady(readyTimeout); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Info returns the connection descriptor this client is bound to.
func (c *Client) Info() *ConnectionInfo { return c.info }

// Path returns the connection file path the client was opened from.
func (c *Client) Path() string { return c.path }

// Close tears down all channel sockets. It is idempotent; closing an
// already-closed client is a no-op.
func (c *Client) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	for _, s := range []zmq4.Socket{c.shell, c.iopub, c.stdin, c.control, c.hb} {
		if s != nil {
			_ = s.Close()
		}
	}
}

// pump reads multiparts off one socket, decodes them and delivers them
// to ch until the socket is closed. Undecodable messages are dropped;
// decoded messages never are. A full channel blocks the pump until the
// consumer catches up or the client closes.
func (c *Client) pump(name string, sock zmq4.Socket, ch chan *Message) {
	for {
		raw, err := sock.Recv()
		if err != nil {
			return
		}
		msg, err := c.codec.decode(raw.Frames)
		if err != nil {
			slog.Debug("dropping undecodable message", "channel", name, "error", err)
			continue
		}
		select {
		case ch <- msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// waitForReady sends a kernel_info_request and blocks until the matching
// reply arrives on the shell channel.
func (c *Client) waitForReady(timeout time.Duration) error {
	msgID, err := c.send(c.shell, msgTypeKernelInfoReq, map[string]any{})
	if err != nil {
		return &ConnectError{Err: err}
	}
	if _, err := c.waitReply(c.shellCh, msgID, msgTypeKernelInfoReply, timeout); err != nil {
		return &ConnectError{Err: fmt.Errorf("kernel not ready: %w", err)}
	}
	return nil
}

// newMultipart wraps raw frames for sending.
func newMultipart(frames [][]byte) zmq4.Msg {
	return zmq4.NewMsgFrom(frames...)
}

// send builds, signs and sends one request on sock, returning the
// generated correlation id.
func (c *Client) send(sock zmq4.Socket, msgType string, content any) (string, error) {
	frames, msgID, err := c.codec.newRequest(msgType, content)
	if err != nil {
		return "", err
	}
	if err := sock.Send(newMultipart(frames)); err != nil {
		return "", err
	}
	return msgID, nil
}

// waitReply reads ch until a message of wantType correlated to parentID
// arrives or the deadline passes. Unrelated messages are discarded.
func (c *Client) waitReply(ch chan *Message, parentID, wantType string, timeout time.Duration) (*Message, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case msg := <-ch:
			if msg.ParentID() != parentID {
				continue
			}
			if wantType != "" && msg.Header.MsgType != wantType {
				continue
			}
			return msg, nil
		case <-deadline.C:
			return nil, fmt.Errorf("timed out after %s waiting for %s", timeout, wantType)
		}
	}
}

// recvNext reads the next message from ch with a bounded wait,
// returning false when the window expires with nothing available.
func (c *Client) recvNext(ch chan *Message, timeout time.Duration) (*Message, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case msg := <-ch:
		return msg, true
	case <-deadline.C:
		return nil, false
	}
}

// InterruptRequest sends a protocol-level interrupt on the control
// channel and waits for the kernel to acknowledge it.
func (c *Client) InterruptRequest(timeout time.Duration) error {
	msgID, err := c.send(c.control, msgTypeInterruptReq, map[string]any{})
	if err != nil {
		return err
	}
	_, err = c.waitReply(c.controlCh, msgID, msgTypeInterruptReply, timeout)
	return err
}

// ShutdownRequest sends a protocol-level graceful shutdown on the
// control channel and waits for the kernel to acknowledge it.
func (c *Client) ShutdownRequest(timeout time.Duration) error {
	msgID, err := c.send(c.control, msgTypeShutdownReq, map[string]any{"restart": false})
	if err != nil {
		return err
	}
	_, err = c.waitReply(c.controlCh, msgID, msgTypeShutdownReply, timeout)
	return err
}
