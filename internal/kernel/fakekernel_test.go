package kernel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/google/uuid"
)

const fakeKernelKey = "0123456789abcdef0123456789abcdef"

// fakeKernel is a loopback stand-in for an IPython kernel: a ROUTER
// shell, a PUB iopub, a ROUTER control and the stdin/hb sockets, all
// bound to ephemeral ports and described by a real connection file.
// Shell and control behavior is scriptable per test.
type fakeKernel struct {
	t     *testing.T
	codec *wireCodec

	shell   zmq4.Socket
	iopub   zmq4.Socket
	stdin   zmq4.Socket
	control zmq4.Socket
	hb      zmq4.Socket

	connFile string
	cancel   context.CancelFunc

	// onExecute handles execute_request; nil uses defaultExecute.
	onExecute func(fk *fakeKernel, identity [][]byte, req *Message)
	// onControl handles control-channel requests; nil acks interrupt
	// and shutdown requests.
	onControl func(fk *fakeKernel, identity [][]byte, req *Message)
}

func startFakeKernel(t *testing.T) *fakeKernel {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	fk := &fakeKernel{
		t:      t,
		codec:  newWireCodec(fakeKernelKey),
		cancel: cancel,
	}

	fk.shell = zmq4.NewRouter(ctx)
	fk.iopub = zmq4.NewPub(ctx)
	fk.stdin = zmq4.NewRouter(ctx)
	fk.control = zmq4.NewRouter(ctx)
	fk.hb = zmq4.NewRep(ctx)

	socks := []zmq4.Socket{fk.shell, fk.iopub, fk.stdin, fk.control, fk.hb}
	ports := make([]int, len(socks))
	for i, s := range socks {
		if err := s.Listen("tcp://127.0.0.1:0"); err != nil {
			t.Fatalf("listen: %v", err)
		}
		ports[i] = s.Addr().(*net.TCPAddr).Port
	}

	info := ConnectionInfo{
		IP:              "127.0.0.1",
		Transport:       "tcp",
		ShellPort:       ports[0],
		IOPubPort:       ports[1],
		StdinPort:       ports[2],
		ControlPort:     ports[3],
		HBPort:          ports[4],
		Key:             fakeKernelKey,
		SignatureScheme: "hmac-sha256",
	}
	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal connection info: %v", err)
	}
	fk.connFile = filepath.Join(t.TempDir(), "kernel.json")
	if err := os.WriteFile(fk.connFile, data, 0o600); err != nil {
		t.Fatalf("write connection file: %v", err)
	}

	go fk.serve(fk.shell, fk.handleShell)
	go fk.serve(fk.control, fk.handleControl)

	t.Cleanup(fk.stop)
	return fk
}

func (fk *fakeKernel) stop() {
	fk.cancel()
	for _, s := range []zmq4.Socket{fk.shell, fk.iopub, fk.stdin, fk.control, fk.hb} {
		_ = s.Close()
	}
}

// serve pumps one ROUTER socket, splitting routing identities from the
// signed message frames.
func (fk *fakeKernel) serve(sock zmq4.Socket, handle func(identity [][]byte, req *Message)) {
	for {
		raw, err := sock.Recv()
		if err != nil {
			return
		}
		delim := -1
		for i, f := range raw.Frames {
			if bytes.Equal(f, wireDelim) {
				delim = i
				break
			}
		}
		if delim < 0 {
			continue
		}
		req, err := fk.codec.decode(raw.Frames)
		if err != nil {
			continue
		}
		identity := make([][]byte, delim)
		copy(identity, raw.Frames[:delim])
		handle(identity, req)
	}
}

func (fk *fakeKernel) handleShell(identity [][]byte, req *Message) {
	switch req.Header.MsgType {
	case msgTypeKernelInfoReq:
		fk.reply(fk.shell, identity, req.Header, msgTypeKernelInfoReply, map[string]any{"status": "ok"})
	case msgTypeExecuteRequest:
		if fk.onExecute != nil {
			fk.onExecute(fk, identity, req)
			return
		}
		defaultExecute(fk, identity, req)
	}
}

func (fk *fakeKernel) handleControl(identity [][]byte, req *Message) {
	if fk.onControl != nil {
		fk.onControl(fk, identity, req)
		return
	}
	switch req.Header.MsgType {
	case msgTypeInterruptReq:
		fk.reply(fk.control, identity, req.Header, msgTypeInterruptReply, map[string]any{"status": "ok"})
	case msgTypeShutdownReq:
		fk.reply(fk.control, identity, req.Header, msgTypeShutdownReply, map[string]any{"status": "ok", "restart": false})
	}
}

// defaultExecute publishes a stream line and an expression result for
// the request, then idles and acks.
func defaultExecute(fk *fakeKernel, identity [][]byte, req *Message) {
	fk.publish(req.Header, msgTypeStatus, map[string]any{"execution_state": "busy"})
	fk.publish(req.Header, msgTypeStream, map[string]any{"name": "stdout", "text": "hello\n"})
	fk.publish(req.Header, msgTypeExecuteResult, map[string]any{"data": map[string]any{"text/plain": "42"}})
	fk.publish(req.Header, msgTypeStatus, map[string]any{"execution_state": "idle"})
	fk.reply(fk.shell, identity, req.Header, msgTypeExecuteReply, map[string]any{"status": "ok", "execution_count": 1})
}

// reply sends a signed response on a ROUTER socket, addressed back to
// the requesting peer.
func (fk *fakeKernel) reply(sock zmq4.Socket, identity [][]byte, parent Header, msgType string, content any) {
	frames := append(append([][]byte{}, identity...), fk.signedParts(parent, msgType, content)...)
	if err := sock.Send(zmq4.NewMsgFrom(frames...)); err != nil {
		fk.t.Logf("fake kernel reply failed: %v", err)
	}
}

// publish broadcasts a signed message on iopub, topic-prefixed like a
// real kernel.
func (fk *fakeKernel) publish(parent Header, msgType string, content any) {
	frames := append([][]byte{[]byte(msgType)}, fk.signedParts(parent, msgType, content)...)
	if err := fk.iopub.Send(zmq4.NewMsgFrom(frames...)); err != nil {
		fk.t.Logf("fake kernel publish failed: %v", err)
	}
}

// foreignHeader fabricates the header of an execution owned by some
// other client, for correlation-filtering tests.
func foreignHeader() Header {
	return Header{
		MsgID:    uuid.NewString(),
		Username: "someone-else",
		Session:  uuid.NewString(),
		Date:     time.Now().UTC().Format(time.RFC3339),
		MsgType:  msgTypeExecuteRequest,
		Version:  protocolVersion,
	}
}

func (fk *fakeKernel) signedParts(parent Header, msgType string, content any) [][]byte {
	header := Header{
		MsgID:    uuid.NewString(),
		Username: "kernel",
		Session:  "fake-kernel",
		Date:     time.Now().UTC().Format(time.RFC3339),
		MsgType:  msgType,
		Version:  protocolVersion,
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		panic(fmt.Sprintf("marshal header: %v", err))
	}
	parentJSON, err := json.Marshal(parent)
	if err != nil {
		panic(fmt.Sprintf("marshal parent: %v", err))
	}
	contentJSON, err := json.Marshal(content)
	if err != nil {
		panic(fmt.Sprintf("marshal content: %v", err))
	}

	parts := [][]byte{headerJSON, parentJSON, []byte("{}"), contentJSON}
	frames := [][]byte{{}, wireDelim, fk.codec.sign(parts)}
	return append(frames, parts...)
}

// dialFake connects a client to the fake kernel and waits out the SUB
// subscription handshake so published messages are not lost to the
// slow-joiner window.
func dialFake(t *testing.T, fk *fakeKernel) *Client {
	t.Helper()
	client, err := Dial(fk.connFile, 5*time.Second)
	if err != nil {
		t.Fatalf("Dial returned error: %v", err)
	}
	t.Cleanup(client.Close)
	time.Sleep(200 * time.Millisecond)
	return client
}
