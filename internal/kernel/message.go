package kernel

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// protocolVersion is the Jupyter messaging protocol version spoken here.
const protocolVersion = "5.3"

// wireDelim separates routing identities from the signed message frames.
var wireDelim = []byte("<IDS|MSG>")

// Message type names used by this client.
const (
	msgTypeExecuteRequest  = "execute_request"
	msgTypeExecuteReply    = "execute_reply"
	msgTypeKernelInfoReq   = "kernel_info_request"
	msgTypeKernelInfoReply = "kernel_info_reply"
	msgTypeInterruptReq    = "interrupt_request"
	msgTypeInterruptReply  = "interrupt_reply"
	msgTypeShutdownReq     = "shutdown_request"
	msgTypeShutdownReply   = "shutdown_reply"
	msgTypeStream          = "stream"
	msgTypeExecuteResult   = "execute_result"
	msgTypeError           = "error"
	msgTypeStatus          = "status"
)

// Header is a Jupyter message header.
type Header struct {
	MsgID    string `json:"msg_id"`
	Username string `json:"username"`
	Session  string `json:"session"`
	Date     string `json:"date"`
	MsgType  string `json:"msg_type"`
	Version  string `json:"version"`
}

// Message is one decoded Jupyter protocol message. Content stays a raw
// JSON map; it is parsed into typed records once, at the output
// classification boundary.
type Message struct {
	Header       Header
	ParentHeader Header
	Metadata     map[string]any
	Content      map[string]any
}

// ParentID returns the correlation id this message replies to, or ""
// for messages without a parent.
func (m *Message) ParentID() string { return m.ParentHeader.MsgID }

// contentString fetches a string field from the content dict, tolerating
// absence and non-string values.
func (m *Message) contentString(key string) string {
	s, _ := m.Content[key].(string)
	return s
}

// wireCodec signs, frames and parses messages for one client session.
type wireCodec struct {
	key      []byte
	session  string
	username string
}

func newWireCodec(key string) *wireCodec {
	return &wireCodec{
		key:      []byte(key),
		session:  uuid.NewString(),
		username: "kernel-mcp",
	}
}

// newRequest builds a signed outgoing multipart for msgType with the
// given content, returning the frames and the generated message id.
func (w *wireCodec) newRequest(msgType string, content any) ([][]byte, string, error) {
	msgID := uuid.NewString()
	header := Header{
		MsgID:    msgID,
		Username: w.username,
		Session:  w.session,
		Date:     time.Now().UTC().Format(time.RFC3339),
		MsgType:  msgType,
		Version:  protocolVersion,
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return nil, "", err
	}
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, "", err
	}

	parts := [][]byte{headerJSON, []byte("{}"), []byte("{}"), contentJSON}
	frames := [][]byte{{}, wireDelim, w.sign(parts)}
	frames = append(frames, parts...)
	return frames, msgID, nil
}

// sign computes the hex HMAC-SHA256 of the four message parts. An empty
// key disables signing per the protocol.
func (w *wireCodec) sign(parts [][]byte) []byte {
	if len(w.key) == 0 {
		return []byte{}
	}
	h := hmac.New(sha256.New, w.key)
	for _, p := range parts {
		h.Write(p)
	}
	return []byte(hex.EncodeToString(h.Sum(nil)))
}

// decode parses an incoming multipart. Frames before the delimiter are
// routing identities and are discarded. The signature is verified when a
// key is configured.
func (w *wireCodec) decode(frames [][]byte) (*Message, error) {
	delim := -1
	for i, f := range frames {
		if bytes.Equal(f, wireDelim) {
			delim = i
			break
		}
	}
	if delim < 0 || len(frames) < delim+6 {
		return nil, fmt.Errorf("malformed wire message: %d frames, no delimiter", len(frames))
	}

	sig := frames[delim+1]
	parts := frames[delim+2 : delim+6]
	if len(w.key) > 0 {
		if !hmac.Equal(sig, w.sign(parts)) {
			return nil, fmt.Errorf("message signature mismatch")
		}
	}

	var msg Message
	if err := json.Unmarshal(parts[0], &msg.Header); err != nil {
		return nil, fmt.Errorf("bad header: %w", err)
	}
	if err := json.Unmarshal(parts[1], &msg.ParentHeader); err != nil {
		return nil, fmt.Errorf("bad parent_header: %w", err)
	}
	if err := json.Unmarshal(parts[2], &msg.Metadata); err != nil {
		return nil, fmt.Errorf("bad metadata: %w", err)
	}
	if err := json.Unmarshal(parts[3], &msg.Content); err != nil {
		return nil, fmt.Errorf("bad content: %w", err)
	}
	return &msg, nil
}

// executeContent is the content body of an execute_request.
type executeContent struct {
	Code            string         `json:"code"`
	Silent          bool           `json:"silent"`
	StoreHistory    bool           `json:"store_history"`
	UserExpressions map[string]any `json:"user_expressions"`
	AllowStdin      bool           `json:"allow_stdin"`
	StopOnError     bool           `json:"stop_on_error"`
}

func newExecuteContent(code string) executeContent {
	return executeContent{
		Code:            code,
		StoreHistory:    true,
		UserExpressions: map[string]any{},
		StopOnError:     true,
	}
}
