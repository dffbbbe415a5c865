package kernel

import (
	"regexp"
	"strings"
)

// FragmentKind tags one classified piece of broadcast output.
type FragmentKind int

const (
	// FragmentStream is raw stdout/stderr text from the kernel.
	FragmentStream FragmentKind = iota
	// FragmentResult is the plain-text representation of an expression
	// value.
	FragmentResult
	// FragmentError is a formatted kernel-side error with traceback.
	FragmentError
)

// Fragment is one piece of output collected from the broadcast channel,
// in arrival order.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// ansiEscape matches terminal color-control sequences embedded in
// kernel tracebacks.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// classifyFragment converts a broadcast message into a typed fragment.
// The second return is false for messages that carry no output (status
// updates, execute_input echoes, empty streams and any unknown types).
func classifyFragment(msg *Message) (Fragment, bool) {
	switch msg.Header.MsgType {
	case msgTypeStream:
		text := strings.TrimSpace(msg.contentString("text"))
		if text == "" {
			return Fragment{}, false
		}
		return Fragment{Kind: FragmentStream, Text: text}, true

	case msgTypeExecuteResult:
		data, _ := msg.Content["data"].(map[string]any)
		text, _ := data["text/plain"].(string)
		if text == "" {
			return Fragment{}, false
		}
		return Fragment{Kind: FragmentResult, Text: text}, true

	case msgTypeError:
		return Fragment{Kind: FragmentError, Text: formatKernelError(msg.Content)}, true
	}
	return Fragment{}, false
}

// formatKernelError renders "Name: value" plus the traceback with ANSI
// sequences stripped.
func formatKernelError(content map[string]any) string {
	name, _ := content["ename"].(string)
	if name == "" {
		name = "Error"
	}
	value, _ := content["evalue"].(string)

	msg := name + ": " + value
	if tb, ok := content["traceback"].([]any); ok && len(tb) > 0 {
		lines := make([]string, 0, len(tb))
		for _, l := range tb {
			if s, ok := l.(string); ok {
				lines = append(lines, StripANSI(s))
			}
		}
		if len(lines) > 0 {
			msg += "\n" + strings.Join(lines, "\n")
		}
	}
	return msg
}

// ExecutionResult is the collected outcome of one execute request. The
// reply status is authoritative: when the kernel reports an error reply,
// ErrName/ErrValue replace the collected fragments in the final report.
type ExecutionResult struct {
	Fragments []Fragment
	ReplyOK   bool
	ErrName   string
	ErrValue  string
}

// ErrorSummary renders the authoritative reply error as "Name: value".
func (r *ExecutionResult) ErrorSummary() string {
	name := r.ErrName
	if name == "" {
		name = "Error"
	}
	return name + ": " + r.ErrValue
}
