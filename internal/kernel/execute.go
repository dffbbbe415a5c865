package kernel

import (
	"fmt"
	"time"
)

// Execute submits code to the kernel and collects the bounded, ordered
// stream of broadcast output correlated to this request into one result.
//
// replyTimeout bounds the wait for the synchronous execute reply on the
// shell channel; pollTimeout bounds each individual read of the
// broadcast channel during the drain.
func (c *Client) Execute(code string, replyTimeout, pollTimeout time.Duration) (*ExecutionResult, error) {
	frames, msgID, err := c.codec.newRequest(msgTypeExecuteRequest, newExecuteContent(code))
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}
	if err := c.shell.Send(newMultipart(frames)); err != nil {
		return nil, &ExecutionError{Err: fmt.Errorf("send execute request: %w", err)}
	}

	reply, err := c.waitReply(c.shellCh, msgID, msgTypeExecuteReply, replyTimeout)
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}

	result := &ExecutionResult{
		Fragments: c.drainOutput(msgID, pollTimeout),
	}

	switch reply.contentString("status") {
	case "error":
		result.ErrName = reply.contentString("ename")
		result.ErrValue = reply.contentString("evalue")
	default:
		result.ReplyOK = true
	}
	return result, nil
}

// drainOutput collects broadcast fragments correlated to msgID, in
// arrival order. The drain stops when the kernel reports an idle status
// for this request, or when one poll window passes with no message at
// all. The second exit bounds worst-case wait time but can truncate a
// very slow trailing message; that race is accepted behavior, not a bug
// to fix by extending the poll window.
func (c *Client) drainOutput(msgID string, pollTimeout time.Duration) []Fragment {
	var fragments []Fragment
	for {
		msg, ok := c.recvNext(c.iopubCh, pollTimeout)
		if !ok {
			return fragments
		}
		// The broadcast channel is shared across executions; anything
		// not correlated to this request is someone else's traffic.
		if msg.ParentID() != msgID {
			continue
		}
		if msg.Header.MsgType == msgTypeStatus {
			if msg.contentString("execution_state") == "idle" {
				return fragments
			}
			continue
		}
		if frag, ok := classifyFragment(msg); ok {
			fragments = append(fragments, frag)
		}
	}
}
