package ami

import (
	"bufio"
	"fmt"
	"strings"
)

// Message is a single AMI frame: an unordered set of "Key: Value" headers
// terminated by a blank line. The same shape carries action responses and
// unsolicited events.
type Message map[string]string

// Get returns the value for key, matching case-insensitively. Asterisk is
// not consistent about header casing (ActionID vs ActionId) across versions.
func (m Message) Get(key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// IsResponse reports whether the frame answers an action.
func (m Message) IsResponse() bool {
	return m.Get("Response") != ""
}

// Success reports whether a response frame indicates success.
func (m Message) Success() bool {
	return strings.EqualFold(m.Get("Response"), "Success")
}

// Event returns the event name, or "" for response frames.
func (m Message) Event() string {
	return m.Get("Event")
}

// readMessage reads one frame from r. It returns an empty, non-nil Message
// for a lone blank line so a confused peer cannot desynchronize the pump.
func readMessage(r *bufio.Reader) (Message, error) {
	msg := make(Message)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return msg, nil
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			// Output of some actions (e.g. Command) is not key/value;
			// keep the raw line so callers can still see it.
			msg["--raw--"] += line + "\n"
			continue
		}
		msg[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
}

// header is one ordered key/value pair of an outbound action. Order matters
// on the wire: Action must come first.
type header struct {
	key   string
	value string
}

// marshalAction serializes an action frame.
func marshalAction(action, actionID string, headers []header) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Action: %s\r\n", action)
	fmt.Fprintf(&b, "ActionID: %s\r\n", actionID)
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h.key, h.value)
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}
