// Package ami implements the subset of the Asterisk Manager Interface the
// dialer needs: one authenticated TCP session, synchronous actions, and a
// background pump that discards the event stream except for the frames a
// pending list action is collecting.
package ami

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"multidialer/pkg/logging"
)

const subsystem = "ami"

// pendingAction tracks the single in-flight action awaiting its response.
type pendingAction struct {
	id string
	// terminator is the event name that completes a list response
	// (e.g. CoreShowChannelsComplete); empty for plain actions.
	terminator string
	resp       Message
	events     []Message
	done       chan error
}

// Client is a connection to an Asterisk manager port. Actions are strictly
// serialized: one request blocks until its response arrives, with no
// timeout, matching the one-operator model of the dialer. An unresponsive
// switch therefore stalls the whole session; that is accepted for a manual
// test tool.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader

	// actionMu serializes request/response round trips.
	actionMu sync.Mutex

	// mu guards pending.
	mu      sync.Mutex
	pending *pendingAction

	actionSeq  atomic.Uint64
	debugLevel int

	// handlerMu guards onDisconnect, which may be replaced after connect
	// (SetDisconnectHandler) while the pump is running.
	handlerMu    sync.Mutex
	onDisconnect func()

	// pumpDone is closed when the read pump exits, so actions issued
	// during teardown fail instead of waiting forever on a dead socket.
	pumpDone chan struct{}

	closeOnce sync.Once
	closing   atomic.Bool
}

// Connect dials the manager port and consumes the protocol banner. The
// onDisconnect callback fires once if the peer drops the connection; it is
// never invoked after Close.
func Connect(host string, port int, onDisconnect func()) (*Client, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return newClient(conn, onDisconnect)
}

// newClient wraps an established manager connection. Split out from Connect
// so tests can run the protocol over an in-memory pipe.
func newClient(conn net.Conn, onDisconnect func()) (*Client, error) {
	c := &Client{
		conn:         conn,
		reader:       bufio.NewReader(conn),
		onDisconnect: onDisconnect,
		pumpDone:     make(chan struct{}),
	}

	banner, err := c.reader.ReadString('\n')
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read AMI banner: %w", err)
	}
	banner = strings.TrimRight(banner, "\r\n")
	if !strings.HasPrefix(banner, "Asterisk Call Manager") {
		conn.Close()
		return nil, fmt.Errorf("unexpected AMI banner %q", banner)
	}
	logging.Debug(subsystem, "connected (%s)", banner)

	go c.pump()
	return c, nil
}

// SetDebugLevel raises protocol tracing verbosity. Level 1 traces actions
// and responses, level 2 and up also traces discarded events.
func (c *Client) SetDebugLevel(level int) {
	c.debugLevel = level
}

// SetDisconnectHandler replaces the disconnect callback installed at connect
// time. Safe to call while the pump is running: the pump takes the same lock
// before invoking the handler, so after this returns the old handler can no
// longer fire.
func (c *Client) SetDisconnectHandler(fn func()) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	c.onDisconnect = fn
}

// pump owns the read side of the connection. Response frames are routed to
// the pending action; everything else is discarded.
func (c *Client) pump() {
	for {
		msg, err := readMessage(c.reader)
		if err != nil {
			c.mu.Lock()
			p := c.pending
			c.pending = nil
			c.mu.Unlock()
			if p != nil {
				p.done <- fmt.Errorf("connection lost awaiting response: %w", err)
			}
			// Mark the client dead before running the handler. The
			// disconnect handler tears the session down through this
			// same client, and those actions must fail fast rather
			// than wait on a pump that is sitting in the handler.
			close(c.pumpDone)
			c.handlerMu.Lock()
			handler := c.onDisconnect
			c.handlerMu.Unlock()
			if !c.closing.Load() && handler != nil {
				handler()
			}
			return
		}
		c.route(msg)
	}
}

func (c *Client) route(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pending
	if p == nil || msg.Get("ActionID") != p.id {
		// Unsolicited event (or a stray frame). Not our concern.
		if c.debugLevel >= 2 {
			logging.Debug(subsystem, "discarding event %q", msg.Event())
		}
		return
	}

	if msg.IsResponse() {
		p.resp = msg
		// An error response ends a list action immediately; a success
		// response with a terminator set means events follow.
		if p.terminator == "" || !msg.Success() {
			c.pending = nil
			p.done <- nil
		}
		return
	}

	if msg.Event() == p.terminator {
		c.pending = nil
		p.done <- nil
		return
	}
	p.events = append(p.events, msg)
}

// request performs one synchronous action round trip. If terminator is
// non-empty the response is a list: intermediate events with the same
// ActionID are collected until the terminator event arrives.
func (c *Client) request(action string, terminator string, headers ...header) (Message, []Message, error) {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	p := &pendingAction{
		id:         strconv.FormatUint(c.actionSeq.Add(1), 10),
		terminator: terminator,
		done:       make(chan error, 1),
	}

	c.mu.Lock()
	c.pending = p
	c.mu.Unlock()

	frame := marshalAction(action, p.id, headers)
	if c.debugLevel >= 1 {
		logging.Debug(subsystem, "--> %s (id %s)", action, p.id)
	}
	if _, err := c.conn.Write(frame); err != nil {
		c.mu.Lock()
		c.pending = nil
		c.mu.Unlock()
		return nil, nil, fmt.Errorf("failed to send %s: %w", action, err)
	}

	var err error
	select {
	case err = <-p.done:
	case <-c.pumpDone:
		// The pump may have delivered just before exiting.
		select {
		case err = <-p.done:
		default:
			err = fmt.Errorf("connection closed awaiting %s response", action)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	if c.debugLevel >= 1 {
		logging.Debug(subsystem, "<-- %s: %s", action, p.resp.Get("Response"))
	}
	return p.resp, p.events, nil
}

// simpleAction performs an action whose response is a lone success/error
// frame and converts an error response into an error value.
func (c *Client) simpleAction(action string, headers ...header) error {
	resp, _, err := c.request(action, "", headers...)
	if err != nil {
		return err
	}
	if !resp.Success() {
		reason := resp.Get("Message")
		if reason == "" {
			reason = "request rejected"
		}
		return fmt.Errorf("%s failed: %s", action, reason)
	}
	return nil
}

// Close logs off and tears down the connection. Best effort; safe to call
// from any teardown path, concurrently or repeatedly.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		// Logoff is a courtesy; the switch cleans up either way, so a
		// peer that has stopped reading must not stall teardown.
		frame := marshalAction("Logoff", strconv.FormatUint(c.actionSeq.Add(1), 10), nil)
		c.conn.SetWriteDeadline(time.Now().Add(time.Second))
		c.conn.Write(frame)
		c.conn.Close()
	})
}
