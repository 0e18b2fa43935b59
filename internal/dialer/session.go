package dialer

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"multidialer/internal/term"
	"multidialer/pkg/logging"
)

// LineController widens Controller with the session-scoped close.
type LineController interface {
	Controller
	Close()
}

// Session owns the interactive loop's lifecycle: terminal mode, signal
// handling, and the guarantee that teardown (restore terminal, release all
// lines, close the manager session) runs exactly once no matter which path
// ends the session.
type Session struct {
	dispatcher *Dispatcher
	ctrl       LineController

	in     io.Reader
	out    io.Writer // banner/help, stdout
	status io.Writer // prompts and per-command status, stderr

	// Terminal and process hooks, swapped out in tests.
	stdinFd    int
	isTerminal func(int) bool
	makeCbreak func(int) (*term.State, error)
	restore    func(int, *term.State) error
	exit       func(int)

	saved        *term.State
	teardownOnce sync.Once
}

// NewSession builds a session over the real stdin/stdout/stderr.
func NewSession(dispatcher *Dispatcher, ctrl LineController) *Session {
	return &Session{
		dispatcher: dispatcher,
		ctrl:       ctrl,
		in:         os.Stdin,
		out:        os.Stdout,
		status:     os.Stderr,
		stdinFd:    int(os.Stdin.Fd()),
		isTerminal: term.IsTerminal,
		makeCbreak: term.MakeCbreak,
		restore:    term.Restore,
		exit:       os.Exit,
	}
}

// Run drives the session to completion: configure the terminal, loop on
// input, tear down. A nil return means a graceful quit ('q' or end of a
// piped script).
func (s *Session) Run() error {
	// A redirected script is not a terminal; there is nothing to
	// configure and nothing to restore.
	if s.isTerminal(s.stdinFd) {
		saved, err := s.makeCbreak(s.stdinFd)
		if err != nil {
			return fmt.Errorf("failed to configure terminal: %w", err)
		}
		s.saved = saved
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Debug("session", "caught %v, tearing down", sig)
			fmt.Fprintln(s.status)
			s.Teardown()
			s.exit(1)
		case <-done:
		}
	}()

	reader := NewReader(s.in, s.status, s.dispatcher.Run, func() {
		PrintHelp(s.out)
		fmt.Fprintln(s.out)
	})
	loopErr := reader.Loop()

	s.Teardown()
	return loopErr
}

// HandleDisconnect is registered as the manager connection's disconnect
// callback. It runs on the connection's read goroutine, possibly while the
// main loop has a request in flight; teardown is once-guarded and restores
// to a snapshot, so the race is harmless.
func (s *Session) HandleDisconnect() {
	fmt.Fprintln(s.status, "\nAMI was forcibly disconnected...")
	s.Teardown()
	s.exit(1)
}

// Teardown restores the terminal, releases every off-hook line in ascending
// order (tolerating per-line failures), and closes the manager session.
// Safe to call from any path, concurrently or repeatedly; only the first
// call acts.
func (s *Session) Teardown() {
	s.teardownOnce.Do(func() {
		if s.saved != nil {
			if err := s.restore(s.stdinFd, s.saved); err != nil {
				logging.Warn("session", "failed to restore terminal: %v", err)
			}
			fmt.Fprintln(s.status)
		}
		s.dispatcher.HangupAll()
		s.ctrl.Close()
		fmt.Fprintln(s.status, "multidialer exiting...")
	})
}
