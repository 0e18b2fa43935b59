//go:build unix

// Package term provides the one terminal primitive the dialer needs:
// switching stdin to a cbreak-style mode (no line buffering, no echo) and
// restoring the saved state afterwards.
//
// This is deliberately not term.MakeRaw: raw mode also clears ISIG, and the
// dialer relies on ^C delivering SIGINT so the session can restore the
// terminal and release lines before exiting.
package term

import (
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// State holds the terminal settings captured before modification.
type State struct {
	termios unix.Termios
}

// IsTerminal reports whether fd refers to a terminal. When stdin is a
// redirected script file there is nothing to configure or restore.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// MakeCbreak disables canonical input and echo on fd and returns the prior
// state. Signal generation stays enabled.
func MakeCbreak(fd int) (*State, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}
	saved := *termios

	termios.Lflag &^= unix.ICANON | unix.ECHO
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, termios); err != nil {
		return nil, err
	}

	return &State{termios: saved}, nil
}

// Restore puts fd back into the captured state. Restoring to a snapshot is
// idempotent, so concurrent teardown paths may both call it.
func Restore(fd int, state *State) error {
	if state == nil {
		return nil
	}
	termios := state.termios
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, &termios)
}
