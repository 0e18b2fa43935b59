package dialer

import (
	"errors"
	"fmt"
	"io"
)

// MaxCommandLen is the longest accepted command line, excluding the newline.
const MaxCommandLen = 63

// Reader assembles operator commands one keystroke at a time from a stream
// in cbreak mode (or a redirected script file) and hands complete lines to
// the dispatcher.
type Reader struct {
	in     io.Reader
	status io.Writer

	// run executes a command line and reports whether the session is done.
	run func(string) bool
	// help renders the command reference; bound to a lone '?' keystroke.
	help func()
}

// NewReader builds a reader over in, prompting and reporting on status.
func NewReader(in io.Reader, status io.Writer, run func(string) bool, help func()) *Reader {
	return &Reader{in: in, status: status, run: run, help: help}
}

// Loop reads until the dispatcher signals quit or the input ends. End of
// input is a clean termination, so a piped script does not need a trailing
// "q". The returned error is nil for both clean paths.
func (r *Reader) Loop() error {
	buf := make([]byte, 0, MaxCommandLen)
	// After an overload the rest of the physical line is discarded, so a
	// truncated tail can never execute as a command of its own.
	discarding := false

	fmt.Fprint(r.status, ">")

	one := make([]byte, 1)
	for {
		n, err := r.in.Read(one)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input read failed: %w", err)
		}
		if n == 0 {
			continue
		}
		c := one[0]

		if discarding {
			if c == '\n' {
				discarding = false
				buf = buf[:0]
				fmt.Fprint(r.status, ">")
			}
			continue
		}

		switch c {
		case '\n':
			if r.run(string(buf)) {
				return nil
			}
			buf = buf[:0]
			fmt.Fprint(r.status, ">")
		case '?':
			r.help()
			buf = buf[:0]
			fmt.Fprint(r.status, ">")
		default:
			if len(buf) >= MaxCommandLen {
				fmt.Fprintln(r.status, "Command too long")
				discarding = true
				continue
			}
			buf = append(buf, c)
		}
	}
}
