package dialer

import (
	"errors"
	"strings"
	"unicode"
)

// Verb is the closed set of operations the command language knows. The
// tokenizer classifies, the dispatcher switches exhaustively; an unmatched
// token becomes VerbUnknown rather than a parse failure so the session
// keeps running.
type Verb int

const (
	// VerbNone is an empty or comment-only command; a no-op.
	VerbNone Verb = iota

	// Line verbs (require a selector).
	VerbAnswer
	VerbOriginate
	VerbHangup
	VerbFlash
	VerbDial
	VerbPlay

	// Global verbs.
	VerbSleep
	VerbSleepMs
	VerbHangupAll
	VerbQuit

	VerbUnknown
)

// Command is one tokenized operator command.
type Command struct {
	// Selector is the line number, or 0 for a global command.
	Selector int
	Verb     Verb
	// Args is the raw tail after the verb token. For dial it starts with
	// the subtype character and is deliberately not trimmed: every
	// remaining character is a digit to play.
	Args string
	// Raw preserves the unrecognized token for error reporting.
	Raw string
}

// ErrLineRange rejects selectors outside 1..9, including the "0o" form,
// which is an addressing error rather than a global command.
var ErrLineRange = errors.New("line number must be between 1 and 9")

// Tokenize parses one logical command line.
//
// Comments start at ';' (not '#', which is a diallable DTMF digit). A
// leading digit run selects a line; without one the command is global. The
// verb is case-insensitive.
func Tokenize(input string) (Command, error) {
	// Scripts fed via stdin may carry CRLF endings.
	input = strings.TrimRight(input, " \t\r")

	if idx := strings.IndexByte(input, ';'); idx >= 0 {
		input = strings.TrimRight(input[:idx], " \t")
	}

	if input == "" {
		return Command{Verb: VerbNone}, nil
	}

	if input[0] >= '0' && input[0] <= '9' {
		return tokenizeLine(input)
	}
	return tokenizeGlobal(input), nil
}

func tokenizeLine(input string) (Command, error) {
	n := 0
	i := 0
	for i < len(input) && input[i] >= '0' && input[i] <= '9' {
		n = n*10 + int(input[i]-'0')
		if n > MaxLines {
			return Command{}, ErrLineRange
		}
		i++
	}
	if n == 0 {
		return Command{}, ErrLineRange
	}

	rest := strings.TrimLeft(input[i:], " \t")
	if rest == "" {
		return Command{Selector: n, Verb: VerbUnknown}, nil
	}

	verb := unicode.ToLower(rune(rest[0]))
	args := rest[1:]
	cmd := Command{Selector: n, Args: args, Raw: rest}
	switch verb {
	case 'a':
		cmd.Verb = VerbAnswer
	case 'o':
		cmd.Verb = VerbOriginate
	case 'h':
		cmd.Verb = VerbHangup
	case 'f':
		cmd.Verb = VerbFlash
	case 'd':
		cmd.Verb = VerbDial
	case 'p':
		cmd.Verb = VerbPlay
	default:
		cmd.Verb = VerbUnknown
	}
	return cmd, nil
}

func tokenizeGlobal(input string) Command {
	lower := strings.ToLower(input)
	switch {
	case lower == "q":
		return Command{Verb: VerbQuit, Raw: input}
	case lower == "k":
		return Command{Verb: VerbHangupAll, Raw: input}
	case strings.HasPrefix(lower, "ms"):
		return Command{Verb: VerbSleepMs, Args: strings.TrimLeft(input[2:], " \t"), Raw: input}
	case strings.HasPrefix(lower, "s"):
		return Command{Verb: VerbSleep, Args: strings.TrimLeft(input[1:], " \t"), Raw: input}
	default:
		return Command{Verb: VerbUnknown, Raw: input}
	}
}
