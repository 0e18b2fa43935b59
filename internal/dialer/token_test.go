package dialer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_LineCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{"originate", "1o", Command{Selector: 1, Verb: VerbOriginate, Raw: "o"}},
		{"originate with whitespace", "2 o", Command{Selector: 2, Verb: VerbOriginate, Raw: "o"}},
		{"uppercase verb", "3O", Command{Selector: 3, Verb: VerbOriginate, Raw: "O"}},
		{"hangup", "9h", Command{Selector: 9, Verb: VerbHangup, Raw: "h"}},
		{"flash", "4f", Command{Selector: 4, Verb: VerbFlash, Raw: "f"}},
		{"answer", "3a", Command{Selector: 3, Verb: VerbAnswer, Raw: "a"}},
		{"play", "1p custom/beep", Command{Selector: 1, Verb: VerbPlay, Args: " custom/beep", Raw: "p custom/beep"}},
		{"dial keeps tail raw", "1dt47", Command{Selector: 1, Verb: VerbDial, Args: "t47", Raw: "dt47"}},
		{"dial pound and star", "1dt#*", Command{Selector: 1, Verb: VerbDial, Args: "t#*", Raw: "dt#*"}},
		{"unknown line verb", "1x", Command{Selector: 1, Verb: VerbUnknown, Args: "", Raw: "x"}},
		{"selector only", "5", Command{Selector: 5, Verb: VerbUnknown}},
		{"comment stripped", "1o ; take line 1 off hook", Command{Selector: 1, Verb: VerbOriginate, Raw: "o"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_GlobalCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{"quit", "q", Command{Verb: VerbQuit, Raw: "q"}},
		{"quit uppercase", "Q", Command{Verb: VerbQuit, Raw: "Q"}},
		{"hangup all", "k", Command{Verb: VerbHangupAll, Raw: "k"}},
		{"sleep", "s5", Command{Verb: VerbSleep, Args: "5", Raw: "s5"}},
		{"sleep with whitespace", "s 5", Command{Verb: VerbSleep, Args: "5", Raw: "s 5"}},
		{"sleep ms", "ms750", Command{Verb: VerbSleepMs, Args: "750", Raw: "ms750"}},
		{"sleep ms uppercase", "MS750", Command{Verb: VerbSleepMs, Args: "750", Raw: "MS750"}},
		{"unknown", "x", Command{Verb: VerbUnknown, Raw: "x"}},
		{"empty", "", Command{Verb: VerbNone}},
		{"comment only", "; nothing here", Command{Verb: VerbNone}},
		{"trailing CR from CRLF script", "q\r", Command{Verb: VerbQuit, Raw: "q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_SelectorRange(t *testing.T) {
	// "0o" addresses a line that does not exist; it must be a range error,
	// not a global command.
	for _, input := range []string{"0o", "0", "10o", "99h", "12dt5"} {
		t.Run(input, func(t *testing.T) {
			_, err := Tokenize(input)
			assert.ErrorIs(t, err, ErrLineRange)
		})
	}
}
