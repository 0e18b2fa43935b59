package dialer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the operator surface. Colors follow the usual semantic pairs
// with light/dark terminal support.
var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{
		Light: "#5A56E0",
		Dark:  "#7571F9",
	})
	styleSection = lipgloss.NewStyle().Bold(true)
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#059669",
		Dark:  "#10B981",
	})
	styleFail = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#DC2626",
		Dark:  "#EF4444",
	})
)

const termClear = "\x1b[1;1H\x1b[2J"

// PrintBanner clears the screen and prints the startup banner.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, termClear)
	fmt.Fprintln(w, styleTitle.Render("*** multidialer ***"))
	fmt.Fprintln(w, "Press ? for help")
}

// PrintHelp prints the in-band command reference. Triggered by a single '?'
// keystroke at any point of command entry.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, "\r")
	fmt.Fprintln(w, "Usage: [<line #>] command [arguments]")
	fmt.Fprintln(w, styleSection.Render("-- Line Actions (lines 1-9) --"))
	fmt.Fprintln(w, "o     - Go off hook")
	fmt.Fprintln(w, "dt    - Dial digits using DTMF")
	fmt.Fprintln(w, "dp    - Dial digits using pulse dialing (not supported currently)")
	fmt.Fprintln(w, "a     - Answer incoming call (not supported currently)")
	fmt.Fprintln(w, "f     - Hook flash")
	fmt.Fprintln(w, "h     - Go on hook")
	fmt.Fprintln(w, "p     - Play audio file (not supported currently)")
	fmt.Fprintln(w, styleSection.Render("-- General Actions --"))
	fmt.Fprintln(w, "k     - Hang up all active lines")
	fmt.Fprintln(w, "s     - Sleep for N seconds")
	fmt.Fprintln(w, "ms    - Sleep for N milliseconds")
	fmt.Fprintln(w, "q     - Quit")
	fmt.Fprintln(w, styleSection.Render("-- Examples --"))
	fmt.Fprintln(w, "1o             ; originate on line 1")
	fmt.Fprintln(w, "2 o            ; originate on line 2 (whitespace is ignored)")
	fmt.Fprintln(w, "1dt47          ; dial DTMF 47 on line 1")
	fmt.Fprintln(w, "ms750          ; sleep for 750ms")
}
