package dialer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"multidialer/internal/ami"
	"multidialer/internal/config"
	"multidialer/pkg/logging"
)

const subsystem = "dialer"

// Controller is the slice of the manager session the dispatcher drives.
// *ami.Client satisfies it; tests substitute a mock.
type Controller interface {
	Originate(channel, context, exten, priority string) error
	CoreShowChannels() ([]ami.Channel, error)
	Hangup(channel string, cause int) error
	SendFlash(channel string) error
	PlayDTMF(channel string, digit byte) error
}

// Dispatcher validates tokenized commands against the line registry,
// executes them against the controller, and folds the outcome back into
// registry state. Status lines for the operator go to out (stderr, so they
// stay separate from banner/help on stdout).
type Dispatcher struct {
	registry *Registry
	ctrl     Controller
	lines    config.LinesConfig
	out      io.Writer

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewDispatcher wires a dispatcher to its registry and controller.
func NewDispatcher(registry *Registry, ctrl Controller, lines config.LinesConfig, out io.Writer) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		ctrl:     ctrl,
		lines:    lines,
		out:      out,
		sleep:    time.Sleep,
	}
}

// Run tokenizes and executes one command line. It returns true when the
// session should terminate.
func (d *Dispatcher) Run(input string) bool {
	cmd, err := Tokenize(input)
	if err != nil {
		fmt.Fprintln(d.out, styleFail.Render(capitalize(err.Error())))
		return false
	}
	return d.Execute(cmd)
}

// Execute runs one tokenized command. The verb switch is exhaustive: adding
// a Verb without a case here is a compile-visible hole, not a silent fall
// through to the switch's remote side.
func (d *Dispatcher) Execute(cmd Command) bool {
	if cmd.Selector != 0 {
		d.executeLine(cmd)
		return false
	}

	switch cmd.Verb {
	case VerbNone:
	case VerbSleep:
		d.doSleep(cmd.Args, time.Second)
	case VerbSleepMs:
		d.doSleep(cmd.Args, time.Millisecond)
	case VerbHangupAll:
		d.HangupAll()
	case VerbQuit:
		return true
	case VerbAnswer, VerbOriginate, VerbHangup, VerbFlash, VerbDial, VerbPlay, VerbUnknown:
		fmt.Fprintf(d.out, "Unknown global command '%s'\n", cmd.Raw)
	}
	return false
}

func (d *Dispatcher) executeLine(cmd Command) {
	n := cmd.Selector

	switch cmd.Verb {
	case VerbAnswer, VerbPlay:
		fmt.Fprintln(d.out, "Not implemented yet")
	case VerbOriginate:
		d.doOriginate(n)
	case VerbHangup:
		d.doHangup(n)
	case VerbFlash:
		d.doFlash(n)
	case VerbDial:
		d.doDial(n, cmd.Args)
	case VerbNone, VerbSleep, VerbSleepMs, VerbHangupAll, VerbQuit, VerbUnknown:
		fmt.Fprintf(d.out, "Unknown line command '%s'\n", cmd.Raw)
	}
}

// deviceName is the local endpoint for line n; active channels for the line
// carry it as a name prefix.
func (d *Dispatcher) deviceName(n int) string {
	return fmt.Sprintf("PJSIP/%s%d", d.lines.PeerPrefix, n)
}

// dialString is the originate target for line n: the PLAR code at the
// line's peer.
func (d *Dispatcher) dialString(n int) string {
	return fmt.Sprintf("PJSIP/%s@%s%d", d.lines.PlarCode, d.lines.PeerPrefix, n)
}

func (d *Dispatcher) doOriginate(n int) {
	device := d.deviceName(n)
	dialString := d.dialString(n)

	err := d.ctrl.Originate(dialString, d.lines.Context, d.lines.Extension, "1")
	if err != nil {
		logging.Debug(subsystem, "originate on line %d: %v", n, err)
		fmt.Fprintln(d.out, styleFail.Render(fmt.Sprintf("Failed to go off hook on line %d", n)))
		return
	}

	d.registry.GoOffHook(n, device, dialString)
	if d.resolveChannel(n) {
		fmt.Fprintln(d.out, styleOK.Render("OK"))
	}
}

// resolveChannel finds the channel the originate created. The Originate
// response does not name the new channel, so the active channel list is
// scanned for the first name carrying this line's device prefix. With one
// call leg per line that match is unique; the line stays off hook either
// way, so a resolution failure degrades rather than desynchronizes.
func (d *Dispatcher) resolveChannel(n int) bool {
	line := d.registry.Line(n)

	channels, err := d.ctrl.CoreShowChannels()
	if err != nil {
		logging.Debug(subsystem, "channel listing: %v", err)
		fmt.Fprintln(d.out, styleFail.Render("Failed to show channels"))
		return false
	}

	for _, ch := range channels {
		if strings.HasPrefix(ch.Name, line.Device) {
			d.registry.SetChannel(n, ch.Name)
			logging.Debug(subsystem, "line %d resolved to channel %s", n, ch.Name)
			return true
		}
	}

	fmt.Fprintln(d.out, styleFail.Render(fmt.Sprintf("Failed to find channel for %s", line.Device)))
	return false
}

func (d *Dispatcher) doHangup(n int) {
	line := d.registry.Line(n)
	if !line.OffHook {
		fmt.Fprintln(d.out, "Can't do this action on on-hook line")
		return
	}

	if err := d.ctrl.Hangup(line.Channel, ami.CauseNormalClearing); err != nil {
		// Deliberately stays marked off hook: the line was not released
		// and the operator must not be told otherwise.
		logging.Debug(subsystem, "hangup on line %d: %v", n, err)
		fmt.Fprintln(d.out, styleFail.Render(fmt.Sprintf("Failed to go on hook on line %d", n)))
		return
	}
	d.registry.GoOnHook(n)
	fmt.Fprintln(d.out, styleOK.Render("OK"))
}

func (d *Dispatcher) doFlash(n int) {
	line := d.registry.Line(n)
	if !line.OffHook {
		fmt.Fprintln(d.out, "Can't do this action on on-hook line")
		return
	}

	if err := d.ctrl.SendFlash(line.Channel); err != nil {
		logging.Debug(subsystem, "flash on line %d: %v", n, err)
		fmt.Fprintln(d.out, styleFail.Render(fmt.Sprintf("Failed to send flash on line %d", n)))
		return
	}
	fmt.Fprintln(d.out, styleOK.Render("OK"))
}

func (d *Dispatcher) doDial(n int, args string) {
	line := d.registry.Line(n)
	if !line.OffHook {
		fmt.Fprintln(d.out, "Can't do this action on on-hook line")
		return
	}

	if args == "" {
		fmt.Fprintln(d.out, "Missing dial type (t or p)")
		return
	}

	switch strings.ToLower(args[:1]) { // subtype is case-insensitive like the verb
	case "t":
		// One PlayDTMF request per digit, in order, without pacing; the
		// channel queues the digits remotely.
		for i := 1; i < len(args); i++ {
			if err := d.ctrl.PlayDTMF(line.Channel, args[i]); err != nil {
				logging.Debug(subsystem, "DTMF %q on line %d: %v", args[i], n, err)
				fmt.Fprintln(d.out, styleFail.Render(fmt.Sprintf("Failed to play digit '%c' on line %d", args[i], n)))
			}
		}
	case "p":
		fmt.Fprintln(d.out, "Dial pulse not yet supported")
	default:
		fmt.Fprintf(d.out, "Invalid dial type %c\n", args[0])
	}
}

// HangupAll releases every off-hook line in ascending line order. One
// line's failure does not stop the sweep; failed lines stay off hook.
func (d *Dispatcher) HangupAll() {
	for _, line := range d.registry.OffHookLines() {
		if err := d.ctrl.Hangup(line.Channel, ami.CauseNormalClearing); err != nil {
			logging.Debug(subsystem, "hangup on line %d: %v", line.ID, err)
			fmt.Fprintln(d.out, styleFail.Render(fmt.Sprintf("Failed to hang up line %d", line.ID)))
			continue
		}
		d.registry.GoOnHook(line.ID)
		fmt.Fprintf(d.out, "Hung up line %d\n", line.ID)
	}
}

func (d *Dispatcher) doSleep(args string, unit time.Duration) {
	value, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || value < 0 {
		fmt.Fprintf(d.out, "Invalid sleep duration '%s'\n", args)
		return
	}
	d.sleep(time.Duration(value) * unit)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
