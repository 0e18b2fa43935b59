package dialer

// MaxLines is the number of addressable lines. Commands select them 1..9.
const MaxLines = 9

// Line is one logical telephone endpoint on the switch under test.
// Device and DialString are derived from the line number and configuration
// whenever the line is taken off hook; Channel names the live call leg on
// the switch and is only meaningful while OffHook is set.
type Line struct {
	ID         int
	Device     string
	DialString string
	Channel    string
	OffHook    bool
}

// Registry is the fixed table of line state. Slot 0 is left unused so the
// table can be indexed with the operator-facing 1-based line numbers.
//
// The registry is pure data: it never talks to the switch, and all mutation
// happens on the session's single command path, so there is no locking.
type Registry struct {
	lines [MaxLines + 1]Line
}

// NewRegistry returns a registry with every line on hook.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := 1; i <= MaxLines; i++ {
		r.lines[i].ID = i
	}
	return r
}

// Valid reports whether n addresses a line.
func (r *Registry) Valid(n int) bool {
	return n >= 1 && n <= MaxLines
}

// Line returns the line with the given number. Callers must have validated n.
func (r *Registry) Line(n int) *Line {
	return &r.lines[n]
}

// GoOffHook marks line n active with its freshly derived endpoint strings.
// The channel reference stays empty until resolution succeeds.
func (r *Registry) GoOffHook(n int, device, dialString string) {
	line := &r.lines[n]
	line.Device = device
	line.DialString = dialString
	line.OffHook = true
}

// GoOnHook returns line n to idle and drops its channel reference, keeping
// the invariant that a channel ref exists only while off hook.
func (r *Registry) GoOnHook(n int) {
	line := &r.lines[n]
	line.OffHook = false
	line.Channel = ""
}

// SetChannel records the resolved channel for an off-hook line.
func (r *Registry) SetChannel(n int, channel string) {
	if r.lines[n].OffHook {
		r.lines[n].Channel = channel
	}
}

// OffHookLines returns the active lines in ascending line-number order, so
// bulk hangup and teardown release lines deterministically.
func (r *Registry) OffHookLines() []*Line {
	var active []*Line
	for i := 1; i <= MaxLines; i++ {
		if r.lines[i].OffHook {
			active = append(active, &r.lines[i])
		}
	}
	return active
}
