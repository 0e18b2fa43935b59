package dialer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_FreshState(t *testing.T) {
	r := NewRegistry()

	assert.Empty(t, r.OffHookLines())
	for i := 1; i <= MaxLines; i++ {
		line := r.Line(i)
		assert.Equal(t, i, line.ID)
		assert.False(t, line.OffHook)
		assert.Empty(t, line.Channel)
	}
}

func TestRegistry_Valid(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.Valid(0))
	assert.True(t, r.Valid(1))
	assert.True(t, r.Valid(9))
	assert.False(t, r.Valid(10))
	assert.False(t, r.Valid(-3))
}

func TestRegistry_HookTransitions(t *testing.T) {
	r := NewRegistry()

	r.GoOffHook(3, "PJSIP/autotest3", "PJSIP/01@autotest3")
	line := r.Line(3)
	assert.True(t, line.OffHook)
	assert.Equal(t, "PJSIP/autotest3", line.Device)
	assert.Equal(t, "PJSIP/01@autotest3", line.DialString)
	assert.Empty(t, line.Channel, "channel must stay empty until resolved")

	r.SetChannel(3, "PJSIP/autotest3-00000001")
	assert.Equal(t, "PJSIP/autotest3-00000001", line.Channel)

	r.GoOnHook(3)
	assert.False(t, line.OffHook)
	assert.Empty(t, line.Channel, "on-hook line must not keep a channel ref")
}

func TestRegistry_SetChannelIgnoredWhileOnHook(t *testing.T) {
	r := NewRegistry()

	r.SetChannel(5, "PJSIP/autotest5-00000002")
	assert.Empty(t, r.Line(5).Channel)
}

func TestRegistry_OffHookLinesAscending(t *testing.T) {
	r := NewRegistry()

	// Take lines off hook out of order; iteration must still ascend.
	for _, n := range []int{7, 2, 9, 4} {
		r.GoOffHook(n, "", "")
	}

	var ids []int
	for _, line := range r.OffHookLines() {
		ids = append(ids, line.ID)
	}
	assert.Equal(t, []int{2, 4, 7, 9}, ids)
}
