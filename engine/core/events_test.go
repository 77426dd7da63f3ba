package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEvents(t *testing.T) {
	t.Helper()
	require.True(t, EventInitialize())
	t.Cleanup(func() { _ = EventShutdown() })
}

func TestEventFireStopsAtHandler(t *testing.T) {
	withEvents(t)
	var calls []string
	first := func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		calls = append(calls, "first")
		return data.Data.U32[0] == 1
	}
	second := func(code SystemEventCode, sender, listener interface{}, data EventContext) bool {
		calls = append(calls, "second")
		return true
	}
	require.True(t, EventRegister(EVENT_CODE_RESIZED, "a", first))
	require.True(t, EventRegister(EVENT_CODE_RESIZED, "b", second))

	var ctx EventContext
	ctx.Data.U32[0] = 1
	assert.True(t, EventFire(EVENT_CODE_RESIZED, nil, ctx))
	assert.Equal(t, []string{"first"}, calls)

	ctx.Data.U32[0] = 2
	assert.True(t, EventFire(EVENT_CODE_RESIZED, nil, ctx))
	assert.Equal(t, []string{"first", "first", "second"}, calls)

	assert.False(t, EventFire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}))
}

func TestEventRegisterRejectsDuplicates(t *testing.T) {
	withEvents(t)
	handler := func(SystemEventCode, interface{}, interface{}, EventContext) bool { return false }
	assert.True(t, EventRegister(EVENT_CODE_KEY_PRESSED, "l", handler))
	assert.False(t, EventRegister(EVENT_CODE_KEY_PRESSED, "l", handler))
	assert.True(t, EventRegister(EVENT_CODE_KEY_PRESSED, "other", handler))
	assert.False(t, EventRegister(EVENT_CODE_KEY_PRESSED, "l", nil))
	assert.False(t, EventRegister(MAX_MESSAGE_CODES, "l", handler))
}

func TestEventUnregister(t *testing.T) {
	withEvents(t)
	fired := 0
	handler := func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		fired++
		return false
	}
	require.True(t, EventRegister(EVENT_CODE_STYLE_RELOADED, "l", handler))
	assert.True(t, EventUnregister(EVENT_CODE_STYLE_RELOADED, "l", handler))
	assert.False(t, EventUnregister(EVENT_CODE_STYLE_RELOADED, "l", handler))

	EventFire(EVENT_CODE_STYLE_RELOADED, nil, EventContext{})
	assert.Equal(t, 0, fired)
}

func TestEventsBeforeInitialize(t *testing.T) {
	handler := func(SystemEventCode, interface{}, interface{}, EventContext) bool { return true }
	assert.False(t, EventRegister(EVENT_CODE_APPLICATION_QUIT, nil, handler))
	assert.False(t, EventFire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}))

	withEvents(t)
	assert.False(t, EventInitialize())
}
