package wm_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tilewm/internal/wm"
)

func TestBusFiltersAndDrops(t *testing.T) {
	bus := wm.NewBus(slog.New(slog.DiscardHandler))
	focus, cancelFocus := bus.Subscribe(wm.EventFocusChanged)
	all, cancelAll := bus.Subscribe()

	for range 70 {
		bus.Publish(wm.Event{Type: wm.EventFocusChanged})
	}
	bus.Publish(wm.Event{Type: wm.EventPauseChanged})

	assert.Len(t, focus, 64)
	assert.Len(t, all, 64)

	cancelFocus()
	cancelFocus()
	count := 0
	for range focus {
		count++
	}
	assert.Equal(t, 64, count)

	for range 64 {
		<-all
	}
	bus.Publish(wm.Event{Type: wm.EventPauseChanged})
	ev := <-all
	assert.Equal(t, wm.EventPauseChanged, ev.Type)
	cancelAll()
}

func TestPauseEmitsEvent(t *testing.T) {
	h := newHarness(t, nil)
	events, cancel := h.bus.Subscribe(wm.EventPauseChanged)
	defer cancel()

	h.state.SetPaused(true)
	h.state.SetPaused(true)
	h.state.SetPaused(false)

	ev := <-events
	require.NotNil(t, ev.IsPaused)
	assert.True(t, *ev.IsPaused)
	ev = <-events
	assert.False(t, *ev.IsPaused)
	assert.Empty(t, events)
}

func TestFocusChangeEventCarriesContainer(t *testing.T) {
	h := newHarness(t, nil)
	events, cancel := h.bus.Subscribe(wm.EventFocusChanged)
	defer cancel()

	native := h.manage(t, 10)
	h.sync(t)

	ev := <-events
	require.NotNil(t, ev.FocusedContainer)
	assert.Equal(t, uint32(native.ID()), ev.FocusedContainer.Handle)
	assert.True(t, ev.FocusedContainer.HasFocus)
}

func TestParseEventType(t *testing.T) {
	got, ok := wm.ParseEventType("window_managed")
	assert.True(t, ok)
	assert.Equal(t, wm.EventWindowManaged, got)

	_, ok = wm.ParseEventType("all")
	assert.False(t, ok)
}
