package wm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/wm"
)

func TestManageWindowPlacesNextToFocused(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	a := h.manage(t, 10)
	h.manage(t, 11)
	h.manage(t, 12)
	assert.Equal(t, []platform.WindowID{10, 11, 12}, childIDs(ws))

	h.handle(t, platform.WindowFocused{Window: a})
	d := h.manage(t, 13)

	assert.Equal(t, []platform.WindowID{10, 13, 11, 12}, childIDs(ws))
	assert.Same(t, h.window(t, d), h.state.FocusedContainer())
	assert.InDelta(t, 1.0, tilingSum(ws), 1e-9)
}

func TestManageWindowIgnoresKnownAndInvalid(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	a := h.manage(t, 10)
	h.handle(t, platform.WindowShown{Window: a})
	assert.Equal(t, 1, ws.ChildCount())

	stale := h.backend.AddWindow(11, geom.Rect{})
	stale.Invalidate()
	h.handle(t, platform.WindowShown{Window: stale})
	assert.Nil(t, h.state.WindowFromNative(stale))
}

func TestManageWindowInitialStates(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.WindowBehavior.InitialState = config.InitialFloating })
	w := h.window(t, h.manage(t, 10))
	assert.Equal(t, platform.StateFloating, w.State().Kind)
	assert.Equal(t, geom.Rect{X: 350, Y: 150, Width: 300, Height: 200}, w.FloatingPlacement())

	minimized := h.backend.AddWindow(11, geom.Rect{Width: 300, Height: 200})
	minimized.SetMinimized(true)
	h.handle(t, platform.WindowShown{Window: minimized})
	mw := h.window(t, minimized)
	assert.Equal(t, platform.StateMinimized, mw.State().Kind)
	assert.Same(t, w, h.state.FocusedContainer())
}

func TestManageWindowPublishesEvent(t *testing.T) {
	h := newHarness(t, nil)
	events, cancel := h.bus.Subscribe(wm.EventWindowManaged)
	defer cancel()

	native := h.manage(t, 10)

	ev := <-events
	require.NotNil(t, ev.ManagedWindow)
	assert.Equal(t, uint32(native.ID()), ev.ManagedWindow.Handle)
	assert.Equal(t, h.window(t, native).ID().String(), ev.ManagedWindow.ID)
}

func TestUnmanageFocusesMostRecentWindow(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	a := h.manage(t, 10)
	b := h.manage(t, 11)
	c := h.manage(t, 12)
	h.handle(t, platform.WindowFocused{Window: a})
	h.handle(t, platform.WindowFocused{Window: c})

	events, cancel := h.bus.Subscribe(wm.EventWindowUnmanaged)
	defer cancel()
	gone := h.window(t, c)
	h.handle(t, platform.WindowDestroyed{Window: c})

	assert.Nil(t, h.state.WindowFromNative(c))
	assert.Same(t, h.window(t, a), h.state.FocusedContainer())
	assert.Equal(t, []platform.WindowID{10, 11}, childIDs(ws))
	assert.InDelta(t, 1.0, tilingSum(ws), 1e-9)
	assert.NotNil(t, h.state.WindowFromNative(b))

	ev := <-events
	assert.Equal(t, gone.ID().String(), ev.UnmanagedID)
	assert.Equal(t, uint32(c.ID()), ev.UnmanagedHandle)
}

func TestUnmanageLastWindowFocusesWorkspace(t *testing.T) {
	h := newHarness(t, nil)
	a := h.manage(t, 10)
	h.handle(t, platform.WindowDestroyed{Window: a})
	assert.Same(t, container.Container(h.workspace(t, "1")), h.state.FocusedContainer())
}

func TestFocusOnHiddenWorkspaceActivatesIt(t *testing.T) {
	h := newHarness(t, nil)
	a := h.manage(t, 10)
	require.NoError(t, h.state.FocusWorkspace("2"))
	h.sync(t)

	events, cancel := h.bus.Subscribe(wm.EventWorkspaceActivated)
	defer cancel()
	h.handle(t, platform.WindowFocused{Window: a})

	assert.True(t, h.workspace(t, "1").IsDisplayed())
	redraw := h.state.Pending().ContainersToRedraw()
	assert.Contains(t, redraw, h.workspace(t, "1").ID())
	assert.Contains(t, redraw, h.workspace(t, "2").ID())
	ev := <-events
	require.NotNil(t, ev.Workspace)
	assert.Equal(t, "1", ev.Workspace.Name)
}

func TestUnmanagedEventsAreIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.sync(t)
	stranger := h.backend.AddWindow(99, geom.Rect{})
	for _, ev := range []platform.Event{
		platform.WindowHidden{Window: stranger},
		platform.WindowDestroyed{Window: stranger},
		platform.WindowFocused{Window: stranger},
		platform.WindowMinimized{Window: stranger},
		platform.WindowMinimizeEnded{Window: stranger},
		platform.WindowMovedOrResizedEnd{Window: stranger},
	} {
		h.handle(t, ev)
	}
	assert.False(t, h.state.Pending().NeedsSync())
}

func TestMovedOrResizedAloneSnapsBack(t *testing.T) {
	h := newHarness(t, nil)
	native := h.manage(t, 10)
	h.sync(t)
	w := h.window(t, native).(*container.TilingWindow)

	native.SetFrame(geom.Rect{X: 40, Y: 40, Width: 200, Height: 200})
	h.handle(t, platform.WindowMovedOrResizedEnd{Window: native})

	assert.InDelta(t, 1.0, w.TilingSize(), 1e-9)
	redraw := h.state.Pending().ContainersToRedraw()
	require.Len(t, redraw, 1)
	assert.Equal(t, w.ID(), redraw[0])
}

func TestResizedTilingWindowChangesShare(t *testing.T) {
	h := newHarness(t, nil)
	a := h.manage(t, 10)
	b := h.manage(t, 11)

	a.SetFrame(geom.Rect{Width: 600, Height: 500})
	h.handle(t, platform.WindowMovedOrResizedEnd{Window: a})

	assert.InDelta(t, 0.6, h.window(t, a).(*container.TilingWindow).TilingSize(), 1e-9)
	assert.InDelta(t, 0.4, h.window(t, b).(*container.TilingWindow).TilingSize(), 1e-9)
}

func TestMovedFloatingWindowFollowsMonitor(t *testing.T) {
	h := newHarness(t, nil, leftDisplay, rightDisplay)
	h.manage(t, 10)
	floating := h.manage(t, 11)
	require.NoError(t, h.state.RunCommandString("set-floating"))
	w := h.window(t, floating)
	require.Equal(t, geom.Rect{X: 350, Y: 150, Width: 300, Height: 200}, w.FloatingPlacement())

	moved := geom.Rect{X: 1350, Y: 150, Width: 300, Height: 200}
	floating.SetFrame(moved)
	h.handle(t, platform.WindowMovedOrResizedEnd{Window: floating})

	assert.Equal(t, moved, w.FloatingPlacement())
	assert.Equal(t, "2", container.WorkspaceOf(w).Name())
	assert.Same(t, w, h.state.FocusedContainer())
}

func TestResizedFloatingWindowKeepsPlacement(t *testing.T) {
	h := newHarness(t, nil)
	h.manage(t, 10)
	floating := h.manage(t, 11)
	require.NoError(t, h.state.RunCommandString("set-floating"))
	w := h.window(t, floating)
	before := w.FloatingPlacement()

	floating.SetFrame(geom.Rect{X: 0, Y: 0, Width: 400, Height: 200})
	h.handle(t, platform.WindowMovedOrResizedEnd{Window: floating})

	assert.Equal(t, before, w.FloatingPlacement())
}
