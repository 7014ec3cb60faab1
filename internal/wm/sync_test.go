package wm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/platform/platformtest"
)

func positionCalls(rec *platformtest.Recorder, id platform.WindowID) []platformtest.Call {
	var out []platformtest.Call
	for _, c := range rec.CallsTo("SetPosition") {
		if c.Window == id {
			out = append(out, c)
		}
	}
	return out
}

func TestSyncTilesWindows(t *testing.T) {
	h := newHarness(t, nil)
	a := h.manage(t, 10)
	b := h.manage(t, 11)
	h.sync(t)

	calls := positionCalls(h.backend.Recorder, a.ID())
	require.NotEmpty(t, calls)
	assert.Equal(t, geom.Rect{Width: 500, Height: 500}, calls[len(calls)-1].Args[1])

	calls = positionCalls(h.backend.Recorder, b.ID())
	require.NotEmpty(t, calls)
	assert.Equal(t, geom.Rect{X: 500, Width: 500, Height: 500}, calls[len(calls)-1].Args[1])
	assert.Empty(t, h.state.Pending().ContainersToRedraw())
}

func TestSyncWorkspaceSwitchDisplayStates(t *testing.T) {
	h := newHarness(t, nil)
	native := h.manage(t, 10)
	h.sync(t)
	w := h.window(t, native)
	assert.Equal(t, container.DisplayShown, w.DisplayState())

	h.backend.Recorder.Reset()
	require.NoError(t, h.state.FocusWorkspace("2"))
	h.sync(t)

	assert.Equal(t, container.DisplayHiding, w.DisplayState())
	calls := positionCalls(h.backend.Recorder, native.ID())
	require.Len(t, calls, 1)
	assert.Equal(t, false, calls[0].Args[2])
	taskbar := h.backend.Recorder.CallsTo("SetTaskbarVisibility")
	require.Len(t, taskbar, 1)
	assert.Equal(t, false, taskbar[0].Args[0])

	h.handle(t, platform.WindowHidden{Window: native})
	assert.Equal(t, container.DisplayHidden, w.DisplayState())

	h.backend.Recorder.Reset()
	require.NoError(t, h.state.FocusWorkspace("1"))
	h.sync(t)
	assert.Equal(t, container.DisplayShowing, w.DisplayState())
	calls = positionCalls(h.backend.Recorder, native.ID())
	require.Len(t, calls, 1)
	assert.Equal(t, true, calls[0].Args[2])

	h.handle(t, platform.WindowShown{Window: native})
	assert.Equal(t, container.DisplayShown, w.DisplayState())
}

func TestSyncTaskbarFollowsShowAllSetting(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.General.ShowAllInTaskbar = true })
	h.manage(t, 10)
	h.sync(t)
	assert.Empty(t, h.backend.Recorder.CallsTo("SetTaskbarVisibility"))

	h = newHarness(t, func(c *config.Config) { c.General.HideMethod = platform.HideMethodHide })
	h.manage(t, 10)
	h.sync(t)
	assert.Empty(t, h.backend.Recorder.CallsTo("SetTaskbarVisibility"))
}

func TestSyncWhilePausedTouchesNothing(t *testing.T) {
	h := newHarness(t, nil)
	h.manage(t, 10)
	h.state.SetPaused(true)
	h.backend.Recorder.Reset()

	h.state.Pending().QueueContainerToRedraw(h.state.Root())
	h.state.Pending().QueueCursorJump()
	h.sync(t)

	assert.Empty(t, h.backend.Recorder.Calls())
	assert.Empty(t, h.state.Pending().ContainersToRedraw())

	h.state.SetPaused(false)
	h.sync(t)
	assert.NotEmpty(t, h.backend.Recorder.CallsTo("SetPosition"))
}

func TestSyncSkipsContainersThatAreGone(t *testing.T) {
	h := newHarness(t, nil)
	a := h.manage(t, 10)
	b := h.manage(t, 11)
	h.sync(t)
	h.backend.Recorder.Reset()

	gone := h.window(t, b)
	h.state.Pending().QueueContainerToRedraw(gone)
	h.handle(t, platform.WindowDestroyed{Window: b})
	h.sync(t)

	assert.Empty(t, positionCalls(h.backend.Recorder, b.ID()))
	assert.NotEmpty(t, positionCalls(h.backend.Recorder, a.ID()))
}

func TestSyncKeepsGoingWhenNativeCallsFail(t *testing.T) {
	h := newHarness(t, nil)
	a := h.manage(t, 10)
	b := h.manage(t, 11)
	a.FailWith(assert.AnError)

	h.sync(t)

	assert.NotEmpty(t, positionCalls(h.backend.Recorder, b.ID()))
	assert.Empty(t, h.state.Pending().ContainersToRedraw())
	assert.False(t, h.state.Pending().FocusChange())
}

func TestSyncMonitorFocusCursorJump(t *testing.T) {
	h := newHarness(t, nil, leftDisplay, rightDisplay)
	h.sync(t)

	h.backend.SetMouse(geom.Point{X: 100, Y: 100})
	require.NoError(t, h.state.FocusWorkspace("2"))
	h.sync(t)
	jumps := h.backend.Recorder.CallsTo("SetCursorPos")
	require.Len(t, jumps, 1)
	assert.Equal(t, []any{1500, 250}, jumps[0].Args)
	assert.False(t, h.state.Pending().CursorJump())

	// Already on the right monitor.
	h.backend.Recorder.Reset()
	h.backend.SetMouse(geom.Point{X: 1500, Y: 250})
	require.NoError(t, h.state.FocusWorkspace("4"))
	h.sync(t)
	assert.Empty(t, h.backend.Recorder.CallsTo("SetCursorPos"))

	// Cursor outside every monitor.
	h.backend.SetMouse(geom.Point{X: 5000, Y: 5000})
	require.NoError(t, h.state.FocusWorkspace("1"))
	h.sync(t)
	assert.Empty(t, h.backend.Recorder.CallsTo("SetCursorPos"))
}

func TestSyncWindowFocusCursorJump(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.General.CursorJump.Trigger = config.CursorJumpWindowFocus
	})
	h.manage(t, 10)
	h.manage(t, 11)
	h.state.Pending().QueueCursorJump()
	h.sync(t)

	jumps := h.backend.Recorder.CallsTo("SetCursorPos")
	require.Len(t, jumps, 1)
	assert.Equal(t, []any{750, 250}, jumps[0].Args)
}

func TestSyncFocusSkipsForegroundWindow(t *testing.T) {
	h := newHarness(t, nil)
	a := h.manage(t, 10)
	h.backend.SetForegroundID(a.ID())
	h.sync(t)
	assert.Empty(t, h.backend.Recorder.CallsTo("SetForeground"))
	assert.Equal(t, h.window(t, a).ID(), h.state.RecentFocusedID())

	b := h.manage(t, 11)
	h.sync(t)
	calls := h.backend.Recorder.CallsTo("SetForeground")
	require.Len(t, calls, 1)
	assert.Equal(t, b.ID(), calls[0].Window)
}

func TestSyncFocusesDesktopForEmptyWorkspace(t *testing.T) {
	h := newHarness(t, nil)
	h.manage(t, 10)
	h.sync(t)
	h.backend.Recorder.Reset()

	require.NoError(t, h.state.FocusWorkspace("2"))
	h.sync(t)

	calls := h.backend.Recorder.CallsTo("SetForeground")
	require.Len(t, calls, 1)
	assert.Equal(t, platformtest.DesktopID, calls[0].Window)
}

func TestSyncAppliesOnlyEnabledEffects(t *testing.T) {
	h := newHarness(t, nil)
	a := h.manage(t, 10)
	h.sync(t)
	b := h.manage(t, 11)
	h.backend.Recorder.Reset()
	h.sync(t)

	rec := h.backend.Recorder
	assert.Empty(t, rec.CallsTo("SetTitleBarVisibility"))
	assert.Empty(t, rec.CallsTo("SetCornerStyle"))
	assert.Empty(t, rec.CallsTo("SetOpacity"))

	cfg := h.state.Config().WindowEffects
	borders := rec.CallsTo("SetBorderColor")
	require.Len(t, borders, 2)
	assert.Equal(t, b.ID(), borders[0].Window)
	assert.Equal(t, cfg.FocusedWindow.Border.Color, borders[0].Args[0])
	assert.Equal(t, a.ID(), borders[1].Window)
	assert.Equal(t, cfg.OtherWindows.Border.Color, borders[1].Args[0])
}

func TestSyncEffectFallsBackToDefault(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.WindowEffects.FocusedWindow.Transparency = config.TransparencyEffect{
			Enabled: true,
			Opacity: platform.OpacityValue{Amount: 200},
		}
	})
	a := h.manage(t, 10)
	h.sync(t)
	b := h.manage(t, 11)
	h.backend.Recorder.Reset()
	h.sync(t)

	byWindow := map[platform.WindowID]any{}
	for _, c := range h.backend.Recorder.CallsTo("SetOpacity") {
		byWindow[c.Window] = c.Args[0]
	}
	assert.Equal(t, platform.OpacityValue{Amount: 200}, byWindow[b.ID()])
	assert.Equal(t, platform.Opaque, byWindow[a.ID()])
}

func TestSyncBorderReapplyIsCapped(t *testing.T) {
	h := newHarness(t, nil)
	for id := platform.WindowID(100); id < 140; id++ {
		h.manage(t, id)
	}
	h.sync(t)
	require.Len(t, h.delayed, 1)

	h.state.Pending().QueueWindowEffectsReset()
	h.sync(t)
	assert.Len(t, h.delayed, 32)
	assert.Len(t, h.backend.Recorder.CallsTo("SetBorderColor"), 41)

	h.backend.Recorder.Reset()
	h.runDelayed()
	assert.Len(t, h.backend.Recorder.CallsTo("SetBorderColor"), 32)

	h.state.Pending().QueueWindowEffectsReset()
	h.sync(t)
	assert.Len(t, h.delayed, 32)
}
