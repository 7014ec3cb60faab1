package wm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

func TestUpdateWindowStateSameStateIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	w := h.window(t, h.manage(t, 10))
	h.sync(t)
	require.False(t, h.state.Pending().NeedsSync())

	require.NoError(t, h.state.UpdateWindowState(w, platform.Tiling()))

	assert.Same(t, w, h.window(t, w.Native()))
	assert.False(t, h.state.Pending().NeedsSync())
}

func TestFloatingRoundTripInWorkspace(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	h.manage(t, 10)
	b := h.window(t, h.manage(t, 11))
	h.manage(t, 12)
	h.handle(t, platform.WindowFocused{Window: b.Native()})
	id := b.ID()

	floating := platform.Floating(platform.FloatingConfig{Centered: true})
	require.NoError(t, h.state.UpdateWindowState(b, floating))

	nt, ok := h.window(t, b.Native()).(*container.NonTilingWindow)
	require.True(t, ok)
	assert.Equal(t, id, nt.ID())
	assert.Equal(t, floating, nt.State())
	assert.Len(t, container.TilingChildren(ws), 2)
	assert.InDelta(t, 1.0, tilingSum(ws), 1e-9)
	assert.Same(t, container.Container(nt), h.state.FocusedContainer())

	// Centered on the 1000x500 workspace.
	assert.Equal(t, geom.Rect{X: 350, Y: 150, Width: 300, Height: 200}, nt.FloatingPlacement())

	require.NoError(t, h.state.UpdateWindowState(nt, platform.Tiling()))

	tw, ok := h.window(t, b.Native()).(*container.TilingWindow)
	require.True(t, ok)
	assert.Equal(t, id, tw.ID())
	assert.Equal(t, []platform.WindowID{10, 11, 12}, childIDs(ws))
	for _, c := range container.TilingChildren(ws) {
		assert.InDelta(t, 1.0/3, c.TilingSize(), 1e-9)
	}
	prev, ok := tw.PrevState()
	require.True(t, ok)
	assert.Equal(t, floating, prev)
	assert.Same(t, container.Container(tw), h.state.FocusedContainer())
}

func TestFloatingRoundTripInSplit(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	h.attachTiling(t, ws, 10)
	split := container.NewSplitContainer(geom.Vertical, geom.Px(0))
	require.NoError(t, container.Attach(ws, split, 1))
	x := h.attachTiling(t, split, 11)
	y := h.attachTiling(t, split, 12)
	h.handle(t, platform.WindowFocused{Window: x.Native()})

	require.NoError(t, h.state.UpdateWindowState(x, platform.Floating(platform.FloatingConfig{})))

	nt, ok := h.window(t, x.Native()).(*container.NonTilingWindow)
	require.True(t, ok)
	assert.Same(t, container.Container(ws), nt.Parent())
	assert.Same(t, container.Container(split), y.Parent())
	assert.InDelta(t, 1.0, y.TilingSize(), 1e-9)
	assert.InDelta(t, 1.0, tilingSum(ws), 1e-9)
	require.NotNil(t, nt.InsertionTarget())
	assert.Same(t, container.Container(split), nt.InsertionTarget().Parent)
	assert.Equal(t, 0, nt.InsertionTarget().Index)

	require.NoError(t, h.state.UpdateWindowState(nt, platform.Tiling()))

	tw := h.window(t, x.Native())
	assert.Same(t, container.Container(split), tw.Parent())
	assert.Equal(t, 0, container.Index(tw))
	assert.Equal(t, []platform.WindowID{11, 12}, childIDs(split))
	assert.InDelta(t, 1.0, tilingSum(split), 1e-9)
	assert.InDelta(t, 1.0, tilingSum(ws), 1e-9)
	assert.Same(t, container.Container(tw), h.state.FocusedContainer())
}

func TestTilingFallsBackWhenInsertionTargetIsGone(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	h.attachTiling(t, ws, 10)
	split := container.NewSplitContainer(geom.Vertical, geom.Px(0))
	require.NoError(t, container.Attach(ws, split, 1))
	x := h.attachTiling(t, split, 11)

	require.NoError(t, h.state.UpdateWindowState(x, platform.Floating(platform.FloatingConfig{})))
	// x was the split's only child, so the split went away.
	require.Nil(t, split.Parent())

	nt := h.window(t, x.Native())
	require.NoError(t, h.state.UpdateWindowState(nt, platform.Tiling()))

	tw := h.window(t, x.Native())
	assert.Same(t, container.Container(ws), tw.Parent())
	assert.InDelta(t, 1.0, tilingSum(ws), 1e-9)
}

func TestMinimizeWaitsForNativeMinimize(t *testing.T) {
	h := newHarness(t, nil)
	a := h.manage(t, 10)
	b := h.manage(t, 11)
	w := h.window(t, b)
	h.backend.Recorder.Reset()

	require.NoError(t, h.state.UpdateWindowState(w, platform.Minimized()))

	assert.Len(t, h.backend.Recorder.CallsTo("Minimize"), 1)
	assert.Same(t, w, h.window(t, b))
	assert.Equal(t, platform.StateTiling, w.State().Kind)

	b.SetMinimized(true)
	h.handle(t, platform.WindowMinimized{Window: b})

	minimized := h.window(t, b)
	assert.Equal(t, platform.StateMinimized, minimized.State().Kind)
	assert.Equal(t, w.ID(), minimized.ID())
	assert.Same(t, h.window(t, a), h.state.FocusedContainer())
	assert.InDelta(t, 1.0, h.window(t, a).(*container.TilingWindow).TilingSize(), 1e-9)

	b.SetMinimized(false)
	h.handle(t, platform.WindowMinimizeEnded{Window: b})

	restored := h.window(t, b)
	assert.Equal(t, platform.StateTiling, restored.State().Kind)
	assert.Same(t, container.Container(restored), h.state.FocusedContainer())
}

func TestFullscreenRectIsMonitor(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Gaps.OuterGap = geom.UniformDelta(geom.Px(10))
	})
	w := h.window(t, h.manage(t, 10))

	require.NoError(t, h.state.UpdateWindowState(w, platform.Fullscreen(platform.FullscreenConfig{})))

	rect, err := h.window(t, w.Native()).ToRect()
	require.NoError(t, err)
	assert.Equal(t, leftDisplay.Bounds, rect)
}
