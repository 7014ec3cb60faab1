package wm_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

func TestMoveContainerWithinTreeRejectsCycles(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	split := container.NewSplitContainer(geom.Vertical, geom.Px(0))
	require.NoError(t, container.Attach(ws, split, 0))
	inner := container.NewSplitContainer(geom.Horizontal, geom.Px(0))
	require.NoError(t, container.Attach(split, inner, 0))
	h.attachTiling(t, inner, 10)

	err := h.state.MoveContainerWithinTree(split, inner, 0)
	assert.ErrorIs(t, err, container.ErrIllegalMove)

	err = h.state.MoveContainerWithinTree(split, split, 0)
	assert.ErrorIs(t, err, container.ErrIllegalMove)

	assert.Same(t, container.Container(ws), split.Parent())
	assert.Same(t, container.Container(split), inner.Parent())
}

func TestMoveContainerWithinTreeSameParentIndex(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	a := h.attachTiling(t, ws, 10)
	h.attachTiling(t, ws, 11)
	h.attachTiling(t, ws, 12)

	// The index counts a's own slot.
	require.NoError(t, h.state.MoveContainerWithinTree(a, ws, 2))
	assert.Equal(t, []platform.WindowID{11, 10, 12}, childIDs(ws))

	require.NoError(t, h.state.MoveContainerWithinTree(a, ws, 3))
	assert.Equal(t, []platform.WindowID{11, 12, 10}, childIDs(ws))

	require.NoError(t, h.state.MoveContainerWithinTree(a, ws, 0))
	assert.Equal(t, []platform.WindowID{10, 11, 12}, childIDs(ws))

	assert.Contains(t, h.state.Pending().ContainersToRedraw(), ws.ID())
	assert.InDelta(t, 1.0, tilingSum(ws), 1e-9)
}

func TestMoveContainerWithinTreeRemovesEmptySplit(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	a := h.attachTiling(t, ws, 10)
	split := container.NewSplitContainer(geom.Vertical, geom.Px(0))
	require.NoError(t, container.Attach(ws, split, 1))
	x := h.attachTiling(t, split, 11)

	require.NoError(t, h.state.MoveContainerWithinTree(x, ws, 0))

	assert.Nil(t, split.Parent())
	assert.Equal(t, []platform.WindowID{11, 10}, childIDs(ws))
	assert.InDelta(t, 0.5, a.TilingSize(), 1e-9)
	assert.InDelta(t, 0.5, x.TilingSize(), 1e-9)
	assert.Contains(t, h.state.Pending().ContainersToRedraw(), ws.ID())
}

func TestMoveContainerWithinTreeKeepsFocus(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	h.manage(t, 10)
	split := container.NewSplitContainer(geom.Vertical, geom.Px(0))
	require.NoError(t, container.Attach(ws, split, 1))
	h.attachTiling(t, split, 11)
	focused := h.window(t, h.manage(t, 12))
	require.Same(t, focused, h.state.FocusedContainer())

	require.NoError(t, h.state.MoveContainerWithinTree(focused, split, 0))

	assert.Same(t, focused, h.state.FocusedContainer())
	assert.Same(t, container.Container(split), focused.Parent())
}

func TestReplaceContainer(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	h.attachTiling(t, ws, 10)
	b := h.attachTiling(t, ws, 11)
	h.attachTiling(t, ws, 12)
	b.SetTilingSize(0.5)

	native := h.backend.AddWindow(20, geom.Rect{})
	replacement := container.NewTilingWindow(native, geom.Rect{}, geom.Px(0))
	require.NoError(t, h.state.ReplaceContainer(replacement, ws, 1))

	assert.Nil(t, b.Parent())
	assert.Equal(t, []platform.WindowID{10, 20, 12}, childIDs(ws))
	assert.InDelta(t, 0.5, replacement.TilingSize(), 1e-9)

	other := container.NewTilingWindow(h.backend.AddWindow(21, geom.Rect{}), geom.Rect{}, geom.Px(0))
	err := h.state.ReplaceContainer(other, ws, 7)
	assert.ErrorIs(t, err, container.ErrIndexOutOfRange)
}

// requireValidTree checks parent links both ways, the absence of cycles and
// that tiling shares under every direction container are positive and add
// up to one.
func requireValidTree(t *testing.T, root *container.Root, step int) {
	t.Helper()
	seen := map[string]bool{}
	for c := range container.Descendants(root) {
		id := c.ID().String()
		require.False(t, seen[id], "step %d: %s reached twice", step, id)
		seen[id] = true

		parent := c.Parent()
		require.NotNil(t, parent, "step %d: %s has no parent", step, id)
		require.True(t, slices.ContainsFunc(parent.Children(), func(sib container.Container) bool {
			return container.Same(sib, c)
		}), "step %d: %s missing from its parent's children", step, id)
		for _, child := range c.Children() {
			require.True(t, container.Same(child.Parent(), c), "step %d: child of %s points elsewhere", step, id)
		}

		depth := 0
		for range container.Ancestors(c) {
			depth++
			require.Less(t, depth, 1000, "step %d: ancestor chain of %s does not end", step, id)
		}

		if _, ok := c.(container.DirectionContainer); !ok {
			continue
		}
		children := container.TilingChildren(c)
		if len(children) == 0 {
			continue
		}
		sum := 0.0
		for _, tc := range children {
			require.Greater(t, tc.TilingSize(), 0.0, "step %d: share under %s", step, id)
			require.LessOrEqual(t, tc.TilingSize(), 1.0+1e-9, "step %d: share under %s", step, id)
			sum += tc.TilingSize()
		}
		require.InDelta(t, 1.0, sum, 1e-9, "step %d: shares under %s", step, id)
	}
}

func TestTreeStaysValidAcrossMixedOperations(t *testing.T) {
	h := newHarness(t, nil)
	ws := h.workspace(t, "1")
	rng := rand.New(rand.NewPCG(7, 42))
	defaults := h.state.Config().WindowBehavior.StateDefaults
	nextID := platform.WindowID(100)

	tilingWindows := func() []*container.TilingWindow {
		var out []*container.TilingWindow
		for _, w := range h.state.Windows() {
			if tw, ok := w.(*container.TilingWindow); ok {
				out = append(out, tw)
			}
		}
		return out
	}
	directionContainers := func() []container.Container {
		out := []container.Container{ws}
		for c := range container.Descendants(ws) {
			if split, ok := c.(*container.SplitContainer); ok {
				out = append(out, split)
			}
		}
		return out
	}

	for step := range 400 {
		windows := h.state.Windows()
		tiled := tilingWindows()

		switch op := rng.IntN(6); {
		case op == 0 || len(windows) < 2:
			if len(windows) < 8 {
				h.manage(t, nextID)
				nextID++
			}

		case op == 1 && len(tiled) > 0:
			w := tiled[rng.IntN(len(tiled))]
			width := geom.Percent(float64(rng.IntN(121) - 60))
			height := geom.Percent(float64(rng.IntN(121) - 60))
			require.NoError(t, h.state.ResizeWindow(w, width, height), "step %d", step)

		case op == 2 && len(tiled) > 0:
			w := tiled[rng.IntN(len(tiled))]
			targets := directionContainers()
			target := targets[rng.IntN(len(targets))]
			require.NoError(t, h.state.MoveContainerWithinTree(w, target, rng.IntN(target.ChildCount()+2)), "step %d", step)

		case op == 3 && len(tiled) > 0:
			w := tiled[rng.IntN(len(tiled))]
			targets := directionContainers()
			dir := geom.Horizontal
			if rng.IntN(2) == 0 {
				dir = geom.Vertical
			}
			split := container.NewSplitContainer(dir, geom.Px(0))
			parent := targets[rng.IntN(len(targets))]
			require.NoError(t, container.Attach(parent, split, rng.IntN(parent.ChildCount()+1)), "step %d", step)
			require.NoError(t, h.state.MoveContainerWithinTree(w, split, 0), "step %d", step)

		case op == 4:
			w := windows[rng.IntN(len(windows))]
			states := []platform.WindowState{
				platform.Tiling(),
				platform.Floating(defaults.Floating),
				platform.Fullscreen(defaults.Fullscreen),
			}
			require.NoError(t, h.state.UpdateWindowState(w, states[rng.IntN(len(states))]), "step %d", step)

		case op == 5:
			w := windows[rng.IntN(len(windows))]
			require.NoError(t, h.state.UnmanageWindow(w), "step %d", step)
		}

		requireValidTree(t, h.state.Root(), step)
	}
}
