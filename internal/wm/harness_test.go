package wm_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/platform/platformtest"
	"github.com/1broseidon/tilewm/internal/wm"
)

var (
	leftDisplay  = platform.Display{ID: 0, Name: "left", Bounds: geom.Rect{Width: 1000, Height: 500}}
	rightDisplay = platform.Display{ID: 1, Name: "right", Bounds: geom.Rect{X: 1000, Width: 1000, Height: 500}}
)

type harness struct {
	backend *platformtest.Backend
	state   *wm.State
	syncer  *wm.Syncer
	bus     *wm.Bus
	delayed []func()
}

// newHarness builds a state over the given displays with gapless layout,
// a recording backend and a syncer whose delayed work is captured instead
// of run.
func newHarness(t *testing.T, mutate func(*config.Config), displays ...platform.Display) *harness {
	t.Helper()
	if len(displays) == 0 {
		displays = []platform.Display{leftDisplay}
	}

	cfg := config.DefaultConfig()
	cfg.Gaps.InnerGap = geom.Px(0)
	cfg.Gaps.OuterGap = geom.RectDelta{}
	if mutate != nil {
		mutate(cfg)
	}

	logger := slog.New(slog.DiscardHandler)
	h := &harness{
		backend: platformtest.NewBackend(displays...),
		bus:     wm.NewBus(logger),
	}
	h.state = wm.NewState(cfg, h.bus)
	h.syncer = wm.NewSyncer(h.backend, logger, wm.WithAfterFunc(func(_ time.Duration, f func()) {
		h.delayed = append(h.delayed, f)
	}))
	require.NoError(t, h.state.SyncMonitors(displays))
	return h
}

// manage shows a new native window and lets the state adopt it.
func (h *harness) manage(t *testing.T, id platform.WindowID) *platformtest.Window {
	t.Helper()
	native := h.backend.AddWindow(id, geom.Rect{Width: 300, Height: 200})
	require.NoError(t, h.state.HandleEvent(platform.WindowShown{Window: native}, h.backend.Displays))
	return native
}

func (h *harness) handle(t *testing.T, ev platform.Event) {
	t.Helper()
	require.NoError(t, h.state.HandleEvent(ev, h.backend.Displays))
}

func (h *harness) window(t *testing.T, native platform.NativeWindow) container.Window {
	t.Helper()
	w := h.state.WindowFromNative(native)
	require.NotNil(t, w, "window %d is not managed", native.ID())
	return w
}

func (h *harness) workspace(t *testing.T, name string) *container.Workspace {
	t.Helper()
	ws := container.WorkspaceByName(h.state.Root(), name)
	require.NotNil(t, ws, "no workspace %q", name)
	return ws
}

// sync flushes pending changes to the recording backend.
func (h *harness) sync(t *testing.T) {
	t.Helper()
	require.NoError(t, h.syncer.Sync(h.state))
}

func (h *harness) runDelayed() {
	delayed := h.delayed
	h.delayed = nil
	for _, f := range delayed {
		f()
	}
}

func childIDs(c container.Container) []platform.WindowID {
	var out []platform.WindowID
	for _, child := range c.Children() {
		if w, ok := child.(container.Window); ok {
			out = append(out, w.Native().ID())
		}
	}
	return out
}

func tilingSum(parent container.Container) float64 {
	sum := 0.0
	for _, c := range container.TilingChildren(parent) {
		sum += c.TilingSize()
	}
	return sum
}

// attachTiling puts a tiling window for a new native directly into parent.
func (h *harness) attachTiling(t *testing.T, parent container.Container, id platform.WindowID) *container.TilingWindow {
	t.Helper()
	native := h.backend.AddWindow(id, geom.Rect{Width: 300, Height: 200})
	w := container.NewTilingWindow(native, geom.Rect{Width: 300, Height: 200}, geom.Px(0))
	require.NoError(t, container.Attach(parent, w, parent.ChildCount()))
	return w
}
