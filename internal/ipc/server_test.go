package ipc

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/platform/platformtest"
	"github.com/1broseidon/tilewm/internal/wm"
)

type fakeController struct {
	mu         sync.Mutex
	state      *wm.State
	bus        *wm.Bus
	reloadErr  error
	reloads    int
	subscribed chan []wm.EventType
}

func newFakeController(t *testing.T) *fakeController {
	t.Helper()
	bus := wm.NewBus(slog.New(slog.DiscardHandler))
	state := wm.NewState(config.DefaultConfig(), bus)
	display := platform.Display{ID: 0, Name: "main", Bounds: geom.Rect{Width: 1000, Height: 500}}
	require.NoError(t, state.SyncMonitors([]platform.Display{display}))

	backend := platformtest.NewBackend(display)
	native := backend.AddWindow(42, geom.Rect{Width: 300, Height: 200})
	require.NoError(t, state.HandleEvent(platform.WindowShown{Window: native}, backend.Displays))

	return &fakeController{state: state, bus: bus, subscribed: make(chan []wm.EventType, 1)}
}

func (f *fakeController) Call(_ context.Context, _ string, work func(*wm.State) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return work(f.state)
}

func (f *fakeController) Subscribe(types ...wm.EventType) (<-chan wm.Event, func()) {
	ch, cancel := f.bus.Subscribe(types...)
	f.subscribed <- types
	return ch, cancel
}

func (f *fakeController) Reload(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return f.reloadErr
}

func (f *fakeController) Uptime() time.Duration { return 90 * time.Second }

// socketPath returns a short path; unix socket paths are length limited.
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "tilewm")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func startServer(t *testing.T, ctrl Controller) *Client {
	t.Helper()
	path := socketPath(t)
	srv := NewServerAt(path, ctrl, slog.New(slog.DiscardHandler))
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)
	return NewClientAt(path)
}

func TestGetStatus(t *testing.T) {
	client := startServer(t, newFakeController(t))

	status, err := client.GetStatus()
	require.NoError(t, err)

	assert.True(t, status.DaemonRunning)
	assert.False(t, status.Paused)
	assert.Equal(t, int64(90), status.UptimeSeconds)
	assert.Equal(t, 1, status.MonitorCount)
	assert.Equal(t, 5, status.WorkspaceCount)
	assert.Equal(t, 1, status.WindowCount)
	assert.NotEmpty(t, status.FocusedID)
}

func TestQueries(t *testing.T) {
	client := startServer(t, newFakeController(t))

	tree, err := client.GetTree()
	require.NoError(t, err)
	assert.Equal(t, "root", tree.Type)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "monitor", tree.Children[0].Type)

	monitors, err := client.GetMonitors()
	require.NoError(t, err)
	require.Len(t, monitors, 1)
	assert.Equal(t, "main", monitors[0].Name)

	workspaces, err := client.GetWorkspaces()
	require.NoError(t, err)
	require.Len(t, workspaces, 5)
	assert.Equal(t, "1", workspaces[0].Name)
	require.NotNil(t, workspaces[0].IsDisplayed)
	assert.True(t, *workspaces[0].IsDisplayed)

	windows, err := client.GetWindows()
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, uint32(42), windows[0].Handle)
	assert.Equal(t, "tiling", windows[0].State)
	assert.True(t, windows[0].HasFocus)
}

func TestRunCommand(t *testing.T) {
	ctrl := newFakeController(t)
	client := startServer(t, ctrl)

	require.NoError(t, client.RunCommand("toggle-floating; toggle-pause"))

	windows, err := client.GetWindows()
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "floating", windows[0].State)

	status, err := client.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Paused)
}

func TestRunCommandErrors(t *testing.T) {
	client := startServer(t, newFakeController(t))

	err := client.RunCommand("fly-away")
	require.ErrorContains(t, err, "daemon error")

	err = client.RunCommand(" ; ")
	require.ErrorContains(t, err, "command is required")
}

func TestReload(t *testing.T) {
	ctrl := newFakeController(t)
	client := startServer(t, ctrl)

	require.NoError(t, client.Reload())
	ctrl.mu.Lock()
	assert.Equal(t, 1, ctrl.reloads)
	ctrl.reloadErr = errors.New("bad yaml")
	ctrl.mu.Unlock()
	require.ErrorContains(t, client.Reload(), "bad yaml")
}

func TestUnknownCommand(t *testing.T) {
	client := startServer(t, newFakeController(t))

	_, err := client.sendRequest(&Request{Command: "DANCE"})
	require.ErrorContains(t, err, "Unknown command: DANCE")
}

func TestSubscribeStreamsEvents(t *testing.T) {
	ctrl := newFakeController(t)
	client := startServer(t, ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan wm.Event, 4)
	done := make(chan error, 1)
	go func() {
		done <- client.Subscribe(ctx, []string{"pause_changed"}, func(ev wm.Event) error {
			received <- ev
			return nil
		})
	}()

	select {
	case types := <-ctrl.subscribed:
		assert.Equal(t, []wm.EventType{wm.EventPauseChanged}, types)
	case <-time.After(2 * time.Second):
		t.Fatal("server never subscribed")
	}

	require.NoError(t, client.RunCommand("redraw"))
	require.NoError(t, client.RunCommand("toggle-pause"))

	select {
	case ev := <-received:
		assert.Equal(t, wm.EventPauseChanged, ev.Type)
		require.NotNil(t, ev.IsPaused)
		assert.True(t, *ev.IsPaused)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestSubscribeRejectsUnknownEvents(t *testing.T) {
	client := startServer(t, newFakeController(t))

	err := client.Subscribe(context.Background(), []string{"weather_changed"}, func(wm.Event) error { return nil })
	require.ErrorContains(t, err, `unknown event "weather_changed"`)
}

func TestParseEventTypes(t *testing.T) {
	types, err := ParseEventTypes(nil)
	require.NoError(t, err)
	assert.Nil(t, types)

	types, err = ParseEventTypes([]string{"focus_changed", "all"})
	require.NoError(t, err)
	assert.Nil(t, types)

	types, err = ParseEventTypes([]string{"focus_changed", "window_managed"})
	require.NoError(t, err)
	assert.Equal(t, []wm.EventType{wm.EventFocusChanged, wm.EventWindowManaged}, types)
}

func TestSplitCommands(t *testing.T) {
	assert.Equal(t, []string{"toggle-floating", "resize width 5%"}, SplitCommands(" toggle-floating ;resize width 5%; "))
	assert.Empty(t, SplitCommands(""))
}
