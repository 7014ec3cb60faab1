//go:build linux

package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/x11"
)

const (
	eventBuffer = 256
	// cloakX parks cloaked windows left of any monitor while keeping them
	// mapped.
	cloakX = -30000
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn   *x11.Connection
	logger *slog.Logger
	events chan Event

	mu      sync.Mutex
	placed  map[WindowID]geom.Rect
	cloaked map[WindowID]bool
	hidden  map[WindowID]bool

	// bordered holds windows whose border color was overwritten.
	bordered map[WindowID]bool
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, logger *slog.Logger) *LinuxBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinuxBackend{
		conn:    conn,
		logger:  logger,
		events:  make(chan Event, eventBuffer),
		placed:  make(map[WindowID]geom.Rect),
		cloaked: make(map[WindowID]bool),
		hidden:  make(map[WindowID]bool),

		bordered: make(map[WindowID]bool),
	}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection. An empty display uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string, logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, logger), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop runs the X11 event loop until Quit (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops a running EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Events delivers window events once Watch was called.
func (b *LinuxBackend) Events() <-chan Event {
	return b.events
}

// Watch starts translating X11 notifications into Events. They arrive while
// EventLoop runs.
func (b *LinuxBackend) Watch() error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	window := func(win xproto.Window) NativeWindow { return b.Window(WindowID(win)) }
	return conn.Watch(x11.WindowCallbacks{
		Added: func(win xproto.Window) {
			b.emit(WindowShown{Window: window(win)})
		},
		Removed: func(win xproto.Window) {
			b.forget(WindowID(win))
			b.emit(WindowDestroyed{Window: window(win)})
		},
		Mapped: func(win xproto.Window) {
			if b.takeMark(b.hidden, WindowID(win)) {
				b.emit(WindowShown{Window: window(win)})
			}
		},
		Unmapped: func(win xproto.Window) {
			if b.hasMark(b.hidden, WindowID(win)) {
				b.emit(WindowHidden{Window: window(win)})
			}
		},
		Activated: func(win xproto.Window) {
			b.emit(WindowFocused{Window: window(win)})
		},
		Iconified: func(win xproto.Window) {
			if !b.hasMark(b.hidden, WindowID(win)) {
				b.emit(WindowMinimized{Window: window(win)})
			}
		},
		Deiconified: func(win xproto.Window) {
			if !b.hasMark(b.hidden, WindowID(win)) {
				b.emit(WindowMinimizeEnded{Window: window(win)})
			}
		},
		MoveResizeEnd: func(win xproto.Window) {
			if b.userMoved(WindowID(win)) {
				b.emit(WindowMovedOrResizedEnd{Window: window(win)})
			}
		},
		ScreenChanged: func() {
			b.emit(DisplaySettingsChanged{})
		},
	})
}

func (b *LinuxBackend) emit(ev Event) {
	select {
	case b.events <- ev:
	default:
		b.logger.Warn("dropping platform event", "event", fmt.Sprintf("%T", ev))
	}
}

// userMoved reports whether the window's geometry differs from where the
// manager last put it. Cloaked windows never count.
func (b *LinuxBackend) userMoved(id WindowID) bool {
	rect, err := b.conn.WindowRect(xproto.Window(id))
	if err != nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cloaked[id] {
		return false
	}
	placed, ok := b.placed[id]
	return !ok || placed != geom.Rect(rect)
}

func (b *LinuxBackend) hasMark(marks map[WindowID]bool, id WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return marks[id]
}

func (b *LinuxBackend) setMark(marks map[WindowID]bool, id WindowID) (changed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if marks[id] {
		return false
	}
	marks[id] = true
	return true
}

func (b *LinuxBackend) takeMark(marks map[WindowID]bool, id WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !marks[id] {
		return false
	}
	delete(marks, id)
	return true
}

func (b *LinuxBackend) forget(id WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.placed, id)
	delete(b.cloaked, id)
	delete(b.hidden, id)
	delete(b.bordered, id)
}

func (b *LinuxBackend) setPlaced(id WindowID, rect geom.Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.placed[id] = rect
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:     m.CRTC,
			Name:   m.Output,
			Bounds: geom.Rect(m.Bounds),
			Usable: geom.Rect(conn.UsableArea(m)),
		})
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ManageableWindows lists normal client windows on the current desktop.
func (b *LinuxBackend) ManageableWindows() ([]NativeWindow, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	clients, err := conn.ClientWindows()
	if err != nil {
		return nil, err
	}
	out := make([]NativeWindow, 0, len(clients))
	for _, win := range clients {
		out = append(out, b.Window(WindowID(win)))
	}
	return out, nil
}

func (b *LinuxBackend) Window(id WindowID) NativeWindow {
	return &linuxWindow{b: b, id: id}
}

// ForegroundWindow returns the active window, or 0 when unknown.
func (b *LinuxBackend) ForegroundWindow() WindowID {
	conn, err := b.connection()
	if err != nil {
		return 0
	}
	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0
	}
	return WindowID(wid)
}

// DesktopWindow is the root window.
func (b *LinuxBackend) DesktopWindow() NativeWindow {
	return &linuxWindow{b: b, id: WindowID(b.RootWindow())}
}

func (b *LinuxBackend) MousePosition() (geom.Point, error) {
	conn, err := b.connection()
	if err != nil {
		return geom.Point{}, err
	}
	x, y, err := conn.PointerPosition()
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: x, Y: y}, nil
}

func (b *LinuxBackend) SetCursorPos(x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WarpPointer(x, y)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// linuxWindow is a NativeWindow backed by an X11 client window.
type linuxWindow struct {
	b  *LinuxBackend
	id WindowID
}

func (w *linuxWindow) xid() xproto.Window   { return xproto.Window(w.id) }
func (w *linuxWindow) conn() *x11.Connection { return w.b.conn }

func (w *linuxWindow) ID() WindowID      { return w.id }
func (w *linuxWindow) Title() string     { return w.conn().WindowTitle(w.xid()) }
func (w *linuxWindow) ClassName() string { return w.conn().WindowClass(w.xid()) }
func (w *linuxWindow) IsValid() bool     { return w.conn().IsAlive(w.xid()) }

func (w *linuxWindow) SetPosition(state WindowState, rect geom.Rect, visible bool, hideMethod HideMethod, pendingDPI bool) error {
	if !visible {
		return w.hide(rect, hideMethod)
	}

	wasCloaked := w.b.takeMark(w.b.cloaked, w.id)
	if w.b.hasMark(w.b.hidden, w.id) {
		if err := w.conn().MapWindow(w.xid()); err != nil {
			return err
		}
	}

	if err := w.applyState(state, rect, pendingDPI); err != nil {
		return err
	}
	if wasCloaked {
		w.b.emit(WindowShown{Window: w})
	}
	return nil
}

func (w *linuxWindow) applyState(state WindowState, rect geom.Rect, pendingDPI bool) error {
	conn := w.conn()
	var errs []error
	switch state.Kind {
	case StateMinimized:
		if iconic, err := conn.IsIconic(w.xid()); err != nil || iconic {
			return err
		}
		return conn.Iconify(w.xid())

	case StateFullscreen:
		errs = append(errs, conn.SetWindowState(w.xid(), x11.StateAbove, state.Fullscreen.ShownOnTop))
		if state.Fullscreen.Maximized {
			errs = append(errs, conn.SetWindowState(w.xid(), x11.StateFullscreen, true))
			return errors.Join(errs...)
		}
		errs = append(errs, conn.SetWindowState(w.xid(), x11.StateFullscreen, false))

	case StateFloating:
		errs = append(errs,
			conn.SetWindowState(w.xid(), x11.StateFullscreen, false),
			conn.SetWindowState(w.xid(), x11.StateAbove, state.Floating.ShownOnTop))

	default:
		errs = append(errs,
			conn.SetWindowState(w.xid(), x11.StateFullscreen, false),
			conn.SetWindowState(w.xid(), x11.StateAbove, false))
	}

	// A window moving across monitors may need a second pass once the
	// client settled on the new geometry.
	passes := 1
	if pendingDPI {
		passes = 2
	}
	for range passes {
		errs = append(errs, conn.MoveResizeWindow(w.xid(), rect.X, rect.Y, rect.Width, rect.Height))
	}
	w.b.setPlaced(w.id, rect)
	return errors.Join(errs...)
}

func (w *linuxWindow) hide(rect geom.Rect, method HideMethod) error {
	if method == HideMethodHide {
		if !w.b.setMark(w.b.hidden, w.id) {
			return nil
		}
		return w.conn().Iconify(w.xid())
	}

	if !w.b.setMark(w.b.cloaked, w.id) {
		return nil
	}
	if err := w.conn().MoveResizeWindow(w.xid(), cloakX, rect.Y, rect.Width, rect.Height); err != nil {
		return err
	}
	// X11 has no cloak notification, so report the hide ourselves.
	w.b.emit(WindowHidden{Window: w})
	return nil
}

func (w *linuxWindow) SetTaskbarVisibility(visible bool) error {
	return w.conn().SetWindowState(w.xid(), x11.StateSkipTaskbar, !visible)
}

func (w *linuxWindow) Minimize() error {
	return w.conn().Iconify(w.xid())
}

func (w *linuxWindow) IsMinimized() (bool, error) {
	return w.conn().IsIconic(w.xid())
}

func (w *linuxWindow) SetForeground() error {
	if w.xid() == w.b.RootWindow() {
		return w.conn().FocusRoot()
	}
	return w.conn().FocusWindow(w.xid())
}

func (w *linuxWindow) RefreshFramePosition() (geom.Rect, error) {
	rect, err := w.conn().WindowRect(w.xid())
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.Rect(rect), nil
}

type borderChange int

const (
	borderKeep borderChange = iota
	borderPaint
	borderRestore
)

// planBorder decides what a SetBorderColor call has to write. A nil color
// only touches windows we painted before.
func (b *LinuxBackend) planBorder(id WindowID, color *Color) borderChange {
	if color != nil {
		b.setMark(b.bordered, id)
		return borderPaint
	}
	if b.takeMark(b.bordered, id) {
		return borderRestore
	}
	return borderKeep
}

func (w *linuxWindow) SetBorderColor(color *Color) error {
	switch w.b.planBorder(w.id, color) {
	case borderPaint:
		return w.conn().SetBorderPixel(w.xid(), color.Pixel())
	case borderRestore:
		return w.conn().RestoreBorder(w.xid())
	}
	return nil
}

func (w *linuxWindow) SetTitleBarVisibility(visible bool) error {
	return w.conn().SetDecorations(w.xid(), visible)
}

func (w *linuxWindow) SetCornerStyle(CornerStyle) error {
	return fmt.Errorf("corner style on X11: %w", errors.ErrUnsupported)
}

func (w *linuxWindow) SetOpacity(opacity OpacityValue) error {
	value := opacity.Fraction()
	if opacity.IsDelta {
		value = w.conn().Opacity(w.xid()) + value
	}
	return w.conn().SetOpacity(w.xid(), value)
}
