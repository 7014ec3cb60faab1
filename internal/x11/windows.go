package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// EWMH state atoms used by the window manager.
const (
	StateFullscreen  = "_NET_WM_STATE_FULLSCREEN"
	StateAbove       = "_NET_WM_STATE_ABOVE"
	StateSkipTaskbar = "_NET_WM_STATE_SKIP_TASKBAR"
	StateHidden      = "_NET_WM_STATE_HIDDEN"
	StateMaxHorz     = "_NET_WM_STATE_MAXIMIZED_HORZ"
	StateMaxVert     = "_NET_WM_STATE_MAXIMIZED_VERT"
)

const (
	stateRemove = 0
	stateAdd    = 1
)

// Rect is a window rectangle in root coordinates.
type Rect struct {
	X, Y, Width, Height int
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Maximized windows ignore geometry requests on most window managers.
	_ = c.unmaximizeWindow(windowID)

	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}
	for _, state := range states {
		if state == StateMaxHorz || state == StateMaxVert {
			_ = ewmh.WmStateReq(c.XUtil, windowID, stateRemove, state)
		}
	}
	return nil
}

// SetWindowState adds or removes one _NET_WM_STATE atom.
func (c *Connection) SetWindowState(windowID xproto.Window, state string, enabled bool) error {
	action := stateRemove
	if enabled {
		action = stateAdd
	}
	return ewmh.WmStateReq(c.XUtil, windowID, action, state)
}

// HasWindowState reports whether the window carries the _NET_WM_STATE atom.
func (c *Connection) HasWindowState(windowID xproto.Window, state string) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

// IsIconic reports whether the window is minimized, by ICCCM WM_STATE or
// the EWMH hidden state.
func (c *Connection) IsIconic(windowID xproto.Window) (bool, error) {
	st, err := icccm.WmStateGet(c.XUtil, windowID)
	if err == nil && st.State == icccm.StateIconic {
		return true, nil
	}
	if c.HasWindowState(windowID, StateHidden) {
		return true, nil
	}
	if err != nil {
		if _, gerr := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply(); gerr != nil {
			return false, fmt.Errorf("window %d: %w", windowID, gerr)
		}
	}
	return false, nil
}

// MapWindow maps (restores) the window.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// SetBorderPixel sets the window border color as 0xRRGGBB.
func (c *Connection) SetBorderPixel(windowID xproto.Window, pixel uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), windowID,
		xproto.CwBorderPixel, []uint32{pixel}).Check()
}

// RestoreBorder drops a border color set with SetBorderPixel so the window
// tiles its border from the parent again. CopyFromParent is 0 on the wire.
func (c *Connection) RestoreBorder(windowID xproto.Window) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), windowID,
		xproto.CwBorderPixmap, []uint32{0}).Check()
}

// SetDecorations asks the window manager to draw or drop the title bar.
func (c *Connection) SetDecorations(windowID xproto.Window, visible bool) error {
	hints := &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationAll,
	}
	if !visible {
		hints.Decoration = motif.DecorationBorder
	}
	return motif.WmHintsSet(c.XUtil, windowID, hints)
}

// Opacity returns the window opacity between 0 and 1, defaulting to 1.
func (c *Connection) Opacity(windowID xproto.Window) float64 {
	v, err := ewmh.WmWindowOpacityGet(c.XUtil, windowID)
	if err != nil {
		return 1
	}
	return v
}

// SetOpacity sets _NET_WM_WINDOW_OPACITY; compositors apply it.
func (c *Connection) SetOpacity(windowID xproto.Window, opacity float64) error {
	return ewmh.WmWindowOpacitySet(c.XUtil, windowID, max(0, min(1, opacity)))
}

// WindowRect returns the client rectangle in root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Rect{}, err
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// IsAlive reports whether the window still exists.
func (c *Connection) IsAlive(windowID xproto.Window) bool {
	_, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	return err == nil
}

// WindowClass returns the WM_CLASS class name.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int, err error) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		// No frame extents available, return zeros
		return 0, 0, 0, 0, nil
	}

	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom), nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// PointerPosition returns the pointer position in root coordinates.
func (c *Connection) PointerPosition() (int, int, error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}

// WarpPointer moves the pointer to root coordinates x, y.
func (c *Connection) WarpPointer(x, y int) error {
	return xproto.WarpPointerChecked(c.XUtil.Conn(), xproto.WindowNone, c.Root,
		0, 0, 0, 0, int16(x), int16(y)).Check()
}

// FocusRoot drops input focus to the root window.
func (c *Connection) FocusRoot() error {
	return xproto.SetInputFocusChecked(c.XUtil.Conn(), xproto.InputFocusPointerRoot,
		c.Root, xproto.TimeCurrentTime).Check()
}
