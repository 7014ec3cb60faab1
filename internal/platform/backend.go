// Package platform defines the contract between the window manager core and
// the host windowing system.
package platform

import "github.com/1broseidon/tilewm/internal/geom"

// NativeWindow is a handle to a top-level window owned by the host. The
// manager never owns the window; every call may fail if the handle went
// stale.
type NativeWindow interface {
	ID() WindowID
	Title() string
	ClassName() string

	// IsValid reports whether the handle still refers to a live window.
	IsValid() bool

	// SetPosition places the window according to its state. When visible is
	// false the window is hidden using hideMethod.
	SetPosition(state WindowState, rect geom.Rect, visible bool, hideMethod HideMethod, pendingDPI bool) error
	SetTaskbarVisibility(visible bool) error
	Minimize() error
	IsMinimized() (bool, error)
	SetForeground() error

	// RefreshFramePosition re-reads the window's frame rectangle from the host.
	RefreshFramePosition() (geom.Rect, error)

	// SetBorderColor sets the border color; nil restores the default.
	SetBorderColor(color *Color) error
	SetTitleBarVisibility(visible bool) error
	SetCornerStyle(style CornerStyle) error
	SetOpacity(opacity OpacityValue) error
}

// Backend abstracts process-wide window-system operations.
type Backend interface {
	Displays() ([]Display, error)
	// ManageableWindows lists the top-level windows the manager should adopt.
	ManageableWindows() ([]NativeWindow, error)
	// Window returns a handle for an existing window ID.
	Window(id WindowID) NativeWindow
	// ForegroundWindow returns the ID of the currently focused window, or 0.
	ForegroundWindow() WindowID
	// DesktopWindow returns the handle focused when no managed window is.
	DesktopWindow() NativeWindow
	MousePosition() (geom.Point, error)
	SetCursorPos(x, y int) error
}
