package container

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// DisplayState tracks a window's visibility as last applied to the platform.
type DisplayState int

const (
	DisplayShown DisplayState = iota
	DisplayShowing
	DisplayHiding
	DisplayHidden
)

func (d DisplayState) String() string {
	switch d {
	case DisplayShowing:
		return "showing"
	case DisplayHiding:
		return "hiding"
	case DisplayHidden:
		return "hidden"
	default:
		return "shown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d DisplayState) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// NextDisplayState returns the state a window moves to when a redraw finds
// its workspace displayed or not. Settled states that already match the
// workspace's visibility are returned unchanged.
func NextDisplayState(current DisplayState, workspaceDisplayed bool) DisplayState {
	switch {
	case workspaceDisplayed && (current == DisplayHidden || current == DisplayHiding):
		return DisplayShowing
	case !workspaceDisplayed && (current == DisplayShown || current == DisplayShowing):
		return DisplayHiding
	default:
		return current
	}
}

// InsertionTarget remembers where a non-tiling window came from, so that a
// later switch back to tiling can restore its place.
type InsertionTarget struct {
	Parent Container
	Index  int
}

// Window is a managed native window, tiling or not.
type Window interface {
	Container
	Native() platform.NativeWindow
	State() platform.WindowState
	// PrevState returns the state before the last change of state kind.
	PrevState() (platform.WindowState, bool)
	DisplayState() DisplayState
	SetDisplayState(DisplayState)
	FloatingPlacement() geom.Rect
	SetFloatingPlacement(geom.Rect)
	BorderDelta() geom.RectDelta
	SetBorderDelta(geom.RectDelta)
	// TotalBorderDelta is the delta applied to the logical rect before the
	// native window is positioned.
	TotalBorderDelta() geom.RectDelta
	HasPendingDPIAdjustment() bool
	SetHasPendingDPIAdjustment(bool)

	data() *windowData
}

type windowData struct {
	native            platform.NativeWindow
	state             platform.WindowState
	prevState         *platform.WindowState
	displayState      DisplayState
	floatingPlacement geom.Rect
	borderDelta       geom.RectDelta
	pendingDPI        bool
}

func (w *windowData) data() *windowData                   { return w }
func (w *windowData) Native() platform.NativeWindow       { return w.native }
func (w *windowData) State() platform.WindowState         { return w.state }
func (w *windowData) DisplayState() DisplayState          { return w.displayState }
func (w *windowData) SetDisplayState(d DisplayState)      { w.displayState = d }
func (w *windowData) FloatingPlacement() geom.Rect        { return w.floatingPlacement }
func (w *windowData) SetFloatingPlacement(r geom.Rect)    { w.floatingPlacement = r }
func (w *windowData) BorderDelta() geom.RectDelta         { return w.borderDelta }
func (w *windowData) SetBorderDelta(d geom.RectDelta)     { w.borderDelta = d }
func (w *windowData) TotalBorderDelta() geom.RectDelta    { return w.borderDelta }
func (w *windowData) HasPendingDPIAdjustment() bool       { return w.pendingDPI }
func (w *windowData) SetHasPendingDPIAdjustment(v bool)   { w.pendingDPI = v }

func (w *windowData) PrevState() (platform.WindowState, bool) {
	if w.prevState == nil {
		return platform.WindowState{}, false
	}
	return *w.prevState, true
}

// TilingWindow is a window laid out by the tiling algorithm.
type TilingWindow struct {
	node
	windowData
	tilingSize float64
	innerGap   geom.LengthValue
}

// NewTilingWindow creates a detached tiling window for native.
func NewTilingWindow(native platform.NativeWindow, floatingPlacement geom.Rect, innerGap geom.LengthValue) *TilingWindow {
	return &TilingWindow{
		node: newNode(uuid.Nil),
		windowData: windowData{
			native:            native,
			state:             platform.Tiling(),
			floatingPlacement: floatingPlacement,
		},
		tilingSize: 1,
		innerGap:   innerGap,
	}
}

func (w *TilingWindow) TilingSize() float64              { return w.tilingSize }
func (w *TilingWindow) SetTilingSize(size float64)       { w.tilingSize = size }
func (w *TilingWindow) InnerGap() geom.LengthValue       { return w.innerGap }
func (w *TilingWindow) SetInnerGap(gap geom.LengthValue) { w.innerGap = gap }

func (w *TilingWindow) ToRect() (geom.Rect, error) { return tilingRect(w) }

// ToNonTiling builds a detached non-tiling window with the same identity and
// native handle. The receiver is not modified.
func (w *TilingWindow) ToNonTiling(state platform.WindowState, target *InsertionTarget) *NonTilingWindow {
	nw := &NonTilingWindow{
		node:            newNode(w.id),
		windowData:      w.windowData,
		insertionTarget: target,
	}
	nw.setState(state)
	return nw
}

// NonTilingWindow is a floating, fullscreen or minimized window. It is always
// a direct child of a workspace.
type NonTilingWindow struct {
	node
	windowData
	insertionTarget *InsertionTarget
}

// NewNonTilingWindow creates a detached non-tiling window for native.
func NewNonTilingWindow(native platform.NativeWindow, state platform.WindowState, floatingPlacement geom.Rect) *NonTilingWindow {
	return &NonTilingWindow{
		node: newNode(uuid.Nil),
		windowData: windowData{
			native:            native,
			state:             state,
			floatingPlacement: floatingPlacement,
		},
	}
}

func (w *NonTilingWindow) InsertionTarget() *InsertionTarget { return w.insertionTarget }

func (w *NonTilingWindow) SetInsertionTarget(t *InsertionTarget) { w.insertionTarget = t }

// SetState changes the window's state, remembering the previous state when
// the kind of state changes.
func (w *NonTilingWindow) SetState(state platform.WindowState) { w.setState(state) }

func (w *windowData) setState(state platform.WindowState) {
	if !w.state.SameKind(state) {
		prev := w.state
		w.prevState = &prev
	}
	w.state = state
}

// ToTiling builds a detached tiling window with the same identity and native
// handle. The receiver is not modified.
func (w *NonTilingWindow) ToTiling(innerGap geom.LengthValue) *TilingWindow {
	tw := &TilingWindow{
		node:       newNode(w.id),
		windowData: w.windowData,
		tilingSize: 1,
		innerGap:   innerGap,
	}
	tw.setState(platform.Tiling())
	return tw
}

func (w *NonTilingWindow) ToRect() (geom.Rect, error) {
	if w.state.Kind == platform.StateFullscreen {
		m := MonitorOf(w)
		if m == nil {
			return geom.Rect{}, fmt.Errorf("window %s: %w", w.id, ErrNoMonitor)
		}
		return m.rect, nil
	}
	return w.floatingPlacement, nil
}
