// Package platformtest provides recording fakes of the platform contract
// for tests.
package platformtest

import (
	"fmt"
	"sync"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// Call is one recorded native call.
type Call struct {
	Window platform.WindowID
	Method string
	Args   []any
}

// Recorder collects calls made against fakes sharing it.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) record(id platform.WindowID, method string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Window: id, Method: method, Args: args})
}

// Calls returns a copy of all recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsTo returns recorded calls with the given method name.
func (r *Recorder) CallsTo(method string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Window is a fake native window.
type Window struct {
	rec *Recorder

	mu        sync.Mutex
	id        platform.WindowID
	title     string
	frame     geom.Rect
	minimized bool
	valid     bool
	failWith  error
}

var _ platform.NativeWindow = (*Window)(nil)

// NewWindow creates a valid fake window recording into rec.
func NewWindow(rec *Recorder, id platform.WindowID, frame geom.Rect) *Window {
	return &Window{
		rec:   rec,
		id:    id,
		title: fmt.Sprintf("window-%d", id),
		frame: frame,
		valid: true,
	}
}

// SetFrame changes what RefreshFramePosition reports.
func (w *Window) SetFrame(r geom.Rect) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frame = r
}

// SetMinimized changes what IsMinimized reports.
func (w *Window) SetMinimized(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minimized = v
}

// Invalidate makes IsValid report false.
func (w *Window) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.valid = false
}

// FailWith makes every mutating call return err after recording it.
func (w *Window) FailWith(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failWith = err
}

func (w *Window) fail() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failWith
}

func (w *Window) ID() platform.WindowID { return w.id }
func (w *Window) Title() string          { return w.title }
func (w *Window) ClassName() string      { return "Fake" }

func (w *Window) IsValid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.valid
}

func (w *Window) SetPosition(state platform.WindowState, rect geom.Rect, visible bool, hideMethod platform.HideMethod, pendingDPI bool) error {
	w.rec.record(w.id, "SetPosition", state, rect, visible, hideMethod, pendingDPI)
	return w.fail()
}

func (w *Window) SetTaskbarVisibility(visible bool) error {
	w.rec.record(w.id, "SetTaskbarVisibility", visible)
	return w.fail()
}

func (w *Window) Minimize() error {
	w.rec.record(w.id, "Minimize")
	return w.fail()
}

func (w *Window) IsMinimized() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.minimized, nil
}

func (w *Window) SetForeground() error {
	w.rec.record(w.id, "SetForeground")
	return w.fail()
}

func (w *Window) RefreshFramePosition() (geom.Rect, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frame, nil
}

func (w *Window) SetBorderColor(color *platform.Color) error {
	var arg any
	if color != nil {
		arg = *color
	}
	w.rec.record(w.id, "SetBorderColor", arg)
	return w.fail()
}

func (w *Window) SetTitleBarVisibility(visible bool) error {
	w.rec.record(w.id, "SetTitleBarVisibility", visible)
	return w.fail()
}

func (w *Window) SetCornerStyle(style platform.CornerStyle) error {
	w.rec.record(w.id, "SetCornerStyle", style)
	return w.fail()
}

func (w *Window) SetOpacity(opacity platform.OpacityValue) error {
	w.rec.record(w.id, "SetOpacity", opacity)
	return w.fail()
}

// Backend is a fake process-wide platform.
type Backend struct {
	Recorder *Recorder

	mu         sync.Mutex
	displays   []platform.Display
	windows    map[platform.WindowID]*Window
	order      []platform.WindowID
	foreground platform.WindowID
	mouse      geom.Point
	desktop    *Window
}

var _ platform.Backend = (*Backend)(nil)

// DesktopID is the ID of the fake desktop window.
const DesktopID platform.WindowID = 1

// NewBackend creates a fake backend with the given displays.
func NewBackend(displays ...platform.Display) *Backend {
	rec := &Recorder{}
	return &Backend{
		Recorder: rec,
		displays: displays,
		windows:  make(map[platform.WindowID]*Window),
		desktop:  NewWindow(rec, DesktopID, geom.Rect{}),
	}
}

// AddWindow registers a new fake window.
func (b *Backend) AddWindow(id platform.WindowID, frame geom.Rect) *Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := NewWindow(b.Recorder, id, frame)
	b.windows[id] = w
	b.order = append(b.order, id)
	return w
}

// SetForegroundID sets what ForegroundWindow reports.
func (b *Backend) SetForegroundID(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.foreground = id
}

// SetMouse sets what MousePosition reports.
func (b *Backend) SetMouse(p geom.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mouse = p
}

// SetDisplays replaces the reported displays.
func (b *Backend) SetDisplays(displays ...platform.Display) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.displays = displays
}

func (b *Backend) Displays() ([]platform.Display, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]platform.Display, len(b.displays))
	copy(out, b.displays)
	return out, nil
}

func (b *Backend) ManageableWindows() ([]platform.NativeWindow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]platform.NativeWindow, 0, len(b.order))
	for _, id := range b.order {
		if w := b.windows[id]; w.IsValid() {
			out = append(out, w)
		}
	}
	return out, nil
}

func (b *Backend) Window(id platform.WindowID) platform.NativeWindow {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w, ok := b.windows[id]; ok {
		return w
	}
	return NewWindow(b.Recorder, id, geom.Rect{})
}

func (b *Backend) ForegroundWindow() platform.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.foreground
}

func (b *Backend) DesktopWindow() platform.NativeWindow {
	return b.desktop
}

func (b *Backend) MousePosition() (geom.Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mouse, nil
}

func (b *Backend) SetCursorPos(x, y int) error {
	b.Recorder.record(0, "SetCursorPos", x, y)
	return nil
}
