package x11

import (
	"sync"
	"time"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// moveResizeSettle is how long a window's geometry must stay unchanged
// before a move or resize counts as finished.
const moveResizeSettle = 250 * time.Millisecond

// WindowCallbacks receives client window notifications. Callbacks run on the
// event loop goroutine, except MoveResizeEnd which runs from a timer. Nil
// callbacks are skipped.
type WindowCallbacks struct {
	Added         func(xproto.Window)
	Removed       func(xproto.Window)
	Mapped        func(xproto.Window)
	Unmapped      func(xproto.Window)
	Activated     func(xproto.Window)
	Iconified     func(xproto.Window)
	Deiconified   func(xproto.Window)
	MoveResizeEnd func(xproto.Window)
	ScreenChanged func()
}

type clientState struct {
	iconic bool
	settle *time.Timer
}

type watcher struct {
	c  *Connection
	cb WindowCallbacks

	mu      sync.Mutex
	clients map[xproto.Window]*clientState
}

// Watch subscribes to client list, focus, window state and screen layout
// changes. Windows already listed are tracked without an Added callback.
// Events are delivered while EventLoop runs.
func (c *Connection) Watch(cb WindowCallbacks) error {
	w := &watcher{c: c, cb: cb, clients: make(map[xproto.Window]*clientState)}

	if err := xwindow.New(c.XUtil, c.Root).Listen(xproto.EventMaskPropertyChange); err != nil {
		return err
	}
	xevent.PropertyNotifyFun(w.rootPropertyChanged).Connect(c.XUtil, c.Root)

	if err := randr.Init(c.XUtil.Conn()); err == nil {
		randr.SelectInput(c.XUtil.Conn(), c.Root, randr.NotifyMaskScreenChange)
		xevent.HookFun(func(_ *xgbutil.XUtil, ev interface{}) bool {
			if _, ok := ev.(randr.ScreenChangeNotifyEvent); ok && cb.ScreenChanged != nil {
				cb.ScreenChanged()
			}
			return true
		}).Connect(c.XUtil)
	}

	clients, err := c.ClientWindows()
	if err != nil {
		return err
	}
	for _, win := range clients {
		w.track(win)
	}
	return nil
}

func (w *watcher) rootPropertyChanged(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}
	switch name {
	case "_NET_CLIENT_LIST":
		w.syncClients()
	case "_NET_ACTIVE_WINDOW":
		active, err := w.c.GetActiveWindow()
		if err != nil || active == 0 || !w.tracked(active) {
			return
		}
		call(w.cb.Activated, active)
	}
}

func (w *watcher) syncClients() {
	current, err := w.c.ClientWindows()
	if err != nil {
		return
	}

	seen := make(map[xproto.Window]bool, len(current))
	for _, win := range current {
		seen[win] = true
		if !w.tracked(win) {
			w.track(win)
			call(w.cb.Added, win)
		}
	}

	w.mu.Lock()
	var removed []xproto.Window
	for win := range w.clients {
		if !seen[win] {
			removed = append(removed, win)
		}
	}
	w.mu.Unlock()

	for _, win := range removed {
		w.untrack(win)
		call(w.cb.Removed, win)
	}
}

func (w *watcher) tracked(win xproto.Window) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.clients[win]
	return ok
}

func (w *watcher) track(win xproto.Window) {
	xu := w.c.XUtil
	iconic, _ := w.c.IsIconic(win)

	w.mu.Lock()
	w.clients[win] = &clientState{iconic: iconic}
	w.mu.Unlock()

	// The window may already be gone; its removal shows up in the client list.
	_ = xwindow.New(xu, win).Listen(xproto.EventMaskStructureNotify, xproto.EventMaskPropertyChange)

	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		call(w.cb.Mapped, ev.Window)
	}).Connect(xu, win)
	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		call(w.cb.Unmapped, ev.Window)
	}).Connect(xu, win)
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		w.configured(ev.Window)
	}).Connect(xu, win)
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil || (name != "WM_STATE" && name != "_NET_WM_STATE") {
			return
		}
		w.stateChanged(win)
	}).Connect(xu, win)
}

func (w *watcher) untrack(win xproto.Window) {
	w.mu.Lock()
	if st, ok := w.clients[win]; ok && st.settle != nil {
		st.settle.Stop()
	}
	delete(w.clients, win)
	w.mu.Unlock()

	xevent.Detach(w.c.XUtil, win)
}

func (w *watcher) configured(win xproto.Window) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, ok := w.clients[win]
	if !ok {
		return
	}
	if st.settle != nil {
		st.settle.Stop()
	}
	st.settle = time.AfterFunc(moveResizeSettle, func() {
		if w.tracked(win) {
			call(w.cb.MoveResizeEnd, win)
		}
	})
}

func (w *watcher) stateChanged(win xproto.Window) {
	iconic, err := w.c.IsIconic(win)
	if err != nil {
		return
	}

	w.mu.Lock()
	st, ok := w.clients[win]
	changed := ok && st.iconic != iconic
	if changed {
		st.iconic = iconic
	}
	w.mu.Unlock()

	switch {
	case !changed:
	case iconic:
		call(w.cb.Iconified, win)
	default:
		call(w.cb.Deiconified, win)
	}
}

func call(f func(xproto.Window), win xproto.Window) {
	if f != nil {
		f(win)
	}
}
