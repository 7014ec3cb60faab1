package wm

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// HandleEvent applies one platform event to the model. Events about
// windows that are not managed are ignored.
func (s *State) HandleEvent(ev platform.Event, displays func() ([]platform.Display, error)) error {
	switch ev := ev.(type) {
	case platform.WindowShown:
		return s.handleWindowShown(ev.Window)
	case platform.WindowHidden:
		return s.handleWindowHidden(ev.Window)
	case platform.WindowDestroyed:
		return s.handleWindowDestroyed(ev.Window)
	case platform.WindowFocused:
		return s.handleWindowFocused(ev.Window)
	case platform.WindowMinimized:
		return s.handleWindowMinimized(ev.Window)
	case platform.WindowMinimizeEnded:
		return s.handleWindowMinimizeEnded(ev.Window)
	case platform.WindowMovedOrResizedEnd:
		return s.handleWindowMovedOrResizedEnd(ev.Window)
	case platform.DisplaySettingsChanged:
		if displays == nil {
			return nil
		}
		list, err := displays()
		if err != nil {
			return fmt.Errorf("list displays: %w", err)
		}
		return s.SyncMonitors(list)
	default:
		return fmt.Errorf("unhandled platform event %T", ev)
	}
}

func (s *State) handleWindowShown(native platform.NativeWindow) error {
	if w := s.WindowFromNative(native); w != nil {
		if w.DisplayState() == container.DisplayShowing {
			w.SetDisplayState(container.DisplayShown)
		}
		return nil
	}
	if !native.IsValid() {
		return nil
	}
	return s.ManageWindow(native)
}

func (s *State) handleWindowHidden(native platform.NativeWindow) error {
	w := s.WindowFromNative(native)
	if w == nil {
		return nil
	}
	if w.DisplayState() == container.DisplayHiding {
		w.SetDisplayState(container.DisplayHidden)
	}
	return nil
}

// ManageWindow starts tracking native in the focused workspace. Tiling
// windows go next to the focused tiling window when there is one.
func (s *State) ManageWindow(native platform.NativeWindow) error {
	focused := s.FocusedContainer()
	if focused == nil {
		return nil
	}
	ws := container.WorkspaceOf(focused)
	if ws == nil {
		return fmt.Errorf("manage window %d: %w", native.ID(), container.ErrNoWorkspace)
	}

	frame, err := native.RefreshFramePosition()
	if err != nil {
		slog.Warn("failed to read window frame", "window", native.ID(), "error", err)
	}
	minimized, err := native.IsMinimized()
	if err != nil {
		slog.Warn("failed to read minimized state", "window", native.ID(), "error", err)
	}

	defaults := s.cfg.WindowBehavior.StateDefaults
	var w container.Window
	switch {
	case minimized:
		nt := container.NewNonTilingWindow(native, platform.Minimized(), frame)
		if err := container.Attach(ws, nt, ws.ChildCount()); err != nil {
			return err
		}
		w = nt
	case s.cfg.WindowBehavior.InitialState == config.InitialFloating:
		nt := container.NewNonTilingWindow(native, platform.Floating(defaults.Floating), frame)
		if err := container.Attach(ws, nt, ws.ChildCount()); err != nil {
			return err
		}
		s.placeFloating(nt, defaults.Floating)
		w = nt
	default:
		tw := container.NewTilingWindow(native, frame, s.cfg.Gaps.InnerGap)
		parent, index := container.Container(ws), ws.ChildCount()
		if fw, ok := focused.(*container.TilingWindow); ok {
			parent, index = fw.Parent(), container.Index(fw)+1
		}
		if err := container.Attach(parent, tw, index); err != nil {
			return err
		}
		w = tw
	}

	slog.Info("managing window", "window", native.ID(), "class", native.ClassName(), "state", w.State())

	if w.State().Kind != platform.StateMinimized {
		s.setFocus(w)
	}
	s.pending.QueueContainerToRedraw(w.Parent())

	dto := container.ToDTO(w, nil)
	s.emit(Event{Type: EventWindowManaged, ManagedWindow: &dto})
	return nil
}

func (s *State) handleWindowDestroyed(native platform.NativeWindow) error {
	w := s.WindowFromNative(native)
	if w == nil {
		return nil
	}
	return s.UnmanageWindow(w)
}

// UnmanageWindow stops tracking w and moves focus on if it was focused.
func (s *State) UnmanageWindow(w container.Window) error {
	ws := container.WorkspaceOf(w)
	wasFocused := container.Same(s.FocusedContainer(), w)

	slog.Info("unmanaging window", "window", w.Native().ID())
	if err := s.detachWindow(w); err != nil {
		return err
	}
	s.refocusWithin(ws, w, wasFocused)

	s.emit(Event{
		Type:            EventWindowUnmanaged,
		UnmanagedID:     w.ID().String(),
		UnmanagedHandle: uint32(w.Native().ID()),
	})
	return nil
}

func (s *State) handleWindowFocused(native platform.NativeWindow) error {
	w := s.WindowFromNative(native)
	if w == nil {
		return nil
	}
	if container.Same(s.FocusedContainer(), w) {
		return nil
	}

	ws := container.WorkspaceOf(w)
	if ws != nil && !ws.IsDisplayed() {
		if m := container.MonitorOf(ws); m != nil {
			s.pending.QueueContainerToRedraw(m.DisplayedWorkspace())
		}
		s.pending.QueueContainerToRedraw(ws)
		defer func() {
			dto := container.ToDTO(ws, nil)
			s.emit(Event{Type: EventWorkspaceActivated, Workspace: &dto})
		}()
	}

	s.setFocus(w)
	return nil
}

func (s *State) handleWindowMinimized(native platform.NativeWindow) error {
	w := s.WindowFromNative(native)
	if w == nil || w.State().Kind == platform.StateMinimized {
		return nil
	}

	ws := container.WorkspaceOf(w)
	wasFocused := container.Same(s.FocusedContainer(), w)
	if err := s.UpdateWindowState(w, platform.Minimized()); err != nil {
		return err
	}
	// The window was replaced; look it up again by handle.
	if nw := s.WindowFromNative(native); nw != nil {
		s.refocusWithin(ws, nw, wasFocused)
	}
	return nil
}

func (s *State) handleWindowMinimizeEnded(native platform.NativeWindow) error {
	w := s.WindowFromNative(native)
	if w == nil || w.State().Kind != platform.StateMinimized {
		return nil
	}

	target := platform.Tiling()
	if prev, ok := w.PrevState(); ok && prev.Kind != platform.StateMinimized {
		target = prev
	}
	if err := s.UpdateWindowState(w, target); err != nil {
		return err
	}
	if nw := s.WindowFromNative(native); nw != nil {
		s.setFocus(nw)
	}
	return nil
}

// handleWindowMovedOrResizedEnd reconciles a finished user drag. A window
// alone in its workspace is snapped back. A non-tiling window whose size
// did not change counts as moved, even if its position did not change
// either. A tiling window's size change becomes a resize.
func (s *State) handleWindowMovedOrResizedEnd(native platform.NativeWindow) error {
	w := s.WindowFromNative(native)
	if w == nil {
		return nil
	}
	parent := w.Parent()
	if parent == nil {
		return fmt.Errorf("window %d: %w", native.ID(), container.ErrNoParent)
	}

	if _, ok := parent.(*container.Workspace); ok && len(container.TilingSiblings(w)) == 0 {
		s.pending.QueueContainerToRedraw(w)
		return nil
	}

	newRect, err := native.RefreshFramePosition()
	if err != nil {
		return fmt.Errorf("refresh frame of window %d: %w", native.ID(), err)
	}
	oldRect, err := w.ToRect()
	if err != nil {
		return err
	}
	dw := newRect.Width - oldRect.Width
	dh := newRect.Height - oldRect.Height

	switch w := w.(type) {
	case *container.NonTilingWindow:
		if dw == 0 && dh == 0 {
			return s.windowMovedEnd(w, newRect)
		}
	case *container.TilingWindow:
		slog.Info("tiling window resized", "window", native.ID(), "width", dw, "height", dh)
		return s.ResizeWindow(w, geom.Px(dw), geom.Px(dh))
	}
	return nil
}

// windowMovedEnd records the new floating position and follows the window
// to another monitor when its center crossed over.
func (s *State) windowMovedEnd(w *container.NonTilingWindow, rect geom.Rect) error {
	if w.State().Kind != platform.StateFloating {
		return nil
	}
	w.SetFloatingPlacement(rect)

	target := s.MonitorAtPoint(rect.Center())
	current := container.MonitorOf(w)
	if target == nil || current == nil || container.Same(target, current) {
		return nil
	}
	ws := target.DisplayedWorkspace()
	if ws == nil {
		return nil
	}

	slog.Info("floating window moved to another monitor", "window", w.Native().ID(), "monitor", target.Name())
	if err := s.MoveContainerWithinTree(w, ws, ws.ChildCount()); err != nil {
		return err
	}
	s.setFocus(w)
	return nil
}
