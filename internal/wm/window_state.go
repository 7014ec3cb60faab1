package wm

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// UpdateWindowState moves w into target state. Calling it with the window's
// current state does nothing.
//
// Switching a window to tiling places it at its remembered insertion target
// when that target's workspace is displayed, otherwise next to the most
// recently focused tiling window of its workspace, otherwise at the end of
// the workspace. Switching to minimized only happens once the native window
// is minimized; until then a native minimize is requested and the tree is
// left alone.
func (s *State) UpdateWindowState(w container.Window, target platform.WindowState) error {
	if w.State() == target {
		return nil
	}

	slog.Info("updating window state", "window", w.Native().ID(), "from", w.State(), "to", target)

	if target.Kind == platform.StateTiling {
		nt, ok := w.(*container.NonTilingWindow)
		if !ok {
			return nil
		}
		return s.setTiling(nt)
	}
	return s.setNonTiling(w, target)
}

func (s *State) setTiling(w *container.NonTilingWindow) error {
	ws := container.WorkspaceOf(w)
	if ws == nil {
		return fmt.Errorf("window %s: %w", w.ID(), container.ErrNoWorkspace)
	}
	parent := w.Parent()
	if parent == nil {
		return fmt.Errorf("window %s: %w", w.ID(), container.ErrNoParent)
	}

	targetParent, targetIndex := tilingInsertionPoint(w, ws)
	tw := w.ToTiling(s.cfg.Gaps.InnerGap)

	if err := s.ReplaceContainer(tw, parent, container.Index(w)); err != nil {
		return err
	}
	if err := s.MoveContainerWithinTree(tw, targetParent, targetIndex); err != nil {
		return err
	}

	for _, c := range container.TilingChildren(tw.Parent()) {
		s.pending.QueueContainerToRedraw(c)
	}
	return nil
}

func tilingInsertionPoint(w *container.NonTilingWindow, ws *container.Workspace) (container.Container, int) {
	if t := w.InsertionTarget(); t != nil && t.Parent != nil {
		if tws := container.WorkspaceOf(t.Parent); tws != nil && tws.IsDisplayed() {
			return t.Parent, t.Index
		}
	}

	for c := range container.DescendantFocusOrder(ws) {
		if tw, ok := c.(*container.TilingWindow); ok {
			return tw.Parent(), container.Index(tw) + 1
		}
	}

	return ws, ws.ChildCount()
}

func (s *State) setNonTiling(w container.Window, target platform.WindowState) error {
	if target.Kind == platform.StateMinimized {
		minimized, err := w.Native().IsMinimized()
		if err != nil {
			return fmt.Errorf("query minimized state of window %d: %w", w.Native().ID(), err)
		}
		if !minimized {
			slog.Info("no window state update, minimizing window", "window", w.Native().ID())
			return w.Native().Minimize()
		}
	}

	switch w := w.(type) {
	case *container.NonTilingWindow:
		w.SetState(target)
		if target.Kind == platform.StateFloating {
			s.placeFloating(w, target.Floating)
		}
		s.pending.QueueContainerToRedraw(w)
		return nil

	case *container.TilingWindow:
		parent := w.Parent()
		if parent == nil {
			return fmt.Errorf("window %s: %w", w.ID(), container.ErrNoParent)
		}
		ws := container.WorkspaceOf(w)
		if ws == nil {
			return fmt.Errorf("window %s: %w", w.ID(), container.ErrNoWorkspace)
		}

		insertion := &container.InsertionTarget{Parent: parent, Index: container.Index(w)}
		nt := w.ToNonTiling(target, insertion)

		// Non-tiling windows are always direct children of the workspace.
		if !container.Same(parent, ws) {
			if err := s.MoveContainerWithinTree(w, ws, ws.ChildCount()); err != nil {
				return err
			}
		}
		if err := s.ReplaceContainer(nt, ws, container.Index(w)); err != nil {
			return err
		}
		if target.Kind == platform.StateFloating {
			s.placeFloating(nt, target.Floating)
		}

		s.pending.QueueContainerToRedraw(nt)
		for _, c := range container.TilingChildren(ws) {
			s.pending.QueueContainerToRedraw(c)
		}
		return nil
	}
	return nil
}

// placeFloating centers the floating placement on the window's workspace
// when the floating state asks for it.
func (s *State) placeFloating(w *container.NonTilingWindow, cfg platform.FloatingConfig) {
	if !cfg.Centered {
		return
	}
	ws := container.WorkspaceOf(w)
	if ws == nil {
		return
	}
	area, err := ws.ToRect()
	if err != nil {
		return
	}
	w.SetFloatingPlacement(centerIn(w.FloatingPlacement(), area))
}

func centerIn(r, area geom.Rect) geom.Rect {
	c := area.Center()
	r.Width = min(r.Width, area.Width)
	r.Height = min(r.Height, area.Height)
	r.X = c.X - r.Width/2
	r.Y = c.Y - r.Height/2
	return r
}
