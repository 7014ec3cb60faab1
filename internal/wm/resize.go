package wm

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/tiling"
)

// ResizeWindow grows (or with negative amounts shrinks) w by the given
// width and height deltas. A zero delta leaves that axis alone.
//
// For tiling windows the delta becomes a change of tiling share, taken from
// the siblings in proportion to their own shares so the total is unchanged.
// When the window's parent tiles along the other axis, the enclosing split
// is resized instead. A window without tiling siblings on that axis is left
// as is. Floating windows have their floating placement grown instead.
func (s *State) ResizeWindow(w container.Window, width, height geom.LengthValue) error {
	switch w := w.(type) {
	case *container.TilingWindow:
		if width.Amount != 0 {
			if err := s.resizeTiling(w, geom.Horizontal, width); err != nil {
				return err
			}
		}
		if height.Amount != 0 {
			if err := s.resizeTiling(w, geom.Vertical, height); err != nil {
				return err
			}
		}
		return nil

	case *container.NonTilingWindow:
		if w.State().Kind != platform.StateFloating {
			return nil
		}
		return s.resizeFloating(w, width, height)
	}
	return nil
}

func (s *State) resizeTiling(w *container.TilingWindow, axis geom.TilingDirection, delta geom.LengthValue) error {
	target, parent, ok := resizeTarget(w, axis)
	if !ok {
		return nil
	}

	siblings := container.TilingSiblings(target)
	if len(siblings) == 0 {
		return nil
	}

	parentRect, err := parent.ToRect()
	if err != nil {
		return fmt.Errorf("resize window %d: %w", w.Native().ID(), err)
	}
	extent := parentRect.Width
	if axis == geom.Vertical {
		extent = parentRect.Height
	}

	change, err := tiling.ClampResize(target.TilingSize(), delta.ToFraction(extent), len(siblings))
	if err != nil || change == 0 {
		return err
	}

	slog.Debug("resizing tiling container", "container", target.ID(), "axis", axis, "change", change)

	total := 0.0
	for _, sib := range siblings {
		total += sib.TilingSize()
	}
	target.SetTilingSize(target.TilingSize() + change)
	for _, sib := range siblings {
		share := 1 / float64(len(siblings))
		if total > 0 {
			share = sib.TilingSize() / total
		}
		sib.SetTilingSize(sib.TilingSize() - change*share)
	}

	s.pending.QueueContainerToRedraw(parent)
	return nil
}

// resizeTarget picks the container whose share changes when w is resized
// along axis: w itself when its parent tiles along axis, else the enclosing
// split when that split's parent does.
func resizeTarget(w *container.TilingWindow, axis geom.TilingDirection) (container.TilingContainer, container.DirectionContainer, bool) {
	parent, ok := w.Parent().(container.DirectionContainer)
	if !ok {
		return nil, nil, false
	}
	if parent.TilingDirection() == axis {
		return w, parent, true
	}

	split, ok := parent.(*container.SplitContainer)
	if !ok {
		return nil, nil, false
	}
	grandparent, ok := split.Parent().(container.DirectionContainer)
	if !ok || grandparent.TilingDirection() != axis {
		return nil, nil, false
	}
	return split, grandparent, true
}

func (s *State) resizeFloating(w *container.NonTilingWindow, width, height geom.LengthValue) error {
	m := container.MonitorOf(w)
	if m == nil {
		return fmt.Errorf("window %s: %w", w.ID(), container.ErrNoMonitor)
	}
	area, _ := m.ToRect()

	rect := w.FloatingPlacement()
	rect.Width = max(1, rect.Width+width.ToPx(area.Width))
	rect.Height = max(1, rect.Height+height.ToPx(area.Height))
	w.SetFloatingPlacement(rect)

	s.pending.QueueContainerToRedraw(w)
	return nil
}
