package wm

import (
	"fmt"

	"github.com/1broseidon/tilewm/internal/container"
)

// MoveContainerWithinTree moves c under target at index. The index is
// clamped, and when c already lives in target it refers to the child list
// as it was before the move. Both the old and the new parent are queued for
// redraw. Moving a container into its own subtree fails with
// container.ErrIllegalMove. A container on the focus path stays on it.
func (s *State) MoveContainerWithinTree(c, target container.Container, index int) error {
	if container.Same(c, target) || container.IsAncestor(c, target) {
		return fmt.Errorf("move %s under %s: %w", c.ID(), target.ID(), container.ErrIllegalMove)
	}
	parent := c.Parent()
	if parent == nil {
		return fmt.Errorf("move %s: %w", c.ID(), container.ErrNoParent)
	}

	if container.Same(parent, target) {
		cur := container.Index(c)
		if index > cur {
			index--
		}
		if index == cur {
			return nil
		}
		if err := container.MoveChild(c, index); err != nil {
			return err
		}
		s.pending.QueueContainerToRedraw(parent)
		return nil
	}

	focused := s.FocusedContainer()
	onFocusPath := focused != nil && (container.Same(focused, c) || container.IsAncestor(c, focused))

	oldIndex := container.Index(c)
	if err := container.Detach(c); err != nil {
		return err
	}
	if err := container.Attach(target, c, index); err != nil {
		// Put it back so the tree stays whole.
		if rerr := container.Attach(parent, c, oldIndex); rerr != nil {
			return fmt.Errorf("move %s: %w (restore failed: %v)", c.ID(), err, rerr)
		}
		return fmt.Errorf("move %s: %w", c.ID(), err)
	}

	if onFocusPath {
		container.SetFocusedDescendant(c)
	}
	s.pending.QueueContainersToRedraw(s.removeIfEmptySplit(parent), target)
	return nil
}

// ReplaceContainer puts replacement in place of parent's child at index.
// The caller carries over anything that should survive, such as redraw
// registration or focus.
func (s *State) ReplaceContainer(replacement, parent container.Container, index int) error {
	if _, err := container.ReplaceChild(parent, index, replacement); err != nil {
		return fmt.Errorf("replace child %d: %w", index, err)
	}
	return nil
}

// removeIfEmptySplit detaches c when it is a split container left without
// children, and returns the container that now needs a redraw.
func (s *State) removeIfEmptySplit(c container.Container) container.Container {
	split, ok := c.(*container.SplitContainer)
	if !ok || split.ChildCount() > 0 {
		return c
	}
	grandparent := split.Parent()
	if grandparent == nil {
		return nil
	}
	if err := container.Detach(split); err != nil {
		return grandparent
	}
	return s.removeIfEmptySplit(grandparent)
}

// detachWindow removes w from the tree, cleaning up an emptied split, and
// queues the affected siblings for redraw.
func (s *State) detachWindow(w container.Window) error {
	parent := w.Parent()
	if parent == nil {
		return fmt.Errorf("detach %s: %w", w.ID(), container.ErrNoParent)
	}
	if err := container.Detach(w); err != nil {
		return err
	}
	s.pending.QueueContainerToRedraw(s.removeIfEmptySplit(parent))
	return nil
}
