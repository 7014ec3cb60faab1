package container

import (
	"fmt"
	"slices"
)

// Attach inserts a detached child into parent at index, clamped to the valid
// range. When both are tiling, the child takes 1/(n+1) of the extent and
// the n existing tiling siblings shrink in proportion to their shares, so
// none of them can drop to zero or below.
func Attach(parent, child Container, index int) error {
	if child.Parent() != nil {
		return fmt.Errorf("attach %s: %w", child.ID(), ErrAlreadyAttached)
	}
	if err := checkPlacement(parent, child); err != nil {
		return err
	}

	p := parent.base()
	index = max(0, min(index, len(p.children)))
	p.children = slices.Insert(p.children, index, child)
	p.focusOrder = append(p.focusOrder, child.ID())
	child.base().parent = parent

	if tc, ok := child.(TilingContainer); ok {
		if _, ok := parent.(DirectionContainer); ok {
			siblings := TilingSiblings(child)
			tc.SetTilingSize(1 / float64(len(siblings)+1))
			shrinkShares(siblings, tc.TilingSize())
		}
	}
	return nil
}

// Detach removes child from its parent. A tiling child's share is handed back
// evenly to its remaining tiling siblings.
func Detach(child Container) error {
	parent := child.Parent()
	if parent == nil {
		return fmt.Errorf("detach %s: %w", child.ID(), ErrNoParent)
	}

	siblings := TilingSiblings(child)
	p := parent.base()
	p.children = slices.DeleteFunc(p.children, func(c Container) bool { return c.ID() == child.ID() })
	p.removeFocus(child.ID())
	child.base().parent = nil

	if tc, ok := child.(TilingContainer); ok && len(siblings) > 0 {
		if _, ok := parent.(DirectionContainer); ok {
			gain := tc.TilingSize() / float64(len(siblings))
			for _, s := range siblings {
				s.SetTilingSize(s.TilingSize() + gain)
			}
		}
	}
	return nil
}

// ReplaceChild swaps the child at index for a detached replacement and
// returns the removed child. Focus order position is kept. A replacement that
// is tiling exactly when the old child was inherits its tiling size;
// otherwise the siblings are rebalanced as for Detach and Attach.
func ReplaceChild(parent Container, index int, replacement Container) (Container, error) {
	p := parent.base()
	if index < 0 || index >= len(p.children) {
		return nil, fmt.Errorf("replace child %d of %s: %w", index, parent.ID(), ErrIndexOutOfRange)
	}
	if replacement.Parent() != nil {
		return nil, fmt.Errorf("replace with %s: %w", replacement.ID(), ErrAlreadyAttached)
	}
	if err := checkPlacement(parent, replacement); err != nil {
		return nil, err
	}

	old := p.children[index]
	oldTiling, oldIsTiling := old.(TilingContainer)
	newTiling, newIsTiling := replacement.(TilingContainer)
	_, directional := parent.(DirectionContainer)

	var siblings []TilingContainer
	if directional {
		siblings = TilingSiblings(old)
	}

	p.children[index] = replacement
	if i := slices.Index(p.focusOrder, old.ID()); i >= 0 {
		p.focusOrder[i] = replacement.ID()
	} else {
		p.focusOrder = append(p.focusOrder, replacement.ID())
	}
	old.base().parent = nil
	replacement.base().parent = parent

	if !directional {
		return old, nil
	}
	switch {
	case oldIsTiling && newIsTiling:
		newTiling.SetTilingSize(oldTiling.TilingSize())
	case oldIsTiling && len(siblings) > 0:
		gain := oldTiling.TilingSize() / float64(len(siblings))
		for _, s := range siblings {
			s.SetTilingSize(s.TilingSize() + gain)
		}
	case newIsTiling:
		newTiling.SetTilingSize(1 / float64(len(siblings)+1))
		shrinkShares(siblings, newTiling.TilingSize())
	}
	return old, nil
}

// shrinkShares scales siblings down to make room for a newcomer taking share.
func shrinkShares(siblings []TilingContainer, share float64) {
	for _, s := range siblings {
		s.SetTilingSize(s.TilingSize() * (1 - share))
	}
}

// MoveChild reorders child within its current parent. Tiling sizes and focus
// order are unchanged.
func MoveChild(child Container, index int) error {
	parent := child.Parent()
	if parent == nil {
		return fmt.Errorf("move %s: %w", child.ID(), ErrNoParent)
	}
	p := parent.base()
	cur := p.childIndex(child.ID())
	p.children = slices.Delete(p.children, cur, cur+1)
	index = max(0, min(index, len(p.children)))
	p.children = slices.Insert(p.children, index, child)
	return nil
}

func checkPlacement(parent, child Container) error {
	ok := true
	switch child.(type) {
	case *Root:
		ok = false
	case *Monitor:
		_, ok = parent.(*Root)
	case *Workspace:
		_, ok = parent.(*Monitor)
	case *NonTilingWindow:
		_, ok = parent.(*Workspace)
	case *SplitContainer, *TilingWindow:
		_, ok = parent.(DirectionContainer)
	}
	if !ok {
		return fmt.Errorf("place %T under %T: %w", child, parent, ErrInvalidPlacement)
	}
	return nil
}
