package container

import (
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/1broseidon/tilewm/internal/platform"
)

// Index returns c's position among its parent's children, or -1 when
// detached.
func Index(c Container) int {
	p := c.Parent()
	if p == nil {
		return -1
	}
	return p.base().childIndex(c.ID())
}

// Ancestors yields c's parent, then its grandparent, up to the root.
func Ancestors(c Container) iter.Seq[Container] {
	return func(yield func(Container) bool) {
		for p := c.Parent(); p != nil; p = p.Parent() {
			if !yield(p) {
				return
			}
		}
	}
}

// SelfAndAncestors yields c followed by Ancestors(c).
func SelfAndAncestors(c Container) iter.Seq[Container] {
	return func(yield func(Container) bool) {
		if !yield(c) {
			return
		}
		for p := range Ancestors(c) {
			if !yield(p) {
				return
			}
		}
	}
}

// Descendants yields c's subtree depth first in child order, excluding c.
func Descendants(c Container) iter.Seq[Container] {
	return func(yield func(Container) bool) {
		stack := slices.Clone(c.base().children)
		slices.Reverse(stack)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			for i := len(cur.base().children) - 1; i >= 0; i-- {
				stack = append(stack, cur.base().children[i])
			}
		}
	}
}

// DescendantFocusOrder yields c's subtree depth first, visiting the most
// recently focused child of each container first.
func DescendantFocusOrder(c Container) iter.Seq[Container] {
	return func(yield func(Container) bool) {
		stack := ChildFocusOrder(c)
		slices.Reverse(stack)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			children := ChildFocusOrder(cur)
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
}

// ChildFocusOrder returns c's children, most recently focused first.
func ChildFocusOrder(c Container) []Container {
	n := c.base()
	out := make([]Container, 0, len(n.children))
	seen := make(map[uuid.UUID]bool, len(n.children))
	for _, id := range n.focusOrder {
		if i := n.childIndex(id); i >= 0 {
			out = append(out, n.children[i])
			seen[id] = true
		}
	}
	for _, child := range n.children {
		if !seen[child.ID()] {
			out = append(out, child)
		}
	}
	return out
}

// LastFocusedDescendant follows the most recently focused child down from c.
// It returns nil when c has no children.
func LastFocusedDescendant(c Container) Container {
	var last Container
	for cur := c; ; {
		order := ChildFocusOrder(cur)
		if len(order) == 0 {
			return last
		}
		last = order[0]
		cur = last
	}
}

// SetFocusedDescendant makes c the most recently focused child of its parent,
// and repeats for every ancestor.
func SetFocusedDescendant(c Container) {
	for cur := c; cur.Parent() != nil; cur = cur.Parent() {
		cur.Parent().base().promoteFocus(cur.ID())
	}
}

// Siblings returns the other children of c's parent in order.
func Siblings(c Container) []Container {
	p := c.Parent()
	if p == nil {
		return nil
	}
	out := make([]Container, 0, p.ChildCount())
	for _, s := range p.base().children {
		if s.ID() != c.ID() {
			out = append(out, s)
		}
	}
	return out
}

// TilingSiblings returns the tiling siblings of c in order.
func TilingSiblings(c Container) []TilingContainer {
	var out []TilingContainer
	for _, s := range Siblings(c) {
		if t, ok := s.(TilingContainer); ok {
			out = append(out, t)
		}
	}
	return out
}

// TilingChildren returns parent's tiling children in order.
func TilingChildren(parent Container) []TilingContainer {
	var out []TilingContainer
	for _, c := range parent.base().children {
		if t, ok := c.(TilingContainer); ok {
			out = append(out, t)
		}
	}
	return out
}

// IsAncestor reports whether anc is a strict ancestor of c.
func IsAncestor(anc, c Container) bool {
	for p := range Ancestors(c) {
		if p.ID() == anc.ID() {
			return true
		}
	}
	return false
}

// WorkspaceOf returns the workspace containing c, or c itself if it is one.
func WorkspaceOf(c Container) *Workspace {
	for cur := range SelfAndAncestors(c) {
		if ws, ok := cur.(*Workspace); ok {
			return ws
		}
	}
	return nil
}

// MonitorOf returns the monitor containing c, or c itself if it is one.
func MonitorOf(c Container) *Monitor {
	for cur := range SelfAndAncestors(c) {
		if m, ok := cur.(*Monitor); ok {
			return m
		}
	}
	return nil
}

// Windows returns all windows in c's subtree, in tree order.
func Windows(c Container) []Window {
	var out []Window
	if w, ok := c.(Window); ok {
		return append(out, w)
	}
	for d := range Descendants(c) {
		if w, ok := d.(Window); ok {
			out = append(out, w)
		}
	}
	return out
}

// Monitors returns root's monitors in order.
func Monitors(root *Root) []*Monitor {
	out := make([]*Monitor, 0, len(root.children))
	for _, c := range root.children {
		if m, ok := c.(*Monitor); ok {
			out = append(out, m)
		}
	}
	return out
}

// Workspaces returns every workspace under root, monitor by monitor.
func Workspaces(root *Root) []*Workspace {
	var out []*Workspace
	for _, m := range Monitors(root) {
		for _, c := range m.children {
			if ws, ok := c.(*Workspace); ok {
				out = append(out, ws)
			}
		}
	}
	return out
}

// WorkspaceByName looks up a workspace by name.
func WorkspaceByName(root *Root, name string) *Workspace {
	for _, ws := range Workspaces(root) {
		if ws.name == name {
			return ws
		}
	}
	return nil
}

// IndexByID builds an id lookup over c's subtree, including c.
func IndexByID(c Container) map[uuid.UUID]Container {
	out := map[uuid.UUID]Container{c.ID(): c}
	for d := range Descendants(c) {
		out[d.ID()] = d
	}
	return out
}

// WindowByHandle finds the managed window wrapping the given native id.
func WindowByHandle(root Container, id platform.WindowID) Window {
	for d := range Descendants(root) {
		if w, ok := d.(Window); ok && w.Native().ID() == id {
			return w
		}
	}
	return nil
}
