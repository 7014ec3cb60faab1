// Package container implements the window manager's layout tree:
// Root → Monitor → Workspace → (SplitContainer | Window).
//
// Parents are reached through a non-owning back reference; the tree owns its
// nodes top-down through each node's ordered children. Structural edits go
// through Attach, Detach, ReplaceChild and MoveChild, which are meant to be
// driven by the wm package's commands so that pending redraws are recorded.
package container

import (
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/1broseidon/tilewm/internal/geom"
)

var (
	ErrNoParent         = errors.New("container has no parent")
	ErrNoWorkspace      = errors.New("container has no workspace")
	ErrNoMonitor        = errors.New("container has no monitor")
	ErrIllegalMove      = errors.New("container cannot be moved into its own subtree")
	ErrIndexOutOfRange  = errors.New("child index out of range")
	ErrAlreadyAttached  = errors.New("container is already attached")
	ErrInvalidPlacement = errors.New("container cannot be placed under this parent")
)

// Container is any node in the layout tree.
type Container interface {
	ID() uuid.UUID
	Parent() Container
	Children() []Container
	ChildCount() int
	// ToRect derives the container's logical rectangle from the tree.
	ToRect() (geom.Rect, error)

	base() *node
}

// TilingContainer is a container whose extent is a share of its parent's
// extent along the parent's tiling direction.
type TilingContainer interface {
	Container
	TilingSize() float64
	SetTilingSize(size float64)
	InnerGap() geom.LengthValue
	SetInnerGap(gap geom.LengthValue)
}

// DirectionContainer lays out its tiling children along one axis.
type DirectionContainer interface {
	Container
	TilingDirection() geom.TilingDirection
	SetTilingDirection(dir geom.TilingDirection)
}

type node struct {
	id       uuid.UUID
	parent   Container
	children []Container
	// focusOrder holds child ids, most recently focused first.
	focusOrder []uuid.UUID
}

func newNode(id uuid.UUID) node {
	if id == uuid.Nil {
		id = uuid.New()
	}
	return node{id: id}
}

func (n *node) base() *node { return n }

// ID returns the container's stable identity.
func (n *node) ID() uuid.UUID { return n.id }

// Parent returns the parent container, or nil when detached or root.
func (n *node) Parent() Container { return n.parent }

// Children returns a copy of the ordered child list.
func (n *node) Children() []Container { return slices.Clone(n.children) }

// ChildCount returns the number of children.
func (n *node) ChildCount() int { return len(n.children) }

func (n *node) childIndex(id uuid.UUID) int {
	return slices.IndexFunc(n.children, func(c Container) bool { return c.ID() == id })
}

func (n *node) removeFocus(id uuid.UUID) {
	n.focusOrder = slices.DeleteFunc(n.focusOrder, func(x uuid.UUID) bool { return x == id })
}

func (n *node) promoteFocus(id uuid.UUID) {
	n.removeFocus(id)
	n.focusOrder = slices.Insert(n.focusOrder, 0, id)
}

// Same reports whether a and b are the same logical container.
func Same(a, b Container) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID()
}
