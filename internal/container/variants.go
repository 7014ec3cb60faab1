package container

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/tiling"
)

// Root is the top of the tree. Its children are monitors.
type Root struct {
	node
}

func NewRoot() *Root {
	return &Root{node: newNode(uuid.Nil)}
}

// ToRect returns the bounding box of all monitors.
func (r *Root) ToRect() (geom.Rect, error) {
	var out geom.Rect
	for i, c := range r.children {
		rect, err := c.ToRect()
		if err != nil {
			return geom.Rect{}, err
		}
		if i == 0 {
			out = rect
			continue
		}
		left, top := min(out.X, rect.X), min(out.Y, rect.Y)
		right, bottom := max(out.Right(), rect.Right()), max(out.Bottom(), rect.Bottom())
		out = geom.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
	}
	return out, nil
}

// Monitor corresponds to one physical display. Its children are workspaces.
type Monitor struct {
	node
	displayID int
	name      string
	rect      geom.Rect
}

func NewMonitor(displayID int, name string, rect geom.Rect) *Monitor {
	return &Monitor{node: newNode(uuid.Nil), displayID: displayID, name: name, rect: rect}
}

func (m *Monitor) DisplayID() int { return m.displayID }
func (m *Monitor) Name() string   { return m.name }

// SetBounds updates the display bounds after a display change.
func (m *Monitor) SetBounds(name string, rect geom.Rect) {
	m.name = name
	m.rect = rect
}

func (m *Monitor) ToRect() (geom.Rect, error) { return m.rect, nil }

// DisplayedWorkspace returns the monitor's visible workspace.
func (m *Monitor) DisplayedWorkspace() *Workspace {
	for _, c := range ChildFocusOrder(m) {
		if ws, ok := c.(*Workspace); ok {
			return ws
		}
	}
	return nil
}

// Workspace is a named tiling surface on a monitor.
type Workspace struct {
	node
	name      string
	direction geom.TilingDirection
	outerGap  geom.RectDelta
}

func NewWorkspace(name string, dir geom.TilingDirection, outerGap geom.RectDelta) *Workspace {
	return &Workspace{node: newNode(uuid.Nil), name: name, direction: dir, outerGap: outerGap}
}

func (w *Workspace) Name() string                                 { return w.name }
func (w *Workspace) TilingDirection() geom.TilingDirection        { return w.direction }
func (w *Workspace) SetTilingDirection(dir geom.TilingDirection) { w.direction = dir }
func (w *Workspace) OuterGap() geom.RectDelta                     { return w.outerGap }
func (w *Workspace) SetOuterGap(gap geom.RectDelta)               { w.outerGap = gap }

// IsDisplayed reports whether the workspace is its monitor's most recently
// focused child.
func (w *Workspace) IsDisplayed() bool {
	m, ok := w.parent.(*Monitor)
	if !ok {
		return false
	}
	order := m.focusOrder
	if len(order) == 0 {
		return len(m.children) > 0 && m.children[0].ID() == w.id
	}
	return order[0] == w.id
}

func (w *Workspace) ToRect() (geom.Rect, error) {
	m, ok := w.parent.(*Monitor)
	if !ok {
		return geom.Rect{}, fmt.Errorf("workspace %q: %w", w.name, ErrNoMonitor)
	}
	return tiling.ApplyOuterGap(m.rect, w.outerGap), nil
}

// SplitContainer groups tiling children along its own direction.
type SplitContainer struct {
	node
	direction  geom.TilingDirection
	tilingSize float64
	innerGap   geom.LengthValue
}

func NewSplitContainer(dir geom.TilingDirection, innerGap geom.LengthValue) *SplitContainer {
	return &SplitContainer{node: newNode(uuid.Nil), direction: dir, tilingSize: 1, innerGap: innerGap}
}

func (s *SplitContainer) TilingDirection() geom.TilingDirection        { return s.direction }
func (s *SplitContainer) SetTilingDirection(dir geom.TilingDirection) { s.direction = dir }
func (s *SplitContainer) TilingSize() float64                          { return s.tilingSize }
func (s *SplitContainer) SetTilingSize(size float64)                   { s.tilingSize = size }
func (s *SplitContainer) InnerGap() geom.LengthValue                   { return s.innerGap }
func (s *SplitContainer) SetInnerGap(gap geom.LengthValue)             { s.innerGap = gap }

func (s *SplitContainer) ToRect() (geom.Rect, error) { return tilingRect(s) }

// tilingRect slices the parent's rect among its tiling children in order.
func tilingRect(c TilingContainer) (geom.Rect, error) {
	parent, ok := c.Parent().(DirectionContainer)
	if !ok {
		return geom.Rect{}, fmt.Errorf("tiling container %s: %w", c.ID(), ErrNoParent)
	}
	parentRect, err := parent.ToRect()
	if err != nil {
		return geom.Rect{}, err
	}

	siblings := TilingChildren(parent)
	sizes := make([]float64, len(siblings))
	idx := -1
	for i, s := range siblings {
		sizes[i] = s.TilingSize()
		if s.ID() == c.ID() {
			idx = i
		}
	}
	if idx < 0 {
		return geom.Rect{}, fmt.Errorf("tiling container %s: %w", c.ID(), ErrIndexOutOfRange)
	}

	extent := parentRect.Width
	if parent.TilingDirection() == geom.Vertical {
		extent = parentRect.Height
	}
	gap := c.InnerGap().ToPx(extent)
	return tiling.SplitRect(parentRect, parent.TilingDirection(), sizes, gap)[idx], nil
}
