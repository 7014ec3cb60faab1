package container

import (
	"github.com/1broseidon/tilewm/internal/geom"
)

// DTO is the serializable snapshot of a container subtree used by IPC and
// events.
type DTO struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	Name            string     `json:"name,omitempty"`
	Rect            *geom.Rect `json:"rect,omitempty"`
	TilingDirection string     `json:"tilingDirection,omitempty"`
	TilingSize      *float64   `json:"tilingSize,omitempty"`
	IsDisplayed     *bool      `json:"isDisplayed,omitempty"`
	Handle          uint32     `json:"handle,omitempty"`
	Title           string     `json:"title,omitempty"`
	ClassName       string     `json:"className,omitempty"`
	State           string     `json:"state,omitempty"`
	PrevState       string     `json:"prevState,omitempty"`
	DisplayState    string     `json:"displayState,omitempty"`
	HasFocus        bool       `json:"hasFocus,omitempty"`
	Children        []DTO      `json:"children,omitempty"`
}

// ToDTO snapshots c and its subtree. Containers whose rect cannot be derived
// (detached subtrees) are emitted without one. focused may be nil.
func ToDTO(c Container, focused Container) DTO {
	dto := DTO{ID: c.ID().String(), HasFocus: focused != nil && Same(c, focused)}
	if rect, err := c.ToRect(); err == nil {
		dto.Rect = &rect
	}

	switch v := c.(type) {
	case *Root:
		dto.Type = "root"
	case *Monitor:
		dto.Type = "monitor"
		dto.Name = v.name
	case *Workspace:
		dto.Type = "workspace"
		dto.Name = v.name
		dto.TilingDirection = v.direction.String()
		displayed := v.IsDisplayed()
		dto.IsDisplayed = &displayed
	case *SplitContainer:
		dto.Type = "split"
		dto.TilingDirection = v.direction.String()
		size := v.tilingSize
		dto.TilingSize = &size
	case *TilingWindow:
		dto.Type = "window"
		size := v.tilingSize
		dto.TilingSize = &size
		fillWindow(&dto, v)
	case *NonTilingWindow:
		dto.Type = "window"
		fillWindow(&dto, v)
	}

	for _, child := range c.base().children {
		dto.Children = append(dto.Children, ToDTO(child, focused))
	}
	return dto
}

func fillWindow(dto *DTO, w Window) {
	native := w.Native()
	dto.Handle = uint32(native.ID())
	dto.Title = native.Title()
	dto.ClassName = native.ClassName()
	dto.State = w.State().String()
	if prev, ok := w.PrevState(); ok {
		dto.PrevState = prev.String()
	}
	dto.DisplayState = w.DisplayState().String()
}
