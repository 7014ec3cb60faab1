package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is one enabled RandR CRTC.
type Monitor struct {
	CRTC   int
	Output string
	Bounds Rect
}

// Monitors lists enabled CRTCs in RandR order.
func (c *Connection) Monitors() ([]Monitor, error) {
	x := c.XUtil.Conn()
	if err := randr.Init(x); err != nil {
		return nil, fmt.Errorf("randr init: %w", err)
	}
	res, err := randr.GetScreenResources(x, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}

	var out []Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(x, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		m := Monitor{
			CRTC:   i,
			Output: fmt.Sprintf("crtc-%d", i),
			Bounds: Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)},
		}
		if output, err := randr.GetOutputInfo(x, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			m.Output = string(output.Name)
		}
		out = append(out, m)
	}
	return out, nil
}

// UsableArea is the part of m not reserved by docks. Without dock struts it
// falls back to the _NET_WORKAREA of the current desktop.
func (c *Connection) UsableArea(m Monitor) Rect {
	if root, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply(); err == nil {
		struts := c.dockStruts(int(root.Width), int(root.Height))
		if area, ok := subtractStruts(m.Bounds, struts); ok {
			return area
		}
	}

	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return m.Bounds
	}
	desktop := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
		desktop = int(cur)
	}
	wa := areas[desktop]
	if clip := intersect(m.Bounds, Rect{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)}); clip.Width > 0 && clip.Height > 0 {
		return clip
	}
	return m.Bounds
}

// strut is a screen-edge band reserved by a dock, in root coordinates.
type strut struct {
	edge edge
	band Rect
}

type edge int

const (
	edgeTop edge = iota
	edgeBottom
	edgeLeft
	edgeRight
)

// dockStruts reads the reserved bands of every dock window. Docks that only
// set _NET_WM_STRUT reserve their edge along the whole root.
func (c *Connection) dockStruts(rootW, rootH int) []strut {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil
	}

	var out []strut
	for _, win := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
		if err != nil || !slices.Contains(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		sp, err := ewmh.WmStrutPartialGet(c.XUtil, win)
		if err != nil {
			s, err := ewmh.WmStrutGet(c.XUtil, win)
			if err != nil {
				continue
			}
			full := func(n int) uint { return uint(max(n-1, 0)) }
			sp = &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY: full(rootH), RightEndY: full(rootH),
				TopEndX: full(rootW), BottomEndX: full(rootW),
			}
		}
		out = append(out, strutBands(sp, rootW, rootH)...)
	}
	return out
}

func strutBands(sp *ewmh.WmStrutPartial, rootW, rootH int) []strut {
	var out []strut
	if sp.Top > 0 {
		out = append(out, strut{edgeTop, Rect{X: int(sp.TopStartX), Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top)}})
	}
	if sp.Bottom > 0 {
		out = append(out, strut{edgeBottom, Rect{X: int(sp.BottomStartX), Y: rootH - int(sp.Bottom), Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom)}})
	}
	if sp.Left > 0 {
		out = append(out, strut{edgeLeft, Rect{Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1}})
	}
	if sp.Right > 0 {
		out = append(out, strut{edgeRight, Rect{X: rootW - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1}})
	}
	return out
}

// subtractStruts shrinks bounds by the thickest band overlapping it on each
// edge. ok is false when no band touches the monitor.
func subtractStruts(bounds Rect, struts []strut) (Rect, bool) {
	var reserved [4]int
	for _, s := range struts {
		o := intersect(bounds, s.band)
		if o.Width <= 0 || o.Height <= 0 {
			continue
		}
		depth := o.Height
		if s.edge == edgeLeft || s.edge == edgeRight {
			depth = o.Width
		}
		reserved[s.edge] = max(reserved[s.edge], depth)
	}
	if reserved == [4]int{} {
		return bounds, false
	}

	area := bounds
	area.X += reserved[edgeLeft]
	area.Y += reserved[edgeTop]
	area.Width = max(1, area.Width-reserved[edgeLeft]-reserved[edgeRight])
	area.Height = max(1, area.Height-reserved[edgeTop]-reserved[edgeBottom])
	return area, true
}

func intersect(a, b Rect) Rect {
	x1, y1 := max(a.X, b.X), max(a.Y, b.Y)
	x2, y2 := min(a.X+a.Width, b.X+b.Width), min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
