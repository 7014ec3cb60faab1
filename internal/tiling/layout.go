package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/tilewm/internal/geom"
)

// MinTilingSize is the smallest share a tiling container may be resized to.
const MinTilingSize = 0.01

// SplitRect divides parent among len(sizes) children laid out along dir.
// Each size is the child's fractional share of the extent left after
// removing the inner gaps between children. Rounding is done on cumulative
// offsets so the children always tile the parent without drift.
func SplitRect(parent geom.Rect, dir geom.TilingDirection, sizes []float64, gap int) []geom.Rect {
	n := len(sizes)
	if n == 0 {
		return nil
	}

	extent := parent.Width
	if dir == geom.Vertical {
		extent = parent.Height
	}

	// Total gaps between children: one less than the number of children
	available := extent - gap*(n-1)
	if available < 0 {
		available = 0
	}

	total := 0.0
	for _, s := range sizes {
		total += s
	}
	if total <= 0 {
		total = 1
	}

	rects := make([]geom.Rect, n)
	cumulative := 0.0
	for i, s := range sizes {
		start := int(math.Round(cumulative / total * float64(available)))
		cumulative += s
		end := int(math.Round(cumulative / total * float64(available)))

		offset := start + i*gap
		length := end - start

		if dir == geom.Vertical {
			rects[i] = geom.Rect{
				X:      parent.X,
				Y:      parent.Y + offset,
				Width:  parent.Width,
				Height: length,
			}
		} else {
			rects[i] = geom.Rect{
				X:      parent.X + offset,
				Y:      parent.Y,
				Width:  length,
				Height: parent.Height,
			}
		}
	}

	return rects
}

// ApplyOuterGap shrinks a monitor area by the configured outer gap,
// clamping to a minimum 1x1 area.
func ApplyOuterGap(monitor geom.Rect, gap geom.RectDelta) geom.Rect {
	adjusted := monitor.ApplyInverseDelta(gap)

	if adjusted.Width < 1 {
		adjusted.Width = 1
	}
	if adjusted.Height < 1 {
		adjusted.Height = 1
	}

	return adjusted
}

// ClampResize returns the share delta that can actually be applied to a
// container currently holding size, given the number of tiling siblings
// that must keep at least MinTilingSize each.
func ClampResize(size float64, delta float64, siblings int) (float64, error) {
	if siblings < 1 {
		return 0, fmt.Errorf("resize requires at least one tiling sibling")
	}

	maxSize := 1 - MinTilingSize*float64(siblings)
	target := math.Max(MinTilingSize, math.Min(maxSize, size+delta))
	return target - size, nil
}
