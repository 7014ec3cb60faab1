package tiling

import (
	"testing"

	"github.com/1broseidon/tilewm/internal/geom"
)

func TestSplitRect_HorizontalWithGap(t *testing.T) {
	parent := geom.Rect{X: 0, Y: 0, Width: 210, Height: 100}

	rects := SplitRect(parent, geom.Horizontal, []float64{0.5, 0.5}, 10)
	if len(rects) != 2 {
		t.Fatalf("expected 2 rects, got %d", len(rects))
	}

	// available = 210 - 10 = 200, each child 100 wide, second offset by gap.
	if rects[0] != (geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}) {
		t.Fatalf("unexpected rect0: %+v", rects[0])
	}
	if rects[1] != (geom.Rect{X: 110, Y: 0, Width: 100, Height: 100}) {
		t.Fatalf("unexpected rect1: %+v", rects[1])
	}
}

func TestSplitRect_VerticalUnevenShares(t *testing.T) {
	parent := geom.Rect{X: 10, Y: 20, Width: 100, Height: 300}

	rects := SplitRect(parent, geom.Vertical, []float64{0.25, 0.75}, 0)
	if rects[0].Height != 75 || rects[1].Height != 225 {
		t.Fatalf("expected heights 75/225, got %d/%d", rects[0].Height, rects[1].Height)
	}
	if rects[1].Y != 95 {
		t.Fatalf("expected second child at y=95, got %d", rects[1].Y)
	}
	if rects[0].Width != 100 || rects[0].X != 10 {
		t.Fatalf("expected full width at x=10, got %+v", rects[0])
	}
}

func TestSplitRect_NoDriftOnThirds(t *testing.T) {
	parent := geom.Rect{X: 0, Y: 0, Width: 100, Height: 10}
	third := 1.0 / 3
	rects := SplitRect(parent, geom.Horizontal, []float64{third, third, third}, 0)

	total := 0
	for _, r := range rects {
		total += r.Width
	}
	if total != 100 {
		t.Fatalf("expected widths to sum to 100, got %d", total)
	}
	if rects[2].Right() != 100 {
		t.Fatalf("expected last child to end at 100, got %d", rects[2].Right())
	}
}

func TestApplyOuterGap_ClampsToMinimumSize(t *testing.T) {
	monitor := geom.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	adjusted := ApplyOuterGap(monitor, geom.UniformDelta(geom.Px(20)))
	if adjusted.Width != 1 || adjusted.Height != 1 {
		t.Fatalf("expected 1x1, got %dx%d", adjusted.Width, adjusted.Height)
	}
}

func TestClampResize(t *testing.T) {
	delta, err := ClampResize(0.5, 0.6, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := 0.5 + delta; got < 0.989 || got > 0.991 {
		t.Fatalf("expected clamp to 0.99, got %f", got)
	}

	if _, err := ClampResize(0.5, 0.1, 0); err == nil {
		t.Fatalf("expected error without siblings")
	}
}
