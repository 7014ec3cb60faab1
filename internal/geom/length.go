package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LengthUnit is the unit of a LengthValue.
type LengthUnit int

const (
	Pixel LengthUnit = iota
	Percentage
)

// LengthValue is a length expressed either in pixels or as a percentage of
// some reference extent.
type LengthValue struct {
	Amount float64
	Unit   LengthUnit
}

// Px returns a pixel length.
func Px(amount int) LengthValue {
	return LengthValue{Amount: float64(amount), Unit: Pixel}
}

// Percent returns a percentage length.
func Percent(amount float64) LengthValue {
	return LengthValue{Amount: amount, Unit: Percentage}
}

// ToPx resolves the length against the given total extent.
func (l LengthValue) ToPx(total int) int {
	if l.Unit == Percentage {
		return int(math.Round(l.Amount / 100 * float64(total)))
	}
	return int(math.Round(l.Amount))
}

// ToFraction returns the length as a fraction of the given extent. A zero
// extent yields zero.
func (l LengthValue) ToFraction(total int) float64 {
	if l.Unit == Percentage {
		return l.Amount / 100
	}
	if total == 0 {
		return 0
	}
	return l.Amount / float64(total)
}

func (l LengthValue) String() string {
	amount := strconv.FormatFloat(l.Amount, 'f', -1, 64)
	if l.Unit == Percentage {
		return amount + "%"
	}
	return amount + "px"
}

// ParseLength parses values such as "20px", "-5%" or "12" (pixels).
func ParseLength(s string) (LengthValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LengthValue{}, fmt.Errorf("empty length value")
	}

	unit := Pixel
	number := s
	switch {
	case strings.HasSuffix(s, "px"):
		number = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "%"):
		number = strings.TrimSuffix(s, "%")
		unit = Percentage
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil {
		return LengthValue{}, fmt.Errorf("invalid length value %q", s)
	}
	return LengthValue{Amount: amount, Unit: unit}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (l LengthValue) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *LengthValue) UnmarshalText(text []byte) error {
	v, err := ParseLength(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// RectDelta is a per-edge adjustment of a rectangle.
type RectDelta struct {
	Left   LengthValue `yaml:"left"`
	Top    LengthValue `yaml:"top"`
	Right  LengthValue `yaml:"right"`
	Bottom LengthValue `yaml:"bottom"`
}

// UniformDelta returns a delta with the same length on every edge.
func UniformDelta(l LengthValue) RectDelta {
	return RectDelta{Left: l, Top: l, Right: l, Bottom: l}
}

// Inverse negates every edge.
func (d RectDelta) Inverse() RectDelta {
	neg := func(l LengthValue) LengthValue {
		return LengthValue{Amount: -l.Amount, Unit: l.Unit}
	}
	return RectDelta{
		Left:   neg(d.Left),
		Top:    neg(d.Top),
		Right:  neg(d.Right),
		Bottom: neg(d.Bottom),
	}
}
