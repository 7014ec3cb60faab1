package platform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/1broseidon/tilewm/internal/geom"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds geom.Rect
	Usable geom.Rect
}

// WindowStateKind discriminates WindowState.
type WindowStateKind int

const (
	StateTiling WindowStateKind = iota
	StateFloating
	StateFullscreen
	StateMinimized
)

func (k WindowStateKind) String() string {
	switch k {
	case StateFloating:
		return "floating"
	case StateFullscreen:
		return "fullscreen"
	case StateMinimized:
		return "minimized"
	default:
		return "tiling"
	}
}

// FloatingConfig tunes how a floating window is presented.
type FloatingConfig struct {
	Centered   bool `yaml:"centered"`
	ShownOnTop bool `yaml:"shown_on_top"`
}

// FullscreenConfig tunes how a fullscreen window is presented.
type FullscreenConfig struct {
	Maximized  bool `yaml:"maximized"`
	ShownOnTop bool `yaml:"shown_on_top"`
}

// WindowState is the presentation state of a managed window. Values are
// comparable; two states with the same Kind but different options are
// different states of the same kind.
type WindowState struct {
	Kind       WindowStateKind
	Floating   FloatingConfig
	Fullscreen FullscreenConfig
}

// Tiling returns the tiling state.
func Tiling() WindowState { return WindowState{Kind: StateTiling} }

// Floating returns a floating state with the given options.
func Floating(cfg FloatingConfig) WindowState {
	return WindowState{Kind: StateFloating, Floating: cfg}
}

// Fullscreen returns a fullscreen state with the given options.
func Fullscreen(cfg FullscreenConfig) WindowState {
	return WindowState{Kind: StateFullscreen, Fullscreen: cfg}
}

// Minimized returns the minimized state.
func Minimized() WindowState { return WindowState{Kind: StateMinimized} }

// SameKind reports whether both states share a discriminant.
func (s WindowState) SameKind(o WindowState) bool {
	return s.Kind == o.Kind
}

func (s WindowState) String() string {
	return s.Kind.String()
}

// MarshalText implements encoding.TextMarshaler.
func (s WindowState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// HideMethod controls how windows on hidden workspaces are hidden.
type HideMethod string

const (
	// HideMethodCloak keeps the window mapped and moves it out of view, so
	// it stays in the taskbar.
	HideMethodCloak HideMethod = "cloak"
	// HideMethodHide unmaps (iconifies) the window.
	HideMethodHide HideMethod = "hide"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *HideMethod) UnmarshalText(text []byte) error {
	switch v := HideMethod(strings.TrimSpace(string(text))); v {
	case HideMethodCloak, HideMethodHide:
		*h = v
		return nil
	default:
		return fmt.Errorf("hide_method must be one of: cloak, hide")
	}
}

// CornerStyle is the window corner rounding preference.
type CornerStyle string

const (
	CornerDefault      CornerStyle = "default"
	CornerSquare       CornerStyle = "square"
	CornerRounded      CornerStyle = "rounded"
	CornerSmallRounded CornerStyle = "small_rounded"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CornerStyle) UnmarshalText(text []byte) error {
	switch v := CornerStyle(strings.TrimSpace(string(text))); v {
	case CornerDefault, CornerSquare, CornerRounded, CornerSmallRounded:
		*c = v
		return nil
	default:
		return fmt.Errorf("corner style must be one of: default, square, rounded, small_rounded")
	}
}

// Color is an RGBA color.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	if len(hex) == 6 {
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Pixel returns the color as a 0xRRGGBB value.
func (c Color) Pixel() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// OpacityValue is a window opacity in the 0-255 range, either absolute or
// relative to the current opacity.
type OpacityValue struct {
	Amount  int
	IsDelta bool
}

// Opaque is the fully opaque default.
var Opaque = OpacityValue{Amount: 255}

// ParseOpacity parses "90%", "+10%", "-10%" or a raw 0-255 amount.
func ParseOpacity(s string) (OpacityValue, error) {
	s = strings.TrimSpace(s)
	isDelta := strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")

	var amount int
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return OpacityValue{}, fmt.Errorf("invalid opacity %q", s)
		}
		amount = int(math.Round(pct / 100 * 255))
	} else {
		raw, err := strconv.Atoi(s)
		if err != nil {
			return OpacityValue{}, fmt.Errorf("invalid opacity %q", s)
		}
		amount = raw
	}

	if !isDelta && (amount < 0 || amount > 255) {
		return OpacityValue{}, fmt.Errorf("opacity %q out of range", s)
	}
	return OpacityValue{Amount: amount, IsDelta: isDelta}, nil
}

// Fraction returns an absolute opacity as a value between 0 and 1.
func (o OpacityValue) Fraction() float64 {
	return float64(o.Amount) / 255
}

// MarshalText implements encoding.TextMarshaler.
func (o OpacityValue) MarshalText() ([]byte, error) {
	pct := strconv.FormatFloat(math.Round(float64(o.Amount)/255*1000)/10, 'f', -1, 64) + "%"
	if o.IsDelta && o.Amount >= 0 {
		pct = "+" + pct
	}
	return []byte(pct), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *OpacityValue) UnmarshalText(text []byte) error {
	v, err := ParseOpacity(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
