package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawRectDelta accepts either a single length applied to every edge:
//
//	outer_gap: 20px
//
// or per-edge values, where omitted edges keep their previous value.
type RawRectDelta struct {
	Top    *geom.LengthValue `yaml:"top"`
	Right  *geom.LengthValue `yaml:"right"`
	Bottom *geom.LengthValue `yaml:"bottom"`
	Left   *geom.LengthValue `yaml:"left"`
}

func (d *RawRectDelta) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var l geom.LengthValue
		if err := l.UnmarshalText([]byte(value.Value)); err != nil {
			return err
		}
		*d = RawRectDelta{Top: &l, Right: &l, Bottom: &l, Left: &l}
		return nil
	}
	type plain RawRectDelta
	var out plain
	if err := value.Decode(&out); err != nil {
		return err
	}
	*d = RawRectDelta(out)
	return nil
}

type RawCursorJump struct {
	Enabled *bool              `yaml:"enabled"`
	Trigger *CursorJumpTrigger `yaml:"trigger"`
}

type RawGeneral struct {
	CursorJump       *RawCursorJump       `yaml:"cursor_jump"`
	HideMethod       *platform.HideMethod `yaml:"hide_method"`
	ShowAllInTaskbar *bool                `yaml:"show_all_in_taskbar"`
	Display          *string              `yaml:"display"`
}

type RawGaps struct {
	InnerGap *geom.LengthValue `yaml:"inner_gap"`
	OuterGap *RawRectDelta     `yaml:"outer_gap"`
}

type RawBorderEffect struct {
	Enabled *bool           `yaml:"enabled"`
	Color   *platform.Color `yaml:"color"`
}

type RawToggleEffect struct {
	Enabled *bool `yaml:"enabled"`
}

type RawCornerEffect struct {
	Enabled *bool                 `yaml:"enabled"`
	Style   *platform.CornerStyle `yaml:"style"`
}

type RawTransparencyEffect struct {
	Enabled *bool                  `yaml:"enabled"`
	Opacity *platform.OpacityValue `yaml:"opacity"`
}

type RawWindowEffect struct {
	Border       *RawBorderEffect       `yaml:"border"`
	HideTitleBar *RawToggleEffect       `yaml:"hide_title_bar"`
	CornerStyle  *RawCornerEffect       `yaml:"corner_style"`
	Transparency *RawTransparencyEffect `yaml:"transparency"`
}

type RawWindowEffects struct {
	FocusedWindow *RawWindowEffect `yaml:"focused_window"`
	OtherWindows  *RawWindowEffect `yaml:"other_windows"`
}

type RawFloatingDefaults struct {
	Centered   *bool `yaml:"centered"`
	ShownOnTop *bool `yaml:"shown_on_top"`
}

type RawFullscreenDefaults struct {
	Maximized  *bool `yaml:"maximized"`
	ShownOnTop *bool `yaml:"shown_on_top"`
}

type RawStateDefaults struct {
	Floating   *RawFloatingDefaults   `yaml:"floating"`
	Fullscreen *RawFullscreenDefaults `yaml:"fullscreen"`
}

type RawWindowBehavior struct {
	InitialState  *InitialWindowState `yaml:"initial_state"`
	StateDefaults *RawStateDefaults   `yaml:"state_defaults"`
}

type RawLoggingConfig struct {
	Level *string `yaml:"level"`
}

// RawConfig is one file's worth of configuration. Nil fields were not set
// and leave the value from earlier files (or the defaults) in place. Lists
// replace rather than append.
type RawConfig struct {
	Include        IncludeList        `yaml:"include"`
	General        *RawGeneral        `yaml:"general"`
	Gaps           *RawGaps           `yaml:"gaps"`
	WindowEffects  *RawWindowEffects  `yaml:"window_effects"`
	WindowBehavior *RawWindowBehavior `yaml:"window_behavior"`
	Workspaces     []WorkspaceConfig  `yaml:"workspaces"`
	Keybindings    []KeybindingConfig `yaml:"keybindings"`
	Logging        *RawLoggingConfig  `yaml:"logging"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	out.General = mergeStruct(c.General, overlay.General, mergeRawGeneral)
	out.Gaps = mergeStruct(c.Gaps, overlay.Gaps, mergeRawGaps)
	out.WindowEffects = mergeStruct(c.WindowEffects, overlay.WindowEffects, mergeRawWindowEffects)
	out.WindowBehavior = mergeStruct(c.WindowBehavior, overlay.WindowBehavior, mergeRawWindowBehavior)
	out.Logging = mergeStruct(c.Logging, overlay.Logging, func(base, o RawLoggingConfig) RawLoggingConfig {
		return RawLoggingConfig{Level: pick(base.Level, o.Level)}
	})
	if overlay.Workspaces != nil {
		out.Workspaces = overlay.Workspaces
	}
	if overlay.Keybindings != nil {
		out.Keybindings = overlay.Keybindings
	}
	return out
}

// pick returns overlay when it was set.
func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

func mergeStruct[T any](base, overlay *T, merge func(T, T) T) *T {
	switch {
	case overlay == nil:
		return base
	case base == nil:
		return overlay
	}
	out := merge(*base, *overlay)
	return &out
}

func mergeRawGeneral(base, o RawGeneral) RawGeneral {
	return RawGeneral{
		CursorJump: mergeStruct(base.CursorJump, o.CursorJump, func(b, o RawCursorJump) RawCursorJump {
			return RawCursorJump{Enabled: pick(b.Enabled, o.Enabled), Trigger: pick(b.Trigger, o.Trigger)}
		}),
		HideMethod:       pick(base.HideMethod, o.HideMethod),
		ShowAllInTaskbar: pick(base.ShowAllInTaskbar, o.ShowAllInTaskbar),
		Display:          pick(base.Display, o.Display),
	}
}

func mergeRawGaps(base, o RawGaps) RawGaps {
	return RawGaps{
		InnerGap: pick(base.InnerGap, o.InnerGap),
		OuterGap: mergeStruct(base.OuterGap, o.OuterGap, func(b, o RawRectDelta) RawRectDelta {
			return RawRectDelta{
				Top:    pick(b.Top, o.Top),
				Right:  pick(b.Right, o.Right),
				Bottom: pick(b.Bottom, o.Bottom),
				Left:   pick(b.Left, o.Left),
			}
		}),
	}
}

func mergeRawWindowEffects(base, o RawWindowEffects) RawWindowEffects {
	return RawWindowEffects{
		FocusedWindow: mergeStruct(base.FocusedWindow, o.FocusedWindow, mergeRawWindowEffect),
		OtherWindows:  mergeStruct(base.OtherWindows, o.OtherWindows, mergeRawWindowEffect),
	}
}

func mergeRawWindowEffect(base, o RawWindowEffect) RawWindowEffect {
	return RawWindowEffect{
		Border: mergeStruct(base.Border, o.Border, func(b, o RawBorderEffect) RawBorderEffect {
			return RawBorderEffect{Enabled: pick(b.Enabled, o.Enabled), Color: pick(b.Color, o.Color)}
		}),
		HideTitleBar: mergeStruct(base.HideTitleBar, o.HideTitleBar, func(b, o RawToggleEffect) RawToggleEffect {
			return RawToggleEffect{Enabled: pick(b.Enabled, o.Enabled)}
		}),
		CornerStyle: mergeStruct(base.CornerStyle, o.CornerStyle, func(b, o RawCornerEffect) RawCornerEffect {
			return RawCornerEffect{Enabled: pick(b.Enabled, o.Enabled), Style: pick(b.Style, o.Style)}
		}),
		Transparency: mergeStruct(base.Transparency, o.Transparency, func(b, o RawTransparencyEffect) RawTransparencyEffect {
			return RawTransparencyEffect{Enabled: pick(b.Enabled, o.Enabled), Opacity: pick(b.Opacity, o.Opacity)}
		}),
	}
}

func mergeRawWindowBehavior(base, o RawWindowBehavior) RawWindowBehavior {
	return RawWindowBehavior{
		InitialState: pick(base.InitialState, o.InitialState),
		StateDefaults: mergeStruct(base.StateDefaults, o.StateDefaults, func(b, o RawStateDefaults) RawStateDefaults {
			return RawStateDefaults{
				Floating: mergeStruct(b.Floating, o.Floating, func(b, o RawFloatingDefaults) RawFloatingDefaults {
					return RawFloatingDefaults{Centered: pick(b.Centered, o.Centered), ShownOnTop: pick(b.ShownOnTop, o.ShownOnTop)}
				}),
				Fullscreen: mergeStruct(b.Fullscreen, o.Fullscreen, func(b, o RawFullscreenDefaults) RawFullscreenDefaults {
					return RawFullscreenDefaults{Maximized: pick(b.Maximized, o.Maximized), ShownOnTop: pick(b.ShownOnTop, o.ShownOnTop)}
				}),
			}
		}),
	}
}
