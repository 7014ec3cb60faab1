package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// CursorJumpTrigger selects which focus changes move the cursor.
type CursorJumpTrigger string

const (
	CursorJumpWindowFocus  CursorJumpTrigger = "window_focus"
	CursorJumpMonitorFocus CursorJumpTrigger = "monitor_focus"
)

// InitialWindowState is the state newly managed windows start in.
type InitialWindowState string

const (
	InitialTiling   InitialWindowState = "tiling"
	InitialFloating InitialWindowState = "floating"
)

type CursorJumpConfig struct {
	Enabled bool              `yaml:"enabled"`
	Trigger CursorJumpTrigger `yaml:"trigger"`
}

type GeneralConfig struct {
	CursorJump       CursorJumpConfig    `yaml:"cursor_jump"`
	HideMethod       platform.HideMethod `yaml:"hide_method"`
	ShowAllInTaskbar bool                `yaml:"show_all_in_taskbar"`
	// Display overrides $DISPLAY for the X11 connection.
	Display string `yaml:"display,omitempty"`
}

type GapsConfig struct {
	InnerGap geom.LengthValue `yaml:"inner_gap"`
	OuterGap geom.RectDelta   `yaml:"outer_gap"`
}

type BorderEffect struct {
	Enabled bool           `yaml:"enabled"`
	Color   platform.Color `yaml:"color"`
}

type HideTitleBarEffect struct {
	Enabled bool `yaml:"enabled"`
}

type CornerEffect struct {
	Enabled bool                 `yaml:"enabled"`
	Style   platform.CornerStyle `yaml:"style"`
}

type TransparencyEffect struct {
	Enabled bool                  `yaml:"enabled"`
	Opacity platform.OpacityValue `yaml:"opacity"`
}

// WindowEffectConfig is the set of effects applied to one class of window.
type WindowEffectConfig struct {
	Border       BorderEffect       `yaml:"border"`
	HideTitleBar HideTitleBarEffect `yaml:"hide_title_bar"`
	CornerStyle  CornerEffect       `yaml:"corner_style"`
	Transparency TransparencyEffect `yaml:"transparency"`
}

type WindowEffectsConfig struct {
	FocusedWindow WindowEffectConfig `yaml:"focused_window"`
	OtherWindows  WindowEffectConfig `yaml:"other_windows"`
}

type StateDefaults struct {
	Floating   platform.FloatingConfig   `yaml:"floating"`
	Fullscreen platform.FullscreenConfig `yaml:"fullscreen"`
}

type WindowBehaviorConfig struct {
	InitialState  InitialWindowState `yaml:"initial_state"`
	StateDefaults StateDefaults      `yaml:"state_defaults"`
}

type WorkspaceConfig struct {
	Name string `yaml:"name"`
	// BindToMonitor pins the workspace to a monitor index at startup.
	BindToMonitor *int `yaml:"bind_to_monitor,omitempty"`
}

type KeybindingConfig struct {
	Commands []string `yaml:"commands"`
	Bindings []string `yaml:"bindings"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config holds the window manager configuration.
type Config struct {
	General        GeneralConfig        `yaml:"general"`
	Gaps           GapsConfig           `yaml:"gaps"`
	WindowEffects  WindowEffectsConfig  `yaml:"window_effects"`
	WindowBehavior WindowBehaviorConfig `yaml:"window_behavior"`
	Workspaces     []WorkspaceConfig    `yaml:"workspaces"`
	Keybindings    []KeybindingConfig   `yaml:"keybindings"`
	Logging        LoggingConfig        `yaml:"logging"`
}

func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tilewm", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tilewm", "config.yaml"), nil
}

func DefaultConfig() *Config {
	accent := platform.Color{R: 0x8d, G: 0xbc, B: 0xff, A: 0xff}
	muted := platform.Color{R: 0xa1, G: 0xa1, B: 0xa1, A: 0xff}

	return &Config{
		General: GeneralConfig{
			CursorJump: CursorJumpConfig{
				Enabled: true,
				Trigger: CursorJumpMonitorFocus,
			},
			HideMethod:       platform.HideMethodCloak,
			ShowAllInTaskbar: false,
		},
		Gaps: GapsConfig{
			InnerGap: geom.Px(20),
			OuterGap: geom.UniformDelta(geom.Px(20)),
		},
		WindowEffects: WindowEffectsConfig{
			FocusedWindow: WindowEffectConfig{
				Border:       BorderEffect{Enabled: true, Color: accent},
				CornerStyle:  CornerEffect{Style: platform.CornerSquare},
				Transparency: TransparencyEffect{Opacity: platform.Opaque},
			},
			OtherWindows: WindowEffectConfig{
				Border:       BorderEffect{Enabled: true, Color: muted},
				CornerStyle:  CornerEffect{Style: platform.CornerSquare},
				Transparency: TransparencyEffect{Opacity: platform.Opaque},
			},
		},
		WindowBehavior: WindowBehaviorConfig{
			InitialState: InitialTiling,
			StateDefaults: StateDefaults{
				Floating:   platform.FloatingConfig{Centered: true, ShownOnTop: false},
				Fullscreen: platform.FullscreenConfig{Maximized: true, ShownOnTop: false},
			},
		},
		Workspaces: []WorkspaceConfig{
			{Name: "1"}, {Name: "2"}, {Name: "3"}, {Name: "4"}, {Name: "5"},
		},
		Keybindings: []KeybindingConfig{
			{Commands: []string{"toggle-floating"}, Bindings: []string{"Mod4-Shift-space"}},
			{Commands: []string{"toggle-fullscreen"}, Bindings: []string{"Mod4-f"}},
			{Commands: []string{"set-minimized"}, Bindings: []string{"Mod4-m"}},
			{Commands: []string{"resize width -2%"}, Bindings: []string{"Mod4-u"}},
			{Commands: []string{"resize width +2%"}, Bindings: []string{"Mod4-p"}},
			{Commands: []string{"resize height +2%"}, Bindings: []string{"Mod4-o"}},
			{Commands: []string{"resize height -2%"}, Bindings: []string{"Mod4-i"}},
			{Commands: []string{"focus-workspace 1"}, Bindings: []string{"Mod4-1"}},
			{Commands: []string{"focus-workspace 2"}, Bindings: []string{"Mod4-2"}},
			{Commands: []string{"focus-workspace 3"}, Bindings: []string{"Mod4-3"}},
			{Commands: []string{"focus-workspace 4"}, Bindings: []string{"Mod4-4"}},
			{Commands: []string{"focus-workspace 5"}, Bindings: []string{"Mod4-5"}},
			{Commands: []string{"toggle-pause"}, Bindings: []string{"Mod4-Shift-p"}},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.General.CursorJump.Trigger {
	case CursorJumpWindowFocus, CursorJumpMonitorFocus:
	default:
		return &ValidationError{Path: "general.cursor_jump.trigger", Err: fmt.Errorf("trigger must be one of: window_focus, monitor_focus")}
	}
	switch c.General.HideMethod {
	case platform.HideMethodCloak, platform.HideMethodHide:
	default:
		return &ValidationError{Path: "general.hide_method", Err: fmt.Errorf("hide_method must be one of: cloak, hide")}
	}
	if c.Gaps.InnerGap.Amount < 0 {
		return &ValidationError{Path: "gaps.inner_gap", Err: fmt.Errorf("inner_gap must be >= 0")}
	}
	switch c.WindowBehavior.InitialState {
	case InitialTiling, InitialFloating:
	default:
		return &ValidationError{Path: "window_behavior.initial_state", Err: fmt.Errorf("initial_state must be one of: tiling, floating")}
	}

	for _, e := range []struct {
		path string
		cfg  WindowEffectConfig
	}{
		{"window_effects.focused_window", c.WindowEffects.FocusedWindow},
		{"window_effects.other_windows", c.WindowEffects.OtherWindows},
	} {
		if e.cfg.Transparency.Opacity.IsDelta {
			return &ValidationError{Path: e.path + ".transparency.opacity", Err: fmt.Errorf("opacity must be absolute")}
		}
	}

	if len(c.Workspaces) == 0 {
		return &ValidationError{Path: "workspaces", Err: fmt.Errorf("at least one workspace is required")}
	}
	seen := make(map[string]struct{}, len(c.Workspaces))
	for i, ws := range c.Workspaces {
		name := strings.TrimSpace(ws.Name)
		if name == "" {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d.name", i), Err: fmt.Errorf("workspace name is required")}
		}
		if _, ok := seen[name]; ok {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d.name", i), Err: fmt.Errorf("duplicate workspace %q", name)}
		}
		seen[name] = struct{}{}
		if ws.BindToMonitor != nil && *ws.BindToMonitor < 0 {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d.bind_to_monitor", i), Err: fmt.Errorf("bind_to_monitor must be >= 0")}
		}
	}

	for i, kb := range c.Keybindings {
		if len(kb.Commands) == 0 {
			return &ValidationError{Path: fmt.Sprintf("keybindings.%d.commands", i), Err: fmt.Errorf("commands must not be empty")}
		}
		if len(kb.Bindings) == 0 {
			return &ValidationError{Path: fmt.Sprintf("keybindings.%d.bindings", i), Err: fmt.Errorf("bindings must not be empty")}
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warning, error")}
	}
	return nil
}

// WorkspaceNames returns the configured workspace names in order.
func (c *Config) WorkspaceNames() []string {
	out := make([]string, len(c.Workspaces))
	for i, ws := range c.Workspaces {
		out[i] = strings.TrimSpace(ws.Name)
	}
	return out
}
