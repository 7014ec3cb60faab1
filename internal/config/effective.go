package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies a merged raw config on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if g := raw.General; g != nil {
		if j := g.CursorJump; j != nil {
			set(&cfg.General.CursorJump.Enabled, j.Enabled)
			set(&cfg.General.CursorJump.Trigger, j.Trigger)
		}
		set(&cfg.General.HideMethod, g.HideMethod)
		set(&cfg.General.ShowAllInTaskbar, g.ShowAllInTaskbar)
		set(&cfg.General.Display, g.Display)
	}

	if g := raw.Gaps; g != nil {
		set(&cfg.Gaps.InnerGap, g.InnerGap)
		if d := g.OuterGap; d != nil {
			set(&cfg.Gaps.OuterGap.Top, d.Top)
			set(&cfg.Gaps.OuterGap.Right, d.Right)
			set(&cfg.Gaps.OuterGap.Bottom, d.Bottom)
			set(&cfg.Gaps.OuterGap.Left, d.Left)
		}
	}

	if e := raw.WindowEffects; e != nil {
		applyWindowEffect(&cfg.WindowEffects.FocusedWindow, e.FocusedWindow)
		applyWindowEffect(&cfg.WindowEffects.OtherWindows, e.OtherWindows)
	}

	if b := raw.WindowBehavior; b != nil {
		set(&cfg.WindowBehavior.InitialState, b.InitialState)
		if d := b.StateDefaults; d != nil {
			if f := d.Floating; f != nil {
				set(&cfg.WindowBehavior.StateDefaults.Floating.Centered, f.Centered)
				set(&cfg.WindowBehavior.StateDefaults.Floating.ShownOnTop, f.ShownOnTop)
			}
			if f := d.Fullscreen; f != nil {
				set(&cfg.WindowBehavior.StateDefaults.Fullscreen.Maximized, f.Maximized)
				set(&cfg.WindowBehavior.StateDefaults.Fullscreen.ShownOnTop, f.ShownOnTop)
			}
		}
	}

	if raw.Workspaces != nil {
		cfg.Workspaces = raw.Workspaces
	}
	if raw.Keybindings != nil {
		cfg.Keybindings = raw.Keybindings
	}
	if raw.Logging != nil {
		set(&cfg.Logging.Level, raw.Logging.Level)
	}

	return cfg, nil
}

func applyWindowEffect(dst *WindowEffectConfig, raw *RawWindowEffect) {
	if raw == nil {
		return
	}
	if b := raw.Border; b != nil {
		set(&dst.Border.Enabled, b.Enabled)
		set(&dst.Border.Color, b.Color)
	}
	if h := raw.HideTitleBar; h != nil {
		set(&dst.HideTitleBar.Enabled, h.Enabled)
	}
	if c := raw.CornerStyle; c != nil {
		set(&dst.CornerStyle.Enabled, c.Enabled)
		set(&dst.CornerStyle.Style, c.Style)
	}
	if t := raw.Transparency; t != nil {
		set(&dst.Transparency.Enabled, t.Enabled)
		set(&dst.Transparency.Opacity, t.Opacity)
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
