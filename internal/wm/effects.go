package wm

import (
	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/platform"
)

// applyWindowEffects applies the focused or other-window effect set to w.
// Effects turned off in both sets are never touched.
func (sy *Syncer) applyWindowEffects(w container.Window, focused bool, effects config.WindowEffectsConfig) {
	cfg := effects.OtherWindows
	if focused {
		cfg = effects.FocusedWindow
	}
	native := w.Native()

	if effects.FocusedWindow.Border.Enabled || effects.OtherWindows.Border.Enabled {
		sy.applyBorder(native, cfg.Border)
	}

	if effects.FocusedWindow.HideTitleBar.Enabled || effects.OtherWindows.HideTitleBar.Enabled {
		if err := native.SetTitleBarVisibility(!cfg.HideTitleBar.Enabled); err != nil {
			sy.logger.Debug("failed to set title bar visibility", "window", native.ID(), "error", err)
		}
	}

	if effects.FocusedWindow.CornerStyle.Enabled || effects.OtherWindows.CornerStyle.Enabled {
		style := platform.CornerDefault
		if cfg.CornerStyle.Enabled {
			style = cfg.CornerStyle.Style
		}
		if err := native.SetCornerStyle(style); err != nil {
			sy.logger.Debug("failed to set corner style", "window", native.ID(), "error", err)
		}
	}

	if effects.FocusedWindow.Transparency.Enabled || effects.OtherWindows.Transparency.Enabled {
		opacity := platform.Opaque
		if cfg.Transparency.Enabled {
			opacity = cfg.Transparency.Opacity
		}
		if err := native.SetOpacity(opacity); err != nil {
			sy.logger.Debug("failed to set opacity", "window", native.ID(), "error", err)
		}
	}
}

// applyBorder sets the border color now and once more shortly after, since
// some clients repaint their own border. Delayed re-applies are capped; when
// the cap is reached the re-apply is skipped.
func (sy *Syncer) applyBorder(native platform.NativeWindow, border config.BorderEffect) {
	var color *platform.Color
	if border.Enabled {
		c := border.Color
		color = &c
	}

	if err := native.SetBorderColor(color); err != nil {
		sy.logger.Debug("failed to set border color", "window", native.ID(), "error", err)
	}

	if !sy.reapplies.TryAcquire(1) {
		return
	}
	sy.afterFunc(borderReapplyDelay, func() {
		defer sy.reapplies.Release(1)
		if err := native.SetBorderColor(color); err != nil {
			sy.logger.Debug("failed to re-apply border color", "window", native.ID(), "error", err)
		}
	})
}
