package wm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/platform"
)

const (
	borderReapplyDelay = 50 * time.Millisecond
	maxBorderReapplies = 32
)

// AfterFunc runs f once d has elapsed, on its own goroutine.
type AfterFunc func(d time.Duration, f func())

func realAfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Syncer flushes a State's pending batch to the native platform.
type Syncer struct {
	backend   platform.Backend
	logger    *slog.Logger
	afterFunc AfterFunc
	reapplies *semaphore.Weighted
}

type SyncerOption func(*Syncer)

// WithAfterFunc replaces the timer used for delayed border re-application.
func WithAfterFunc(f AfterFunc) SyncerOption {
	return func(sy *Syncer) { sy.afterFunc = f }
}

func NewSyncer(backend platform.Backend, logger *slog.Logger, opts ...SyncerOption) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	sy := &Syncer{
		backend:   backend,
		logger:    logger,
		afterFunc: realAfterFunc,
		reapplies: semaphore.NewWeighted(maxBorderReapplies),
	}
	for _, opt := range opts {
		opt(sy)
	}
	return sy
}

// Sync applies everything pending in s. Native call failures are logged and
// skipped. The redraw queue is always consumed, even when an error is
// returned. With no focused container the focus related flags stay pending.
func (sy *Syncer) Sync(s *State) error {
	p := &s.pending
	if s.paused {
		p.clearRedraw()
		return nil
	}

	var errs []error
	if len(p.redraw) > 0 {
		if err := sy.redrawContainers(s); err != nil {
			errs = append(errs, err)
		}
	}

	recent := s.RecentFocusedContainer()
	focused := s.FocusedContainer()
	if focused == nil {
		return errors.Join(errs...)
	}
	cfg := s.cfg

	if p.cursorJump {
		if cfg.General.CursorJump.Enabled {
			if err := sy.jumpCursor(s, focused); err != nil {
				errs = append(errs, err)
			}
		}
		p.cursorJump = false
	}

	if p.focusChange || p.resetWindowEffects {
		if w, ok := focused.(container.Window); ok {
			sy.applyWindowEffects(w, true, cfg.WindowEffects)
		}

		// Only the previously focused window loses its focused effects,
		// unless everything was asked to be reset.
		var unfocused []container.Window
		if p.resetWindowEffects {
			unfocused = s.Windows()
		} else if w, ok := recent.(container.Window); ok {
			unfocused = []container.Window{w}
		}
		for _, w := range unfocused {
			if !container.Same(w, focused) {
				sy.applyWindowEffects(w, false, cfg.WindowEffects)
			}
		}
		p.resetWindowEffects = false
	}

	if p.focusChange {
		sy.syncFocus(s, focused)
		p.focusChange = false
	}

	return errors.Join(errs...)
}

func (sy *Syncer) redrawContainers(s *State) error {
	defer s.pending.clearRedraw()

	general := s.cfg.General
	var errs []error
	for _, w := range windowsToRedraw(s.root, s.pending.redraw) {
		native := w.Native()
		ws := container.WorkspaceOf(w)
		if ws == nil {
			errs = append(errs, fmt.Errorf("redraw window %d: %w", native.ID(), container.ErrNoWorkspace))
			continue
		}

		w.SetDisplayState(container.NextDisplayState(w.DisplayState(), ws.IsDisplayed()))

		rect, err := w.ToRect()
		if err != nil {
			errs = append(errs, fmt.Errorf("redraw window %d: %w", native.ID(), err))
			continue
		}
		rect = rect.ApplyDelta(w.TotalBorderDelta())

		visible := w.DisplayState() == container.DisplayShowing || w.DisplayState() == container.DisplayShown

		if err := native.SetPosition(w.State(), rect, visible, general.HideMethod, w.HasPendingDPIAdjustment()); err != nil {
			sy.logger.Warn("failed to set window position", "window", native.ID(), "error", err)
		}

		// Cloaked windows stay in the taskbar unless told otherwise.
		if general.HideMethod == platform.HideMethodCloak && !general.ShowAllInTaskbar {
			if err := native.SetTaskbarVisibility(visible); err != nil {
				sy.logger.Warn("failed to set taskbar visibility", "window", native.ID(), "error", err)
			}
		}
	}
	return errors.Join(errs...)
}

// windowsToRedraw resolves queued ids against the current tree. Ids of
// containers that are gone are skipped; other containers expand to the
// windows below them.
func windowsToRedraw(root *container.Root, ids []uuid.UUID) []container.Window {
	index := container.IndexByID(root)
	seen := make(map[uuid.UUID]bool)
	var out []container.Window
	for _, id := range ids {
		c, ok := index[id]
		if !ok {
			continue
		}
		for _, w := range container.Windows(c) {
			if !seen[w.ID()] {
				seen[w.ID()] = true
				out = append(out, w)
			}
		}
	}
	return out
}

func (sy *Syncer) jumpCursor(s *State, focused container.Container) error {
	target := focused
	if s.cfg.General.CursorJump.Trigger == config.CursorJumpMonitorFocus {
		targetMonitor := container.MonitorOf(focused)
		if targetMonitor == nil {
			return fmt.Errorf("cursor jump: %w", container.ErrNoMonitor)
		}
		pos, err := sy.backend.MousePosition()
		if err != nil {
			return fmt.Errorf("cursor jump: %w", err)
		}
		cursorMonitor := s.MonitorAtPoint(pos)
		if cursorMonitor == nil || container.Same(cursorMonitor, targetMonitor) {
			return nil
		}
		target = targetMonitor
	}

	rect, err := target.ToRect()
	if err != nil {
		return fmt.Errorf("cursor jump: %w", err)
	}
	center := rect.Center()
	if err := sy.backend.SetCursorPos(center.X, center.Y); err != nil {
		sy.logger.Warn("failed to set cursor position", "error", err)
	}
	return nil
}

func (sy *Syncer) syncFocus(s *State, focused container.Container) {
	var native platform.NativeWindow
	if w, ok := focused.(container.Window); ok {
		native = w.Native()
	} else {
		native = sy.backend.DesktopWindow()
	}

	if sy.backend.ForegroundWindow() != native.ID() {
		if err := native.SetForeground(); err != nil {
			sy.logger.Warn("failed to set foreground window", "window", native.ID(), "error", err)
		}
	}

	dto := container.ToDTO(focused, focused)
	s.emit(Event{Type: EventFocusChanged, FocusedContainer: &dto})
	s.recentFocusedID = focused.ID()
}
