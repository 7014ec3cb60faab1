package daemon

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/wm"
)

// Startup builds monitors and workspaces from the backend's displays and
// adopts every window that is already open.
func Startup(backend platform.Backend) Work {
	return func(s *wm.State) error {
		displays, err := backend.Displays()
		if err != nil {
			return fmt.Errorf("list displays: %w", err)
		}
		if err := s.SyncMonitors(displays); err != nil {
			return err
		}
		return AdoptWindows(backend)(s)
	}
}

// AdoptWindows manages the backend's current windows as if each had just
// been shown. Windows already managed are left alone.
func AdoptWindows(backend platform.Backend) Work {
	return func(s *wm.State) error {
		windows, err := backend.ManageableWindows()
		if err != nil {
			return fmt.Errorf("list windows: %w", err)
		}

		var errs []error
		for _, native := range windows {
			if err := s.HandleEvent(platform.WindowShown{Window: native}, backend.Displays); err != nil {
				errs = append(errs, fmt.Errorf("adopt window %d: %w", native.ID(), err))
			}
		}
		slog.Info("adopted existing windows", "count", len(windows))
		return errors.Join(errs...)
	}
}

// ValidateWindows unmanages windows whose native handle went stale.
func ValidateWindows(s *wm.State) error {
	var errs []error
	for _, w := range s.Windows() {
		if w.Native().IsValid() {
			continue
		}
		slog.Info("window gone, unmanaging", "handle", w.Native().ID())
		if err := s.UnmanageWindow(w); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PlatformEvent wraps a host event as work.
func PlatformEvent(backend platform.Backend, ev platform.Event) Work {
	return func(s *wm.State) error {
		return s.HandleEvent(ev, backend.Displays)
	}
}

// RunCommands runs user commands in order.
func RunCommands(commands ...string) Work {
	return func(s *wm.State) error {
		return s.RunCommandString(commands...)
	}
}
