package wm

import (
	"fmt"

	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/platform"
)

// focusTarget picks what to focus in ws once the focused window goes away:
// the most recently focused window that is not minimized, else ws itself.
func focusTarget(ws *container.Workspace, exclude container.Container) container.Container {
	for c := range container.DescendantFocusOrder(ws) {
		w, ok := c.(container.Window)
		if !ok || container.Same(w, exclude) || w.State().Kind == platform.StateMinimized {
			continue
		}
		return w
	}
	return ws
}

// refocusWithin moves focus off removed when it held it.
func (s *State) refocusWithin(ws *container.Workspace, removed container.Container, wasFocused bool) {
	if ws == nil || !wasFocused {
		return
	}
	s.setFocus(focusTarget(ws, removed))
}

// FocusWorkspace displays the named workspace on its monitor and focuses
// its most recently focused window.
func (s *State) FocusWorkspace(name string) error {
	ws := container.WorkspaceByName(s.root, name)
	if ws == nil {
		return fmt.Errorf("no workspace named %q", name)
	}

	focused := s.FocusedContainer()
	if focused != nil && container.Same(container.WorkspaceOf(focused), ws) {
		return nil
	}

	m := container.MonitorOf(ws)
	if m == nil {
		return fmt.Errorf("workspace %q: %w", name, container.ErrNoMonitor)
	}
	previous := m.DisplayedWorkspace()

	s.setFocus(focusTarget(ws, nil))
	s.pending.QueueCursorJump()

	// Both the newly shown and the now hidden workspace change visibility.
	s.pending.QueueContainerToRedraw(ws)
	if previous != nil && !container.Same(previous, ws) {
		s.pending.QueueContainerToRedraw(previous)
	}

	dto := container.ToDTO(ws, nil)
	s.emit(Event{Type: EventWorkspaceActivated, Workspace: &dto})
	return nil
}
