package wm

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// SyncMonitors reconciles the monitors in the tree with the given displays.
// Existing monitors take on new bounds, new displays get a monitor, and the
// workspaces of displays that went away move to the first remaining
// monitor. Configured workspaces not yet in the tree are then created,
// spread round-robin over the monitors unless bound to one.
func (s *State) SyncMonitors(displays []platform.Display) error {
	if len(displays) == 0 {
		return fmt.Errorf("no displays")
	}

	byID := make(map[int]*container.Monitor)
	for _, m := range container.Monitors(s.root) {
		byID[m.DisplayID()] = m
	}

	for i, d := range displays {
		if m, ok := byID[d.ID]; ok {
			m.SetBounds(d.Name, displayRect(d))
			delete(byID, d.ID)
			continue
		}
		m := container.NewMonitor(d.ID, d.Name, displayRect(d))
		if err := container.Attach(s.root, m, i); err != nil {
			return err
		}
		slog.Info("added monitor", "name", d.Name, "bounds", displayRect(d))
	}

	monitors := container.Monitors(s.root)
	var fallback *container.Monitor
	for _, m := range monitors {
		if _, gone := byID[m.DisplayID()]; !gone {
			fallback = m
			break
		}
	}
	for _, gone := range byID {
		slog.Info("removing monitor", "name", gone.Name())
		for _, c := range gone.Children() {
			if err := s.MoveContainerWithinTree(c, fallback, fallback.ChildCount()); err != nil {
				return err
			}
		}
		if err := container.Detach(gone); err != nil {
			return err
		}
	}

	s.createWorkspaces()
	s.pending.QueueContainerToRedraw(s.root)
	return nil
}

// displayRect is the area windows are laid out in: the usable area when
// the platform reports one.
func displayRect(d platform.Display) geom.Rect {
	if d.Usable.Width > 0 && d.Usable.Height > 0 {
		return d.Usable
	}
	return d.Bounds
}

func (s *State) createWorkspaces() {
	monitors := container.Monitors(s.root)
	if len(monitors) == 0 {
		return
	}

	next := 0
	for _, wc := range s.cfg.Workspaces {
		if container.WorkspaceByName(s.root, wc.Name) != nil {
			continue
		}
		m := monitors[next%len(monitors)]
		if wc.BindToMonitor != nil && *wc.BindToMonitor < len(monitors) {
			m = monitors[*wc.BindToMonitor]
		} else {
			next++
		}
		s.attachWorkspace(m, wc.Name)
	}

	// Every monitor shows something.
	for _, m := range monitors {
		if m.ChildCount() == 0 {
			s.attachWorkspace(m, s.freeWorkspaceName())
		}
	}
}

func (s *State) attachWorkspace(m *container.Monitor, name string) {
	rect, _ := m.ToRect()
	dir := geom.Horizontal
	if rect.Height > rect.Width {
		dir = geom.Vertical
	}
	ws := container.NewWorkspace(name, dir, s.cfg.Gaps.OuterGap)
	if err := container.Attach(m, ws, m.ChildCount()); err != nil {
		slog.Warn("failed to attach workspace", "name", name, "error", err)
	}
}

func (s *State) freeWorkspaceName() string {
	var names []string
	for _, ws := range container.Workspaces(s.root) {
		names = append(names, ws.Name())
	}
	for i := 1; ; i++ {
		name := strconv.Itoa(i)
		if !slices.Contains(names, name) {
			return name
		}
	}
}
