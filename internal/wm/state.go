// Package wm holds the window manager's mutable state, the commands that
// change the container tree, and the sync engine that pushes pending
// changes to the native platform.
//
// A State is owned by a single control goroutine. None of its methods are
// safe for concurrent use.
package wm

import (
	"github.com/google/uuid"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

type State struct {
	root            *container.Root
	cfg             *config.Config
	pending         PendingSync
	recentFocusedID uuid.UUID
	paused          bool
	bus             *Bus
}

// NewState creates an empty state. bus may be nil.
func NewState(cfg *config.Config, bus *Bus) *State {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &State{root: container.NewRoot(), cfg: cfg, bus: bus}
}

func (s *State) Root() *container.Root      { return s.root }
func (s *State) Config() *config.Config     { return s.cfg }
func (s *State) Pending() *PendingSync      { return &s.pending }
func (s *State) IsPaused() bool             { return s.paused }
func (s *State) Bus() *Bus                  { return s.bus }
func (s *State) RecentFocusedID() uuid.UUID { return s.recentFocusedID }

func (s *State) emit(ev Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

// FocusedContainer follows the focus order down from the root. It is nil
// only when no monitor exists.
func (s *State) FocusedContainer() container.Container {
	return container.LastFocusedDescendant(s.root)
}

// RecentFocusedContainer is the container focused as of the last sync.
func (s *State) RecentFocusedContainer() container.Container {
	return s.ContainerByID(s.recentFocusedID)
}

// ContainerByID finds an attached container by identity.
func (s *State) ContainerByID(id uuid.UUID) container.Container {
	if id == uuid.Nil {
		return nil
	}
	for c := range container.Descendants(s.root) {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// WindowFromNative finds the managed window for a native handle.
func (s *State) WindowFromNative(native platform.NativeWindow) container.Window {
	if native == nil {
		return nil
	}
	return container.WindowByHandle(s.root, native.ID())
}

func (s *State) Windows() []container.Window {
	return container.Windows(s.root)
}

// MonitorAtPoint returns the monitor whose bounds contain p.
func (s *State) MonitorAtPoint(p geom.Point) *container.Monitor {
	for _, m := range container.Monitors(s.root) {
		rect, _ := m.ToRect()
		if rect.ContainsPoint(p) {
			return m
		}
	}
	return nil
}

// SetPaused toggles whether the Syncer talks to the platform. Unpausing
// redraws everything so the platform converges on the model again.
func (s *State) SetPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	if !paused {
		s.pending.QueueContainerToRedraw(s.root)
		s.pending.QueueWindowEffectsReset()
	}
	s.emit(Event{Type: EventPauseChanged, IsPaused: &paused})
}

// SetConfig swaps in a reloaded configuration, pushes the new gaps into the
// tree and queues a full redraw with effects reset.
func (s *State) SetConfig(cfg *config.Config) {
	s.cfg = cfg
	for c := range container.Descendants(s.root) {
		switch v := c.(type) {
		case *container.Workspace:
			v.SetOuterGap(cfg.Gaps.OuterGap)
		case container.TilingContainer:
			v.SetInnerGap(cfg.Gaps.InnerGap)
		}
	}
	s.pending.QueueContainerToRedraw(s.root)
	s.pending.QueueWindowEffectsReset()
	s.emit(Event{Type: EventUserConfigChanged})
}

// setFocus makes c the focused container and schedules the focus sync.
func (s *State) setFocus(c container.Container) {
	container.SetFocusedDescendant(c)
	s.pending.QueueFocusChange()
}
