package wm

import (
	"github.com/google/uuid"

	"github.com/1broseidon/tilewm/internal/container"
)

// PendingSync accumulates the side effects of one processing cycle until the
// Syncer flushes them.
type PendingSync struct {
	redraw             []uuid.UUID
	redrawSet          map[uuid.UUID]struct{}
	focusChange        bool
	cursorJump         bool
	resetWindowEffects bool
}

// QueueContainerToRedraw registers c for redraw. Non-window containers stand
// for every window below them. Repeated registrations are collapsed.
func (p *PendingSync) QueueContainerToRedraw(c container.Container) {
	if c == nil {
		return
	}
	if p.redrawSet == nil {
		p.redrawSet = make(map[uuid.UUID]struct{})
	}
	if _, ok := p.redrawSet[c.ID()]; ok {
		return
	}
	p.redrawSet[c.ID()] = struct{}{}
	p.redraw = append(p.redraw, c.ID())
}

func (p *PendingSync) QueueContainersToRedraw(cs ...container.Container) {
	for _, c := range cs {
		p.QueueContainerToRedraw(c)
	}
}

func (p *PendingSync) QueueFocusChange()        { p.focusChange = true }
func (p *PendingSync) QueueCursorJump()         { p.cursorJump = true }
func (p *PendingSync) QueueWindowEffectsReset() { p.resetWindowEffects = true }

// ContainersToRedraw returns the queued container ids in registration order.
func (p *PendingSync) ContainersToRedraw() []uuid.UUID {
	out := make([]uuid.UUID, len(p.redraw))
	copy(out, p.redraw)
	return out
}

func (p *PendingSync) FocusChange() bool        { return p.focusChange }
func (p *PendingSync) CursorJump() bool         { return p.cursorJump }
func (p *PendingSync) ResetWindowEffects() bool { return p.resetWindowEffects }

// NeedsSync reports whether anything is pending.
func (p *PendingSync) NeedsSync() bool {
	return len(p.redraw) > 0 || p.focusChange || p.cursorJump || p.resetWindowEffects
}

func (p *PendingSync) clearRedraw() {
	p.redraw = nil
	p.redrawSet = nil
}
