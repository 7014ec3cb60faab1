// Package daemon runs the window manager's single control goroutine and the
// background sources that feed it.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/tilewm/internal/wm"
)

// Work mutates the state. It runs on the loop goroutine only.
type Work func(s *wm.State) error

type workItem struct {
	name string
	work Work
	done chan error
}

// Loop serializes every state mutation. Each work item is followed by one
// sync pass, so the platform converges after every cycle.
type Loop struct {
	state  *wm.State
	syncer *wm.Syncer
	logger *slog.Logger

	mu    sync.Mutex
	queue []workItem
	wake  chan struct{}
}

func NewLoop(state *wm.State, syncer *wm.Syncer, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		state:  state,
		syncer: syncer,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Post queues work without waiting for it. Items run in the order they
// were posted.
func (l *Loop) Post(name string, work Work) {
	l.enqueue(workItem{name: name, work: work})
}

// Call queues work and waits for its result.
func (l *Loop) Call(ctx context.Context, name string, work Work) error {
	done := make(chan error, 1)
	l.enqueue(workItem{name: name, work: work, done: done})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) enqueue(item workItem) {
	l.mu.Lock()
	l.queue = append(l.queue, item)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) next() (workItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return workItem{}, false
	}
	item := l.queue[0]
	l.queue[0] = workItem{}
	l.queue = l.queue[1:]
	return item, true
}

// Run drains the queue until ctx is cancelled. Work still queued at that
// point is answered with the context error.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("control loop started")
	defer l.logger.Info("control loop stopped")

	for {
		for {
			item, ok := l.next()
			if !ok {
				break
			}
			if ctx.Err() != nil {
				l.reject(item, ctx.Err())
				continue
			}
			l.cycle(item)
		}

		select {
		case <-ctx.Done():
			for {
				item, ok := l.next()
				if !ok {
					return nil
				}
				l.reject(item, ctx.Err())
			}
		case <-l.wake:
		}
	}
}

func (l *Loop) reject(item workItem, err error) {
	if item.done != nil {
		item.done <- err
	}
}

// cycle runs one work item and then syncs. Neither failure stops the loop.
func (l *Loop) cycle(item workItem) {
	err := l.runWork(item)
	if err != nil {
		l.logger.Error("work failed", "work", item.name, "error", err)
	}
	if item.done != nil {
		item.done <- err
	}

	if syncErr := l.syncer.Sync(l.state); syncErr != nil {
		l.logger.Warn("sync failed", "after", item.name, "error", syncErr)
	}
}

func (l *Loop) runWork(item workItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Join(err, fmt.Errorf("panic in %s: %v", item.name, r))
		}
	}()
	return item.work(l.state)
}
