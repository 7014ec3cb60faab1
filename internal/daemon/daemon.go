package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/wm"
)

// Options configures a Daemon.
type Options struct {
	Backend platform.Backend
	// Events are host events, usually from the platform backend. May be nil.
	Events <-chan platform.Event
	Config *config.Config
	// ConfigPath enables reloading and file watching when set.
	ConfigPath        string
	ReconcileInterval time.Duration
	Logger            *slog.Logger
	SyncerOptions     []wm.SyncerOption
}

// Daemon owns the window manager state and the goroutines around it.
type Daemon struct {
	backend    platform.Backend
	events     <-chan platform.Event
	configPath string
	logger     *slog.Logger
	started    time.Time

	bus        *wm.Bus
	state      *wm.State
	loop       *Loop
	reconciler *Reconciler
	watcher    *ConfigWatcher
}

func New(opts Options) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bus := wm.NewBus(logger.With("component", "events"))
	state := wm.NewState(opts.Config, bus)
	syncer := wm.NewSyncer(opts.Backend, logger.With("component", "sync"), opts.SyncerOptions...)
	loop := NewLoop(state, syncer, logger.With("component", "loop"))

	d := &Daemon{
		backend:    opts.Backend,
		events:     opts.Events,
		configPath: opts.ConfigPath,
		logger:     logger,
		started:    time.Now(),
		bus:        bus,
		state:      state,
		loop:       loop,
		reconciler: NewReconciler(ReconcilerConfig{
			Interval: opts.ReconcileInterval,
			Logger:   logger.With("component", "reconciler"),
		}, loop),
	}
	if d.configPath != "" {
		d.watcher = NewConfigWatcher(d.configPath, d.Reload, logger.With("component", "config"))
	}
	return d
}

func (d *Daemon) Loop() *Loop { return d.loop }

func (d *Daemon) Logger() *slog.Logger { return d.logger }

func (d *Daemon) Uptime() time.Duration { return time.Since(d.started) }

// Call runs work on the control loop and waits for it.
func (d *Daemon) Call(ctx context.Context, name string, work func(*wm.State) error) error {
	return d.loop.Call(ctx, name, work)
}

// Subscribe registers for domain events; see wm.Bus.Subscribe.
func (d *Daemon) Subscribe(types ...wm.EventType) (<-chan wm.Event, func()) {
	return d.bus.Subscribe(types...)
}

// Reload re-reads the configuration file and swaps it in. An invalid file
// leaves the running configuration untouched.
func (d *Daemon) Reload(ctx context.Context) error {
	if d.configPath == "" {
		return fmt.Errorf("reload: no config path")
	}
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if d.watcher != nil {
		d.watcher.SetFiles(res.Files)
	}
	err = d.loop.Call(ctx, "reload config", func(s *wm.State) error {
		s.SetConfig(res.Config)
		return nil
	})
	if err != nil {
		return err
	}
	d.logger.Info("config reloaded", "path", d.configPath)
	return nil
}

// Run starts the control loop and its sources and blocks until ctx is
// cancelled or one of them fails.
func (d *Daemon) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	d.loop.Post("startup", Startup(d.backend))

	g.Go(func() error { return d.loop.Run(ctx) })
	g.Go(func() error { return d.reconciler.Run(ctx) })
	if d.watcher != nil {
		g.Go(func() error { return d.watcher.Run(ctx) })
	}
	if d.events != nil {
		g.Go(func() error { return d.forward(ctx) })
	}

	err := g.Wait()
	d.bus.Publish(wm.Event{Type: wm.EventApplicationExiting})
	return err
}

func (d *Daemon) forward(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-d.events:
			if !ok {
				return nil
			}
			d.loop.Post(fmt.Sprintf("%T", ev), PlatformEvent(d.backend, ev))
		}
	}
}
