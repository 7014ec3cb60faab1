package daemon

import (
	"context"
	"log/slog"
	"time"
)

const defaultReconcileInterval = 10 * time.Second

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks for windows that disappeared without the
// host telling us and unmanages them.
type Reconciler struct {
	interval time.Duration
	loop     *Loop
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler posting its passes to loop.
func NewReconciler(cfg ReconcilerConfig, loop *Loop) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		loop:     loop,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return nil
		case <-ticker.C:
			r.ReconcileNow()
		}
	}
}

// ReconcileNow queues an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.loop.Post("reconcile", ValidateWindows)
}
