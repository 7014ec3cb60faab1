//go:build linux

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/daemon"
	"github.com/1broseidon/tilewm/internal/hotkeys"
	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/wm"
)

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "daemon [--config PATH]")
	path := fs.String("config", "", "Config file path (default: ~/.config/tilewm/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	configPath := *path
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		configPath = p
	}

	res, err := config.LoadFromPath(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config

	logger := newLogger(cfg.Logging.Level)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "path", configPath, "workspaces", len(cfg.Workspaces))

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.General.Display, logger.With("component", "x11"))
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer backend.Disconnect()

	if err := backend.Watch(); err != nil {
		logger.Error("failed to watch windows", "error", err)
		return 1
	}

	d := daemon.New(daemon.Options{
		Backend:    backend,
		Events:     backend.Events(),
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     logger,
	})

	keys, err := hotkeys.NewHandler(backend, func(commands []string) {
		d.Loop().Post("keybinding", daemon.RunCommands(commands...))
	}, logger.With("component", "hotkeys"))
	if err != nil {
		logger.Error("failed to set up keybindings", "error", err)
		return 1
	}
	if err := keys.Bind(cfg.Keybindings); err != nil {
		logger.Warn("some keybindings were not registered", "error", err)
	}

	ipcServer, err := ipc.NewServer(d, logger.With("component", "ipc"))
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		return 1
	}
	defer ipcServer.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go rebindOnConfigChange(ctx, d, keys)
	go reloadOnHangup(ctx, d)

	runErr := make(chan error, 1)
	go func() {
		runErr <- d.Run(ctx)
		backend.Quit()
	}()

	logger.Info("entering event loop")
	backend.EventLoop()
	stop()

	if err := <-runErr; err != nil {
		logger.Error("daemon stopped", "error", err)
		return 1
	}
	logger.Info("shutting down tilewm daemon")
	return 0
}

// rebindOnConfigChange re-registers keybindings after every reload.
func rebindOnConfigChange(ctx context.Context, d *daemon.Daemon, keys *hotkeys.Handler) {
	events, cancel := d.Subscribe(wm.EventUserConfigChanged)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-events:
			var bindings []config.KeybindingConfig
			err := d.Call(ctx, "read keybindings", func(s *wm.State) error {
				bindings = s.Config().Keybindings
				return nil
			})
			if err != nil {
				continue
			}
			if err := keys.Bind(bindings); err != nil {
				d.Logger().Warn("some keybindings were not registered", "error", err)
			}
		}
	}
}

func reloadOnHangup(ctx context.Context, d *daemon.Daemon) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			d.Logger().Info("received SIGHUP, reloading config")
			if err := d.Reload(ctx); err != nil {
				d.Logger().Warn("config reload failed", "error", err)
			}
		}
	}
}
