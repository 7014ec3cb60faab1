package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/platform"
	"github.com/1broseidon/tilewm/internal/wm"
)

// Dispatch receives the commands of a pressed binding. It is called on the
// X event goroutine and must not block.
type Dispatch func(commands []string)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Binding is one key sequence and the commands it runs.
type Binding struct {
	Key      string
	Commands []string
}

// ParseBindings flattens keybinding config into one Binding per key and
// checks every command parses.
func ParseBindings(cfg []config.KeybindingConfig) ([]Binding, error) {
	var out []Binding
	seen := make(map[string]int)
	for i, kb := range cfg {
		for _, cmd := range kb.Commands {
			if _, err := wm.ParseCommand(cmd); err != nil {
				return nil, fmt.Errorf("keybindings.%d: %w", i, err)
			}
		}
		for _, key := range kb.Bindings {
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("keybindings.%d: empty binding", i)
			}
			if prev, ok := seen[key]; ok {
				return nil, fmt.Errorf("keybindings.%d: %q already bound by keybindings.%d", i, key, prev)
			}
			seen[key] = i
			out = append(out, Binding{Key: key, Commands: kb.Commands})
		}
	}
	return out, nil
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	dispatch Dispatch
	logger   *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, dispatch Dispatch, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("hotkeys need an X11 backend, got %T", backend)
	}
	if logger == nil {
		logger = slog.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:       xu,
		root:     accessor.RootWindow(),
		dispatch: dispatch,
		logger:   logger,
	}, nil
}

// Bind replaces every registered binding. Keys that cannot be grabbed are
// reported together; the rest stay bound.
func (h *Handler) Bind(cfg []config.KeybindingConfig) error {
	bindings, err := ParseBindings(cfg)
	if err != nil {
		return err
	}

	keybind.Detach(h.xu, h.root)

	var errs []error
	for _, b := range bindings {
		commands := b.Commands
		key := b.Key
		err := h.RegisterFunc(key, func() {
			h.logger.Debug("keybinding triggered", "key", key, "commands", commands)
			h.dispatch(commands)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("bind %q: %w", key, err))
		}
	}
	h.logger.Info("keybindings registered", "count", len(bindings)-len(errs))
	return errors.Join(errs...)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
