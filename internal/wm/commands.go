package wm

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/platform"
)

// CommandName is a user command verb.
type CommandName string

const (
	CmdSetTiling        CommandName = "set-tiling"
	CmdSetFloating      CommandName = "set-floating"
	CmdSetFullscreen    CommandName = "set-fullscreen"
	CmdSetMinimized     CommandName = "set-minimized"
	CmdToggleFloating   CommandName = "toggle-floating"
	CmdToggleFullscreen CommandName = "toggle-fullscreen"
	CmdFocusWorkspace   CommandName = "focus-workspace"
	CmdResize           CommandName = "resize"
	CmdTogglePause      CommandName = "toggle-pause"
	CmdRedraw           CommandName = "redraw"
)

// Command is a parsed user command.
type Command struct {
	Name CommandName
	// Workspace is set for focus-workspace.
	Workspace string
	// Width and Height are set for resize; the other axis stays zero.
	Width  geom.LengthValue
	Height geom.LengthValue
}

func (c Command) String() string {
	switch c.Name {
	case CmdFocusWorkspace:
		return string(c.Name) + " " + c.Workspace
	case CmdResize:
		if c.Width.Amount != 0 {
			return fmt.Sprintf("%s width %s", c.Name, c.Width)
		}
		return fmt.Sprintf("%s height %s", c.Name, c.Height)
	default:
		return string(c.Name)
	}
}

// ParseCommand parses commands such as "toggle-floating",
// "focus-workspace 2" or "resize width +5%".
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	cmd := Command{Name: CommandName(fields[0])}
	args := fields[1:]
	switch cmd.Name {
	case CmdSetTiling, CmdSetFloating, CmdSetFullscreen, CmdSetMinimized,
		CmdToggleFloating, CmdToggleFullscreen, CmdTogglePause, CmdRedraw:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", cmd.Name)
		}
	case CmdFocusWorkspace:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: focus-workspace <name>")
		}
		cmd.Workspace = args[0]
	case CmdResize:
		if len(args) != 2 {
			return Command{}, fmt.Errorf("usage: resize width|height <length>")
		}
		amount, err := geom.ParseLength(args[1])
		if err != nil {
			return Command{}, err
		}
		switch args[0] {
		case "width":
			cmd.Width = amount
		case "height":
			cmd.Height = amount
		default:
			return Command{}, fmt.Errorf("resize dimension must be width or height, got %q", args[0])
		}
	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
	return cmd, nil
}

// RunCommand executes cmd against the focused container. While paused only
// toggle-pause has an effect.
func (s *State) RunCommand(cmd Command) error {
	if s.paused && cmd.Name != CmdTogglePause {
		slog.Debug("ignoring command while paused", "command", cmd.String())
		return nil
	}

	switch cmd.Name {
	case CmdTogglePause:
		s.SetPaused(!s.paused)
		return nil
	case CmdRedraw:
		s.pending.QueueContainerToRedraw(s.root)
		return nil
	case CmdFocusWorkspace:
		return s.FocusWorkspace(cmd.Workspace)
	}

	w, ok := s.FocusedContainer().(container.Window)
	if !ok {
		return nil
	}
	defaults := s.cfg.WindowBehavior.StateDefaults

	switch cmd.Name {
	case CmdSetTiling:
		return s.UpdateWindowState(w, platform.Tiling())
	case CmdSetFloating:
		return s.UpdateWindowState(w, platform.Floating(defaults.Floating))
	case CmdSetFullscreen:
		return s.UpdateWindowState(w, platform.Fullscreen(defaults.Fullscreen))
	case CmdSetMinimized:
		return s.UpdateWindowState(w, platform.Minimized())
	case CmdToggleFloating:
		if w.State().Kind == platform.StateFloating {
			return s.UpdateWindowState(w, platform.Tiling())
		}
		return s.UpdateWindowState(w, platform.Floating(defaults.Floating))
	case CmdToggleFullscreen:
		if w.State().Kind == platform.StateFullscreen {
			target := platform.Tiling()
			if prev, ok := w.PrevState(); ok && prev.Kind == platform.StateFloating {
				target = prev
			}
			return s.UpdateWindowState(w, target)
		}
		return s.UpdateWindowState(w, platform.Fullscreen(defaults.Fullscreen))
	case CmdResize:
		return s.ResizeWindow(w, cmd.Width, cmd.Height)
	}
	return fmt.Errorf("unknown command %q", cmd.Name)
}

// RunCommandString parses and runs each command in order, stopping at the
// first failure.
func (s *State) RunCommandString(commands ...string) error {
	for _, raw := range commands {
		cmd, err := ParseCommand(raw)
		if err != nil {
			return err
		}
		if err := s.RunCommand(cmd); err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
	}
	return nil
}
