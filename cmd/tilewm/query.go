package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/ipc"
)

func printQueryUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tilewm query <status|tree|monitors|workspaces|windows> [--json]")
}

func runQuery(args []string) int {
	if len(args) == 0 {
		printQueryUsage(os.Stderr)
		return 2
	}
	what := args[0]
	if what == "help" || what == "-h" || what == "--help" {
		printQueryUsage(os.Stdout)
		return 0
	}

	fs := newFlagSet("query "+what, "query "+what+" [--json]")
	asJSON := fs.Bool("json", false, "Print raw JSON")
	if code, ok := parseFlags(fs, args[1:]); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "query %s takes no arguments\n", what)
		return 2
	}

	client := ipc.NewClient()
	st := newStyles(term.IsTerminal(int(os.Stdout.Fd())))

	var (
		data any
		err  error
		show func()
	)
	switch what {
	case "status":
		var status *ipc.StatusData
		status, err = client.GetStatus()
		data = status
		show = func() { printStatus(os.Stdout, status) }
	case "tree":
		var tree container.DTO
		tree, err = client.GetTree()
		data = tree
		show = func() { renderTree(os.Stdout, st, tree) }
	case "monitors", "workspaces", "windows":
		var list []container.DTO
		switch what {
		case "monitors":
			list, err = client.GetMonitors()
		case "workspaces":
			list, err = client.GetWorkspaces()
		default:
			list, err = client.GetWindows()
		}
		data = list
		show = func() { renderList(os.Stdout, st, list) }
	default:
		fmt.Fprintf(os.Stderr, "Unknown query: %s\n\n", what)
		printQueryUsage(os.Stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	show()
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running:  %v\n", status.DaemonRunning)
	fmt.Fprintf(w, "paused:          %v\n", status.Paused)
	fmt.Fprintf(w, "uptime_seconds:  %d\n", status.UptimeSeconds)
	fmt.Fprintf(w, "monitors:        %d\n", status.MonitorCount)
	fmt.Fprintf(w, "workspaces:      %d\n", status.WorkspaceCount)
	fmt.Fprintf(w, "windows:         %d\n", status.WindowCount)
	if status.FocusedID != "" {
		fmt.Fprintf(w, "focused:         %s\n", status.FocusedID)
	}
}
