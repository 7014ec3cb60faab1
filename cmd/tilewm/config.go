package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/hotkeys"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tilewm config validate [--path PATH]")
	fmt.Fprintln(w, "  tilewm config print [--path PATH] [--defaults]")
	fmt.Fprintln(w, "  tilewm config explain [--path PATH] <yaml.path>")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:])
	case "print":
		return runConfigPrint(args[1:])
	case "explain":
		return runConfigExplain(args[1:])
	case "help", "-h", "--help":
		printConfigUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

const configPathUsage = "Config file path (default: ~/.config/tilewm/config.yaml)"

func runConfigValidate(args []string) int {
	fs := newFlagSet("config validate", "config validate [--path PATH]")
	path := fs.String("path", "", configPathUsage)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if _, err := hotkeys.ParseBindings(res.Config.Keybindings); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("config: ok (%d file(s))\n", len(res.Files))
	return 0
}

func runConfigPrint(args []string) int {
	fs := newFlagSet("config print", "config print [--path PATH] [--defaults]")
	path := fs.String("path", "", configPathUsage)
	printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg := config.DefaultConfig()
	if !*printDefaults {
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg = res.Config
	}

	data, err := cfg.Marshal()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(string(data))
	return 0
}

func runConfigExplain(args []string) int {
	fs := newFlagSet("config explain", "config explain [--path PATH] <yaml.path>")
	path := fs.String("path", "", configPathUsage)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
		return 2
	}
	queryPath := fs.Arg(0)

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	value, src, err := config.Explain(res, queryPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("path: %s\n", queryPath)
	fmt.Printf("source: %s\n", formatSource(src))
	fmt.Printf("value:\n%s", string(out))
	return 0
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
