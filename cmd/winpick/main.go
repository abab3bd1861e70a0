package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "pick":
		os.Exit(runPick(os.Args[2:]))
	case "palette":
		os.Exit(runPalette(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "activate":
		os.Exit(runActivate(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winpick <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  pick                Pick a window interactively (TUI or palette, per config)")
	fmt.Fprintln(w, "  palette             Pick a window with rofi/fuzzel/wofi/dmenu")
	fmt.Fprintln(w, "  list [--json]       List open windows")
	fmt.Fprintln(w, "  activate <handle>   Bring a window to the foreground")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  daemon              Start the winpick daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config init         Create a configuration interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Common options:")
	fmt.Fprintln(w, "  --config PATH       Config file (default: ~/.config/winpick/config.yaml)")
	fmt.Fprintln(w, "  --host MODE         auto, local, ipc or dbus (default: from config)")
}
