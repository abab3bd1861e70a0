package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/1broseidon/winpick/internal/host"
	"github.com/1broseidon/winpick/internal/picker"
)

const hostCallTimeout = 5 * time.Second

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := addCommonFlags(fs)
	asJSON := fs.Bool("json", false, "Print the window list as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	res, err := common.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg := res.Config

	logger, closer, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	mode, err := common.mode(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), hostCallTimeout)
	defer cancel()

	h, release, err := openHost(ctx, mode, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer release()

	windows, err := h.ListOpenWindows(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list windows: %v\n", err)
		return 1
	}

	if *asJSON {
		if err := writeWindowsJSON(os.Stdout, windows); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	writeWindowTable(os.Stdout, windows)
	return 0
}

func writeWindowsJSON(w io.Writer, windows []host.WindowInfo) error {
	if windows == nil {
		windows = []host.WindowInfo{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(windows)
}

// writeWindowTable prints one row per window: handle, then the picker label.
func writeWindowTable(w io.Writer, windows []host.WindowInfo) {
	if len(windows) == 0 {
		fmt.Fprintln(w, "No open windows.")
		return
	}

	width := len("HANDLE")
	for _, win := range windows {
		width = max(width, len(win.Handle.String()))
	}

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	fmt.Fprintf(w, "%s  %s\n", bold.Sprintf("%-*s", width, "HANDLE"), bold.Sprint("WINDOW"))
	for _, win := range windows {
		fmt.Fprintf(w, "%s  %s\n", cyan.Sprintf("%-*s", width, win.Handle.String()), picker.Label(win))
	}
}

func runActivate(args []string) int {
	fs := flag.NewFlagSet("activate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: winpick activate [--host MODE] [--config PATH] <handle>")
		return 2
	}

	handle, err := host.ParseHandle(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	res, err := common.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg := res.Config

	logger, closer, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	mode, err := common.mode(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), hostCallTimeout)
	defer cancel()

	h, release, err := openHost(ctx, mode, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer release()

	ok, err := h.ActivateWindow(ctx, handle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: error activating window %s: %v\n", handle, err)
		return 1
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "Failed to activate window %s\n", handle)
		return 1
	}
	return 0
}
