package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/1broseidon/winpick/internal/ipc"
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), hostCallTimeout)
	defer cancel()

	client := ipc.NewClient()
	status, err := client.GetStatus(ctx)
	if err != nil {
		if errors.Is(err, ipc.ErrDaemonUnavailable) {
			color.New(color.FgYellow).Fprintln(os.Stdout, "winpick daemon is not running")
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	green := color.New(color.FgGreen)
	bold := color.New(color.Bold)

	green.Fprintln(w, "winpick daemon is running")
	fmt.Fprintf(w, "  %s %s\n", bold.Sprint("Uptime:"), time.Duration(status.UptimeSeconds)*time.Second)
	fmt.Fprintf(w, "  %s %d\n", bold.Sprint("Windows:"), status.WindowCount)
	fmt.Fprintf(w, "  %s %t\n", bold.Sprint("D-Bus:"), status.DBusEnabled)
	hotkey := status.PickerHotkey
	if hotkey == "" {
		hotkey = "(none)"
	}
	fmt.Fprintf(w, "  %s %s\n", bold.Sprint("Hotkey:"), hotkey)
	if status.ConfigPath != "" {
		fmt.Fprintf(w, "  %s %s\n", bold.Sprint("Config:"), status.ConfigPath)
	}
}
