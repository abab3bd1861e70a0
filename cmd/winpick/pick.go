package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/winpick/internal/config"
	"github.com/1broseidon/winpick/internal/host"
	"github.com/1broseidon/winpick/internal/palette"
	"github.com/1broseidon/winpick/internal/tui"
)

func runPick(args []string) int {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := addCommonFlags(fs)
	frontend := fs.String("frontend", "", "Front-end: tui or palette (default: from config)")
	fs.Usage = func() { printPickUsage(os.Stderr, fs) }
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

	which := cfg.Frontend
	if *frontend != "" {
		which = config.Frontend(*frontend)
	}
	switch which {
	case config.FrontendPalette:
		return pickWithPalette(common, cfg)
	case config.FrontendTUI:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown frontend %q (expected: tui, palette)\n", which)
		return 2
	}

	logger, closer, err := newFileLogger(cfg)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, release, err := openHost(ctx, mode, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer release()

	if err := tui.Run(ctx, h, tui.Options{
		CloseOnActivate: cfg.CloseOnActivate,
		Logger:          logger,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printPickUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: winpick pick [--frontend tui|palette] [--host MODE] [--config PATH]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Shows one row per open window. Enter or a click focuses it,")
	fmt.Fprintln(w, "r reloads the list, q quits.")
	fmt.Fprintln(w, "")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func runPalette(args []string) int {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := addCommonFlags(fs)
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
	return pickWithPalette(common, res.Config)
}

func pickWithPalette(common *commonFlags, cfg *config.Config) int {
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

	backend, err := palette.NewBackend(cfg.PaletteBackend, palette.Options{
		FuzzyMatching: cfg.PaletteFuzzyMatching,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, release, err := openHost(ctx, mode, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer release()

	p := palette.NewPicker(backend, h, logger)
	if local, ok := h.(*host.Local); ok {
		p.Active = local.ActiveWindow
	}

	switch err := p.Run(ctx); {
	case err == nil, errors.Is(err, palette.ErrCancelled):
		return 0
	case errors.Is(err, palette.ErrNoWindows):
		fmt.Fprintln(os.Stderr, "No open windows.")
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}
