package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/winpick/internal/daemon"
	"github.com/1broseidon/winpick/internal/platform"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/winpick/config.yaml)")
	socketPath := fs.String("socket", "", "IPC socket path (default: $XDG_RUNTIME_DIR/winpick.sock)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*configPath)
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

	backend, err := platform.New(cfg.BackendOptions())
	if err != nil {
		logger.Error().Err(err).Msg("failed to open window backend")
		return 1
	}
	defer backend.Disconnect()

	if !res.Exists {
		logger.Info().Str("path", res.Path).Msg("no config file, using defaults")
	}

	d := daemon.New(cfg, backend, daemon.Options{
		ConfigPath: res.Path,
		SocketPath: *socketPath,
		Logger:     logger,
	})
	if err := d.Run(context.Background()); err != nil {
		logger.Error().Err(err).Msg("daemon failed")
		return 1
	}
	return 0
}
