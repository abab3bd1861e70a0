package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/config"
	"github.com/1broseidon/winpick/internal/dbus"
	"github.com/1broseidon/winpick/internal/host"
	"github.com/1broseidon/winpick/internal/ipc"
	"github.com/1broseidon/winpick/internal/logging"
	"github.com/1broseidon/winpick/internal/platform"
	"github.com/1broseidon/winpick/internal/runtimepath"
)

// commonFlags are shared by every command that talks to a host.
type commonFlags struct {
	configPath *string
	hostMode   *string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		configPath: fs.String("config", "", "Config file path (default: ~/.config/winpick/config.yaml)"),
		hostMode:   fs.String("host", "", "Host: auto, local, ipc, dbus (default: from config)"),
	}
}

func (c *commonFlags) load() (*config.LoadResult, error) {
	return loadConfig(*c.configPath)
}

func (c *commonFlags) mode(cfg *config.Config) (config.HostMode, error) {
	mode := config.HostMode(strings.ToLower(strings.TrimSpace(*c.hostMode)))
	if mode == "" {
		return cfg.Host, nil
	}
	switch mode {
	case config.HostAuto, config.HostLocal, config.HostIPC, config.HostDBus:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown host %q (expected: auto, local, ipc, dbus)", mode)
	}
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func newLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	return logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
}

// newFileLogger keeps diagnostics off a full-screen UI: without a configured
// log file they go to the runtime directory.
func newFileLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	file := cfg.Log.File
	if file == "" {
		var err error
		if file, err = runtimepath.LogPath(); err != nil {
			return zerolog.Nop(), nil, err
		}
	}
	return logging.New(logging.Options{Level: cfg.Log.Level, File: file})
}

// openHost resolves the host capability for mode. The returned func releases it.
func openHost(ctx context.Context, mode config.HostMode, cfg *config.Config, logger zerolog.Logger) (host.Capability, func(), error) {
	switch mode {
	case config.HostIPC:
		return ipc.NewClient(), func() {}, nil

	case config.HostDBus:
		client, err := dbus.Dial()
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil

	case config.HostLocal:
		backend, err := platform.New(cfg.BackendOptions())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open window backend: %w", err)
		}
		local := host.NewLocal(backend)
		return local, local.Close, nil

	default:
		client := ipc.NewClient()
		pingCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		err := client.Ping(pingCtx)
		cancel()
		if err == nil {
			logger.Debug().Msg("using daemon over IPC")
			return client, func() {}, nil
		}
		if !errors.Is(err, ipc.ErrDaemonUnavailable) {
			logger.Debug().Err(err).Msg("daemon did not answer, using local backend")
		}
		return openHost(ctx, config.HostLocal, cfg, logger)
	}
}

func isHelpArg(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}
