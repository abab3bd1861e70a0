// Package daemon runs the long-lived host process: it owns the platform
// backend and serves it over the IPC socket, the optional D-Bus service and
// the picker hotkey.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/config"
	"github.com/1broseidon/winpick/internal/dbus"
	"github.com/1broseidon/winpick/internal/host"
	"github.com/1broseidon/winpick/internal/hotkeys"
	"github.com/1broseidon/winpick/internal/ipc"
	"github.com/1broseidon/winpick/internal/platform"
	"github.com/1broseidon/winpick/internal/runtimepath"
	"github.com/1broseidon/winpick/internal/tray"
)

// eventLooper is implemented by backends that need their event loop driven
// for hotkeys.
type eventLooper interface {
	EventLoop()
	QuitEventLoop()
}

// Options configure a Daemon.
type Options struct {
	// ConfigPath is reloaded on SIGHUP and RELOAD. Empty means the default path.
	ConfigPath string
	// SocketPath overrides the IPC socket location.
	SocketPath string
	Logger     zerolog.Logger
	// Launch opens the palette when the picker hotkey fires. The default
	// re-executes this binary with "palette".
	Launch func() error
}

// Daemon is the host process.
type Daemon struct {
	cfgPath    string
	socketPath string
	log        zerolog.Logger
	launch     func() error

	backend platform.Backend
	local   *host.Local

	mu     sync.Mutex
	cfg    *config.Config
	ipc    *ipc.Server
	bus    *dbus.Server
	keys   *hotkeys.Handler
	hotkey string
}

// New wires a daemon around an opened backend.
func New(cfg *config.Config, backend platform.Backend, opts Options) *Daemon {
	d := &Daemon{
		cfgPath:    opts.ConfigPath,
		socketPath: opts.SocketPath,
		log:        opts.Logger.With().Str("component", "daemon").Logger(),
		launch:     opts.Launch,
		backend:    backend,
		local:      host.NewLocal(backend),
		cfg:        cfg,
	}
	if d.launch == nil {
		d.launch = d.launchPalette
	}
	return d
}

// Host returns the in-process capability the daemon serves.
func (d *Daemon) Host() host.Capability {
	return d.local
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := d.config()
	d.local.Reconfigure(cfg.BackendOptions())

	server, err := ipc.NewServer(d.local, ipc.ServerOptions{
		SocketPath: d.socketPath,
		Config:     cfg,
		ConfigPath: d.cfgPath,
		Reload:     d.Reload,
		Logger:     d.log,
	})
	if err != nil {
		return fmt.Errorf("failed to create IPC server: %w", err)
	}
	d.mu.Lock()
	d.ipc = server
	d.mu.Unlock()

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer server.Stop()

	if keys, err := hotkeys.NewHandler(d.backend, d.log); err == nil {
		d.mu.Lock()
		d.keys = keys
		d.mu.Unlock()
	} else if cfg.PickerHotkey != "" {
		d.log.Warn().Err(err).Msg("picker hotkey disabled")
	}

	d.applyServices(cfg)
	defer d.stopServices()

	go d.handleSignals(ctx, cancel)

	if cfg.Tray.Enabled {
		icon := tray.Start(tray.Options{
			OnPick: d.onPickerHotkey,
			OnQuit: cancel,
			Logger: d.log,
		})
		defer icon.Stop()
	}

	d.log.Info().
		Str("socket", server.SocketPath()).
		Bool("dbus", cfg.DBus.Enabled).
		Bool("tray", cfg.Tray.Enabled).
		Str("hotkey", cfg.PickerHotkey).
		Msg("winpick daemon started")

	if looper, ok := d.backend.(eventLooper); ok {
		go func() {
			<-ctx.Done()
			looper.QuitEventLoop()
		}()
		looper.EventLoop()
	} else {
		<-ctx.Done()
	}

	d.log.Info().Msg("shutting down winpick daemon")
	return nil
}

// Reload re-reads the config file and applies it. On error the running
// configuration stays in place.
func (d *Daemon) Reload() (*config.Config, error) {
	var (
		res *config.LoadResult
		err error
	)
	if d.cfgPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(d.cfgPath)
	}
	if err != nil {
		d.log.Error().Err(err).Msg("config reload failed")
		return nil, err
	}

	cfg := res.Config
	d.mu.Lock()
	prev := d.cfg
	d.cfg = cfg
	server := d.ipc
	d.mu.Unlock()

	if prev != nil && prev.Tray.Enabled != cfg.Tray.Enabled {
		d.log.Warn().Bool("tray", cfg.Tray.Enabled).Msg("tray change takes effect after a daemon restart")
	}

	d.local.Reconfigure(cfg.BackendOptions())
	d.applyServices(cfg)
	if server != nil {
		server.UpdateConfig(cfg)
	}

	d.log.Info().Str("path", res.Path).Msg("config reloaded")
	return cfg, nil
}

func (d *Daemon) config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// applyServices brings the D-Bus service and the hotkey in line with cfg.
func (d *Daemon) applyServices(cfg *config.Config) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case cfg.DBus.Enabled && d.bus == nil:
		bus := dbus.NewServer(d.local, d.log)
		if err := bus.Start(); err != nil {
			d.log.Warn().Err(err).Msg("D-Bus service unavailable")
		} else {
			d.bus = bus
		}
	case !cfg.DBus.Enabled && d.bus != nil:
		d.bus.Stop()
		d.bus = nil
	}

	if d.keys == nil || cfg.PickerHotkey == d.hotkey {
		return
	}
	d.keys.UnregisterAll()
	d.hotkey = ""
	if cfg.PickerHotkey == "" {
		return
	}
	if err := d.keys.Register(cfg.PickerHotkey, d.onPickerHotkey); err != nil {
		d.log.Warn().Err(err).Msg("failed to register picker hotkey")
		return
	}
	d.hotkey = cfg.PickerHotkey
}

func (d *Daemon) stopServices() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus != nil {
		d.bus.Stop()
		d.bus = nil
	}
	if d.keys != nil {
		d.keys.UnregisterAll()
		d.hotkey = ""
	}
}

func (d *Daemon) onPickerHotkey() {
	if err := d.launch(); err != nil {
		d.log.Error().Err(err).Msg("failed to launch palette")
	}
}

func (d *Daemon) launchPalette() error {
	cmd, err := d.paletteCommand()
	if err != nil {
		return err
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// paletteCommand re-executes this binary as a palette talking to this
// daemon's socket.
func (d *Daemon) paletteCommand() (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to find executable: %w", err)
	}
	args := []string{"palette", "--host", string(config.HostIPC)}
	if d.cfgPath != "" {
		args = append(args, "--config", d.cfgPath)
	}
	cmd := exec.Command(exe, args...)

	d.mu.Lock()
	server := d.ipc
	d.mu.Unlock()
	if server != nil {
		cmd.Env = append(os.Environ(), runtimepath.SocketEnv+"="+server.SocketPath())
	}
	return cmd, nil
}

func (d *Daemon) handleSignals(ctx context.Context, stop context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				d.log.Info().Msg("received SIGHUP, reloading config")
				_, _ = d.Reload()
				continue
			}
			d.log.Info().Str("signal", sig.String()).Msg("received signal")
			stop()
			return
		}
	}
}
