package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winpick/internal/platform"
)

// HostMode selects where window enumeration and activation run.
type HostMode string

const (
	HostAuto  HostMode = "auto"  // IPC when the daemon answers, otherwise local.
	HostLocal HostMode = "local" // In-process platform backend.
	HostIPC   HostMode = "ipc"   // Daemon over the unix socket.
	HostDBus  HostMode = "dbus"  // Daemon over the session bus.
)

// Frontend selects how the picker is rendered.
type Frontend string

const (
	FrontendTUI     Frontend = "tui"
	FrontendPalette Frontend = "palette"
)

const (
	DefaultConfirmDelayMS = 100
	DefaultLogLevel       = "info"
)

// ActivationConfig tunes how the host confirms that focus moved.
type ActivationConfig struct {
	// ConfirmDelayMS is the wait before checking the active window.
	// 0 disables the check. Default: 100.
	ConfirmDelayMS *int `yaml:"confirm_delay_ms,omitempty"`
	// Retry re-sends the activation request once if the check fails. Default: true.
	Retry *bool `yaml:"retry,omitempty"`
}

// DBusConfig configures the optional session-bus host surface.
type DBusConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TrayConfig configures the daemon's status-bar icon.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig configures the zerolog output.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File switches output to JSON lines in this file (default: stderr console).
	File string `yaml:"file,omitempty"`
}

// Config is the effective winpick configuration.
type Config struct {
	Host                 HostMode         `yaml:"host"`
	Frontend             Frontend         `yaml:"frontend"`
	PaletteBackend       string           `yaml:"palette_backend"`
	PaletteFuzzyMatching bool             `yaml:"palette_fuzzy_matching"`
	PickerHotkey         string           `yaml:"picker_hotkey,omitempty"`
	CurrentDesktopOnly   bool             `yaml:"current_desktop_only"`
	ExcludeClasses       []string         `yaml:"exclude_classes,omitempty"`
	CloseOnActivate      bool             `yaml:"close_on_activate"`
	Activation           ActivationConfig `yaml:"activation"`
	DBus                 DBusConfig       `yaml:"dbus"`
	Tray                 TrayConfig       `yaml:"tray"`
	Log                  LogConfig        `yaml:"log"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Host:           HostAuto,
		Frontend:       FrontendTUI,
		PaletteBackend: "auto",
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// GetConfirmDelay returns the effective confirm delay.
func (a ActivationConfig) GetConfirmDelay() time.Duration {
	if a.ConfirmDelayMS == nil {
		return DefaultConfirmDelayMS * time.Millisecond
	}
	return time.Duration(*a.ConfirmDelayMS) * time.Millisecond
}

// GetRetry returns the effective value, defaulting to true.
func (a ActivationConfig) GetRetry() bool {
	if a.Retry == nil {
		return true
	}
	return *a.Retry
}

// Validate checks enum values and ranges.
func (c *Config) Validate() error {
	switch c.Host {
	case HostAuto, HostLocal, HostIPC, HostDBus:
	default:
		return &ValidationError{Path: "host", Msg: fmt.Sprintf("unknown host %q (expected: auto, local, ipc, dbus)", c.Host)}
	}

	switch c.Frontend {
	case FrontendTUI, FrontendPalette:
	default:
		return &ValidationError{Path: "frontend", Msg: fmt.Sprintf("unknown frontend %q (expected: tui, palette)", c.Frontend)}
	}

	switch strings.ToLower(strings.TrimSpace(c.PaletteBackend)) {
	case "", "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "palette_backend", Msg: fmt.Sprintf("unknown palette backend %q (expected: auto, rofi, fuzzel, wofi, dmenu)", c.PaletteBackend)}
	}

	if d := c.Activation.ConfirmDelayMS; d != nil && (*d < 0 || *d > 5000) {
		return &ValidationError{Path: "activation.confirm_delay_ms", Msg: fmt.Sprintf("must be between 0 and 5000, got %d", *d)}
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log.level", Msg: fmt.Sprintf("unknown level %q (expected: debug, info, warn, error)", c.Log.Level)}
	}

	return nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ValidationError points at the offending YAML path.
type ValidationError struct {
	Path string
	Msg  string
	// File and Line are filled in when the key was read from a file.
	File string
	Line int
}

func (e *ValidationError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Path, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// BackendOptions maps the configuration onto platform backend options.
func (c *Config) BackendOptions() platform.Options {
	return platform.Options{
		CurrentDesktopOnly: c.CurrentDesktopOnly,
		ExcludeClasses:     append([]string(nil), c.ExcludeClasses...),
		ConfirmDelay:       c.Activation.GetConfirmDelay(),
		Retry:              c.Activation.GetRetry(),
	}
}
