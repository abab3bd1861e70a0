package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Host != HostAuto || cfg.Frontend != FrontendTUI {
		t.Fatalf("unexpected defaults: host=%q frontend=%q", cfg.Host, cfg.Frontend)
	}
	if got := cfg.Activation.GetConfirmDelay(); got != 100*time.Millisecond {
		t.Fatalf("default confirm delay = %v, want 100ms", got)
	}
	if !cfg.Activation.GetRetry() {
		t.Fatal("expected retry to default to true")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Exists {
		t.Fatal("expected Exists=false for missing file")
	}
	if res.Config.Host != HostAuto {
		t.Fatalf("expected default host, got %q", res.Config.Host)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !res.Exists {
		t.Fatal("expected Exists=true")
	}
	if res.Config.PaletteBackend != "auto" || res.Config.Log.Level != "info" {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
}

func TestLoadFromPath_AllKeys(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"host: IPC",
		"frontend: palette",
		"palette_backend: rofi",
		"palette_fuzzy_matching: true",
		"picker_hotkey: Mod4-w",
		"current_desktop_only: true",
		"exclude_classes: [Polybar, Plank]",
		"close_on_activate: true",
		"activation:",
		"  confirm_delay_ms: 0",
		"  retry: false",
		"dbus:",
		"  enabled: true",
		"tray:",
		"  enabled: true",
		"log:",
		"  level: debug",
		"  file: /tmp/winpick.log",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Host != HostIPC {
		t.Fatalf("host = %q, want ipc (case-normalized)", cfg.Host)
	}
	if cfg.Frontend != FrontendPalette || cfg.PaletteBackend != "rofi" || !cfg.PaletteFuzzyMatching {
		t.Fatalf("palette settings not loaded: %+v", cfg)
	}
	if cfg.PickerHotkey != "Mod4-w" || !cfg.CurrentDesktopOnly || !cfg.CloseOnActivate || !cfg.DBus.Enabled || !cfg.Tray.Enabled {
		t.Fatalf("flags not loaded: %+v", cfg)
	}
	if len(cfg.ExcludeClasses) != 2 || cfg.ExcludeClasses[1] != "Plank" {
		t.Fatalf("exclude_classes = %v", cfg.ExcludeClasses)
	}
	if cfg.Activation.GetConfirmDelay() != 0 || cfg.Activation.GetRetry() {
		t.Fatalf("activation overrides not applied: %+v", cfg.Activation)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/winpick.log" {
		t.Fatalf("log = %+v", cfg.Log)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "hots: ipc\n"))
	if err == nil {
		t.Fatal("expected unknown key error")
	}
	if !strings.Contains(err.Error(), "hots") {
		t.Fatalf("expected error to name the key, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasLine(t *testing.T) {
	path := writeConfig(t, "frontend: tui\nactivation:\n  confirm_delay_ms: -5\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "activation.confirm_delay_ms" || verr.Line != 3 || verr.File != path {
		t.Fatalf("unexpected error context: %+v", verr)
	}
	if !strings.Contains(err.Error(), path+":3:") {
		t.Fatalf("expected file:line prefix, got %q", err.Error())
	}
}

func TestValidate_RejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"host", func(c *Config) { c.Host = "pipe" }, "host"},
		{"frontend", func(c *Config) { c.Frontend = "gtk" }, "frontend"},
		{"palette", func(c *Config) { c.PaletteBackend = "bemenu" }, "palette_backend"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) || verr.Path != tt.path {
				t.Fatalf("Validate() = %v, want ValidationError at %q", err, tt.path)
			}
		})
	}
}

func TestSave_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Frontend = FrontendPalette
	cfg.ExcludeClasses = []string{"Conky"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Frontend != FrontendPalette || len(res.Config.ExcludeClasses) != 1 {
		t.Fatalf("saved config not reloaded: %+v", res.Config)
	}
}

func TestBackendOptions(t *testing.T) {
	delay := 0
	retry := false
	cfg := DefaultConfig()
	cfg.CurrentDesktopOnly = true
	cfg.ExcludeClasses = []string{"Conky"}
	cfg.Activation = ActivationConfig{ConfirmDelayMS: &delay, Retry: &retry}

	opts := cfg.BackendOptions()
	if !opts.CurrentDesktopOnly || opts.ConfirmDelay != 0 || opts.Retry {
		t.Fatalf("opts = %+v", opts)
	}
	if len(opts.ExcludeClasses) != 1 || opts.ExcludeClasses[0] != "Conky" {
		t.Fatalf("exclude = %v", opts.ExcludeClasses)
	}

	def := DefaultConfig().BackendOptions()
	if def.ConfirmDelay != DefaultConfirmDelayMS*time.Millisecond || !def.Retry {
		t.Fatalf("default opts = %+v", def)
	}
}
