package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winpick/internal/config"
)

func runConfig(args []string) int {
	if len(args) == 0 || isHelpArg(args) {
		printConfigUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("config", "", "Config file path (default: ~/.config/winpick/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !res.Exists {
			fmt.Printf("config: %s not found, defaults are valid\n", res.Path)
			return 0
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("config", "", "Config file path (default: ~/.config/winpick/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			fmt.Printf("# source: %s", res.Path)
			if !res.Exists {
				fmt.Print(" (missing, defaults)")
			}
			fmt.Println()
			cfg = res.Config
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "init":
		fs := flag.NewFlagSet("init", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("config", "", "Config file path (default: ~/.config/winpick/config.yaml)")
		force := fs.Bool("force", false, "Overwrite an existing config file")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		return runConfigInit(*path, *force)

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winpick config validate [--config PATH]")
	fmt.Fprintln(w, "  winpick config print [--config PATH] [--defaults]")
	fmt.Fprintln(w, "  winpick config init [--config PATH] [--force]")
}

// initAnswers holds the form fields of "config init".
type initAnswers struct {
	Host            string
	Frontend        string
	PaletteBackend  string
	Hotkey          string
	ConfirmDelayMS  string
	CurrentDesktop  bool
	CloseOnActivate bool
	DBus            bool
	Tray            bool
}

func answersFromConfig(cfg *config.Config) initAnswers {
	return initAnswers{
		Host:            string(cfg.Host),
		Frontend:        string(cfg.Frontend),
		PaletteBackend:  cfg.PaletteBackend,
		Hotkey:          cfg.PickerHotkey,
		ConfirmDelayMS:  strconv.Itoa(int(cfg.Activation.GetConfirmDelay().Milliseconds())),
		CurrentDesktop:  cfg.CurrentDesktopOnly,
		CloseOnActivate: cfg.CloseOnActivate,
		DBus:            cfg.DBus.Enabled,
		Tray:            cfg.Tray.Enabled,
	}
}

// apply writes the answers over cfg and validates the result.
func (a initAnswers) apply(cfg *config.Config) error {
	delay, err := parseConfirmDelay(a.ConfirmDelayMS)
	if err != nil {
		return err
	}

	cfg.Host = config.HostMode(a.Host)
	cfg.Frontend = config.Frontend(a.Frontend)
	cfg.PaletteBackend = a.PaletteBackend
	cfg.PickerHotkey = strings.TrimSpace(a.Hotkey)
	cfg.Activation.ConfirmDelayMS = &delay
	cfg.CurrentDesktopOnly = a.CurrentDesktop
	cfg.CloseOnActivate = a.CloseOnActivate
	cfg.DBus.Enabled = a.DBus
	cfg.Tray.Enabled = a.Tray
	return cfg.Validate()
}

func parseConfirmDelay(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("confirm delay must be a number of milliseconds")
	}
	if n < 0 || n > 5000 {
		return 0, fmt.Errorf("confirm delay must be between 0 and 5000")
	}
	return n, nil
}

func runConfigInit(path string, force bool) int {
	res, err := loadConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if res.Exists && !force {
		fmt.Fprintf(os.Stderr, "config: %s already exists (use --force to overwrite)\n", res.Path)
		return 1
	}

	cfg := res.Config
	answers := answersFromConfig(cfg)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("host").
				Title("Host").
				Description("Where windows are listed and activated").
				Options(
					huh.NewOption("auto (daemon if running)", string(config.HostAuto)),
					huh.NewOption("local", string(config.HostLocal)),
					huh.NewOption("ipc", string(config.HostIPC)),
					huh.NewOption("dbus", string(config.HostDBus)),
				).
				Value(&answers.Host),

			huh.NewSelect[string]().
				Key("frontend").
				Title("Picker").
				Description("Front-end used by \"winpick pick\"").
				Options(
					huh.NewOption("terminal UI", string(config.FrontendTUI)),
					huh.NewOption("launcher palette", string(config.FrontendPalette)),
				).
				Value(&answers.Frontend),

			huh.NewSelect[string]().
				Key("palette_backend").
				Title("Palette Backend").
				Options(huh.NewOptions("auto", "rofi", "fuzzel", "wofi", "dmenu")...).
				Value(&answers.PaletteBackend),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("picker_hotkey").
				Title("Picker Hotkey").
				Description("X11 keybinding that opens the palette, e.g. Mod4-w (empty: none)").
				Value(&answers.Hotkey),

			huh.NewInput().
				Key("confirm_delay_ms").
				Title("Activation Confirm Delay (ms)").
				Validate(func(s string) error {
					_, err := parseConfirmDelay(s)
					return err
				}).
				Value(&answers.ConfirmDelayMS),

			huh.NewConfirm().
				Key("current_desktop_only").
				Title("Only list windows on the current desktop?").
				Value(&answers.CurrentDesktop),

			huh.NewConfirm().
				Key("close_on_activate").
				Title("Close the picker after activating a window?").
				Value(&answers.CloseOnActivate),

			huh.NewConfirm().
				Key("dbus").
				Title("Serve the host on the D-Bus session bus?").
				Value(&answers.DBus),

			huh.NewConfirm().
				Key("tray").
				Title("Show a tray icon while the daemon runs?").
				Value(&answers.Tray),
		),
	).WithShowHelp(true).WithShowErrors(true)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := answers.apply(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := cfg.Save(res.Path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("config: wrote %s\n", res.Path)
	return 0
}
