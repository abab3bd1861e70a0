// Package tray shows the daemon's status-bar icon with a "Pick window" and a
// "Quit" entry.
package tray

import (
	"context"
	_ "embed"

	"fyne.io/systray"
	"github.com/rs/zerolog"
)

//go:embed icon.png
var icon []byte

// Options wire the menu entries.
type Options struct {
	// OnPick runs when "Pick window" is clicked.
	OnPick func()
	// OnQuit runs once when "Quit" is clicked.
	OnQuit func()
	Logger zerolog.Logger
}

// Tray is a running status-bar icon. systray keeps process-wide state, so a
// process starts at most one.
type Tray struct {
	opts   Options
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	end    func()
	done   chan struct{}
}

// Start registers the icon with the desktop's status notifier host.
func Start(opts Options) *Tray {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Tray{
		opts:   opts,
		log:    opts.Logger.With().Str("component", "tray").Logger(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	start, end := systray.RunWithExternalLoop(t.onReady, func() {})
	t.end = end
	start()
	return t
}

func (t *Tray) onReady() {
	systray.SetIcon(icon)
	systray.SetTitle("winpick")
	systray.SetTooltip("winpick: pick a window to focus")

	pick := systray.AddMenuItem("Pick window", "Open the window palette")
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Stop the winpick daemon")

	t.log.Debug().Msg("tray icon ready")
	go func() {
		defer close(t.done)
		serveMenu(t.ctx, pick.ClickedCh, quit.ClickedCh, t.opts.OnPick, t.opts.OnQuit)
	}()
}

// Stop removes the icon.
func (t *Tray) Stop() {
	t.cancel()
	if t.end != nil {
		t.end()
	}
}

// serveMenu dispatches menu clicks until ctx ends or Quit is clicked.
func serveMenu(ctx context.Context, pick, quit <-chan struct{}, onPick, onQuit func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-pick:
			if onPick != nil {
				onPick()
			}
		case <-quit:
			if onQuit != nil {
				onQuit()
			}
			return
		}
	}
}
