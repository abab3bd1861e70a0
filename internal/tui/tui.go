// Package tui is the interactive terminal front-end of the window picker.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/1broseidon/winpick/internal/host"
)

// Options configure the TUI.
type Options struct {
	// CloseOnActivate quits after a successful activation.
	CloseOnActivate bool
	Logger          zerolog.Logger
}

// Run shows the picker until the user quits.
func Run(ctx context.Context, h host.Capability, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	sched := &programScheduler{}
	m := newModel(h, sched, opts)

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	sched.send = p.Send

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
