package palette

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/host"
	"github.com/1broseidon/winpick/internal/picker"
)

// ErrNoWindows means the host listed nothing to pick from.
var ErrNoWindows = errors.New("no open windows")

// Prompt is the launcher prompt.
const Prompt = "window"

// Picker is the one-shot palette front-end.
type Picker struct {
	backend Backend
	host    host.Capability
	log     zerolog.Logger

	// Active reports the focused window so its row can be preselected.
	Active func() (host.Handle, bool)
}

// NewPicker builds a picker for h.
func NewPicker(backend Backend, h host.Capability, logger zerolog.Logger) *Picker {
	return &Picker{
		backend: backend,
		host:    h,
		log:     logger,
	}
}

// Run loads the window list, shows it and activates the chosen window. It
// returns once the activation completed. ErrCancelled and ErrNoWindows are
// returned as-is.
func (p *Picker) Run(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := picker.NewLoop()
	go loop.Run(loopCtx)

	region := &picker.ListRegion{}
	view := picker.NewView(p.host, region, loop, picker.WithLogger(p.log))

	if err := wait(ctx, view.LoadWindowList()); err != nil {
		return err
	}

	controls := region.Controls()
	if len(controls) == 0 {
		return ErrNoWindows
	}

	var active host.Handle
	hasActive := false
	if p.Active != nil {
		active, hasActive = p.Active()
	}

	result, err := p.backend.Show(Prompt, ItemsFromControls(controls, active, hasActive), "")
	if err != nil {
		return err
	}

	return wait(ctx, view.Activate(controls[result.Index]))
}

// ItemsFromControls turns rendered controls into palette rows.
func ItemsFromControls(controls []picker.Control, active host.Handle, hasActive bool) []Item {
	items := make([]Item, len(controls))
	for i, c := range controls {
		items[i] = Item{
			Label:    c.Label,
			Handle:   c.Handle,
			Icon:     strings.ToLower(strings.TrimSpace(c.ApplicationName)),
			Meta:     c.ApplicationName,
			IsActive: hasActive && c.Handle == active,
		}
	}
	return items
}

func wait(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
