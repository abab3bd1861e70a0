// Package picker implements the window picker view: it fetches the open
// windows from a host, renders one control per window into a region and
// forwards activation requests back to the host.
//
// Host calls run off the event loop. Their completions are posted to a
// Scheduler, so every region mutation happens on the loop goroutine.
package picker

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/host"
)

// Diagnostic kinds written to the log's "kind" field.
const (
	KindFetchFailure       = "fetch_failure"
	KindActivationRejected = "activation_rejected"
	KindActivationFailure  = "activation_failure"
)

// Control is one rendered activation control. The handle is bound when the
// control is rendered and never re-read.
type Control struct {
	Label  string
	Handle host.Handle

	// ApplicationName is kept for front-ends that show icons or metadata.
	ApplicationName string
}

// Region is the render target. Replace swaps the whole content at once.
type Region interface {
	Replace(controls []Control)
}

// Scheduler runs completions on the UI event loop. Post reports false when
// fn was dropped because the loop is gone.
type Scheduler interface {
	Post(fn func()) bool
}

// ActivationFunc observes activation outcomes on the event loop.
type ActivationFunc func(handle host.Handle, activated bool, err error)

// View owns the region and talks to the host.
type View struct {
	host   host.Capability
	region Region
	sched  Scheduler
	log    zerolog.Logger

	onActivated ActivationFunc
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the diagnostic channel. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(v *View) {
		v.log = logger.With().Str("component", "picker").Logger()
	}
}

// WithActivationFunc registers a callback run after every activation completes.
func WithActivationFunc(fn ActivationFunc) Option {
	return func(v *View) {
		v.onActivated = fn
	}
}

// NewView wires a view to its host, render target and event loop.
func NewView(h host.Capability, region Region, sched Scheduler, opts ...Option) *View {
	v := &View{
		host:   h,
		region: region,
		sched:  sched,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Label formats the control label for a window.
func Label(w host.WindowInfo) string {
	return w.ApplicationName + " - " + w.Title
}

// Render builds the controls for a snapshot. The result is complete or, for
// an empty snapshot, empty; it is never merged with earlier output.
func Render(windows []host.WindowInfo) []Control {
	controls := make([]Control, 0, len(windows))
	for _, w := range windows {
		controls = append(controls, Control{
			Label:           Label(w),
			Handle:          w.Handle,
			ApplicationName: w.ApplicationName,
		})
	}
	return controls
}

// post runs fn on the scheduler and closes done afterwards. When the scheduler
// drops fn, done is closed right away so waiters are not stranded.
func (v *View) post(done chan struct{}, fn func()) {
	if !v.sched.Post(func() {
		defer close(done)
		fn()
	}) {
		close(done)
	}
}

// LoadWindowList fetches the window list and replaces the region content on
// success. On failure the region is left as it was and the error is logged.
// The returned channel closes once the completion has run on the event loop,
// or without running it if the loop is gone.
func (v *View) LoadWindowList() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		windows, err := v.host.ListOpenWindows(context.Background())
		v.post(done, func() {
			if err != nil {
				v.log.Error().Err(err).
					Str("kind", KindFetchFailure).
					Msg("failed to list open windows")
				return
			}
			v.region.Replace(Render(windows))
		})
	}()
	return done
}

// RequestActivation asks the host to activate handle. A false result and a
// failed call are logged with different messages; neither touches the region.
// The returned channel closes as for LoadWindowList.
func (v *View) RequestActivation(handle host.Handle) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		ok, err := v.host.ActivateWindow(context.Background(), handle)
		v.post(done, func() {
			switch {
			case err != nil:
				v.log.Error().Err(err).
					Str("kind", KindActivationFailure).
					Stringer("handle", handle).
					Msg("error activating window")
			case !ok:
				v.log.Warn().
					Str("kind", KindActivationRejected).
					Stringer("handle", handle).
					Msg("failed to activate window")
			}
			if v.onActivated != nil {
				v.onActivated(handle, ok && err == nil, err)
			}
		})
	}()
	return done
}

// Activate is the click path for a rendered control.
func (v *View) Activate(c Control) <-chan struct{} {
	return v.RequestActivation(c.Handle)
}
