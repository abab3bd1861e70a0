package host

import (
	"context"
	"sync"

	"github.com/1broseidon/winpick/internal/platform"
)

// Local serves the capability in-process from a platform backend.
type Local struct {
	mu      sync.Mutex
	backend platform.Backend
}

var _ Capability = (*Local)(nil)

// NewLocal wraps backend. Calls are serialized because the X11 connection's
// property helpers are not safe for concurrent use.
func NewLocal(backend platform.Backend) *Local {
	return &Local{backend: backend}
}

// ListOpenWindows implements Capability.
func (l *Local) ListOpenWindows(ctx context.Context) ([]WindowInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	windows, err := l.backend.ListWindows()
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	infos := make([]WindowInfo, 0, len(windows))
	for _, w := range windows {
		infos = append(infos, FromPlatform(w))
	}
	return infos, nil
}

// ActivateWindow implements Capability.
func (l *Local) ActivateWindow(ctx context.Context, handle Handle) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.backend.Activate(platform.WindowID(handle))
}

// ActiveWindow reports the focused window, if the backend knows one.
func (l *Local) ActiveWindow() (Handle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, err := l.backend.ActiveWindow()
	if err != nil || id == 0 {
		return 0, false
	}
	return Handle(id), true
}

// Reconfigure applies new backend options when the backend supports it.
func (l *Local) Reconfigure(opts platform.Options) bool {
	r, ok := l.backend.(platform.Reconfigurable)
	if !ok {
		return false
	}
	l.mu.Lock()
	r.SetOptions(opts)
	l.mu.Unlock()
	return true
}

// Close releases the backend.
func (l *Local) Close() {
	l.backend.Disconnect()
}

// FromPlatform converts backend window metadata to the wire shape.
func FromPlatform(w platform.Window) WindowInfo {
	return WindowInfo{
		Handle:          Handle(w.ID),
		ApplicationName: w.AppName,
		Title:           w.Title,
	}
}
