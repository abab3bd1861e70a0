// Package host defines the capability surface the window picker consumes:
// enumerate open windows and ask for one of them to be activated.
package host

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Handle is an opaque window identifier. Only the host interprets it.
type Handle uint64

// String renders the handle in hex, the way window ids are usually shown.
func (h Handle) String() string {
	return fmt.Sprintf("0x%x", uint64(h))
}

// ParseHandle accepts decimal or 0x-prefixed hex handles.
func ParseHandle(s string) (Handle, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q: %w", s, err)
	}
	return Handle(v), nil
}

// WindowInfo describes one open window. The JSON names match the wire format
// shared by the IPC, D-Bus and MCP transports.
type WindowInfo struct {
	Handle          Handle `json:"hwnd"`
	ApplicationName string `json:"application_name"`
	Title           string `json:"title"`
}

// Capability is the host side of the picker.
type Capability interface {
	// ListOpenWindows returns a complete snapshot of the open windows.
	ListOpenWindows(ctx context.Context) ([]WindowInfo, error)
	// ActivateWindow reports whether the window was brought to focus. A
	// stale handle yields false, not an error.
	ActivateWindow(ctx context.Context, handle Handle) (bool, error)
}
