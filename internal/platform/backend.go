package platform

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrUnsupported is returned by backends on platforms without window enumeration.
var ErrUnsupported = errors.New("window enumeration is not supported on this platform")

// WindowID is a platform-neutral window identifier (X11 window or Win32 HWND).
type WindowID uint64

// Window contains the metadata of a top-level window that would appear in a taskbar.
type Window struct {
	ID      WindowID
	PID     int
	AppName string
	Title   string
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	// ListWindows returns the taskbar windows, sorted by SortWindows.
	ListWindows() ([]Window, error)
	// Activate restores and focuses a window. It returns false without an
	// error when the window no longer exists or did not take focus.
	Activate(windowID WindowID) (bool, error)
	ActiveWindow() (WindowID, error)
	Disconnect()
}

// Options tune enumeration and activation.
type Options struct {
	CurrentDesktopOnly bool
	ExcludeClasses     []string
	// ConfirmDelay is how long Activate waits before checking that focus
	// moved. Zero skips the check.
	ConfirmDelay time.Duration
	// Retry repeats the activation request once when the check fails.
	Retry bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		ConfirmDelay: 100 * time.Millisecond,
		Retry:        true,
	}
}

// Reconfigurable backends accept new options after they were opened.
type Reconfigurable interface {
	SetOptions(opts Options)
}

// New opens the backend for the current platform.
func New(opts Options) (Backend, error) {
	return newBackend(opts)
}

// SortWindows orders windows by application name, title and ID so that
// repeated listings are stable.
func SortWindows(windows []Window) {
	sort.SliceStable(windows, func(i, j int) bool {
		a, b := windows[i], windows[j]
		if an, bn := strings.ToLower(a.AppName), strings.ToLower(b.AppName); an != bn {
			return an < bn
		}
		if at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title); at != bt {
			return at < bt
		}
		return a.ID < b.ID
	})
}

// FilterExcluded drops windows whose application name matches one of the
// excluded classes (case-insensitive).
func FilterExcluded(windows []Window, classes []string) []Window {
	if len(classes) == 0 {
		return windows
	}
	excluded := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			excluded[c] = struct{}{}
		}
	}

	out := windows[:0]
	for _, w := range windows {
		if _, skip := excluded[strings.ToLower(w.AppName)]; skip {
			continue
		}
		out = append(out, w)
	}
	return out
}
