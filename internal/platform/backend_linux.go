//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/1broseidon/winpick/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
	opts Options
}

var _ Backend = (*LinuxBackend)(nil)

func newBackend(opts Options) (Backend, error) {
	return NewLinuxBackendFromDisplay(opts)
}

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, opts Options) *LinuxBackend {
	return &LinuxBackend{conn: conn, opts: opts}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(opts Options) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn, opts: opts}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// SetOptions replaces the enumeration and activation options. Callers
// serialize it with ListWindows and Activate.
func (b *LinuxBackend) SetOptions(opts Options) {
	b.opts = opts
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// QuitEventLoop makes a running EventLoop return.
func (b *LinuxBackend) QuitEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// ListWindows lists taskbar windows, optionally restricted to the current desktop.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}

	currentDesktop, desktopErr := conn.CurrentDesktop()
	filterDesktop := b.opts.CurrentDesktopOnly && desktopErr == nil

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if !conn.IsTaskbarWindow(windowID) {
			continue
		}

		if filterDesktop {
			desktop, err := conn.WindowDesktop(windowID)
			if err == nil && desktop != x11.AllDesktops && desktop != currentDesktop {
				continue
			}
		}

		title := conn.WindowTitle(windowID)
		if title == "" {
			continue
		}

		pid := conn.WindowPID(windowID)
		appName := conn.WindowClass(windowID)
		if appName == "" {
			appName = processName(pid)
		}

		windows = append(windows, Window{
			ID:      WindowID(windowID),
			PID:     pid,
			AppName: appName,
			Title:   title,
		})
	}

	windows = FilterExcluded(windows, b.opts.ExcludeClasses)
	SortWindows(windows)
	return windows, nil
}

// Activate switches to the window's desktop, restores it if iconified and asks
// the window manager to focus it.
func (b *LinuxBackend) Activate(windowID WindowID) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}

	clients, err := conn.ClientList()
	if err != nil {
		return false, err
	}
	win := xproto.Window(windowID)
	if !containsWindow(clients, win) {
		return false, nil
	}

	if desktop, err := conn.WindowDesktop(win); err == nil && desktop != x11.AllDesktops {
		if current, err := conn.CurrentDesktop(); err == nil && current != desktop {
			if err := conn.SwitchDesktop(desktop); err != nil {
				return false, fmt.Errorf("failed to switch to desktop %d: %w", desktop, err)
			}
		}
	}

	if conn.IsHidden(win) {
		// Most window managers also restore on _NET_ACTIVE_WINDOW; ignore failures here.
		_ = conn.Unhide(win)
	}

	if err := conn.RequestActivate(win); err != nil {
		return false, err
	}

	return b.confirmActive(conn, win)
}

func (b *LinuxBackend) confirmActive(conn *x11.Connection, win xproto.Window) (bool, error) {
	if b.opts.ConfirmDelay <= 0 {
		return true, nil
	}

	attempts := 1
	if b.opts.Retry {
		attempts = 2
	}

	for i := 0; i < attempts; i++ {
		time.Sleep(b.opts.ConfirmDelay)
		active, err := conn.GetActiveWindow()
		if err == nil && active == win {
			return true, nil
		}
		if i+1 < attempts {
			if err := conn.RequestActivate(win); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func containsWindow(windows []xproto.Window, win xproto.Window) bool {
	for _, w := range windows {
		if w == win {
			return true
		}
	}
	return false
}

// processName returns the executable base name of pid from /proc, or "".
func processName(pid int) string {
	if pid <= 0 {
		return ""
	}
	exe, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return ""
	}
	return filepath.Base(exe)
}
