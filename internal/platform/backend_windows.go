//go:build windows

package platform

import (
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procIsWindow            = user32.NewProc("IsWindow")
	procIsIconic            = user32.NewProc("IsIconic")
	procGetWindow           = user32.NewProc("GetWindow")
	procGetWindowLongW      = user32.NewProc("GetWindowLongW")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procShowWindow          = user32.NewProc("ShowWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	enumWindowsCallback     = windows.NewCallback(enumWindowsProc)
)

var (
	enumMu        sync.Mutex
	enumCollected []windows.HWND
)

const (
	gwOwner   = 4
	gwlStyle  = -16
	wsCaption = 0x00C00000
	swRestore = 9
	swShow    = 5
)

// WindowsBackend enumerates and activates top-level windows through user32.
type WindowsBackend struct {
	opts Options
}

var _ Backend = (*WindowsBackend)(nil)

func newBackend(opts Options) (Backend, error) {
	return &WindowsBackend{opts: opts}, nil
}

func enumWindowsProc(hwnd windows.HWND, _ uintptr) uintptr {
	enumCollected = append(enumCollected, hwnd)
	return 1
}

// ListWindows returns visible, unowned windows with a caption and a title.
func (b *WindowsBackend) ListWindows() ([]Window, error) {
	enumMu.Lock()
	enumCollected = enumCollected[:0]
	err := windows.EnumWindows(enumWindowsCallback, nil)
	handles := append([]windows.HWND(nil), enumCollected...)
	enumMu.Unlock()
	if err != nil {
		return nil, err
	}

	result := make([]Window, 0, len(handles))
	for _, hwnd := range handles {
		if !isTaskbarWindow(hwnd) {
			continue
		}
		title := windowText(hwnd)
		if title == "" {
			continue
		}
		var pid uint32
		_, _ = windows.GetWindowThreadProcessId(hwnd, &pid)
		result = append(result, Window{
			ID:      WindowID(hwnd),
			PID:     int(pid),
			AppName: executableStem(pid),
			Title:   title,
		})
	}

	result = FilterExcluded(result, b.opts.ExcludeClasses)
	SortWindows(result)
	return result, nil
}

// Activate restores a minimized window and brings it to the foreground,
// retrying once after the confirm delay.
func (b *WindowsBackend) Activate(windowID WindowID) (bool, error) {
	hwnd := uintptr(windowID)
	if ok, _, _ := procIsWindow.Call(hwnd); ok == 0 {
		return false, nil
	}

	if iconic, _, _ := procIsIconic.Call(hwnd); iconic != 0 {
		procShowWindow.Call(hwnd, swRestore)
	} else {
		procShowWindow.Call(hwnd, swShow)
	}

	if r, _, _ := procSetForegroundWindow.Call(hwnd); r != 0 {
		return true, nil
	}
	if !b.opts.Retry {
		return false, nil
	}
	time.Sleep(b.opts.ConfirmDelay)
	r, _, _ := procSetForegroundWindow.Call(hwnd)
	return r != 0, nil
}

// ActiveWindow returns the foreground window.
func (b *WindowsBackend) ActiveWindow() (WindowID, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return WindowID(hwnd), nil
}

// SetOptions replaces the enumeration and activation options.
func (b *WindowsBackend) SetOptions(opts Options) {
	b.opts = opts
}

// Disconnect is a no-op; user32 needs no connection.
func (b *WindowsBackend) Disconnect() {}

func isTaskbarWindow(hwnd windows.HWND) bool {
	if visible, _, _ := procIsWindowVisible.Call(uintptr(hwnd)); visible == 0 {
		return false
	}
	if owner, _, _ := procGetWindow.Call(uintptr(hwnd), gwOwner); owner != 0 {
		return false
	}
	index := int32(gwlStyle)
	style, _, _ := procGetWindowLongW.Call(uintptr(hwnd), uintptr(index))
	return uint32(style)&wsCaption != 0
}

func windowText(hwnd windows.HWND) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return strings.TrimSpace(windows.UTF16ToString(buf[:n]))
}

func executableStem(pid uint32) string {
	if pid == 0 {
		return ""
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	name := filepath.Base(windows.UTF16ToString(buf[:size]))
	return strings.TrimSuffix(name, filepath.Ext(name))
}
