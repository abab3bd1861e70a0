// Package x11 wraps the EWMH and ICCCM calls winpick needs to enumerate and
// activate top-level windows.
package x11

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// ErrNoDisplay is returned when neither an explicit display nor $DISPLAY is set.
var ErrNoDisplay = errors.New("no X display (DISPLAY is not set)")

// Connection is a session's X server connection and its root window.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	display string
}

// NewConnection connects to $DISPLAY.
func NewConnection() (*Connection, error) {
	return Dial("")
}

// Dial connects to display, or $DISPLAY when display is empty. The keyboard
// mapping is loaded up front so a picker hotkey can be grabbed later.
func Dial(display string) (*Connection, error) {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	if display == "" {
		return nil, ErrNoDisplay
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to open display %s: %w", display, err)
	}
	keybind.Initialize(xu)

	return &Connection{
		XUtil:   xu,
		Root:    xu.RootWin(),
		display: display,
	}, nil
}

// Display is the display name this connection was opened on.
func (c *Connection) Display() string { return c.display }

// EventLoop dispatches X events, hotkey presses included, until Quit.
func (c *Connection) EventLoop() { xevent.Main(c.XUtil) }

func (c *Connection) Quit() { xevent.Quit(c.XUtil) }

func (c *Connection) Close() { c.XUtil.Conn().Close() }
