package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// sourceIndication marks requests as coming from a pager, which most window
// managers honour without focus-stealing prevention.
const sourceIndication = 2

// RequestActivate asks the window manager to activate and raise a window via
// _NET_ACTIVE_WINDOW. The message is built by hand because the xgbutil ewmh
// request helpers panic on this library version.
func (c *Connection) RequestActivate(windowID xproto.Window) error {
	active, _ := c.GetActiveWindow()
	return c.sendRootMessage("_NET_ACTIVE_WINDOW", windowID,
		sourceIndication, uint32(xproto.TimeCurrentTime), uint32(active))
}

// SwitchDesktop makes desktop the current virtual desktop.
func (c *Connection) SwitchDesktop(desktop uint) error {
	return c.sendRootMessage("_NET_CURRENT_DESKTOP", c.Root,
		uint32(desktop), uint32(xproto.TimeCurrentTime))
}

// Unhide clears _NET_WM_STATE_HIDDEN so an iconified window is mapped again.
func (c *Connection) Unhide(windowID xproto.Window) error {
	return ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, "_NET_WM_STATE_HIDDEN")
}

func (c *Connection) sendRootMessage(atomName string, windowID xproto.Window, data ...uint32) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len(atomName)), atomName).Reply()
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", atomName, err)
	}

	payload := make([]uint32, 5)
	copy(payload, data)

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
