package dbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/1broseidon/winpick/internal/host"
)

// Client calls the host service over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

var _ host.Capability = (*Client)(nil)

// Dial connects to the session bus.
func Dial() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(ServiceName, ObjectPath),
	}, nil
}

// ListOpenWindows implements host.Capability.
func (c *Client) ListOpenWindows(ctx context.Context) ([]host.WindowInfo, error) {
	var raw string
	if err := c.obj.CallWithContext(ctx, Interface+".ListOpenWindows", 0).Store(&raw); err != nil {
		return nil, fmt.Errorf("ListOpenWindows: %w", err)
	}
	return decodeWindows(raw)
}

// ActivateWindow implements host.Capability.
func (c *Client) ActivateWindow(ctx context.Context, handle host.Handle) (bool, error) {
	var ok bool
	if err := c.obj.CallWithContext(ctx, Interface+".ActivateWindow", 0, uint64(handle)).Store(&ok); err != nil {
		return false, fmt.Errorf("ActivateWindow: %w", err)
	}
	return ok, nil
}

// Close releases the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func decodeWindows(raw string) ([]host.WindowInfo, error) {
	windows := []host.WindowInfo{}
	if err := json.Unmarshal([]byte(raw), &windows); err != nil {
		return nil, fmt.Errorf("failed to parse window list: %w", err)
	}
	if windows == nil {
		windows = []host.WindowInfo{}
	}
	return windows, nil
}
