// Package dbus publishes the host capability on the session bus and provides
// a client for it.
package dbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/host"
)

const (
	ServiceName = "io.github.winpick"
	ObjectPath  = dbus.ObjectPath("/io/github/winpick/Host")
	Interface   = "io.github.winpick.Host"
)

// Server exports the host on the session bus.
type Server struct {
	conn *dbus.Conn
	obj  *hostObject
	log  zerolog.Logger
}

// hostObject carries the exported methods. godbus exports every method of the
// value, so it is kept separate from Server's lifecycle methods.
type hostObject struct {
	host host.Capability
	ctx  context.Context
	log  zerolog.Logger

	mu   sync.Mutex
	emit func(name string, values ...interface{}) error
}

// NewServer creates a D-Bus server for h.
func NewServer(h host.Capability, logger zerolog.Logger) *Server {
	log := logger.With().Str("component", "dbus").Logger()
	return &Server{
		obj: &hostObject{
			host: h,
			ctx:  context.Background(),
			log:  log,
		},
		log: log,
	}
}

// Start connects to the session bus, claims the service name and exports the
// host object.
func (s *Server) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	reply, err := conn.RequestName(ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return fmt.Errorf("name %s already taken", ServiceName)
	}

	if err := conn.Export(s.obj, ObjectPath, Interface); err != nil {
		conn.Close()
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: Interface,
				Methods: []introspect.Method{
					{
						Name: "ListOpenWindows",
						Args: []introspect.Arg{
							{Name: "windows_json", Type: "s", Direction: "out"},
						},
					},
					{
						Name: "ActivateWindow",
						Args: []introspect.Arg{
							{Name: "hwnd", Type: "t", Direction: "in"},
							{Name: "activated", Type: "b", Direction: "out"},
						},
					},
				},
				Signals: []introspect.Signal{
					{
						Name: "WindowActivated",
						Args: []introspect.Arg{
							{Name: "hwnd", Type: "t"},
						},
					},
				},
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	s.obj.mu.Lock()
	s.obj.emit = func(name string, values ...interface{}) error {
		return conn.Emit(ObjectPath, Interface+"."+name, values...)
	}
	s.obj.mu.Unlock()

	s.conn = conn
	s.log.Info().Str("service", ServiceName).Msg("D-Bus service started")
	return nil
}

// Stop releases the bus connection.
func (s *Server) Stop() {
	if s.conn == nil {
		return
	}
	s.obj.mu.Lock()
	s.obj.emit = nil
	s.obj.mu.Unlock()

	s.conn.Close()
	s.conn = nil
	s.log.Info().Msg("D-Bus service stopped")
}

// ListOpenWindows returns the window list as a JSON array (D-Bus method).
func (o *hostObject) ListOpenWindows() (string, *dbus.Error) {
	windows, err := o.host.ListOpenWindows(o.ctx)
	if err != nil {
		o.log.Warn().Err(err).Msg("ListOpenWindows failed")
		return "", dbus.MakeFailedError(err)
	}
	if windows == nil {
		windows = []host.WindowInfo{}
	}

	data, err := json.Marshal(windows)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(data), nil
}

// ActivateWindow activates hwnd (D-Bus method).
func (o *hostObject) ActivateWindow(hwnd uint64) (bool, *dbus.Error) {
	handle := host.Handle(hwnd)
	ok, err := o.host.ActivateWindow(o.ctx, handle)
	if err != nil {
		o.log.Warn().Err(err).Stringer("handle", handle).Msg("ActivateWindow failed")
		return false, dbus.MakeFailedError(err)
	}

	if ok {
		o.mu.Lock()
		emit := o.emit
		o.mu.Unlock()
		if emit != nil {
			if err := emit("WindowActivated", hwnd); err != nil {
				o.log.Debug().Err(err).Msg("failed to emit WindowActivated")
			}
		}
	}
	return ok, nil
}
