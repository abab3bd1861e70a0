package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/winpick/internal/host"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandActivateWindow CommandType = "ACTIVATE_WINDOW"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandReload         CommandType = "RELOAD"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WindowsData is returned by LIST_WINDOWS.
type WindowsData struct {
	Windows []host.WindowInfo `json:"windows"`
}

// ActivatePayload is the payload of ACTIVATE_WINDOW.
type ActivatePayload struct {
	Handle host.Handle `json:"hwnd"`
}

// ActivateData is returned by ACTIVATE_WINDOW.
type ActivateData struct {
	Activated bool `json:"activated"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool   `json:"daemon_running"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	WindowCount   int    `json:"window_count"`
	DBusEnabled   bool   `json:"dbus_enabled"`
	PickerHotkey  string `json:"picker_hotkey,omitempty"`
	ConfigPath    string `json:"config_path,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
