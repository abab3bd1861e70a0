package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winpick/internal/host"
	"github.com/1broseidon/winpick/internal/runtimepath"
)

// ErrDaemonUnavailable means nothing is listening on the daemon socket.
var ErrDaemonUnavailable = errors.New("winpick daemon is not running")

// DaemonError is an ERROR response from the daemon.
type DaemonError struct {
	Message string
}

func (e *DaemonError) Error() string {
	return "daemon error: " + e.Message
}

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

var _ host.Capability = (*Client)(nil)

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithPath(socketPath)
}

// NewClientWithPath creates a client for an explicit socket path.
func NewClientWithPath(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// SocketPath returns the socket the client dials.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(ctx context.Context, req *Request) (*Response, error) {
	if c.socketPath == "" {
		return nil, ErrDaemonUnavailable
	}

	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetDeadline(deadline)

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, &DaemonError{Message: resp.Error}
	}

	return &resp, nil
}

// ListOpenWindows implements host.Capability.
func (c *Client) ListOpenWindows(ctx context.Context) ([]host.WindowInfo, error) {
	resp, err := c.sendRequest(ctx, &Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	if data.Windows == nil {
		data.Windows = []host.WindowInfo{}
	}
	return data.Windows, nil
}

// ActivateWindow implements host.Capability.
func (c *Client) ActivateWindow(ctx context.Context, handle host.Handle) (bool, error) {
	payload, err := json.Marshal(ActivatePayload{Handle: handle})
	if err != nil {
		return false, fmt.Errorf("failed to marshal activate payload: %w", err)
	}

	resp, err := c.sendRequest(ctx, &Request{
		Command: CommandActivateWindow,
		Payload: payload,
	})
	if err != nil {
		return false, err
	}

	var data ActivateData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return false, fmt.Errorf("failed to parse activate data: %w", err)
	}
	return data.Activated, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload(ctx context.Context) error {
	_, err := c.sendRequest(ctx, &Request{Command: CommandReload})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus(ctx context.Context) (*StatusData, error) {
	resp, err := c.sendRequest(ctx, &Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.GetStatus(ctx)
	return err
}
