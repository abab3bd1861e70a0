package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/config"
	"github.com/1broseidon/winpick/internal/host"
	"github.com/1broseidon/winpick/internal/runtimepath"
)

// ReloadFunc reloads the configuration and returns the new one.
type ReloadFunc func() (*config.Config, error)

// ServerOptions configures a Server.
type ServerOptions struct {
	// SocketPath overrides the runtime socket path.
	SocketPath string
	Config     *config.Config
	ConfigPath string
	Reload     ReloadFunc
	Logger     zerolog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	host         host.Capability
	cfg          *config.Config
	cfgPath      string
	cfgMu        sync.RWMutex
	reload       ReloadFunc
	log          zerolog.Logger
	startTime    time.Time
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        map[net.Conn]struct{}
}

// connTimeout bounds one request/response exchange, matching the client.
const connTimeout = 5 * time.Second

// NewServer creates a new IPC server
func NewServer(h host.Capability, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		socketPath: socketPath,
		host:       h,
		cfg:        cfg,
		cfgPath:    opts.ConfigPath,
		reload:     opts.Reload,
		log:        opts.Logger.With().Str("component", "ipc").Logger(),
		startTime:  time.Now(),
		ctx:        ctx,
		cancel:     cancel,
		conns:      make(map[net.Conn]struct{}),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info().Str("socket", s.socketPath).Msg("IPC server listening")

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.Warn().Err(err).Msg("IPC accept error")
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConnection(conn)
		}()
	}
}

// track registers an accepted connection so Stop can close it. It reports
// false once the server is shutting down.
func (s *Server) track(conn net.Conn) bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	if s.shuttingDown {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.shutdownMu.Lock()
	delete(s.conns, conn)
	s.shutdownMu.Unlock()
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(connTimeout)); err != nil {
		s.log.Warn().Err(err).Msg("failed to set IPC deadline")
		return
	}

	reader := bufio.NewReader(conn)

	// One JSON request per line
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Warn().Err(err).Msg("IPC read error")
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal response")
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Warn().Err(err).Msg("failed to send response")
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.log.Debug().Str("command", string(req.Command)).Msg("IPC request")

	switch req.Command {
	case CommandListWindows:
		return s.handleListWindows()
	case CommandActivateWindow:
		return s.handleActivateWindow(req.Payload)
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleListWindows() *Response {
	windows, err := s.host.ListOpenWindows(s.ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}
	if windows == nil {
		windows = []host.WindowInfo{}
	}

	resp, err := NewOKResponse(WindowsData{Windows: windows})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleActivateWindow(payload json.RawMessage) *Response {
	if len(payload) == 0 {
		return NewErrorResponse("hwnd is required")
	}

	var req ActivatePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid activate payload: %v", err))
	}

	ok, err := s.host.ActivateWindow(s.ctx, req.Handle)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to activate window: %v", err))
	}
	s.log.Debug().Stringer("handle", req.Handle).Bool("activated", ok).Msg("IPC activate")

	resp, _ := NewOKResponse(ActivateData{Activated: ok})
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	cfg := s.GetConfig()

	count := 0
	if windows, err := s.host.ListOpenWindows(s.ctx); err == nil {
		count = len(windows)
	}

	status := StatusData{
		DaemonRunning: true,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		WindowCount:   count,
		DBusEnabled:   cfg.DBus.Enabled,
		PickerHotkey:  cfg.PickerHotkey,
		ConfigPath:    s.cfgPath,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	s.log.Info().Msg("received RELOAD command")

	if s.reload == nil {
		return NewErrorResponse("reload is not supported by this server")
	}

	newCfg, err := s.reload()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	s.UpdateConfig(newCfg)

	s.log.Info().Msg("config reloaded")

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	for conn := range s.conns {
		conn.Close()
	}
	s.shutdownMu.Unlock()

	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
