package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/runtimepath"
	"github.com/1broseidon/tilewm/internal/wm"
)

const requestTimeout = 5 * time.Second

// Controller is the daemon surface the server drives.
type Controller interface {
	// Call runs work on the control loop and waits for it.
	Call(ctx context.Context, name string, work func(*wm.State) error) error
	Subscribe(types ...wm.EventType) (<-chan wm.Event, func())
	Reload(ctx context.Context) error
	Uptime() time.Duration
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	ctrl       Controller
	logger     *slog.Logger

	shutdownMu   sync.Mutex
	shuttingDown bool
	done         chan struct{}
	conns        sync.WaitGroup
}

// NewServer creates a server on the default socket path.
func NewServer(ctrl Controller, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, ctrl, logger), nil
}

// NewServerAt creates a server listening on socketPath. A stale socket at
// that path is removed.
func NewServerAt(socketPath string, ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

func (s *Server) SocketPath() string { return s.socketPath }

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

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves one request per connection. Subscriptions keep
// the connection open until either side closes it.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	if req.Command == CommandSubscribe {
		s.handleSubscribe(conn, reader, req.Payload)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	s.send(conn, s.handleCommand(ctx, req))
}

func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload(ctx)
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandGetTree:
		return s.query(ctx, "get tree", func(st *wm.State) any {
			return container.ToDTO(st.Root(), st.FocusedContainer())
		})
	case CommandGetMonitors:
		return s.query(ctx, "get monitors", func(st *wm.State) any {
			return snapshot(container.Monitors(st.Root()), st.FocusedContainer())
		})
	case CommandGetWorkspaces:
		return s.query(ctx, "get workspaces", func(st *wm.State) any {
			return snapshot(container.Workspaces(st.Root()), st.FocusedContainer())
		})
	case CommandGetWindows:
		return s.query(ctx, "get windows", func(st *wm.State) any {
			return snapshot(st.Windows(), st.FocusedContainer())
		})
	case CommandRunCommand:
		return s.handleRunCommand(ctx, req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func snapshot[C container.Container](cs []C, focused container.Container) []container.DTO {
	out := make([]container.DTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, container.ToDTO(c, focused))
	}
	return out
}

// query builds response data on the control loop, where the state may be
// read safely.
func (s *Server) query(ctx context.Context, name string, build func(*wm.State) any) *Response {
	var data any
	err := s.ctrl.Call(ctx, name, func(st *wm.State) error {
		data = build(st)
		return nil
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to %s: %v", name, err))
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	uptime := int64(s.ctrl.Uptime().Seconds())
	return s.query(ctx, "get status", func(st *wm.State) any {
		status := StatusData{
			DaemonRunning:  true,
			Paused:         st.IsPaused(),
			UptimeSeconds:  uptime,
			MonitorCount:   len(container.Monitors(st.Root())),
			WorkspaceCount: len(container.Workspaces(st.Root())),
			WindowCount:    len(st.Windows()),
		}
		if focused := st.FocusedContainer(); focused != nil {
			status.FocusedID = focused.ID().String()
		}
		return status
	})
}

func (s *Server) handleReload(ctx context.Context) *Response {
	s.logger.Info("IPC: received RELOAD")
	if err := s.ctrl.Reload(ctx); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// SplitCommands splits a ";" separated command list, dropping empty parts.
func SplitCommands(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *Server) handleRunCommand(ctx context.Context, payload json.RawMessage) *Response {
	var req RunCommandPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid run command payload: %v", err))
	}
	commands := SplitCommands(req.Command)
	if len(commands) == 0 {
		return NewErrorResponse("command is required")
	}

	s.logger.Debug("IPC: running command", "command", req.Command)
	err := s.ctrl.Call(ctx, "run command", func(st *wm.State) error {
		return st.RunCommandString(commands...)
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to run command: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// ParseEventTypes resolves subscription names. An empty list or "all"
// means every event type.
func ParseEventTypes(names []string) ([]wm.EventType, error) {
	var types []wm.EventType
	for _, name := range names {
		if name == "all" {
			return nil, nil
		}
		t, ok := wm.ParseEventType(name)
		if !ok {
			return nil, fmt.Errorf("unknown event %q", name)
		}
		types = append(types, t)
	}
	return types, nil
}

func (s *Server) handleSubscribe(conn net.Conn, reader *bufio.Reader, payload json.RawMessage) {
	var req SubscribePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid subscribe payload: %v", err)))
			return
		}
	}
	types, err := ParseEventTypes(req.Events)
	if err != nil {
		s.send(conn, NewErrorResponse(err.Error()))
		return
	}

	events, unsubscribe := s.ctrl.Subscribe(types...)
	defer unsubscribe()

	// The client never sends after subscribing; a read returning means it
	// hung up.
	gone := make(chan struct{})
	go func() {
		io.Copy(io.Discard, reader)
		close(gone)
	}()

	for {
		select {
		case <-gone:
			return
		case <-s.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			resp, err := NewOKResponse(ev)
			if err != nil {
				s.logger.Warn("IPC: failed to encode event", "type", ev.Type, "error", err)
				continue
			}
			if !s.send(conn, resp) {
				return
			}
		}
	}
}

func (s *Server) send(conn net.Conn, resp *Response) bool {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("IPC: failed to marshal response", "error", err)
		return false
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Debug("IPC: failed to send response", "error", err)
		return false
	}
	return true
}

// Stop closes the listener, ends subscriptions and waits for open
// connections to finish.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	close(s.done)
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
