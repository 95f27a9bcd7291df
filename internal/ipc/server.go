package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/i18n"
	"github.com/luriusTM/Seelen-UI/internal/runtimepath"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// Service is the daemon surface exposed over IPC.
type Service interface {
	Status(ctx context.Context) (daemon.Status, error)
	Monitors(ctx context.Context) ([]daemon.Monitor, error)
	State(ctx context.Context, monitor int) (daemon.Snapshot, error)
	ItemBuckets(ctx context.Context) (weg.Buckets, error)
	Menu(ctx context.Context, t weg.Translate) (weg.MenuSpec, error)
	Reorder(ctx context.Context, monitor int, keys []string) (weg.Buckets, weg.Report, error)
	SetFocus(ctx context.Context, monitor int, focused bool) error
	ViewChanged(ctx context.Context, monitor int, itemID string, open bool) error
	SetHideMode(ctx context.Context, mode weg.HideMode) error
	MenuAction(ctx context.Context, action string) error
	Activate(ctx context.Context, monitor int, itemID string) error
	Pin(ctx context.Context, itemID string) error
	Unpin(ctx context.Context, itemID string) error
	Reload(ctx context.Context) error
}

var _ Service = (*daemon.Service)(nil)

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithSocketPath overrides the runtime socket location.
func WithSocketPath(path string) ServerOption {
	return func(s *Server) { s.socketPath = path }
}

func WithServerLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithLanguage sets the language used when a GET_MENU request names none.
func WithLanguage(lang string) ServerOption {
	return func(s *Server) { s.language = lang }
}

// Server handles IPC requests from clients
type Server struct {
	socketPath     string
	listener       net.Listener
	svc            Service
	language       string
	logger         *slog.Logger
	requestTimeout time.Duration

	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup
}

// NewServer creates a new IPC server
func NewServer(svc Service, opts ...ServerOption) (*Server, error) {
	s := &Server{
		svc:            svc,
		logger:         slog.Default(),
		requestTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.socketPath == "" {
		socketPath, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		s.socketPath = socketPath
	}
	return s, nil
}

// SocketPath returns the socket the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// A socket that still accepts connections belongs to a running daemon.
	if conn, err := net.DialTimeout("unix", s.socketPath, 200*time.Millisecond); err == nil {
		conn.Close()
		return fmt.Errorf("another weg daemon is listening on %s", s.socketPath)
	}
	// Remove existing socket if present
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			shuttingDown := s.shuttingDown
			s.shutdownMu.Unlock()
			if shuttingDown || errors.Is(err, net.ErrClosed) {
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

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.requestTimeout + time.Second))

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "command", req.Command, "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "command", req.Command, "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandPing, CommandGetStatus:
		return respond(s.svc.Status(ctx))
	case CommandGetMonitors:
		monitors, err := s.svc.Monitors(ctx)
		return respond(MonitorsData{Monitors: monitors}, err)
	case CommandGetState:
		var p MonitorPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respond(s.svc.State(ctx, p.Monitor))
	case CommandGetItems:
		return respond(s.svc.ItemBuckets(ctx))
	case CommandGetMenu:
		var p MenuPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		lang := p.Language
		if lang == "" {
			lang = s.language
		}
		return respond(s.svc.Menu(ctx, i18n.Translator(lang)))
	case CommandReorder:
		var p ReorderPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		items, report, err := s.svc.Reorder(ctx, p.Monitor, p.Items)
		return respond(ReorderData{Items: items, Report: report}, err)
	case CommandSetFocus:
		var p FocusPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respondErr(s.svc.SetFocus(ctx, p.Monitor, p.Focused))
	case CommandViewChanged:
		var p ViewChangedPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respondErr(s.svc.ViewChanged(ctx, p.Monitor, p.ItemID, p.Open))
	case CommandSetHideMode:
		var p HideModePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		mode, err := weg.ParseHideMode(p.HideMode)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return respondErr(s.svc.SetHideMode(ctx, mode))
	case CommandMenuAction:
		var p MenuActionPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respondErr(s.svc.MenuAction(ctx, p.Action))
	case CommandActivateItem:
		var p ItemPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return respondErr(s.svc.Activate(ctx, p.Monitor, p.ItemID))
	case CommandPin, CommandUnpin:
		var p ItemPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.ItemID == "" {
			return NewErrorResponse("item_id is required")
		}
		if req.Command == CommandPin {
			return respondErr(s.svc.Pin(ctx, p.ItemID))
		}
		return respondErr(s.svc.Unpin(ctx, p.ItemID))
	case CommandReload:
		s.logger.Info("IPC: received RELOAD command")
		return respondErr(s.svc.Reload(ctx))
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func respond[T any](data T, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func respondErr(err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
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
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
