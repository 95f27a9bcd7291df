package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/ipc"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

const (
	ServerName    = "seelenweg"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools use.
type Daemon interface {
	GetStatus() (*daemon.Status, error)
	GetMonitors() (*ipc.MonitorsData, error)
	GetState(monitor int) (*daemon.Snapshot, error)
	GetItems() (weg.Buckets, error)
	GetMenu(language string) (weg.MenuSpec, error)
	Reorder(monitor int, items []string) (*ipc.ReorderData, error)
	SetHideMode(mode string) error
	MenuAction(action string) error
	Activate(monitor int, itemID string) error
	Pin(itemID string) error
	Unpin(itemID string) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server exposes the running bar daemon as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	language  string
	logger    *slog.Logger
}

// NewServer creates a new MCP server that forwards tool calls to d.
func NewServer(d Daemon, language string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		daemon:   d,
		language: language,
		logger:   logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "weg_status",
		Description: "Show the bar daemon status: uptime, number of bars and items, current hide mode, and the monitors a bar is attached to.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "weg_list_items",
		Description: "List the bar items in their left, center and right buckets. Pass monitor to see what that monitor's bar actually shows after per-monitor filtering. The returned sequence can be edited and passed to weg_reorder.",
	}, s.handleListItems)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "weg_reorder",
		Description: "Commit a new item order for the bar, as if dragged on the given monitor. Use sep1 and sep2 to mark the bucket boundaries. Items hidden on that monitor keep their place; the order is saved to the pins file.",
	}, s.handleReorder)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "weg_set_hide_mode",
		Description: "Set when the bar hides: always, on-overlap (when a window covers it) or never. The setting is saved to the config file.",
	}, s.handleSetHideMode)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "weg_menu",
		Description: "Return the bar context menu with translated labels, checked states and the actions weg_menu_action accepts.",
	}, s.handleMenu)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "weg_menu_action",
		Description: "Apply a context menu action such as hide-mode:never, position:left, behaviour:minimal, toggle-separators, toggle-media, toggle-start or reload.",
	}, s.handleMenuAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "weg_activate",
		Description: "Click an item on a monitor's bar: launch it when it has no windows there, minimize it when its only window is active, or focus its next window.",
	}, s.handleActivate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "weg_pin",
		Description: "Pin a running application so it stays on the bar after its windows close.",
	}, s.handlePin)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "weg_unpin",
		Description: "Unpin an item. It stays on the bar while it has open windows and is removed otherwise.",
	}, s.handleUnpin)
}
