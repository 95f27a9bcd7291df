package ipc

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/goccy/go-json"

	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/runtimepath"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

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

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with an optional payload and decodes the reply into out
// when out is non-nil.
func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	return c.call(CommandPing, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*daemon.Status, error) {
	var status daemon.Status
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves the bars the daemon is running.
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var data MonitorsData
	if err := c.call(CommandGetMonitors, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetState returns the projected and composed view of one bar.
func (c *Client) GetState(monitor int) (*daemon.Snapshot, error) {
	var snap daemon.Snapshot
	if err := c.call(CommandGetState, MonitorPayload{Monitor: monitor}, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetItems returns the unprojected item buckets.
func (c *Client) GetItems() (weg.Buckets, error) {
	var b weg.Buckets
	err := c.call(CommandGetItems, nil, &b)
	return b, err
}

// GetMenu returns the context menu labelled in language.
func (c *Client) GetMenu(language string) (weg.MenuSpec, error) {
	var menu weg.MenuSpec
	err := c.call(CommandGetMenu, MenuPayload{Language: language}, &menu)
	return menu, err
}

// Reorder commits a drag sequence on monitor.
func (c *Client) Reorder(monitor int, items []string) (*ReorderData, error) {
	var data ReorderData
	if err := c.call(CommandReorder, ReorderPayload{Monitor: monitor, Items: items}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) SetFocus(monitor int, focused bool) error {
	return c.call(CommandSetFocus, FocusPayload{Monitor: monitor, Focused: focused}, nil)
}

func (c *Client) ViewChanged(monitor int, itemID string, open bool) error {
	return c.call(CommandViewChanged, ViewChangedPayload{Monitor: monitor, ItemID: itemID, Open: open}, nil)
}

// SetHideMode changes and persists the hide mode.
func (c *Client) SetHideMode(mode string) error {
	return c.call(CommandSetHideMode, HideModePayload{HideMode: mode}, nil)
}

// MenuAction applies a context menu action such as "hide-mode:never".
func (c *Client) MenuAction(action string) error {
	return c.call(CommandMenuAction, MenuActionPayload{Action: action}, nil)
}

// Activate launches, focuses or minimizes an item as if it were clicked on monitor.
func (c *Client) Activate(monitor int, itemID string) error {
	return c.call(CommandActivateItem, ItemPayload{Monitor: monitor, ItemID: itemID}, nil)
}

func (c *Client) Pin(itemID string) error {
	return c.call(CommandPin, ItemPayload{ItemID: itemID}, nil)
}

func (c *Client) Unpin(itemID string) error {
	return c.call(CommandUnpin, ItemPayload{ItemID: itemID}, nil)
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}
