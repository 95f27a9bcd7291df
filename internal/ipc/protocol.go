package ipc

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing         CommandType = "PING"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetMonitors  CommandType = "GET_MONITORS"
	CommandGetState     CommandType = "GET_STATE"
	CommandGetItems     CommandType = "GET_ITEMS"
	CommandGetMenu      CommandType = "GET_MENU"
	CommandReorder      CommandType = "REORDER"
	CommandSetFocus     CommandType = "SET_FOCUS"
	CommandViewChanged  CommandType = "VIEW_CHANGED"
	CommandSetHideMode  CommandType = "SET_HIDE_MODE"
	CommandMenuAction   CommandType = "MENU_ACTION"
	CommandActivateItem CommandType = "ACTIVATE_ITEM"
	CommandPin          CommandType = "PIN"
	CommandUnpin        CommandType = "UNPIN"
	CommandReload       CommandType = "RELOAD"
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

// MonitorPayload selects a bar.
type MonitorPayload struct {
	Monitor int `json:"monitor"`
}

type MenuPayload struct {
	Language string `json:"language,omitempty"`
}

// ReorderPayload carries a drag sequence. Items are item ids with "sep1"
// and "sep2" marking the bucket boundaries.
type ReorderPayload struct {
	Monitor int      `json:"monitor"`
	Items   []string `json:"items"`
}

type ReorderData struct {
	Items  weg.Buckets `json:"items"`
	Report weg.Report  `json:"report"`
}

type FocusPayload struct {
	Monitor int  `json:"monitor"`
	Focused bool `json:"focused"`
}

type ViewChangedPayload struct {
	Monitor int    `json:"monitor"`
	ItemID  string `json:"item_id"`
	Open    bool   `json:"open"`
}

type HideModePayload struct {
	HideMode string `json:"hide_mode"`
}

type MenuActionPayload struct {
	Action string `json:"action"`
}

// ItemPayload names an item, optionally on a specific bar.
type ItemPayload struct {
	Monitor int    `json:"monitor,omitempty"`
	ItemID  string `json:"item_id"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []daemon.Monitor `json:"monitors"`
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
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
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

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
