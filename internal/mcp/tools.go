package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	monitors, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{Status: *status, Monitors: monitors.Monitors}, nil
}

func (s *Server) handleListItems(_ context.Context, _ *mcpsdk.CallToolRequest, args ListItemsInput) (*mcpsdk.CallToolResult, ListItemsOutput, error) {
	var b weg.Buckets
	if args.Monitor != nil {
		snap, err := s.daemon.GetState(*args.Monitor)
		if err != nil {
			return nil, ListItemsOutput{}, err
		}
		b = snap.Items
	} else {
		items, err := s.daemon.GetItems()
		if err != nil {
			return nil, ListItemsOutput{}, err
		}
		b = items
	}
	out := listItems(b)
	out.Monitor = args.Monitor
	return nil, out, nil
}

func listItems(b weg.Buckets) ListItemsOutput {
	keysOf := func(items []weg.Item) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Key())
		}
		return out
	}
	items := b.Items()
	if items == nil {
		items = []weg.Item{}
	}
	return ListItemsOutput{
		Left:     keysOf(b.Left),
		Center:   keysOf(b.Center),
		Right:    keysOf(b.Right),
		Sequence: weg.FlatKeys(b),
		Items:    items,
	}
}

func (s *Server) handleReorder(_ context.Context, _ *mcpsdk.CallToolRequest, args ReorderInput) (*mcpsdk.CallToolResult, ReorderOutput, error) {
	if len(args.Items) == 0 {
		return nil, ReorderOutput{}, fmt.Errorf("items must not be empty")
	}
	data, err := s.daemon.Reorder(args.Monitor, args.Items)
	if err != nil {
		return nil, ReorderOutput{}, err
	}
	s.logger.Info("MCP reorder", "monitor", args.Monitor, "items", len(args.Items), "clean", data.Report.Clean())
	return nil, ReorderOutput{
		Sequence: weg.FlatKeys(data.Items),
		Report:   data.Report,
		Clean:    data.Report.Clean(),
	}, nil
}

func (s *Server) handleSetHideMode(_ context.Context, _ *mcpsdk.CallToolRequest, args SetHideModeInput) (*mcpsdk.CallToolResult, SetHideModeOutput, error) {
	mode, err := weg.ParseHideMode(args.HideMode)
	if err != nil {
		return nil, SetHideModeOutput{}, err
	}
	if err := s.daemon.SetHideMode(string(mode)); err != nil {
		return nil, SetHideModeOutput{}, err
	}
	return nil, SetHideModeOutput{HideMode: mode}, nil
}

func (s *Server) handleMenu(_ context.Context, _ *mcpsdk.CallToolRequest, args MenuInput) (*mcpsdk.CallToolResult, MenuOutput, error) {
	lang := strings.TrimSpace(args.Language)
	if lang == "" {
		lang = s.language
	}
	menu, err := s.daemon.GetMenu(lang)
	if err != nil {
		return nil, MenuOutput{}, err
	}
	return nil, MenuOutput{Entries: menuEntries(menu.Items, "")}, nil
}

func menuEntries(items []weg.MenuItem, group string) []MenuEntry {
	out := []MenuEntry{}
	for _, it := range items {
		if it.Action != "" {
			out = append(out, MenuEntry{Group: group, Label: it.Label, Action: it.Action, Checked: it.Checked})
		}
		out = append(out, menuEntries(it.Children, it.Label)...)
	}
	return out
}

func (s *Server) handleMenuAction(_ context.Context, _ *mcpsdk.CallToolRequest, args MenuActionInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if _, err := weg.ParseMenuAction(args.Action); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.daemon.MenuAction(args.Action); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleActivate(_ context.Context, _ *mcpsdk.CallToolRequest, args ItemInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := requireItem(args); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.daemon.Activate(args.Monitor, args.ItemID); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handlePin(_ context.Context, _ *mcpsdk.CallToolRequest, args ItemInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := requireItem(args); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.daemon.Pin(args.ItemID); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleUnpin(_ context.Context, _ *mcpsdk.CallToolRequest, args ItemInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := requireItem(args); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.daemon.Unpin(args.ItemID); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true}, nil
}

func requireItem(args ItemInput) error {
	if strings.TrimSpace(args.ItemID) == "" {
		return fmt.Errorf("item_id is required")
	}
	return nil
}
