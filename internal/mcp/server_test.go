package mcp

import (
	"context"
	"reflect"
	"testing"

	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/i18n"
	"github.com/luriusTM/Seelen-UI/internal/ipc"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

type fakeDaemon struct {
	buckets  weg.Buckets
	projects map[int]weg.Buckets
	hideMode string
	actions  []string
	lang     string
	reorder  []string
	pinned   []string
}

func (f *fakeDaemon) GetStatus() (*daemon.Status, error) {
	return &daemon.Status{Bars: 1, Items: f.buckets.Len(), HideMode: weg.HideOnOverlap}, nil
}

func (f *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) {
	return &ipc.MonitorsData{Monitors: []daemon.Monitor{{Index: 0, Name: "DP-1", Primary: true}}}, nil
}

func (f *fakeDaemon) GetState(monitor int) (*daemon.Snapshot, error) {
	b, ok := f.projects[monitor]
	if !ok {
		return nil, weg.ErrUnknownMonitor
	}
	return &daemon.Snapshot{Items: b}, nil
}

func (f *fakeDaemon) GetItems() (weg.Buckets, error) { return f.buckets, nil }

func (f *fakeDaemon) GetMenu(language string) (weg.MenuSpec, error) {
	f.lang = language
	return weg.ContextMenu(i18n.Translator(language), weg.MenuStateFor(weg.DefaultSettings(), f.buckets)), nil
}

func (f *fakeDaemon) Reorder(_ int, items []string) (*ipc.ReorderData, error) {
	f.reorder = items
	return &ipc.ReorderData{Items: f.buckets, Report: weg.Report{MissingCenterMarker: true}}, nil
}

func (f *fakeDaemon) SetHideMode(mode string) error {
	f.hideMode = mode
	return nil
}

func (f *fakeDaemon) MenuAction(action string) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeDaemon) Activate(int, string) error { return nil }

func (f *fakeDaemon) Pin(id string) error {
	f.pinned = append(f.pinned, id)
	return nil
}

func (f *fakeDaemon) Unpin(string) error { return nil }

func newFake() *fakeDaemon {
	b := weg.DefaultBuckets()
	b.Center = []weg.Item{{Kind: weg.KindPinned, ID: "firefox", ExecutionCommand: "/usr/bin/firefox", Path: "/usr/bin/firefox"}}
	return &fakeDaemon{
		buckets:  b,
		projects: map[int]weg.Buckets{1: {Left: []weg.Item{}, Center: []weg.Item{}, Right: []weg.Item{}}},
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	// Tool schemas are inferred at registration; a bad type panics here.
	if s := NewServer(newFake(), "en", nil); s.mcpServer == nil {
		t.Fatal("mcp server not created")
	}
}

func TestListItems(t *testing.T) {
	f := newFake()
	s := NewServer(f, "en", nil)
	ctx := context.Background()

	_, out, err := s.handleListItems(ctx, nil, ListItemsInput{})
	if err != nil {
		t.Fatalf("handleListItems() error: %v", err)
	}
	want := []string{"start", weg.Sep1Marker, "firefox", weg.Sep2Marker, "media"}
	if !reflect.DeepEqual(out.Sequence, want) {
		t.Fatalf("sequence = %v, want %v", out.Sequence, want)
	}
	if !reflect.DeepEqual(out.Center, []string{"firefox"}) || len(out.Items) != 3 {
		t.Fatalf("output = %+v", out)
	}

	monitor := 1
	_, out, err = s.handleListItems(ctx, nil, ListItemsInput{Monitor: &monitor})
	if err != nil {
		t.Fatalf("handleListItems(monitor) error: %v", err)
	}
	if len(out.Items) != 0 || out.Monitor == nil || *out.Monitor != 1 {
		t.Fatalf("projected output = %+v", out)
	}

	missing := 4
	if _, _, err := s.handleListItems(ctx, nil, ListItemsInput{Monitor: &missing}); err == nil {
		t.Fatal("unknown monitor accepted")
	}
}

func TestReorderAndHideMode(t *testing.T) {
	f := newFake()
	s := NewServer(f, "en", nil)
	ctx := context.Background()

	if _, _, err := s.handleReorder(ctx, nil, ReorderInput{}); err == nil {
		t.Fatal("empty reorder accepted")
	}
	_, out, err := s.handleReorder(ctx, nil, ReorderInput{Items: []string{"firefox", "sep1", "start"}})
	if err != nil {
		t.Fatalf("handleReorder() error: %v", err)
	}
	if out.Clean || !out.Report.MissingCenterMarker {
		t.Fatalf("reorder output = %+v", out)
	}
	if !reflect.DeepEqual(f.reorder, []string{"firefox", "sep1", "start"}) {
		t.Fatalf("forwarded items = %v", f.reorder)
	}

	if _, _, err := s.handleSetHideMode(ctx, nil, SetHideModeInput{HideMode: "sometimes"}); err == nil {
		t.Fatal("invalid hide mode accepted")
	}
	_, hm, err := s.handleSetHideMode(ctx, nil, SetHideModeInput{HideMode: "Never"})
	if err != nil {
		t.Fatalf("handleSetHideMode() error: %v", err)
	}
	if hm.HideMode != weg.HideNever || f.hideMode != "never" {
		t.Fatalf("hide mode = %q, forwarded %q", hm.HideMode, f.hideMode)
	}
}

func TestMenuAndActions(t *testing.T) {
	f := newFake()
	s := NewServer(f, "es", nil)
	ctx := context.Background()

	_, out, err := s.handleMenu(ctx, nil, MenuInput{})
	if err != nil {
		t.Fatalf("handleMenu() error: %v", err)
	}
	if f.lang != "es" {
		t.Fatalf("menu language = %q, want default es", f.lang)
	}
	var found bool
	for _, e := range out.Entries {
		if e.Action == weg.ActionHideMode+":"+string(weg.HideNever) {
			found = true
			if e.Group != "Ocultar automáticamente" || e.Label != "Nunca" {
				t.Fatalf("entry = %+v", e)
			}
		}
	}
	if !found {
		t.Fatalf("hide-mode:never missing from %+v", out.Entries)
	}

	if _, _, err := s.handleMenuAction(ctx, nil, MenuActionInput{Action: "explode"}); err == nil {
		t.Fatal("unknown action accepted")
	}
	if _, _, err := s.handleMenuAction(ctx, nil, MenuActionInput{Action: "toggle-separators"}); err != nil {
		t.Fatalf("handleMenuAction() error: %v", err)
	}
	if !reflect.DeepEqual(f.actions, []string{"toggle-separators"}) {
		t.Fatalf("actions = %v", f.actions)
	}

	if _, _, err := s.handlePin(ctx, nil, ItemInput{ItemID: "  "}); err == nil {
		t.Fatal("blank item accepted")
	}
	if _, _, err := s.handlePin(ctx, nil, ItemInput{ItemID: "firefox"}); err != nil {
		t.Fatalf("handlePin() error: %v", err)
	}
	if !reflect.DeepEqual(f.pinned, []string{"firefox"}) {
		t.Fatalf("pinned = %v", f.pinned)
	}
}
