package ipc

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/platform"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

type fakeService struct {
	mu       sync.Mutex
	buckets  weg.Buckets
	hideMode weg.HideMode
	actions  []string
	focus    []bool
	views    []string
	pinned   []string
	unpinned []string
	reloads  int
	lastKeys []string
}

func (f *fakeService) Status(context.Context) (daemon.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return daemon.Status{Bars: 2, Items: f.buckets.Len(), HideMode: f.hideMode}, nil
}

func (f *fakeService) Monitors(context.Context) ([]daemon.Monitor, error) {
	return []daemon.Monitor{
		{Index: 0, Name: "DP-1", Primary: true, Bounds: platform.Rect{Width: 1920, Height: 1080}},
		{Index: 1, Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Width: 1920, Height: 1080}},
	}, nil
}

func (f *fakeService) State(_ context.Context, monitor int) (daemon.Snapshot, error) {
	if monitor > 1 {
		return daemon.Snapshot{}, weg.ErrUnknownMonitor
	}
	return daemon.Snapshot{Monitor: weg.MonitorInfo{Index: monitor, IsPrimary: monitor == 0}, Items: f.buckets}, nil
}

func (f *fakeService) ItemBuckets(context.Context) (weg.Buckets, error) { return f.buckets, nil }

func (f *fakeService) Menu(_ context.Context, t weg.Translate) (weg.MenuSpec, error) {
	return weg.ContextMenu(t, weg.MenuStateFor(weg.DefaultSettings(), f.buckets)), nil
}

func (f *fakeService) Reorder(_ context.Context, _ int, keys []string) (weg.Buckets, weg.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastKeys = keys
	return f.buckets, weg.Report{UnknownItems: []string{"ghost"}}, nil
}

func (f *fakeService) SetFocus(_ context.Context, _ int, focused bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focus = append(f.focus, focused)
	return nil
}

func (f *fakeService) ViewChanged(_ context.Context, _ int, itemID string, open bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if open {
		f.views = append(f.views, itemID)
	}
	return nil
}

func (f *fakeService) SetHideMode(_ context.Context, mode weg.HideMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hideMode = mode
	return nil
}

func (f *fakeService) MenuAction(_ context.Context, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := weg.ParseMenuAction(action); err != nil {
		return err
	}
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeService) Activate(_ context.Context, _ int, itemID string) error {
	if itemID == "missing" {
		return errors.New("unknown item missing")
	}
	return nil
}

func (f *fakeService) Pin(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pinned = append(f.pinned, id)
	return nil
}

func (f *fakeService) Unpin(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unpinned = append(f.unpinned, id)
	return nil
}

func (f *fakeService) Reload(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return nil
}

func startServer(t *testing.T) (*fakeService, *Client) {
	t.Helper()
	svc := &fakeService{buckets: weg.DefaultBuckets(), hideMode: weg.HideOnOverlap}
	path := filepath.Join(t.TempDir(), "weg.sock")
	srv, err := NewServer(svc, WithSocketPath(path), WithLanguage("es"))
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(srv.Stop)
	return svc, NewClientAt(path)
}

func TestClientServerRoundTrip(t *testing.T) {
	svc, client := startServer(t)

	if err := client.Ping(); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error: %v", err)
	}
	if status.Bars != 2 || status.HideMode != weg.HideOnOverlap {
		t.Fatalf("status = %+v", status)
	}

	monitors, err := client.GetMonitors()
	if err != nil {
		t.Fatalf("GetMonitors() error: %v", err)
	}
	if len(monitors.Monitors) != 2 || monitors.Monitors[1].Bounds.X != 1920 {
		t.Fatalf("monitors = %+v", monitors)
	}

	items, err := client.GetItems()
	if err != nil {
		t.Fatalf("GetItems() error: %v", err)
	}
	if !reflect.DeepEqual(items, svc.buckets) {
		t.Fatalf("items = %+v, want %+v", items, svc.buckets)
	}

	snap, err := client.GetState(1)
	if err != nil {
		t.Fatalf("GetState() error: %v", err)
	}
	if snap.Monitor.Index != 1 || snap.Monitor.IsPrimary {
		t.Fatalf("snapshot monitor = %+v", snap.Monitor)
	}
}

func TestClientServerCommands(t *testing.T) {
	svc, client := startServer(t)

	data, err := client.Reorder(0, []string{"start", "sep1", "sep2", "media"})
	if err != nil {
		t.Fatalf("Reorder() error: %v", err)
	}
	if !reflect.DeepEqual(data.Report.UnknownItems, []string{"ghost"}) {
		t.Fatalf("report = %+v", data.Report)
	}

	if err := client.SetHideMode("never"); err != nil {
		t.Fatalf("SetHideMode() error: %v", err)
	}
	if status, _ := client.GetStatus(); status == nil || status.HideMode != weg.HideNever {
		t.Fatalf("status after SetHideMode = %+v", status)
	}
	if err := client.SetHideMode("sometimes"); err == nil {
		t.Fatal("SetHideMode(invalid) succeeded")
	}

	if err := client.MenuAction("hide-mode:always"); err != nil {
		t.Fatalf("MenuAction() error: %v", err)
	}
	if err := client.SetFocus(0, true); err != nil {
		t.Fatalf("SetFocus() error: %v", err)
	}
	if err := client.ViewChanged(0, "firefox", true); err != nil {
		t.Fatalf("ViewChanged() error: %v", err)
	}
	if err := client.Pin("kitty"); err != nil {
		t.Fatalf("Pin() error: %v", err)
	}
	if err := client.Unpin("kitty"); err != nil {
		t.Fatalf("Unpin() error: %v", err)
	}
	if err := client.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if !reflect.DeepEqual(svc.lastKeys, []string{"start", "sep1", "sep2", "media"}) ||
		!reflect.DeepEqual(svc.actions, []string{"hide-mode:always"}) ||
		!reflect.DeepEqual(svc.focus, []bool{true}) ||
		!reflect.DeepEqual(svc.views, []string{"firefox"}) ||
		!reflect.DeepEqual(svc.pinned, []string{"kitty"}) ||
		!reflect.DeepEqual(svc.unpinned, []string{"kitty"}) ||
		svc.reloads != 1 {
		t.Fatalf("service calls = %+v", svc)
	}
}

func TestClientServerErrors(t *testing.T) {
	_, client := startServer(t)

	if _, err := client.GetState(7); err == nil || !strings.Contains(err.Error(), "daemon error") {
		t.Fatalf("GetState(7) error = %v", err)
	}
	if err := client.Activate(0, "missing"); err == nil {
		t.Fatal("Activate(missing) succeeded")
	}
	if err := client.Pin(""); err == nil {
		t.Fatal("Pin(\"\") succeeded")
	}
}

func TestGetMenuUsesServerLanguage(t *testing.T) {
	_, client := startServer(t)

	menu, err := client.GetMenu("")
	if err != nil {
		t.Fatalf("GetMenu() error: %v", err)
	}
	if !hasLabel(menu.Items, "Recargar") {
		t.Fatalf("menu not in Spanish: %+v", menu.Items)
	}

	menu, err = client.GetMenu("en")
	if err != nil {
		t.Fatalf("GetMenu(en) error: %v", err)
	}
	if !hasLabel(menu.Items, "Reload") {
		t.Fatalf("menu not in English: %+v", menu.Items)
	}
}

func hasLabel(items []weg.MenuItem, label string) bool {
	for _, it := range items {
		if it.Label == label || hasLabel(it.Children, label) {
			return true
		}
	}
	return false
}

func TestServerRefusesLiveSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weg.sock")
	first, _ := NewServer(&fakeService{}, WithSocketPath(path))
	if err := first.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer first.Stop()

	second, _ := NewServer(&fakeService{}, WithSocketPath(path))
	if err := second.Start(); err == nil {
		second.Stop()
		t.Fatal("second server started on a live socket")
	}
}

func TestParseRequest(t *testing.T) {
	if _, err := ParseRequest([]byte(`{"payload":{}}`)); err == nil {
		t.Fatal("missing command accepted")
	}
	req, err := ParseRequest([]byte(`{"command":"REORDER","payload":{"monitor":1,"items":["a","sep1"]}}`))
	if err != nil {
		t.Fatalf("ParseRequest() error: %v", err)
	}
	var p ReorderPayload
	if err := decodePayload(req.Payload, &p); err != nil {
		t.Fatalf("decodePayload() error: %v", err)
	}
	if p.Monitor != 1 || !reflect.DeepEqual(p.Items, []string{"a", "sep1"}) {
		t.Fatalf("payload = %+v", p)
	}
	if err := decodePayload([]byte(`{"monitor":1,"bogus":true}`), &p); err == nil {
		t.Fatal("unknown field accepted")
	}
}
