package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/luriusTM/Seelen-UI/internal/platform"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

func TestGroupWindows(t *testing.T) {
	windows := []platform.Window{
		window(1, "firefox", "/usr/lib/firefox/firefox", platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}),
		window(2, "XTerm", "", platform.Rect{X: 2000, Y: 0, Width: 800, Height: 600}),
		window(3, "firefox", "/usr/lib/firefox/firefox", platform.Rect{X: 2100, Y: 0, Width: 800, Height: 600}),
		window(4, surface, "/usr/bin/weg", platform.Rect{X: 0, Y: 1040, Width: 200, Height: 40}),
		{ID: 5, AppID: "panel", Exe: "/usr/bin/panel", SkipTaskbar: true, OnCurrentDesktop: true},
		{ID: 6, AppID: "gimp", Exe: "/usr/bin/gimp"},
	}
	windows[0].Minimized = true

	groups := GroupWindows(twoDisplays(), windows, surface)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(groups), groups)
	}

	ff := groups[0]
	if ff.ExecutionCommand != "/usr/lib/firefox/firefox" || len(ff.Windows) != 2 {
		t.Fatalf("firefox group = %+v", ff)
	}
	want := []weg.OpenedWindow{
		{ID: 1, Title: "firefox", PresentativeMonitor: 0, Minimized: true},
		{ID: 3, Title: "firefox", PresentativeMonitor: 1},
	}
	if !reflect.DeepEqual(ff.Windows, want) {
		t.Fatalf("firefox windows = %+v, want %+v", ff.Windows, want)
	}

	xterm := groups[1]
	if xterm.ExecutionCommand != "" || xterm.Path != "xterm" {
		t.Fatalf("xterm group = %+v", xterm)
	}
	if !reflect.DeepEqual(xterm.Identities, []string{"XTerm"}) {
		t.Fatalf("xterm identities = %v", xterm.Identities)
	}
}

func TestFocusedMonitors(t *testing.T) {
	obs := Observation{
		Displays: twoDisplays(),
		Windows: []platform.Window{
			window(1, "firefox", "", platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}),
			window(2, surface, "", platform.Rect{X: 1920, Y: 1040, Width: 1920, Height: 40}),
		},
		Active: 2,
	}
	got := FocusedMonitors(obs, surface)
	if !reflect.DeepEqual(got, map[int]bool{0: false, 1: true}) {
		t.Fatalf("FocusedMonitors() = %v", got)
	}

	obs.Active = 1
	got = FocusedMonitors(obs, surface)
	if got[0] || got[1] {
		t.Fatalf("FocusedMonitors() = %v, want none focused", got)
	}
}

func TestBarStrip(t *testing.T) {
	display := platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	full := weg.DefaultSettings()
	full.Mode = weg.ModeFullWidth

	tests := []struct {
		name     string
		position weg.Position
		mode     weg.Mode
		items    int
		want     platform.Rect
	}{
		{"bottom full", weg.PositionBottom, weg.ModeFullWidth, 3, platform.Rect{X: 1920, Y: 1040, Width: 1920, Height: 40}},
		{"top full", weg.PositionTop, weg.ModeFullWidth, 3, platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 40}},
		{"left full", weg.PositionLeft, weg.ModeFullWidth, 3, platform.Rect{X: 1920, Y: 0, Width: 40, Height: 1080}},
		{"right full", weg.PositionRight, weg.ModeFullWidth, 3, platform.Rect{X: 3800, Y: 0, Width: 40, Height: 1080}},
		{"bottom min-content", weg.PositionBottom, weg.ModeMinContent, 4, platform.Rect{X: 1920 + 860, Y: 1040, Width: 200, Height: 40}},
		{"min-content clamps", weg.PositionLeft, weg.ModeMinContent, 100, platform.Rect{X: 1920, Y: 0, Width: 40, Height: 1080}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := full
			s.Position = tt.position
			s.Mode = tt.mode
			if got := BarStrip(display, s, tt.items); got != tt.want {
				t.Fatalf("BarStrip() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOverlapped(t *testing.T) {
	strip := platform.Rect{X: 0, Y: 1040, Width: 1920, Height: 40}
	covering := window(1, "firefox", "", platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})

	if !Overlapped(strip, []platform.Window{covering}, surface) {
		t.Fatal("maximized window should overlap")
	}
	minimized := covering
	minimized.Minimized = true
	elsewhere := covering
	elsewhere.OnCurrentDesktop = false
	self := window(2, surface, "", strip)
	above := window(3, "xterm", "", platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040})
	if Overlapped(strip, []platform.Window{minimized, elsewhere, self, above}, surface) {
		t.Fatal("no visible window covers the strip")
	}
}

func TestTrackerKickObserves(t *testing.T) {
	backend := &fakeBackend{
		displays: twoDisplays(),
		windows:  []platform.Window{window(1, "firefox", "", platform.Rect{Width: 10, Height: 10})},
		active:   1,
	}
	seen := make(chan Observation, 4)
	tr := NewTracker(TrackerConfig{Interval: time.Hour}, backend, func(obs Observation) { seen <- obs })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	for i := 0; i < 2; i++ {
		if i == 1 {
			tr.Kick()
		}
		select {
		case obs := <-seen:
			if len(obs.Displays) != 2 || len(obs.Windows) != 1 || obs.Active != 1 {
				t.Fatalf("observation = %+v", obs)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no observation %d", i)
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestTrackerRecoversFromPanic(t *testing.T) {
	tr := NewTracker(TrackerConfig{}, &fakeBackend{displays: twoDisplays()}, func(Observation) { panic("boom") })
	tr.ReconcileNow()
}

func TestLaunchArgv(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "my app")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(doc, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name    string
		item    weg.Item
		want    []string
		wantErr bool
	}{
		{"executable with spaces", weg.Item{Kind: weg.KindPinned, ExecutionCommand: script}, []string{script}, false},
		{"document", weg.Item{Kind: weg.KindPinned, ExecutionCommand: doc, Path: doc}, []string{"xdg-open", doc}, false},
		{"folder", weg.Item{Kind: weg.KindPinned, Path: dir}, []string{"xdg-open", dir}, false},
		{"desktop entry", weg.Item{Kind: weg.KindPinned, ExecutionCommand: "/usr/share/applications/org.gnome.Nautilus.desktop"}, []string{"gio", "launch", "/usr/share/applications/org.gnome.Nautilus.desktop"}, false},
		{"command line", weg.Item{Kind: weg.KindTemporalApp, ID: "x", ExecutionCommand: `code --new-window "my project"`}, []string{"code", "--new-window", "my project"}, false},
		{"unterminated quote", weg.Item{Kind: weg.KindPinned, ExecutionCommand: `code "oops`}, nil, true},
		{"media", weg.Item{Kind: weg.KindMedia, ID: "media"}, nil, true},
		{"empty", weg.Item{Kind: weg.KindPinned, ID: "empty"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LaunchArgv(tt.item)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LaunchArgv() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LaunchArgv() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("LaunchArgv() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoopCallAndStop(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	var order []int
	loop.Post(func() { order = append(order, 1) })
	if err := loop.Call(context.Background(), func() error {
		order = append(order, 2)
		return nil
	}); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if !reflect.DeepEqual(order, []int{1, 2}) {
		t.Fatalf("order = %v", order)
	}

	fired := make(chan struct{})
	loop.Scheduler().AfterFunc(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled callback never ran")
	}

	cancel()
	<-done
	if err := loop.Call(context.Background(), func() error { return nil }); !errors.Is(err, ErrLoopStopped) {
		t.Fatalf("Call() after stop = %v, want ErrLoopStopped", err)
	}
	if loop.Post(func() {}) {
		t.Fatal("Post() after stop reported success")
	}
}
