package tui

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luriusTM/Seelen-UI/internal/config"
	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/ipc"
	"github.com/luriusTM/Seelen-UI/internal/platform"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

type fakeDaemon struct {
	mu       sync.Mutex
	reorders [][]string
	actions  []string
	pinned   []string
	unpinned []string
	focus    []bool
	views    []string
}

func (f *fakeDaemon) GetState(int) (*daemon.Snapshot, error) {
	s := testSnapshot()
	return &s, nil
}

func (f *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) {
	return &ipc.MonitorsData{Monitors: []daemon.Monitor{{Index: 0, Primary: true}}}, nil
}

func (f *fakeDaemon) GetMenu(string) (weg.MenuSpec, error) { return testMenu(), nil }

func (f *fakeDaemon) Reorder(_ int, items []string) (*ipc.ReorderData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reorders = append(f.reorders, items)
	return &ipc.ReorderData{}, nil
}

func (f *fakeDaemon) MenuAction(action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeDaemon) Activate(int, string) error { return nil }

func (f *fakeDaemon) Pin(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pinned = append(f.pinned, id)
	return nil
}

func (f *fakeDaemon) Unpin(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unpinned = append(f.unpinned, id)
	return nil
}

func (f *fakeDaemon) SetFocus(_ int, focused bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focus = append(f.focus, focused)
	return nil
}

func (f *fakeDaemon) ViewChanged(_ int, id string, open bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := "close"
	if open {
		state = "open"
	}
	f.views = append(f.views, id+":"+state)
	return nil
}

func (f *fakeDaemon) Reload() error { return nil }

func testItems() weg.Buckets {
	return weg.Buckets{
		Left: []weg.Item{{Kind: weg.KindStart, ID: "start"}},
		Center: []weg.Item{
			{Kind: weg.KindPinned, ID: "ff", ExecutionCommand: "firefox.desktop", Path: "/usr/share/applications/firefox.desktop"},
			{Kind: weg.KindTemporalApp, ID: "kitty", ExecutionCommand: "/usr/bin/kitty", Path: "/usr/bin/kitty",
				Opens: []weg.OpenedWindow{{ID: 0x400001, Title: "shell"}}},
		},
		Right: []weg.Item{{Kind: weg.KindMedia, ID: "media"}},
	}
}

func testSnapshot() daemon.Snapshot {
	return daemon.Snapshot{
		Name:     "DP-1",
		Monitor:  weg.MonitorInfo{Index: 0, IsPrimary: true},
		Bounds:   platform.Rect{Width: 1920, Height: 1080},
		Strip:    platform.Rect{Y: 1040, Width: 1920, Height: 40},
		Settings: weg.DefaultSettings(),
		Items:    testItems(),
	}
}

func testMenu() weg.MenuSpec {
	return weg.MenuSpec{Items: []weg.MenuItem{
		{Label: "Auto hide", Children: []weg.MenuItem{
			{Label: "Always", Action: "hide-mode:always"},
			{Label: "Never", Action: "hide-mode:never", Checked: true},
		}},
		{Separator: true},
		{Label: "Reload", Action: "reload"},
	}}
}

func newTestModel(t *testing.T) (model, *fakeDaemon) {
	t.Helper()
	f := &fakeDaemon{}
	m := newModel(f, "", "en", 0)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	snap := testSnapshot()
	m = update(t, m, snapshotMsg{snap: &snap, menu: testMenu()})
	return m, f
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func updateCmd(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestDragSessionCrossesSeparators(t *testing.T) {
	seq := weg.Flatten(testItems())
	if _, ok := startDrag(seq, 1); ok {
		t.Fatalf("expected separator pickup to be refused")
	}
	d, ok := startDrag(seq, 2)
	if !ok {
		t.Fatalf("expected pickup of ff")
	}
	if got := d.move(-1); got != 1 {
		t.Fatalf("held = %d, want 1", got)
	}
	if got := d.move(-5); got != 1 {
		t.Fatalf("out of range move changed held to %d", got)
	}

	want := []string{"start", "ff", "sep1", "kitty", "sep2", "media"}
	if got := d.keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	if got := weg.SequenceKeys(seq); got[2] != "ff" {
		t.Fatalf("drag mutated the source sequence: %v", got)
	}

	b, _ := weg.Decompose(d.seq)
	if len(b.Left) != 2 || b.Left[1].ID != "ff" {
		t.Fatalf("ff should land in the left bucket, got %+v", b.Left)
	}
}

func TestModelDragCommitsReorder(t *testing.T) {
	m, f := newTestModel(t)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}

	m = update(t, m, keyRight)
	if m.cursor != 2 {
		t.Fatalf("cursor should skip separator, got %d", m.cursor)
	}
	m = update(t, m, keySpace)
	if m.drag == nil {
		t.Fatalf("expected drag session")
	}
	m = update(t, m, keyLeft)

	// A refresh while dragging must not clobber the drag order.
	snap := testSnapshot()
	m = update(t, m, snapshotMsg{snap: &snap})
	if m.seq[1].ID != "ff" {
		t.Fatalf("snapshot overwrote drag sequence: %v", weg.SequenceKeys(m.seq))
	}

	m, cmd := updateCmd(t, m, keySpace)
	if m.drag != nil || !m.committing {
		t.Fatalf("expected committing state after drop")
	}
	if cmd == nil {
		t.Fatalf("expected reorder command")
	}
	done := cmd()

	m = update(t, m, snapshotMsg{snap: &snap})
	if m.seq[1].ID != "ff" {
		t.Fatalf("snapshot overwrote committed sequence: %v", weg.SequenceKeys(m.seq))
	}

	m = update(t, m, done)
	if m.committing {
		t.Fatalf("commit flag not cleared")
	}

	want := [][]string{{"start", "ff", "sep1", "kitty", "sep2", "media"}}
	if !reflect.DeepEqual(f.reorders, want) {
		t.Fatalf("reorders = %v, want %v", f.reorders, want)
	}
}

func TestModelEscCancelsDrag(t *testing.T) {
	m, f := newTestModel(t)
	m = update(t, m, keyRight)
	m = update(t, m, keySpace)
	m = update(t, m, keyLeft)
	m = update(t, m, keyEsc)

	if m.drag != nil {
		t.Fatalf("drag still active")
	}
	if got := weg.SequenceKeys(m.seq); got[2] != "ff" {
		t.Fatalf("cancel did not restore order: %v", got)
	}
	if len(f.reorders) != 0 {
		t.Fatalf("cancel sent a reorder")
	}
}

func TestModelPinToggle(t *testing.T) {
	m, f := newTestModel(t)
	m = update(t, m, keyRight) // ff
	_, cmd := updateCmd(t, m, runes("p"))
	cmd()
	m = update(t, m, keyRight) // kitty
	_, cmd = updateCmd(t, m, runes("p"))
	cmd()

	if !reflect.DeepEqual(f.unpinned, []string{"ff"}) {
		t.Fatalf("unpinned = %v", f.unpinned)
	}
	if !reflect.DeepEqual(f.pinned, []string{"kitty"}) {
		t.Fatalf("pinned = %v", f.pinned)
	}
}

func TestModelCopyCommand(t *testing.T) {
	var copied []string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	m, _ := newTestModel(t)
	m = update(t, m, keyRight) // ff
	_, cmd := updateCmd(t, m, runes("y"))
	if msg, ok := cmd().(actionDoneMsg); !ok || msg.err != nil {
		t.Fatalf("copy result = %#v", msg)
	}
	if !reflect.DeepEqual(copied, []string{"firefox.desktop"}) {
		t.Fatalf("copied = %v", copied)
	}
}

func TestModelWindowListReportsViews(t *testing.T) {
	m, f := newTestModel(t)
	m = update(t, m, keyRight)
	if _, cmd := updateCmd(t, m, runes("v")); cmd != nil {
		t.Fatalf("item without windows should not open a view")
	}

	m = update(t, m, keyRight) // kitty
	m, cmd := updateCmd(t, m, runes("v"))
	cmd()
	if m.previewKey != "kitty" {
		t.Fatalf("previewKey = %q", m.previewKey)
	}
	if !strings.Contains(m.View(), "shell") {
		t.Fatalf("window list not rendered")
	}
	m, cmd = updateCmd(t, m, keyLeft)
	cmd()

	want := []string{"kitty:open", "kitty:close"}
	if !reflect.DeepEqual(f.views, want) {
		t.Fatalf("views = %v, want %v", f.views, want)
	}
}

func TestModelFocusReporting(t *testing.T) {
	m, f := newTestModel(t)
	_, cmd := updateCmd(t, m, tea.FocusMsg{})
	cmd()
	_, cmd = updateCmd(t, m, tea.BlurMsg{})
	cmd()
	if !reflect.DeepEqual(f.focus, []bool{true, false}) {
		t.Fatalf("focus = %v", f.focus)
	}
}

func TestModelMenuTabRunsAction(t *testing.T) {
	m, f := newTestModel(t)
	m = update(t, m, runes("2"))
	if m.activeTab != TabMenu {
		t.Fatalf("activeTab = %v", m.activeTab)
	}
	_, cmd := updateCmd(t, m, keyEnter)
	if cmd == nil {
		t.Fatalf("expected menu action command")
	}
	cmd()
	if !reflect.DeepEqual(f.actions, []string{"hide-mode:always"}) {
		t.Fatalf("actions = %v", f.actions)
	}
}

func TestMenuEntriesFlattensGroups(t *testing.T) {
	got := menuEntries(testMenu())
	if len(got) != 3 {
		t.Fatalf("entries = %+v", got)
	}
	if got[1].group != "Auto hide" || !got[1].checked {
		t.Fatalf("entry = %+v", got[1])
	}
	if got[1].Title() != "✓ Auto hide › Never" {
		t.Fatalf("title = %q", got[1].Title())
	}
	if got[2].group != "" || got[2].action != "reload" {
		t.Fatalf("entry = %+v", got[2])
	}
}

func TestRenderBar(t *testing.T) {
	snap := testSnapshot()
	l := layoutFor(weg.Flatten(snap.Items), snap.Settings, weg.Presentation{})
	out := RenderBar(l, 100, -1, -1)
	for _, want := range []string{"firefox", "kitty •", "♫ Media", "◆ Start"} {
		if !strings.Contains(out, want) {
			t.Fatalf("bar missing %q:\n%s", want, out)
		}
	}

	hidden := layoutFor(weg.Flatten(snap.Items), snap.Settings, weg.Presentation{Hidden: true})
	if got := RenderBar(hidden, 100, -1, -1); !strings.Contains(got, "bar hidden") {
		t.Fatalf("hidden bar rendered %q", got)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abc", 5, " abc "},
		{"abcd", 4, "abcd"},
		{"abcdefgh", 5, "abcd…"},
	}
	for _, tt := range tests {
		got := fit(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if w := lipgloss.Width(got); w != tt.n {
			t.Errorf("fit(%q, %d) width = %d", tt.in, tt.n, w)
		}
	}
}

func TestCellSettings(t *testing.T) {
	s := weg.DefaultSettings()
	if cs := CellSettings(s); cs.Size != itemCells || cs.SpaceBetweenItems != 1 {
		t.Fatalf("horizontal cell settings = %+v", cs)
	}
	s.Position = weg.PositionLeft
	if cs := CellSettings(s); cs.Size != 1 || cs.SpaceBetweenItems != 0 {
		t.Fatalf("vertical cell settings = %+v", cs)
	}
}

func TestDiffSettings(t *testing.T) {
	a := weg.DefaultSettings()
	b := a
	if got := diffSettings(a, b); len(got) != 0 {
		t.Fatalf("expected no changes, got %+v", got)
	}

	b.HideMode = weg.HideAlways
	b.Size = 48
	got := diffSettings(a, b)
	want := []settingChange{
		{Key: "hide_mode", Old: string(a.HideMode), New: "always"},
		{Key: "size", Old: "40", New: "48"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("diff = %+v, want %+v", got, want)
	}
}

func TestSaveSettingsWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.DefaultConfig().SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	s := weg.DefaultSettings()
	s.HideMode = weg.HideAlways
	s.Position = weg.PositionTop
	if err := saveSettings(path, s); err != nil {
		t.Fatalf("saveSettings: %v", err)
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if got := res.Config.Settings(); got != s {
		t.Fatalf("settings = %+v, want %+v", got, s)
	}
}

func TestRenderScreenDrawsStrip(t *testing.T) {
	lines := renderScreen(platform.Rect{Width: 1920, Height: 1080}, platform.Rect{Y: 1040, Width: 1920, Height: 40}, 40, 10)
	if len(lines) != 10 {
		t.Fatalf("lines = %d", len(lines))
	}
	if !strings.Contains(lines[8], "█") {
		t.Fatalf("strip not on the bottom row:\n%s", strings.Join(lines, "\n"))
	}
	if strings.Contains(lines[1], "█") {
		t.Fatalf("strip drawn at the top:\n%s", strings.Join(lines, "\n"))
	}
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	if err := Preview(&buf, testSnapshot(), 80); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "DP-1 (primary)") || !strings.Contains(out, "4 items") {
		t.Fatalf("summary missing:\n%s", out)
	}
	if !strings.Contains(out, "firefox") {
		t.Fatalf("bar missing:\n%s", out)
	}
}
