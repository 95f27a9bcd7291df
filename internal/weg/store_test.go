package weg

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tmp-%d", n)
	}
}

func TestStoreApplyReorderRehydratesOpens(t *testing.T) {
	a := withOpens(pinned("a"), 0, 1)
	s := NewStore(Buckets{Left: []Item{a}, Center: []Item{pinned("b")}, Right: []Item{}}, counterIDs())

	// The drag surface on monitor 1 only saw a's window on monitor 1.
	projected := NewProjector(MonitorInfo{Index: 1}, BehaviourDefault).Project(s.Buckets())
	seq := Flatten(projected)
	// Move a to the right bucket.
	seq = append(seq[1:], seq[0])

	got, report := s.ApplyReorder(seq)
	if !report.Clean() {
		t.Fatalf("report = %s", report)
	}
	if !reflect.DeepEqual(keys(got.Right), []string{"a"}) {
		t.Fatalf("right = %v, want [a]", keys(got.Right))
	}
	if len(got.Right[0].Opens) != 2 {
		t.Fatalf("a has %d opens after reorder, want 2", len(got.Right[0].Opens))
	}
	if !reflect.DeepEqual(s.Buckets(), got) {
		t.Fatal("store does not hold the applied buckets")
	}
}

func TestStoreApplyReorderReattachesHiddenItems(t *testing.T) {
	s := NewStore(Buckets{
		Left:   []Item{},
		Center: []Item{withOpens(pinned("a"), 1), withOpens(pinned("hidden"), 0), withOpens(pinned("c"), 1)},
		Right:  []Item{},
	}, counterIDs())

	p := NewProjector(MonitorInfo{Index: 1}, BehaviourMinimal)
	seq := Flatten(p.Project(s.Buckets()))
	// seq: sep1, a, c, sep2 -> swap a and c.
	seq[1], seq[2] = seq[2], seq[1]

	got, report := s.ApplyReorder(seq)
	if report.Reattached != 1 {
		t.Fatalf("reattached = %d, want 1", report.Reattached)
	}
	if want := []string{"c", "a", "hidden"}; !reflect.DeepEqual(keys(got.Center), want) {
		t.Fatalf("center = %v, want %v", keys(got.Center), want)
	}
}

func TestStoreApplyReorderIgnoresUnknownItems(t *testing.T) {
	s := NewStore(Buckets{Left: []Item{pinned("a")}}, counterIDs())
	got, report := s.ApplyReorder([]Item{pinned("ghost"), Separator(Separator1ID), pinned("a"), Separator(Separator2ID)})
	if !reflect.DeepEqual(report.UnknownItems, []string{"ghost"}) {
		t.Fatalf("unknown = %v, want [ghost]", report.UnknownItems)
	}
	if !reflect.DeepEqual(keys(got.Center), []string{"a"}) || len(got.Left) != 0 {
		t.Fatalf("got left=%v center=%v", keys(got.Left), keys(got.Center))
	}
}

func TestStoreSyncWindows(t *testing.T) {
	s := NewStore(Buckets{
		Left:   []Item{{Kind: KindStart, ID: "start"}},
		Center: []Item{{Kind: KindPinned, ID: "firefox", ExecutionCommand: "/usr/bin/firefox", Path: "/usr/share/applications/firefox.desktop"}},
		Right:  []Item{},
	}, counterIDs())

	changed := s.SyncWindows([]AppWindows{
		{ExecutionCommand: "/usr/lib/firefox/firefox", Windows: []OpenedWindow{{ID: 1, PresentativeMonitor: 0}}},
		{ExecutionCommand: "/usr/bin/kitty", Path: "/usr/bin/kitty", Windows: []OpenedWindow{{ID: 2, PresentativeMonitor: 1}}},
		{Identities: []string{"Kitty"}, Windows: []OpenedWindow{{ID: 3, PresentativeMonitor: 0}}},
	})
	if !changed {
		t.Fatal("SyncWindows() = false, want true")
	}
	b := s.Buckets()
	if want := []string{"firefox", "tmp-1"}; !reflect.DeepEqual(keys(b.Center), want) {
		t.Fatalf("center = %v, want %v", keys(b.Center), want)
	}
	if len(b.Center[0].Opens) != 1 || b.Center[0].Opens[0].ID != 1 {
		t.Fatalf("firefox opens = %+v", b.Center[0].Opens)
	}
	if b.Center[1].Kind != KindTemporalApp || len(b.Center[1].Opens) != 2 {
		t.Fatalf("kitty temporal app = %+v", b.Center[1])
	}

	if s.SyncWindows([]AppWindows{
		{ExecutionCommand: "/usr/lib/firefox/firefox", Windows: []OpenedWindow{{ID: 1, PresentativeMonitor: 0}}},
	}) != true {
		t.Fatal("closing kitty should change the store")
	}
	b = s.Buckets()
	if want := []string{"firefox"}; !reflect.DeepEqual(keys(b.Center), want) {
		t.Fatalf("center = %v, want %v", keys(b.Center), want)
	}
	if s.SyncWindows([]AppWindows{
		{ExecutionCommand: "/usr/lib/firefox/firefox", Windows: []OpenedWindow{{ID: 1, PresentativeMonitor: 0}}},
	}) {
		t.Fatal("identical window set should not report a change")
	}
}

func TestStorePinUnpin(t *testing.T) {
	s := NewStore(Buckets{Center: []Item{
		withOpens(Item{Kind: KindTemporalApp, ID: "t", ExecutionCommand: "t", Path: "t"}, 0),
		pinned("idle"),
	}}, counterIDs())

	if err := s.Pin("t"); err != nil {
		t.Fatalf("Pin() error: %v", err)
	}
	if it, _ := s.Item("t"); it.Kind != KindPinned {
		t.Fatalf("kind after pin = %s", it.Kind)
	}
	if err := s.Unpin("t"); err != nil {
		t.Fatalf("Unpin() error: %v", err)
	}
	if it, _ := s.Item("t"); it.Kind != KindTemporalApp {
		t.Fatalf("unpinned item with windows should become temporal, got %s", it.Kind)
	}
	if err := s.Unpin("idle"); err != nil {
		t.Fatalf("Unpin() error: %v", err)
	}
	if _, ok := s.Item("idle"); ok {
		t.Fatal("unpinned item without windows should be removed")
	}
	if err := s.Pin("missing"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("Pin(missing) error = %v, want ErrUnknownItem", err)
	}
}

func TestStoreReplacePinnedKeepsRuntimeState(t *testing.T) {
	s := NewStore(Buckets{Center: []Item{
		withOpens(pinned("a"), 0),
		withOpens(Item{Kind: KindTemporalApp, ID: "t", ExecutionCommand: "t"}, 0),
	}}, counterIDs())

	s.ReplacePinned(Buckets{Left: []Item{pinned("a")}, Right: []Item{{Kind: KindMedia, ID: "media"}}})
	b := s.Buckets()
	if !reflect.DeepEqual(keys(b.Left), []string{"a"}) || len(b.Left[0].Opens) != 1 {
		t.Fatalf("left = %+v", b.Left)
	}
	if !reflect.DeepEqual(keys(b.Center), []string{"t"}) {
		t.Fatalf("center = %v, want [t]", keys(b.Center))
	}
}

func TestBucketsPersistable(t *testing.T) {
	b := Buckets{
		Left:   []Item{withOpens(pinned("a"), 0)},
		Center: []Item{{Kind: KindTemporalApp, ID: "t"}},
		Right:  []Item{{Kind: KindMedia, ID: "media"}},
	}
	got := b.Persistable()
	if len(got.Center) != 0 || got.Left[0].Opens != nil || len(got.Right) != 1 {
		t.Fatalf("Persistable() = %+v", got)
	}
	if len(b.Left[0].Opens) != 1 {
		t.Fatal("Persistable mutated the receiver")
	}
}

func TestMatchKey(t *testing.T) {
	tests := map[string]string{
		"/usr/bin/firefox":                        "firefox",
		"C:\\Program Files\\App\\App.exe":         "app",
		"/usr/share/applications/kitty.desktop":   "kitty",
		"code --new-window":                       "code",
		"":                                        "",
	}
	for in, want := range tests {
		if got := MatchKey(in); got != want {
			t.Errorf("MatchKey(%q) = %q, want %q", in, got, want)
		}
	}
}
