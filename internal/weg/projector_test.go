package weg

import (
	"reflect"
	"testing"
)

func withOpens(it Item, monitors ...int) Item {
	for i, m := range monitors {
		it.Opens = append(it.Opens, OpenedWindow{ID: uint32(100 + i), PresentativeMonitor: m})
	}
	return it
}

func monitorsOf(it Item) []int {
	out := []int{}
	for _, w := range it.Opens {
		out = append(out, w.PresentativeMonitor)
	}
	return out
}

func TestProjectorReducedKinds(t *testing.T) {
	tests := []struct {
		behaviour DisplayBehaviour
		primary   bool
		want      []Kind
	}{
		{BehaviourDefault, true, nil},
		{BehaviourDefault, false, nil},
		{BehaviourPrimaryScreenAll, true, nil},
		{BehaviourPrimaryScreenAll, false, []Kind{KindPinned, KindTemporalApp}},
		{BehaviourMinimal, true, []Kind{KindTemporalApp}},
		{BehaviourMinimal, false, []Kind{KindPinned, KindTemporalApp}},
	}
	all := []Kind{KindPinned, KindTemporalApp, KindMedia, KindStart}
	for _, tt := range tests {
		p := NewProjector(MonitorInfo{Index: 0, IsPrimary: tt.primary}, tt.behaviour)
		var got []Kind
		for _, k := range all {
			if p.Reduced(k) {
				got = append(got, k)
			}
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s primary=%v: reduced = %v, want %v", tt.behaviour, tt.primary, got, tt.want)
		}
	}
}

func TestProjectPrimaryScreenAllOnSecondary(t *testing.T) {
	p := NewProjector(MonitorInfo{Index: 1, IsPrimary: false}, BehaviourPrimaryScreenAll)
	b := Buckets{
		Left:   []Item{{Kind: KindStart, ID: "start"}},
		Center: []Item{withOpens(pinned("A"), 0), withOpens(pinned("B"), 1)},
		Right:  []Item{{Kind: KindMedia, ID: "media"}},
	}
	got := p.Project(b)
	if !reflect.DeepEqual(keys(got.Center), []string{"B"}) {
		t.Fatalf("center = %v, want [B]", keys(got.Center))
	}
	if !reflect.DeepEqual(keys(got.Left), []string{"start"}) || !reflect.DeepEqual(keys(got.Right), []string{"media"}) {
		t.Fatalf("non-reduced items should always be shown, got left=%v right=%v", keys(got.Left), keys(got.Right))
	}
}

func TestProjectMinimalOnPrimaryFiltersOpens(t *testing.T) {
	p := NewProjector(MonitorInfo{Index: 0, IsPrimary: true}, BehaviourMinimal)
	temporal := withOpens(Item{Kind: KindTemporalApp, ID: "T", ExecutionCommand: "t", Path: "t"}, 0, 1)
	got, ok := p.ProjectItem(temporal)
	if !ok {
		t.Fatal("temporal app with a window on monitor 0 should be visible")
	}
	if !reflect.DeepEqual(monitorsOf(got), []int{0}) {
		t.Fatalf("opens monitors = %v, want [0]", monitorsOf(got))
	}
	if len(temporal.Opens) != 2 {
		t.Fatal("projection mutated the input item")
	}
}

func TestProjectPrimaryKeepsAllOpensUnlessMinimal(t *testing.T) {
	it := withOpens(pinned("A"), 0, 1, 2)
	for _, b := range []DisplayBehaviour{BehaviourDefault, BehaviourPrimaryScreenAll} {
		p := NewProjector(MonitorInfo{Index: 0, IsPrimary: true}, b)
		got := p.FilterOpens(it)
		if len(got.Opens) != 3 {
			t.Errorf("%s: primary kept %d opens, want 3", b, len(got.Opens))
		}
	}
	sec := NewProjector(MonitorInfo{Index: 2}, BehaviourDefault)
	if got := monitorsOf(sec.FilterOpens(it)); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("secondary opens = %v, want [2]", got)
	}
}

func TestProjectReducedItemWithoutWindowsHidden(t *testing.T) {
	p := NewProjector(MonitorInfo{Index: 1}, BehaviourMinimal)
	if p.Visible(pinned("idle")) {
		t.Fatal("reduced pinned item without windows should be hidden on a secondary monitor")
	}
	if !p.Visible(Item{Kind: KindMedia, ID: "media"}) {
		t.Fatal("media has no opens field and must stay visible")
	}
}
