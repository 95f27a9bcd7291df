package daemon

import (
	"github.com/luriusTM/Seelen-UI/internal/platform"
	"github.com/luriusTM/Seelen-UI/internal/visibility"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// Bar is the runtime of one bar instance, attached to one display.
type Bar struct {
	Display   platform.Display
	Monitor   weg.MonitorInfo
	engine    *visibility.Engine
	projector weg.Projector
}

func newBar(index int, d platform.Display, s weg.Settings, opts ...visibility.Option) *Bar {
	m := weg.MonitorInfo{Index: index, IsPrimary: d.Primary}
	return &Bar{
		Display:   d,
		Monitor:   m,
		engine:    visibility.NewEngine(s.HideMode, opts...),
		projector: weg.NewProjector(m, s.Behaviour),
	}
}

// applySettings pushes a settings change into the bar.
func (b *Bar) applySettings(s weg.Settings) {
	b.projector = weg.NewProjector(b.Monitor, s.Behaviour)
	b.engine.SetHideMode(s.HideMode)
}

func (b *Bar) stop() {
	b.engine.Stop()
}

// Snapshot is the presented state of one bar.
type Snapshot struct {
	Monitor    weg.MonitorInfo  `json:"monitor"`
	Name       string           `json:"name"`
	Bounds     platform.Rect    `json:"bounds"`
	Strip      platform.Rect    `json:"strip"`
	Settings   weg.Settings     `json:"settings"`
	Visibility visibility.State `json:"visibility"`
	Items      weg.Buckets      `json:"items"`
	Layout     weg.Layout       `json:"layout"`
}

// snapshot projects raw for this bar and composes the result.
func (b *Bar) snapshot(raw weg.Buckets, s weg.Settings) Snapshot {
	projected := b.projector.Project(raw)
	state := b.engine.State()
	return Snapshot{
		Monitor:    b.Monitor,
		Name:       b.Display.Name,
		Bounds:     b.Display.Bounds,
		Strip:      BarStrip(b.Display.Bounds, s, projected.Len()),
		Settings:   s,
		Visibility: state,
		Items:      projected,
		Layout:     weg.Compose(projected, s, weg.Presentation{Hidden: state.Hidden, Delayed: state.Delayed}),
	}
}

func sameDisplays(a, b []platform.Display) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
