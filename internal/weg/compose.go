package weg

import (
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// Axis is the drag axis of the bar.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// RendererKind selects the renderer for a slot.
type RendererKind string

const (
	RendererNone            RendererKind = ""
	RendererUserApplication RendererKind = "user-application"
	RendererFileOrFolder    RendererKind = "file-or-folder"
	RendererMediaSession    RendererKind = "media-session"
	RendererStartMenu       RendererKind = "start-menu"
	RendererSeparator       RendererKind = "separator"
)

const appsFolderPrefix = "shell:AppsFolder"

// RendererFor dispatches an item to its renderer. Items that match no rule
// get RendererNone and occupy an empty slot.
func RendererFor(it Item) RendererKind {
	switch it.Kind {
	case KindPinned:
		if it.Path == "" {
			return RendererNone
		}
		if isApplicationHandle(it.ExecutionCommand) {
			return RendererUserApplication
		}
		return RendererFileOrFolder
	case KindTemporalApp:
		if it.Path == "" {
			return RendererNone
		}
		return RendererUserApplication
	case KindMedia:
		return RendererMediaSession
	case KindStart:
		return RendererStartMenu
	case KindSeparator:
		return RendererSeparator
	default:
		return RendererNone
	}
}

func isApplicationHandle(cmd string) bool {
	lower := strings.ToLower(cmd)
	if strings.HasPrefix(cmd, appsFolderPrefix) || strings.HasSuffix(lower, ".exe") {
		return true
	}
	return runtime.GOOS == "linux" && strings.HasSuffix(lower, ".desktop")
}

// SeparatorExtent is the size of one adaptive spacer.
type SeparatorExtent struct {
	// Property is "width" on horizontal bars and "height" otherwise.
	Property string `json:"property"`
	CSS      string `json:"css"`

	fullWidth bool
	step      int
	slots     float64
	space     int
}

// Pixels resolves the extent against a bar of the given length in pixels.
func (e SeparatorExtent) Pixels(barLength int) int {
	if !e.fullWidth {
		return 1
	}
	px := float64(barLength)/2 - float64(e.step)*e.slots - float64(e.space)
	if px < 0 {
		return 0
	}
	return int(px)
}

// SeparatorSize computes the extent of a separator bordering side items on
// one end and the center bucket on the other.
func SeparatorSize(s Settings, side, center int) SeparatorExtent {
	prop := "height"
	if s.Position.Horizontal() {
		prop = "width"
	}
	if s.Mode != ModeFullWidth {
		return SeparatorExtent{Property: prop, CSS: "1px"}
	}
	step := s.Size + s.SpaceBetweenItems
	slots := float64(side) + float64(center)/2
	css := fmt.Sprintf("calc(50%% - (%dpx * %s) - %dpx)", step, strconv.FormatFloat(slots, 'f', -1, 64), s.SpaceBetweenItems)
	return SeparatorExtent{
		Property:  prop,
		CSS:       css,
		fullWidth: true,
		step:      step,
		slots:     slots,
		space:     s.SpaceBetweenItems,
	}
}

// Slot is one position in the composed bar.
type Slot struct {
	Item      Item             `json:"item"`
	Side      Side             `json:"-"`
	Draggable bool             `json:"draggable"`
	Renderer  RendererKind     `json:"renderer,omitempty"`
	Extent    *SeparatorExtent `json:"extent,omitempty"`
	Visible   bool             `json:"visible"`
}

// Presentation carries the visibility flags the layout is rendered with.
type Presentation struct {
	Hidden  bool `json:"hidden"`
	Delayed bool `json:"delayed"`
}

// Layout is the composed bar for one monitor.
type Layout struct {
	Axis       Axis     `json:"axis"`
	Horizontal bool     `json:"horizontal"`
	FullWidth  bool     `json:"full_width"`
	Position   Position `json:"position"`
	Hidden     bool     `json:"hidden"`
	Delayed    bool     `json:"delayed"`
	Slots      []Slot   `json:"slots"`
}

// Compose lays out projected buckets as left, separator 1, center,
// separator 2, right.
func Compose(b Buckets, s Settings, p Presentation) Layout {
	l := Layout{
		Axis:       AxisY,
		Horizontal: s.Position.Horizontal(),
		FullWidth:  s.Mode == ModeFullWidth,
		Position:   s.Position,
		Hidden:     p.Hidden,
		Delayed:    p.Delayed,
		Slots:      make([]Slot, 0, b.Len()+2),
	}
	if l.Horizontal {
		l.Axis = AxisX
	}

	appendItems := func(side Side, items []Item) {
		for _, it := range items {
			l.Slots = append(l.Slots, Slot{
				Item:      it,
				Side:      side,
				Draggable: true,
				Renderer:  RendererFor(it),
				Visible:   true,
			})
		}
	}
	appendSeparator := func(id string, side Side, extent SeparatorExtent) {
		l.Slots = append(l.Slots, Slot{
			Item:     Separator(id),
			Side:     side,
			Renderer: RendererSeparator,
			Extent:   &extent,
			Visible:  s.VisibleSeparators,
		})
	}

	appendItems(SideLeft, b.Left)
	appendSeparator(Separator1ID, SideLeft, SeparatorSize(s, len(b.Left), len(b.Center)))
	appendItems(SideCenter, b.Center)
	appendSeparator(Separator2ID, SideCenter, SeparatorSize(s, len(b.Right), len(b.Center)))
	appendItems(SideRight, b.Right)
	return l
}

// Sequence returns the flat drag sequence including both separators.
func (l Layout) Sequence() []Item {
	out := make([]Item, len(l.Slots))
	for i, slot := range l.Slots {
		out[i] = slot.Item
	}
	return out
}

// Renderer draws one item. onViewChange reports the open state of any
// associated view (preview, context menu) the renderer owns.
type Renderer interface {
	Render(it Item, axis Axis, onViewChange func(open bool)) string
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(it Item, axis Axis, onViewChange func(open bool)) string

func (f RendererFunc) Render(it Item, axis Axis, onViewChange func(open bool)) string {
	return f(it, axis, onViewChange)
}

// Renderers maps renderer kinds to implementations.
type Renderers map[RendererKind]Renderer

// RenderSlots renders every slot of the layout. A slot whose kind has no
// renderer, or whose renderer panics, renders as an empty string without
// affecting the others. onViewChange receives the key of the item whose
// view changed.
func RenderSlots(l Layout, r Renderers, onViewChange func(key string, open bool), logger *slog.Logger) []string {
	out := make([]string, len(l.Slots))
	for i, slot := range l.Slots {
		out[i] = renderSlot(slot, l.Axis, r, onViewChange, logger)
	}
	return out
}

func renderSlot(slot Slot, axis Axis, r Renderers, onViewChange func(string, bool), logger *slog.Logger) (out string) {
	renderer, ok := r[slot.Renderer]
	if !ok || slot.Renderer == RendererNone {
		return ""
	}
	defer func() {
		if rec := recover(); rec != nil {
			if logger != nil {
				logger.Error("renderer panic", "item", slot.Item.Key(), "renderer", slot.Renderer, "panic", rec)
			}
			out = ""
		}
	}()
	key := slot.Item.Key()
	return renderer.Render(slot.Item, axis, func(open bool) {
		if onViewChange != nil {
			onViewChange(key, open)
		}
	})
}
