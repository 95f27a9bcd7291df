package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// itemCells is the width of one item in terminal cells.
const itemCells = 12

var (
	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	openItemStyle = itemStyle.
			Foreground(lipgloss.Color("15")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Bold(true)

	heldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	hiddenBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// Renderers returns the terminal renderers for every item kind.
func Renderers() weg.Renderers {
	return weg.Renderers{
		weg.RendererUserApplication: weg.RendererFunc(renderApplication),
		weg.RendererFileOrFolder:    weg.RendererFunc(renderFile),
		weg.RendererMediaSession:    weg.RendererFunc(func(weg.Item, weg.Axis, func(bool)) string { return "♫ Media" }),
		weg.RendererStartMenu:       weg.RendererFunc(func(weg.Item, weg.Axis, func(bool)) string { return "◆ Start" }),
		weg.RendererSeparator:       weg.RendererFunc(func(_ weg.Item, axis weg.Axis, _ func(bool)) string { return separatorGlyph(axis) }),
	}
}

func renderApplication(it weg.Item, _ weg.Axis, _ func(bool)) string {
	label := it.DisplayName()
	switch n := len(it.Opens); {
	case n == 1:
		label += " •"
	case n > 1:
		label += fmt.Sprintf(" %d", n)
	}
	return label
}

func renderFile(it weg.Item, _ weg.Axis, _ func(bool)) string {
	return "▤ " + it.DisplayName()
}

func separatorGlyph(axis weg.Axis) string {
	if axis == weg.AxisX {
		return "│"
	}
	return "─"
}

// CellSettings rescales settings so separator extents resolve to terminal
// cells instead of pixels.
func CellSettings(s weg.Settings) weg.Settings {
	cs := s
	if s.Position.Horizontal() {
		cs.Size = itemCells
		cs.SpaceBetweenItems = 1
	} else {
		cs.Size = 1
		cs.SpaceBetweenItems = 0
	}
	return cs
}

// RenderBar draws a composed layout of length cells. cursor and held are
// slot indexes; -1 disables the highlight.
func RenderBar(l weg.Layout, length, cursor, held int) string {
	if l.Hidden {
		return hiddenBarStyle.Render("(bar hidden)")
	}
	parts := weg.RenderSlots(l, Renderers(), nil, slog.Default())

	cells := make([]string, 0, len(parts))
	for i, slot := range l.Slots {
		text := parts[i]
		if slot.Renderer == weg.RendererSeparator {
			cells = append(cells, renderSeparator(slot, l, length, i == cursor || i == held))
			continue
		}

		style := itemStyle
		if len(slot.Item.Opens) > 0 {
			style = openItemStyle
		}
		switch i {
		case held:
			style = heldStyle
		case cursor:
			style = cursorStyle
		}
		if l.Horizontal {
			cells = append(cells, style.Render(fit(text, itemCells)))
			cells = append(cells, " ")
		} else {
			cells = append(cells, style.Render(fit(text, itemCells)))
		}
	}

	if l.Horizontal {
		return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cells...)
}

func renderSeparator(slot weg.Slot, l weg.Layout, length int, marked bool) string {
	extent := 1
	if slot.Extent != nil {
		extent = slot.Extent.Pixels(length)
	}
	if extent < 1 {
		extent = 1
	}
	glyph := " "
	if slot.Visible || marked {
		glyph = separatorGlyph(l.Axis)
	}
	style := separatorStyle
	if marked {
		style = cursorStyle
	}
	if l.Horizontal {
		// The glyph sits in the middle of the spacer.
		left := (extent - 1) / 2
		return strings.Repeat(" ", left) + style.Render(glyph) + strings.Repeat(" ", extent-1-left)
	}
	lines := make([]string, extent)
	for i := range lines {
		lines[i] = strings.Repeat(" ", itemCells)
	}
	lines[(extent-1)/2] = style.Render(strings.Repeat(glyph, itemCells))
	return strings.Join(lines, "\n")
}

// fit pads or truncates s to exactly n cells.
func fit(s string, n int) string {
	if runewidth.StringWidth(s) > n {
		s = runewidth.Truncate(s, n, "…")
	}
	pad := max(n-runewidth.StringWidth(s), 0)
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}
