package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/platform"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// Preview writes a static rendering of one bar: a summary line, the
// monitor outline with the bar strip, and the bar itself.
func Preview(w io.Writer, snap daemon.Snapshot, width int) error {
	if width < 20 {
		width = 20
	}
	lines := []string{summarizeBar(snap), ""}
	lines = append(lines, renderScreen(snap.Bounds, snap.Strip, width, width/4)...)
	lines = append(lines, "")

	s := snap.Settings
	length := width
	if !s.Position.Horizontal() {
		length = snap.Items.Len() * 2
	}
	p := weg.Presentation{Hidden: snap.Visibility.Hidden, Delayed: snap.Visibility.Delayed}
	lines = append(lines, RenderBar(layoutFor(weg.Flatten(snap.Items), s, p), length, -1, -1))

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func summarizeBar(snap daemon.Snapshot) string {
	name := snap.Name
	if name == "" {
		name = fmt.Sprintf("#%d", snap.Monitor.Index)
	}
	if snap.Monitor.IsPrimary {
		name += " (primary)"
	}
	s := snap.Settings
	state := "shown"
	switch {
	case snap.Visibility.Delayed:
		state = "hiding"
	case snap.Visibility.Hidden:
		state = "hidden"
	}
	return fmt.Sprintf("%s • %d×%d • %s • hide %s • %s • %d items",
		name, snap.Bounds.Width, snap.Bounds.Height, s.Position, s.HideMode, state, snap.Items.Len())
}

// renderScreen draws the monitor outline scaled to width×height cells with
// the bar strip filled in.
func renderScreen(bounds, strip platform.Rect, width, height int) []string {
	if height < 4 {
		height = 4
	}
	canvas := make([][]rune, height)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat(" ", width))
	}
	drawBorder(canvas, width, height)

	if bounds.Width > 0 && bounds.Height > 0 && strip.Width > 0 && strip.Height > 0 {
		innerW, innerH := width-2, height-2
		x0 := 1 + (strip.X-bounds.X)*innerW/bounds.Width
		y0 := 1 + (strip.Y-bounds.Y)*innerH/bounds.Height
		x1 := 1 + (strip.X-bounds.X+strip.Width)*innerW/bounds.Width
		y1 := 1 + (strip.Y-bounds.Y+strip.Height)*innerH/bounds.Height
		// A strip is never thinner than one cell.
		if x1 <= x0 {
			x1 = x0 + 1
		}
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for y := max(y0, 1); y < min(y1, height-1); y++ {
			for x := max(x0, 1); x < min(x1, width-1); x++ {
				canvas[y][x] = '█'
			}
		}
	}

	out := make([]string, height)
	for y := range canvas {
		out[y] = string(canvas[y])
	}
	return out
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '─'
		canvas[height-1][x] = '─'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '│'
		canvas[y][width-1] = '│'
	}
	canvas[0][0] = '┌'
	canvas[0][width-1] = '┐'
	canvas[height-1][0] = '└'
	canvas[height-1][width-1] = '┘'
}
