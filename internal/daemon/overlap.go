package daemon

import (
	"strings"

	"github.com/luriusTM/Seelen-UI/internal/platform"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// BarStrip returns the screen rectangle a bar occupies on its display.
// In min-content mode the strip is centered and sized to its items.
func BarStrip(display platform.Rect, s weg.Settings, items int) platform.Rect {
	size := max(s.Size, 0)
	horizontal := s.Position.Horizontal()
	edge := display.Width
	if !horizontal {
		edge = display.Height
	}

	length := edge
	if s.Mode != weg.ModeFullWidth {
		length = min(items*(s.Size+s.SpaceBetweenItems)+s.SpaceBetweenItems, edge)
	}
	offset := (edge - length) / 2

	switch s.Position {
	case weg.PositionTop:
		return platform.Rect{X: display.X + offset, Y: display.Y, Width: length, Height: size}
	case weg.PositionLeft:
		return platform.Rect{X: display.X, Y: display.Y + offset, Width: size, Height: length}
	case weg.PositionRight:
		return platform.Rect{X: display.X + display.Width - size, Y: display.Y + offset, Width: size, Height: length}
	default:
		return platform.Rect{X: display.X + offset, Y: display.Y + display.Height - size, Width: length, Height: size}
	}
}

// Overlapped reports whether any visible application window covers part of
// the strip. Windows of the bar surface itself are ignored.
func Overlapped(strip platform.Rect, windows []platform.Window, surfaceClass string) bool {
	for _, w := range windows {
		if !w.OnCurrentDesktop || w.Minimized {
			continue
		}
		if surfaceClass != "" && strings.EqualFold(w.AppID, surfaceClass) {
			continue
		}
		if strip.Overlaps(w.Bounds) {
			return true
		}
	}
	return false
}
