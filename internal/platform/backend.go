package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the overlapping region of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Overlaps reports whether r and o share any area.
func (r Rect) Overlaps(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Center returns the midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Display describes a physical display.
type Display struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Bounds  Rect   `json:"bounds"`
	Primary bool   `json:"primary"`
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID    WindowID
	PID   int
	AppID string // WM_CLASS class
	// Instance is the WM_CLASS instance name.
	Instance string
	// Exe is the resolved executable of PID, when readable.
	Exe    string
	Title  string
	Bounds Rect
	// OnCurrentDesktop is false for windows parked on another virtual desktop.
	OnCurrentDesktop bool
	Minimized        bool
	Fullscreen       bool
	// SkipTaskbar mirrors _NET_WM_STATE_SKIP_TASKBAR.
	SkipTaskbar bool
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	ListWindows() ([]Window, error)
	Activate(windowID WindowID) error
	Minimize(windowID WindowID) error
	Close(windowID WindowID) error
}

// DisplayIndexFor returns the index in displays of the display holding the
// center of bounds. Windows whose center is off-screen fall back to the
// display they overlap most, then to 0.
func DisplayIndexFor(displays []Display, bounds Rect) int {
	cx, cy := bounds.Center()
	for i, d := range displays {
		if d.Bounds.Contains(cx, cy) {
			return i
		}
	}
	best, bestArea := 0, 0
	for i, d := range displays {
		in := d.Bounds.Intersect(bounds)
		if area := in.Width * in.Height; area > bestArea {
			best, bestArea = i, area
		}
	}
	return best
}
