//go:build linux

package platform

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/BurntSushi/xgbutil"

	"github.com/luriusTM/Seelen-UI/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection to display ("" means $DISPLAY).
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// StopEventLoop makes EventLoop return.
func (b *LinuxBackend) StopEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// WatchRoot calls fn whenever a root window property changes.
func (b *LinuxBackend) WatchRoot(fn func(atom string)) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchRootProperties(fn)
}

// Displays returns all active displays sorted by ID.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:      m.ID,
			Name:    m.Name,
			Bounds:  Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Primary: m.Primary,
		})
	}
	sort.Slice(displays, func(i, j int) bool { return displays[i].ID < displays[j].ID })
	return displays, nil
}

// ActiveWindow returns the currently focused window.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	win, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

// ListWindows returns every normal client window across all displays.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	clients, err := conn.ClientList()
	if err != nil {
		return nil, fmt.Errorf("failed to list client windows: %w", err)
	}
	current, err := conn.GetCurrentDesktop()
	if err != nil {
		current = -1
	}

	windows := make([]Window, 0, len(clients))
	for _, c := range clients {
		windows = append(windows, Window{
			ID:               WindowID(c.ID),
			PID:              c.PID,
			AppID:            c.Class,
			Instance:         c.Instance,
			Exe:              processExe(c.PID),
			Title:            c.Title,
			Bounds:           Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height},
			OnCurrentDesktop: current < 0 || c.Desktop < 0 || c.Desktop == current,
			Minimized:        c.Hidden,
			Fullscreen:       c.Fullscreen,
			SkipTaskbar:      c.SkipTask,
		})
	}
	return windows, nil
}

// Activate focuses and raises a window, restoring it when iconified.
func (b *LinuxBackend) Activate(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(uint32(windowID))
}

// Minimize requests the window manager iconify a window.
func (b *LinuxBackend) Minimize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := conn.MinimizeWindow(uint32(windowID)); err != nil {
		return fmt.Errorf("failed to minimize window %d: %w", windowID, err)
	}
	return nil
}

// Close requests a graceful close for a window via WM_DELETE_WINDOW.
func (b *LinuxBackend) Close(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := conn.CloseWindow(uint32(windowID)); err != nil {
		return fmt.Errorf("failed to close window %d: %w", windowID, err)
	}
	return nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("linux backend is not connected")
	}
	return b.conn, nil
}

func processExe(pid int) string {
	if pid <= 0 {
		return ""
	}
	exe, err := os.Readlink("/proc/" + strconv.Itoa(pid) + "/exe")
	if err != nil {
		return ""
	}
	return exe
}
