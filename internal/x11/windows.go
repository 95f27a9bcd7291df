package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Client describes a managed top-level window.
type Client struct {
	ID         xproto.Window
	PID        int
	Class      string
	Instance   string
	Title      string
	X          int
	Y          int
	Width      int
	Height     int
	Desktop    int // -1 when sticky or unknown
	Hidden     bool
	Fullscreen bool
	SkipTask   bool
}

// ClientList returns the normal windows in _NET_CLIENT_LIST order.
func (c *Connection) ClientList() ([]Client, error) {
	ids, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, err
	}
	out := make([]Client, 0, len(ids))
	for _, id := range ids {
		if !c.IsNormalWindow(id) {
			continue
		}
		x, y, w, h, ok := c.WindowGeometry(id)
		if !ok {
			continue
		}
		cl := Client{
			ID:      id,
			Title:   c.WindowTitle(id),
			X:       x,
			Y:       y,
			Width:   w,
			Height:  h,
			Desktop: -1,
		}
		if class, err := icccm.WmClassGet(c.XUtil, id); err == nil {
			cl.Class = strings.TrimSpace(class.Class)
			cl.Instance = strings.TrimSpace(class.Instance)
		}
		if pid, err := ewmh.WmPidGet(c.XUtil, id); err == nil {
			cl.PID = int(pid)
		}
		if desktop, err := c.GetWindowDesktop(uint32(id)); err == nil {
			cl.Desktop = desktop
		}
		if states, err := ewmh.WmStateGet(c.XUtil, id); err == nil {
			for _, state := range states {
				switch state {
				case "_NET_WM_STATE_HIDDEN":
					cl.Hidden = true
				case "_NET_WM_STATE_FULLSCREEN":
					cl.Fullscreen = true
				case "_NET_WM_STATE_SKIP_TASKBAR":
					cl.SkipTask = true
				}
			}
		}
		out = append(out, cl)
	}
	return out, nil
}

// WindowGeometry returns the window rectangle in root coordinates.
func (c *Connection) WindowGeometry(id xproto.Window) (x, y, width, height int, ok bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), id, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}
	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), true
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(id xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, id); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, id); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// Untyped windows are treated as normal.
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}
	return len(types) == 0
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// MinimizeWindow iconifies a window via WM_CHANGE_STATE.
func (c *Connection) MinimizeWindow(windowID uint32) error {
	const iconicState = 3
	return c.sendRootMessage("WM_CHANGE_STATE", windowID, []uint32{iconicState, 0, 0, 0, 0})
}

// CloseWindow requests a graceful close via WM_DELETE_WINDOW.
func (c *Connection) CloseWindow(windowID uint32) error {
	deleteAtom, err := c.atom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	protocols, err := c.atom("WM_PROTOCOLS")
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(windowID),
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		xproto.Window(windowID),
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}
