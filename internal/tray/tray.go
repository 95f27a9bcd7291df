// Package tray shows the bar context menu in the system tray. Menu clicks
// are forwarded to the daemon as menu actions.
package tray

import (
	"log/slog"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/luriusTM/Seelen-UI/internal/i18n"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// Daemon is the IPC surface the tray needs.
type Daemon interface {
	GetMenu(language string) (weg.MenuSpec, error)
	MenuAction(action string) error
}

// Options configures Run.
type Options struct {
	Language string
	// Refresh is how often checked states are re-read from the daemon.
	Refresh time.Duration
	Logger  *slog.Logger
}

type tray struct {
	daemon Daemon
	opts   Options
	logger *slog.Logger

	mu    sync.Mutex
	items map[string]*systray.MenuItem
	quit  chan struct{}
}

// Run shows the tray icon and blocks until the user quits or Quit is called.
// It must be called from the main goroutine.
func Run(d Daemon, opts Options) {
	if opts.Refresh <= 0 {
		opts.Refresh = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	t := &tray{
		daemon: d,
		opts:   opts,
		logger: logger,
		items:  make(map[string]*systray.MenuItem),
		quit:   make(chan struct{}),
	}
	systray.Run(t.onReady, t.onExit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func (t *tray) onReady() {
	systray.SetIcon(iconData())
	systray.SetTitle("weg")
	systray.SetTooltip("SeelenWeg")

	spec, err := t.daemon.GetMenu(t.opts.Language)
	if err != nil {
		t.logger.Error("failed to load tray menu", "error", err)
		header := systray.AddMenuItem("Daemon not running", "")
		header.Disable()
	} else {
		t.build(spec.Items, nil)
	}

	systray.AddSeparator()
	quitItem := systray.AddMenuItem(i18n.Translator(t.opts.Language)("weg.tray.quit"), "Close the tray icon")
	go func() {
		select {
		case <-quitItem.ClickedCh:
			systray.Quit()
		case <-t.quit:
		}
	}()

	go t.refreshLoop()
}

func (t *tray) onExit() {
	close(t.quit)
}

// build adds items under parent, or at the top level when parent is nil.
func (t *tray) build(items []weg.MenuItem, parent *systray.MenuItem) {
	for _, it := range items {
		if it.Separator {
			if parent == nil {
				systray.AddSeparator()
			}
			continue
		}

		var mi *systray.MenuItem
		if parent == nil {
			mi = systray.AddMenuItem(it.Label, "")
		} else {
			mi = parent.AddSubMenuItem(it.Label, "")
		}
		if it.Checked {
			mi.Check()
		}

		t.mu.Lock()
		t.items[it.Key] = mi
		t.mu.Unlock()

		if len(it.Children) > 0 {
			t.build(it.Children, mi)
			continue
		}
		if it.Action != "" {
			go t.listen(mi, it.Action)
		}
	}
}

func (t *tray) listen(mi *systray.MenuItem, action string) {
	for {
		select {
		case <-mi.ClickedCh:
			t.logger.Debug("tray menu action", "action", action)
			if err := t.daemon.MenuAction(action); err != nil {
				t.logger.Warn("tray menu action failed", "action", action, "error", err)
				continue
			}
			t.refresh()
		case <-t.quit:
			return
		}
	}
}

func (t *tray) refreshLoop() {
	ticker := time.NewTicker(t.opts.Refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.refresh()
		case <-t.quit:
			return
		}
	}
}

// refresh re-reads the menu and syncs labels and check marks.
func (t *tray) refresh() {
	spec, err := t.daemon.GetMenu(t.opts.Language)
	if err != nil {
		t.logger.Debug("tray refresh failed", "error", err)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for key, st := range menuStates(spec) {
		mi, ok := t.items[key]
		if !ok {
			continue
		}
		mi.SetTitle(st.Label)
		if st.Checked && !mi.Checked() {
			mi.Check()
		} else if !st.Checked && mi.Checked() {
			mi.Uncheck()
		}
	}
}

type itemState struct {
	Label   string
	Checked bool
}

// menuStates flattens spec into the label and check state of every keyed
// entry.
func menuStates(spec weg.MenuSpec) map[string]itemState {
	out := make(map[string]itemState)
	var walk func(items []weg.MenuItem)
	walk = func(items []weg.MenuItem) {
		for _, it := range items {
			if it.Separator || it.Key == "" {
				continue
			}
			out[it.Key] = itemState{Label: it.Label, Checked: it.Checked}
			walk(it.Children)
		}
	}
	walk(spec.Items)
	return out
}
