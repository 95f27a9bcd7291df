package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/luriusTM/Seelen-UI/internal/platform"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// Observation is one pass over the window system.
type Observation struct {
	Displays []platform.Display
	Windows  []platform.Window
	Active   platform.WindowID
}

// TrackerConfig holds configuration for the window tracker.
type TrackerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Tracker periodically lists displays and client windows and hands each
// observation to a callback. Kick forces an early pass, for example when
// the active window property changes.
type Tracker struct {
	interval time.Duration
	backend  platform.Backend
	observe  func(Observation)
	kick     chan struct{}
	logger   *slog.Logger
}

// NewTracker creates a tracker polling backend at cfg.Interval.
func NewTracker(cfg TrackerConfig, backend platform.Backend, observe func(Observation)) *Tracker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		interval: interval,
		backend:  backend,
		observe:  observe,
		kick:     make(chan struct{}, 1),
		logger:   logger,
	}
}

// Run starts the tracking loop. Blocks until context is cancelled.
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info("window tracker started", "interval", t.interval)
	t.reconcile()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("window tracker stopped")
			return nil
		case <-ticker.C:
			t.reconcile()
		case <-t.kick:
			t.reconcile()
		}
	}
}

// Kick requests an immediate pass without blocking.
func (t *Tracker) Kick() {
	select {
	case t.kick <- struct{}{}:
	default:
	}
}

// ReconcileNow performs a pass on the calling goroutine.
func (t *Tracker) ReconcileNow() {
	t.reconcile()
}

func (t *Tracker) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			t.logger.Error("tracker panic recovered", "error", err)
		}
	}()

	displays, err := t.backend.Displays()
	if err != nil {
		t.logger.Error("tracker: failed to list displays", "error", err)
		return
	}
	windows, err := t.backend.ListWindows()
	if err != nil {
		t.logger.Error("tracker: failed to list windows", "error", err)
		return
	}
	active, err := t.backend.ActiveWindow()
	if err != nil {
		t.logger.Debug("tracker: no active window", "error", err)
		active = 0
	}

	t.observe(Observation{Displays: displays, Windows: windows, Active: active})
}

// GroupWindows turns client windows into per-application groups for the
// item store. Windows are grouped by executable, falling back to the window
// class, in first-seen order. Taskbar-skipping windows, windows on other
// virtual desktops and the bar's own surfaces are left out.
func GroupWindows(displays []platform.Display, windows []platform.Window, surfaceClass string) []weg.AppWindows {
	var groups []weg.AppWindows
	byKey := make(map[string]int)
	for _, w := range windows {
		if w.SkipTaskbar || !w.OnCurrentDesktop {
			continue
		}
		if surfaceClass != "" && strings.EqualFold(w.AppID, surfaceClass) {
			continue
		}
		key := w.Exe
		if key == "" {
			key = strings.ToLower(w.AppID)
		}
		if key == "" {
			continue
		}

		opened := weg.OpenedWindow{
			ID:                  uint32(w.ID),
			Title:               w.Title,
			PresentativeMonitor: platform.DisplayIndexFor(displays, w.Bounds),
			Minimized:           w.Minimized,
		}
		if i, ok := byKey[key]; ok {
			groups[i].Windows = append(groups[i].Windows, opened)
			continue
		}

		path := w.Exe
		if path == "" {
			path = strings.ToLower(w.AppID)
		}
		identities := []string{}
		for _, id := range []string{w.AppID, w.Instance, filepath.Base(w.Exe)} {
			if id != "" && id != "." {
				identities = append(identities, id)
			}
		}
		byKey[key] = len(groups)
		groups = append(groups, weg.AppWindows{
			ExecutionCommand: w.Exe,
			Path:             path,
			Identities:       identities,
			Windows:          []weg.OpenedWindow{opened},
		})
	}
	return groups
}

// FocusedMonitors maps each display index to whether the active window is a
// bar surface on that display.
func FocusedMonitors(obs Observation, surfaceClass string) map[int]bool {
	out := make(map[int]bool, len(obs.Displays))
	for i := range obs.Displays {
		out[i] = false
	}
	if surfaceClass == "" || obs.Active == 0 {
		return out
	}
	for _, w := range obs.Windows {
		if w.ID != obs.Active {
			continue
		}
		if strings.EqualFold(w.AppID, surfaceClass) {
			out[platform.DisplayIndexFor(obs.Displays, w.Bounds)] = true
		}
		break
	}
	return out
}
