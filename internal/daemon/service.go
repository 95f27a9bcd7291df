package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/luriusTM/Seelen-UI/internal/config"
	"github.com/luriusTM/Seelen-UI/internal/event"
	"github.com/luriusTM/Seelen-UI/internal/pins"
	"github.com/luriusTM/Seelen-UI/internal/platform"
	"github.com/luriusTM/Seelen-UI/internal/visibility"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// FocusEvent reports a bar surface gaining or losing focus.
type FocusEvent struct {
	Monitor int
	Focused bool
}

// OverlapEvent reports a change of the overlap state of one bar.
type OverlapEvent struct {
	Monitor    int
	Overlapped bool
}

// ViewEvent reports an associated view opening or closing.
type ViewEvent struct {
	Monitor int
	ItemID  string
	Open    bool
}

// VisibilityEvent carries the new visibility state of one bar.
type VisibilityEvent struct {
	Monitor int
	State   visibility.State
}

// PinsSaver persists buckets without blocking the caller.
type PinsSaver interface {
	Save(b weg.Buckets)
}

// Options wires a Service to its collaborators. Backend is required.
type Options struct {
	Config     *config.Config
	ConfigPath string
	Backend    platform.Backend
	PinsFile   *pins.File
	Saver      PinsSaver
	Launcher   Launcher
	Initial    weg.Buckets
	NewID      func() string
	// Scheduler drives the visibility timers. Defaults to the loop scheduler.
	Scheduler visibility.Scheduler
	Logger    *slog.Logger
}

// Status summarizes the running daemon.
type Status struct {
	UptimeSeconds int64        `json:"uptime_seconds"`
	Bars          int          `json:"bars"`
	Items         int          `json:"items"`
	HideMode      weg.HideMode `json:"hide_mode"`
	ConfigPath    string       `json:"config_path,omitempty"`
	PinsPath      string       `json:"pins_path,omitempty"`
}

// Monitor describes the display a bar is attached to.
type Monitor struct {
	Index   int           `json:"index"`
	Name    string        `json:"name"`
	Primary bool          `json:"primary"`
	Bounds  platform.Rect `json:"bounds"`
}

// Service owns the item store, the settings and one bar per display. All
// state is touched only on the loop goroutine; the exported methods may be
// called from any other goroutine.
type Service struct {
	loop     *Loop
	backend  platform.Backend
	pinsFile *pins.File
	saver    PinsSaver
	launcher Launcher
	sched    visibility.Scheduler
	logger   *slog.Logger
	started  time.Time

	cfg      *config.Config
	cfgPath  string
	store    *weg.Store
	settings weg.Settings

	displays    []platform.Display
	bars        []*Bar
	windows     []platform.Window
	lastFocus   map[int]bool
	lastOverlap map[int]bool

	Settings   event.Feed[weg.Settings]
	Focus      event.Feed[FocusEvent]
	Overlap    event.Feed[OverlapEvent]
	Views      event.Feed[ViewEvent]
	Items      event.Feed[weg.Buckets]
	Visibility event.Feed[VisibilityEvent]
}

// NewService creates a service bound to loop. Call Start once the loop is
// running.
func NewService(loop *Loop, opts Options) *Service {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = loop.Scheduler()
	}
	launcher := opts.Launcher
	if launcher == nil {
		launcher = NewExecLauncher(logger)
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return fmt.Sprintf("app-%d", time.Now().UnixNano()) }
	}
	initial := opts.Initial
	if initial.Left == nil && initial.Center == nil && initial.Right == nil {
		initial = weg.DefaultBuckets()
	}

	s := &Service{
		loop:        loop,
		backend:     opts.Backend,
		pinsFile:    opts.PinsFile,
		saver:       opts.Saver,
		launcher:    launcher,
		sched:       sched,
		logger:      logger,
		started:     time.Now(),
		cfg:         cfg,
		cfgPath:     opts.ConfigPath,
		store:       weg.NewStore(initial, newID),
		settings:    cfg.Settings(),
		lastFocus:   make(map[int]bool),
		lastOverlap: make(map[int]bool),
	}

	s.Settings.Subscribe(s.onSettings)
	s.Focus.Subscribe(func(ev FocusEvent) {
		if b := s.barAt(ev.Monitor); b != nil {
			b.engine.SetFocus(ev.Focused)
		}
	})
	s.Overlap.Subscribe(func(ev OverlapEvent) {
		if b := s.barAt(ev.Monitor); b != nil {
			b.engine.SetOverlap(ev.Overlapped)
		}
	})
	s.Views.Subscribe(func(ev ViewEvent) {
		if b := s.barAt(ev.Monitor); b != nil {
			b.engine.SetViewOpen(ev.Open)
		}
	})
	return s
}

// Start creates the bars for the current displays.
func (s *Service) Start(ctx context.Context) error {
	if s.backend == nil {
		return errors.New("daemon: no window system backend")
	}
	displays, err := s.backend.Displays()
	if err != nil {
		return fmt.Errorf("failed to list displays: %w", err)
	}
	if len(displays) == 0 {
		return errors.New("no displays found")
	}
	return s.loop.Call(ctx, func() error {
		s.rebuildBars(displays)
		return nil
	})
}

// Stop cancels the visibility timers of all bars.
func (s *Service) Stop(ctx context.Context) error {
	return s.loop.Call(ctx, func() error {
		for _, b := range s.bars {
			b.stop()
		}
		return nil
	})
}

// Observe queues a window system observation.
func (s *Service) Observe(obs Observation) {
	s.loop.Post(func() { s.observe(obs) })
}

// FileChanged queues a reaction to an edit of the config or pins file.
func (s *Service) FileChanged(path string) {
	s.loop.Post(func() {
		if s.pinsFile != nil && path == s.pinsFile.Path() {
			s.reloadPins(false)
			return
		}
		if err := s.reloadConfig(); err != nil {
			s.logger.Error("config reload failed", "path", path, "error", err)
		}
	})
}

func (s *Service) Status(ctx context.Context) (Status, error) {
	var st Status
	err := s.loop.Call(ctx, func() error {
		st = Status{
			UptimeSeconds: int64(time.Since(s.started).Seconds()),
			Bars:          len(s.bars),
			Items:         s.store.Buckets().Len(),
			HideMode:      s.settings.HideMode,
			ConfigPath:    s.cfgPath,
		}
		if s.pinsFile != nil {
			st.PinsPath = s.pinsFile.Path()
		}
		return nil
	})
	return st, err
}

func (s *Service) Monitors(ctx context.Context) ([]Monitor, error) {
	var out []Monitor
	err := s.loop.Call(ctx, func() error {
		out = make([]Monitor, 0, len(s.bars))
		for _, b := range s.bars {
			out = append(out, Monitor{
				Index:   b.Monitor.Index,
				Name:    b.Display.Name,
				Primary: b.Monitor.IsPrimary,
				Bounds:  b.Display.Bounds,
			})
		}
		return nil
	})
	return out, err
}

// State returns the presented state of the bar on monitor.
func (s *Service) State(ctx context.Context, monitor int) (Snapshot, error) {
	var snap Snapshot
	err := s.loop.Call(ctx, func() error {
		b, err := s.bar(monitor)
		if err != nil {
			return err
		}
		snap = b.snapshot(s.store.Buckets(), s.settings)
		return nil
	})
	return snap, err
}

// ItemBuckets returns the raw, unprojected buckets.
func (s *Service) ItemBuckets(ctx context.Context) (weg.Buckets, error) {
	var b weg.Buckets
	err := s.loop.Call(ctx, func() error {
		b = s.store.Buckets()
		return nil
	})
	return b, err
}

// Reorder commits a drag sequence made on the bar of monitor. keys name
// items by id; "sep1" and "sep2" (or the separator ids) mark the bucket
// boundaries.
func (s *Service) Reorder(ctx context.Context, monitor int, keys []string) (weg.Buckets, weg.Report, error) {
	var (
		out    weg.Buckets
		report weg.Report
	)
	err := s.loop.Call(ctx, func() error {
		if _, err := s.bar(monitor); err != nil {
			return err
		}
		seq := make([]weg.Item, 0, len(keys))
		for _, key := range keys {
			switch key {
			case weg.Sep1Marker, weg.Separator1ID:
				seq = append(seq, weg.Separator(weg.Separator1ID))
			case weg.Sep2Marker, weg.Separator2ID:
				seq = append(seq, weg.Separator(weg.Separator2ID))
			default:
				it, ok := s.store.Item(key)
				if !ok {
					it = weg.Item{Kind: weg.KindPinned, ID: key}
				}
				seq = append(seq, it)
			}
		}
		out, report = s.store.ApplyReorder(seq)
		if !report.Clean() {
			s.logger.Warn("reorder applied with corrections", "monitor", monitor, "report", report.String())
		}
		s.itemsChanged(true)
		return nil
	})
	return out, report, err
}

// SetFocus reports focus of a bar surface driven by an external renderer.
func (s *Service) SetFocus(ctx context.Context, monitor int, focused bool) error {
	return s.loop.Call(ctx, func() error {
		if _, err := s.bar(monitor); err != nil {
			return err
		}
		s.Focus.Publish(FocusEvent{Monitor: monitor, Focused: focused})
		return nil
	})
}

// ViewChanged reports an associated view of an item opening or closing.
func (s *Service) ViewChanged(ctx context.Context, monitor int, itemID string, open bool) error {
	return s.loop.Call(ctx, func() error {
		if _, err := s.bar(monitor); err != nil {
			return err
		}
		s.Views.Publish(ViewEvent{Monitor: monitor, ItemID: itemID, Open: open})
		return nil
	})
}

// SetHideMode changes and persists the hide mode.
func (s *Service) SetHideMode(ctx context.Context, mode weg.HideMode) error {
	return s.loop.Call(ctx, func() error {
		next := s.settings
		next.HideMode = mode
		s.commitSettings(next, true)
		return nil
	})
}

// CycleHideMode advances to the next hide mode and returns it.
func (s *Service) CycleHideMode(ctx context.Context) (weg.HideMode, error) {
	var mode weg.HideMode
	err := s.loop.Call(ctx, func() error {
		next := s.settings
		next.HideMode = next.HideMode.Next()
		mode = next.HideMode
		s.commitSettings(next, true)
		return nil
	})
	return mode, err
}

// Menu builds the context menu for the current state.
func (s *Service) Menu(ctx context.Context, t weg.Translate) (weg.MenuSpec, error) {
	var spec weg.MenuSpec
	err := s.loop.Call(ctx, func() error {
		spec = weg.ContextMenu(t, weg.MenuStateFor(s.settings, s.store.Buckets()))
		return nil
	})
	return spec, err
}

// MenuAction applies an action chosen from the context menu.
func (s *Service) MenuAction(ctx context.Context, action string) error {
	a, err := weg.ParseMenuAction(action)
	if err != nil {
		return err
	}
	return s.loop.Call(ctx, func() error {
		switch a.Name {
		case weg.ActionToggleMedia:
			if err := s.store.ToggleModule(weg.KindMedia); err != nil {
				return err
			}
			s.itemsChanged(true)
			return nil
		case weg.ActionToggleStart:
			if err := s.store.ToggleModule(weg.KindStart); err != nil {
				return err
			}
			s.itemsChanged(true)
			return nil
		case weg.ActionReload:
			return s.reload()
		}
		next := s.settings
		changed, err := a.ApplySettings(&next)
		if err != nil {
			return err
		}
		if changed {
			s.commitSettings(next, true)
		}
		return nil
	})
}

// Activate focuses, minimizes or launches the item on monitor.
//
// With no windows on this bar the item is launched. When one of its windows
// is active a single window is minimized and several are cycled; otherwise
// the first window is focused.
func (s *Service) Activate(ctx context.Context, monitor int, itemID string) error {
	return s.loop.Call(ctx, func() error {
		b, err := s.bar(monitor)
		if err != nil {
			return err
		}
		it, ok := s.store.Item(itemID)
		if !ok {
			return fmt.Errorf("%w: %s", weg.ErrUnknownItem, itemID)
		}
		it = b.projector.FilterOpens(it)
		if len(it.Opens) == 0 {
			return s.launcher.Launch(it)
		}

		active, err := s.backend.ActiveWindow()
		if err != nil {
			active = 0
		}
		for i, w := range it.Opens {
			if platform.WindowID(w.ID) != active {
				continue
			}
			if len(it.Opens) == 1 {
				return s.backend.Minimize(active)
			}
			next := it.Opens[(i+1)%len(it.Opens)]
			return s.backend.Activate(platform.WindowID(next.ID))
		}
		return s.backend.Activate(platform.WindowID(it.Opens[0].ID))
	})
}

func (s *Service) Pin(ctx context.Context, itemID string) error {
	return s.loop.Call(ctx, func() error {
		if err := s.store.Pin(itemID); err != nil {
			return err
		}
		s.itemsChanged(true)
		return nil
	})
}

func (s *Service) Unpin(ctx context.Context, itemID string) error {
	return s.loop.Call(ctx, func() error {
		if err := s.store.Unpin(itemID); err != nil {
			return err
		}
		s.itemsChanged(true)
		return nil
	})
}

// Reload re-reads the configuration and the pins file.
func (s *Service) Reload(ctx context.Context) error {
	return s.loop.Call(ctx, s.reload)
}

func (s *Service) reload() error {
	if err := s.reloadConfig(); err != nil {
		return err
	}
	s.reloadPins(true)
	return nil
}

func (s *Service) reloadConfig() error {
	if s.cfgPath == "" {
		return nil
	}
	res, err := config.LoadFromPath(s.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	s.cfg = res.Config
	if next := res.Config.Settings(); next != s.settings {
		s.logger.Info("settings changed", "hide_mode", next.HideMode, "behaviour", next.Behaviour, "position", next.Position)
		s.commitSettings(next, false)
	}
	return nil
}

// reloadPins replaces the pinned layout from disk. Unless force is set, a
// file whose content matches the daemon's own last write is skipped.
func (s *Service) reloadPins(force bool) {
	if s.pinsFile == nil {
		return
	}
	if !force {
		changed, err := s.pinsFile.ChangedExternally()
		if err != nil {
			s.logger.Warn("failed to check pins file", "path", s.pinsFile.Path(), "error", err)
			return
		}
		if !changed {
			return
		}
	}
	b, err := s.pinsFile.ReadOrDefault()
	if err != nil {
		s.logger.Error("failed to read pins file", "path", s.pinsFile.Path(), "error", err)
		return
	}
	if dropped := s.store.ReplacePinned(b); len(dropped) > 0 {
		s.logger.Warn("dropped duplicate pinned items", "items", dropped)
	}
	s.logger.Info("pinned items reloaded", "path", s.pinsFile.Path())
	s.itemsChanged(false)
}

// commitSettings installs next and notifies subscribers. When persist is
// set the configuration file is rewritten.
func (s *Service) commitSettings(next weg.Settings, persist bool) {
	s.settings = next
	if persist && s.cfgPath != "" {
		s.cfg.ApplySettings(next)
		if err := s.cfg.SaveTo(s.cfgPath); err != nil {
			s.logger.Error("failed to save config", "path", s.cfgPath, "error", err)
		}
	}
	s.Settings.Publish(next)
}

func (s *Service) onSettings(next weg.Settings) {
	for _, b := range s.bars {
		b.applySettings(next)
	}
	s.updateOverlap()
}

func (s *Service) itemsChanged(persist bool) {
	raw := s.store.Buckets()
	if persist && s.saver != nil {
		s.saver.Save(raw)
	}
	s.Items.Publish(raw)
	s.updateOverlap()
}

func (s *Service) observe(obs Observation) {
	if len(obs.Displays) > 0 && !sameDisplays(obs.Displays, s.displays) {
		s.rebuildBars(obs.Displays)
	}
	s.windows = obs.Windows

	apps := GroupWindows(s.displays, obs.Windows, s.cfg.SurfaceClass)
	if s.store.SyncWindows(apps) {
		s.itemsChanged(false)
	} else {
		s.updateOverlap()
	}

	for monitor, focused := range FocusedMonitors(obs, s.cfg.SurfaceClass) {
		if prev, ok := s.lastFocus[monitor]; ok && prev == focused {
			continue
		}
		s.lastFocus[monitor] = focused
		s.Focus.Publish(FocusEvent{Monitor: monitor, Focused: focused})
	}
}

// updateOverlap recomputes the overlap of every bar against the last
// observed windows and publishes changes.
func (s *Service) updateOverlap() {
	if len(s.bars) == 0 {
		return
	}
	raw := s.store.Buckets()
	for _, b := range s.bars {
		strip := BarStrip(b.Display.Bounds, s.settings, b.projector.Project(raw).Len())
		overlapped := Overlapped(strip, s.windows, s.cfg.SurfaceClass)
		if prev, ok := s.lastOverlap[b.Monitor.Index]; ok && prev == overlapped {
			continue
		}
		s.lastOverlap[b.Monitor.Index] = overlapped
		s.Overlap.Publish(OverlapEvent{Monitor: b.Monitor.Index, Overlapped: overlapped})
	}
}

func (s *Service) rebuildBars(displays []platform.Display) {
	for _, b := range s.bars {
		b.stop()
	}
	s.displays = append([]platform.Display(nil), displays...)
	s.bars = make([]*Bar, 0, len(displays))
	s.lastFocus = make(map[int]bool)
	s.lastOverlap = make(map[int]bool)
	for i, d := range displays {
		index := i
		s.bars = append(s.bars, newBar(index, d, s.settings,
			visibility.WithScheduler(s.sched),
			visibility.WithLogger(s.logger.With("monitor", index)),
			visibility.WithOnChange(func(st visibility.State) {
				s.Visibility.Publish(VisibilityEvent{Monitor: index, State: st})
			}),
		))
	}
	s.logger.Info("bars created", "count", len(s.bars))
	s.updateOverlap()
}

func (s *Service) barAt(monitor int) *Bar {
	if monitor < 0 || monitor >= len(s.bars) {
		return nil
	}
	return s.bars[monitor]
}

func (s *Service) bar(monitor int) (*Bar, error) {
	b := s.barAt(monitor)
	if b == nil {
		return nil, fmt.Errorf("%w: %d", weg.ErrUnknownMonitor, monitor)
	}
	return b, nil
}
