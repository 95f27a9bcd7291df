// Package visibility implements the auto-hide state machine of a bar.
//
// The immediate hidden flag is derived from the hide mode, focus, overlap
// and the associated-view counter. The delayed flag trails it: on overlap it
// turns on only after DefaultDelay without another evaluation, so a window
// briefly crossing the bar does not make it slide away.
package visibility

import (
	"log/slog"
	"sync"
	"time"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// DefaultDelay is how long an overlap must persist before the delayed flag
// is set.
const DefaultDelay = 300 * time.Millisecond

// State is a snapshot of one bar's visibility.
type State struct {
	HideMode   weg.HideMode `json:"hide_mode"`
	Active     bool         `json:"active"`
	Overlapped bool         `json:"overlapped"`
	Views      int          `json:"views"`
	Hidden     bool         `json:"hidden"`
	Delayed    bool         `json:"delayed"`
}

// Option configures an Engine.
type Option func(*Engine)

func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

func WithDelay(d time.Duration) Option {
	return func(e *Engine) { e.delay = d }
}

// WithOnChange registers a callback invoked with the new state whenever it
// changes. The callback runs without the engine lock held.
func WithOnChange(fn func(State)) Option {
	return func(e *Engine) { e.onChange = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine is the visibility state machine for one bar instance.
type Engine struct {
	mu sync.Mutex

	mode       weg.HideMode
	active     bool
	overlapped bool
	delayed    bool
	views      Counter

	sched    Scheduler
	delay    time.Duration
	timer    Timer
	timerID  uint64
	onChange func(State)
	logger   *slog.Logger

	last State
}

// NewEngine creates an engine in the given hide mode and runs the initial
// evaluation.
func NewEngine(mode weg.HideMode, opts ...Option) *Engine {
	e := &Engine{
		mode:   mode,
		sched:  WallClock,
		delay:  DefaultDelay,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.mu.Lock()
	e.evaluateLocked()
	e.last = e.stateLocked()
	e.mu.Unlock()
	return e
}

// SetFocus records a focus change. Gaining focus also resets the
// associated-view counter.
func (e *Engine) SetFocus(focused bool) {
	e.update(func() {
		e.active = focused
		if focused {
			e.views.Reset()
		}
	})
}

// SetOverlap records the overlap state. The delayed flag is re-evaluated
// only when the value actually changes.
func (e *Engine) SetOverlap(overlapped bool) {
	e.update(func() {
		if e.overlapped == overlapped {
			return
		}
		e.overlapped = overlapped
		e.evaluateLocked()
	})
}

// SetHideMode applies a settings change. Every call re-evaluates the
// delayed flag, even when the mode is unchanged.
func (e *Engine) SetHideMode(mode weg.HideMode) {
	e.update(func() {
		e.mode = mode
		e.evaluateLocked()
	})
}

// ViewOpened increments the associated-view counter.
func (e *Engine) ViewOpened() {
	e.update(func() { e.views.Increment() })
}

// ViewClosed decrements the associated-view counter. Closing with no open
// views is ignored.
func (e *Engine) ViewClosed() {
	e.update(func() {
		if !e.views.DecrementSaturating() {
			e.logger.Debug("ignored stale associated view close")
		}
	})
}

// SetViewOpen dispatches a renderer open/close report.
func (e *Engine) SetViewOpen(open bool) {
	if open {
		e.ViewOpened()
		return
	}
	e.ViewClosed()
}

// Hidden returns the immediate hidden flag.
func (e *Engine) Hidden() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hiddenLocked()
}

// Delayed returns the trailing delayed flag.
func (e *Engine) Delayed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.delayed
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Stop cancels any pending timer.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTimerLocked()
}

func (e *Engine) hiddenLocked() bool {
	if e.active || e.views.Value() > 0 {
		return false
	}
	switch e.mode {
	case weg.HideAlways:
		return true
	case weg.HideOnOverlap:
		return e.overlapped
	default:
		return false
	}
}

func (e *Engine) stateLocked() State {
	return State{
		HideMode:   e.mode,
		Active:     e.active,
		Overlapped: e.overlapped,
		Views:      e.views.Value(),
		Hidden:     e.hiddenLocked(),
		Delayed:    e.delayed,
	}
}

// evaluateLocked recomputes the delayed flag. Any pending timer belongs to
// a superseded evaluation and is cancelled first.
func (e *Engine) evaluateLocked() {
	e.cancelTimerLocked()
	switch {
	case e.mode == weg.HideAlways:
		e.delayed = true
	case e.mode == weg.HideOnOverlap && e.overlapped:
		e.armTimerLocked()
	default:
		e.delayed = false
	}
}

func (e *Engine) armTimerLocked() {
	e.timerID++
	timerID := e.timerID
	e.timer = e.sched.AfterFunc(e.delay, func() {
		e.update(func() {
			if e.timer == nil || e.timerID != timerID {
				return
			}
			e.timer = nil
			e.delayed = true
		})
	})
}

func (e *Engine) cancelTimerLocked() {
	// Bumping the id invalidates a callback that already fired but has not
	// yet taken the lock.
	e.timerID++
	if e.timer == nil {
		return
	}
	e.timer.Stop()
	e.timer = nil
}

// update applies fn under the lock and notifies onChange if the observable
// state changed.
func (e *Engine) update(fn func()) {
	e.mu.Lock()
	fn()
	next := e.stateLocked()
	changed := next != e.last
	e.last = next
	onChange := e.onChange
	e.mu.Unlock()

	if changed && onChange != nil {
		onChange(next)
	}
}
