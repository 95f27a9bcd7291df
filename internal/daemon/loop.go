package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/luriusTM/Seelen-UI/internal/visibility"
)

// ErrLoopStopped is returned when work is posted to a loop that has exited.
var ErrLoopStopped = errors.New("event loop stopped")

// Loop serializes all state transitions of the daemon onto one goroutine.
type Loop struct {
	queue chan func()
	done  chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		queue: make(chan func(), 256),
		done:  make(chan struct{}),
	}
}

// Run executes posted work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post queues fn without waiting for it. It reports false once the loop has
// exited.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for its result. It must not be called
// from the loop goroutine.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if !l.Post(func() { result <- fn() }) {
		return ErrLoopStopped
	}
	select {
	case err := <-result:
		return err
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Scheduler returns a visibility scheduler whose callbacks run on the loop.
func (l *Loop) Scheduler() visibility.Scheduler {
	return visibility.SchedulerFunc(func(d time.Duration, fn func()) visibility.Timer {
		return time.AfterFunc(d, func() { l.Post(fn) })
	})
}
