package pins

import (
	"context"
	"log/slog"
	"sync"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// SaverOption configures a Saver.
type SaverOption func(*Saver)

func WithLogger(l *slog.Logger) SaverOption {
	return func(s *Saver) { s.logger = l }
}

// WithOnSaved registers a callback invoked after every write attempt.
func WithOnSaved(fn func(error)) SaverOption {
	return func(s *Saver) { s.onSaved = fn }
}

// Saver writes buckets in the background. Save never blocks: while a write
// is in flight only the most recent request is kept. Failures are logged
// and not retried; the next Save writes the full state again.
type Saver struct {
	file    *File
	logger  *slog.Logger
	onSaved func(error)

	mu      sync.Mutex
	pending *weg.Buckets
	kick    chan struct{}
}

func NewSaver(file *File, opts ...SaverOption) *Saver {
	s := &Saver{
		file:   file,
		logger: slog.Default(),
		kick:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save queues b for writing.
func (s *Saver) Save(b weg.Buckets) {
	b = b.Clone()
	s.mu.Lock()
	s.pending = &b
	s.mu.Unlock()
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run performs queued writes until ctx is cancelled, then flushes whatever
// is still pending.
func (s *Saver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.flush()
			return nil
		case <-s.kick:
			s.flush()
		}
	}
}

func (s *Saver) flush() {
	s.mu.Lock()
	b := s.pending
	s.pending = nil
	s.mu.Unlock()
	if b == nil {
		return
	}
	err := s.file.Write(*b)
	if err != nil {
		s.logger.Error("failed to save pinned items", "path", s.file.Path(), "error", err)
	} else {
		s.logger.Debug("saved pinned items", "path", s.file.Path(), "items", b.Persistable().Len())
	}
	if s.onSaved != nil {
		s.onSaved(err)
	}
}
