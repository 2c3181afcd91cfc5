// Package audit dispatches audit entries off the request path.
package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/audit"
)

// Dispatch outcomes reported to the Observer
const (
	OutcomeWritten = "written"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

// ErrClosed is returned by Log after Close has been called
var ErrClosed = errors.New("audit sink closed")

// Observer is told the outcome of every entry handed to the sink
type Observer interface {
	AuditDispatched(outcome string)
}

type noopObserver struct{}

func (noopObserver) AuditDispatched(string) {}

// Config sizes the dispatcher
type Config struct {
	QueueSize    int
	Workers      int
	WriteTimeout time.Duration
}

type job struct {
	ctx   context.Context
	entry audit.Entry
}

// AsyncSink is an audit.Sink that queues entries on a bounded channel and
// writes them to the next sink from a fixed pool of workers. A full queue
// drops the entry with a warning.
type AsyncSink struct {
	next         audit.Sink
	queue        chan job
	writeTimeout time.Duration
	logger       *zap.Logger
	observer     Observer

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAsyncSink starts the workers. Zero values in cfg fall back to one
// worker, a 256 entry queue and a 5s write timeout.
func NewAsyncSink(next audit.Sink, cfg Config, logger *zap.Logger) *AsyncSink {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &AsyncSink{
		next:         next,
		queue:        make(chan job, cfg.QueueSize),
		writeTimeout: cfg.WriteTimeout,
		logger:       logger.Named("audit"),
		observer:     noopObserver{},
	}
	s.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go s.worker()
	}
	return s
}

// WithObserver sets the outcome observer. Call before the first Log.
func (s *AsyncSink) WithObserver(o Observer) *AsyncSink {
	if o != nil {
		s.observer = o
	}
	return s
}

// Log enqueues e without blocking. The request context's values are kept
// but its cancellation is not, so the write survives the response.
func (s *AsyncSink) Log(ctx context.Context, e audit.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	select {
	case s.queue <- job{ctx: context.WithoutCancel(ctx), entry: e}:
		return nil
	default:
		s.observer.AuditDispatched(OutcomeDropped)
		s.logger.Warn("audit queue full, dropping entry",
			zap.String("audit_id", e.ID),
			zap.String("action", e.Action),
			zap.String("resource", e.Resource),
			zap.Int64("resource_id", e.ResourceID),
		)
		return nil
	}
}

// Close stops accepting entries and waits for queued ones to be written.
// It returns ctx.Err() if ctx ends before the queue drains.
func (s *AsyncSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("audit queue not drained before shutdown", zap.Int("pending", len(s.queue)))
		return ctx.Err()
	}
}

func (s *AsyncSink) worker() {
	defer s.wg.Done()
	for j := range s.queue {
		s.dispatch(j)
	}
}

func (s *AsyncSink) dispatch(j job) {
	defer func() {
		if r := recover(); r != nil {
			s.observer.AuditDispatched(OutcomeFailed)
			s.logger.Error("audit sink panicked",
				zap.String("audit_id", j.entry.ID),
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(j.ctx, s.writeTimeout)
	defer cancel()

	if err := s.next.Log(ctx, j.entry); err != nil {
		s.observer.AuditDispatched(OutcomeFailed)
		s.logger.Warn("audit write failed",
			zap.String("audit_id", j.entry.ID),
			zap.String("action", j.entry.Action),
			zap.Int64("resource_id", j.entry.ResourceID),
			zap.Error(err),
		)
		return
	}
	s.observer.AuditDispatched(OutcomeWritten)
}

var _ audit.Sink = (*AsyncSink)(nil)
