package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSyncFailed marks a background reconciliation call that did not reach the
// backend. It is only ever logged.
var ErrSyncFailed = errors.New("notification sync failed")

const (
	defaultQueueSize  = 64
	defaultJobTimeout = 15 * time.Second
)

type job struct {
	name string
	run  func(ctx context.Context) error
}

// Syncer runs fire-and-forget backend calls on a single worker goroutine so
// they reach the backend in the order they were issued.
type Syncer struct {
	jobs    chan job
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.RWMutex
	closed  bool
	pending sync.WaitGroup
	done    chan struct{}
}

// NewSyncer starts the worker. A non-positive size or timeout uses the default.
func NewSyncer(size int, timeout time.Duration, logger *zap.Logger) *Syncer {
	if size <= 0 {
		size = defaultQueueSize
	}
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Syncer{
		jobs:    make(chan job, size),
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go s.loop()
	return s
}

// Enqueue schedules fn. Jobs are dropped with a warning when the queue is full
// or the syncer is closed.
func (s *Syncer) Enqueue(name string, fn func(ctx context.Context) error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.logger.Warn("sync job dropped, syncer closed", zap.String("job", name))
		return
	}
	s.pending.Add(1)
	select {
	case s.jobs <- job{name: name, run: fn}:
	default:
		s.pending.Done()
		s.logger.Warn("sync job dropped, queue full", zap.String("job", name))
	}
}

// Wait blocks until every job enqueued so far has finished.
func (s *Syncer) Wait() {
	s.pending.Wait()
}

// Close drains the queue and stops the worker.
func (s *Syncer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()
	<-s.done
}

func (s *Syncer) loop() {
	defer close(s.done)
	for j := range s.jobs {
		s.run(j)
	}
}

func (s *Syncer) run(j job) {
	defer s.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("sync job panicked", zap.String("job", j.name), zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := j.run(ctx); err != nil {
		s.logger.Warn("background sync failed",
			zap.String("job", j.name),
			zap.Error(fmt.Errorf("%w: %w", ErrSyncFailed, err)))
	}
}
