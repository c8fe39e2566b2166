// Package app is the match service behind the HTTP API and the CLI: it
// manages rosters, schedules fixtures onto the worker pool and keeps track
// of every match it has run.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/okian/derby/internal/adapters/feed"
	"github.com/okian/derby/internal/adapters/mq/queue"
	"github.com/okian/derby/internal/adapters/mq/worker"
	"github.com/okian/derby/internal/adapters/repository"
	"github.com/okian/derby/internal/domain/dedupe"
	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/pkg/logger"
	"github.com/okian/derby/pkg/metrics"
)

const (
	defaultQueueSize       = 1000
	defaultMaxMatches      = 1000
	defaultIdempotencyKeys = 10_000
)

// Service implements the dependencies of the HTTP API.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	queue    *queue.InMemoryQueue
	pool     *worker.Pool
	buffer   *feed.Buffer
	registry *registry
	runner   *Runner
	keys     dedupe.Index

	// pending holds matches whose idempotency key is claimed but which are
	// not yet registered. The channel closes once the request settles.
	pendingMu sync.Mutex
	pending   map[string]chan struct{}

	workerCount int
	queueSize   int
	maxMatches  int
	matchLength int
	maxKeys     int
	sinks       []feed.Sink
	runnerOpts  []RunnerOption

	started bool
	logger  logger.Logger
}

// New constructs a Service. Call Start before scheduling matches.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		maxMatches:  defaultMaxMatches,
		matchLength: match.DefaultLength,
		maxKeys:     defaultIdempotencyKeys,
		pending:     make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.keys = dedupe.NewInMemoryIndex(dedupe.WithMaxSize(s.maxKeys))
	return s
}

// Start builds the queue, the feed and the worker pool. The context only
// carries values; matches stop when Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting match service...")

	s.buffer = feed.NewBuffer()
	sinks := append(feed.Fanout{s.buffer, feed.NewLogSink(s.logger)}, s.sinks...)
	s.registry = newRegistry(s.maxMatches, s.buffer.Forget)

	runnerOpts := append([]RunnerOption{
		WithTracker(s.registry),
		WithRunnerLogger(s.logger),
	}, s.runnerOpts...)
	s.runner = NewRunner(sinks, runnerOpts...)

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.runner, worker.WithPoolLogger(s.logger))
	s.pool.Start(context.WithoutCancel(ctx))

	metrics.UpdateTeamsTotal(s.store.Count(ctx))

	s.started = true
	s.logger.Info(ctx, "match service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("matchLength", s.matchLength),
	)
	return nil
}

// Stop drains the queue, waiting for running matches until ctx expires, and
// closes the roster store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping match service...")

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("worker pool: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("roster store: %w", err))
	}

	s.started = false
	s.logger.Info(ctx, "match service stopped")
	return errors.Join(errs...)
}

// Started reports whether the service accepts matches.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"matchLength": s.matchLength,
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["activeMatches"] = s.pool.Active()
		stats["teams"] = s.store.Count(ctx)
		stats["idempotencyKeys"] = s.keys.Size()
		byStatus := map[string]int{}
		for status, n := range s.registry.counts() {
			byStatus[string(status)] = n
		}
		stats["matches"] = byStatus
	}
	return stats
}
