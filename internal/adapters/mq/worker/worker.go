// Package worker runs queued fixtures to completion.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/derby/internal/domain/model"
	"github.com/okian/derby/pkg/logger"
	"github.com/okian/derby/pkg/metrics"
)

const (
	cancelGrace = 5 * time.Second
)

// ErrShutdownTimeout is returned when workers were still busy at the deadline.
var ErrShutdownTimeout = errors.New("worker shutdown timed out")

// Runner plays one fixture. Errors are reported, never retried.
type Runner interface {
	Run(ctx context.Context, f model.Fixture) error
}

// Queue defines how workers receive fixtures.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Fixture
}

// InMemoryWorker pulls fixtures off the queue and plays them one at a time.
type InMemoryWorker struct {
	queue  Queue
	runner Runner
	name   string
	active *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(queue Queue, runner Runner, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		runner:   runner,
		name:     "worker",
		active:   new(atomic.Int64),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get()
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run consumes fixtures until the queue closes, ctx ends or Shutdown is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	fixtures := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case f, ok := <-fixtures:
			if !ok {
				return
			}
			if err := w.process(ctx, f); err != nil {
				w.logger.Error(ctx, "fixture failed",
					logger.String("match_id", f.MatchID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker after the current fixture.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
	}
}

// process plays a single fixture. A panicking runner only fails that fixture.
func (w *InMemoryWorker) process(ctx context.Context, f model.Fixture) (err error) { //nolint:gocritic // hugeParam: passed by value for channel semantics
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
		if r := recover(); r != nil {
			err = fmt.Errorf("runner panic: %v", r)
		}
		if err != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "run_failed")
		}
	}()

	w.logger.Debug(ctx, "fixture picked up",
		logger.String("match_id", f.MatchID),
		logger.String("fixture", f.Label()),
		logger.Duration("waited", f.Wait(start)),
	)
	return w.runner.Run(ctx, f)
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	active  atomic.Int64

	cancel context.CancelFunc
	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive count uses one worker per CPU.
func NewPool(workerCount int, queue Queue, runner Runner, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get()
	}

	for i := range workerCount {
		w := NewInMemoryWorker(queue, runner,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(p.logger),
		)
		w.active = &p.active
		p.workers[i] = w
	}
	p.logger = p.logger.Named("worker-pool")

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)

	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Active returns how many fixtures are being played right now.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Start starts all workers. Cancelling ctx aborts running matches.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue and waits for the workers to drain it. When ctx
// expires first, running matches are cancelled and given a short grace period.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	if p.wait(ctx.Done()) {
		return nil
	}

	p.logger.Warn(ctx, "shutdown deadline reached, cancelling running matches",
		logger.Int("active", p.Active()),
	)
	if p.cancel != nil {
		p.cancel()
	}
	graceCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cancelGrace)
	defer cancel()
	if !p.wait(graceCtx.Done()) {
		return ErrShutdownTimeout
	}
	return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
}

// wait blocks until every worker is done or stop fires.
func (p *Pool) wait(stop <-chan struct{}) bool {
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-stop:
			return false
		}
	}
	return true
}
