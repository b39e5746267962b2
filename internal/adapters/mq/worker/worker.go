// Package worker runs the symbol resolution loop over queued jobs.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/genemap/genemap/internal/domain/model"
	"github.com/genemap/genemap/pkg/logger"
	"github.com/genemap/genemap/pkg/metrics"
)

// Default worker configuration constants.
const (
	// Resolution is sequential by default to stay friendly to the
	// upstream rate limits; raise worker_count deliberately.
	defaultWorkerCount = 1

	poolShutdownTimeout = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.SymbolJob

// Resolver decides what a symbol maps to.
type Resolver interface {
	Resolve(ctx context.Context, symbol string) (model.Resolution, error)
}

// Recorder receives each job's outcome. Implementations must be safe
// for concurrent use when the pool runs more than one worker.
type Recorder interface {
	Record(ctx context.Context, job Job, res model.Resolution)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until its input is exhausted or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for resolving symbols.
type InMemoryWorker struct {
	queue    Queue
	resolver Resolver
	recorder Recorder
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(queue Queue, resolver Resolver, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		resolver: resolver,
		recorder: recorder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn("shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process resolves a single job. Lookup failures become unresolved
// entries so one bad symbol never aborts the batch.
func (w *InMemoryWorker) process(ctx context.Context, job Job) {
	res, err := w.resolver.Resolve(ctx, job.Symbol)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordUnresolved("lookup failed")
		w.logger.Error("resolution failed",
			logger.String("symbol", job.Symbol),
			logger.Error(err))
		res = model.Resolution{Symbol: job.Symbol, Reason: err.Error()}
	}
	w.recorder.Record(ctx, job, res)
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers.
func NewPool(workerCount int, queue Queue, resolver Resolver, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			resolver,
			recorder,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has drained its input and stopped.
func (p *Pool) Wait(ctx context.Context) error {
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Shutdown gracefully shuts down the entire pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.shutdown:
		default:
			close(w.shutdown)
		}
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn("worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
