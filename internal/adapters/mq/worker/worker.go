// Package worker runs the export workers that drain the job queue and push
// archived games to the external sync backend.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/quizroyalty/scorekeep/internal/adapters/mq/queue"
	"github.com/quizroyalty/scorekeep/pkg/logger"
	"github.com/quizroyalty/scorekeep/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 2
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = queue.Job

// Exporter pushes one archived game to the external sync backend.
type Exporter interface {
	Export(ctx context.Context, job Job) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker drains jobs and hands them to the exporter.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will finish the job in flight before stopping.
	Shutdown(ctx context.Context) error
}

// ExportWorker implements Worker over an Exporter.
type ExportWorker struct {
	queue    Queue
	exporter Exporter
	name     string

	// Shutdown control
	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewExportWorker creates a new worker with configuration options.
func NewExportWorker(q Queue, exporter Exporter, opts ...Option) *ExportWorker {
	w := &ExportWorker{
		queue:    q,
		exporter: exporter,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *ExportWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "export failed",
					logger.String("game_id", job.Game.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *ExportWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob exports a single archived game.
func (w *ExportWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	err := w.exporter.Export(ctx, job)
	latency := time.Since(start).Milliseconds()
	metrics.RecordWorkerProcessingLatency(float64(latency))
	metrics.RecordExportLatency(float64(latency))

	if err != nil {
		metrics.RecordExportError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "export_error")
		metrics.RecordErrorByType("export_error", "high")
		return fmt.Errorf("export game %s: %w", job.Game.ID, err)
	}

	metrics.RecordGameExported()
	w.logger.Debug(ctx, "game exported",
		logger.String("game_id", job.Game.ID),
		logger.Int("rows", len(job.Rows)),
	)
	return nil
}

// Pool manages multiple export workers.
type Pool struct {
	workers  []*ExportWorker
	queue    Queue
	exporter Exporter

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, exporter Exporter) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers:  make([]*ExportWorker, workerCount),
		queue:    q,
		exporter: exporter,
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewExportWorker(
			q,
			exporter,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop stops all workers without draining the queue.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker stop timed out", logger.Error(err))
		}
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActiveCount(0)
	return nil
}
