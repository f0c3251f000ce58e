package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"atena/internal/shared/logger"
)

var (
	jobTracer      = otel.Tracer("atena/scheduler")
	jobMeter       = otel.Meter("atena/scheduler")
	jobDuration, _ = jobMeter.Float64Histogram("scheduler.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _    = jobMeter.Int64Counter("scheduler.job.total", metric.WithDescription("Total jobs executed by status"))
)

// task pairs a job with the context it runs under and an optional
// completion callback
type task struct {
	ctx  context.Context
	job  Job
	done func(error)
}

// BatchResult counts the outcome of a RunBatch call
type BatchResult struct {
	Submitted int
	Succeeded int
	Failed    int
	// Abandoned jobs were still queued when the pool was stopped
	Abandoned int
}

// WorkerPool manages a pool of concurrent workers that process jobs.
type WorkerPool struct {
	workerCount int
	jobDelay    time.Duration
	jobTimeout  time.Duration
	tasks       chan task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	log         zerolog.Logger
}

// NewWorkerPool creates a new worker pool with the specified configuration.
// workerCount: number of concurrent workers (goroutines)
// jobDelay: delay between processing jobs
// jobTimeout: upper bound for a single job
// queueSize: buffer size for the job channel
func NewWorkerPool(workerCount int, jobDelay, jobTimeout time.Duration, queueSize int, log zerolog.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if jobTimeout <= 0 {
		jobTimeout = 120 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobDelay:    jobDelay,
		jobTimeout:  jobTimeout,
		tasks:       make(chan task, queueSize),
		ctx:         ctx,
		cancel:      cancel,
		log:         log,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start() {
	wp.log.Info().Int("workers", wp.workerCount).Msg("Starting worker pool")

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker processes tasks from the channel until shutdown.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	log := wp.log.With().Int("worker_id", id).Logger()
	log.Debug().Msg("Worker started")

	for {
		select {
		case <-wp.ctx.Done():
			log.Debug().Msg("Worker shutting down")
			return

		case t, ok := <-wp.tasks:
			if !ok {
				log.Debug().Msg("Job channel closed")
				return
			}

			err := wp.processJob(t.ctx, id, log, t.job)
			if t.done != nil {
				t.done(err)
			}

			if wp.jobDelay > 0 {
				select {
				case <-time.After(wp.jobDelay):
				case <-wp.ctx.Done():
					log.Debug().Msg("Worker shutting down during delay")
					return
				}
			}
		}
	}
}

// processJob executes a single job with error handling, logging, and telemetry.
func (wp *WorkerPool) processJob(parent context.Context, workerID int, log zerolog.Logger, job Job) error {
	log = log.With().Str("schedule_id", job.ScheduleID()).Logger()

	ctx, cancel := context.WithTimeout(parent, wp.jobTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
			attribute.String("job.schedule_id", job.ScheduleID()),
		),
	)
	defer span.End()

	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		jobDuration.Record(ctx, time.Since(start).Seconds())
		log.Warn().Err(err).Str("job", job.Description()).Msg("Job failed")
		return err
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	jobDuration.Record(ctx, time.Since(start).Seconds())
	log.Debug().Str("job", job.Description()).Dur("duration", time.Since(start)).Msg("Job completed")
	return nil
}

// RunBatch queues every job, waiting for room when the queue is full, and
// blocks until all of them have run, ctx is done or the pool is stopped.
// Jobs run under ctx.
func (wp *WorkerPool) RunBatch(ctx context.Context, jobs []Job) BatchResult {
	var (
		batch             sync.WaitGroup
		succeeded, failed atomic.Int64
		submitted         int
	)

	done := func(err error) {
		if err != nil {
			failed.Add(1)
		} else {
			succeeded.Add(1)
		}
		batch.Done()
	}

enqueue:
	for _, job := range jobs {
		batch.Add(1)
		select {
		case wp.tasks <- task{ctx: ctx, job: job, done: done}:
			submitted++
		case <-ctx.Done():
			batch.Done()
			break enqueue
		case <-wp.ctx.Done():
			batch.Done()
			break enqueue
		}
	}

	finished := make(chan struct{})
	go func() {
		batch.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
	case <-wp.ctx.Done():
	}

	res := BatchResult{
		Submitted: submitted,
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
	}
	res.Abandoned = len(jobs) - res.Succeeded - res.Failed
	return res
}

// Shutdown closes the queue and waits for workers to finish queued jobs.
// If they don't finish within the timeout, the pool context is cancelled.
func (wp *WorkerPool) Shutdown(timeout time.Duration) {
	wp.log.Info().Dur("timeout", timeout).Msg("Worker pool: initiating graceful shutdown")

	close(wp.tasks)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.log.Info().Msg("Worker pool: all workers finished gracefully")
	case <-time.After(timeout):
		wp.log.Warn().Msg("Worker pool: timeout reached, forcing shutdown")
	}
	wp.cancel()
}
