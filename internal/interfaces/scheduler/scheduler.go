package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"atena/internal/domain/calendar"
	"atena/internal/domain/recurring"
)

var (
	cycleTotal, _     = jobMeter.Int64Counter("scheduler.cycle.total", metric.WithDescription("Scheduler cycles by status"))
	generatedTotal, _ = jobMeter.Int64Counter("recurring.generated.total", metric.WithDescription("Transactions generated by recurring schedules"))
)

var (
	ErrCycleRunning = errors.New("a scheduler cycle is already running")
	ErrLeaseHeld    = errors.New("scheduler lease is held by another process")
	ErrStopped      = errors.New("scheduler is stopped")
)

// Clock returns the current instant
type Clock func() time.Time

// Lease guards a cycle across processes
type Lease interface {
	Acquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error)
}

// ScheduleSource lists every schedule to evaluate
type ScheduleSource interface {
	List(ctx context.Context) ([]*recurring.Schedule, error)
}

// Config holds configuration for the scheduler.
type Config struct {
	Interval     time.Duration
	WorkerCount  int
	QueueSize    int
	JobDelay     time.Duration
	JobTimeout   time.Duration
	CycleTimeout time.Duration
	RunOnStartup bool
	// Location decides which calendar day "today" is
	Location *time.Location
	Clock    Clock
	// Lease is optional; without it cycles are only serialized in-process
	Lease  Lease
	Logger zerolog.Logger
}

// Failure is a schedule that could not be evaluated in a cycle
type Failure struct {
	ScheduleID string `json:"scheduleId"`
	Error      string `json:"error"`
}

// CycleSummary reports one run over all schedules
type CycleSummary struct {
	Cycle     int64      `json:"cycle"`
	Today     civil.Date `json:"today"`
	StartedAt time.Time  `json:"startedAt"`
	Duration  string     `json:"duration"`
	Schedules int        `json:"schedules"`
	Generated int        `json:"generated"`
	Skipped   int        `json:"skipped"`
	Conflicts int        `json:"conflicts"`
	Failed    int        `json:"failed"`
	Abandoned int        `json:"abandoned"`
	Failures  []Failure  `json:"failures"`
}

// Scheduler periodically ticks every recurring schedule.
type Scheduler struct {
	cfg        Config
	schedules  ScheduleSource
	engine     Ticker
	workerPool *WorkerPool
	log        zerolog.Logger

	// cycleMu serializes cycles within the process
	cycleMu  sync.Mutex
	poolOnce sync.Once
	cycles   atomic.Int64
	stopped  atomic.Bool

	loopCtx    context.Context
	loopCancel context.CancelFunc
	runCtx     context.Context
	runCancel  context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a new scheduler with the given configuration.
func New(cfg Config, schedules ScheduleSource, engine Ticker) (*Scheduler, error) {
	if schedules == nil || engine == nil {
		return nil, fmt.Errorf("scheduler requires a schedule source and an engine")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = 5 * time.Minute
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	log := cfg.Logger.With().Str("component", "scheduler").Logger()
	loopCtx, loopCancel := context.WithCancel(context.Background())
	runCtx, runCancel := context.WithCancel(context.Background())

	return &Scheduler{
		cfg:        cfg,
		schedules:  schedules,
		engine:     engine,
		workerPool: NewWorkerPool(cfg.WorkerCount, cfg.JobDelay, cfg.JobTimeout, cfg.QueueSize, log),
		log:        log,
		loopCtx:    loopCtx,
		loopCancel: loopCancel,
		runCtx:     runCtx,
		runCancel:  runCancel,
	}, nil
}

// Start launches the worker pool and the scheduling loop.
func (s *Scheduler) Start() {
	s.log.Info().
		Dur("interval", s.cfg.Interval).
		Str("timezone", s.cfg.Location.String()).
		Bool("run_on_startup", s.cfg.RunOnStartup).
		Msg("Starting scheduler")

	s.StartWorkers()

	s.wg.Add(1)
	go s.scheduleLoop()
}

// StartWorkers launches only the worker pool. Cycles then run solely
// through RunNow.
func (s *Scheduler) StartWorkers() {
	s.poolOnce.Do(s.workerPool.Start)
}

// Today returns the current calendar day in the configured location
func (s *Scheduler) Today() civil.Date {
	return calendar.Today(s.cfg.Clock(), s.cfg.Location)
}

func (s *Scheduler) scheduleLoop() {
	defer s.wg.Done()

	if s.cfg.RunOnStartup {
		s.runScheduled()
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.loopCtx.Done():
			s.log.Info().Msg("Scheduler loop stopped")
			return
		case <-ticker.C:
			s.runScheduled()
		}
	}
}

// runScheduled runs a cycle from the loop, where failures are only logged
func (s *Scheduler) runScheduled() {
	if _, err := s.RunNow(s.runCtx); err != nil {
		switch {
		case errors.Is(err, ErrLeaseHeld), errors.Is(err, ErrCycleRunning):
			s.log.Debug().Err(err).Msg("Skipping scheduler cycle")
		default:
			s.log.Error().Err(err).Msg("Scheduler cycle failed")
		}
	}
}

// RunNow runs one cycle synchronously. It fails fast with ErrCycleRunning
// when another cycle is in progress in this process.
func (s *Scheduler) RunNow(ctx context.Context) (*CycleSummary, error) {
	if s.stopped.Load() {
		return nil, ErrStopped
	}
	if !s.cycleMu.TryLock() {
		return nil, ErrCycleRunning
	}
	defer s.cycleMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.CycleTimeout)
	defer cancel()

	if s.cfg.Lease != nil {
		release, acquired, err := s.cfg.Lease.Acquire(ctx)
		if err != nil {
			cycleTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
			return nil, err
		}
		if !acquired {
			cycleTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "lease_held")))
			return nil, ErrLeaseHeld
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn().Err(err).Msg("Failed to release scheduler lease")
			}
		}()
	}

	summary, err := s.runCycle(ctx)
	status := "success"
	if err != nil {
		status = "error"
	}
	cycleTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	return summary, err
}

func (s *Scheduler) runCycle(ctx context.Context) (*CycleSummary, error) {
	start := s.cfg.Clock()
	summary := &CycleSummary{
		Cycle:     s.cycles.Add(1),
		Today:     calendar.Today(start, s.cfg.Location),
		StartedAt: start,
		Failures:  []Failure{},
	}
	log := s.log.With().Int64("cycle", summary.Cycle).Str("today", summary.Today.String()).Logger()

	schedules, err := s.schedules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring schedules: %w", err)
	}
	summary.Schedules = len(schedules)

	jobs := make([]Job, len(schedules))
	recurringJobs := make([]*RecurringJob, len(schedules))
	for i, sched := range schedules {
		rj := NewRecurringJob(sched, s.engine, summary.Today)
		recurringJobs[i] = rj
		jobs[i] = rj
	}

	batch := s.workerPool.RunBatch(ctx, jobs)
	summary.Abandoned = batch.Abandoned

	for _, rj := range recurringJobs {
		res, ran, err := rj.Result()
		switch {
		case !ran:
		case errors.Is(err, recurring.ErrScheduleConflict):
			summary.Conflicts++
		case err != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{ScheduleID: rj.ScheduleID(), Error: err.Error()})
		case res == nil:
		case res.Generated:
			summary.Generated++
		case res.Skipped != "":
			summary.Skipped++
		}
	}
	if summary.Generated > 0 {
		generatedTotal.Add(ctx, int64(summary.Generated))
	}

	summary.Duration = s.cfg.Clock().Sub(start).String()
	log.Info().
		Int("schedules", summary.Schedules).
		Int("generated", summary.Generated).
		Int("skipped", summary.Skipped).
		Int("conflicts", summary.Conflicts).
		Int("failed", summary.Failed).
		Int("abandoned", summary.Abandoned).
		Msg("Scheduler cycle finished")

	return summary, nil
}

// Shutdown stops the loop, lets an in-flight cycle finish within timeout,
// then stops the worker pool.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	s.log.Info().Msg("Scheduler: initiating graceful shutdown")

	s.loopCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info().Msg("Scheduler: loop stopped gracefully")
	case <-time.After(timeout):
		s.log.Warn().Msg("Scheduler: timeout waiting for in-flight cycle, cancelling it")
		s.runCancel()
	}

	// wait out a manual RunNow before closing the queue
	s.cycleMu.Lock()
	s.stopped.Store(true)
	s.cycleMu.Unlock()

	s.runCancel()
	s.workerPool.Shutdown(timeout)

	s.log.Info().Msg("Scheduler: shutdown complete")
}
