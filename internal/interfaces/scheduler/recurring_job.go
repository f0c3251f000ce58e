package scheduler

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/civil"

	"atena/internal/domain/recurring"
)

// Ticker evaluates a single schedule; implemented by recurring.Engine
type Ticker interface {
	Tick(ctx context.Context, s *recurring.Schedule, today civil.Date) (*recurring.TickResult, error)
}

// RecurringJob runs one engine tick for one schedule
type RecurringJob struct {
	schedule *recurring.Schedule
	engine   Ticker
	today    civil.Date

	mu     sync.Mutex
	ran    bool
	result *recurring.TickResult
	err    error
}

// NewRecurringJob creates a job ticking schedule against today
func NewRecurringJob(schedule *recurring.Schedule, engine Ticker, today civil.Date) *RecurringJob {
	return &RecurringJob{schedule: schedule, engine: engine, today: today}
}

// Execute runs the tick and keeps its outcome for the cycle summary
func (j *RecurringJob) Execute(ctx context.Context) error {
	res, err := j.engine.Tick(ctx, j.schedule, j.today)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.ran, j.result, j.err = true, res, err
	return err
}

// ScheduleID returns the schedule evaluated by this job
func (j *RecurringJob) ScheduleID() string {
	return j.schedule.ID
}

// Description returns a human-readable description of the job
func (j *RecurringJob) Description() string {
	return fmt.Sprintf("%s recurrence due %s", j.schedule.Cadence, j.schedule.NextDueDate)
}

// Result returns the tick outcome. ran is false while the job has not finished.
func (j *RecurringJob) Result() (res *recurring.TickResult, ran bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.ran, j.err
}
