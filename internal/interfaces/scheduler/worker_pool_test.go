package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type funcJob struct {
	id string
	fn func(ctx context.Context) error
}

func (j *funcJob) Execute(ctx context.Context) error { return j.fn(ctx) }
func (j *funcJob) ScheduleID() string                { return j.id }
func (j *funcJob) Description() string               { return "test job " + j.id }

func TestWorkerPool_RunBatch(t *testing.T) {
	wp := NewWorkerPool(3, 0, time.Second, 2, zerolog.Nop())
	wp.Start()
	defer wp.Shutdown(time.Second)

	var ran atomic.Int64
	jobs := make([]Job, 10)
	for i := range jobs {
		fail := i%4 == 0
		jobs[i] = &funcJob{id: "j", fn: func(ctx context.Context) error {
			ran.Add(1)
			if fail {
				return errors.New("boom")
			}
			return nil
		}}
	}

	res := wp.RunBatch(context.Background(), jobs)
	if ran.Load() != 10 {
		t.Fatalf("expected 10 executions, got %d", ran.Load())
	}
	if res.Submitted != 10 || res.Succeeded != 7 || res.Failed != 3 || res.Abandoned != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestWorkerPool_RunBatch_Empty(t *testing.T) {
	wp := NewWorkerPool(1, 0, time.Second, 1, zerolog.Nop())
	wp.Start()
	defer wp.Shutdown(time.Second)

	if res := wp.RunBatch(context.Background(), nil); res != (BatchResult{}) {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestWorkerPool_JobTimeout(t *testing.T) {
	wp := NewWorkerPool(1, 0, 20*time.Millisecond, 1, zerolog.Nop())
	wp.Start()
	defer wp.Shutdown(time.Second)

	job := &funcJob{id: "slow", fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	res := wp.RunBatch(context.Background(), []Job{job})
	if res.Failed != 1 {
		t.Errorf("expected timed out job to fail, got %+v", res)
	}
}

func TestWorkerPool_RunBatch_CancelledContext(t *testing.T) {
	wp := NewWorkerPool(1, 0, time.Minute, 1, zerolog.Nop())
	wp.Start()
	defer wp.Shutdown(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	blocking := &funcJob{id: "block", fn: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}}
	other := &funcJob{id: "other", fn: func(ctx context.Context) error { return nil }}

	go func() {
		<-started
		cancel()
	}()

	res := wp.RunBatch(ctx, []Job{blocking, other, other})
	if res.Succeeded+res.Failed+res.Abandoned != 3 {
		t.Errorf("counts do not add up: %+v", res)
	}
	if res.Succeeded == 3 {
		t.Errorf("expected cancellation to stop the batch, got %+v", res)
	}
}
