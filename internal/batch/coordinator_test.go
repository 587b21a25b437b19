package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lathe/internal/logging"
	"lathe/internal/services"
)

func TestRunIsolatesFailures(t *testing.T) {
	jobs := make([]Job, 10)
	for i := range jobs {
		i := i
		jobs[i] = Job{
			Input: fmt.Sprintf("input-%d.mp4", i),
			Run: func(context.Context) (string, error) {
				if i == 3 {
					return "", services.Wrap(services.ErrExit, "silence", "apply", "engine exited 1", nil)
				}
				return "ok", nil
			},
		}
	}

	coord := NewCoordinator(4, logging.NewNop())
	result, err := coord.Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Succeeded != 9 || result.Failed != 1 {
		t.Fatalf("got %d succeeded %d failed, want 9/1", result.Succeeded, result.Failed)
	}
	if len(result.Outcomes) != 10 {
		t.Fatalf("expected an outcome per job, got %d", len(result.Outcomes))
	}
	for i, outcome := range result.Outcomes {
		if outcome.Job.Input != fmt.Sprintf("input-%d.mp4", i) {
			t.Fatalf("outcome %d out of submission order: %s", i, outcome.Job.Input)
		}
		if outcome.Job.ID == "" {
			t.Fatalf("outcome %d missing generated job id", i)
		}
	}

	failed := result.FailedOutcomes()
	if len(failed) != 1 || failed[0].Job.Input != "input-3.mp4" {
		t.Fatalf("unexpected failed set: %+v", failed)
	}
	if !errors.Is(failed[0].Err, services.ErrExit) {
		t.Fatalf("failure should preserve its marker, got %v", failed[0].Err)
	}
}

func TestRunNeverExceedsConcurrencyBound(t *testing.T) {
	const bound = 3
	var active, peak int64
	var mu sync.Mutex

	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = Job{Run: func(context.Context) (string, error) {
			n := atomic.AddInt64(&active, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&active, -1)
			return "ok", nil
		}}
	}

	coord := NewCoordinator(bound, logging.NewNop())
	if _, err := coord.Run(context.Background(), jobs); err != nil {
		t.Fatalf("Run: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if peak > bound {
		t.Fatalf("peak concurrency %d exceeded bound %d", peak, bound)
	}
	if peak == 0 {
		t.Fatal("no job ever ran")
	}
}

func TestRunRejectsEmptyBatch(t *testing.T) {
	coord := NewCoordinator(2, logging.NewNop())
	if _, err := coord.Run(context.Background(), nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunStopsFeedingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ran int64
	jobs := make([]Job, 6)
	for i := range jobs {
		jobs[i] = Job{Run: func(context.Context) (string, error) {
			atomic.AddInt64(&ran, 1)
			cancel()
			// Keep the single worker busy so the feeder observes the
			// cancellation before another job can be handed out.
			time.Sleep(50 * time.Millisecond)
			return "ok", nil
		}}
	}

	coord := NewCoordinator(1, logging.NewNop())
	result, err := coord.Run(ctx, jobs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failed == 0 {
		t.Fatal("expected unstarted jobs to be reported as failures")
	}
	for _, outcome := range result.FailedOutcomes() {
		if !errors.Is(outcome.Err, context.Canceled) {
			t.Fatalf("unstarted job should carry the cancellation cause, got %v", outcome.Err)
		}
	}
	if got := atomic.LoadInt64(&ran); got == int64(len(jobs)) {
		t.Fatalf("cancellation should prevent some jobs from starting, ran %d", got)
	}
}
