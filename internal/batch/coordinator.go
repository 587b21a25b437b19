package batch

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"lathe/internal/logging"
	"lathe/internal/services"
)

// Job is one unit of batch work. Run performs the work and returns a
// human-readable status. Jobs must not share mutable state; the coordinator
// runs them concurrently.
type Job struct {
	ID     string
	Input  string
	Output string
	Label  string
	Run    func(ctx context.Context) (string, error)
}

// Outcome records one finished job. Err is nil on success.
type Outcome struct {
	Job      Job
	Status   string
	Err      error
	Duration time.Duration
}

// Result aggregates a completed batch.
type Result struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// Coordinator fans a list of jobs out to a bounded worker pool. One failed
// job never aborts its siblings; failures are collected and reported
// together at the end.
type Coordinator struct {
	maxConcurrency int
	logger         *slog.Logger
}

// NewCoordinator builds a coordinator running at most maxConcurrency jobs at
// once. Values below one are coerced to one.
func NewCoordinator(maxConcurrency int, logger *slog.Logger) *Coordinator {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{maxConcurrency: maxConcurrency, logger: logger}
}

// Run executes every job and returns once all have finished. Outcomes are
// returned in the submission order regardless of completion order. A
// canceled context stops new jobs from starting; jobs already running see
// the cancellation through their own context.
func (c *Coordinator) Run(ctx context.Context, jobs []Job) (Result, error) {
	if len(jobs) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "batch", "run", "no jobs to run", nil)
	}

	for i := range jobs {
		if jobs[i].ID == "" {
			jobs[i].ID = uuid.NewString()
		}
	}

	started := time.Now()
	workers := c.maxConcurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}

	c.logger.Info("starting batch",
		logging.Int("jobs", len(jobs)),
		logging.Int("workers", workers))

	type indexed struct {
		idx int
		job Job
	}
	feed := make(chan indexed)
	outcomes := make([]Outcome, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range feed {
				outcomes[item.idx] = c.runOne(ctx, item.job)
			}
		}()
	}

feedLoop:
	for i, job := range jobs {
		select {
		case feed <- indexed{idx: i, job: job}:
		case <-ctx.Done():
			for j := i; j < len(jobs); j++ {
				outcomes[j] = Outcome{Job: jobs[j], Err: services.Wrap(services.ErrValidation, "batch", "run", "batch canceled before job started", ctx.Err())}
			}
			break feedLoop
		}
	}
	close(feed)
	wg.Wait()

	result := Result{Outcomes: outcomes, Elapsed: time.Since(started)}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}
	c.logger.Info("batch finished",
		logging.Int("succeeded", result.Succeeded),
		logging.Int("failed", result.Failed),
		logging.Duration("elapsed", result.Elapsed))
	return result, nil
}

func (c *Coordinator) runOne(ctx context.Context, job Job) Outcome {
	jobCtx := services.WithJobID(ctx, job.ID)
	jobCtx = services.WithInput(jobCtx, job.Input)
	log := logging.WithContext(jobCtx, c.logger)

	log.Info("job started", logging.String("label", job.Label))
	started := time.Now()
	status, err := job.Run(jobCtx)
	elapsed := time.Since(started)

	if err != nil {
		log.Error("job failed", logging.Error(err), logging.Duration("elapsed", elapsed))
	} else {
		log.Info("job finished", logging.String("status", status), logging.Duration("elapsed", elapsed))
	}
	return Outcome{Job: job, Status: status, Err: err, Duration: elapsed}
}

// FailedOutcomes returns the failed subset of a result, ordered as submitted.
func (r Result) FailedOutcomes() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// SortByDuration orders outcomes longest first, for reporting.
func SortByDuration(outcomes []Outcome) {
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].Duration > outcomes[j].Duration
	})
}
