// Package jobs runs named background tasks on a fixed interval.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Job status values
const (
	StatusPending = "pending"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// Func is the work a job performs on each tick
type Func func(ctx context.Context) error

// Job is a periodic task and the outcome of its last run
type Job struct {
	ID       string
	Interval time.Duration
	run      Func

	mu        sync.Mutex
	status    string
	runs      int
	lastRun   time.Time
	lastError error
	CreatedAt time.Time
}

// State is a point-in-time copy of a job's outcome
type State struct {
	ID        string
	Status    string
	Runs      int
	LastRun   time.Time
	LastError error
}

// State returns the job's current outcome
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return State{ID: j.ID, Status: j.status, Runs: j.runs, LastRun: j.lastRun, LastError: j.lastError}
}

func (j *Job) execute(ctx context.Context) error {
	err := j.run(ctx)

	j.mu.Lock()
	j.runs++
	j.lastRun = time.Now()
	j.lastError = err
	if err != nil {
		j.status = StatusFailed
	} else {
		j.status = StatusOK
	}
	j.mu.Unlock()
	return err
}

// Queue holds the jobs to run
type Queue struct {
	mu     sync.Mutex
	jobs   []*Job
	logger zerolog.Logger
}

// NewQueue creates a new job queue
func NewQueue(logger zerolog.Logger) *Queue {
	return &Queue{
		jobs:   make([]*Job, 0),
		logger: logger,
	}
}

// Enqueue registers fn to run every interval once Run is called
func (q *Queue) Enqueue(id string, interval time.Duration, fn Func) *Job {
	job := &Job{
		ID:        id,
		Interval:  interval,
		run:       fn,
		status:    StatusPending,
		CreatedAt: time.Now(),
	}
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
	return job
}

// Count returns the number of jobs in the queue
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Run ticks every job until ctx is done. Jobs with a non-positive interval
// never run. Failures are logged and retried on the next tick.
func (q *Queue) Run(ctx context.Context) {
	q.mu.Lock()
	jobs := append([]*Job(nil), q.jobs...)
	q.mu.Unlock()

	var wg sync.WaitGroup
	for _, job := range jobs {
		if job.Interval <= 0 {
			continue
		}
		wg.Add(1)
		go func(job *Job) {
			defer wg.Done()
			ticker := time.NewTicker(job.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := job.execute(ctx); err != nil {
						q.logger.Warn().Err(err).Str("job", job.ID).Msg("job failed")
					}
				}
			}
		}(job)
	}
	wg.Wait()
}
