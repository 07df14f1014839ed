package analysis

import (
	"context"
	"runtime"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/himai-labs/tension.report/internal/motion"
	"github.com/himai-labs/tension.report/internal/timeutil"
)

// Runner executes analysis jobs across a bounded pool of workers. The zero
// value is usable: one worker per CPU, no per-job timeout, the real clock.
type Runner struct {
	// Workers caps concurrent analyses. Zero or negative means runtime.NumCPU().
	Workers int
	// Timeout bounds each job individually. Zero means no per-job timeout.
	Timeout time.Duration
	// Clock measures elapsed time per job. Nil means the real clock.
	Clock timeutil.Clock
}

// Run analyses all jobs and returns one Result per Job, in job order.
// Cancelling ctx stops the pool after in-flight jobs wind down; jobs never
// handed to a worker are returned with ctx's error and no analysis.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	clock := r.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	log.Debugf("analysis runner: %d jobs across %d workers", len(jobs), workers)

	// Workers drain job indices and write disjoint slots of results, so no
	// lock is needed around the slice.
	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = r.runOne(ctx, clock, jobs[i])
			}
		}()
	}

	for i := range jobs {
		select {
		case indices <- i:
		case <-ctx.Done():
			for j := i; j < len(jobs); j++ {
				results[j] = Result{JobID: jobs[j].ID, Name: jobs[j].Name, Err: ctx.Err()}
			}
			close(indices)
			wg.Wait()
			log.Warnf("analysis runner cancelled with %d of %d jobs unstarted", len(jobs)-i, len(jobs))
			return results
		}
	}
	close(indices)
	wg.Wait()

	return results
}

// runOne analyses a single job under the runner's per-job timeout.
func (r *Runner) runOne(ctx context.Context, clock timeutil.Clock, job Job) Result {
	jobCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := clock.Now()
	analysis, err := motion.NewAnalyzer(job.config()).Analyze(jobCtx, job.Frames)
	elapsed := clock.Since(start)

	switch {
	case err != nil && analysis == nil:
		log.Errorf("job %s (%s) failed after %v: %v", job.ID, job.Name, elapsed, err)
	case err != nil:
		log.Debugf("job %s (%s) finished in %v without a rating: %v", job.ID, job.Name, elapsed, err)
	default:
		log.Debugf("job %s (%s) finished in %v: %d reps, rating %.1f",
			job.ID, job.Name, elapsed, analysis.RepCount, analysis.TensionRating)
	}

	return Result{
		JobID:    job.ID,
		Name:     job.Name,
		Analysis: analysis,
		Err:      err,
		Elapsed:  elapsed,
	}
}
