// Package analysis runs motion analyses as batch jobs across a bounded
// worker pool. It sits between the command-line layer and the motion
// package: callers queue one Job per recording and collect one Result per
// Job, in submission order.
package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/himai-labs/tension.report/internal/motion"
)

// Job is one recording queued for analysis.
type Job struct {
	// ID identifies the job in logs and results.
	ID string
	// Name is a human-readable label, usually the source file or session name.
	Name string
	// Exercise names the movement preset used to tune the analysis when
	// Config is nil. Unknown names fall back to the default preset.
	Exercise string
	// Frames are the raw landmark frames to analyse.
	Frames []motion.LandmarkFrame
	// Config, when non-nil, overrides the Exercise preset entirely.
	Config *motion.Config
}

// NewJob builds a Job with a fresh ID.
func NewJob(name, exercise string, frames []motion.LandmarkFrame, cfg *motion.Config) Job {
	return Job{
		ID:       uuid.NewString(),
		Name:     name,
		Exercise: exercise,
		Frames:   frames,
		Config:   cfg,
	}
}

// config resolves the effective analyzer configuration for the job.
func (j Job) config() *motion.Config {
	if j.Config != nil {
		return j.Config
	}
	if j.Exercise != "" {
		return motion.PresetFor(j.Exercise).Config()
	}
	return nil
}

// Result pairs a finished Job with its outcome. Analysis and Err may both
// be set: a recording with no complete repetitions still yields counters
// and recommendations alongside the error describing why it could not be
// rated.
type Result struct {
	JobID    string
	Name     string
	Analysis *motion.AnalysisResult
	Err      error
	Elapsed  time.Duration
}
