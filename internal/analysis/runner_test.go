package analysis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/himai-labs/tension.report/internal/motion"
	"github.com/himai-labs/tension.report/internal/timeutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// repFrames synthesizes a left-wrist recording with the given number of
// clean two-second repetitions, bracketed by stillness so the final phase
// closes before the recording ends.
func repFrames(reps int) []motion.LandmarkFrame {
	const fps = 30.0
	const dy = 1.0 / fps // 1.0 units/s, well above the default noise floor

	var frames []motion.LandmarkFrame
	y := 0.0
	emit := func() {
		frames = append(frames, motion.LandmarkFrame{
			FrameIndex: len(frames),
			Timestamp:  float64(len(frames)) / fps,
			Joints: map[string]motion.JointPosition{
				"left_wrist": {X: 0.1, Y: y, Z: 0.0, Confidence: 0.99},
			},
		})
	}

	for i := 0; i < 15; i++ {
		emit()
	}
	for r := 0; r < reps; r++ {
		for i := 0; i < 30; i++ {
			y += dy
			emit()
		}
		for i := 0; i < 30; i++ {
			y -= dy
			emit()
		}
	}
	for i := 0; i < 15; i++ {
		emit()
	}
	return frames
}

func TestRunnerRunsAllJobs(t *testing.T) {
	t.Parallel()

	frames := repFrames(3)
	jobs := make([]Job, 6)
	for i := range jobs {
		jobs[i] = NewJob(gofakeit.Name(), "", frames, nil)
	}

	r := &Runner{Workers: 3}
	results := r.Run(context.Background(), jobs)
	require.Len(t, results, len(jobs))

	for i, res := range results {
		require.Equal(t, jobs[i].ID, res.JobID, "results must keep job order")
		assert.Equal(t, jobs[i].Name, res.Name)
		require.NoError(t, res.Err)
		require.NotNil(t, res.Analysis)
		assert.Equal(t, 3, res.Analysis.RepCount)
		assert.False(t, res.Analysis.Partial)
	}
}

func TestRunnerNoJobs(t *testing.T) {
	t.Parallel()

	r := &Runner{}
	results := r.Run(context.Background(), nil)
	assert.Empty(t, results)
}

// countingClock observes how many jobs are being timed concurrently. Each
// job calls Now once when it starts and Since once when it ends, so the
// in-flight counter tracks live analyses.
type countingClock struct {
	timeutil.RealClock
	mu       sync.Mutex
	inFlight int
	maxSeen  int
}

func (c *countingClock) Now() time.Time {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxSeen {
		c.maxSeen = c.inFlight
	}
	c.mu.Unlock()
	return time.Now()
}

func (c *countingClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
	return time.Since(t)
}

func (c *countingClock) max() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxSeen
}

func TestRunnerBoundsParallelism(t *testing.T) {
	t.Parallel()

	frames := repFrames(2)
	jobs := make([]Job, 12)
	for i := range jobs {
		jobs[i] = NewJob(gofakeit.Name(), "", frames, nil)
	}

	clock := &countingClock{}
	r := &Runner{Workers: 2, Clock: clock}
	results := r.Run(context.Background(), jobs)

	require.Len(t, results, len(jobs))
	for _, res := range results {
		require.NoError(t, res.Err)
	}
	assert.LessOrEqual(t, clock.max(), 2, "no more than Workers jobs may run at once")
	assert.Greater(t, clock.max(), 0)
}

func TestRunnerElapsedComesFromClock(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewFakeClock(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
	r := &Runner{Workers: 1, Clock: clock}

	results := r.Run(context.Background(), []Job{NewJob("set", "", repFrames(1), nil)})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Zero(t, results[0].Elapsed, "a clock that never advances measures zero elapsed time")
}

func TestRunnerCancelledContext(t *testing.T) {
	t.Parallel()

	frames := repFrames(2)
	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = NewJob(gofakeit.Name(), "", frames, nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Workers: 2}
	results := r.Run(ctx, jobs)
	require.Len(t, results, len(jobs))

	for i, res := range results {
		assert.Equal(t, jobs[i].ID, res.JobID)
		if res.Analysis == nil {
			// Never handed to a worker.
			require.ErrorIs(t, res.Err, context.Canceled)
			continue
		}
		// Handed out with an already-cancelled context: the analysis stops
		// before segmenting anything and reports itself as partial.
		assert.True(t, res.Analysis.Partial)
		var insufficient *motion.InsufficientDataError
		assert.ErrorAs(t, res.Err, &insufficient)
	}
}

func TestRunnerPerJobTimeout(t *testing.T) {
	t.Parallel()

	frames := repFrames(5)

	t.Run("expired timeout yields partial analysis", func(t *testing.T) {
		t.Parallel()

		// A nanosecond deadline is already in the past by the time the job
		// context is built, so the analysis never gets to push a sample.
		r := &Runner{Workers: 1, Timeout: time.Nanosecond}
		results := r.Run(context.Background(), []Job{NewJob("big set", "", frames, nil)})
		require.Len(t, results, 1)

		res := results[0]
		require.NotNil(t, res.Analysis)
		assert.True(t, res.Analysis.Partial)
		assert.Zero(t, res.Analysis.RepCount)
		var insufficient *motion.InsufficientDataError
		assert.ErrorAs(t, res.Err, &insufficient)
	})

	t.Run("ample timeout completes normally", func(t *testing.T) {
		t.Parallel()

		r := &Runner{Workers: 1, Timeout: time.Minute}
		results := r.Run(context.Background(), []Job{NewJob("big set", "", frames, nil)})
		require.Len(t, results, 1)

		res := results[0]
		require.NoError(t, res.Err)
		require.NotNil(t, res.Analysis)
		assert.Equal(t, 5, res.Analysis.RepCount)
		assert.False(t, res.Analysis.Partial)
	})
}

func TestJobConfigResolution(t *testing.T) {
	t.Parallel()

	t.Run("explicit config wins", func(t *testing.T) {
		t.Parallel()

		cfg := motion.EmptyConfig()
		j := NewJob("set", "bench_press", nil, cfg)
		assert.Same(t, cfg, j.config())
	})

	t.Run("exercise preset applies", func(t *testing.T) {
		t.Parallel()

		j := NewJob("set", "bench_press", nil, nil)
		cfg := j.config()
		require.NotNil(t, cfg)

		preset, ok := motion.Preset("bench_press")
		require.True(t, ok)
		assert.Equal(t, preset.RecommendedJoint, cfg.GetJointName())
		assert.Equal(t, preset.SmoothingWindow, cfg.GetSmoothingWindow())
		assert.Equal(t, preset.NoiseFloor, cfg.GetNoiseFloor())
	})

	t.Run("unknown exercise falls back to the default preset", func(t *testing.T) {
		t.Parallel()

		j := NewJob("set", "underwater_basket_weaving", nil, nil)
		cfg := j.config()
		require.NotNil(t, cfg)

		def := motion.PresetFor(motion.DefaultPresetName)
		assert.Equal(t, def.RecommendedJoint, cfg.GetJointName())
		assert.Equal(t, def.SmoothingWindow, cfg.GetSmoothingWindow())
	})

	t.Run("no exercise means analyzer defaults", func(t *testing.T) {
		t.Parallel()

		j := NewJob("set", "", nil, nil)
		assert.Nil(t, j.config())
	})
}

func TestNewJobAssignsDistinctIDs(t *testing.T) {
	t.Parallel()

	a := NewJob("first", "", nil, nil)
	b := NewJob("second", "", nil, nil)

	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	_, err = uuid.Parse(b.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
