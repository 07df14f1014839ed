package motion

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// liftFrames builds a synthetic 30fps recording of a left wrist doing the
// given number of reps: one second up, one second down at 1 unit/s, with
// half a second of stillness before and after the set.
func liftFrames(reps int) []LandmarkFrame {
	var frames []LandmarkFrame
	add := func(y float64) {
		idx := len(frames)
		frames = append(frames, LandmarkFrame{
			FrameIndex: idx,
			Timestamp:  float64(idx) / 30.0,
			Joints: map[string]JointPosition{
				"left_wrist": {X: 0.2, Y: y, Confidence: 0.99},
			},
		})
	}

	for i := 0; i < 15; i++ {
		add(1.0)
	}
	for r := 0; r < reps; r++ {
		for i := 1; i <= 30; i++ {
			add(1.0 + float64(i)/30.0)
		}
		for i := 29; i >= 0; i-- {
			add(1.0 + float64(i)/30.0)
		}
	}
	for i := 0; i < 15; i++ {
		add(1.0)
	}
	return frames
}

func TestAnalyzeCompleteSet(t *testing.T) {
	t.Parallel()

	frames := liftFrames(3)
	result, err := NewAnalyzer(nil).Analyze(context.Background(), frames)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 3, result.RepCount)
	require.Len(t, result.Reps, 3)
	assert.False(t, result.Partial)
	assert.Equal(t, "y", result.DominantAxis)
	assert.Equal(t, len(frames), result.TotalFrames)
	assert.Equal(t, 0, result.MissingFrames)

	assert.Greater(t, result.TensionRating, 0.0)
	assert.LessOrEqual(t, result.TensionRating, 100.0)
	assert.Contains(t, result.Summary, "Analyzed 3 repetitions.")
	assert.NotEmpty(t, result.Recommendations)

	for i, rep := range result.Reps {
		assert.Equal(t, i+1, rep.Number)
		assert.Equal(t, PhaseConcentric, rep.Concentric.State)
		assert.Equal(t, PhaseEccentric, rep.Eccentric.State)
		// Each rep is nominally two seconds; smoothing shifts the detected
		// boundaries by a few frames.
		assert.InDelta(t, 2.0, rep.Duration, 0.2, "rep %d duration", i+1)
		assert.Greater(t, rep.AvgVelocity, 0.5)
		assert.LessOrEqual(t, rep.MaxVelocity, 1.1)
		assert.Greater(t, rep.RepScore, 0.0)
	}

	// Reps tile the set in order without overlap.
	for i := 1; i < len(result.Reps); i++ {
		assert.GreaterOrEqual(t, result.Reps[i].StartTime, result.Reps[i-1].EndTime-1e-9)
	}
}

func TestAnalyzeStreamMatchesBatch(t *testing.T) {
	t.Parallel()

	frames := liftFrames(4)
	analyzer := NewAnalyzer(nil)

	batch, err := analyzer.Analyze(context.Background(), frames)
	require.NoError(t, err)

	streamed, err := analyzer.AnalyzeStream(context.Background(), NewSliceSource(frames), nil)
	require.NoError(t, err)

	assert.Equal(t, batch, streamed)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	t.Parallel()

	frames := liftFrames(2)
	analyzer := NewAnalyzer(nil)

	first, err := analyzer.Analyze(context.Background(), frames)
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), frames)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// rampFrames builds the classic hand-checkable track: integer positions
// sampled at 10fps with full confidence.
func rampFrames(positions []float64) []LandmarkFrame {
	frames := make([]LandmarkFrame, len(positions))
	for i, y := range positions {
		frames[i] = LandmarkFrame{
			FrameIndex: i,
			Timestamp:  float64(i) * 0.1,
			Joints: map[string]JointPosition{
				"left_wrist": {Y: y, Confidence: 1.0},
			},
		}
	}
	return frames
}

// rawConfig disables smoothing and drops the floors so the pipeline's
// output matches plain finite differences.
func rawConfig() *Config {
	return &Config{
		SmoothingWindow:   ptrInt(1),
		NoiseFloor:        ptrFloat64(0.001),
		MinPhaseDurationS: ptrFloat64(0.01),
	}
}

func TestAnalyzeHandCheckableRamp(t *testing.T) {
	t.Parallel()

	// Up four frames, down four frames, one still frame: exactly one rep
	// whose kinematics can be read straight off the position array.
	frames := rampFrames([]float64{0, 1, 2, 3, 4, 3, 2, 1, 0, 0})
	result, err := NewAnalyzer(rawConfig()).Analyze(context.Background(), frames)
	require.NoError(t, err)
	require.Len(t, result.Reps, 1)
	assert.False(t, result.Partial)

	rep := result.Reps[0]
	assert.Equal(t, 0, rep.Concentric.StartFrame)
	assert.Equal(t, 4, rep.Concentric.EndFrame)
	assert.Equal(t, 4, rep.Eccentric.StartFrame)
	assert.Equal(t, 8, rep.Eccentric.EndFrame)

	// Every consecutive pair in the rep's span moves 1 unit in 0.1s.
	assert.InDelta(t, 10.0, rep.AvgVelocity, 1e-9)
	assert.InDelta(t, 10.0, rep.MaxVelocity, 1e-9)
	assert.InDelta(t, 0.8, rep.Duration, 1e-9)
}

func TestAnalyzeRampTruncatedMidDescent(t *testing.T) {
	t.Parallel()

	// The same ramp cut after frame 6, mid descent. Whether the open
	// eccentric phase (0.2s at truncation) survives depends on the
	// minimum phase duration; either way the result is partial.
	frames := rampFrames([]float64{0, 1, 2, 3, 4, 3, 2})

	t.Run("open phase above the minimum completes the rep", func(t *testing.T) {
		t.Parallel()
		result, err := NewAnalyzer(rawConfig()).Analyze(context.Background(), frames)
		require.NoError(t, err)
		assert.True(t, result.Partial)
		assert.Equal(t, 1, result.RepCount)
	})

	t.Run("open phase below the minimum is discarded", func(t *testing.T) {
		t.Parallel()
		cfg := rawConfig()
		cfg.MinPhaseDurationS = ptrFloat64(0.3)
		result, err := NewAnalyzer(cfg).Analyze(context.Background(), frames)
		require.NotNil(t, result)
		assert.True(t, result.Partial)
		assert.Equal(t, 0, result.RepCount)

		var insufficient *InsufficientDataError
		require.ErrorAs(t, err, &insufficient)
	})
}

func TestAnalyzeTruncatedSet(t *testing.T) {
	t.Parallel()

	// One full rep, then the set cuts off partway into the second climb.
	frames := liftFrames(2)[:90]
	result, err := NewAnalyzer(nil).Analyze(context.Background(), frames)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Partial)
	assert.Equal(t, 1, result.RepCount)
	assert.Equal(t, 90, result.TotalFrames)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewAnalyzer(nil).Analyze(ctx, liftFrames(3))
	require.NotNil(t, result, "cancellation still yields the structural result")
	assert.True(t, result.Partial)
	assert.Equal(t, 0, result.RepCount)

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
}

func TestAnalyzeMissingLandmark(t *testing.T) {
	t.Parallel()

	// Frames carry only the right wrist; the default config tracks the left.
	frames := liftFrames(2)
	for i := range frames {
		pos := frames[i].Joints["left_wrist"]
		frames[i].Joints = map[string]JointPosition{"right_wrist": pos}
	}

	t.Run("batch", func(t *testing.T) {
		t.Parallel()
		result, err := NewAnalyzer(nil).Analyze(context.Background(), frames)
		assert.Nil(t, result, "a missing landmark has no partial result")

		var missing *MissingLandmarkError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, JointWrist, missing.Joint)
		assert.Equal(t, SideLeft, missing.Side)
	})

	t.Run("stream", func(t *testing.T) {
		t.Parallel()
		result, err := NewAnalyzer(nil).AnalyzeStream(context.Background(), NewSliceSource(frames), nil)
		assert.Nil(t, result)

		var missing *MissingLandmarkError
		require.ErrorAs(t, err, &missing)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		result, err := NewAnalyzer(nil).Analyze(context.Background(), nil)
		assert.Nil(t, result)

		var missing *MissingLandmarkError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, 1.0, missing.MissingFraction)
	})
}

func TestAnalyzeStillSet(t *testing.T) {
	t.Parallel()

	result, err := NewAnalyzer(nil).Analyze(context.Background(), liftFrames(0))
	require.NotNil(t, result)

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)

	assert.Equal(t, 0, result.RepCount)
	assert.Empty(t, result.Reps)
	assert.False(t, result.Partial)
	assert.Zero(t, result.TensionRating)
	assert.Contains(t, result.Summary, "No complete repetitions were detected")
	require.Len(t, result.Recommendations, 1)
	assert.Contains(t, result.Recommendations[0], "complete at least one full rep")
}

func TestAnalyzeStreamProgress(t *testing.T) {
	t.Parallel()

	frames := liftFrames(2)
	var records []Progress
	result, err := NewAnalyzer(nil).AnalyzeStream(context.Background(), NewSliceSource(frames),
		func(p Progress) { records = append(records, p) })
	require.NoError(t, err)

	require.Len(t, records, len(frames), "one progress record per consumed frame")

	for i, p := range records {
		assert.Equal(t, i, p.FrameNumber)
		assert.GreaterOrEqual(t, p.Velocity, 0.0)
		if i > 0 {
			assert.GreaterOrEqual(t, p.Fraction, records[i-1].Fraction)
			assert.GreaterOrEqual(t, p.RepCount, records[i-1].RepCount)
		}
	}

	last := records[len(records)-1]
	assert.InDelta(t, 1.0, last.Fraction, 1e-9)
	assert.Equal(t, result.RepCount, last.RepCount)
	assert.Greater(t, last.TensionEstimate, 0.0)
}

// lenlessSource hides SliceSource's Len so progress runs without a total.
type lenlessSource struct {
	src *SliceSource
}

func (s *lenlessSource) Next(ctx context.Context) (*LandmarkFrame, error) { return s.src.Next(ctx) }
func (s *lenlessSource) Close() error                                     { return s.src.Close() }

func TestAnalyzeStreamProgressWithoutLength(t *testing.T) {
	t.Parallel()

	src := &lenlessSource{src: NewSliceSource(liftFrames(1))}
	var records []Progress
	_, err := NewAnalyzer(nil).AnalyzeStream(context.Background(), src,
		func(p Progress) { records = append(records, p) })
	require.NoError(t, err)

	require.NotEmpty(t, records)
	for _, p := range records {
		assert.Zero(t, p.Fraction, "fractions need a known stream length")
	}
}

// cancelAfterSource cancels the stream's context once `after` frames have
// been served, simulating an interrupted capture.
type cancelAfterSource struct {
	src    *SliceSource
	cancel context.CancelFunc
	after  int
	served int
}

func (s *cancelAfterSource) Next(ctx context.Context) (*LandmarkFrame, error) {
	if s.served >= s.after {
		s.cancel()
	}
	f, err := s.src.Next(ctx)
	if err == nil {
		s.served++
	}
	return f, err
}

func (s *cancelAfterSource) Close() error { return s.src.Close() }

func TestAnalyzeStreamCancelledMidSet(t *testing.T) {
	t.Parallel()

	frames := liftFrames(2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &cancelAfterSource{src: NewSliceSource(frames), cancel: cancel, after: 145}
	result, err := NewAnalyzer(nil).AnalyzeStream(ctx, src, nil)

	// Both reps were fully observed before the cut, so cancellation marks
	// the result partial without being an error.
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Partial)
	assert.Equal(t, 2, result.RepCount)
	assert.Equal(t, 145, result.TotalFrames)
}

func TestAnalyzeStreamLocksAxisDuringWarmup(t *testing.T) {
	t.Parallel()

	// Sixty frames of slow horizontal drift before the set: the streamed
	// analysis locks its axis from the warmup window and stays on x, while
	// the batch analysis sees the whole track and picks y.
	var frames []LandmarkFrame
	add := func(x, y float64) {
		idx := len(frames)
		frames = append(frames, LandmarkFrame{
			FrameIndex: idx,
			Timestamp:  float64(idx) / 30.0,
			Joints: map[string]JointPosition{
				"left_wrist": {X: x, Y: y, Confidence: 0.99},
			},
		})
	}
	for i := 0; i < 60; i++ {
		add(0.2+float64(i)*0.001, 1.0)
	}
	for _, f := range liftFrames(2) {
		add(0.259, f.Joints["left_wrist"].Y)
	}

	analyzer := NewAnalyzer(nil)

	streamed, err := analyzer.AnalyzeStream(context.Background(), NewSliceSource(frames), nil)
	require.NotNil(t, streamed)
	assert.Equal(t, "x", streamed.DominantAxis)
	assert.Equal(t, 0, streamed.RepCount, "no reps exist along the locked axis")

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)

	batch, err := analyzer.Analyze(context.Background(), frames)
	require.NoError(t, err)
	assert.Equal(t, "y", batch.DominantAxis)
	assert.Equal(t, 2, batch.RepCount)
}

func TestAnalyzeStreamRejectsBadTimestamps(t *testing.T) {
	t.Parallel()

	frames := liftFrames(1)
	frames[10].Timestamp = frames[9].Timestamp

	result, err := NewAnalyzer(nil).AnalyzeStream(context.Background(), NewSliceSource(frames), nil)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not after previous")
}

func TestAnalyzerCustomRecommender(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer(nil)
	analyzer.SetRecommender(RecommenderConfig{
		LowRating:         0,
		MinAvgRepDuration: 0,
		MaxTempoStdDev:    100,
		MinReliableReps:   10,
	})

	result, err := analyzer.Analyze(context.Background(), liftFrames(3))
	require.NoError(t, err)
	assert.Contains(t, result.Recommendations[0], "aim for at least 10 reps per set")
}

func TestSliceSource(t *testing.T) {
	t.Parallel()

	t.Run("yields frames in order then EOF", func(t *testing.T) {
		t.Parallel()
		frames := liftFrames(0)[:3]
		src := NewSliceSource(frames)
		assert.Equal(t, 3, src.Len())

		for i := range frames {
			f, err := src.Next(context.Background())
			require.NoError(t, err)
			assert.Equal(t, i, f.FrameIndex)
		}

		_, err := src.Next(context.Background())
		assert.ErrorIs(t, err, io.EOF)
		assert.NoError(t, src.Close())
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()
		src := NewSliceSource(liftFrames(0))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := src.Next(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
