package motion

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// axisWarmupFrames is how many smoothed samples AnalyzeStream accumulates
// before locking the dominant axis. Roughly 1.5s of video at 30fps, enough
// to cover at least one directional phase of any supported movement.
const axisWarmupFrames = 45

// AnalysisResult is the outcome of analyzing one set. It is assembled once
// the frame stream is exhausted or aborted and not modified afterwards.
type AnalysisResult struct {
	Reps            []Rep    `json:"reps"`
	TensionRating   float64  `json:"tension_rating"`
	RepCount        int      `json:"rep_count"`
	Partial         bool     `json:"partial"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`

	// Diagnostics.
	TotalFrames   int    `json:"total_frames"`
	MissingFrames int    `json:"missing_frames"`
	NoiseRejected int    `json:"noise_rejected_phases"`
	DroppedPhases int    `json:"dropped_unpaired_phases"`
	DominantAxis  string `json:"dominant_axis"`
}

// Progress is one preview record, delivered per consumed frame during a
// streamed analysis. TensionEstimate is a running estimate over the reps
// completed so far; the authoritative rating is in the final result.
type Progress struct {
	FrameNumber     int     `json:"frame_number"`
	Fraction        float64 `json:"progress_fraction"`
	RepCount        int     `json:"rep_count_so_far"`
	Velocity        float64 `json:"current_velocity"`
	TensionEstimate float64 `json:"current_tension_estimate"`
}

// FrameSource yields an ordered, finite landmark stream. Next returns
// io.EOF after the final frame and must honor ctx cancellation. The
// analyzer owns the source and closes it on every exit path.
type FrameSource interface {
	Next(ctx context.Context) (*LandmarkFrame, error)
	Close() error
}

// SliceSource adapts an in-memory frame slice to FrameSource.
type SliceSource struct {
	frames []LandmarkFrame
	next   int
}

// NewSliceSource returns a source that yields the given frames in order.
func NewSliceSource(frames []LandmarkFrame) *SliceSource {
	return &SliceSource{frames: frames}
}

// Next returns the next frame, or io.EOF once all frames are consumed.
func (s *SliceSource) Next(ctx context.Context) (*LandmarkFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	f := &s.frames[s.next]
	s.next++
	return f, nil
}

// Len returns the total frame count, letting the analyzer report exact
// progress fractions.
func (s *SliceSource) Len() int { return len(s.frames) }

// Close is a no-op for in-memory sources.
func (s *SliceSource) Close() error { return nil }

// Analyzer runs the full pipeline for one joint: track extraction,
// smoothing, velocity, rep segmentation, scoring and recommendations.
// An Analyzer holds no per-run state, so one instance may serve many
// sequential analyses; concurrent analyses should not share one config
// they mutate.
type Analyzer struct {
	cfg *Config
	rec RecommenderConfig
}

// NewAnalyzer returns an analyzer for the given config. A nil config means
// all defaults.
func NewAnalyzer(cfg *Config) *Analyzer {
	if cfg == nil {
		cfg = EmptyConfig()
	}
	return &Analyzer{cfg: cfg, rec: DefaultRecommenderConfig()}
}

// SetRecommender overrides the recommendation thresholds.
func (a *Analyzer) SetRecommender(rec RecommenderConfig) { a.rec = rec }

// Analyze runs the pipeline over a complete in-memory frame sequence. The
// dominant axis is chosen over the whole track. Cancelling ctx stops
// segmentation early and finalizes a partial result.
//
// Error contract: MissingLandmarkError means no result at all; an
// InsufficientDataError is returned alongside a structural result with
// zero reps; cancellation alone is not an error.
func (a *Analyzer) Analyze(ctx context.Context, frames []LandmarkFrame) (*AnalysisResult, error) {
	track, err := ExtractTrack(frames, a.cfg.GetJointName(), a.cfg.GetSide(),
		a.cfg.GetMinVisibility(), a.cfg.GetMaxMissingFraction())
	if err != nil {
		return nil, err
	}

	smoothed := SmoothTrack(track, a.cfg.GetSmoothingWindow())
	axis := DominantAxis(smoothed.Points)
	Diagf("track %s: %d frames (%d missing), dominant axis %s",
		JointKey(track.Joint, track.Side), track.Len(), track.MissingCount, axis)

	seg := NewRepSegmenter(a.cfg.SegmenterConfig())
	canceled := false
	for _, v := range ComputeVelocities(smoothed.Points, axis) {
		if ctx.Err() != nil {
			canceled = true
			Opsf("analysis canceled at frame %d of %d", v.Frame, track.Len())
			break
		}
		seg.Push(v)
	}

	endedMid := seg.Flush()
	reps := seg.Reps()
	for i := range reps {
		ScoreRep(&reps[i])
	}
	return a.assemble(seg, track, axis, endedMid || canceled)
}

// AnalyzeStream runs the pipeline over a streamed frame source, delivering
// one Progress record per consumed frame to onProgress (which may be nil).
// The source is closed before return on every path.
//
// Unlike Analyze, the dominant axis is locked after a short warmup rather
// than over the whole track; samples buffered during warmup are replayed
// through the segmenter once the axis is known. Progress fractions are
// reported only when the source knows its length (exposes Len() int).
func (a *Analyzer) AnalyzeStream(ctx context.Context, src FrameSource, onProgress func(Progress)) (*AnalysisResult, error) {
	defer func() {
		if cerr := src.Close(); cerr != nil {
			Diagf("frame source close: %v", cerr)
		}
	}()

	total := 0
	if sized, ok := src.(interface{ Len() int }); ok {
		total = sized.Len()
	}

	builder := NewTrackBuilder(a.cfg.GetJointName(), a.cfg.GetSide(), a.cfg.GetMinVisibility())
	smoother := NewStreamSmoother(a.cfg.GetSmoothingWindow())
	seg := NewRepSegmenter(a.cfg.SegmenterConfig())

	var (
		finals   []TrackPoint // finalized smoothed points, in frame order
		axis     Axis
		axisSet  bool
		fed      int // finals already consumed by the segmenter
		scored   int // reps scored so far
		lastMag  float64
		consumed int
		canceled bool
	)

	// feed drains finalized points into the segmenter. Only callable once
	// the axis is locked.
	feed := func() {
		for ; fed < len(finals); fed++ {
			if fed == 0 {
				continue
			}
			seg.Push(PairVelocity(finals[fed-1], finals[fed], fed, axis))
		}
	}

	lockAxis := func() {
		axis = DominantAxis(finals)
		axisSet = true
		Diagf("dominant axis locked to %s after %d samples", axis, len(finals))
		feed()
	}

	consume := func(pts []TrackPoint) {
		finals = append(finals, pts...)
		if n := len(finals); n >= 2 {
			// Preview velocity. Magnitude does not depend on the axis
			// choice, so this is valid even before the axis locks.
			lastMag = PairVelocity(finals[n-2], finals[n-1], n-1, AxisX).Magnitude
		}
		if axisSet {
			feed()
		} else if len(finals) >= axisWarmupFrames {
			lockAxis()
		}
	}

	for {
		frame, err := src.Next(ctx)
		if err != nil {
			if err == io.EOF {
				break
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				canceled = true
				Opsf("analysis canceled after %d frames", consumed)
				break
			}
			return nil, fmt.Errorf("frame source: %w", err)
		}

		pt, err := builder.Add(*frame)
		if err != nil {
			return nil, err
		}
		consumed++
		consume(smoother.Push(pt))

		reps := seg.Reps()
		for ; scored < len(reps); scored++ {
			ScoreRep(&reps[scored])
		}

		if onProgress != nil {
			p := Progress{
				FrameNumber: frame.FrameIndex,
				RepCount:    len(reps),
				Velocity:    lastMag,
			}
			if total > 0 {
				p.Fraction = float64(consumed) / float64(total)
			}
			if len(reps) > 0 {
				if est, aerr := AggregateRating(reps, a.cfg.GetFatigueWeightMax()); aerr == nil {
					p.TensionEstimate = est
				}
			}
			onProgress(p)
		}
	}

	// The missing-frame ceiling is judged over the whole stream, even when
	// the stream was cut short.
	track, err := builder.Track(a.cfg.GetMaxMissingFraction())
	if err != nil {
		return nil, err
	}

	consume(smoother.Flush())
	if !axisSet {
		// Short set: the stream ended inside the warmup.
		lockAxis()
	}

	endedMid := seg.Flush()
	reps := seg.Reps()
	for ; scored < len(reps); scored++ {
		ScoreRep(&reps[scored])
	}
	return a.assemble(seg, track, axis, endedMid || canceled)
}

// assemble builds the immutable result from a flushed segmenter.
func (a *Analyzer) assemble(seg *RepSegmenter, track *JointTrack, axis Axis, partial bool) (*AnalysisResult, error) {
	reps := seg.Reps()
	if reps == nil {
		reps = []Rep{}
	}

	res := &AnalysisResult{
		Reps:          reps,
		RepCount:      len(reps),
		Partial:       partial,
		TotalFrames:   track.Len(),
		MissingFrames: track.MissingCount,
		NoiseRejected: seg.NoiseRejected(),
		DroppedPhases: seg.DroppedUnpaired(),
		DominantAxis:  axis.String(),
	}

	if len(reps) == 0 {
		res.Summary = Summarize(nil, 0)
		res.Recommendations = Recommend(nil, 0, a.rec)
		Opsf("analysis done: frames=%d reps=0 partial=%v", track.Len(), partial)
		return res, &InsufficientDataError{
			Frames:  track.Len(),
			Samples: seg.SampleCount(),
			Reason:  "no complete repetitions detected",
		}
	}

	rating, err := AggregateRating(reps, a.cfg.GetFatigueWeightMax())
	if err != nil {
		return res, err
	}
	res.TensionRating = rating
	res.Recommendations = Recommend(reps, rating, a.rec)
	res.Summary = Summarize(reps, rating)

	Opsf("analysis done: frames=%d reps=%d rating=%.1f partial=%v rejected=%d",
		track.Len(), len(reps), rating, partial, seg.NoiseRejected())
	return res, nil
}
