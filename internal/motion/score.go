package motion

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Score weights for the per-rep blend. Slow average movement counts most,
// then peak-velocity control, then time under tension.
const (
	velocityWeight = 0.5
	controlWeight  = 0.3
	durationWeight = 0.2
)

// clampScore bounds a sub-score to the 0-100 scale.
func clampScore(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// ScoreRep fills in a rep's tension sub-scores and blended rep score from
// its kinematics. Lower velocities and longer duration score higher: the
// model rewards controlled tempo over load moved.
func ScoreRep(r *Rep) {
	r.VelocityScore = clampScore(100 - r.AvgVelocity*100)
	r.ControlScore = clampScore(100 - r.MaxVelocity*80)
	r.DurationScore = clampScore(r.Duration * 20)
	r.RepScore = velocityWeight*r.VelocityScore +
		controlWeight*r.ControlScore +
		durationWeight*r.DurationScore
}

// FatigueWeights returns the per-rep aggregation weights: a linear ramp
// from 1.0 at the first rep to max at the last. Later reps are performed
// under fatigue, so their tension is more diagnostic of the whole set.
func FatigueWeights(n int, max float64) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0
		if n > 1 {
			w[i] += (max - 1) * float64(i) / float64(n-1)
		}
	}
	return w
}

// AggregateRating computes the fatigue-weighted mean rep score across the
// set, clamped to [0,100] and rounded to one decimal. Zero reps is an
// InsufficientDataError: a rating computed from nothing would mislead.
func AggregateRating(reps []Rep, fatigueWeightMax float64) (float64, error) {
	if len(reps) == 0 {
		return 0, &InsufficientDataError{}
	}

	scores := make([]float64, len(reps))
	for i, r := range reps {
		scores[i] = r.RepScore
	}
	weights := FatigueWeights(len(reps), fatigueWeightMax)

	rating := clampScore(stat.Mean(scores, weights))
	return math.Round(rating*10) / 10, nil
}
