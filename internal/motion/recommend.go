package motion

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Rating bands for the summary sentence.
const (
	ratingExcellent = 80.0
	ratingGood      = 60.0
)

// RecommenderConfig holds the thresholds the coaching rules fire against.
type RecommenderConfig struct {
	// LowRating is the tension rating below which tempo advice fires.
	LowRating float64
	// MinAvgRepDuration is the mean rep duration (seconds) below which the
	// time-under-tension advice fires.
	MinAvgRepDuration float64
	// MaxTempoStdDev is the population standard deviation of per-rep
	// average velocity above which the consistency advice fires.
	MaxTempoStdDev float64
	// MinReliableReps is the rep count below which results carry a
	// reliability note.
	MinReliableReps int
}

// DefaultRecommenderConfig returns the stock coaching thresholds.
func DefaultRecommenderConfig() RecommenderConfig {
	return RecommenderConfig{
		LowRating:         60.0,
		MinAvgRepDuration: 2.0,
		MaxTempoStdDev:    0.1,
		MinReliableReps:   3,
	}
}

// Recommend derives ordered coaching feedback from the set's aggregate
// metrics. It is pure and deterministic: same reps and rating, same
// strings. When no corrective rule fires it returns positive
// reinforcement instead of an empty list.
func Recommend(reps []Rep, rating float64, cfg RecommenderConfig) []string {
	var recs []string

	if len(reps) == 0 {
		return []string{
			"Insufficient repetitions for reliable analysis - complete at least one full rep",
		}
	}

	if len(reps) < cfg.MinReliableReps {
		recs = append(recs,
			fmt.Sprintf("Insufficient repetitions for reliable analysis - aim for at least %d reps per set", cfg.MinReliableReps))
	}

	if rating < cfg.LowRating {
		recs = append(recs,
			"Slow down your repetitions - aim for 3-4 seconds per phase",
			"Focus on the eccentric (lowering) portion of the movement")
	}

	if meanDuration(reps) < cfg.MinAvgRepDuration {
		recs = append(recs,
			"Increase time under tension - each rep should take at least 2-3 seconds")
	}

	if tempoStdDev(reps) > cfg.MaxTempoStdDev {
		recs = append(recs,
			"Try to maintain consistent tempo across all reps")
	}

	if len(recs) == 0 {
		recs = append(recs,
			"Great form! Maintain this tempo and focus on progressive overload",
			"Consider adding a pause at peak contraction for even more tension")
	}

	return recs
}

// Summarize renders the one-paragraph set summary: counts, averages, and a
// rating-band sentence. Zero reps gets an explanatory sentence instead.
func Summarize(reps []Rep, rating float64) string {
	if len(reps) == 0 {
		return "No complete repetitions were detected in this set. " +
			"Check that the tracked joint stays visible and that the set includes full lifting and lowering movements."
	}

	s := fmt.Sprintf("Analyzed %d repetitions. Average time under tension: %.1fs per rep. Average movement velocity: %.3f units/sec.",
		len(reps), meanDuration(reps), meanVelocity(reps))

	switch {
	case rating >= ratingExcellent:
		s += " Excellent mechanical tension! Your controlled tempo is maximizing muscle engagement."
	case rating >= ratingGood:
		s += " Good tension, but there's room for improvement. Try slowing down the eccentric phase."
	default:
		s += " Low tension detected. Focus on slower, more controlled movements to increase time under tension."
	}

	return s
}

func meanDuration(reps []Rep) float64 {
	ds := make([]float64, len(reps))
	for i, r := range reps {
		ds[i] = r.Duration
	}
	return stat.Mean(ds, nil)
}

func meanVelocity(reps []Rep) float64 {
	vs := make([]float64, len(reps))
	for i, r := range reps {
		vs[i] = r.AvgVelocity
	}
	return stat.Mean(vs, nil)
}

// tempoStdDev is the population standard deviation of per-rep average
// velocity; rep-to-rep spread in tempo reads as inconsistency.
func tempoStdDev(reps []Rep) float64 {
	vs := make([]float64, len(reps))
	for i, r := range reps {
		vs[i] = r.AvgVelocity
	}
	return stat.PopStdDev(vs, nil)
}
