package motion

import (
	"errors"
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScoreRep(t *testing.T) {
	cases := []struct {
		name                             string
		avg, max, duration               float64
		wantVel, wantCtl, wantDur, wantRep float64
	}{
		{
			name: "controlled tempo scores high",
			avg:  0.2, max: 0.5, duration: 3.0,
			wantVel: 80, wantCtl: 60, wantDur: 60, wantRep: 70,
		},
		{
			name: "slow grinding rep maxes duration",
			avg:  0.1, max: 0.25, duration: 6.0,
			wantVel: 90, wantCtl: 80, wantDur: 100, wantRep: 89,
		},
		{
			name: "explosive rep clamps to zero",
			avg:  1.5, max: 2.0, duration: 0.5,
			wantVel: 0, wantCtl: 0, wantDur: 10, wantRep: 2,
		},
		{
			name: "stationary rep clamps to hundred",
			avg:  0, max: 0, duration: 10,
			wantVel: 100, wantCtl: 100, wantDur: 100, wantRep: 100,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Rep{AvgVelocity: tc.avg, MaxVelocity: tc.max, Duration: tc.duration}
			ScoreRep(&r)
			if !almost(r.VelocityScore, tc.wantVel) {
				t.Fatalf("velocity score: expected %v got %v", tc.wantVel, r.VelocityScore)
			}
			if !almost(r.ControlScore, tc.wantCtl) {
				t.Fatalf("control score: expected %v got %v", tc.wantCtl, r.ControlScore)
			}
			if !almost(r.DurationScore, tc.wantDur) {
				t.Fatalf("duration score: expected %v got %v", tc.wantDur, r.DurationScore)
			}
			if !almost(r.RepScore, tc.wantRep) {
				t.Fatalf("rep score: expected %v got %v", tc.wantRep, r.RepScore)
			}
		})
	}
}

func TestScoreRepMonotonicity(t *testing.T) {
	// Holding everything else fixed, a faster rep never scores higher.
	prev := math.Inf(1)
	for i := 0; i <= 32; i++ {
		r := Rep{AvgVelocity: float64(i) * 0.05, MaxVelocity: 0.5, Duration: 3.0}
		ScoreRep(&r)
		if r.RepScore > prev {
			t.Fatalf("rep score rose to %v at avg velocity %v", r.RepScore, r.AvgVelocity)
		}
		prev = r.RepScore
	}

	prev = math.Inf(1)
	for i := 0; i <= 40; i++ {
		r := Rep{AvgVelocity: 0.3, MaxVelocity: float64(i) * 0.05, Duration: 3.0}
		ScoreRep(&r)
		if r.RepScore > prev {
			t.Fatalf("rep score rose to %v at max velocity %v", r.RepScore, r.MaxVelocity)
		}
		prev = r.RepScore
	}
}

func TestFatigueWeights(t *testing.T) {
	w := FatigueWeights(4, 1.5)
	want := []float64{1.0, 1.0 + 0.5/3, 1.0 + 1.0/3, 1.5}
	if len(w) != 4 {
		t.Fatalf("expected 4 weights got %d", len(w))
	}
	for i := range w {
		if !almost(w[i], want[i]) {
			t.Fatalf("weight %d: expected %v got %v", i, want[i], w[i])
		}
	}

	// A single rep carries weight 1 regardless of the ramp ceiling.
	single := FatigueWeights(1, 2.0)
	if len(single) != 1 || single[0] != 1.0 {
		t.Fatalf("expected [1.0] got %v", single)
	}

	// Unit ceiling degenerates to uniform weights.
	flat := FatigueWeights(3, 1.0)
	for i, v := range flat {
		if v != 1.0 {
			t.Fatalf("weight %d: expected 1.0 got %v", i, v)
		}
	}
}

func TestAggregateRating(t *testing.T) {
	repWithScore := func(s float64) Rep { return Rep{RepScore: s} }

	t.Run("later reps weigh more", func(t *testing.T) {
		// Weights (1.0, 1.5): a strong finish outrates a strong start.
		fading, err := AggregateRating([]Rep{repWithScore(90), repWithScore(50)}, 1.5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		finishing, err := AggregateRating([]Rep{repWithScore(50), repWithScore(90)}, 1.5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almost(fading, 66.0) {
			t.Fatalf("expected fading set to rate 66.0, got %v", fading)
		}
		if !almost(finishing, 74.0) {
			t.Fatalf("expected finishing set to rate 74.0, got %v", finishing)
		}
	})

	t.Run("unit ceiling is a plain mean", func(t *testing.T) {
		rating, err := AggregateRating([]Rep{repWithScore(90), repWithScore(50)}, 1.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almost(rating, 70.0) {
			t.Fatalf("expected 70.0 got %v", rating)
		}
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		rating, err := AggregateRating([]Rep{repWithScore(100), repWithScore(0), repWithScore(100)}, 1.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rating != 66.7 {
			t.Fatalf("expected 66.7 got %v", rating)
		}
	})

	t.Run("zero reps is insufficient data", func(t *testing.T) {
		rating, err := AggregateRating(nil, 1.5)
		if rating != 0 {
			t.Fatalf("expected zero rating got %v", rating)
		}
		var insufficient *InsufficientDataError
		if !errors.As(err, &insufficient) {
			t.Fatalf("expected InsufficientDataError got %v", err)
		}
	})
}
