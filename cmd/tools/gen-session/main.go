// Command gen-session generates synthetic landmark recordings for testing
// the analyzer and the session tooling without a pose estimator on hand.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/himai-labs/tension.report/internal/motion"
	"github.com/himai-labs/tension.report/internal/motion/feed"
	"github.com/himai-labs/tension.report/internal/session"
)

func main() {
	output := flag.String("o", "session.json", "output path")
	ndjson := flag.Bool("ndjson", false, "write one frame per line instead of a JSON array")
	exercise := flag.String("exercise", "bench_press", "exercise preset shaping the motion")
	reps := flag.Int("reps", 8, "number of repetitions")
	fps := flag.Float64("fps", 30, "frames per second")
	repDuration := flag.Float64("rep-duration", 2.5, "seconds per repetition")
	amplitude := flag.Float64("amplitude", 0.4, "movement range of the tracked joint in metres")
	noise := flag.Float64("noise", 0.005, "position noise stddev in metres")
	dropout := flag.Float64("dropout", 0, "fraction of frames with the tracked joint missing")
	seed := flag.Int64("seed", 0, "random seed (0: time-based)")
	dbPath := flag.String("db", "", "also save the session into this store database")
	flag.Parse()

	preset, ok := motion.Preset(*exercise)
	if !ok {
		log.Fatalf("unknown exercise %q (known: %v)", *exercise, motion.PresetNames())
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	gen := &generator{
		Preset:      preset,
		Reps:        *reps,
		FPS:         *fps,
		RepDuration: *repDuration,
		Amplitude:   *amplitude,
		Noise:       *noise,
		Dropout:     *dropout,
		rng:         rand.New(rand.NewSource(*seed)),
	}
	frames := gen.Frames()

	if *ndjson {
		if err := writeNDJSON(*output, frames); err != nil {
			log.Fatalf("failed to write %s: %v", *output, err)
		}
	} else {
		if err := feed.WriteFile(*output, frames); err != nil {
			log.Fatalf("failed to write %s: %v", *output, err)
		}
	}
	log.Printf("✓ created %s (%d frames, %d reps, %.1fs)",
		*output, len(frames), *reps, frames[len(frames)-1].Timestamp)

	if *dbPath != "" {
		store, err := session.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open session store: %v", err)
		}
		defer store.Close()

		id, err := store.SaveSession(session.Meta{
			Name:     fmt.Sprintf("synthetic %s x%d", *exercise, *reps),
			Exercise: *exercise,
			Source:   "synthetic",
			FPS:      *fps,
		}, frames)
		if err != nil {
			log.Fatalf("failed to save session: %v", err)
		}
		log.Printf("✓ saved session %s to %s", id, *dbPath)
	}
}

// generator builds a plausible landmark stream: the preset's recommended
// joint moves through smooth cosine-eased repetitions separated by rest,
// secondary joints follow with reduced range, and both sides are emitted.
type generator struct {
	Preset      motion.ExercisePreset
	Reps        int
	FPS         float64
	RepDuration float64
	Amplitude   float64
	Noise       float64
	Dropout     float64

	rng *rand.Rand
}

func (g *generator) Frames() []motion.LandmarkFrame {
	rest := 2 * g.Preset.MinRestDurationS
	lead := 1.0 // settle time before the first rep

	total := lead + float64(g.Reps)*g.RepDuration + float64(g.Reps)*rest
	count := int(total*g.FPS) + 1

	frames := make([]motion.LandmarkFrame, 0, count)
	for i := 0; i < count; i++ {
		t := float64(i) / g.FPS
		frames = append(frames, g.frameAt(i, t, lead, rest))
	}
	return frames
}

// frameAt builds one frame. Joint layout is a rough side-on skeleton; only
// relative motion matters to the analyzer.
func (g *generator) frameAt(index int, t, lead, rest float64) motion.LandmarkFrame {
	driver := g.Preset.RecommendedJoint
	elevation := g.elevationAt(t, lead, rest)

	joints := make(map[string]motion.JointPosition, 2*len(g.Preset.PrimaryJoints))
	for _, joint := range g.Preset.PrimaryJoints {
		factor := 0.35
		if joint == driver {
			factor = 1.0
		}

		for sideIdx, side := range []motion.Side{motion.SideLeft, motion.SideRight} {
			if joint == driver && g.Dropout > 0 && g.rng.Float64() < g.Dropout {
				continue
			}
			joints[motion.JointKey(joint, side)] = motion.JointPosition{
				X:          0.2*float64(sideIdx) + g.jitter(),
				Y:          1.0 + factor*elevation + g.jitter(),
				Z:          0.05*float64(sideIdx) + g.jitter(),
				Confidence: 0.8 + 0.2*g.rng.Float64(),
			}
		}
	}

	return motion.LandmarkFrame{
		FrameIndex: index,
		Timestamp:  t,
		Joints:     joints,
	}
}

// elevationAt returns the driver joint's offset from its rest position:
// zero during lead-in and rest gaps, a cosine-eased excursion during reps.
func (g *generator) elevationAt(t, lead, rest float64) float64 {
	if t < lead {
		return 0
	}
	cycle := g.RepDuration + rest
	within := math.Mod(t-lead, cycle)
	repIndex := int((t - lead) / cycle)
	if repIndex >= g.Reps || within >= g.RepDuration {
		return 0
	}

	// Rise for the first half of the rep, descend for the second.
	u := within / g.RepDuration
	if u <= 0.5 {
		return g.Amplitude * easeCos(u*2)
	}
	return g.Amplitude * easeCos((1-u)*2)
}

// easeCos maps [0,1] to [0,1] with zero slope at both ends.
func easeCos(u float64) float64 {
	return (1 - math.Cos(math.Pi*u)) / 2
}

func (g *generator) jitter() float64 {
	if g.Noise == 0 {
		return 0
	}
	return g.rng.NormFloat64() * g.Noise
}

func writeNDJSON(path string, frames []motion.LandmarkFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, frame := range frames {
		data, err := feed.EncodeFrame(&frame)
		if err != nil {
			return err
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}
