package motion

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PhaseState represents the directional state of the rep segmenter.
type PhaseState string

const (
	// PhaseIdle is the initial state: no sustained motion either way.
	PhaseIdle PhaseState = "idle"
	// PhaseConcentric is sustained motion in the positive direction along
	// the dominant axis. Which physical direction that is depends on the
	// estimator's coordinate frame; pairing works for lift-first and
	// lower-first exercises alike.
	PhaseConcentric PhaseState = "concentric"
	// PhaseEccentric is sustained motion in the negative direction.
	PhaseEccentric PhaseState = "eccentric"

	// phaseNone marks "no pending transition candidate".
	phaseNone PhaseState = ""
)

// Phase is one contiguous run of the state machine in a single directional
// state. Frame indices refer to LandmarkFrame.FrameIndex order.
type Phase struct {
	State      PhaseState `json:"state"`
	StartFrame int        `json:"start_frame"`
	EndFrame   int        `json:"end_frame"`
	StartTime  float64    `json:"start_time"`
	EndTime    float64    `json:"end_time"`
	Duration   float64    `json:"duration"`
}

// Rep is a matched (concentric, eccentric) phase pair in either temporal
// order. Kinematics come from the velocity magnitude stream over the rep's
// span; the score fields are filled in by the TensionScorer.
type Rep struct {
	Number     int   `json:"rep_number"`
	Concentric Phase `json:"concentric"`
	Eccentric  Phase `json:"eccentric"`

	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	Duration    float64 `json:"duration"`
	AvgVelocity float64 `json:"avg_velocity"`
	MaxVelocity float64 `json:"max_velocity"`

	VelocityScore float64 `json:"velocity_score"`
	ControlScore  float64 `json:"control_score"`
	DurationScore float64 `json:"duration_score"`
	RepScore      float64 `json:"rep_score"`
}

// SegmenterConfig holds the rep segmenter's hysteresis thresholds. The
// values are empirical tuning, so they are configuration rather than
// constants; presets override them per exercise.
type SegmenterConfig struct {
	// NoiseFloor is the minimum |signed velocity| that counts as motion,
	// in track units per second.
	NoiseFloor float64
	// MinDwellS is how long a direction change (or stillness) must persist
	// before the transition is accepted. This is the hysteresis that stops
	// jitter around zero velocity from producing spurious rep boundaries.
	MinDwellS float64
	// MinPhaseDurationS is the minimum duration of a closed phase; shorter
	// phases are discarded as noise and never become part of a Rep.
	MinPhaseDurationS float64
}

// DefaultSegmenterConfig returns the default hysteresis thresholds.
func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		NoiseFloor:        0.05,
		MinDwellS:         0.04,
		MinPhaseDurationS: 0.3,
	}
}

// RepSegmenter turns an ordered velocity stream into repetitions via an
// explicit hysteresis state machine (idle / concentric / eccentric).
//
// Transitions out of a state are accepted only after the candidate
// condition has held for MinDwellS across consecutive samples; the accepted
// boundary is placed retroactively where the candidate run began. A phase
// closes either on a sustained sign reversal (opening the opposite phase)
// or on sustained stillness (returning to idle). Closed phases shorter
// than MinPhaseDurationS are rejected as noise. A rep is emitted whenever
// two complementary phases close back to back, in either order.
type RepSegmenter struct {
	cfg SegmenterConfig

	state   PhaseState
	samples []VelocitySample // every sample consumed; index = Frame-1

	// Open phase bounds. lastActive tracks the most recent sample that
	// confirmed the current direction, so a phase never extends into a
	// trailing run of noise or stillness.
	phaseStartFrame int
	phaseStartTime  float64
	lastActiveFrame int
	lastActiveTime  float64

	// Pending transition candidate (hysteresis dwell in progress).
	pending           PhaseState
	pendingStartFrame int
	pendingStartTime  float64
	pendingLastTime   float64

	unpaired *Phase // closed phase awaiting a complementary partner

	reps     []Rep
	rejected []Phase // noise-rejected phases (diagnostics only)
	dropped  []Phase // unpaired phases replaced by a same-direction close
	partial  bool
}

// NewRepSegmenter returns a segmenter in the idle state.
func NewRepSegmenter(cfg SegmenterConfig) *RepSegmenter {
	return &RepSegmenter{cfg: cfg, state: PhaseIdle, pending: phaseNone}
}

// classify maps a signed velocity onto the state it argues for.
func (s *RepSegmenter) classify(signed float64) PhaseState {
	switch {
	case signed > s.cfg.NoiseFloor:
		return PhaseConcentric
	case signed < -s.cfg.NoiseFloor:
		return PhaseEccentric
	default:
		return PhaseIdle
	}
}

// Push consumes the next velocity sample in stream order.
func (s *RepSegmenter) Push(v VelocitySample) {
	s.samples = append(s.samples, v)
	dir := s.classify(v.Signed)
	Tracef("sample frame=%d signed=%+.4f dir=%s state=%s", v.Frame, v.Signed, dir, s.state)

	// Step 1: samples confirming the current state clear any pending
	// transition and extend the phase's active bound.
	if dir == s.state {
		s.pending = phaseNone
		if s.state != PhaseIdle {
			s.lastActiveFrame = v.Frame
			s.lastActiveTime = v.Time
		}
		return
	}

	// Step 2: grow or restart the pending candidate. Candidates must be
	// consecutive: a sample arguing for a different state restarts the
	// dwell from this sample's pair.
	if s.pending != dir {
		s.pending = dir
		s.pendingStartFrame = v.Frame - 1
		s.pendingStartTime = v.Time - v.Elapsed
	}
	s.pendingLastTime = v.Time

	// Step 3: accept the transition once the candidate has dwelt long
	// enough on the other side of the noise floor.
	if s.pendingLastTime-s.pendingStartTime < s.cfg.MinDwellS {
		return
	}

	target := s.pending
	boundaryFrame, boundaryTime := s.pendingStartFrame, s.pendingStartTime
	s.pending = phaseNone

	// Step 4: close the open phase at the point the candidate run began.
	if s.state != PhaseIdle {
		s.closePhase(boundaryFrame, boundaryTime)
	}

	// Step 5: enter the new state; a directional phase opens retroactively
	// at the boundary and is already confirmed through this sample.
	s.state = target
	if target != PhaseIdle {
		s.phaseStartFrame = boundaryFrame
		s.phaseStartTime = boundaryTime
		s.lastActiveFrame = v.Frame
		s.lastActiveTime = v.Time
		Diagf("phase open %s at frame %d (t=%.3fs)", target, boundaryFrame, boundaryTime)
	}
}

// Flush finalizes segmentation at the end of the velocity stream and
// reports whether the stream ended mid-phase. An open phase long enough to
// clear MinPhaseDurationS is closed and paired if possible; anything
// shorter is discarded as noise.
func (s *RepSegmenter) Flush() (endedMidPhase bool) {
	if s.state == PhaseIdle {
		return s.partial
	}

	s.partial = true
	s.closePhase(s.lastActiveFrame, s.lastActiveTime)
	s.state = PhaseIdle
	return s.partial
}

// closePhase finalizes the open phase at the given boundary, applying the
// noise-rejection policy and rep pairing.
func (s *RepSegmenter) closePhase(endFrame int, endTime float64) {
	ph := Phase{
		State:      s.state,
		StartFrame: s.phaseStartFrame,
		EndFrame:   endFrame,
		StartTime:  s.phaseStartTime,
		EndTime:    endTime,
		Duration:   endTime - s.phaseStartTime,
	}

	// Noise rejection: short phases are discarded and stay invisible to
	// pairing, exactly as if they never happened.
	if ph.Duration < s.cfg.MinPhaseDurationS {
		s.rejected = append(s.rejected, ph)
		Diagf("phase rejected as noise: %s frames %d-%d (%.3fs < %.3fs)",
			ph.State, ph.StartFrame, ph.EndFrame, ph.Duration, s.cfg.MinPhaseDurationS)
		return
	}

	Diagf("phase close %s frames %d-%d (%.3fs)", ph.State, ph.StartFrame, ph.EndFrame, ph.Duration)

	if s.unpaired != nil && s.unpaired.State != ph.State {
		s.emitRep(*s.unpaired, ph)
		s.unpaired = nil
		return
	}

	if s.unpaired != nil {
		s.dropped = append(s.dropped, *s.unpaired)
		Diagf("unpaired %s phase dropped: superseded by same-direction close", s.unpaired.State)
	}
	s.unpaired = &ph
}

// emitRep assembles a Rep from two complementary closed phases. The rep's
// kinematics are drawn from the magnitude stream over the rep's span: the
// samples whose later frame lies in (start frame, end frame].
func (s *RepSegmenter) emitRep(first, second Phase) {
	rep := Rep{
		Number:    len(s.reps) + 1,
		StartTime: first.StartTime,
		EndTime:   second.EndTime,
		Duration:  second.EndTime - first.StartTime,
	}
	if first.State == PhaseConcentric {
		rep.Concentric, rep.Eccentric = first, second
	} else {
		rep.Concentric, rep.Eccentric = second, first
	}

	mags := make([]float64, 0, second.EndFrame-first.StartFrame)
	for _, v := range s.samples[first.StartFrame:second.EndFrame] {
		mags = append(mags, v.Magnitude)
	}
	if len(mags) > 0 {
		rep.AvgVelocity = stat.Mean(mags, nil)
		rep.MaxVelocity = floats.Max(mags)
	}

	s.reps = append(s.reps, rep)
	Diagf("rep %d complete: %.3fs, avg %.4f u/s, max %.4f u/s",
		rep.Number, rep.Duration, rep.AvgVelocity, rep.MaxVelocity)
}

// State returns the segmenter's current state.
func (s *RepSegmenter) State() PhaseState { return s.state }

// Reps returns the repetitions completed so far, in emission order.
func (s *RepSegmenter) Reps() []Rep { return s.reps }

// SampleCount returns the number of velocity samples consumed.
func (s *RepSegmenter) SampleCount() int { return len(s.samples) }

// NoiseRejected returns the number of phases discarded as noise.
func (s *RepSegmenter) NoiseRejected() int { return len(s.rejected) }

// DroppedUnpaired returns the number of unpaired phases superseded by a
// same-direction close.
func (s *RepSegmenter) DroppedUnpaired() int { return len(s.dropped) }
