// Package motion turns per-frame body-joint positions from an external pose
// estimator into segmented repetitions and mechanical-tension scores.
//
// The pipeline runs strictly forward: track extraction, smoothing, velocity
// computation, rep segmentation, tension scoring, recommendations. Analyzer
// composes the stages; the individual stages are exported for testing and
// for callers that only need part of the chain.
package motion

import (
	"fmt"
)

// Side selects the left or right instance of a joint.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Joint names produced by the pose estimator. Frames key joints by
// side-prefixed name, e.g. "left_wrist".
const (
	JointWrist    = "wrist"
	JointElbow    = "elbow"
	JointShoulder = "shoulder"
	JointHip      = "hip"
	JointKnee     = "knee"
	JointAnkle    = "ankle"
)

// JointPosition is one joint's estimated 3D position for a single frame.
// Confidence is the estimator's detection confidence in [0,1].
type JointPosition struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Confidence float64 `json:"confidence"`
}

// LandmarkFrame is the full set of detected joints for one video frame, as
// supplied by the external pose estimator. Frames are immutable and ordered
// by FrameIndex; Timestamp is seconds from the start of the recording.
type LandmarkFrame struct {
	FrameIndex int                      `json:"frame_index"`
	Timestamp  float64                  `json:"timestamp"`
	Joints     map[string]JointPosition `json:"joints"`
}

// JointKey returns the side-prefixed joint key used in LandmarkFrame.Joints.
func JointKey(joint string, side Side) string {
	return string(side) + "_" + joint
}

// TrackPoint is one frame's contribution to a JointTrack. A point with
// Confidence == 0 marks a frame where the joint was not detected at
// sufficient confidence; its position is meaningless until the Smoother
// fills it by interpolation.
type TrackPoint struct {
	Time       float64 `json:"time"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Confidence float64 `json:"confidence"`
}

// Missing reports whether the joint was undetected in this frame.
func (p TrackPoint) Missing() bool { return p.Confidence == 0 }

// JointTrack is the time series of one joint/side across all frames of a
// recording. Invariants: timestamps strictly increase, and the track has
// exactly one point per input frame so indices stay aligned with
// LandmarkFrame.FrameIndex order.
type JointTrack struct {
	Joint  string       `json:"joint"`
	Side   Side         `json:"side"`
	Points []TrackPoint `json:"points"`

	// MissingCount is the number of points with no usable detection.
	MissingCount int `json:"missing_count"`
}

// Len returns the number of points in the track.
func (t *JointTrack) Len() int { return len(t.Points) }

// MissingFraction returns the fraction of points with no usable detection.
func (t *JointTrack) MissingFraction() float64 {
	if len(t.Points) == 0 {
		return 1.0
	}
	return float64(t.MissingCount) / float64(len(t.Points))
}

// TrackBuilder accumulates LandmarkFrames into a JointTrack for one
// joint/side. It is the incremental form of ExtractTrack, used by the
// analyzer when consuming a streamed frame sequence.
type TrackBuilder struct {
	joint         string
	side          Side
	minVisibility float64

	key    string
	points []TrackPoint
	missed int
	lastTS float64
}

// NewTrackBuilder returns a builder selecting joint/side at the given
// minimum detection confidence.
func NewTrackBuilder(joint string, side Side, minVisibility float64) *TrackBuilder {
	return &TrackBuilder{
		joint:         joint,
		side:          side,
		minVisibility: minVisibility,
		key:           JointKey(joint, side),
	}
}

// Add appends one frame's contribution to the track and returns the point
// it produced. Frames must arrive in order; a non-increasing timestamp is
// an input contract violation.
func (b *TrackBuilder) Add(frame LandmarkFrame) (TrackPoint, error) {
	if len(b.points) > 0 && frame.Timestamp <= b.lastTS {
		return TrackPoint{}, fmt.Errorf("frame %d: timestamp %.6f not after previous %.6f",
			frame.FrameIndex, frame.Timestamp, b.lastTS)
	}

	pt := TrackPoint{Time: frame.Timestamp}
	if pos, ok := frame.Joints[b.key]; ok && pos.Confidence >= b.minVisibility {
		pt.X, pt.Y, pt.Z = pos.X, pos.Y, pos.Z
		pt.Confidence = pos.Confidence
	} else {
		// Missing sample: keep the slot to preserve frame alignment.
		b.missed++
		Tracef("frame %d: %s missing (confidence below %.2f)", frame.FrameIndex, b.key, b.minVisibility)
	}

	b.points = append(b.points, pt)
	b.lastTS = frame.Timestamp
	return pt, nil
}

// Count returns the number of frames added so far.
func (b *TrackBuilder) Count() int { return len(b.points) }

// MissingCount returns the number of missing samples added so far.
func (b *TrackBuilder) MissingCount() int { return b.missed }

// Track finalizes and returns the accumulated JointTrack. The missing-frame
// ceiling is checked here, once the whole stream has been seen.
func (b *TrackBuilder) Track(maxMissingFraction float64) (*JointTrack, error) {
	n := len(b.points)
	if n == 0 {
		return nil, &MissingLandmarkError{
			Joint: b.joint, Side: b.side,
			MissingFraction: 1.0, MaxFraction: maxMissingFraction,
		}
	}

	frac := float64(b.missed) / float64(n)
	if frac > maxMissingFraction {
		return nil, &MissingLandmarkError{
			Joint: b.joint, Side: b.side,
			MissingFrames: b.missed, TotalFrames: n,
			MissingFraction: frac, MaxFraction: maxMissingFraction,
		}
	}

	return &JointTrack{
		Joint:        b.joint,
		Side:         b.side,
		Points:       b.points,
		MissingCount: b.missed,
	}, nil
}

// ExtractTrack selects one joint/side track from a complete frame sequence.
// It fails with MissingLandmarkError when more than maxMissingFraction of
// the frames lack the joint at confidence >= minVisibility.
func ExtractTrack(frames []LandmarkFrame, joint string, side Side, minVisibility, maxMissingFraction float64) (*JointTrack, error) {
	b := NewTrackBuilder(joint, side, minVisibility)
	for _, f := range frames {
		if _, err := b.Add(f); err != nil {
			return nil, err
		}
	}
	return b.Track(maxMissingFraction)
}
