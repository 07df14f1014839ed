package motion

import "math"

// Axis identifies one spatial axis of the pose estimator's coordinate frame.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// VelocitySample is the displacement rate between one consecutive frame
// pair. Magnitude is the Euclidean 3D rate in track units per second (no
// physical calibration exists); Signed is the rate along the dominant
// motion axis, whose sign carries the movement direction.
type VelocitySample struct {
	// Frame is the index of the later frame of the pair.
	Frame int `json:"frame"`
	// Time is the timestamp of the later frame, seconds.
	Time float64 `json:"time"`
	// Elapsed is the time between the two frames, seconds.
	Elapsed   float64 `json:"elapsed"`
	Magnitude float64 `json:"magnitude"`
	Signed    float64 `json:"signed"`
}

// DominantAxis returns the axis with the greatest total absolute
// displacement across the track. Deciding the axis once per analysis keeps
// the sign of the velocity signal stable; re-deciding it frame by frame
// would destabilize rep segmentation. Ties resolve to the lower axis index
// so results stay deterministic.
func DominantAxis(points []TrackPoint) Axis {
	var total [3]float64
	for i := 1; i < len(points); i++ {
		total[0] += math.Abs(points[i].X - points[i-1].X)
		total[1] += math.Abs(points[i].Y - points[i-1].Y)
		total[2] += math.Abs(points[i].Z - points[i-1].Z)
	}

	axis := AxisX
	for a := AxisY; a <= AxisZ; a++ {
		if total[a] > total[axis] {
			axis = a
		}
	}
	return axis
}

// PairVelocity computes the velocity sample for two consecutive smoothed
// points. The caller guarantees strictly increasing timestamps.
func PairVelocity(prev, cur TrackPoint, frame int, axis Axis) VelocitySample {
	dt := cur.Time - prev.Time
	dx := cur.X - prev.X
	dy := cur.Y - prev.Y
	dz := cur.Z - prev.Z

	var signed float64
	switch axis {
	case AxisX:
		signed = dx / dt
	case AxisY:
		signed = dy / dt
	case AxisZ:
		signed = dz / dt
	}

	return VelocitySample{
		Frame:     frame,
		Time:      cur.Time,
		Elapsed:   dt,
		Magnitude: math.Sqrt(dx*dx+dy*dy+dz*dz) / dt,
		Signed:    signed,
	}
}

// ComputeVelocities converts a smoothed track into one velocity sample per
// consecutive frame pair (length = len(points) - 1). Variable frame
// intervals are supported; each sample divides by its own elapsed time.
func ComputeVelocities(points []TrackPoint, axis Axis) []VelocitySample {
	if len(points) < 2 {
		return nil
	}
	out := make([]VelocitySample, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		out = append(out, PairVelocity(points[i-1], points[i], i, axis))
	}
	return out
}
