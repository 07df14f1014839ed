package motion

// StreamSmoother incrementally fills missing samples and applies a centered
// moving-average window to a joint track, emitting points as soon as they
// can no longer change. A point is final once every frame its window spans
// has a resolved position: missing samples resolve by linear interpolation
// when the next valid detection arrives, or by nearest-neighbour
// extrapolation at Flush.
//
// The smoother never drops or reorders frames; the points emitted across
// Push and Flush calls are exactly one per input point, in input order.
type StreamSmoother struct {
	window int
	half   int

	points    []TrackPoint // all input points; positions rewritten in place as gaps resolve
	lastValid int          // index of the most recent valid detection, -1 before the first
	resolved  int          // count of leading points whose positions are final
	emitted   int          // count of points already handed to the caller
}

// NewStreamSmoother returns a smoother with the given window size.
// A window of 1 disables averaging; gap interpolation still applies.
func NewStreamSmoother(window int) *StreamSmoother {
	if window < 1 {
		window = 1
	}
	return &StreamSmoother{
		window:    window,
		half:      window / 2,
		lastValid: -1,
	}
}

// Push adds the next raw point and returns any newly finalized smoothed
// points (possibly none while the window or an open gap needs more input).
func (s *StreamSmoother) Push(pt TrackPoint) []TrackPoint {
	i := len(s.points)
	s.points = append(s.points, pt)

	if !pt.Missing() {
		if s.lastValid < i-1 {
			s.fillGap(s.lastValid, i)
		}
		s.lastValid = i
		s.resolved = i + 1
	}

	return s.emit(false)
}

// Flush resolves any trailing gap by extrapolation and returns the
// remaining smoothed points.
func (s *StreamSmoother) Flush() []TrackPoint {
	if s.lastValid >= 0 && s.lastValid < len(s.points)-1 {
		last := s.points[s.lastValid]
		for j := s.lastValid + 1; j < len(s.points); j++ {
			s.points[j].X, s.points[j].Y, s.points[j].Z = last.X, last.Y, last.Z
		}
	}
	s.resolved = len(s.points)
	return s.emit(true)
}

// fillGap rewrites positions in (from, to) exclusive. With a valid sample on
// both sides the gap is linearly interpolated by timestamp; a missing run at
// the very start copies the first valid position.
func (s *StreamSmoother) fillGap(from, to int) {
	b := s.points[to]
	if from < 0 {
		for j := 0; j < to; j++ {
			s.points[j].X, s.points[j].Y, s.points[j].Z = b.X, b.Y, b.Z
		}
		return
	}

	a := s.points[from]
	span := b.Time - a.Time
	for j := from + 1; j < to; j++ {
		f := (s.points[j].Time - a.Time) / span
		s.points[j].X = a.X + (b.X-a.X)*f
		s.points[j].Y = a.Y + (b.Y-a.Y)*f
		s.points[j].Z = a.Z + (b.Z-a.Z)*f
	}
}

// emit returns smoothed points whose windows are fully resolved. At the end
// of the stream (final=true) windows clamp to the track bounds.
func (s *StreamSmoother) emit(final bool) []TrackPoint {
	var out []TrackPoint
	for i := s.emitted; i < len(s.points); i++ {
		if !final && i+s.half >= s.resolved {
			break
		}
		out = append(out, s.smoothAt(i))
		s.emitted = i + 1
	}
	return out
}

// smoothAt averages the window centered on i, clamped to the track bounds
// and divided by the actual sample count, so edges use asymmetric windows.
func (s *StreamSmoother) smoothAt(i int) TrackPoint {
	pt := s.points[i]
	if s.window == 1 {
		return pt
	}

	lo := i - s.half
	if lo < 0 {
		lo = 0
	}
	hi := i + s.half
	if hi > len(s.points)-1 {
		hi = len(s.points) - 1
	}

	var sx, sy, sz float64
	for j := lo; j <= hi; j++ {
		sx += s.points[j].X
		sy += s.points[j].Y
		sz += s.points[j].Z
	}
	n := float64(hi - lo + 1)
	pt.X, pt.Y, pt.Z = sx/n, sy/n, sz/n
	return pt
}

// SmoothTrack returns a new track with missing samples filled and positions
// passed through the moving-average window. The input track is not
// modified; output length always equals input length.
func SmoothTrack(track *JointTrack, window int) *JointTrack {
	s := NewStreamSmoother(window)
	out := make([]TrackPoint, 0, len(track.Points))
	for _, pt := range track.Points {
		out = append(out, s.Push(pt)...)
	}
	out = append(out, s.Flush()...)

	return &JointTrack{
		Joint:        track.Joint,
		Side:         track.Side,
		Points:       out,
		MissingCount: track.MissingCount,
	}
}
