package motion

import "fmt"

// MissingLandmarkError reports that too few frames contained the requested
// joint at sufficient confidence to produce a usable signal. It is fatal:
// no partial result accompanies it.
type MissingLandmarkError struct {
	Joint           string
	Side            Side
	MissingFrames   int
	TotalFrames     int
	MissingFraction float64
	MaxFraction     float64
}

func (e *MissingLandmarkError) Error() string {
	return fmt.Sprintf("landmark %s_%s missing in %d of %d frames (%.0f%%, limit %.0f%%)",
		e.Side, e.Joint, e.MissingFrames, e.TotalFrames,
		e.MissingFraction*100, e.MaxFraction*100)
}

// InsufficientDataError reports that the velocity signal was valid but zero
// complete repetitions were segmented, so no tension rating can be computed.
// The caller still receives the structural AnalysisResult alongside it.
type InsufficientDataError struct {
	Frames  int
	Samples int
	Reason  string
}

func (e *InsufficientDataError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("insufficient data for tension rating: %s", e.Reason)
	}
	return fmt.Sprintf("insufficient data for tension rating: no complete repetitions in %d frames", e.Frames)
}
