package motion

import "sort"

// ExercisePreset carries per-exercise tuning and metadata. The numbers come
// from bench sessions across common gym movements: slower compound lifts get
// a higher noise floor and a wider smoothing window, fast isolation work gets
// tighter values so short reps are not swallowed by the filter.
type ExercisePreset struct {
	Name             string   `json:"name"`
	NoiseFloor       float64  `json:"noise_floor"`
	MinRepDurationS  float64  `json:"min_rep_duration_s"`
	MinRestDurationS float64  `json:"min_rest_duration_s"`
	SmoothingWindow  int      `json:"smoothing_window"`
	PrimaryJoints    []string `json:"primary_joints"`
	RecommendedJoint string   `json:"recommended_joint"`
	MovementPattern  string   `json:"movement_pattern"`
	Difficulty       string   `json:"difficulty,omitempty"`
}

// DefaultPresetName is the fallback preset applied when an exercise is
// unknown or unspecified.
const DefaultPresetName = "default"

var exercisePresets = map[string]ExercisePreset{
	// Upper body pushing.
	"barbell_bench_press": {
		Name:             "barbell_bench_press",
		NoiseFloor:       0.06,
		MinRepDurationS:  1.2,
		MinRestDurationS: 0.5,
		SmoothingWindow:  7,
		PrimaryJoints:    []string{JointShoulder, JointElbow, JointWrist},
		RecommendedJoint: JointElbow,
		MovementPattern:  "horizontal_push",
		Difficulty:       "intermediate",
	},
	"dumbbell_bench_press": {
		Name:             "dumbbell_bench_press",
		NoiseFloor:       0.05,
		MinRepDurationS:  1.0,
		MinRestDurationS: 0.4,
		SmoothingWindow:  6,
		PrimaryJoints:    []string{JointShoulder, JointElbow, JointWrist},
		RecommendedJoint: JointElbow,
		MovementPattern:  "horizontal_push",
		Difficulty:       "intermediate",
	},
	"incline_bench_press": {
		Name:             "incline_bench_press",
		NoiseFloor:       0.06,
		MinRepDurationS:  1.1,
		MinRestDurationS: 0.4,
		SmoothingWindow:  6,
		PrimaryJoints:    []string{JointShoulder, JointElbow, JointWrist},
		RecommendedJoint: JointElbow,
		MovementPattern:  "incline_push",
		Difficulty:       "intermediate",
	},
	"push_up": {
		Name:             "push_up",
		NoiseFloor:       0.06,
		MinRepDurationS:  0.8,
		MinRestDurationS: 0.3,
		SmoothingWindow:  5,
		PrimaryJoints:    []string{JointShoulder, JointElbow, JointWrist, JointHip},
		RecommendedJoint: JointShoulder,
		MovementPattern:  "vertical_push",
		Difficulty:       "beginner",
	},

	// Upper body pulling.
	"lat_pulldown": {
		Name:             "lat_pulldown",
		NoiseFloor:       0.02,
		MinRepDurationS:  0.2,
		MinRestDurationS: 0.1,
		SmoothingWindow:  2,
		PrimaryJoints:    []string{JointShoulder, JointElbow, JointWrist},
		RecommendedJoint: JointShoulder,
		MovementPattern:  "vertical_pull",
		Difficulty:       "beginner",
	},
	"pull_up": {
		Name:             "pull_up",
		NoiseFloor:       0.08,
		MinRepDurationS:  1.0,
		MinRestDurationS: 0.4,
		SmoothingWindow:  6,
		PrimaryJoints:    []string{JointShoulder, JointElbow, JointWrist},
		RecommendedJoint: JointShoulder,
		MovementPattern:  "vertical_pull",
		Difficulty:       "intermediate",
	},
	"seated_cable_row": {
		Name:             "seated_cable_row",
		NoiseFloor:       0.05,
		MinRepDurationS:  0.9,
		MinRestDurationS: 0.3,
		SmoothingWindow:  5,
		PrimaryJoints:    []string{JointShoulder, JointElbow, JointWrist, JointHip},
		RecommendedJoint: JointElbow,
		MovementPattern:  "horizontal_pull",
		Difficulty:       "beginner",
	},

	// Arm isolation.
	"barbell_bicep_curl": {
		Name:             "barbell_bicep_curl",
		NoiseFloor:       0.04,
		MinRepDurationS:  0.7,
		MinRestDurationS: 0.2,
		SmoothingWindow:  3,
		PrimaryJoints:    []string{JointElbow, JointWrist},
		RecommendedJoint: JointElbow,
		MovementPattern:  "horizontal_flexion",
		Difficulty:       "beginner",
	},
	"dumbbell_bicep_curl": {
		Name:             "dumbbell_bicep_curl",
		NoiseFloor:       0.04,
		MinRepDurationS:  0.6,
		MinRestDurationS: 0.2,
		SmoothingWindow:  3,
		PrimaryJoints:    []string{JointElbow, JointWrist},
		RecommendedJoint: JointElbow,
		MovementPattern:  "horizontal_flexion",
		Difficulty:       "beginner",
	},
	"tricep_pushdown": {
		Name:             "tricep_pushdown",
		NoiseFloor:       0.05,
		MinRepDurationS:  0.6,
		MinRestDurationS: 0.2,
		SmoothingWindow:  3,
		PrimaryJoints:    []string{JointElbow, JointWrist},
		RecommendedJoint: JointElbow,
		MovementPattern:  "vertical_extension",
		Difficulty:       "beginner",
	},
	"skull_crushers": {
		Name:             "skull_crushers",
		NoiseFloor:       0.04,
		MinRepDurationS:  0.8,
		MinRestDurationS: 0.3,
		SmoothingWindow:  4,
		PrimaryJoints:    []string{JointElbow, JointWrist},
		RecommendedJoint: JointElbow,
		MovementPattern:  "horizontal_extension",
		Difficulty:       "intermediate",
	},
	"overhead_tricep_press": {
		Name:             "overhead_tricep_press",
		NoiseFloor:       0.05,
		MinRepDurationS:  0.8,
		MinRestDurationS: 0.3,
		SmoothingWindow:  4,
		PrimaryJoints:    []string{JointElbow, JointWrist, JointShoulder},
		RecommendedJoint: JointElbow,
		MovementPattern:  "vertical_extension",
		Difficulty:       "intermediate",
	},

	// Shoulders.
	"shoulder_press": {
		Name:             "shoulder_press",
		NoiseFloor:       0.06,
		MinRepDurationS:  1.0,
		MinRestDurationS: 0.4,
		SmoothingWindow:  6,
		PrimaryJoints:    []string{JointShoulder, JointElbow, JointWrist},
		RecommendedJoint: JointShoulder,
		MovementPattern:  "vertical_press",
		Difficulty:       "intermediate",
	},
	"lateral_raises": {
		Name:             "lateral_raises",
		NoiseFloor:       0.04,
		MinRepDurationS:  0.8,
		MinRestDurationS: 0.3,
		SmoothingWindow:  4,
		PrimaryJoints:    []string{JointShoulder, JointElbow, JointWrist},
		RecommendedJoint: JointShoulder,
		MovementPattern:  "lateral_abduction",
		Difficulty:       "beginner",
	},

	// Lower body.
	"barbell_squat": {
		Name:             "barbell_squat",
		NoiseFloor:       0.08,
		MinRepDurationS:  1.5,
		MinRestDurationS: 0.6,
		SmoothingWindow:  8,
		PrimaryJoints:    []string{JointHip, JointKnee, JointAnkle, JointShoulder},
		RecommendedJoint: JointKnee,
		MovementPattern:  "vertical_squat",
		Difficulty:       "intermediate",
	},
	"dumbbell_goblet_squat": {
		Name:             "dumbbell_goblet_squat",
		NoiseFloor:       0.07,
		MinRepDurationS:  1.3,
		MinRestDurationS: 0.5,
		SmoothingWindow:  7,
		PrimaryJoints:    []string{JointHip, JointKnee, JointAnkle, JointElbow},
		RecommendedJoint: JointKnee,
		MovementPattern:  "vertical_squat",
		Difficulty:       "beginner",
	},
	"deadlift": {
		Name:             "deadlift",
		NoiseFloor:       0.08,
		MinRepDurationS:  1.2,
		MinRestDurationS: 0.8,
		SmoothingWindow:  8,
		PrimaryJoints:    []string{JointHip, JointKnee, JointAnkle, JointShoulder},
		RecommendedJoint: JointHip,
		MovementPattern:  "hip_hinge",
		Difficulty:       "intermediate",
	},
	"romanian_deadlift": {
		Name:             "romanian_deadlift",
		NoiseFloor:       0.07,
		MinRepDurationS:  1.0,
		MinRestDurationS: 0.6,
		SmoothingWindow:  7,
		PrimaryJoints:    []string{JointHip, JointKnee, JointAnkle, JointShoulder},
		RecommendedJoint: JointHip,
		MovementPattern:  "hip_hinge",
		Difficulty:       "intermediate",
	},
	"lunges": {
		Name:             "lunges",
		NoiseFloor:       0.06,
		MinRepDurationS:  1.0,
		MinRestDurationS: 0.4,
		SmoothingWindow:  6,
		PrimaryJoints:    []string{JointHip, JointKnee, JointAnkle},
		RecommendedJoint: JointKnee,
		MovementPattern:  "lunge",
		Difficulty:       "beginner",
	},
	"calf_raises": {
		Name:             "calf_raises",
		NoiseFloor:       0.05,
		MinRepDurationS:  0.6,
		MinRestDurationS: 0.2,
		SmoothingWindow:  3,
		PrimaryJoints:    []string{JointAnkle, JointKnee},
		RecommendedJoint: JointAnkle,
		MovementPattern:  "plantar_flexion",
		Difficulty:       "beginner",
	},
	"leg_press": {
		Name:             "leg_press",
		NoiseFloor:       0.07,
		MinRepDurationS:  1.2,
		MinRestDurationS: 0.5,
		SmoothingWindow:  7,
		PrimaryJoints:    []string{JointHip, JointKnee, JointAnkle},
		RecommendedJoint: JointKnee,
		MovementPattern:  "leg_press",
		Difficulty:       "beginner",
	},
	"hip_thrust": {
		Name:             "hip_thrust",
		NoiseFloor:       0.06,
		MinRepDurationS:  1.0,
		MinRestDurationS: 0.4,
		SmoothingWindow:  6,
		PrimaryJoints:    []string{JointHip, JointKnee, JointShoulder},
		RecommendedJoint: JointHip,
		MovementPattern:  "hip_extension",
		Difficulty:       "intermediate",
	},

	// Short aliases kept for older capture files that predate the
	// equipment-specific names.
	"bench_press": {
		Name:             "bench_press",
		NoiseFloor:       0.05,
		MinRepDurationS:  0.8,
		MinRestDurationS: 0.3,
		SmoothingWindow:  5,
		PrimaryJoints:    []string{JointShoulder, JointElbow},
		RecommendedJoint: JointElbow,
		MovementPattern:  "horizontal_push",
		Difficulty:       "intermediate",
	},
	"bicep_curl": {
		Name:             "bicep_curl",
		NoiseFloor:       0.04,
		MinRepDurationS:  0.6,
		MinRestDurationS: 0.2,
		SmoothingWindow:  3,
		PrimaryJoints:    []string{JointWrist, JointElbow},
		RecommendedJoint: JointElbow,
		MovementPattern:  "horizontal_flexion",
		Difficulty:       "beginner",
	},
	"squat": {
		Name:             "squat",
		NoiseFloor:       0.08,
		MinRepDurationS:  1.0,
		MinRestDurationS: 0.4,
		SmoothingWindow:  7,
		PrimaryJoints:    []string{JointHip, JointKnee},
		RecommendedJoint: JointKnee,
		MovementPattern:  "vertical_squat",
		Difficulty:       "beginner",
	},

	DefaultPresetName: {
		Name:             DefaultPresetName,
		NoiseFloor:       0.05,
		MinRepDurationS:  0.6,
		MinRestDurationS: 0.2,
		SmoothingWindow:  3,
		PrimaryJoints:    []string{JointWrist, JointElbow},
		RecommendedJoint: JointElbow,
		MovementPattern:  "general",
	},
}

// Preset looks up the tuning preset for an exercise by name.
func Preset(name string) (ExercisePreset, bool) {
	p, ok := exercisePresets[name]
	return p, ok
}

// PresetFor returns the preset for the named exercise, falling back to the
// default preset when the name is unknown or empty.
func PresetFor(name string) ExercisePreset {
	if p, ok := exercisePresets[name]; ok {
		return p
	}
	return exercisePresets[DefaultPresetName]
}

// PresetNames returns the names of all known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(exercisePresets))
	for name := range exercisePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config converts the preset into an analysis config. The rep duration
// minimum is split across the two phases of a rep, so a preset demanding
// 1.2s reps rejects any single phase shorter than 0.6s.
func (p ExercisePreset) Config() *Config {
	cfg := EmptyConfig()
	cfg.JointName = ptrString(p.RecommendedJoint)
	cfg.NoiseFloor = ptrFloat64(p.NoiseFloor)
	cfg.MinPhaseDurationS = ptrFloat64(p.MinRepDurationS / 2)
	cfg.SmoothingWindow = ptrInt(p.SmoothingWindow)
	return cfg
}
