package motion

// CatalogEntry is the user-facing description of a supported exercise. The
// joint and pattern fields mirror the exercise's tuning preset so listings
// and analysis always agree on which joint to track.
type CatalogEntry struct {
	Name             string   `json:"name"`
	DisplayName      string   `json:"display_name"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	PrimaryJoints    []string `json:"primary_joints"`
	RecommendedJoint string   `json:"recommended_joint"`
	MovementPattern  string   `json:"movement_pattern"`
	Difficulty       string   `json:"difficulty,omitempty"`
	Tips             []string `json:"tips,omitempty"`
	CommonMistakes   []string `json:"common_mistakes,omitempty"`
}

// JointInfo describes a trackable joint for listings.
type JointInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type catalogText struct {
	displayName string
	description string
	category    string
	tips        []string
	mistakes    []string
}

// catalogOrder fixes the listing order: pushing, pulling, arms, shoulders,
// lower body. The legacy alias presets are resolvable by name but are not
// listed.
var catalogOrder = []string{
	"barbell_bench_press",
	"dumbbell_bench_press",
	"incline_bench_press",
	"push_up",
	"lat_pulldown",
	"pull_up",
	"seated_cable_row",
	"barbell_bicep_curl",
	"dumbbell_bicep_curl",
	"tricep_pushdown",
	"skull_crushers",
	"overhead_tricep_press",
	"shoulder_press",
	"lateral_raises",
	"barbell_squat",
	"dumbbell_goblet_squat",
	"deadlift",
	"romanian_deadlift",
	"lunges",
	"calf_raises",
	"leg_press",
	"hip_thrust",
}

var catalogTexts = map[string]catalogText{
	"barbell_bench_press": {
		displayName: "Barbell Bench Press",
		description: "Horizontal pushing exercise for chest and triceps",
		category:    "Upper Body Pushing",
	},
	"dumbbell_bench_press": {
		displayName: "Dumbbell Bench Press",
		description: "Horizontal pushing with dumbbells for chest and triceps",
		category:    "Upper Body Pushing",
	},
	"incline_bench_press": {
		displayName: "Incline Bench Press",
		description: "Inclined horizontal pushing for upper chest",
		category:    "Upper Body Pushing",
	},
	"push_up": {
		displayName: "Push-up",
		description: "Bodyweight horizontal pushing exercise",
		category:    "Upper Body Pushing",
		tips: []string{
			"Keep your body in a straight line",
			"Lower your chest to the ground",
			"Push up explosively",
			"Engage your core throughout",
		},
		mistakes: []string{
			"Sagging hips or raised butt",
			"Not going low enough",
			"Flaring elbows too wide",
			"Not maintaining straight body line",
		},
	},
	"lat_pulldown": {
		displayName: "Lat Pulldown",
		description: "Vertical pulling exercise targeting lats and biceps",
		category:    "Upper Body Pulling",
		tips: []string{
			"Keep your core engaged throughout the movement",
			"Pull the bar down to your chest, not behind your head",
			"Control the weight on both the concentric and eccentric phases",
			"Focus on squeezing your shoulder blades together",
		},
		mistakes: []string{
			"Using momentum instead of muscle control",
			"Pulling the bar behind the head",
			"Not controlling the eccentric (lowering) phase",
			"Using too much weight",
		},
	},
	"pull_up": {
		displayName: "Pull-up",
		description: "Bodyweight vertical pulling exercise",
		category:    "Upper Body Pulling",
		tips: []string{
			"Start from a dead hang position",
			"Pull your chest up to the bar",
			"Lower yourself with control",
			"Engage your lats and core",
		},
		mistakes: []string{
			"Kipping or using momentum",
			"Not reaching full range of motion",
			"Not controlling the descent",
			"Using too narrow or too wide grip",
		},
	},
	"seated_cable_row": {
		displayName: "Seated Cable Row",
		description: "Horizontal pulling exercise for back and biceps",
		category:    "Upper Body Pulling",
	},
	"barbell_bicep_curl": {
		displayName: "Barbell Bicep Curl",
		description: "Isolation exercise for biceps with barbell",
		category:    "Arm Isolation",
	},
	"dumbbell_bicep_curl": {
		displayName: "Dumbbell Bicep Curl",
		description: "Isolation exercise for biceps with dumbbells",
		category:    "Arm Isolation",
	},
	"tricep_pushdown": {
		displayName: "Tricep Pushdown",
		description: "Isolation exercise for triceps",
		category:    "Arm Isolation",
	},
	"skull_crushers": {
		displayName: "Skull Crushers",
		description: "Isolation exercise for triceps with barbell",
		category:    "Arm Isolation",
	},
	"overhead_tricep_press": {
		displayName: "Overhead Tricep Press",
		description: "Vertical tricep isolation exercise",
		category:    "Arm Isolation",
	},
	"shoulder_press": {
		displayName: "Shoulder Press",
		description: "Vertical pressing exercise for shoulders",
		category:    "Shoulder Exercises",
	},
	"lateral_raises": {
		displayName: "Lateral Raises",
		description: "Isolation exercise for shoulder deltoids",
		category:    "Shoulder Exercises",
	},
	"barbell_squat": {
		displayName: "Barbell Squat",
		description: "Lower body compound movement with barbell",
		category:    "Lower Body",
	},
	"dumbbell_goblet_squat": {
		displayName: "Dumbbell Goblet Squat",
		description: "Lower body compound movement with dumbbell",
		category:    "Lower Body",
	},
	"deadlift": {
		displayName: "Deadlift",
		description: "Hip hinge movement for posterior chain",
		category:    "Lower Body",
	},
	"romanian_deadlift": {
		displayName: "Romanian Deadlift",
		description: "Hip hinge movement focusing on hamstrings",
		category:    "Lower Body",
	},
	"lunges": {
		displayName: "Lunges",
		description: "Unilateral lower body movement",
		category:    "Lower Body",
	},
	"calf_raises": {
		displayName: "Calf Raises",
		description: "Isolation exercise for calf muscles",
		category:    "Lower Body",
	},
	"leg_press": {
		displayName: "Leg Press",
		description: "Machine-based lower body exercise",
		category:    "Lower Body",
	},
	"hip_thrust": {
		displayName: "Hip Thrust",
		description: "Hip extension exercise for glutes",
		category:    "Lower Body",
	},

	// Legacy alias names. Resolvable for older capture files, not listed.
	"bench_press": {
		displayName: "Bench Press",
		description: "Horizontal pushing exercise for chest and triceps",
		category:    "Upper Body Pushing",
		tips: []string{
			"Keep your feet flat on the floor",
			"Retract your shoulder blades",
			"Lower the bar to your chest",
			"Press up explosively",
		},
		mistakes: []string{
			"Bouncing the bar off your chest",
			"Not controlling the descent",
			"Flaring elbows too wide",
			"Lifting feet off the ground",
		},
	},
	"bicep_curl": {
		displayName: "Bicep Curl",
		description: "Isolation exercise for biceps",
		category:    "Arm Isolation",
		tips: []string{
			"Keep your elbows at your sides",
			"Control the weight throughout the full range of motion",
			"Squeeze your biceps at the top",
			"Don't swing the weight",
		},
		mistakes: []string{
			"Using momentum to lift the weight",
			"Moving the elbows forward",
			"Not controlling the eccentric phase",
			"Using too much weight",
		},
	},
	"squat": {
		displayName: "Squat",
		description: "Lower body compound movement",
		category:    "Lower Body",
		tips: []string{
			"Keep your chest up and core engaged",
			"Sit back into your hips",
			"Go down until thighs are parallel to floor",
			"Drive through your heels to stand up",
		},
		mistakes: []string{
			"Knees caving in",
			"Not going deep enough",
			"Leaning too far forward",
			"Heels coming off the ground",
		},
	},
}

func catalogEntry(name string) CatalogEntry {
	text := catalogTexts[name]
	preset := PresetFor(name)
	return CatalogEntry{
		Name:             name,
		DisplayName:      text.displayName,
		Description:      text.description,
		Category:         text.category,
		PrimaryJoints:    preset.PrimaryJoints,
		RecommendedJoint: preset.RecommendedJoint,
		MovementPattern:  preset.MovementPattern,
		Difficulty:       preset.Difficulty,
		Tips:             text.tips,
		CommonMistakes:   text.mistakes,
	}
}

// Catalog returns all listed exercises in presentation order.
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(catalogOrder))
	for _, name := range catalogOrder {
		entries = append(entries, catalogEntry(name))
	}
	return entries
}

// Exercise looks up a single catalog entry by name, including legacy alias
// names that are excluded from Catalog listings.
func Exercise(name string) (CatalogEntry, bool) {
	if _, ok := catalogTexts[name]; !ok {
		return CatalogEntry{}, false
	}
	return catalogEntry(name), true
}

// Joints lists the joints the tracker can follow, with guidance on which
// exercises each suits.
func Joints() []JointInfo {
	return []JointInfo{
		{Name: JointWrist, Description: "Wrist joint - good for push/pull exercises"},
		{Name: JointElbow, Description: "Elbow joint - good for arm exercises"},
		{Name: JointShoulder, Description: "Shoulder joint - good for overhead movements"},
		{Name: JointHip, Description: "Hip joint - good for lower body exercises"},
		{Name: JointKnee, Description: "Knee joint - good for squats and lunges"},
		{Name: JointAnkle, Description: "Ankle joint - good for calf exercises"},
	}
}
