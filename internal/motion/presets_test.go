package motion

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetLookup(t *testing.T) {
	t.Parallel()

	p, ok := Preset("barbell_squat")
	require.True(t, ok)
	assert.Equal(t, "barbell_squat", p.Name)
	assert.Equal(t, 0.08, p.NoiseFloor)
	assert.Equal(t, 8, p.SmoothingWindow)
	assert.Equal(t, JointKnee, p.RecommendedJoint)
	assert.Equal(t, "vertical_squat", p.MovementPattern)

	_, ok = Preset("underwater_basket_weaving")
	assert.False(t, ok)
}

func TestPresetForFallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultPresetName, PresetFor("underwater_basket_weaving").Name)
	assert.Equal(t, DefaultPresetName, PresetFor("").Name)
	assert.Equal(t, "deadlift", PresetFor("deadlift").Name)
}

func TestPresetNames(t *testing.T) {
	t.Parallel()

	names := PresetNames()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, DefaultPresetName)
	assert.Contains(t, names, "barbell_bench_press")
	assert.Contains(t, names, "bench_press")
	assert.Len(t, names, 26)

	for _, name := range names {
		p, ok := Preset(name)
		require.True(t, ok)
		assert.Equal(t, name, p.Name, "preset key and Name field must agree")
		assert.Positive(t, p.NoiseFloor)
		assert.Positive(t, p.SmoothingWindow)
		assert.NotEmpty(t, p.RecommendedJoint)
		assert.NotEmpty(t, p.PrimaryJoints)
	}
}

func TestPresetConfig(t *testing.T) {
	t.Parallel()

	cfg := PresetFor("barbell_bench_press").Config()
	assert.Equal(t, JointElbow, cfg.GetJointName())
	assert.Equal(t, 0.06, cfg.GetNoiseFloor())
	assert.Equal(t, 7, cfg.GetSmoothingWindow())
	// The per-rep minimum splits evenly across the two phases.
	assert.Equal(t, 0.6, cfg.GetMinPhaseDurationS())
	// Fields the preset does not carry stay at their defaults.
	assert.Equal(t, SideLeft, cfg.GetSide())
	assert.Equal(t, 0.04, cfg.GetMinDwellS())

	require.NoError(t, cfg.Validate())
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	entries := Catalog()
	require.Len(t, entries, 22)
	assert.Equal(t, "barbell_bench_press", entries[0].Name)
	assert.Equal(t, "hip_thrust", entries[len(entries)-1].Name)

	for _, e := range entries {
		assert.NotEmpty(t, e.DisplayName, "entry %s", e.Name)
		assert.NotEmpty(t, e.Description, "entry %s", e.Name)
		assert.NotEmpty(t, e.Category, "entry %s", e.Name)

		// Listings and analysis tuning must agree on the joint.
		p, ok := Preset(e.Name)
		require.True(t, ok, "catalog entry %s must have a preset", e.Name)
		assert.Equal(t, p.RecommendedJoint, e.RecommendedJoint)
		assert.Equal(t, p.PrimaryJoints, e.PrimaryJoints)
		assert.Equal(t, p.MovementPattern, e.MovementPattern)
	}
}

func TestCatalogExcludesLegacyAliases(t *testing.T) {
	t.Parallel()

	listed := map[string]bool{}
	for _, e := range Catalog() {
		listed[e.Name] = true
	}
	for _, alias := range []string{"bench_press", "bicep_curl", "squat"} {
		assert.False(t, listed[alias], "alias %s must not be listed", alias)

		// Still resolvable for older capture files.
		entry, ok := Exercise(alias)
		require.True(t, ok)
		assert.NotEmpty(t, entry.DisplayName)
		assert.NotEmpty(t, entry.Tips)
	}
}

func TestExerciseLookup(t *testing.T) {
	t.Parallel()

	entry, ok := Exercise("lat_pulldown")
	require.True(t, ok)
	assert.Equal(t, "Lat Pulldown", entry.DisplayName)
	assert.Equal(t, "Upper Body Pulling", entry.Category)
	assert.Equal(t, JointShoulder, entry.RecommendedJoint)
	assert.NotEmpty(t, entry.Tips)
	assert.NotEmpty(t, entry.CommonMistakes)

	_, ok = Exercise("underwater_basket_weaving")
	assert.False(t, ok)
}

func TestJoints(t *testing.T) {
	t.Parallel()

	joints := Joints()
	require.Len(t, joints, 6)

	want := []string{JointWrist, JointElbow, JointShoulder, JointHip, JointKnee, JointAnkle}
	for i, j := range joints {
		assert.Equal(t, want[i], j.Name)
		assert.NotEmpty(t, j.Description)
	}
}
