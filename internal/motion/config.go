package motion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the analysis pipeline's tuning, as accepted from callers and
// JSON config files. All fields are optional pointers: absent fields take
// the Get* defaults, so partial configs are safe, and the same JSON shape
// works for both file-based startup config and per-request overrides.
type Config struct {
	// Track selection
	JointName     *string  `json:"joint_name,omitempty"`
	Side          *string  `json:"side,omitempty"`
	MinVisibility *float64 `json:"min_visibility,omitempty"`
	// MaxMissingFraction is the ceiling on the fraction of frames missing
	// the joint before the analysis fails outright.
	MaxMissingFraction *float64 `json:"max_missing_fraction,omitempty"`

	// Signal conditioning
	SmoothingWindow *int `json:"smoothing_window,omitempty"`

	// Segmentation hysteresis
	NoiseFloor        *float64 `json:"noise_floor,omitempty"`
	MinDwellS         *float64 `json:"min_dwell_s,omitempty"`
	MinPhaseDurationS *float64 `json:"min_phase_duration_s,omitempty"`

	// Scoring
	FatigueWeightMax *float64 `json:"fatigue_weight_max,omitempty"`
}

// Pointer literals for the optional fields above.
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyConfig returns a Config with all fields unset; every accessor will
// answer with its default.
func EmptyConfig() *Config {
	return &Config{}
}

// LoadConfig loads a Config from a JSON file. Fields omitted from the file
// retain their defaults, so partial configs are safe.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config %s: unsupported extension %q, want .json", cleanPath, ext)
	}

	// Tuning files are a handful of thresholds; cap reads at 1MB.
	fi, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	const maxConfigBytes = 1 << 20
	if fi.Size() > maxConfigBytes {
		return nil, fmt.Errorf("config %s too large: %d bytes (limit %d)", cleanPath, fi.Size(), maxConfigBytes)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", cleanPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cleanPath, err)
	}

	return cfg, nil
}

// Validate checks that any set fields hold usable values.
func (c *Config) Validate() error {
	if c.JointName != nil && *c.JointName == "" {
		return fmt.Errorf("joint_name must not be empty")
	}

	if c.Side != nil {
		if s := Side(*c.Side); s != SideLeft && s != SideRight {
			return fmt.Errorf("side must be %q or %q, got %q", SideLeft, SideRight, *c.Side)
		}
	}

	if c.MinVisibility != nil {
		if *c.MinVisibility < 0 || *c.MinVisibility > 1 {
			return fmt.Errorf("min_visibility must be between 0 and 1, got %f", *c.MinVisibility)
		}
	}

	if c.MaxMissingFraction != nil {
		if *c.MaxMissingFraction < 0 || *c.MaxMissingFraction > 1 {
			return fmt.Errorf("max_missing_fraction must be between 0 and 1, got %f", *c.MaxMissingFraction)
		}
	}

	if c.SmoothingWindow != nil && *c.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be at least 1, got %d", *c.SmoothingWindow)
	}

	if c.NoiseFloor != nil && *c.NoiseFloor < 0 {
		return fmt.Errorf("noise_floor must be non-negative, got %f", *c.NoiseFloor)
	}

	if c.MinDwellS != nil && *c.MinDwellS < 0 {
		return fmt.Errorf("min_dwell_s must be non-negative, got %f", *c.MinDwellS)
	}

	if c.MinPhaseDurationS != nil && *c.MinPhaseDurationS < 0 {
		return fmt.Errorf("min_phase_duration_s must be non-negative, got %f", *c.MinPhaseDurationS)
	}

	if c.FatigueWeightMax != nil && *c.FatigueWeightMax < 1 {
		return fmt.Errorf("fatigue_weight_max must be at least 1, got %f", *c.FatigueWeightMax)
	}

	return nil
}

// GetJointName returns the joint to track or the default.
func (c *Config) GetJointName() string {
	if c.JointName == nil {
		return JointWrist
	}
	return *c.JointName
}

// GetSide returns the body side to track or the default.
func (c *Config) GetSide() Side {
	if c.Side == nil {
		return SideLeft
	}
	return Side(*c.Side)
}

// GetMinVisibility returns the minimum detection confidence or the default.
func (c *Config) GetMinVisibility() float64 {
	if c.MinVisibility == nil {
		return 0.5
	}
	return *c.MinVisibility
}

// GetMaxMissingFraction returns the missing-frame ceiling or the default.
func (c *Config) GetMaxMissingFraction() float64 {
	if c.MaxMissingFraction == nil {
		return 0.5
	}
	return *c.MaxMissingFraction
}

// GetSmoothingWindow returns the moving-average window or the default.
func (c *Config) GetSmoothingWindow() int {
	if c.SmoothingWindow == nil {
		return 5
	}
	return *c.SmoothingWindow
}

// GetNoiseFloor returns the segmenter noise floor or the default.
func (c *Config) GetNoiseFloor() float64 {
	if c.NoiseFloor == nil {
		return 0.05
	}
	return *c.NoiseFloor
}

// GetMinDwellS returns the hysteresis dwell time or the default.
func (c *Config) GetMinDwellS() float64 {
	if c.MinDwellS == nil {
		return 0.04
	}
	return *c.MinDwellS
}

// GetMinPhaseDurationS returns the minimum phase duration or the default.
func (c *Config) GetMinPhaseDurationS() float64 {
	if c.MinPhaseDurationS == nil {
		return 0.3
	}
	return *c.MinPhaseDurationS
}

// GetFatigueWeightMax returns the last-rep fatigue weight or the default.
func (c *Config) GetFatigueWeightMax() float64 {
	if c.FatigueWeightMax == nil {
		return 1.5
	}
	return *c.FatigueWeightMax
}

// SegmenterConfig assembles the rep segmenter's thresholds from this
// config.
func (c *Config) SegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		NoiseFloor:        c.GetNoiseFloor(),
		MinDwellS:         c.GetMinDwellS(),
		MinPhaseDurationS: c.GetMinPhaseDurationS(),
	}
}
