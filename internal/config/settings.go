package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QCSettings enumerates every threshold and enable flag the analysis
// pipeline reads. It is validated once at entry and treated as read-only
// for the duration of a run.
type QCSettings struct {
	// Unit gates
	EnableColorUnit         bool `json:"enable_color_unit"`
	EnablePatternUnit       bool `json:"enable_pattern_unit"`
	EnablePatternRepetition bool `json:"enable_pattern_repetition"`
	EnableSpectrophotometer bool `json:"enable_spectrophotometer"`

	// Color unit thresholds. DeltaEThreshold/DeltaEConditional are the
	// mean dE2000 cutoffs for the PASS/CONDITIONAL color status.
	DeltaEThreshold         float64 `json:"delta_e_threshold"`
	DeltaEConditional       float64 `json:"delta_e_conditional"`
	ColorScoreMultiplier    float64 `json:"color_score_multiplier"`
	UniformityStdMultiplier float64 `json:"uniformity_std_multiplier"`

	// CMC color difference
	UseDeltaECMC bool   `json:"use_delta_e_cmc"`
	CMCLCRatio   string `json:"cmc_l_c_ratio"` // "2:1" or "1:1"

	// Pattern unit thresholds (SSIM is higher-is-better)
	SSIMPassThreshold        float64 `json:"ssim_pass_threshold"`
	SSIMConditionalThreshold float64 `json:"ssim_conditional_threshold"`

	// Pattern repetition
	PatternCountTolerance int `json:"pattern_count_tolerance"`

	// Decision thresholds
	ColorScoreThreshold   float64 `json:"color_score_threshold"`
	PatternScoreThreshold float64 `json:"pattern_score_threshold"`
	OverallScoreThreshold float64 `json:"overall_score_threshold"`

	// Metamerism
	MetamerismIlluminants []string `json:"metamerism_illuminants"`

	// Regional sampling
	NumSamplePoints int `json:"num_sample_points"`
}

// DefaultQCSettings returns the documented defaults for a QC run.
func DefaultQCSettings() QCSettings {
	return QCSettings{
		EnableColorUnit:         true,
		EnablePatternUnit:       true,
		EnablePatternRepetition: true,
		EnableSpectrophotometer: true,

		DeltaEThreshold:         2.0,
		DeltaEConditional:       3.5,
		ColorScoreMultiplier:    5.0,
		UniformityStdMultiplier: 2.0,

		UseDeltaECMC: false,
		CMCLCRatio:   "2:1",

		SSIMPassThreshold:        0.90,
		SSIMConditionalThreshold: 0.75,

		PatternCountTolerance: 5,

		ColorScoreThreshold:   90.0,
		PatternScoreThreshold: 90.0,
		OverallScoreThreshold: 85.0,

		MetamerismIlluminants: []string{"D65", "TL84", "A"},

		NumSamplePoints: 5,
	}
}

// Validate checks the settings once at entry; the pipeline does not
// re-check them at call sites.
func (s *QCSettings) Validate() error {
	if s.DeltaEThreshold <= 0 {
		return fmt.Errorf("delta_e_threshold must be > 0 (got %g)", s.DeltaEThreshold)
	}
	if s.DeltaEConditional < s.DeltaEThreshold {
		return fmt.Errorf("delta_e_conditional (%g) must be >= delta_e_threshold (%g)",
			s.DeltaEConditional, s.DeltaEThreshold)
	}
	if s.ColorScoreMultiplier <= 0 {
		return fmt.Errorf("color_score_multiplier must be > 0 (got %g)", s.ColorScoreMultiplier)
	}
	if s.UniformityStdMultiplier < 0 {
		return fmt.Errorf("uniformity_std_multiplier must be >= 0 (got %g)", s.UniformityStdMultiplier)
	}
	if s.CMCLCRatio != "2:1" && s.CMCLCRatio != "1:1" {
		return fmt.Errorf("cmc_l_c_ratio must be \"2:1\" or \"1:1\" (got %q)", s.CMCLCRatio)
	}
	if s.SSIMPassThreshold < s.SSIMConditionalThreshold {
		return fmt.Errorf("ssim_pass_threshold (%g) must be >= ssim_conditional_threshold (%g)",
			s.SSIMPassThreshold, s.SSIMConditionalThreshold)
	}
	if s.PatternCountTolerance < 0 {
		return fmt.Errorf("pattern_count_tolerance must be >= 0 (got %d)", s.PatternCountTolerance)
	}
	for _, th := range []struct {
		name  string
		value float64
	}{
		{"color_score_threshold", s.ColorScoreThreshold},
		{"pattern_score_threshold", s.PatternScoreThreshold},
		{"overall_score_threshold", s.OverallScoreThreshold},
	} {
		if th.value < 0 || th.value > 100 {
			return fmt.Errorf("%s must be in [0,100] (got %g)", th.name, th.value)
		}
	}
	if s.NumSamplePoints < 1 {
		return fmt.Errorf("num_sample_points must be >= 1 (got %d)", s.NumSamplePoints)
	}
	return nil
}

// CMCWeights returns the lightness:chroma weights for the configured ratio.
func (s *QCSettings) CMCWeights() (l, c float64) {
	if s.CMCLCRatio == "1:1" {
		return 1, 1
	}
	return 2, 1
}

// MergeJSON overlays a partial JSON settings document on top of s.
// Unknown fields are rejected so typos fail loudly instead of silently
// running with defaults.
func (s *QCSettings) MergeJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return fmt.Errorf("invalid settings document: %w", err)
	}
	return s.Validate()
}
