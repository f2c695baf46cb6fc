package models

import (
	"time"

	"github.com/algamel98/textile-qc-app/internal/analyzer"
	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/decision"
	"github.com/algamel98/textile-qc-app/internal/metamerism"
	"github.com/algamel98/textile-qc-app/internal/whiteness"
)

// RegionalSample is one grid point sampled from both images with its
// color coordinates in every working space and per-point differences.
// Sample points run down the image diagonal between 20% and 80% of
// each dimension. CMYK values are percentages.
type RegionalSample struct {
	Region int `json:"region"`
	X      int `json:"x"`
	Y      int `json:"y"`

	RGBRef  colorspace.Vec3 `json:"rgb_ref"`
	RGBTest colorspace.Vec3 `json:"rgb_test"`
	HexRef  string          `json:"hex_ref"`
	HexTest string          `json:"hex_test"`

	XYZRef  colorspace.Vec3 `json:"xyz_ref"`
	XYZTest colorspace.Vec3 `json:"xyz_test"`
	LabRef  colorspace.Vec3 `json:"lab_ref"`
	LabTest colorspace.Vec3 `json:"lab_test"`

	CMYKRef  colorspace.Vec4 `json:"cmyk_ref"`
	CMYKTest colorspace.Vec4 `json:"cmyk_test"`

	DE76   float64 `json:"de76"`
	DE94   float64 `json:"de94"`
	DE2000 float64 `json:"de2000"`
}

// WhitenessReport bundles the whiteness and yellowness indices for one
// image's mean color.
type WhitenessReport struct {
	CIE        whiteness.WhitenessTint `json:"cie"`
	YellowE313 float64                 `json:"yellowness_e313"`
	Hunter     float64                 `json:"hunter_whiteness"`
	Berger     float64                 `json:"berger_whiteness"`
}

// UnitResults groups the per-unit scores and detail payloads.
type UnitResults struct {
	Color      decision.UnitResult `json:"color"`
	Pattern    decision.UnitResult `json:"pattern"`
	Repetition decision.UnitResult `json:"repetition"`

	ColorDetail      *analyzer.ColorResult      `json:"color_detail,omitempty"`
	PatternDetail    *analyzer.PatternResult    `json:"pattern_detail,omitempty"`
	RepetitionDetail *analyzer.RepetitionResult `json:"repetition_detail,omitempty"`
}

// AnalysisResult is the complete output of one QC run.
type AnalysisResult struct {
	RunID             string    `json:"run_id"`
	ReferenceURL      string    `json:"reference_url"`
	TestURL           string    `json:"test_url"`
	Timestamp         time.Time `json:"timestamp"`
	ProcessingTimeSec float64   `json:"processing_time_sec"`

	Units   UnitResults      `json:"units"`
	Outcome decision.Outcome `json:"outcome"`

	Metamerism      *metamerism.Assessment `json:"metamerism,omitempty"`
	WhitenessRef    *WhitenessReport       `json:"whiteness_ref,omitempty"`
	WhitenessTest   *WhitenessReport       `json:"whiteness_test,omitempty"`
	RegionalSamples []RegionalSample       `json:"regional_samples,omitempty"`

	Errors []string `json:"errors,omitempty"`
}
