package analyzer

import (
	"context"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/decision"
	"github.com/algamel98/textile-qc-app/internal/deltae"
)

// ColorAnalyzer computes colorimetric differences between the aligned
// reference and test RGB fields.
type ColorAnalyzer interface {
	Analyze(ctx context.Context, ref, test *colorspace.Field) (*ColorResult, error)
}

// PatternAnalyzer supplies the texture similarity metric. The default
// implementation is a global SSIM; production deployments may plug in a
// richer extractor behind this interface.
type PatternAnalyzer interface {
	Analyze(ctx context.Context, ref, test *colorspace.Field) (*PatternResult, error)
}

// RepetitionAnalyzer assesses pattern repetition integrity by counting
// repeated motifs on both images.
type RepetitionAnalyzer interface {
	Analyze(ctx context.Context, ref, test *colorspace.Field) (*RepetitionResult, error)
}

// ColorResult is the color unit output.
type ColorResult struct {
	DE76   deltae.Stats `json:"de76"`
	DE94   deltae.Stats `json:"de94"`
	DE2000 deltae.Stats `json:"de2000"`

	// MeanDECMC is set only when CMC is enabled in settings.
	MeanDECMC *float64 `json:"mean_de_cmc,omitempty"`

	// DE2000Map is retained for heatmap rendering by the reporting
	// collaborator.
	DE2000Map *deltae.Map `json:"-"`

	// Mean Lab deltas, test minus reference.
	DL float64 `json:"d_l"`
	DA float64 `json:"d_a"`
	DB float64 `json:"d_b"`

	LabRefMean  colorspace.Vec3 `json:"lab_ref_mean"`
	LabTestMean colorspace.Vec3 `json:"lab_test_mean"`

	// Uniformity = max(0, 100 - std(dE76) * multiplier).
	Uniformity float64 `json:"uniformity"`

	Status decision.Status `json:"status"`
}

// PatternResult is the pattern unit output.
type PatternResult struct {
	SSIM   float64         `json:"ssim"`
	Status decision.Status `json:"status"`
}

// RepetitionResult is the repetition unit output.
type RepetitionResult struct {
	CountRef     int             `json:"count_ref"`
	CountTest    int             `json:"count_test"`
	CountDiff    int             `json:"count_diff"`
	MeanAreaRef  float64         `json:"mean_area_ref"`
	MeanAreaTest float64         `json:"mean_area_test"`
	Status       decision.Status `json:"status"`
}
