package analyzer

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/config"
	"github.com/algamel98/textile-qc-app/internal/decision"
)

// SSIM stabilization constants for a dynamic range of 1.0.
const (
	ssimC1 = 0.01 * 0.01
	ssimC2 = 0.03 * 0.03
)

// patternUnit implements PatternAnalyzer with a global SSIM on the
// luma channel.
type patternUnit struct {
	settings config.QCSettings
}

// NewPatternUnit creates the pattern similarity unit.
func NewPatternUnit(settings config.QCSettings) PatternAnalyzer {
	return &patternUnit{settings: settings}
}

func (u *patternUnit) Analyze(ctx context.Context, ref, test *colorspace.Field) (*PatternResult, error) {
	if err := colorspace.RequireSameShape(ref, test); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ssim := GlobalSSIM(Grayscale(ref), Grayscale(test))
	return &PatternResult{
		SSIM: ssim,
		Status: decision.DetermineStatus(
			ssim,
			u.settings.SSIMPassThreshold,
			u.settings.SSIMConditionalThreshold,
			false,
		),
	}, nil
}

// GlobalSSIM computes the single-window structural similarity of two
// equally sized luma planes in [0,1].
func GlobalSSIM(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}

	muX := stat.Mean(x, nil)
	muY := stat.Mean(y, nil)
	varX := stat.PopVariance(x, nil)
	varY := stat.PopVariance(y, nil)

	var cov float64
	for i := range x {
		cov += (x[i] - muX) * (y[i] - muY)
	}
	cov /= float64(len(x))

	num := (2*muX*muY + ssimC1) * (2*cov + ssimC2)
	den := (muX*muX + muY*muY + ssimC1) * (varX + varY + ssimC2)
	return num / den
}
