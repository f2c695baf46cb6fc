package analyzer

import (
	"context"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/config"
	"github.com/algamel98/textile-qc-app/internal/decision"
	"github.com/algamel98/textile-qc-app/internal/deltae"
)

// colorUnit implements ColorAnalyzer over paired Lab fields under D65.
type colorUnit struct {
	settings config.QCSettings
}

// NewColorUnit creates the color analysis unit.
func NewColorUnit(settings config.QCSettings) ColorAnalyzer {
	return &colorUnit{settings: settings}
}

func (u *colorUnit) Analyze(ctx context.Context, ref, test *colorspace.Field) (*ColorResult, error) {
	if err := colorspace.RequireSameShape(ref, test); err != nil {
		return nil, err
	}

	xyzRef := colorspace.SRGBToXYZ(ref)
	xyzTest := colorspace.SRGBToXYZ(test)
	labRef := colorspace.XYZToLab(xyzRef, colorspace.D65)
	labTest := colorspace.XYZToLab(xyzTest, colorspace.D65)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	de76, err := deltae.DE76(labRef, labTest)
	if err != nil {
		return nil, err
	}
	de94, err := deltae.DE94(labRef, labTest)
	if err != nil {
		return nil, err
	}
	de00, err := deltae.DE2000(labRef, labTest)
	if err != nil {
		return nil, err
	}

	result := &ColorResult{
		DE76:      deltae.Summarize(de76),
		DE94:      deltae.Summarize(de94),
		DE2000:    deltae.Summarize(de00),
		DE2000Map: de00,
	}

	if u.settings.UseDeltaECMC {
		l, c := u.settings.CMCWeights()
		cmc, err := deltae.DECMC(labRef, labTest, l, c)
		if err != nil {
			return nil, err
		}
		mean := deltae.Summarize(cmc).Mean
		result.MeanDECMC = &mean
	}

	result.LabRefMean = labRef.Mean()
	result.LabTestMean = labTest.Mean()
	result.DL = result.LabTestMean[0] - result.LabRefMean[0]
	result.DA = result.LabTestMean[1] - result.LabRefMean[1]
	result.DB = result.LabTestMean[2] - result.LabRefMean[2]

	result.Uniformity = 100 - result.DE76.Std*u.settings.UniformityStdMultiplier
	if result.Uniformity < 0 {
		result.Uniformity = 0
	}

	result.Status = decision.DetermineStatus(
		result.DE2000.Mean,
		u.settings.DeltaEThreshold,
		u.settings.DeltaEConditional,
		true,
	)
	return result, nil
}
