// Package metamerism quantifies how much a reference/test color pair
// drifts apart when re-adapted from D65 to other illuminants.
package metamerism

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/deltae"
	"github.com/algamel98/textile-qc-app/internal/logger"
)

// RiskLevel classifies the metamerism index into fixed bands.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// Risk carries the band plus its fixed description and presentation color.
type Risk struct {
	Level       RiskLevel `json:"level"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Index       float64   `json:"index"`
}

// IlluminantResult is the color difference observed under one illuminant.
type IlluminantResult struct {
	Illuminant string          `json:"illuminant"`
	DeltaE     float64         `json:"delta_e"`
	LabRef     colorspace.Vec3 `json:"lab_ref"`
	LabTest    colorspace.Vec3 `json:"lab_test"`
}

// Assessment is the full metamerism analysis for one sample pair.
type Assessment struct {
	Results    []IlluminantResult `json:"results"`
	Index      float64            `json:"metamerism_index"`
	MeanDeltaE float64            `json:"mean_delta_e"`
	WorstCase  *IlluminantResult  `json:"worst_case,omitempty"`
	Risk       Risk               `json:"risk"`
}

// Assess adapts both XYZ fields (captured under D65) to each named
// illuminant, converts to Lab under that illuminant's white point, and
// measures the mean dE2000 there. Unknown illuminant names are skipped.
// The index is 10x the population standard deviation of the per
// illuminant dE values; the worst case is the illuminant with the
// largest dE, first occurrence winning ties.
func Assess(xyzRef, xyzTest *colorspace.Field, illuminants []string) (*Assessment, error) {
	if err := colorspace.RequireSameShape(xyzRef, xyzTest); err != nil {
		return nil, err
	}

	src := colorspace.D65
	a := &Assessment{}
	var deValues []float64

	for _, name := range illuminants {
		dst, err := colorspace.LookupWhitePoint(name)
		if err != nil {
			logger.WithField("illuminant", name).Warn("Skipping unknown illuminant")
			continue
		}

		refAdapted := colorspace.AdaptXYZ(xyzRef, src, dst)
		testAdapted := colorspace.AdaptXYZ(xyzTest, src, dst)
		labRef := colorspace.XYZToLab(refAdapted, dst)
		labTest := colorspace.XYZToLab(testAdapted, dst)

		deMap, err := deltae.DE2000(labRef, labTest)
		if err != nil {
			return nil, err
		}
		de := stat.Mean(deMap.Values, nil)

		a.Results = append(a.Results, IlluminantResult{
			Illuminant: name,
			DeltaE:     de,
			LabRef:     labRef.Mean(),
			LabTest:    labTest.Mean(),
		})
		deValues = append(deValues, de)
	}

	if len(deValues) > 0 {
		a.MeanDeltaE = stat.Mean(deValues, nil)
		worst := 0
		for i, r := range a.Results {
			if r.DeltaE > a.Results[worst].DeltaE {
				worst = i
			}
		}
		a.WorstCase = &a.Results[worst]
	}
	if len(deValues) >= 2 {
		a.Index = 10 * math.Sqrt(stat.PopVariance(deValues, nil))
	}
	a.Risk = AssessRisk(a.Index)
	return a, nil
}

// AssessRisk maps the metamerism index into its risk band. The
// descriptions and presentation colors are fixed.
func AssessRisk(index float64) Risk {
	switch {
	case index < 1.0:
		return Risk{
			Level:       RiskLow,
			Description: "Minimal color shift across illuminants",
			Color:       "#27AE60",
			Index:       index,
		}
	case index < 3.0:
		return Risk{
			Level:       RiskModerate,
			Description: "Noticeable color shift under different lighting",
			Color:       "#F39C12",
			Index:       index,
		}
	default:
		return Risk{
			Level:       RiskHigh,
			Description: "Significant color shift - may cause quality issues",
			Color:       "#E74C3C",
			Index:       index,
		}
	}
}
