// Package whiteness implements the CIE, ASTM, Hunter and Berger
// whiteness/yellowness indices over mean XYZ tristimulus values.
package whiteness

import (
	"math"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
)

// epsLum guards divisions when Y approaches zero.
const epsLum = 1e-8

// WhitenessTint is the CIE (ISO 11475) whiteness/tint pair.
type WhitenessTint struct {
	Whiteness float64 `json:"whiteness"`
	Tint      float64 `json:"tint"`
}

// D65/10 degree reference chromaticity fixed by ISO 11475.
const (
	refX = 0.3138
	refY = 0.3310
)

// CIEWhitenessTint computes CIE Whiteness W = Y + 800(xn-x) + 1700(yn-y)
// and Tint T = 900(xn-x) - 650(yn-y) for a sample assumed under D65.
func CIEWhitenessTint(xyz colorspace.Vec3) WhitenessTint {
	sum := math.Max(xyz[0]+xyz[1]+xyz[2], epsLum)
	x := xyz[0] / sum
	y := xyz[1] / sum
	return WhitenessTint{
		Whiteness: xyz[1] + 800*(refX-x) + 1700*(refY-y),
		Tint:      900*(refX-x) - 650*(refY-y),
	}
}

// YellownessE313 computes the ASTM E313 yellowness index with the
// D65/10 degree coefficients Cx=1.3013, Cz=1.1498.
func YellownessE313(xyz colorspace.Vec3) float64 {
	const (
		cx = 1.3013
		cz = 1.1498
	)
	return 100 * (cx*xyz[0] - cz*xyz[2]) / math.Max(xyz[1], epsLum)
}

// HunterWhiteness computes the Hunter whiteness index WI = L - 3b using
// Hunter L, b coordinates.
func HunterWhiteness(xyz colorspace.Vec3) float64 {
	y := xyz[1]
	l := 10 * math.Sqrt(math.Max(y, 0))
	b := 7.0 * (y - 0.847*xyz[2]) / math.Sqrt(math.Max(y, epsLum))
	return l - 3*b
}

// BergerWhiteness computes the Berger whiteness index WI = 3.388Z - 3Y.
func BergerWhiteness(xyz colorspace.Vec3) float64 {
	return 3.388*xyz[2] - 3*xyz[1]
}
