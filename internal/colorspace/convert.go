package colorspace

import (
	"math"

	apperrors "github.com/algamel98/textile-qc-app/internal/errors"
)

// Vec3 is a single color triple (RGB, XYZ or Lab depending on context).
type Vec3 [3]float64

// Vec4 is a CMYK quadruple.
type Vec4 [4]float64

// Field is an image-shaped array of color triples stored row-major.
// A single pixel is a Field with W=H=1; a 1-D region sample has H=1.
type Field struct {
	W, H int
	Pix  []Vec3
}

// NewField allocates a w-by-h field.
func NewField(w, h int) *Field {
	return &Field{W: w, H: h, Pix: make([]Vec3, w*h)}
}

// SameShape reports whether two fields are aligned.
func (f *Field) SameShape(other *Field) bool {
	return f.W == other.W && f.H == other.H
}

// Mean returns the per-channel mean of the field.
func (f *Field) Mean() Vec3 {
	var sum Vec3
	for _, p := range f.Pix {
		sum[0] += p[0]
		sum[1] += p[1]
		sum[2] += p[2]
	}
	n := float64(len(f.Pix))
	if n == 0 {
		return Vec3{}
	}
	return Vec3{sum[0] / n, sum[1] / n, sum[2] / n}
}

// sRGB to XYZ (D65) conversion matrix, IEC 61966-2-1.
var srgbToXYZ = [3][3]float64{
	{0.4124564, 0.3575761, 0.1804375},
	{0.2126729, 0.7151522, 0.0721750},
	{0.0193339, 0.1191920, 0.9503041},
}

const (
	// epsDenom guards divisions in yellowness/whiteness denominators
	// and CMYK generation.
	epsDenom = 1e-10

	srgbLinearThreshold = 0.04045
)

func srgbLinearize(c float64) float64 {
	if c <= srgbLinearThreshold {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func srgbDelinearize(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}

// SRGBToXYZ converts an sRGB field to XYZ under D65. Input values may
// be in [0,1] or [0,255]; the range is detected from the field maximum.
// The returned XYZ is scaled so the white point Y is 100.
func SRGBToXYZ(rgb *Field) *Field {
	scale := 1.0
	maxVal := 0.0
	for _, p := range rgb.Pix {
		for _, c := range p {
			if c > maxVal {
				maxVal = c
			}
		}
	}
	if maxVal > 1.0 {
		scale = 1.0 / 255.0
	}

	out := NewField(rgb.W, rgb.H)
	for i, p := range rgb.Pix {
		r := srgbLinearize(p[0] * scale)
		g := srgbLinearize(p[1] * scale)
		b := srgbLinearize(p[2] * scale)
		out.Pix[i] = Vec3{
			(srgbToXYZ[0][0]*r + srgbToXYZ[0][1]*g + srgbToXYZ[0][2]*b) * 100,
			(srgbToXYZ[1][0]*r + srgbToXYZ[1][1]*g + srgbToXYZ[1][2]*b) * 100,
			(srgbToXYZ[2][0]*r + srgbToXYZ[2][1]*g + srgbToXYZ[2][2]*b) * 100,
		}
	}
	return out
}

// labF is the CIE 1976 forward companding function with the
// (6/29)^3 breakpoint.
func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

// XYZToLabOne converts one XYZ triple to Lab under wp.
func XYZToLabOne(xyz Vec3, wp WhitePoint) Vec3 {
	fx := labF(xyz[0] / wp.X)
	fy := labF(xyz[1] / wp.Y)
	fz := labF(xyz[2] / wp.Z)
	return Vec3{
		116*fy - 16,
		500 * (fx - fy),
		200 * (fy - fz),
	}
}

// LabToXYZOne is the exact algebraic inverse of XYZToLabOne.
func LabToXYZOne(lab Vec3, wp WhitePoint) Vec3 {
	fy := (lab[0] + 16) / 116
	fx := lab[1]/500 + fy
	fz := fy - lab[2]/200
	return Vec3{
		wp.X * labFInv(fx),
		wp.Y * labFInv(fy),
		wp.Z * labFInv(fz),
	}
}

// XYZToLab converts an XYZ field to Lab under wp.
func XYZToLab(xyz *Field, wp WhitePoint) *Field {
	out := NewField(xyz.W, xyz.H)
	for i, p := range xyz.Pix {
		out.Pix[i] = XYZToLabOne(p, wp)
	}
	return out
}

// LabToXYZ converts a Lab field back to XYZ under wp.
func LabToXYZ(lab *Field, wp WhitePoint) *Field {
	out := NewField(lab.W, lab.H)
	for i, p := range lab.Pix {
		out.Pix[i] = LabToXYZOne(p, wp)
	}
	return out
}

// XYZToSRGB converts XYZ (Y scaled to 100) back to gamma-encoded sRGB
// in [0,1], clipping out-of-gamut values.
var xyzToSRGB = [3][3]float64{
	{3.2404542, -1.5371385, -0.4985314},
	{-0.9692660, 1.8760108, 0.0415560},
	{0.0556434, -0.2040259, 1.0572252},
}

func XYZToSRGB(xyz *Field) *Field {
	out := NewField(xyz.W, xyz.H)
	for i, p := range xyz.Pix {
		x := p[0] / 100
		y := p[1] / 100
		z := p[2] / 100
		r := srgbDelinearize(xyzToSRGB[0][0]*x + xyzToSRGB[0][1]*y + xyzToSRGB[0][2]*z)
		g := srgbDelinearize(xyzToSRGB[1][0]*x + xyzToSRGB[1][1]*y + xyzToSRGB[1][2]*z)
		b := srgbDelinearize(xyzToSRGB[2][0]*x + xyzToSRGB[2][1]*y + xyzToSRGB[2][2]*z)
		out.Pix[i] = Vec3{clamp01(r), clamp01(g), clamp01(b)}
	}
	return out
}

func clamp01(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// RGBToCMYKOne converts one RGB triple in [0,1] to CMYK in [0,1].
// The 1-K denominator is clamped to avoid division by zero for black.
func RGBToCMYKOne(rgb Vec3) Vec4 {
	k := 1 - math.Max(rgb[0], math.Max(rgb[1], rgb[2]))
	denom := math.Max(1-k, epsDenom)
	return Vec4{
		(1 - rgb[0] - k) / denom,
		(1 - rgb[1] - k) / denom,
		(1 - rgb[2] - k) / denom,
		k,
	}
}

// CMYKToRGBOne converts one CMYK quadruple back to RGB in [0,1].
func CMYKToRGBOne(cmyk Vec4) Vec3 {
	return Vec3{
		(1 - cmyk[0]) * (1 - cmyk[3]),
		(1 - cmyk[1]) * (1 - cmyk[3]),
		(1 - cmyk[2]) * (1 - cmyk[3]),
	}
}

// RequireSameShape returns an invalid input error when the two fields
// are not aligned.
func RequireSameShape(a, b *Field) error {
	if !a.SameShape(b) {
		return apperrors.NewInvalidInputError("mismatched field shapes", nil)
	}
	return nil
}
