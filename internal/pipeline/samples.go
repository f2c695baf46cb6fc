package pipeline

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/deltae"
	"github.com/algamel98/textile-qc-app/internal/whiteness"
	"github.com/algamel98/textile-qc-app/pkg/models"
)

// regionalSamples probes n points along the image diagonal between 20%
// and 80% of each dimension and reports the full set of color
// coordinates plus per-point differences at each probe.
func regionalSamples(ref, test *colorspace.Field, n int) []models.RegionalSample {
	if n < 1 || ref.W == 0 || ref.H == 0 {
		return nil
	}

	samples := make([]models.RegionalSample, 0, n)
	for i := 0; i < n; i++ {
		frac := 0.2
		if n > 1 {
			frac = 0.2 + 0.6*float64(i)/float64(n-1)
		}
		x := int(frac * float64(ref.W))
		y := int(frac * float64(ref.H))
		if x >= ref.W {
			x = ref.W - 1
		}
		if y >= ref.H {
			y = ref.H - 1
		}

		rgbRef := ref.Pix[y*ref.W+x]
		rgbTest := test.Pix[y*test.W+x]

		xyzRef := singleXYZ(rgbRef)
		xyzTest := singleXYZ(rgbTest)
		labRef := colorspace.XYZToLabOne(xyzRef, colorspace.D65)
		labTest := colorspace.XYZToLabOne(xyzTest, colorspace.D65)

		samples = append(samples, models.RegionalSample{
			Region:   i + 1,
			X:        x,
			Y:        y,
			RGBRef:   rgbRef,
			RGBTest:  rgbTest,
			HexRef:   hexSwatch(rgbRef),
			HexTest:  hexSwatch(rgbTest),
			XYZRef:   xyzRef,
			XYZTest:  xyzTest,
			LabRef:   labRef,
			LabTest:  labTest,
			CMYKRef:  cmykPercent(rgbRef),
			CMYKTest: cmykPercent(rgbTest),
			DE76:     deltae.DE76One(labRef, labTest),
			DE94:     deltae.DE94One(labRef, labTest),
			DE2000:   deltae.DE2000One(labRef, labTest),
		})
	}
	return samples
}

func singleXYZ(rgb colorspace.Vec3) colorspace.Vec3 {
	f := colorspace.Field{W: 1, H: 1, Pix: []colorspace.Vec3{rgb}}
	return colorspace.SRGBToXYZ(&f).Pix[0]
}

func hexSwatch(rgb colorspace.Vec3) string {
	r, g, b := rgb[0], rgb[1], rgb[2]
	if r > 1 || g > 1 || b > 1 {
		r, g, b = r/255, g/255, b/255
	}
	return colorful.Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)}.Hex()
}

func cmykPercent(rgb colorspace.Vec3) colorspace.Vec4 {
	r, g, b := rgb[0], rgb[1], rgb[2]
	if r > 1 || g > 1 || b > 1 {
		r, g, b = r/255, g/255, b/255
	}
	cmyk := colorspace.RGBToCMYKOne(colorspace.Vec3{r, g, b})
	for i := range cmyk {
		cmyk[i] *= 100
	}
	return cmyk
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// whitenessReport evaluates every whiteness/yellowness index over the
// field's mean XYZ.
func whitenessReport(xyz *colorspace.Field) *models.WhitenessReport {
	mean := xyz.Mean()
	return &models.WhitenessReport{
		CIE:        whiteness.CIEWhitenessTint(mean),
		YellowE313: whiteness.YellownessE313(mean),
		Hunter:     whiteness.HunterWhiteness(mean),
		Berger:     whiteness.BergerWhiteness(mean),
	}
}
