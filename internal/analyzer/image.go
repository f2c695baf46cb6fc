package analyzer

import (
	"image"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
)

// FieldFromImage converts a decoded image into an RGB field with channel
// values in [0,255]. Alpha is discarded.
func FieldFromImage(img image.Image) *colorspace.Field {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	field := colorspace.NewField(w, h)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			field.Pix[i] = colorspace.Vec3{
				float64(r >> 8),
				float64(g >> 8),
				float64(b >> 8),
			}
			i++
		}
	}
	return field
}

// Grayscale reduces an RGB field to Rec. 601 luma in [0,1].
func Grayscale(f *colorspace.Field) []float64 {
	scale := 1.0
	for _, p := range f.Pix {
		if p[0] > 1 || p[1] > 1 || p[2] > 1 {
			scale = 1.0 / 255.0
			break
		}
	}

	gray := make([]float64, len(f.Pix))
	for i, p := range f.Pix {
		gray[i] = (0.299*p[0] + 0.587*p[1] + 0.114*p[2]) * scale
	}
	return gray
}
