package storage

import (
	"image"

	"golang.org/x/image/draw"
)

// ResizeForAnalysis scales the image down to the analysis width,
// preserving aspect ratio. Images at or below the target width are
// returned unchanged; the pipeline never upscales.
func ResizeForAnalysis(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if width <= 0 || bounds.Dx() <= width {
		return img
	}

	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// AlignShapes crops both images to their shared minimum bounds so the
// pixelwise comparison units see identically shaped inputs.
func AlignShapes(a, b image.Image) (image.Image, image.Image) {
	aw, ah := a.Bounds().Dx(), a.Bounds().Dy()
	bw, bh := b.Bounds().Dx(), b.Bounds().Dy()
	w, h := min(aw, bw), min(ah, bh)
	return cropTopLeft(a, w, h), cropTopLeft(b, w, h)
}

func cropTopLeft(img image.Image, w, h int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == w && bounds.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	src := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+w, bounds.Min.Y+h)
	draw.Copy(dst, image.Point{}, img, src, draw.Over, nil)
	return dst
}
