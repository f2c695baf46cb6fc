package colorspace

import (
	"sort"

	apperrors "github.com/algamel98/textile-qc-app/internal/errors"
)

// WhitePoint holds the tristimulus values of an illuminant, normalized
// so Y is approximately 100.
type WhitePoint struct {
	Name string
	X    float64
	Y    float64
	Z    float64
}

func (wp WhitePoint) vec() Vec3 {
	return Vec3{wp.X, wp.Y, wp.Z}
}

// whitePoints is the static illuminant registry (CIE 1931 2 degree
// observer). TL84 is the fluorescent F11 retail standard, CWF is F2.
var whitePoints = map[string]WhitePoint{
	"D50":  {Name: "D50", X: 96.422, Y: 100.0, Z: 82.521},
	"D55":  {Name: "D55", X: 95.682, Y: 100.0, Z: 92.149},
	"D65":  {Name: "D65", X: 95.047, Y: 100.0, Z: 108.883},
	"D75":  {Name: "D75", X: 94.972, Y: 100.0, Z: 122.638},
	"A":    {Name: "A", X: 109.850, Y: 100.0, Z: 35.585},
	"TL84": {Name: "TL84", X: 100.966, Y: 100.0, Z: 64.370},
	"CWF":  {Name: "CWF", X: 99.187, Y: 100.0, Z: 67.395},
	"F7":   {Name: "F7", X: 95.044, Y: 100.0, Z: 108.755},
}

// D65 is the capture illuminant assumed for all camera input.
var D65 = whitePoints["D65"]

// LookupWhitePoint returns the white point for the named illuminant.
// Unknown names are a hard error.
func LookupWhitePoint(name string) (WhitePoint, error) {
	wp, ok := whitePoints[name]
	if !ok {
		return WhitePoint{}, apperrors.NewInvalidInputError("unknown illuminant: "+name, nil)
	}
	return wp, nil
}

// KnownIlluminant reports whether name is in the registry.
func KnownIlluminant(name string) bool {
	_, ok := whitePoints[name]
	return ok
}

// Illuminants returns the registered illuminant names in sorted order.
func Illuminants() []string {
	names := make([]string, 0, len(whitePoints))
	for name := range whitePoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
