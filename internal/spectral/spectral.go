// Package spectral converts measured reflectance curves from a
// spectrophotometer export into XYZ tristimulus values.
package spectral

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/algamel98/textile-qc-app/internal/errors"
	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/logger"
)

// Sample is one wavelength/reflectance reading. Reflectance is a
// percentage in [0,100].
type Sample struct {
	Wavelength  float64 `json:"wavelength"`
	Reflectance float64 `json:"reflectance"`
}

const (
	minWavelength = 380
	maxWavelength = 700
)

// ParseReflectanceCSV reads a two-column spectrophotometer export.
// Column selection follows the exporter conventions: a header cell
// containing "wave" or "nm" marks the wavelength column and one
// containing "ref" or "%" marks reflectance; without a recognizable
// header the first two columns are used. Readings are clipped to
// [0,100] percent and filtered to the 380-700 nm band, sorted by
// wavelength.
func ParseReflectanceCSV(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewInvalidInputError("failed to parse spectral CSV", err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewInvalidInputError("spectral CSV is empty", nil)
	}

	wlCol, refCol := 0, 1
	start := 0
	if _, err := strconv.ParseFloat(records[0][0], 64); err != nil {
		// Header row present.
		start = 1
		for i, name := range records[0] {
			lower := strings.ToLower(name)
			if strings.Contains(lower, "wave") || strings.Contains(lower, "nm") {
				wlCol = i
			}
			if strings.Contains(lower, "ref") || strings.Contains(lower, "%") {
				refCol = i
			}
		}
	}

	var samples []Sample
	clipped := false
	for _, rec := range records[start:] {
		if len(rec) <= wlCol || len(rec) <= refCol {
			continue
		}
		wl, err1 := strconv.ParseFloat(strings.TrimSpace(rec[wlCol]), 64)
		ref, err2 := strconv.ParseFloat(strings.TrimSpace(rec[refCol]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if ref < 0 {
			ref = 0
			clipped = true
		} else if ref > 100 {
			ref = 100
			clipped = true
		}
		if wl < minWavelength || wl > maxWavelength {
			continue
		}
		samples = append(samples, Sample{Wavelength: wl, Reflectance: ref})
	}

	if clipped {
		logger.Warn("Reflectance values outside 0-100% were clipped")
	}
	if len(samples) == 0 {
		return nil, apperrors.NewInvalidInputError("no spectral data in 380-700nm range", nil)
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Wavelength < samples[j].Wavelength
	})
	return samples, nil
}

// SpectrumToXYZ integrates a reflectance curve against the CIE 1931
// 2 degree color matching functions under the D65 illuminant. The
// curve is linearly interpolated onto the 10 nm tabulation grid and
// the result is normalized so that a perfect reflector has Y = 100.
func SpectrumToXYZ(samples []Sample) (colorspace.Vec3, error) {
	if len(samples) == 0 {
		return colorspace.Vec3{}, apperrors.NewInvalidInputError("empty spectrum", nil)
	}

	var x, y, z, yNorm float64
	for i, wl := range cmfWavelengths {
		r := interpolate(samples, wl) / 100.0
		weight := d65SPD[i]
		x += r * cmfX[i] * weight
		y += r * cmfY[i] * weight
		z += r * cmfZ[i] * weight
		yNorm += cmfY[i] * weight
	}

	k := 100.0 / yNorm
	return colorspace.Vec3{k * x, k * y, k * z}, nil
}

// interpolate evaluates the reflectance curve at wl, holding the end
// values flat outside the measured range.
func interpolate(samples []Sample, wl float64) float64 {
	if wl <= samples[0].Wavelength {
		return samples[0].Reflectance
	}
	last := samples[len(samples)-1]
	if wl >= last.Wavelength {
		return last.Reflectance
	}
	i := sort.Search(len(samples), func(i int) bool {
		return samples[i].Wavelength >= wl
	})
	a, b := samples[i-1], samples[i]
	if b.Wavelength == a.Wavelength {
		return a.Reflectance
	}
	t := (wl - a.Wavelength) / (b.Wavelength - a.Wavelength)
	return a.Reflectance + t*(b.Reflectance-a.Reflectance)
}
