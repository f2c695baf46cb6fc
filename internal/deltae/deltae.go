// Package deltae implements the CIE color difference formulas over Lab
// fields: dE76, dE94 (graphic arts weighting), CIEDE2000 and CMC(l:c).
package deltae

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
)

// Map is a scalar color difference field aligned with the Lab inputs
// that produced it.
type Map struct {
	W, H   int
	Values []float64
}

// Stats summarizes a difference map. Std is the population standard
// deviation.
type Stats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Summarize computes mean/std/min/max over a map.
func Summarize(m *Map) Stats {
	if len(m.Values) == 0 {
		return Stats{}
	}
	min, max := m.Values[0], m.Values[0]
	for _, v := range m.Values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return Stats{
		Mean: stat.Mean(m.Values, nil),
		Std:  math.Sqrt(stat.PopVariance(m.Values, nil)),
		Min:  min,
		Max:  max,
	}
}

// DE76 computes the CIE 1976 Euclidean Lab distance elementwise.
func DE76(ref, test *colorspace.Field) (*Map, error) {
	return elementwise(ref, test, DE76One)
}

// DE94 computes the CIE 1994 weighted distance elementwise with the
// graphic arts parameterization (kL=1, K1=0.045, K2=0.015). The chroma
// term uses the geometric mean of both chromas so the formula is
// symmetric in its arguments.
func DE94(ref, test *colorspace.Field) (*Map, error) {
	return elementwise(ref, test, DE94One)
}

// DE2000 computes the full CIEDE2000 formula elementwise.
func DE2000(ref, test *colorspace.Field) (*Map, error) {
	return elementwise(ref, test, DE2000One)
}

// DECMC computes CMC(l:c) elementwise. The first argument is the
// reference; CMC weights depend on it, so swapping arguments changes
// the result.
func DECMC(ref, test *colorspace.Field, l, c float64) (*Map, error) {
	return elementwise(ref, test, func(a, b colorspace.Vec3) float64 {
		return deCMCOne(a, b, l, c)
	})
}

func elementwise(ref, test *colorspace.Field, f func(a, b colorspace.Vec3) float64) (*Map, error) {
	if err := colorspace.RequireSameShape(ref, test); err != nil {
		return nil, err
	}
	out := &Map{W: ref.W, H: ref.H, Values: make([]float64, len(ref.Pix))}
	for i := range ref.Pix {
		out.Values[i] = f(ref.Pix[i], test.Pix[i])
	}
	return out, nil
}

// DE76One is the scalar CIE 1976 distance for one Lab pair.
func DE76One(a, b colorspace.Vec3) float64 {
	dL := a[0] - b[0]
	da := a[1] - b[1]
	db := a[2] - b[2]
	return math.Sqrt(dL*dL + da*da + db*db)
}

// DE94One is the scalar CIE 1994 distance for one Lab pair.
func DE94One(a, b colorspace.Vec3) float64 {
	const (
		kL = 1.0
		k1 = 0.045
		k2 = 0.015
	)
	c1 := math.Hypot(a[1], a[2])
	c2 := math.Hypot(b[1], b[2])
	dL := a[0] - b[0]
	dC := c1 - c2
	da := a[1] - b[1]
	db := a[2] - b[2]
	dH2 := da*da + db*db - dC*dC
	if dH2 < 0 {
		dH2 = 0
	}

	cBar := math.Sqrt(c1 * c2)
	sC := 1 + k1*cBar
	sH := 1 + k2*cBar

	term1 := dL / kL
	term2 := dC / sC
	return math.Sqrt(term1*term1 + term2*term2 + dH2/(sH*sH))
}

func deg2Rad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// DE2000One is the scalar CIEDE2000 distance with parametric factors
// kL = kC = kH = 1. Hue angles are normalized into [0, 2pi); a neutral
// sample (a', b' both zero) contributes no hue term.
func DE2000One(lab1, lab2 colorspace.Vec3) float64 {
	const kL, kC, kH = 1.0, 1.0, 1.0
	deg360 := deg2Rad(360)
	deg180 := deg2Rad(180)
	const pow25To7 = 6103515625.0 // 25^7

	c1 := math.Hypot(lab1[1], lab1[2])
	c2 := math.Hypot(lab2[1], lab2[2])
	barC := (c1 + c2) / 2

	g := 0.5 * (1 - math.Sqrt(math.Pow(barC, 7)/(math.Pow(barC, 7)+pow25To7)))
	a1p := (1 + g) * lab1[1]
	a2p := (1 + g) * lab2[1]
	c1p := math.Hypot(a1p, lab1[2])
	c2p := math.Hypot(a2p, lab2[2])

	var h1p float64
	if lab1[2] != 0 || a1p != 0 {
		h1p = math.Atan2(lab1[2], a1p)
		if h1p < 0 {
			h1p += deg360
		}
	}
	var h2p float64
	if lab2[2] != 0 || a2p != 0 {
		h2p = math.Atan2(lab2[2], a2p)
		if h2p < 0 {
			h2p += deg360
		}
	}

	dLp := lab2[0] - lab1[0]
	dCp := c2p - c1p

	var dhp float64
	if c1p*c2p != 0 {
		dhp = h2p - h1p
		if dhp < -deg180 {
			dhp += deg360
		} else if dhp > deg180 {
			dhp -= deg360
		}
	}
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(dhp/2)

	barLp := (lab1[0] + lab2[0]) / 2
	barCp := (c1p + c2p) / 2

	hSum := h1p + h2p
	var barhp float64
	if c1p*c2p == 0 {
		barhp = hSum
	} else if math.Abs(h1p-h2p) <= deg180 {
		barhp = hSum / 2
	} else if hSum < deg360 {
		barhp = (hSum + deg360) / 2
	} else {
		barhp = (hSum - deg360) / 2
	}

	t := 1 - 0.17*math.Cos(barhp-deg2Rad(30)) +
		0.24*math.Cos(2*barhp) +
		0.32*math.Cos(3*barhp+deg2Rad(6)) -
		0.20*math.Cos(4*barhp-deg2Rad(63))

	dTheta := deg2Rad(30) * math.Exp(-math.Pow((barhp-deg2Rad(275))/deg2Rad(25), 2))
	rC := 2 * math.Sqrt(math.Pow(barCp, 7)/(math.Pow(barCp, 7)+pow25To7))
	sL := 1 + 0.015*math.Pow(barLp-50, 2)/math.Sqrt(20+math.Pow(barLp-50, 2))
	sC := 1 + 0.045*barCp
	sH := 1 + 0.015*barCp*t
	rT := -math.Sin(2*dTheta) * rC

	lTerm := dLp / (kL * sL)
	cTerm := dCp / (kC * sC)
	hTerm := dHp / (kH * sH)
	return math.Sqrt(lTerm*lTerm + cTerm*cTerm + hTerm*hTerm + rT*cTerm*hTerm)
}

// deCMCOne is the scalar CMC(l:c) distance. ref supplies the weighting
// functions, which is why CMC is not symmetric.
func deCMCOne(ref, test colorspace.Vec3, l, c float64) float64 {
	l1, a1, b1 := ref[0], ref[1], ref[2]
	c1 := math.Hypot(a1, b1)
	c2 := math.Hypot(test[1], test[2])

	var sL float64
	if l1 < 16 {
		sL = 0.511
	} else {
		sL = 0.040975 * l1 / (1 + 0.01765*l1)
	}
	sC := 0.0638*c1/(1+0.0131*c1) + 0.638

	h1 := math.Atan2(b1, a1) * (180 / math.Pi)
	if h1 < 0 {
		h1 += 360
	}
	var t float64
	if h1 >= 164 && h1 <= 345 {
		t = 0.56 + math.Abs(0.2*math.Cos(deg2Rad(h1+168)))
	} else {
		t = 0.36 + math.Abs(0.4*math.Cos(deg2Rad(h1+35)))
	}
	c1p4 := c1 * c1 * c1 * c1
	f := math.Sqrt(c1p4 / (c1p4 + 1900))
	sH := sC * (f*t + 1 - f)

	dL := test[0] - l1
	dC := c2 - c1
	da := test[1] - a1
	db := test[2] - b1
	dH2 := da*da + db*db - dC*dC
	if dH2 < 0 {
		dH2 = 0
	}

	lTerm := dL / (l * sL)
	cTerm := dC / (c * sC)
	return math.Sqrt(lTerm*lTerm + cTerm*cTerm + dH2/(sH*sH))
}
