package colorspace

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSRGBToXYZKnownValues(t *testing.T) {
	tests := []struct {
		name     string
		rgb      Vec3
		expected Vec3
		tol      float64
	}{
		{
			name:     "White maps to D65 white point",
			rgb:      Vec3{1, 1, 1},
			expected: Vec3{95.047, 100.0, 108.883},
			tol:      0.01,
		},
		{
			name:     "Black maps to zero",
			rgb:      Vec3{0, 0, 0},
			expected: Vec3{0, 0, 0},
			tol:      1e-9,
		},
		{
			name:     "Mid gray is neutral",
			rgb:      Vec3{0.5, 0.5, 0.5},
			expected: Vec3{20.344, 21.404, 23.305},
			tol:      0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Field{W: 1, H: 1, Pix: []Vec3{tt.rgb}}
			got := SRGBToXYZ(&f).Pix[0]
			for i := 0; i < 3; i++ {
				if !approxEqual(got[i], tt.expected[i], tt.tol) {
					t.Errorf("channel %d: got %.6f, expected %.6f", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestSRGBToXYZDetects255Range(t *testing.T) {
	unit := Field{W: 1, H: 1, Pix: []Vec3{{1, 1, 1}}}
	byteRange := Field{W: 1, H: 1, Pix: []Vec3{{255, 255, 255}}}

	a := SRGBToXYZ(&unit).Pix[0]
	b := SRGBToXYZ(&byteRange).Pix[0]
	for i := 0; i < 3; i++ {
		if !approxEqual(a[i], b[i], 1e-9) {
			t.Errorf("channel %d: [0,1] white %.6f != [0,255] white %.6f", i, a[i], b[i])
		}
	}
}

func TestLabRoundTrip(t *testing.T) {
	rgbs := []Vec3{
		{0.1, 0.5, 0.9},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0.25, 0.25, 0.25},
		{0.95, 0.87, 0.16},
		{0.003, 0.001, 0.002},
	}

	for _, rgb := range rgbs {
		f := Field{W: 1, H: 1, Pix: []Vec3{rgb}}
		xyz := SRGBToXYZ(&f)
		lab := XYZToLab(xyz, D65)
		back := LabToXYZ(lab, D65)

		for i := 0; i < 3; i++ {
			want := xyz.Pix[0][i]
			got := back.Pix[0][i]
			tol := 1e-6 * math.Max(1, math.Abs(want))
			if !approxEqual(got, want, tol) {
				t.Errorf("rgb %v channel %d: round trip %.9f != %.9f", rgb, i, got, want)
			}
		}
	}
}

func TestXYZToLabWhitePoint(t *testing.T) {
	// The white point itself must map to L=100, a=b=0.
	lab := XYZToLabOne(Vec3{D65.X, D65.Y, D65.Z}, D65)
	if !approxEqual(lab[0], 100, 1e-9) || !approxEqual(lab[1], 0, 1e-9) || !approxEqual(lab[2], 0, 1e-9) {
		t.Errorf("white point Lab = %v, expected (100, 0, 0)", lab)
	}
}

func TestXYZToSRGBInverse(t *testing.T) {
	rgbs := []Vec3{
		{0.2, 0.4, 0.6},
		{0.9, 0.1, 0.5},
		{0, 0, 0},
		{1, 1, 1},
	}
	for _, rgb := range rgbs {
		f := Field{W: 1, H: 1, Pix: []Vec3{rgb}}
		back := XYZToSRGB(SRGBToXYZ(&f)).Pix[0]
		for i := 0; i < 3; i++ {
			if !approxEqual(back[i], rgb[i], 1e-6) {
				t.Errorf("rgb %v channel %d: got %.9f", rgb, i, back[i])
			}
		}
	}
}

func TestCMYKRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rgb  Vec3
	}{
		{"Primary red", Vec3{1, 0, 0}},
		{"Mixed color", Vec3{0.3, 0.6, 0.9}},
		{"White", Vec3{1, 1, 1}},
		{"Near black", Vec3{0.01, 0.01, 0.01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back := CMYKToRGBOne(RGBToCMYKOne(tt.rgb))
			for i := 0; i < 3; i++ {
				if !approxEqual(back[i], tt.rgb[i], 1e-6) {
					t.Errorf("channel %d: got %.9f, expected %.9f", i, back[i], tt.rgb[i])
				}
			}
		})
	}
}

func TestRGBToCMYKBlackDoesNotDivideByZero(t *testing.T) {
	cmyk := RGBToCMYKOne(Vec3{0, 0, 0})
	if !approxEqual(cmyk[3], 1, 1e-9) {
		t.Errorf("black K = %.6f, expected 1", cmyk[3])
	}
	for i := 0; i < 3; i++ {
		if math.IsNaN(cmyk[i]) || math.IsInf(cmyk[i], 0) {
			t.Errorf("channel %d is not finite: %v", i, cmyk[i])
		}
	}
}

func TestRequireSameShape(t *testing.T) {
	a := NewField(2, 2)
	b := NewField(2, 3)
	if err := RequireSameShape(a, b); err == nil {
		t.Error("expected error for mismatched shapes")
	}
	if err := RequireSameShape(a, NewField(2, 2)); err != nil {
		t.Errorf("unexpected error for matching shapes: %v", err)
	}
}

func TestFieldMean(t *testing.T) {
	f := Field{W: 2, H: 1, Pix: []Vec3{{1, 2, 3}, {3, 4, 5}}}
	mean := f.Mean()
	expected := Vec3{2, 3, 4}
	for i := 0; i < 3; i++ {
		if !approxEqual(mean[i], expected[i], 1e-12) {
			t.Errorf("channel %d: got %v, expected %v", i, mean[i], expected[i])
		}
	}
}
