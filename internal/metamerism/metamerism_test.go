package metamerism

import (
	"math"
	"testing"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
)

func singlePixel(xyz colorspace.Vec3) *colorspace.Field {
	return &colorspace.Field{W: 1, H: 1, Pix: []colorspace.Vec3{xyz}}
}

func TestIdenticalSamplesHaveZeroIndex(t *testing.T) {
	xyz := singlePixel(colorspace.Vec3{40, 35, 25})

	a, err := Assess(xyz, xyz, []string{"D65", "TL84", "A"})
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Results) != 3 {
		t.Fatalf("expected 3 illuminant results, got %d", len(a.Results))
	}
	for _, r := range a.Results {
		if r.DeltaE != 0 {
			t.Errorf("%s: identical samples gave dE %.9f", r.Illuminant, r.DeltaE)
		}
	}
	if a.Index != 0 {
		t.Errorf("index = %.9f, expected 0", a.Index)
	}
	if a.Risk.Level != RiskLow {
		t.Errorf("risk = %s, expected LOW", a.Risk.Level)
	}
}

func TestUnknownIlluminantsAreSkipped(t *testing.T) {
	ref := singlePixel(colorspace.Vec3{40, 35, 25})
	test := singlePixel(colorspace.Vec3{42, 36, 24})

	a, err := Assess(ref, test, []string{"D65", "NOTREAL", "A"})
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Results) != 2 {
		t.Fatalf("expected 2 results after skipping, got %d", len(a.Results))
	}
	for _, r := range a.Results {
		if r.Illuminant == "NOTREAL" {
			t.Error("unknown illuminant was not skipped")
		}
	}
}

func TestSingleIlluminantHasZeroIndex(t *testing.T) {
	ref := singlePixel(colorspace.Vec3{40, 35, 25})
	test := singlePixel(colorspace.Vec3{45, 30, 20})

	a, err := Assess(ref, test, []string{"D65"})
	if err != nil {
		t.Fatal(err)
	}
	// Dispersion over fewer than two values is undefined; the index
	// stays zero.
	if a.Index != 0 {
		t.Errorf("index = %.9f, expected 0 for a single illuminant", a.Index)
	}
	if a.WorstCase == nil || a.WorstCase.Illuminant != "D65" {
		t.Error("worst case should be the only illuminant")
	}
}

func TestWorstCaseFirstOccurrenceWins(t *testing.T) {
	// Identical samples give dE 0 under every illuminant, a full tie.
	xyz := singlePixel(colorspace.Vec3{40, 35, 25})
	a, err := Assess(xyz, xyz, []string{"TL84", "A", "D65"})
	if err != nil {
		t.Fatal(err)
	}
	if a.WorstCase == nil {
		t.Fatal("expected a worst case")
	}
	if a.WorstCase.Illuminant != "TL84" {
		t.Errorf("tie should keep first illuminant, got %s", a.WorstCase.Illuminant)
	}
}

func TestIndexMatchesDispersion(t *testing.T) {
	ref := singlePixel(colorspace.Vec3{40, 35, 25})
	test := singlePixel(colorspace.Vec3{48, 33, 15})

	a, err := Assess(ref, test, []string{"D65", "TL84", "A"})
	if err != nil {
		t.Fatal(err)
	}

	values := make([]float64, len(a.Results))
	var mean float64
	for i, r := range a.Results {
		values[i] = r.DeltaE
		mean += r.DeltaE
	}
	mean /= float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	want := 10 * math.Sqrt(variance)
	if math.Abs(a.Index-want) > 1e-9 {
		t.Errorf("index = %.9f, expected %.9f", a.Index, want)
	}
	if math.Abs(a.MeanDeltaE-mean) > 1e-9 {
		t.Errorf("mean dE = %.9f, expected %.9f", a.MeanDeltaE, mean)
	}
}

func TestAssessRiskBands(t *testing.T) {
	tests := []struct {
		index float64
		level RiskLevel
		color string
	}{
		{0.0, RiskLow, "#27AE60"},
		{0.99, RiskLow, "#27AE60"},
		{1.0, RiskModerate, "#F39C12"},
		{2.99, RiskModerate, "#F39C12"},
		{3.0, RiskHigh, "#E74C3C"},
		{10.0, RiskHigh, "#E74C3C"},
	}

	for _, tt := range tests {
		r := AssessRisk(tt.index)
		if r.Level != tt.level {
			t.Errorf("index %.2f: level %s, expected %s", tt.index, r.Level, tt.level)
		}
		if r.Color != tt.color {
			t.Errorf("index %.2f: color %s, expected %s", tt.index, r.Color, tt.color)
		}
		if r.Index != tt.index {
			t.Errorf("index %.2f not carried through", tt.index)
		}
	}
}

func TestShapeMismatch(t *testing.T) {
	a := singlePixel(colorspace.Vec3{40, 35, 25})
	b := &colorspace.Field{W: 2, H: 1, Pix: make([]colorspace.Vec3, 2)}
	if _, err := Assess(a, b, []string{"D65"}); err == nil {
		t.Error("expected error for mismatched shapes")
	}
}
