package spectral

import (
	"math"
	"strings"
	"testing"
)

func TestParseReflectanceCSVWithHeader(t *testing.T) {
	csv := "wavelength_nm,reflectance_%\n400,50.0\n500,60.0\n600,70.0\n"
	samples, err := ParseReflectanceCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, expected 3", len(samples))
	}
	if samples[0].Wavelength != 400 || samples[0].Reflectance != 50 {
		t.Errorf("first sample = %+v", samples[0])
	}
}

func TestParseReflectanceCSVHeaderless(t *testing.T) {
	csv := "450,20\n550,40\n650,80\n"
	samples, err := ParseReflectanceCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, expected 3", len(samples))
	}
}

func TestParseReflectanceCSVFiltersAndClips(t *testing.T) {
	csv := "wavelength,reflectance\n" +
		"300,50\n" + // below band
		"400,120\n" + // clipped to 100
		"500,-5\n" + // clipped to 0
		"750,50\n" // above band
	samples, err := ParseReflectanceCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples, expected 2 in band", len(samples))
	}
	if samples[0].Reflectance != 100 {
		t.Errorf("over-range reflectance = %v, expected clip to 100", samples[0].Reflectance)
	}
	if samples[1].Reflectance != 0 {
		t.Errorf("negative reflectance = %v, expected clip to 0", samples[1].Reflectance)
	}
}

func TestParseReflectanceCSVSortsByWavelength(t *testing.T) {
	csv := "600,70\n400,50\n500,60\n"
	samples, err := ParseReflectanceCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Wavelength < samples[i-1].Wavelength {
			t.Fatal("samples not sorted by wavelength")
		}
	}
}

func TestParseReflectanceCSVEmpty(t *testing.T) {
	if _, err := ParseReflectanceCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ParseReflectanceCSV(strings.NewReader("310,50\n320,60\n")); err == nil {
		t.Error("expected error when nothing is in band")
	}
}

func TestSpectrumToXYZPerfectReflector(t *testing.T) {
	samples := []Sample{
		{Wavelength: 380, Reflectance: 100},
		{Wavelength: 700, Reflectance: 100},
	}
	xyz, err := SpectrumToXYZ(samples)
	if err != nil {
		t.Fatal(err)
	}

	// The normalization fixes the perfect reflector's Y at exactly 100.
	if math.Abs(xyz[1]-100) > 1e-9 {
		t.Errorf("Y = %.9f, expected 100", xyz[1])
	}
	// X and Z land on the D65 white point within quadrature error.
	if math.Abs(xyz[0]-95.047) > 0.5 {
		t.Errorf("X = %.3f, expected near 95.047", xyz[0])
	}
	if math.Abs(xyz[2]-108.883) > 0.5 {
		t.Errorf("Z = %.3f, expected near 108.883", xyz[2])
	}
}

func TestSpectrumToXYZScalesLinearly(t *testing.T) {
	full := []Sample{
		{Wavelength: 380, Reflectance: 100},
		{Wavelength: 700, Reflectance: 100},
	}
	half := []Sample{
		{Wavelength: 380, Reflectance: 50},
		{Wavelength: 700, Reflectance: 50},
	}

	xyzFull, err := SpectrumToXYZ(full)
	if err != nil {
		t.Fatal(err)
	}
	xyzHalf, err := SpectrumToXYZ(half)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(xyzHalf[i]*2-xyzFull[i]) > 1e-9 {
			t.Errorf("channel %d: half spectrum not half the tristimulus", i)
		}
	}
}

func TestSpectrumToXYZEmpty(t *testing.T) {
	if _, err := SpectrumToXYZ(nil); err == nil {
		t.Error("expected error for empty spectrum")
	}
}

func TestInterpolateHoldsEnds(t *testing.T) {
	samples := []Sample{
		{Wavelength: 450, Reflectance: 30},
		{Wavelength: 550, Reflectance: 70},
	}
	if got := interpolate(samples, 400); got != 30 {
		t.Errorf("below range = %v, expected 30", got)
	}
	if got := interpolate(samples, 600); got != 70 {
		t.Errorf("above range = %v, expected 70", got)
	}
	if got := interpolate(samples, 500); math.Abs(got-50) > 1e-12 {
		t.Errorf("midpoint = %v, expected 50", got)
	}
}
