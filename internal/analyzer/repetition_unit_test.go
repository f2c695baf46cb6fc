package analyzer

import (
	"context"
	"testing"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/config"
	"github.com/algamel98/textile-qc-app/internal/decision"
)

// motifField draws dark 6x6 squares on a white background, one per
// given top-left corner.
func motifField(w, h int, corners [][2]int) *colorspace.Field {
	f := colorspace.NewField(w, h)
	for i := range f.Pix {
		f.Pix[i] = colorspace.Vec3{255, 255, 255}
	}
	for _, c := range corners {
		for dy := 0; dy < 6; dy++ {
			for dx := 0; dx < 6; dx++ {
				x, y := c[0]+dx, c[1]+dy
				if x < w && y < h {
					f.Pix[y*w+x] = colorspace.Vec3{0, 0, 0}
				}
			}
		}
	}
	return f
}

func TestCountMotifs(t *testing.T) {
	tests := []struct {
		name     string
		corners  [][2]int
		expected int
	}{
		{"No motifs", nil, 0},
		{"Single motif", [][2]int{{10, 10}}, 1},
		{"Three separated motifs", [][2]int{{5, 5}, {25, 5}, {45, 25}}, 3},
		{"Touching motifs merge", [][2]int{{10, 10}, {16, 10}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := motifField(60, 40, tt.corners)
			count, areas := countMotifs(Grayscale(f), f.W, f.H)
			if count != tt.expected {
				t.Errorf("count = %d, expected %d", count, tt.expected)
			}
			if len(areas) != tt.expected {
				t.Errorf("areas = %d entries, expected %d", len(areas), tt.expected)
			}
		})
	}
}

func TestCountMotifsFiltersSpeckle(t *testing.T) {
	// One real motif plus a 2x2 speck that is below the area filter.
	f := motifField(60, 40, [][2]int{{10, 10}})
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			f.Pix[(30+dy)*f.W+(50+dx)] = colorspace.Vec3{0, 0, 0}
		}
	}

	count, _ := countMotifs(Grayscale(f), f.W, f.H)
	if count != 1 {
		t.Errorf("count = %d, expected speck to be filtered", count)
	}
}

func TestRepetitionUnitToleranceBands(t *testing.T) {
	settings := config.DefaultQCSettings()
	settings.PatternCountTolerance = 1
	unit := NewRepetitionUnit(settings)
	ctx := context.Background()

	ref := motifField(80, 80, [][2]int{{5, 5}, {25, 5}, {45, 5}, {5, 45}})

	tests := []struct {
		name     string
		test     *colorspace.Field
		diff     int
		expected decision.Status
	}{
		{
			name:     "Equal counts pass",
			test:     motifField(80, 80, [][2]int{{5, 5}, {25, 5}, {45, 5}, {5, 45}}),
			diff:     0,
			expected: decision.StatusPass,
		},
		{
			name:     "Within tolerance passes",
			test:     motifField(80, 80, [][2]int{{5, 5}, {25, 5}, {45, 5}}),
			diff:     1,
			expected: decision.StatusPass,
		},
		{
			name:     "Within twice tolerance is conditional",
			test:     motifField(80, 80, [][2]int{{5, 5}, {25, 5}}),
			diff:     2,
			expected: decision.StatusConditional,
		},
		{
			name:     "Beyond twice tolerance fails",
			test:     motifField(80, 80, [][2]int{{5, 5}}),
			diff:     3,
			expected: decision.StatusFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := unit.Analyze(ctx, ref, tt.test)
			if err != nil {
				t.Fatal(err)
			}
			if res.CountDiff != tt.diff {
				t.Errorf("diff = %d, expected %d (ref %d, test %d)",
					res.CountDiff, tt.diff, res.CountRef, res.CountTest)
			}
			if res.Status != tt.expected {
				t.Errorf("status = %s, expected %s", res.Status, tt.expected)
			}
		})
	}
}

func TestRepetitionUnitMeanArea(t *testing.T) {
	settings := config.DefaultQCSettings()
	unit := NewRepetitionUnit(settings)

	f := motifField(60, 40, [][2]int{{10, 10}, {30, 10}})
	res, err := unit.Analyze(context.Background(), f, f)
	if err != nil {
		t.Fatal(err)
	}
	if res.MeanAreaRef != 36 {
		t.Errorf("mean area = %v, expected 36", res.MeanAreaRef)
	}
}
