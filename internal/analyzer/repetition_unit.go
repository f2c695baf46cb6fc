package analyzer

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/config"
	"github.com/algamel98/textile-qc-app/internal/decision"
)

// minMotifArea filters out speckle components that are noise rather
// than printed motifs.
const minMotifArea = 25

// repetitionUnit implements RepetitionAnalyzer by segmenting dark
// motifs against the mean luma and counting connected components.
type repetitionUnit struct {
	settings config.QCSettings
}

// NewRepetitionUnit creates the pattern repetition unit.
func NewRepetitionUnit(settings config.QCSettings) RepetitionAnalyzer {
	return &repetitionUnit{settings: settings}
}

func (u *repetitionUnit) Analyze(ctx context.Context, ref, test *colorspace.Field) (*RepetitionResult, error) {
	if err := colorspace.RequireSameShape(ref, test); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	countRef, areasRef := countMotifs(Grayscale(ref), ref.W, ref.H)
	countTest, areasTest := countMotifs(Grayscale(test), test.W, test.H)

	diff := countRef - countTest
	if diff < 0 {
		diff = -diff
	}

	tol := float64(u.settings.PatternCountTolerance)
	return &RepetitionResult{
		CountRef:     countRef,
		CountTest:    countTest,
		CountDiff:    diff,
		MeanAreaRef:  meanArea(areasRef),
		MeanAreaTest: meanArea(areasTest),
		Status: decision.DetermineStatus(
			float64(diff),
			tol+1, // diff <= tol passes
			2*tol,
			true,
		),
	}, nil
}

func meanArea(areas []float64) float64 {
	if len(areas) == 0 {
		return 0
	}
	return stat.Mean(areas, nil)
}

// countMotifs binarizes the luma plane at its mean and counts
// 4-connected below-threshold components of at least minMotifArea
// pixels.
func countMotifs(gray []float64, w, h int) (int, []float64) {
	if len(gray) == 0 {
		return 0, nil
	}
	threshold := stat.Mean(gray, nil)

	visited := make([]bool, len(gray))
	var areas []float64
	stack := make([]int, 0, 256)

	for start := range gray {
		if visited[start] || gray[start] >= threshold {
			continue
		}

		area := 0
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			area++

			x := idx % w
			y := idx / w
			neighbors := [4]int{idx - 1, idx + 1, idx - w, idx + w}
			valid := [4]bool{x > 0, x < w-1, y > 0, y < h-1}
			for i, n := range neighbors {
				if valid[i] && !visited[n] && gray[n] < threshold {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}

		if area >= minMotifArea {
			areas = append(areas, float64(area))
		}
	}
	return len(areas), areas
}
