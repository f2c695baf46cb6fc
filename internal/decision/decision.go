// Package decision aggregates analysis unit outcomes into the final
// accept/reject verdict under configured thresholds.
package decision

import (
	"math"

	"github.com/algamel98/textile-qc-app/internal/config"
)

// Status is the outcome of a single analysis unit.
type Status string

const (
	StatusPass        Status = "PASS"
	StatusConditional Status = "CONDITIONAL"
	StatusFail        Status = "FAIL"
	StatusError       Status = "ERROR"
)

// Decision is the final verdict for a run.
type Decision string

const (
	Accept            Decision = "ACCEPT"
	ConditionalAccept Decision = "CONDITIONAL ACCEPT"
	Reject            Decision = "REJECT"
	Error             Decision = "ERROR"
)

// UnitResult carries the score and status of one analysis unit.
type UnitResult struct {
	Score  float64 `json:"score"`
	Status Status  `json:"status"`
	Error  string  `json:"error,omitempty"`
}

// DetermineStatus maps a metric value onto PASS/CONDITIONAL/FAIL.
// With lowerIsBetter, value < pass is PASS and value <= conditional is
// CONDITIONAL; otherwise value > pass is PASS and value > conditional
// is CONDITIONAL.
func DetermineStatus(value, pass, conditional float64, lowerIsBetter bool) Status {
	if lowerIsBetter {
		switch {
		case value < pass:
			return StatusPass
		case value <= conditional:
			return StatusConditional
		default:
			return StatusFail
		}
	}
	switch {
	case value > pass:
		return StatusPass
	case value > conditional:
		return StatusConditional
	default:
		return StatusFail
	}
}

// ColorScore derives the color unit score from the mean dE76.
func ColorScore(meanDE76, multiplier float64) float64 {
	return math.Max(0, 100-meanDE76*multiplier)
}

// PatternScore derives the pattern unit score from SSIM.
func PatternScore(ssim float64) float64 {
	return ssim * 100
}

// Outcome is the scored verdict for a run.
type Outcome struct {
	Decision     Decision `json:"decision"`
	ColorScore   float64  `json:"color_score"`
	PatternScore float64  `json:"pattern_score"`
	OverallScore float64  `json:"overall_score"`
}

// Engine applies the fixed-priority threshold policy.
type Engine struct {
	settings config.QCSettings
}

// NewEngine creates a decision engine for one validated settings set.
func NewEngine(settings config.QCSettings) *Engine {
	return &Engine{settings: settings}
}

// Evaluate combines the three unit results into the final decision.
// The policy is evaluated in fixed priority order:
//
//  1. repetition FAIL vetoes everything -> REJECT
//  2. both scores at threshold and repetition PASS -> ACCEPT
//  3. overall score at threshold, or repetition CONDITIONAL -> CONDITIONAL ACCEPT
//  4. otherwise -> REJECT
func (e *Engine) Evaluate(colorScore, patternScore float64, repetition Status) Outcome {
	overall := (colorScore + patternScore) / 2

	out := Outcome{
		ColorScore:   colorScore,
		PatternScore: patternScore,
		OverallScore: overall,
	}

	switch {
	case repetition == StatusFail:
		out.Decision = Reject
	case colorScore >= e.settings.ColorScoreThreshold &&
		patternScore >= e.settings.PatternScoreThreshold &&
		repetition == StatusPass:
		out.Decision = Accept
	case overall >= e.settings.OverallScoreThreshold || repetition == StatusConditional:
		out.Decision = ConditionalAccept
	default:
		out.Decision = Reject
	}
	return out
}

// ErrorOutcome is the terminal outcome for a pipeline-level failure:
// all unit scores short-circuit to zero.
func ErrorOutcome() Outcome {
	return Outcome{Decision: Error}
}
