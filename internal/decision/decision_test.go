package decision

import (
	"testing"

	"github.com/algamel98/textile-qc-app/internal/config"
)

func TestDetermineStatusLowerIsBetter(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected Status
	}{
		{"Below pass threshold", 1.5, StatusPass},
		{"At pass threshold is conditional", 2.0, StatusConditional},
		{"Between thresholds", 3.0, StatusConditional},
		{"At conditional threshold", 3.5, StatusConditional},
		{"Above conditional threshold", 3.6, StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineStatus(tt.value, 2.0, 3.5, true); got != tt.expected {
				t.Errorf("got %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestDetermineStatusHigherIsBetter(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected Status
	}{
		{"Above pass threshold", 0.95, StatusPass},
		{"At pass threshold is conditional", 0.90, StatusConditional},
		{"Between thresholds", 0.80, StatusConditional},
		{"At conditional threshold is fail", 0.75, StatusFail},
		{"Below conditional threshold", 0.50, StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineStatus(tt.value, 0.90, 0.75, false); got != tt.expected {
				t.Errorf("got %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestColorScore(t *testing.T) {
	if got := ColorScore(1.0, 5.0); got != 95 {
		t.Errorf("got %v, expected 95", got)
	}
	if got := ColorScore(0, 5.0); got != 100 {
		t.Errorf("got %v, expected 100", got)
	}
	// Large differences clamp at zero instead of going negative.
	if got := ColorScore(50, 5.0); got != 0 {
		t.Errorf("got %v, expected 0", got)
	}
}

func TestPatternScore(t *testing.T) {
	if got := PatternScore(0.87); got != 87 {
		t.Errorf("got %v, expected 87", got)
	}
}

func testEngine() *Engine {
	s := config.DefaultQCSettings()
	s.ColorScoreThreshold = 90
	s.PatternScoreThreshold = 90
	s.OverallScoreThreshold = 85
	return NewEngine(s)
}

func TestEvaluateScenarios(t *testing.T) {
	tests := []struct {
		name         string
		colorScore   float64
		patternScore float64
		repetition   Status
		expected     Decision
	}{
		{"All passing", 95, 96, StatusPass, Accept},
		{"Low color but high overall", 80, 96, StatusPass, ConditionalAccept},
		{"Repetition fail vetoes high scores", 99, 99, StatusFail, Reject},
		{"Repetition conditional blocks accept", 95, 96, StatusConditional, ConditionalAccept},
		{"All low", 40, 50, StatusPass, Reject},
		{"Exactly at thresholds", 90, 90, StatusPass, Accept},
		{"Overall exactly at threshold", 80, 90, StatusPass, ConditionalAccept},
		{"Repetition error blocks accept", 95, 96, StatusError, ConditionalAccept},
	}

	engine := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := engine.Evaluate(tt.colorScore, tt.patternScore, tt.repetition)
			if out.Decision != tt.expected {
				t.Errorf("got %s, expected %s", out.Decision, tt.expected)
			}
			wantOverall := (tt.colorScore + tt.patternScore) / 2
			if out.OverallScore != wantOverall {
				t.Errorf("overall = %v, expected %v", out.OverallScore, wantOverall)
			}
		})
	}
}

func TestErrorOutcome(t *testing.T) {
	out := ErrorOutcome()
	if out.Decision != Error {
		t.Errorf("got %s, expected ERROR", out.Decision)
	}
	if out.ColorScore != 0 || out.PatternScore != 0 || out.OverallScore != 0 {
		t.Error("error outcome must zero all scores")
	}
}
