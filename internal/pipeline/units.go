package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/algamel98/textile-qc-app/internal/analyzer"
	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/config"
	"github.com/algamel98/textile-qc-app/internal/decision"
	apperrors "github.com/algamel98/textile-qc-app/internal/errors"
	"github.com/algamel98/textile-qc-app/internal/factory"
	"github.com/algamel98/textile-qc-app/internal/logger"
	"github.com/algamel98/textile-qc-app/internal/observer"
	"github.com/algamel98/textile-qc-app/pkg/models"
)

// executeUnits runs the enabled analysis units concurrently and fills
// in the per-unit results. A disabled unit scores a perfect 100 with
// PASS so it never drags the decision down.
func (r *Runner) executeUnits(ctx context.Context, result *models.AnalysisResult, units factory.UnitSet, settings config.QCSettings, ref, test *colorspace.Field) {
	var wg sync.WaitGroup
	var errMu sync.Mutex
	appendError := func(err error) {
		errMu.Lock()
		result.Errors = append(result.Errors, err.Error())
		errMu.Unlock()
	}
	wg.Add(3)

	go func() {
		defer wg.Done()
		if units.Color == nil {
			result.Units.Color = disabledUnit()
			return
		}
		res, err := runUnit(ctx, r.pool, r.cfg.UnitTimeout, "color", func(ctx context.Context) (*analyzer.ColorResult, error) {
			return units.Color.Analyze(ctx, ref, test)
		})
		if err != nil {
			result.Units.Color = failedUnit(err)
			appendError(err)
			r.unitCompleted(ctx, result.RunID, "color", err)
			return
		}
		result.Units.ColorDetail = res
		result.Units.Color = decision.UnitResult{
			Score:  decision.ColorScore(res.DE76.Mean, settings.ColorScoreMultiplier),
			Status: res.Status,
		}
		r.unitCompleted(ctx, result.RunID, "color", nil)
	}()

	go func() {
		defer wg.Done()
		if units.Pattern == nil {
			result.Units.Pattern = disabledUnit()
			return
		}
		res, err := runUnit(ctx, r.pool, r.cfg.UnitTimeout, "pattern", func(ctx context.Context) (*analyzer.PatternResult, error) {
			return units.Pattern.Analyze(ctx, ref, test)
		})
		if err != nil {
			result.Units.Pattern = failedUnit(err)
			appendError(err)
			r.unitCompleted(ctx, result.RunID, "pattern", err)
			return
		}
		result.Units.PatternDetail = res
		result.Units.Pattern = decision.UnitResult{
			Score:  decision.PatternScore(res.SSIM),
			Status: res.Status,
		}
		r.unitCompleted(ctx, result.RunID, "pattern", nil)
	}()

	go func() {
		defer wg.Done()
		if units.Repetition == nil {
			result.Units.Repetition = disabledUnit()
			return
		}
		res, err := runUnit(ctx, r.pool, r.cfg.UnitTimeout, "repetition", func(ctx context.Context) (*analyzer.RepetitionResult, error) {
			return units.Repetition.Analyze(ctx, ref, test)
		})
		if err != nil {
			result.Units.Repetition = failedUnit(err)
			appendError(err)
			r.unitCompleted(ctx, result.RunID, "repetition", err)
			return
		}
		result.Units.RepetitionDetail = res
		result.Units.Repetition = decision.UnitResult{
			Score:  repetitionScore(res.Status),
			Status: res.Status,
		}
		r.unitCompleted(ctx, result.RunID, "repetition", nil)
	}()

	wg.Wait()
}

// runUnit executes one analysis unit on the worker pool under a bounded
// timeout. A panic or timeout degrades to a unit failure error instead
// of taking down the run.
func runUnit[T any](ctx context.Context, pool *analyzer.WorkerPool, timeout time.Duration, name string, fn func(context.Context) (T, error)) (T, error) {
	unitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		res T
		err error
	}
	ch := make(chan outcome, 1)
	pool.Submit(func() {
		defer func() {
			if rec := recover(); rec != nil {
				var zero T
				ch <- outcome{zero, apperrors.NewUnitFailureError(name, fmt.Sprintf("unit panicked: %v", rec), nil)}
			}
		}()
		res, err := fn(unitCtx)
		ch <- outcome{res, err}
	})

	select {
	case out := <-ch:
		if out.err != nil && !apperrors.IsType(out.err, apperrors.ErrorTypeUnitFailure) {
			out.err = apperrors.NewUnitFailureError(name, out.err.Error(), out.err)
		}
		return out.res, out.err
	case <-unitCtx.Done():
		var zero T
		return zero, apperrors.NewUnitFailureError(name, "unit timed out", unitCtx.Err())
	}
}

func disabledUnit() decision.UnitResult {
	return decision.UnitResult{Score: 100, Status: decision.StatusPass}
}

func failedUnit(err error) decision.UnitResult {
	return decision.UnitResult{Score: 0, Status: decision.StatusError, Error: err.Error()}
}

// repetitionScore maps the tolerance-band status to a reportable score;
// the decision policy itself only consumes the status.
func repetitionScore(status decision.Status) float64 {
	switch status {
	case decision.StatusPass:
		return 100
	case decision.StatusConditional:
		return 50
	default:
		return 0
	}
}

func (r *Runner) unitCompleted(ctx context.Context, runID, unit string, err error) {
	event := observer.RunEvent{
		EventType: observer.UnitCompleted,
		Timestamp: time.Now(),
		RunID:     runID,
		Unit:      unit,
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		logger.WithError(err).WithField("unit", unit).Warn("Analysis unit degraded")
	}
	r.notify(ctx, event)
}
