// Package pipeline orchestrates one QC run: fetch and prepare both
// images, execute the enabled analysis units, evaluate the extended
// colorimetric assessments and emit the final decision.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/algamel98/textile-qc-app/internal/analyzer"
	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/config"
	"github.com/algamel98/textile-qc-app/internal/decision"
	apperrors "github.com/algamel98/textile-qc-app/internal/errors"
	"github.com/algamel98/textile-qc-app/internal/factory"
	"github.com/algamel98/textile-qc-app/internal/logger"
	"github.com/algamel98/textile-qc-app/internal/metamerism"
	"github.com/algamel98/textile-qc-app/internal/observer"
	"github.com/algamel98/textile-qc-app/internal/storage"
	"github.com/algamel98/textile-qc-app/pkg/models"
)

// Runner executes QC runs. It is safe for concurrent use; all run
// state is request-scoped.
type Runner struct {
	cfg       *config.Config
	fetcher   storage.ImageFetcher
	pool      *analyzer.WorkerPool
	publisher observer.Subject
}

// NewRunner wires a runner from its collaborators. The pool must
// already be started.
func NewRunner(cfg *config.Config, fetcher storage.ImageFetcher, pool *analyzer.WorkerPool, publisher observer.Subject) *Runner {
	return &Runner{
		cfg:       cfg,
		fetcher:   fetcher,
		pool:      pool,
		publisher: publisher,
	}
}

// Run executes the full pipeline for one reference/test pair. It always
// returns a populated result: pipeline-level failures yield the ERROR
// decision with all scores zeroed rather than an error return.
func (r *Runner) Run(ctx context.Context, referenceURL, testURL string, settings config.QCSettings) *models.AnalysisResult {
	start := time.Now()
	result := &models.AnalysisResult{
		RunID:        uuid.NewString(),
		ReferenceURL: referenceURL,
		TestURL:      testURL,
		Timestamp:    start.UTC(),
	}

	r.notify(ctx, observer.RunEvent{
		EventType: observer.RunStarted,
		Timestamp: time.Now(),
		RunID:     result.RunID,
		Success:   true,
	})

	refField, testField, err := r.prepareInputs(ctx, referenceURL, testURL)
	if err != nil {
		return r.fail(ctx, result, start, err)
	}

	units := factory.NewUnitSet(settings)
	r.executeUnits(ctx, result, units, settings, refField, testField)

	if settings.EnableSpectrophotometer {
		r.assessSpectro(result, refField, testField, settings)
	}
	result.RegionalSamples = regionalSamples(refField, testField, settings.NumSamplePoints)

	engine := decision.NewEngine(settings)
	result.Outcome = engine.Evaluate(
		result.Units.Color.Score,
		result.Units.Pattern.Score,
		result.Units.Repetition.Status,
	)

	elapsed := time.Since(start)
	result.ProcessingTimeSec = elapsed.Seconds()
	r.notify(ctx, observer.RunEvent{
		EventType:      observer.DecisionEmitted,
		Timestamp:      time.Now(),
		RunID:          result.RunID,
		Decision:       string(result.Outcome.Decision),
		Success:        true,
		ProcessingTime: elapsed,
	})
	r.notify(ctx, observer.RunEvent{
		EventType:      observer.RunCompleted,
		Timestamp:      time.Now(),
		RunID:          result.RunID,
		Success:        true,
		ProcessingTime: elapsed,
	})
	return result
}

// prepareInputs fetches both images, resizes them to the analysis width
// and aligns their shapes.
func (r *Runner) prepareInputs(ctx context.Context, referenceURL, testURL string) (*colorspace.Field, *colorspace.Field, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.cfg.ImageFetchTimeout)
	defer cancel()

	refImg, err := r.fetcher.FetchImage(fetchCtx, referenceURL)
	if err != nil {
		return nil, nil, apperrors.NewPipelineFailureError("failed to fetch reference image", err)
	}
	testImg, err := r.fetcher.FetchImage(fetchCtx, testURL)
	if err != nil {
		return nil, nil, apperrors.NewPipelineFailureError("failed to fetch test image", err)
	}

	refImg = storage.ResizeForAnalysis(refImg, r.cfg.AnalysisWidth)
	testImg = storage.ResizeForAnalysis(testImg, r.cfg.AnalysisWidth)
	refImg, testImg = storage.AlignShapes(refImg, testImg)

	return analyzer.FieldFromImage(refImg), analyzer.FieldFromImage(testImg), nil
}

// assessSpectro runs the metamerism and whiteness assessments over the
// mean XYZ of both images. The mean is taken after conversion; averaging
// in RGB first would drag the mean through the gamma curve. Failures
// here degrade the extras and are reported, but never abort the
// decision.
func (r *Runner) assessSpectro(result *models.AnalysisResult, ref, test *colorspace.Field, settings config.QCSettings) {
	xyzRef := &colorspace.Field{W: 1, H: 1, Pix: []colorspace.Vec3{colorspace.SRGBToXYZ(ref).Mean()}}
	xyzTest := &colorspace.Field{W: 1, H: 1, Pix: []colorspace.Vec3{colorspace.SRGBToXYZ(test).Mean()}}

	assessment, err := metamerism.Assess(xyzRef, xyzTest, settings.MetamerismIlluminants)
	if err != nil {
		logger.WithError(err).WithField("run_id", result.RunID).Error("Metamerism assessment failed")
		result.Errors = append(result.Errors, err.Error())
	} else {
		result.Metamerism = assessment
	}

	result.WhitenessRef = whitenessReport(xyzRef)
	result.WhitenessTest = whitenessReport(xyzTest)
}

func (r *Runner) fail(ctx context.Context, result *models.AnalysisResult, start time.Time, err error) *models.AnalysisResult {
	logger.WithError(err).WithField("run_id", result.RunID).Error("Pipeline failure")
	result.Errors = append(result.Errors, err.Error())
	result.Units.Color = decision.UnitResult{Status: decision.StatusError}
	result.Units.Pattern = decision.UnitResult{Status: decision.StatusError}
	result.Units.Repetition = decision.UnitResult{Status: decision.StatusError}
	result.Outcome = decision.ErrorOutcome()
	result.ProcessingTimeSec = time.Since(start).Seconds()

	r.notify(ctx, observer.RunEvent{
		EventType:      observer.RunFailed,
		Timestamp:      time.Now(),
		RunID:          result.RunID,
		Success:        false,
		ErrorMessage:   err.Error(),
		ProcessingTime: time.Since(start),
	})
	return result
}

func (r *Runner) notify(ctx context.Context, event observer.RunEvent) {
	if r.publisher != nil {
		r.publisher.NotifyObservers(ctx, event)
	}
}
