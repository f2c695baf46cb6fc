package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/algamel98/textile-qc-app/internal/config"
	apperrors "github.com/algamel98/textile-qc-app/internal/errors"
	"github.com/algamel98/textile-qc-app/internal/logger"
	"github.com/algamel98/textile-qc-app/internal/pipeline"
	"github.com/algamel98/textile-qc-app/pkg/models"
)

func validateImageURL(imageURL string) error {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewInvalidInputError("Invalid URL format", err)
	}
	if parsedURL.Host == "" {
		return apperrors.NewInvalidInputError("URL must have a valid host", nil)
	}
	return nil
}

// NewHandler builds the HTTP API around a pipeline runner.
func NewHandler(runner *pipeline.Runner, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/settings", defaultSettings)
	r.POST("/analyze", analyze(runner, cfg))

	return r
}

// analyze handles one QC run. A failing run still returns 200 with a
// structured body carrying the ERROR decision; only malformed requests
// produce an error status.
func analyze(runner *pipeline.Runner, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing QC analysis request")

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithField("ip", c.ClientIP()).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		for _, u := range []string{req.ReferenceURL, req.TestURL} {
			if err := validateImageURL(u); err != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"url": u,
					"ip":  c.ClientIP(),
				}).Error("Invalid image URL")
				respondError(c, apperrors.GetStatusCode(err), "invalid image URL", err)
				return
			}
		}

		settings := config.DefaultQCSettings()
		if len(req.Settings) > 0 {
			if err := settings.MergeJSON(req.Settings); err != nil {
				logger.WithError(err).WithField("ip", c.ClientIP()).Error("Invalid settings overrides")
				respondError(c, http.StatusBadRequest, "invalid settings", err)
				return
			}
		}

		result := runner.Run(ctx, req.ReferenceURL, req.TestURL, settings)

		logger.WithFields(logrus.Fields{
			"run_id":             result.RunID,
			"decision":           result.Outcome.Decision,
			"color_score":        result.Outcome.ColorScore,
			"pattern_score":      result.Outcome.PatternScore,
			"overall_score":      result.Outcome.OverallScore,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("QC analysis completed")

		c.JSON(http.StatusOK, result)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// defaultSettings exposes the server-side defaults so clients can
// build override documents against the real baseline.
func defaultSettings(c *gin.Context) {
	c.JSON(http.StatusOK, config.DefaultQCSettings())
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
