// Package container wires the application dependency graph.
package container

import (
	"fmt"
	"net/http"

	"github.com/algamel98/textile-qc-app/internal/analyzer"
	"github.com/algamel98/textile-qc-app/internal/config"
	"github.com/algamel98/textile-qc-app/internal/factory"
	"github.com/algamel98/textile-qc-app/internal/logger"
	"github.com/algamel98/textile-qc-app/internal/observer"
	"github.com/algamel98/textile-qc-app/internal/pipeline"
	"github.com/algamel98/textile-qc-app/internal/storage"
	"github.com/algamel98/textile-qc-app/internal/transport"
)

// Container holds all application dependencies.
type Container struct {
	config       *config.Config
	imageFetcher storage.ImageFetcher
	workerPool   *analyzer.WorkerPool
	publisher    observer.Subject
	metrics      *observer.MetricsObserver
	runner       *pipeline.Runner
	handler      http.Handler
}

// NewContainer builds the dependency graph from the environment.
func NewContainer() (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	fetcher, err := factory.NewStorageFactory().CreateFetcher(factory.HTTPFetcher, cfg.ImageFetchTimeout)
	if err != nil {
		return nil, err
	}

	pool := analyzer.NewWorkerPool(0)
	pool.Start()

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	runner := pipeline.NewRunner(cfg, fetcher, pool, publisher)
	handler := transport.NewHandler(runner, cfg)

	return &Container{
		config:       cfg,
		imageFetcher: fetcher,
		workerPool:   pool,
		publisher:    publisher,
		metrics:      metrics,
		runner:       runner,
		handler:      handler,
	}, nil
}

// Handler returns the HTTP handler.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Runner returns the pipeline runner.
func (c *Container) Runner() *pipeline.Runner {
	return c.runner
}

// Metrics returns the run metrics collector.
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Close releases pooled resources.
func (c *Container) Close() {
	c.workerPool.Close()
}
