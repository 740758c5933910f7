package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/spatialplot-go/internal/config"
	"github.com/anime-shed/spatialplot-go/internal/factory"
	"github.com/anime-shed/spatialplot-go/internal/logger"
	"github.com/anime-shed/spatialplot-go/internal/observer"
	"github.com/anime-shed/spatialplot-go/internal/processor"
	"github.com/anime-shed/spatialplot-go/internal/repository"
	"github.com/anime-shed/spatialplot-go/internal/service"
	"github.com/anime-shed/spatialplot-go/internal/storage"
	"github.com/anime-shed/spatialplot-go/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config     *config.Config
	factory    *factory.ComponentFactory
	repository *repository.SourceRepository
	pool       *processor.WorkerPool
	publisher  *observer.EventPublisher
	metrics    *observer.MetricsObserver
	service    service.NormalizationService
	handler    http.Handler
}

// NewContainer builds the dependency graph from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)

	httpFetcher, err := components.StorageFactory.CreateStorage(factory.HTTPStorage)
	if err != nil {
		return nil, fmt.Errorf("failed to create http storage: %w", err)
	}
	repo := repository.NewSourceRepository(httpFetcher)

	for _, st := range components.StorageFactory.Available() {
		var scheme string
		switch st {
		case factory.AzureStorage:
			scheme = storage.AzureScheme
		case factory.LocalStorage:
			scheme = "file"
		default:
			continue
		}
		fetcher, err := components.StorageFactory.CreateStorage(st)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s storage: %w", st, err)
		}
		repo.Register(scheme, fetcher)
	}

	pool := processor.NewWorkerPool(cfg.MaxWorkers)
	pool.Start()

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	svc := service.NewNormalizationService(repo, components.ProcessorFactory, pool, publisher, service.Options{
		Defaults:     cfg.Normalize,
		FetchTimeout: cfg.ImageFetchTimeout,
	})

	handler := transport.NewHandler(transport.Deps{
		Service: svc,
		Metrics: metrics,
		Pool:    pool,
		Config:  cfg,
	})

	logger.WithField("schemes", repo.Schemes()).Info("Image sources registered")

	return &Container{
		config:     cfg,
		factory:    components,
		repository: repo,
		pool:       pool,
		publisher:  publisher,
		metrics:    metrics,
		service:    svc,
		handler:    handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the normalization service
func (c *Container) Service() service.NormalizationService {
	return c.service
}

// Close stops the worker pool and flushes pending events.
func (c *Container) Close() {
	c.pool.Close()
	c.publisher.Wait()
}
