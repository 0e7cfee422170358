// Package container provides dependency injection for the divtax application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/divtax/internal/batch"
	"fjacquet/divtax/internal/config"
	"fjacquet/divtax/internal/logging"
	"fjacquet/divtax/internal/nbp"
	"fjacquet/divtax/internal/report"
	"fjacquet/divtax/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	store     *store.RateCacheStore
	rates     *nbp.Client
	processor *batch.Processor
	generator *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithLogger(cfg, nil)
}

// NewContainerWithLogger is NewContainer with a caller-supplied logger. A nil
// logger is built from the configuration.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg)
	}

	rateStore := store.NewRateCacheStore(cfg.Rates.CacheDir, logger)

	client := nbp.NewClient(nbp.Options{
		BaseURL:           cfg.Rates.BaseURL,
		Timeout:           cfg.Timeout(),
		LocalCurrency:     cfg.Rates.LocalCurrency,
		RequestsPerSecond: cfg.Rates.RequestsPerSecond,
		MemoryTTL:         cfg.MemoryTTL(),
	}, rateStore, logger)

	processor := batch.NewProcessor(client, client.LocalCurrency(), logger)
	generator := report.NewReportGenerator(logger)

	logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldCachePath, Value: cfg.Rates.CacheDir},
		logging.Field{Key: logging.FieldCurrency, Value: client.LocalCurrency()})

	return &Container{
		logger:    logger,
		config:    cfg,
		store:     rateStore,
		rates:     client,
		processor: processor,
		generator: generator,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the on-disk rate cache.
func (c *Container) GetStore() *store.RateCacheStore {
	return c.store
}

// GetRateClient returns the exchange-rate client.
func (c *Container) GetRateClient() *nbp.Client {
	return c.rates
}

// GetProcessor returns the statement processor.
func (c *Container) GetProcessor() *batch.Processor {
	return c.processor
}

// GetReportGenerator returns the ledger writer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.generator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
