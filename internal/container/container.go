// Package container provides dependency injection for the quiz-extract application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"oposiciones/quiz-extract/internal/classifier"
	"oposiciones/quiz-extract/internal/config"
	"oposiciones/quiz-extract/internal/logging"
	"oposiciones/quiz-extract/internal/models"
	"oposiciones/quiz-extract/internal/pdftext"
	"oposiciones/quiz-extract/internal/report"
	"oposiciones/quiz-extract/internal/sqlitestore"
	"oposiciones/quiz-extract/internal/topic"

	"github.com/google/uuid"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	runID      string
	extractor  pdftext.PDFExtractor
	classifier *classifier.Classifier
	processor  *topic.Processor
	reporter   *report.ReportGenerator
	store      *sqlitestore.Store
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWith(cfg, config.NewLoggerFromConfig(cfg), nil)
}

// NewContainerWith wires the container around an existing logger. A nil
// extractor is built from cfg.Extraction.Extractor.
func NewContainerWith(cfg *config.Config, logger logging.Logger, extractor pdftext.PDFExtractor) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	runID := uuid.NewString()
	logger = logger.WithField(logging.FieldRunID, runID)

	if extractor == nil {
		var err error
		extractor, err = pdftext.NewExtractor(cfg.Extraction.Extractor)
		if err != nil {
			return nil, err
		}
	}

	rules, err := classifier.LoadRules(cfg.Classifier.RulesFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier rules: %w", err)
	}
	cls := classifier.New(logger, rules...)

	processor := topic.NewProcessor(logger, extractor, cls, topic.Options{
		BaseDir:   cfg.Extraction.BaseDir,
		OutputDir: cfg.Extraction.OutputDir,
		Workers:   cfg.Extraction.Workers,
	})

	var store *sqlitestore.Store
	if cfg.Output.SQLitePath != "" {
		store, err = sqlitestore.Open(cfg.Output.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open question bank %s: %w", cfg.Output.SQLitePath, err)
		}
		processor.AddSink(store.ForRun(runID))
	}

	reporter := report.NewReportGenerator(logger)
	reporter.RunID = runID

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldExtractor, extractor.Name()),
		logging.F(logging.FieldCount, len(rules)),
		logging.F(logging.FieldWorkers, cfg.Extraction.Workers))

	return &Container{
		logger:     logger,
		config:     cfg,
		runID:      runID,
		extractor:  extractor,
		classifier: cls,
		processor:  processor,
		reporter:   reporter,
		store:      store,
	}, nil
}

// Run processes temas through the processor and feeds the optional sinks:
// the question bank is updated only on normal runs, the run report is
// written whenever a report path is configured.
func (c *Container) Run(ctx context.Context, temas []int, dryRun bool) (*models.RunSummary, error) {
	record := c.store != nil && !dryRun
	if record {
		if err := c.store.BeginRun(ctx, c.runID, time.Now()); err != nil {
			c.logger.WithError(err).Error("Failed to record run start")
			record = false
		}
	}

	summary, runErr := c.processor.Run(ctx, temas, dryRun)

	if record && summary != nil {
		if err := c.store.FinishRun(ctx, c.runID, summary, time.Now()); err != nil {
			c.logger.WithError(err).Error("Failed to record run summary")
		}
	}

	if path := c.config.Output.ReportPath; path != "" && summary != nil {
		if err := c.reporter.WriteReport(path, summary, dryRun); err != nil {
			c.logger.WithError(err).Error("Failed to write run report")
			if runErr == nil {
				runErr = err
			}
		}
	}

	return summary, runErr
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRunID returns the identifier attached to every log entry of this run.
func (c *Container) GetRunID() string {
	return c.runID
}

// GetExtractor returns the PDF extractor.
func (c *Container) GetExtractor() pdftext.PDFExtractor {
	return c.extractor
}

// GetClassifier returns the classifier with any rules file applied.
func (c *Container) GetClassifier() *classifier.Classifier {
	return c.classifier
}

// GetProcessor returns the topic processor.
func (c *Container) GetProcessor() *topic.Processor {
	return c.processor
}

// GetReporter returns the run report generator.
func (c *Container) GetReporter() *report.ReportGenerator {
	return c.reporter
}

// GetStore returns the question bank, or nil when none is configured.
func (c *Container) GetStore() *sqlitestore.Store {
	return c.store
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			return fmt.Errorf("failed to close question bank: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
