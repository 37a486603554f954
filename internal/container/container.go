// Package container provides dependency injection for the txnlens
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"github.com/txnlens/txnlens/internal/config"
	"github.com/txnlens/txnlens/internal/enricher"
	"github.com/txnlens/txnlens/internal/logging"
	"github.com/txnlens/txnlens/internal/reftable"
)

// Container holds all application dependencies and provides methods to
// access them.
//
// Container is immutable after creation - all fields are private and can
// only be accessed through getter methods. This prevents accidental
// modification of dependencies after initialization.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	table    *reftable.Table
	aiClient enricher.AIClient
	enricher *enricher.Enricher
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	table := reftable.New(cfg.Reference.TablePath, cfg.Reference.BucketsPath, logger)

	// Create AI client (if enabled)
	var aiClient enricher.AIClient
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		client, err := enricher.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Temperature, logger)
		if err != nil {
			return nil, fmt.Errorf("creating AI client: %w", err)
		}
		aiClient = client
		logger.Info("AI categorization enabled",
			logging.Field{Key: logging.FieldModel, Value: cfg.AI.Model})
	} else {
		logger.Info("AI categorization disabled")
	}

	enr := enricher.New(aiClient, table, logger, enricher.Options{
		MaxTokensSingle: cfg.AI.MaxTokensSingle,
		MaxTokensChunk:  cfg.AI.MaxTokensChunk,
	})

	logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldCount, Value: table.Len()},
		logging.Field{Key: "ai_enabled", Value: cfg.AI.Enabled})

	return &Container{
		logger:   logger,
		config:   cfg,
		table:    table,
		aiClient: aiClient,
		enricher: enr,
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

// GetTable returns the container's reference table instance.
func (c *Container) GetTable() *reftable.Table {
	return c.table
}

// GetEnricher returns the container's enricher instance.
func (c *Container) GetEnricher() *enricher.Enricher {
	return c.enricher
}

// GetAIClient returns the container's AI client instance.
// Returns nil if AI is not enabled.
func (c *Container) GetAIClient() enricher.AIClient {
	return c.aiClient
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	if client, ok := c.aiClient.(*enricher.GeminiClient); ok && client != nil {
		if err := client.Close(); err != nil {
			return err
		}
	}
	c.logger.Info("Container closed")
	return nil
}
