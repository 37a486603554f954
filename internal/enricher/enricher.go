// Package enricher implements the transaction enrichment pipeline: prompt
// construction, the categorization model call, response parsing, and the
// merge of categorization metadata back onto the original records.
//
// The pipeline is deliberately forgiving. A failed model call, an empty
// response, or unparsable output never loses a transaction: the item falls
// back to the reference-table categorization, and failing that to the hard
// "General" default. The caller always gets back exactly one output record
// per input record.
package enricher

import (
	"context"

	"github.com/txnlens/txnlens/internal/logging"
	"github.com/txnlens/txnlens/internal/models"
	"github.com/txnlens/txnlens/internal/reftable"
)

// Default sizes for the two orchestration modes.
const (
	DefaultBatchSize = 80
	DefaultChunkSize = 20

	// successDescription is used when the model categorized a transaction
	// but returned no description of its own.
	successDescription = "Transaction categorized."
)

// Options tunes the per-call token budgets.
type Options struct {
	MaxTokensSingle int
	MaxTokensChunk  int
}

// Enricher orchestrates categorization for single transactions and batches.
// All dependencies are injected; a nil AIClient disables model calls and
// every transaction receives the reference-table or default fallback.
type Enricher struct {
	client  AIClient
	table   *reftable.Table
	prompts *PromptBuilder
	logger  logging.Logger
	opts    Options
}

// New creates an Enricher with the given AIClient, reference table and logger.
func New(client AIClient, table *reftable.Table, logger logging.Logger, opts Options) *Enricher {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if table == nil {
		table = reftable.New("", "", logger)
	}
	if opts.MaxTokensSingle <= 0 {
		opts.MaxTokensSingle = 200
	}
	if opts.MaxTokensChunk <= 0 {
		opts.MaxTokensChunk = 500
	}
	return &Enricher{
		client:  client,
		table:   table,
		prompts: NewPromptBuilder(table),
		logger:  logger,
		opts:    opts,
	}
}

// Enrich categorizes one transaction and returns it merged with the
// enrichment metadata. It never returns an error: any failure is logged and
// the transaction falls back to reference-table or default categorization,
// so one bad item cannot abort its siblings.
func (e *Enricher) Enrich(ctx context.Context, tx models.Transaction) models.Transaction {
	enh := e.table.Enhance(tx)

	if e.client == nil {
		return fallbackEnrichment(enh).Apply(tx)
	}

	system, user := e.prompts.Single(tx, enh)
	raw, err := e.client.Complete(ctx, CompletionRequest{
		System:          system,
		User:            user,
		MaxOutputTokens: e.opts.MaxTokensSingle,
	})
	if err != nil {
		e.logger.WithError(err).Warn("Categorization call failed, using fallback",
			logging.Field{Key: logging.FieldTransactionID, Value: tx.ID()})
		return fallbackEnrichment(enh).Apply(tx)
	}

	result, err := ParseSingle(raw)
	if err != nil {
		e.logger.WithError(err).Warn("Categorization response unusable, using fallback",
			logging.Field{Key: logging.FieldTransactionID, Value: tx.ID()})
		return fallbackEnrichment(enh).Apply(tx)
	}

	e.logger.Debug("Transaction categorized",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID()},
		logging.Field{Key: logging.FieldCategory, Value: result.GeneralCategory},
		logging.Field{Key: logging.FieldSubCategory, Value: result.SubCategory})
	return mergedEnrichment(result, enh).Apply(tx)
}

// mergedEnrichment prefers the model's fields, falling back per field to the
// reference table and finally to the hard defaults.
func mergedEnrichment(result models.ModelResult, enh reftable.Enhancement) models.Enrichment {
	return models.Enrichment{
		GeneralCategory:      firstNonEmpty(result.GeneralCategory, enh.Category, models.DefaultGeneralCategory),
		SubCategory:          firstNonEmpty(result.SubCategory, enh.Subcategory, models.DefaultSubCategory),
		DomainDescription:    firstNonEmpty(result.DomainDescription, successDescription),
		ReferenceCategory:    enh.Category,
		ReferenceSubcategory: enh.Subcategory,
		AllowableStatus:      enh.Status,
		GuidancePrompt:       enh.Guidance,
		BackgroundAction:     enh.Action,
	}
}

// fallbackEnrichment is the categorization applied when the model produced
// nothing usable for an item.
func fallbackEnrichment(enh reftable.Enhancement) models.Enrichment {
	return models.Enrichment{
		GeneralCategory:      firstNonEmpty(enh.Category, models.DefaultGeneralCategory),
		SubCategory:          firstNonEmpty(enh.Subcategory, models.DefaultSubCategory),
		DomainDescription:    models.DefaultDomainDescription,
		ReferenceCategory:    enh.Category,
		ReferenceSubcategory: enh.Subcategory,
		AllowableStatus:      enh.Status,
		GuidancePrompt:       enh.Guidance,
		BackgroundAction:     enh.Action,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
