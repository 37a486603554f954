package enricher

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/txnlens/txnlens/internal/enricherror"
	"github.com/txnlens/txnlens/internal/logging"
	"github.com/txnlens/txnlens/internal/models"
)

// EnrichAll categorizes every transaction concurrently in batches of at most
// batchSize. Output order matches input order, and because Enrich contains
// its own failures the result always has one record per input record.
func (e *Enricher) EnrichAll(ctx context.Context, txs []models.Transaction, batchSize int) []models.Transaction {
	if len(txs) == 0 {
		return []models.Transaction{}
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	runID := uuid.New().String()
	e.logger.Info("Starting batch enrichment",
		logging.Field{Key: logging.FieldRunID, Value: runID},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})

	results := make([]models.Transaction, len(txs))
	for start := 0; start < len(txs); start += batchSize {
		end := start + batchSize
		if end > len(txs) {
			end = len(txs)
		}
		e.logger.Debug("Processing batch",
			logging.Field{Key: logging.FieldRunID, Value: runID},
			logging.Field{Key: logging.FieldBatch, Value: start / batchSize},
			logging.Field{Key: logging.FieldCount, Value: end - start})

		var wg sync.WaitGroup
		for i, tx := range txs[start:end] {
			wg.Add(1)
			go func(idx int, tx models.Transaction) {
				defer wg.Done()
				results[idx] = e.Enrich(ctx, tx)
			}(start+i, tx)
		}
		wg.Wait()
	}

	e.logger.Info("Batch enrichment complete",
		logging.Field{Key: logging.FieldRunID, Value: runID},
		logging.Field{Key: logging.FieldCount, Value: len(results)})
	return results
}

// EnrichAllChunked sends transactions to the model in whole chunks of at
// most chunkSize, asking it to enrich each chunk in a single call. Unlike
// the per-item path, a chunk that fails outright aborts the run: the caller
// receives a BatchFailureError identifying the chunk. Items the model drops
// from an otherwise valid response still get the fallback categorization.
func (e *Enricher) EnrichAllChunked(ctx context.Context, txs []models.Transaction, chunkSize int) ([]models.Transaction, error) {
	if len(txs) == 0 {
		return []models.Transaction{}, nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if e.client == nil {
		return e.EnrichAll(ctx, txs, DefaultBatchSize), nil
	}

	runID := uuid.New().String()
	totalChunks := (len(txs) + chunkSize - 1) / chunkSize
	e.logger.Info("Starting chunked enrichment",
		logging.Field{Key: logging.FieldRunID, Value: runID},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: logging.FieldChunk, Value: totalChunks})

	results := make([]models.Transaction, 0, len(txs))
	for ci := 0; ci < totalChunks; ci++ {
		start := ci * chunkSize
		end := start + chunkSize
		if end > len(txs) {
			end = len(txs)
		}
		chunk := txs[start:end]

		enriched, err := e.enrichChunk(ctx, chunk, ci+1, totalChunks)
		if err != nil {
			e.logger.WithError(err).Error("Chunk enrichment failed",
				logging.Field{Key: logging.FieldRunID, Value: runID},
				logging.Field{Key: logging.FieldChunk, Value: ci + 1})
			return nil, &enricherror.BatchFailureError{
				Chunk: ci + 1,
				Total: totalChunks,
				Size:  len(chunk),
				Err:   err,
			}
		}
		results = append(results, enriched...)
	}

	e.logger.Info("Chunked enrichment complete",
		logging.Field{Key: logging.FieldRunID, Value: runID},
		logging.Field{Key: logging.FieldCount, Value: len(results)})
	return results, nil
}

// enrichChunk runs one model call for a chunk and merges the returned
// records back onto the originals.
func (e *Enricher) enrichChunk(ctx context.Context, chunk []models.Transaction, chunkNumber, totalChunks int) ([]models.Transaction, error) {
	system, user := e.prompts.Chunk(chunk, chunkNumber, totalChunks)
	raw, err := e.client.Complete(ctx, CompletionRequest{
		System:          system,
		User:            user,
		MaxOutputTokens: e.opts.MaxTokensChunk,
	})
	if err != nil {
		return nil, err
	}
	returned, err := ParseChunk(raw)
	if err != nil {
		return nil, err
	}
	return e.mergeChunk(chunk, returned), nil
}

// mergeChunk maps model-returned records back onto the original transactions
// by transaction ID. Only the three categorization fields are taken from the
// model output, so fields the model mangled or dropped are preserved from
// the originals. Originals missing from the model output fall back to the
// reference-table categorization.
func (e *Enricher) mergeChunk(chunk, returned []models.Transaction) []models.Transaction {
	byID := make(map[string]models.Transaction, len(returned))
	for _, r := range returned {
		if id := r.ID(); id != "" {
			byID[id] = r
		}
	}

	out := make([]models.Transaction, len(chunk))
	for i, tx := range chunk {
		enh := e.table.Enhance(tx)
		r, ok := byID[tx.ID()]
		if !ok {
			e.logger.Warn("Transaction missing from chunk response, using fallback",
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID()})
			out[i] = fallbackEnrichment(enh).Apply(tx)
			continue
		}
		result := models.ModelResult{
			TransactionID:     tx.ID(),
			GeneralCategory:   r.Field(models.FieldGeneralCategory),
			SubCategory:       r.Field(models.FieldSubCategory),
			DomainDescription: r.Field(models.FieldDomainDescription),
		}
		out[i] = mergedEnrichment(result, enh).Apply(tx)
	}
	return out
}
