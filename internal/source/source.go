// Package source reads and writes transaction collections from disk.
package source

import (
	"encoding/json"
	"os"

	"github.com/txnlens/txnlens/internal/enricherror"
	"github.com/txnlens/txnlens/internal/models"
)

// Load reads a transaction collection from the JSON file at path. A missing
// or unreadable file, or invalid JSON, yields a SourceUnavailableError that
// wraps the underlying cause. A missing status defaults to "Succeeded" and a
// missing results array to an empty slice, so callers never see nils.
func Load(path string) (models.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Collection{}, &enricherror.SourceUnavailableError{Path: path, Err: err}
	}

	var col models.Collection
	if err := json.Unmarshal(data, &col); err != nil {
		return models.Collection{}, &enricherror.SourceUnavailableError{Path: path, Err: err}
	}
	if col.Status == "" {
		col.Status = "Succeeded"
	}
	if col.Results == nil {
		col.Results = []models.Transaction{}
	}
	return col, nil
}

// Save writes a collection as indented JSON to path.
func Save(path string, col models.Collection) error {
	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
