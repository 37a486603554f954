package reftable

import (
	"os"

	"github.com/txnlens/txnlens/internal/logging"

	"gopkg.in/yaml.v3"
)

// defaultBuckets is the closed set of top-level general categories the model
// is allowed to choose from.
var defaultBuckets = []string{
	"Income",
	"Shopping",
	"Entertainment",
	"Food & Dining",
	"Transportation",
	"Utilities",
	"Health",
	"Savings",
	"Investments",
	"Personal Care",
	"Travel",
	"Business",
	"Education",
	"Gifts & Donations",
	"Miscellaneous",
}

type bucketsFile struct {
	Buckets []string `yaml:"buckets"`
}

// loadBuckets reads the bucket list from an optional YAML file. A missing or
// invalid file falls back to the compiled-in defaults.
func loadBuckets(path string, logger logging.Logger) []string {
	if path == "" {
		return defaultBuckets
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.WithError(err).Debug("Bucket file not readable, using default buckets")
		return defaultBuckets
	}

	var parsed bucketsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		logger.WithError(err).Warn("Bucket file not parsable, using default buckets")
		return defaultBuckets
	}
	if len(parsed.Buckets) == 0 {
		return defaultBuckets
	}
	return parsed.Buckets
}

// Buckets returns the closed set of allowed general categories.
func (t *Table) Buckets() []string {
	return t.buckets
}
