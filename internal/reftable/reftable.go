// Package reftable loads the static category reference table consulted as a
// categorization hint and fallback source. The table maps upstream category
// codes (e.g. "PURCHASE") to subcategory, allowability status, guidance and
// background-action columns.
//
// The table is loaded once and is read-only for the lifetime of the process,
// so concurrent lookups need no locking. A load failure is never fatal: the
// table degrades to empty and every lookup falls back to the Review status.
package reftable

import (
	"os"
	"strings"

	"github.com/txnlens/txnlens/internal/enricherror"
	"github.com/txnlens/txnlens/internal/logging"
	"github.com/txnlens/txnlens/internal/models"

	"github.com/gocarina/gocsv"
)

// Entry is one row of the reference table CSV.
type Entry struct {
	Category         string `csv:"category"`
	Subcategory      string `csv:"subcategory"`
	AllowableStatus  string `csv:"allowable_status"`
	GuidancePrompt   string `csv:"guidance_prompt"`
	BackgroundAction string `csv:"background_action"`
}

// Enhancement is the lookup result used to seed prompts and fallbacks.
type Enhancement struct {
	Category               string
	Subcategory            string
	Status                 string
	Guidance               string
	Action                 string
	AvailableSubcategories []string
}

// Table holds the loaded reference entries.
type Table struct {
	entries []Entry
	buckets []string
	logger  logging.Logger
}

// New loads the reference table from tablePath and the general-category
// bucket list from bucketsPath. Either path may be missing or unreadable;
// the corresponding data degrades to empty (table) or compiled-in defaults
// (buckets) and the error is only logged.
func New(tablePath, bucketsPath string, logger logging.Logger) *Table {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	t := &Table{logger: logger}

	entries, err := loadEntries(tablePath)
	if err != nil {
		logger.WithError(&enricherror.TableLoadError{Path: tablePath, Err: err}).
			Warn("Reference table unavailable, lookups will fall back to Review")
	} else {
		t.entries = entries
		logger.Info("Loaded reference table",
			logging.Field{Key: logging.FieldTablePath, Value: tablePath},
			logging.Field{Key: logging.FieldCount, Value: len(entries)})
	}

	t.buckets = loadBuckets(bucketsPath, logger)
	return t
}

func loadEntries(path string) ([]Entry, error) {
	if path == "" {
		return nil, os.ErrNotExist
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	var rows []Entry
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, err
	}

	// Rows without a category code carry no lookup value.
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Category) != "" {
			entries = append(entries, row)
		}
	}
	return entries, nil
}

// Len returns the number of loaded entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// FindByCategory returns all entries whose category code contains the given
// code, case-insensitively. An unloaded table returns an empty slice.
func (t *Table) FindByCategory(code string) []Entry {
	needle := strings.ToLower(code)
	var matches []Entry
	for _, e := range t.entries {
		if strings.Contains(strings.ToLower(e.Category), needle) {
			matches = append(matches, e)
		}
	}
	return matches
}

// SubcategoriesFor returns the distinct non-empty subcategory labels for a code.
func (t *Table) SubcategoriesFor(code string) []string {
	seen := make(map[string]bool)
	var subs []string
	for _, e := range t.FindByCategory(code) {
		if e.Subcategory != "" && !seen[e.Subcategory] {
			seen[e.Subcategory] = true
			subs = append(subs, e.Subcategory)
		}
	}
	return subs
}

// AllCategories returns the distinct category codes across the whole table.
func (t *Table) AllCategories() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, e := range t.entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			codes = append(codes, e.Category)
		}
	}
	return codes
}

// matchBoth returns the first entry matching both the category code and the
// subcategory, case-insensitive substring on each.
func (t *Table) matchBoth(code, subcategory string) (Entry, bool) {
	subNeedle := strings.ToLower(subcategory)
	for _, e := range t.FindByCategory(code) {
		if strings.Contains(strings.ToLower(e.Subcategory), subNeedle) {
			return e, true
		}
	}
	return Entry{}, false
}

// AllowableStatus returns the allowability status for a code/subcategory
// pair, or Review when no entry matches.
func (t *Table) AllowableStatus(code, subcategory string) string {
	if e, ok := t.matchBoth(code, subcategory); ok {
		return e.AllowableStatus
	}
	return models.StatusReview
}

// GuidanceFor returns the guidance prompt for a code/subcategory pair, or ""
// when no entry matches.
func (t *Table) GuidanceFor(code, subcategory string) string {
	if e, ok := t.matchBoth(code, subcategory); ok {
		return e.GuidancePrompt
	}
	return ""
}

// BackgroundAction returns the follow-up action for a code/subcategory pair,
// or "" when no entry matches.
func (t *Table) BackgroundAction(code, subcategory string) string {
	if e, ok := t.matchBoth(code, subcategory); ok {
		return e.BackgroundAction
	}
	return ""
}

// Enhance resolves the reference-table enhancement for a transaction's
// upstream category code. The first matching entry wins; with no match the
// enhancement carries empty strings and the Review status.
func (t *Table) Enhance(tx models.Transaction) Enhancement {
	code := tx.Category()
	var matches []Entry
	if code != "" {
		matches = t.FindByCategory(code)
	}
	if len(matches) == 0 {
		return Enhancement{
			Status: models.StatusReview,
		}
	}

	first := matches[0]
	return Enhancement{
		Category:               first.Category,
		Subcategory:            first.Subcategory,
		Status:                 first.AllowableStatus,
		Guidance:               first.GuidancePrompt,
		Action:                 first.BackgroundAction,
		AvailableSubcategories: t.SubcategoriesFor(code),
	}
}
