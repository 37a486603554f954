package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultEnrichment(t *testing.T) {
	e := DefaultEnrichment()
	assert.Equal(t, DefaultGeneralCategory, e.GeneralCategory)
	assert.Equal(t, DefaultSubCategory, e.SubCategory)
	assert.Equal(t, DefaultDomainDescription, e.DomainDescription)
}

func TestEnrichmentApplyPreservesFields(t *testing.T) {
	tx := Transaction{
		FieldTransactionID: "tx-001",
		FieldDescription:   "TESCO STORES 3297",
		FieldAmount:        12.5,
		FieldCurrency:      "GBP",
		"merchant_ref":     "M-9912",
	}

	e := Enrichment{
		GeneralCategory:   "Food & Dining",
		SubCategory:       "Food & Dining → Groceries",
		DomainDescription: "Grocery purchase at Tesco.",
	}
	out := e.Apply(tx)

	// Original fields all survive, including ones we know nothing about
	assert.Equal(t, "tx-001", out.ID())
	assert.Equal(t, "TESCO STORES 3297", out.Description())
	assert.Equal(t, 12.5, out[FieldAmount])
	assert.Equal(t, "M-9912", out["merchant_ref"])

	assert.Equal(t, "Food & Dining", out[FieldGeneralCategory])
	assert.Equal(t, "Food & Dining → Groceries", out[FieldSubCategory])
	assert.Equal(t, "Grocery purchase at Tesco.", out[FieldDomainDescription])

	// Input is untouched
	assert.NotContains(t, tx, FieldGeneralCategory)
}

func TestEnrichmentApplyOptionalFields(t *testing.T) {
	tx := Transaction{FieldTransactionID: "tx-002"}

	withOptionals := Enrichment{
		GeneralCategory:      "Shopping",
		SubCategory:          "Shopping → Clothing",
		DomainDescription:    "Clothing purchase.",
		ReferenceCategory:    "Shopping",
		ReferenceSubcategory: "Shopping → Clothing",
		AllowableStatus:      "Allowed",
		GuidancePrompt:       "Standard retail purchase.",
		BackgroundAction:     "none",
	}
	out := withOptionals.Apply(tx)
	assert.Equal(t, "Allowed", out[FieldAllowableStatus])
	assert.Equal(t, "Standard retail purchase.", out[FieldGuidancePrompt])
	assert.Equal(t, "none", out[FieldBackgroundAction])

	// Empty optionals are not written at all
	out = DefaultEnrichment().Apply(tx)
	assert.NotContains(t, out, FieldReferenceCategory)
	assert.NotContains(t, out, FieldAllowableStatus)
	assert.NotContains(t, out, FieldGuidancePrompt)
}
