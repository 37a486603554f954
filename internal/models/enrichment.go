package models

// Enrichment field names added to a transaction by the enrichment pipeline.
const (
	FieldGeneralCategory   = "generalCategory"
	FieldSubCategory       = "subCategory"
	FieldDomainDescription = "domainDescription"

	FieldReferenceCategory    = "referenceCategory"
	FieldReferenceSubcategory = "referenceSubcategory"
	FieldAllowableStatus      = "allowableStatus"
	FieldGuidancePrompt       = "guidancePrompt"
	FieldBackgroundAction     = "backgroundAction"
)

// Defaults applied when categorization fails or is low-confidence.
const (
	DefaultGeneralCategory   = "General"
	DefaultSubCategory       = "General → Miscellaneous"
	DefaultDomainDescription = "Unable to categorize transaction."

	// StatusReview marks transactions whose allowability needs manual review.
	StatusReview = "Review"
)

// Enrichment holds the categorization metadata merged onto a transaction.
// The first three fields are always present on the output; the reference
// fields are attached when the reference table was consulted.
type Enrichment struct {
	GeneralCategory   string `json:"generalCategory"`
	SubCategory       string `json:"subCategory"`
	DomainDescription string `json:"domainDescription"`

	ReferenceCategory    string `json:"referenceCategory,omitempty"`
	ReferenceSubcategory string `json:"referenceSubcategory,omitempty"`
	AllowableStatus      string `json:"allowableStatus,omitempty"`
	GuidancePrompt       string `json:"guidancePrompt,omitempty"`
	BackgroundAction     string `json:"backgroundAction,omitempty"`
}

// DefaultEnrichment returns the hard fallback used when neither the model nor
// the reference table produced anything useful.
func DefaultEnrichment() Enrichment {
	return Enrichment{
		GeneralCategory:   DefaultGeneralCategory,
		SubCategory:       DefaultSubCategory,
		DomainDescription: DefaultDomainDescription,
	}
}

// Apply merges the enrichment onto a clone of the transaction and returns the
// clone. Every original field is preserved; the three required additions are
// always set, the reference additions only when non-empty.
func (e Enrichment) Apply(tx Transaction) Transaction {
	out := tx.Clone()
	out[FieldGeneralCategory] = e.GeneralCategory
	out[FieldSubCategory] = e.SubCategory
	out[FieldDomainDescription] = e.DomainDescription

	setIfPresent(out, FieldReferenceCategory, e.ReferenceCategory)
	setIfPresent(out, FieldReferenceSubcategory, e.ReferenceSubcategory)
	setIfPresent(out, FieldAllowableStatus, e.AllowableStatus)
	setIfPresent(out, FieldGuidancePrompt, e.GuidancePrompt)
	setIfPresent(out, FieldBackgroundAction, e.BackgroundAction)
	return out
}

func setIfPresent(tx Transaction, key, value string) {
	if value != "" {
		tx[key] = value
	}
}

// ModelResult is the object shape the model must return in single-item mode.
type ModelResult struct {
	TransactionID     string `json:"transaction_id"`
	GeneralCategory   string `json:"generalCategory"`
	SubCategory       string `json:"subCategory"`
	DomainDescription string `json:"domainDescription"`
}
