package enricher

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/txnlens/txnlens/internal/models"
	"github.com/txnlens/txnlens/internal/reftable"
)

// singleSystemPrompt instructs the model for one-transaction calls.
const singleSystemPrompt = "You are a financial transaction categorization expert. " +
	"Use the reference data to guide your categorization decisions. " +
	"Respond with valid JSON only."

// chunkSystemPrompt instructs the model for whole-chunk calls. The model
// receives a {"results": [...]} object and must return the same shape with
// three fields appended to every transaction.
const chunkSystemPrompt = `You are an assistant that enriches a JSON object of bank transactions with categorization metadata.

The input has the shape {"results": [ ...transactions... ], "status": "..."}.

For each object in "results", append exactly three new fields:
- "generalCategory" (one of your top-level buckets)
- "subCategory" (a more specific slice under that bucket)
- "domainDescription" (1-2 sentences describing the merchant/domain)

Preserve every existing field on each transaction and leave the outer "status" untouched.

If you cannot confidently pick a subCategory, set:
- "generalCategory": "General"
- "subCategory": "General → Miscellaneous"

Output the modified JSON object in the same shape. Output raw JSON only, with no markdown fences and no other top-level keys.`

// promptPayload is the compact transaction view embedded in single-item
// prompts. Only the six well-known fields are sent, never the full opaque
// record, to bound payload size.
type promptPayload struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

// PromptBuilder constructs the instruction strings sent to the model.
type PromptBuilder struct {
	table *reftable.Table
}

// NewPromptBuilder creates a PromptBuilder backed by the reference table.
func NewPromptBuilder(table *reftable.Table) *PromptBuilder {
	return &PromptBuilder{table: table}
}

// Single builds the system and user prompts for one transaction. Reference
// hints are embedded when the table produced an enhancement.
func (p *PromptBuilder) Single(tx models.Transaction, enh reftable.Enhancement) (string, string) {
	payload := promptPayload{
		ID:          tx.ID(),
		Description: tx.Description(),
		Amount:      tx.Amount().String(),
		Currency:    tx.Currency(),
		Type:        tx.Type(),
		Category:    tx.Category(),
	}
	payloadJSON, _ := json.MarshalIndent(payload, "", "  ")

	var b strings.Builder
	b.WriteString("Categorize this bank transaction with these fields:\n")
	fmt.Fprintf(&b, "- generalCategory (one of: %s)\n", strings.Join(p.table.Buckets(), ", "))
	b.WriteString("- subCategory (a specific category under the general category)\n")
	b.WriteString("- domainDescription (1-2 sentences about the transaction)\n")

	if p.table.Len() > 0 {
		b.WriteString("\nUse the reference table data to guide your categorization:\n")
		fmt.Fprintf(&b, "- Upstream category: %s\n", tx.Category())
		fmt.Fprintf(&b, "- Known category codes: %s\n", strings.Join(p.table.AllCategories(), ", "))
		if len(enh.AvailableSubcategories) > 0 {
			fmt.Fprintf(&b, "- Suggested subcategories: %s\n", strings.Join(enh.AvailableSubcategories, ", "))
		}
		fmt.Fprintf(&b, "- Allowable status: %s\n", enh.Status)
		if enh.Guidance != "" {
			fmt.Fprintf(&b, "- Guidance: %s\n", enh.Guidance)
		}
	}

	b.WriteString("\nReturn ONLY this JSON format:\n")
	fmt.Fprintf(&b, `{
  "transaction_id": %q,
  "generalCategory": "Category",
  "subCategory": "Subcategory",
  "domainDescription": "Description"
}
`, tx.ID())
	b.WriteString("\nTransaction:\n")
	b.Write(payloadJSON)

	return singleSystemPrompt, b.String()
}

// Chunk builds the system and user prompts for a whole-chunk call. The full
// transactions are embedded so the model can echo them back enriched.
func (p *PromptBuilder) Chunk(chunk []models.Transaction, chunkNumber, totalChunks int) (string, string) {
	input, _ := json.MarshalIndent(map[string]any{"results": chunk}, "", "  ")

	var b strings.Builder
	b.WriteString("Return ONLY valid JSON in EXACTLY this shape:\n")
	b.WriteString("{\n  \"results\": [ ...enriched transactions... ]\n}\n\n")
	b.WriteString("For each transaction in \"results\", append generalCategory, subCategory and domainDescription. ")
	b.WriteString("Keep every existing field unchanged. Do not add any other top-level keys.\n\n")
	fmt.Fprintf(&b, "This is chunk %d of %d.\n\nInput:\n", chunkNumber, totalChunks)
	b.Write(input)

	return chunkSystemPrompt, b.String()
}
