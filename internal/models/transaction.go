// Package models defines the data model for transaction enrichment.
//
// A Transaction is deliberately schemaless: the upstream feed attaches
// arbitrary fields (provider IDs, classification arrays, metadata blobs) and
// every one of them must survive enrichment unchanged. Only a small set of
// well-known fields is read; everything else is carried through opaquely.
package models

import (
	"github.com/shopspring/decimal"
)

// Well-known transaction field names as they appear in the upstream feed.
const (
	FieldTransactionID = "transaction_id"
	FieldDescription   = "description"
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldType          = "transaction_type"
	FieldCategory      = "transaction_category"
)

// Transaction is an opaque upstream record. It is never mutated in place;
// enrichment clones it and adds fields to the clone.
type Transaction map[string]any

// Field returns a named field as a string, or "" when absent or not a string.
func (t Transaction) Field(key string) string {
	if v, ok := t[key].(string); ok {
		return v
	}
	return ""
}

// ID returns the stable transaction identifier.
func (t Transaction) ID() string { return t.Field(FieldTransactionID) }

// Description returns the free-text transaction description.
func (t Transaction) Description() string { return t.Field(FieldDescription) }

// Currency returns the ISO currency code.
func (t Transaction) Currency() string { return t.Field(FieldCurrency) }

// Type returns the debit/credit tag.
func (t Transaction) Type() string { return t.Field(FieldType) }

// Category returns the upstream category code (e.g. "PURCHASE").
func (t Transaction) Category() string { return t.Field(FieldCategory) }

// Amount returns the signed amount as a decimal. JSON numbers arrive as
// float64; string amounts are tolerated. Anything unparsable yields zero.
func (t Transaction) Amount() decimal.Decimal {
	switch v := t[FieldAmount].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// Clone returns a shallow copy of the transaction. Nested values are shared,
// which is safe because enrichment only ever adds top-level keys.
func (t Transaction) Clone() Transaction {
	out := make(Transaction, len(t)+8)
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Collection is the inbound/outbound envelope around a transaction list.
type Collection struct {
	Results []Transaction `json:"results"`
	Status  string        `json:"status"`
}
