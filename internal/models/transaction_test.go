package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionFields(t *testing.T) {
	tx := Transaction{
		FieldTransactionID: "tx-001",
		FieldDescription:   "TESCO STORES 3297",
		FieldAmount:        12.5,
		FieldCurrency:      "GBP",
		FieldType:          "DEBIT",
		FieldCategory:      "PURCHASE",
	}

	assert.Equal(t, "tx-001", tx.ID())
	assert.Equal(t, "TESCO STORES 3297", tx.Description())
	assert.Equal(t, "GBP", tx.Currency())
	assert.Equal(t, "DEBIT", tx.Type())
	assert.Equal(t, "PURCHASE", tx.Category())
}

func TestTransactionFieldMissing(t *testing.T) {
	tx := Transaction{}
	assert.Equal(t, "", tx.ID())
	assert.Equal(t, "", tx.Field("no_such_field"))
}

func TestTransactionAmount(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"float", 12.5, "12.5"},
		{"int", 42, "42"},
		{"int64", int64(7), "7"},
		{"string", "99.99", "99.99"},
		{"unparsable string", "n/a", "0"},
		{"missing", nil, "0"},
		{"wrong type", []string{"x"}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Transaction{}
			if tt.value != nil {
				tx[FieldAmount] = tt.value
			}
			assert.True(t, tx.Amount().Equal(decimal.RequireFromString(tt.expected)),
				"got %s", tx.Amount())
		})
	}
}

func TestTransactionClone(t *testing.T) {
	tx := Transaction{
		FieldTransactionID: "tx-001",
		FieldDescription:   "COFFEE SHOP",
	}

	clone := tx.Clone()
	clone[FieldDescription] = "CHANGED"
	clone["extra"] = "value"

	assert.Equal(t, "COFFEE SHOP", tx.Description())
	assert.NotContains(t, tx, "extra")
}

func TestCollectionUnmarshal(t *testing.T) {
	raw := `{"results":[{"transaction_id":"tx-1","amount":5},{"transaction_id":"tx-2"}],"status":"Succeeded"}`

	var col Collection
	require.NoError(t, json.Unmarshal([]byte(raw), &col))
	assert.Equal(t, "Succeeded", col.Status)
	require.Len(t, col.Results, 2)
	assert.Equal(t, "tx-1", col.Results[0].ID())
	// Unknown shape is tolerated: every field survives the round trip
	assert.Equal(t, float64(5), col.Results[0][FieldAmount])
}
