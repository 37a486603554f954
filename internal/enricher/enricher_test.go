package enricher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txnlens/txnlens/internal/logging"
	"github.com/txnlens/txnlens/internal/models"
	"github.com/txnlens/txnlens/internal/reftable"
)

// MockAIClient is a mock implementation of AIClient for testing. It is safe
// for concurrent use so batch tests can exercise the fan-out path.
type MockAIClient struct {
	CompleteFunc func(ctx context.Context, req CompletionRequest) (string, error)

	mu          sync.Mutex
	callCount   int
	lastRequest CompletionRequest
}

func (m *MockAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastRequest = req
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return `{"generalCategory":"Shopping","subCategory":"Shopping → Retail","domainDescription":"Mock categorization."}`, nil
}

func (m *MockAIClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *MockAIClient) LastRequest() CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// tableWith builds a reference table from CSV rows (without header).
func tableWith(t *testing.T, rows string) *reftable.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.csv")
	content := "category,subcategory,allowable_status,guidance_prompt,background_action\n" + rows
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return reftable.New(path, "", logging.NewMockLogger())
}

func testTx(id string) models.Transaction {
	return models.Transaction{
		models.FieldTransactionID: id,
		models.FieldDescription:   "TESCO STORES 3297",
		models.FieldAmount:        12.5,
		models.FieldCurrency:      "GBP",
		models.FieldType:          "DEBIT",
		models.FieldCategory:      "PURCHASE",
	}
}

func TestEnrichUsesModelResult(t *testing.T) {
	client := &MockAIClient{
		CompleteFunc: func(ctx context.Context, req CompletionRequest) (string, error) {
			return `{"transaction_id":"tx-1","generalCategory":"Food & Dining","subCategory":"Food & Dining → Groceries","domainDescription":"Grocery purchase at Tesco."}`, nil
		},
	}
	e := New(client, nil, logging.NewMockLogger(), Options{})

	out := e.Enrich(context.Background(), testTx("tx-1"))

	assert.Equal(t, "Food & Dining", out[models.FieldGeneralCategory])
	assert.Equal(t, "Food & Dining → Groceries", out[models.FieldSubCategory])
	assert.Equal(t, "Grocery purchase at Tesco.", out[models.FieldDomainDescription])
	// Original fields survive
	assert.Equal(t, "TESCO STORES 3297", out.Description())
	assert.Equal(t, 12.5, out[models.FieldAmount])
}

func TestEnrichFailureFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name   string
		client *MockAIClient
	}{
		{
			name: "call error",
			client: &MockAIClient{CompleteFunc: func(ctx context.Context, req CompletionRequest) (string, error) {
				return "", errors.New("model unavailable")
			}},
		},
		{
			name: "unusable response",
			client: &MockAIClient{CompleteFunc: func(ctx context.Context, req CompletionRequest) (string, error) {
				return "I am sorry, I cannot help with that.", nil
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewMockLogger()
			e := New(tt.client, nil, logger, Options{})

			out := e.Enrich(context.Background(), testTx("tx-1"))

			assert.Equal(t, models.DefaultGeneralCategory, out[models.FieldGeneralCategory])
			assert.Equal(t, models.DefaultSubCategory, out[models.FieldSubCategory])
			assert.Equal(t, models.DefaultDomainDescription, out[models.FieldDomainDescription])
			assert.Equal(t, "TESCO STORES 3297", out.Description())
		})
	}
}

func TestEnrichFailureFallsBackToReferenceTable(t *testing.T) {
	table := tableWith(t, "PURCHASE,Shopping → Retail,Allowed,Standard retail purchase.,none\n")
	client := &MockAIClient{CompleteFunc: func(ctx context.Context, req CompletionRequest) (string, error) {
		return "", errors.New("model unavailable")
	}}
	e := New(client, table, logging.NewMockLogger(), Options{})

	out := e.Enrich(context.Background(), testTx("tx-1"))

	assert.Equal(t, "PURCHASE", out[models.FieldGeneralCategory])
	assert.Equal(t, "Shopping → Retail", out[models.FieldSubCategory])
	assert.Equal(t, models.DefaultDomainDescription, out[models.FieldDomainDescription])
	assert.Equal(t, "PURCHASE", out[models.FieldReferenceCategory])
	assert.Equal(t, "Allowed", out[models.FieldAllowableStatus])
}

func TestEnrichPartialModelResultMergesPerField(t *testing.T) {
	table := tableWith(t, "PURCHASE,Shopping → Retail,Allowed,,\n")
	client := &MockAIClient{CompleteFunc: func(ctx context.Context, req CompletionRequest) (string, error) {
		// Model picked a bucket but no subcategory or description
		return `{"generalCategory":"Shopping"}`, nil
	}}
	e := New(client, table, logging.NewMockLogger(), Options{})

	out := e.Enrich(context.Background(), testTx("tx-1"))

	assert.Equal(t, "Shopping", out[models.FieldGeneralCategory])
	assert.Equal(t, "Shopping → Retail", out[models.FieldSubCategory])
	assert.Equal(t, "Transaction categorized.", out[models.FieldDomainDescription])
}

func TestEnrichNilClientUsesFallback(t *testing.T) {
	e := New(nil, nil, logging.NewMockLogger(), Options{})

	out := e.Enrich(context.Background(), testTx("tx-1"))

	assert.Equal(t, models.DefaultGeneralCategory, out[models.FieldGeneralCategory])
	assert.Equal(t, models.DefaultSubCategory, out[models.FieldSubCategory])
}

func TestEnrichSendsSingleTokenBudget(t *testing.T) {
	client := &MockAIClient{}
	e := New(client, nil, logging.NewMockLogger(), Options{MaxTokensSingle: 333})

	e.Enrich(context.Background(), testTx("tx-1"))

	assert.Equal(t, 1, client.Calls())
	assert.Equal(t, 333, client.LastRequest().MaxOutputTokens)
}
