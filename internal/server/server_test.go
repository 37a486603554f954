package server

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txnlens/txnlens/internal/config"
	"github.com/txnlens/txnlens/internal/enricher"
	"github.com/txnlens/txnlens/internal/logging"
	"github.com/txnlens/txnlens/internal/models"
)

func testConfig(sourcePath string) *config.Config {
	cfg := &config.Config{}
	cfg.Source.Path = sourcePath
	cfg.Enrich.Mode = config.ModeItem
	cfg.Enrich.BatchSize = 10
	cfg.Enrich.ChunkSize = 5
	cfg.Server.Port = 8080
	return cfg
}

// newTestServer wires a server with no AI client: every transaction takes
// the deterministic fallback path.
func newTestServer(sourcePath string) *Server {
	logger := logging.NewMockLogger()
	enr := enricher.New(nil, nil, logger, enricher.Options{})
	return New(enr, testConfig(sourcePath), logger)
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "response.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer("unused.json")

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestCategorizeEndpoint(t *testing.T) {
	path := writeSource(t, `{"results":[
		{"transaction_id":"tx-1","description":"TESCO STORES 3297","amount":12.5,"currency":"GBP","transaction_type":"DEBIT"},
		{"transaction_id":"tx-2","description":"SALARY","amount":2000,"currency":"GBP","transaction_type":"CREDIT"}
	],"status":"Succeeded"}`)
	srv := newTestServer(path)

	resp, err := srv.App().Test(httptest.NewRequest("POST", "/api/categorize", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var body CategorizeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Succeeded", body.Status)
	assert.Empty(t, body.Error)
	require.Len(t, body.Results, 2)

	for _, tx := range body.Results {
		assert.NotEmpty(t, tx[models.FieldGeneralCategory])
		assert.NotEmpty(t, tx[models.FieldSubCategory])
		assert.NotEmpty(t, tx[models.FieldDomainDescription])
	}
	// Original fields come back untouched
	assert.Equal(t, "tx-1", body.Results[0].ID())
	assert.Equal(t, "TESCO STORES 3297", body.Results[0].Description())
	assert.Equal(t, float64(2000), body.Results[1][models.FieldAmount])
}

func TestCategorizeEndpointEmptySource(t *testing.T) {
	path := writeSource(t, `{"results":[],"status":"Succeeded"}`)
	srv := newTestServer(path)

	resp, err := srv.App().Test(httptest.NewRequest("POST", "/api/categorize", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var body CategorizeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.Results)
	assert.Empty(t, body.Results)
	assert.Equal(t, "Succeeded", body.Status)
}

func TestCategorizeEndpointMissingSource(t *testing.T) {
	srv := newTestServer(filepath.Join(t.TempDir(), "absent.json"))

	resp, err := srv.App().Test(httptest.NewRequest("POST", "/api/categorize", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 404, resp.StatusCode)

	var body CategorizeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Failed", body.Status)
	assert.NotEmpty(t, body.Error)
}

func TestCategorizeEndpointCorruptSource(t *testing.T) {
	path := writeSource(t, "{broken")
	srv := newTestServer(path)

	resp, err := srv.App().Test(httptest.NewRequest("POST", "/api/categorize", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 500, resp.StatusCode)
}

func TestCategorizeEndpointChunkMode(t *testing.T) {
	path := writeSource(t, `{"results":[{"transaction_id":"tx-1","description":"COFFEE"}],"status":"Succeeded"}`)
	cfg := testConfig(path)
	cfg.Enrich.Mode = config.ModeChunk

	logger := logging.NewMockLogger()
	srv := New(enricher.New(nil, nil, logger, enricher.Options{}), cfg, logger)

	resp, err := srv.App().Test(httptest.NewRequest("POST", "/api/categorize", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var body CategorizeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, models.DefaultGeneralCategory, body.Results[0][models.FieldGeneralCategory])
}
