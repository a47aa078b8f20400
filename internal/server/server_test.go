package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfi/tokenrisk/internal/assessor"
	"github.com/quantfi/tokenrisk/internal/config"
	"github.com/quantfi/tokenrisk/internal/gateway"
	"github.com/quantfi/tokenrisk/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testAddr = "0x00000000000000000000000000000000000000ff"

// emptyGateway returns a bare fact record so every component falls back
// to its default score.
type emptyGateway struct{}

func (emptyGateway) Fetch(ctx context.Context, address string, chain token.Chain) (*token.FactRecord, *gateway.SourceHealth) {
	return token.NewFactRecord(address, chain), &gateway.SourceHealth{Failures: map[string]string{}}
}

func testConfig() *config.Config {
	return &config.Config{
		Port:            "0",
		Env:             "development",
		LogLevel:        "error",
		EtherscanAPIKey: "test-key",
		SourceTimeout:   time.Second,
		RetryAttempts:   1,
		RetryBaseWait:   time.Millisecond,
		BatchWorkers:    2,
	}
}

func newTestServer(t *testing.T) (*Server, *assessor.MemoryStore) {
	t.Helper()
	store := assessor.NewMemoryStore()
	a := assessor.New(emptyGateway{}, store)
	srv, err := New(testConfig(), WithAssessor(a, store))
	require.NoError(t, err)
	return srv, store
}

func doRequest(srv *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	require.Len(t, health.Checks, 1)
	assert.Equal(t, "database", health.Checks[0].Name)
	assert.Equal(t, "in-memory", health.Checks[0].Detail)

	w = doRequest(srv, http.MethodGet, "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)

	// Not ready until Run has started.
	w = doRequest(srv, http.MethodGet, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tokenrisk_")
}

func TestChainsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/v1/chains")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Chains []struct {
			Chain           string  `json:"chain"`
			Platform        string  `json:"platform"`
			MinLiquidityUsd float64 `json:"minLiquidityUsd"`
		} `json:"chains"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Chains, 3)
	assert.Equal(t, "bsc", body.Chains[0].Chain)
	assert.Equal(t, float64(3_000_000), body.Chains[0].MinLiquidityUsd)
}

func TestAssessEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/v1/assess/eth/"+testAddr)
	require.Equal(t, http.StatusOK, w.Code)

	var result assessor.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "eth", result.Chain)
	assert.Equal(t, testAddr, result.Address)
	assert.Equal(t, 112.0, result.Score)
	assert.Equal(t, "High Risk", result.Category)
	assert.Empty(t, result.Error)
	assert.Nil(t, result.Facts, "facts omitted without ?verbose")

	// The assessment was persisted.
	stored, err := store.List(context.Background(), "eth", testAddr, time.Time{}, 10)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAssessEndpointVerbose(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/v1/assess/eth/"+testAddr+"?verbose=1")
	require.Equal(t, http.StatusOK, w.Code)

	var result assessor.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.Facts)
	assert.Equal(t, testAddr, result.Facts.Address)
}

func TestAssessEndpointUnsupportedChain(t *testing.T) {
	srv, _ := newTestServer(t)

	// The pipeline owns chain errors: still a 200 with the verdict.
	w := doRequest(srv, http.MethodGet, "/v1/assess/solana/"+testAddr)
	require.Equal(t, http.StatusOK, w.Code)

	var result assessor.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 150.0, result.Score)
	assert.Equal(t, "Extreme Risk", result.Category)
	assert.Equal(t, "Unsupported chain: solana", result.Error)
}

func TestAssessEndpointMalformedAddress(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/v1/assess/eth/zzz")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_address")
}

func TestHistoryEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(ctx, &assessor.Result{
			Chain:      "eth",
			Address:    testAddr,
			Score:      float64(70 + i),
			Category:   "Medium Risk",
			AssessedAt: time.Now(),
		}))
	}

	w := doRequest(srv, http.MethodGet, "/v1/assessments/eth/"+testAddr+"?limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count       int                `json:"count"`
		Assessments []*assessor.Result `json:"assessments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Assessments, 2)
	assert.Equal(t, 72.0, body.Assessments[0].Score, "most recent first")
}

func TestHistoryEndpointPagination(t *testing.T) {
	srv, store := newTestServer(t)

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, &assessor.Result{
			Chain:      "eth",
			Address:    testAddr,
			Score:      float64(i),
			Category:   "Low Risk",
			AssessedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	var page struct {
		Assessments []*assessor.Result `json:"assessments"`
		HasMore     bool               `json:"hasMore"`
		NextCursor  string             `json:"nextCursor"`
	}

	w := doRequest(srv, http.MethodGet, "/v1/assessments/eth/"+testAddr+"?limit=3")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Assessments, 3)
	assert.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)
	assert.Equal(t, 4.0, page.Assessments[0].Score)

	w = doRequest(srv, http.MethodGet, "/v1/assessments/eth/"+testAddr+"?limit=3&cursor="+page.NextCursor)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Assessments, 2)
	assert.False(t, page.HasMore)
	assert.Equal(t, 1.0, page.Assessments[0].Score)
	assert.Equal(t, 0.0, page.Assessments[1].Score)

	w = doRequest(srv, http.MethodGet, "/v1/assessments/eth/"+testAddr+"?cursor=!!!")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_cursor")
}

func TestHistoryEndpointEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/v1/assessments/eth/"+testAddr)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"assessments":[]`)
}

func TestHistoryEndpointBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/v1/assessments/solana/"+testAddr)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported_chain")

	w = doRequest(srv, http.MethodGet, "/v1/assessments/eth/"+testAddr+"?limit=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_limit")
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/v1/chains")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
