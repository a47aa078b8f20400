package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfi/tokenrisk/internal/cache"
	"github.com/quantfi/tokenrisk/internal/circuitbreaker"
	"github.com/quantfi/tokenrisk/internal/config"
	"github.com/quantfi/tokenrisk/internal/token"
)

const testAddr = "0x00000000000000000000000000000000000000ab"

func explorerHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "getsourcecode":
			fmt.Fprint(w, `{"status":"1","result":[{"SourceCode":"contract T is ERC20 {}","ABI":"[]","ContractName":"T"}]}`)
		case "getcontractcreation":
			ts := time.Now().Add(-400 * 24 * time.Hour).Unix()
			fmt.Fprintf(w, `{"status":"1","result":[{"timestamp":"%d"}]}`, ts)
		case "tokeninfo":
			fmt.Fprint(w, `{"status":"1","result":[{"holdersCount":"25000","top10HoldersShare":"35.5","dexLiquidityUsd":"8000000"}]}`)
		default:
			t.Errorf("unexpected explorer action %q", r.URL.Query().Get("action"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func marketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"symbol": "top",
			"description": {"en": "a governance token"},
			"genesis_date": "2020-01-01",
			"links": {
				"homepage": ["https://top.example"],
				"whitepaper": "https://top.example/wp.pdf",
				"subreddit_url": "https://reddit.com/r/top",
				"twitter_screen_name": "toptoken",
				"repos_url": {"github": ["https://github.com/top/core"]}
			},
			"market_data": {
				"current_price": {"usd": 1.25},
				"market_cap": {"usd": 250000000},
				"total_volume": {"usd": 12000000},
				"price_change_percentage_24h": 2.5,
				"price_change_percentage_30d": -4
			},
			"community_score": 61,
			"developer_score": 72,
			"coingecko_score": 8,
			"tickers": [
				{"market": {"name": "Binance"}},
				{"market": {"name": "Binance"}},
				{"market": {"name": "Kraken"}}
			]
		}`)
	}
}

func securityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/audits":
			fmt.Fprint(w, `{"audits":[{"source":"certik","status":"audited","score":88,"lastAuditDate":"2026-05-01"}]}`)
		case "/v1/screening":
			fmt.Fprint(w, `{"screened":true,"riskScore":12,"sanctions":false,"illicitActivity":false}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func socialHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("metric") {
		case "social_volume":
			fmt.Fprint(w, `{"data":[{"timestamp":1700000000,"value":1500},{"timestamp":1700086400,"value":1800}]}`)
		case "dev_activity":
			fmt.Fprint(w, `{"data":[{"timestamp":1700000000,"value":120},{"timestamp":1700086400,"value":90}]}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func testConfig(explorer, market, security, social string) *config.Config {
	return &config.Config{
		EtherscanAPIKey: "k",
		ExplorerBaseURL: explorer,
		MarketBaseURL:   market,
		SecurityBaseURL: security,
		SocialBaseURL:   social,
		SourceTimeout:   2 * time.Second,
		RetryAttempts:   1,
		RetryBaseWait:   time.Millisecond,
		BatchWorkers:    1,
	}
}

func TestFetchAllSourcesHealthy(t *testing.T) {
	explorer := httptest.NewServer(explorerHandler(t))
	defer explorer.Close()
	market := httptest.NewServer(marketHandler())
	defer market.Close()
	security := httptest.NewServer(securityHandler())
	defer security.Close()
	social := httptest.NewServer(socialHandler())
	defer social.Close()

	gw := New(testConfig(explorer.URL, market.URL, security.URL, social.URL),
		cache.NewMemoryStore(), circuitbreaker.New(5, time.Minute))

	facts, health := gw.Fetch(context.Background(), testAddr, token.ChainEth)
	require.True(t, health.Healthy(), "failures: %v", health.Failures)

	assert.Equal(t, token.Verified, facts.Onchain.ContractVerified)
	assert.Contains(t, facts.Onchain.ContractSource, "ERC20")
	require.NotNil(t, facts.Onchain.ContractAgeDays)
	assert.InDelta(t, 400, *facts.Onchain.ContractAgeDays, 2)
	assert.Equal(t, uint64(25000), facts.Onchain.Holders.TotalHolders)
	assert.InDelta(t, 35.5, facts.Onchain.Holders.Top10ConcentrationPct, 0.01)
	assert.InDelta(t, 8_000_000, facts.Onchain.LiquidityUSD, 0.01)

	assert.Equal(t, "TOP", facts.Market.Symbol)
	assert.Equal(t, "a governance token", facts.Market.Description)
	assert.InDelta(t, 250_000_000, facts.Market.MarketCapUSD, 0.01)
	assert.Equal(t, "https://top.example/wp.pdf", facts.Market.Links.Whitepaper)
	assert.Equal(t, "https://twitter.com/toptoken", facts.Market.Links.Twitter)
	assert.Equal(t, []string{"Binance", "Kraken"}, facts.Market.Exchanges)

	require.Len(t, facts.Security, 1)
	assert.Equal(t, "audited", facts.Security[0].AuditStatus)
	assert.True(t, facts.AML.Screened)
	assert.InDelta(t, 12, facts.AML.RiskScore, 0.01)

	require.Len(t, facts.Social.SocialVolume, 2)
	require.Len(t, facts.Social.DevActivity, 2)
	assert.InDelta(t, 90, facts.Social.DevActivity[1].Value, 0.01)
}

func TestFetchDegradedSourceKeepsDefaults(t *testing.T) {
	explorer := httptest.NewServer(explorerHandler(t))
	defer explorer.Close()
	market := httptest.NewServer(marketHandler())
	defer market.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()
	social := httptest.NewServer(socialHandler())
	defer social.Close()

	gw := New(testConfig(explorer.URL, market.URL, broken.URL, social.URL),
		cache.NewMemoryStore(), circuitbreaker.New(5, time.Minute))

	facts, health := gw.Fetch(context.Background(), testAddr, token.ChainEth)

	assert.False(t, health.Healthy())
	assert.Equal(t, []string{"security"}, health.DegradedSources())

	// The degraded source's sections keep their conservative defaults.
	assert.Empty(t, facts.Security)
	assert.False(t, facts.AML.Screened)

	// The healthy sources still landed.
	assert.Equal(t, "TOP", facts.Market.Symbol)
	assert.Equal(t, token.Verified, facts.Onchain.ContractVerified)
}

func TestFetchUsesResponseCache(t *testing.T) {
	var marketCalls atomic.Int64
	market := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		marketCalls.Add(1)
		marketHandler()(w, r)
	}))
	defer market.Close()
	explorer := httptest.NewServer(explorerHandler(t))
	defer explorer.Close()
	security := httptest.NewServer(securityHandler())
	defer security.Close()
	social := httptest.NewServer(socialHandler())
	defer social.Close()

	gw := New(testConfig(explorer.URL, market.URL, security.URL, social.URL),
		cache.NewMemoryStore(), circuitbreaker.New(5, time.Minute))

	_, health := gw.Fetch(context.Background(), testAddr, token.ChainEth)
	require.True(t, health.Healthy())
	first := marketCalls.Load()

	facts, health := gw.Fetch(context.Background(), testAddr, token.ChainEth)
	require.True(t, health.Healthy())
	assert.Equal(t, first, marketCalls.Load(), "second fetch should be served from cache")
	assert.Equal(t, "TOP", facts.Market.Symbol)
}

func TestFetchRetriesTransientFailure(t *testing.T) {
	var attempts atomic.Int64
	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"data":[{"timestamp":1700000000,"value":42}]}`)
	}))
	defer flaky.Close()

	cfg := testConfig("", "", "", flaky.URL)
	cfg.RetryAttempts = 3

	base := fetcher{
		httpClient: &http.Client{Timeout: time.Second},
		attempts:   cfg.RetryAttempts,
		baseWait:   time.Millisecond,
	}
	client := NewSocialClient(base, flaky.URL, "")

	facts := token.NewFactRecord(testAddr, token.ChainEth)
	err := client.Populate(context.Background(), facts)
	require.NoError(t, err)
	require.NotEmpty(t, facts.Social.SocialVolume)
	assert.GreaterOrEqual(t, attempts.Load(), int64(2))
}

func TestFetcherCircuitOpenShortCircuits(t *testing.T) {
	var calls atomic.Int64
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer broken.Close()

	breaker := circuitbreaker.New(2, time.Minute)
	base := fetcher{
		httpClient: &http.Client{Timeout: time.Second},
		breaker:    breaker,
		attempts:   1,
		baseWait:   time.Millisecond,
	}
	client := NewSecurityClient(base, broken.URL, "")

	facts := token.NewFactRecord(testAddr, token.ChainEth)
	ctx := context.Background()

	// Each Populate makes two calls (audits + screening); two failing
	// rounds trip the breaker.
	require.Error(t, client.Populate(ctx, facts))
	require.Error(t, client.Populate(ctx, facts))
	tripped := calls.Load()

	err := client.Populate(ctx, facts)
	require.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, tripped, calls.Load(), "open circuit must not reach the network")
}
