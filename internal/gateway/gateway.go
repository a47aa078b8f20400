// Package gateway fetches and consolidates per-token facts from external
// data sources.
//
// Provider clients run concurrently against independent sections of the
// fact record. A failed source never fails the fetch: its section keeps
// the conservative defaults and the source is reported as degraded in
// the per-call SourceHealth value.
package gateway

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/quantfi/tokenrisk/internal/cache"
	"github.com/quantfi/tokenrisk/internal/circuitbreaker"
	"github.com/quantfi/tokenrisk/internal/config"
	"github.com/quantfi/tokenrisk/internal/logging"
	"github.com/quantfi/tokenrisk/internal/token"
	"github.com/quantfi/tokenrisk/internal/traces"
)

// Gateway consolidates external data into a fact record.
type Gateway interface {
	Fetch(ctx context.Context, address string, chain token.Chain) (*token.FactRecord, *SourceHealth)
}

// SourceHealth reports, for one Fetch call, which sources answered and
// which degraded. It is a plain value; callers own it.
type SourceHealth struct {
	// Failures maps a degraded source name to its error message.
	Failures map[string]string
}

// Healthy reports whether every source answered.
func (h *SourceHealth) Healthy() bool { return len(h.Failures) == 0 }

// DegradedSources returns the names of failed sources, sorted.
func (h *SourceHealth) DegradedSources() []string {
	out := make([]string, 0, len(h.Failures))
	for s := range h.Failures {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// populator is one provider client filling its section of the record.
type populator interface {
	Populate(ctx context.Context, facts *token.FactRecord) error
}

// Client is the production Gateway backed by the four provider clients.
type Client struct {
	providers map[string]populator
}

// cacheTTL is how long a cached provider response stays usable.
const cacheTTL = 15 * time.Minute

// New builds a Gateway from configuration. The store may be nil to
// disable response caching.
func New(cfg *config.Config, store cache.Store, breaker *circuitbreaker.Breaker) *Client {
	base := fetcher{
		httpClient: &http.Client{Timeout: cfg.SourceTimeout},
		cache:      store,
		cacheTTL:   cacheTTL,
		breaker:    breaker,
		attempts:   cfg.RetryAttempts,
		baseWait:   cfg.RetryBaseWait,
	}

	return &Client{providers: map[string]populator{
		"explorer": NewExplorerClient(base, cfg.ExplorerBaseURL, cfg.EtherscanAPIKey),
		"market":   NewMarketClient(base, cfg.MarketBaseURL, cfg.CoinGeckoAPIKey),
		"security": NewSecurityClient(base, cfg.SecurityBaseURL, cfg.SecurityAPIKey),
		"social":   NewSocialClient(base, cfg.SocialBaseURL, cfg.SantimentAPIKey),
	}}
}

// Fetch builds a fact record for the token, fanning out to all providers
// concurrently. Sections touched by failed providers keep their defaults.
func (c *Client) Fetch(ctx context.Context, address string, chain token.Chain) (*token.FactRecord, *SourceHealth) {
	facts := token.NewFactRecord(address, chain)
	health := &SourceHealth{Failures: make(map[string]string)}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, provider := range c.providers {
		wg.Add(1)
		go func(name string, provider populator) {
			defer wg.Done()
			ctx, span := traces.StartSpan(ctx, "fetch."+name, traces.Source(name))
			defer span.End()
			if err := provider.Populate(ctx, facts); err != nil {
				logging.WithToken(ctx, string(chain), address).Warn("source degraded",
					"source", name, "error", err)
				mu.Lock()
				health.Failures[name] = err.Error()
				mu.Unlock()
			}
		}(name, provider)
	}
	wg.Wait()

	return facts, health
}
