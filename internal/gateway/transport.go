package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/quantfi/tokenrisk/internal/cache"
	"github.com/quantfi/tokenrisk/internal/circuitbreaker"
	"github.com/quantfi/tokenrisk/internal/logging"
	"github.com/quantfi/tokenrisk/internal/metrics"
	"github.com/quantfi/tokenrisk/internal/retry"
)

// ErrSourceUnavailable is returned when a source's circuit is open.
var ErrSourceUnavailable = errors.New("source unavailable: circuit open")

// maxResponseBytes bounds provider response bodies.
const maxResponseBytes = 10 << 20

// fetcher is the shared HTTP transport for provider clients: one logical
// GET with read-through caching, bounded retry, and a per-source circuit
// breaker. Every provider client embeds one.
type fetcher struct {
	source     string
	httpClient *http.Client
	cache      cache.Store
	cacheTTL   time.Duration
	breaker    *circuitbreaker.Breaker
	attempts   int
	baseWait   time.Duration
}

// getJSON performs a cached GET against base+path with the given query
// parameters and unmarshals the response body into out.
func (f *fetcher) getJSON(ctx context.Context, rawURL string, params map[string]string, out any) error {
	fp := cache.Fingerprint(http.MethodGet, rawURL, params, nil)

	if f.cache != nil {
		entry, err := f.cache.Get(ctx, fp)
		if err != nil {
			logging.L(ctx).Warn("cache read failed", "source", f.source, "error", err)
		}
		if entry.Fresh(f.cacheTTL, time.Now()) {
			metrics.CacheHitsTotal.WithLabelValues("hit").Inc()
			return json.Unmarshal(entry.Body, out)
		}
		metrics.CacheHitsTotal.WithLabelValues("miss").Inc()
	}

	if f.breaker != nil && !f.breaker.Allow(f.source) {
		return fmt.Errorf("%s: %w", f.source, ErrSourceUnavailable)
	}

	body, err := f.do(ctx, rawURL, params)
	if err != nil {
		if f.breaker != nil {
			f.breaker.RecordFailure(f.source)
		}
		metrics.SourceFailuresTotal.WithLabelValues(f.source).Inc()
		return err
	}
	if f.breaker != nil {
		f.breaker.RecordSuccess(f.source)
	}

	if f.cache != nil {
		entry := &cache.Entry{Fingerprint: fp, Source: f.source, Body: body, StoredAt: time.Now()}
		if err := f.cache.Put(ctx, entry); err != nil {
			logging.L(ctx).Warn("cache write failed", "source", f.source, "error", err)
		}
	}

	return json.Unmarshal(body, out)
}

func (f *fetcher) do(ctx context.Context, rawURL string, params map[string]string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", f.source, err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	var body []byte
	err = retry.Do(ctx, f.attempts, f.baseWait, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("%s: unexpected status %d", f.source, resp.StatusCode)
			if retry.StatusRetryable(resp.StatusCode) {
				return err
			}
			return retry.Permanent(err)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.source, err)
	}
	return body, nil
}
