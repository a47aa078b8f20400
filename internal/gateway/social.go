package gateway

import (
	"context"
	"fmt"

	"github.com/quantfi/tokenrisk/internal/token"
)

const defaultSocialBaseURL = "https://api.santiment.example.com"

// SocialClient fetches social-volume and dev-activity time series from a
// Santiment-style analytics API.
type SocialClient struct {
	fetcher
	baseURL string
	apiKey  string
}

func NewSocialClient(f fetcher, baseURL, apiKey string) *SocialClient {
	if baseURL == "" {
		baseURL = defaultSocialBaseURL
	}
	f.source = "social"
	return &SocialClient{fetcher: f, baseURL: baseURL, apiKey: apiKey}
}

type timeseriesResponse struct {
	Data []struct {
		Timestamp int64   `json:"timestamp"`
		Value     float64 `json:"value"`
	} `json:"data"`
}

func (c *SocialClient) series(ctx context.Context, address, chain, metric string) ([]token.Sample, error) {
	params := map[string]string{
		"address": address,
		"chain":   chain,
		"metric":  metric,
	}
	if c.apiKey != "" {
		params["apikey"] = c.apiKey
	}

	var resp timeseriesResponse
	if err := c.getJSON(ctx, c.baseURL+"/v1/timeseries", params, &resp); err != nil {
		return nil, err
	}
	samples := make([]token.Sample, 0, len(resp.Data))
	for _, d := range resp.Data {
		samples = append(samples, token.Sample{Timestamp: d.Timestamp, Value: d.Value})
	}
	return samples, nil
}

// Populate fills the social section of facts. Both series are optional;
// failure of one does not discard the other.
func (c *SocialClient) Populate(ctx context.Context, facts *token.FactRecord) error {
	social, socialErr := c.series(ctx, facts.Address, string(facts.Chain), "social_volume")
	if socialErr == nil {
		facts.Social.SocialVolume = social
	}

	dev, devErr := c.series(ctx, facts.Address, string(facts.Chain), "dev_activity")
	if devErr == nil {
		facts.Social.DevActivity = dev
	}

	if socialErr != nil && devErr != nil {
		return fmt.Errorf("social: volume: %v; dev: %w", socialErr, devErr)
	}
	return nil
}
