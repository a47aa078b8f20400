package gateway

import (
	"context"
	"fmt"

	"github.com/quantfi/tokenrisk/internal/token"
)

const defaultSecurityBaseURL = "https://api.securityscan.example.com"

// SecurityClient fetches audit reports and AML screening results from a
// CertiK-style audit provider.
type SecurityClient struct {
	fetcher
	baseURL string
	apiKey  string
}

func NewSecurityClient(f fetcher, baseURL, apiKey string) *SecurityClient {
	if baseURL == "" {
		baseURL = defaultSecurityBaseURL
	}
	f.source = "security"
	return &SecurityClient{fetcher: f, baseURL: baseURL, apiKey: apiKey}
}

type auditsResponse struct {
	Audits []struct {
		Source        string `json:"source"`
		Status        string `json:"status"`
		Score         int    `json:"score"`
		LastAuditDate string `json:"lastAuditDate"`
	} `json:"audits"`
}

type screeningResponse struct {
	Screened  bool    `json:"screened"`
	RiskScore float64 `json:"riskScore"`
	Sanctions bool    `json:"sanctions"`
	Illicit   bool    `json:"illicitActivity"`
}

// Populate fills the security and AML sections of facts. The audit list
// and the screening result come from separate endpoints; either can fail
// independently, and a partial fill is still a success as long as one
// endpoint answered.
func (c *SecurityClient) Populate(ctx context.Context, facts *token.FactRecord) error {
	params := map[string]string{
		"address": facts.Address,
		"chain":   string(facts.Chain),
	}
	if c.apiKey != "" {
		params["apikey"] = c.apiKey
	}

	var audits auditsResponse
	auditErr := c.getJSON(ctx, c.baseURL+"/v1/audits", params, &audits)
	if auditErr == nil {
		for _, a := range audits.Audits {
			facts.Security = append(facts.Security, token.AuditReport{
				Source:        a.Source,
				AuditStatus:   a.Status,
				Score:         a.Score,
				LastAuditDate: a.LastAuditDate,
			})
		}
	}

	var screening screeningResponse
	screenErr := c.getJSON(ctx, c.baseURL+"/v1/screening", params, &screening)
	if screenErr == nil && screening.Screened {
		facts.AML = token.AMLSignals{
			Screened:  true,
			RiskScore: screening.RiskScore,
			Sanctions: screening.Sanctions,
			Illicit:   screening.Illicit,
		}
	}

	if auditErr != nil && screenErr != nil {
		return fmt.Errorf("security: audits: %v; screening: %w", auditErr, screenErr)
	}
	return nil
}
