package gateway

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/quantfi/tokenrisk/internal/token"
)

const defaultExplorerBaseURL = "https://api.etherscan.io/v2/api"

// ExplorerClient fetches contract-level facts from an Etherscan-family
// API: verification status, source code, creation date, holder
// distribution, and pooled liquidity.
type ExplorerClient struct {
	fetcher
	baseURL string
	apiKey  string
}

func NewExplorerClient(f fetcher, baseURL, apiKey string) *ExplorerClient {
	if baseURL == "" {
		baseURL = defaultExplorerBaseURL
	}
	f.source = "explorer"
	return &ExplorerClient{fetcher: f, baseURL: baseURL, apiKey: apiKey}
}

type sourceCodeResponse struct {
	Status string `json:"status"`
	Result []struct {
		SourceCode   string `json:"SourceCode"`
		ABI          string `json:"ABI"`
		ContractName string `json:"ContractName"`
	} `json:"result"`
}

type contractCreationResponse struct {
	Status string `json:"status"`
	Result []struct {
		TimeStamp string `json:"timestamp"`
	} `json:"result"`
}

type tokenInfoResponse struct {
	Status string `json:"status"`
	Result []struct {
		HoldersCount    string `json:"holdersCount"`
		Top10Share      string `json:"top10HoldersShare"`
		DexLiquidityUSD string `json:"dexLiquidityUsd"`
	} `json:"result"`
}

// Populate fills the onchain section of facts. Holder and liquidity data
// are optional extras; their absence is not an error as long as the
// verification lookup succeeded.
func (c *ExplorerClient) Populate(ctx context.Context, facts *token.FactRecord) error {
	cfg := token.Chains[facts.Chain]
	common := map[string]string{
		"chainid": strconv.Itoa(cfg.ExplorerChainID),
		"address": facts.Address,
		"apikey":  c.apiKey,
	}

	var src sourceCodeResponse
	params := map[string]string{"module": "contract", "action": "getsourcecode"}
	for k, v := range common {
		params[k] = v
	}
	if err := c.getJSON(ctx, c.baseURL, params, &src); err != nil {
		return err
	}
	if len(src.Result) == 0 {
		return fmt.Errorf("explorer: empty source result")
	}
	if src.Result[0].SourceCode != "" && src.Result[0].ABI != "Contract source code not verified" {
		facts.Onchain.ContractVerified = token.Verified
		facts.Onchain.ContractSource = src.Result[0].SourceCode
	} else {
		facts.Onchain.ContractVerified = token.Unverified
	}

	var creation contractCreationResponse
	params = map[string]string{"module": "contract", "action": "getcontractcreation"}
	for k, v := range common {
		params[k] = v
	}
	if err := c.getJSON(ctx, c.baseURL, params, &creation); err == nil && len(creation.Result) > 0 {
		if ts, err := strconv.ParseInt(creation.Result[0].TimeStamp, 10, 64); err == nil && ts > 0 {
			age := int(time.Since(time.Unix(ts, 0)).Hours() / 24)
			facts.Onchain.ContractAgeDays = &age
		}
	}

	var info tokenInfoResponse
	params = map[string]string{"module": "token", "action": "tokeninfo"}
	for k, v := range common {
		params[k] = v
	}
	if err := c.getJSON(ctx, c.baseURL, params, &info); err == nil && len(info.Result) > 0 {
		r := info.Result[0]
		if n, err := strconv.ParseUint(r.HoldersCount, 10, 64); err == nil && n > 0 {
			facts.Onchain.Holders.TotalHolders = n
			// Only trust a reported share when the holder count resolved;
			// otherwise the conservative 100% default stands.
			if pct, err := strconv.ParseFloat(r.Top10Share, 64); err == nil && pct > 0 {
				facts.Onchain.Holders.Top10ConcentrationPct = pct
			}
		}
		if liq, err := strconv.ParseFloat(r.DexLiquidityUSD, 64); err == nil && liq > 0 {
			facts.Onchain.LiquidityUSD = liq
		}
	}

	return nil
}
