// Package token defines the per-token fact record consumed by risk scoring.
//
// A FactRecord is built fresh for each assessment, populated section by
// section from independent data sources, annotated with red flags and
// compliance findings, and finally reduced to component scores and a
// composite risk score. Missing data always degrades toward the riskier
// default, never the optimistic one.
package token

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Chain identifies a supported blockchain network.
type Chain string

const (
	ChainEth Chain = "eth"
	ChainBsc Chain = "bsc"
	ChainUni Chain = "uni"
)

// ChainConfig holds per-chain assessment parameters.
type ChainConfig struct {
	CoinGeckoPlatform string
	MinLiquidityUSD   float64
	ExplorerChainID   int
}

// Chains is the fixed set of supported networks and their parameters.
var Chains = map[Chain]ChainConfig{
	ChainEth: {CoinGeckoPlatform: "ethereum", MinLiquidityUSD: 5_000_000, ExplorerChainID: 1},
	ChainBsc: {CoinGeckoPlatform: "binance-smart-chain", MinLiquidityUSD: 3_000_000, ExplorerChainID: 56},
	ChainUni: {CoinGeckoPlatform: "ethereum", MinLiquidityUSD: 5_000_000, ExplorerChainID: 1},
}

// ChainNames returns the supported chain names in sorted order.
func ChainNames() []string {
	names := make([]string, 0, len(Chains))
	for c := range Chains {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}

// ParseChain normalizes and validates a chain name.
func ParseChain(s string) (Chain, error) {
	c := Chain(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Chains[c]; !ok {
		return "", fmt.Errorf("unsupported chain: %s", s)
	}
	return c, nil
}

// NormalizeAddress returns the canonical lower-case hex form of a token
// address, or an error if it is not a valid hex address.
func NormalizeAddress(addr string) (string, error) {
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("invalid token address: %s", addr)
	}
	return strings.ToLower(common.HexToAddress(addr).Hex()), nil
}

// VerificationStatus is the contract source verification state.
type VerificationStatus string

const (
	Verified   VerificationStatus = "verified"
	Unverified VerificationStatus = "unverified"
	// VerificationUnknown means the explorer could not be queried.
	VerificationUnknown VerificationStatus = "unknown"
)

// Flag is a named red-flag condition.
type Flag string

const (
	FlagProxyContract          Flag = "is_proxy_contract"
	FlagHoneypotPattern        Flag = "has_honeypot_pattern"
	FlagOwnerChange24h         Flag = "owner_change_last_24h"
	FlagLPLockExpiring         Flag = "lp_lock_expiring_soon"
	FlagUnverifiedContract     Flag = "unverified_contract"
	FlagLowLiquidity           Flag = "low_liquidity"
	FlagHighConcentration      Flag = "high_concentration"
	FlagEUUnlicensedStablecoin Flag = "eu_unlicensed_stablecoin"
	FlagEURegulatoryIssues     Flag = "eu_regulatory_issues"
	FlagMiCANonCompliant       Flag = "mica_non_compliant"
	FlagMiCANoWhitepaper       Flag = "mica_no_whitepaper"
)

// FlagSet is a set of triggered red flags. Adding is idempotent; flags
// found by an earlier detection pass are never erased by a later one.
type FlagSet map[Flag]struct{}

// Add inserts flags into the set.
func (s FlagSet) Add(flags ...Flag) {
	for _, f := range flags {
		s[f] = struct{}{}
	}
}

// Has reports whether f is in the set.
func (s FlagSet) Has(f Flag) bool {
	_, ok := s[f]
	return ok
}

// Names returns the flag names in unspecified order.
func (s FlagSet) Names() []string {
	out := make([]string, 0, len(s))
	for f := range s {
		out = append(out, string(f))
	}
	return out
}

// HolderStats describes token holder distribution.
//
// Top10ConcentrationPct defaults to 100 (maximally concentrated) when
// holder data is unavailable: unknown distribution is scored as worst
// case, not as zero.
type HolderStats struct {
	TotalHolders          uint64  `json:"totalHolders"`
	Top10ConcentrationPct float64 `json:"top10ConcentrationPct"`
}

// Onchain holds explorer-derived facts.
type Onchain struct {
	ContractVerified VerificationStatus `json:"contractVerified"`
	ContractSource   string             `json:"-"`
	ContractAgeDays  *int               `json:"contractAgeDays,omitempty"`
	Holders          HolderStats        `json:"holders"`
	LiquidityUSD     float64            `json:"liquidityUsd"`
	RedFlags         FlagSet            `json:"-"`
}

// Links holds project link presence from the market provider.
type Links struct {
	Homepage   string `json:"homepage,omitempty"`
	Whitepaper string `json:"whitepaper,omitempty"`
	GitHub     string `json:"github,omitempty"`
	Twitter    string `json:"twitter,omitempty"`
	Telegram   string `json:"telegram,omitempty"`
	Subreddit  string `json:"subreddit,omitempty"`
	Discord    string `json:"discord,omitempty"`
	Medium     string `json:"medium,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Blog       string `json:"blog,omitempty"`
	Forum      string `json:"forum,omitempty"`
	Governance string `json:"governance,omitempty"`
}

// Market holds market-provider facts. Numeric fields default to zero when
// the provider had no data; absence is indistinguishable from zero by
// design (a documented limitation of the upstream feeds).
type Market struct {
	Symbol            string   `json:"symbol,omitempty"`
	Description       string   `json:"description,omitempty"`
	PriceUSD          float64  `json:"priceUsd"`
	MarketCapUSD      float64  `json:"marketCapUsd"`
	Volume24hUSD      float64  `json:"volume24hUsd"`
	PriceChange24hPct float64  `json:"priceChange24hPct"`
	PriceChange30dPct float64  `json:"priceChange30dPct"`
	GenesisAgeDays    int      `json:"genesisAgeDays,omitempty"`
	CommunityScore    float64  `json:"communityScore,omitempty"`
	DeveloperScore    float64  `json:"developerScore,omitempty"`
	TrustScore        float64  `json:"trustScore,omitempty"`
	Exchanges         []string `json:"exchanges,omitempty"`
	HasCompany        bool     `json:"hasCompany,omitempty"`
	Links             Links    `json:"links"`
}

// AuditReport is a single security-provider audit record.
type AuditReport struct {
	Source        string `json:"source"`
	AuditStatus   string `json:"auditStatus"`
	Score         int    `json:"score"`
	LastAuditDate string `json:"lastAuditDate,omitempty"`
}

// Sample is one point in a social or developer activity time series.
type Sample struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Social holds social-analytics time series.
type Social struct {
	SocialVolume []Sample `json:"socialVolume,omitempty"`
	DevActivity  []Sample `json:"devActivity,omitempty"`
}

// AMLSignals holds sanctions and illicit-activity screening facts.
type AMLSignals struct {
	Screened  bool    `json:"screened"`
	RiskScore float64 `json:"riskScore,omitempty"`
	Sanctions bool    `json:"sanctions,omitempty"`
	Illicit   bool    `json:"illicit,omitempty"`
}

// EUCompliance describes the token's standing under EU regulation.
type EUCompliance struct {
	Status         string `json:"status"`
	Issue          string `json:"issue,omitempty"`
	Restrictions   string `json:"restrictions,omitempty"`
	MiCACompliant  bool   `json:"micaCompliant"`
	TradingAllowed bool   `json:"tradingAllowed"`
}

// FactRecord is the consolidated per-token input to scoring.
type FactRecord struct {
	Address string `json:"address"`
	Chain   Chain  `json:"chain"`

	Onchain  Onchain       `json:"onchain"`
	Market   Market        `json:"market"`
	Security []AuditReport `json:"security,omitempty"`
	Social   Social        `json:"social"`
	AML      AMLSignals    `json:"aml"`

	IsStablecoin bool         `json:"isStablecoin"`
	EUCompliance EUCompliance `json:"euCompliance"`
	MiCACategory string       `json:"micaCategory,omitempty"`

	// Signal lists recorded by the explainable components.
	DevActivityIndicators []string `json:"devActivityIndicators,omitempty"`
	AMLIndicators         []string `json:"amlIndicators,omitempty"`
	ComplianceIndicators  []string `json:"complianceIndicators,omitempty"`

	ComponentScores map[string]int `json:"componentScores,omitempty"`
}

// NewFactRecord returns a record with every section at its conservative
// default: verification unknown, concentration 100, numerics zero,
// flag set empty.
func NewFactRecord(address string, chain Chain) *FactRecord {
	return &FactRecord{
		Address: address,
		Chain:   chain,
		Onchain: Onchain{
			ContractVerified: VerificationUnknown,
			Holders:          HolderStats{TotalHolders: 0, Top10ConcentrationPct: 100},
			RedFlags:         make(FlagSet),
		},
		EUCompliance: EUCompliance{Status: "Unknown", Issue: "No compliance data available"},
	}
}

// RedFlagNames returns the triggered flag names for reporting.
func (r *FactRecord) RedFlagNames() []string {
	return r.Onchain.RedFlags.Names()
}
