// Package flags implements red-flag detection over a token fact record.
//
// Each check is an independent predicate; triggered flags are unioned
// into the record's flag set, so a later pass never erases what an
// earlier pass found. Three flags in the boost table
// (has_honeypot_pattern, owner_change_last_24h, lp_lock_expiring_soon)
// are reserved: they carry boosts but no detector emits them yet.
package flags

import (
	"strings"

	"github.com/quantfi/tokenrisk/internal/token"
)

// Contract-source substrings that indicate an upgradeable or proxy
// contract. Matched case-insensitively against verified source code.
var proxyPatterns = []string{
	"delegatecall", "proxy", "implementation", "upgradeto", "call.value",
}

// Thresholds for the verification and concentration checks.
const (
	youngContractDays   = 90
	minVolumeUSD        = 50_000
	maxConcentrationPct = 80
	minHolderCount      = 1000
)

// Detect evaluates the red-flag checklist against facts and returns the
// triggered set. It does not mutate facts; callers union the result into
// facts.Onchain.RedFlags.
func Detect(facts *token.FactRecord) token.FlagSet {
	triggered := make(token.FlagSet)
	wellKnown := token.IsWellKnown(facts.Address)

	if isProxyContract(facts) {
		triggered.Add(token.FlagProxyContract)
	}
	if !wellKnown {
		if isUnverified(facts) {
			triggered.Add(token.FlagUnverifiedContract)
		}
		if isLowLiquidity(facts) {
			triggered.Add(token.FlagLowLiquidity)
		}
		if isHighConcentration(facts) {
			triggered.Add(token.FlagHighConcentration)
		}
	}
	return triggered
}

// Apply runs Detect and merges the result into the record's flag set.
func Apply(facts *token.FactRecord) {
	for f := range Detect(facts) {
		facts.Onchain.RedFlags.Add(f)
	}
}

func isProxyContract(facts *token.FactRecord) bool {
	source := strings.ToLower(facts.Onchain.ContractSource)
	if source == "" {
		return false
	}
	for _, pat := range proxyPatterns {
		if strings.Contains(source, pat) {
			return true
		}
	}
	return false
}

// isUnverified flags unverified contracts, but only when the contract is
// young or thinly traded; long-lived high-volume tokens with unverified
// source are almost always explorer coverage gaps.
func isUnverified(facts *token.FactRecord) bool {
	if facts.Onchain.ContractVerified == token.Verified {
		return false
	}
	young := facts.Onchain.ContractAgeDays != nil && *facts.Onchain.ContractAgeDays < youngContractDays
	return young || facts.Market.Volume24hUSD < minVolumeUSD
}

func isLowLiquidity(facts *token.FactRecord) bool {
	cfg, ok := token.Chains[facts.Chain]
	if !ok {
		return false
	}
	liq := facts.Onchain.LiquidityUSD
	return liq > 0 && liq < cfg.MinLiquidityUSD
}

func isHighConcentration(facts *token.FactRecord) bool {
	h := facts.Onchain.Holders
	if h.TotalHolders == 0 {
		return false
	}
	return h.Top10ConcentrationPct > maxConcentrationPct || h.TotalHolders < minHolderCount
}
