// Package compliance applies EU regulatory checks (MiCA) and the strict
// listing-criteria checks to a token fact record.
//
// Three flags emitted here force an Extreme Risk classification
// regardless of the numeric score: eu_unlicensed_stablecoin,
// eu_regulatory_issues, and mica_non_compliant, in that precedence order.
// mica_no_whitepaper is informational only.
package compliance

import (
	"fmt"
	"strings"

	"github.com/quantfi/tokenrisk/internal/token"
)

// Strict listing thresholds. Tighter than the red-flag detector: here a
// zero value counts against the token rather than being skipped.
const (
	strictMaxConcentrationPct = 50
	strictMinHolderCount      = 1000
)

// overridePrecedence lists the flags that force Extreme Risk, strongest
// first.
var overridePrecedence = []token.Flag{
	token.FlagEUUnlicensedStablecoin,
	token.FlagEURegulatoryIssues,
	token.FlagMiCANonCompliant,
}

// stablecoinIndicators mark a token as a potential Asset-Referenced Token
// under MiCA when matched against symbol or description.
var stablecoinIndicators = []string{
	"stablecoin", "stable", "usd", "eur", "gbp", "jpy", "chf",
	"tether", "usdc", "dai", "busd", "frax", "gusd", "husd",
}

// euEstablishmentIndicators are description keywords suggesting an EU
// establishment, required for ART authorization.
var euEstablishmentIndicators = []string{
	"european union", "eu", "europe", "germany", "france", "italy",
	"spain", "netherlands", "belgium", "luxembourg", "ireland",
	"malta", "cyprus", "estonia", "lithuania", "latvia",
}

// micaAuthorizationIndicators are description keywords suggesting
// regulatory authorization.
var micaAuthorizationIndicators = []string{
	"mica", "mica compliant", "eu authorized", "eu licensed",
	"regulated", "authorization", "license", "compliance",
}

// Classify runs the ordered compliance rules against facts, annotating
// the EU compliance section and the red-flag set in place. Rules are
// evaluated in order; an unlicensed-stablecoin match short-circuits the
// remaining MiCA assessment.
func Classify(facts *token.FactRecord) {
	addr := strings.ToLower(facts.Address)
	symbol := strings.ToUpper(facts.Market.Symbol)

	// Rule 1: curated unlicensed stablecoins, by address then symbol.
	if info, ok := token.UnlicensedStablecoins[addr]; ok {
		facts.Onchain.RedFlags.Add(token.FlagEUUnlicensedStablecoin)
		facts.EUCompliance = token.EUCompliance{
			Status:       info.EUStatus,
			Issue:        info.Issue,
			Restrictions: info.Restrictions,
		}
		facts.IsStablecoin = true
		return
	}
	if _, ok := token.UnlicensedStablecoinSymbols[symbol]; ok && symbol != "" {
		facts.Onchain.RedFlags.Add(token.FlagEUUnlicensedStablecoin)
		facts.EUCompliance = token.EUCompliance{
			Status:       "Unlicensed",
			Issue:        fmt.Sprintf("%s - Not MiCA compliant - major EU regulatory risk", symbol),
			Restrictions: "Cannot be offered to EU retail investors",
		}
		facts.IsStablecoin = true
		return
	}

	// Rule 2: tokens with documented EU regulatory issues.
	if issue, ok := token.EURegulatoryIssues[addr]; ok {
		facts.Onchain.RedFlags.Add(token.FlagEURegulatoryIssues)
		facts.EUCompliance = token.EUCompliance{
			Status:       issue.EUStatus,
			Issue:        issue.Issue,
			Restrictions: issue.Restrictions,
		}
	}

	// Rule 3: MiCA category assessment.
	assessMiCA(facts, symbol)

	facts.IsStablecoin = IsStablecoin(facts.Address, symbol, facts.Market.Description)
}

// assessMiCA classifies the token as an Asset-Referenced Token or a
// Utility Token and flags the corresponding compliance gaps.
func assessMiCA(facts *token.FactRecord, symbol string) {
	description := strings.ToLower(facts.Market.Description)
	symbolLower := strings.ToLower(symbol)

	asset := false
	for _, ind := range stablecoinIndicators {
		if strings.Contains(symbolLower, ind) || strings.Contains(description, ind) {
			asset = true
			break
		}
	}

	if asset {
		facts.MiCACategory = "Asset-Referenced Token (ART)"
		if !containsAny(description, euEstablishmentIndicators) ||
			!containsAny(description, micaAuthorizationIndicators) {
			facts.Onchain.RedFlags.Add(token.FlagMiCANonCompliant)
			facts.EUCompliance = token.EUCompliance{
				Status:       "Non-Compliant",
				Issue:        "Stablecoin without MiCA authorization",
				Restrictions: "Cannot be offered to EU retail investors",
			}
		}
		return
	}

	facts.MiCACategory = "Utility Token"
	if facts.Market.Links.Whitepaper == "" {
		facts.Onchain.RedFlags.Add(token.FlagMiCANoWhitepaper)
	}
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ApplyStrictChecks applies the exchange-listing criteria: minimum
// liquidity, contract verification, and holder distribution. Unlike the
// red-flag detector, a zero liquidity or holder count fails these checks
// rather than skipping them. Well-known tokens are exempt.
func ApplyStrictChecks(facts *token.FactRecord) {
	cfg, ok := token.Chains[facts.Chain]
	if !ok || token.IsWellKnown(facts.Address) {
		return
	}
	if facts.Onchain.LiquidityUSD < cfg.MinLiquidityUSD {
		facts.Onchain.RedFlags.Add(token.FlagLowLiquidity)
	}
	if facts.Onchain.ContractVerified != token.Verified {
		facts.Onchain.RedFlags.Add(token.FlagUnverifiedContract)
	}
	h := facts.Onchain.Holders
	if h.Top10ConcentrationPct > strictMaxConcentrationPct || h.TotalHolders < strictMinHolderCount {
		facts.Onchain.RedFlags.Add(token.FlagHighConcentration)
	}
}

// OverrideCategory returns the forced risk category implied by the flag
// set, if any. First match in precedence order wins; every current
// override maps to Extreme Risk.
func OverrideCategory(flags token.FlagSet) (string, bool) {
	for _, f := range overridePrecedence {
		if flags.Has(f) {
			return "Extreme Risk", true
		}
	}
	return "", false
}

// IsStablecoin reports whether a token looks like a stablecoin, by
// curated address, curated symbol, or description keyword. Used for
// reporting only; it forces nothing on its own.
func IsStablecoin(address, symbol, description string) bool {
	if _, ok := token.UnlicensedStablecoins[strings.ToLower(address)]; ok {
		return true
	}
	if _, ok := token.StablecoinSymbols[strings.ToUpper(symbol)]; ok {
		return true
	}
	desc := strings.ToLower(description)
	for _, kw := range token.StablecoinKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// StatusSummary renders the EU compliance standing for reports.
func StatusSummary(facts *token.FactRecord) string {
	flags := facts.Onchain.RedFlags
	switch {
	case flags.Has(token.FlagEUUnlicensedStablecoin):
		return "Non-Compliant (Unlicensed Stablecoin)"
	case flags.Has(token.FlagEURegulatoryIssues):
		return "Non-Compliant (Regulatory Issues)"
	case flags.Has(token.FlagMiCANonCompliant):
		return "Non-Compliant (MiCA)"
	case flags.Has(token.FlagMiCANoWhitepaper):
		return "Limited Compliance (No Whitepaper)"
	}
	switch status := facts.EUCompliance.Status; status {
	case "Unlicensed", "Restricted":
		return fmt.Sprintf("Non-Compliant (%s)", status)
	case "Compliant":
		return "Compliant"
	case "", "Unknown":
		return "Unknown"
	default:
		return fmt.Sprintf("Limited Compliance (%s)", status)
	}
}
