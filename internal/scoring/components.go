package scoring

import (
	"fmt"
	"strings"

	"github.com/quantfi/tokenrisk/internal/token"
)

// Every component follows the same skeleton: start at the neutral base,
// apply primary signals from the highest-quality source and latch found
// when one resolves, fall through to secondary signals only when nothing
// primary resolved, and let the caller clamp. A signal whose underlying
// datum is absent (zero, empty, nil) contributes nothing — absence is
// handled by the caller's default-7 policy, not by per-signal penalties.

// --- shared signal helpers -------------------------------------------------

// marketCapSignal buckets market cap into impact tiers.
func marketCapSignal(mc float64) (float64, bool) {
	switch {
	case mc > 1_000_000_000:
		return -3, true
	case mc > 100_000_000:
		return -2, true
	case mc > 10_000_000:
		return -1, true
	case mc > 1_000_000:
		return 0, true
	case mc > 0:
		return 2, true
	}
	return 0, false
}

// holderReachSignal buckets total holders as an adoption proxy.
func holderReachSignal(h uint64) (float64, bool) {
	switch {
	case h > 50_000:
		return -2, true
	case h > 10_000:
		return -1, true
	case h > 0 && h < 1000:
		return 1, true
	case h > 0:
		return 0, true
	}
	return 0, false
}

// liquidityDepthSignal buckets pooled liquidity.
func liquidityDepthSignal(l float64) (float64, bool) {
	switch {
	case l > 10_000_000:
		return -2, true
	case l > 1_000_000:
		return -1, true
	case l > 0 && l < 100_000:
		return 1, true
	case l > 0:
		return 0, true
	}
	return 0, false
}

// volumeSignal buckets 24h trading volume.
func volumeSignal(v float64) (float64, bool) {
	switch {
	case v > 10_000_000:
		return -2, true
	case v > 1_000_000:
		return -1, true
	case v > 0 && v < 10_000:
		return 2, true
	case v > 0:
		return 0, true
	}
	return 0, false
}

// keywordCount counts distinct keywords present in a lower-cased text.
func keywordCount(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// seriesStats returns the mean and the most recent value of a time
// series, skipping nothing: samples are already validated by the gateway.
func seriesStats(samples []token.Sample) (avg, recent float64, ok bool) {
	if len(samples) == 0 {
		return 0, 0, false
	}
	sum := 0.0
	for _, s := range samples {
		sum += s.Value
	}
	return sum / float64(len(samples)), samples[len(samples)-1].Value, true
}

// --- components ------------------------------------------------------------

func scoreIndustryImpact(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false

	if d, ok := marketCapSignal(f.Market.MarketCapUSD); ok {
		score += d
		found = true
	}

	if !found {
		if d, ok := holderReachSignal(f.Onchain.Holders.TotalHolders); ok {
			score += d
			found = true
		}
		if d, ok := liquidityDepthSignal(f.Onchain.LiquidityUSD); ok {
			score += d
			found = true
		}
	}
	return score, found, nil
}

var innovationFeatures = []string{
	"flashloan", "liquidation", "collateral", "oracle", "amm", "curve",
	"governance", "staking", "yield", "lending", "borrowing", "swap",
	"uniswap", "pancakeswap", "sushiswap", "balancer",
}

var solidityPatterns = []string{
	"reentrancyguard", "pausable", "ownable", "accesscontrol",
	"erc20", "erc721", "erc1155", "multisig", "timelock",
}

func scoreTechInnovation(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false

	switch f.Onchain.ContractVerified {
	case token.Verified:
		score -= 2
		found = true
	case token.Unverified:
		score += 2
		found = true
	}

	if source := strings.ToLower(f.Onchain.ContractSource); source != "" {
		switch n := keywordCount(source, innovationFeatures); {
		case n >= 4:
			score -= 2
			found = true
		case n >= 2:
			score -= 1
			found = true
		case n == 0:
			score += 2
		}
		switch n := keywordCount(source, solidityPatterns); {
		case n >= 3:
			score -= 1
		case n == 0:
			score += 1
		}
		// Upgradeability cuts both ways; net it as slight extra risk.
		if strings.Contains(source, "proxy") || strings.Contains(source, "upgrade") {
			score += 1
		}
	}

	if d, ok := volumeSignal(f.Market.Volume24hUSD); ok {
		score += d
		found = true
	}

	if !found {
		if h := f.Onchain.Holders.TotalHolders; h > 50_000 {
			score -= 1
			found = true
		} else if h > 0 && h < 1000 {
			score += 1
			found = true
		}
		if mc := f.Market.MarketCapUSD; mc > 1_000_000_000 {
			score -= 1
			found = true
		} else if mc > 0 && mc < 1_000_000 {
			score += 1
			found = true
		}
	}
	return score, found, nil
}

func scoreWhitepaperQuality(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false
	links := f.Market.Links

	// Documentation signals only make sense once the market provider
	// returned project data at all; otherwise a missing whitepaper just
	// means a missing provider.
	if f.Market.Symbol != "" {
		found = true
		if links.Homepage != "" {
			score -= 1
		} else {
			score += 2
		}
		if links.Whitepaper != "" {
			score -= 2
		} else {
			score += 2
		}
		if links.GitHub != "" {
			score -= 1
		} else {
			score += 1
		}
		switch n := socialPresence(links, []string{"twitter", "telegram", "subreddit"}); {
		case n >= 3:
			score -= 1
		case n >= 2:
			score -= 0.5
		case n == 0:
			score += 1
		}
		switch l := len(f.Market.Description); {
		case l > 500:
			score -= 1
		case l > 200:
			score -= 0.5
		case l < 50:
			score += 1
		}
	}

	if !found {
		if source := f.Onchain.ContractSource; source != "" {
			comments := strings.Count(source, "//") + strings.Count(source, "/*")
			if comments > 20 {
				score -= 1
			} else if comments < 2 {
				score += 1
			}
			if strings.Contains(source, "@title") || strings.Contains(source, "@author") ||
				strings.Contains(source, "@notice") {
				score -= 1
			}
			found = true
		}
		if mc := f.Market.MarketCapUSD; mc > 100_000_000 {
			score -= 1
			found = true
		} else if mc > 0 && mc < 100_000 {
			score += 1
			found = true
		}
		if h := f.Onchain.Holders.TotalHolders; h > 50_000 {
			score -= 1
			found = true
		} else if h > 0 && h < 1000 {
			score += 1
			found = true
		}
	}
	return score, found, nil
}

func scoreRoadmapAdherence(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false

	switch age := f.Market.GenesisAgeDays; {
	case age > 1095:
		score -= 2
		found = true
	case age > 365:
		score -= 1
		found = true
	case age > 0 && age < 30:
		score += 3
		found = true
	case age > 0 && age < 90:
		score += 2
		found = true
	case age > 0 && age < 180:
		score += 1
		found = true
	}

	switch ch := f.Market.PriceChange30dPct; {
	case ch > 100:
		score -= 2
		found = true
	case ch > 50:
		score -= 1
		found = true
	case ch < -50:
		score += 2
		found = true
	case ch < -20:
		score += 1
		found = true
	}

	switch cs := f.Market.CommunityScore; {
	case cs > 80:
		score -= 1
		found = true
	case cs > 50:
		score -= 0.5
		found = true
	case cs > 0 && cs < 10:
		score += 1
		found = true
	}

	if !found {
		switch h := f.Onchain.Holders.TotalHolders; {
		case h > 100_000:
			score -= 1
			found = true
		case h > 0 && h < 1000:
			score += 2
			found = true
		case h > 0 && h < 5000:
			score += 1
			found = true
		}
		switch l := f.Onchain.LiquidityUSD; {
		case l > 10_000_000:
			score -= 1
			found = true
		case l > 0 && l < 100_000:
			score += 2
			found = true
		case l > 0 && l < 500_000:
			score += 1
			found = true
		}
		if d, ok := volumeSignal(f.Market.Volume24hUSD); ok {
			score += d / 2
			found = true
		}
	}
	return score, found, nil
}

var businessKeywords = []string{
	"utility", "governance", "staking", "yield", "lending", "swap", "amm", "dex",
}

var businessFunctions = []string{"stake", "yield", "lend", "borrow", "swap", "govern"}

func scoreBusinessModel(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false

	if desc := strings.ToLower(f.Market.Description); desc != "" {
		switch n := keywordCount(desc, businessKeywords); {
		case n >= 2:
			score -= 1
		case n == 0:
			score += 1
		}
		found = true
	}

	if !found {
		if source := strings.ToLower(f.Onchain.ContractSource); source != "" {
			if keywordCount(source, businessFunctions) >= 2 {
				score -= 1
			}
			found = true
		}
		if mc := f.Market.MarketCapUSD; mc > 10_000_000 {
			score -= 1
			found = true
		} else if mc > 0 && mc < 100_000 {
			score += 1
			found = true
		}
	}
	return score, found, nil
}

func scoreTeamExpertise(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false

	switch ts := f.Market.TrustScore; {
	case ts > 9:
		score -= 2
		found = true
	case ts > 7:
		score -= 1
		found = true
	case ts > 0 && ts < 3:
		score += 2
		found = true
	case ts > 0 && ts < 5:
		score += 1
		found = true
	}

	switch ds := f.Market.DeveloperScore; {
	case ds > 80:
		score -= 2
		found = true
	case ds > 50:
		score -= 1
		found = true
	case ds > 0 && ds < 10:
		score += 2
		found = true
	case ds > 0 && ds < 30:
		score += 1
		found = true
	}

	if f.Market.Links.LinkedIn != "" {
		score -= 1
		found = true
	}
	if f.Market.Links.GitHub != "" {
		score -= 1
		found = true
	}
	if f.Market.HasCompany {
		score -= 1
		found = true
	}

	if !found {
		if f.Onchain.ContractVerified == token.Verified {
			score -= 1
			found = true
		}
		if source := strings.ToLower(f.Onchain.ContractSource); source != "" {
			switch n := strings.Count(source, "function "); {
			case n > 30:
				score -= 2
			case n > 15:
				score -= 1
			case n < 3:
				score += 2
			case n < 8:
				score += 1
			}
			found = true
		}
		switch l := f.Onchain.LiquidityUSD; {
		case l > 10_000_000:
			score -= 2
			found = true
		case l > 1_000_000:
			score -= 1
			found = true
		case l > 0 && l < 10_000:
			score += 2
			found = true
		case l > 0 && l < 100_000:
			score += 1
			found = true
		}
	}
	return score, found, nil
}

func scoreManagementStrategy(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false
	links := f.Market.Links

	if desc := strings.ToLower(f.Market.Description); desc != "" {
		if links.Governance != "" || strings.Contains(desc, "dao") {
			score -= 1
		}
		found = true
	}
	if links.Forum != "" {
		score -= 1
		found = true
	}
	if links.Blog != "" {
		score -= 1
		found = true
	}
	if links.LinkedIn != "" || f.Market.HasCompany {
		score -= 1
		found = true
	}

	h := f.Onchain.Holders
	if h.TotalHolders > 10_000 && h.Top10ConcentrationPct < 50 {
		score -= 1
		found = true
	} else if h.TotalHolders > 0 && (h.TotalHolders < 1000 || h.Top10ConcentrationPct > 80) {
		score += 2
		found = true
	}

	if v, mc := f.Market.Volume24hUSD, f.Market.MarketCapUSD; v > 0 && mc > 0 {
		switch ratio := v / mc; {
		case ratio > 0.1:
			score -= 1
		case ratio < 0.01:
			score += 1
		}
		found = true
	}

	if l := f.Onchain.LiquidityUSD; l > 1_000_000 {
		score -= 1
		found = true
	} else if l > 0 && l < 100_000 {
		score += 1
		found = true
	}

	if !found {
		if source := strings.ToLower(f.Onchain.ContractSource); source != "" {
			if keywordCount(source, []string{"vote", "proposal", "governance", "dao"}) >= 2 {
				score -= 1
			}
			found = true
		}
	}
	return score, found, nil
}

func scoreGlobalReach(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false

	if n := uniqueCount(f.Market.Exchanges); n > 0 {
		switch {
		case n >= 5:
			score -= 2
		case n >= 3:
			score -= 1
		case n == 1:
			score += 1
		}
		found = true
	}

	if !found {
		switch h := f.Onchain.Holders.TotalHolders; {
		case h > 100_000:
			score -= 2
			found = true
		case h > 20_000:
			score -= 1
			found = true
		case h > 0 && h < 1000:
			score += 1
			found = true
		}
		if v := f.Market.Volume24hUSD; v > 5_000_000 {
			score -= 1
			found = true
		} else if v > 0 && v < 10_000 {
			score += 1
			found = true
		}
	}
	return score, found, nil
}

var securityPatterns = []string{
	"reentrancyguard", "pausable", "ownable", "accesscontrol",
	"safemath", "erc20", "erc721", "erc1155",
}

var vulnerabilityPatterns = []string{
	"delegatecall", "selfdestruct", "suicide", "assembly",
	"inline", "low-level", "unchecked",
}

func scoreCodeSecurity(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false

	switch f.Onchain.ContractVerified {
	case token.Verified:
		score -= 2
		found = true
	case token.Unverified:
		score += 3
		found = true
	}

	if n := len(f.Security); n > 0 {
		if n >= 2 {
			score -= 2
		} else {
			score -= 1
		}
		found = true
	}

	if source := strings.ToLower(f.Onchain.ContractSource); source != "" {
		switch n := keywordCount(source, securityPatterns); {
		case n >= 3:
			score -= 1
			found = true
		case n == 0:
			score += 1
		}
		if keywordCount(source, vulnerabilityPatterns) >= 2 {
			score += 1
		}
	}

	if !found {
		if h := f.Onchain.Holders; h.TotalHolders > 0 && h.Top10ConcentrationPct > 90 {
			score += 1
			found = true
		}
		if l := f.Onchain.LiquidityUSD; l > 0 && l < 50_000 {
			score += 1
			found = true
		}
	}
	return score, found, nil
}

func scoreDevActivity(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false
	var notes []string

	if avg, recent, ok := seriesStats(f.Social.DevActivity); ok {
		switch {
		case avg > 150 && recent > 75:
			score -= 3
			notes = append(notes, fmt.Sprintf("exceptional dev activity: %.1f avg, %.0f recent", avg, recent))
		case avg > 100 && recent > 50:
			score -= 2
			notes = append(notes, fmt.Sprintf("very high dev activity: %.1f avg, %.0f recent", avg, recent))
		case avg > 50 && recent > 20:
			score -= 1
			notes = append(notes, fmt.Sprintf("high dev activity: %.1f avg, %.0f recent", avg, recent))
		case avg < 5 || recent < 2:
			score += 3
			notes = append(notes, fmt.Sprintf("very low dev activity: %.1f avg, %.0f recent", avg, recent))
		case avg < 15 || recent < 8:
			score += 2
			notes = append(notes, fmt.Sprintf("low dev activity: %.1f avg, %.0f recent", avg, recent))
		case avg < 30:
			score += 1
			notes = append(notes, fmt.Sprintf("moderate dev activity: %.1f avg, %.0f recent", avg, recent))
		}
		if recent < avg*0.3 {
			score += 1
			notes = append(notes, "recent dev activity dropped sharply vs. average")
		}
		found = true
	}

	switch ds := f.Market.DeveloperScore; {
	case ds > 80:
		score -= 2
		notes = append(notes, fmt.Sprintf("exceptional developer score: %.0f", ds))
		found = true
	case ds > 50:
		score -= 1
		notes = append(notes, fmt.Sprintf("good developer score: %.0f", ds))
		found = true
	case ds > 0 && ds < 5:
		score += 2
		notes = append(notes, fmt.Sprintf("very poor developer score: %.0f", ds))
		found = true
	case ds > 0 && ds < 15:
		score += 1
		notes = append(notes, fmt.Sprintf("poor developer score: %.0f", ds))
		found = true
	}

	if f.Market.Links.GitHub != "" {
		score -= 1
		notes = append(notes, "open source project (GitHub)")
		found = true
	}

	if age := f.Onchain.ContractAgeDays; age != nil {
		if *age < 60 {
			score -= 0.5
			notes = append(notes, fmt.Sprintf("new contract: %d days old", *age))
		} else if *age > 1000 {
			score += 0.5
			notes = append(notes, fmt.Sprintf("very old contract: %d days old", *age))
		}
	}
	if f.Onchain.RedFlags.Has(token.FlagProxyContract) {
		score -= 0.5
		notes = append(notes, "proxy/upgradeable contract: ongoing dev possible")
	}

	return score, found, notes
}

func scoreAMLData(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false
	var notes []string

	for _, report := range f.Security {
		status := strings.ToLower(report.AuditStatus)
		switch {
		case status == "audited" && report.Score >= 80:
			score -= 3
			notes = append(notes, fmt.Sprintf("%s: audited, score %d", report.Source, report.Score))
		case status == "audited":
			score -= 2
			notes = append(notes, fmt.Sprintf("%s: audited", report.Source))
		case status == "unaudited" || report.Score > 0 && report.Score < 60:
			score += 3
			notes = append(notes, fmt.Sprintf("%s: unaudited or low score (%d)", report.Source, report.Score))
		default:
			notes = append(notes, fmt.Sprintf("%s: status %s, score %d", report.Source, report.AuditStatus, report.Score))
		}
		found = true
	}

	if f.AML.Screened {
		switch {
		case f.AML.Sanctions || f.AML.Illicit:
			score += 4
			notes = append(notes, "sanctions or illicit activity flagged")
		case f.AML.RiskScore >= 80:
			score += 2
			notes = append(notes, fmt.Sprintf("high AML risk score (%.0f)", f.AML.RiskScore))
		case f.AML.RiskScore >= 50:
			score += 1
			notes = append(notes, fmt.Sprintf("moderate AML risk score (%.0f)", f.AML.RiskScore))
		default:
			score -= 1
			notes = append(notes, fmt.Sprintf("low AML risk score (%.0f)", f.AML.RiskScore))
		}
		found = true
	}

	return score, found, notes
}

var regulatedExchanges = map[string]struct{}{
	"coinbase": {}, "kraken": {}, "gemini": {},
}

var majorExchanges = map[string]struct{}{
	"binance": {}, "coinbase": {}, "kraken": {},
	"gemini": {}, "bitfinex": {}, "huobi": {},
}

var kycKeywords = []string{
	"kyc", "aml", "compliant", "regulatory", "regulated",
	"license", "governance", "oversight", "audit", "transparency",
}

var criticalComplianceFlags = []token.Flag{
	token.FlagEUUnlicensedStablecoin,
	token.FlagEURegulatoryIssues,
	token.FlagMiCANonCompliant,
	token.FlagMiCANoWhitepaper,
}

func scoreComplianceData(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false
	var notes []string

	if f.AML.Screened {
		switch {
		case f.AML.Sanctions || f.AML.Illicit:
			score += 4
			notes = append(notes, "sanctions or illicit activity flagged")
		case f.AML.RiskScore >= 80:
			score += 2
			notes = append(notes, fmt.Sprintf("high screening risk score (%.0f)", f.AML.RiskScore))
		case f.AML.RiskScore >= 50:
			score += 1
			notes = append(notes, fmt.Sprintf("moderate screening risk score (%.0f)", f.AML.RiskScore))
		default:
			score -= 1
			notes = append(notes, fmt.Sprintf("low screening risk score (%.0f)", f.AML.RiskScore))
		}
		found = true
	}

	if len(f.Market.Exchanges) > 0 {
		regulated, major := false, false
		for _, ex := range f.Market.Exchanges {
			name := strings.ToLower(ex)
			if _, ok := regulatedExchanges[name]; ok {
				regulated = true
			}
			if _, ok := majorExchanges[name]; ok {
				major = true
			}
		}
		switch {
		case regulated:
			score -= 2
			notes = append(notes, "listed on regulated exchange")
		case major:
			score -= 1
			notes = append(notes, "listed on major exchange")
		default:
			score += 1
			notes = append(notes, "not listed on major/regulated exchanges")
		}
		found = true
	}

	if desc := strings.ToLower(f.Market.Description); desc != "" {
		switch n := keywordCount(desc, kycKeywords); {
		case n >= 2:
			score -= 2
			notes = append(notes, "KYC/AML language in project description")
		case n == 1:
			score -= 1
			notes = append(notes, "some KYC/AML language in project description")
		default:
			score += 1
			notes = append(notes, "no KYC/AML language found")
		}
		found = true
	}

	for _, flag := range criticalComplianceFlags {
		if f.Onchain.RedFlags.Has(flag) {
			score += 3
			notes = append(notes, fmt.Sprintf("red flag: %s", flag))
		}
	}

	if f.Market.HasCompany {
		score -= 1
		notes = append(notes, "registered company")
		found = true
	}
	legal := 0
	if f.Market.Links.LinkedIn != "" {
		legal++
	}
	if f.Market.Links.Whitepaper != "" {
		legal++
	}
	if legal >= 2 {
		score -= 1
		notes = append(notes, "strong professional presence")
		found = true
	} else if legal == 1 {
		score -= 0.5
		notes = append(notes, "some professional presence")
		found = true
	}

	switch l := f.Onchain.LiquidityUSD; {
	case l > 100_000_000:
		score -= 1
		notes = append(notes, fmt.Sprintf("very high liquidity: $%.0f", l))
		found = true
	case l > 10_000_000:
		score -= 0.5
		notes = append(notes, fmt.Sprintf("high liquidity: $%.0f", l))
		found = true
	case l > 0 && l < 10_000:
		score += 1
		notes = append(notes, fmt.Sprintf("very low liquidity: $%.0f", l))
		found = true
	case l > 0 && l < 100_000:
		score += 0.5
		notes = append(notes, fmt.Sprintf("low liquidity: $%.0f", l))
		found = true
	}

	return score, found, notes
}

func scoreMarketDynamics(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false

	switch ch := f.Market.PriceChange24hPct; {
	case ch != 0 && abs(ch) < 10:
		score -= 1
		found = true
	case abs(ch) > 50:
		score += 2
		found = true
	case abs(ch) > 20:
		score += 1
		found = true
	}

	if v, mc := f.Market.Volume24hUSD, f.Market.MarketCapUSD; v > 0 && mc > 0 {
		switch ratio := v / mc; {
		case ratio > 0.5:
			score += 1
		case ratio < 0.01:
			score += 1
		case ratio >= 0.01 && ratio <= 0.1:
			score -= 1
		}
		found = true
	}

	if !found {
		if l := f.Onchain.LiquidityUSD; l > 10_000_000 {
			score -= 1
			found = true
		} else if l > 0 && l < 100_000 {
			score += 1
			found = true
		}
		if h := f.Onchain.Holders; h.TotalHolders > 0 {
			if h.Top10ConcentrationPct > 80 {
				score += 1
			} else if h.Top10ConcentrationPct < 30 {
				score -= 1
			}
			found = true
		}
	}
	return score, found, nil
}

func scoreMarketingDemand(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false

	if avg, recent, ok := seriesStats(f.Social.SocialVolume); ok {
		switch {
		case avg > 10_000 && recent > 5000:
			score -= 2
		case avg > 1000 && recent > 500:
			score -= 1
		case avg < 100 || recent < 50:
			score += 2
		case avg < 500:
			score += 1
		}
		found = true
	}

	if f.Market.Symbol != "" {
		switch n := socialPresence(f.Market.Links, []string{"twitter", "telegram", "subreddit", "discord", "medium"}); {
		case n >= 3:
			score -= 1
		case n == 0:
			score += 2
		case n == 1:
			score += 1
		}
		found = true
	}

	if d, ok := volumeSignal(f.Market.Volume24hUSD); ok {
		score += d
		found = true
	}

	if ch := f.Market.PriceChange24hPct; ch > 20 {
		score -= 1
		found = true
	} else if ch < -20 {
		score += 1
		found = true
	}

	if !found {
		if d, ok := holderReachSignal(f.Onchain.Holders.TotalHolders); ok {
			score += d
			found = true
		}
		if l := f.Onchain.LiquidityUSD; l > 5_000_000 {
			score -= 1
			found = true
		} else if l > 0 && l < 100_000 {
			score += 1
			found = true
		}
	}
	return score, found, nil
}

var environmentalKeywords = []string{
	"carbon", "green", "sustainable", "renewable", "energy", "climate",
	"environmental", "eco", "clean", "zero-emission", "carbon-neutral",
	"solar", "wind", "hydro", "geothermal", "biomass", "recycling",
}

var socialImpactKeywords = []string{
	"social", "community", "inclusive", "equality", "diversity",
	"education", "healthcare", "charity", "donation", "philanthropy",
	"microfinance", "banking", "financial inclusion", "unbanked",
	"developing", "emerging markets", "accessibility",
}

var governanceKeywords = []string{
	"governance", "dao", "democratic", "transparent", "accountable",
	"voting", "proposal", "community-driven", "decentralized",
	"open source", "audit", "compliance", "regulation", "legal",
}

func scoreESGImpact(f *token.FactRecord) (float64, bool, []string) {
	score, found := baseScore, false

	if desc := strings.ToLower(f.Market.Description); desc != "" {
		for _, keywords := range [][]string{environmentalKeywords, socialImpactKeywords, governanceKeywords} {
			switch n := keywordCount(desc, keywords); {
			case n >= 3:
				score -= 2
			case n >= 2:
				score -= 1
			case n == 0:
				score += 1
			}
		}
		found = true
	}

	switch cs := f.Market.CommunityScore; {
	case cs > 80:
		score -= 1
		found = true
	case cs > 50:
		score -= 0.5
		found = true
	case cs > 0 && cs < 10:
		score += 1
		found = true
	}

	if !found {
		if f.Onchain.ContractVerified == token.Verified {
			score -= 1
			found = true
		}
		h := f.Onchain.Holders
		switch {
		case h.TotalHolders > 100_000 && h.Top10ConcentrationPct < 30:
			score -= 2
			found = true
		case h.TotalHolders > 50_000 && h.Top10ConcentrationPct < 50:
			score -= 1
			found = true
		case h.TotalHolders > 0 && (h.TotalHolders < 1000 || h.Top10ConcentrationPct > 80):
			score += 2
			found = true
		}
		if d, ok := liquidityDepthSignal(f.Onchain.LiquidityUSD); ok {
			score += d / 2
			found = true
		}
	}
	return score, found, nil
}

// --- small helpers ---------------------------------------------------------

func socialPresence(links token.Links, platforms []string) int {
	present := map[string]string{
		"twitter":   links.Twitter,
		"telegram":  links.Telegram,
		"subreddit": links.Subreddit,
		"discord":   links.Discord,
		"medium":    links.Medium,
	}
	n := 0
	for _, p := range platforms {
		if present[p] != "" {
			n++
		}
	}
	return n
}

func uniqueCount(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		seen[strings.ToLower(it)] = struct{}{}
	}
	return len(seen)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
