package flags

import (
	"testing"

	"github.com/quantfi/tokenrisk/internal/token"
)

const (
	usdtAddr    = "0xdac17f958d2ee523a2206206994597c13d831ec7"
	unknownAddr = "0x00000000000000000000000000000000000000ff"
)

func intPtr(v int) *int { return &v }

func TestDetectProxyContract(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   bool
	}{
		{"delegatecall", "function f() { target.delegatecall(data); }", true},
		{"proxy keyword", "contract TransparentProxy { }", true},
		{"upgradeTo", "function upgradeTo(address impl) external {}", true},
		{"implementation slot", "bytes32 IMPLEMENTATION_SLOT = 0x0;", true},
		{"clean erc20", "contract Token is ERC20 { function transfer() {} }", false},
		{"no source", "", false},
	}
	for _, tc := range cases {
		f := token.NewFactRecord(unknownAddr, "eth")
		f.Onchain.ContractSource = tc.source
		got := Detect(f).Has(token.FlagProxyContract)
		if got != tc.want {
			t.Errorf("%s: proxy flag = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDetectUnverified(t *testing.T) {
	cases := []struct {
		name     string
		verified token.VerificationStatus
		ageDays  *int
		volume   float64
		want     bool
	}{
		{"young unverified", token.Unverified, intPtr(30), 1_000_000, true},
		{"thin unverified", token.Unverified, intPtr(400), 10_000, true},
		{"mature liquid unverified", token.Unverified, intPtr(400), 1_000_000, false},
		{"verified", token.Verified, intPtr(30), 10_000, false},
		{"unknown status thin volume", token.VerificationUnknown, nil, 0, true},
	}
	for _, tc := range cases {
		f := token.NewFactRecord(unknownAddr, "eth")
		f.Onchain.ContractVerified = tc.verified
		f.Onchain.ContractAgeDays = tc.ageDays
		f.Market.Volume24hUSD = tc.volume
		got := Detect(f).Has(token.FlagUnverifiedContract)
		if got != tc.want {
			t.Errorf("%s: unverified flag = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDetectLowLiquidity(t *testing.T) {
	cases := []struct {
		name  string
		chain token.Chain
		liq   float64
		want  bool
	}{
		{"below eth minimum", "eth", 1_000_000, true},
		{"above eth minimum", "eth", 6_000_000, false},
		{"below bsc minimum", "bsc", 2_000_000, true},
		{"above bsc minimum", "bsc", 3_500_000, false},
		{"zero skips the check", "eth", 0, false},
	}
	for _, tc := range cases {
		f := token.NewFactRecord(unknownAddr, tc.chain)
		f.Onchain.LiquidityUSD = tc.liq
		got := Detect(f).Has(token.FlagLowLiquidity)
		if got != tc.want {
			t.Errorf("%s: low_liquidity = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDetectHighConcentration(t *testing.T) {
	cases := []struct {
		name    string
		holders uint64
		conc    float64
		want    bool
	}{
		{"concentrated", 50_000, 85, true},
		{"few holders", 500, 40, true},
		{"healthy", 50_000, 40, false},
		{"no holder data skips", 0, 100, false},
	}
	for _, tc := range cases {
		f := token.NewFactRecord(unknownAddr, "eth")
		f.Onchain.Holders = token.HolderStats{TotalHolders: tc.holders, Top10ConcentrationPct: tc.conc}
		got := Detect(f).Has(token.FlagHighConcentration)
		if got != tc.want {
			t.Errorf("%s: high_concentration = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDetectWellKnownExemption(t *testing.T) {
	f := token.NewFactRecord(usdtAddr, "eth")
	f.Onchain.ContractVerified = token.Unverified
	f.Onchain.LiquidityUSD = 1000
	f.Onchain.Holders = token.HolderStats{TotalHolders: 10, Top10ConcentrationPct: 99}
	f.Onchain.ContractSource = "delegatecall"

	got := Detect(f)
	for _, flag := range []token.Flag{
		token.FlagUnverifiedContract,
		token.FlagLowLiquidity,
		token.FlagHighConcentration,
	} {
		if got.Has(flag) {
			t.Errorf("well-known token should be exempt from %s", flag)
		}
	}
	// The proxy check is structural and never exempted.
	if !got.Has(token.FlagProxyContract) {
		t.Error("proxy flag should apply to well-known tokens too")
	}
}

func TestApplyIsIdempotentUnion(t *testing.T) {
	f := token.NewFactRecord(unknownAddr, "eth")
	f.Onchain.ContractVerified = token.Verified
	f.Onchain.LiquidityUSD = 1000
	f.Onchain.RedFlags.Add(token.FlagEURegulatoryIssues)

	Apply(f)
	Apply(f)

	if !f.Onchain.RedFlags.Has(token.FlagEURegulatoryIssues) {
		t.Error("pre-existing flag erased by Apply")
	}
	if !f.Onchain.RedFlags.Has(token.FlagLowLiquidity) {
		t.Error("expected low_liquidity after Apply")
	}
	if n := len(f.Onchain.RedFlags); n != 2 {
		t.Errorf("flag set has %d entries after double Apply, want 2", n)
	}
}
