package token

import "strings"

// wellKnown maps canonical lower-case addresses of established tokens to
// their symbols. Tokens in this set are exempt from the liquidity,
// concentration, and verification red-flag checks: explorer coverage for
// them is patchy enough that those checks mostly produce false positives.
var wellKnown = map[string]string{
	"0xdac17f958d2ee523a2206206994597c13d831ec7": "USDT",
	"0x6b175474e89094c44da98b954eedeac495271d0f": "DAI",
	"0x4fabb145d64652a948d72533023f6e7a623c7c53": "BUSD",
	"0x853d955acef822db058eb8505911ed77f175b99e": "FRAX",
	"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": "WETH",
	"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599": "WBTC",
	"0x514910771af9ca656af840dff83e8264ecf986ca": "LINK",
	"0x1f9840a85d5af5bf1d1762f925bdaddc4201f984": "UNI",
	"0x6b3595068778dd592e39a122f4f5a5cf09c90fe2": "SUSHI",
	"0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9": "AAVE",
	"0x7d1afa7b718fb893db30a3abc0cfc608aacfebb0": "MATIC",
	"0x95ad61b0a150d79219dcf64e1e6cc01f0b64c4ce": "SHIB",
	"0x0d8775f648430679a709e98d2b0cb6250d2887ef": "BAT",
	"0x9f8f72aa9304c8b593d555f12ef6589cc3a579a2": "MKR",
	"0xc00e94cb662c3520282e6f5717214004a7f26888": "COMP",
	"0xd533a949740bb3306d119cc777fa900ba034cd52": "CRV",
	"0xe9e7cea3dedca5984780bafc599bd69add087d56": "BUSD-BSC",
	"0x2170ed0880ac9a755fd29b2688956bd959f933f8": "WETH-BSC",
	"0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c": "WBNB",
}

// IsWellKnown reports whether the address belongs to the curated
// well-known token set.
func IsWellKnown(address string) bool {
	_, ok := wellKnown[strings.ToLower(address)]
	return ok
}

// WellKnownSymbol returns the curated symbol for an address, if any.
func WellKnownSymbol(address string) (string, bool) {
	sym, ok := wellKnown[strings.ToLower(address)]
	return sym, ok
}

// StablecoinInfo describes a stablecoin with no MiCA authorization.
type StablecoinInfo struct {
	Symbol       string
	Name         string
	Issue        string
	EUStatus     string
	Restrictions string
}

// UnlicensedStablecoins is the curated set of stablecoins known not to
// hold MiCA authorization, by canonical lower-case address. Any match
// forces an Extreme Risk classification.
var UnlicensedStablecoins = map[string]StablecoinInfo{
	"0xdac17f958d2ee523a2206206994597c13d831ec7": {
		Symbol:       "USDT",
		Name:         "Tether USD",
		Issue:        "Not MiCA compliant - major EU regulatory risk",
		EUStatus:     "Unlicensed",
		Restrictions: "Cannot be offered to EU retail investors",
	},
	"0x6b175474e89094c44da98b954eedeac495271d0f": {
		Symbol:       "DAI",
		Name:         "Dai",
		Issue:        "Decentralized stablecoin - regulatory uncertainty",
		EUStatus:     "Unclear",
		Restrictions: "May face regulatory challenges",
	},
	"0x4fabb145d64652a948d72533023f6e7a623c7c53": {
		Symbol:       "BUSD",
		Name:         "Binance USD",
		Issue:        "Binance regulatory issues in EU",
		EUStatus:     "Restricted",
		Restrictions: "Limited EU availability",
	},
	"0x853d955acef822db058eb8505911ed77f175b99e": {
		Symbol:       "FRAX",
		Name:         "Frax",
		Issue:        "Algorithmic stablecoin - regulatory concerns",
		EUStatus:     "Unclear",
		Restrictions: "May face regulatory challenges",
	},
}

// UnlicensedStablecoinSymbols catches major stablecoins by symbol when
// the address is not in the curated map (bridged or wrapped deployments).
var UnlicensedStablecoinSymbols = map[string]struct{}{
	"USDT": {}, "USDC": {}, "DAI": {}, "BUSD": {}, "FRAX": {},
}

// RegulatoryIssue describes a token with documented EU regulatory concerns.
type RegulatoryIssue struct {
	Symbol       string
	Issue        string
	EUStatus     string
	Restrictions string
}

// EURegulatoryIssues lists tokens with known EU regulatory problems, by
// canonical lower-case address.
var EURegulatoryIssues = map[string]RegulatoryIssue{
	"0x1f9840a85d5af5bf1d1762f925bdaddc4201f984": {
		Symbol:       "UNI",
		Issue:        "Uniswap regulatory uncertainty in EU",
		EUStatus:     "Restricted",
		Restrictions: "DeFi governance token - regulatory concerns",
	},
	"0x6b3595068778dd592e39a122f4f5a5cf09c90fe2": {
		Symbol:       "SUSHI",
		Issue:        "DeFi governance token - regulatory uncertainty",
		EUStatus:     "Restricted",
		Restrictions: "May face regulatory challenges",
	},
}

// StablecoinSymbols is the broader symbol list used for is-stablecoin
// detection (reporting only, no override on its own).
var StablecoinSymbols = map[string]struct{}{
	"USDT": {}, "USDC": {}, "DAI": {}, "BUSD": {}, "FRAX": {},
	"TUSD": {}, "USDP": {}, "GUSD": {}, "LUSD": {}, "SUSD": {},
}

// StablecoinKeywords are description phrases indicating a pegged token.
var StablecoinKeywords = []string{
	"stablecoin", "stable coin", "pegged", "backed by", "collateralized",
	"usd stable", "dollar stable", "price stable",
}
