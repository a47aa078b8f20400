// Package assessor orchestrates a full token risk assessment.
//
// An assessment advances through fixed stages: fetching, flag detection,
// compliance check, scoring, aggregation. Any stage may degrade, but the
// pipeline always produces a result; a failure it cannot absorb resolves
// to the maximum-risk result rather than an error escaping the boundary.
package assessor

import (
	"context"
	"fmt"
	"time"

	"github.com/quantfi/tokenrisk/internal/compliance"
	"github.com/quantfi/tokenrisk/internal/flags"
	"github.com/quantfi/tokenrisk/internal/gateway"
	"github.com/quantfi/tokenrisk/internal/logging"
	"github.com/quantfi/tokenrisk/internal/metrics"
	"github.com/quantfi/tokenrisk/internal/scoring"
	"github.com/quantfi/tokenrisk/internal/syncutil"
	"github.com/quantfi/tokenrisk/internal/token"
	"github.com/quantfi/tokenrisk/internal/traces"
)

// Stage names one step of the assessment pipeline.
type Stage string

const (
	StageFetching        Stage = "fetching"
	StageFlagDetection   Stage = "flag_detection"
	StageComplianceCheck Stage = "compliance_check"
	StageScoring         Stage = "scoring"
	StageAggregation     Stage = "aggregation"
	StageDone            Stage = "done"
)

// Result is the outcome of one token assessment.
type Result struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
	Symbol  string `json:"symbol,omitempty"`

	Score    float64 `json:"score"`
	Category string  `json:"category"`
	Error    string  `json:"error,omitempty"`

	RedFlags           []string       `json:"redFlags,omitempty"`
	IsStablecoin       bool           `json:"isStablecoin"`
	EUComplianceStatus string         `json:"euComplianceStatus,omitempty"`
	MiCACategory       string         `json:"micaCategory,omitempty"`
	ComponentScores    map[string]int `json:"componentScores,omitempty"`
	DegradedSources    []string       `json:"degradedSources,omitempty"`

	Facts      *token.FactRecord `json:"facts,omitempty"`
	AssessedAt time.Time         `json:"assessedAt"`
}

const (
	maxScore        = 150
	extremeCategory = "Extreme Risk"
)

// Assessor runs assessments against a gateway and optionally persists
// the results.
type Assessor struct {
	gw    gateway.Gateway
	store Store // nil disables persistence

	// locks serialize concurrent assessments of the same token so that
	// parallel requests do not race each other into the providers.
	locks *syncutil.KeyMutex
}

// New creates an assessor. store may be nil.
func New(gw gateway.Gateway, store Store) *Assessor {
	return &Assessor{
		gw:    gw,
		store: store,
		locks: syncutil.NewKeyMutex(),
	}
}

// Assess evaluates one token. It never returns an error and never
// panics: unsupported input and internal failures resolve to the
// maximum-risk result with the failure recorded in Error.
func (a *Assessor) Assess(ctx context.Context, chainName, address string) (result *Result) {
	start := time.Now()
	result = &Result{
		Chain:      chainName,
		Address:    address,
		AssessedAt: start,
	}

	defer func() {
		if r := recover(); r != nil {
			logging.L(ctx).Error("assessment panic", "chain", chainName, "address", address, "panic", r)
			result.Score = maxScore
			result.Category = extremeCategory
			result.Error = fmt.Sprintf("internal failure: %v", r)
		}
	}()

	chain, err := token.ParseChain(chainName)
	if err != nil {
		result.Score = maxScore
		result.Category = extremeCategory
		result.Error = fmt.Sprintf("Unsupported chain: %s", chainName)
		return result
	}
	result.Chain = string(chain)

	addr, err := token.NormalizeAddress(address)
	if err != nil {
		result.Score = maxScore
		result.Category = extremeCategory
		result.Error = err.Error()
		return result
	}
	result.Address = addr

	unlock, err := a.locks.Lock(ctx, string(chain)+"/"+addr)
	if err != nil {
		result.Score = maxScore
		result.Category = extremeCategory
		result.Error = fmt.Sprintf("assessment cancelled: %v", err)
		return result
	}
	defer unlock()

	ctx, span := traces.StartSpan(ctx, "assess",
		traces.Chain(string(chain)), traces.TokenAddr(addr))
	defer span.End()

	facts, health := a.runFetch(ctx, addr, chain)
	result.DegradedSources = health.DegradedSources()

	a.runStage(ctx, StageFlagDetection, func() {
		flags.Apply(facts)
	})
	a.runStage(ctx, StageComplianceCheck, func() {
		compliance.Classify(facts)
		compliance.ApplyStrictChecks(facts)
	})

	var scores map[scoring.Component]int
	a.runStage(ctx, StageScoring, func() {
		scores = scoring.ScoreAll(facts)
	})
	a.runStage(ctx, StageAggregation, func() {
		result.Score, result.Category = scoring.Aggregate(scores, facts.Onchain.RedFlags)
	})

	result.Symbol = facts.Market.Symbol
	result.RedFlags = facts.RedFlagNames()
	result.IsStablecoin = facts.IsStablecoin
	result.EUComplianceStatus = compliance.StatusSummary(facts)
	result.MiCACategory = facts.MiCACategory
	result.ComponentScores = facts.ComponentScores
	result.Facts = facts

	span.SetAttributes(traces.Category(result.Category))
	metrics.ObserveAssessment(result.Category, time.Since(start), facts.ComponentScores, result.RedFlags)
	logging.WithToken(ctx, string(chain), addr).Info("assessment complete",
		"symbol", result.Symbol,
		"score", result.Score,
		"category", result.Category,
		"red_flags", len(result.RedFlags),
		"degraded_sources", result.DegradedSources,
	)

	if a.store != nil {
		if err := a.store.Record(ctx, result); err != nil {
			logging.L(ctx).Warn("failed to persist assessment", "error", err)
		}
	}

	return result
}

func (a *Assessor) runFetch(ctx context.Context, addr string, chain token.Chain) (*token.FactRecord, *gateway.SourceHealth) {
	ctx, span := traces.StartSpan(ctx, string(StageFetching), traces.Stage(string(StageFetching)))
	defer span.End()
	return a.gw.Fetch(ctx, addr, chain)
}

func (a *Assessor) runStage(ctx context.Context, stage Stage, fn func()) {
	_, span := traces.StartSpan(ctx, string(stage), traces.Stage(string(stage)))
	defer span.End()
	fn()
}
