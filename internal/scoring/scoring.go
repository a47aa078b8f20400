// Package scoring implements the 15-component weighted risk model.
//
// Each component maps the full fact record to an integer in [1,10]
// (higher = riskier) using tiered thresholds over whichever sources are
// available. Component scores are combined by fixed weights into a 0-150
// composite, red-flag boosts are added, and the result is classified
// into a risk category, subject to the compliance override.
//
// The universal bias is toward overestimating risk under uncertainty: a
// component that finds no usable data at all scores 7, not the neutral 5,
// and any internal scoring failure also resolves to 7.
package scoring

import (
	"math"

	"github.com/quantfi/tokenrisk/internal/compliance"
	"github.com/quantfi/tokenrisk/internal/metrics"
	"github.com/quantfi/tokenrisk/internal/token"
)

// Component names one of the fixed risk dimensions.
type Component string

const (
	IndustryImpact     Component = "industry_impact"
	TechInnovation     Component = "tech_innovation"
	WhitepaperQuality  Component = "whitepaper_quality"
	RoadmapAdherence   Component = "roadmap_adherence"
	BusinessModel      Component = "business_model"
	TeamExpertise      Component = "team_expertise"
	ManagementStrategy Component = "management_strategy"
	GlobalReach        Component = "global_reach"
	CodeSecurity       Component = "code_security"
	DevActivity        Component = "dev_activity"
	AMLData            Component = "aml_data"
	ComplianceData     Component = "compliance_data"
	MarketDynamics     Component = "market_dynamics"
	MarketingDemand    Component = "marketing_demand"
	ESGImpact          Component = "esg_impact"
)

// Weights are the fixed component weights. They sum to 1.0; the
// composite is Σ score·weight·10, so the pre-boost range is [10,150].
var Weights = map[Component]float64{
	IndustryImpact:     0.09,
	TechInnovation:     0.09,
	WhitepaperQuality:  0.07,
	RoadmapAdherence:   0.07,
	BusinessModel:      0.09,
	TeamExpertise:      0.08,
	ManagementStrategy: 0.07,
	GlobalReach:        0.05,
	CodeSecurity:       0.08,
	DevActivity:        0.07,
	AMLData:            0.05,
	ComplianceData:     0.05,
	MarketDynamics:     0.05,
	MarketingDemand:    0.06,
	ESGImpact:          0.02,
}

// flagBoosts maps each red flag to its fixed composite-score boost.
// Flags absent from this table contribute nothing.
var flagBoosts = map[token.Flag]float64{
	token.FlagProxyContract:          20,
	token.FlagHoneypotPattern:        30,
	token.FlagOwnerChange24h:         15,
	token.FlagLPLockExpiring:         25,
	token.FlagUnverifiedContract:     15,
	token.FlagLowLiquidity:           12,
	token.FlagHighConcentration:      15,
	token.FlagEUUnlicensedStablecoin: 50,
	token.FlagEURegulatoryIssues:     40,
	token.FlagMiCANonCompliant:       35,
	token.FlagMiCANoWhitepaper:       0,
}

const (
	baseScore = 5.0
	// defaultScore is returned when a component finds no usable data or
	// fails internally: unknown leans risky.
	defaultScore = 7

	minScore = 1
	maxScore = 10
	// Components that record explainability notes never score a full 10.
	maxExplainScore = 9

	minComposite = 0
	maxComposite = 150
)

// componentFn evaluates one component against a fact record, returning
// the raw (unclamped) score, whether any signal resolved, and optional
// explainability notes.
type componentFn func(*token.FactRecord) (score float64, found bool, notes []string)

// componentDef pairs a component with its scorer and clamp ceiling.
// Dispatch is by this fixed ordered table, never by name lookup.
type componentDef struct {
	name Component
	fn   componentFn
	max  int
}

// components is the fixed evaluation order.
var components = []componentDef{
	{IndustryImpact, scoreIndustryImpact, maxScore},
	{TechInnovation, scoreTechInnovation, maxScore},
	{WhitepaperQuality, scoreWhitepaperQuality, maxScore},
	{RoadmapAdherence, scoreRoadmapAdherence, maxScore},
	{BusinessModel, scoreBusinessModel, maxScore},
	{TeamExpertise, scoreTeamExpertise, maxScore},
	{ManagementStrategy, scoreManagementStrategy, maxScore},
	{GlobalReach, scoreGlobalReach, maxScore},
	{CodeSecurity, scoreCodeSecurity, maxScore},
	{DevActivity, scoreDevActivity, maxExplainScore},
	{AMLData, scoreAMLData, maxExplainScore},
	{ComplianceData, scoreComplianceData, maxExplainScore},
	{MarketDynamics, scoreMarketDynamics, maxScore},
	{MarketingDemand, scoreMarketingDemand, maxScore},
	{ESGImpact, scoreESGImpact, maxScore},
}

// Components returns the component names in evaluation order.
func Components() []Component {
	out := make([]Component, len(components))
	for i, c := range components {
		out[i] = c.name
	}
	return out
}

// ScoreAll evaluates every component against facts and returns the score
// map. Explainability notes for dev_activity, aml_data, and
// compliance_data are written back onto facts. Evaluation of one
// component can never abort the others.
func ScoreAll(facts *token.FactRecord) map[Component]int {
	scores := make(map[Component]int, len(components))
	for _, def := range components {
		score, notes := scoreOne(def, facts)
		scores[def.name] = score
		switch def.name {
		case DevActivity:
			facts.DevActivityIndicators = notes
		case AMLData:
			facts.AMLIndicators = notes
		case ComplianceData:
			facts.ComplianceIndicators = notes
		}
	}
	if facts.ComponentScores == nil {
		facts.ComponentScores = make(map[string]int, len(scores))
	}
	for name, s := range scores {
		facts.ComponentScores[string(name)] = s
	}
	return scores
}

// scoreOne runs a single component, converting panics and no-data
// outcomes into the conservative default.
func scoreOne(def componentDef, facts *token.FactRecord) (score int, notes []string) {
	defer func() {
		if recover() != nil {
			score, notes = defaultScore, nil
			metrics.ComponentFallbacksTotal.WithLabelValues(string(def.name)).Inc()
		}
	}()

	raw, found, notes := def.fn(facts)
	if !found {
		metrics.ComponentFallbacksTotal.WithLabelValues(string(def.name)).Inc()
		return defaultScore, append(notes, "insufficient data; defaulting to higher risk")
	}
	return clampInt(raw, minScore, def.max), notes
}

// Aggregate combines component scores into the 0-150 composite and
// classifies it. The compliance override, when present, takes precedence
// over the numeric thresholds.
func Aggregate(scores map[Component]int, flags token.FlagSet) (float64, string) {
	raw := 0.0
	for name, weight := range Weights {
		raw += float64(scores[name]) * weight * 10
	}
	for f := range flags {
		raw += flagBoosts[f]
	}
	raw = math.Min(maxComposite, math.Max(minComposite, raw))
	raw = math.Round(raw*100) / 100

	return raw, Classify(raw, flags)
}

// Classify maps a composite score to its category, honoring the
// compliance override first.
func Classify(score float64, flags token.FlagSet) string {
	if category, ok := compliance.OverrideCategory(flags); ok {
		return category
	}
	switch {
	case score <= 50:
		return "Low Risk"
	case score <= 100:
		return "Medium Risk"
	case score <= 120:
		return "High Risk"
	default:
		return "Extreme Risk"
	}
}

func clampInt(v float64, lo, hi int) int {
	n := int(math.Round(v))
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
