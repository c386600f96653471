// Package playbook matches the combined signal state against a fixed library
// of named strategy patterns and tracks every shown instance in an
// append-only ledger for unbiased outcome measurement.
package playbook

import (
	"github.com/oakmont/vantage/internal/domain"
)

// Playbook names. Precedence is the order of the definitions table: when
// several match, the earliest wins; at most one playbook is ever active.
const (
	TrendContinuation = "TREND_CONTINUATION"
	PullbackEntry     = "PULLBACK_ENTRY"
	BaseBreakout      = "BASE_BREAKOUT"
	MeanReversion     = "MEAN_REVERSION"
	DefensiveHold     = "DEFENSIVE_HOLD"
)

// MatchInput is the combined signal state the matcher reads.
type MatchInput struct {
	Symbol          string
	Price           float64
	StrategicScore  float64
	StrategicStatus domain.StrategicStatus
	TacticalScore   float64
	Confirmation    domain.OverallSignal
	MarketRegime    domain.MarketRegime
	SectorRegime    domain.SectorRegime
	RSI             float64
	TrendUp         bool
	VolumeRatio     float64
	High52WkPct     float64
}

// Definition is one pre-authored strategy pattern: a predicate plus the
// guidance text shown when it fires.
type Definition struct {
	Name     string
	Guidance string
	Matches  func(MatchInput) bool
}

// definitions in precedence order.
var definitions = []Definition{
	{
		Name:     TrendContinuation,
		Guidance: "Established uptrend in a structurally sound name; add on strength, stop below the 20-day average.",
		Matches: func(in MatchInput) bool {
			return in.StrategicStatus == domain.StrategicEligible &&
				in.TacticalScore >= 70 &&
				in.TrendUp &&
				in.Confirmation != domain.Disconfirm &&
				in.Confirmation != domain.StrongDisconfirm
		},
	},
	{
		Name:     PullbackEntry,
		Guidance: "Quality name resting 5-15% off its high with cooled momentum; scale in on stabilization.",
		Matches: func(in MatchInput) bool {
			return in.StrategicStatus == domain.StrategicEligible &&
				in.High52WkPct >= 5 && in.High52WkPct <= 15 &&
				in.RSI >= 35 && in.RSI <= 50 &&
				in.SectorRegime != domain.SectorAvoid
		},
	},
	{
		Name:     BaseBreakout,
		Guidance: "Price pressing the 52-week high on expanding volume; breakout entry with a tight invalidation.",
		Matches: func(in MatchInput) bool {
			return in.High52WkPct < 5 &&
				in.VolumeRatio > 1.5 &&
				in.TacticalScore >= 60
		},
	},
	{
		Name:     MeanReversion,
		Guidance: "Oversold reading in a name still structurally intact; countertrend entry, small size, quick exit.",
		Matches: func(in MatchInput) bool {
			return in.RSI < 30 &&
				in.StrategicScore >= 50 &&
				in.SectorRegime != domain.SectorAvoid &&
				in.MarketRegime != domain.RegimeRiskOff
		},
	},
	{
		Name:     DefensiveHold,
		Guidance: "Risk-off tape around a structurally eligible holding; hold, hedge, or trim - no new risk.",
		Matches: func(in MatchInput) bool {
			return in.MarketRegime == domain.RegimeRiskOff &&
				in.StrategicStatus == domain.StrategicEligible
		},
	},
}

// Definitions returns the library in precedence order.
func Definitions() []Definition {
	return definitions
}
