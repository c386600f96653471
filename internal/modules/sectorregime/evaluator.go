// Package sectorregime classifies a single sector as FAVORED, NEUTRAL, or
// AVOID from four categorical inputs via a simple additive scorer.
package sectorregime

import (
	"fmt"

	"github.com/oakmont/vantage/internal/domain"
)

const (
	favoredMinScore = 2
	avoidMaxScore   = -2
	highConfScore   = 3
)

// Inputs are the four categorical reads the scorer consumes. Each maps to
// +1, 0, or -1.
type Inputs struct {
	Sector           string
	RelativeStrength string // leading | neutral | lagging
	TrendHealth      string // healthy | neutral | deteriorating
	Volatility       string // low | normal | high
	MacroAlignment   string // aligned | neutral | opposed
}

// Evaluator is the additive sector scorer. Stateless.
type Evaluator struct{}

// NewEvaluator creates the sector regime evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate sums the four signed contributions into a score in [-4, +4] and
// classifies: FAVORED at +2 or better, AVOID at -2 or worse.
func (e *Evaluator) Evaluate(in Inputs) domain.SectorRegimeResult {
	score := 0
	var reasons []string

	add := func(delta int, label string) {
		score += delta
		reasons = append(reasons, fmt.Sprintf("%s (%+d)", label, delta))
	}

	switch in.RelativeStrength {
	case "leading":
		add(1, "Relative strength leading")
	case "lagging":
		add(-1, "Relative strength lagging")
	default:
		add(0, "Relative strength neutral")
	}

	switch in.TrendHealth {
	case "healthy":
		add(1, "Trend health good")
	case "deteriorating":
		add(-1, "Trend health deteriorating")
	default:
		add(0, "Trend health neutral")
	}

	switch in.Volatility {
	case "low":
		add(1, "Sector volatility low")
	case "high":
		add(-1, "Sector volatility high")
	default:
		add(0, "Sector volatility normal")
	}

	switch in.MacroAlignment {
	case "aligned":
		add(1, "Macro backdrop aligned")
	case "opposed":
		add(-1, "Macro backdrop opposed")
	default:
		add(0, "Macro backdrop neutral")
	}

	regime := domain.SectorNeutral
	switch {
	case score >= favoredMinScore:
		regime = domain.SectorFavored
	case score <= avoidMaxScore:
		regime = domain.SectorAvoid
	}

	confidence := domain.ConfidenceMedium
	if score >= highConfScore || score <= -highConfScore {
		confidence = domain.ConfidenceHigh
	}

	return domain.SectorRegimeResult{
		Sector:     in.Sector,
		Regime:     regime,
		Score:      score,
		Confidence: confidence,
		Reasons:    reasons,
	}
}

// InputsFromContext derives the categorical inputs for one sector from the
// cached market context. Unknown sectors read as fully neutral.
func InputsFromContext(mc *domain.MarketContext, sector string) Inputs {
	in := Inputs{
		Sector:           sector,
		RelativeStrength: "neutral",
		TrendHealth:      "neutral",
		Volatility:       "normal",
		MacroAlignment:   "neutral",
	}
	if mc == nil {
		return in
	}

	for _, s := range mc.Sectors {
		if s.Sector != sector {
			continue
		}
		switch s.Trend {
		case domain.TrendLeading:
			in.RelativeStrength = "leading"
		case domain.TrendLagging:
			in.RelativeStrength = "lagging"
		}
		break
	}

	switch mc.Breadth.Health {
	case domain.BreadthStrong:
		in.TrendHealth = "healthy"
	case domain.BreadthWeak:
		in.TrendHealth = "deteriorating"
	}

	switch {
	case mc.Volatility.Elevated:
		in.Volatility = "high"
	case mc.Volatility.VIX > 0 && mc.Volatility.VIX < 17:
		in.Volatility = "low"
	}

	switch mc.Regime {
	case domain.RegimeRiskOn:
		in.MacroAlignment = "aligned"
	case domain.RegimeRiskOff:
		in.MacroAlignment = "opposed"
	}
	return in
}
