// Package marketregime classifies the overall market as RISK_ON, NEUTRAL, or
// RISK_OFF from index trends, breadth, and volatility, and maintains the
// cached MarketContext the rest of the system consumes.
package marketregime

import (
	"fmt"

	"github.com/oakmont/vantage/internal/domain"
)

// ============================================================================
// REGIME POINT RULES
// ============================================================================

const (
	indexTrendPoints     = 25.0
	above200DMAPoints    = 20.0
	breadthPoints        = 25.0
	advanceDeclinePoints = 10.0
	volatilityPoints     = 15.0

	indexMajorityCount = 3 // of 4 indices

	adRatioBullish = 1.5
	adRatioBearish = 0.67

	vixCalmLevel = 20.0

	riskOnThreshold  = 30.0
	riskOffThreshold = -30.0

	// Net magnitude at or beyond this is a decisive classification.
	highConfidenceMargin = 50.0
)

// Verdict is the output of the regime classifier.
type Verdict struct {
	Regime     domain.MarketRegime
	Confidence domain.Confidence
	Reasons    []string
}

// Evaluator accumulates independent risk-on and risk-off scores from additive
// point rules. Stateless and safe for concurrent use.
type Evaluator struct{}

// NewEvaluator creates the market regime evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate classifies the regime. Reasons are appended in evaluation order
// and the regime label is always prepended first; the list is the audit
// trail and its order is part of the contract.
func (e *Evaluator) Evaluate(indices []domain.IndexState, breadth domain.BreadthData, vol domain.VolatilityData) Verdict {
	var riskOn, riskOff float64
	var reasons []string

	trendingUp, trendingDown := 0, 0
	above200, below200 := 0, 0
	for _, idx := range indices {
		switch idx.Trend {
		case domain.TrendUp:
			trendingUp++
		case domain.TrendDown:
			trendingDown++
		}
		if idx.Above200DMA {
			above200++
		} else {
			below200++
		}
	}

	if trendingUp >= indexMajorityCount {
		riskOn += indexTrendPoints
		reasons = append(reasons, fmt.Sprintf("%d of %d major indices trending up (+%.0f risk-on)", trendingUp, len(indices), indexTrendPoints))
	} else if trendingDown >= indexMajorityCount {
		riskOff += indexTrendPoints
		reasons = append(reasons, fmt.Sprintf("%d of %d major indices trending down (+%.0f risk-off)", trendingDown, len(indices), indexTrendPoints))
	}

	if above200 >= indexMajorityCount {
		riskOn += above200DMAPoints
		reasons = append(reasons, fmt.Sprintf("%d of %d indices above 200DMA (+%.0f risk-on)", above200, len(indices), above200DMAPoints))
	} else if below200 >= indexMajorityCount {
		riskOff += above200DMAPoints
		reasons = append(reasons, fmt.Sprintf("%d of %d indices below 200DMA (+%.0f risk-off)", below200, len(indices), above200DMAPoints))
	}

	switch breadth.Health {
	case domain.BreadthStrong:
		riskOn += breadthPoints
		reasons = append(reasons, fmt.Sprintf("Breadth strong (+%.0f risk-on)", breadthPoints))
	case domain.BreadthWeak:
		riskOff += breadthPoints
		reasons = append(reasons, fmt.Sprintf("Breadth weak (+%.0f risk-off)", breadthPoints))
	}

	if breadth.AdvanceDecline > adRatioBullish {
		riskOn += advanceDeclinePoints
		reasons = append(reasons, fmt.Sprintf("Advance/decline %.2f bullish (+%.0f risk-on)", breadth.AdvanceDecline, advanceDeclinePoints))
	} else if breadth.AdvanceDecline > 0 && breadth.AdvanceDecline < adRatioBearish {
		riskOff += advanceDeclinePoints
		reasons = append(reasons, fmt.Sprintf("Advance/decline %.2f bearish (+%.0f risk-off)", breadth.AdvanceDecline, advanceDeclinePoints))
	}

	if vol.Elevated {
		riskOff += volatilityPoints
		reasons = append(reasons, fmt.Sprintf("VIX %.1f elevated (+%.0f risk-off)", vol.VIX, volatilityPoints))
	} else if vol.VIX > 0 && vol.VIX < vixCalmLevel {
		riskOn += volatilityPoints
		reasons = append(reasons, fmt.Sprintf("VIX %.1f calm (+%.0f risk-on)", vol.VIX, volatilityPoints))
	}

	net := riskOn - riskOff
	regime := domain.RegimeNeutral
	switch {
	case net >= riskOnThreshold:
		regime = domain.RegimeRiskOn
	case net <= riskOffThreshold:
		regime = domain.RegimeRiskOff
	}

	confidence := domain.ConfidenceMedium
	if net >= highConfidenceMargin || net <= -highConfidenceMargin {
		confidence = domain.ConfidenceHigh
	}

	ordered := make([]string, 0, len(reasons)+2)
	ordered = append(ordered, "Market regime: "+regimeLabel(regime))
	ordered = append(ordered, fmt.Sprintf("Net score %+.0f (risk-on %.0f, risk-off %.0f)", net, riskOn, riskOff))
	ordered = append(ordered, reasons...)

	return Verdict{Regime: regime, Confidence: confidence, Reasons: ordered}
}

func regimeLabel(r domain.MarketRegime) string {
	switch r {
	case domain.RegimeRiskOn:
		return "RISK ON"
	case domain.RegimeRiskOff:
		return "RISK OFF"
	default:
		return "NEUTRAL"
	}
}
