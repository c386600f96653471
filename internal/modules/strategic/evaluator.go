// Package strategic implements the Strategic Growth evaluator: the 4-9 month
// structural quality model. Seven weighted factors score a symbol 0-100 and
// classify it ELIGIBLE, WATCH, or REJECT.
package strategic

import (
	"fmt"

	"github.com/oakmont/vantage/internal/domain"
)

// Evaluator scores strategic inputs. Stateless and safe for concurrent use.
type Evaluator struct{}

// NewEvaluator creates the Strategic Growth evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate scores all seven factors and aggregates them. Total function:
// always returns a complete evaluation, missing inputs score their
// documented defaults.
func (e *Evaluator) Evaluate(in domain.StrategicInputs) domain.StrategicGrowthEvaluation {
	factors := []domain.EvaluationDetail{
		scoreRiskGuardrails(in),
		scoreMarketVolatility(in),
		scoreMacroAlignment(in),
		scoreInstitutional(in),
		scoreFundamentalAccel(in),
		scoreWeeklyTechnical(in),
		scoreThesisDecay(in),
	}

	total := 0.0
	for _, f := range factors {
		total += f.Score
	}
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	eval := domain.StrategicGrowthEvaluation{
		Symbol:  in.Symbol,
		Score:   total,
		Status:  statusForTotal(total),
		Factors: factors,
	}
	eval.Positives, eval.Risks, eval.FailureMode = summarize(factors)
	return eval
}

func statusForTotal(score float64) domain.StrategicStatus {
	switch {
	case score >= domain.EligibleMinScore:
		return domain.StrategicEligible
	case score >= domain.WatchMinScore:
		return domain.StrategicWatch
	default:
		return domain.StrategicReject
	}
}

// summarize buckets factors by status. The failure mode is the failing
// factor with the lowest score ratio, described by its first breakdown line.
func summarize(factors []domain.EvaluationDetail) (positives, risks []string, failureMode string) {
	worstRatio := 2.0
	for _, f := range factors {
		switch f.Status {
		case domain.FactorPass:
			positives = append(positives, f.Summary)
		case domain.FactorCaution:
			risks = append(risks, f.Summary)
		case domain.FactorFail:
			if f.Ratio() < worstRatio {
				worstRatio = f.Ratio()
				failureMode = f.Summary
				if len(f.Breakdown) > 0 {
					failureMode = f.Breakdown[0]
				}
			}
		}
	}
	return positives, risks, failureMode
}

// detail assembles an EvaluationDetail, clamping the score into [0, max].
func detail(name string, score, max float64, summary string, breakdown []string) domain.EvaluationDetail {
	if score < 0 {
		score = 0
	}
	if score > max {
		score = max
	}
	return domain.EvaluationDetail{
		Name:      name,
		Score:     score,
		MaxScore:  max,
		Status:    domain.StatusForScore(score, max),
		Summary:   summary,
		Breakdown: breakdown,
	}
}

// scoreRiskGuardrails starts at max and subtracts for portfolio-level
// concentration breaches. A risk budget, not an earned credit.
func scoreRiskGuardrails(in domain.StrategicInputs) domain.EvaluationDetail {
	score := WeightRiskGuardrails
	var breakdown []string

	if in.PortfolioConcentration > concentrationLimitPct {
		score -= guardrailPenalty
		breakdown = append(breakdown, fmt.Sprintf("Portfolio concentration %.1f%% exceeds %.0f%% limit (-%.0f)", in.PortfolioConcentration, concentrationLimitPct, guardrailPenalty))
	} else {
		breakdown = append(breakdown, fmt.Sprintf("Portfolio concentration %.1f%% within limits", in.PortfolioConcentration))
	}

	if in.SectorExposurePct > sectorExposureLimitPct {
		score -= guardrailPenalty
		breakdown = append(breakdown, fmt.Sprintf("Sector exposure %.1f%% exceeds %.0f%% limit (-%.0f)", in.SectorExposurePct, sectorExposureLimitPct, guardrailPenalty))
	} else {
		breakdown = append(breakdown, fmt.Sprintf("Sector exposure %.1f%% within limits", in.SectorExposurePct))
	}

	summary := "Portfolio guardrails clear"
	if score < WeightRiskGuardrails {
		summary = "Portfolio guardrails under pressure"
	}
	return detail("Risk & Portfolio Guardrails", score, WeightRiskGuardrails, summary, breakdown)
}

func scoreMarketVolatility(in domain.StrategicInputs) domain.EvaluationDetail {
	score := 0.0
	var breakdown []string

	switch {
	case in.VIX < vixCalmThreshold:
		score += vixCalmPoints
		breakdown = append(breakdown, fmt.Sprintf("VIX %.1f calm (+%.0f)", in.VIX, vixCalmPoints))
	case in.VIX < vixElevatedThreshold:
		score += vixElevatedPoints
		breakdown = append(breakdown, fmt.Sprintf("VIX %.1f elevated (+%.0f)", in.VIX, vixElevatedPoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("VIX %.1f stressed (+0)", in.VIX))
	}

	switch in.MarketTrend {
	case "bullish":
		score += trendBullishPoints
		breakdown = append(breakdown, fmt.Sprintf("Market trend bullish (+%.0f)", trendBullishPoints))
	case "neutral":
		score += trendNeutralPoints
		breakdown = append(breakdown, fmt.Sprintf("Market trend neutral (+%.0f)", trendNeutralPoints))
	default:
		breakdown = append(breakdown, "Market trend bearish (+0)")
	}

	summary := fmt.Sprintf("Market backdrop: VIX %.1f, trend %s", in.VIX, in.MarketTrend)
	return detail("Market & Volatility Regime", score, WeightMarketVolatility, summary, breakdown)
}

func scoreMacroAlignment(in domain.StrategicInputs) domain.EvaluationDetail {
	score := 0.0
	var breakdown []string

	switch {
	case in.GDPGrowthPct > gdpStrongPct:
		score += gdpStrongPoints
		breakdown = append(breakdown, fmt.Sprintf("GDP growth %.1f%% strong (+%.0f)", in.GDPGrowthPct, gdpStrongPoints))
	case in.GDPGrowthPct > 0:
		score += gdpWeakPoints
		breakdown = append(breakdown, fmt.Sprintf("GDP growth %.1f%% positive (+%.0f)", in.GDPGrowthPct, gdpWeakPoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("GDP growth %.1f%% contracting (+0)", in.GDPGrowthPct))
	}

	switch in.RateTrend {
	case "falling":
		score += ratesFallingPoints
		breakdown = append(breakdown, fmt.Sprintf("Rates falling (+%.0f)", ratesFallingPoints))
	case "stable":
		score += ratesStablePoints
		breakdown = append(breakdown, fmt.Sprintf("Rates stable (+%.0f)", ratesStablePoints))
	default:
		score += ratesRisingPoints
		breakdown = append(breakdown, fmt.Sprintf("Rates rising (+%.0f)", ratesRisingPoints))
	}

	summary := fmt.Sprintf("Macro: GDP %.1f%%, rates %s", in.GDPGrowthPct, in.RateTrend)
	return detail("Macro Alignment", score, WeightMacroAlignment, summary, breakdown)
}

func scoreInstitutional(in domain.StrategicInputs) domain.EvaluationDetail {
	score := 0.0
	var breakdown []string

	switch {
	case in.InstitutionalOwnPct > ownershipHighPct:
		score += ownershipHighPoints
		breakdown = append(breakdown, fmt.Sprintf("Institutional ownership %.1f%% high (+%.0f)", in.InstitutionalOwnPct, ownershipHighPoints))
	case in.InstitutionalOwnPct > ownershipMediumPct:
		score += ownershipMedPoints
		breakdown = append(breakdown, fmt.Sprintf("Institutional ownership %.1f%% moderate (+%.0f)", in.InstitutionalOwnPct, ownershipMedPoints))
	default:
		score += ownershipLowPoints
		breakdown = append(breakdown, fmt.Sprintf("Institutional ownership %.1f%% light (+%.0f)", in.InstitutionalOwnPct, ownershipLowPoints))
	}

	switch in.InstitutionalActivity {
	case "buying":
		score += activityBuyingPoints
		breakdown = append(breakdown, fmt.Sprintf("Institutions accumulating (+%.0f)", activityBuyingPoints))
	case "neutral":
		score += activityNeutralPoints
		breakdown = append(breakdown, fmt.Sprintf("Institutional activity neutral (+%.0f)", activityNeutralPoints))
	default:
		breakdown = append(breakdown, "Institutions distributing (+0)")
	}

	summary := fmt.Sprintf("Institutions: %.0f%% owned, %s", in.InstitutionalOwnPct, in.InstitutionalActivity)
	return detail("Institutional Signals", score, WeightInstitutional, summary, breakdown)
}

func scoreFundamentalAccel(in domain.StrategicInputs) domain.EvaluationDetail {
	score := 0.0
	var breakdown []string

	switch {
	case in.RevenueGrowthPct > revenueStrongPct:
		score += revenueStrongPoints
		breakdown = append(breakdown, fmt.Sprintf("Revenue growth %.1f%% strong (+%.0f)", in.RevenueGrowthPct, revenueStrongPoints))
	case in.RevenueGrowthPct > revenueSolidPct:
		score += revenueSolidPoints
		breakdown = append(breakdown, fmt.Sprintf("Revenue growth %.1f%% solid (+%.0f)", in.RevenueGrowthPct, revenueSolidPoints))
	case in.RevenueGrowthPct > 0:
		score += revenuePositivePoints
		breakdown = append(breakdown, fmt.Sprintf("Revenue growth %.1f%% positive (+%.0f)", in.RevenueGrowthPct, revenuePositivePoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("Revenue growth %.1f%% negative (+0)", in.RevenueGrowthPct))
	}

	switch {
	case in.EarningsAccelerationPct > epsAccelStrongPct:
		score += epsAccelStrongPoints
		breakdown = append(breakdown, fmt.Sprintf("EPS acceleration %.1f%% strong (+%.0f)", in.EarningsAccelerationPct, epsAccelStrongPoints))
	case in.EarningsAccelerationPct > epsAccelSolidPct:
		score += epsAccelSolidPoints
		breakdown = append(breakdown, fmt.Sprintf("EPS acceleration %.1f%% solid (+%.0f)", in.EarningsAccelerationPct, epsAccelSolidPoints))
	case in.EarningsAccelerationPct > 0:
		score += epsAccelPositivePoints
		breakdown = append(breakdown, fmt.Sprintf("EPS acceleration %.1f%% positive (+%.0f)", in.EarningsAccelerationPct, epsAccelPositivePoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("EPS acceleration %.1f%% decelerating (+0)", in.EarningsAccelerationPct))
	}

	summary := fmt.Sprintf("Growth: revenue %.1f%%, EPS acceleration %.1f%%", in.RevenueGrowthPct, in.EarningsAccelerationPct)
	return detail("Fundamental Acceleration", score, WeightFundamentalAccel, summary, breakdown)
}

func scoreWeeklyTechnical(in domain.StrategicInputs) domain.EvaluationDetail {
	score := 0.0
	var breakdown []string

	if in.WeeklyMAAlignment {
		score += maAlignmentPoints
		breakdown = append(breakdown, fmt.Sprintf("Weekly moving averages aligned (+%.0f)", maAlignmentPoints))
	} else {
		breakdown = append(breakdown, "Weekly moving averages not aligned (+0)")
	}

	switch {
	case in.WeeklyRSI > rsiSweetLow && in.WeeklyRSI < rsiSweetHigh:
		score += rsiSweetPoints
		breakdown = append(breakdown, fmt.Sprintf("Weekly RSI %.1f in momentum zone (+%.0f)", in.WeeklyRSI, rsiSweetPoints))
	case in.WeeklyRSI >= rsiTolerableLow && in.WeeklyRSI <= rsiTolerableHigh:
		score += rsiTolerablePoints
		breakdown = append(breakdown, fmt.Sprintf("Weekly RSI %.1f tolerable (+%.0f)", in.WeeklyRSI, rsiTolerablePoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("Weekly RSI %.1f extreme (+0)", in.WeeklyRSI))
	}

	summary := fmt.Sprintf("Weekly structure: aligned=%t, RSI %.1f", in.WeeklyMAAlignment, in.WeeklyRSI)
	return detail("Weekly Technical Structure", score, WeightWeeklyTechnical, summary, breakdown)
}

// scoreThesisDecay starts at max and subtracts as the holding consumes its
// expected validity window. Not-held positions keep the full score.
func scoreThesisDecay(in domain.StrategicInputs) domain.EvaluationDetail {
	score := WeightThesisDecay
	var breakdown []string

	usedPct := 0.0
	if in.MaxHoldingPeriodDays > 0 {
		usedPct = float64(in.DaysInPosition) / float64(in.MaxHoldingPeriodDays) * 100
	}

	switch {
	case usedPct < decayMildThresholdPct:
		breakdown = append(breakdown, fmt.Sprintf("Holding window %.0f%% consumed, thesis fresh", usedPct))
	case usedPct < decayModerateThresholdPct:
		score -= decayMildPenalty
		breakdown = append(breakdown, fmt.Sprintf("Holding window %.0f%% consumed (-%.0f)", usedPct, decayMildPenalty))
	case usedPct < 100:
		score -= decayModeratePenalty
		breakdown = append(breakdown, fmt.Sprintf("Holding window %.0f%% consumed (-%.0f)", usedPct, decayModeratePenalty))
	default:
		score -= decayFullPenalty
		breakdown = append(breakdown, fmt.Sprintf("Holding window exhausted at %.0f%% (-%.0f)", usedPct, decayFullPenalty))
	}

	summary := fmt.Sprintf("Thesis window %.0f%% consumed", usedPct)
	return detail("Time-Based Thesis Decay", score, WeightThesisDecay, summary, breakdown)
}
