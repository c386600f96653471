// Package tactical implements the Tactical Sentinel evaluator: the 0-4 month
// timing model. It produces a raw 0-100 timing quality score; actionability
// (the TRADE/WATCH/AVOID status) is resolved downstream by the decision
// composer once market regime and confirmation context are available.
package tactical

import (
	"fmt"

	"github.com/oakmont/vantage/internal/domain"
)

// Evaluator scores tactical inputs. Stateless and safe for concurrent use.
type Evaluator struct{}

// NewEvaluator creates the Tactical Sentinel evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate scores the seven timing factors and aggregates them into a raw
// evaluation. The returned value carries no status; wrap it with
// domain.TacticalSentinelEvaluation once context is known.
func (e *Evaluator) Evaluate(in domain.TacticalInputs) domain.TacticalRawEvaluation {
	factors := []domain.EvaluationDetail{
		scoreTechnicalAlignment(in),
		scoreMomentumRegime(in),
		scoreLiquidityTriggers(in),
		scoreSentimentContext(in),
		scoreEventProximity(in),
		scoreTimeStop(in),
		scoreOpportunityRank(in),
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

	eval := domain.TacticalRawEvaluation{
		Symbol:  in.Symbol,
		Score:   total,
		Factors: factors,
	}
	eval.EntryQuality, eval.Risks, eval.FailureTrigger = summarize(factors)
	return eval
}

func summarize(factors []domain.EvaluationDetail) (entryQuality, risks []string, failureTrigger string) {
	worstRatio := 2.0
	for _, f := range factors {
		switch f.Status {
		case domain.FactorPass:
			entryQuality = append(entryQuality, f.Summary)
		case domain.FactorCaution:
			risks = append(risks, f.Summary)
		case domain.FactorFail:
			if f.Ratio() < worstRatio {
				worstRatio = f.Ratio()
				failureTrigger = f.Summary
				if len(f.Breakdown) > 0 {
					failureTrigger = f.Breakdown[0]
				}
			}
		}
	}
	return entryQuality, risks, failureTrigger
}

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

func scoreTechnicalAlignment(in domain.TacticalInputs) domain.EvaluationDetail {
	score := 0.0
	var breakdown []string

	if in.PriceAboveMA20 {
		score += priceAboveMA20Points
		breakdown = append(breakdown, fmt.Sprintf("Price above 20-day MA (+%.0f)", priceAboveMA20Points))
	} else {
		breakdown = append(breakdown, "Price below 20-day MA (+0)")
	}
	if in.MA20AboveMA50 {
		score += ma20AboveMA50Points
		breakdown = append(breakdown, fmt.Sprintf("20-day MA above 50-day MA (+%.0f)", ma20AboveMA50Points))
	} else {
		breakdown = append(breakdown, "20-day MA below 50-day MA (+0)")
	}
	if in.TrendUp {
		score += trendUpPoints
		breakdown = append(breakdown, fmt.Sprintf("Trend classified UP (+%.0f)", trendUpPoints))
	} else {
		breakdown = append(breakdown, "Trend not UP (+0)")
	}

	summary := "Short-term technical stack"
	return detail("Technical Alignment", score, WeightTechnicalAlignment, summary, breakdown)
}

func scoreMomentumRegime(in domain.TacticalInputs) domain.EvaluationDetail {
	score := 0.0
	var breakdown []string

	switch {
	case in.RSI > rsiMomentumLow && in.RSI < rsiMomentumHigh:
		score += rsiMomentumPoints
		breakdown = append(breakdown, fmt.Sprintf("RSI %.1f in momentum zone (+%.0f)", in.RSI, rsiMomentumPoints))
	case in.RSI >= rsiAcceptableLow && in.RSI <= rsiAcceptableHigh:
		score += rsiAcceptablePoints
		breakdown = append(breakdown, fmt.Sprintf("RSI %.1f acceptable (+%.0f)", in.RSI, rsiAcceptablePoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("RSI %.1f extreme (+0)", in.RSI))
	}

	switch {
	case in.VolumeRatio > volumeSurgeRatio:
		score += volumeSurgePoints
		breakdown = append(breakdown, fmt.Sprintf("Volume %.1fx average, surging (+%.0f)", in.VolumeRatio, volumeSurgePoints))
	case in.VolumeRatio > 1.0:
		score += volumeHealthyPoints
		breakdown = append(breakdown, fmt.Sprintf("Volume %.1fx average (+%.0f)", in.VolumeRatio, volumeHealthyPoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("Volume %.1fx average, thin (+0)", in.VolumeRatio))
	}

	summary := fmt.Sprintf("Momentum: RSI %.1f, volume %.1fx", in.RSI, in.VolumeRatio)
	return detail("Momentum Regime", score, WeightMomentumRegime, summary, breakdown)
}

func scoreLiquidityTriggers(in domain.TacticalInputs) domain.EvaluationDetail {
	score := 0.0
	var breakdown []string

	switch {
	case in.BidAskSpreadPct < spreadTightPct:
		score += spreadTightPoints
		breakdown = append(breakdown, fmt.Sprintf("Spread %.2f%% tight (+%.0f)", in.BidAskSpreadPct, spreadTightPoints))
	case in.BidAskSpreadPct < spreadWorkablePct:
		score += spreadWorkablePoints
		breakdown = append(breakdown, fmt.Sprintf("Spread %.2f%% workable (+%.0f)", in.BidAskSpreadPct, spreadWorkablePoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("Spread %.2f%% wide (+0)", in.BidAskSpreadPct))
	}

	switch {
	case in.ATRPercent >= atrTradableLowPct && in.ATRPercent <= atrTradableHighPct:
		score += atrTradablePoints
		breakdown = append(breakdown, fmt.Sprintf("ATR %.1f%% tradable range (+%.0f)", in.ATRPercent, atrTradablePoints))
	case in.ATRPercent > atrTradableHighPct && in.ATRPercent < atrWildPct:
		score += atrWorkablePoints
		breakdown = append(breakdown, fmt.Sprintf("ATR %.1f%% hot but workable (+%.0f)", in.ATRPercent, atrWorkablePoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("ATR %.1f%% outside tradable range (+0)", in.ATRPercent))
	}

	summary := fmt.Sprintf("Liquidity: spread %.2f%%, ATR %.1f%%", in.BidAskSpreadPct, in.ATRPercent)
	return detail("Liquidity Triggers", score, WeightLiquidityTriggers, summary, breakdown)
}

func scoreSentimentContext(in domain.TacticalInputs) domain.EvaluationDetail {
	score := 0.0
	var breakdown []string

	switch {
	case in.PutCallRatio > 0 && in.PutCallRatio < putCallBullish:
		score += putCallBullishPoints
		breakdown = append(breakdown, fmt.Sprintf("Put/call %.2f bullish (+%.0f)", in.PutCallRatio, putCallBullishPoints))
	case in.PutCallRatio <= putCallNeutral:
		score += putCallNeutralPoints
		breakdown = append(breakdown, fmt.Sprintf("Put/call %.2f balanced (+%.0f)", in.PutCallRatio, putCallNeutralPoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("Put/call %.2f defensive (+0)", in.PutCallRatio))
	}

	switch {
	case in.AnalystRating >= analystStrongRating:
		score += analystStrongPoints
		breakdown = append(breakdown, fmt.Sprintf("Analyst rating %.1f strong (+%.0f)", in.AnalystRating, analystStrongPoints))
	case in.AnalystRating >= analystNeutralRating:
		score += analystNeutralPoints
		breakdown = append(breakdown, fmt.Sprintf("Analyst rating %.1f neutral (+%.0f)", in.AnalystRating, analystNeutralPoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("Analyst rating %.1f weak (+0)", in.AnalystRating))
	}

	// Both a dead name and a crowded meme trade are timing hazards.
	if in.SocialPercentile >= socialHealthyLow && in.SocialPercentile <= socialHealthyHigh {
		score += socialHealthyPoints
		breakdown = append(breakdown, fmt.Sprintf("Social attention %.0fth percentile healthy (+%.0f)", in.SocialPercentile, socialHealthyPoints))
	} else {
		breakdown = append(breakdown, fmt.Sprintf("Social attention %.0fth percentile extreme (+0)", in.SocialPercentile))
	}

	summary := fmt.Sprintf("Sentiment: put/call %.2f, rating %.1f", in.PutCallRatio, in.AnalystRating)
	return detail("Sentiment Context", score, WeightSentimentContext, summary, breakdown)
}

// scoreEventProximity starts at max and subtracts for known upcoming hazards.
// A risk budget being consumed, not credit earned.
func scoreEventProximity(in domain.TacticalInputs) domain.EvaluationDetail {
	score := WeightEventProximity
	var breakdown []string

	switch {
	case in.DaysToEarnings >= 0 && in.DaysToEarnings < earningsImminentDays:
		score -= earningsImminentPenalty
		breakdown = append(breakdown, fmt.Sprintf("Earnings in %d days, imminent (-%.0f)", in.DaysToEarnings, earningsImminentPenalty))
	case in.DaysToEarnings >= 0 && in.DaysToEarnings < earningsSoonDays:
		score -= earningsSoonPenalty
		breakdown = append(breakdown, fmt.Sprintf("Earnings in %d days (-%.0f)", in.DaysToEarnings, earningsSoonPenalty))
	case in.DaysToEarnings >= 0 && in.DaysToEarnings < earningsNearDays:
		score -= earningsNearPenalty
		breakdown = append(breakdown, fmt.Sprintf("Earnings in %d days (-%.0f)", in.DaysToEarnings, earningsNearPenalty))
	case in.DaysToEarnings < 0:
		score -= earningsUnknownPenalty
		breakdown = append(breakdown, fmt.Sprintf("Earnings date unknown (-%.0f)", earningsUnknownPenalty))
	default:
		breakdown = append(breakdown, fmt.Sprintf("Earnings %d days out, clear (-0)", in.DaysToEarnings))
	}

	switch {
	case in.IVRank > ivRankExtreme:
		score -= ivRankExtremePenalty
		breakdown = append(breakdown, fmt.Sprintf("IV rank %.0f extreme (-%.0f)", in.IVRank, ivRankExtremePenalty))
	case in.IVRank > ivRankElevated:
		score -= ivRankElevatedPenalty
		breakdown = append(breakdown, fmt.Sprintf("IV rank %.0f elevated (-%.0f)", in.IVRank, ivRankElevatedPenalty))
	default:
		breakdown = append(breakdown, fmt.Sprintf("IV rank %.0f normal (-0)", in.IVRank))
	}

	summary := fmt.Sprintf("Event risk: earnings %d days, IV rank %.0f", in.DaysToEarnings, in.IVRank)
	return detail("Event Proximity", score, WeightEventProximity, summary, breakdown)
}

// scoreTimeStop starts at max and subtracts as the trade consumes its
// allotted window. Not-in-trade symbols keep the full score.
func scoreTimeStop(in domain.TacticalInputs) domain.EvaluationDetail {
	score := WeightTimeStop
	var breakdown []string

	usedPct := 0.0
	if in.MaxTradeDays > 0 {
		usedPct = float64(in.DaysInTrade) / float64(in.MaxTradeDays) * 100
	}

	switch {
	case usedPct < timeStopMildPct:
		breakdown = append(breakdown, fmt.Sprintf("Trade window %.0f%% consumed, clear", usedPct))
	case usedPct < timeStopModeratePct:
		score -= timeStopMildPenalty
		breakdown = append(breakdown, fmt.Sprintf("Trade window %.0f%% consumed (-%.0f)", usedPct, timeStopMildPenalty))
	case usedPct < 100:
		score -= timeStopModeratePenalty
		breakdown = append(breakdown, fmt.Sprintf("Trade window %.0f%% consumed (-%.0f)", usedPct, timeStopModeratePenalty))
	default:
		score -= timeStopFullPenalty
		breakdown = append(breakdown, fmt.Sprintf("Trade window exhausted at %.0f%% (-%.0f)", usedPct, timeStopFullPenalty))
	}

	summary := fmt.Sprintf("Time stop %.0f%% consumed", usedPct)
	return detail("Time-Stop Logic", score, WeightTimeStop, summary, breakdown)
}

func scoreOpportunityRank(in domain.TacticalInputs) domain.EvaluationDetail {
	score := 0.0
	var breakdown []string

	switch {
	case in.High52WkPct < nearHighPct:
		score += nearHighPoints
		breakdown = append(breakdown, fmt.Sprintf("%.1f%% below 52-week high, near breakout (+%.0f)", in.High52WkPct, nearHighPoints))
	case in.High52WkPct < pullbackPct:
		score += pullbackPoints
		breakdown = append(breakdown, fmt.Sprintf("%.1f%% below 52-week high, pullback zone (+%.0f)", in.High52WkPct, pullbackPoints))
	case in.High52WkPct < correctionPct:
		score += correctionPoints
		breakdown = append(breakdown, fmt.Sprintf("%.1f%% below 52-week high, correction (+%.0f)", in.High52WkPct, correctionPoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("%.1f%% below 52-week high, broken (+0)", in.High52WkPct))
	}

	switch {
	case in.SectorRankPercent >= sectorLeaderPct:
		score += sectorLeaderPoints
		breakdown = append(breakdown, fmt.Sprintf("Sector strength %.0fth percentile, leader (+%.0f)", in.SectorRankPercent, sectorLeaderPoints))
	case in.SectorRankPercent >= sectorMidPct:
		score += sectorMidPoints
		breakdown = append(breakdown, fmt.Sprintf("Sector strength %.0fth percentile (+%.0f)", in.SectorRankPercent, sectorMidPoints))
	default:
		breakdown = append(breakdown, fmt.Sprintf("Sector strength %.0fth percentile, laggard (+0)", in.SectorRankPercent))
	}

	summary := fmt.Sprintf("Opportunity: %.1f%% off high, sector rank %.0f", in.High52WkPct, in.SectorRankPercent)
	return detail("Opportunity Ranking", score, WeightOpportunityRank, summary, breakdown)
}
