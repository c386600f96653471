package confirmation

import (
	"fmt"

	"github.com/oakmont/vantage/internal/domain"
)

// Layer adjustment bounds. Individual layers stay inside this range so the
// five-layer net stays a small perturbation, never a decision by itself.
const (
	maxLayerAdjustment = 4
	minLayerAdjustment = -5
)

// insiderHeavySellingShares is the 90-day net share threshold treated as a
// deliberate exit rather than routine compensation selling.
const insiderHeavySellingShares = 100000

func clampAdjustment(n int) int {
	if n > maxLayerAdjustment {
		return maxLayerAdjustment
	}
	if n < minLayerAdjustment {
		return minLayerAdjustment
	}
	return n
}

// signalForNet maps an accumulated net indicator to the layer signal.
func signalForNet(net int) domain.LayerSignal {
	switch {
	case net >= 2:
		return domain.SignalConfirming
	case net <= -2:
		return domain.SignalDisconfirming
	default:
		return domain.SignalNeutral
	}
}

func confidenceForNet(net int) domain.Confidence {
	if net >= 3 || net <= -3 {
		return domain.ConfidenceHigh
	}
	return domain.ConfidenceMedium
}

// evaluateBreadth reads market participation. Market-wide, so the same for
// every symbol evaluated against one context.
func evaluateBreadth(mc *domain.MarketContext) domain.LayerResult {
	r := domain.LayerResult{Layer: domain.LayerBreadth, Signal: domain.SignalNeutral, Confidence: domain.ConfidenceLow}
	if mc == nil {
		r.Reasons = append(r.Reasons, "Market context unavailable")
		return r
	}
	r.DataAvailable = true

	net := 0
	switch mc.Breadth.Health {
	case domain.BreadthStrong:
		net += 2
		r.Reasons = append(r.Reasons, "Breadth strong (+2)")
	case domain.BreadthWeak:
		net -= 2
		r.Reasons = append(r.Reasons, "Breadth weak (-2)")
	default:
		r.Reasons = append(r.Reasons, "Breadth neutral (0)")
	}

	switch {
	case mc.Breadth.PctAbove200DMA >= 60:
		net++
		r.Reasons = append(r.Reasons, fmt.Sprintf("%.0f%% of market above 200DMA (+1)", mc.Breadth.PctAbove200DMA))
	case mc.Breadth.PctAbove200DMA > 0 && mc.Breadth.PctAbove200DMA <= 40:
		net--
		r.Reasons = append(r.Reasons, fmt.Sprintf("Only %.0f%% of market above 200DMA (-1)", mc.Breadth.PctAbove200DMA))
	}

	r.Signal = signalForNet(net)
	r.Confidence = confidenceForNet(net)
	r.ScoreAdjustment = clampAdjustment(net)
	return r
}

// evaluateInstitutional reads smart-money positioning: fund flow direction,
// insider activity, and ownership depth.
func evaluateInstitutional(sent domain.SentimentData) domain.LayerResult {
	r := domain.LayerResult{Layer: domain.LayerInstitutional, Signal: domain.SignalNeutral, DataAvailable: true}

	net := 0
	switch sent.InstitutionalTrend {
	case "buying":
		net += 2
		r.Reasons = append(r.Reasons, "Institutions accumulating (+2)")
	case "selling":
		net -= 2
		r.Reasons = append(r.Reasons, "Institutions distributing (-2)")
	default:
		r.Reasons = append(r.Reasons, "Institutional flow neutral (0)")
	}

	switch {
	case sent.InsiderNetShares90d > 0:
		net++
		r.Flags = append(r.Flags, domain.FlagInsiderBuying)
		r.Reasons = append(r.Reasons, fmt.Sprintf("Insiders net buyers of %d shares (+1)", sent.InsiderNetShares90d))
	case sent.InsiderNetShares90d < -insiderHeavySellingShares:
		net -= 2
		r.Flags = append(r.Flags, domain.FlagInsiderSelling)
		r.Reasons = append(r.Reasons, fmt.Sprintf("Heavy insider selling, %d net shares (-2)", sent.InsiderNetShares90d))
	case sent.InsiderNetShares90d < 0:
		net--
		r.Flags = append(r.Flags, domain.FlagInsiderSelling)
		r.Reasons = append(r.Reasons, fmt.Sprintf("Insiders net sellers of %d shares (-1)", -sent.InsiderNetShares90d))
	}

	switch {
	case sent.InstitutionalOwnPct > 70:
		net++
		r.Reasons = append(r.Reasons, fmt.Sprintf("Ownership %.0f%% deep (+1)", sent.InstitutionalOwnPct))
	case sent.InstitutionalOwnPct > 0 && sent.InstitutionalOwnPct < 20:
		net--
		r.Reasons = append(r.Reasons, fmt.Sprintf("Ownership %.0f%% thin (-1)", sent.InstitutionalOwnPct))
	}

	if sent.InstitutionalTrend == "selling" && net <= -3 {
		r.Flags = append(r.Flags, domain.FlagInstitutionalExit)
	}

	r.Signal = signalForNet(net)
	r.Confidence = confidenceForNet(net)
	r.ScoreAdjustment = clampAdjustment(net)
	return r
}

// evaluateOptions reads the derivatives market's positioning.
func evaluateOptions(opts domain.OptionsData, putCallRatio float64) domain.LayerResult {
	r := domain.LayerResult{Layer: domain.LayerOptions, Signal: domain.SignalNeutral, Confidence: domain.ConfidenceLow}
	if opts.IVRank == 0 && opts.CallOpenInterest == 0 && opts.PutOpenInterest == 0 {
		r.Reasons = append(r.Reasons, "Options data unavailable")
		return r
	}
	r.DataAvailable = true

	net := 0
	switch {
	case putCallRatio > 0 && putCallRatio < 0.7:
		net += 2
		r.Reasons = append(r.Reasons, fmt.Sprintf("Put/call %.2f call-heavy (+2)", putCallRatio))
	case putCallRatio > 1.2:
		net -= 2
		r.Reasons = append(r.Reasons, fmt.Sprintf("Put/call %.2f put-heavy (-2)", putCallRatio))
		if putCallRatio > 1.5 {
			r.Flags = append(r.Flags, domain.FlagBearishOptionsFlow)
		}
	default:
		r.Reasons = append(r.Reasons, fmt.Sprintf("Put/call %.2f balanced (0)", putCallRatio))
	}

	switch {
	case opts.IVRank > 80:
		net--
		r.Flags = append(r.Flags, domain.FlagHighIVCrush)
		r.Reasons = append(r.Reasons, fmt.Sprintf("IV rank %.0f extreme (-1)", opts.IVRank))
	case opts.IVRank > 0 && opts.IVRank < 30:
		net++
		r.Reasons = append(r.Reasons, fmt.Sprintf("IV rank %.0f cheap (+1)", opts.IVRank))
	}

	if opts.PutOpenInterest > 0 {
		oiRatio := float64(opts.CallOpenInterest) / float64(opts.PutOpenInterest)
		switch {
		case oiRatio > 1.5:
			net++
			r.Reasons = append(r.Reasons, fmt.Sprintf("Call/put open interest %.2f bullish (+1)", oiRatio))
		case oiRatio < 0.67:
			net--
			r.Reasons = append(r.Reasons, fmt.Sprintf("Call/put open interest %.2f bearish (-1)", oiRatio))
		}
	}

	r.Signal = signalForNet(net)
	r.Confidence = confidenceForNet(net)
	r.ScoreAdjustment = clampAdjustment(net)
	return r
}

// evaluateSentiment reads analyst coverage and crowd attention.
func evaluateSentiment(sent domain.SentimentData) domain.LayerResult {
	r := domain.LayerResult{Layer: domain.LayerSentiment, Signal: domain.SignalNeutral, DataAvailable: true}

	net := 0
	switch {
	case sent.AnalystRating >= 4:
		net += 2
		r.Reasons = append(r.Reasons, fmt.Sprintf("Analyst rating %.1f strong (+2)", sent.AnalystRating))
	case sent.AnalystRating > 0 && sent.AnalystRating <= 2.5:
		net -= 2
		r.Reasons = append(r.Reasons, fmt.Sprintf("Analyst rating %.1f weak (-2)", sent.AnalystRating))
	default:
		r.Reasons = append(r.Reasons, fmt.Sprintf("Analyst rating %.1f neutral (0)", sent.AnalystRating))
	}

	if sent.AnalystDowngrades90d >= 2 {
		net -= 2
		r.Flags = append(r.Flags, domain.FlagAnalystDowngradeStk)
		r.Reasons = append(r.Reasons, fmt.Sprintf("%d downgrades in 90 days (-2)", sent.AnalystDowngrades90d))
	}

	switch {
	case sent.SocialMentionPercentl > 95:
		net--
		r.Flags = append(r.Flags, domain.FlagCrowdedSentiment)
		r.Reasons = append(r.Reasons, fmt.Sprintf("Social attention %.0fth percentile, crowded (-1)", sent.SocialMentionPercentl))
	case sent.SocialMentionPercentl >= 20 && sent.SocialMentionPercentl <= 90:
		net++
		r.Reasons = append(r.Reasons, fmt.Sprintf("Social attention %.0fth percentile healthy (+1)", sent.SocialMentionPercentl))
	}

	r.Signal = signalForNet(net)
	r.Confidence = confidenceForNet(net)
	r.ScoreAdjustment = clampAdjustment(net)
	return r
}

// evaluateEvents counts upcoming event hazards. Events only carry risk: the
// layer never confirms, it either clears or disconfirms.
func evaluateEvents(daysToEarnings int, ivRank float64, downgrades90d int) domain.LayerResult {
	r := domain.LayerResult{Layer: domain.LayerEvents, Signal: domain.SignalNeutral, DataAvailable: daysToEarnings >= 0}

	riskFactors := 0
	switch {
	case daysToEarnings >= 0 && daysToEarnings < 3:
		riskFactors += 3
		r.Flags = append(r.Flags, domain.FlagEarningsImminent)
		r.Reasons = append(r.Reasons, fmt.Sprintf("Earnings in %d days, imminent", daysToEarnings))
	case daysToEarnings >= 0 && daysToEarnings < 7:
		riskFactors += 2
		r.Flags = append(r.Flags, domain.FlagEarningsSoon)
		r.Reasons = append(r.Reasons, fmt.Sprintf("Earnings in %d days", daysToEarnings))
	case daysToEarnings >= 0 && daysToEarnings < 14:
		riskFactors++
		r.Reasons = append(r.Reasons, fmt.Sprintf("Earnings in %d days, approaching", daysToEarnings))
	case daysToEarnings < 0:
		r.Reasons = append(r.Reasons, "Earnings date unknown")
	default:
		r.Reasons = append(r.Reasons, fmt.Sprintf("Earnings %d days out, clear runway", daysToEarnings))
	}

	if ivRank > 80 && daysToEarnings >= 0 && daysToEarnings < 14 {
		riskFactors++
		r.Flags = append(r.Flags, domain.FlagHighIVCrush)
		r.Reasons = append(r.Reasons, fmt.Sprintf("IV rank %.0f into earnings, crush risk", ivRank))
	}

	if downgrades90d >= 2 {
		riskFactors++
		r.Reasons = append(r.Reasons, fmt.Sprintf("%d recent downgrades compound event risk", downgrades90d))
	}

	if riskFactors >= 2 {
		r.Signal = domain.SignalDisconfirming
	}
	r.Confidence = confidenceForNet(-riskFactors)
	r.ScoreAdjustment = clampAdjustment(-riskFactors)
	return r
}
