package snapshot

import (
	"github.com/oakmont/vantage/internal/domain"
)

// Reported quarterly acceleration understates the forward picture for names
// still in their expansion phase; the scaled value feeds the fundamental
// acceleration factor.
const fundamentalMultiplier = 1.12

// Default horizon limits when no position context is supplied: nine months
// for strategic holdings, four months for tactical trades.
const (
	defaultMaxHoldingDays = 270
	defaultMaxTradeDays   = 120
)

// HoldingContext describes an existing position in the symbol, if any.
// Zero value means "not held".
type HoldingContext struct {
	DaysInPosition       int
	MaxHoldingPeriodDays int
	DaysInTrade          int
	MaxTradeDays         int
}

// ToStrategicInputs flattens a snapshot plus portfolio and market context
// into the fields the Strategic Growth evaluator scores.
func ToStrategicInputs(snap *domain.StockSnapshot, market *domain.MarketContext, portfolio domain.PortfolioState, holding HoldingContext) domain.StrategicInputs {
	in := domain.StrategicInputs{
		Symbol:                  snap.Symbol,
		GDPGrowthPct:            snap.Fundamentals.GDPGrowthPct,
		RateTrend:               snap.Fundamentals.RateTrend,
		InstitutionalOwnPct:     snap.Sentiment.InstitutionalOwnPct,
		InstitutionalActivity:   snap.Sentiment.InstitutionalTrend,
		RevenueGrowthPct:        snap.Fundamentals.RevenueGrowthPct,
		EarningsAccelerationPct: snap.Fundamentals.EarningsAccelPct * fundamentalMultiplier,
		WeeklyRSI:               snap.Technicals.WeeklyRSI,
		DaysInPosition:          holding.DaysInPosition,
		MaxHoldingPeriodDays:    holding.MaxHoldingPeriodDays,
	}
	if in.MaxHoldingPeriodDays == 0 {
		in.MaxHoldingPeriodDays = defaultMaxHoldingDays
	}

	// Weekly structural alignment: the long averages stacked correctly and
	// price trading above them.
	t := snap.Technicals
	in.WeeklyMAAlignment = t.MA50 > t.MA200 && snap.Price > t.MA50 && t.MA200 > 0

	in.SectorExposurePct = portfolio.SectorExposurePct[snap.Sector]
	in.PortfolioConcentration = largestExposure(portfolio)

	if market != nil {
		in.VIX = market.Volatility.VIX
		switch market.Regime {
		case domain.RegimeRiskOn:
			in.MarketTrend = "bullish"
		case domain.RegimeRiskOff:
			in.MarketTrend = "bearish"
		default:
			in.MarketTrend = "neutral"
		}
	} else {
		in.VIX = 20
		in.MarketTrend = "neutral"
	}
	return in
}

// ToTacticalInputs flattens a snapshot into the fields the Tactical Sentinel
// evaluator scores. sectorRankPercent is the symbol's strength percentile
// within its sector, 0-100.
func ToTacticalInputs(snap *domain.StockSnapshot, sectorRankPercent float64, holding HoldingContext) domain.TacticalInputs {
	t := snap.Technicals
	in := domain.TacticalInputs{
		Symbol:            snap.Symbol,
		PriceAboveMA20:    t.MA20 > 0 && snap.Price > t.MA20,
		MA20AboveMA50:     t.MA50 > 0 && t.MA20 > t.MA50,
		RSI:               t.RSI14,
		TrendUp:           t.Trend == domain.TrendUp,
		VolumeRatio:       t.VolumeRatio,
		BidAskSpreadPct:   t.BidAskSpread,
		ATRPercent:        t.ATRPercent,
		PutCallRatio:      snap.Sentiment.PutCallRatio,
		SocialPercentile:  snap.Sentiment.SocialMentionPercentl,
		AnalystRating:     snap.Sentiment.AnalystRating,
		DaysToEarnings:    snap.Fundamentals.DaysToEarnings,
		IVRank:            snap.Options.IVRank,
		DaysInTrade:       holding.DaysInTrade,
		MaxTradeDays:      holding.MaxTradeDays,
		High52WkPct:       t.High52WkPct,
		SectorRankPercent: sectorRankPercent,
	}
	if in.MaxTradeDays == 0 {
		in.MaxTradeDays = defaultMaxTradeDays
	}
	return in
}

// largestExposure returns the single biggest sector weight in the portfolio,
// a proxy for concentration risk.
func largestExposure(p domain.PortfolioState) float64 {
	var max float64
	for _, pct := range p.SectorExposurePct {
		if pct > max {
			max = pct
		}
	}
	return max
}
