package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oakmont/vantage/internal/domain"
)

func sampleSnapshot() *domain.StockSnapshot {
	return &domain.StockSnapshot{
		Symbol: "AAPL",
		Sector: "Technology",
		Price:  190,
		Technicals: domain.Technicals{
			RSI14:        58,
			WeeklyRSI:    62,
			MA20:         185,
			MA50:         180,
			MA200:        170,
			ATRPercent:   2.1,
			Trend:        domain.TrendUp,
			VolumeRatio:  1.3,
			BidAskSpread: 0.02,
			High52WkPct:  4,
		},
		Fundamentals: domain.Fundamentals{
			RevenueGrowthPct: 18,
			EarningsAccelPct: 10,
			DaysToEarnings:   21,
			GDPGrowthPct:     2.4,
			RateTrend:        "falling",
		},
		Sentiment: domain.SentimentData{
			AnalystRating:         4.2,
			InstitutionalOwnPct:   64,
			InstitutionalTrend:    "buying",
			PutCallRatio:          0.8,
			SocialMentionPercentl: 55,
		},
		Options: domain.OptionsData{IVRank: 42},
	}
}

func bullishContext() *domain.MarketContext {
	return &domain.MarketContext{
		Regime:     domain.RegimeRiskOn,
		Volatility: domain.VolatilityData{VIX: 15.5},
	}
}

func TestToStrategicInputs(t *testing.T) {
	state := domain.PortfolioState{
		SectorExposurePct: map[string]float64{"Technology": 18, "Financials": 22},
	}

	in := ToStrategicInputs(sampleSnapshot(), bullishContext(), state, HoldingContext{})

	assert.Equal(t, "AAPL", in.Symbol)
	assert.Equal(t, "bullish", in.MarketTrend)
	assert.Equal(t, 15.5, in.VIX)
	assert.Equal(t, 18.0, in.SectorExposurePct)
	assert.Equal(t, 22.0, in.PortfolioConcentration, "concentration is the largest sector weight")
	assert.True(t, in.WeeklyMAAlignment, "ma50 > ma200 with price above ma50")
	assert.InDelta(t, 10*fundamentalMultiplier, in.EarningsAccelerationPct, 0.001)
	assert.Equal(t, defaultMaxHoldingDays, in.MaxHoldingPeriodDays)
}

func TestWeeklyMAAlignmentRequiresFullStack(t *testing.T) {
	snap := sampleSnapshot()
	snap.Technicals.MA200 = 0 // not enough history

	in := ToStrategicInputs(snap, bullishContext(), domain.PortfolioState{}, HoldingContext{})
	assert.False(t, in.WeeklyMAAlignment)

	snap = sampleSnapshot()
	snap.Price = 175 // below the 50-day
	in = ToStrategicInputs(snap, bullishContext(), domain.PortfolioState{}, HoldingContext{})
	assert.False(t, in.WeeklyMAAlignment)
}

func TestStrategicInputsWithoutMarketContext(t *testing.T) {
	in := ToStrategicInputs(sampleSnapshot(), nil, domain.PortfolioState{}, HoldingContext{})
	assert.Equal(t, "neutral", in.MarketTrend)
	assert.Equal(t, 20.0, in.VIX)
}

func TestMarketTrendFollowsRegime(t *testing.T) {
	mc := bullishContext()
	mc.Regime = domain.RegimeRiskOff
	in := ToStrategicInputs(sampleSnapshot(), mc, domain.PortfolioState{}, HoldingContext{})
	assert.Equal(t, "bearish", in.MarketTrend)

	mc.Regime = domain.RegimeNeutral
	in = ToStrategicInputs(sampleSnapshot(), mc, domain.PortfolioState{}, HoldingContext{})
	assert.Equal(t, "neutral", in.MarketTrend)
}

func TestToTacticalInputs(t *testing.T) {
	in := ToTacticalInputs(sampleSnapshot(), 70, HoldingContext{DaysInTrade: 30})

	assert.True(t, in.PriceAboveMA20)
	assert.True(t, in.MA20AboveMA50)
	assert.True(t, in.TrendUp)
	assert.Equal(t, 58.0, in.RSI)
	assert.Equal(t, 0.8, in.PutCallRatio)
	assert.Equal(t, 21, in.DaysToEarnings)
	assert.Equal(t, 42.0, in.IVRank)
	assert.Equal(t, 70.0, in.SectorRankPercent)
	assert.Equal(t, 30, in.DaysInTrade)
	assert.Equal(t, defaultMaxTradeDays, in.MaxTradeDays)
}

func TestHoldingContextOverridesDefaults(t *testing.T) {
	holding := HoldingContext{MaxHoldingPeriodDays: 180, MaxTradeDays: 60}

	s := ToStrategicInputs(sampleSnapshot(), nil, domain.PortfolioState{}, holding)
	assert.Equal(t, 180, s.MaxHoldingPeriodDays)

	tac := ToTacticalInputs(sampleSnapshot(), 50, holding)
	assert.Equal(t, 60, tac.MaxTradeDays)
}
