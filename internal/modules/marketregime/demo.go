package marketregime

import (
	"time"

	"github.com/oakmont/vantage/internal/domain"
)

// DemoContext is the fixed fallback served when no market data is available.
// It is a first-class, clearly flagged value; downstream consumers see
// IsDemoMode and can badge the output, but never a silent zero-fill.
func DemoContext() *domain.MarketContext {
	indices := []domain.IndexState{
		{Symbol: "SPY", Price: 520.0, Trend: domain.TrendUp, Above200DMA: true, MomentumPct: 2.1},
		{Symbol: "QQQ", Price: 440.0, Trend: domain.TrendUp, Above200DMA: true, MomentumPct: 3.4},
		{Symbol: "DIA", Price: 390.0, Trend: domain.TrendFlat, Above200DMA: true, MomentumPct: 0.8},
		{Symbol: "IWM", Price: 205.0, Trend: domain.TrendUp, Above200DMA: true, MomentumPct: 1.6},
	}
	breadth := domain.BreadthData{
		PctAbove200DMA:  68,
		AdvanceDecline:  1.4,
		NewHighsNewLows: 2.0,
		Health:          domain.BreadthNeutral,
	}
	volatility := domain.VolatilityData{VIX: 16.5, Trend: domain.TrendFlat, Elevated: false}

	sectors := make([]domain.SectorState, 0, len(sectorETFs))
	for i, etf := range sectorETFs {
		trend := domain.TrendNeutral
		rs := 0.0
		switch i % 3 {
		case 0:
			trend = domain.TrendLeading
			rs = 2.5
		case 1:
			trend = domain.TrendLagging
			rs = -1.8
		}
		sectors = append(sectors, domain.SectorState{
			Symbol: etf.Symbol, Sector: etf.Sector, Trend: trend, RelativeStrength: rs,
		})
	}

	verdict := NewEvaluator().Evaluate(indices, breadth, volatility)
	return &domain.MarketContext{
		Regime:        verdict.Regime,
		Confidence:    verdict.Confidence,
		RegimeReasons: verdict.Reasons,
		Indices:       indices,
		Breadth:       breadth,
		Sectors:       sectors,
		Volatility:    volatility,
		ComputedAt:    time.Now().UTC(),
		IsDemoMode:    true,
	}
}
