package marketregime

import (
	"gonum.org/v1/gonum/stat"

	"github.com/markcheno/go-talib"

	"github.com/oakmont/vantage/internal/clients"
	"github.com/oakmont/vantage/internal/domain"
)

// The four broad indices, fixed order.
var indexETFs = []string{"SPY", "QQQ", "DIA", "IWM"}

// The eleven sector ETFs, fixed order, and the sector each proxies.
var sectorETFs = []struct {
	Symbol string
	Sector string
}{
	{"XLK", "Technology"},
	{"XLF", "Financials"},
	{"XLV", "Healthcare"},
	{"XLY", "Consumer Discretionary"},
	{"XLP", "Consumer Staples"},
	{"XLE", "Energy"},
	{"XLI", "Industrials"},
	{"XLB", "Materials"},
	{"XLRE", "Real Estate"},
	{"XLU", "Utilities"},
	{"XLC", "Communication Services"},
}

const (
	momentumLookback = 20 // trading days
	rsLookback       = 63 // ~3 months
	vixElevatedLevel = 25.0

	rsLeadingSlope = 0.0005
	rsLaggingSlope = -0.0005
)

// deriveIndexState reduces one index ETF's candle series to the trend picture
// the regime evaluator consumes.
func deriveIndexState(symbol string, candles []clients.Candle) domain.IndexState {
	state := domain.IndexState{Symbol: symbol, Trend: domain.TrendFlat}
	if len(candles) == 0 {
		return state
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	price := closes[len(closes)-1]
	state.Price = price

	var ma20, ma50, ma200 float64
	if v := last(talib.Sma(closes, 20)); v > 0 {
		ma20 = v
	}
	if v := last(talib.Sma(closes, 50)); v > 0 {
		ma50 = v
	}
	if v := last(talib.Sma(closes, 200)); v > 0 {
		ma200 = v
	}

	state.Above200DMA = ma200 > 0 && price > ma200
	switch {
	case ma20 > 0 && ma50 > 0 && price > ma20 && ma20 > ma50:
		state.Trend = domain.TrendUp
	case ma20 > 0 && ma50 > 0 && price < ma20 && ma20 < ma50:
		state.Trend = domain.TrendDown
	}

	if len(closes) > momentumLookback {
		prev := closes[len(closes)-1-momentumLookback]
		if prev > 0 {
			state.MomentumPct = (price - prev) / prev * 100
		}
	}
	return state
}

// deriveSectorState classifies a sector ETF against SPY over the relative
// strength window. The trend label comes from a least-squares slope of the
// sector/SPY price ratio: a rising ratio means the sector is leading.
func deriveSectorState(symbol, sector string, candles, spy []clients.Candle) domain.SectorState {
	state := domain.SectorState{Symbol: symbol, Sector: sector, Trend: domain.TrendNeutral}
	n := min(len(candles), len(spy))
	if n < 2 {
		return state
	}

	window := min(n, rsLookback)
	ratio := make([]float64, window)
	xs := make([]float64, window)
	for i := 0; i < window; i++ {
		s := candles[len(candles)-window+i].Close
		b := spy[len(spy)-window+i].Close
		if b <= 0 {
			return state
		}
		ratio[i] = s / b
		xs[i] = float64(i)
	}

	// Normalize the ratio so the slope is comparable across sectors.
	base := ratio[0]
	if base <= 0 {
		return state
	}
	for i := range ratio {
		ratio[i] /= base
	}

	_, slope := stat.LinearRegression(xs, ratio, nil, false)
	state.RelativeStrength = (ratio[len(ratio)-1] - 1) * 100

	switch {
	case slope > rsLeadingSlope:
		state.Trend = domain.TrendLeading
	case slope < rsLaggingSlope:
		state.Trend = domain.TrendLagging
	}
	return state
}

// deriveBreadth proxies market participation from the index and sector ETF
// states: what share trades above its 200DMA and how many advanced today.
func deriveBreadth(indices []domain.IndexState, sectors []domain.SectorState, sectorCandles map[string][]clients.Candle) domain.BreadthData {
	b := domain.BreadthData{Health: domain.BreadthNeutral}

	above, total := 0, 0
	for _, idx := range indices {
		total++
		if idx.Above200DMA {
			above++
		}
	}
	advancing, declining := 0, 0
	newHighs, newLows := 0, 0
	for _, s := range sectors {
		candles := sectorCandles[s.Symbol]
		if len(candles) < 2 {
			continue
		}
		total++
		closes := make([]float64, len(candles))
		for i, c := range candles {
			closes[i] = c.Close
		}
		price := closes[len(closes)-1]
		if ma := last(talib.Sma(closes, 200)); ma > 0 && price > ma {
			above++
		}
		if price > closes[len(closes)-2] {
			advancing++
		} else {
			declining++
		}
		hi, lo := rangeOf(closes)
		if price >= hi*0.99 {
			newHighs++
		}
		if price <= lo*1.01 {
			newLows++
		}
	}

	if total > 0 {
		b.PctAbove200DMA = float64(above) / float64(total) * 100
	}
	if declining > 0 {
		b.AdvanceDecline = float64(advancing) / float64(declining)
	} else if advancing > 0 {
		b.AdvanceDecline = float64(advancing)
	}
	if newLows > 0 {
		b.NewHighsNewLows = float64(newHighs) / float64(newLows)
	} else if newHighs > 0 {
		b.NewHighsNewLows = float64(newHighs)
	}

	switch {
	case b.PctAbove200DMA >= 70 && b.AdvanceDecline >= 1.5:
		b.Health = domain.BreadthStrong
	case b.PctAbove200DMA <= 40 || (b.AdvanceDecline > 0 && b.AdvanceDecline <= 0.5):
		b.Health = domain.BreadthWeak
	}
	return b
}

// deriveVolatility classifies the VIX series.
func deriveVolatility(vix float64, history []float64) domain.VolatilityData {
	v := domain.VolatilityData{VIX: vix, Trend: domain.TrendFlat, Elevated: vix >= vixElevatedLevel}
	if len(history) > momentumLookback {
		prev := history[len(history)-1-momentumLookback]
		switch {
		case vix > prev*1.1:
			v.Trend = domain.TrendUp
		case vix < prev*0.9:
			v.Trend = domain.TrendDown
		}
	}
	return v
}

func last(series []float64) float64 {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] == series[i] && series[i] != 0 { // skip NaN and unfilled zeros
			return series[i]
		}
	}
	return 0
}

func rangeOf(values []float64) (hi, lo float64) {
	hi, lo = values[0], values[0]
	for _, v := range values {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	return hi, lo
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
