package snapshot

import (
	"math"

	"github.com/markcheno/go-talib"

	"github.com/oakmont/vantage/internal/clients"
	"github.com/oakmont/vantage/internal/domain"
)

// computeTechnicals derives the indicator set from the daily candle series.
// Candles are oldest first. Returns neutral values when the series is too
// short for a given indicator rather than failing the whole snapshot.
func computeTechnicals(candles []clients.Candle, quote *clients.Quote) domain.Technicals {
	t := domain.Technicals{
		RSI14:     50,
		WeeklyRSI: 50,
		Trend:     domain.TrendFlat,
	}
	if len(candles) == 0 {
		return t
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	volumes := make([]int64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
	}

	price := closes[len(closes)-1]
	if quote != nil && quote.Price > 0 {
		price = quote.Price
	}

	if v := lastValid(talib.Rsi(closes, 14)); v != nil {
		t.RSI14 = *v
	}
	if v := lastValid(talib.Sma(closes, 20)); v != nil {
		t.MA20 = *v
	}
	if v := lastValid(talib.Sma(closes, 50)); v != nil {
		t.MA50 = *v
	}
	if v := lastValid(talib.Sma(closes, 200)); v != nil {
		t.MA200 = *v
	}
	if v := lastValid(talib.Atr(highs, lows, closes, 14)); v != nil {
		t.ATR14 = *v
		if price > 0 {
			t.ATRPercent = t.ATR14 / price * 100
		}
	}

	if v := lastValid(talib.Rsi(weeklyCloses(closes), 14)); v != nil {
		t.WeeklyRSI = *v
	}

	t.Trend = classifyTrend(price, t.MA20, t.MA50, t.MA200)

	if len(volumes) >= 20 {
		var sum int64
		for _, v := range volumes[len(volumes)-20:] {
			sum += v
		}
		t.AvgVolume20 = sum / 20
		today := volumes[len(volumes)-1]
		if quote != nil && quote.Volume > 0 {
			today = quote.Volume
		}
		if t.AvgVolume20 > 0 {
			t.VolumeRatio = float64(today) / float64(t.AvgVolume20)
		}
	}

	// Distance below the 52-week high, as a percent of that high.
	window := highs
	if len(window) > 252 {
		window = window[len(window)-252:]
	}
	high52 := window[0]
	for _, h := range window {
		if h > high52 {
			high52 = h
		}
	}
	if high52 > 0 {
		t.High52WkPct = (high52 - price) / high52 * 100
		if t.High52WkPct < 0 {
			t.High52WkPct = 0
		}
	}

	t.BidAskSpread = estimateSpreadPct(price, t.AvgVolume20)

	return t
}

// lastValid returns the final non-NaN value of an indicator series.
func lastValid(series []float64) *float64 {
	for i := len(series) - 1; i >= 0; i-- {
		if !math.IsNaN(series[i]) && series[i] != 0 {
			v := series[i]
			return &v
		}
	}
	return nil
}

// weeklyCloses resamples a daily close series to weekly by taking every
// fifth trading day's close, ending on the most recent bar.
func weeklyCloses(closes []float64) []float64 {
	if len(closes) < 5 {
		return closes
	}
	out := make([]float64, 0, len(closes)/5+1)
	for i := len(closes) - 1; i >= 0; i -= 5 {
		out = append(out, closes[i])
	}
	// Reverse back to oldest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// classifyTrend reads the MA stack. Full alignment above rising averages is
// UP, full alignment below is DOWN, anything mixed is FLAT.
func classifyTrend(price, ma20, ma50, ma200 float64) domain.Trend {
	if ma20 == 0 || ma50 == 0 {
		return domain.TrendFlat
	}
	switch {
	case price > ma20 && ma20 > ma50 && (ma200 == 0 || ma50 > ma200):
		return domain.TrendUp
	case price < ma20 && ma20 < ma50 && (ma200 == 0 || ma50 < ma200):
		return domain.TrendDown
	default:
		return domain.TrendFlat
	}
}

// estimateSpreadPct approximates the bid/ask spread from dollar liquidity.
// No provider on our tier exposes quote depth, so a liquidity bucket proxy
// stands in for the real spread.
func estimateSpreadPct(price float64, avgVolume int64) float64 {
	dollarVolume := price * float64(avgVolume)
	switch {
	case dollarVolume >= 50e6:
		return 0.02
	case dollarVolume >= 10e6:
		return 0.06
	case dollarVolume >= 1e6:
		return 0.18
	default:
		return 0.60
	}
}
