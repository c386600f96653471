package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmont/vantage/internal/clients"
	"github.com/oakmont/vantage/internal/domain"
)

// risingCandles builds a steady uptrend, oldest first.
func risingCandles(n int) []clients.Candle {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	out := make([]clients.Candle, n)
	for i := range out {
		price := 100 + 0.5*float64(i)
		out[i] = clients.Candle{
			Date:   start.AddDate(0, 0, i),
			Open:   price - 0.2,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 2_000_000,
		}
	}
	return out
}

func TestComputeTechnicalsUptrend(t *testing.T) {
	candles := risingCandles(300)
	tech := computeTechnicals(candles, nil)

	assert.Equal(t, domain.TrendUp, tech.Trend)
	assert.Greater(t, tech.RSI14, 50.0)
	assert.Greater(t, tech.MA20, tech.MA50)
	assert.Greater(t, tech.MA50, tech.MA200)
	assert.Greater(t, tech.ATRPercent, 0.0)
	assert.InDelta(t, 1.0, tech.VolumeRatio, 0.001)
	assert.Equal(t, int64(2_000_000), tech.AvgVolume20)
	// Last close sits just under the last bar's high.
	assert.Less(t, tech.High52WkPct, 2.0)
	assert.GreaterOrEqual(t, tech.High52WkPct, 0.0)
}

func TestComputeTechnicalsEmptySeriesIsNeutral(t *testing.T) {
	tech := computeTechnicals(nil, nil)
	assert.Equal(t, 50.0, tech.RSI14)
	assert.Equal(t, 50.0, tech.WeeklyRSI)
	assert.Equal(t, domain.TrendFlat, tech.Trend)
}

func TestComputeTechnicalsQuoteOverridesLastClose(t *testing.T) {
	candles := risingCandles(300)
	quote := &clients.Quote{Price: 500, Volume: 8_000_000}
	tech := computeTechnicals(candles, quote)

	// 500 is far above every candle high, so distance from the high floors
	// at zero and today's volume comes from the quote.
	assert.Equal(t, 0.0, tech.High52WkPct)
	assert.InDelta(t, 4.0, tech.VolumeRatio, 0.001)
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name                     string
		price, ma20, ma50, ma200 float64
		want                     domain.Trend
	}{
		{"full bullish stack", 110, 105, 100, 95, domain.TrendUp},
		{"full bearish stack", 90, 95, 100, 105, domain.TrendDown},
		{"mixed stack", 110, 105, 108, 95, domain.TrendFlat},
		{"missing short averages", 110, 0, 0, 95, domain.TrendFlat},
		{"no 200-day yet, short stack up", 110, 105, 100, 0, domain.TrendUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyTrend(tt.price, tt.ma20, tt.ma50, tt.ma200))
		})
	}
}

func TestEstimateSpreadPctBuckets(t *testing.T) {
	// price 100: dollar volume = 100 * avgVolume.
	assert.Equal(t, 0.02, estimateSpreadPct(100, 1_000_000)) // $100M
	assert.Equal(t, 0.06, estimateSpreadPct(100, 200_000))   // $20M
	assert.Equal(t, 0.18, estimateSpreadPct(100, 50_000))    // $5M
	assert.Equal(t, 0.60, estimateSpreadPct(100, 1_000))     // $100K
}

func TestWeeklyCloses(t *testing.T) {
	closes := make([]float64, 23)
	for i := range closes {
		closes[i] = float64(i)
	}

	weekly := weeklyCloses(closes)
	require.Len(t, weekly, 5)
	// Ends on the most recent bar, stepping back five trading days.
	assert.Equal(t, []float64{2, 7, 12, 17, 22}, weekly)
}
