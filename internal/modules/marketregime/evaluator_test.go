package marketregime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmont/vantage/internal/domain"
)

func bullIndices() []domain.IndexState {
	return []domain.IndexState{
		{Symbol: "SPY", Trend: domain.TrendUp, Above200DMA: true},
		{Symbol: "QQQ", Trend: domain.TrendUp, Above200DMA: true},
		{Symbol: "DIA", Trend: domain.TrendUp, Above200DMA: true},
		{Symbol: "IWM", Trend: domain.TrendUp, Above200DMA: true},
	}
}

func bearIndices() []domain.IndexState {
	return []domain.IndexState{
		{Symbol: "SPY", Trend: domain.TrendDown, Above200DMA: false},
		{Symbol: "QQQ", Trend: domain.TrendDown, Above200DMA: false},
		{Symbol: "DIA", Trend: domain.TrendDown, Above200DMA: false},
		{Symbol: "IWM", Trend: domain.TrendFlat, Above200DMA: false},
	}
}

func TestRiskOnClassification(t *testing.T) {
	// 4/4 trending up, strong breadth, VIX 12: nets well past +30.
	breadth := domain.BreadthData{Health: domain.BreadthStrong, AdvanceDecline: 1.2}
	vol := domain.VolatilityData{VIX: 12, Elevated: false}

	v := NewEvaluator().Evaluate(bullIndices(), breadth, vol)

	assert.Equal(t, domain.RegimeRiskOn, v.Regime)
	assert.Equal(t, domain.ConfidenceHigh, v.Confidence)
	require.NotEmpty(t, v.Reasons)
	assert.Equal(t, "Market regime: RISK ON", v.Reasons[0], "regime label must be the first reason")
}

func TestRiskOffClassification(t *testing.T) {
	breadth := domain.BreadthData{Health: domain.BreadthWeak, AdvanceDecline: 0.4}
	vol := domain.VolatilityData{VIX: 32, Elevated: true}

	v := NewEvaluator().Evaluate(bearIndices(), breadth, vol)

	assert.Equal(t, domain.RegimeRiskOff, v.Regime)
	assert.Equal(t, domain.ConfidenceHigh, v.Confidence)
	assert.Equal(t, "Market regime: RISK OFF", v.Reasons[0])
}

func TestNeutralClassification(t *testing.T) {
	mixed := []domain.IndexState{
		{Symbol: "SPY", Trend: domain.TrendUp, Above200DMA: true},
		{Symbol: "QQQ", Trend: domain.TrendDown, Above200DMA: true},
		{Symbol: "DIA", Trend: domain.TrendFlat, Above200DMA: false},
		{Symbol: "IWM", Trend: domain.TrendDown, Above200DMA: false},
	}
	breadth := domain.BreadthData{Health: domain.BreadthNeutral, AdvanceDecline: 1.0}
	vol := domain.VolatilityData{VIX: 22, Elevated: false}

	v := NewEvaluator().Evaluate(mixed, breadth, vol)

	assert.Equal(t, domain.RegimeNeutral, v.Regime)
	assert.Equal(t, domain.ConfidenceMedium, v.Confidence)
	assert.Equal(t, "Market regime: NEUTRAL", v.Reasons[0])
}

func TestBoundaryNetScore(t *testing.T) {
	// Only index trend (+25) and calm VIX (+15) fire: net +40 clears the +30
	// boundary but not the high-confidence margin of 50.
	indices := []domain.IndexState{
		{Trend: domain.TrendUp, Above200DMA: true},
		{Trend: domain.TrendUp, Above200DMA: false},
		{Trend: domain.TrendUp, Above200DMA: false},
		{Trend: domain.TrendFlat, Above200DMA: true},
	}
	breadth := domain.BreadthData{Health: domain.BreadthNeutral, AdvanceDecline: 1.0}
	vol := domain.VolatilityData{VIX: 15}

	v := NewEvaluator().Evaluate(indices, breadth, vol)
	assert.Equal(t, domain.RegimeRiskOn, v.Regime)
	assert.Equal(t, domain.ConfidenceMedium, v.Confidence)
}

func TestReasonOrderDeterministic(t *testing.T) {
	breadth := domain.BreadthData{Health: domain.BreadthStrong, AdvanceDecline: 1.8}
	vol := domain.VolatilityData{VIX: 14}

	e := NewEvaluator()
	first := e.Evaluate(bullIndices(), breadth, vol)
	second := e.Evaluate(bullIndices(), breadth, vol)
	require.Equal(t, first, second, "reason strings and order must be reproducible")
}

func TestDemoContextFlagged(t *testing.T) {
	mc := DemoContext()
	assert.True(t, mc.IsDemoMode)
	assert.Len(t, mc.Indices, 4)
	assert.Len(t, mc.Sectors, 11)
	assert.NotEmpty(t, mc.RegimeReasons)
}
