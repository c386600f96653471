package sectorregime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oakmont/vantage/internal/domain"
)

func TestScoringLadder(t *testing.T) {
	tests := []struct {
		name       string
		in         Inputs
		wantScore  int
		wantRegime domain.SectorRegime
		wantConf   domain.Confidence
	}{
		{
			name: "all positive",
			in: Inputs{
				RelativeStrength: "leading", TrendHealth: "healthy",
				Volatility: "low", MacroAlignment: "aligned",
			},
			wantScore: 4, wantRegime: domain.SectorFavored, wantConf: domain.ConfidenceHigh,
		},
		{
			name: "all negative",
			in: Inputs{
				RelativeStrength: "lagging", TrendHealth: "deteriorating",
				Volatility: "high", MacroAlignment: "opposed",
			},
			wantScore: -4, wantRegime: domain.SectorAvoid, wantConf: domain.ConfidenceHigh,
		},
		{
			name: "favored at exactly two",
			in: Inputs{
				RelativeStrength: "leading", TrendHealth: "healthy",
				Volatility: "normal", MacroAlignment: "neutral",
			},
			wantScore: 2, wantRegime: domain.SectorFavored, wantConf: domain.ConfidenceMedium,
		},
		{
			name: "avoid at exactly minus two",
			in: Inputs{
				RelativeStrength: "lagging", TrendHealth: "neutral",
				Volatility: "high", MacroAlignment: "neutral",
			},
			wantScore: -2, wantRegime: domain.SectorAvoid, wantConf: domain.ConfidenceMedium,
		},
		{
			name:      "fully neutral",
			in:        Inputs{},
			wantScore: 0, wantRegime: domain.SectorNeutral, wantConf: domain.ConfidenceMedium,
		},
		{
			name: "mixed one",
			in: Inputs{
				RelativeStrength: "leading", TrendHealth: "neutral",
				Volatility: "normal", MacroAlignment: "neutral",
			},
			wantScore: 1, wantRegime: domain.SectorNeutral, wantConf: domain.ConfidenceMedium,
		},
	}

	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(tt.in)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantRegime, got.Regime)
			assert.Equal(t, tt.wantConf, got.Confidence)
			assert.Len(t, got.Reasons, 4, "every contribution is explained")
		})
	}
}

func TestInputsFromContext(t *testing.T) {
	mc := &domain.MarketContext{
		Regime: domain.RegimeRiskOn,
		Sectors: []domain.SectorState{
			{Sector: "Technology", Trend: domain.TrendLeading},
			{Sector: "Utilities", Trend: domain.TrendLagging},
		},
		Breadth:    domain.BreadthData{Health: domain.BreadthStrong},
		Volatility: domain.VolatilityData{VIX: 14},
	}

	tech := InputsFromContext(mc, "Technology")
	assert.Equal(t, "leading", tech.RelativeStrength)
	assert.Equal(t, "healthy", tech.TrendHealth)
	assert.Equal(t, "low", tech.Volatility)
	assert.Equal(t, "aligned", tech.MacroAlignment)

	util := InputsFromContext(mc, "Utilities")
	assert.Equal(t, "lagging", util.RelativeStrength)

	unknown := InputsFromContext(mc, "Nonexistent")
	assert.Equal(t, "neutral", unknown.RelativeStrength)

	nilCtx := InputsFromContext(nil, "Technology")
	assert.Equal(t, "neutral", nilCtx.MacroAlignment)
}
