package tactical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmont/vantage/internal/domain"
)

func idealInputs() domain.TacticalInputs {
	return domain.TacticalInputs{
		Symbol:            "AMD",
		PriceAboveMA20:    true,
		MA20AboveMA50:     true,
		RSI:               60,
		TrendUp:           true,
		VolumeRatio:       1.8,
		BidAskSpreadPct:   0.05,
		ATRPercent:        2.5,
		PutCallRatio:      0.7,
		SocialPercentile:  55,
		AnalystRating:     4.3,
		DaysToEarnings:    45,
		IVRank:            40,
		DaysInTrade:       0,
		MaxTradeDays:      120,
		High52WkPct:       3,
		SectorRankPercent: 85,
	}
}

func TestEvaluateIdealSetup(t *testing.T) {
	eval := NewEvaluator().Evaluate(idealInputs())

	assert.Equal(t, 100.0, eval.Score, "ideal setup maxes every factor")
	assert.Len(t, eval.Factors, 7)
	assert.Len(t, eval.EntryQuality, 7)
	assert.Empty(t, eval.Risks)
	assert.Empty(t, eval.FailureTrigger)
}

func TestSubtractiveFactorsStartAtMax(t *testing.T) {
	// Zero-value inputs: no earnings date (-1 unknown would need explicit -1;
	// here 0 means earnings today) and no trade window consumed.
	clear := domain.TacticalInputs{DaysToEarnings: 30, MaxTradeDays: 120}

	event := scoreEventProximity(clear)
	assert.Equal(t, WeightEventProximity, event.Score, "no hazards leaves the full budget")

	timeStop := scoreTimeStop(clear)
	assert.Equal(t, WeightTimeStop, timeStop.Score)
}

func TestEventProximityPenalties(t *testing.T) {
	tests := []struct {
		name   string
		days   int
		ivRank float64
		want   float64
	}{
		{"earnings imminent", 2, 40, 7},
		{"earnings today", 0, 40, 7},
		{"earnings soon", 5, 40, 11},
		{"earnings near", 10, 40, 13},
		{"earnings unknown", -1, 40, 14},
		{"clear runway", 30, 40, 15},
		{"clear but extreme IV", 30, 90, 11},
		{"imminent and extreme IV", 1, 85, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domain.TacticalInputs{DaysToEarnings: tt.days, IVRank: tt.ivRank}
			assert.Equal(t, tt.want, scoreEventProximity(in).Score)
		})
	}
}

func TestMomentumRegimeBands(t *testing.T) {
	tests := []struct {
		name   string
		rsi    float64
		volume float64
		want   float64
	}{
		{"momentum zone surge", 60, 1.8, 15},
		{"momentum zone normal volume", 60, 1.2, 11},
		{"acceptable rsi thin volume", 45, 0.8, 4},
		{"overbought thin", 85, 0.8, 0},
		{"oversold surge gets full volume award", 25, 2.0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domain.TacticalInputs{RSI: tt.rsi, VolumeRatio: tt.volume}
			assert.Equal(t, tt.want, scoreMomentumRegime(in).Score)
		})
	}
}

func TestTimeStopBands(t *testing.T) {
	tests := []struct {
		name string
		days int
		want float64
	}{
		{"fresh trade", 10, 10},
		{"past half", 70, 7},
		{"past three quarters", 100, 4},
		{"window exhausted", 120, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domain.TacticalInputs{DaysInTrade: tt.days, MaxTradeDays: 120}
			assert.Equal(t, tt.want, scoreTimeStop(in).Score)
		})
	}
}

func TestOpportunityRankBands(t *testing.T) {
	nearHigh := scoreOpportunityRank(domain.TacticalInputs{High52WkPct: 3, SectorRankPercent: 85})
	assert.Equal(t, 15.0, nearHigh.Score)

	pullbackLaggard := scoreOpportunityRank(domain.TacticalInputs{High52WkPct: 12, SectorRankPercent: 30})
	assert.Equal(t, 5.0, pullbackLaggard.Score)

	broken := scoreOpportunityRank(domain.TacticalInputs{High52WkPct: 40, SectorRankPercent: 10})
	assert.Equal(t, 0.0, broken.Score)
	assert.Equal(t, domain.FactorFail, broken.Status)
}

func TestNoStatusOnRawEvaluation(t *testing.T) {
	// Actionability lives on the contextualized type; the raw evaluation
	// intentionally has no status field to overwrite.
	raw := NewEvaluator().Evaluate(idealInputs())
	wrapped := domain.TacticalSentinelEvaluation{
		TacticalRawEvaluation: raw,
		Status:                domain.TacticalPending,
	}
	assert.Equal(t, domain.TacticalPending, wrapped.Status)
	assert.Equal(t, raw.Score, wrapped.Score)
}

func TestScoreBoundsAndStatusConsistency(t *testing.T) {
	inputs := []domain.TacticalInputs{
		idealInputs(),
		{},
		{RSI: 300, VolumeRatio: -2, ATRPercent: 50, IVRank: 150, DaysToEarnings: 1, DaysInTrade: 500, MaxTradeDays: 120},
	}

	e := NewEvaluator()
	for _, in := range inputs {
		eval := e.Evaluate(in)
		assert.GreaterOrEqual(t, eval.Score, 0.0)
		assert.LessOrEqual(t, eval.Score, 100.0)
		for _, f := range eval.Factors {
			assert.GreaterOrEqual(t, f.Score, 0.0, f.Name)
			assert.LessOrEqual(t, f.Score, f.MaxScore, f.Name)
			assert.Equal(t, domain.StatusForScore(f.Score, f.MaxScore), f.Status, f.Name)
		}
	}
}

func TestDeterminism(t *testing.T) {
	e := NewEvaluator()
	in := idealInputs()
	require.Equal(t, e.Evaluate(in), e.Evaluate(in))
}
