package strategic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmont/vantage/internal/domain"
)

func strongInputs() domain.StrategicInputs {
	return domain.StrategicInputs{
		Symbol:                  "NVDA",
		PortfolioConcentration:  10,
		SectorExposurePct:       15,
		VIX:                     15,
		MarketTrend:             "bullish",
		GDPGrowthPct:            2.8,
		RateTrend:               "falling",
		InstitutionalOwnPct:     75,
		InstitutionalActivity:   "buying",
		RevenueGrowthPct:        25,
		EarningsAccelerationPct: 20,
		WeeklyMAAlignment:       true,
		WeeklyRSI:               58,
		DaysInPosition:          0,
		MaxHoldingPeriodDays:    270,
	}
}

func TestEvaluateAllFactorsMax(t *testing.T) {
	eval := NewEvaluator().Evaluate(strongInputs())

	assert.Equal(t, 100.0, eval.Score, "every factor at max should total exactly 100")
	assert.Equal(t, domain.StrategicEligible, eval.Status)
	assert.Len(t, eval.Factors, 7)
	assert.Len(t, eval.Positives, 7, "all factors pass")
	assert.Empty(t, eval.Risks)
	assert.Empty(t, eval.FailureMode)
}

func TestMarketVolatilityFactor(t *testing.T) {
	tests := []struct {
		name   string
		vix    float64
		trend  string
		want   float64
		status domain.FactorStatus
	}{
		{"calm bullish", 15, "bullish", 15, domain.FactorPass},
		{"calm neutral", 19.9, "neutral", 12, domain.FactorPass},
		{"elevated bullish", 25, "bullish", 11, domain.FactorPass},
		{"elevated neutral", 25, "neutral", 8, domain.FactorCaution},
		{"stressed bearish", 35, "bearish", 0, domain.FactorFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domain.StrategicInputs{VIX: tt.vix, MarketTrend: tt.trend}
			d := scoreMarketVolatility(in)
			assert.Equal(t, tt.want, d.Score)
			assert.Equal(t, tt.status, d.Status)
		})
	}
}

func TestFundamentalAccelerationFactor(t *testing.T) {
	// revenueGrowth=25 and acceleration=20 is the canonical full-score case.
	in := domain.StrategicInputs{RevenueGrowthPct: 25, EarningsAccelerationPct: 20}
	d := scoreFundamentalAccel(in)

	assert.Equal(t, 20.0, d.Score)
	assert.Equal(t, 20.0, d.MaxScore)
	assert.Equal(t, domain.FactorPass, d.Status)
}

func TestFundamentalAccelerationBands(t *testing.T) {
	tests := []struct {
		name    string
		revenue float64
		accel   float64
		want    float64
	}{
		{"solid both", 15, 10, 12},
		{"positive both", 5, 2, 6},
		{"negative both", -3, -1, 0},
		{"strong revenue only", 25, -1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domain.StrategicInputs{RevenueGrowthPct: tt.revenue, EarningsAccelerationPct: tt.accel}
			assert.Equal(t, tt.want, scoreFundamentalAccel(in).Score)
		})
	}
}

func TestRiskGuardrailsSubtractive(t *testing.T) {
	clean := scoreRiskGuardrails(domain.StrategicInputs{PortfolioConcentration: 10, SectorExposurePct: 15})
	assert.Equal(t, 15.0, clean.Score)

	concentrated := scoreRiskGuardrails(domain.StrategicInputs{PortfolioConcentration: 30, SectorExposurePct: 15})
	assert.Equal(t, 10.0, concentrated.Score)

	both := scoreRiskGuardrails(domain.StrategicInputs{PortfolioConcentration: 30, SectorExposurePct: 35})
	assert.Equal(t, 5.0, both.Score)
}

func TestThesisDecayBands(t *testing.T) {
	tests := []struct {
		name string
		days int
		max  int
		want float64
	}{
		{"fresh", 30, 270, 10},
		{"under half", 134, 270, 10},
		{"past half", 150, 270, 7},
		{"past three quarters", 220, 270, 4},
		{"exhausted", 270, 270, 0},
		{"overrun", 300, 270, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domain.StrategicInputs{DaysInPosition: tt.days, MaxHoldingPeriodDays: tt.max}
			assert.Equal(t, tt.want, scoreThesisDecay(in).Score)
		})
	}
}

func TestWeeklyTechnicalBands(t *testing.T) {
	aligned := scoreWeeklyTechnical(domain.StrategicInputs{WeeklyMAAlignment: true, WeeklyRSI: 60})
	assert.Equal(t, 15.0, aligned.Score)

	tolerable := scoreWeeklyRange(t, 75)
	assert.Equal(t, 4.0, tolerable)

	extreme := scoreWeeklyRange(t, 85)
	assert.Equal(t, 0.0, extreme)

	// RSI exactly 70 falls out of the sweet zone into the tolerable band.
	boundary := scoreWeeklyRange(t, 70)
	assert.Equal(t, 4.0, boundary)
}

func scoreWeeklyRange(t *testing.T, rsi float64) float64 {
	t.Helper()
	return scoreWeeklyTechnical(domain.StrategicInputs{WeeklyRSI: rsi}).Score
}

func TestStatusThresholds(t *testing.T) {
	in := strongInputs()

	// All factors zeroed out: bearish everything.
	weak := domain.StrategicInputs{
		Symbol:                in.Symbol,
		VIX:                   40,
		MarketTrend:           "bearish",
		GDPGrowthPct:          -1,
		RateTrend:             "rising",
		InstitutionalActivity: "selling",
		RevenueGrowthPct:      -5,
		WeeklyRSI:             85,
		DaysInPosition:        300,
		MaxHoldingPeriodDays:  270,
	}
	eval := NewEvaluator().Evaluate(weak)
	assert.Equal(t, domain.StrategicReject, eval.Status)
	assert.NotEmpty(t, eval.FailureMode, "a rejected evaluation names its failure mode")
}

func TestScoreBoundsInvariant(t *testing.T) {
	inputs := []domain.StrategicInputs{
		strongInputs(),
		{},
		{VIX: -5, WeeklyRSI: 300, RevenueGrowthPct: 9999, PortfolioConcentration: 90, SectorExposurePct: 95},
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
	in := strongInputs()

	first := e.Evaluate(in)
	second := e.Evaluate(in)
	require.Equal(t, first, second, "identical inputs must produce identical evaluations")
}
