package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oakmont/vantage/internal/domain"
)

func TestSectorExposureGateBlocksUnconditionally(t *testing.T) {
	// Exposure at the cap blocks regardless of every other input.
	p := domain.PortfolioState{
		SectorExposurePct: map[string]float64{"Technology": 30},
		VolBudgetUsedPct:  0,
	}
	c := Candidate{
		Symbol: "NVDA", Sector: "Technology",
		SectorRegime: domain.SectorFavored, ExpectedVolatilityPct: 1,
	}

	res := NewEngine().Evaluate(p, c)

	assert.Equal(t, domain.ActionBlock, res.Action)
	assert.Equal(t, 0.0, res.SuggestedPositionSizePct)
	assert.Len(t, res.Reasons, 1, "hard gates short-circuit")
}

func TestGateOrder(t *testing.T) {
	// When both the exposure gate and the regime gate would fire, the
	// exposure gate wins because it is checked first.
	p := domain.PortfolioState{
		SectorExposurePct: map[string]float64{"Energy": 40},
		VolBudgetUsedPct:  90,
	}
	c := Candidate{Sector: "Energy", SectorRegime: domain.SectorAvoid}

	res := NewEngine().Evaluate(p, c)
	assert.Equal(t, domain.ActionBlock, res.Action)
	assert.Contains(t, res.Reasons[0], "exposure")
}

func TestAvoidRegimeGate(t *testing.T) {
	p := domain.PortfolioState{SectorExposurePct: map[string]float64{"Energy": 10}}
	c := Candidate{Sector: "Energy", SectorRegime: domain.SectorAvoid}

	res := NewEngine().Evaluate(p, c)
	assert.Equal(t, domain.ActionBlock, res.Action)
	assert.Equal(t, 0.0, res.SuggestedPositionSizePct)
	assert.Contains(t, res.Reasons[0], "AVOID")
}

func TestVolBudgetGate(t *testing.T) {
	p := domain.PortfolioState{
		SectorExposurePct: map[string]float64{"Healthcare": 5},
		VolBudgetUsedPct:  85,
	}
	c := Candidate{Sector: "Healthcare", SectorRegime: domain.SectorFavored}

	res := NewEngine().Evaluate(p, c)
	assert.Equal(t, domain.ActionBlock, res.Action)
}

func TestCleanAllowFullSize(t *testing.T) {
	p := domain.PortfolioState{
		SectorExposurePct: map[string]float64{"Technology": 10},
		VolBudgetUsedPct:  30,
	}
	c := Candidate{Sector: "Technology", SectorRegime: domain.SectorFavored, ExpectedVolatilityPct: 2}

	res := NewEngine().Evaluate(p, c)

	assert.Equal(t, domain.ActionAllow, res.Action)
	assert.Equal(t, 10.0, res.SuggestedPositionSizePct)
}

func TestSoftReductionsStack(t *testing.T) {
	// Neutral sector (-3) and high vol budget (-4): 10 -> 3, under the 5%
	// conviction threshold.
	p := domain.PortfolioState{
		SectorExposurePct: map[string]float64{"Financials": 10},
		VolBudgetUsedPct:  65,
	}
	c := Candidate{Sector: "Financials", SectorRegime: domain.SectorNeutral, ExpectedVolatilityPct: 2}

	res := NewEngine().Evaluate(p, c)

	assert.Equal(t, domain.ActionReduce, res.Action)
	assert.Equal(t, 3.0, res.SuggestedPositionSizePct)
}

func TestSizeFloor(t *testing.T) {
	// All three reductions: 10 - 3 - 4 - 3 = 0, floored at 2.
	p := domain.PortfolioState{
		SectorExposurePct: map[string]float64{"Materials": 10},
		VolBudgetUsedPct:  70,
	}
	c := Candidate{Sector: "Materials", SectorRegime: domain.SectorNeutral, ExpectedVolatilityPct: 6}

	res := NewEngine().Evaluate(p, c)

	assert.Equal(t, domain.ActionReduce, res.Action)
	assert.Equal(t, 2.0, res.SuggestedPositionSizePct)
}

func TestSingleReductionStillAllowed(t *testing.T) {
	// One -3 reduction leaves 7%, above the reduce threshold.
	p := domain.PortfolioState{
		SectorExposurePct: map[string]float64{"Industrials": 10},
		VolBudgetUsedPct:  30,
	}
	c := Candidate{Sector: "Industrials", SectorRegime: domain.SectorNeutral, ExpectedVolatilityPct: 2}

	res := NewEngine().Evaluate(p, c)

	assert.Equal(t, domain.ActionAllow, res.Action)
	assert.Equal(t, 7.0, res.SuggestedPositionSizePct)
}
