// Package portfolio implements the constraint engine: hard gates checked in
// a fixed order, then soft position-size reductions. The gate order is the
// specification of the behavior; do not reorder.
package portfolio

import (
	"fmt"

	"github.com/oakmont/vantage/internal/domain"
)

// ============================================================================
// HARD GATES (short-circuit, checked in order)
// ============================================================================

const (
	sectorExposureBlockPct = 25.0
	volBudgetBlockPct      = 80.0
)

// ============================================================================
// SOFT SIZING
// ============================================================================

const (
	basePositionSizePct = 10.0

	neutralSectorReduction   = 3.0
	highVolUsedReduction     = 4.0
	highExpectedVolReduction = 3.0

	highVolUsedPct     = 60.0
	highExpectedVolPct = 4.0

	minPositionSizePct = 2.0
	reduceThresholdPct = 5.0
)

// Candidate describes the position under consideration.
type Candidate struct {
	Symbol                string
	Sector                string
	SectorRegime          domain.SectorRegime
	ExpectedVolatilityPct float64
}

// Engine evaluates portfolio constraints. Stateless.
type Engine struct{}

// NewEngine creates the portfolio constraint engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs the hard gates in order, short-circuiting on the first
// block, then computes a suggested size with soft reductions.
func (e *Engine) Evaluate(p domain.PortfolioState, c Candidate) domain.ConstraintResult {
	exposure := p.SectorExposurePct[c.Sector]
	if exposure >= sectorExposureBlockPct {
		return domain.ConstraintResult{
			Action:  domain.ActionBlock,
			Reasons: []string{fmt.Sprintf("Sector %s exposure %.1f%% at or above %.0f%% cap", c.Sector, exposure, sectorExposureBlockPct)},
		}
	}

	if c.SectorRegime == domain.SectorAvoid {
		return domain.ConstraintResult{
			Action:  domain.ActionBlock,
			Reasons: []string{fmt.Sprintf("Sector %s regime AVOID", c.Sector)},
		}
	}

	if p.VolBudgetUsedPct >= volBudgetBlockPct {
		return domain.ConstraintResult{
			Action:  domain.ActionBlock,
			Reasons: []string{fmt.Sprintf("Volatility budget %.1f%% used, at or above %.0f%% cap", p.VolBudgetUsedPct, volBudgetBlockPct)},
		}
	}

	size := basePositionSizePct
	reasons := []string{fmt.Sprintf("Base position size %.0f%%", basePositionSizePct)}

	if c.SectorRegime == domain.SectorNeutral {
		size -= neutralSectorReduction
		reasons = append(reasons, fmt.Sprintf("Sector regime neutral (-%.0f%%)", neutralSectorReduction))
	}
	if p.VolBudgetUsedPct >= highVolUsedPct {
		size -= highVolUsedReduction
		reasons = append(reasons, fmt.Sprintf("Volatility budget %.1f%% used (-%.0f%%)", p.VolBudgetUsedPct, highVolUsedReduction))
	}
	if c.ExpectedVolatilityPct >= highExpectedVolPct {
		size -= highExpectedVolReduction
		reasons = append(reasons, fmt.Sprintf("Expected volatility %.1f%% high (-%.0f%%)", c.ExpectedVolatilityPct, highExpectedVolReduction))
	}

	if size < minPositionSizePct {
		size = minPositionSizePct
		reasons = append(reasons, fmt.Sprintf("Floored at %.0f%% minimum", minPositionSizePct))
	}

	action := domain.ActionAllow
	if size < reduceThresholdPct {
		action = domain.ActionReduce
		reasons = append(reasons, fmt.Sprintf("Final size %.0f%% below %.0f%%, reduced conviction", size, reduceThresholdPct))
	}

	return domain.ConstraintResult{
		Action:                   action,
		Reasons:                  reasons,
		SuggestedPositionSizePct: size,
	}
}
