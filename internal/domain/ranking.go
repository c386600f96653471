package domain

// PortfolioState is the caller-supplied portfolio picture the constraint
// engine evaluates against. Percentages are of total portfolio value.
type PortfolioState struct {
	SectorExposurePct map[string]float64 `json:"sector_exposure_pct"`
	VolBudgetUsedPct  float64            `json:"vol_budget_used_pct"`
	PositionCount     int                `json:"position_count"`
}

// ConstraintResult is the portfolio constraint engine verdict for one
// candidate position.
type ConstraintResult struct {
	Action                   PortfolioAction `json:"action"`
	Reasons                  []string        `json:"reasons"`
	SuggestedPositionSizePct float64         `json:"suggested_position_size_pct"`
}

// RankedStock is one entry of the sector-relative ranking output.
type RankedStock struct {
	Symbol          string          `json:"symbol"`
	Sector          string          `json:"sector"`
	StrategicScore  float64         `json:"strategic_score"`
	RankInSector    int             `json:"rank_in_sector"` // 1-based
	CapitalPriority CapitalPriority `json:"capital_priority"`
	Reasons         []string        `json:"reasons"`
}
