package strategic

// ============================================================================
// FACTOR WEIGHTS
// ============================================================================
// Each factor's maxScore. The seven weights sum to 100 so the aggregate
// score needs no rescaling. Hand-authored constants, never recomputed.

const (
	WeightRiskGuardrails   = 15.0
	WeightMarketVolatility = 15.0
	WeightMacroAlignment   = 10.0
	WeightInstitutional    = 15.0
	WeightFundamentalAccel = 20.0
	WeightWeeklyTechnical  = 15.0
	WeightThesisDecay      = 10.0
)

// ============================================================================
// RISK & PORTFOLIO GUARDRAILS
// ============================================================================

const (
	concentrationLimitPct  = 25.0
	sectorExposureLimitPct = 30.0
	guardrailPenalty       = 5.0
)

// ============================================================================
// MARKET & VOLATILITY REGIME
// ============================================================================

const (
	vixCalmThreshold     = 20.0
	vixElevatedThreshold = 30.0
	vixCalmPoints        = 8.0
	vixElevatedPoints    = 4.0

	trendBullishPoints = 7.0
	trendNeutralPoints = 4.0
)

// ============================================================================
// MACRO ALIGNMENT
// ============================================================================

const (
	gdpStrongPct    = 2.0
	gdpStrongPoints = 5.0
	gdpWeakPoints   = 3.0

	ratesFallingPoints = 5.0
	ratesStablePoints  = 3.0
	ratesRisingPoints  = 1.0
)

// ============================================================================
// INSTITUTIONAL SIGNALS
// ============================================================================

const (
	ownershipHighPct    = 70.0
	ownershipMediumPct  = 50.0
	ownershipHighPoints = 8.0
	ownershipMedPoints  = 5.0
	ownershipLowPoints  = 2.0

	activityBuyingPoints  = 7.0
	activityNeutralPoints = 4.0
)

// ============================================================================
// FUNDAMENTAL ACCELERATION
// ============================================================================

const (
	revenueStrongPct      = 20.0
	revenueSolidPct       = 10.0
	revenueStrongPoints   = 10.0
	revenueSolidPoints    = 6.0
	revenuePositivePoints = 3.0

	epsAccelStrongPct      = 15.0
	epsAccelSolidPct       = 5.0
	epsAccelStrongPoints   = 10.0
	epsAccelSolidPoints    = 6.0
	epsAccelPositivePoints = 3.0
)

// ============================================================================
// WEEKLY TECHNICAL STRUCTURE
// ============================================================================

const (
	maAlignmentPoints = 8.0

	rsiSweetLow        = 50.0
	rsiSweetHigh       = 70.0
	rsiTolerableLow    = 30.0
	rsiTolerableHigh   = 80.0
	rsiSweetPoints     = 7.0
	rsiTolerablePoints = 4.0
)

// ============================================================================
// TIME-BASED THESIS DECAY
// ============================================================================
// Penalty grows as the holding consumes its expected validity window.

const (
	decayMildThresholdPct     = 50.0
	decayModerateThresholdPct = 75.0
	decayMildPenalty          = 3.0
	decayModeratePenalty      = 6.0
	decayFullPenalty          = 10.0
)
