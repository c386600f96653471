package tactical

// ============================================================================
// FACTOR WEIGHTS
// ============================================================================
// Each factor's maxScore; the seven sum to 100. Event Proximity and
// Time-Stop Logic are risk budgets: they start at max and only subtract.

const (
	WeightTechnicalAlignment = 20.0
	WeightMomentumRegime     = 15.0
	WeightLiquidityTriggers  = 15.0
	WeightSentimentContext   = 10.0
	WeightEventProximity     = 15.0
	WeightTimeStop           = 10.0
	WeightOpportunityRank    = 15.0
)

// ============================================================================
// TECHNICAL ALIGNMENT
// ============================================================================

const (
	priceAboveMA20Points = 7.0
	ma20AboveMA50Points  = 7.0
	trendUpPoints        = 6.0
)

// ============================================================================
// MOMENTUM REGIME
// ============================================================================

const (
	rsiMomentumLow      = 50.0
	rsiMomentumHigh     = 70.0
	rsiAcceptableLow    = 40.0
	rsiAcceptableHigh   = 80.0
	rsiMomentumPoints   = 7.0
	rsiAcceptablePoints = 4.0

	volumeSurgeRatio    = 1.5
	volumeSurgePoints   = 8.0
	volumeHealthyPoints = 4.0
)

// ============================================================================
// LIQUIDITY TRIGGERS
// ============================================================================

const (
	spreadTightPct       = 0.10
	spreadWorkablePct    = 0.50
	spreadTightPoints    = 7.0
	spreadWorkablePoints = 4.0

	atrTradableLowPct  = 1.0
	atrTradableHighPct = 5.0
	atrWildPct         = 8.0
	atrTradablePoints  = 8.0
	atrWorkablePoints  = 4.0
)

// ============================================================================
// SENTIMENT CONTEXT
// ============================================================================

const (
	putCallBullish       = 0.8
	putCallNeutral       = 1.2
	putCallBullishPoints = 4.0
	putCallNeutralPoints = 2.0

	analystStrongRating  = 4.0
	analystNeutralRating = 3.0
	analystStrongPoints  = 3.0
	analystNeutralPoints = 2.0

	socialHealthyLow    = 20.0
	socialHealthyHigh   = 90.0
	socialHealthyPoints = 3.0
)

// ============================================================================
// EVENT PROXIMITY (subtractive)
// ============================================================================

const (
	earningsImminentDays    = 3
	earningsSoonDays        = 7
	earningsNearDays        = 14
	earningsImminentPenalty = 8.0
	earningsSoonPenalty     = 4.0
	earningsNearPenalty     = 2.0
	earningsUnknownPenalty  = 1.0

	ivRankExtreme         = 80.0
	ivRankElevated        = 60.0
	ivRankExtremePenalty  = 4.0
	ivRankElevatedPenalty = 2.0
)

// ============================================================================
// TIME-STOP LOGIC (subtractive)
// ============================================================================

const (
	timeStopMildPct         = 50.0
	timeStopModeratePct     = 75.0
	timeStopMildPenalty     = 3.0
	timeStopModeratePenalty = 6.0
	timeStopFullPenalty     = 10.0
)

// ============================================================================
// OPPORTUNITY RANKING
// ============================================================================

const (
	nearHighPct      = 5.0
	pullbackPct      = 15.0
	correctionPct    = 25.0
	nearHighPoints   = 8.0
	pullbackPoints   = 5.0
	correctionPoints = 2.0

	sectorLeaderPct    = 80.0
	sectorMidPct       = 50.0
	sectorLeaderPoints = 7.0
	sectorMidPoints    = 4.0
)
