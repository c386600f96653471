package domain

// Factor status breakpoints, shared by both evaluators. A factor passes when
// it earns at least 70% of its weight, and fails below 40%.
const (
	FactorPassRatio    = 0.70
	FactorCautionRatio = 0.40
)

// Overall strategic status thresholds on the 0-100 aggregate score.
const (
	EligibleMinScore = 70.0
	WatchMinScore    = 50.0
)

// EvaluationDetail is the atomic output of one scoring factor: the number, the
// classification, and the audit trail of why the number is what it is.
// Invariant: 0 <= Score <= MaxScore.
type EvaluationDetail struct {
	Name      string       `json:"name"`
	Score     float64      `json:"score"`
	MaxScore  float64      `json:"max_score"`
	Status    FactorStatus `json:"status"`
	Summary   string       `json:"summary"`
	Breakdown []string     `json:"breakdown"`
}

// Ratio returns Score/MaxScore, or 0 for a zero-weight factor.
func (d EvaluationDetail) Ratio() float64 {
	if d.MaxScore <= 0 {
		return 0
	}
	return d.Score / d.MaxScore
}

// StatusForScore derives the pass/caution/fail classification from a
// score/maxScore pair using the shared breakpoints.
func StatusForScore(score, maxScore float64) FactorStatus {
	if maxScore <= 0 {
		return FactorFail
	}
	ratio := score / maxScore
	switch {
	case ratio >= FactorPassRatio:
		return FactorPass
	case ratio >= FactorCautionRatio:
		return FactorCaution
	default:
		return FactorFail
	}
}

// StrategicGrowthEvaluation is the aggregate output of the 4-9 month
// structural quality model.
type StrategicGrowthEvaluation struct {
	Symbol      string             `json:"symbol"`
	Score       float64            `json:"score"` // 0-100
	Status      StrategicStatus    `json:"status"`
	Factors     []EvaluationDetail `json:"factors"`
	Positives   []string           `json:"positives"`
	Risks       []string           `json:"risks"`
	FailureMode string             `json:"failure_mode,omitempty"`
}

// TacticalRawEvaluation is the first stage of the 0-4 month timing model:
// score and factor details only. Timing quality is separable from timing
// actionability; the status lives on TacticalSentinelEvaluation and is
// computed by the decision composer once regime and confirmation context
// are available.
type TacticalRawEvaluation struct {
	Symbol         string             `json:"symbol"`
	Score          float64            `json:"score"` // 0-100
	Factors        []EvaluationDetail `json:"factors"`
	EntryQuality   []string           `json:"entry_quality"`
	Risks          []string           `json:"risks"`
	FailureTrigger string             `json:"failure_trigger,omitempty"`
}

// TacticalSentinelEvaluation is the contextualized second stage: the raw
// evaluation plus a resolved status.
type TacticalSentinelEvaluation struct {
	TacticalRawEvaluation
	Status        TacticalStatus `json:"status"`
	StatusReasons []string       `json:"status_reasons,omitempty"`
}

// StrategicInputs are the fields the Strategic Growth evaluator scores.
// They are derived from a StockSnapshot plus portfolio state by the snapshot
// converter; the evaluator itself never touches providers.
type StrategicInputs struct {
	Symbol                  string  `json:"symbol"`
	PortfolioConcentration  float64 `json:"portfolio_concentration_pct"`
	SectorExposurePct       float64 `json:"sector_exposure_pct"`
	VIX                     float64 `json:"vix"`
	MarketTrend             string  `json:"market_trend"` // bullish | neutral | bearish
	GDPGrowthPct            float64 `json:"gdp_growth_pct"`
	RateTrend               string  `json:"rate_trend"` // falling | stable | rising
	InstitutionalOwnPct     float64 `json:"institutional_own_pct"`
	InstitutionalActivity   string  `json:"institutional_activity"` // buying | neutral | selling
	RevenueGrowthPct        float64 `json:"revenue_growth_pct"`
	EarningsAccelerationPct float64 `json:"earnings_acceleration_pct"`
	WeeklyMAAlignment       bool    `json:"weekly_ma_alignment"`
	WeeklyRSI               float64 `json:"weekly_rsi"`
	DaysInPosition          int     `json:"days_in_position"`
	MaxHoldingPeriodDays    int     `json:"max_holding_period_days"`
}

// TacticalInputs are the fields the Tactical Sentinel evaluator scores.
type TacticalInputs struct {
	Symbol            string  `json:"symbol"`
	PriceAboveMA20    bool    `json:"price_above_ma20"`
	MA20AboveMA50     bool    `json:"ma20_above_ma50"`
	RSI               float64 `json:"rsi"`
	TrendUp           bool    `json:"trend_up"`
	VolumeRatio       float64 `json:"volume_ratio"`
	BidAskSpreadPct   float64 `json:"bid_ask_spread_pct"`
	ATRPercent        float64 `json:"atr_percent"`
	PutCallRatio      float64 `json:"put_call_ratio"`
	SocialPercentile  float64 `json:"social_percentile"` // 0-100
	AnalystRating     float64 `json:"analyst_rating"`    // 1-5
	DaysToEarnings    int     `json:"days_to_earnings"`  // -1 unknown
	IVRank            float64 `json:"iv_rank"`
	DaysInTrade       int     `json:"days_in_trade"`
	MaxTradeDays      int     `json:"max_trade_days"`
	High52WkPct       float64 `json:"high_52wk_pct"`       // distance below 52-week high
	SectorRankPercent float64 `json:"sector_rank_percent"` // 0-100, higher = stronger vs peers
}
