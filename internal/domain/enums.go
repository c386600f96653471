// Package domain holds the shared value types and closed enumerations that
// cross module boundaries. Everything here is a plain JSON-serializable record:
// results are produced once, never mutated, and can cross a process boundary
// losslessly.
package domain

// Confidence expresses how much trust we place in a derived value.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// FactorStatus is the per-factor pass/caution/fail classification derived
// from the score/maxScore ratio.
type FactorStatus string

const (
	FactorPass    FactorStatus = "pass"
	FactorCaution FactorStatus = "caution"
	FactorFail    FactorStatus = "fail"
)

// StrategicStatus is the overall verdict of the Strategic Growth evaluator.
type StrategicStatus string

const (
	StrategicEligible StrategicStatus = "ELIGIBLE"
	StrategicWatch    StrategicStatus = "WATCH"
	StrategicReject   StrategicStatus = "REJECT"
)

// TacticalStatus is the timing actionability verdict. The tactical evaluator
// itself emits TacticalPending; the real status is resolved by the decision
// composer once market-regime and confirmation context are available.
type TacticalStatus string

const (
	TacticalTrade   TacticalStatus = "TRADE"
	TacticalWatch   TacticalStatus = "WATCH"
	TacticalAvoid   TacticalStatus = "AVOID"
	TacticalPending TacticalStatus = "PENDING"
)

// MarketRegime classifies the overall market.
type MarketRegime string

const (
	RegimeRiskOn  MarketRegime = "RISK_ON"
	RegimeNeutral MarketRegime = "NEUTRAL"
	RegimeRiskOff MarketRegime = "RISK_OFF"
)

// SectorRegime classifies a single sector.
type SectorRegime string

const (
	SectorFavored SectorRegime = "FAVORED"
	SectorNeutral SectorRegime = "NEUTRAL"
	SectorAvoid   SectorRegime = "AVOID"
)

// BreadthHealth classifies market breadth.
type BreadthHealth string

const (
	BreadthStrong  BreadthHealth = "STRONG"
	BreadthNeutral BreadthHealth = "NEUTRAL"
	BreadthWeak    BreadthHealth = "WEAK"
)

// Trend is a coarse direction classification used for indices and sectors.
type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendFlat    Trend = "FLAT"
	TrendLeading Trend = "LEADING"
	TrendLagging Trend = "LAGGING"
	TrendNeutral Trend = "NEUTRAL"
)

// LayerSignal is the verdict of one confirmation layer.
type LayerSignal string

const (
	SignalConfirming    LayerSignal = "CONFIRMING"
	SignalNeutral       LayerSignal = "NEUTRAL"
	SignalDisconfirming LayerSignal = "DISCONFIRMING"
)

// OverallSignal is the 5-point aggregate of the confirmation layers.
type OverallSignal string

const (
	StrongConfirm    OverallSignal = "STRONG_CONFIRM"
	Confirm          OverallSignal = "CONFIRM"
	Mixed            OverallSignal = "MIXED"
	Disconfirm       OverallSignal = "DISCONFIRM"
	StrongDisconfirm OverallSignal = "STRONG_DISCONFIRM"
)

// PortfolioAction is the portfolio constraint engine verdict.
type PortfolioAction string

const (
	ActionAllow  PortfolioAction = "ALLOW"
	ActionReduce PortfolioAction = "REDUCE"
	ActionBlock  PortfolioAction = "BLOCK"
)

// CapitalPriority is the per-stock allocation-guidance label produced by the
// relative ranking engine. Exactly one value per stock.
type CapitalPriority string

const (
	PriorityBuy        CapitalPriority = "BUY"
	PriorityAccumulate CapitalPriority = "ACCUMULATE"
	PriorityPilot      CapitalPriority = "PILOT"
	PriorityWatch      CapitalPriority = "WATCH"
	PriorityBlocked    CapitalPriority = "BLOCKED"
)

// DecisionLabel is the final per-symbol recommendation.
type DecisionLabel string

const (
	DecisionGoodToAct       DecisionLabel = "GOOD_TO_ACT"
	DecisionWorthASmallLook DecisionLabel = "WORTH_A_SMALL_LOOK"
	// DecisionKeepAnEyeOn is the default resting state. It is not a failure:
	// most symbols most of the time should land here.
	DecisionKeepAnEyeOn DecisionLabel = "KEEP_AN_EYE_ON"
	// DecisionPause always carries an explanation.
	DecisionPause DecisionLabel = "PAUSE"
)

// ConfirmationFlag is a categorical marker emitted by confirmation layers.
type ConfirmationFlag string

const (
	FlagEarningsImminent    ConfirmationFlag = "EARNINGS_IMMINENT"
	FlagEarningsSoon        ConfirmationFlag = "EARNINGS_SOON"
	FlagInsiderSelling      ConfirmationFlag = "INSIDER_SELLING"
	FlagInsiderBuying       ConfirmationFlag = "INSIDER_BUYING"
	FlagInstitutionalExit   ConfirmationFlag = "INSTITUTIONAL_EXIT"
	FlagHighIVCrush         ConfirmationFlag = "HIGH_IV_CRUSH_RISK"
	FlagBearishOptionsFlow  ConfirmationFlag = "BEARISH_OPTIONS_FLOW"
	FlagCrowdedSentiment    ConfirmationFlag = "CROWDED_SENTIMENT"
	FlagAnalystDowngradeStk ConfirmationFlag = "ANALYST_DOWNGRADE_STREAK"
)
