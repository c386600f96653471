// Package decision composes the per-symbol module outputs into one of four
// final labels and assembles the batch dashboard view.
package decision

import (
	"fmt"
	"math"

	"github.com/oakmont/vantage/internal/domain"
)

// ============================================================================
// COMPOSER CONSTANTS
// ============================================================================

const (
	// Composite blend. The strategic model carries more weight because it is
	// the slower-moving, harder-to-fake signal.
	strategicBlendWeight = 0.6
	tacticalBlendWeight  = 0.4

	// Hostile-regime penalties. Sector AVOID and market RISK_OFF describe one
	// underlying risk (the tape is against you), so only the larger of the
	// two applies. Stacking them would punish the same thing twice.
	sectorAvoidPenalty   = 10.0
	marketRiskOffPenalty = 12.0

	// Final label thresholds on the adjusted composite.
	actMinScore  = 70.0
	lookMinScore = 55.0

	// Tactical status resolution on the raw 0-100 timing score.
	tacticalTradeMinScore = 65.0
	tacticalWatchMinScore = 40.0
)

// Input is everything the composer reads. All fields are plain value records
// produced by the upstream modules; the composer itself is a pure function.
type Input struct {
	Symbol       string
	Strategic    domain.StrategicGrowthEvaluation
	Tactical     domain.TacticalRawEvaluation
	MarketRegime domain.MarketRegime
	SectorRegime domain.SectorRegimeResult
	Portfolio    domain.ConstraintResult
	Confirmation domain.ConfirmationResult
}

// Decision is the final per-symbol verdict.
type Decision struct {
	Symbol         string                            `json:"symbol"`
	Label          domain.DecisionLabel              `json:"label"`
	Reasons        []string                          `json:"reasons"`
	CompositeScore float64                           `json:"composite_score"`
	RegimePenalty  float64                           `json:"regime_penalty"`
	Tactical       domain.TacticalSentinelEvaluation `json:"tactical"`
}

// Composer resolves tactical status and the final label. Stateless.
type Composer struct{}

// NewComposer creates the decision composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose produces the final decision. Total: every input combination maps
// to a label, and PAUSE always carries at least one reason.
func (c *Composer) Compose(in Input) Decision {
	tactical := resolveTactical(in)
	penalty := regimePenalty(in)

	base := strategicBlendWeight*in.Strategic.Score + tacticalBlendWeight*in.Tactical.Score
	score := clamp(base+float64(in.Confirmation.NetAdjustment)-penalty, 0, 100)

	label, reasons := resolveLabel(in, tactical.Status, score)

	return Decision{
		Symbol:         in.Symbol,
		Label:          label,
		Reasons:        reasons,
		CompositeScore: math.Round(score*10) / 10,
		RegimePenalty:  penalty,
		Tactical:       tactical,
	}
}

// resolveTactical turns the raw timing score into TRADE / WATCH / AVOID.
// Timing quality comes from the score; actionability comes from context. A
// hostile regime caps the status at WATCH once (not once per overlay), and a
// strongly disconfirming read caps it at AVOID.
func resolveTactical(in Input) domain.TacticalSentinelEvaluation {
	out := domain.TacticalSentinelEvaluation{TacticalRawEvaluation: in.Tactical}

	switch {
	case in.Tactical.Score >= tacticalTradeMinScore:
		out.Status = domain.TacticalTrade
	case in.Tactical.Score >= tacticalWatchMinScore:
		out.Status = domain.TacticalWatch
	default:
		out.Status = domain.TacticalAvoid
		out.StatusReasons = append(out.StatusReasons,
			fmt.Sprintf("Raw timing score %.0f below watch threshold", in.Tactical.Score))
		return out
	}

	if out.Status == domain.TacticalTrade {
		if reason, hostile := hostileRegime(in); hostile {
			out.Status = domain.TacticalWatch
			out.StatusReasons = append(out.StatusReasons, reason)
		} else if in.Confirmation.OverallSignal == domain.Disconfirm {
			out.Status = domain.TacticalWatch
			out.StatusReasons = append(out.StatusReasons, "Confirmation layers lean against the entry")
		}
	}
	if in.Confirmation.OverallSignal == domain.StrongDisconfirm {
		out.Status = domain.TacticalAvoid
		out.StatusReasons = append(out.StatusReasons, "Strongly disconfirming context overrides timing quality")
	}
	return out
}

// hostileRegime reports whether market or sector context is against the
// position, with a single combined reason. When both are hostile they still
// count once: the aggregation below charges only the larger penalty.
func hostileRegime(in Input) (string, bool) {
	riskOff := in.MarketRegime == domain.RegimeRiskOff
	avoid := in.SectorRegime.Regime == domain.SectorAvoid
	switch {
	case riskOff && avoid:
		return "Market risk-off and sector avoid: hostile regime", true
	case riskOff:
		return "Market regime is risk-off", true
	case avoid:
		return fmt.Sprintf("Sector %s classified AVOID", in.SectorRegime.Sector), true
	}
	return "", false
}

// regimePenalty is the single combined deduction for hostile regime context:
// the max of the applicable penalties, applied once.
func regimePenalty(in Input) float64 {
	p := 0.0
	if in.SectorRegime.Regime == domain.SectorAvoid {
		p = sectorAvoidPenalty
	}
	if in.MarketRegime == domain.RegimeRiskOff {
		p = math.Max(p, marketRiskOffPenalty)
	}
	return p
}

// resolveLabel walks the label ladder. Hard blocks come first so that no
// confirmation bonus can promote past them.
func resolveLabel(in Input, tactical domain.TacticalStatus, score float64) (domain.DecisionLabel, []string) {
	if in.Portfolio.Action == domain.ActionBlock {
		reasons := append([]string{"Position blocked by portfolio constraints"}, in.Portfolio.Reasons...)
		return domain.DecisionPause, reasons
	}
	if in.Strategic.Status == domain.StrategicReject {
		reasons := []string{"Strategic evaluation rejected the name"}
		if in.Strategic.FailureMode != "" {
			reasons = append(reasons, in.Strategic.FailureMode)
		}
		return domain.DecisionPause, reasons
	}
	if in.Confirmation.OverallSignal == domain.StrongDisconfirm {
		return domain.DecisionPause, []string{"Confirmation layers strongly disconfirm the setup"}
	}

	if score >= actMinScore &&
		in.Strategic.Status == domain.StrategicEligible &&
		tactical == domain.TacticalTrade &&
		in.Portfolio.Action == domain.ActionAllow {
		reasons := []string{fmt.Sprintf("Composite %.0f with eligible structure and actionable timing", score)}
		reasons = append(reasons, in.Strategic.Positives...)
		return domain.DecisionGoodToAct, reasons
	}

	if score >= lookMinScore &&
		in.Strategic.Status != domain.StrategicReject &&
		tactical != domain.TacticalAvoid {
		reasons := []string{fmt.Sprintf("Composite %.0f: constructive but not fully aligned", score)}
		reasons = append(reasons, in.Strategic.Risks...)
		return domain.DecisionWorthASmallLook, reasons
	}

	// The resting state. Not a failure: most names, most of the time.
	reasons := []string{fmt.Sprintf("Composite %.0f: no actionable setup, continuing to monitor", score)}
	if in.Strategic.FailureMode != "" {
		reasons = append(reasons, in.Strategic.FailureMode)
	}
	if in.Tactical.FailureTrigger != "" {
		reasons = append(reasons, in.Tactical.FailureTrigger)
	}
	return domain.DecisionKeepAnEyeOn, reasons
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
