package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmont/vantage/internal/domain"
)

func alignedInput() Input {
	return Input{
		Symbol: "AAPL",
		Strategic: domain.StrategicGrowthEvaluation{
			Symbol:    "AAPL",
			Score:     80,
			Status:    domain.StrategicEligible,
			Positives: []string{"Fundamental acceleration confirmed"},
		},
		Tactical: domain.TacticalRawEvaluation{
			Symbol: "AAPL",
			Score:  75,
		},
		MarketRegime: domain.RegimeRiskOn,
		SectorRegime: domain.SectorRegimeResult{
			Sector: "Technology",
			Regime: domain.SectorFavored,
			Score:  3,
		},
		Portfolio: domain.ConstraintResult{
			Action:                   domain.ActionAllow,
			SuggestedPositionSizePct: 10,
		},
		Confirmation: domain.ConfirmationResult{
			Symbol:        "AAPL",
			NetAdjustment: 4,
			OverallSignal: domain.Confirm,
		},
	}
}

func TestFullyAlignedIsGoodToAct(t *testing.T) {
	d := NewComposer().Compose(alignedInput())

	assert.Equal(t, domain.DecisionGoodToAct, d.Label)
	assert.Equal(t, domain.TacticalTrade, d.Tactical.Status)
	// 0.6*80 + 0.4*75 = 78, +4 confirmation, no penalty.
	assert.InDelta(t, 82.0, d.CompositeScore, 0.001)
	assert.Zero(t, d.RegimePenalty)
	assert.NotEmpty(t, d.Reasons)
}

func TestKeepAnEyeOnIsTheDefault(t *testing.T) {
	in := alignedInput()
	in.Strategic.Score = 55
	in.Strategic.Status = domain.StrategicWatch
	in.Tactical.Score = 35
	in.Confirmation.NetAdjustment = 0
	in.Confirmation.OverallSignal = domain.Mixed

	d := NewComposer().Compose(in)
	// 0.6*55 + 0.4*35 = 47: below both actionable thresholds.
	assert.Equal(t, domain.DecisionKeepAnEyeOn, d.Label)
	assert.Equal(t, domain.TacticalAvoid, d.Tactical.Status)
	assert.NotEmpty(t, d.Reasons, "resting state still explains itself")
}

func TestWorthASmallLookMidBand(t *testing.T) {
	in := alignedInput()
	in.Strategic.Score = 62
	in.Tactical.Score = 55
	in.Confirmation.NetAdjustment = 0

	d := NewComposer().Compose(in)
	// 0.6*62 + 0.4*55 = 59.2: look band, tactical resolves WATCH.
	assert.Equal(t, domain.DecisionWorthASmallLook, d.Label)
	assert.Equal(t, domain.TacticalWatch, d.Tactical.Status)
}

func TestPortfolioBlockAlwaysPauses(t *testing.T) {
	in := alignedInput()
	in.Portfolio = domain.ConstraintResult{
		Action:  domain.ActionBlock,
		Reasons: []string{"Sector exposure 27.0% at or above 25% limit"},
	}
	// Even a maximal confirmation bonus cannot promote past the block.
	in.Confirmation.NetAdjustment = 20
	in.Confirmation.OverallSignal = domain.StrongConfirm

	d := NewComposer().Compose(in)
	assert.Equal(t, domain.DecisionPause, d.Label)
	require.NotEmpty(t, d.Reasons)
	assert.Contains(t, d.Reasons, "Sector exposure 27.0% at or above 25% limit")
}

func TestStrategicRejectPauses(t *testing.T) {
	in := alignedInput()
	in.Strategic.Score = 30
	in.Strategic.Status = domain.StrategicReject
	in.Strategic.FailureMode = "Thesis decay: holding period exhausted"

	d := NewComposer().Compose(in)
	assert.Equal(t, domain.DecisionPause, d.Label)
	assert.Contains(t, d.Reasons, "Thesis decay: holding period exhausted")
}

func TestStrongDisconfirmPausesAndAvoids(t *testing.T) {
	in := alignedInput()
	in.Confirmation.NetAdjustment = -12
	in.Confirmation.OverallSignal = domain.StrongDisconfirm

	d := NewComposer().Compose(in)
	assert.Equal(t, domain.DecisionPause, d.Label)
	assert.Equal(t, domain.TacticalAvoid, d.Tactical.Status)
	assert.NotEmpty(t, d.Reasons)
}

func TestHostileRegimePenaltyIsMaxNotSum(t *testing.T) {
	in := alignedInput()
	in.Confirmation.NetAdjustment = 0
	in.MarketRegime = domain.RegimeRiskOff
	in.SectorRegime.Regime = domain.SectorAvoid
	in.SectorRegime.Score = -3

	d := NewComposer().Compose(in)
	assert.InDelta(t, marketRiskOffPenalty, d.RegimePenalty, 0.001)
	// base 78 minus the single combined penalty, never 78-10-12.
	assert.InDelta(t, 66.0, d.CompositeScore, 0.001)
	assert.Equal(t, domain.TacticalWatch, d.Tactical.Status)
	require.NotEmpty(t, d.Tactical.StatusReasons)
	assert.Contains(t, d.Tactical.StatusReasons[0], "hostile regime")
}

func TestSectorAvoidAloneUsesSectorPenalty(t *testing.T) {
	in := alignedInput()
	in.SectorRegime.Regime = domain.SectorAvoid

	d := NewComposer().Compose(in)
	assert.InDelta(t, sectorAvoidPenalty, d.RegimePenalty, 0.001)
}

func TestDisconfirmDowngradesTradeToWatch(t *testing.T) {
	in := alignedInput()
	in.Confirmation.OverallSignal = domain.Disconfirm
	in.Confirmation.NetAdjustment = -4

	d := NewComposer().Compose(in)
	assert.Equal(t, domain.TacticalWatch, d.Tactical.Status)
	assert.NotEqual(t, domain.DecisionGoodToAct, d.Label)
}

func TestTacticalThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.TacticalStatus
	}{
		{80, domain.TacticalTrade},
		{65, domain.TacticalTrade},
		{64.9, domain.TacticalWatch},
		{40, domain.TacticalWatch},
		{39.9, domain.TacticalAvoid},
		{0, domain.TacticalAvoid},
	}
	for _, tt := range tests {
		in := alignedInput()
		in.Tactical.Score = tt.score
		d := NewComposer().Compose(in)
		assert.Equal(t, tt.want, d.Tactical.Status, "score %.1f", tt.score)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	in := alignedInput()
	first := NewComposer().Compose(in)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, NewComposer().Compose(in))
	}
}

func TestScoreClampedToHundred(t *testing.T) {
	in := alignedInput()
	in.Strategic.Score = 100
	in.Tactical.Score = 100
	in.Confirmation.NetAdjustment = 15

	d := NewComposer().Compose(in)
	assert.LessOrEqual(t, d.CompositeScore, 100.0)
}
