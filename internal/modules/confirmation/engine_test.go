package confirmation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmont/vantage/internal/domain"
)

func bullishSnapshot() *domain.StockSnapshot {
	return &domain.StockSnapshot{
		Symbol: "MSFT",
		Fundamentals: domain.Fundamentals{
			DaysToEarnings: 40,
		},
		Sentiment: domain.SentimentData{
			AnalystRating:         4.4,
			InstitutionalOwnPct:   75,
			InstitutionalTrend:    "buying",
			InsiderNetShares90d:   50000,
			PutCallRatio:          0.6,
			SocialMentionPercentl: 55,
		},
		Options: domain.OptionsData{
			IVRank:           25,
			CallOpenInterest: 300000,
			PutOpenInterest:  100000,
		},
	}
}

func strongContext() *domain.MarketContext {
	return &domain.MarketContext{
		Breadth: domain.BreadthData{Health: domain.BreadthStrong, PctAbove200DMA: 72},
	}
}

func TestLayerOrderFixed(t *testing.T) {
	res := NewEngine().Evaluate(bullishSnapshot(), strongContext())

	require.Len(t, res.Layers, 5)
	assert.Equal(t, domain.LayerBreadth, res.Layers[0].Layer)
	assert.Equal(t, domain.LayerInstitutional, res.Layers[1].Layer)
	assert.Equal(t, domain.LayerOptions, res.Layers[2].Layer)
	assert.Equal(t, domain.LayerSentiment, res.Layers[3].Layer)
	assert.Equal(t, domain.LayerEvents, res.Layers[4].Layer)
}

func TestNetAdjustmentIsSum(t *testing.T) {
	res := NewEngine().Evaluate(bullishSnapshot(), strongContext())

	sum := 0
	for _, l := range res.Layers {
		sum += l.ScoreAdjustment
	}
	assert.Equal(t, sum, res.NetAdjustment, "net adjustment must be the arithmetic sum of layer adjustments")
}

func TestStrongConfirmPath(t *testing.T) {
	res := NewEngine().Evaluate(bullishSnapshot(), strongContext())

	assert.Equal(t, domain.StrongConfirm, res.OverallSignal)
	assert.Positive(t, res.NetAdjustment)
	assert.Contains(t, res.Flags, domain.FlagInsiderBuying)
}

func TestEarningsImminentScenario(t *testing.T) {
	// daysToEarnings=2 alone must flag EARNINGS_IMMINENT and disconfirm the
	// events layer with a -3 adjustment.
	layer := evaluateEvents(2, 40, 0)

	assert.Equal(t, domain.SignalDisconfirming, layer.Signal)
	assert.Equal(t, -3, layer.ScoreAdjustment)
	assert.Contains(t, layer.Flags, domain.FlagEarningsImminent)
}

func TestEventsLayerNeverConfirms(t *testing.T) {
	clear := evaluateEvents(60, 20, 0)
	assert.Equal(t, domain.SignalNeutral, clear.Signal)
	assert.Equal(t, 0, clear.ScoreAdjustment)

	unknown := evaluateEvents(-1, 0, 0)
	assert.Equal(t, domain.SignalNeutral, unknown.Signal)
	assert.False(t, unknown.DataAvailable)
}

func TestEventsCompoundRisk(t *testing.T) {
	// Imminent earnings with extreme IV and a downgrade streak: risk factors
	// stack but the adjustment stays within the layer floor.
	layer := evaluateEvents(1, 90, 3)

	assert.Equal(t, domain.SignalDisconfirming, layer.Signal)
	assert.Equal(t, -5, layer.ScoreAdjustment)
	assert.Contains(t, layer.Flags, domain.FlagEarningsImminent)
	assert.Contains(t, layer.Flags, domain.FlagHighIVCrush)
}

func TestInstitutionalExitFlag(t *testing.T) {
	layer := evaluateInstitutional(domain.SentimentData{
		InstitutionalTrend:  "selling",
		InsiderNetShares90d: -500000,
		InstitutionalOwnPct: 45,
	})

	assert.Equal(t, domain.SignalDisconfirming, layer.Signal)
	assert.Contains(t, layer.Flags, domain.FlagInsiderSelling)
	assert.Contains(t, layer.Flags, domain.FlagInstitutionalExit)
}

func TestOptionsLayerUnavailable(t *testing.T) {
	layer := evaluateOptions(domain.OptionsData{}, 1.0)

	assert.False(t, layer.DataAvailable)
	assert.Equal(t, domain.SignalNeutral, layer.Signal)
	assert.Equal(t, 0, layer.ScoreAdjustment)
}

func TestBreadthLayerWithoutContext(t *testing.T) {
	layer := evaluateBreadth(nil)

	assert.False(t, layer.DataAvailable)
	assert.Equal(t, domain.SignalNeutral, layer.Signal)
	assert.Equal(t, 0, layer.ScoreAdjustment)
}

func TestCrowdedSentimentFlag(t *testing.T) {
	layer := evaluateSentiment(domain.SentimentData{
		AnalystRating:         3.2,
		SocialMentionPercentl: 98,
	})

	assert.Contains(t, layer.Flags, domain.FlagCrowdedSentiment)
}

func TestDisconfirmAggregate(t *testing.T) {
	snap := &domain.StockSnapshot{
		Symbol: "XYZ",
		Fundamentals: domain.Fundamentals{
			DaysToEarnings: 2,
		},
		Sentiment: domain.SentimentData{
			AnalystRating:        2.0,
			AnalystDowngrades90d: 3,
			InstitutionalTrend:   "selling",
			InsiderNetShares90d:  -400000,
			InstitutionalOwnPct:  15,
			PutCallRatio:         1.7,
		},
		Options: domain.OptionsData{
			IVRank:           90,
			CallOpenInterest: 50000,
			PutOpenInterest:  200000,
		},
	}
	weakCtx := &domain.MarketContext{
		Breadth: domain.BreadthData{Health: domain.BreadthWeak, PctAbove200DMA: 30},
	}

	res := NewEngine().Evaluate(snap, weakCtx)

	assert.Equal(t, domain.StrongDisconfirm, res.OverallSignal)
	assert.Negative(t, res.NetAdjustment)
	assert.Contains(t, res.Flags, domain.FlagEarningsImminent)
	assert.Contains(t, res.Flags, domain.FlagBearishOptionsFlow)
}

func TestDeterminismAcrossParallelRuns(t *testing.T) {
	e := NewEngine()
	snap := bullishSnapshot()
	ctx := strongContext()

	first := e.Evaluate(snap, ctx)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, e.Evaluate(snap, ctx))
	}
}
