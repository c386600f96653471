// Package confirmation implements the five advisory confirmation layers
// (breadth, institutional, options, sentiment, events) and their aggregation.
// Layers perturb scores and labels downstream; they never override a hard
// block or invent an actionable label on their own.
package confirmation

import (
	"sync"

	"github.com/oakmont/vantage/internal/domain"
)

// Thresholds for the 5-level overall signal bucketing.
const (
	strongNetAdjustment = 5
	strongLayerCount    = 3
)

// Engine fans the five layers out in parallel and aggregates. Stateless and
// safe for concurrent use.
type Engine struct{}

// NewEngine creates the confirmation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs all five layers against the snapshot and market context.
// Layers share no mutable state, so they run concurrently; output order is
// fixed regardless: BREADTH, INSTITUTIONAL, OPTIONS, SENTIMENT, EVENTS.
func (e *Engine) Evaluate(snap *domain.StockSnapshot, mc *domain.MarketContext) domain.ConfirmationResult {
	layers := make([]domain.LayerResult, 5)

	var wg sync.WaitGroup
	wg.Add(5)
	go func() { defer wg.Done(); layers[0] = evaluateBreadth(mc) }()
	go func() { defer wg.Done(); layers[1] = evaluateInstitutional(snap.Sentiment) }()
	go func() { defer wg.Done(); layers[2] = evaluateOptions(snap.Options, snap.Sentiment.PutCallRatio) }()
	go func() { defer wg.Done(); layers[3] = evaluateSentiment(snap.Sentiment) }()
	go func() {
		defer wg.Done()
		layers[4] = evaluateEvents(snap.Fundamentals.DaysToEarnings, snap.Options.IVRank, snap.Sentiment.AnalystDowngrades90d)
	}()
	wg.Wait()

	return aggregate(snap.Symbol, layers)
}

// aggregate sums the layer adjustments and buckets the overall signal.
// Invariant: NetAdjustment is the arithmetic sum of the five adjustments.
func aggregate(symbol string, layers []domain.LayerResult) domain.ConfirmationResult {
	res := domain.ConfirmationResult{Symbol: symbol, Layers: layers}

	confirming, disconfirming := 0, 0
	for _, l := range layers {
		res.NetAdjustment += l.ScoreAdjustment
		switch l.Signal {
		case domain.SignalConfirming:
			confirming++
		case domain.SignalDisconfirming:
			disconfirming++
		}
		res.Flags = appendUniqueFlags(res.Flags, l.Flags)
	}

	switch {
	case confirming >= strongLayerCount && disconfirming == 0 && res.NetAdjustment >= strongNetAdjustment:
		res.OverallSignal = domain.StrongConfirm
	case disconfirming >= strongLayerCount && confirming == 0 && res.NetAdjustment <= -strongNetAdjustment:
		res.OverallSignal = domain.StrongDisconfirm
	case confirming > disconfirming && res.NetAdjustment > 0:
		res.OverallSignal = domain.Confirm
	case disconfirming > confirming && res.NetAdjustment < 0:
		res.OverallSignal = domain.Disconfirm
	default:
		res.OverallSignal = domain.Mixed
	}
	return res
}

func appendUniqueFlags(dst []domain.ConfirmationFlag, src []domain.ConfirmationFlag) []domain.ConfirmationFlag {
	for _, f := range src {
		seen := false
		for _, existing := range dst {
			if existing == f {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, f)
		}
	}
	return dst
}
