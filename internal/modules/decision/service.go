package decision

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/oakmont/vantage/internal/domain"
	"github.com/oakmont/vantage/internal/modules/confirmation"
	"github.com/oakmont/vantage/internal/modules/marketregime"
	"github.com/oakmont/vantage/internal/modules/playbook"
	"github.com/oakmont/vantage/internal/modules/portfolio"
	"github.com/oakmont/vantage/internal/modules/ranking"
	"github.com/oakmont/vantage/internal/modules/sectorregime"
	"github.com/oakmont/vantage/internal/modules/strategic"
	"github.com/oakmont/vantage/internal/modules/tactical"
	"github.com/oakmont/vantage/internal/snapshot"
)

// batchWorkers bounds the evaluation fan-out. Provider calls underneath are
// already rate-limited, so more parallelism here buys nothing.
const batchWorkers = 4

// SymbolDecision is the full per-symbol payload the API returns: the final
// label plus every module output that contributed to it.
type SymbolDecision struct {
	Symbol       string                           `json:"symbol"`
	Decision     Decision                         `json:"decision"`
	Strategic    domain.StrategicGrowthEvaluation `json:"strategic"`
	SectorRegime domain.SectorRegimeResult        `json:"sector_regime"`
	Portfolio    domain.ConstraintResult          `json:"portfolio"`
	Confirmation domain.ConfirmationResult        `json:"confirmation"`
	Playbook     *playbook.Match                  `json:"playbook,omitempty"`
	MarketRegime domain.MarketRegime              `json:"market_regime"`
	Meta         domain.SnapshotMeta              `json:"meta"`
}

// Dashboard is the batch evaluation aggregate: per-symbol decisions in
// request order plus the cross-symbol capital ranking.
type Dashboard struct {
	Regime     domain.MarketRegime  `json:"regime"`
	Confidence domain.Confidence    `json:"regime_confidence"`
	Decisions  []SymbolDecision     `json:"decisions"`
	Ranked     []domain.RankedStock `json:"ranked"`
	Errors     map[string]string    `json:"errors,omitempty"`
}

// Service orchestrates one full evaluation pass: snapshot, both evaluators,
// regime context, confirmation, constraints, playbooks, composition.
type Service struct {
	snapshots *snapshot.Service
	market    *marketregime.Service
	strategic *strategic.Evaluator
	tactical  *tactical.Evaluator
	sectors   *sectorregime.Evaluator
	confirm   *confirmation.Engine
	limits    *portfolio.Engine
	ranker    *ranking.Engine
	playbooks *playbook.Engine
	composer  *Composer
	log       zerolog.Logger
}

// NewService wires the orchestrator.
func NewService(
	snapshots *snapshot.Service,
	market *marketregime.Service,
	playbooks *playbook.Engine,
	log zerolog.Logger,
) *Service {
	return &Service{
		snapshots: snapshots,
		market:    market,
		strategic: strategic.NewEvaluator(),
		tactical:  tactical.NewEvaluator(),
		sectors:   sectorregime.NewEvaluator(),
		confirm:   confirmation.NewEngine(),
		limits:    portfolio.NewEngine(),
		ranker:    ranking.NewEngine(),
		playbooks: playbooks,
		composer:  NewComposer(),
		log:       log.With().Str("component", "decision").Logger(),
	}
}

// Evaluate runs the full pipeline for one symbol. The only error path is a
// snapshot that cannot be built at all; degraded data flows through with
// lowered confidence instead of failing.
func (s *Service) Evaluate(ctx context.Context, symbol string, state domain.PortfolioState, forceRefresh bool) (*SymbolDecision, error) {
	snap, err := s.snapshots.Get(ctx, symbol, forceRefresh)
	if err != nil {
		return nil, fmt.Errorf("snapshot for %s: %w", symbol, err)
	}
	mc := s.market.Context(ctx)

	sectorReg := s.sectors.Evaluate(sectorregime.InputsFromContext(mc, snap.Sector))

	constraint := s.limits.Evaluate(state, portfolio.Candidate{
		Symbol:                snap.Symbol,
		Sector:                snap.Sector,
		SectorRegime:          sectorReg.Regime,
		ExpectedVolatilityPct: snap.Technicals.ATRPercent,
	})

	holding := snapshot.HoldingContext{}
	strategicEval := s.strategic.Evaluate(snapshot.ToStrategicInputs(snap, mc, state, holding))
	tacticalRaw := s.tactical.Evaluate(snapshot.ToTacticalInputs(snap, sectorRankPercent(sectorReg), holding))
	conf := s.confirm.Evaluate(snap, mc)

	composed := s.composer.Compose(Input{
		Symbol:       snap.Symbol,
		Strategic:    strategicEval,
		Tactical:     tacticalRaw,
		MarketRegime: mc.Regime,
		SectorRegime: sectorReg,
		Portfolio:    constraint,
		Confirmation: conf,
	})

	match := s.playbooks.Evaluate(playbook.MatchInput{
		Symbol:          snap.Symbol,
		Price:           snap.Price,
		StrategicScore:  strategicEval.Score,
		StrategicStatus: strategicEval.Status,
		TacticalScore:   tacticalRaw.Score,
		Confirmation:    conf.OverallSignal,
		MarketRegime:    mc.Regime,
		SectorRegime:    sectorReg.Regime,
		RSI:             snap.Technicals.RSI14,
		TrendUp:         snap.Technicals.Trend == domain.TrendUp,
		VolumeRatio:     snap.Technicals.VolumeRatio,
		High52WkPct:     snap.Technicals.High52WkPct,
	})

	s.log.Info().
		Str("symbol", snap.Symbol).
		Str("label", string(composed.Label)).
		Float64("composite", composed.CompositeScore).
		Str("regime", string(mc.Regime)).
		Msg("Evaluation composed")

	return &SymbolDecision{
		Symbol:       snap.Symbol,
		Decision:     composed,
		Strategic:    strategicEval,
		SectorRegime: sectorReg,
		Portfolio:    constraint,
		Confirmation: conf,
		Playbook:     match,
		MarketRegime: mc.Regime,
		Meta:         snap.Meta,
	}, nil
}

// EvaluateBatch fans the pipeline out over a bounded worker pool. One
// symbol's failure lands in Errors; it never fails the batch.
func (s *Service) EvaluateBatch(ctx context.Context, symbols []string, state domain.PortfolioState) *Dashboard {
	mc := s.market.Context(ctx)
	results := make([]*SymbolDecision, len(symbols))
	failures := make([]error, len(symbols))

	sem := make(chan struct{}, batchWorkers)
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], failures[i] = s.Evaluate(ctx, symbol, state, false)
		}(i, symbol)
	}
	wg.Wait()

	dash := &Dashboard{Regime: mc.Regime, Confidence: mc.Confidence}
	var entries []ranking.Entry
	for i, symbol := range symbols {
		if failures[i] != nil {
			if dash.Errors == nil {
				dash.Errors = map[string]string{}
			}
			dash.Errors[symbol] = failures[i].Error()
			s.log.Warn().Err(failures[i]).Str("symbol", symbol).Msg("Batch evaluation symbol failed")
			continue
		}
		d := results[i]
		dash.Decisions = append(dash.Decisions, *d)
		entries = append(entries, ranking.Entry{
			Symbol:          d.Symbol,
			Sector:          d.SectorRegime.Sector,
			StrategicScore:  d.Strategic.Score,
			StrategicStatus: d.Strategic.Status,
			TacticalStatus:  d.Decision.Tactical.Status,
			SectorRegime:    d.SectorRegime.Regime,
			PortfolioAction: d.Portfolio.Action,
		})
	}
	dash.Ranked = s.ranker.Rank(entries)
	return dash
}

// SectorRegime classifies one sector against the current market context.
func (s *Service) SectorRegime(ctx context.Context, sector string) domain.SectorRegimeResult {
	mc := s.market.Context(ctx)
	return s.sectors.Evaluate(sectorregime.InputsFromContext(mc, sector))
}

// sectorRankPercent maps the -4..+4 sector regime score onto the 0-100
// relative-strength percentile the tactical evaluator expects.
func sectorRankPercent(r domain.SectorRegimeResult) float64 {
	return 50 + float64(r.Score)*10
}
