package playbook

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/oakmont/vantage/internal/clients"
)

// Outcome horizons in trading days. Roughly one week, one month, one
// quarter of calendar time.
var OutcomeHorizons = []int{5, 20, 60}

// tradingToCalendarDays converts a trading-day horizon to the calendar span
// we wait before measuring.
func tradingToCalendarDays(tradingDays int) int {
	return tradingDays * 7 / 5
}

// OutcomeService measures logged instances at fixed horizons using EOD
// closes only. Measurement is mechanical: every instance past its horizon
// gets scored, regardless of whether anyone acted on the guidance.
type OutcomeService struct {
	store    *Store
	provider clients.Provider
	log      zerolog.Logger
}

// NewOutcomeService creates the outcome measurement service.
func NewOutcomeService(store *Store, provider clients.Provider, log zerolog.Logger) *OutcomeService {
	return &OutcomeService{
		store:    store,
		provider: provider,
		log:      log.With().Str("component", "playbook_outcomes").Logger(),
	}
}

// CaptureDue measures every instance that has crossed a horizon without an
// outcome row. One symbol's fetch failure skips that symbol, never aborts
// the sweep.
func (s *OutcomeService) CaptureDue(ctx context.Context) error {
	for _, horizon := range OutcomeHorizons {
		pending, err := s.store.PendingOutcomes(horizon, tradingToCalendarDays(horizon))
		if err != nil {
			return fmt.Errorf("pending outcomes at %dd: %w", horizon, err)
		}
		for _, inst := range pending {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := s.capture(ctx, inst, horizon); err != nil {
				s.log.Warn().Err(err).Str("symbol", inst.Symbol).Int("horizon", horizon).Msg("Outcome capture failed")
			}
		}
	}
	return nil
}

func (s *OutcomeService) capture(ctx context.Context, inst Instance, horizonTradingDays int) error {
	target := inst.CreatedAt.AddDate(0, 0, tradingToCalendarDays(horizonTradingDays))
	days := int(time.Since(inst.CreatedAt).Hours()/24) + 5
	candles, err := s.provider.Candles(ctx, inst.Symbol, days)
	if err != nil {
		return err
	}

	price, ok := closeAtOrAfter(candles, target)
	if !ok {
		return fmt.Errorf("no close on or after %s for %s", target.Format("2006-01-02"), inst.Symbol)
	}

	returnPct := 0.0
	if inst.PriceAtMatch > 0 {
		returnPct = (price - inst.PriceAtMatch) / inst.PriceAtMatch * 100
	}
	if err := s.store.RecordOutcome(inst.ID, horizonTradingDays, price, returnPct); err != nil {
		return err
	}
	s.log.Info().
		Str("symbol", inst.Symbol).
		Int("horizon_days", horizonTradingDays).
		Float64("return_pct", returnPct).
		Msg("Playbook outcome captured")
	return nil
}

// closeAtOrAfter returns the first EOD close on or after the target date.
func closeAtOrAfter(candles []clients.Candle, target time.Time) (float64, bool) {
	for _, c := range candles {
		if !c.Date.Before(target) {
			return c.Close, true
		}
	}
	return 0, false
}

// PlaybookSummary aggregates measured outcomes for one playbook at one
// horizon.
type PlaybookSummary struct {
	Playbook      string  `json:"playbook"`
	HorizonDays   int     `json:"horizon_days"`
	Samples       int     `json:"samples"`
	MeanReturnPct float64 `json:"mean_return_pct"`
	StdDevPct     float64 `json:"std_dev_pct"`
	WinRatePct    float64 `json:"win_rate_pct"`
}

// Summaries computes per-playbook outcome statistics across the ledger.
func (s *OutcomeService) Summaries(limit int) ([]PlaybookSummary, error) {
	instances, err := s.store.Instances("", limit)
	if err != nil {
		return nil, err
	}

	type key struct {
		playbook string
		horizon  int
	}
	returns := make(map[key][]float64)
	for _, inst := range instances {
		for _, o := range inst.Outcomes {
			k := key{inst.Playbook, o.HorizonDays}
			returns[k] = append(returns[k], o.ReturnPct)
		}
	}

	out := make([]PlaybookSummary, 0, len(returns))
	for k, rets := range returns {
		wins := 0
		for _, r := range rets {
			if r > 0 {
				wins++
			}
		}
		mean, std := stat.MeanStdDev(rets, nil)
		if len(rets) < 2 {
			std = 0
		}
		out = append(out, PlaybookSummary{
			Playbook:      k.playbook,
			HorizonDays:   k.horizon,
			Samples:       len(rets),
			MeanReturnPct: mean,
			StdDevPct:     std,
			WinRatePct:    float64(wins) / float64(len(rets)) * 100,
		})
	}
	return out, nil
}
