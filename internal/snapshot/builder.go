// Package snapshot assembles the canonical per-symbol StockSnapshot from
// whatever market data providers respond, computes technical indicators,
// and converts snapshots into evaluator input structs.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oakmont/vantage/internal/clients"
	"github.com/oakmont/vantage/internal/domain"
	"github.com/oakmont/vantage/internal/reliability"
)

// historyDays is the candle window we request: enough calendar days to cover
// 252 trading days for the 52-week high and the 200-day moving average.
const historyDays = 400

// Builder fetches from providers concurrently and normalizes the results
// into a StockSnapshot. Providers are tried in order; the first that answers
// a given part wins. Every part failing independently only degrades snapshot
// confidence, except quote and candles which are required.
type Builder struct {
	providers []clients.Provider
	breakers  *reliability.Registry
	log       zerolog.Logger
}

// NewBuilder creates a snapshot builder over the given providers, primary
// first.
func NewBuilder(providers []clients.Provider, breakers *reliability.Registry, log zerolog.Logger) *Builder {
	return &Builder{
		providers: providers,
		breakers:  breakers,
		log:       log.With().Str("component", "snapshot_builder").Logger(),
	}
}

// fetchResult collects the all-settled outcome of the provider fan-out.
// Each field is written by exactly one goroutine before the WaitGroup
// releases, so no lock is needed.
type fetchResult struct {
	quote        *clients.Quote
	profile      *clients.Profile
	fundamentals *clients.FundamentalsPayload
	sentiment    *clients.SentimentPayload
	options      *clients.OptionsPayload
	candles      []clients.Candle
	macro        *clients.MacroPayload

	used   map[string]bool
	failed map[string]bool
	mu     sync.Mutex // guards used/failed only
}

func (r *fetchResult) record(provider string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.used[provider] = true
	} else {
		r.failed[provider] = true
	}
}

// Build assembles a fresh snapshot for the symbol.
func (b *Builder) Build(ctx context.Context, symbol string) (*domain.StockSnapshot, error) {
	if len(b.providers) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}

	res := &fetchResult{used: map[string]bool{}, failed: map[string]bool{}}

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		res.quote = firstOf(b, ctx, res, func(p clients.Provider) (*clients.Quote, error) {
			return p.Quote(ctx, symbol)
		})
	})
	run(func() {
		res.profile = firstOf(b, ctx, res, func(p clients.Provider) (*clients.Profile, error) {
			return p.Profile(ctx, symbol)
		})
	})
	run(func() {
		res.fundamentals = firstOf(b, ctx, res, func(p clients.Provider) (*clients.FundamentalsPayload, error) {
			return p.Fundamentals(ctx, symbol)
		})
	})
	run(func() {
		res.sentiment = firstOf(b, ctx, res, func(p clients.Provider) (*clients.SentimentPayload, error) {
			return p.Sentiment(ctx, symbol)
		})
	})
	run(func() {
		res.options = firstOf(b, ctx, res, func(p clients.Provider) (*clients.OptionsPayload, error) {
			return p.Options(ctx, symbol)
		})
	})
	run(func() {
		candles := firstOf(b, ctx, res, func(p clients.Provider) (*[]clients.Candle, error) {
			c, err := p.Candles(ctx, symbol, historyDays)
			if err != nil {
				return nil, err
			}
			return &c, nil
		})
		if candles != nil {
			res.candles = *candles
		}
	})
	run(func() {
		res.macro = firstOf(b, ctx, res, func(p clients.Provider) (*clients.MacroPayload, error) {
			return p.Macro(ctx)
		})
	})
	wg.Wait()

	if res.quote == nil {
		return nil, fmt.Errorf("snapshot %s: no provider returned a quote", symbol)
	}
	if len(res.candles) == 0 {
		return nil, fmt.Errorf("snapshot %s: no provider returned price history", symbol)
	}

	return b.assemble(symbol, res), nil
}

// firstOf tries providers in order until one returns a value. Breaker state
// is consulted per provider; a tripped provider is skipped entirely.
func firstOf[T any](b *Builder, ctx context.Context, res *fetchResult, fetch func(clients.Provider) (*T, error)) *T {
	for _, p := range b.providers {
		if ctx.Err() != nil {
			return nil
		}
		if err := b.breakers.Allow(p.Name()); err != nil {
			continue
		}
		v, err := fetch(p)
		if err != nil {
			b.breakers.RecordFailure(p.Name())
			res.record(p.Name(), false)
			b.log.Debug().Err(err).Str("provider", p.Name()).Msg("Provider fetch failed")
			continue
		}
		b.breakers.RecordSuccess(p.Name())
		res.record(p.Name(), true)
		return v
	}
	return nil
}

func (b *Builder) assemble(symbol string, res *fetchResult) *domain.StockSnapshot {
	snap := &domain.StockSnapshot{
		Symbol:        symbol,
		Price:         res.quote.Price,
		Change:        res.quote.Change,
		ChangePercent: res.quote.ChangePercent,
		Volume:        res.quote.Volume,
	}

	var warnings []string

	if res.profile != nil {
		snap.CompanyName = res.profile.Name
		snap.Sector = res.profile.Sector
		snap.Industry = res.profile.Industry
		snap.MarketCap = res.profile.MarketCap
	} else {
		warnings = append(warnings, "company profile unavailable")
	}

	snap.Fundamentals.DaysToEarnings = -1
	if res.fundamentals != nil {
		f := res.fundamentals
		snap.Fundamentals.RevenueGrowthPct = f.RevenueGrowthPct
		snap.Fundamentals.RevenueGrowthSeries = f.RevenueGrowthSeries
		snap.Fundamentals.EPSGrowthPct = f.EPSGrowthPct
		snap.Fundamentals.EPSGrowthSeries = f.EPSGrowthSeries
		snap.Fundamentals.EarningsAccelPct = f.EarningsAccelPct
		snap.Fundamentals.PERatio = f.PERatio
		snap.Fundamentals.ForwardPERatio = f.ForwardPERatio
		snap.Fundamentals.PriceToSales = f.PriceToSales
		if !f.NextEarningsDate.IsZero() {
			days := int(time.Until(f.NextEarningsDate).Hours() / 24)
			if days >= 0 {
				snap.Fundamentals.DaysToEarnings = days
			}
		}
	} else {
		warnings = append(warnings, "fundamentals unavailable")
	}

	snap.Fundamentals.GDPGrowthPct = 2.0
	snap.Fundamentals.RateTrend = "stable"
	if res.macro != nil {
		snap.Fundamentals.GDPGrowthPct = res.macro.GDPGrowthPct
		snap.Fundamentals.RateTrend = res.macro.RateTrend
	} else {
		warnings = append(warnings, "macro data unavailable")
	}

	if res.sentiment != nil {
		s := res.sentiment
		snap.Sentiment = domain.SentimentData{
			AnalystRating:         s.AnalystRating,
			AnalystDowngrades90d:  s.AnalystDowngrades90d,
			InstitutionalOwnPct:   s.InstitutionalOwnPct,
			InstitutionalTrend:    s.InstitutionalTrend,
			InsiderNetShares90d:   s.InsiderNetShares90d,
			PutCallRatio:          s.PutCallRatio,
			SocialMentionPercentl: s.SocialMentionPercentl,
		}
	} else {
		snap.Sentiment = domain.SentimentData{AnalystRating: 3.0, InstitutionalTrend: "neutral", PutCallRatio: 1.0}
		warnings = append(warnings, "sentiment data unavailable")
	}

	if res.options != nil {
		snap.Options = domain.OptionsData{
			IV:               res.options.IV,
			IVRank:           res.options.IVRank,
			CallOpenInterest: res.options.CallOpenInterest,
			PutOpenInterest:  res.options.PutOpenInterest,
		}
	} else {
		warnings = append(warnings, "options data unavailable")
	}

	snap.HistoricalPrices = make([]domain.OHLCV, len(res.candles))
	for i, c := range res.candles {
		snap.HistoricalPrices[i] = domain.OHLCV{
			Date:   c.Date,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		}
	}
	snap.Technicals = computeTechnicals(res.candles, res.quote)

	snap.Meta = domain.SnapshotMeta{
		Confidence:      confidenceFor(res, warnings),
		ProvidersUsed:   keys(res.used),
		ProvidersFailed: keys(res.failed),
		FetchedAt:       time.Now().UTC(),
		Warnings:        warnings,
		IsDemoData:      res.used["demo"],
	}
	return snap
}

// confidenceFor downgrades trust as parts go missing. Quote and candles are
// guaranteed present by the time this runs.
func confidenceFor(res *fetchResult, warnings []string) domain.Confidence {
	switch {
	case len(warnings) == 0:
		return domain.ConfidenceHigh
	case res.fundamentals != nil && res.sentiment != nil:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func keys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
