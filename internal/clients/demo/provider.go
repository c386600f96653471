// Package demo implements the provider contract with deterministic synthetic
// data. The same symbol always produces the same snapshot, which keeps demo
// mode and tests reproducible without any network access.
package demo

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/oakmont/vantage/internal/clients"
)

// Provider generates synthetic market data. Stateless and safe for
// concurrent use.
type Provider struct{}

// NewProvider creates the demo data provider.
func NewProvider() *Provider { return &Provider{} }

// Name identifies this provider in snapshot metadata.
func (p *Provider) Name() string { return "demo" }

// seed derives a stable per-symbol seed from an FNV hash.
func seed(symbol string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return h.Sum64()
}

// pick returns a deterministic value in [0, 1) for the symbol and salt.
func pick(s uint64, salt uint64) float64 {
	x := s ^ (salt * 0x9e3779b97f4a7c15)
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	return float64(x%10000) / 10000.0
}

func between(s, salt uint64, lo, hi float64) float64 {
	return lo + pick(s, salt)*(hi-lo)
}

// Quote returns a synthetic quote in a plausible price range.
func (p *Provider) Quote(ctx context.Context, symbol string) (*clients.Quote, error) {
	s := seed(symbol)
	price := between(s, 1, 15, 450)
	changePct := between(s, 2, -4, 4)
	change := price * changePct / 100
	return &clients.Quote{
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		High:          price * 1.015,
		Low:           price * 0.985,
		Open:          price - change*0.6,
		PrevClose:     price - change,
		Volume:        int64(between(s, 3, 4e5, 3e7)),
	}, nil
}

var demoSectors = []string{
	"Technology", "Financials", "Healthcare", "Consumer Discretionary",
	"Consumer Staples", "Energy", "Industrials", "Materials",
	"Real Estate", "Utilities", "Communication Services",
}

// Profile returns a synthetic company identity.
func (p *Provider) Profile(ctx context.Context, symbol string) (*clients.Profile, error) {
	s := seed(symbol)
	sector := demoSectors[s%uint64(len(demoSectors))]
	return &clients.Profile{
		Name:      symbol + " Corp",
		Sector:    sector,
		Industry:  sector,
		MarketCap: between(s, 4, 2e9, 8e11),
	}, nil
}

// Fundamentals returns synthetic growth and valuation numbers. Roughly a
// third of symbols get an accelerating growth profile so demo evaluations
// exercise the upper factor bands.
func (p *Provider) Fundamentals(ctx context.Context, symbol string) (*clients.FundamentalsPayload, error) {
	s := seed(symbol)
	base := between(s, 5, -5, 35)
	accel := between(s, 6, -6, 8)

	revSeries := make([]float64, 4)
	epsSeries := make([]float64, 4)
	for i := 0; i < 4; i++ {
		revSeries[i] = base + accel*float64(i)*0.5
		epsSeries[i] = base*1.1 + accel*float64(i)*0.7
	}

	daysOut := int(between(s, 7, 3, 85))
	return &clients.FundamentalsPayload{
		RevenueGrowthPct:    revSeries[3],
		RevenueGrowthSeries: revSeries,
		EPSGrowthPct:        epsSeries[3],
		EPSGrowthSeries:     epsSeries,
		EarningsAccelPct:    epsSeries[3] - epsSeries[2],
		PERatio:             between(s, 8, 8, 65),
		ForwardPERatio:      between(s, 9, 7, 55),
		PriceToSales:        between(s, 10, 0.8, 18),
		NextEarningsDate:    time.Now().AddDate(0, 0, daysOut),
	}, nil
}

// Sentiment returns synthetic analyst and insider signals.
func (p *Provider) Sentiment(ctx context.Context, symbol string) (*clients.SentimentPayload, error) {
	s := seed(symbol)
	trend := "neutral"
	switch {
	case pick(s, 11) > 0.66:
		trend = "buying"
	case pick(s, 11) < 0.33:
		trend = "selling"
	}
	return &clients.SentimentPayload{
		AnalystRating:         between(s, 12, 2.2, 4.8),
		AnalystDowngrades90d:  int(between(s, 13, 0, 3.2)),
		InstitutionalOwnPct:   between(s, 14, 20, 92),
		InstitutionalTrend:    trend,
		InsiderNetShares90d:   int64(between(s, 15, -8e5, 6e5)),
		PutCallRatio:          between(s, 16, 0.45, 1.6),
		SocialMentionPercentl: between(s, 17, 5, 99),
	}, nil
}

// Options returns a synthetic implied volatility picture.
func (p *Provider) Options(ctx context.Context, symbol string) (*clients.OptionsPayload, error) {
	s := seed(symbol)
	return &clients.OptionsPayload{
		IV:               between(s, 18, 0.18, 0.85),
		IVRank:           between(s, 19, 5, 95),
		CallOpenInterest: int64(between(s, 20, 1e4, 5e5)),
		PutOpenInterest:  int64(between(s, 21, 1e4, 5e5)),
	}, nil
}

// Candles returns a synthetic daily series with a per-symbol drift and a
// sinusoidal wobble so indicator math has something real to chew on.
func (p *Provider) Candles(ctx context.Context, symbol string, days int) ([]clients.Candle, error) {
	s := seed(symbol)
	endPrice := between(s, 1, 15, 450)
	drift := between(s, 22, -0.0012, 0.0022)
	amp := between(s, 23, 0.01, 0.05)

	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -days)
	candles := make([]clients.Candle, 0, days)
	for i := 0; i < days; i++ {
		age := float64(days - 1 - i)
		base := endPrice * math.Exp(-drift*age)
		wobble := 1 + amp*math.Sin(float64(i)/9.0+pick(s, 24)*6)
		close := base * wobble
		spread := close * (0.004 + pick(s, uint64(i)+100)*0.012)
		candles = append(candles, clients.Candle{
			Date:   start.AddDate(0, 0, i),
			Open:   close - spread*0.4,
			High:   close + spread,
			Low:    close - spread,
			Close:  close,
			Volume: int64(between(s, uint64(i)+500, 3e5, 2e7)),
		})
	}
	return candles, nil
}

// Macro returns a synthetic but stable macro backdrop.
func (p *Provider) Macro(ctx context.Context) (*clients.MacroPayload, error) {
	return &clients.MacroPayload{
		GDPGrowthPct: 2.4,
		RateTrend:    "stable",
		VIX:          17.5,
	}, nil
}
