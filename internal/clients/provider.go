// Package clients defines the market data provider contract shared by the
// real API clients and the deterministic demo provider. The snapshot
// normalizer speaks only this interface and never cares which side answered.
package clients

import (
	"context"
	"time"
)

// Quote is the latest trade picture for one symbol.
type Quote struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PrevClose     float64 `json:"prev_close"`
	Volume        int64   `json:"volume"`
}

// Profile is the static company identity.
type Profile struct {
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"market_cap"`
}

// FundamentalsPayload carries growth and valuation numbers as the provider
// reports them. Series are oldest first.
type FundamentalsPayload struct {
	RevenueGrowthPct    float64   `json:"revenue_growth_pct"`
	RevenueGrowthSeries []float64 `json:"revenue_growth_series"`
	EPSGrowthPct        float64   `json:"eps_growth_pct"`
	EPSGrowthSeries     []float64 `json:"eps_growth_series"`
	EarningsAccelPct    float64   `json:"earnings_accel_pct"`
	PERatio             float64   `json:"pe_ratio"`
	ForwardPERatio      float64   `json:"forward_pe_ratio"`
	PriceToSales        float64   `json:"price_to_sales"`
	NextEarningsDate    time.Time `json:"next_earnings_date"` // zero when unknown
}

// SentimentPayload carries analyst, institutional, and insider signals.
type SentimentPayload struct {
	AnalystRating         float64 `json:"analyst_rating"`
	AnalystDowngrades90d  int     `json:"analyst_downgrades_90d"`
	InstitutionalOwnPct   float64 `json:"institutional_own_pct"`
	InstitutionalTrend    string  `json:"institutional_trend"`
	InsiderNetShares90d   int64   `json:"insider_net_shares_90d"`
	PutCallRatio          float64 `json:"put_call_ratio"`
	SocialMentionPercentl float64 `json:"social_mention_percentile"`
}

// OptionsPayload carries the implied volatility picture.
type OptionsPayload struct {
	IV               float64 `json:"iv"`
	IVRank           float64 `json:"iv_rank"`
	CallOpenInterest int64   `json:"call_open_interest"`
	PutOpenInterest  int64   `json:"put_open_interest"`
}

// Candle is one daily bar, oldest first in any returned slice.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// MacroPayload carries the economy-level inputs the strategic evaluator needs.
type MacroPayload struct {
	GDPGrowthPct float64 `json:"gdp_growth_pct"`
	RateTrend    string  `json:"rate_trend"` // falling | stable | rising
	VIX          float64 `json:"vix"`
}

// Provider is a source of market data. Implementations must be safe for
// concurrent use; the snapshot normalizer fans out across these methods.
// A method that has no data for the symbol returns a nil payload and an error.
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Profile(ctx context.Context, symbol string) (*Profile, error)
	Fundamentals(ctx context.Context, symbol string) (*FundamentalsPayload, error)
	Sentiment(ctx context.Context, symbol string) (*SentimentPayload, error)
	Options(ctx context.Context, symbol string) (*OptionsPayload, error)
	Candles(ctx context.Context, symbol string, days int) ([]Candle, error)
	Macro(ctx context.Context) (*MacroPayload, error)
}
