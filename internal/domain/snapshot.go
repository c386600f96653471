package domain

import "time"

// StockSnapshot is the canonical point-in-time view of one symbol, assembled
// by the snapshot normalizer from whatever providers responded. It is
// constructed fresh per fetch, cached briefly, and never mutated after
// construction - a refresh always replaces the whole snapshot.
type StockSnapshot struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`

	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`

	Fundamentals     Fundamentals  `json:"fundamentals"`
	Technicals       Technicals    `json:"technicals"`
	Sentiment        SentimentData `json:"sentiment"`
	Options          OptionsData   `json:"options"`
	HistoricalPrices []OHLCV       `json:"historical_prices"`
	Meta             SnapshotMeta  `json:"meta"`
}

// Fundamentals holds growth series and valuation ratios.
type Fundamentals struct {
	RevenueGrowthPct    float64   `json:"revenue_growth_pct"`    // latest YoY
	RevenueGrowthSeries []float64 `json:"revenue_growth_series"` // oldest first
	EPSGrowthPct        float64   `json:"eps_growth_pct"`        // latest YoY
	EPSGrowthSeries     []float64 `json:"eps_growth_series"`     // oldest first
	EarningsAccelPct    float64   `json:"earnings_accel_pct"`    // QoQ acceleration
	PERatio             float64   `json:"pe_ratio"`
	ForwardPERatio      float64   `json:"forward_pe_ratio"`
	PriceToSales        float64   `json:"price_to_sales"`
	DaysToEarnings      int       `json:"days_to_earnings"` // -1 when unknown
	GDPGrowthPct        float64   `json:"gdp_growth_pct"`
	RateTrend           string    `json:"rate_trend"` // falling | stable | rising
}

// Technicals holds indicator values derived from the historical price series.
type Technicals struct {
	RSI14        float64 `json:"rsi_14"`
	WeeklyRSI    float64 `json:"weekly_rsi"`
	ATR14        float64 `json:"atr_14"`
	ATRPercent   float64 `json:"atr_percent"` // ATR as % of price
	MA20         float64 `json:"ma_20"`
	MA50         float64 `json:"ma_50"`
	MA200        float64 `json:"ma_200"`
	Trend        Trend   `json:"trend"` // UP / DOWN / FLAT from MA stack
	AvgVolume20  int64   `json:"avg_volume_20"`
	VolumeRatio  float64 `json:"volume_ratio"` // today's volume / 20-day average
	BidAskSpread float64 `json:"bid_ask_spread_pct"`
	High52WkPct  float64 `json:"high_52wk_pct"` // distance below 52-week high, percent
}

// SentimentData holds analyst, institutional, and insider signals.
type SentimentData struct {
	AnalystRating         float64 `json:"analyst_rating"` // 1 strong sell .. 5 strong buy
	AnalystDowngrades90d  int     `json:"analyst_downgrades_90d"`
	InstitutionalOwnPct   float64 `json:"institutional_own_pct"`
	InstitutionalTrend    string  `json:"institutional_trend"` // buying | neutral | selling
	InsiderNetShares90d   int64   `json:"insider_net_shares_90d"`
	PutCallRatio          float64 `json:"put_call_ratio"`
	SocialMentionPercentl float64 `json:"social_mention_percentile"` // 0-100
}

// OptionsData holds the implied-volatility picture.
type OptionsData struct {
	IV               float64 `json:"iv"`
	IVRank           float64 `json:"iv_rank"` // 0-100
	CallOpenInterest int64   `json:"call_open_interest"`
	PutOpenInterest  int64   `json:"put_open_interest"`
}

// OHLCV is one bar of the historical price series, oldest first.
type OHLCV struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// SnapshotMeta records how trustworthy the snapshot is and why.
type SnapshotMeta struct {
	Confidence      Confidence `json:"confidence"`
	ProvidersUsed   []string   `json:"providers_used"`
	ProvidersFailed []string   `json:"providers_failed"`
	FetchedAt       time.Time  `json:"fetched_at"`
	Warnings        []string   `json:"warnings,omitempty"`
	IsDemoData      bool       `json:"is_demo_data"`
}
