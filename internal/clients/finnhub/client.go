// Package finnhub implements the market data provider contract against the
// Finnhub REST API.
package finnhub

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/oakmont/vantage/internal/clients"
)

const baseURL = "https://finnhub.io/api/v1"

// Free tier allows 60 calls/minute. We stay just under it and let the
// limiter smooth out the snapshot fan-out bursts.
const requestsPerSecond = 0.9

// Client talks to Finnhub. Safe for concurrent use.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a Finnhub client with the given API key.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetQueryParam("token", apiKey)

	return &Client{
		http:    http,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 3),
		log:     log.With().Str("client", "finnhub").Logger(),
	}
}

// Name identifies this provider in snapshot metadata.
func (c *Client) Name() string { return "finnhub" }

func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		Get(path)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("request %s: status %d", path, resp.StatusCode())
	}
	return nil
}

type quoteResponse struct {
	Current   float64 `json:"c"`
	Change    float64 `json:"d"`
	ChangePct float64 `json:"dp"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Open      float64 `json:"o"`
	PrevClose float64 `json:"pc"`
}

// Quote fetches the latest trade picture for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*clients.Quote, error) {
	var raw quoteResponse
	if err := c.get(ctx, "/quote", map[string]string{"symbol": symbol}, &raw); err != nil {
		return nil, err
	}
	if raw.Current == 0 && raw.PrevClose == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}
	return &clients.Quote{
		Price:         raw.Current,
		Change:        raw.Change,
		ChangePercent: raw.ChangePct,
		High:          raw.High,
		Low:           raw.Low,
		Open:          raw.Open,
		PrevClose:     raw.PrevClose,
	}, nil
}

type profileResponse struct {
	Name                 string  `json:"name"`
	FinnhubIndustry      string  `json:"finnhubIndustry"`
	MarketCapitalization float64 `json:"marketCapitalization"` // millions
}

// Profile fetches the company identity. Finnhub only exposes an industry
// label, so we map it onto a GICS-style sector.
func (c *Client) Profile(ctx context.Context, symbol string) (*clients.Profile, error) {
	var raw profileResponse
	if err := c.get(ctx, "/stock/profile2", map[string]string{"symbol": symbol}, &raw); err != nil {
		return nil, err
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("no profile data for %s", symbol)
	}
	return &clients.Profile{
		Name:      raw.Name,
		Sector:    sectorForIndustry(raw.FinnhubIndustry),
		Industry:  raw.FinnhubIndustry,
		MarketCap: raw.MarketCapitalization * 1e6,
	}, nil
}

type metricsResponse struct {
	Metric map[string]interface{} `json:"metric"`
	Series struct {
		Quarterly map[string][]struct {
			Period string  `json:"period"`
			V      float64 `json:"v"`
		} `json:"quarterly"`
	} `json:"series"`
}

type earningsCalendarResponse struct {
	EarningsCalendar []struct {
		Date string `json:"date"`
	} `json:"earningsCalendar"`
}

// Fundamentals fetches growth and valuation metrics plus the next earnings
// date. The growth series come back oldest first.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (*clients.FundamentalsPayload, error) {
	var raw metricsResponse
	params := map[string]string{"symbol": symbol, "metric": "all"}
	if err := c.get(ctx, "/stock/metric", params, &raw); err != nil {
		return nil, err
	}
	if len(raw.Metric) == 0 {
		return nil, fmt.Errorf("no fundamentals for %s", symbol)
	}

	payload := &clients.FundamentalsPayload{
		RevenueGrowthPct: metricFloat(raw.Metric, "revenueGrowthTTMYoy"),
		EPSGrowthPct:     metricFloat(raw.Metric, "epsGrowthTTMYoy"),
		PERatio:          metricFloat(raw.Metric, "peTTM"),
		ForwardPERatio:   metricFloat(raw.Metric, "forwardPE"),
		PriceToSales:     metricFloat(raw.Metric, "psTTM"),
	}
	payload.RevenueGrowthSeries = seriesValues(raw.Series.Quarterly["revenueGrowthQuarterlyYoy"])
	payload.EPSGrowthSeries = seriesValues(raw.Series.Quarterly["epsGrowthQuarterlyYoy"])
	payload.EarningsAccelPct = acceleration(payload.EPSGrowthSeries)

	// Next earnings date comes from the calendar endpoint. Failure here is
	// not fatal; the snapshot just loses the earnings proximity signal.
	from := time.Now().Format("2006-01-02")
	to := time.Now().AddDate(0, 3, 0).Format("2006-01-02")
	var cal earningsCalendarResponse
	calParams := map[string]string{"symbol": symbol, "from": from, "to": to}
	if err := c.get(ctx, "/calendar/earnings", calParams, &cal); err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Earnings calendar fetch failed")
	} else if len(cal.EarningsCalendar) > 0 {
		dates := make([]string, 0, len(cal.EarningsCalendar))
		for _, e := range cal.EarningsCalendar {
			dates = append(dates, e.Date)
		}
		sort.Strings(dates)
		if t, err := time.Parse("2006-01-02", dates[0]); err == nil {
			payload.NextEarningsDate = t
		}
	}

	return payload, nil
}

type recommendationResponse []struct {
	StrongBuy  int `json:"strongBuy"`
	Buy        int `json:"buy"`
	Hold       int `json:"hold"`
	Sell       int `json:"sell"`
	StrongSell int `json:"strongSell"`
}

type insiderResponse struct {
	Data []struct {
		Change int64 `json:"change"`
	} `json:"data"`
}

// Sentiment fetches analyst recommendations and insider activity.
func (c *Client) Sentiment(ctx context.Context, symbol string) (*clients.SentimentPayload, error) {
	var recs recommendationResponse
	if err := c.get(ctx, "/stock/recommendation", map[string]string{"symbol": symbol}, &recs); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no recommendation data for %s", symbol)
	}

	// Latest month is first. Weighted average maps onto a 1..5 scale.
	r := recs[0]
	total := r.StrongBuy + r.Buy + r.Hold + r.Sell + r.StrongSell
	rating := 3.0
	if total > 0 {
		sum := 5*r.StrongBuy + 4*r.Buy + 3*r.Hold + 2*r.Sell + 1*r.StrongSell
		rating = float64(sum) / float64(total)
	}

	payload := &clients.SentimentPayload{
		AnalystRating:      rating,
		InstitutionalTrend: "neutral",
		PutCallRatio:       1.0,
	}

	from := time.Now().AddDate(0, -3, 0).Format("2006-01-02")
	var insiders insiderResponse
	insParams := map[string]string{"symbol": symbol, "from": from}
	if err := c.get(ctx, "/stock/insider-transactions", insParams, &insiders); err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Insider transactions fetch failed")
	} else {
		var net int64
		for _, tx := range insiders.Data {
			net += tx.Change
		}
		payload.InsiderNetShares90d = net
	}

	return payload, nil
}

// Options is not available on the Finnhub free tier. Returning an error lets
// the snapshot normalizer mark the options layer as missing instead of
// feeding it zeros.
func (c *Client) Options(ctx context.Context, symbol string) (*clients.OptionsPayload, error) {
	return nil, fmt.Errorf("options data not available for %s", symbol)
}

type candleResponse struct {
	Status string    `json:"s"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
	Time   []int64   `json:"t"`
}

// Candles fetches daily bars covering the last `days` calendar days,
// oldest first.
func (c *Client) Candles(ctx context.Context, symbol string, days int) ([]clients.Candle, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	var raw candleResponse
	params := map[string]string{
		"symbol":     symbol,
		"resolution": "D",
		"from":       fmt.Sprintf("%d", from.Unix()),
		"to":         fmt.Sprintf("%d", to.Unix()),
	}
	if err := c.get(ctx, "/stock/candle", params, &raw); err != nil {
		return nil, err
	}
	if raw.Status != "ok" || len(raw.Close) == 0 {
		return nil, fmt.Errorf("no candle data for %s", symbol)
	}

	candles := make([]clients.Candle, len(raw.Close))
	for i := range raw.Close {
		candles[i] = clients.Candle{
			Date:   time.Unix(raw.Time[i], 0).UTC(),
			Open:   raw.Open[i],
			High:   raw.High[i],
			Low:    raw.Low[i],
			Close:  raw.Close[i],
			Volume: int64(raw.Volume[i]),
		}
	}
	return candles, nil
}

// Macro fetches the VIX level via its index quote. GDP and rate trend are
// not exposed by Finnhub, so conservative defaults apply.
func (c *Client) Macro(ctx context.Context) (*clients.MacroPayload, error) {
	var raw quoteResponse
	if err := c.get(ctx, "/quote", map[string]string{"symbol": "^VIX"}, &raw); err != nil {
		return nil, err
	}
	payload := &clients.MacroPayload{
		GDPGrowthPct: 2.0,
		RateTrend:    "stable",
		VIX:          raw.Current,
	}
	if payload.VIX == 0 {
		payload.VIX = 20
	}
	return payload, nil
}

func metricFloat(m map[string]interface{}, key string) float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok && !math.IsNaN(f) {
			return f
		}
	}
	return 0
}

func seriesValues(entries []struct {
	Period string  `json:"period"`
	V      float64 `json:"v"`
}) []float64 {
	if len(entries) == 0 {
		return nil
	}
	// Finnhub returns newest first; flip to oldest first.
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e.V
	}
	return out
}

// acceleration is the change in growth rate between the last two quarters.
func acceleration(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	return series[len(series)-1] - series[len(series)-2]
}

// sectorForIndustry maps Finnhub industry labels onto the eleven GICS
// sectors the sector regime classifier tracks.
func sectorForIndustry(industry string) string {
	switch industry {
	case "Technology", "Semiconductors", "Communications":
		return "Technology"
	case "Banking", "Financial Services", "Insurance":
		return "Financials"
	case "Pharmaceuticals", "Biotechnology", "Health Care":
		return "Healthcare"
	case "Retail", "Hotels, Restaurants & Leisure", "Automobiles", "Textiles, Apparel & Luxury Goods":
		return "Consumer Discretionary"
	case "Beverages", "Food Products", "Tobacco":
		return "Consumer Staples"
	case "Energy", "Oil & Gas":
		return "Energy"
	case "Machinery", "Aerospace & Defense", "Airlines", "Road & Rail":
		return "Industrials"
	case "Chemicals", "Metals & Mining":
		return "Materials"
	case "Real Estate":
		return "Real Estate"
	case "Electric Utilities", "Utilities":
		return "Utilities"
	case "Media", "Telecommunication":
		return "Communication Services"
	default:
		return "Technology"
	}
}
