package domain

import "time"

// IndexState is the trend picture of one broad index ETF.
type IndexState struct {
	Symbol      string  `json:"symbol"` // SPY, QQQ, DIA, IWM
	Price       float64 `json:"price"`
	Trend       Trend   `json:"trend"` // UP / DOWN / FLAT
	Above200DMA bool    `json:"above_200dma"`
	MomentumPct float64 `json:"momentum_pct"` // 20-day rate of change
}

// BreadthData summarizes market participation.
type BreadthData struct {
	PctAbove200DMA  float64       `json:"pct_above_200dma"`
	AdvanceDecline  float64       `json:"advance_decline_ratio"`
	NewHighsNewLows float64       `json:"new_highs_new_lows_ratio"`
	Health          BreadthHealth `json:"health"`
}

// SectorState is the relative picture of one sector ETF against SPY.
type SectorState struct {
	Symbol           string  `json:"symbol"`            // XLK, XLF, ...
	Sector           string  `json:"sector"`            // Technology, Financials, ...
	Trend            Trend   `json:"trend"`             // LEADING / LAGGING / NEUTRAL
	RelativeStrength float64 `json:"relative_strength"` // vs SPY, 3-month
}

// VolatilityData is the VIX picture.
type VolatilityData struct {
	VIX      float64 `json:"vix"`
	Trend    Trend   `json:"trend"` // UP / DOWN / FLAT
	Elevated bool    `json:"elevated"`
}

// MarketContext is the cached market-regime snapshot the rest of the system
// consumes. Recomputed on demand, cached with a TTL, and replaced wholesale.
// When upstream data is unavailable the engine serves a fixed demo context
// with IsDemoMode set - never a silent zero-fill.
type MarketContext struct {
	Regime        MarketRegime   `json:"regime"`
	Confidence    Confidence     `json:"confidence"`
	RegimeReasons []string       `json:"regime_reasons"` // ordered; first entry is the regime label
	Indices       []IndexState   `json:"indices"`        // SPY, QQQ, DIA, IWM in that order
	Breadth       BreadthData    `json:"breadth"`
	Sectors       []SectorState  `json:"sectors"` // 11 sector ETFs, fixed order
	Volatility    VolatilityData `json:"volatility"`
	ComputedAt    time.Time      `json:"computed_at"`
	IsDemoMode    bool           `json:"is_demo_mode"`
}

// SectorRegimeResult is the per-sector classification.
type SectorRegimeResult struct {
	Sector     string       `json:"sector"`
	Regime     SectorRegime `json:"regime"`
	Score      int          `json:"score"` // -4..+4
	Confidence Confidence   `json:"confidence"`
	Reasons    []string     `json:"reasons"`
}
