package marketregime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oakmont/vantage/internal/clients"
	"github.com/oakmont/vantage/internal/database"
	"github.com/oakmont/vantage/internal/domain"
)

const contextSchema = `
CREATE TABLE IF NOT EXISTS market_context (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	payload     TEXT NOT NULL,
	computed_at INTEGER NOT NULL
);
`

// etfHistoryDays covers the 200DMA plus the relative strength window.
const etfHistoryDays = 320

// Service computes and caches the MarketContext. A single cached value is
// shared process-wide and replaced wholesale on refresh; the last good
// context is persisted so a restart does not cold-start into demo mode.
type Service struct {
	provider  clients.Provider
	evaluator *Evaluator
	db        *database.DB
	ttl       time.Duration
	log       zerolog.Logger

	mu      sync.Mutex
	current *domain.MarketContext
}

// NewService creates the market context service and ensures the persistence
// table exists.
func NewService(provider clients.Provider, db *database.DB, ttl time.Duration, log zerolog.Logger) (*Service, error) {
	if _, err := db.Exec(contextSchema); err != nil {
		return nil, fmt.Errorf("create market_context table: %w", err)
	}
	s := &Service{
		provider:  provider,
		evaluator: NewEvaluator(),
		db:        db,
		ttl:       ttl,
		log:       log.With().Str("component", "market_context").Logger(),
	}
	if persisted := s.loadPersisted(); persisted != nil {
		s.current = persisted
		s.log.Info().Time("computed_at", persisted.ComputedAt).Msg("Restored persisted market context")
	}
	return s, nil
}

// Context returns the cached market context, recomputing when the TTL has
// lapsed. On upstream failure the previous context is served if one exists,
// otherwise the fixed demo context.
func (s *Service) Context(ctx context.Context) *domain.MarketContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && time.Since(s.current.ComputedAt) < s.ttl {
		return s.current
	}

	fresh, err := s.compute(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Market context refresh failed")
		if s.current != nil {
			return s.current
		}
		s.current = DemoContext()
		return s.current
	}

	s.current = fresh
	s.persist(fresh)
	return s.current
}

// Invalidate drops the cached context so the next read recomputes.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Refresh recomputes eagerly. Used by the scheduler so request paths mostly
// hit a warm cache.
func (s *Service) Refresh(ctx context.Context) error {
	fresh, err := s.compute(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = fresh
	s.mu.Unlock()
	s.persist(fresh)
	return nil
}

func (s *Service) compute(ctx context.Context) (*domain.MarketContext, error) {
	indices := make([]domain.IndexState, 0, len(indexETFs))
	var spyCandles []clients.Candle
	for _, sym := range indexETFs {
		candles, err := s.provider.Candles(ctx, sym, etfHistoryDays)
		if err != nil {
			return nil, fmt.Errorf("index candles %s: %w", sym, err)
		}
		if sym == "SPY" {
			spyCandles = candles
		}
		indices = append(indices, deriveIndexState(sym, candles))
	}

	sectors := make([]domain.SectorState, 0, len(sectorETFs))
	sectorCandles := make(map[string][]clients.Candle, len(sectorETFs))
	for _, etf := range sectorETFs {
		candles, err := s.provider.Candles(ctx, etf.Symbol, etfHistoryDays)
		if err != nil {
			// One sector ETF failing degrades breadth, not the whole context.
			s.log.Warn().Err(err).Str("symbol", etf.Symbol).Msg("Sector candles fetch failed")
			sectors = append(sectors, domain.SectorState{Symbol: etf.Symbol, Sector: etf.Sector, Trend: domain.TrendNeutral})
			continue
		}
		sectorCandles[etf.Symbol] = candles
		sectors = append(sectors, deriveSectorState(etf.Symbol, etf.Sector, candles, spyCandles))
	}

	vix := 20.0
	if macro, err := s.provider.Macro(ctx); err == nil {
		vix = macro.VIX
	} else {
		s.log.Warn().Err(err).Msg("Macro fetch failed, using neutral VIX")
	}

	breadth := deriveBreadth(indices, sectors, sectorCandles)
	volatility := deriveVolatility(vix, nil)
	verdict := s.evaluator.Evaluate(indices, breadth, volatility)

	return &domain.MarketContext{
		Regime:        verdict.Regime,
		Confidence:    verdict.Confidence,
		RegimeReasons: verdict.Reasons,
		Indices:       indices,
		Breadth:       breadth,
		Sectors:       sectors,
		Volatility:    volatility,
		ComputedAt:    time.Now().UTC(),
		IsDemoMode:    s.provider.Name() == "demo",
	}, nil
}

func (s *Service) persist(mc *domain.MarketContext) {
	payload, err := json.Marshal(mc)
	if err != nil {
		s.log.Error().Err(err).Msg("Market context marshal failed")
		return
	}
	_, err = s.db.Exec(
		`INSERT INTO market_context (id, payload, computed_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, computed_at = excluded.computed_at`,
		string(payload), mc.ComputedAt.Unix(),
	)
	if err != nil {
		s.log.Error().Err(err).Msg("Market context persist failed")
	}
}

func (s *Service) loadPersisted() *domain.MarketContext {
	var payload string
	row := s.db.QueryRow(`SELECT payload FROM market_context WHERE id = 1`)
	if err := row.Scan(&payload); err != nil {
		return nil
	}
	var mc domain.MarketContext
	if err := json.Unmarshal([]byte(payload), &mc); err != nil {
		s.log.Warn().Err(err).Msg("Corrupt persisted market context, discarding")
		return nil
	}
	// A stale persisted context is better than nothing only until the first
	// refresh; beyond twice the TTL it is treated as absent.
	if time.Since(mc.ComputedAt) > 2*s.ttl {
		return nil
	}
	return &mc
}
