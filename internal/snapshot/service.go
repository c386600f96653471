package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/oakmont/vantage/internal/cache"
	"github.com/oakmont/vantage/internal/database"
	"github.com/oakmont/vantage/internal/domain"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	symbol     TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
);
`

// Service serves snapshots through a two-level cache: in-process memory
// first, then the cache database, then a fresh build. Persisted payloads
// survive restarts; the memory layer absorbs evaluation bursts.
type Service struct {
	builder *Builder
	mem     *cache.Memory
	db      *database.DB
	ttl     time.Duration
	log     zerolog.Logger
}

// NewService creates the snapshot service and ensures the cache table exists.
func NewService(builder *Builder, mem *cache.Memory, db *database.DB, ttl time.Duration, log zerolog.Logger) (*Service, error) {
	if _, err := db.Exec(snapshotSchema); err != nil {
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &Service{
		builder: builder,
		mem:     mem,
		db:      db,
		ttl:     ttl,
		log:     log.With().Str("component", "snapshot_service").Logger(),
	}, nil
}

// Get returns a snapshot for the symbol, honoring the TTL. forceRefresh
// bypasses both cache layers.
func (s *Service) Get(ctx context.Context, symbol string, forceRefresh bool) (*domain.StockSnapshot, error) {
	key := "snapshot:" + symbol

	if !forceRefresh {
		if v, ok := s.mem.Get(key); ok {
			return v.(*domain.StockSnapshot), nil
		}
		if snap := s.loadPersisted(symbol); snap != nil {
			s.mem.Set(key, snap, s.remainingTTL(snap))
			return snap, nil
		}
	}

	snap, err := s.builder.Build(ctx, symbol)
	if err != nil {
		// A stale persisted snapshot beats no snapshot at all.
		if stale := s.loadStale(symbol); stale != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Build failed, serving stale snapshot")
			return stale, nil
		}
		return nil, err
	}

	s.mem.Set(key, snap, s.ttl)
	s.persist(snap)
	return snap, nil
}

func (s *Service) remainingTTL(snap *domain.StockSnapshot) time.Duration {
	remaining := s.ttl - time.Since(snap.Meta.FetchedAt)
	if remaining < time.Minute {
		remaining = time.Minute
	}
	return remaining
}

// loadPersisted returns the stored snapshot only while it is fresh.
func (s *Service) loadPersisted(symbol string) *domain.StockSnapshot {
	snap := s.loadStale(symbol)
	if snap == nil || time.Since(snap.Meta.FetchedAt) > s.ttl {
		return nil
	}
	return snap
}

// loadStale returns the stored snapshot regardless of age.
func (s *Service) loadStale(symbol string) *domain.StockSnapshot {
	var payload []byte
	row := s.db.QueryRow(`SELECT payload FROM snapshots WHERE symbol = ?`, symbol)
	if err := row.Scan(&payload); err != nil {
		return nil
	}
	var snap domain.StockSnapshot
	if err := msgpack.Unmarshal(payload, &snap); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Corrupt persisted snapshot, discarding")
		if _, delErr := s.db.Exec(`DELETE FROM snapshots WHERE symbol = ?`, symbol); delErr != nil {
			s.log.Error().Err(delErr).Str("symbol", symbol).Msg("Corrupt snapshot delete failed")
		}
		return nil
	}
	return &snap
}

func (s *Service) persist(snap *domain.StockSnapshot) {
	payload, err := msgpack.Marshal(snap)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", snap.Symbol).Msg("Snapshot marshal failed")
		return
	}
	_, err = s.db.Exec(
		`INSERT INTO snapshots (symbol, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		snap.Symbol, payload, snap.Meta.FetchedAt.Unix(),
	)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", snap.Symbol).Msg("Snapshot persist failed")
	}
}

// SweepExpired deletes persisted snapshots older than the retention window.
// Called by the scheduler, not on the request path.
func (s *Service) SweepExpired(retention time.Duration) int {
	cutoff := time.Now().Add(-retention).Unix()
	res, err := s.db.Exec(`DELETE FROM snapshots WHERE fetched_at < ?`, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("Snapshot sweep failed")
		return 0
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.log.Info().Int64("removed", n).Msg("Swept expired snapshots")
	}
	return int(n)
}
