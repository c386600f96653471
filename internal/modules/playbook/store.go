package playbook

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oakmont/vantage/internal/database"
	"github.com/oakmont/vantage/internal/domain"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS playbook_instances (
	id              TEXT PRIMARY KEY,
	symbol          TEXT NOT NULL,
	playbook        TEXT NOT NULL,
	confirmation    TEXT NOT NULL,
	market_regime   TEXT NOT NULL,
	sector_regime   TEXT NOT NULL,
	strategic_score REAL NOT NULL,
	tactical_score  REAL NOT NULL,
	price_at_match  REAL NOT NULL,
	created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_playbook_instances_symbol ON playbook_instances(symbol, created_at);

CREATE TABLE IF NOT EXISTS playbook_outcomes (
	instance_id  TEXT NOT NULL REFERENCES playbook_instances(id),
	horizon_days INTEGER NOT NULL,
	price        REAL NOT NULL,
	return_pct   REAL NOT NULL,
	captured_at  INTEGER NOT NULL,
	PRIMARY KEY (instance_id, horizon_days)
);
`

// Instance is one logged playbook showing. Immutable once written; outcome
// rows are appended alongside, never mutated into it.
type Instance struct {
	ID             string               `json:"id"`
	Symbol         string               `json:"symbol"`
	Playbook       string               `json:"playbook"`
	Confirmation   domain.OverallSignal `json:"confirmation"`
	MarketRegime   domain.MarketRegime  `json:"market_regime"`
	SectorRegime   domain.SectorRegime  `json:"sector_regime"`
	StrategicScore float64              `json:"strategic_score"`
	TacticalScore  float64              `json:"tactical_score"`
	PriceAtMatch   float64              `json:"price_at_match"`
	CreatedAt      time.Time            `json:"created_at"`
	Outcomes       []Outcome            `json:"outcomes,omitempty"`
}

// Outcome is one fixed-horizon measurement of an instance.
type Outcome struct {
	HorizonDays int       `json:"horizon_days"`
	Price       float64   `json:"price"`
	ReturnPct   float64   `json:"return_pct"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Store is the append-only playbook ledger. Backed by the ledger-profile
// database: full durability, no row ever updated or deleted.
type Store struct {
	db  *database.DB
	now func() time.Time
}

// NewStore creates the ledger store and its schema.
func NewStore(db *database.DB) (*Store, error) {
	if _, err := db.Exec(ledgerSchema); err != nil {
		return nil, fmt.Errorf("create playbook ledger schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Append logs one shown playbook instance.
func (s *Store) Append(in MatchInput, playbookName string) (*Instance, error) {
	inst := &Instance{
		ID:             uuid.New().String(),
		Symbol:         in.Symbol,
		Playbook:       playbookName,
		Confirmation:   in.Confirmation,
		MarketRegime:   in.MarketRegime,
		SectorRegime:   in.SectorRegime,
		StrategicScore: in.StrategicScore,
		TacticalScore:  in.TacticalScore,
		PriceAtMatch:   in.Price,
		CreatedAt:      s.now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO playbook_instances
		 (id, symbol, playbook, confirmation, market_regime, sector_regime, strategic_score, tactical_score, price_at_match, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inst.ID, inst.Symbol, inst.Playbook, string(inst.Confirmation), string(inst.MarketRegime), string(inst.SectorRegime),
		inst.StrategicScore, inst.TacticalScore, inst.PriceAtMatch, inst.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("append playbook instance: %w", err)
	}
	return inst, nil
}

// Instances returns logged instances for a symbol, newest first, with their
// outcomes attached. Empty symbol returns across all symbols.
func (s *Store) Instances(symbol string, limit int) ([]Instance, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `SELECT id, symbol, playbook, confirmation, market_regime, sector_regime,
	                 strategic_score, tactical_score, price_at_match, created_at
	          FROM playbook_instances`
	args := []interface{}{}
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query playbook instances: %w", err)
	}
	defer rows.Close()

	var out []Instance
	for rows.Next() {
		var inst Instance
		var confirmation, marketRegime, sectorRegime string
		var createdAt int64
		if err := rows.Scan(&inst.ID, &inst.Symbol, &inst.Playbook, &confirmation, &marketRegime, &sectorRegime,
			&inst.StrategicScore, &inst.TacticalScore, &inst.PriceAtMatch, &createdAt); err != nil {
			return nil, fmt.Errorf("scan playbook instance: %w", err)
		}
		inst.Confirmation = domain.OverallSignal(confirmation)
		inst.MarketRegime = domain.MarketRegime(marketRegime)
		inst.SectorRegime = domain.SectorRegime(sectorRegime)
		inst.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playbook instances: %w", err)
	}

	for i := range out {
		outcomes, err := s.outcomesFor(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Outcomes = outcomes
	}
	return out, nil
}

func (s *Store) outcomesFor(instanceID string) ([]Outcome, error) {
	rows, err := s.db.Query(
		`SELECT horizon_days, price, return_pct, captured_at FROM playbook_outcomes
		 WHERE instance_id = ? ORDER BY horizon_days`, instanceID)
	if err != nil {
		return nil, fmt.Errorf("query playbook outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var o Outcome
		var capturedAt int64
		if err := rows.Scan(&o.HorizonDays, &o.Price, &o.ReturnPct, &capturedAt); err != nil {
			return nil, fmt.Errorf("scan playbook outcome: %w", err)
		}
		o.CapturedAt = time.Unix(capturedAt, 0).UTC()
		out = append(out, o)
	}
	return out, rows.Err()
}

// PendingOutcomes returns instances old enough for the given horizon that do
// not yet have an outcome row for it. horizonDays keys the outcome row;
// calendarDays is how long an instance must have aged before it is due.
func (s *Store) PendingOutcomes(horizonDays, calendarDays int) ([]Instance, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -calendarDays).Unix()
	rows, err := s.db.Query(
		`SELECT i.id, i.symbol, i.price_at_match, i.created_at
		 FROM playbook_instances i
		 LEFT JOIN playbook_outcomes o ON o.instance_id = i.id AND o.horizon_days = ?
		 WHERE i.created_at <= ? AND o.instance_id IS NULL`,
		horizonDays, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query pending outcomes: %w", err)
	}
	defer rows.Close()

	var out []Instance
	for rows.Next() {
		var inst Instance
		var createdAt int64
		if err := rows.Scan(&inst.ID, &inst.Symbol, &inst.PriceAtMatch, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending instance: %w", err)
		}
		inst.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, inst)
	}
	return out, rows.Err()
}

// RecordOutcome appends one outcome measurement.
func (s *Store) RecordOutcome(instanceID string, horizonDays int, price, returnPct float64) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO playbook_outcomes (instance_id, horizon_days, price, return_pct, captured_at)
		 VALUES (?, ?, ?, ?, ?)`,
		instanceID, horizonDays, price, returnPct, s.now().UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record playbook outcome: %w", err)
	}
	return nil
}
