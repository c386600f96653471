package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/oakmont/vantage/internal/backup"
	"github.com/oakmont/vantage/internal/modules/marketregime"
	"github.com/oakmont/vantage/internal/modules/playbook"
	"github.com/oakmont/vantage/internal/snapshot"
)

const jobTimeout = 5 * time.Minute

// MarketContextRefreshJob keeps the market regime warm so a request never
// pays the full ETF fetch.
type MarketContextRefreshJob struct {
	service *marketregime.Service
}

func NewMarketContextRefreshJob(service *marketregime.Service) *MarketContextRefreshJob {
	return &MarketContextRefreshJob{service: service}
}

func (j *MarketContextRefreshJob) Name() string { return "market_context_refresh" }

func (j *MarketContextRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	return j.service.Refresh(ctx)
}

// OutcomeCaptureJob scores playbook instances that have crossed a
// measurement horizon.
type OutcomeCaptureJob struct {
	service *playbook.OutcomeService
}

func NewOutcomeCaptureJob(service *playbook.OutcomeService) *OutcomeCaptureJob {
	return &OutcomeCaptureJob{service: service}
}

func (j *OutcomeCaptureJob) Name() string { return "playbook_outcome_capture" }

func (j *OutcomeCaptureJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	return j.service.CaptureDue(ctx)
}

// SnapshotSweepJob evicts long-expired persisted snapshots.
type SnapshotSweepJob struct {
	service   *snapshot.Service
	retention time.Duration
	log       zerolog.Logger
}

func NewSnapshotSweepJob(service *snapshot.Service, retention time.Duration, log zerolog.Logger) *SnapshotSweepJob {
	return &SnapshotSweepJob{
		service:   service,
		retention: retention,
		log:       log.With().Str("component", "snapshot_sweep").Logger(),
	}
}

func (j *SnapshotSweepJob) Name() string { return "snapshot_sweep" }

func (j *SnapshotSweepJob) Run() error {
	removed := j.service.SweepExpired(j.retention)
	if removed > 0 {
		j.log.Info().Int("removed", removed).Msg("Expired snapshots swept")
	}
	return nil
}

// LedgerBackupJob ships the playbook ledger to the backup bucket.
type LedgerBackupJob struct {
	service *backup.Service
}

func NewLedgerBackupJob(service *backup.Service) *LedgerBackupJob {
	return &LedgerBackupJob{service: service}
}

func (j *LedgerBackupJob) Name() string { return "ledger_backup" }

func (j *LedgerBackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	return j.service.Run(ctx)
}
