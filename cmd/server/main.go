// Package main is the entry point for the Vantage decision-support server.
// It wires configuration, storage, providers, the evaluation engines, the
// background scheduler, and the HTTP surface, then runs until signalled.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/oakmont/vantage/internal/backup"
	"github.com/oakmont/vantage/internal/cache"
	"github.com/oakmont/vantage/internal/clients"
	"github.com/oakmont/vantage/internal/clients/demo"
	"github.com/oakmont/vantage/internal/clients/finnhub"
	"github.com/oakmont/vantage/internal/config"
	"github.com/oakmont/vantage/internal/database"
	"github.com/oakmont/vantage/internal/modules/decision"
	"github.com/oakmont/vantage/internal/modules/marketregime"
	"github.com/oakmont/vantage/internal/modules/playbook"
	"github.com/oakmont/vantage/internal/reliability"
	"github.com/oakmont/vantage/internal/scheduler"
	"github.com/oakmont/vantage/internal/server"
	"github.com/oakmont/vantage/internal/snapshot"
	"github.com/oakmont/vantage/pkg/logger"
)

const snapshotRetention = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})
	log.Info().Bool("demo_mode", cfg.DemoMode).Msg("Starting Vantage")

	// Storage. The ledger is the only non-rebuildable state; everything in
	// cache.db can be refetched from providers.
	ledgerDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "ledger.db"),
		Name:    "ledger",
		Profile: database.ProfileLedger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger database")
	}
	defer ledgerDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Name:    "cache",
		Profile: database.ProfileCache,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	memCache := cache.NewMemory()
	defer memCache.Close()

	// Providers, in fallback order. Demo is always last so a dead API key
	// degrades to deterministic data instead of nothing.
	breakers := reliability.NewRegistry(log)
	var providers []clients.Provider
	if !cfg.DemoMode {
		providers = append(providers, finnhub.NewClient(cfg.FinnhubAPIKey, log))
	}
	providers = append(providers, demo.NewProvider())

	builder := snapshot.NewBuilder(providers, breakers, log)
	snapshots, err := snapshot.NewService(builder, memCache, cacheDB, cfg.SnapshotTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshot service")
	}

	market, err := marketregime.NewService(providers[0], cacheDB, cfg.MarketContextTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize market regime service")
	}

	// Playbooks and decisions.
	store, err := playbook.NewStore(ledgerDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize playbook store")
	}
	playbooks := playbook.NewEngine(store, log)
	outcomes := playbook.NewOutcomeService(store, providers[0], log)
	decisions := decision.NewService(snapshots, market, playbooks, log)

	// Background jobs.
	sched := scheduler.New(log)
	mustAddJob(log, sched, "@every 1h", scheduler.NewMarketContextRefreshJob(market))
	mustAddJob(log, sched, "30 22 * * *", scheduler.NewOutcomeCaptureJob(outcomes))
	mustAddJob(log, sched, "@every 6h", scheduler.NewSnapshotSweepJob(snapshots, snapshotRetention, log))

	if cfg.Backup != nil && cfg.Backup.Enabled {
		client, err := backup.NewClient(context.Background(), cfg.Backup)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize backup client")
		}
		backups := backup.NewService(client, ledgerDB, cfg.Backup.RetentionDays, log)
		mustAddJob(log, sched, "0 3 * * *", scheduler.NewLedgerBackupJob(backups))
	}

	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:       log,
		Cfg:       cfg,
		Decisions: decisions,
		Market:    market,
		Playbooks: store,
		Outcomes:  outcomes,
		LedgerDB:  ledgerDB,
		CacheDB:   cacheDB,
		MemCache:  memCache,
		Port:      cfg.Port,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Vantage stopped")
}

func mustAddJob(log zerolog.Logger, sched *scheduler.Scheduler, schedule string, job scheduler.Job) {
	if err := sched.AddJob(schedule, job); err != nil {
		log.Fatal().Err(err).Str("job", job.Name()).Msg("Failed to register job")
	}
}
