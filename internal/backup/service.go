package backup

import (
	"compress/gzip"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/oakmont/vantage/internal/database"
)

const (
	keyPrefix     = "vantage-ledger-"
	keySuffix     = ".db.gz"
	keyTimeLayout = "2006-01-02-150405"

	// Never rotate below this many backups, whatever the retention says.
	minBackupsToKeep = 3
)

// Service backs up the playbook ledger database.
type Service struct {
	client        *Client
	ledger        *database.DB
	retentionDays int
	log           zerolog.Logger
}

// NewService creates the ledger backup service.
func NewService(client *Client, ledger *database.DB, retentionDays int, log zerolog.Logger) *Service {
	return &Service{
		client:        client,
		ledger:        ledger,
		retentionDays: retentionDays,
		log:           log.With().Str("component", "backup").Logger(),
	}
}

// Run checkpoints the WAL, uploads a compressed copy of the ledger file with
// a timestamped key, then rotates old backups.
func (s *Service) Run(ctx context.Context) error {
	start := time.Now()

	// Fold the WAL into the main file so the copy is self-contained.
	if err := s.ledger.WALCheckpoint("TRUNCATE"); err != nil {
		return fmt.Errorf("checkpoint ledger: %w", err)
	}

	staging, checksum, err := s.compressLedger()
	if err != nil {
		return err
	}
	defer os.Remove(staging)

	file, err := os.Open(staging)
	if err != nil {
		return fmt.Errorf("open staged backup: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat staged backup: %w", err)
	}

	key := keyPrefix + time.Now().UTC().Format(keyTimeLayout) + keySuffix
	metadata := map[string]string{"checksum": checksum}
	if err := s.client.Upload(ctx, key, file, metadata); err != nil {
		return err
	}

	s.log.Info().
		Str("key", key).
		Int64("size_bytes", info.Size()).
		Dur("duration", time.Since(start)).
		Msg("Ledger backup uploaded")

	return s.rotate(ctx)
}

// compressLedger gzips the ledger file into a temp file and returns its path
// plus the sha256 of the uncompressed source.
func (s *Service) compressLedger() (string, string, error) {
	src, err := os.Open(s.ledger.Path())
	if err != nil {
		return "", "", fmt.Errorf("open ledger file: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "vantage-ledger-*.db.gz")
	if err != nil {
		return "", "", fmt.Errorf("create staging file: %w", err)
	}

	gz := gzip.NewWriter(tmp)
	hash := sha256.New()
	if _, err := io.Copy(io.MultiWriter(gz, hash), src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("compress ledger: %w", err)
	}
	if err := gz.Close(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("finish compression: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("close staging file: %w", err)
	}

	return tmp.Name(), fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

// List returns stored ledger backups, newest first.
func (s *Service) List(ctx context.Context) ([]ObjectInfo, error) {
	return s.client.List(ctx, keyPrefix, keySuffix, keyTimeLayout)
}

// rotate deletes backups past retention, always keeping the newest
// minBackupsToKeep. Retention 0 means keep everything.
func (s *Service) rotate(ctx context.Context) error {
	if s.retentionDays <= 0 {
		return nil
	}

	backups, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(backups) <= minBackupsToKeep {
		return nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	deleted := 0
	for i, b := range backups {
		if i < minBackupsToKeep || !b.Timestamp.Before(cutoff) {
			continue
		}
		if err := s.client.Delete(ctx, b.Key); err != nil {
			s.log.Error().Err(err).Str("key", b.Key).Msg("Failed to delete old backup")
			continue
		}
		deleted++
	}
	if deleted > 0 {
		s.log.Info().Int("deleted", deleted).Msg("Old ledger backups rotated")
	}
	return nil
}
