// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for all databases (always absolute)
	Port          int
	DevMode       bool
	LogLevel      string
	FinnhubAPIKey string
	DemoMode      bool // Serve deterministic demo data instead of live providers

	SnapshotTTL      time.Duration // Per-symbol snapshot cache TTL
	MarketContextTTL time.Duration // Market regime cache TTL

	Backup *BackupConfig
}

// BackupConfig holds the playbook-ledger backup settings. The bucket endpoint
// may point at any S3-compatible store.
type BackupConfig struct {
	Enabled       bool
	Bucket        string
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	RetentionDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("VANTAGE_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		Port:             getEnvAsInt("VANTAGE_PORT", 8080),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		FinnhubAPIKey:    getEnv("FINNHUB_API_KEY", ""),
		DemoMode:         getEnvAsBool("DEMO_MODE", false),
		SnapshotTTL:      getEnvAsDuration("SNAPSHOT_TTL", 5*time.Minute),
		MarketContextTTL: getEnvAsDuration("MARKET_CONTEXT_TTL", 5*time.Hour),
		Backup:           loadBackupConfig(),
	}

	// Without any provider key the system can only serve demo data
	if cfg.FinnhubAPIKey == "" {
		cfg.DemoMode = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Backup != nil && c.Backup.Enabled && c.Backup.Bucket == "" {
		return fmt.Errorf("backup enabled but BACKUP_BUCKET not set")
	}
	return nil
}

func loadBackupConfig() *BackupConfig {
	return &BackupConfig{
		Enabled:       getEnvAsBool("BACKUP_ENABLED", false),
		Bucket:        getEnv("BACKUP_BUCKET", ""),
		Endpoint:      getEnv("BACKUP_ENDPOINT", ""),
		Region:        getEnv("BACKUP_REGION", "auto"),
		AccessKey:     getEnv("BACKUP_ACCESS_KEY", ""),
		SecretKey:     getEnv("BACKUP_SECRET_KEY", ""),
		RetentionDays: getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
