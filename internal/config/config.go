package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	OrderServiceURL     string
	UserServiceURL      string
	QualifyingStatuses  []string
	AccrualSyncInterval time.Duration
	WorkerPoolSize      int
	SyncBatchSize       int
	ShutdownTimeout     time.Duration
}

const (
	defaultRunAddress          = ":8080"
	defaultOrderServiceURL     = "http://localhost:8100"
	defaultUserServiceURL      = "http://localhost:8400"
	defaultQualifyingStatuses  = "DELIVERED,SHIPPED"
	defaultAccrualSyncInterval = 3 * time.Second
	defaultWorkerPoolSize      = 4
	defaultSyncBatchSize       = 32
	defaultShutdownTimeout     = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		OrderServiceURL:     getString(lookup, "ORDER_SERVICE_URL", defaultOrderServiceURL),
		UserServiceURL:      getString(lookup, "USER_SERVICE_URL", defaultUserServiceURL),
		AccrualSyncInterval: getDuration(lookup, "ACCRUAL_SYNC_INTERVAL", defaultAccrualSyncInterval),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		SyncBatchSize:       getInt(lookup, "SYNC_BATCH_SIZE", defaultSyncBatchSize),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
	statuses := getString(lookup, "QUALIFYING_STATUSES", defaultQualifyingStatuses)

	fs := flag.NewFlagSet("loyalty", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		syncIntervalStr    = cfg.AccrualSyncInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN (empty for in-memory storage)")
	fs.StringVar(&cfg.OrderServiceURL, "o", cfg.OrderServiceURL, "Order service base URL")
	fs.StringVar(&cfg.UserServiceURL, "u", cfg.UserServiceURL, "User service base URL")
	fs.StringVar(&statuses, "qualifying-statuses", statuses, "Comma-separated order statuses that earn points")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent accrual sync workers")
	fs.StringVar(&syncIntervalStr, "sync-interval", syncIntervalStr, "Interval between accrual cache refreshes")
	fs.IntVar(&cfg.SyncBatchSize, "sync-batch", cfg.SyncBatchSize, "Maximum users per refresh batch")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.AccrualSyncInterval, err = time.ParseDuration(syncIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sync interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg.QualifyingStatuses = splitStatuses(statuses)
	if len(cfg.QualifyingStatuses) == 0 {
		return nil, fmt.Errorf("at least one qualifying status must be provided")
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.SyncBatchSize <= 0 {
		cfg.SyncBatchSize = defaultSyncBatchSize
	}

	if cfg.AccrualSyncInterval <= 0 {
		cfg.AccrualSyncInterval = defaultAccrualSyncInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.OrderServiceURL == "" {
		return nil, fmt.Errorf("order service URL must be provided")
	}

	if cfg.UserServiceURL == "" {
		return nil, fmt.Errorf("user service URL must be provided")
	}

	return cfg, nil
}

func splitStatuses(raw string) []string {
	parts := strings.Split(raw, ",")
	statuses := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.ToUpper(strings.TrimSpace(p)); s != "" {
			statuses = append(statuses, s)
		}
	}
	return statuses
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
