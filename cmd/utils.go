package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chukul/sagectl/internal"
)

// app wires one process worth of components from a single Config.
type app struct {
	cfg      internal.Config
	logger   log.Logger
	registry *prometheus.Registry
	metrics  *internal.Metrics
	provider *internal.SessionProvider
	fetcher  *internal.Fetcher
	cache    *internal.EndpointCache
}

// loadConfig layers defaults, the YAML file, the environment and flags, in
// that order. The secret key falls back to the macOS Keychain.
func loadConfig() (internal.Config, error) {
	cfg := internal.DefaultConfig()

	if configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv(os.Getenv)

	if flagRegion != "" {
		cfg.Region = flagRegion
	}
	if flagRoleName != "" {
		cfg.RoleName = flagRoleName
	}
	if flagAccessKeyID != "" {
		cfg.AccessKeyID = flagAccessKeyID
	}
	if flagSecretKey != "" {
		cfg.SecretAccessKey = flagSecretKey
	}
	if flagTTL > 0 {
		cfg.CacheTTL = flagTTL
	}

	// A missing secret is reported by Validate with the other missing settings.
	if secret, err := internal.ResolveSecretAccessKey(cfg.SecretAccessKey); err == nil {
		cfg.SecretAccessKey = secret
	}
	return cfg, nil
}

func newApp(cfg internal.Config, logger log.Logger) *app {
	clock := quartz.NewReal()
	registry := prometheus.NewRegistry()
	metrics := internal.NewMetrics(registry)

	elevator := internal.NewElevator(cfg, internal.WithElevatorLogger(logger))
	provider := internal.NewSessionProvider(elevator, clock)

	retry := internal.DefaultRetryPolicy()
	retry.MaxTries = cfg.FetchMaxTries
	fetcher := internal.NewFetcher(
		internal.WithRetryPolicy(retry),
		internal.WithFetcherClock(clock),
		internal.WithFetcherLogger(logger),
	)

	cache := internal.NewEndpointCache(
		internal.FetchWith(provider, fetcher),
		func(l *internal.Listing) *internal.Table { return internal.ToTable(l, time.Local) },
		internal.CacheOptions{
			TTL:      cfg.CacheTTL,
			Clock:    clock,
			Metrics:  metrics,
			Observer: metrics,
			Logger:   logger,
		},
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics,
		provider: provider,
		fetcher:  fetcher,
		cache:    cache,
	}
}

// setup loads config and a logger writing to w.
func setup(w io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := internal.NewLogger(w, logLevel)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, logger), nil
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	os.Exit(1)
}

func truncateText(text string, max int) string {
	if len(text) > max {
		return text[:max-3] + "..."
	}
	return text
}
