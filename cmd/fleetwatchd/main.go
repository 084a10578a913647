// Command fleetwatchd runs the fleetwatch ICMP monitoring daemon: it
// probes the device fleet on a fixed cadence, publishes a crash-safe
// snapshot, tracks sustained outages, sends WhatsApp-style alerts and
// incident tickets, and serves a read-only HTTP API over the result.
//
// # Usage
//
//	fleetwatchd --config /etc/fleetwatch/config.yaml
//
// # Configuration
//
// The daemon can be configured via:
//   - A YAML config file (--config)
//   - Environment variables (FLEETWATCH_*)
//   - Built-in defaults
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pilot-net/fleetwatch/internal/analytics"
	"github.com/pilot-net/fleetwatch/internal/api"
	"github.com/pilot-net/fleetwatch/internal/cache"
	"github.com/pilot-net/fleetwatch/internal/config"
	"github.com/pilot-net/fleetwatch/internal/failtrack"
	"github.com/pilot-net/fleetwatch/internal/incident"
	"github.com/pilot-net/fleetwatch/internal/inventory"
	"github.com/pilot-net/fleetwatch/internal/notify"
	"github.com/pilot-net/fleetwatch/internal/orchestrator"
	"github.com/pilot-net/fleetwatch/internal/prober"
	"github.com/pilot-net/fleetwatch/internal/snapshot"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		debug      = flag.Bool("debug", false, "Enable debug logging")
		version    = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("fleetwatchd v0.1.0")
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			logger.Error("failed to load config file", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	inv, err := inventory.NewFromURL(ctx, cfg.Inventory.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("failed to connect to inventory database", "error", err)
		os.Exit(1)
	}
	defer inv.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := inv.Ping(pingCtx); err != nil {
		logger.Error("inventory database ping failed", "error", err)
		os.Exit(1)
	}
	pingCancel()
	logger.Info("connected to inventory database")

	escCtx, escCancel := context.WithTimeout(context.Background(), 10*time.Second)
	escalator, err := incident.NewFromURL(escCtx, cfg.Incidents.DatabaseURL, cfg.Incidents.Threshold, cfg.Incidents.OrgBucket, cfg.DataDir, logger)
	escCancel()
	if err != nil {
		logger.Error("failed to connect to incident database", "error", err)
		os.Exit(1)
	}
	defer escalator.Close()

	var responseCache *cache.Cache
	if cfg.API.RedisURL != "" {
		c, err := cache.New(cfg.API.RedisURL, logger)
		if err != nil {
			logger.Warn("response cache disabled - connection failed", "error", err)
		} else {
			responseCache = c
			defer responseCache.Close()
			logger.Info("response cache enabled", "redis_url", cfg.API.RedisURL)
		}
	} else {
		logger.Info("response cache disabled - api.redis_url not set")
	}

	p := prober.New(cfg.Probing.Deadline, logger)
	snap := snapshot.New(cfg.DataDir, logger)
	failures := failtrack.New(cfg.DataDir, logger)
	alertLedger := notify.NewLedger(cfg.DataDir)
	notifier := notify.NewClient(notify.Config{
		WebhookURL: cfg.Notify.WebhookURL,
		APIKey:     cfg.Notify.APIKey,
		DeviceKey:  cfg.Notify.DeviceKey,
		GroupIDs:   cfg.Notify.GroupIDs,
		RatePerMin: cfg.Notify.RatePerMin,
	}, logger)
	appender := analytics.New(cfg.DataDir, logger)

	orch := orchestrator.New(
		orchestrator.Config{
			CycleInterval:     cfg.Probing.CycleInterval,
			Deadline:          cfg.Probing.Deadline,
			MaxParallel:       cfg.Probing.MaxParallel,
			AlertThreshold:    cfg.Notify.Threshold,
			IncidentThreshold: cfg.Incidents.Threshold,
		},
		p, inv, snap, failures, alertLedger, notifier, escalator, appender, logger,
	)

	runCtx, runCancel := context.WithCancel(context.Background())
	go orch.Run(runCtx)

	apiServer := api.NewServer(snap, failures, appender, responseCache, cfg.API.CacheTTL, logger)
	httpServer := &http.Server{
		Addr:         cfg.API.ListenAddr,
		Handler:      apiServer,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting read api", "addr", cfg.API.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	runCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
