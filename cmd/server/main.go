// Package main provides the entry point for the rookscore API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rookscore/internal/api"
	"github.com/yourusername/rookscore/internal/config"
	"github.com/yourusername/rookscore/internal/health"
	"github.com/yourusername/rookscore/internal/logger"
	"github.com/yourusername/rookscore/internal/metrics"
	"github.com/yourusername/rookscore/internal/scheduler"
	"github.com/yourusername/rookscore/internal/service"
	"github.com/yourusername/rookscore/internal/store"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv("ROOKSCORE_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := config.ApplySecretsFromEnv(ctx, cfg, os.Getenv); err != nil {
		log.Fatalf("Failed to load secrets: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment":  cfg.App.Environment,
		"log_level":    cfg.App.LogLevel,
		"store_driver": cfg.Store.Driver,
		"version":      Version,
	}).Info("Rookscore server starting")

	metrics.InitRegistry()

	st, err := store.New(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to open snapshot store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			appLog.WithError(err).Error("Failed to close snapshot store")
		}
	}()

	history := service.NewHistoryCache(st, cfg.HistoryTTL())
	probability := service.NewProbabilityService(st, history, appLog)
	statistics := service.NewStatisticsService(st, cfg.Game.TargetScore, appLog)
	snapshots := service.NewSnapshotService(st, cfg.Store.Driver, history, appLog)

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		Checks:      map[string]health.Pinger{"store": st},
		Details: map[string]health.DetailFunc{
			"history_cache": func() any { return history.Stats() },
		},
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	apiServer := api.NewServer(cfg.API, probability, statistics, snapshots, appLog)
	if err := apiServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start API server")
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(statistics, history, appLog)
		if cfg.Scheduler.StatisticsRefresh != "" {
			if err := sched.ScheduleStatisticsRefresh(cfg.Scheduler.StatisticsRefresh); err != nil {
				appLog.WithError(err).Fatal("Failed to schedule statistics refresh")
			}
		}
		if cfg.Scheduler.CacheWarmIntervalSeconds > 0 {
			if err := sched.ScheduleCacheWarm(cfg.Scheduler.CacheWarmIntervalSeconds); err != nil {
				appLog.WithError(err).Fatal("Failed to schedule cache warm-up")
			}
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
	}

	if n, err := history.Warm(ctx); err != nil {
		appLog.WithError(err).Warn("Initial history load failed")
	} else {
		appLog.WithField("historical_games", n).Info("History cache warmed")
	}

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"api_port":    cfg.API.Port,
		"health_port": cfg.Health.Port,
		"scheduler":   cfg.Scheduler.Enabled,
	}).Info("Rookscore server is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	if sched != nil {
		sched.Stop()
	}
	if err := apiServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("API server shutdown failed")
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Health server shutdown failed")
	}

	appLog.Info("Rookscore server stopped")
}
