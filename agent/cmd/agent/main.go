package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ckuran148/Jolt/agent/internal/collector"
	"github.com/Ckuran148/Jolt/agent/internal/config"
	"github.com/Ckuran148/Jolt/agent/internal/jolt"
	"github.com/Ckuran148/Jolt/agent/internal/security"
	"github.com/Ckuran148/Jolt/agent/internal/shipper"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("jolt-agent starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"server_endpoint", cfg.Agent.ServerEndpoint,
		"jolt_endpoint", cfg.Agent.Jolt.Endpoint,
		"poll_interval", cfg.Agent.PollInterval,
		"locations", len(cfg.Agent.Locations),
		"timezone", cfg.Agent.Timezone,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		cs := security.Check(ctx, cfg.Agent.Jolt)
		switch {
		case cs == nil:
		case cs.Status == security.StatusValid:
			slog.Info("jolt endpoint certificate", "status", cs.Status, "days_left", cs.DaysLeft, "issuer", cs.Issuer)
		default:
			slog.Warn("jolt endpoint certificate", "status", cs.Status, "days_left", cs.DaysLeft, "not_after", cs.NotAfter)
		}
	}()

	// Start the gRPC shipper; runs until ctx is cancelled.
	ship := shipper.New(cfg.Agent)
	go ship.Run(ctx)

	client := jolt.New(cfg.Agent.Jolt, cfg.Agent.RatePerSecond)
	coll := collector.New(client, ship, cfg.Agent)

	// Hot-reload: allow-list, metadata sheet, timezone and concurrency take
	// effect on the next cycle. Endpoint and auth changes need a restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			coll.Reload(updated.Agent)
			slog.Info("config hot-reloaded",
				"locations", len(updated.Agent.Locations),
				"metadata_csv", updated.Agent.MetadataCSV,
			)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	coll.Run(ctx)
	slog.Info("jolt-agent shutting down", "pending_reports", ship.Pending())
}
