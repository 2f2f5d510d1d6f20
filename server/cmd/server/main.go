package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"github.com/Ckuran148/Jolt/pkg/wire"
	"github.com/Ckuran148/Jolt/server/internal/alerts"
	"github.com/Ckuran148/Jolt/server/internal/api"
	"github.com/Ckuran148/Jolt/server/internal/auth"
	"github.com/Ckuran148/Jolt/server/internal/config"
	"github.com/Ckuran148/Jolt/server/internal/history"
	"github.com/Ckuran148/Jolt/server/internal/metrics"
	"github.com/Ckuran148/Jolt/server/internal/receiver"
	"github.com/Ckuran148/Jolt/server/internal/store"
	"github.com/Ckuran148/Jolt/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("jolt-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"grpc_port", cfg.Server.GRPCPort,
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"users", len(cfg.Server.Auth.Users),
		"snapshot_ttl", cfg.Server.Snapshot.TTL,
		"storage", cfg.Server.Storage.Backend,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Live report store with background TTL eviction.
	st := store.New(cfg.Server.Snapshot.TTL)
	go st.Run(ctx)

	alertEngine := alerts.New(cfg.Server.Alerts)

	// Daypart history is optional. The interfaces below stay nil when it is off.
	var (
		rec  receiver.Recorder
		hist api.HistorySource
	)
	if cfg.Server.Storage.Backend == "sqlite" {
		hs, err := history.Open(cfg.Server.Storage.Path)
		if err != nil {
			slog.Error("failed to open history store", "path", cfg.Server.Storage.Path, "err", err)
			os.Exit(1)
		}
		defer hs.Close()
		go hs.Run(ctx, cfg.Server.Storage.Retention)
		rec, hist = hs, hs
		slog.Info("history enabled", "path", cfg.Server.Storage.Path, "retention", cfg.Server.Storage.Retention)
	}

	interceptor := auth.APIKeyInterceptor(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	wire.RegisterReportServiceServer(grpcSrv, receiver.New(st, alertEngine, rec))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		slog.Error("failed to listen on gRPC port",
			"port", cfg.Server.GRPCPort, "err", err)
		os.Exit(1)
	}

	go func() {
		slog.Info("gRPC receiver listening", "port", cfg.Server.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "err", err)
		}
	}()

	hub := ws.New(st, cfg.Server.Snapshot.BroadcastInterval)
	go hub.Run(ctx)

	authn := auth.NewAuthenticator(cfg.Server.Auth)

	// REST API, WebSocket stream and /metrics share HTTPPort.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", authn.Middleware(api.New(st, alertEngine, hist)))
	httpMux.Handle("/ws/stream", authn.Middleware(hub))
	httpMux.Handle("/metrics", metrics.New(st, metrics.CounterFunc(alertEngine.Firing), hub))

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("jolt-server shutting down")
	grpcSrv.GracefulStop()
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
