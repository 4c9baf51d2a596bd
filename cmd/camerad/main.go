package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mohammed-shakir/camera-stop-engine/internal/bridge"
	"github.com/mohammed-shakir/camera-stop-engine/internal/bridge/kafkabridge"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/config"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/health"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/router"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/server"
	"github.com/mohammed-shakir/camera-stop-engine/internal/geo"
	"github.com/mohammed-shakir/camera-stop-engine/internal/location"
	"github.com/mohammed-shakir/camera-stop-engine/internal/location/kafkafeed"
	"github.com/mohammed-shakir/camera-stop-engine/internal/logger"
	"github.com/mohammed-shakir/camera-stop-engine/internal/metrics"
	"github.com/mohammed-shakir/camera-stop-engine/internal/service"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session/memstore"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session/redisstore"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()

	// flags override the environment
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.Store.Driver, "store", cfg.Store.Driver, "session store: memory|redis")
	flag.StringVar(&cfg.Bridge.Driver, "bridge", cfg.Bridge.Driver, "native bridge: log|kafka")
	flag.BoolVar(&cfg.Location.Enabled, "location-feed", cfg.Location.Enabled, "consume device locations from kafka")
	flag.Parse()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Service:   "camerad",
		Component: "main",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := metrics.Init(metrics.Config{
		Addr: cfg.MetricsAddr,
		Path: cfg.MetricsPath,
		Build: metrics.BuildInfo{
			Version:   Version,
			Revision:  os.Getenv("BUILD_REVISION"),
			Branch:    os.Getenv("BUILD_BRANCH"),
			BuildDate: os.Getenv("BUILD_DATE"),
		},
	})
	observability.Init(p.Registerer(), cfg.MetricsEnabled)
	observability.ExposeBuildInfo(Version)

	appLog.Info("starting camerad",
		"addr", cfg.Addr,
		"version", Version,
		"store", cfg.Store.Driver,
		"bridge", cfg.Bridge.Driver,
		"location_feed", cfg.Location.Enabled)

	store, persister, ready, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		appLog.Error("session store setup failed", "err", err)
		return 1
	}
	defer func() {
		if err := closeStore(); err != nil {
			appLog.Warn("session store close", "err", err)
		}
	}()

	br, closeBridge, err := openBridge(cfg, appLog)
	if err != nil {
		appLog.Error("bridge setup failed", "err", err)
		return 1
	}
	defer func() {
		if err := closeBridge(); err != nil {
			appLog.Warn("bridge close", "err", err)
		}
	}()

	tracker := location.NewTracker(location.Options{
		CellRes:   cfg.Location.CellRes,
		Persister: persister,
		Logger:    appLog.With("component", "location"),
	})

	feed := kafkafeed.New(kafkafeed.Config{
		Enabled:       cfg.Location.Enabled,
		Brokers:       cfg.Location.Brokers,
		Topic:         cfg.Location.Topic,
		GroupID:       cfg.Location.GroupID,
		InitialOldest: false,
		DedupeSize:    cfg.Location.Capacity,
	}, tracker, kafkafeed.Options{Logger: appLog.With("component", "location_feed"), Register: p.Registerer()})
	if err := feed.Start(ctx); err != nil {
		appLog.Error("location feed start failed", "err", err)
		return 1
	}
	defer feed.Stop()

	svc := service.New(service.Options{
		Store:           store,
		Bridge:          br,
		Geometry:        geo.New(),
		Logger:          appLog.With("component", "camera"),
		DefaultViewport: model.Viewport{Width: cfg.DefaultViewport[0], Height: cfg.DefaultViewport[1]},
		StoreTimeout:    cfg.Store.OpTimeout,
	})

	go func() {
		if err := p.Serve(ctx, appLog); err != nil {
			appLog.Error("metrics server exited", "err", err)
		}
	}()

	deps := server.Deps{
		Handlers: router.New(appLog, cfg, svc, tracker),
		Ready:    []health.ReadinessReporter{feed, ready},
	}
	// a dedicated metrics listener replaces the in-band route
	if cfg.MetricsAddr == "" {
		deps.Metrics = p.Handler()
	}
	if err := server.Run(ctx, cfg, appLog, deps); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}

func openStore(ctx context.Context, cfg config.Config) (session.Store, location.Persister, health.ReadinessReporter, func() error, error) {
	if strings.EqualFold(cfg.Store.Driver, "redis") {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rc, err := redisstore.New(dialCtx, cfg.Store.RedisAddr, cfg.Store.TTL)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		ready := health.ReadyFunc(func() bool {
			pctx, cancel := context.WithTimeout(context.Background(), cfg.Store.OpTimeout)
			defer cancel()
			return rc.Ping(pctx) == nil
		})
		return rc, rc, ready, rc.Close, nil
	}
	always := health.ReadyFunc(func() bool { return true })
	return memstore.New(cfg.Store.CacheSize), nil, always, func() error { return nil }, nil
}

func openBridge(cfg config.Config, log *slog.Logger) (bridge.Bridge, func() error, error) {
	logBridge := bridge.Log{L: log.With("component", "bridge")}
	if !strings.EqualFold(cfg.Bridge.Driver, "kafka") {
		return logBridge, func() error { return nil }, nil
	}
	pub, err := kafkabridge.NewPublisher(cfg.Bridge.Brokers, cfg.Bridge.Topic, cfg.Bridge.Queue, log.With("component", "kafka_bridge"))
	if err != nil {
		return nil, nil, err
	}
	return bridge.Multi{logBridge, pub}, pub.Close, nil
}
