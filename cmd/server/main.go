package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/odenstall/pos/internal/config"
	"github.com/odenstall/pos/internal/metrics"
	"github.com/odenstall/pos/internal/repository/kv"
	"github.com/odenstall/pos/internal/repository/mongodb"
	"github.com/odenstall/pos/internal/repository/sheets"
	"github.com/odenstall/pos/internal/repository/snapshot"
	"github.com/odenstall/pos/internal/scheduler"
	"github.com/odenstall/pos/internal/server/handlers"
	"github.com/odenstall/pos/internal/server/router"
	possvc "github.com/odenstall/pos/internal/service/pos"
	reportingsvc "github.com/odenstall/pos/internal/service/reporting"
	"github.com/odenstall/pos/internal/syncer"
	"github.com/odenstall/pos/pkg/clients/appscript"
	"github.com/odenstall/pos/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "oden-pos",
	}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(cfg.Metrics.Prefix, registry)

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		baseLogger.Fatal("failed to init snapshot store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	snapshotRepo, err := snapshot.NewKVRepository(store, cfg.Store.Namespace, baseLogger.Named("repo.snapshot"))
	if err != nil {
		baseLogger.Fatal("failed to init snapshot repository", zap.Error(err))
	}

	var sinks []syncer.Sink
	if cfg.Sync.ScriptURL != "" {
		scriptClient, err := appscript.NewClient(cfg.Sync.ScriptURL, cfg.Sync.Timeout)
		if err != nil {
			baseLogger.Fatal("failed to init apps script client", zap.Error(err))
		}
		sinks = append(sinks, syncer.NewAppScriptSink(scriptClient))
		baseLogger.Info("apps script mirror enabled")
	}
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sinks = append(sinks, syncer.NewSheetsSink(sheetsRepo))
		baseLogger.Info("google sheets mirror enabled")
	}
	if len(sinks) == 0 {
		baseLogger.Warn("no mirror configured, events will only be counted")
	}

	dispatcher := syncer.NewDispatcher(sinks, syncer.Options{
		QueueSize:   cfg.Sync.QueueSize,
		Timeout:     cfg.Sync.Timeout,
		Location:    loc,
		BuddhistEra: cfg.Sync.BuddhistEra,
	}, appMetrics, baseLogger.Named("sync.dispatcher"))

	posSvc, err := possvc.NewService(ctx, snapshotRepo, dispatcher, appMetrics, loc, baseLogger.Named("svc.pos"))
	if err != nil {
		baseLogger.Fatal("failed to load ledger state", zap.Error(err))
	}

	var archive reportingsvc.Archive
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, daily reports will not be archived")
	}

	reportingSvc := reportingsvc.NewService(posSvc, archive, baseLogger.Named("svc.reporting"))

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	posHandler := handlers.NewPOSHandler(posSvc, reportingSvc, baseLogger.Named("handlers.pos"))
	syncHandler := handlers.NewSyncHandler(dispatcher, baseLogger.Named("handlers.sync"))
	engine := router.New(posHandler, syncHandler, appMetrics, registry, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	if err := dispatcher.Close(shutdownCtx); err != nil {
		baseLogger.Error("sync queue not drained", zap.Error(err))
	}
}

// openStore builds the snapshot backend selected by cfg.Driver. The returned
// func releases it.
func openStore(ctx context.Context, cfg config.StoreConfig) (kv.Store, func(), error) {
	switch cfg.Driver {
	case config.StoreDriverRedis:
		store, err := kv.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.StoreDriverMemory:
		return kv.NewMemoryStore(), func() {}, nil
	default:
		store, err := kv.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
