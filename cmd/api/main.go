package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/tokerhq/toker-backend/api"
	"github.com/tokerhq/toker-backend/cache"
	"github.com/tokerhq/toker-backend/cfg"
	"github.com/tokerhq/toker-backend/db"
	"github.com/tokerhq/toker-backend/ledger"
	"github.com/tokerhq/toker-backend/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		panic(err.Error())
	}

	serviceCfg, err := cfg.New()
	if err != nil {
		panic(err.Error())
	}

	logger, err := newLogger(serviceCfg)
	if err != nil {
		panic("cannot init logger")
	}
	logger.Info("Start API server...")

	defer func() {
		if err := recover(); err != nil {
			logger.Error("cannot recover")
		}
		if err := logger.Sync(); err != nil {
			logger.Error("cannot sync log")
		}
	}()

	if err := setupSentry(serviceCfg); err != nil {
		panic(err)
	}
	defer sentry.Flush(2 * time.Second)

	node, err := ledger.NewNode(ledger.Config{
		BlockTime:       serviceCfg.LedgerBlockTime,
		AuctionDuration: serviceCfg.AuctionDuration,
		Logger:          logger,
	})
	if err != nil {
		logger.Panic(err.Error())
	}
	defer node.Close()

	srvConfig := server.Config{
		StorageAdapter: db.Adapter(serviceCfg.StorageDriver),
		StorageURI:     serviceCfg.StorageURI,
		StorageDB:      serviceCfg.StorageDB,
		StorageMinConn: serviceCfg.StorageMinConn,
		StorageMaxConn: serviceCfg.StorageMaxConn,
		StorageIsFlush: serviceCfg.StorageIsFlush,

		CacheAdapter:     cache.Adapter(serviceCfg.CacheEngine),
		CacheURL:         serviceCfg.CacheURL,
		CacheDB:          serviceCfg.CacheDB,
		CachePassword:    serviceCfg.CachePassword,
		CacheIsFlush:     serviceCfg.CacheIsFlush,
		CacheExpiredTime: serviceCfg.CacheExpiredTime,

		Node:   node,
		Logger: logger,
	}
	srv, err := server.New(srvConfig)
	if err != nil {
		logger.Panic(err.Error())
	}

	// The read-model watcher runs in-process with the API so both see
	// the same ledger node.
	srvConfig.StorageIsFlush = false
	srvConfig.CacheIsFlush = false
	watcher, err := server.NewWatcher(srvConfig)
	if err != nil {
		logger.Panic(err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Panic(err.Error())
		}
	}()
	go watcher.RunBackfill(ctx, serviceCfg.BackfillInterval)

	rest := api.NewRestServer(srv, serviceCfg.DefaultAPITimeout, logger)
	go api.Start(rest, serviceCfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	cancel()
	logger.Info("API server stopping")
}

func setupSentry(cfg cfg.ServiceConfig) error {
	opts := sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.ServerMode,
	}
	if err := sentry.Init(opts); err != nil {
		return err
	}
	return nil
}
