// Command watcher runs the sync loops as their own process. It builds a
// dedicated in-process ledger node, so it only mirrors activity on that
// node; running it apart from the API server becomes useful once the
// node handle dials an out-of-process ledger instead.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

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

	runtime.GOMAXPROCS(runtime.NumCPU())
	serviceCfg, err := cfg.New()
	if err != nil {
		panic(err.Error())
	}

	logger, err := newLogger(serviceCfg)
	if err != nil {
		panic("cannot init logger")
	}
	logger.Info("Start watcher...")

	defer func() {
		if err := recover(); err != nil {
			logger.Error("cannot recover")
		}
		if err := logger.Sync(); err != nil {
			logger.Error("cannot sync log")
		}
	}()

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         serviceCfg.SentryDSN,
		Environment: serviceCfg.ServerMode,
	}); err != nil {
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

	watcher, err := server.NewWatcher(server.Config{
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
	})
	if err != nil {
		logger.Panic(err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	waitExit := make(chan bool)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sigCh {
			cancel()
			waitExit <- true
		}
	}()

	go func() {
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Panic(err.Error())
		}
	}()
	go watcher.RunBackfill(ctx, serviceCfg.BackfillInterval)

	<-waitExit
	logger.Info("Watcher stopping")
	logger.Info("Stopped")
}
