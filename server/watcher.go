// Package server
package server

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/tokerhq/toker-backend/cache"
	"github.com/tokerhq/toker-backend/db"
	"github.com/tokerhq/toker-backend/ledger"
	"github.com/tokerhq/toker-backend/types"
)

const defaultRefreshWorkers = 16

// Watcher keeps the read-model in lockstep with the ledger. It streams
// every event type from its last checkpoint and refreshes time-derived
// auction fields on each block tick.
type Watcher interface {
	Run(ctx context.Context) error
	Backfill(ctx context.Context) error
	RunBackfill(ctx context.Context, interval time.Duration)
}

type watcher struct {
	dbClient    db.Client
	cacheClient cache.Client
	node        ledger.Node

	pool *ants.Pool

	lgr *zap.Logger
}

func NewWatcher(cfg Config) (Watcher, error) {
	cfg.Logger.Info("Create new watcher instance")
	dbClient, err := db.NewClient(db.Config{
		DbAdapter: cfg.StorageAdapter,
		DbName:    cfg.StorageDB,
		URL:       cfg.StorageURI,
		MinConn:   cfg.StorageMinConn,
		MaxConn:   cfg.StorageMaxConn,
		FlushDB:   cfg.StorageIsFlush,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	cacheClient, err := cache.New(cache.Config{
		Adapter:            cfg.CacheAdapter,
		URL:                cfg.CacheURL,
		DB:                 cfg.CacheDB,
		Password:           cfg.CachePassword,
		IsFlush:            cfg.CacheIsFlush,
		DefaultExpiredTime: cfg.CacheExpiredTime,
		Logger:             cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(defaultRefreshWorkers)
	if err != nil {
		return nil, err
	}

	return &watcher{
		dbClient:    dbClient,
		cacheClient: cacheClient,
		node:        cfg.Node,
		pool:        pool,
		lgr:         cfg.Logger.With(zap.String("service", "watcher")),
	}, nil
}

// Run blocks until ctx is done. One goroutine per event type resumes
// from the stored checkpoint; a fourth follows block ticks.
func (w *watcher) Run(ctx context.Context) error {
	defer w.pool.Release()

	eventTypes := []types.EventType{
		types.EventTokenCreated,
		types.EventAuctionStarted,
		types.EventBidSubmitted,
	}

	var wg sync.WaitGroup
	for _, eventType := range eventTypes {
		checkpoint, err := w.dbClient.Checkpoint(ctx, eventType)
		if err != nil {
			return err
		}
		sub, err := w.node.SubscribeEvents(ctx, eventType, nil, checkpoint.Position+1)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func(eventType types.EventType, sub *ledger.Subscription) {
			defer wg.Done()
			defer sub.Cancel()
			w.followEvents(ctx, eventType, sub)
		}(eventType, sub)
	}

	blockSub, err := w.node.SubscribeBlocks(ctx)
	if err != nil {
		return err
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer blockSub.Cancel()
		w.followBlocks(ctx, blockSub)
	}()

	w.lgr.Info("Start watching...")
	wg.Wait()
	return ctx.Err()
}

func (w *watcher) followEvents(ctx context.Context, eventType types.EventType, sub *ledger.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub.C():
			if !ok {
				return
			}
			if err := w.applyEvent(ctx, e); err != nil {
				w.lgr.Error("Watcher: cannot apply event", zap.Uint64("position", e.Position), zap.Error(err))
				continue
			}
			if err := w.commitCheckpoint(ctx, e); err != nil {
				w.lgr.Error("Watcher: cannot commit checkpoint", zap.String("type", string(eventType)), zap.Error(err))
			}
		}
	}
}

func (w *watcher) followBlocks(ctx context.Context, sub *ledger.BlockSubscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case height, ok := <-sub.C():
			if !ok {
				return
			}
			w.refreshOngoing(ctx)
			if err := w.cacheClient.UpdateLatestSyncedHeight(ctx, height); err != nil {
				w.lgr.Warn("Watcher: cannot update synced height", zap.Error(err))
			}
		}
	}
}

// applyEvent projects one log entry into storage and cache. Every write
// is an upsert keyed by a unique field, so re-delivery is harmless.
func (w *watcher) applyEvent(ctx context.Context, e *types.Event) error {
	switch e.Type {
	case types.EventTokenCreated:
		return w.applyTokenCreated(ctx, e)
	case types.EventAuctionStarted:
		return w.applyAuctionStarted(ctx, e)
	case types.EventBidSubmitted:
		return w.applyBidSubmitted(ctx, e)
	}
	w.lgr.Warn("Watcher: unknown event type", zap.String("type", string(e.Type)))
	return nil
}

func (w *watcher) applyTokenCreated(ctx context.Context, e *types.Event) error {
	token, err := w.node.TokenDetails(ctx, e.TokenCreated.TokenAddress)
	if err != nil {
		return err
	}
	return w.importToken(ctx, token)
}

func (w *watcher) applyAuctionStarted(ctx context.Context, e *types.Event) error {
	auction, err := w.node.AuctionDetails(ctx, e.AuctionStarted.AuctionAddress)
	if err != nil {
		return err
	}
	if err := w.importAuction(ctx, auction); err != nil {
		return err
	}
	// Starting an auction reserved supply on the token
	token, err := w.node.TokenDetails(ctx, auction.TokenAddress)
	if err != nil {
		return err
	}
	return w.importToken(ctx, token)
}

func (w *watcher) applyBidSubmitted(ctx context.Context, e *types.Event) error {
	bid := &types.BidRecord{
		AuctionID:  e.BidSubmitted.AuctionID,
		Bidder:     e.BidSubmitted.Bidder,
		PriceAtBid: e.BidSubmitted.Price,
		Quantity:   e.BidSubmitted.Quantity,
		AmountPaid: e.BidSubmitted.AmountPaid,
		Timestamp:  e.Time,
		Position:   e.Position,
	}
	if err := w.dbClient.InsertBid(ctx, bid); err != nil {
		return err
	}

	address, err := w.node.AuctionAddressByID(ctx, bid.AuctionID)
	if err != nil {
		return err
	}
	auction, err := w.node.AuctionDetails(ctx, address)
	if err != nil {
		return err
	}
	if err := w.importAuction(ctx, auction); err != nil {
		return err
	}

	token, err := w.node.TokenDetails(ctx, auction.TokenAddress)
	if err != nil {
		return err
	}
	if err := w.importToken(ctx, token); err != nil {
		return err
	}

	amount, err := w.node.Balance(ctx, bid.Bidder, auction.TokenAddress)
	if err != nil {
		return err
	}
	return w.dbClient.UpsertBalance(ctx, &types.Balance{
		Address:      bid.Bidder,
		TokenAddress: auction.TokenAddress,
		TokenSymbol:  token.Symbol,
		Amount:       amount,
		UpdatedAt:    time.Now().Unix(),
	})
}

func (w *watcher) commitCheckpoint(ctx context.Context, e *types.Event) error {
	return w.dbClient.UpdateCheckpoint(ctx, &types.SyncCheckpoint{
		EventType: e.Type,
		Position:  e.Position,
		Height:    e.Height,
	})
}

// refreshOngoing re-mirrors every open auction from the node. Fans out
// on the worker pool since auctions are independent of each other.
func (w *watcher) refreshOngoing(ctx context.Context) {
	auctions, err := w.dbClient.OngoingAuctions(ctx)
	if err != nil {
		w.lgr.Error("Watcher: cannot list ongoing auctions", zap.Error(err))
		return
	}

	var wg sync.WaitGroup
	for _, auction := range auctions {
		auction := auction
		wg.Add(1)
		if err := w.pool.Submit(func() {
			defer wg.Done()
			w.refreshOne(ctx, auction.ID)
		}); err != nil {
			wg.Done()
			w.lgr.Warn("Watcher: cannot submit refresh task", zap.Uint64("id", auction.ID), zap.Error(err))
		}
	}
	wg.Wait()
}

func (w *watcher) refreshOne(ctx context.Context, id uint64) {
	address, err := w.node.AuctionAddressByID(ctx, id)
	if err != nil {
		w.lgr.Warn("Watcher: cannot resolve auction", zap.Uint64("id", id), zap.Error(err))
		return
	}
	auction, err := w.node.AuctionDetails(ctx, address)
	if err != nil {
		w.lgr.Warn("Watcher: cannot fetch auction", zap.Uint64("id", id), zap.Error(err))
		return
	}
	if err := w.importAuction(ctx, auction); err != nil {
		w.lgr.Warn("Watcher: cannot mirror auction", zap.Uint64("id", id), zap.Error(err))
	}
}

func (w *watcher) importToken(ctx context.Context, token *types.TokenRecord) error {
	token.UpdatedAt = time.Now().Unix()
	if err := w.dbClient.UpsertToken(ctx, token); err != nil {
		return err
	}
	return w.cacheClient.UpdateToken(ctx, token)
}

func (w *watcher) importAuction(ctx context.Context, auction *types.AuctionRecord) error {
	auction.UpdatedAt = time.Now().Unix()
	if err := w.dbClient.UpsertAuction(ctx, auction); err != nil {
		return err
	}
	return w.cacheClient.UpdateAuction(ctx, auction)
}
