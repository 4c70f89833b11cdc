// Package server sits between the ledger node and the outside world.
// It keeps a MongoDB read-model and a Redis cache in sync with the
// ledger event log and answers API queries from those copies, falling
// back to the node only when a record has not been mirrored yet.
package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tokerhq/toker-backend/cache"
	"github.com/tokerhq/toker-backend/db"
	"github.com/tokerhq/toker-backend/ledger"
	"github.com/tokerhq/toker-backend/types"
)

type Config struct {
	StorageAdapter db.Adapter
	StorageURI     string
	StorageDB      string
	StorageMinConn int
	StorageMaxConn int
	StorageIsFlush bool

	CacheAdapter     cache.Adapter
	CacheURL         string
	CacheDB          int
	CachePassword    string
	CacheIsFlush     bool
	CacheExpiredTime time.Duration

	// Node is the ledger handle everything is synced from. Required.
	Node ledger.Node

	Logger *zap.Logger
}

// Server is kind of a router: it receives requests from clients and
// controls how we react to them, reading from cache and storage first
// and writing through the ledger node.
type Server struct {
	Logger *zap.Logger

	infoServer
}

type infoServer struct {
	dbClient    db.Client
	cacheClient cache.Client
	node        ledger.Node

	logger *zap.Logger
}

func New(cfg Config) (*Server, error) {
	cfg.Logger.Info("Create new server instance")
	dbConfig := db.Config{
		DbAdapter: cfg.StorageAdapter,
		DbName:    cfg.StorageDB,
		URL:       cfg.StorageURI,
		MinConn:   cfg.StorageMinConn,
		MaxConn:   cfg.StorageMaxConn,
		FlushDB:   cfg.StorageIsFlush,
		Logger:    cfg.Logger,
	}
	dbClient, err := db.NewClient(dbConfig)
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

	return &Server{
		Logger: cfg.Logger,
		infoServer: infoServer{
			dbClient:    dbClient,
			cacheClient: cacheClient,
			node:        cfg.Node,
			logger:      cfg.Logger,
		},
	}, nil
}

// Status assembles the operational snapshot served on the health
// endpoint. Cache misses degrade single fields, never the whole call;
// when the node itself is unreachable the last cached snapshot is
// served instead, marked degraded.
func (s *infoServer) Status(ctx context.Context) (*types.ServerStatus, error) {
	status := &types.ServerStatus{
		Status:      "online",
		DbStatus:    "online",
		CacheStatus: "online",
	}

	height, err := s.node.LatestBlockHeight(ctx)
	if err != nil {
		cached, cErr := s.cacheClient.ServerStatus(ctx)
		if cErr != nil {
			return nil, err
		}
		cached.Status = "degraded"
		return cached, nil
	}
	status.LedgerHeight = height

	synced, err := s.cacheClient.LatestSyncedHeight(ctx)
	if err != nil {
		s.logger.Debug("Status: synced height not cached yet", zap.Error(err))
	}
	status.SyncedHeight = synced

	if status.TotalTokens, err = s.dbClient.TokensCount(ctx); err != nil {
		status.DbStatus = "offline"
	}
	if status.TotalAuctions, err = s.dbClient.AuctionsCount(ctx); err != nil {
		status.DbStatus = "offline"
	}

	if err := s.cacheClient.UpdateServerStatus(ctx, status); err != nil {
		s.logger.Debug("Status: cannot cache snapshot", zap.Error(err))
	}
	return status, nil
}

// Events replays a slice of the ledger log. Pure passthrough, the log
// itself is the system of record.
func (s *infoServer) Events(ctx context.Context, eventType types.EventType, filter *types.EventFilter, from, to uint64) ([]*types.Event, error) {
	return s.node.ReplayEvents(ctx, eventType, filter, from, to)
}
