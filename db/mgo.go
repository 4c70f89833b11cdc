// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	cTokens      = "Tokens"
	cAuctions    = "Auctions"
	cBids        = "Bids"
	cBalances    = "Balances"
	cCheckpoints = "SyncCheckpoints"
)

type mongoDB struct {
	logger  *zap.Logger
	wrapper *TokerMgo
	db      *mongo.Database
}

func newMongoDB(cfg Config) (*mongoDB, error) {
	ctx := context.Background()
	dbClient := &mongoDB{
		logger:  cfg.Logger,
		wrapper: &TokerMgo{},
	}
	mgoOptions := options.Client()
	mgoOptions.ApplyURI(cfg.URL)
	mgoOptions.SetMinPoolSize(uint64(cfg.MinConn))
	mgoOptions.SetMaxPoolSize(uint64(cfg.MaxConn))
	mgoClient, err := mongo.NewClient(mgoOptions)
	if err != nil {
		return nil, err
	}

	if err := mgoClient.Connect(ctx); err != nil {
		return nil, err
	}

	dbClient.db = mgoClient.Database(cfg.DbName)
	dbClient.wrapper.Database(dbClient.db)

	if cfg.FlushDB {
		cfg.Logger.Info("Start flush database")
		if err := dbClient.db.Drop(ctx); err != nil {
			return nil, err
		}
	}
	_ = createIndexes(dbClient)

	return dbClient, nil
}

func createIndexes(dbClient *mongoDB) error {
	type CIndex struct {
		c     string
		model []mongo.IndexModel
	}

	indexes := []CIndex{
		// Tokens are keyed by address; symbol and name carry the
		// registry's uniqueness guarantee into the read-model.
		{c: cTokens, model: []mongo.IndexModel{{Keys: bson.M{"address": 1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cTokens, model: []mongo.IndexModel{{Keys: bson.M{"symbol": 1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cTokens, model: []mongo.IndexModel{{Keys: bson.M{"name": 1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cTokens, model: []mongo.IndexModel{{Keys: bson.M{"owner": 1}, Options: options.Index().SetSparse(true)}}},
		{c: cAuctions, model: []mongo.IndexModel{{Keys: bson.M{"id": -1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cAuctions, model: []mongo.IndexModel{{Keys: bson.M{"address": 1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cAuctions, model: []mongo.IndexModel{{Keys: bson.D{{Key: "tokenAddress", Value: 1}, {Key: "startTime", Value: -1}}, Options: options.Index().SetSparse(true)}}},
		{c: cAuctions, model: []mongo.IndexModel{{Keys: bson.M{"hasEnded": 1}, Options: options.Index().SetSparse(true)}}},
		// Bid position is the log position, the de-duplication key.
		{c: cBids, model: []mongo.IndexModel{{Keys: bson.M{"position": 1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cBids, model: []mongo.IndexModel{{Keys: bson.D{{Key: "auctionId", Value: 1}, {Key: "position", Value: 1}}, Options: options.Index().SetSparse(true)}}},
		{c: cBids, model: []mongo.IndexModel{{Keys: bson.M{"bidder": 1}, Options: options.Index().SetSparse(true)}}},
		{c: cBalances, model: []mongo.IndexModel{{Keys: bson.D{{Key: "address", Value: 1}, {Key: "tokenAddress", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
		{c: cCheckpoints, model: []mongo.IndexModel{{Keys: bson.M{"eventType": 1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
	}
	for _, cIdx := range indexes {
		if err := dbClient.wrapper.C(cIdx.c).EnsureIndex(cIdx.model); err != nil {
			return err
		}
	}
	return nil
}

func (m *mongoDB) ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}

func (m *mongoDB) dropDatabase(ctx context.Context) error {
	return m.wrapper.DropDatabase(ctx)
}
