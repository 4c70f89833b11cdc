// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tokerhq/toker-backend/types"
)

type IAuctions interface {
	UpsertAuction(ctx context.Context, auction *types.AuctionRecord) error
	AuctionByID(ctx context.Context, id uint64) (*types.AuctionRecord, error)
	AuctionByAddress(ctx context.Context, address string) (*types.AuctionRecord, error)
	Auctions(ctx context.Context, filter *types.AuctionsFilter) ([]*types.AuctionRecord, uint64, error)
	OngoingAuctions(ctx context.Context) ([]*types.AuctionRecord, error)
	AuctionsCount(ctx context.Context) (uint64, error)
}

func (m *mongoDB) UpsertAuction(ctx context.Context, auction *types.AuctionRecord) error {
	if _, err := m.wrapper.C(cAuctions).Upsert(bson.M{"id": auction.ID}, auction); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) AuctionByID(ctx context.Context, id uint64) (*types.AuctionRecord, error) {
	var auction types.AuctionRecord
	if err := m.wrapper.C(cAuctions).FindOne(bson.M{"id": id}).Decode(&auction); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

func (m *mongoDB) AuctionByAddress(ctx context.Context, address string) (*types.AuctionRecord, error) {
	var auction types.AuctionRecord
	if err := m.wrapper.C(cAuctions).FindOne(bson.M{"address": address}).Decode(&auction); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

func (m *mongoDB) Auctions(ctx context.Context, filter *types.AuctionsFilter) ([]*types.AuctionRecord, uint64, error) {
	var (
		crit = bson.M{}
		opts []*options.FindOptions
	)
	if filter != nil {
		if filter.TokenAddress != "" {
			crit["tokenAddress"] = filter.TokenAddress
		}
		if filter.Owner != "" {
			crit["owner"] = filter.Owner
		}
		if filter.OngoingOnly {
			crit["hasEnded"] = false
		}
		if filter.Pagination != nil {
			filter.Pagination.Sanitize()
			opts = append(opts,
				options.Find().SetSkip(int64(filter.Pagination.Skip)),
				options.Find().SetLimit(int64(filter.Pagination.Limit)))
		}
	}
	opts = append(opts, options.Find().SetSort(bson.M{"id": 1}))

	cursor, err := m.wrapper.C(cAuctions).Find(crit, opts...)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var auctions []*types.AuctionRecord
	for cursor.Next(ctx) {
		auction := &types.AuctionRecord{}
		if err := cursor.Decode(auction); err != nil {
			return nil, 0, err
		}
		auctions = append(auctions, auction)
	}

	total, err := m.wrapper.C(cAuctions).Count(crit)
	if err != nil {
		return nil, 0, err
	}
	return auctions, uint64(total), nil
}

func (m *mongoDB) OngoingAuctions(ctx context.Context) ([]*types.AuctionRecord, error) {
	cursor, err := m.wrapper.C(cAuctions).Find(bson.M{"hasEnded": false})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var auctions []*types.AuctionRecord
	for cursor.Next(ctx) {
		auction := &types.AuctionRecord{}
		if err := cursor.Decode(auction); err != nil {
			return nil, err
		}
		auctions = append(auctions, auction)
	}
	return auctions, nil
}

func (m *mongoDB) AuctionsCount(ctx context.Context) (uint64, error) {
	total, err := m.wrapper.C(cAuctions).Count(bson.M{})
	if err != nil {
		return 0, err
	}
	return uint64(total), nil
}
