// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tokerhq/toker-backend/types"
)

type IBids interface {
	InsertBid(ctx context.Context, bid *types.BidRecord) error
	BidsByAuction(ctx context.Context, auctionID uint64, pagination *types.Pagination) ([]*types.BidRecord, uint64, error)
	BidsByBidder(ctx context.Context, bidder string, pagination *types.Pagination) ([]*types.BidRecord, uint64, error)
}

// InsertBid upserts on log position; re-delivered entries merge into
// the record already stored.
func (m *mongoDB) InsertBid(ctx context.Context, bid *types.BidRecord) error {
	if _, err := m.wrapper.C(cBids).Upsert(bson.M{"position": bid.Position}, bid); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) BidsByAuction(ctx context.Context, auctionID uint64, pagination *types.Pagination) ([]*types.BidRecord, uint64, error) {
	return m.findBids(ctx, bson.M{"auctionId": auctionID}, pagination)
}

func (m *mongoDB) BidsByBidder(ctx context.Context, bidder string, pagination *types.Pagination) ([]*types.BidRecord, uint64, error) {
	return m.findBids(ctx, bson.M{"bidder": bidder}, pagination)
}

func (m *mongoDB) findBids(ctx context.Context, crit bson.M, pagination *types.Pagination) ([]*types.BidRecord, uint64, error) {
	var opts []*options.FindOptions
	if pagination != nil {
		pagination.Sanitize()
		opts = append(opts,
			options.Find().SetSkip(int64(pagination.Skip)),
			options.Find().SetLimit(int64(pagination.Limit)))
	}
	// Bid order is log order
	opts = append(opts, options.Find().SetSort(bson.M{"position": 1}))

	cursor, err := m.wrapper.C(cBids).Find(crit, opts...)
	if err != nil {
		return nil, 0, err
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		_ = cursor.Close(ctx)
	}(cursor, ctx)

	var bids []*types.BidRecord
	for cursor.Next(ctx) {
		bid := &types.BidRecord{}
		if err := cursor.Decode(bid); err != nil {
			return nil, 0, err
		}
		bids = append(bids, bid)
	}

	total, err := m.wrapper.C(cBids).Count(crit)
	if err != nil {
		return nil, 0, err
	}
	return bids, uint64(total), nil
}
