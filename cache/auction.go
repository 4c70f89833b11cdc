// Package cache
package cache

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/tokerhq/toker-backend/types"
)

const (
	KeyAuctionByID = "#auction#id#"
)

type IAuction interface {
	AuctionByID(ctx context.Context, id uint64) (*types.AuctionRecord, error)
	UpdateAuction(ctx context.Context, auction *types.AuctionRecord) error
}

// UpdateAuction stores the record with its freshly derived
// currentPrice; the watcher rewrites it on every block tick.
func (c *Redis) UpdateAuction(ctx context.Context, auction *types.AuctionRecord) error {
	data, err := json.Marshal(auction)
	if err != nil {
		return err
	}
	key := KeyAuctionByID + strconv.FormatUint(auction.ID, 10)
	if err := c.client.Set(ctx, key, string(data), c.expiredTime).Err(); err != nil {
		return err
	}
	return nil
}

func (c *Redis) AuctionByID(ctx context.Context, id uint64) (*types.AuctionRecord, error) {
	result, err := c.client.Get(ctx, KeyAuctionByID+strconv.FormatUint(id, 10)).Result()
	if err != nil {
		return nil, err
	}
	var auction types.AuctionRecord
	if err := json.Unmarshal([]byte(result), &auction); err != nil {
		return nil, err
	}
	return &auction, nil
}
