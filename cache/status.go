// Package cache
package cache

import (
	"context"
	"encoding/json"

	"github.com/tokerhq/toker-backend/types"
	"github.com/tokerhq/toker-backend/utils"
)

const (
	KeyServerStatus       = "#server#status"
	KeyLatestSyncedHeight = "#sync#height"
)

type IStatus interface {
	ServerStatus(ctx context.Context) (*types.ServerStatus, error)
	UpdateServerStatus(ctx context.Context, status *types.ServerStatus) error

	LatestSyncedHeight(ctx context.Context) (uint64, error)
	UpdateLatestSyncedHeight(ctx context.Context, height uint64) error
}

func (c *Redis) UpdateServerStatus(ctx context.Context, status *types.ServerStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, KeyServerStatus, string(data), 0).Err(); err != nil {
		return err
	}
	return nil
}

func (c *Redis) ServerStatus(ctx context.Context) (*types.ServerStatus, error) {
	result, err := c.client.Get(ctx, KeyServerStatus).Result()
	if err != nil {
		return nil, err
	}
	var status types.ServerStatus
	if err := json.Unmarshal([]byte(result), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Redis) UpdateLatestSyncedHeight(ctx context.Context, height uint64) error {
	if err := c.client.Set(ctx, KeyLatestSyncedHeight, height, 0).Err(); err != nil {
		c.logger.Warn("cannot set latest synced height")
	}
	return nil
}

func (c *Redis) LatestSyncedHeight(ctx context.Context) (uint64, error) {
	result, err := c.client.Get(ctx, KeyLatestSyncedHeight).Result()
	if err != nil {
		return 0, err
	}
	return utils.StrToUint64(result), nil
}
