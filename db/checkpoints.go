// Package db
package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tokerhq/toker-backend/types"
)

type ICheckpoints interface {
	UpdateCheckpoint(ctx context.Context, checkpoint *types.SyncCheckpoint) error
	Checkpoint(ctx context.Context, eventType types.EventType) (*types.SyncCheckpoint, error)
}

func (m *mongoDB) UpdateCheckpoint(ctx context.Context, checkpoint *types.SyncCheckpoint) error {
	checkpoint.UpdatedAt = time.Now().Unix()
	if _, err := m.wrapper.C(cCheckpoints).Upsert(bson.M{"eventType": checkpoint.EventType}, checkpoint); err != nil {
		return err
	}
	return nil
}

// Checkpoint returns a zero checkpoint when the event type has never
// been replayed; a fresh watcher starts from the beginning of the log.
func (m *mongoDB) Checkpoint(ctx context.Context, eventType types.EventType) (*types.SyncCheckpoint, error) {
	var checkpoint types.SyncCheckpoint
	if err := m.wrapper.C(cCheckpoints).FindOne(bson.M{"eventType": eventType}).Decode(&checkpoint); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &types.SyncCheckpoint{EventType: eventType}, nil
		}
		return nil, err
	}
	return &checkpoint, nil
}
