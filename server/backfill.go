// Package server
package server

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/tokerhq/toker-backend/types"
)

// Backfill replays every event type from its checkpoint up to the
// current end of the log. Replays only; a running watcher picks up the
// live tail. Connectivity failures retry with exponential backoff,
// everything else is terminal.
func (w *watcher) Backfill(ctx context.Context) error {
	eventTypes := []types.EventType{
		types.EventTokenCreated,
		types.EventAuctionStarted,
		types.EventBidSubmitted,
	}
	for _, eventType := range eventTypes {
		if err := w.backfillType(ctx, eventType); err != nil {
			return err
		}
	}
	return nil
}

func (w *watcher) backfillType(ctx context.Context, eventType types.EventType) error {
	checkpoint, err := w.dbClient.Checkpoint(ctx, eventType)
	if err != nil {
		return err
	}

	var events []*types.Event
	replay := func() error {
		events, err = w.node.ReplayEvents(ctx, eventType, nil, checkpoint.Position+1, 0)
		if err != nil {
			if errors.Is(err, types.ErrLedgerUnavailable) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}
	if err := backoff.Retry(replay, backoff.WithContext(backoff.NewExponentialBackOff(), ctx)); err != nil {
		return err
	}

	w.lgr.Info("Backfill: replaying events",
		zap.String("type", string(eventType)),
		zap.Uint64("from", checkpoint.Position+1),
		zap.Int("count", len(events)))

	for _, e := range events {
		if err := w.applyEvent(ctx, e); err != nil {
			return err
		}
		if err := w.commitCheckpoint(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// RunBackfill repeats Backfill on a fixed cadence. Used as a repair
// loop alongside the streaming watcher.
func (w *watcher) RunBackfill(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := w.Backfill(ctx); err != nil {
				w.lgr.Error("Backfill: pass failed", zap.Error(err))
			}
		}
	}
}
