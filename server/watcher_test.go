// Package server
package server

import (
	"context"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tokerhq/toker-backend/ledger"
	"github.com/tokerhq/toker-backend/types"
)

func setupTestWatcher(t *testing.T) (*watcher, *memStore, *memCache, ledger.Node) {
	node, err := ledger.NewNode(ledger.Config{AuctionDuration: time.Hour})
	require.Nil(t, err)
	t.Cleanup(node.Close)

	pool, err := ants.NewPool(4)
	require.Nil(t, err)

	store := newMemStore()
	cached := newMemCache()
	w := &watcher{
		dbClient:    store,
		cacheClient: cached,
		node:        node,
		pool:        pool,
		lgr:         zap.NewNop(),
	}
	return w, store, cached, node
}

func TestWatcher_BackfillProjectsLog(t *testing.T) {
	ctx := context.Background()
	w, store, cached, node := setupTestWatcher(t)

	token, err := node.CreateToken(ctx, "MetaCoin", "MTC", 1000, "", "0xalice")
	require.Nil(t, err)
	auction, err := node.NewAuction(ctx, token.Address, 100, 500, 100, "0xalice")
	require.Nil(t, err)
	bid, err := node.PlaceBid(ctx, auction.ID, "0xbob", 5000)
	require.Nil(t, err)

	require.Nil(t, w.Backfill(ctx))

	stored, err := store.TokenByAddress(ctx, token.Address)
	require.Nil(t, err)
	assert.Equal(t, uint64(100)-bid.Quantity, stored.ReservedSupply)
	assert.Equal(t, bid.Quantity, stored.CirculatingSupply)

	mirrored, err := store.AuctionByID(ctx, auction.ID)
	require.Nil(t, err)
	assert.Equal(t, auction.TotalSupply-bid.Quantity, mirrored.RemainingSupply)

	bids, total, err := store.BidsByAuction(ctx, auction.ID, nil)
	require.Nil(t, err)
	require.Equal(t, uint64(1), total)
	assert.Equal(t, bid.Position, bids[0].Position)
	assert.Equal(t, bid.AmountPaid, bids[0].AmountPaid)

	balance, err := store.Balance(ctx, "0xbob", token.Address)
	require.Nil(t, err)
	assert.Equal(t, bid.Quantity, balance.Amount)
	assert.Equal(t, "mtc", balance.TokenSymbol)

	warm, err := cached.AuctionByID(ctx, auction.ID)
	require.Nil(t, err)
	assert.Equal(t, mirrored.RemainingSupply, warm.RemainingSupply)

	checkpoint, err := store.Checkpoint(ctx, types.EventBidSubmitted)
	require.Nil(t, err)
	assert.Equal(t, bid.Position, checkpoint.Position)
}

func TestWatcher_BackfillKeepsClampedBidAmount(t *testing.T) {
	ctx := context.Background()
	w, store, _, node := setupTestWatcher(t)

	token, err := node.CreateToken(ctx, "MetaCoin", "MTC", 1000, "", "0xalice")
	require.Nil(t, err)
	auction, err := node.NewAuction(ctx, token.Address, 100, 10, 10, "0xalice")
	require.Nil(t, err)

	// 1500 at price 10 asks for 150 units; only 100 exist, so the bid
	// clamps and amountPaid exceeds price * quantity.
	bid, err := node.PlaceBid(ctx, auction.ID, "0xbob", 1500)
	require.Nil(t, err)
	require.Equal(t, uint64(100), bid.Quantity)
	require.Equal(t, uint64(1500), bid.AmountPaid)

	// Write-through copy first, then the replay re-projects the same
	// entry; the stored amount must not change.
	require.Nil(t, store.InsertBid(ctx, bid))
	require.Nil(t, w.Backfill(ctx))
	require.Nil(t, w.Backfill(ctx))

	bids, total, err := store.BidsByAuction(ctx, auction.ID, nil)
	require.Nil(t, err)
	require.Equal(t, uint64(1), total)
	assert.Equal(t, uint64(1500), bids[0].AmountPaid)
	assert.Equal(t, uint64(100), bids[0].Quantity)
}

func TestWatcher_BackfillResumesFromCheckpoint(t *testing.T) {
	ctx := context.Background()
	w, store, _, node := setupTestWatcher(t)

	_, err := node.CreateToken(ctx, "MetaCoin", "MTC", 1000, "", "0xalice")
	require.Nil(t, err)
	require.Nil(t, w.Backfill(ctx))

	first, err := store.Checkpoint(ctx, types.EventTokenCreated)
	require.Nil(t, err)

	// Nothing new: a second pass moves no checkpoint
	require.Nil(t, w.Backfill(ctx))
	second, err := store.Checkpoint(ctx, types.EventTokenCreated)
	require.Nil(t, err)
	assert.Equal(t, first.Position, second.Position)

	_, err = node.CreateToken(ctx, "OtherCoin", "OTC", 500, "", "0xbob")
	require.Nil(t, err)
	require.Nil(t, w.Backfill(ctx))
	third, err := store.Checkpoint(ctx, types.EventTokenCreated)
	require.Nil(t, err)
	assert.True(t, third.Position > second.Position)

	count, err := store.TokensCount(ctx)
	require.Nil(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestWatcher_BackfillStopsOnDeadContext(t *testing.T) {
	w, _, _, node := setupTestWatcher(t)

	_, err := node.CreateToken(context.Background(), "MetaCoin", "MTC", 1000, "", "0xalice")
	require.Nil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = w.Backfill(ctx)
	require.NotNil(t, err)
}

func TestWatcher_RunStreamsLiveEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, store, _, node := setupTestWatcher(t)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	token, err := node.CreateToken(ctx, "MetaCoin", "MTC", 1000, "", "0xalice")
	require.Nil(t, err)
	auction, err := node.NewAuction(ctx, token.Address, 100, 500, 100, "0xalice")
	require.Nil(t, err)
	_, err = node.PlaceBid(ctx, auction.ID, "0xbob", 5000)
	require.Nil(t, err)

	require.Eventually(t, func() bool {
		bids, _, err := store.BidsByAuction(ctx, auction.ID, nil)
		return err == nil && len(bids) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		mirrored, err := store.TokenByAddress(ctx, token.Address)
		return err == nil && mirrored.CirculatingSupply > 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_RefreshOngoingUpdatesDerivedFields(t *testing.T) {
	ctx := context.Background()
	w, store, cached, node := setupTestWatcher(t)

	token, err := node.CreateToken(ctx, "MetaCoin", "MTC", 1000, "", "0xalice")
	require.Nil(t, err)
	auction, err := node.NewAuction(ctx, token.Address, 100, 500, 100, "0xalice")
	require.Nil(t, err)
	require.Nil(t, w.Backfill(ctx))

	require.Nil(t, node.EndAuction(ctx, auction.ID, "0xalice"))
	w.refreshOngoing(ctx)

	mirrored, err := store.AuctionByID(ctx, auction.ID)
	require.Nil(t, err)
	assert.True(t, mirrored.HasEnded)

	warm, err := cached.AuctionByID(ctx, auction.ID)
	require.Nil(t, err)
	assert.True(t, warm.HasEnded)
}
