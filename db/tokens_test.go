// Package db
package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokerhq/toker-backend/types"
)

func Test_mongoDB_UpsertTokenIdempotent(t *testing.T) {
	ctx := context.Background()
	mgo, err := SetupTestMGO()
	require.Nil(t, err)

	token := fakeToken()
	require.Nil(t, mgo.UpsertToken(ctx, token))
	// Second upsert of the same address merges, never duplicates
	token.CirculatingSupply = 42
	require.Nil(t, mgo.UpsertToken(ctx, token))

	stored, err := mgo.TokenByAddress(ctx, token.Address)
	require.Nil(t, err)
	assert.Equal(t, uint64(42), stored.CirculatingSupply)

	bySymbol, err := mgo.TokenBySymbol(ctx, token.Symbol)
	require.Nil(t, err)
	assert.Equal(t, token.Address, bySymbol.Address)

	_, err = mgo.TokenBySymbol(ctx, "no-such-symbol")
	assert.ErrorIs(t, err, types.ErrTokenNotFound)
}

func Test_mongoDB_TokensByOwner(t *testing.T) {
	ctx := context.Background()
	mgo, err := SetupTestMGO()
	require.Nil(t, err)

	owned := fakeToken()
	other := fakeToken()
	require.Nil(t, mgo.UpsertToken(ctx, owned))
	require.Nil(t, mgo.UpsertToken(ctx, other))

	tokens, total, err := mgo.Tokens(ctx, &types.TokensFilter{Owner: owned.Owner})
	require.Nil(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, tokens, 1)
	assert.Equal(t, owned.Address, tokens[0].Address)
}

func Test_mongoDB_AuctionsAndBids(t *testing.T) {
	ctx := context.Background()
	mgo, err := SetupTestMGO()
	require.Nil(t, err)

	token := fakeToken()
	require.Nil(t, mgo.UpsertToken(ctx, token))

	auction := fakeAuction(1, token.Address)
	require.Nil(t, mgo.UpsertAuction(ctx, auction))

	stored, err := mgo.AuctionByID(ctx, auction.ID)
	require.Nil(t, err)
	assert.Equal(t, auction.Address, stored.Address)

	_, err = mgo.AuctionByID(ctx, 9999)
	assert.ErrorIs(t, err, types.ErrAuctionNotFound)

	bid := &types.BidRecord{AuctionID: auction.ID, Bidder: "0xbob", PriceAtBid: 900, Quantity: 3, Position: 7}
	require.Nil(t, mgo.InsertBid(ctx, bid))
	// Replayed delivery of the same log entry is a no-op
	require.Nil(t, mgo.InsertBid(ctx, bid))

	bids, total, err := mgo.BidsByAuction(ctx, auction.ID, nil)
	require.Nil(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, bids, 1)
	assert.Equal(t, uint64(3), bids[0].Quantity)

	ongoing, err := mgo.OngoingAuctions(ctx)
	require.Nil(t, err)
	assert.NotEmpty(t, ongoing)
}

func Test_mongoDB_Checkpoints(t *testing.T) {
	ctx := context.Background()
	mgo, err := SetupTestMGO()
	require.Nil(t, err)

	cp, err := mgo.Checkpoint(ctx, types.EventTokenCreated)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), cp.Position)

	cp.Position = 12
	cp.Height = 40
	require.Nil(t, mgo.UpdateCheckpoint(ctx, cp))

	cp, err = mgo.Checkpoint(ctx, types.EventTokenCreated)
	require.Nil(t, err)
	assert.Equal(t, uint64(12), cp.Position)
}

func Test_mongoDB_Balances(t *testing.T) {
	ctx := context.Background()
	mgo, err := SetupTestMGO()
	require.Nil(t, err)

	balance := &types.Balance{Address: "0xbob", TokenAddress: "0xtoken", Amount: 10}
	require.Nil(t, mgo.UpsertBalance(ctx, balance))
	balance.Amount = 25
	require.Nil(t, mgo.UpsertBalance(ctx, balance))

	stored, err := mgo.Balance(ctx, "0xbob", "0xtoken")
	require.Nil(t, err)
	assert.Equal(t, uint64(25), stored.Amount)

	// Unknown holder reads as zero, not as an error
	zero, err := mgo.Balance(ctx, "0xnobody", "0xtoken")
	require.Nil(t, err)
	assert.Equal(t, uint64(0), zero.Amount)
}
