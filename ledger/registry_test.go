// Package ledger
package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokerhq/toker-backend/types"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_600_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestNode(t *testing.T) (Node, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	n, err := NewNode(Config{
		AuctionDuration: 24 * time.Hour,
		Now:             clock.Now,
	})
	require.Nil(t, err)
	t.Cleanup(n.Close)
	return n, clock
}

func TestCreateTokenDuplicateName(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()

	tok, err := n.CreateToken(ctx, "MetaCoin", "MTC", 100, "imageSrc", "0xalice")
	require.Nil(t, err)
	assert.Equal(t, "metacoin", tok.Name)
	assert.Equal(t, "mtc", tok.Symbol)
	assert.Equal(t, uint64(100), tok.CappedSupply)
	assert.Equal(t, uint64(0), tok.CirculatingSupply)
	assert.Equal(t, "0xalice", tok.Owner)

	_, err = n.CreateToken(ctx, "MetaCoin", "MTC2", 100, "imageSrc", "0xalice")
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	// Normalization makes a case/space variant collide too
	_, err = n.CreateToken(ctx, "  metaCOIN ", "MT3", 100, "imageSrc", "0xbob")
	assert.ErrorIs(t, err, types.ErrDuplicateName)
}

func TestCreateTokenDuplicateSymbol(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()

	_, err := n.CreateToken(ctx, "FileCoin", "FTC", 100, "t", "0xalice")
	require.Nil(t, err)

	_, err = n.CreateToken(ctx, "FileCoin2", "FTC", 100, "t", "0xalice")
	assert.ErrorIs(t, err, types.ErrDuplicateSymbol)
}

func TestTokenLookupRoundTrip(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()

	tok, err := n.CreateToken(ctx, "Newcoin", "NTC", 100, "imageSrc", "0xalice")
	require.Nil(t, err)

	addr, err := n.TokenAddressBySymbol(ctx, tok.Symbol)
	require.Nil(t, err)
	assert.Equal(t, tok.Address, addr)

	// Lookup is normalized the same way as creation
	addr, err = n.TokenAddressBySymbol(ctx, " NTC ")
	require.Nil(t, err)
	assert.Equal(t, tok.Address, addr)

	details, err := n.TokenDetails(ctx, addr)
	require.Nil(t, err)
	assert.Equal(t, tok.Name, details.Name)
}

func TestTokenLookupNotFound(t *testing.T) {
	n, _ := newTestNode(t)
	_, err := n.TokenAddressBySymbol(context.Background(), "XXXXX")
	assert.ErrorIs(t, err, types.ErrTokenNotFound)
}

func TestNewAuctionAuthorization(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()

	tok, err := n.CreateToken(ctx, "MetaCoin", "MTC", 100, "imageSrc", "0xalice")
	require.Nil(t, err)

	_, err = n.NewAuction(ctx, tok.Address, 100, 10, 0, "0xbob")
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestNewAuctionValidation(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()

	tok, err := n.CreateToken(ctx, "MetaCoin", "MTC", 100, "imageSrc", "0xalice")
	require.Nil(t, err)

	_, err = n.NewAuction(ctx, tok.Address, 100, 0, 1, "0xalice")
	assert.ErrorIs(t, err, types.ErrInvalidPriceRange)

	_, err = n.NewAuction(ctx, tok.Address, 0, 1, 0, "0xalice")
	assert.ErrorIs(t, err, types.ErrInvalidSupply)

	_, err = n.NewAuction(ctx, tok.Address, 1000, 1, 0, "0xalice")
	assert.ErrorIs(t, err, types.ErrSupplyExceeded)

	_, err = n.NewAuction(ctx, "0xdeadbeef", 10, 1, 0, "0xalice")
	assert.ErrorIs(t, err, types.ErrTokenNotFound)
}

func TestNewAuctionReservesSupply(t *testing.T) {
	n, _ := newTestNode(t)
	ctx := context.Background()

	tok, err := n.CreateToken(ctx, "MetaCoin", "MTC", 100, "imageSrc", "0xalice")
	require.Nil(t, err)

	a1, err := n.NewAuction(ctx, tok.Address, 60, 10, 1, "0xalice")
	require.Nil(t, err)
	assert.Equal(t, uint64(1), a1.ID)
	assert.Equal(t, uint64(60), a1.RemainingSupply)

	// The first auction's reservation already counts against mintable.
	_, err = n.NewAuction(ctx, tok.Address, 50, 10, 1, "0xalice")
	assert.ErrorIs(t, err, types.ErrSupplyExceeded)

	a2, err := n.NewAuction(ctx, tok.Address, 40, 10, 1, "0xalice")
	require.Nil(t, err)
	assert.Equal(t, uint64(2), a2.ID)

	addr, err := n.AuctionAddressByID(ctx, a2.ID)
	require.Nil(t, err)
	assert.Equal(t, a2.Address, addr)

	_, err = n.AuctionAddressByID(ctx, 99)
	assert.ErrorIs(t, err, types.ErrAuctionNotFound)
}

func TestCanceledContextIsLedgerUnavailable(t *testing.T) {
	n, _ := newTestNode(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := n.CreateToken(ctx, "MetaCoin", "MTC", 100, "imageSrc", "0xalice")
	assert.ErrorIs(t, err, types.ErrLedgerUnavailable)

	_, err = n.LatestBlockHeight(ctx)
	assert.ErrorIs(t, err, types.ErrLedgerUnavailable)
}
