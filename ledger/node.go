// Package ledger implements the authoritative registry and Dutch
// auction engine behind the same kind of Node handle the rest of the
// system would use to dial a remote chain. The node serializes every
// mutating call itself; readers only ever see committed state through
// queries and the event log.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tokerhq/toker-backend/types"
)

type Node interface {
	// Ledger calls. Each call is terminal on failure; the node never
	// retries on behalf of the caller.
	CreateToken(ctx context.Context, name, symbol string, supply uint64, url, requester string) (*types.TokenRecord, error)
	NewAuction(ctx context.Context, tokenAddr string, supply, startPrice, reservedPrice uint64, requester string) (*types.AuctionRecord, error)
	PlaceBid(ctx context.Context, auctionID uint64, bidder string, amountPaid uint64) (*types.BidRecord, error)
	EndAuction(ctx context.Context, auctionID uint64, requester string) error

	// Ledger queries.
	TokenAddressBySymbol(ctx context.Context, symbol string) (string, error)
	AuctionAddressByID(ctx context.Context, id uint64) (string, error)
	TokenDetails(ctx context.Context, address string) (*types.TokenRecord, error)
	AuctionDetails(ctx context.Context, address string) (*types.AuctionRecord, error)
	AllTokenAddresses(ctx context.Context) ([]string, error)
	Balance(ctx context.Context, owner, tokenAddr string) (uint64, error)
	LatestBlockHeight(ctx context.Context) (uint64, error)

	// Log access.
	ReplayEvents(ctx context.Context, eventType types.EventType, filter *types.EventFilter, from, to uint64) ([]*types.Event, error)
	SubscribeEvents(ctx context.Context, eventType types.EventType, filter *types.EventFilter, from uint64) (*Subscription, error)
	SubscribeBlocks(ctx context.Context) (*BlockSubscription, error)

	Close()
}

type Config struct {
	// BlockTime is how often the ledger height advances without a
	// mutation. Zero disables the ticker (tests drive height manually).
	BlockTime       time.Duration
	AuctionDuration time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time

	Logger *zap.Logger
}

type node struct {
	mu             sync.RWMutex // guards the registry maps and id counter
	tokens         map[string]*tokenState
	tokensBySymbol map[string]string
	nameTaken      map[string]bool
	auctions       map[uint64]*auctionState
	auctionsByAddr map[string]*auctionState
	nextAuctionID  uint64
	nonce          uint64

	log             *eventLog
	auctionDuration time.Duration
	now             func() time.Time

	stopTicker context.CancelFunc
	lgr        *zap.Logger
}

type tokenState struct {
	mu       sync.Mutex // serializes supply bookkeeping and balances
	rec      types.TokenRecord
	balances map[string]uint64
}

type auctionState struct {
	mu    sync.Mutex // single writer per auction
	rec   types.AuctionRecord
	token *tokenState
}

func NewNode(cfg Config) (Node, error) {
	if cfg.AuctionDuration <= 0 {
		return nil, fmt.Errorf("auction duration must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	lgr := cfg.Logger
	if lgr == nil {
		lgr = zap.NewNop()
	}
	n := &node{
		tokens:          make(map[string]*tokenState),
		tokensBySymbol:  make(map[string]string),
		nameTaken:       make(map[string]bool),
		auctions:        make(map[uint64]*auctionState),
		auctionsByAddr:  make(map[string]*auctionState),
		log:             newEventLog(),
		auctionDuration: cfg.AuctionDuration,
		now:             now,
		lgr:             lgr.With(zap.String("ledger", "node")),
	}
	if cfg.BlockTime > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		n.stopTicker = cancel
		go n.runTicker(ctx, cfg.BlockTime)
	}
	return n, nil
}

func (n *node) runTicker(ctx context.Context, blockTime time.Duration) {
	t := time.NewTicker(blockTime)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n.log.advanceBlock()
		}
	}
}

func (n *node) Close() {
	if n.stopTicker != nil {
		n.stopTicker()
	}
	n.log.closeSubs()
}

func (n *node) LatestBlockHeight(ctx context.Context) (uint64, error) {
	if err := callErr(ctx); err != nil {
		return 0, err
	}
	return n.log.latestHeight(), nil
}

// callErr maps a dead context onto the transport failure class, the one
// error kind callers may retry.
func callErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrLedgerUnavailable, err)
	}
	return nil
}

// deriveAddress builds a stable 0x-prefixed handle for a new ledger
// entity from its kind and creation nonce.
func deriveAddress(kind string, nonce uint64, seed string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", kind, nonce, seed)))
	return "0x" + hex.EncodeToString(sum[:20])
}
