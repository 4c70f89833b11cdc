// Package server
package server

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tokerhq/toker-backend/types"
)

var errNotCached = errors.New("not cached")

// memStore is an in-memory stand-in for the storage client, keyed the
// same way the mongo collections are.
type memStore struct {
	mu          sync.Mutex
	tokens      map[string]*types.TokenRecord
	auctions    map[uint64]*types.AuctionRecord
	bids        map[uint64]*types.BidRecord
	balances    map[string]*types.Balance
	checkpoints map[types.EventType]*types.SyncCheckpoint
}

func newMemStore() *memStore {
	return &memStore{
		tokens:      make(map[string]*types.TokenRecord),
		auctions:    make(map[uint64]*types.AuctionRecord),
		bids:        make(map[uint64]*types.BidRecord),
		balances:    make(map[string]*types.Balance),
		checkpoints: make(map[types.EventType]*types.SyncCheckpoint),
	}
}

func (s *memStore) UpsertToken(ctx context.Context, token *types.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *token
	s.tokens[token.Address] = &cp
	return nil
}

func (s *memStore) TokenByAddress(ctx context.Context, address string) (*types.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[address]
	if !ok {
		return nil, types.ErrTokenNotFound
	}
	cp := *token
	return &cp, nil
}

func (s *memStore) TokenBySymbol(ctx context.Context, symbol string) (*types.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, token := range s.tokens {
		if token.Symbol == symbol {
			cp := *token
			return &cp, nil
		}
	}
	return nil, types.ErrTokenNotFound
}

func (s *memStore) Tokens(ctx context.Context, filter *types.TokensFilter) ([]*types.TokenRecord, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.TokenRecord
	for _, token := range s.tokens {
		if filter != nil {
			if filter.Owner != "" && token.Owner != filter.Owner {
				continue
			}
			if filter.Symbol != "" && token.Symbol != filter.Symbol {
				continue
			}
		}
		cp := *token
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAtBlock < out[j].CreatedAtBlock })
	return out, uint64(len(out)), nil
}

func (s *memStore) TokensCount(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(len(s.tokens)), nil
}

func (s *memStore) UpsertAuction(ctx context.Context, auction *types.AuctionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *auction
	s.auctions[auction.ID] = &cp
	return nil
}

func (s *memStore) AuctionByID(ctx context.Context, id uint64) (*types.AuctionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	auction, ok := s.auctions[id]
	if !ok {
		return nil, types.ErrAuctionNotFound
	}
	cp := *auction
	return &cp, nil
}

func (s *memStore) AuctionByAddress(ctx context.Context, address string) (*types.AuctionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, auction := range s.auctions {
		if auction.Address == address {
			cp := *auction
			return &cp, nil
		}
	}
	return nil, types.ErrAuctionNotFound
}

func (s *memStore) Auctions(ctx context.Context, filter *types.AuctionsFilter) ([]*types.AuctionRecord, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.AuctionRecord
	for _, auction := range s.auctions {
		if filter != nil {
			if filter.TokenAddress != "" && auction.TokenAddress != filter.TokenAddress {
				continue
			}
			if filter.Owner != "" && auction.Owner != filter.Owner {
				continue
			}
			if filter.OngoingOnly && auction.HasEnded {
				continue
			}
		}
		cp := *auction
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, uint64(len(out)), nil
}

func (s *memStore) OngoingAuctions(ctx context.Context) ([]*types.AuctionRecord, error) {
	auctions, _, err := s.Auctions(ctx, &types.AuctionsFilter{OngoingOnly: true})
	return auctions, err
}

func (s *memStore) AuctionsCount(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(len(s.auctions)), nil
}

func (s *memStore) InsertBid(ctx context.Context, bid *types.BidRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *bid
	s.bids[bid.Position] = &cp
	return nil
}

func (s *memStore) BidsByAuction(ctx context.Context, auctionID uint64, pagination *types.Pagination) ([]*types.BidRecord, uint64, error) {
	return s.findBids(func(b *types.BidRecord) bool { return b.AuctionID == auctionID })
}

func (s *memStore) BidsByBidder(ctx context.Context, bidder string, pagination *types.Pagination) ([]*types.BidRecord, uint64, error) {
	return s.findBids(func(b *types.BidRecord) bool { return b.Bidder == bidder })
}

func (s *memStore) findBids(match func(*types.BidRecord) bool) ([]*types.BidRecord, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.BidRecord
	for _, bid := range s.bids {
		if match(bid) {
			cp := *bid
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, uint64(len(out)), nil
}

func (s *memStore) UpsertBalance(ctx context.Context, balance *types.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *balance
	s.balances[balance.Address+"|"+balance.TokenAddress] = &cp
	return nil
}

func (s *memStore) Balance(ctx context.Context, address, tokenAddress string) (*types.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[address+"|"+tokenAddress]
	if !ok {
		return &types.Balance{Address: address, TokenAddress: tokenAddress}, nil
	}
	cp := *balance
	return &cp, nil
}

func (s *memStore) BalancesByAddress(ctx context.Context, address string) ([]*types.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.Balance
	for _, balance := range s.balances {
		if balance.Address == address {
			cp := *balance
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) UpdateCheckpoint(ctx context.Context, checkpoint *types.SyncCheckpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	checkpoint.UpdatedAt = time.Now().Unix()
	cp := *checkpoint
	s.checkpoints[checkpoint.EventType] = &cp
	return nil
}

func (s *memStore) Checkpoint(ctx context.Context, eventType types.EventType) (*types.SyncCheckpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	checkpoint, ok := s.checkpoints[eventType]
	if !ok {
		return &types.SyncCheckpoint{EventType: eventType}, nil
	}
	cp := *checkpoint
	return &cp, nil
}

// memCache is an in-memory stand-in for the cache client.
type memCache struct {
	mu           sync.Mutex
	tokens       map[string]*types.TokenRecord
	auctions     map[uint64]*types.AuctionRecord
	status       *types.ServerStatus
	syncedHeight uint64
}

func newMemCache() *memCache {
	return &memCache{
		tokens:   make(map[string]*types.TokenRecord),
		auctions: make(map[uint64]*types.AuctionRecord),
	}
}

func (c *memCache) UpdateToken(ctx context.Context, token *types.TokenRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *token
	c.tokens["s:"+token.Symbol] = &cp
	c.tokens["a:"+token.Address] = &cp
	return nil
}

func (c *memCache) TokenBySymbol(ctx context.Context, symbol string) (*types.TokenRecord, error) {
	return c.cachedToken("s:" + symbol)
}

func (c *memCache) TokenByAddress(ctx context.Context, address string) (*types.TokenRecord, error) {
	return c.cachedToken("a:" + address)
}

func (c *memCache) cachedToken(key string) (*types.TokenRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	token, ok := c.tokens[key]
	if !ok {
		return nil, types.ErrTokenNotFound
	}
	cp := *token
	return &cp, nil
}

func (c *memCache) UpdateAuction(ctx context.Context, auction *types.AuctionRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *auction
	c.auctions[auction.ID] = &cp
	return nil
}

func (c *memCache) AuctionByID(ctx context.Context, id uint64) (*types.AuctionRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	auction, ok := c.auctions[id]
	if !ok {
		return nil, types.ErrAuctionNotFound
	}
	cp := *auction
	return &cp, nil
}

func (c *memCache) ServerStatus(ctx context.Context) (*types.ServerStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == nil {
		return nil, errNotCached
	}
	cp := *c.status
	return &cp, nil
}

func (c *memCache) UpdateServerStatus(ctx context.Context, status *types.ServerStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *status
	c.status = &cp
	return nil
}

func (c *memCache) LatestSyncedHeight(ctx context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncedHeight, nil
}

func (c *memCache) UpdateLatestSyncedHeight(ctx context.Context, height uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncedHeight = height
	return nil
}
