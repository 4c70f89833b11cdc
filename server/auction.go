// Package server
package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tokerhq/toker-backend/types"
)

// NewAuction submits the auction to the ledger and mirrors the accepted
// record together with the token whose supply it reserved.
func (s *infoServer) NewAuction(ctx context.Context, tokenAddr string, supply, startPrice, reservedPrice uint64, requester string) (*types.AuctionRecord, error) {
	auction, err := s.node.NewAuction(ctx, tokenAddr, supply, startPrice, reservedPrice, requester)
	if err != nil {
		return nil, err
	}
	if err := s.importAuction(ctx, auction); err != nil {
		s.logger.Warn("NewAuction: cannot mirror new auction", zap.Uint64("id", auction.ID), zap.Error(err))
	}
	s.refreshToken(ctx, tokenAddr)
	return auction, nil
}

// PlaceBid is write-through: the ledger decides, then the touched
// auction, token and bidder position are re-mirrored so reads converge
// without waiting for the watcher.
func (s *infoServer) PlaceBid(ctx context.Context, auctionID uint64, bidder string, amountPaid uint64) (*types.BidRecord, error) {
	bid, err := s.node.PlaceBid(ctx, auctionID, bidder, amountPaid)
	if err != nil {
		return nil, err
	}
	if err := s.dbClient.InsertBid(ctx, bid); err != nil {
		s.logger.Warn("PlaceBid: cannot mirror bid", zap.Uint64("position", bid.Position), zap.Error(err))
	}
	s.refreshAuction(ctx, auctionID)
	s.refreshBalance(ctx, bidder, auctionID)
	return bid, nil
}

func (s *infoServer) EndAuction(ctx context.Context, auctionID uint64, requester string) (*types.AuctionRecord, error) {
	if err := s.node.EndAuction(ctx, auctionID, requester); err != nil {
		return nil, err
	}
	auction := s.refreshAuction(ctx, auctionID)
	if auction != nil {
		// Ending releases the unsold reservation on the token
		s.refreshToken(ctx, auction.TokenAddress)
	}
	return auction, nil
}

// AuctionByID reads the cached copy first; its currentPrice is at most
// one block tick stale. Storage and the node are the fallbacks.
func (s *infoServer) AuctionByID(ctx context.Context, id uint64) (*types.AuctionRecord, error) {
	if auction, err := s.cacheClient.AuctionByID(ctx, id); err == nil {
		return auction, nil
	}
	if auction, err := s.dbClient.AuctionByID(ctx, id); err == nil {
		s.deriveAuctionFields(auction)
		return auction, nil
	}
	address, err := s.node.AuctionAddressByID(ctx, id)
	if err != nil {
		return nil, err
	}
	auction, err := s.node.AuctionDetails(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := s.importAuction(ctx, auction); err != nil {
		s.logger.Debug("AuctionByID: cannot mirror auction", zap.Error(err))
	}
	return auction, nil
}

// AuctionByAddress resolves an auction by its derived address. Storage
// first; a node hit repairs the mirrored copy.
func (s *infoServer) AuctionByAddress(ctx context.Context, address string) (*types.AuctionRecord, error) {
	if auction, err := s.dbClient.AuctionByAddress(ctx, address); err == nil {
		s.deriveAuctionFields(auction)
		return auction, nil
	}
	auction, err := s.node.AuctionDetails(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := s.importAuction(ctx, auction); err != nil {
		s.logger.Debug("AuctionByAddress: cannot mirror auction", zap.Error(err))
	}
	return auction, nil
}

func (s *infoServer) Auctions(ctx context.Context, filter *types.AuctionsFilter) ([]*types.AuctionRecord, uint64, error) {
	auctions, total, err := s.dbClient.Auctions(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for _, auction := range auctions {
		s.deriveAuctionFields(auction)
	}
	return auctions, total, nil
}

func (s *infoServer) BidsByAuction(ctx context.Context, auctionID uint64, pagination *types.Pagination) ([]*types.BidRecord, uint64, error) {
	return s.dbClient.BidsByAuction(ctx, auctionID, pagination)
}

func (s *infoServer) BidsByBidder(ctx context.Context, bidder string, pagination *types.Pagination) ([]*types.BidRecord, uint64, error) {
	return s.dbClient.BidsByBidder(ctx, bidder, pagination)
}

// importAuction writes one auction through storage and cache.
func (s *infoServer) importAuction(ctx context.Context, auction *types.AuctionRecord) error {
	auction.UpdatedAt = time.Now().Unix()
	if err := s.dbClient.UpsertAuction(ctx, auction); err != nil {
		return err
	}
	return s.cacheClient.UpdateAuction(ctx, auction)
}

// refreshAuction re-reads one auction from the node and mirrors it.
// Best effort; the watcher repairs anything missed here.
func (s *infoServer) refreshAuction(ctx context.Context, id uint64) *types.AuctionRecord {
	address, err := s.node.AuctionAddressByID(ctx, id)
	if err != nil {
		s.logger.Warn("refreshAuction: cannot resolve auction", zap.Uint64("id", id), zap.Error(err))
		return nil
	}
	auction, err := s.node.AuctionDetails(ctx, address)
	if err != nil {
		s.logger.Warn("refreshAuction: cannot fetch auction", zap.Uint64("id", id), zap.Error(err))
		return nil
	}
	if err := s.importAuction(ctx, auction); err != nil {
		s.logger.Warn("refreshAuction: cannot mirror auction", zap.Uint64("id", id), zap.Error(err))
	}
	return auction
}

func (s *infoServer) refreshToken(ctx context.Context, address string) {
	token, err := s.node.TokenDetails(ctx, address)
	if err != nil {
		s.logger.Warn("refreshToken: cannot fetch token", zap.String("address", address), zap.Error(err))
		return
	}
	if err := s.importToken(ctx, token); err != nil {
		s.logger.Warn("refreshToken: cannot mirror token", zap.String("address", address), zap.Error(err))
	}
}

func (s *infoServer) refreshBalance(ctx context.Context, holder string, auctionID uint64) {
	address, err := s.node.AuctionAddressByID(ctx, auctionID)
	if err != nil {
		return
	}
	auction, err := s.node.AuctionDetails(ctx, address)
	if err != nil {
		return
	}
	amount, err := s.node.Balance(ctx, holder, auction.TokenAddress)
	if err != nil {
		s.logger.Warn("refreshBalance: cannot fetch balance", zap.String("holder", holder), zap.Error(err))
		return
	}
	balance := &types.Balance{
		Address:      holder,
		TokenAddress: auction.TokenAddress,
		Amount:       amount,
		UpdatedAt:    time.Now().Unix(),
	}
	if err := s.dbClient.UpsertBalance(ctx, balance); err != nil {
		s.logger.Warn("refreshBalance: cannot mirror balance", zap.String("holder", holder), zap.Error(err))
	}
}

// deriveAuctionFields recomputes the time-derived fields on a stored
// copy so stale reads never show a frozen price for an open auction.
func (s *infoServer) deriveAuctionFields(auction *types.AuctionRecord) {
	now := time.Now().Unix()
	auction.CurrentPrice = auction.PriceAt(now)
	auction.TimeRemaining = auction.TimeRemainingAt(now)
}
