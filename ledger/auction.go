// Package ledger
package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/tokerhq/toker-backend/types"
)

func (n *node) NewAuction(ctx context.Context, tokenAddr string, supply, startPrice, reservedPrice uint64, requester string) (*types.AuctionRecord, error) {
	if err := callErr(ctx); err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	ts, ok := n.tokens[tokenAddr]
	if !ok {
		return nil, types.ErrTokenNotFound
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.rec.Owner != requester {
		return nil, types.ErrUnauthorized
	}
	if reservedPrice > startPrice {
		return nil, types.ErrInvalidPriceRange
	}
	if supply == 0 {
		return nil, types.ErrInvalidSupply
	}
	if supply > ts.rec.RemainingMintable() {
		return nil, types.ErrSupplyExceeded
	}

	// Reserve the supply inside the registry lock so a concurrent
	// auction on the same token already sees a reduced mintable balance.
	ts.rec.ReservedSupply += supply

	n.nextAuctionID++
	n.nonce++
	id := n.nextAuctionID
	addr := deriveAddress("auction", n.nonce, tokenAddr)
	now := n.now()
	as := &auctionState{
		rec: types.AuctionRecord{
			ID:              id,
			Address:         addr,
			TokenAddress:    tokenAddr,
			Owner:           requester,
			StartTime:       now.Unix(),
			EndTime:         now.Add(n.auctionDuration).Unix(),
			StartPrice:      startPrice,
			ReservedPrice:   reservedPrice,
			TotalSupply:     supply,
			RemainingSupply: supply,
		},
		token: ts,
	}
	n.auctions[id] = as
	n.auctionsByAddr[addr] = as

	ev := n.log.append(now.Unix(), types.EventAuctionStarted, &types.Event{
		AuctionStarted: &types.AuctionStartedEvent{
			AuctionID:      id,
			AuctionAddress: addr,
			TokenAddress:   tokenAddr,
			Owner:          requester,
			StartTime:      as.rec.StartTime,
		},
	})
	as.rec.StartedAtBlock = ev.Height

	n.lgr.Info("Auction started",
		zap.Uint64("id", id), zap.String("token", tokenAddr), zap.Uint64("supply", supply))
	rec := as.rec
	return &rec, nil
}

func (n *node) AuctionAddressByID(ctx context.Context, id uint64) (string, error) {
	if err := callErr(ctx); err != nil {
		return "", err
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	as, ok := n.auctions[id]
	if !ok {
		return "", types.ErrAuctionNotFound
	}
	return as.rec.Address, nil
}

func (n *node) AuctionDetails(ctx context.Context, address string) (*types.AuctionRecord, error) {
	if err := callErr(ctx); err != nil {
		return nil, err
	}
	n.mu.RLock()
	as, ok := n.auctionsByAddr[address]
	n.mu.RUnlock()
	if !ok {
		return nil, types.ErrAuctionNotFound
	}
	now := n.now().Unix()
	as.mu.Lock()
	rec := as.rec
	as.mu.Unlock()
	rec.CurrentPrice = rec.PriceAt(now)
	rec.TimeRemaining = rec.TimeRemainingAt(now)
	return &rec, nil
}

func (n *node) auctionByID(id uint64) (*auctionState, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	as, ok := n.auctions[id]
	if !ok {
		return nil, types.ErrAuctionNotFound
	}
	return as, nil
}

func (n *node) PlaceBid(ctx context.Context, auctionID uint64, bidder string, amountPaid uint64) (*types.BidRecord, error) {
	if err := callErr(ctx); err != nil {
		return nil, err
	}
	as, err := n.auctionByID(auctionID)
	if err != nil {
		return nil, err
	}

	// The auction lock is the read-modify-write boundary: no two bids
	// may decrement from the same pre-bid remainingSupply.
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.rec.HasEnded {
		return nil, types.ErrAuctionEnded
	}
	if as.rec.RemainingSupply == 0 {
		return nil, types.ErrSupplyExhausted
	}

	now := n.now().Unix()
	price := as.rec.PriceAt(now)
	if amountPaid < price {
		return nil, types.ErrInsufficientFunds
	}

	var quantity uint64
	if price == 0 {
		// Reserved price of zero after full decay: the bid clears the
		// rest of the supply.
		quantity = as.rec.RemainingSupply
	} else {
		quantity = amountPaid / price
		if quantity > as.rec.RemainingSupply {
			quantity = as.rec.RemainingSupply
		}
	}

	as.rec.RemainingSupply -= quantity

	ts := as.token
	ts.mu.Lock()
	ts.rec.CirculatingSupply += quantity
	ts.rec.ReservedSupply -= quantity
	ts.balances[bidder] += quantity
	ts.mu.Unlock()

	if as.rec.RemainingSupply == 0 {
		as.rec.HasEnded = true
		as.rec.FinalPrice = price
	}

	ev := n.log.append(now, types.EventBidSubmitted, &types.Event{
		BidSubmitted: &types.BidSubmittedEvent{
			AuctionID:  auctionID,
			Bidder:     bidder,
			Price:      price,
			Quantity:   quantity,
			AmountPaid: amountPaid,
		},
	})

	n.lgr.Info("Bid accepted",
		zap.Uint64("auction", auctionID), zap.String("bidder", bidder),
		zap.Uint64("price", price), zap.Uint64("quantity", quantity))

	return &types.BidRecord{
		AuctionID:  auctionID,
		Bidder:     bidder,
		PriceAtBid: price,
		Quantity:   quantity,
		AmountPaid: amountPaid,
		Timestamp:  now,
		Position:   ev.Position,
	}, nil
}

func (n *node) EndAuction(ctx context.Context, auctionID uint64, requester string) error {
	if err := callErr(ctx); err != nil {
		return err
	}
	as, err := n.auctionByID(auctionID)
	if err != nil {
		return err
	}

	as.mu.Lock()
	defer as.mu.Unlock()

	if as.rec.HasEnded {
		return types.ErrAlreadyEnded
	}
	now := n.now().Unix()
	if requester != as.rec.Owner && now < as.rec.EndTime {
		return types.ErrUnauthorized
	}

	as.rec.HasEnded = true
	as.rec.FinalPrice = as.rec.PriceAt(now)

	// Unsold units go back to the token's mintable balance; nothing is
	// burned or moved into circulation.
	if as.rec.RemainingSupply > 0 {
		ts := as.token
		ts.mu.Lock()
		ts.rec.ReservedSupply -= as.rec.RemainingSupply
		ts.mu.Unlock()
	}

	n.lgr.Info("Auction ended",
		zap.Uint64("id", auctionID), zap.Uint64("unsold", as.rec.RemainingSupply))
	return nil
}
