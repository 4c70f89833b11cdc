// Package api
package api

import (
	"github.com/tokerhq/toker-backend/types"
	"github.com/tokerhq/toker-backend/utils"
)

// Views wrap records with display-unit renderings so every client shows
// the exact same decimals.

type tokenView struct {
	*types.TokenRecord
	DisplayCappedSupply      string `json:"displayCappedSupply"`
	DisplayCirculatingSupply string `json:"displayCirculatingSupply"`
	DisplayRemainingMintable string `json:"displayRemainingMintable"`
}

func newTokenView(token *types.TokenRecord) *tokenView {
	return &tokenView{
		TokenRecord:              token,
		DisplayCappedSupply:      utils.FromBaseUnits(token.CappedSupply),
		DisplayCirculatingSupply: utils.FromBaseUnits(token.CirculatingSupply),
		DisplayRemainingMintable: utils.FromBaseUnits(token.RemainingMintable()),
	}
}

func newTokenViews(tokens []*types.TokenRecord) []*tokenView {
	views := make([]*tokenView, 0, len(tokens))
	for _, token := range tokens {
		views = append(views, newTokenView(token))
	}
	return views
}

type auctionView struct {
	*types.AuctionRecord
	DisplayStartPrice      string `json:"displayStartPrice"`
	DisplayReservedPrice   string `json:"displayReservedPrice"`
	DisplayCurrentPrice    string `json:"displayCurrentPrice"`
	DisplayRemainingSupply string `json:"displayRemainingSupply"`
}

func newAuctionView(auction *types.AuctionRecord) *auctionView {
	return &auctionView{
		AuctionRecord:          auction,
		DisplayStartPrice:      utils.FromBaseUnits(auction.StartPrice),
		DisplayReservedPrice:   utils.FromBaseUnits(auction.ReservedPrice),
		DisplayCurrentPrice:    utils.FromBaseUnits(auction.CurrentPrice),
		DisplayRemainingSupply: utils.FromBaseUnits(auction.RemainingSupply),
	}
}

func newAuctionViews(auctions []*types.AuctionRecord) []*auctionView {
	views := make([]*auctionView, 0, len(auctions))
	for _, auction := range auctions {
		views = append(views, newAuctionView(auction))
	}
	return views
}

type bidView struct {
	*types.BidRecord
	DisplayPrice      string `json:"displayPrice"`
	DisplayQuantity   string `json:"displayQuantity"`
	DisplayAmountPaid string `json:"displayAmountPaid"`
}

func newBidView(bid *types.BidRecord) *bidView {
	return &bidView{
		BidRecord:         bid,
		DisplayPrice:      utils.FromBaseUnits(bid.PriceAtBid),
		DisplayQuantity:   utils.FromBaseUnits(bid.Quantity),
		DisplayAmountPaid: utils.FromBaseUnits(bid.AmountPaid),
	}
}

func newBidViews(bids []*types.BidRecord) []*bidView {
	views := make([]*bidView, 0, len(bids))
	for _, bid := range bids {
		views = append(views, newBidView(bid))
	}
	return views
}

type balanceView struct {
	*types.Balance
	DisplayAmount string `json:"displayAmount"`
}

func newBalanceView(balance *types.Balance) *balanceView {
	return &balanceView{
		Balance:       balance,
		DisplayAmount: utils.FromBaseUnits(balance.Amount),
	}
}
