// Package api
package api

import (
	"strconv"

	"github.com/labstack/echo"

	"github.com/tokerhq/toker-backend/types"
	"github.com/tokerhq/toker-backend/utils"
)

type newAuctionRequest struct {
	TokenAddress  string `json:"tokenAddress"`
	Supply        string `json:"supply"`
	StartPrice    string `json:"startPrice"`
	ReservedPrice string `json:"reservedPrice"`
	Requester     string `json:"requester"`
}

func (s *restServer) NewAuction(c echo.Context) error {
	var req newAuctionRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	if req.TokenAddress == "" || req.Requester == "" {
		return Invalid.SetMsg("tokenAddress and requester are required").Build(c)
	}
	supply, err := utils.ToBaseUnits(req.Supply)
	if err != nil {
		return Invalid.SetMsg(err.Error()).Build(c)
	}
	startPrice, err := utils.ToBaseUnits(req.StartPrice)
	if err != nil {
		return Invalid.SetMsg(err.Error()).Build(c)
	}
	reservedPrice, err := utils.ToBaseUnits(req.ReservedPrice)
	if err != nil {
		return Invalid.SetMsg(err.Error()).Build(c)
	}

	ctx, cancel := s.newContext()
	defer cancel()
	auction, err := s.svc.NewAuction(ctx, req.TokenAddress, supply, startPrice, reservedPrice, req.Requester)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(newAuctionView(auction)).Build(c)
}

func (s *restServer) Auctions(c echo.Context) error {
	ctx, cancel := s.newContext()
	defer cancel()
	ongoing, _ := strconv.ParseBool(c.QueryParam("ongoing"))
	filter := &types.AuctionsFilter{
		Pagination:   getPagination(c),
		TokenAddress: c.QueryParam("token"),
		Owner:        c.QueryParam("owner"),
		OngoingOnly:  ongoing,
	}
	auctions, total, err := s.svc.Auctions(ctx, filter)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(struct {
		Auctions []*auctionView `json:"auctions"`
		Total    uint64         `json:"total"`
	}{
		Auctions: newAuctionViews(auctions),
		Total:    total,
	}).Build(c)
}

// AuctionsByToken lists a token's auctions by its symbol; the symbol is
// resolved through the registry's round-trip mapping first.
func (s *restServer) AuctionsByToken(c echo.Context) error {
	ctx, cancel := s.newContext()
	defer cancel()
	token, err := s.svc.TokenBySymbol(ctx, c.Param("symbol"))
	if err != nil {
		return Err(err, c)
	}
	filter := &types.AuctionsFilter{
		Pagination:   getPagination(c),
		TokenAddress: token.Address,
	}
	auctions, total, err := s.svc.Auctions(ctx, filter)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(struct {
		Token    *tokenView     `json:"token"`
		Auctions []*auctionView `json:"auctions"`
		Total    uint64         `json:"total"`
	}{
		Token:    newTokenView(token),
		Auctions: newAuctionViews(auctions),
		Total:    total,
	}).Build(c)
}

func (s *restServer) AuctionByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.SetMsg("invalid auction id").Build(c)
	}
	ctx, cancel := s.newContext()
	defer cancel()
	auction, err := s.svc.AuctionByID(ctx, id)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(newAuctionView(auction)).Build(c)
}

func (s *restServer) AuctionByAddress(c echo.Context) error {
	ctx, cancel := s.newContext()
	defer cancel()
	auction, err := s.svc.AuctionByAddress(ctx, c.Param("address"))
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(newAuctionView(auction)).Build(c)
}

type endAuctionRequest struct {
	Requester string `json:"requester"`
}

func (s *restServer) EndAuction(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.SetMsg("invalid auction id").Build(c)
	}
	var req endAuctionRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	if req.Requester == "" {
		return Invalid.SetMsg("requester is required").Build(c)
	}

	ctx, cancel := s.newContext()
	defer cancel()
	auction, err := s.svc.EndAuction(ctx, id, req.Requester)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(newAuctionView(auction)).Build(c)
}

type placeBidRequest struct {
	Bidder     string `json:"bidder"`
	AmountPaid string `json:"amountPaid"`
}

func (s *restServer) PlaceBid(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.SetMsg("invalid auction id").Build(c)
	}
	var req placeBidRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	if req.Bidder == "" {
		return Invalid.SetMsg("bidder is required").Build(c)
	}
	amount, err := utils.ToBaseUnits(req.AmountPaid)
	if err != nil {
		return Invalid.SetMsg(err.Error()).Build(c)
	}

	ctx, cancel := s.newContext()
	defer cancel()
	bid, err := s.svc.PlaceBid(ctx, id, req.Bidder, amount)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(newBidView(bid)).Build(c)
}

func (s *restServer) BidsByAuction(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.SetMsg("invalid auction id").Build(c)
	}
	ctx, cancel := s.newContext()
	defer cancel()
	bids, total, err := s.svc.BidsByAuction(ctx, id, getPagination(c))
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(struct {
		Bids  []*bidView `json:"bids"`
		Total uint64     `json:"total"`
	}{
		Bids:  newBidViews(bids),
		Total: total,
	}).Build(c)
}

func (s *restServer) BidsByBidder(c echo.Context) error {
	ctx, cancel := s.newContext()
	defer cancel()
	bids, total, err := s.svc.BidsByBidder(ctx, c.Param("address"), getPagination(c))
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(struct {
		Bids  []*bidView `json:"bids"`
		Total uint64     `json:"total"`
	}{
		Bids:  newBidViews(bids),
		Total: total,
	}).Build(c)
}
