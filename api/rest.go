// Package api exposes the read-model and ledger write path over REST.
package api

import (
	"context"
	"time"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/tokerhq/toker-backend/types"
)

// Service is what the handlers need from the sync layer.
type Service interface {
	Status(ctx context.Context) (*types.ServerStatus, error)
	Events(ctx context.Context, eventType types.EventType, filter *types.EventFilter, from, to uint64) ([]*types.Event, error)

	CreateToken(ctx context.Context, name, symbol string, supply uint64, url, requester string) (*types.TokenRecord, error)
	TokenBySymbol(ctx context.Context, symbol string) (*types.TokenRecord, error)
	TokenByAddress(ctx context.Context, address string) (*types.TokenRecord, error)
	Tokens(ctx context.Context, filter *types.TokensFilter) ([]*types.TokenRecord, uint64, error)
	Balance(ctx context.Context, address, tokenAddress string) (*types.Balance, error)
	BalancesByAddress(ctx context.Context, address string) ([]*types.Balance, error)

	NewAuction(ctx context.Context, tokenAddr string, supply, startPrice, reservedPrice uint64, requester string) (*types.AuctionRecord, error)
	PlaceBid(ctx context.Context, auctionID uint64, bidder string, amountPaid uint64) (*types.BidRecord, error)
	EndAuction(ctx context.Context, auctionID uint64, requester string) (*types.AuctionRecord, error)
	AuctionByID(ctx context.Context, id uint64) (*types.AuctionRecord, error)
	AuctionByAddress(ctx context.Context, address string) (*types.AuctionRecord, error)
	Auctions(ctx context.Context, filter *types.AuctionsFilter) ([]*types.AuctionRecord, uint64, error)
	BidsByAuction(ctx context.Context, auctionID uint64, pagination *types.Pagination) ([]*types.BidRecord, uint64, error)
	BidsByBidder(ctx context.Context, bidder string, pagination *types.Pagination) ([]*types.BidRecord, uint64, error)
}

// RestServer define all API expose
type RestServer interface {
	Ping(c echo.Context) error
	ServerStatus(c echo.Context) error
	Events(c echo.Context) error

	// Tokens
	CreateToken(c echo.Context) error
	Tokens(c echo.Context) error
	TokenBySymbol(c echo.Context) error
	TokenByAddress(c echo.Context) error
	Balance(c echo.Context) error
	BalancesByAddress(c echo.Context) error

	// Auctions
	NewAuction(c echo.Context) error
	Auctions(c echo.Context) error
	AuctionsByToken(c echo.Context) error
	AuctionByID(c echo.Context) error
	AuctionByAddress(c echo.Context) error
	EndAuction(c echo.Context) error
	PlaceBid(c echo.Context) error
	BidsByAuction(c echo.Context) error
	BidsByBidder(c echo.Context) error
}

type restServer struct {
	svc     Service
	timeout time.Duration

	lgr *zap.Logger
}

func NewRestServer(svc Service, timeout time.Duration, lgr *zap.Logger) RestServer {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &restServer{
		svc:     svc,
		timeout: timeout,
		lgr:     lgr.With(zap.String("service", "api")),
	}
}

func (s *restServer) newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *restServer) Ping(c echo.Context) error {
	return OK.Build(c)
}

func (s *restServer) ServerStatus(c echo.Context) error {
	ctx, cancel := s.newContext()
	defer cancel()
	status, err := s.svc.Status(ctx)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(status).Build(c)
}
