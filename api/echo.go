// Package api
package api

import (
	"strconv"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	"github.com/tokerhq/toker-backend/cfg"
	"github.com/tokerhq/toker-backend/types"
)

type restDefinition struct {
	method      string
	path        string
	fn          func(c echo.Context) error
	middlewares []echo.MiddlewareFunc
}

func bind(gr *echo.Group, srv RestServer) {
	apis := []restDefinition{
		{
			method: echo.GET,
			path:   "/ping",
			fn:     srv.Ping,
		},
		{
			method: echo.GET,
			path:   "/status",
			fn:     srv.ServerStatus,
		},
		{
			method: echo.GET,
			// Query params: ?type=TokenCreated&owner=0x...&from=1&to=0
			path: "/events",
			fn:   srv.Events,
		},
		// Tokens
		{
			method: echo.POST,
			path:   "/tokens",
			fn:     srv.CreateToken,
		},
		{
			method: echo.GET,
			// Query params: ?page=0&limit=10&owner=0x...
			path: "/tokens",
			fn:   srv.Tokens,
		},
		{
			method: echo.GET,
			path:   "/tokens/symbol/:symbol",
			fn:     srv.TokenBySymbol,
		},
		{
			method: echo.GET,
			path:   "/tokens/:address",
			fn:     srv.TokenByAddress,
		},
		{
			method: echo.GET,
			path:   "/tokens/:address/holders/:holder",
			fn:     srv.Balance,
		},
		{
			method: echo.GET,
			path:   "/addresses/:address/balances",
			fn:     srv.BalancesByAddress,
		},
		{
			method: echo.GET,
			// Query params: ?page=0&limit=10
			path: "/tokens/symbol/:symbol/auctions",
			fn:   srv.AuctionsByToken,
		},
		// Auctions
		{
			method: echo.POST,
			path:   "/auctions",
			fn:     srv.NewAuction,
		},
		{
			method: echo.GET,
			// Query params: ?page=0&limit=10&token=0x...&ongoing=true
			path: "/auctions",
			fn:   srv.Auctions,
		},
		{
			method: echo.GET,
			path:   "/auctions/address/:address",
			fn:     srv.AuctionByAddress,
		},
		{
			method: echo.GET,
			path:   "/auctions/:id",
			fn:     srv.AuctionByID,
		},
		{
			method: echo.PUT,
			path:   "/auctions/:id/end",
			fn:     srv.EndAuction,
		},
		{
			method: echo.POST,
			path:   "/auctions/:id/bids",
			fn:     srv.PlaceBid,
		},
		{
			method: echo.GET,
			path:   "/auctions/:id/bids",
			fn:     srv.BidsByAuction,
		},
		{
			method: echo.GET,
			path:   "/bidders/:address/bids",
			fn:     srv.BidsByBidder,
		},
	}

	for _, api := range apis {
		gr.Add(api.method, api.path, api.fn, api.middlewares...)
	}
}

func Start(srv RestServer, cfg cfg.ServiceConfig) {
	e := echo.New()

	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Gzip())

	v1Gr := e.Group("/api/v1")
	bind(v1Gr, srv)

	if err := e.Start(cfg.Port); err != nil {
		panic("cannot start echo server")
	}
}

// getPagination reads ?page=&limit= the way every listing endpoint
// does. Bounds are enforced by Sanitize.
func getPagination(c echo.Context) *types.Pagination {
	var (
		page, _  = strconv.Atoi(c.QueryParam("page"))
		limit, _ = strconv.Atoi(c.QueryParam("limit"))
	)
	if page < 0 {
		page = 0
	}
	pagination := &types.Pagination{
		Skip:  page * limit,
		Limit: limit,
	}
	pagination.Sanitize()
	return pagination
}
