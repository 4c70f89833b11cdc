// Package api
package api

import (
	"github.com/labstack/echo"

	"github.com/tokerhq/toker-backend/types"
	"github.com/tokerhq/toker-backend/utils"
)

type createTokenRequest struct {
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	CappedSupply string `json:"cappedSupply"`
	URL          string `json:"url"`
	Requester    string `json:"requester"`
}

func (s *restServer) CreateToken(c echo.Context) error {
	var req createTokenRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	if req.Name == "" || req.Symbol == "" || req.Requester == "" {
		return Invalid.SetMsg("name, symbol and requester are required").Build(c)
	}
	supply, err := utils.ToBaseUnits(req.CappedSupply)
	if err != nil {
		return Invalid.SetMsg(err.Error()).Build(c)
	}

	ctx, cancel := s.newContext()
	defer cancel()
	token, err := s.svc.CreateToken(ctx, req.Name, req.Symbol, supply, req.URL, req.Requester)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(newTokenView(token)).Build(c)
}

func (s *restServer) Tokens(c echo.Context) error {
	ctx, cancel := s.newContext()
	defer cancel()
	filter := &types.TokensFilter{
		Pagination: getPagination(c),
		Owner:      c.QueryParam("owner"),
		Symbol:     c.QueryParam("symbol"),
	}
	tokens, total, err := s.svc.Tokens(ctx, filter)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(struct {
		Tokens []*tokenView `json:"tokens"`
		Total  uint64       `json:"total"`
	}{
		Tokens: newTokenViews(tokens),
		Total:  total,
	}).Build(c)
}

func (s *restServer) TokenBySymbol(c echo.Context) error {
	ctx, cancel := s.newContext()
	defer cancel()
	token, err := s.svc.TokenBySymbol(ctx, c.Param("symbol"))
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(newTokenView(token)).Build(c)
}

func (s *restServer) TokenByAddress(c echo.Context) error {
	ctx, cancel := s.newContext()
	defer cancel()
	token, err := s.svc.TokenByAddress(ctx, c.Param("address"))
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(newTokenView(token)).Build(c)
}

func (s *restServer) Balance(c echo.Context) error {
	ctx, cancel := s.newContext()
	defer cancel()
	balance, err := s.svc.Balance(ctx, c.Param("holder"), c.Param("address"))
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(newBalanceView(balance)).Build(c)
}

func (s *restServer) BalancesByAddress(c echo.Context) error {
	ctx, cancel := s.newContext()
	defer cancel()
	balances, err := s.svc.BalancesByAddress(ctx, c.Param("address"))
	if err != nil {
		return Err(err, c)
	}
	views := make([]*balanceView, 0, len(balances))
	for _, balance := range balances {
		views = append(views, newBalanceView(balance))
	}
	return OK.SetData(views).Build(c)
}
