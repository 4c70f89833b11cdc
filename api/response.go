// Package api
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo"

	"github.com/tokerhq/toker-backend/types"
)

var (
	OK             = EchoResponse{StatusCode: http.StatusOK, Code: 1000, Msg: "Success"}
	InternalServer = EchoResponse{StatusCode: http.StatusInternalServerError, Code: 1100, Msg: "Server busy..."}
	Invalid        = EchoResponse{StatusCode: http.StatusBadRequest, Code: 1101, Msg: "Bad request"}
	NotFound       = EchoResponse{StatusCode: http.StatusNotFound, Code: 1102, Msg: "Not found"}
	Unauthorized   = EchoResponse{StatusCode: http.StatusUnauthorized, Code: 401, Msg: "Unauthorized"}
	Unavailable    = EchoResponse{StatusCode: http.StatusServiceUnavailable, Code: 1103, Msg: "Ledger unavailable"}
)

type Pagination struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Total uint64 `json:"total"`
}

type EchoResponse struct {
	StatusCode int         `json:"-"`
	Code       int         `json:"code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data,omitempty"`
}

func (r EchoResponse) SetData(data interface{}) *EchoResponse {
	r.Data = data
	return &r
}

func (r EchoResponse) SetMsg(msg string) *EchoResponse {
	r.Msg = msg
	return &r
}

func (r *EchoResponse) Build(c echo.Context) error {
	return c.JSON(r.StatusCode, r)
}

// Err maps ledger call errors onto the response classes the clients
// key on. The ledger's revert reason travels in msg.
func Err(err error, c echo.Context) error {
	switch {
	case errors.Is(err, types.ErrTokenNotFound), errors.Is(err, types.ErrAuctionNotFound):
		return NotFound.SetMsg(err.Error()).Build(c)
	case errors.Is(err, types.ErrUnauthorized):
		return Unauthorized.SetMsg(err.Error()).Build(c)
	case errors.Is(err, types.ErrLedgerUnavailable):
		return Unavailable.Build(c)
	case errors.Is(err, types.ErrDuplicateName),
		errors.Is(err, types.ErrDuplicateSymbol),
		errors.Is(err, types.ErrInvalidPriceRange),
		errors.Is(err, types.ErrInvalidSupply),
		errors.Is(err, types.ErrSupplyExceeded),
		errors.Is(err, types.ErrAuctionEnded),
		errors.Is(err, types.ErrAlreadyEnded),
		errors.Is(err, types.ErrInsufficientFunds),
		errors.Is(err, types.ErrSupplyExhausted):
		return Invalid.SetMsg(err.Error()).Build(c)
	}
	return InternalServer.Build(c)
}
