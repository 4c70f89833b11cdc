// Package api
package api

import (
	"github.com/labstack/echo"

	"github.com/tokerhq/toker-backend/types"
	"github.com/tokerhq/toker-backend/utils"
)

// Events replays a window of the ledger log. The type query param is
// required; filter params match the ledger's indexed fields.
func (s *restServer) Events(c echo.Context) error {
	eventType := types.EventType(c.QueryParam("type"))
	switch eventType {
	case types.EventTokenCreated, types.EventAuctionStarted, types.EventBidSubmitted:
	default:
		return Invalid.SetMsg("unknown event type").Build(c)
	}

	filter := &types.EventFilter{
		Owner:        c.QueryParam("owner"),
		TokenAddress: c.QueryParam("token"),
		Bidder:       c.QueryParam("bidder"),
	}
	from := utils.StrToUint64(c.QueryParam("from"))
	to := utils.StrToUint64(c.QueryParam("to"))

	ctx, cancel := s.newContext()
	defer cancel()
	events, err := s.svc.Events(ctx, eventType, filter, from, to)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(struct {
		Events []*types.Event `json:"events"`
		Total  int            `json:"total"`
	}{
		Events: events,
		Total:  len(events),
	}).Build(c)
}
