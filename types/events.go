// Package types
package types

// EventType tags ledger log entries.
type EventType string

const (
	EventTokenCreated   EventType = "TokenCreated"
	EventAuctionStarted EventType = "AuctionStarted"
	EventBidSubmitted   EventType = "BidSubmitted"
)

// Event is one entry of the append-only ledger log. Exactly one payload
// pointer is set, matching Type; payloads are decoded once at the log
// boundary instead of carrying loose key/value bags around.
type Event struct {
	// Position is the entry's unique, monotonically increasing sequence
	// number; ordering within one event type follows Position.
	Position uint64 `json:"position" bson:"position"`
	// Height is the block the entry was appended at; range replay
	// filters on it.
	Height uint64    `json:"height" bson:"height"`
	Type   EventType `json:"type" bson:"type"`
	Time   int64     `json:"time" bson:"time"`

	TokenCreated   *TokenCreatedEvent   `json:"tokenCreated,omitempty" bson:"tokenCreated,omitempty"`
	AuctionStarted *AuctionStartedEvent `json:"auctionStarted,omitempty" bson:"auctionStarted,omitempty"`
	BidSubmitted   *BidSubmittedEvent   `json:"bidSubmitted,omitempty" bson:"bidSubmitted,omitempty"`
}

type TokenCreatedEvent struct {
	TokenAddress string `json:"tokenAddress" bson:"tokenAddress"`
	Name         string `json:"name" bson:"name"`
	Symbol       string `json:"symbol" bson:"symbol"`
	Owner        string `json:"owner" bson:"owner"`
}

type AuctionStartedEvent struct {
	AuctionID      uint64 `json:"auctionId" bson:"auctionId"`
	AuctionAddress string `json:"auctionAddress" bson:"auctionAddress"`
	TokenAddress   string `json:"tokenAddress" bson:"tokenAddress"`
	Owner          string `json:"owner" bson:"owner"`
	StartTime      int64  `json:"startTime" bson:"startTime"`
}

type BidSubmittedEvent struct {
	AuctionID uint64 `json:"auctionId" bson:"auctionId"`
	Bidder    string `json:"bidder" bson:"bidder"`
	Price     uint64 `json:"price" bson:"price"`
	Quantity  uint64 `json:"quantity" bson:"quantity"`
	// AmountPaid is what the bidder actually sent; on a clamped bid it
	// exceeds Price * Quantity, so it travels in the event rather than
	// being recomputed downstream.
	AmountPaid uint64 `json:"amountPaid" bson:"amountPaid"`
}

// EventFilter narrows replay and subscriptions by the ledger's indexed
// fields. Zero values match everything.
type EventFilter struct {
	Owner        string `json:"owner,omitempty"`
	TokenAddress string `json:"tokenAddress,omitempty"`
	Bidder       string `json:"bidder,omitempty"`
}

// Matches reports whether e passes the filter. A nil filter matches.
func (f *EventFilter) Matches(e *Event) bool {
	if f == nil {
		return true
	}
	switch e.Type {
	case EventTokenCreated:
		if e.TokenCreated == nil {
			return false
		}
		return f.Owner == "" || f.Owner == e.TokenCreated.Owner
	case EventAuctionStarted:
		if e.AuctionStarted == nil {
			return false
		}
		if f.Owner != "" && f.Owner != e.AuctionStarted.Owner {
			return false
		}
		return f.TokenAddress == "" || f.TokenAddress == e.AuctionStarted.TokenAddress
	case EventBidSubmitted:
		if e.BidSubmitted == nil {
			return false
		}
		return f.Bidder == "" || f.Bidder == e.BidSubmitted.Bidder
	}
	return false
}
