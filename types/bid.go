// Package types
package types

// BidRecord is append-only; once accepted it never changes.
type BidRecord struct {
	AuctionID  uint64 `json:"auctionId" bson:"auctionId"`
	Bidder     string `json:"bidder" bson:"bidder"`
	PriceAtBid uint64 `json:"priceAtBid" bson:"priceAtBid"`
	Quantity   uint64 `json:"quantity" bson:"quantity"`
	AmountPaid uint64 `json:"amountPaid" bson:"amountPaid"`
	Timestamp  int64  `json:"timestamp" bson:"timestamp"`
	// Position of the BidSubmitted entry in the event log; unique per
	// bid, used to de-duplicate on replay.
	Position uint64 `json:"position" bson:"position"`
}
