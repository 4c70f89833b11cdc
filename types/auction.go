// Package types
package types

// AuctionState reflects the per-auction state machine. Ended is
// terminal; nothing transitions out of it.
type AuctionState string

const (
	AuctionPending AuctionState = "pending"
	AuctionOngoing AuctionState = "ongoing"
	AuctionEnded   AuctionState = "ended"
)

// AuctionRecord is the canonical state of one Dutch auction.
type AuctionRecord struct {
	ID           uint64 `json:"id" bson:"id"`
	Address      string `json:"address" bson:"address"`
	TokenAddress string `json:"tokenAddress" bson:"tokenAddress"`
	Owner        string `json:"owner" bson:"owner"`

	StartTime int64 `json:"startTime" bson:"startTime"`
	EndTime   int64 `json:"endTime" bson:"endTime"`

	StartPrice    uint64 `json:"startPrice" bson:"startPrice"`
	ReservedPrice uint64 `json:"reservedPrice" bson:"reservedPrice"`

	TotalSupply     uint64 `json:"totalSupply" bson:"totalSupply"`
	RemainingSupply uint64 `json:"remainingSupply" bson:"remainingSupply"`

	HasEnded bool `json:"hasEnded" bson:"hasEnded"`
	// FinalPrice is the clearing price frozen at the moment the auction
	// ended. Meaningless while the auction is open.
	FinalPrice uint64 `json:"finalPrice,omitempty" bson:"finalPrice,omitempty"`

	// CurrentPrice and TimeRemaining are derived fields the sync layer
	// refreshes on every block tick. Never authoritative.
	CurrentPrice  uint64 `json:"currentPrice" bson:"currentPrice"`
	TimeRemaining int64  `json:"timeRemaining" bson:"-"`

	StartedAtBlock uint64 `json:"startedAtBlock" bson:"startedAtBlock"`
	UpdatedAt      int64  `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// PriceAt computes the clearing price at unix time now. Linear decay
// from StartPrice at StartTime to ReservedPrice at EndTime, clamped on
// both sides, frozen once the auction has ended. Pure integer math so
// every component reproduces the exact same value.
func (a *AuctionRecord) PriceAt(now int64) uint64 {
	if a.HasEnded {
		return a.FinalPrice
	}
	if now <= a.StartTime {
		return a.StartPrice
	}
	if now >= a.EndTime {
		return a.ReservedPrice
	}
	diff := a.StartPrice - a.ReservedPrice
	elapsed := uint64(now - a.StartTime)
	duration := uint64(a.EndTime - a.StartTime)
	// Split the multiplication to keep (diff * elapsed) from overflowing.
	drop := (diff/duration)*elapsed + (diff%duration)*elapsed/duration
	return a.StartPrice - drop
}

// StateAt reports the state machine position at unix time now.
func (a *AuctionRecord) StateAt(now int64) AuctionState {
	if a.HasEnded || a.RemainingSupply == 0 {
		return AuctionEnded
	}
	if now < a.StartTime {
		return AuctionPending
	}
	return AuctionOngoing
}

// TimeRemainingAt reports seconds until EndTime, zero once passed.
func (a *AuctionRecord) TimeRemainingAt(now int64) int64 {
	if a.HasEnded || now >= a.EndTime {
		return 0
	}
	return a.EndTime - now
}
