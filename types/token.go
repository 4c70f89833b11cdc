// Package types
package types

// TokenRecord is the canonical state of a capped-supply token. The
// registry ledger owns it; everything the sync layer holds is a derived
// copy rebuilt from the event log.
type TokenRecord struct {
	Address           string `json:"address" bson:"address"`
	Name              string `json:"name" bson:"name"`
	Symbol            string `json:"symbol" bson:"symbol"`
	URL               string `json:"url" bson:"url"`
	Owner             string `json:"owner" bson:"owner"`
	CappedSupply      uint64 `json:"cappedSupply" bson:"cappedSupply"`
	CirculatingSupply uint64 `json:"circulatingSupply" bson:"circulatingSupply"`
	TokenBurnt        uint64 `json:"tokenBurnt" bson:"tokenBurnt"`
	// ReservedSupply is held back for auctions that are still open, so a
	// concurrent auction cannot over-subscribe the cap.
	ReservedSupply uint64 `json:"reservedSupply" bson:"reservedSupply"`

	CreatedAtBlock uint64 `json:"createdAtBlock" bson:"createdAtBlock"`
	UpdatedAt      int64  `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// RemainingMintable = cappedSupply - circulatingSupply - tokenBurnt -
// reservedSupply. Invariant: never negative.
func (t *TokenRecord) RemainingMintable() uint64 {
	used := t.CirculatingSupply + t.TokenBurnt + t.ReservedSupply
	if used >= t.CappedSupply {
		return 0
	}
	return t.CappedSupply - used
}

// Balance is a holder position on one token.
type Balance struct {
	Address      string `json:"address" bson:"address"`
	TokenAddress string `json:"tokenAddress" bson:"tokenAddress"`
	TokenSymbol  string `json:"tokenSymbol,omitempty" bson:"tokenSymbol,omitempty"`
	Amount       uint64 `json:"amount" bson:"amount"`
	UpdatedAt    int64  `json:"updatedAt" bson:"updatedAt,omitempty"`
}
