// Package types
package types

const (
	defaultLimit = 50
	MaximumLimit = 100
)

type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

func (f *Pagination) Sanitize() {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	} else if f.Limit > MaximumLimit {
		f.Limit = MaximumLimit
	}
}

// AuctionsFilter narrows auction listings.
type AuctionsFilter struct {
	Pagination *Pagination `bson:"-"`

	TokenAddress string `bson:"tokenAddress,omitempty"`
	Owner        string `bson:"owner,omitempty"`
	OngoingOnly  bool   `bson:"-"`
}

// TokensFilter narrows token listings.
type TokensFilter struct {
	Pagination *Pagination `bson:"-"`

	Owner  string `bson:"owner,omitempty"`
	Symbol string `bson:"symbol,omitempty"`
}
