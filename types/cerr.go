// Package types
package types

import (
	"errors"
)

// Ledger call errors. Messages follow the ledger's own revert reasons so
// callers see the structured cause, not a generic failure.
var (
	ErrDuplicateName     = errors.New("token name is already in use")
	ErrDuplicateSymbol   = errors.New("token symbol is already in use")
	ErrTokenNotFound     = errors.New("token not found")
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrUnauthorized      = errors.New("you do not have authority to hold an auction for this token")
	ErrInvalidPriceRange = errors.New("reserved price must be smaller or equals to the starting price")
	ErrInvalidSupply     = errors.New("supply must be more than 0")
	ErrSupplyExceeded    = errors.New("mint amount exceed remaining supply")
	ErrAuctionEnded      = errors.New("auction has ended")
	ErrAlreadyEnded      = errors.New("auction already ended")
	ErrInsufficientFunds = errors.New("amount paid is below the current price")
	ErrSupplyExhausted   = errors.New("auction supply exhausted")

	// ErrLedgerUnavailable wraps transport/connectivity failures. It is
	// the only class eligible for caller-configured retry.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
)
