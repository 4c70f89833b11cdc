// Package utils
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Decimals is the scale between the ledger's smallest unit and the
// display unit. All ledger math happens in base units; conversion to
// display form is lossless on read and truncating on write, and must be
// identical everywhere an amount is shown.
const Decimals = 9

const unitsPerToken = uint64(1_000_000_000)

func StrToUint64(data string) uint64 {
	i, _ := strconv.ParseUint(data, 10, 64)
	return i
}

// FromBaseUnits renders a base-unit amount as an exact display decimal.
func FromBaseUnits(v uint64) string {
	whole := v / unitsPerToken
	frac := v % unitsPerToken
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	s := fmt.Sprintf("%d.%09d", whole, frac)
	return strings.TrimRight(s, "0")
}

// ToBaseUnits parses a display decimal into base units, truncating any
// precision beyond Decimals.
func ToBaseUnits(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	parts := strings.SplitN(s, ".", 2)
	whole, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %v", s, err)
	}
	var frac uint64
	if len(parts) == 2 && parts[1] != "" {
		fracStr := parts[1]
		if len(fracStr) > Decimals {
			fracStr = fracStr[:Decimals]
		}
		frac, err = strconv.ParseUint(fracStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %v", s, err)
		}
		for i := len(fracStr); i < Decimals; i++ {
			frac *= 10
		}
	}
	return whole*unitsPerToken + frac, nil
}
