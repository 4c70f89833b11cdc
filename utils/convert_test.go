// Package utils
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBaseUnits(t *testing.T) {
	assert.Equal(t, "0", FromBaseUnits(0))
	assert.Equal(t, "1", FromBaseUnits(1_000_000_000))
	assert.Equal(t, "1.5", FromBaseUnits(1_500_000_000))
	assert.Equal(t, "0.000000001", FromBaseUnits(1))
	assert.Equal(t, "12.345678901", FromBaseUnits(12_345_678_901))
}

func TestToBaseUnits(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"0", 0},
		{"1", 1_000_000_000},
		{"1.5", 1_500_000_000},
		{"0.000000001", 1},
		// precision beyond Decimals truncates, never rounds
		{"0.0000000019", 1},
		{"12.345678901999", 12_345_678_901},
	}
	for _, c := range cases {
		got, err := ToBaseUnits(c.in)
		assert.Nil(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, err := ToBaseUnits("")
	assert.NotNil(t, err)
	_, err = ToBaseUnits("abc")
	assert.NotNil(t, err)
}

func TestRoundTripLossless(t *testing.T) {
	for _, v := range []uint64{0, 1, 999_999_999, 1_000_000_000, 77_000_000_123} {
		back, err := ToBaseUnits(FromBaseUnits(v))
		assert.Nil(t, err)
		assert.Equal(t, v, back)
	}
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "metacoin", NormalizeHandle(" MetaCoin "))
	assert.Equal(t, "mtc", NormalizeHandle("MTC"))
}
