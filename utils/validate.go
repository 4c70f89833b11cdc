// Package utils
package utils

import (
	"strings"
)

// NormalizeHandle lower-cases and trims a token name or symbol before
// any uniqueness check, so "MetaCoin" and " metacoin " collide.
func NormalizeHandle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
