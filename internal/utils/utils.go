// Package utils provides general-purpose helpers for the tracker,
// currently compact number formatting for the card text.
package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCount converts a player count to a compact human string.
// For example: 999 -> "999", 1000 -> "1K", 1500 -> "1.5K", 1000000 -> "1M".
// Values are rounded to one decimal place and a trailing ".0" is stripped.
func FormatCount(n int64) string {
	abs := math.Abs(float64(n))
	switch {
	case abs >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1e6)) + "M"
	case abs >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1e3)) + "K"
	}
	return strconv.FormatInt(n, 10)
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
