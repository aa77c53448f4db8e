package domain

import (
	"fmt"
	"math"
)

// CentsFromDecimal converts a decimal price to integer cents, rounding half
// away from zero.
func CentsFromDecimal(v float64) int64 {
	return int64(math.Round(v * 100))
}

// DecimalFromCents converts integer cents back to a decimal price.
func DecimalFromCents(c int64) float64 {
	return float64(c) / 100
}

// FormatCents renders cents as a two-decimal amount, e.g. 2500 -> "25.00".
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
