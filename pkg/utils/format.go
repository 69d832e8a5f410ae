// Package utils provides shared formatting helpers.
package utils

import (
	"fmt"
	"strings"
)

// FormatScore formats an efficiency score with four decimal places.
func FormatScore(value float64) string {
	return fmt.Sprintf("%.4f", value)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// JoinTickers renders a ticker list for terminal output.
func JoinTickers(tickers []string) string {
	return strings.Join(tickers, ", ")
}
