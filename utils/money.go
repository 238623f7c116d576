package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds x to 2 decimal places (banking-style simple round).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ParseMoney parses a trimmed decimal string into a money value.
func ParseMoney(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// ParseMoneyPtr parses an optional decimal string; empty means nil.
func ParseMoneyPtr(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseMoney(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
