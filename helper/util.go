package helper

import (
	"time"

	"github.com/shopspring/decimal"
)

// WireDigits is the number of decimals the exchange expects for price and quantity
const WireDigits = 8

// Now13 returns a millisecond Unix timestamp (13 digits)
func Now13() int64 {
	return time.Now().UnixMilli()
}

// FormatFixed formats a number in fixed-point notation with exactly 8 decimals
func FormatFixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(WireDigits)
}

// ParseDecimal parses a decimal string such as "27000.10000000"
func ParseDecimal(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}
