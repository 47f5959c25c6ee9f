package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromString parses decimal from string, tolerating surrounding whitespace
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// Format renders an amount the way the export target expects:
// trailing zeros trimmed, integral values keep one fractional digit ("1210.0").
func Format(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// SumStrings parses every value as a decimal and returns the formatted sum.
// Any empty value yields an empty result, a partial sum is never produced.
func SumStrings(values ...string) (string, error) {
	parsed := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		if v == "" {
			return "", nil
		}
		d, err := FromString(v)
		if err != nil {
			return "", err
		}
		parsed = append(parsed, d)
	}
	if len(parsed) == 0 {
		return "", nil
	}
	return Format(Sum(parsed)), nil
}
