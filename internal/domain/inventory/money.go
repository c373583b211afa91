package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

// All supported currencies carry two decimal places.
const priceExponent = 2

// ParsePrice converts a decimal price string ("20", "20.5", "20.50") into
// minor units. More precision than the currency defines is rejected rather
// than rounded.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("price is empty")
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > priceExponent {
		return 0, fmt.Errorf("price %q has more than %d decimal places", s, priceExponent)
	}
	for len(frac) < priceExponent {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if units < 0 {
		return 0, fmt.Errorf("price %q is negative", s)
	}

	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	return units*100 + cents, nil
}

// FormatPrice renders minor units back into a decimal string.
func FormatPrice(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
