// Package pricing finds currency-tagged prices in free text.
package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"partprice/internal/domain"
)

// digits, '.' or ',' separator, digits, optional single space, € or $.
// RE2 \s is ASCII only, so no-break and narrow no-break spaces are listed.
// Thousands separators ("1,234.56 €") are not handled; the first match wins.
var priceRe = regexp.MustCompile(`(\d+[,.]\d+)[\s\x{00A0}\x{202F}]?[€$]`)

// ParsePrice returns the first price in text, reading ',' as the decimal separator.
func ParsePrice(text string) (float64, bool) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ExtractPrices yields at most one observation per fragment, in fragment order.
// Further prices inside the same fragment are dropped.
func ExtractPrices(fragments []string) []domain.PriceObservation {
	out := make([]domain.PriceObservation, 0, len(fragments))
	for _, f := range fragments {
		if p, ok := ParsePrice(f); ok {
			out = append(out, domain.PriceObservation{Source: domain.UnknownSource, Price: p})
		}
	}
	return out
}
