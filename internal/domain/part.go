package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// UnknownSource labels every observation until listings are attributed.
const UnknownSource = "unknown"

// Row is one input part keyed by column name (CSV header, JSON field, ...).
type Row map[string]any

type Part struct {
	Manufacturer string `json:"manufacturer"`
	PartNumber   string `json:"part_number"`
}

type PriceObservation struct {
	Source string  `json:"source"`
	Price  float64 `json:"price"`
}

// ComparisonResult is built once by the comparison engine and not mutated afterwards.
// Difference is set only when OurPrice is set and PricesFound is non-empty.
type ComparisonResult struct {
	Manufacturer *string            `json:"manufacturer"`
	PartNumber   *string            `json:"part_number"`
	OurPrice     *float64           `json:"our_price"`
	PricesFound  []PriceObservation `json:"prices_found"`
	Difference   *float64           `json:"difference,omitempty"`
}

// BestPrice returns the minimum observed price.
func (r ComparisonResult) BestPrice() (float64, bool) {
	if len(r.PricesFound) == 0 {
		return 0, false
	}
	best := r.PricesFound[0].Price
	for _, p := range r.PricesFound[1:] {
		if p.Price < best {
			best = p.Price
		}
	}
	return best, true
}

// StoredComparison is a ComparisonResult as read back from storage.
type StoredComparison struct {
	ID        int64
	PartID    *int64
	Result    ComparisonResult
	CreatedAt time.Time
}
