package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"partprice/internal/adapters/observability"
	"partprice/internal/domain"
	"partprice/internal/pricing"
)

type ComparisonService struct {
	search domain.Searcher
}

func NewComparisonService(s domain.Searcher) *ComparisonService {
	return &ComparisonService{search: s}
}

// Compare never fails: lookup errors, unmatched fragments and missing fields
// all degrade to empty or nil fields of the result.
func (s *ComparisonService) Compare(ctx context.Context, row domain.Row) domain.ComparisonResult {
	out := domain.ComparisonResult{
		PartNumber:   firstStringAlias(row, fieldPartNumber),
		Manufacturer: firstStringAlias(row, fieldManufacturer),
		OurPrice:     firstFloatAlias(row, fieldOurPrice),
	}

	res := s.search.Search(ctx, deref(out.Manufacturer), deref(out.PartNumber))
	if !res.OK() {
		log.Warn().
			Str("manufacturer", deref(out.Manufacturer)).
			Str("part_number", deref(out.PartNumber)).
			Str("failure", res.Failure.String()).
			Int("status", res.Status).
			Err(res.Err).
			Msg("price search failed")
		res.Fragments = nil
	}

	out.PricesFound = pricing.ExtractPrices(res.Fragments)

	if best, ok := out.BestPrice(); ok && out.OurPrice != nil {
		d := *out.OurPrice - best
		out.Difference = &d
	}

	observability.ObserveComparison(len(out.PricesFound) > 0)
	return out
}
