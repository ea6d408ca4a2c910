package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"partprice/internal/domain"
)

type Comparer interface {
	Compare(ctx context.Context, row domain.Row) domain.ComparisonResult
}

// EnrichmentService stores an uploaded part and its price comparison.
// repo may be nil: persistence then becomes a no-op and only the comparison runs.
type EnrichmentService struct {
	cmp  Comparer
	repo domain.PartRepository
}

func NewEnrichmentService(c Comparer, r domain.PartRepository) *EnrichmentService {
	return &EnrichmentService{cmp: c, repo: r}
}

func (s *EnrichmentService) Process(ctx context.Context, p domain.Part) error {
	// 1) Raw part record first; its id links the comparison row.
	var partID *int64
	if s.repo != nil {
		id, err := s.repo.InsertPart(ctx, p)
		if err != nil {
			return fmt.Errorf("insert part %s/%s: %w", p.Manufacturer, p.PartNumber, err)
		}
		partID = &id
	}

	// 2) Comparison in the alias schema; no internal price on this path.
	c := s.cmp.Compare(ctx, partRow(p))

	log.Info().
		Str("manufacturer", p.Manufacturer).
		Str("part_number", p.PartNumber).
		Int("prices_found", len(c.PricesFound)).
		Bool("persisted", s.repo != nil).
		Msg("comparison done")

	if s.repo == nil {
		return nil
	}

	// 3) Result row.
	if _, err := s.repo.InsertComparison(ctx, partID, c); err != nil {
		return fmt.Errorf("insert comparison %s/%s: %w", p.Manufacturer, p.PartNumber, err)
	}
	return nil
}
