package app

import (
	"context"
	"errors"
	"strings"

	"partprice/internal/domain"
)

var ErrNoStore = errors.New("persistence not configured")

type QueryService struct {
	repo domain.PartRepository
}

func NewQueryService(r domain.PartRepository) *QueryService {
	return &QueryService{repo: r}
}

func (s *QueryService) LatestComparison(ctx context.Context, manufacturer, partNumber string) (domain.StoredComparison, error) {
	if s.repo == nil {
		return domain.StoredComparison{}, ErrNoStore
	}
	return s.repo.LatestComparison(ctx, strings.TrimSpace(manufacturer), strings.TrimSpace(partNumber))
}
