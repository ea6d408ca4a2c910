package domain

import (
	"context"
	"time"
)

// Searcher never fails loudly: every failure is folded into the SearchResult.
type Searcher interface {
	Search(ctx context.Context, manufacturer, partNumber string) SearchResult
}

type PartRepository interface {
	// Write paths
	InsertPart(ctx context.Context, p Part) (int64, error)
	InsertComparison(ctx context.Context, partID *int64, c ComparisonResult) (int64, error)

	// Read paths
	LatestComparison(ctx context.Context, manufacturer, partNumber string) (StoredComparison, error)
}

type TaskQueue interface {
	Push(ctx context.Context, p Part) error
	// Pop blocks up to wait; ok is false on timeout.
	Pop(ctx context.Context, wait time.Duration) (p Part, ok bool, err error)
}
