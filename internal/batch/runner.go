package batch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"partprice/internal/domain"
)

type Comparer interface {
	Compare(ctx context.Context, row domain.Row) domain.ComparisonResult
}

// CompareAll runs up to workers comparisons at once and returns results in
// row order. Rows not started before ctx is cancelled are left out.
func CompareAll(ctx context.Context, c Comparer, rows []domain.Row, workers int) []domain.ComparisonResult {
	if workers <= 0 {
		workers = 1
	}
	results := make([]domain.ComparisonResult, len(rows))
	started := make([]bool, len(rows))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, row := range rows {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		started[i] = true

		wg.Add(1)
		go func(i int, row domain.Row) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = c.Compare(ctx, row)
		}(i, row)
	}
	wg.Wait()

	out := results[:0]
	for i := range results {
		if started[i] {
			out = append(out, results[i])
		}
	}
	return out
}
