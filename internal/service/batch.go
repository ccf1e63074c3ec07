package service

import (
	"context"
	"course_admin_gateway/internal/util"

	"golang.org/x/sync/errgroup"
)

const batchConcurrency = 4

// runBatch applies fn to every item in parallel and reports each outcome on
// its own; one failing item does not stop the others. Results keep the
// order of items.
func runBatch[T any](ctx context.Context, items []T, id func(T) string, fn func(context.Context, T) error) []util.BatchResult {
	results := make([]util.BatchResult, len(items))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			res := util.BatchResult{ID: id(item), Success: true}
			if err := fn(ctx, item); err != nil {
				res.Success = false
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	g.Wait()

	return results
}
