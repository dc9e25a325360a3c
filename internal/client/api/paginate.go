package api

import "context"

const (
	DefaultPageSize = 100
	// DefaultMaxPages caps page requests against a backend that never returns a short page.
	DefaultMaxPages = 100
)

// PageFunc fetches one page; page numbers start at 1.
type PageFunc[T any] func(ctx context.Context, page, limit int) ([]T, error)

// Aggregate requests pages 1, 2, 3... and appends them in request order until
// a page holds fewer than limit items or maxPages pages were requested.
// maxPages never exceeds DefaultMaxPages.
// Items are kept verbatim, duplicates included. A failing page discards
// everything collected so far.
func Aggregate[T any](ctx context.Context, limit, maxPages int, fetch PageFunc[T]) ([]T, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if maxPages <= 0 || maxPages > DefaultMaxPages {
		maxPages = DefaultMaxPages
	}
	out := make([]T, 0, limit)
	for page := 1; page <= maxPages; page++ {
		items, err := fetch(ctx, page, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(items) < limit {
			break
		}
	}
	return out, nil
}
