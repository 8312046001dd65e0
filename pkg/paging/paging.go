// Package paging drains cursor-paginated APIs into a single slice.
package paging

import "context"

// PageInfo is the pagination block returned with every page.
type PageInfo struct {
	Page     *int `json:"page,omitempty"`
	PageSize int  `json:"pageSize,omitempty"`
	More     bool `json:"more"`
}

// Next returns the cursor of the following page, if the server announced one.
// A missing or non-positive cursor ends pagination even when More is set,
// since following it could restart the listing from the first page.
func (p PageInfo) Next() (int, bool) {
	if !p.More || p.Page == nil || *p.Page <= 0 {
		return 0, false
	}
	return *p.Page, true
}

// PageFetcher loads the page at the given zero-based cursor.
type PageFetcher[T any] func(ctx context.Context, page int) (PageInfo, []T, error)

// FetchAll requests pages starting at cursor 0 and concatenates their items
// in page order. It stops when the server reports no further page or after
// maxPages requests; maxPages <= 0 means no limit. Pages are fetched one at a
// time. The first error aborts the drain and nothing gathered so far is
// returned.
func FetchAll[T any](ctx context.Context, fetch PageFetcher[T], maxPages int) ([]T, error) {
	var all []T
	cursor := 0
	for requests := 0; maxPages <= 0 || requests < maxPages; requests++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, items, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		next, ok := info.Next()
		if !ok {
			break
		}
		cursor = next
	}
	if all == nil {
		all = []T{}
	}
	return all, nil
}
