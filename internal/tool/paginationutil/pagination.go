package paginationutil

import "iter"

// PaginationResult holds pagination metadata.
type PaginationResult struct {
	Returned  int
	Truncated bool // More items exist beyond the page
}

// ApplyPagination returns the paginated slice and metadata.
// It handles bounds checking to prevent panics and clamps offset/limit.
func ApplyPagination[T any](items []T, offset, limit int) ([]T, PaginationResult) {
	total := len(items)
	start := min(max(offset, 0), total)
	end := total
	if limit > 0 {
		end = min(start+limit, total)
	}

	page := items[start:end]
	return page, PaginationResult{
		Returned:  len(page),
		Truncated: end < total,
	}
}

// Page consumes seq just far enough to fill one page and to know whether
// another item follows it, then stops the sequence. limit <= 0 consumes all.
func Page[T any](seq iter.Seq[T], offset, limit int) ([]T, PaginationResult) {
	offset = max(offset, 0)
	var buf []T
	for item := range seq {
		buf = append(buf, item)
		if limit > 0 && len(buf) > offset+limit {
			break
		}
	}
	return ApplyPagination(buf, offset, limit)
}

// Budget caps the total output size of one response. Limit <= 0 disables it.
type Budget struct {
	Limit    int
	used     int
	exceeded bool
}

// Spend charges cost and reports whether the item fits. The first item always
// fits so a page is never empty because of the budget. Once an item is
// refused every later one is too.
func (b *Budget) Spend(cost int) bool {
	if b == nil || b.Limit <= 0 {
		return true
	}
	if b.exceeded || (b.used > 0 && b.used+cost > b.Limit) {
		b.exceeded = true
		return false
	}
	b.used += cost
	return true
}

// Exceeded reports whether an item has been refused.
func (b *Budget) Exceeded() bool {
	return b != nil && b.exceeded
}

// PageWithin is Page followed by the output budget: the page is cut before
// the first item that does not fit and marked truncated.
func PageWithin[T any](seq iter.Seq[T], offset, limit int, budget *Budget, cost func(T) int) ([]T, PaginationResult) {
	page, res := Page(seq, offset, limit)
	for i, item := range page {
		if !budget.Spend(cost(item)) {
			return page[:i], PaginationResult{Returned: i, Truncated: true}
		}
	}
	return page, res
}
