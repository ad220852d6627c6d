package query

import (
	"fmt"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/types"
)

// Pagination is a validated page request. Non-positive page or limit values
// are rejected up front rather than coerced, so the skip offset can never
// disagree with the envelope.
type Pagination struct {
	Page  int
	Limit int
}

func NewPagination(page, limit int) (Pagination, error) {
	if page < 1 {
		return Pagination{}, apierrors.NewValidationError(fmt.Sprintf("page must be >= 1, got %d", page))
	}
	if limit < 1 {
		return Pagination{}, apierrors.NewValidationError(fmt.Sprintf("limit must be >= 1, got %d", limit))
	}
	return Pagination{Page: page, Limit: limit}, nil
}

func (p Pagination) Skip() int {
	return (p.Page - 1) * p.Limit
}

// NewSearchResult assembles the pagination envelope. The total must come
// from a count over the same compiled predicate that produced the data page.
func NewSearchResult[T any](data []T, total int, p Pagination) *types.SearchResult[T] {
	if data == nil {
		data = []T{}
	}
	pages := (total + p.Limit - 1) / p.Limit
	return &types.SearchResult[T]{
		Data:    data,
		Total:   total,
		Page:    p.Page,
		Limit:   p.Limit,
		Pages:   pages,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1,
	}
}
