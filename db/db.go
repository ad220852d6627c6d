// Package db holds the narrow store contract the engine consumes and the
// concrete stores that answer it.
package db

import (
	"context"

	"github.com/raseelhq/reporting-apis/query"
	"github.com/raseelhq/reporting-apis/types"
)

// FindInfo carries everything a store needs to answer a count or a page of
// rows. The same FindInfo (in particular the same compiled predicate) must
// back both calls of one invocation so total and data stay consistent.
type FindInfo struct {
	Collection string
	Predicate  *query.Predicate
	OrderBy    []query.Order
	Skip       int
	// Take limits the page size; zero means no limit.
	Take int
	// Columns restricts the projection; empty means every column.
	Columns []string
	// Relations names related collections to include with each row.
	Relations []string
}

// Store is the boundary to the backing collections. Implementations must
// honor context cancellation and must not retry on failure.
type Store interface {
	Count(ctx context.Context, info *FindInfo) (int, error)
	Find(ctx context.Context, info *FindInfo) ([]types.Row, error)
}
