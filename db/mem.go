package db

import (
	"context"
	"sync"

	"github.com/raseelhq/reporting-apis/query"
	"github.com/raseelhq/reporting-apis/types"
)

// MemStore keeps collections in memory and evaluates predicates directly.
// It is the reference store: every operator the compiler can emit is
// supported, which also makes it the backbone of the engine tests.
type MemStore struct {
	mu          sync.RWMutex
	collections map[string][]types.Row
}

func NewMemStore() *MemStore {
	return &MemStore{collections: make(map[string][]types.Row)}
}

// Load replaces the rows of a collection.
func (s *MemStore) Load(collection string, rows []types.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = rows
}

func (s *MemStore) Count(ctx context.Context, info *FindInfo) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, row := range s.collections[info.Collection] {
		if info.Predicate.Matches(row) {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) Find(ctx context.Context, info *FindInfo) ([]types.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := make([]types.Row, 0)
	for _, row := range s.collections[info.Collection] {
		if info.Predicate.Matches(row) {
			matched = append(matched, row)
		}
	}
	s.mu.RUnlock()

	query.SortRows(matched, info.OrderBy)

	if info.Skip >= len(matched) {
		return []types.Row{}, nil
	}
	matched = matched[info.Skip:]
	if info.Take > 0 && info.Take < len(matched) {
		matched = matched[:info.Take]
	}

	return project(matched, info.Columns), nil
}

func project(rows []types.Row, columns []string) []types.Row {
	if len(columns) == 0 {
		return rows
	}
	projected := make([]types.Row, len(rows))
	for i, row := range rows {
		out := make(types.Row, len(columns))
		for _, column := range columns {
			if value, ok := row[column]; ok {
				out[column] = value
			}
		}
		projected[i] = out
	}
	return projected
}
