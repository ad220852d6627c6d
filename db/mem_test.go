package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raseelhq/reporting-apis/query"
	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/types"
)

func statusEquals(value string) *query.Predicate {
	return query.NewCondition(&query.Condition{
		Column: "status", Type: schema.TypeString, Op: query.OpEquals, Value: value,
	})
}

func newTestStore() *MemStore {
	store := NewMemStore()
	store.Load("customers", []types.Row{
		{"name": "C", "status": "active", "balance": 30.0},
		{"name": "A", "status": "active", "balance": 10.0},
		{"name": "B", "status": "closed", "balance": 20.0},
		{"name": "D", "status": "active", "balance": 40.0},
	})
	return store
}

func TestMemStoreCount(t *testing.T) {
	store := newTestStore()

	count, err := store.Count(context.Background(), &FindInfo{
		Collection: "customers",
		Predicate:  statusEquals("active"),
	})
	require.Nil(t, err)
	assert.Equal(t, 3, count)
}

func TestMemStoreFindSortSkipTake(t *testing.T) {
	store := newTestStore()

	rows, err := store.Find(context.Background(), &FindInfo{
		Collection: "customers",
		Predicate:  statusEquals("active"),
		OrderBy:    []query.Order{{Column: "name", Type: schema.TypeString}},
		Skip:       1,
		Take:       1,
	})
	require.Nil(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "C", rows[0]["name"])
}

func TestMemStoreFindSkipPastEnd(t *testing.T) {
	store := newTestStore()

	rows, err := store.Find(context.Background(), &FindInfo{
		Collection: "customers",
		Predicate:  statusEquals("active"),
		Skip:       10,
		Take:       5,
	})
	require.Nil(t, err)
	assert.Empty(t, rows)
}

func TestMemStoreProjection(t *testing.T) {
	store := newTestStore()

	rows, err := store.Find(context.Background(), &FindInfo{
		Collection: "customers",
		Predicate:  statusEquals("closed"),
		Columns:    []string{"name"},
	})
	require.Nil(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.Row{"name": "B"}, rows[0])
}

func TestMemStoreHonorsCancellation(t *testing.T) {
	store := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Count(ctx, &FindInfo{Collection: "customers"})
	assert.NotNil(t, err)

	_, err = store.Find(ctx, &FindInfo{Collection: "customers"})
	assert.NotNil(t, err)
}
