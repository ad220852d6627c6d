package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/db"
	"github.com/raseelhq/reporting-apis/log"
	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/types"
)

func newCustomerService(rows []types.Row) *Service {
	store := db.NewMemStore()
	store.Load("customers", rows)
	return NewService(store, schema.NewRegistry(), log.NewNopLogger())
}

func activeCustomers() []types.Row {
	rows := make([]types.Row, 0, 5)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"A", "B", "C", "D", "E"} {
		rows = append(rows, types.Row{
			"name":       name,
			"status":     "نشط",
			"created_at": base.Add(time.Duration(i) * time.Hour),
		})
	}
	return rows
}

func TestSearchFirstPage(t *testing.T) {
	service := newCustomerService(activeCustomers())

	result, err := service.Search(context.Background(), "customers", types.SearchOptions{
		Filters: []types.FilterCondition{{Field: "status", Operator: "equals", Value: "نشط"}},
		Sorts:   []types.SortSpec{{Field: "name", Direction: "asc"}},
		Page:    1,
		Limit:   2,
	})
	require.Nil(t, err)

	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 3, result.Pages)
	assert.True(t, result.HasNext)
	assert.False(t, result.HasPrev)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "A", result.Data[0]["name"])
	assert.Equal(t, "B", result.Data[1]["name"])
}

func TestSearchPaginationCompleteness(t *testing.T) {
	// Concatenating the pages reproduces the full sorted set exactly once.
	service := newCustomerService(activeCustomers())
	opts := types.SearchOptions{
		Filters: []types.FilterCondition{{Field: "status", Operator: "equals", Value: "نشط"}},
		Sorts:   []types.SortSpec{{Field: "name", Direction: "asc"}},
		Limit:   2,
	}

	collected := make([]string, 0, 5)
	page := 1
	for {
		opts.Page = page
		result, err := service.Search(context.Background(), "customers", opts)
		require.Nil(t, err)
		assert.Equal(t, 5, result.Total, "total must not drift across pages")
		for _, row := range result.Data {
			collected = append(collected, row["name"].(string))
		}
		if !result.HasNext {
			break
		}
		page++
	}

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, collected)
}

func TestSearchTotalMatchesIndependentCount(t *testing.T) {
	rows := make([]types.Row, 0, 20)
	for i := 0; i < 20; i++ {
		status := "active"
		if i%3 == 0 {
			status = "closed"
		}
		rows = append(rows, types.Row{
			"name":       fmt.Sprintf("customer %02d", i),
			"status":     status,
			"created_at": time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
		})
	}
	service := newCustomerService(rows)

	result, err := service.Search(context.Background(), "customers", types.SearchOptions{
		Filters: []types.FilterCondition{{Field: "status", Operator: "equals", Value: "closed"}},
		Page:    2,
		Limit:   3,
	})
	require.Nil(t, err)

	expected := 0
	for _, row := range rows {
		if row["status"] == "closed" {
			expected++
		}
	}
	assert.Equal(t, expected, result.Total)
}

func TestSearchDefaultSortIsNewestFirst(t *testing.T) {
	service := newCustomerService(activeCustomers())

	result, err := service.Search(context.Background(), "customers", types.SearchOptions{
		Page:  1,
		Limit: 5,
	})
	require.Nil(t, err)
	require.Len(t, result.Data, 5)
	assert.Equal(t, "E", result.Data[0]["name"])
	assert.Equal(t, "A", result.Data[4]["name"])
}

func TestSearchFreeTextNarrows(t *testing.T) {
	rows := []types.Row{
		{"name": "Ahmed Ali", "status": "active", "created_at": time.Now()},
		{"name": "Sara Ahmed", "status": "closed", "created_at": time.Now()},
		{"name": "Omar", "status": "active", "created_at": time.Now()},
	}
	service := newCustomerService(rows)

	result, err := service.Search(context.Background(), "customers", types.SearchOptions{
		Filters:      []types.FilterCondition{{Field: "status", Operator: "equals", Value: "active"}},
		SearchText:   "ahmed",
		SearchFields: []string{"name"},
		Page:         1,
		Limit:        10,
	})
	require.Nil(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Ahmed Ali", result.Data[0]["name"])
}

func TestSearchValidation(t *testing.T) {
	service := newCustomerService(nil)

	items := []struct {
		name string
		col  string
		opts types.SearchOptions
	}{
		{"unknown collection", "unknown", types.SearchOptions{Page: 1, Limit: 1}},
		{"zero page", "customers", types.SearchOptions{Page: 0, Limit: 10}},
		{"zero limit", "customers", types.SearchOptions{Page: 1, Limit: 0}},
		{"bad filter field", "customers", types.SearchOptions{
			Page: 1, Limit: 1,
			Filters: []types.FilterCondition{{Field: "nope", Operator: "equals", Value: 1}},
		}},
		{"bad sort field", "customers", types.SearchOptions{
			Page: 1, Limit: 1,
			Sorts: []types.SortSpec{{Field: "nope", Direction: "asc"}},
		}},
		{"search text without content", "customers", types.SearchOptions{
			Page: 1, Limit: 1,
			SearchFields: []string{"name"},
		}},
	}

	for _, item := range items {
		t.Run(item.name, func(t *testing.T) {
			_, err := service.Search(context.Background(), item.col, item.opts)
			require.NotNil(t, err)
			assert.IsType(t, &apierrors.ValidationError{}, err)
		})
	}
}
