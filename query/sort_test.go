package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/types"
)

func TestNormalizeSortDefault(t *testing.T) {
	orders, err := NormalizeSort(testResolver, nil)
	require.Nil(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "created_at", orders[0].Column)
	assert.True(t, orders[0].Desc)
}

func TestNormalizeSortRejectsUnknownField(t *testing.T) {
	_, err := NormalizeSort(testResolver, []types.SortSpec{{Field: "missing", Direction: "asc"}})
	assert.IsType(t, &apierrors.ValidationError{}, err)

	_, err = NormalizeSort(testResolver, []types.SortSpec{{Field: "name", Direction: "sideways"}})
	assert.IsType(t, &apierrors.ValidationError{}, err)
}

func TestSortRowsMultiKey(t *testing.T) {
	rows := []types.Row{
		{"status": "b", "amount": 10.0},
		{"status": "a", "amount": 30.0},
		{"status": "a", "amount": 20.0},
		{"status": "b", "amount": 5.0},
	}

	orders, err := NormalizeSort(testResolver, []types.SortSpec{
		{Field: "status", Direction: "asc"},
		{Field: "amount", Direction: "desc"},
	})
	require.Nil(t, err)

	SortRows(rows, orders)

	assert.Equal(t, []types.Row{
		{"status": "a", "amount": 30.0},
		{"status": "a", "amount": 20.0},
		{"status": "b", "amount": 10.0},
		{"status": "b", "amount": 5.0},
	}, rows)
}

func TestSortRowsNilSortsFirst(t *testing.T) {
	rows := []types.Row{
		{"name": "b"},
		{"name": nil},
		{"name": "a"},
	}
	SortRows(rows, []Order{{Column: "name"}})
	assert.Nil(t, rows[0]["name"])
	assert.Equal(t, "a", rows[1]["name"])
	assert.Equal(t, "b", rows[2]["name"])
}

func TestSortRowsIsStable(t *testing.T) {
	rows := []types.Row{
		{"status": "a", "tag": 1},
		{"status": "a", "tag": 2},
		{"status": "a", "tag": 3},
	}
	SortRows(rows, []Order{{Column: "status"}})
	assert.Equal(t, 1, rows[0]["tag"])
	assert.Equal(t, 2, rows[1]["tag"])
	assert.Equal(t, 3, rows[2]["tag"])
}
