package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raseelhq/reporting-apis/internal/testutil"
	"github.com/raseelhq/reporting-apis/types"
)

func TestAggregateIdentityWithoutGroups(t *testing.T) {
	rows := []types.Row{{"a": 1}, {"a": 2}}
	assert.Equal(t, rows, Aggregate(rows, nil))
}

func TestAggregateSumBySafe(t *testing.T) {
	// Transactions grouped by safe, amount summed.
	rows := []types.Row{
		{"safe": "S1", "amount": 100.0},
		{"safe": "S1", "amount": 50.0},
		{"safe": "S2", "amount": 30.0},
	}

	result := Aggregate(rows, []GroupSpec{
		{Field: "safe"},
		{Field: "amount", Agg: AggSum},
	})

	require.Len(t, result, 2)
	// Bucket order is first-seen order of the group key.
	assert.Equal(t, types.Row{"safe": "S1", "amount": 150.0}, result[0])
	assert.Equal(t, types.Row{"safe": "S2", "amount": 30.0}, result[1])
}

func TestAggregateSumPartitionsTotal(t *testing.T) {
	rows := []types.Row{
		{"k": "a", "v": 1.0},
		{"k": "b", "v": 2.0},
		{"k": "a", "v": 3.0},
		{"k": "c", "v": 4.0},
	}

	result := Aggregate(rows, []GroupSpec{{Field: "k"}, {Field: "v", Agg: AggSum}})

	groupedTotal := 0.0
	for _, row := range result {
		groupedTotal += row["v"].(float64)
	}
	assert.Equal(t, 10.0, groupedTotal)
}

func TestAggregateReductions(t *testing.T) {
	rows := []types.Row{
		{"k": "a", "v": 10},
		{"k": "a", "v": 20},
		{"k": "a", "v": 60},
	}

	items := []struct {
		agg      AggregationKind
		expected interface{}
	}{
		{AggSum, 90.0},
		{AggAvg, 30.0},
		{AggCount, 3},
		{AggMin, 10.0},
		{AggMax, 60.0},
	}

	for _, item := range items {
		result := Aggregate(rows, []GroupSpec{{Field: "k"}, {Field: "v", Agg: item.agg}})
		require.Len(t, result, 1)
		assert.Equal(t, item.expected, result[0]["v"], "aggregation %s", item.agg)
	}
}

func TestAggregateCoercesNonNumericToZero(t *testing.T) {
	rows := []types.Row{
		{"k": "a", "v": "not a number"},
		{"k": "a", "v": 10},
	}

	result := Aggregate(rows, []GroupSpec{{Field: "k"}, {Field: "v", Agg: AggSum}})
	require.Len(t, result, 1)
	assert.Equal(t, 10.0, result[0]["v"])

	result = Aggregate(rows[:1], []GroupSpec{{Field: "k"}, {Field: "v", Agg: AggAvg}})
	require.Len(t, result, 1)
	assert.Equal(t, 0.0, result[0]["v"])
}

func TestAggregateMultipleKeys(t *testing.T) {
	rows := []types.Row{
		{"safe": "S1", "type": "in", "amount": 100.0},
		{"safe": "S1", "type": "out", "amount": 40.0},
		{"safe": "S1", "type": "in", "amount": 60.0},
	}

	result := Aggregate(rows, []GroupSpec{
		{Field: "safe"},
		{Field: "type"},
		{Field: "amount", Agg: AggSum},
	})

	testutil.AssertJSONEqual(t, []types.Row{
		{"safe": "S1", "type": "in", "amount": 160.0},
		{"safe": "S1", "type": "out", "amount": 40.0},
	}, result)
}

func TestAggregateKeySeparatorSafety(t *testing.T) {
	// Values containing a would-be separator must not collide: ("a|b", "c")
	// and ("a", "b|c") are distinct tuples.
	rows := []types.Row{
		{"x": "a|b", "y": "c", "v": 1},
		{"x": "a", "y": "b|c", "v": 1},
	}

	result := Aggregate(rows, []GroupSpec{
		{Field: "x"},
		{Field: "y"},
		{Field: "v", Agg: AggCount},
	})

	require.Len(t, result, 2)
	assert.Equal(t, 1, result[0]["v"])
	assert.Equal(t, 1, result[1]["v"])
}
