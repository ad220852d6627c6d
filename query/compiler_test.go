package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/types"
)

type mapResolver map[string]schema.Column

func (r mapResolver) Resolve(field string) (schema.Column, bool) {
	column, ok := r[field]
	return column, ok
}

var testResolver = mapResolver{
	"name":       {Name: "name", Type: schema.TypeString},
	"status":     {Name: "status", Type: schema.TypeString},
	"amount":     {Name: "amount", Type: schema.TypeCurrency},
	"created_at": {Name: "created_at", Type: schema.TypeDate},
	"is_active":  {Name: "is_active", Type: schema.TypeBoolean},
}

func TestCompileValidation(t *testing.T) {
	items := []struct {
		name   string
		filter types.FilterCondition
	}{
		{"unknown field", types.FilterCondition{Field: "missing", Operator: "equals", Value: 1}},
		{"unknown operator", types.FilterCondition{Field: "name", Operator: "like", Value: "x"}},
		{"operator/type mismatch", types.FilterCondition{Field: "amount", Operator: "contains", Value: "5"}},
		{"between without value2", types.FilterCondition{Field: "amount", Operator: "between", Value: 1}},
		{"in without values", types.FilterCondition{Field: "name", Operator: "in"}},
		{"equals without value", types.FilterCondition{Field: "name", Operator: "equals"}},
	}

	for _, item := range items {
		t.Run(item.name, func(t *testing.T) {
			_, err := Compile(testResolver, []types.FilterCondition{item.filter}, nil)
			require.NotNil(t, err)
			assert.IsType(t, &apierrors.ValidationError{}, err)
		})
	}
}

func TestCompileCombinesTopLevelWithAnd(t *testing.T) {
	predicate, err := Compile(testResolver, []types.FilterCondition{
		{Field: "status", Operator: "equals", Value: "active"},
		{Field: "amount", Operator: "greater_than", Value: 10},
	}, nil)
	require.Nil(t, err)
	require.Equal(t, NodeAnd, predicate.Kind)
	require.Len(t, predicate.Children, 2)

	assert.True(t, predicate.Matches(types.Row{"status": "active", "amount": 20}))
	assert.False(t, predicate.Matches(types.Row{"status": "active", "amount": 5}))
	assert.False(t, predicate.Matches(types.Row{"status": "closed", "amount": 20}))
}

func TestCompileFreeTextNarrowsFilters(t *testing.T) {
	predicate, err := Compile(testResolver,
		[]types.FilterCondition{{Field: "status", Operator: "equals", Value: "active"}},
		&types.FreeTextClause{Text: "ahm", Fields: []string{"name", "status"}})
	require.Nil(t, err)

	// The text group matches on name OR status, but only inside the filtered set.
	assert.True(t, predicate.Matches(types.Row{"status": "active", "name": "Ahmed"}))
	assert.False(t, predicate.Matches(types.Row{"status": "closed", "name": "Ahmed"}))
	assert.False(t, predicate.Matches(types.Row{"status": "active", "name": "Sara"}))
}

func TestCompileFreeTextValidation(t *testing.T) {
	_, err := Compile(testResolver, nil, &types.FreeTextClause{Text: "  ", Fields: []string{"name"}})
	assert.IsType(t, &apierrors.ValidationError{}, err)

	_, err = Compile(testResolver, nil, &types.FreeTextClause{Text: "x", Fields: nil})
	assert.IsType(t, &apierrors.ValidationError{}, err)

	_, err = Compile(testResolver, nil, &types.FreeTextClause{Text: "x", Fields: []string{"amount"}})
	assert.IsType(t, &apierrors.ValidationError{}, err)
}

func TestCompileCoercesScalarToList(t *testing.T) {
	predicate, err := Compile(testResolver, []types.FilterCondition{
		{Field: "status", Operator: "in", Value: "active"},
	}, nil)
	require.Nil(t, err)
	assert.True(t, predicate.Matches(types.Row{"status": "active"}))
	assert.False(t, predicate.Matches(types.Row{"status": "closed"}))
}

func TestCompileBoundaryInclusive(t *testing.T) {
	// between with value == value2 == x matches a record whose field equals x.
	predicate, err := Compile(testResolver, []types.FilterCondition{
		{Field: "amount", Operator: "between", Value: 100, Value2: 100},
	}, nil)
	require.Nil(t, err)
	assert.True(t, predicate.Matches(types.Row{"amount": 100}))
	assert.False(t, predicate.Matches(types.Row{"amount": 99}))
	assert.False(t, predicate.Matches(types.Row{"amount": 101}))
}
