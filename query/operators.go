package query

import (
	"fmt"

	"github.com/raseelhq/reporting-apis/schema"
)

// Operator is the closed set of comparison operators the compiler accepts.
// Adding a member requires a matching case in every exhaustive switch below,
// otherwise compilation of the condition fails instead of misbehaving at
// request time.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpBetween     Operator = "between"
	OpDateRange   Operator = "date_range"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpIsNull      Operator = "is_null"
	OpIsNotNull   Operator = "is_not_null"
	OpTextSearch  Operator = "text_search"
)

// AggregationKind is the closed set of reductions the aggregation engine
// performs over group buckets.
type AggregationKind string

const (
	AggNone  AggregationKind = ""
	AggSum   AggregationKind = "sum"
	AggAvg   AggregationKind = "avg"
	AggCount AggregationKind = "count"
	AggMin   AggregationKind = "min"
	AggMax   AggregationKind = "max"
)

// operatorsByType lists, per field type, the operators that are legal for it.
var operatorsByType = map[schema.FieldType][]Operator{
	schema.TypeString: {
		OpEquals, OpNotEquals, OpContains, OpNotContains, OpStartsWith,
		OpEndsWith, OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpTextSearch,
	},
	schema.TypeNumber: {
		OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpBetween,
		OpIn, OpNotIn, OpIsNull, OpIsNotNull,
	},
	schema.TypeCurrency: {
		OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpBetween,
		OpIn, OpNotIn, OpIsNull, OpIsNotNull,
	},
	schema.TypeDate: {
		OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpBetween,
		OpDateRange, OpIsNull, OpIsNotNull,
	},
	schema.TypeBoolean: {
		OpEquals, OpNotEquals, OpIsNull, OpIsNotNull,
	},
}

// OperatorsByType returns the legal operators for every field type. The
// result is a copy, callers building filter UIs may mutate it freely.
func OperatorsByType() map[schema.FieldType][]Operator {
	result := make(map[schema.FieldType][]Operator, len(operatorsByType))
	for fieldType, operators := range operatorsByType {
		list := make([]Operator, len(operators))
		copy(list, operators)
		result[fieldType] = list
	}
	return result
}

func ParseOperator(name string) (Operator, error) {
	op := Operator(name)
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpNotContains, OpStartsWith,
		OpEndsWith, OpGreaterThan, OpLessThan, OpBetween, OpDateRange,
		OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpTextSearch:
		return op, nil
	}
	return "", fmt.Errorf("unknown operator '%s'", name)
}

func ParseAggregation(name string) (AggregationKind, error) {
	kind := AggregationKind(name)
	switch kind {
	case AggNone, AggSum, AggAvg, AggCount, AggMin, AggMax:
		return kind, nil
	}
	return AggNone, fmt.Errorf("unknown aggregation '%s'", name)
}

func operatorAllowed(op Operator, fieldType schema.FieldType) bool {
	for _, allowed := range operatorsByType[fieldType] {
		if op == allowed {
			return true
		}
	}
	return false
}
