package query

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/types"
)

// FieldResolver maps a caller-supplied field path to a stored column. The
// entity search path resolves against a collection schema; the report path
// resolves against a template's field projection.
type FieldResolver interface {
	Resolve(field string) (schema.Column, bool)
}

// Compile validates a filter specification plus an optional free text clause
// and builds the predicate tree. Validation is complete before any store
// call: an unknown field or an operator that is illegal for the field's type
// fails compilation, no partial predicate is ever produced.
//
// Top level conditions are AND-combined. The free text clause compiles to an
// OR-group of contains conditions over its fields and is ANDed with the
// filters, so free text always narrows the filtered set.
func Compile(resolver FieldResolver, filters []types.FilterCondition, freeText *types.FreeTextClause) (*Predicate, error) {
	children := make([]*Predicate, 0, len(filters)+1)

	for _, filter := range filters {
		cond, err := compileCondition(resolver, filter)
		if err != nil {
			return nil, err
		}
		children = append(children, NewCondition(cond))
	}

	if freeText != nil {
		textGroup, err := compileFreeText(resolver, freeText)
		if err != nil {
			return nil, err
		}
		children = append(children, textGroup)
	}

	return And(children...), nil
}

func compileCondition(resolver FieldResolver, filter types.FilterCondition) (*Condition, error) {
	column, ok := resolver.Resolve(filter.Field)
	if !ok {
		return nil, apierrors.NewValidationError(fmt.Sprintf("unknown field '%s'", filter.Field))
	}

	op, err := ParseOperator(filter.Operator)
	if err != nil {
		return nil, apierrors.NewValidationError(err.Error())
	}
	if !operatorAllowed(op, column.Type) {
		return nil, apierrors.NewValidationError(fmt.Sprintf(
			"operator '%s' is not supported for %s field '%s'", op, column.Type, filter.Field))
	}

	cond := &Condition{Column: column.Name, Type: column.Type, Op: op}

	switch op {
	case OpIsNull, OpIsNotNull:
		// Value is ignored.
	case OpBetween, OpDateRange:
		if filter.Value == nil || filter.Value2 == nil {
			return nil, apierrors.NewValidationError(fmt.Sprintf(
				"operator '%s' on field '%s' requires both value and value2", op, filter.Field))
		}
		cond.Value = filter.Value
		cond.Value2 = filter.Value2
	case OpIn, OpNotIn:
		values := coerceToList(filter.Value)
		if len(values) == 0 {
			return nil, apierrors.NewValidationError(fmt.Sprintf(
				"operator '%s' on field '%s' requires a non-empty value list", op, filter.Field))
		}
		cond.Values = values
	case OpEquals, OpNotEquals, OpContains, OpNotContains, OpStartsWith,
		OpEndsWith, OpGreaterThan, OpLessThan, OpTextSearch:
		if filter.Value == nil {
			return nil, apierrors.NewValidationError(fmt.Sprintf(
				"operator '%s' on field '%s' requires a value", op, filter.Field))
		}
		cond.Value = filter.Value
	}

	return cond, nil
}

func compileFreeText(resolver FieldResolver, freeText *types.FreeTextClause) (*Predicate, error) {
	if strings.TrimSpace(freeText.Text) == "" {
		return nil, apierrors.NewValidationError("search text is required")
	}
	if len(freeText.Fields) == 0 {
		return nil, apierrors.NewValidationError("search fields are required")
	}

	children := make([]*Predicate, 0, len(freeText.Fields))
	for _, field := range freeText.Fields {
		column, ok := resolver.Resolve(field)
		if !ok {
			return nil, apierrors.NewValidationError(fmt.Sprintf("unknown search field '%s'", field))
		}
		if column.Type != schema.TypeString {
			return nil, apierrors.NewValidationError(fmt.Sprintf(
				"search field '%s' must be a text field", field))
		}
		children = append(children, NewCondition(&Condition{
			Column: column.Name,
			Type:   column.Type,
			Op:     OpContains,
			Value:  freeText.Text,
		}))
	}

	return Or(children...), nil
}

// coerceToList accepts a scalar or any slice and always yields a list.
func coerceToList(value interface{}) []interface{} {
	if value == nil {
		return nil
	}
	if list, ok := value.([]interface{}); ok {
		return list
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return []interface{}{value}
	}
	list := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		list[i] = rv.Index(i).Interface()
	}
	return list
}
