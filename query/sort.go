package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/types"
)

// Order is a single normalized sort key, ready for a store order clause.
type Order struct {
	Column string
	Type   schema.FieldType
	Desc   bool
}

// NormalizeSort validates the requested sort keys against the resolver and
// produces the order clause. Earlier entries take priority, ties are broken
// by later entries. An empty list falls back to most recently created first.
func NormalizeSort(resolver FieldResolver, sorts []types.SortSpec) ([]Order, error) {
	if len(sorts) == 0 {
		sorts = []types.SortSpec{{Field: "created_at", Direction: "desc"}}
	}

	orders := make([]Order, 0, len(sorts))
	for _, spec := range sorts {
		column, ok := resolver.Resolve(spec.Field)
		if !ok {
			return nil, apierrors.NewValidationError(fmt.Sprintf("unknown sort field '%s'", spec.Field))
		}
		switch strings.ToLower(spec.Direction) {
		case "", "asc":
			orders = append(orders, Order{Column: column.Name, Type: column.Type})
		case "desc":
			orders = append(orders, Order{Column: column.Name, Type: column.Type, Desc: true})
		default:
			return nil, apierrors.NewValidationError(fmt.Sprintf(
				"invalid sort direction '%s' for field '%s'", spec.Direction, spec.Field))
		}
	}
	return orders, nil
}

// SortRows sorts rows in place by the order clause, stable so that rows that
// compare equal keep their relative input order.
func SortRows(rows []types.Row, orders []Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, order := range orders {
			result := compareRowValues(rows[i][order.Column], rows[j][order.Column], order.Type)
			if result == 0 {
				continue
			}
			if order.Desc {
				return result > 0
			}
			return result < 0
		}
		return false
	})
}

// compareRowValues orders two cell values. Nil sorts before everything;
// values that cannot be interpreted as the declared type fall back to a
// case-insensitive string comparison so the order stays total.
func compareRowValues(a, b interface{}, fieldType schema.FieldType) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch fieldType {
	case schema.TypeNumber, schema.TypeCurrency, schema.TypeDate:
		if result, ok := compareOrdered(a, b, fieldType); ok {
			return result
		}
	case schema.TypeBoolean:
		aBool, okA := a.(bool)
		bBool, okB := b.(bool)
		if okA && okB {
			switch {
			case aBool == bBool:
				return 0
			case bBool:
				return -1
			default:
				return 1
			}
		}
	}

	return strings.Compare(foldString(a), foldString(b))
}
