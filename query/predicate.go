package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/raseelhq/reporting-apis/schema"
)

type NodeKind int

const (
	NodeCondition NodeKind = iota
	NodeAnd
	NodeOr
)

// Condition is a compiled, validated leaf: the column is known to exist and
// the operator is known to be legal for the column's type.
type Condition struct {
	Column string
	Type   schema.FieldType
	Op     Operator
	Value  interface{}
	Value2 interface{}
	Values []interface{}
}

// Predicate is a composable boolean condition over a row. It is produced by
// the compiler and consumed either by a store (translated to its native
// query language) or evaluated directly via Matches.
type Predicate struct {
	Kind     NodeKind
	Cond     *Condition
	Children []*Predicate
}

func NewCondition(cond *Condition) *Predicate {
	return &Predicate{Kind: NodeCondition, Cond: cond}
}

func And(children ...*Predicate) *Predicate {
	return &Predicate{Kind: NodeAnd, Children: children}
}

func Or(children ...*Predicate) *Predicate {
	return &Predicate{Kind: NodeOr, Children: children}
}

// Matches evaluates the predicate against a single row. An AND node with no
// children matches everything.
func (p *Predicate) Matches(row map[string]interface{}) bool {
	if p == nil {
		return true
	}
	switch p.Kind {
	case NodeCondition:
		return matchCondition(p.Cond, row)
	case NodeAnd:
		for _, child := range p.Children {
			if !child.Matches(row) {
				return false
			}
		}
		return true
	case NodeOr:
		for _, child := range p.Children {
			if child.Matches(row) {
				return true
			}
		}
		return false
	}
	return false
}

func matchCondition(cond *Condition, row map[string]interface{}) bool {
	value, present := row[cond.Column]
	isNull := !present || value == nil

	switch cond.Op {
	case OpIsNull:
		return isNull
	case OpIsNotNull:
		return !isNull
	}
	if isNull {
		return false
	}

	switch cond.Op {
	case OpEquals:
		return looseEqual(value, cond.Value)
	case OpNotEquals:
		return !looseEqual(value, cond.Value)
	case OpContains, OpTextSearch:
		return containsFold(value, cond.Value)
	case OpNotContains:
		return !containsFold(value, cond.Value)
	case OpStartsWith:
		return strings.HasPrefix(foldString(value), foldString(cond.Value))
	case OpEndsWith:
		return strings.HasSuffix(foldString(value), foldString(cond.Value))
	case OpGreaterThan:
		order, ok := compareOrdered(value, cond.Value, cond.Type)
		return ok && order > 0
	case OpLessThan:
		order, ok := compareOrdered(value, cond.Value, cond.Type)
		return ok && order < 0
	case OpBetween, OpDateRange:
		// Inclusive on both ends.
		low, okLow := compareOrdered(value, cond.Value, cond.Type)
		high, okHigh := compareOrdered(value, cond.Value2, cond.Type)
		return okLow && okHigh && low >= 0 && high <= 0
	case OpIn:
		return memberOf(value, cond.Values)
	case OpNotIn:
		return !memberOf(value, cond.Values)
	case OpIsNull, OpIsNotNull:
		// Handled above; unreachable.
		return false
	}
	panic(fmt.Sprintf("operator '%s' has no match case", cond.Op))
}

func memberOf(value interface{}, values []interface{}) bool {
	for _, candidate := range values {
		if looseEqual(value, candidate) {
			return true
		}
	}
	return false
}

func containsFold(value, sub interface{}) bool {
	return strings.Contains(foldString(value), foldString(sub))
}

func foldString(value interface{}) string {
	return strings.ToLower(toString(value))
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// looseEqual compares two scalars preserving their kind: numbers compare
// numerically regardless of the concrete numeric type, everything else
// compares by exact value.
func looseEqual(a, b interface{}) bool {
	if aNum, ok := toFloat(a); ok {
		if bNum, okB := toFloat(b); okB {
			return aNum == bNum
		}
		return false
	}
	if aBool, ok := a.(bool); ok {
		bBool, okB := b.(bool)
		return okB && aBool == bBool
	}
	if aTime, ok := toTime(a); ok {
		if bTime, okB := toTime(b); okB {
			return aTime.Equal(bTime)
		}
	}
	return toString(a) == toString(b)
}

// compareOrdered orders two values as numbers or dates depending on the
// declared field type. The second return value is false when either side
// cannot be interpreted as the declared type.
func compareOrdered(a, b interface{}, fieldType schema.FieldType) (int, bool) {
	if fieldType == schema.TypeDate {
		aTime, okA := toTime(a)
		bTime, okB := toTime(b)
		if !okA || !okB {
			return 0, false
		}
		switch {
		case aTime.Before(bTime):
			return -1, true
		case aTime.After(bTime):
			return 1, true
		}
		return 0, true
	}

	aNum, okA := toFloat(a)
	bNum, okB := toFloat(b)
	if !okA || !okB {
		return 0, false
	}
	switch {
	case aNum < bNum:
		return -1, true
	case aNum > bNum:
		return 1, true
	}
	return 0, true
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func toTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
