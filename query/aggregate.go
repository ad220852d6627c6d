package query

import (
	"encoding/json"
	"fmt"

	"github.com/raseelhq/reporting-apis/types"
)

// GroupSpec names one field taking part in grouping. Agg == AggNone marks a
// group-by key whose value is carried through per group; anything else marks
// a measure reduced across the members of each group.
type GroupSpec struct {
	Field string
	Agg   AggregationKind
}

type accumulator struct {
	sum   float64
	count int
	min   float64
	max   float64
}

func (a *accumulator) add(value interface{}) {
	// Non-numeric contributions fold in as 0 instead of poisoning the sum.
	number, ok := toFloat(value)
	if !ok {
		number = 0
	}
	if a.count == 0 || number < a.min {
		a.min = number
	}
	if a.count == 0 || number > a.max {
		a.max = number
	}
	a.sum += number
	a.count++
}

type bucket struct {
	keyValues map[string]interface{}
	measures  map[string]*accumulator
}

// Aggregate folds rows into one output row per distinct combination of
// group-by key values. With no groups it is the identity. Output buckets
// appear in first-seen order of their group key; sorting happens afterwards,
// over the aggregated rows.
func Aggregate(rows []types.Row, groups []GroupSpec) []types.Row {
	if len(groups) == 0 {
		return rows
	}

	keys := make([]GroupSpec, 0, len(groups))
	measures := make([]GroupSpec, 0, len(groups))
	for _, group := range groups {
		if group.Agg == AggNone {
			keys = append(keys, group)
		} else {
			measures = append(measures, group)
		}
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, row := range rows {
		key := groupKey(row, keys)
		b, ok := buckets[key]
		if !ok {
			keyValues := make(map[string]interface{}, len(keys))
			for _, spec := range keys {
				keyValues[spec.Field] = row[spec.Field]
			}
			accumulators := make(map[string]*accumulator, len(measures))
			for _, spec := range measures {
				accumulators[spec.Field] = &accumulator{}
			}
			b = &bucket{keyValues: keyValues, measures: accumulators}
			buckets[key] = b
			order = append(order, key)
		}
		for _, spec := range measures {
			b.measures[spec.Field].add(row[spec.Field])
		}
	}

	result := make([]types.Row, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		row := make(types.Row, len(keys)+len(measures))
		for _, spec := range keys {
			row[spec.Field] = b.keyValues[spec.Field]
		}
		for _, spec := range measures {
			row[spec.Field] = reduce(b.measures[spec.Field], spec.Agg)
		}
		result = append(result, row)
	}
	return result
}

func reduce(acc *accumulator, kind AggregationKind) interface{} {
	switch kind {
	case AggSum:
		return acc.sum
	case AggCount:
		return acc.count
	case AggAvg:
		if acc.count == 0 {
			return float64(0)
		}
		return acc.sum / float64(acc.count)
	case AggMin:
		return acc.min
	case AggMax:
		return acc.max
	case AggNone:
		// Keys never reach reduce.
		return nil
	}
	panic(fmt.Sprintf("aggregation '%s' has no reduce case", kind))
}

// groupKey encodes the tuple of key values structurally, so a value that
// happens to contain a separator character can never collide with another
// tuple.
func groupKey(row types.Row, keys []GroupSpec) string {
	tuple := make([]interface{}, len(keys))
	for i, spec := range keys {
		tuple[i] = row[spec.Field]
	}
	encoded, err := json.Marshal(tuple)
	if err != nil {
		// Values coming out of a store are always JSON-representable; a
		// failure here means a programming error upstream.
		return fmt.Sprintf("%#v", tuple)
	}
	return string(encoded)
}
