package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/raseelhq/reporting-apis/query"
	"github.com/raseelhq/reporting-apis/types"
)

// CassandraStore answers the store contract over a Cassandra keyspace by
// translating predicate trees into parameterized CQL. Field and table names
// come from the closed schema registry; every literal travels as a bound
// value, never spliced into the statement text.
type CassandraStore struct {
	session  Session
	keyspace string
}

func NewCassandraStore(session Session, keyspace string) *CassandraStore {
	return &CassandraStore{session: session, keyspace: keyspace}
}

func (s *CassandraStore) Count(ctx context.Context, info *FindInfo) (int, error) {
	values := make([]interface{}, 0)
	whereClause, err := buildCondition(info.Predicate, &values)
	if err != nil {
		return 0, err
	}

	cql := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s", s.keyspace, info.Collection)
	if whereClause != "" {
		cql += " WHERE " + whereClause + " ALLOW FILTERING"
	}

	rows, err := s.session.ExecuteIter(ctx, cql, values...)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for _, value := range rows[0] {
		if count, ok := toInt(value); ok {
			return count, nil
		}
	}
	return 0, fmt.Errorf("count query returned no numeric column")
}

func (s *CassandraStore) Find(ctx context.Context, info *FindInfo) ([]types.Row, error) {
	values := make([]interface{}, 0)
	whereClause, err := buildCondition(info.Predicate, &values)
	if err != nil {
		return nil, err
	}

	projection := "*"
	if len(info.Columns) > 0 {
		projection = strings.Join(info.Columns, ", ")
	}
	cql := fmt.Sprintf("SELECT %s FROM %s.%s", projection, s.keyspace, info.Collection)
	if whereClause != "" {
		cql += " WHERE " + whereClause
	}

	if len(info.OrderBy) > 0 {
		cql += " ORDER BY "
		for i, order := range info.OrderBy {
			if i > 0 {
				cql += ", "
			}
			direction := "ASC"
			if order.Desc {
				direction = "DESC"
			}
			cql += order.Column + " " + direction
		}
	}

	// CQL has no OFFSET, the skipped prefix is fetched and discarded.
	if info.Take > 0 {
		cql += " LIMIT ?"
		values = append(values, info.Skip+info.Take)
	}
	if whereClause != "" {
		cql += " ALLOW FILTERING"
	}

	rows, err := s.session.ExecuteIter(ctx, cql, values...)
	if err != nil {
		return nil, err
	}
	if info.Skip >= len(rows) {
		return []types.Row{}, nil
	}
	return rows[info.Skip:], nil
}

func buildCondition(predicate *query.Predicate, values *[]interface{}) (string, error) {
	if predicate == nil {
		return "", nil
	}
	switch predicate.Kind {
	case query.NodeCondition:
		return buildLeaf(predicate.Cond, values)
	case query.NodeAnd:
		parts := make([]string, 0, len(predicate.Children))
		for _, child := range predicate.Children {
			part, err := buildCondition(child, values)
			if err != nil {
				return "", err
			}
			if part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			return "", nil
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " AND ") + ")", nil
	case query.NodeOr:
		// CQL has no OR; failing the node here beats a driver syntax error.
		return "", fmt.Errorf("or-groups are not supported by the cassandra store")
	}
	return "", fmt.Errorf("unknown predicate node kind %d", predicate.Kind)
}

func buildLeaf(cond *query.Condition, values *[]interface{}) (string, error) {
	switch cond.Op {
	case query.OpEquals:
		*values = append(*values, cond.Value)
		return cond.Column + " = ?", nil
	case query.OpNotEquals:
		*values = append(*values, cond.Value)
		return cond.Column + " != ?", nil
	case query.OpGreaterThan:
		*values = append(*values, cond.Value)
		return cond.Column + " > ?", nil
	case query.OpLessThan:
		*values = append(*values, cond.Value)
		return cond.Column + " < ?", nil
	case query.OpBetween, query.OpDateRange:
		*values = append(*values, cond.Value, cond.Value2)
		return "(" + cond.Column + " >= ? AND " + cond.Column + " <= ?)", nil
	case query.OpIn:
		*values = append(*values, cond.Values)
		return cond.Column + " IN ?", nil
	case query.OpContains, query.OpTextSearch:
		*values = append(*values, "%"+toString(cond.Value)+"%")
		return cond.Column + " LIKE ?", nil
	case query.OpStartsWith:
		*values = append(*values, toString(cond.Value)+"%")
		return cond.Column + " LIKE ?", nil
	case query.OpEndsWith:
		*values = append(*values, "%"+toString(cond.Value))
		return cond.Column + " LIKE ?", nil
	case query.OpNotContains, query.OpNotIn, query.OpIsNull, query.OpIsNotNull:
		return "", fmt.Errorf("operator '%s' is not supported by the cassandra store", cond.Op)
	}
	panic(fmt.Sprintf("operator '%s' has no CQL case", cond.Op))
}

func toString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	}
	return 0, false
}
