package db

import (
	"context"
	"errors"

	"github.com/gocql/gocql"
	"gopkg.in/inf.v0"

	"github.com/raseelhq/reporting-apis/types"
)

// Session abstracts the Cassandra driver so the store can be exercised with
// a mock in tests.
type Session interface {
	// ExecuteIter executes a statement and returns the full result set.
	ExecuteIter(ctx context.Context, query string, values ...interface{}) ([]types.Row, error)
}

type GoCqlSession struct {
	ref *gocql.Session
}

func NewGoCqlSession(hosts []string, keyspace string) (*GoCqlSession, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("failed to create session")
	}
	return &GoCqlSession{ref: session}, nil
}

func (session *GoCqlSession) Close() {
	session.ref.Close()
}

func (session *GoCqlSession) ExecuteIter(ctx context.Context, query string, values ...interface{}) ([]types.Row, error) {
	iter := session.ref.Query(query, values...).WithContext(ctx).Iter()

	rows, err := iter.SliceMap()
	if err != nil {
		return nil, err
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	adapted := make([]types.Row, len(rows))
	for i, row := range rows {
		adapted[i] = adaptRow(row)
	}
	return adapted, nil
}

func adaptRow(row map[string]interface{}) types.Row {
	adapted := make(types.Row, len(row))
	for name, value := range row {
		adapted[name] = adaptResultValue(value)
	}
	return adapted
}

// adaptResultValue converts driver types to the plain scalars the engine
// works with, most notably decimal columns backing currency fields.
func adaptResultValue(value interface{}) interface{} {
	switch v := value.(type) {
	case *inf.Dec:
		if v == nil {
			return nil
		}
		parsed, ok := decToFloat(v)
		if !ok {
			return v.String()
		}
		return parsed
	case gocql.UUID:
		return v.String()
	}
	return value
}

func decToFloat(dec *inf.Dec) (float64, bool) {
	rounded := new(inf.Dec).Round(dec, 6, inf.RoundHalfUp)
	unscaled, ok := rounded.Unscaled()
	if !ok {
		return 0, false
	}
	scale := float64(1)
	for i := inf.Scale(0); i < rounded.Scale(); i++ {
		scale *= 10
	}
	return float64(unscaled) / scale, true
}
