package db

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/raseelhq/reporting-apis/types"
)

type SessionMock struct {
	mock.Mock
}

func (o *SessionMock) ExecuteIter(ctx context.Context, query string, values ...interface{}) ([]types.Row, error) {
	args := o.Called(query, values)
	return args.Get(0).([]types.Row), args.Error(1)
}
