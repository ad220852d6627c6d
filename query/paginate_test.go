package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raseelhq/reporting-apis/apierrors"
)

func TestNewPaginationRejectsNonPositive(t *testing.T) {
	items := []struct {
		page  int
		limit int
	}{
		{0, 10},
		{-1, 10},
		{1, 0},
		{1, -5},
		{0, 0},
	}

	for _, item := range items {
		_, err := NewPagination(item.page, item.limit)
		require.NotNil(t, err, "page=%d limit=%d", item.page, item.limit)
		assert.IsType(t, &apierrors.ValidationError{}, err)
	}
}

func TestPaginationSkip(t *testing.T) {
	p, err := NewPagination(3, 25)
	require.Nil(t, err)
	assert.Equal(t, 50, p.Skip())

	p, err = NewPagination(1, 25)
	require.Nil(t, err)
	assert.Equal(t, 0, p.Skip())
}

func TestNewSearchResultEnvelope(t *testing.T) {
	items := []struct {
		total   int
		page    int
		limit   int
		pages   int
		hasNext bool
		hasPrev bool
	}{
		{5, 1, 2, 3, true, false},
		{5, 3, 2, 3, false, true},
		{5, 2, 2, 3, true, true},
		{0, 1, 10, 0, false, false},
		{10, 1, 10, 1, false, false},
	}

	for _, item := range items {
		p, err := NewPagination(item.page, item.limit)
		require.Nil(t, err)
		result := NewSearchResult([]string{}, item.total, p)
		assert.Equal(t, item.pages, result.Pages, "total=%d limit=%d", item.total, item.limit)
		assert.Equal(t, item.hasNext, result.HasNext)
		assert.Equal(t, item.hasPrev, result.HasPrev)
	}
}

func TestNewSearchResultNeverReturnsNilData(t *testing.T) {
	p, _ := NewPagination(1, 10)
	result := NewSearchResult[string](nil, 0, p)
	assert.NotNil(t, result.Data)
	assert.Len(t, result.Data, 0)
}
