package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/types"
)

func TestMemStoreCopiesAreIsolated(t *testing.T) {
	store := NewMemTemplateStore()
	ctx := context.Background()

	template := storedTemplate("t1", "Totals", "finance")
	template.Filters = []types.FilterCondition{
		{Field: "amount", Operator: "greater_than", Value: 20},
	}
	require.Nil(t, store.Insert(ctx, template))

	// Mutating the caller's slices must not touch the stored revision.
	template.Fields[0].Name = "Tampered"
	template.Filters[0].Value = 999

	loaded, err := store.Get(ctx, "t1")
	require.Nil(t, err)
	assert.Equal(t, "Amount", loaded.Fields[0].Name)
	assert.Equal(t, 20, loaded.Filters[0].Value)

	// Same for a returned copy: it can never reach past the optimistic
	// concurrency check into the stored template.
	loaded.Fields[0].Name = "Tampered again"
	again, err := store.Get(ctx, "t1")
	require.Nil(t, err)
	assert.Equal(t, "Amount", again.Fields[0].Name)
}

func TestMemStoreUpdateCheckAndSet(t *testing.T) {
	store := NewMemTemplateStore()
	ctx := context.Background()

	template := storedTemplate("t1", "Totals", "finance")
	require.Nil(t, store.Insert(ctx, template))

	updated := *template
	updated.Name = "Totals v2"
	updated.UpdatedAt = template.UpdatedAt.Add(time.Second)
	require.Nil(t, store.Update(ctx, &updated, template.UpdatedAt))

	stale := *template
	stale.Name = "Totals v3"
	err := store.Update(ctx, &stale, template.UpdatedAt)
	assert.IsType(t, &apierrors.ConflictError{}, err)
}
