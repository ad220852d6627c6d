package graphql

import (
	"context"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raseelhq/reporting-apis/config"
	"github.com/raseelhq/reporting-apis/db"
	"github.com/raseelhq/reporting-apis/log"
	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/search"
	"github.com/raseelhq/reporting-apis/types"
)

func newTestSchema(t *testing.T) graphql.Schema {
	t.Helper()

	store := db.NewMemStore()
	store.Load("customers", []types.Row{
		{"name": "Ahmed", "status": "active", "balance": 120.0, "created_at": time.Now()},
		{"name": "Sara", "status": "active", "balance": 80.0, "created_at": time.Now()},
		{"name": "Omar", "status": "closed", "balance": 50.0, "created_at": time.Now()},
	})

	registry := schema.NewRegistry()
	searchSvc := search.NewService(store, registry, log.NewNopLogger())
	generator := NewSchemaGenerator(searchSvc, registry, config.NewDefaultNaming(), log.NewNopLogger())

	built, err := generator.BuildSchema()
	require.Nil(t, err)
	return built
}

func TestBuildSchemaExposesEveryCollection(t *testing.T) {
	built := newTestSchema(t)

	queryType := built.QueryType()
	for _, name := range []string{
		"customers", "units", "contracts", "transactions", "invoices",
		"partners", "brokers", "safes", "vouchers",
	} {
		assert.Contains(t, queryType.Fields(), name)
	}
}

func TestGraphQLFilteredSearch(t *testing.T) {
	built := newTestSchema(t)

	result := graphql.Do(graphql.Params{
		Schema:  built,
		Context: context.Background(),
		RequestString: `{
			customers(
				filter: { status: { equals: "active" } }
				options: { page: 1, limit: 10 }
				orderBy: ["name_ASC"]
			) {
				total
				pages
				hasNext
				data { name balance }
			}
		}`,
	})
	require.Empty(t, result.Errors)

	payload := result.Data.(map[string]interface{})["customers"].(map[string]interface{})
	assert.Equal(t, 2, payload["total"])
	assert.Equal(t, 1, payload["pages"])
	assert.Equal(t, false, payload["hasNext"])

	data := payload["data"].([]interface{})
	require.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Ahmed", first["name"])
	assert.Equal(t, 120.0, first["balance"])
}

func TestGraphQLValidationErrorsSurface(t *testing.T) {
	built := newTestSchema(t)

	result := graphql.Do(graphql.Params{
		Schema:  built,
		Context: context.Background(),
		RequestString: `{
			customers(options: { page: 0, limit: 10 }) { total }
		}`,
	})
	assert.NotEmpty(t, result.Errors)
}
