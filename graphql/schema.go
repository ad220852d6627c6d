// Package graphql generates a GraphQL schema over the registered
// collections: one query field per collection, with a typed filter input
// whose shape is derived from the operator catalog.
package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/iancoleman/strcase"

	"github.com/raseelhq/reporting-apis/config"
	"github.com/raseelhq/reporting-apis/log"
	"github.com/raseelhq/reporting-apis/query"
	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/search"
)

type SchemaGenerator struct {
	searchSvc *search.Service
	registry  *schema.Registry
	naming    config.NamingConvention
	logger    log.Logger
}

func NewSchemaGenerator(searchSvc *search.Service, registry *schema.Registry, naming config.NamingConvention, logger log.Logger) *SchemaGenerator {
	return &SchemaGenerator{
		searchSvc: searchSvc,
		registry:  registry,
		naming:    naming,
		logger:    logger,
	}
}

var paginationInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "PaginationInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"page":  {Type: graphql.NewNonNull(graphql.Int)},
		"limit": {Type: graphql.NewNonNull(graphql.Int)},
	},
})

var searchInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "SearchInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"text":   {Type: graphql.NewNonNull(graphql.String)},
		"fields": {Type: graphql.NewList(graphql.String)},
	},
})

// operatorsInputTypes maps a field type to the filter input object exposing
// exactly the operators that are legal for it.
var operatorsInputTypes = map[schema.FieldType]*graphql.InputObject{
	schema.TypeString:   operatorType("String", schema.TypeString, graphql.String),
	schema.TypeNumber:   operatorType("Number", schema.TypeNumber, graphql.Float),
	schema.TypeCurrency: operatorType("Currency", schema.TypeCurrency, graphql.Float),
	schema.TypeDate:     operatorType("Date", schema.TypeDate, graphql.DateTime),
	schema.TypeBoolean:  operatorType("Boolean", schema.TypeBoolean, graphql.Boolean),
}

var scalarTypes = map[schema.FieldType]graphql.Output{
	schema.TypeString:   graphql.String,
	schema.TypeNumber:   graphql.Float,
	schema.TypeCurrency: graphql.Float,
	schema.TypeDate:     graphql.DateTime,
	schema.TypeBoolean:  graphql.Boolean,
}

func operatorType(name string, fieldType schema.FieldType, scalar graphql.Input) *graphql.InputObject {
	fields := graphql.InputObjectConfigFieldMap{}
	for _, op := range query.OperatorsByType()[fieldType] {
		switch op {
		case query.OpIn, query.OpNotIn:
			fields[string(op)] = &graphql.InputObjectFieldConfig{Type: graphql.NewList(scalar)}
		case query.OpBetween, query.OpDateRange:
			// A two element list: lower and upper bound, both inclusive.
			fields[string(op)] = &graphql.InputObjectFieldConfig{Type: graphql.NewList(scalar)}
		case query.OpIsNull, query.OpIsNotNull:
			fields[string(op)] = &graphql.InputObjectFieldConfig{Type: graphql.Boolean}
		default:
			fields[string(op)] = &graphql.InputObjectFieldConfig{Type: scalar}
		}
	}
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name:   name + "FilterInput",
		Fields: fields,
	})
}

// BuildSchema assembles the query-only schema with one search field per
// registered collection.
func (sg *SchemaGenerator) BuildSchema() (graphql.Schema, error) {
	queryFields := graphql.Fields{}

	for _, name := range sg.registry.Names() {
		collection, _ := sg.registry.Collection(name)
		entityType := sg.buildEntityType(collection)
		filterType := sg.buildFilterType(collection)
		resultType := sg.buildResultType(collection, entityType)

		queryFields[sg.naming.ToAPIField(name)] = &graphql.Field{
			Type: resultType,
			Args: graphql.FieldConfigArgument{
				"filter":  {Type: filterType},
				"options": {Type: graphql.NewNonNull(paginationInput)},
				"orderBy": {Type: graphql.NewList(graphql.String)},
				"search":  {Type: searchInput},
			},
			Resolve: sg.searchFieldResolver(collection),
		}
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queryFields,
		}),
	})
}

func (sg *SchemaGenerator) buildEntityType(collection *schema.Collection) *graphql.Object {
	fields := graphql.Fields{}
	for _, column := range collection.Columns() {
		columnName := column.Name
		fields[sg.naming.ToAPIField(columnName)] = &graphql.Field{
			Type: scalarTypes[column.Type],
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				row, ok := p.Source.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("unexpected source type %T", p.Source)
				}
				return row[columnName], nil
			},
		}
	}
	return graphql.NewObject(graphql.ObjectConfig{
		Name:   strcase.ToCamel(collection.Name),
		Fields: fields,
	})
}

func (sg *SchemaGenerator) buildFilterType(collection *schema.Collection) *graphql.InputObject {
	fields := graphql.InputObjectConfigFieldMap{}
	for _, column := range collection.Columns() {
		fields[sg.naming.ToAPIField(column.Name)] = &graphql.InputObjectFieldConfig{
			Type: operatorsInputTypes[column.Type],
		}
	}
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name:   strcase.ToCamel(collection.Name) + "Filter",
		Fields: fields,
	})
}

func (sg *SchemaGenerator) buildResultType(collection *schema.Collection, entityType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: strcase.ToCamel(collection.Name) + "Result",
		Fields: graphql.Fields{
			"data":    {Type: graphql.NewList(entityType)},
			"total":   {Type: graphql.Int},
			"page":    {Type: graphql.Int},
			"limit":   {Type: graphql.Int},
			"pages":   {Type: graphql.Int},
			"hasNext": {Type: graphql.Boolean},
			"hasPrev": {Type: graphql.Boolean},
		},
	})
}
