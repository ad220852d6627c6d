package graphql

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/mitchellh/mapstructure"

	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/types"
)

type paginationArgs struct {
	Page  int `mapstructure:"page"`
	Limit int `mapstructure:"limit"`
}

type searchArgs struct {
	Text   string   `mapstructure:"text"`
	Fields []string `mapstructure:"fields"`
}

func (sg *SchemaGenerator) searchFieldResolver(collection *schema.Collection) graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		var pagination paginationArgs
		if err := mapstructure.Decode(params.Args["options"], &pagination); err != nil {
			return nil, err
		}

		opts := types.SearchOptions{
			Page:  pagination.Page,
			Limit: pagination.Limit,
		}

		if params.Args["filter"] != nil {
			filter := params.Args["filter"].(map[string]interface{})
			opts.Filters = sg.adaptFilter(collection, filter)
		}

		if params.Args["orderBy"] != nil {
			sorts, err := parseOrderBy(params.Args["orderBy"].([]interface{}))
			if err != nil {
				return nil, err
			}
			opts.Sorts = sorts
		}

		if params.Args["search"] != nil {
			var searchClause searchArgs
			if err := mapstructure.Decode(params.Args["search"], &searchClause); err != nil {
				return nil, err
			}
			opts.SearchText = searchClause.Text
			opts.SearchFields = searchClause.Fields
		}

		result, err := sg.searchSvc.Search(params.Context, collection.Name, opts)
		if err != nil {
			sg.logger.Error("graphql search failed", "collection", collection.Name, "error", err)
			return nil, err
		}

		return map[string]interface{}{
			"data":    result.Data,
			"total":   result.Total,
			"page":    result.Page,
			"limit":   result.Limit,
			"pages":   result.Pages,
			"hasNext": result.HasNext,
			"hasPrev": result.HasPrev,
		}, nil
	}
}

// adaptFilter flattens the nested {field: {operator: value}} input into the
// engine's condition list. Values for between arrive as two-element lists
// and are split into value/value2.
func (sg *SchemaGenerator) adaptFilter(collection *schema.Collection, filter map[string]interface{}) []types.FilterCondition {
	conditions := make([]types.FilterCondition, 0, len(filter))
	for fieldName, operators := range filter {
		column := sg.naming.ToColumn(fieldName)
		for operatorName, value := range operators.(map[string]interface{}) {
			condition := types.FilterCondition{
				Field:    column,
				Operator: operatorName,
				Value:    value,
			}
			if operatorName == "between" || operatorName == "date_range" {
				if pair, ok := value.([]interface{}); ok && len(pair) == 2 {
					condition.Value = pair[0]
					condition.Value2 = pair[1]
				}
			}
			conditions = append(conditions, condition)
		}
	}
	return conditions
}

// parseOrderBy splits "field_ASC" / "field_DESC" entries into sort specs.
func parseOrderBy(values []interface{}) ([]types.SortSpec, error) {
	sorts := make([]types.SortSpec, 0, len(values))
	for _, value := range values {
		strValue, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("orderBy entries must be strings")
		}
		index := strings.LastIndex(strValue, "_")
		if index <= 0 {
			return nil, fmt.Errorf("invalid orderBy entry '%s'", strValue)
		}
		sorts = append(sorts, types.SortSpec{
			Field:     strValue[0:index],
			Direction: strings.ToLower(strValue[index+1:]),
		})
	}
	return sorts, nil
}
