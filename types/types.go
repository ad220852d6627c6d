// Package types contains the public API types
// that are shared between both REST and GraphQL
package types

import (
	"net/http"
	"time"
)

// Row is the shape of a single record as returned by a store.
type Row = map[string]interface{}

// FilterCondition is a single declarative filter over a collection field.
// Conditions at the top level of a request are implicitly AND-combined.
type FilterCondition struct {
	Field           string      `json:"field"`
	Operator        string      `json:"operator"`
	Value           interface{} `json:"value,omitempty"`
	Value2          interface{} `json:"value2,omitempty"`
	LogicalOperator string      `json:"logicalOperator,omitempty"`
}

// FreeTextClause requests a case-insensitive substring match of Text
// over every field in Fields, OR-combined, then ANDed with the filters.
type FreeTextClause struct {
	Text   string   `json:"text"`
	Fields []string `json:"fields"`
}

type SortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type SearchOptions struct {
	Filters      []FilterCondition `json:"filters,omitempty"`
	Sorts        []SortSpec        `json:"sorts,omitempty"`
	Page         int               `json:"page"`
	Limit        int               `json:"limit"`
	SearchText   string            `json:"searchText,omitempty"`
	SearchFields []string          `json:"searchFields,omitempty"`
}

// SearchResult is the pagination envelope returned by every search call
// and by non-grouped report runs.
type SearchResult[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// ReportRunResult is the outcome of executing a report template.
type ReportRunResult struct {
	Template     interface{} `json:"template"`
	Data         []Row       `json:"data"`
	TotalRecords int         `json:"totalRecords"`
	GeneratedAt  time.Time   `json:"generatedAt"`
}

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}
