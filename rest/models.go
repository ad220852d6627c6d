package rest

import "github.com/raseelhq/reporting-apis/types"

// ModelError is the JSON body of every error response.
type ModelError struct {
	Description string `json:"description"`
}

type searchRequest struct {
	Filters      []types.FilterCondition `json:"filters"`
	Sorts        []types.SortSpec        `json:"sorts"`
	Page         int                     `json:"page" validate:"required,gte=1"`
	Limit        int                     `json:"limit" validate:"required,gte=1"`
	SearchText   string                  `json:"searchText"`
	SearchFields []string                `json:"searchFields"`
}

type runRequest struct {
	Filters []types.FilterCondition `json:"filters"`
}
