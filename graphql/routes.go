package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/raseelhq/reporting-apis/types"
)

type requestBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Routes builds the /graphql route serving the generated schema.
func (sg *SchemaGenerator) Routes(pattern string) ([]types.Route, error) {
	builtSchema, err := sg.BuildSchema()
	if err != nil {
		return nil, err
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body requestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "unable to decode request body", http.StatusBadRequest)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         builtSchema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			sg.logger.Error("failed to encode graphql response", "error", err)
		}
	})

	return []types.Route{
		{Method: http.MethodPost, Pattern: pattern, Handler: handler},
	}, nil
}
