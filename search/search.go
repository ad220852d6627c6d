// Package search exposes paginated, filtered entity search over the
// registered collections.
package search

import (
	"context"
	"fmt"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/db"
	"github.com/raseelhq/reporting-apis/log"
	"github.com/raseelhq/reporting-apis/query"
	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/types"
)

type Service struct {
	store    db.Store
	registry *schema.Registry
	logger   log.Logger
}

func NewService(store db.Store, registry *schema.Registry, logger log.Logger) *Service {
	return &Service{store: store, registry: registry, logger: logger}
}

// Search validates and runs one search invocation. The filter specification
// is compiled exactly once; the count and the page fetch both execute
// against that single predicate, concurrently, so the returned total and
// data can never disagree about what was asked.
func (s *Service) Search(ctx context.Context, collection string, opts types.SearchOptions) (*types.SearchResult[types.Row], error) {
	col, ok := s.registry.Collection(collection)
	if !ok {
		return nil, apierrors.NewValidationError(fmt.Sprintf("unknown collection '%s'", collection))
	}

	pagination, err := query.NewPagination(opts.Page, opts.Limit)
	if err != nil {
		return nil, err
	}

	var freeText *types.FreeTextClause
	if opts.SearchText != "" || len(opts.SearchFields) > 0 {
		fields := opts.SearchFields
		if len(fields) == 0 {
			fields = defaultSearchFields(col)
		}
		freeText = &types.FreeTextClause{Text: opts.SearchText, Fields: fields}
	}

	predicate, err := query.Compile(col, opts.Filters, freeText)
	if err != nil {
		return nil, err
	}

	orders, err := query.NormalizeSort(col, opts.Sorts)
	if err != nil {
		return nil, err
	}

	info := &db.FindInfo{
		Collection: collection,
		Predicate:  predicate,
		OrderBy:    orders,
		Skip:       pagination.Skip(),
		Take:       pagination.Limit,
	}

	type countResult struct {
		total int
		err   error
	}
	countCh := make(chan countResult, 1)
	go func() {
		total, err := s.store.Count(ctx, info)
		countCh <- countResult{total, err}
	}()

	rows, err := s.store.Find(ctx, info)
	if err != nil {
		return nil, apierrors.NewStoreError("search query failed", err)
	}
	counted := <-countCh
	if counted.err != nil {
		return nil, apierrors.NewStoreError("search count failed", counted.err)
	}

	return query.NewSearchResult(rows, counted.total, pagination), nil
}

// Collections lists the searchable collection names.
func (s *Service) Collections() []string {
	return s.registry.Names()
}

// OperatorsByType lists the legal filter operators per field type, for
// clients building filter UIs.
func (s *Service) OperatorsByType() map[schema.FieldType][]query.Operator {
	return query.OperatorsByType()
}

func defaultSearchFields(col *schema.Collection) []string {
	fields := make([]string, 0)
	for _, column := range col.Columns() {
		if column.FullText {
			fields = append(fields, column.Name)
		}
	}
	return fields
}
