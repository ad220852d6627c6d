package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/db"
	"github.com/raseelhq/reporting-apis/log"
	"github.com/raseelhq/reporting-apis/query"
	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/types"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
}

// Service owns the template lifecycle and the report run pipeline. Every run
// is a pure function of the template snapshot, the ad hoc filters and the
// current store contents; no state survives between runs.
type Service struct {
	store     db.Store
	templates TemplateStore
	registry  *schema.Registry
	formatter *Formatter
	logger    log.Logger
}

func NewService(store db.Store, templates TemplateStore, registry *schema.Registry, formatter *Formatter, logger log.Logger) *Service {
	return &Service{
		store:     store,
		templates: templates,
		registry:  registry,
		formatter: formatter,
		logger:    logger,
	}
}

// Create validates and persists a new template. The id and timestamps are
// assigned here.
func (s *Service) Create(ctx context.Context, template *ReportTemplate) (*ReportTemplate, error) {
	if err := s.validateTemplate(template); err != nil {
		return nil, err
	}
	if template.ID == "" {
		template.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	if err := s.templates.Insert(ctx, template); err != nil {
		return nil, err
	}
	s.logger.Info("report template created", "id", template.ID, "name", template.Name)
	return template, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ReportTemplate, error) {
	return s.templates.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, category string) ([]*ReportTemplate, error) {
	return s.templates.List(ctx, category)
}

// Update replaces a template revision. The template's UpdatedAt must be the
// one the caller originally read: a concurrent edit in between surfaces as a
// conflict instead of silently winning by being last.
func (s *Service) Update(ctx context.Context, template *ReportTemplate) (*ReportTemplate, error) {
	if err := s.validateTemplate(template); err != nil {
		return nil, err
	}
	expected := template.UpdatedAt
	template.UpdatedAt = time.Now().UTC()

	if err := s.templates.Update(ctx, template, expected); err != nil {
		return nil, err
	}
	s.logger.Info("report template updated", "id", template.ID)
	return template, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("report template deleted", "id", id)
	return nil
}

// Run executes a template. Ad hoc filters are additive, they narrow the
// stored filters and never replace them.
func (s *Service) Run(ctx context.Context, templateID string, adHocFilters []types.FilterCondition) (*types.ReportRunResult, error) {
	template, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}

	filters := make([]types.FilterCondition, 0, len(template.Filters)+len(adHocFilters))
	filters = append(filters, template.Filters...)
	filters = append(filters, adHocFilters...)

	// Compile once; the same predicate backs both the count and the fetch.
	predicate, err := query.Compile(storeResolver{template}, filters, nil)
	if err != nil {
		return nil, err
	}

	info := &db.FindInfo{
		Collection: template.Fields[0].Table,
		Predicate:  predicate,
		Columns:    storeColumns(template),
		Relations:  relatedTables(template),
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

	raw, err := s.store.Find(ctx, info)
	if err != nil {
		return nil, apierrors.NewStoreError("report data query failed", err)
	}
	counted := <-countCh
	if counted.err != nil {
		return nil, apierrors.NewStoreError("report count query failed", counted.err)
	}

	rows := projectRows(template, raw)

	groups, err := groupSpecs(template.Groups)
	if err != nil {
		return nil, err
	}
	rows = query.Aggregate(rows, groups)

	if len(template.Sorts) > 0 {
		orders, err := query.NormalizeSort(rowResolver{template}, template.Sorts)
		if err != nil {
			return nil, err
		}
		query.SortRows(rows, orders)
	}

	s.formatRows(template, rows)

	return &types.ReportRunResult{
		Template:     template,
		Data:         rows,
		TotalRecords: counted.total,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// AvailableFields describes every column of every collection as a candidate
// report field, for clients building a report designer.
func (s *Service) AvailableFields() []ReportField {
	fields := make([]ReportField, 0)
	for _, name := range s.registry.Names() {
		collection, _ := s.registry.Collection(name)
		for _, column := range collection.Columns() {
			fields = append(fields, ReportField{
				ID:     name + "." + column.Name,
				Name:   column.Name,
				Type:   column.Type,
				Table:  name,
				Column: column.Name,
			})
		}
	}
	return fields
}

// OperatorsByType lists the legal filter operators per field type.
func (s *Service) OperatorsByType() map[schema.FieldType][]query.Operator {
	return query.OperatorsByType()
}

func (s *Service) validateTemplate(template *ReportTemplate) error {
	if err := validate.Struct(template); err != nil {
		return apierrors.TranslateValidatorError(err, trans)
	}

	for _, group := range template.Groups {
		if _, ok := template.Field(group.Field); !ok {
			return apierrors.NewValidationError(fmt.Sprintf(
				"group field '%s' is not part of the template projection", group.Field))
		}
		if _, err := query.ParseAggregation(group.Aggregation); err != nil {
			return apierrors.NewValidationError(err.Error())
		}
	}
	for _, spec := range template.Sorts {
		if _, ok := template.Field(spec.Field); !ok {
			return apierrors.NewValidationError(fmt.Sprintf(
				"sort field '%s' is not part of the template projection", spec.Field))
		}
	}
	// A template with invalid stored filters should fail at save time, not
	// on the first run.
	if _, err := query.Compile(storeResolver{template}, template.Filters, nil); err != nil {
		return err
	}
	return nil
}

// formatRows renders every projected cell, absent and nil cells included,
// so each output row carries one formatted string per template field.
func (s *Service) formatRows(template *ReportTemplate, rows []types.Row) {
	for _, row := range rows {
		for _, field := range template.Fields {
			formatted, err := s.formatter.Format(field.ID, row[field.ID], field.Type)
			if err != nil {
				s.logger.Debug("degrading unformattable cell", "error", err)
			}
			row[field.ID] = formatted
		}
	}
}

// projectRows renames store columns to field ids, the projection alias used
// by grouping, sorting and formatting.
func projectRows(template *ReportTemplate, raw []types.Row) []types.Row {
	rows := make([]types.Row, len(raw))
	for i, source := range raw {
		row := make(types.Row, len(template.Fields))
		for _, field := range template.Fields {
			// Absent columns project as nil so the cell still exists.
			row[field.ID] = source[field.Column]
		}
		rows[i] = row
	}
	return rows
}

func groupSpecs(groups []ReportGroup) ([]query.GroupSpec, error) {
	specs := make([]query.GroupSpec, 0, len(groups))
	for _, group := range groups {
		kind, err := query.ParseAggregation(group.Aggregation)
		if err != nil {
			return nil, apierrors.NewValidationError(err.Error())
		}
		specs = append(specs, query.GroupSpec{Field: group.Field, Agg: kind})
	}
	return specs, nil
}

func storeColumns(template *ReportTemplate) []string {
	seen := make(map[string]bool, len(template.Fields))
	columns := make([]string, 0, len(template.Fields))
	for _, field := range template.Fields {
		if !seen[field.Column] {
			seen[field.Column] = true
			columns = append(columns, field.Column)
		}
	}
	return columns
}

func relatedTables(template *ReportTemplate) []string {
	primary := template.Fields[0].Table
	seen := make(map[string]bool)
	related := make([]string, 0)
	for _, field := range template.Fields {
		if field.Table != primary && !seen[field.Table] {
			seen[field.Table] = true
			related = append(related, field.Table)
		}
	}
	return related
}

// storeResolver resolves template field ids to the stored columns they
// project, for predicates executed by the store.
type storeResolver struct {
	template *ReportTemplate
}

func (r storeResolver) Resolve(field string) (schema.Column, bool) {
	f, ok := r.template.Field(field)
	if !ok {
		return schema.Column{}, false
	}
	return schema.Column{Name: f.Column, Type: f.Type}, true
}

// rowResolver resolves field ids to themselves, for sorting the projected
// (and possibly aggregated) rows, which are keyed by field id.
type rowResolver struct {
	template *ReportTemplate
}

func (r rowResolver) Resolve(field string) (schema.Column, bool) {
	f, ok := r.template.Field(field)
	if !ok {
		return schema.Column{}, false
	}
	return schema.Column{Name: f.ID, Type: f.Type}, true
}
