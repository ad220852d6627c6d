// Package reports implements persisted report templates and the pipeline
// that runs them: load, merge ad hoc filters, compile, execute, aggregate,
// sort and format.
package reports

import (
	"time"

	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/types"
)

// ReportField is one projected column of a report. ID is the projection
// alias used everywhere downstream (filters, sorts, grouping, formatting);
// Table and Column are the only place the source schema leaks in.
type ReportField struct {
	ID          string           `json:"id" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Type        schema.FieldType `json:"type" validate:"required,oneof=string number date boolean currency"`
	Table       string           `json:"table" validate:"required"`
	Column      string           `json:"column" validate:"required"`
	Aggregation string           `json:"aggregation,omitempty" validate:"omitempty,oneof=sum avg count min max"`
	Format      string           `json:"format,omitempty"`
	DisplayName string           `json:"displayName,omitempty"`
}

// ReportGroup names a field taking part in grouping. Without an aggregation
// the field is a group-by key; with one it is a measure.
type ReportGroup struct {
	Field       string `json:"field" validate:"required"`
	Aggregation string `json:"aggregation,omitempty" validate:"omitempty,oneof=sum avg count min max"`
}

type ReportTemplate struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name" validate:"required"`
	Description string                  `json:"description,omitempty"`
	Category    string                  `json:"category" validate:"required"`
	Fields      []ReportField           `json:"fields" validate:"required,min=1,dive"`
	Filters     []types.FilterCondition `json:"filters,omitempty"`
	Sorts       []types.SortSpec        `json:"sorts,omitempty"`
	Groups      []ReportGroup           `json:"groups,omitempty" validate:"omitempty,dive"`
	Format      string                  `json:"format" validate:"required,oneof=table chart summary"`
	ChartType   string                  `json:"chartType,omitempty"`
	IsPublic    bool                    `json:"isPublic"`
	CreatedBy   string                  `json:"createdBy"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// Field returns the projected field with the given id.
func (t *ReportTemplate) Field(id string) (ReportField, bool) {
	for _, field := range t.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return ReportField{}, false
}
