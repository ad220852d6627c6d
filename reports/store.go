package reports

import (
	"context"
	"time"
)

// TemplateStore persists report templates. Updates carry the expected
// updatedAt timestamp of the revision being replaced; a store must reject
// the write with a conflict when the stored revision has moved on.
type TemplateStore interface {
	Insert(ctx context.Context, template *ReportTemplate) error
	Get(ctx context.Context, id string) (*ReportTemplate, error)
	// List returns templates, optionally restricted to one category.
	List(ctx context.Context, category string) ([]*ReportTemplate, error)
	Update(ctx context.Context, template *ReportTemplate, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
