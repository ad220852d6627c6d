package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/raseelhq/reporting-apis/apierrors"
)

// templateRecord is the persisted shape: the queryable columns are
// materialized, the template body travels as JSON.
type templateRecord struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"index"`
	Category  string `gorm:"index"`
	CreatedBy string
	IsPublic  bool
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

func (templateRecord) TableName() string {
	return "report_templates"
}

// GormTemplateStore persists templates in a SQLite database via GORM.
type GormTemplateStore struct {
	db *gorm.DB
}

func NewGormTemplateStore(path string) (*GormTemplateStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&templateRecord{}); err != nil {
		return nil, err
	}
	return &GormTemplateStore{db: db}, nil
}

func (s *GormTemplateStore) Insert(ctx context.Context, template *ReportTemplate) error {
	record, err := toRecord(template)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		return apierrors.NewStoreError("failed to insert template", result.Error)
	}
	return nil
}

func (s *GormTemplateStore) Get(ctx context.Context, id string) (*ReportTemplate, error) {
	var record templateRecord
	result := s.db.WithContext(ctx).First(&record, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("template '%s' does not exist", id))
	}
	if result.Error != nil {
		return nil, apierrors.NewStoreError("failed to load template", result.Error)
	}
	return fromRecord(&record)
}

func (s *GormTemplateStore) List(ctx context.Context, category string) ([]*ReportTemplate, error) {
	var records []templateRecord
	tx := s.db.WithContext(ctx).Order("name")
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	if err := tx.Find(&records).Error; err != nil {
		return nil, apierrors.NewStoreError("failed to list templates", err)
	}

	templates := make([]*ReportTemplate, 0, len(records))
	for i := range records {
		template, err := fromRecord(&records[i])
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, nil
}

func (s *GormTemplateStore) Update(ctx context.Context, template *ReportTemplate, expectedUpdatedAt time.Time) error {
	record, err := toRecord(template)
	if err != nil {
		return err
	}

	// Check and set on updatedAt: the write only lands when the stored
	// revision is still the one the caller read.
	result := s.db.WithContext(ctx).
		Model(&templateRecord{}).
		Where("id = ? AND updated_at = ?", template.ID, expectedUpdatedAt).
		Updates(map[string]interface{}{
			"name":       record.Name,
			"category":   record.Category,
			"is_public":  record.IsPublic,
			"body":       record.Body,
			"updated_at": record.UpdatedAt,
		})
	if result.Error != nil {
		return apierrors.NewStoreError("failed to update template", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&templateRecord{}).
			Where("id = ?", template.ID).Count(&count).Error; err != nil {
			return apierrors.NewStoreError("failed to update template", err)
		}
		if count == 0 {
			return apierrors.NewNotFoundError(fmt.Sprintf("template '%s' does not exist", template.ID))
		}
		return apierrors.NewConflictError(fmt.Sprintf(
			"template '%s' was modified concurrently", template.ID))
	}
	return nil
}

func (s *GormTemplateStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&templateRecord{}, "id = ?", id)
	if result.Error != nil {
		return apierrors.NewStoreError("failed to delete template", result.Error)
	}
	if result.RowsAffected == 0 {
		return apierrors.NewNotFoundError(fmt.Sprintf("template '%s' does not exist", id))
	}
	return nil
}

func toRecord(template *ReportTemplate) (*templateRecord, error) {
	body, err := json.Marshal(template)
	if err != nil {
		return nil, apierrors.NewStoreError("failed to serialize template", err)
	}
	return &templateRecord{
		ID:        template.ID,
		Name:      template.Name,
		Category:  template.Category,
		CreatedBy: template.CreatedBy,
		IsPublic:  template.IsPublic,
		Body:      string(body),
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}, nil
}

func fromRecord(record *templateRecord) (*ReportTemplate, error) {
	var template ReportTemplate
	if err := json.Unmarshal([]byte(record.Body), &template); err != nil {
		return nil, apierrors.NewStoreError("failed to deserialize template", err)
	}
	template.CreatedAt = record.CreatedAt
	template.UpdatedAt = record.UpdatedAt
	return &template, nil
}
