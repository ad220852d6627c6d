package reports

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/types"
)

// MemTemplateStore keeps templates in memory, primarily for tests and
// single-process deployments without a database file.
type MemTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]*ReportTemplate
}

func NewMemTemplateStore() *MemTemplateStore {
	return &MemTemplateStore{templates: make(map[string]*ReportTemplate)}
}

func (s *MemTemplateStore) Insert(ctx context.Context, template *ReportTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[template.ID]; exists {
		return apierrors.NewConflictError(fmt.Sprintf("template '%s' already exists", template.ID))
	}
	s.templates[template.ID] = cloneTemplate(template)
	return nil
}

func (s *MemTemplateStore) Get(ctx context.Context, id string) (*ReportTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	template, ok := s.templates[id]
	if !ok {
		return nil, apierrors.NewNotFoundError(fmt.Sprintf("template '%s' does not exist", id))
	}
	return cloneTemplate(template), nil
}

func (s *MemTemplateStore) List(ctx context.Context, category string) ([]*ReportTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*ReportTemplate, 0, len(s.templates))
	for _, template := range s.templates {
		if category != "" && template.Category != category {
			continue
		}
		result = append(result, cloneTemplate(template))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *MemTemplateStore) Update(ctx context.Context, template *ReportTemplate, expectedUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.templates[template.ID]
	if !ok {
		return apierrors.NewNotFoundError(fmt.Sprintf("template '%s' does not exist", template.ID))
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return apierrors.NewConflictError(fmt.Sprintf(
			"template '%s' was modified concurrently", template.ID))
	}
	s.templates[template.ID] = cloneTemplate(template)
	return nil
}

// cloneTemplate copies the template and its slices so callers can never
// mutate a stored revision through a shared backing array.
func cloneTemplate(template *ReportTemplate) *ReportTemplate {
	copied := *template
	copied.Fields = append([]ReportField(nil), template.Fields...)
	copied.Filters = append([]types.FilterCondition(nil), template.Filters...)
	copied.Sorts = append([]types.SortSpec(nil), template.Sorts...)
	copied.Groups = append([]ReportGroup(nil), template.Groups...)
	return &copied
}

func (s *MemTemplateStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return apierrors.NewNotFoundError(fmt.Sprintf("template '%s' does not exist", id))
	}
	delete(s.templates, id)
	return nil
}
