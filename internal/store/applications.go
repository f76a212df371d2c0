package store

import (
	"context"
	"sync"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/metrics"
	"godev-candidate-bot/internal/viewmodel"

	"go.uber.org/zap"
)

const DefaultApplicationsLimit = 10

type ApplicationsAPI interface {
	ListApplications(ctx context.Context, q godev.ApplicationsQuery) (*godev.Page[godev.Application], error)
}

type ApplicationsFilters struct {
	Status godev.ApplicationStatus
	JobID  string
}

// ApplicationsStore lists the candidate's applications as table rows, newest first.
type ApplicationsStore struct {
	mu         sync.Mutex
	filters    ApplicationsFilters
	pagination Pagination
	res        *Resource[godev.ApplicationsQuery, godev.Page[viewmodel.Task]]
}

func NewApplicationsStore(api ApplicationsAPI, limit int, logger *zap.Logger, m *metrics.Metrics) *ApplicationsStore {
	if limit <= 0 {
		limit = DefaultApplicationsLimit
	}

	s := &ApplicationsStore{pagination: newPagination(limit)}

	s.res = NewResource(ResourceConfig[godev.ApplicationsQuery, godev.Page[viewmodel.Task]]{
		Name:     "applications",
		Fallback: "Erro ao carregar candidaturas",
		Load: func(ctx context.Context, q godev.ApplicationsQuery) (godev.Page[viewmodel.Task], error) {
			page, err := api.ListApplications(ctx, q)
			if err != nil {
				return godev.Page[viewmodel.Task]{}, err
			}
			return godev.Page[viewmodel.Task]{
				Items: viewmodel.ApplicationsToTasks(page.Items),
				Meta:  page.Meta,
			}, nil
		},
		OnSuccess: func(_ godev.ApplicationsQuery, page godev.Page[viewmodel.Task]) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.pagination.apply(page.Meta)
		},
		Logger:  logger,
		Metrics: m,
	})

	return s
}

func (s *ApplicationsStore) SetStatus(status godev.ApplicationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Status = status
	s.pagination.Page = 1
}

func (s *ApplicationsStore) SetJobID(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.JobID = jobID
	s.pagination.Page = 1
}

func (s *ApplicationsStore) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagination.Page = max(page, 1)
}

func (s *ApplicationsStore) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = ApplicationsFilters{}
	s.pagination.Page = 1
}

func (s *ApplicationsStore) Query() godev.ApplicationsQuery {
	s.mu.Lock()
	defer s.mu.Unlock()

	return godev.ApplicationsQuery{
		Page:      s.pagination.Page,
		Limit:     s.pagination.Limit,
		Status:    s.filters.Status,
		JobID:     s.filters.JobID,
		SortBy:    godev.SortByAppliedAt,
		SortOrder: godev.SortDesc,
	}
}

func (s *ApplicationsStore) Fetch(ctx context.Context) {
	s.res.Fetch(ctx, s.Query())
}

func (s *ApplicationsStore) Filters() ApplicationsFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *ApplicationsStore) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

func (s *ApplicationsStore) State() State[[]viewmodel.Task] {
	return project(s.res.Snapshot(), func(p godev.Page[viewmodel.Task]) []viewmodel.Task { return p.Items })
}

func (s *ApplicationsStore) Tasks() []viewmodel.Task {
	return s.State().Data
}
