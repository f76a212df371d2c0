package store

import (
	"context"
	"sync"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/metrics"

	"go.uber.org/zap"
)

const DefaultJobsLimit = 10

type JobsAPI interface {
	ListJobs(ctx context.Context, q godev.JobsQuery) (*godev.Page[godev.Job], error)
}

// JobsFilters uses zero values for "not set".
type JobsFilters struct {
	CompanyID      string
	Search         string
	EmploymentType godev.EmploymentType
	WorkModel      godev.WorkModel
	Location       string
	MinSalary      float64
	MaxSalary      float64
	SortBy         godev.JobsSortBy
	SortOrder      godev.SortOrder
}

func DefaultJobsFilters() JobsFilters {
	return JobsFilters{
		SortBy:    godev.SortByCreatedAt,
		SortOrder: godev.SortDesc,
	}
}

type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func newPagination(limit int) Pagination {
	return Pagination{Page: 1, Limit: limit, TotalPages: 1}
}

func (p *Pagination) apply(meta godev.PaginationMeta) {
	p.Page = meta.Page
	p.Limit = meta.Limit
	p.Total = meta.Total
	p.TotalPages = meta.TotalPages
}

// JobsStore lists job openings. Filter setters never fetch; call Fetch.
type JobsStore struct {
	mu         sync.Mutex
	filters    JobsFilters
	pagination Pagination
	res        *Resource[godev.JobsQuery, godev.Page[godev.Job]]
}

func NewJobsStore(api JobsAPI, limit int, logger *zap.Logger, m *metrics.Metrics) *JobsStore {
	if limit <= 0 {
		limit = DefaultJobsLimit
	}

	s := &JobsStore{
		filters:    DefaultJobsFilters(),
		pagination: newPagination(limit),
	}

	s.res = NewResource(ResourceConfig[godev.JobsQuery, godev.Page[godev.Job]]{
		Name:     "jobs",
		Fallback: "Erro ao carregar vagas",
		Load: func(ctx context.Context, q godev.JobsQuery) (godev.Page[godev.Job], error) {
			page, err := api.ListJobs(ctx, q)
			if err != nil {
				return godev.Page[godev.Job]{}, err
			}
			return *page, nil
		},
		OnSuccess: func(_ godev.JobsQuery, page godev.Page[godev.Job]) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.pagination.apply(page.Meta)
		},
		Logger:  logger,
		Metrics: m,
	})

	return s
}

// SetFilters applies update to the current filters and returns to page 1.
func (s *JobsStore) SetFilters(update func(f *JobsFilters)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.filters)
	s.pagination.Page = 1
}

func (s *JobsStore) SetCompanyID(companyID string) {
	s.SetFilters(func(f *JobsFilters) { f.CompanyID = companyID })
}

func (s *JobsStore) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagination.Page = max(page, 1)
}

func (s *JobsStore) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = DefaultJobsFilters()
	s.pagination.Page = 1
}

func (s *JobsStore) Query() godev.JobsQuery {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.filters
	return godev.JobsQuery{
		Page:           s.pagination.Page,
		Limit:          s.pagination.Limit,
		CompanyID:      f.CompanyID,
		Search:         f.Search,
		EmploymentType: f.EmploymentType,
		WorkModel:      f.WorkModel,
		Location:       f.Location,
		MinSalary:      f.MinSalary,
		MaxSalary:      f.MaxSalary,
		SortBy:         f.SortBy,
		SortOrder:      f.SortOrder,
	}
}

// Fetch loads the page for the current filters.
func (s *JobsStore) Fetch(ctx context.Context) {
	s.res.Fetch(ctx, s.Query())
}

func (s *JobsStore) Filters() JobsFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *JobsStore) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

func (s *JobsStore) State() State[[]godev.Job] {
	return project(s.res.Snapshot(), func(p godev.Page[godev.Job]) []godev.Job { return p.Items })
}

func (s *JobsStore) Jobs() []godev.Job {
	return s.State().Data
}

// MarkApplied flags a listed job as applied by the current user.
func (s *JobsStore) MarkApplied(jobID string) {
	s.res.Mutate(func(page godev.Page[godev.Job]) godev.Page[godev.Job] {
		items := make([]godev.Job, len(page.Items))
		copy(items, page.Items)
		for i := range items {
			if items[i].ID == jobID {
				items[i].AppliedByCurrentUser = true
			}
		}
		page.Items = items
		return page
	})
}
