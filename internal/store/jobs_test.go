package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"godev-candidate-bot/internal/api/godev"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitStarted(t *testing.T, f *fakeJobs) godev.JobsQuery {
	t.Helper()
	select {
	case q := <-f.started:
		return q
	case <-time.After(2 * time.Second):
		t.Fatal("request was not sent")
		return godev.JobsQuery{}
	}
}

func TestJobsFetchGuardSendsOneRequest(t *testing.T) {
	api := newFakeJobs()
	release := api.hold("")
	s := NewJobsStore(api, 10, zap.NewNop(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Fetch(ctx)
	}()
	waitStarted(t, api)
	assert.True(t, s.State().Loading)

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Fetch(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	release()
	wg.Wait()

	assert.Equal(t, 1, api.callCount())
	st := s.State()
	assert.False(t, st.Loading)
	assert.True(t, st.FetchedOnce)
}

func TestJobsFiltersResetPage(t *testing.T) {
	s := NewJobsStore(newFakeJobs(), 10, zap.NewNop(), nil)

	s.SetPage(4)
	assert.Equal(t, 4, s.Pagination().Page)

	s.SetFilters(func(f *JobsFilters) { f.Search = "x" })
	assert.Equal(t, 1, s.Pagination().Page)
	assert.Equal(t, "x", s.Filters().Search)

	s.SetPage(3)
	s.SetCompanyID("C1")
	assert.Equal(t, 1, s.Pagination().Page)

	s.SetPage(0)
	assert.Equal(t, 1, s.Pagination().Page)

	s.SetPage(2)
	s.ResetFilters()
	assert.Equal(t, 1, s.Pagination().Page)
	assert.Equal(t, DefaultJobsFilters(), s.Filters())
}

func TestJobsSettersDoNotFetch(t *testing.T) {
	api := newFakeJobs()
	s := NewJobsStore(api, 10, zap.NewNop(), nil)

	s.SetFilters(func(f *JobsFilters) { f.WorkModel = godev.WorkModelRemote })
	s.SetPage(2)
	s.ResetFilters()

	assert.Equal(t, 0, api.callCount())
}

func TestJobsFetchBuildsQueryAndUpdatesPagination(t *testing.T) {
	api := newFakeJobs()
	api.respond("golang", &godev.Page[godev.Job]{
		Items: []godev.Job{{ID: "J1"}, {ID: "J2"}},
		Meta:  godev.PaginationMeta{Total: 12, Page: 2, Limit: 5, TotalPages: 3},
	})
	s := NewJobsStore(api, 5, zap.NewNop(), nil)

	s.SetFilters(func(f *JobsFilters) {
		f.Search = "golang"
		f.MinSalary = 4000
	})
	s.SetPage(2)
	s.Fetch(context.Background())

	q := waitStarted(t, api)
	assert.Equal(t, godev.JobsQuery{
		Page:      2,
		Limit:     5,
		Search:    "golang",
		MinSalary: 4000,
		SortBy:    godev.SortByCreatedAt,
		SortOrder: godev.SortDesc,
	}, q)

	assert.Equal(t, Pagination{Page: 2, Limit: 5, Total: 12, TotalPages: 3}, s.Pagination())
	assert.Len(t, s.Jobs(), 2)

	s.MarkApplied("J2")
	assert.True(t, s.Jobs()[1].AppliedByCurrentUser)
	assert.False(t, s.Jobs()[0].AppliedByCurrentUser)
}

func TestJobsFailureKeepsData(t *testing.T) {
	api := newFakeJobs()
	api.respond("", &godev.Page[godev.Job]{Items: []godev.Job{{ID: "J1"}}, Meta: godev.PaginationMeta{Page: 1, Limit: 10, Total: 1, TotalPages: 1}})
	s := NewJobsStore(api, 10, zap.NewNop(), nil)
	ctx := context.Background()

	s.Fetch(ctx)
	require.Len(t, s.Jobs(), 1)

	api.mu.Lock()
	api.err = &godev.APIError{Status: 503, Message: "Serviço indisponível"}
	api.mu.Unlock()

	s.Fetch(ctx)
	st := s.State()
	assert.Equal(t, "Serviço indisponível", st.Error)
	assert.False(t, st.Loading)
	assert.Len(t, st.Data, 1)

	api.mu.Lock()
	api.err = context.DeadlineExceeded
	api.mu.Unlock()

	s.Fetch(ctx)
	assert.Equal(t, "Erro ao carregar vagas", s.State().Error)
}

func TestJobsSupersededResponseIsDiscarded(t *testing.T) {
	api := newFakeJobs()
	releaseFirst := api.hold("first")
	api.respond("first", &godev.Page[godev.Job]{
		Items: []godev.Job{{ID: "stale"}},
		Meta:  godev.PaginationMeta{Total: 40, Page: 1, Limit: 10, TotalPages: 4},
	})
	api.respond("latest", &godev.Page[godev.Job]{
		Items: []godev.Job{{ID: "fresh"}},
		Meta:  godev.PaginationMeta{Total: 1, Page: 1, Limit: 10, TotalPages: 1},
	})

	s := NewJobsStore(api, 10, zap.NewNop(), nil)
	ctx := context.Background()

	s.SetFilters(func(f *JobsFilters) { f.Search = "first" })
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Fetch(ctx)
	}()
	waitStarted(t, api)

	s.SetFilters(func(f *JobsFilters) { f.Search = "second" })
	s.SetFilters(func(f *JobsFilters) { f.Search = "latest" })
	s.Fetch(ctx)
	waitStarted(t, api)

	releaseFirst()
	<-done

	st := s.State()
	require.Len(t, st.Data, 1)
	assert.Equal(t, "fresh", st.Data[0].ID)
	assert.False(t, st.Loading)
	assert.Equal(t, Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1}, s.Pagination())
	assert.Equal(t, 2, api.callCount())
}
