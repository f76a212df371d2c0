package store

import (
	"context"
	"io"
	"sync"

	"godev-candidate-bot/internal/api/godev"
)

type fakeJobs struct {
	mu      sync.Mutex
	calls   []godev.JobsQuery
	started chan godev.JobsQuery
	gates   map[string]chan struct{}
	pages   map[string]*godev.Page[godev.Job]
	err     error
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{
		started: make(chan godev.JobsQuery, 16),
		gates:   make(map[string]chan struct{}),
		pages:   make(map[string]*godev.Page[godev.Job]),
	}
}

// hold makes requests with search block until the returned func is called.
func (f *fakeJobs) hold(search string) func() {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[search] = ch
	f.mu.Unlock()
	return func() { close(ch) }
}

func (f *fakeJobs) respond(search string, page *godev.Page[godev.Job]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[search] = page
}

func (f *fakeJobs) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeJobs) ListJobs(_ context.Context, q godev.JobsQuery) (*godev.Page[godev.Job], error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	gate := f.gates[q.Search]
	f.mu.Unlock()

	f.started <- q
	if gate != nil {
		// responds late even when cancelled, like a slow server
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if page, ok := f.pages[q.Search]; ok {
		return page, nil
	}
	return &godev.Page[godev.Job]{Meta: godev.PaginationMeta{Page: q.Page, Limit: q.Limit, TotalPages: 1}}, nil
}

type fakeApplications struct {
	mu    sync.Mutex
	calls []godev.ApplicationsQuery
	page  *godev.Page[godev.Application]
	err   error
}

func (f *fakeApplications) ListApplications(_ context.Context, q godev.ApplicationsQuery) (*godev.Page[godev.Application], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

type fakeResumes struct {
	mu        sync.Mutex
	listCalls int
	uploads   []string
	deletes   []string
	page      *godev.Page[godev.Resume]
	created   *godev.Resume
	err       error
}

func (f *fakeResumes) ListResumes(_ context.Context, page, limit int) (*godev.Page[godev.Resume], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeResumes) UploadResume(_ context.Context, filename, _ string, content io.Reader) (*godev.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename)
	if _, err := io.ReadAll(content); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

func (f *fakeResumes) DeleteResume(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.err
}

type fakeDashboard struct {
	overview *godev.ApplicationsOverview
	err      error
}

func (f *fakeDashboard) ApplicationsOverview(context.Context) (*godev.ApplicationsOverview, error) {
	return f.overview, f.err
}
