package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type fakeStore struct {
	mu          sync.Mutex
	users       []models.User
	watched     map[int64][]models.WatchedApplication
	upserted    map[int64][]models.WatchedApplication
	kept        map[int64][]string
	lastChecked []int64
	deleted     []int64
}

func newFakeStore(users ...models.User) *fakeStore {
	return &fakeStore{
		users:    users,
		watched:  make(map[int64][]models.WatchedApplication),
		upserted: make(map[int64][]models.WatchedApplication),
		kept:     make(map[int64][]string),
	}
}

func (s *fakeStore) GetUsersToWatch(_ context.Context, _ time.Duration) ([]models.User, error) {
	return s.users, nil
}

func (s *fakeStore) GetWatchedApplications(_ context.Context, userID int64) ([]models.WatchedApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watched[userID], nil
}

func (s *fakeStore) UpsertWatchedApplications(_ context.Context, userID int64, apps []models.WatchedApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted[userID] = apps
	return nil
}

func (s *fakeStore) PruneWatchedApplications(_ context.Context, userID int64, keepIDs []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kept[userID] = keepIDs
	return 0, nil
}

func (s *fakeStore) UpdateLastCheck(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastChecked = append(s.lastChecked, userID)
	return nil
}

func (s *fakeStore) DeleteUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, userID)
	return nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent map[int64][]string
	err  error
}

func (s *fakeSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.sent == nil {
		s.sent = make(map[int64][]string)
	}
	user := to.(*tele.User)
	s.sent[user.ID] = append(s.sent[user.ID], what.(string))
	return &tele.Message{}, nil
}

type fakeSource map[int64][]godev.Application

func (s fakeSource) Applications(_ context.Context, userID int64) ([]godev.Application, bool, error) {
	apps, ok := s[userID]
	if !ok {
		return nil, false, ErrNoSession
	}
	return apps, true, nil
}

// partialSource returns a list cut short by the page cap.
type partialSource []godev.Application

func (s partialSource) Applications(_ context.Context, _ int64) ([]godev.Application, bool, error) {
	return s, false, nil
}

type fakeLister struct {
	pages   [][]godev.Application
	queries []godev.ApplicationsQuery
}

func (l *fakeLister) ListApplications(_ context.Context, q godev.ApplicationsQuery) (*godev.Page[godev.Application], error) {
	l.queries = append(l.queries, q)
	return &godev.Page[godev.Application]{
		Items: l.pages[q.Page-1],
		Meta:  godev.PaginationMeta{Page: q.Page, Limit: q.Limit, TotalPages: len(l.pages)},
	}, nil
}

func app(id, title string, status godev.ApplicationStatus) godev.Application {
	return godev.Application{ID: id, Status: status, Job: godev.Job{Title: title}}
}

func watched(userID int64, id, title, status string) models.WatchedApplication {
	return models.WatchedApplication{UserID: userID, ApplicationID: id, Status: status, JobTitle: title}
}

func TestDiffStatuses(t *testing.T) {
	prev := []models.WatchedApplication{
		watched(1, "a1", "Go Dev", "PENDING"),
		watched(1, "a2", "SRE", "INTERVIEW"),
	}
	current := []models.WatchedApplication{
		watched(1, "a1", "Go Dev", "UNDER_REVIEW"),
		watched(1, "a2", "SRE", "INTERVIEW"),
		watched(1, "a3", "New", "PENDING"),
	}

	changes := DiffStatuses(prev, current)
	require.Len(t, changes, 1)
	assert.Equal(t, models.StatusChange{
		ApplicationID: "a1",
		JobTitle:      "Go Dev",
		From:          "PENDING",
		To:            "UNDER_REVIEW",
	}, changes[0])

	assert.Empty(t, DiffStatuses(nil, current))
}

func TestCheckAllNotifiesChanges(t *testing.T) {
	st := newFakeStore(models.User{ID: 1}, models.User{ID: 2})
	st.watched[1] = []models.WatchedApplication{
		watched(1, "a1", "Backend Go", "PENDING"),
		watched(1, "gone", "Old", "PENDING"),
	}
	sender := &fakeSender{}
	source := fakeSource{
		1: {app("a1", "Backend Go", godev.StatusInterview), app("a2", "Platform", godev.StatusPending)},
	}

	w := New(sender, st, source, time.Minute, nil, zap.NewNop())
	w.CheckAll(context.Background())

	require.Len(t, sender.sent[1], 1)
	assert.Contains(t, sender.sent[1][0], "Backend Go")
	assert.Contains(t, sender.sent[1][0], "Entrevista")
	assert.Empty(t, sender.sent[2])

	require.Len(t, st.upserted[1], 2)
	assert.Equal(t, "INTERVIEW", st.upserted[1][0].Status)
	assert.Equal(t, []string{"a1", "a2"}, st.kept[1])

	// user 2 has no session
	assert.Equal(t, []int64{1}, st.lastChecked)
	assert.Empty(t, st.deleted)
}

func TestCheckAllRetriesUnsentChange(t *testing.T) {
	st := newFakeStore(models.User{ID: 1})
	st.watched[1] = []models.WatchedApplication{watched(1, "a1", "Backend Go", "PENDING")}
	sender := &fakeSender{err: errors.New("telegram: internal server error")}
	source := fakeSource{1: {app("a1", "Backend Go", godev.StatusApproved)}}

	w := New(sender, st, source, time.Minute, nil, zap.NewNop())
	w.CheckAll(context.Background())

	require.Len(t, st.upserted[1], 1)
	assert.Equal(t, "PENDING", st.upserted[1][0].Status)
}

func TestCheckAllDeletesBlockedUser(t *testing.T) {
	st := newFakeStore(models.User{ID: 7})
	st.watched[7] = []models.WatchedApplication{watched(7, "a1", "Backend Go", "PENDING")}
	sender := &fakeSender{err: tele.ErrBlockedByUser}
	source := fakeSource{7: {app("a1", "Backend Go", godev.StatusRejected)}}

	w := New(sender, st, source, time.Minute, nil, zap.NewNop())
	w.CheckAll(context.Background())

	assert.Equal(t, []int64{7}, st.deleted)
	assert.Empty(t, st.upserted[7])
	assert.Empty(t, st.lastChecked)
}

func TestListAllApplicationsWalksPages(t *testing.T) {
	lister := &fakeLister{pages: [][]godev.Application{
		{app("a1", "Go Dev", godev.StatusPending), app("a2", "SRE", godev.StatusPending)},
		{app("a3", "Platform", godev.StatusInterview)},
	}}

	apps, complete, err := listAllApplications(context.Background(), lister, maxWatchPages)
	require.NoError(t, err)
	assert.True(t, complete)
	require.Len(t, apps, 3)
	assert.Equal(t, "a3", apps[2].ID)

	require.Len(t, lister.queries, 2)
	assert.Equal(t, 2, lister.queries[1].Page)
	assert.Equal(t, watchPageLimit, lister.queries[1].Limit)
	assert.Equal(t, godev.SortByAppliedAt, lister.queries[1].SortBy)
}

func TestListAllApplicationsStopsAtPageCap(t *testing.T) {
	lister := &fakeLister{pages: [][]godev.Application{
		{app("a1", "Go Dev", godev.StatusPending)},
		{app("a2", "SRE", godev.StatusPending)},
		{app("a3", "Platform", godev.StatusPending)},
	}}

	apps, complete, err := listAllApplications(context.Background(), lister, 2)
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Len(t, apps, 2)
	assert.Len(t, lister.queries, 2)
}

func TestCheckAllKeepsWatchedRowsOnPartialList(t *testing.T) {
	st := newFakeStore(models.User{ID: 1})
	st.watched[1] = []models.WatchedApplication{
		watched(1, "a1", "Backend Go", "PENDING"),
		watched(1, "old", "Legacy", "PENDING"),
	}
	sender := &fakeSender{}
	source := partialSource{app("a1", "Backend Go", godev.StatusInterview)}

	w := New(sender, st, source, time.Minute, nil, zap.NewNop())
	w.CheckAll(context.Background())

	require.Len(t, sender.sent[1], 1)
	require.Len(t, st.upserted[1], 1)
	_, pruned := st.kept[1]
	assert.False(t, pruned)
	assert.Equal(t, []int64{1}, st.lastChecked)
}
