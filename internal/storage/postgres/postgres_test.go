package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"godev-candidate-bot/internal/models"
	"godev-candidate-bot/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// Runs against a throwaway database named by POSTGRES_TEST_DSN.
type StoreTestSuite struct {
	suite.Suite
	store *Store
}

func TestStore(t *testing.T) {
	if os.Getenv("POSTGRES_TEST_DSN") == "" {
		t.Skip("POSTGRES_TEST_DSN is not set")
	}
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupSuite() {
	store, err := New(os.Getenv("POSTGRES_TEST_DSN"), zap.NewNop())
	require.NoError(s.T(), err)
	require.NoError(s.T(), store.Migrate(context.Background()))
	s.store = store
}

func (s *StoreTestSuite) TearDownSuite() {
	_ = s.store.Close()
}

func (s *StoreTestSuite) SetupTest() {
	_, err := s.store.conn.Exec("TRUNCATE users, user_filters, watched_applications, client_state")
	require.NoError(s.T(), err)
}

func (s *StoreTestSuite) TestKV() {
	t := s.T()
	ctx := context.Background()
	port := storage.Namespace(s.store.KV(), "tg:42")

	_, err := port.Get(ctx, "accessToken")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, port.Set(ctx, "accessToken", []byte(`"a"`)))
	require.NoError(t, port.Set(ctx, "accessToken", []byte(`"b"`)))

	v, err := port.Get(ctx, "accessToken")
	require.NoError(t, err)
	assert.Equal(t, `"b"`, string(v))

	require.NoError(t, port.Delete(ctx, "accessToken"))
	_, err = port.Get(ctx, "accessToken")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func (s *StoreTestSuite) TestUsersAndWatch() {
	t := s.T()
	ctx := context.Background()

	name := "ana"
	user, err := s.store.GetOrCreateUser(ctx, &models.User{ID: 7, Username: &name})
	require.NoError(t, err)
	assert.False(t, user.WatchEnabled)

	require.NoError(t, s.store.SetWatchEnabled(ctx, 7, true))
	require.NoError(t, s.store.SetPremium(ctx, 7, true))

	premium, err := s.store.IsPremium(ctx, 7)
	require.NoError(t, err)
	assert.True(t, premium)

	users, err := s.store.GetUsersToWatch(ctx, time.Minute)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, s.store.UpdateLastCheck(ctx, 7))
	users, err = s.store.GetUsersToWatch(ctx, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func (s *StoreTestSuite) TestFiltersAndWatchedApplications() {
	t := s.T()
	ctx := context.Background()

	_, err := s.store.GetOrCreateUser(ctx, &models.User{ID: 9})
	require.NoError(t, err)

	require.NoError(t, s.store.SaveFilters(ctx, 9, map[string]string{
		models.FilterTypeSearch:    "golang",
		models.FilterTypeWorkModel: "REMOTE",
		models.FilterTypeLocation:  "",
	}))

	filters, err := s.store.GetFiltersMap(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"search": "golang", "work_model": "REMOTE"}, filters)

	require.NoError(t, s.store.UpsertWatchedApplications(ctx, 9, []models.WatchedApplication{
		{ApplicationID: "A1", Status: "PENDING", JobTitle: "Go Dev"},
		{ApplicationID: "A2", Status: "INTERVIEW", JobTitle: "SRE"},
	}))

	pruned, err := s.store.PruneWatchedApplications(ctx, 9, []string{"A1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	watched, err := s.store.GetWatchedApplications(ctx, 9)
	require.NoError(t, err)
	require.Len(t, watched, 1)
	assert.Equal(t, "A1", watched[0].ApplicationID)
}
