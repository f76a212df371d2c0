package redis

import (
	"context"
	"os"
	"testing"

	"godev-candidate-bot/internal/storage"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// Runs against the redis named by REDIS_TEST_ADDR; DB 15 is flushed.
type CacheTestSuite struct {
	suite.Suite
	client *goredis.Client
	cache  *Cache
}

func TestCache(t *testing.T) {
	if os.Getenv("REDIS_TEST_ADDR") == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}
	suite.Run(t, new(CacheTestSuite))
}

func (s *CacheTestSuite) SetupSuite() {
	s.client = goredis.NewClient(&goredis.Options{Addr: os.Getenv("REDIS_TEST_ADDR"), DB: 15})
	s.cache = NewWithClient(s.client, zap.NewNop())
}

func (s *CacheTestSuite) TearDownSuite() {
	_ = s.cache.Close()
}

func (s *CacheTestSuite) SetupTest() {
	require.NoError(s.T(), s.client.FlushDB(context.Background()).Err())
}

func (s *CacheTestSuite) TestPort() {
	t := s.T()
	ctx := context.Background()
	port := storage.Namespace(s.cache.Port(ClientStatePrefix), "tg:1")

	_, err := port.Get(ctx, "authUser")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, port.Set(ctx, "authUser", []byte(`{"id":"U1"}`)))
	v, err := port.Get(ctx, "authUser")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"U1"}`, string(v))

	raw, err := s.client.Get(ctx, "state:tg:1:authUser").Result()
	require.NoError(t, err)
	assert.Equal(t, `{"id":"U1"}`, raw)

	require.NoError(t, port.Delete(ctx, "authUser"))
	_, err = port.Get(ctx, "authUser")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func (s *CacheTestSuite) TestRateLimitCounter() {
	t := s.T()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := s.cache.IncrementUserRateLimit(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	ttl, err := s.client.TTL(ctx, RateLimitKey(5)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl.Seconds(), 0.0)
}

func (s *CacheTestSuite) TestPendingApply() {
	t := s.T()
	ctx := context.Background()

	_, err := s.cache.GetPendingApply(ctx, 3)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.cache.SetPendingApply(ctx, 3, PendingApply{JobID: "J1", JobTitle: "Go Dev", CoverLetter: "Oi"}))
	pending, err := s.cache.GetPendingApply(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "J1", pending.JobID)
	assert.Equal(t, "Oi", pending.CoverLetter)

	taken, err := s.cache.TakePendingApply(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "J1", taken.JobID)
	_, err = s.cache.TakePendingApply(ctx, 3)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.cache.SetPendingApply(ctx, 3, PendingApply{JobID: "J1"}))
	require.NoError(t, s.cache.DeletePendingApply(ctx, 3))
	_, err = s.cache.GetPendingApply(ctx, 3)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.cache.SetLastJobIDs(ctx, 3, []string{"J1", "J2"}))
	ids, err := s.cache.GetLastJobIDs(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"J1", "J2"}, ids)
}
