package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"godev-candidate-bot/internal/storage/memory"
	storagemocks "godev-candidate-bot/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newClock(layout string) *fakeClock {
	t, err := time.ParseInLocation("2006-01-02 15:04", layout, time.Local)
	if err != nil {
		panic(err)
	}
	return &fakeClock{t: t}
}

func TestFreePlanDailyLimit(t *testing.T) {
	ctx := context.Background()
	clock := newClock("2025-03-10 09:00")
	l := New(memory.New(), zap.NewNop(), WithClock(clock.Now))
	free := Plan{}

	assert.Equal(t, Decision{OK: true, Remaining: 1}, l.CanApply(ctx, free))

	l.RegisterApply(ctx, free)
	assert.Equal(t, Decision{OK: false, Remaining: 0}, l.CanApply(ctx, free))

	clock.t = clock.t.Add(14 * time.Hour)
	assert.Equal(t, "2025-03-10", clock.t.Format("2006-01-02"))
	assert.False(t, l.CanApply(ctx, free).OK)

	clock.t = newClock("2025-03-11 00:01").t
	assert.True(t, l.CanApply(ctx, free).OK)
}

func TestRolloverDoesNotClearStorage(t *testing.T) {
	ctx := context.Background()
	port := memory.New()
	require.NoError(t, port.Set(ctx, StorageKey, []byte(`{"dateKey":"2025-03-09","count":5}`)))

	clock := newClock("2025-03-10 08:00")
	l := New(port, zap.NewNop(), WithClock(clock.Now))

	assert.True(t, l.CanApply(ctx, Plan{}).OK)

	raw, err := port.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dateKey":"2025-03-09","count":5}`, string(raw))

	l.RegisterApply(ctx, Plan{})
	raw, err = port.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dateKey":"2025-03-10","count":1}`, string(raw))
}

func TestPremiumBypassesAndDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	port := memory.New()
	l := New(port, zap.NewNop())

	premium := Plan{IsPremium: true}
	for i := 0; i < 5; i++ {
		assert.True(t, l.CanApply(ctx, premium).OK)
		l.RegisterApply(ctx, premium)
	}

	assert.Equal(t, 0, port.Len())
	assert.True(t, l.CanApply(ctx, Plan{}).OK)
}

func TestMalformedRecordReadsAsFresh(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{{{"},
		{name: "wrong shape", raw: `["2025-03-10", 1]`},
		{name: "negative count", raw: `{"dateKey":"2025-03-10","count":-3}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			port := memory.New()
			require.NoError(t, port.Set(ctx, StorageKey, []byte(tc.raw)))

			l := New(port, zap.NewNop(), WithClock(newClock("2025-03-10 10:00").Now))
			assert.Equal(t, Decision{OK: true, Remaining: 1}, l.CanApply(ctx, Plan{}))
		})
	}
}

func TestStorageFailureFailsOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	port := storagemocks.NewMockPort(ctrl)
	boom := errors.New("storage unavailable")

	port.EXPECT().Get(gomock.Any(), StorageKey).Return(nil, boom).AnyTimes()
	port.EXPECT().Set(gomock.Any(), StorageKey, gomock.Any()).Return(boom).Times(1)

	ctx := context.Background()
	l := New(port, zap.NewNop())

	assert.True(t, l.CanApply(ctx, Plan{}).OK)
	l.RegisterApply(ctx, Plan{})
	assert.True(t, l.CanApply(ctx, Plan{}).OK)
}

func TestConfiguredLimit(t *testing.T) {
	ctx := context.Background()
	l := New(memory.New(), zap.NewNop(), WithLimit(3))

	l.RegisterApply(ctx, Plan{})
	assert.Equal(t, Decision{OK: true, Remaining: 2}, l.CanApply(ctx, Plan{}))

	l.RegisterApply(ctx, Plan{})
	l.RegisterApply(ctx, Plan{})
	assert.False(t, l.CanApply(ctx, Plan{}).OK)
	assert.Equal(t, 3, l.Limit())
}
