package ratelimiter

import (
	"context"
	"errors"
	"mentorship-service/internal/pkg/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestActionLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 2, 9, 0, 10, 0, time.UTC)

	t.Run("allows up to the quota within one window", func(t *testing.T) {
		redis := testutil.NewFakeRedis()
		limiter := NewActionLimiter(redis, zap.NewNop())
		in := &AllowInput{Group: "payout-request", ActorID: "Mentor-1", Window: time.Minute, Quota: 2, Now: now}

		for i := 0; i < 2; i++ {
			out, err := limiter.Allow(ctx, in)
			require.NoError(t, err)
			assert.True(t, out.Allowed)
		}

		out, err := limiter.Allow(ctx, in)
		require.NoError(t, err)
		assert.False(t, out.Allowed)
		assert.Equal(t, 50*time.Second, out.RetryAfter)

		key := "QUOTA:PAYOUT-REQUEST:mentor-1:29540700"
		assert.Equal(t, time.Minute+time.Second, redis.TTLs[key])
	})

	t.Run("next window starts a fresh count", func(t *testing.T) {
		limiter := NewActionLimiter(testutil.NewFakeRedis(), zap.NewNop())
		in := &AllowInput{Group: "dispute-create", ActorID: "mentee-1", Window: time.Minute, Quota: 1, Now: now}

		out, err := limiter.Allow(ctx, in)
		require.NoError(t, err)
		assert.True(t, out.Allowed)

		in.Now = now.Add(time.Minute)
		out, err = limiter.Allow(ctx, in)
		require.NoError(t, err)
		assert.True(t, out.Allowed)
	})

	t.Run("actors are counted separately", func(t *testing.T) {
		limiter := NewActionLimiter(testutil.NewFakeRedis(), zap.NewNop())
		first := &AllowInput{Group: "g", ActorID: "a", Window: time.Hour, Quota: 1, Now: now}
		second := &AllowInput{Group: "g", ActorID: "b", Window: time.Hour, Quota: 1, Now: now}

		out, _ := limiter.Allow(ctx, first)
		assert.True(t, out.Allowed)
		out, _ = limiter.Allow(ctx, second)
		assert.True(t, out.Allowed)
	})

	t.Run("zero quota disables the limit", func(t *testing.T) {
		redis := testutil.NewFakeRedis()
		limiter := NewActionLimiter(redis, zap.NewNop())
		out, err := limiter.Allow(ctx, &AllowInput{Group: "g", ActorID: "a", Now: now})
		require.NoError(t, err)
		assert.True(t, out.Allowed)
		assert.Empty(t, redis.Values)
	})

	t.Run("missing actor is refused", func(t *testing.T) {
		limiter := NewActionLimiter(testutil.NewFakeRedis(), zap.NewNop())
		out, err := limiter.Allow(ctx, &AllowInput{Group: "g", Window: time.Minute, Quota: 3, Now: now})
		require.NoError(t, err)
		assert.False(t, out.Allowed)
	})

	t.Run("redis failure is returned", func(t *testing.T) {
		redis := testutil.NewFakeRedis()
		redis.IncrErr = errors.New("connection refused")
		limiter := NewActionLimiter(redis, zap.NewNop())
		_, err := limiter.Allow(ctx, &AllowInput{Group: "g", ActorID: "a", Window: time.Minute, Quota: 3, Now: now})
		assert.Error(t, err)
	})
}
