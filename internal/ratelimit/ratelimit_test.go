package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestTokenBucketDeniesAfterBurst(t *testing.T) {
	_, client := newRedis(t)
	bucket := NewTokenBucket(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := bucket.Allow(ctx, "quotes:1.2.3.4", 0.01, 3)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := bucket.Allow(ctx, "quotes:1.2.3.4", 0.01, 3)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 3, res.Limit)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	other, err := bucket.Allow(ctx, "quotes:5.6.7.8", 0.01, 3)
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestTokenBucketValidation(t *testing.T) {
	_, client := newRedis(t)
	bucket := NewTokenBucket(client)

	_, err := bucket.Allow(context.Background(), "", 1, 1)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = bucket.Allow(context.Background(), "k", 0, 1)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	var nilBucket *TokenBucket
	_, err = nilBucket.Allow(context.Background(), "k", 1, 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLockerLease(t *testing.T) {
	mr, client := newRedis(t)
	locker := NewLocker(client)
	ctx := context.Background()

	lease, err := locker.TryLock(ctx, "booking:pat@example.com", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, lease)

	second, err := locker.TryLock(ctx, "booking:pat@example.com", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, second)

	require.NoError(t, lease.Release(ctx))
	assert.False(t, mr.Exists("booking:pat@example.com"))

	third, err := locker.TryLock(ctx, "booking:pat@example.com", time.Minute)
	require.NoError(t, err)
	assert.NotNil(t, third)
}

func TestPublicLimiter(t *testing.T) {
	_, client := newRedis(t)
	limiter := newPublicLimiter(client, 0.01, 1, time.Minute)
	ctx := context.Background()

	res, err := limiter.Allow(ctx, "/api/quotes/preview", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.Allow(ctx, "/api/quotes/preview", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	lease, err := limiter.LockSubmission(ctx, " Pat@Example.com ")
	require.NoError(t, err)
	require.NotNil(t, lease)
	again, err := limiter.LockSubmission(ctx, "pat@example.com")
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestNilPublicLimiterAllows(t *testing.T) {
	var limiter *PublicLimiter
	res, err := limiter.Allow(context.Background(), "/api/bookings", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	lease, err := limiter.LockSubmission(context.Background(), "pat@example.com")
	require.NoError(t, err)
	assert.NotNil(t, lease)
	assert.NoError(t, lease.Release(context.Background()))
}
