package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/venuebook/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	keyPublicClient     = "venuebook:rl:%s:%s"
	keyBookingSubmitter = "venuebook:lock:booking:%s"

	defaultSubmitLockTTL = 15 * time.Second
)

// PublicLimiter throttles the unauthenticated quote and booking endpoints per
// client and guards against duplicate booking submissions. A nil limiter
// allows everything.
type PublicLimiter struct {
	bucket        *TokenBucket
	locker        *Locker
	rate          float64
	burst         int
	submitLockTTL time.Duration
}

type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config config.Config
	Log    *zap.Logger
}

func NewPublicLimiter(p Params) (*PublicLimiter, error) {
	cfg := p.Config.RateLimit
	if !cfg.Enabled {
		p.Log.Info("public rate limiting disabled")
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if cfg.PublicRate <= 0 || cfg.PublicBurst <= 0 {
		return nil, ErrInvalidLimit
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				p.Log.Warn("rate limit redis unreachable, requests will fail open", zap.String("addr", addr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return newPublicLimiter(client, cfg.PublicRate, cfg.PublicBurst, defaultSubmitLockTTL), nil
}

func newPublicLimiter(client *redis.Client, rate float64, burst int, lockTTL time.Duration) *PublicLimiter {
	return &PublicLimiter{
		bucket:        NewTokenBucket(client),
		locker:        NewLocker(client),
		rate:          rate,
		burst:         burst,
		submitLockTTL: lockTTL,
	}
}

func (l *PublicLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow spends one request token for client on endpoint.
func (l *PublicLimiter) Allow(ctx context.Context, endpoint, client string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyPublicClient, strings.TrimSpace(endpoint), strings.TrimSpace(client))
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}

// LockSubmission holds a short lease per contact email so a double-submitted
// booking form creates one booking. A nil lease with a nil error means a
// submission is already in flight.
func (l *PublicLimiter) LockSubmission(ctx context.Context, email string) (*Lease, error) {
	if !l.Enabled() {
		return &Lease{}, nil
	}
	key := fmt.Sprintf(keyBookingSubmitter, strings.ToLower(strings.TrimSpace(email)))
	return l.locker.TryLock(ctx, key, l.submitLockTTL)
}
