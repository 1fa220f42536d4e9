package ratelimiter

import (
	"context"
	"fmt"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ActionLimiter is a fixed-window counter in Redis, keyed by action group and actor.
// Windows are aligned to the unix epoch so every instance agrees on the boundaries.
type ActionLimiter struct {
	redis contracts.RedisRepository
	log   *zap.Logger
}

func NewActionLimiter(redis contracts.RedisRepository, log *zap.Logger) *ActionLimiter {
	return &ActionLimiter{redis: redis, log: log}
}

type AllowInput struct {
	// Group namespaces the counter, e.g. "payout-request".
	Group   string
	ActorID string
	Window  time.Duration
	// Quota <= 0 disables the limit.
	Quota int
	Now   time.Time
}

type AllowOutput struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Allow counts one attempt and reports whether it fits in the current window.
func (l *ActionLimiter) Allow(ctx context.Context, in *AllowInput) (*AllowOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("nil input")
	}
	if in.Quota <= 0 {
		return &AllowOutput{Allowed: true}, nil
	}

	window := in.Window
	if window < time.Second {
		window = time.Minute
	}
	group := strings.ToUpper(strings.TrimSpace(in.Group))
	actor := strings.ToLower(strings.TrimSpace(in.ActorID))
	if group == "" || actor == "" {
		return &AllowOutput{Allowed: false, RetryAfter: window}, nil
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	windowSecs := int64(window / time.Second)
	windowID := now.Unix() / windowSecs
	key := fmt.Sprintf("QUOTA:%s:%s:%d", group, actor, windowID)

	count, err := l.redis.IncrementWithTTL(ctx, key, window+time.Second)
	if err != nil {
		l.log.Error("ActionLimiter.Allow increment failed",
			zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(ctx)),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}

	if count > int64(in.Quota) {
		nextWindow := time.Unix((windowID+1)*windowSecs, 0)
		return &AllowOutput{Allowed: false, RetryAfter: nextWindow.Sub(now)}, nil
	}
	return &AllowOutput{Allowed: true}, nil
}
