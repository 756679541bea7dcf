package generation

import (
	"context"
	"math/rand"
	"time"

	"github.com/nutriplan/v1/internal/ports/outbound"
	"github.com/nutriplan/v1/pkg/errors"
	"go.uber.org/zap"
)

// Retry tuning. Backoff doubles per failed attempt; a provider-reported
// rate limit waits out a randomized cooldown without consuming an
// attempt.
const (
	defaultMaxAttempts    = 3
	defaultBaseBackoff    = 2 * time.Second
	defaultAttemptTimeout = 90 * time.Second

	rateLimitCooldownMin = 5 * time.Second
	rateLimitCooldownMax = 15 * time.Second
)

// RetryPolicy controls attempt count, backoff and per-attempt timeout.
type RetryPolicy struct {
	MaxAttempts    int
	BaseBackoff    time.Duration
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy returns the standard provider retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    defaultMaxAttempts,
		BaseBackoff:    defaultBaseBackoff,
		AttemptTimeout: defaultAttemptTimeout,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.BaseBackoff <= 0 {
		p.BaseBackoff = defaultBaseBackoff
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = defaultAttemptTimeout
	}
	return p
}

// generateWithRetry runs one day's generation against the provider under
// the retry policy. Rate limit errors sleep out their cooldown and retry
// the same attempt; transient errors consume an attempt and back off
// 2s, 4s, 8s. A slow attempt is cancelled at the attempt timeout and
// counts as failed.
func generateWithRetry(
	ctx context.Context,
	provider outbound.MealProvider,
	req outbound.MealGenerationRequest,
	policy RetryPolicy,
	logger *zap.Logger,
) ([]outbound.GeneratedMeal, error) {
	policy = policy.normalized()

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, policy.AttemptTimeout)
		meals, err := provider.GenerateMealsForDay(attemptCtx, req)
		cancel()

		if err == nil {
			return meals, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if errors.Is(err, errors.CodeProviderRateLimited) {
			cooldown := rateLimitCooldown(err)
			logger.Warn("Provider rate limited, cooling down",
				zap.String("provider", provider.Name()),
				zap.String("day", req.DayOfWeek),
				zap.Duration("cooldown", cooldown),
			)
			if err := sleepCtx(ctx, cooldown); err != nil {
				return nil, err
			}
			// Cooldowns do not consume attempts.
			attempt--
			continue
		}

		if !errors.IsRetryable(err) {
			return nil, err
		}

		if attempt < policy.MaxAttempts {
			backoff := policy.BaseBackoff << (attempt - 1)
			logger.Warn("Provider attempt failed, backing off",
				zap.String("provider", provider.Name()),
				zap.String("day", req.DayOfWeek),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
		}
	}

	return nil, errors.NewProviderFatalError(provider.Name(), policy.MaxAttempts, lastErr)
}

// rateLimitCooldown picks the wait for a rate limited response: the
// limiter's reported cooldown when present, otherwise a random 5-15s.
func rateLimitCooldown(err error) time.Duration {
	if appErr, ok := err.(*errors.AppError); ok {
		if v, found := appErr.Metadata["cooldown_seconds"]; found {
			switch secs := v.(type) {
			case int:
				if secs > 0 {
					return time.Duration(secs) * time.Second
				}
			case float64:
				if secs > 0 {
					return time.Duration(secs * float64(time.Second))
				}
			}
		}
	}
	spread := rateLimitCooldownMax - rateLimitCooldownMin
	return rateLimitCooldownMin + time.Duration(rand.Int63n(int64(spread)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
