// Package generation provides the application layer that turns a
// completed assessment into a persisted diet plan: profile building,
// target calculation and AI meal generation with retry and fallback.
package generation

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/nutriplan/v1/internal/ports/outbound"
	"github.com/nutriplan/v1/pkg/errors"
	"go.uber.org/zap"
)

// ProviderBudget is the per-minute allowance for one provider and model.
type ProviderBudget struct {
	RequestsPerMinute int
	TokensPerMinute   int
}

// RateLimiter enforces rolling one-minute request and token budgets per
// provider/model pair. Counters reset lazily on the first reservation
// after a window elapses.
type RateLimiter struct {
	budget ProviderBudget
	cache  outbound.CacheRepository
	logger *zap.Logger

	mu      sync.Mutex
	windows map[string]*budgetWindow
}

type budgetWindow struct {
	start    time.Time
	requests int
	tokens   int
}

// NewRateLimiter creates a rate limiter. cache may be nil; when set,
// counters are mirrored to it so restarts do not forget recent usage.
func NewRateLimiter(budget ProviderBudget, cache outbound.CacheRepository, logger *zap.Logger) *RateLimiter {
	if budget.RequestsPerMinute <= 0 {
		budget.RequestsPerMinute = 20
	}
	if budget.TokensPerMinute <= 0 {
		budget.TokensPerMinute = 40000
	}
	return &RateLimiter{
		budget:  budget,
		cache:   cache,
		logger:  logger.Named("rate-limiter"),
		windows: map[string]*budgetWindow{},
	}
}

// Reserve claims one request plus an estimated token spend against the
// pair's window. On an exhausted budget it returns a rate limit error
// whose cooldown is the time left in the window, never more than a
// minute.
func (rl *RateLimiter) Reserve(ctx context.Context, provider, model string, estimatedTokens int) error {
	key := provider + ":" + model
	now := time.Now()

	rl.mu.Lock()
	w, ok := rl.windows[key]
	switch {
	case !ok:
		w = rl.seededWindow(ctx, key, now)
		rl.windows[key] = w
	case now.Sub(w.start) >= time.Minute:
		w = &budgetWindow{start: now}
		rl.windows[key] = w
	}

	if w.requests+1 > rl.budget.RequestsPerMinute || w.tokens+estimatedTokens > rl.budget.TokensPerMinute {
		cooldown := time.Minute - now.Sub(w.start)
		if cooldown > time.Minute {
			cooldown = time.Minute
		}
		if cooldown < 0 {
			cooldown = 0
		}
		rl.mu.Unlock()
		rl.logger.Warn("Provider budget exhausted",
			zap.String("provider", provider),
			zap.String("model", model),
			zap.Duration("cooldown", cooldown),
		)
		return errors.NewProviderRateLimitError(provider, cooldown)
	}

	w.requests++
	w.tokens += estimatedTokens
	rl.mu.Unlock()

	rl.mirror(ctx, requestsKey(key), 1)
	rl.mirror(ctx, tokensKey(key), int64(estimatedTokens))
	return nil
}

// RecordUsage adjusts the token count once the real spend is known.
func (rl *RateLimiter) RecordUsage(ctx context.Context, provider, model string, estimatedTokens, actualTokens int) {
	key := provider + ":" + model
	delta := actualTokens - estimatedTokens
	if delta == 0 {
		return
	}

	rl.mu.Lock()
	if w, ok := rl.windows[key]; ok && time.Since(w.start) < time.Minute {
		w.tokens += delta
		if w.tokens < 0 {
			w.tokens = 0
		}
	}
	rl.mu.Unlock()

	rl.mirror(ctx, tokensKey(key), int64(delta))
}

// seededWindow opens a window for a pair this process has not seen yet,
// consulting the mirrored counters so a restart does not forget the
// last minute's spend.
func (rl *RateLimiter) seededWindow(ctx context.Context, key string, now time.Time) *budgetWindow {
	w := &budgetWindow{start: now}
	if rl.cache == nil {
		return w
	}
	w.requests = rl.cachedCounter(ctx, requestsKey(key))
	w.tokens = rl.cachedCounter(ctx, tokensKey(key))
	if w.requests > 0 || w.tokens > 0 {
		rl.logger.Info("Seeded rate limit window from cache",
			zap.String("key", key),
			zap.Int("requests", w.requests),
			zap.Int("tokens", w.tokens),
		)
	}
	return w
}

func (rl *RateLimiter) cachedCounter(ctx context.Context, key string) int {
	data, err := rl.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		return 0
	}
	n, err := strconv.Atoi(string(data))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// mirror bumps a mirrored counter on a best-effort basis. The expiry
// starts when the counter is created, so a mirrored value lives for
// one window.
func (rl *RateLimiter) mirror(ctx context.Context, key string, delta int64) {
	if rl.cache == nil || delta == 0 {
		return
	}
	v, err := rl.cache.IncrementBy(ctx, key, delta)
	if err != nil {
		rl.logger.Debug("Rate limit mirror failed", zap.String("key", key), zap.Error(err))
		return
	}
	if v == delta {
		_ = rl.cache.Expire(ctx, key, time.Minute)
	}
}

func requestsKey(pair string) string { return "ratelimit:" + pair + ":requests" }
func tokensKey(pair string) string   { return "ratelimit:" + pair + ":tokens" }
