package generation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nutriplan/v1/internal/ports/outbound"
	"github.com/nutriplan/v1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRetryTransientErrorsConsumeAttempts(t *testing.T) {
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		return nil, errors.NewProviderTransientError("stub", fmt.Errorf("attempt %d", call))
	}}

	_, err := generateWithRetry(context.Background(), provider, outbound.MealGenerationRequest{DayOfWeek: "monday"}, RetryPolicy{
		MaxAttempts:    3,
		BaseBackoff:    time.Millisecond,
		AttemptTimeout: time.Second,
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Equal(t, errors.CodeProviderFatal, errors.GetCode(err))
	assert.Equal(t, 3, provider.callCount())
}

func TestRetryFatalErrorStopsImmediately(t *testing.T) {
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		return nil, errors.NewAppError(errors.CodeProviderFatal, "invalid api key", "")
	}}

	_, err := generateWithRetry(context.Background(), provider, outbound.MealGenerationRequest{DayOfWeek: "monday"}, RetryPolicy{
		MaxAttempts:    3,
		BaseBackoff:    time.Millisecond,
		AttemptTimeout: time.Second,
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Equal(t, 1, provider.callCount())
}

func TestRetryRateLimitDoesNotConsumeAttempts(t *testing.T) {
	// two rate-limit responses with a tiny cooldown hint, then exactly
	// MaxAttempts transient failures
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		if call <= 2 {
			return nil, errors.NewProviderRateLimitError("stub", 10*time.Millisecond)
		}
		return nil, errors.NewProviderTransientError("stub", fmt.Errorf("overloaded"))
	}}

	_, err := generateWithRetry(context.Background(), provider, outbound.MealGenerationRequest{DayOfWeek: "monday"}, RetryPolicy{
		MaxAttempts:    2,
		BaseBackoff:    time.Millisecond,
		AttemptTimeout: time.Second,
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Equal(t, errors.CodeProviderFatal, errors.GetCode(err))
	assert.Equal(t, 4, provider.callCount())
}

func TestRetryHonorsCooldownHint(t *testing.T) {
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		if call == 1 {
			return nil, errors.NewProviderRateLimitError("stub", 20*time.Millisecond)
		}
		return providerMeals(req.DayOfWeek), nil
	}}

	start := time.Now()
	meals, err := generateWithRetry(context.Background(), provider, outbound.MealGenerationRequest{DayOfWeek: "friday"}, fastRetry(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Len(t, meals, 3)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRetryStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		cancel()
		return nil, errors.NewProviderTransientError("stub", fmt.Errorf("overloaded"))
	}}

	_, err := generateWithRetry(ctx, provider, outbound.MealGenerationRequest{DayOfWeek: "monday"}, fastRetry(), zaptest.NewLogger(t))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, provider.callCount())
}

func TestRateLimitCooldownFallsBackToRandomWindow(t *testing.T) {
	// no cooldown hint on the error
	err := errors.NewAppError(errors.CodeProviderRateLimited, "rate limited", "")
	for i := 0; i < 20; i++ {
		d := rateLimitCooldown(err)
		assert.GreaterOrEqual(t, d, rateLimitCooldownMin)
		assert.Less(t, d, rateLimitCooldownMax)
	}
}
