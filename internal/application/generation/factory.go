package generation

import (
	"context"

	"github.com/nutriplan/v1/internal/ports/outbound"
	"go.uber.org/zap"
)

// ProviderFactory resolves meal providers by name. An unknown name logs
// a warning and falls back to the configured default rather than failing
// generation.
type ProviderFactory struct {
	providers   map[string]outbound.MealProvider
	defaultName string
	logger      *zap.Logger
}

// NewProviderFactory creates a factory over the given providers. The
// default must be one of them.
func NewProviderFactory(providers []outbound.MealProvider, defaultName string, logger *zap.Logger) *ProviderFactory {
	byName := make(map[string]outbound.MealProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	if _, ok := byName[defaultName]; !ok && len(providers) > 0 {
		defaultName = providers[0].Name()
	}
	return &ProviderFactory{
		providers:   byName,
		defaultName: defaultName,
		logger:      logger.Named("provider-factory"),
	}
}

// Provider returns the named provider, or the default with a warning
// when the name is unknown.
func (f *ProviderFactory) Provider(name string) outbound.MealProvider {
	if p, ok := f.providers[name]; ok {
		return p
	}
	f.logger.Warn("Unknown meal provider requested, using default",
		zap.String("requested", name),
		zap.String("default", f.defaultName),
	)
	return f.providers[f.defaultName]
}

// Default returns the configured default provider.
func (f *ProviderFactory) Default() outbound.MealProvider {
	return f.providers[f.defaultName]
}

// limitedProvider gates every generation call through the rate limiter
// so budget exhaustion surfaces as a rate limit error on the normal
// retry path.
type limitedProvider struct {
	inner   outbound.MealProvider
	limiter *RateLimiter
	model   string
	tokens  int
}

func (lp *limitedProvider) Name() string { return lp.inner.Name() }

func (lp *limitedProvider) GenerateMealsForDay(ctx context.Context, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
	if lp.limiter != nil {
		if err := lp.limiter.Reserve(ctx, lp.inner.Name(), lp.model, lp.tokens); err != nil {
			return nil, err
		}
	}
	return lp.inner.GenerateMealsForDay(ctx, req)
}

func (lp *limitedProvider) TestConnection(ctx context.Context) error {
	return lp.inner.TestConnection(ctx)
}
