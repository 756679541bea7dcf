// Package container provides dependency injection wiring for the API.
package container

import (
	"context"

	appassessment "github.com/nutriplan/v1/internal/application/assessment"
	"github.com/nutriplan/v1/internal/application/generation"
	"github.com/nutriplan/v1/internal/domain/assessment"
	"github.com/nutriplan/v1/internal/infrastructure/ai/ollama"
	"github.com/nutriplan/v1/internal/infrastructure/ai/openai"
	"github.com/nutriplan/v1/internal/infrastructure/cache"
	"github.com/nutriplan/v1/internal/infrastructure/config"
	"github.com/nutriplan/v1/internal/infrastructure/http/server"
	"github.com/nutriplan/v1/internal/infrastructure/persistence"
	persistencegorm "github.com/nutriplan/v1/internal/infrastructure/persistence/gorm"
	"github.com/nutriplan/v1/internal/ports/inbound"
	"github.com/nutriplan/v1/internal/ports/outbound"
	"github.com/nutriplan/v1/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module wires every application dependency.
var Module = fx.Options(
	fx.Provide(
		NewConfig,
		NewLogger,
		NewDatabase,
		NewCacheRepository,
		persistencegorm.NewSessionRepository,
		persistencegorm.NewProfileRepository,
		persistencegorm.NewPlanRepository,
		NewProviders,
		NewProviderFactory,
		NewRateLimiter,
		NewOrchestrator,
		NewAssessmentService,
		NewHTTPServer,
	),
	fx.Invoke(RunHTTPServer),
)

// NewConfig loads configuration from file and environment.
func NewConfig() (*config.Config, error) {
	return config.Load("")
}

// NewLogger builds the application logger from config.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Environment == "development",
	})
}

// NewDatabase opens the configured database.
func NewDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	return persistence.NewDatabase(cfg.Database, log)
}

// NewCacheRepository connects to Redis when enabled; nil disables the
// rate limiter's persistence mirror.
func NewCacheRepository(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, rate limit counters stay in memory")
		return nil, nil
	}
	return cache.NewRedisRepository(cfg.Redis, log)
}

// NewProviders builds every configured meal provider backend.
func NewProviders(cfg *config.Config, log *zap.Logger) []outbound.MealProvider {
	providers := []outbound.MealProvider{
		ollama.NewClient(ollama.Config{
			BaseURL: cfg.AI.Ollama.BaseURL,
			Model:   cfg.AI.Ollama.Model,
			Timeout: cfg.AI.Ollama.Timeout,
		}, log),
	}
	if cfg.AI.OpenAI.APIKey != "" {
		providers = append(providers, openai.NewClient(openai.Config{
			APIKey:      cfg.AI.OpenAI.APIKey,
			Model:       cfg.AI.OpenAI.Model,
			Temperature: cfg.AI.OpenAI.Temperature,
			MaxTokens:   cfg.AI.OpenAI.MaxTokens,
		}, log))
	}
	return providers
}

// NewProviderFactory builds the provider factory over the configured backends.
func NewProviderFactory(providers []outbound.MealProvider, cfg *config.Config, log *zap.Logger) *generation.ProviderFactory {
	return generation.NewProviderFactory(providers, cfg.AI.Provider, log)
}

// NewRateLimiter builds the provider budget limiter.
func NewRateLimiter(cfg *config.Config, cacheRepo outbound.CacheRepository, log *zap.Logger) *generation.RateLimiter {
	return generation.NewRateLimiter(generation.ProviderBudget{
		RequestsPerMinute: cfg.Generation.RequestsPerMinute,
		TokensPerMinute:   cfg.Generation.TokensPerMinute,
	}, cacheRepo, log)
}

// NewOrchestrator builds the plan generation pipeline.
func NewOrchestrator(
	sessions outbound.SessionRepository,
	profiles outbound.ProfileRepository,
	plans outbound.PlanRepository,
	factory *generation.ProviderFactory,
	limiter *generation.RateLimiter,
	cfg *config.Config,
	log *zap.Logger,
) *generation.Orchestrator {
	return generation.NewOrchestrator(sessions, profiles, plans, factory, limiter, generation.Options{
		Workers:               cfg.Generation.Workers,
		Provider:              cfg.AI.Provider,
		Model:                 providerModel(cfg),
		EstimatedTokensPerDay: cfg.Generation.EstimatedTokensPerDay,
		Retry: generation.RetryPolicy{
			MaxAttempts:    cfg.Generation.MaxAttempts,
			BaseBackoff:    cfg.Generation.BaseBackoff,
			AttemptTimeout: cfg.Generation.AttemptTimeout,
		},
		BackgroundTimeout: cfg.Generation.BackgroundTimeout,
	}, log)
}

func providerModel(cfg *config.Config) string {
	if cfg.AI.Provider == "openai" {
		return cfg.AI.OpenAI.Model
	}
	return cfg.AI.Ollama.Model
}

// NewAssessmentService builds the questionnaire flow engine.
func NewAssessmentService(
	sessions outbound.SessionRepository,
	orchestrator *generation.Orchestrator,
	cfg *config.Config,
	log *zap.Logger,
) inbound.AssessmentService {
	return appassessment.NewAssessmentService(
		sessions,
		orchestrator,
		assessment.ValidationPolicy(cfg.Assessment.ValidationPolicy),
		log,
	)
}

// NewHTTPServer builds the API server.
func NewHTTPServer(
	cfg *config.Config,
	log *zap.Logger,
	assessmentService inbound.AssessmentService,
	orchestrator *generation.Orchestrator,
) *server.Server {
	return server.NewServer(cfg, log, assessmentService, orchestrator)
}

// RunHTTPServer ties the server to the fx lifecycle.
func RunHTTPServer(lc fx.Lifecycle, srv *server.Server, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
