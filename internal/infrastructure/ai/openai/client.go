// Package openai implements the meal provider against the OpenAI chat
// completion API.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nutriplan/v1/internal/infrastructure/ai"
	"github.com/nutriplan/v1/internal/ports/outbound"
	apperrors "github.com/nutriplan/v1/pkg/errors"
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const providerName = "openai"

// Config holds OpenAI connection settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Client implements outbound.MealProvider using the OpenAI API.
type Client struct {
	api    *goopenai.Client
	config Config
	logger *zap.Logger
}

// NewClient creates an OpenAI meal provider.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4oMini
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	return &Client{
		api:    goopenai.NewClient(cfg.APIKey),
		config: cfg,
		logger: logger.Named("openai-provider"),
	}
}

// Name identifies the provider in logs and rate limiter keys.
func (c *Client) Name() string { return providerName }

// GenerateMealsForDay asks the model for one day of meals.
func (c *Client) GenerateMealsForDay(ctx context.Context, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
	start := time.Now()

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: ai.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: ai.BuildMealPrompt(req)},
		},
	})
	if err != nil {
		return nil, c.mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewProviderTransientError(providerName,
			errors.New("empty completion"))
	}

	meals, err := ai.ExtractMeals(providerName, resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Generated meals",
		zap.String("day", req.DayOfWeek),
		zap.Int("meals", len(meals)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("elapsed", time.Since(start)),
	)
	return meals, nil
}

// TestConnection verifies the API key by listing models.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return c.mapError(err)
	}
	return nil
}

// mapError translates SDK errors into the generation pipeline's error
// taxonomy. Rate limits and server faults are retryable; auth and
// request errors are not.
func (c *Client) mapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return apperrors.NewProviderRateLimitError(providerName, 0)
		case apiErr.HTTPStatusCode >= 500:
			return apperrors.NewProviderTransientError(providerName, err)
		default:
			return apperrors.NewAppError(
				apperrors.CodeProviderFatal,
				"OpenAI request rejected",
				apiErr.Message,
			).WithCause(err).WithMetadata("provider", providerName)
		}
	}
	// Network level failures and timeouts are worth retrying.
	return apperrors.NewProviderTransientError(providerName, err)
}
