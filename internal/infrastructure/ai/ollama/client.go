// Package ollama implements the meal provider against a local Ollama
// instance for inference without an external API dependency.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nutriplan/v1/internal/infrastructure/ai"
	"github.com/nutriplan/v1/internal/ports/outbound"
	apperrors "github.com/nutriplan/v1/pkg/errors"
	"go.uber.org/zap"
)

const providerName = "ollama"

// Config holds Ollama connection settings.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client implements outbound.MealProvider using the Ollama HTTP API.
type Client struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

// NewClient creates an Ollama meal provider.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2:3b"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("ollama-provider"),
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	EvalCount int    `json:"eval_count,omitempty"`
}

// Name identifies the provider in logs and rate limiter keys.
func (c *Client) Name() string { return providerName }

// GenerateMealsForDay asks the local model for one day of meals.
func (c *Client) GenerateMealsForDay(ctx context.Context, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
	start := time.Now()

	body, err := json.Marshal(generateRequest{
		Model:  c.config.Model,
		Prompt: ai.BuildMealPrompt(req),
		System: ai.SystemPrompt,
		Stream: false,
	})
	if err != nil {
		return nil, apperrors.NewProviderTransientError(providerName, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewProviderTransientError(providerName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewProviderTransientError(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, c.statusError(resp.StatusCode, payload)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, apperrors.NewProviderTransientError(providerName, err)
	}

	meals, err := ai.ExtractMeals(providerName, genResp.Response)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Generated meals",
		zap.String("day", req.DayOfWeek),
		zap.Int("meals", len(meals)),
		zap.Int("eval_count", genResp.EvalCount),
		zap.Duration("elapsed", time.Since(start)),
	)
	return meals, nil
}

// TestConnection checks the instance is up and the model is available.
func (c *Client) TestConnection(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return apperrors.NewProviderTransientError(providerName, err)
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return apperrors.NewProviderTransientError(providerName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apperrors.NewProviderTransientError(providerName,
			fmt.Errorf("ollama returned status %d", resp.StatusCode))
	}
	return nil
}

func (c *Client) statusError(status int, payload []byte) error {
	switch {
	case status == http.StatusTooManyRequests:
		return apperrors.NewProviderRateLimitError(providerName, 0)
	case status >= 500, status == http.StatusNotFound:
		// 404 usually means the model is still loading or missing.
		return apperrors.NewProviderTransientError(providerName,
			fmt.Errorf("ollama returned status %d: %s", status, payload))
	default:
		return apperrors.NewAppError(
			apperrors.CodeProviderFatal,
			"Ollama request rejected",
			fmt.Sprintf("status %d: %s", status, payload),
		).WithMetadata("provider", providerName)
	}
}
