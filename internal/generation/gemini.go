package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig holds the settings for the Gemini backend.
type GeminiConfig struct {
	APIKey      string
	Temperature float32
	MaxRetries  int
	RetryDelay  time.Duration
}

// GeminiClient generates replies through the Gemini API. The model argument of
// Generate selects the Gemini model.
type GeminiClient struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	maxRetries    int
	retryDelay    time.Duration
}

// NewGeminiClient creates a Gemini backend.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, log *slog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.Temperature
	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully")
	return &GeminiClient{
		genaiClient: gi,
		log:         logger,
		contentConfig: &genai.GenerateContentConfig{
			Temperature: &temperature,
		},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Generate returns the model's reply or a user-facing failure message.
func (c *GeminiClient) Generate(ctx context.Context, prompt, systemInstruction, model string) string {
	cfg := *c.contentConfig
	if systemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}}
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.generateWithRetries(ctx, model, contents, &cfg)
	if err != nil {
		return ErrorMessage(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.WarnContext(ctx, "Gemini request blocked", "reason", reason)
		return ErrorMessage(fmt.Errorf("request blocked by safety filter: %s", reason))
	}

	text := resp.Text()
	if text == "" {
		c.log.WarnContext(ctx, "Gemini returned empty content", "model", model)
		return ErrorMessage(errors.New("empty response from model"))
	}
	return text
}

func (c *GeminiClient) generateWithRetries(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var err error
	for i := 0; i <= c.maxRetries; i++ {
		var resp *genai.GenerateContentResponse
		resp, err = c.genaiClient.Models.GenerateContent(ctx, model, contents, cfg)
		if err == nil {
			return resp, nil
		}

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) && i < c.maxRetries {
			c.log.InfoContext(ctx, "Retrying Gemini API call", "attempt", i+1, "delay", c.retryDelay, "code", apiErr.Code)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
			continue
		}

		c.log.ErrorContext(ctx, "Gemini API call failed", "attempt", i+1, "error", err)
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return nil, err
}
