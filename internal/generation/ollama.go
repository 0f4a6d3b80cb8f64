package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/edgard/chusbot/internal/resilience"
)

// DefaultOllamaEndpoint is the generate endpoint of a local Ollama server.
const DefaultOllamaEndpoint = "http://localhost:11434/api/generate"

const maxResponseSize = 10 * 1024 * 1024

type ollamaRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response *string `json:"response"`
}

// OllamaClient calls the non-streaming Ollama generate API.
type OllamaClient struct {
	endpoint   string
	httpClient *http.Client
	breaker    *resilience.Breaker
	log        *slog.Logger
}

// OllamaOption customizes an OllamaClient.
type OllamaOption func(*OllamaClient)

// WithBreaker stops calling the server for openTimeout once maxFailures
// consecutive requests could not reach it. Replies during that window are
// MsgServerNotRunning. maxFailures <= 0 disables the breaker.
func WithBreaker(maxFailures int, openTimeout time.Duration) OllamaOption {
	return func(c *OllamaClient) {
		c.breaker = resilience.NewBreaker(resilience.Options{
			Name:        "ollama",
			MaxFailures: maxFailures,
			OpenTimeout: openTimeout,
			Counts:      isConnectionError,
		}, c.log)
	}
}

// NewOllamaClient creates a client for endpoint. A zero timeout leaves requests
// bounded only by the caller's context.
func NewOllamaClient(endpoint string, timeout time.Duration, log *slog.Logger, opts ...OllamaOption) *OllamaClient {
	if endpoint == "" {
		endpoint = DefaultOllamaEndpoint
	}
	if log == nil {
		log = slog.Default()
	}
	c := &OllamaClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With("component", "ollama_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends one request and returns the generated text or a user-facing
// failure message.
func (c *OllamaClient) Generate(ctx context.Context, prompt, systemInstruction, model string) string {
	start := time.Now()

	var text string
	err := c.breaker.Execute(func() error {
		var err error
		text, err = c.generate(ctx, prompt, systemInstruction, model)
		return err
	})
	if err == nil {
		c.log.DebugContext(ctx, "Generated response", "model", model, "duration", time.Since(start), "response_len", len(text))
		return text
	}

	var statusErr *statusError
	switch {
	case resilience.Rejected(err):
		c.log.WarnContext(ctx, "Ollama circuit open, skipping request", "endpoint", c.endpoint, "state", c.breaker.State())
		return MsgServerNotRunning
	case errors.As(err, &statusErr):
		c.log.WarnContext(ctx, "Ollama returned non-OK status", "model", model, "status", statusErr.code, "body", statusErr.body)
		return MsgBadStatus
	case isConnectionError(err):
		c.log.ErrorContext(ctx, "Ollama server unreachable", "endpoint", c.endpoint, "error", err)
		return MsgServerNotRunning
	default:
		c.log.ErrorContext(ctx, "Ollama generation failed", "model", model, "error", err)
		return ErrorMessage(err)
	}
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.code, e.body)
}

func (c *OllamaClient) generate(ctx context.Context, prompt, systemInstruction, model string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  model,
		System: systemInstruction,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", c.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &statusError{code: resp.StatusCode, body: string(body)}
	}

	var out ollamaResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Response == nil {
		return "", errors.New("response field missing from Ollama reply")
	}
	return *out.Response, nil
}

// isConnectionError reports whether err means the endpoint could not be reached
// at all: refused or reset connections and failed name resolution. Timeouts are
// not connection errors.
func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return !opErr.Timeout()
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
