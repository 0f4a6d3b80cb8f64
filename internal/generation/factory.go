package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Options selects and configures a backend.
type Options struct {
	Provider       string
	OllamaEndpoint string
	Timeout        time.Duration
	// BreakerFailures consecutive unreachable-server errors open the Ollama
	// circuit for BreakerTimeout. Zero disables it.
	BreakerFailures int
	BreakerTimeout  time.Duration
	Gemini         GeminiConfig
}

// New builds the Generator named by opts.Provider.
func New(ctx context.Context, opts Options, log *slog.Logger) (Generator, error) {
	switch opts.Provider {
	case "", ProviderOllama:
		return NewOllamaClient(opts.OllamaEndpoint, opts.Timeout, log,
			WithBreaker(opts.BreakerFailures, opts.BreakerTimeout)), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, opts.Gemini, log)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", opts.Provider)
	}
}
