// Package config loads the bot configuration from defaults, an optional YAML
// file, a .env file and environment variables.
package config

import (
	"errors"
	"time"
)

var (
	// ErrConfiguration wraps every failure to load or validate configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrMissingToken means no Telegram bot token was provided.
	ErrMissingToken = errors.New("telegram bot token is not set (set BOT_TELEGRAM_TOKEN or TELEGRAM_BOT_TOKEN)")
)

// Config is the complete application configuration.
type Config struct {
	Logger         LoggerConfig         `mapstructure:"logger"`
	Telegram       TelegramConfig       `mapstructure:"telegram"`
	Generation     GenerationConfig     `mapstructure:"generation"`
	Gemini         GeminiConfig         `mapstructure:"gemini"`
	InteractionLog InteractionLogConfig `mapstructure:"interaction_log"`
	Personas       PersonasConfig       `mapstructure:"personas"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Scheduler      SchedulerConfig      `mapstructure:"scheduler"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	// SetCommands registers the command menu with Telegram at startup.
	SetCommands bool `mapstructure:"set_commands"`
	// TypingIndicator sends a typing chat action before generating.
	TypingIndicator bool `mapstructure:"typing_indicator"`
	// StripMarkdown sends replies as plain text with markdown and HTML removed.
	StripMarkdown bool `mapstructure:"strip_markdown"`
}

type GenerationConfig struct {
	Provider       string        `mapstructure:"provider"        validate:"oneof=ollama gemini"`
	Model          string        `mapstructure:"model"           validate:"required"`
	OllamaEndpoint string        `mapstructure:"ollama_endpoint" validate:"required,url"`
	Timeout        time.Duration `mapstructure:"timeout"         validate:"min=0"`
	// BreakerFailures consecutive connection failures stop Ollama calls for
	// BreakerTimeout. Zero disables the breaker.
	BreakerFailures int           `mapstructure:"breaker_failures" validate:"min=0"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"  validate:"min=0"`
}

type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxRetries  int           `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelay  time.Duration `mapstructure:"retry_delay" validate:"min=0"`
}

type InteractionLogConfig struct {
	Dir      string `mapstructure:"dir"       validate:"required"`
	MaxFiles int    `mapstructure:"max_files" validate:"min=0"`
}

type PersonasConfig struct {
	// File replaces the built-in persona table when set.
	File string `mapstructure:"file"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
	// SessionsListLimit caps the /sessions reply.
	SessionsListLimit int `mapstructure:"sessions_list_limit" validate:"min=1,max=50"`
}

type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}
