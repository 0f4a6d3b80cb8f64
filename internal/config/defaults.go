package config

import "time"

const (
	DefaultLogLevel = "info"

	DefaultProvider       = "ollama"
	DefaultModel          = "llama3.2:1b"
	DefaultOllamaEndpoint = "http://localhost:11434/api/generate"
	DefaultTimeout        = 2 * time.Minute

	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second

	DefaultGeminiTemperature = 1.0
	DefaultGeminiMaxRetries  = 2
	DefaultGeminiRetryDelay  = 2 * time.Second

	DefaultLogDir      = "logs"
	DefaultMaxLogFiles = 10

	DefaultDBPath            = "data/sessions.db"
	DefaultSessionsListLimit = 5
)

type defaultSetter interface {
	SetDefault(key string, value any)
}

func setDefaults(v defaultSetter) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.set_commands", true)
	v.SetDefault("telegram.typing_indicator", true)
	v.SetDefault("telegram.strip_markdown", false)

	v.SetDefault("generation.provider", DefaultProvider)
	v.SetDefault("generation.model", DefaultModel)
	v.SetDefault("generation.ollama_endpoint", DefaultOllamaEndpoint)
	v.SetDefault("generation.timeout", DefaultTimeout)
	v.SetDefault("generation.breaker_failures", DefaultBreakerFailures)
	v.SetDefault("generation.breaker_timeout", DefaultBreakerTimeout)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	v.SetDefault("gemini.max_retries", DefaultGeminiMaxRetries)
	v.SetDefault("gemini.retry_delay", DefaultGeminiRetryDelay)

	v.SetDefault("interaction_log.dir", DefaultLogDir)
	v.SetDefault("interaction_log.max_files", DefaultMaxLogFiles)

	v.SetDefault("personas.file", "")

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.sessions_list_limit", DefaultSessionsListLimit)

	v.SetDefault("scheduler.tasks.log_stats.enabled", true)
	v.SetDefault("scheduler.tasks.log_stats.schedule", "0 0 * * * *")
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 30 3 * * 0")
}
