package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the rules that span sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Generation.Provider == "gemini" && strings.TrimSpace(c.Gemini.APIKey) == "" {
		return fmt.Errorf("gemini.api_key is required when generation.provider is gemini")
	}
	return nil
}

// RequireToken reports ErrMissingToken when no Telegram token is configured.
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("%w: %w", ErrConfiguration, ErrMissingToken)
	}
	return nil
}
