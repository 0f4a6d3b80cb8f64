// Package generation turns a prompt and a persona instruction into reply text.
// Backends never fail past their boundary: every transport or API problem is
// converted into a message that can be shown to the user as-is.
package generation

import (
	"context"
	"fmt"
)

// Provider names accepted by New.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// User-facing replies for failed generations.
const (
	MsgBadStatus        = "Sorry, I couldn't generate a response. There might be an issue with the Ollama server."
	MsgServerNotRunning = "Unable to connect to Ollama server. Please ensure it's running."
	msgErrorFormat      = "An error occurred: %v"
)

// Generator produces reply text for a prompt under a system instruction.
type Generator interface {
	Generate(ctx context.Context, prompt, systemInstruction, model string) string
}

// ErrorMessage formats an unexpected failure for display.
func ErrorMessage(err error) string {
	return fmt.Sprintf(msgErrorFormat, err)
}
