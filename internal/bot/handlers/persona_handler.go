package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewPersonaHandler returns a handler for the /persona command.
func NewPersonaHandler(deps HandlerDeps) bot.HandlerFunc {
	return personaHandler{deps}.Handle
}

type personaHandler struct {
	deps HandlerDeps
}

func (h personaHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "persona")
	msg := update.Message

	text := h.changePersona(msg.Text)
	log.InfoContext(ctx, "Handled /persona command", "chat_id", msg.Chat.ID, "user_id", msg.From.ID, "current_persona", h.deps.Session.Persona())

	reply(ctx, h.deps.sender(b), log, msg, text)
}

// changePersona applies the command text and returns the answer for the user.
func (h personaHandler) changePersona(text string) string {
	available := strings.Join(h.deps.Personas.List(), ", ")

	name := strings.ToLower(commandArgument(text))
	if name == "" {
		return "Please specify a combined persona. Use /persona <name>. Available: " + available
	}
	if !h.deps.Personas.Has(name) {
		return "Persona not found. Available personas: " + available
	}

	h.deps.Session.SetPersona(name)
	return "Persona changed to: " + name
}
