package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chusbot/internal/sanitize"
)

const (
	anonymousUsername = "Anonymous"
	typingTimeout     = 3 * time.Second
)

// NewMessageHandler returns the catch-all handler that relays plain messages
// to the generator under the current persona.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	h := messageHandler{deps: deps}
	if deps.Config.Telegram.StripMarkdown {
		h.plain = sanitize.NewPlainTextPolicy()
	}
	return h.Handle
}

type messageHandler struct {
	deps HandlerDeps
	// plain is set when replies are sent without markdown.
	plain *sanitize.Policy
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		log.DebugContext(ctx, "Ignoring update without text message or sender", "update_id", update.ID)
		return
	}
	sender := deps.sender(b)

	userID := msg.From.ID
	username := msg.From.Username
	if username == "" {
		username = anonymousUsername
	}
	personaID := deps.Session.Persona()

	if deps.Config.Telegram.TypingIndicator {
		typingCtx, cancel := context.WithTimeout(ctx, typingTimeout)
		if _, err := sender.SendChatAction(typingCtx, &bot.SendChatActionParams{
			ChatID: msg.Chat.ID,
			Action: models.ChatActionTyping,
		}); err != nil {
			log.DebugContext(ctx, "Failed to send typing action", "error", err, "chat_id", msg.Chat.ID)
		}
		cancel()
	}

	genCtx := ctx
	if timeout := deps.Config.Generation.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	response := deps.Generator.Generate(genCtx, msg.Text, deps.Personas.Get(personaID), deps.Config.Generation.Model)
	log.InfoContext(ctx, "Generated reply", "chat_id", msg.Chat.ID, "user_id", userID, "persona", personaID,
		"duration", time.Since(start), "response_len", len(response))

	if err := deps.Log.RecordInteraction(userID, username, msg.Text, response, personaID); err != nil {
		log.ErrorContext(ctx, "Failed to record interaction", "error", err, "user_id", userID)
	}
	h.countInteraction(ctx)

	if h.plain != nil {
		response = h.plain.PlainText(response)
	}
	reply(ctx, sender, log, msg, response)
}

func (h messageHandler) countInteraction(ctx context.Context) {
	if h.deps.Store == nil || h.deps.Session.ID() == "" {
		return
	}
	dbCtx, cancel := context.WithTimeout(ctx, dbQueryTimeout)
	defer cancel()
	if err := h.deps.Store.IncrementInteractions(dbCtx, h.deps.Session.ID(), time.Now()); err != nil {
		h.deps.Logger.With("handler", "message").WarnContext(ctx, "Failed to update session counters", "error", err)
	}
}
