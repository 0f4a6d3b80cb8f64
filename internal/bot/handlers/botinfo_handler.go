package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chusbot/internal/interactionlog"
)

const botInfoUnavailable = "Bot information not available."

// NewBotInfoHandler returns a handler for the /botinfo command.
func NewBotInfoHandler(deps HandlerDeps) bot.HandlerFunc {
	return botInfoHandler{deps}.Handle
}

type botInfoHandler struct {
	deps HandlerDeps
}

func (h botInfoHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "botinfo")
	msg := update.Message

	log.InfoContext(ctx, "Handling /botinfo command", "chat_id", msg.Chat.ID, "user_id", msg.From.ID)

	reply(ctx, h.deps.sender(b), log, msg, formatBotInfo(h.deps.Log.BotInfo()))
}

func formatBotInfo(info *interactionlog.BotInfo) string {
	if info == nil {
		return botInfoUnavailable
	}
	username := "N/A"
	if info.BotUsername != "" {
		username = "@" + info.BotUsername
	}
	return fmt.Sprintf("Bot Information:\nUsername: %s\nName: %s\nModel: %s\nVersion: %s",
		username, orNA(info.BotName), orNA(info.Model), orNA(info.Version))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
