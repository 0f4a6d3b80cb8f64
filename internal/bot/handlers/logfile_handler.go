package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLogFileHandler returns a handler for the /logfile command.
func NewLogFileHandler(deps HandlerDeps) bot.HandlerFunc {
	return logFileHandler{deps}.Handle
}

type logFileHandler struct {
	deps HandlerDeps
}

func (h logFileHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "logfile")
	msg := update.Message

	log.InfoContext(ctx, "Handling /logfile command", "chat_id", msg.Chat.ID, "user_id", msg.From.ID)

	reply(ctx, h.deps.sender(b), log, msg, "Current log file: "+h.deps.Log.Path())
}
