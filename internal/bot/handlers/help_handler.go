package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpHeader = "👋 Welcome to ChusDeBoss Telegram Bot!\n\n" +
	"Commands:\n" +
	"/help - Show this help message\n" +
	"/persona <name> - Change bot's personality\n" +
	"/logfile - Get the current log file path\n" +
	"/botinfo - Get information about this bot\n" +
	"/sessions - List recent bot sessions\n" +
	"Available combined personas:\n  "

// NewHelpHandler returns a handler for the /help and /start commands.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")
	msg := update.Message

	log.InfoContext(ctx, "Handling help command", "chat_id", msg.Chat.ID, "user_id", msg.From.ID)

	reply(ctx, h.deps.sender(b), log, msg, helpText(h.deps.Personas.List()))
}

func helpText(personas []string) string {
	return helpHeader + strings.Join(personas, "\n  ")
}
