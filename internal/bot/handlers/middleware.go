// Package handlers contains the Telegram command and message handlers, their
// registration table and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RequireSender drops updates that carry no message or no sender before they
// reach a command handler.
func RequireSender(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				deps.Logger.With("middleware", "RequireSender").DebugContext(ctx,
					"Ignoring update without message or sender", "update_id", update.ID)
				return
			}
			next(ctx, bot, update)
		}
	}
}
