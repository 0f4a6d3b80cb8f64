package bot

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/chusbot/internal/interactionlog"
)

// Identity looks up the bot's own account. *bot.Bot from go-telegram
// satisfies it.
type Identity interface {
	GetMe(ctx context.Context) (*models.User, error)
}

// FetchBotInfo builds the session snapshot from the platform identity. When
// the lookup fails the snapshot carries the error instead of identity fields.
func FetchBotInfo(ctx context.Context, id Identity, model, version string) interactionlog.BotInfo {
	me, err := id.GetMe(ctx)
	if err != nil {
		return interactionlog.BotInfo{
			BotID: interactionlog.UnknownBotID,
			Model: model,
			Error: err.Error(),
		}
	}

	isBot := me.IsBot
	supportsInline := me.SupportInlineQueries
	return interactionlog.BotInfo{
		BotID:          interactionlog.NewBotID(me.ID),
		BotUsername:    me.Username,
		BotName:        me.FirstName,
		IsBot:          &isBot,
		SupportsInline: &supportsInline,
		Model:          model,
		Version:        version,
	}
}
