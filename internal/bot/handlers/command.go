package handlers

import (
	"strings"
	"unicode"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// parseCommand splits the leading "/name@target" token of text. ok is false
// when text does not start with a command.
func parseCommand(text string) (name, target string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	token := text[1:]
	if i := strings.IndexFunc(token, unicode.IsSpace); i >= 0 {
		token = token[:i]
	}
	name, target, _ = strings.Cut(token, "@")
	if name == "" {
		return "", "", false
	}
	return name, target, true
}

// commandMatcher matches messages starting with /name or /name@bot. A command
// addressed to a different bot does not match once the bot's own username is
// known from the session snapshot.
func commandMatcher(deps HandlerDeps, name string) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		cmd, target, ok := parseCommand(update.Message.Text)
		if !ok || cmd != name {
			return false
		}
		if target == "" {
			return true
		}
		own := botUsername(deps)
		return own == "" || strings.EqualFold(target, own)
	}
}

func botUsername(deps HandlerDeps) string {
	if deps.Log == nil {
		return ""
	}
	if info := deps.Log.BotInfo(); info != nil {
		return info.BotUsername
	}
	return ""
}
