package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler represents a command handler with its description and middleware.
type RegisteredHandler struct {
	Pattern     string
	Description string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	// Match selects the updates routed to Handler.
	Match tgbot.MatchFunc
}

// RegisterAllCommands returns every command handler keyed by command. Plain
// messages go to NewMessageHandler, installed as the default handler.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)
	mw := []tgbot.Middleware{RequireSender(deps)}

	command := func(name, description string, h tgbot.HandlerFunc) {
		handlers["/"+name] = RegisteredHandler{
			Pattern:     name,
			Description: description,
			Handler:     h,
			Middleware:  mw,
			Match:       commandMatcher(deps, name),
		}
	}

	command("start", "Start the bot", NewHelpHandler(deps))
	command("help", "Show help and available personas", NewHelpHandler(deps))
	command("botinfo", "Get information about this bot", NewBotInfoHandler(deps))
	command("logfile", "Get the current log file path", NewLogFileHandler(deps))
	command("persona", "Change the bot's personality", NewPersonaHandler(deps))
	command("sessions", "List recent bot sessions", NewSessionsHandler(deps))

	return handlers
}

// BotCommands builds the command menu for SetMyCommands in display order.
func BotCommands(registered map[string]RegisteredHandler) []models.BotCommand {
	order := []string{"start", "help", "persona", "botinfo", "logfile", "sessions"}
	cmds := make([]models.BotCommand, 0, len(registered))
	for _, name := range order {
		if h, ok := registered["/"+name]; ok && h.Description != "" {
			cmds = append(cmds, models.BotCommand{Command: name, Description: h.Description})
		}
	}
	return cmds
}
